package job

import (
	"regexp"

	"jobsdone/internal/jobfile"
)

// DefaultBranchPatterns matches every branch.
var DefaultBranchPatterns = []string{".*"}

// BranchPatterns returns the branch_patterns of doc, or DefaultBranchPatterns
// when the document does not declare any.
func BranchPatterns(doc *jobfile.Document) []string {
	v, ok := doc.Lookup(jobfile.OptionBranchPatterns)
	if !ok {
		return DefaultBranchPatterns
	}

	patterns, ok := v.StringSlice()
	if !ok {
		return DefaultBranchPatterns
	}

	return patterns
}

// MatchBranch reports whether any pattern matches the start of branch. All
// patterns are compiled first so an invalid one is always reported.
func MatchBranch(patterns []string, branch string) (bool, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)`)
		if err != nil {
			return false, &jobfile.BranchPatternError{Pattern: p, Err: err}
		}

		compiled = append(compiled, re)
	}

	for _, re := range compiled {
		if re.MatchString(branch) {
			return true, nil
		}
	}

	return false, nil
}
