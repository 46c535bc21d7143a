package job

import (
	"jobsdone/internal/jobfile"
	"jobsdone/internal/matrix"
)

// ConditionalOption is a forwarded document option with its parsed key.
type ConditionalOption struct {
	Key   jobfile.Key
	Value jobfile.Value
}

// ConditionalOptions returns the forwarded options of doc in declaration
// order. Core-only options (matrix, branch_patterns) are left out.
func ConditionalOptions(doc *jobfile.Document) ([]ConditionalOption, error) {
	if doc.IsEmpty() {
		return nil, nil
	}

	out := make([]ConditionalOption, 0, len(doc.Entries))

	for _, e := range doc.Entries {
		key, err := jobfile.ParseKey(e.Key)
		if err != nil {
			return nil, err
		}

		opt, ok := jobfile.LookupOption(key.Option)
		if !ok {
			return nil, jobfile.NewUnknownOptionError(key.Option)
		}

		if !opt.Forwarded {
			continue
		}

		out = append(out, ConditionalOption{Key: key, Value: e.Value})
	}

	return out, nil
}

// Resolve returns the options that apply to row, keyed by base option name.
// Options are considered in declaration order: a later applicable key
// overrides an earlier one for the same option but keeps its position.
func Resolve(options []ConditionalOption, row matrix.Row) []jobfile.Entry {
	var out []jobfile.Entry

	pos := make(map[string]int, len(options))

	for _, o := range options {
		if !o.Key.Matches(row) {
			continue
		}

		if i, ok := pos[o.Key.Option]; ok {
			out[i].Value = o.Value
			continue
		}

		pos[o.Key.Option] = len(out)
		out = append(out, jobfile.Entry{Key: o.Key.Option, Value: o.Value})
	}

	return out
}
