package job

import (
	"errors"
	"fmt"
	"slices"

	"jobsdone/internal/diagnostic"
	"jobsdone/internal/jobfile"
	"jobsdone/internal/matrix"
	"jobsdone/internal/subst"
)

// Lint checks a document without a repository and reports every problem it
// can find. Errors are the ones Expand would fail on; warnings flag documents
// that expand but probably not as intended.
func Lint(doc *jobfile.Document) diagnostic.Diagnostics {
	var d diagnostic.Diagnostics

	if doc == nil {
		d.AddInfo("no_document", "no jobs_done document, no jobs are generated", "")
		return d
	}

	if err := jobfile.ValidateDocument(doc); err != nil {
		addError(&d, err)
		return d
	}

	if _, err := MatchBranch(BranchPatterns(doc), ""); err != nil {
		addError(&d, err)
	}

	var decl matrix.Declaration

	if v, ok := doc.Lookup(jobfile.OptionMatrix); ok {
		var err error

		decl, err = matrix.FromValue(v)
		if err != nil {
			addError(&d, err)
			return d
		}
	}

	options, err := ConditionalOptions(doc)
	if err != nil {
		addError(&d, err)
		return d
	}

	lintMatrix(&d, decl)
	used := lintOptions(&d, decl, options)

	for _, v := range decl {
		if _, ok := used[v.Name]; !ok {
			d.AddWarning("unused_matrix_variable",
				fmt.Sprintf("matrix variable %q is never used by a condition or placeholder; its jobs only differ by name", v.Name),
				jobfile.OptionMatrix)
		}
	}

	d.AddInfo("job_count", fmt.Sprintf("document expands to %d job(s) per matching branch", decl.Size()), "")

	return d
}

func lintMatrix(d *diagnostic.Diagnostics, decl matrix.Declaration) {
	for _, v := range decl {
		if len(v.Values) == 0 {
			d.AddWarning("empty_matrix_variable",
				fmt.Sprintf("matrix variable %q has no values, the document produces no jobs", v.Name),
				jobfile.OptionMatrix)
		}

		seen := map[string]struct{}{}

		for _, value := range v.Values {
			if _, dup := seen[value]; dup {
				d.AddWarning("duplicate_matrix_value",
					fmt.Sprintf("matrix variable %q lists %q more than once, producing identical jobs", v.Name, value),
					jobfile.OptionMatrix)
			}

			seen[value] = struct{}{}
		}
	}
}

// lintOptions reports unreachable conditions and undefined placeholders and
// returns the set of matrix variables the options refer to.
func lintOptions(d *diagnostic.Diagnostics, decl matrix.Declaration, options []ConditionalOption) map[string]struct{} {
	used := map[string]struct{}{}

	for _, o := range options {
		for _, c := range o.Key.Conditions {
			used[c.Variable] = struct{}{}

			v, ok := decl.Lookup(c.Variable)
			if ok && !slices.Contains(v.Values, c.Value) {
				d.AddWarning("unreachable_condition",
					fmt.Sprintf("condition %q never holds: %q is not a value of %q", c, c.Value, c.Variable),
					o.Key.Raw)
			}
		}

		reported := map[string]struct{}{}

		walkStrings(o.Value, func(s string) {
			for _, name := range subst.Placeholders(s) {
				if name == matrix.ReservedBranch || name == matrix.ReservedName {
					continue
				}

				if _, ok := decl.Lookup(name); ok {
					used[name] = struct{}{}
					continue
				}

				if _, done := reported[name]; done {
					continue
				}

				reported[name] = struct{}{}
				addError(d, &subst.UndefinedPlaceholderError{Placeholder: name, Option: o.Key.Option})
			}
		})
	}

	return used
}

// walkStrings calls fn for every scalar and nested mapping key of v.
func walkStrings(v jobfile.Value, fn func(string)) {
	switch v.Kind {
	case jobfile.KindScalar:
		fn(v.Scalar)
	case jobfile.KindList:
		for _, item := range v.Items {
			walkStrings(item, fn)
		}
	case jobfile.KindMapping:
		for _, e := range v.Entries {
			fn(e.Key)
			walkStrings(e.Value, fn)
		}
	}
}

// addError records err with a code derived from its type.
func addError(d *diagnostic.Diagnostics, err error) {
	var (
		syntaxErr     *jobfile.DocumentSyntaxError
		unknownErr    *jobfile.UnknownOptionError
		typeErr       *jobfile.OptionTypeError
		conditionErr  *jobfile.ConditionError
		branchErr     *jobfile.BranchPatternError
		reservedErr   *matrix.ReservedVariableNameError
		invalidVarErr *matrix.InvalidVariableNameError
		undefinedErr  *subst.UndefinedPlaceholderError
		structuralErr *subst.SubstitutionStructuralError
	)

	switch {
	case errors.As(err, &syntaxErr):
		d.AddError("document_syntax", err.Error(), "")
	case errors.As(err, &unknownErr):
		d.AddError("unknown_option", fmt.Sprintf("received unknown option %q", unknownErr.Option),
			unknownErr.Option, unknownErr.Suggestions...)
	case errors.As(err, &typeErr):
		d.AddError("option_type", err.Error(), typeErr.Option)
	case errors.As(err, &conditionErr):
		d.AddError("condition", err.Error(), conditionErr.Key)
	case errors.As(err, &branchErr):
		d.AddError("branch_pattern", err.Error(), jobfile.OptionBranchPatterns)
	case errors.As(err, &reservedErr):
		d.AddError("reserved_variable", err.Error(), jobfile.OptionMatrix)
	case errors.As(err, &invalidVarErr):
		d.AddError("invalid_variable", err.Error(), jobfile.OptionMatrix)
	case errors.As(err, &undefinedErr):
		d.AddError("undefined_placeholder", err.Error(), undefinedErr.Option)
	case errors.As(err, &structuralErr):
		d.AddError("substitution_structure", err.Error(), structuralErr.Option)
	default:
		d.AddError("invalid_document", err.Error(), "")
	}
}

// Diagnose converts an expansion error into diagnostics.
func Diagnose(err error) diagnostic.Diagnostics {
	var d diagnostic.Diagnostics
	if err != nil {
		addError(&d, err)
	}

	return d
}
