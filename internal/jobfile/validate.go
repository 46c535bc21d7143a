package jobfile

import (
	"fmt"

	"jobsdone/internal/match"
)

// maxSuggestions bounds the "did you mean" list of an UnknownOptionError.
const maxSuggestions = 3

// ValidateDocument validates the raw document: every key must parse, name a
// known option and hold a value of the expected kind. Conditions may only be
// attached to forwarded options and may only reference declared matrix
// variables. The first problem found is returned.
func ValidateDocument(doc *Document) error {
	if doc.IsEmpty() {
		return nil
	}

	keys := make([]Key, 0, len(doc.Entries))

	for _, e := range doc.Entries {
		key, err := ParseKey(e.Key)
		if err != nil {
			return err
		}

		opt, err := checkOption(key.Option, e.Value)
		if err != nil {
			return err
		}

		if key.IsConditional() && !opt.Forwarded {
			return &ConditionError{
				Key:     e.Key,
				Message: fmt.Sprintf("option %q cannot be conditional", opt.Name),
			}
		}

		switch opt.Name {
		case OptionMatrix:
			err = validateMatrix(e.Value)
		case OptionBranchPatterns:
			err = validateScalarItems(opt.Name, e.Value)
		}

		if err != nil {
			return err
		}

		keys = append(keys, key)
	}

	return validateConditionVariables(doc, keys)
}

// ValidateOptions validates a resolved option set whose keys are base option
// names.
func ValidateOptions(entries []Entry) error {
	for _, e := range entries {
		if _, err := checkOption(e.Key, e.Value); err != nil {
			return err
		}
	}

	return nil
}

// NewUnknownOptionError builds an UnknownOptionError listing the available
// options and the closest known names.
func NewUnknownOptionError(name string) *UnknownOptionError {
	available := OptionNames()

	return &UnknownOptionError{
		Option:      name,
		Available:   available,
		Suggestions: match.Suggest(name, available, maxSuggestions),
	}
}

func checkOption(name string, v Value) (OptionSchema, error) {
	opt, ok := LookupOption(name)
	if !ok {
		return OptionSchema{}, NewUnknownOptionError(name)
	}

	if v.Kind != opt.Kind {
		return OptionSchema{}, &OptionTypeError{Option: name, Got: v.Kind, Expected: opt.Kind}
	}

	return opt, nil
}

func validateMatrix(v Value) error {
	for _, e := range v.Entries {
		name := OptionMatrix + "." + e.Key

		if e.Value.Kind != KindList {
			return &OptionTypeError{Option: name, Got: e.Value.Kind, Expected: KindList}
		}

		if err := validateScalarItems(name, e.Value); err != nil {
			return err
		}
	}

	return nil
}

func validateScalarItems(name string, v Value) error {
	for _, item := range v.Items {
		if item.Kind != KindScalar {
			return &OptionTypeError{Option: name, Got: item.Kind, Expected: KindScalar}
		}
	}

	return nil
}

func validateConditionVariables(doc *Document, keys []Key) error {
	declared := map[string]struct{}{}

	if m, ok := doc.Lookup(OptionMatrix); ok {
		for _, name := range m.Keys() {
			declared[name] = struct{}{}
		}
	}

	for _, key := range keys {
		for _, c := range key.Conditions {
			if _, ok := declared[c.Variable]; !ok {
				return &ConditionError{
					Key:     key.Raw,
					Message: fmt.Sprintf("variable %q is not declared in the matrix", c.Variable),
				}
			}
		}
	}

	return nil
}
