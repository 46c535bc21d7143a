// Package subst replaces {variable} placeholders inside document values.
//
// Substitution walks the whole value structure and rewrites every string leaf
// and every nested mapping key, so a placeholder behaves the same whether it
// sits in a top-level scalar, a list item or deep inside a mapping.
//
// Placeholder syntax:
//   - {identifier} is replaced by the bound value; identifiers match
//     [A-Za-z_][A-Za-z0-9_]*
//   - {{ and }} produce literal braces
//   - any other brace text, e.g. the "{3}" of a regular expression, is kept
//
// Substituted text is literal. It is never scanned again for placeholders and
// never parsed as YAML.
package subst

import (
	"fmt"
	"strings"

	"jobsdone/internal/jobfile"
)

// UndefinedPlaceholderError is returned when a placeholder has no binding.
type UndefinedPlaceholderError struct {
	Placeholder string
	// Option is the option the placeholder occurred in.
	Option string
}

func (e *UndefinedPlaceholderError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("undefined placeholder {%s}", e.Placeholder)
	}

	return fmt.Sprintf("undefined placeholder {%s} in option %q", e.Placeholder, e.Option)
}

// SubstitutionStructuralError is returned when substitution would break the
// structure of a value, e.g. two mapping keys becoming equal.
type SubstitutionStructuralError struct {
	Option  string
	Key     string
	Message string
}

func (e *SubstitutionStructuralError) Error() string {
	return fmt.Sprintf("substitution breaks option %q at key %q: %s", e.Option, e.Key, e.Message)
}

// Vars maps placeholder names to their values.
type Vars map[string]string

// Entries substitutes placeholders in every value of an option set. The keys
// name the options and are not rewritten.
func Entries(entries []jobfile.Entry, vars Vars) ([]jobfile.Entry, error) {
	out := make([]jobfile.Entry, len(entries))

	for i, e := range entries {
		v, err := Value(e.Value, vars, e.Key)
		if err != nil {
			return nil, err
		}

		out[i] = jobfile.Entry{Key: e.Key, Value: v}
	}

	return out, nil
}

// Value returns a copy of v with placeholders substituted in every string leaf
// and nested mapping key. option is only used in errors.
func Value(v jobfile.Value, vars Vars, option string) (jobfile.Value, error) {
	switch v.Kind {
	case jobfile.KindScalar:
		s, err := substitute(v.Scalar, vars, option)
		if err != nil {
			return jobfile.Value{}, err
		}

		return jobfile.Scalar(s), nil

	case jobfile.KindList:
		items := make([]jobfile.Value, len(v.Items))

		for i, item := range v.Items {
			sub, err := Value(item, vars, option)
			if err != nil {
				return jobfile.Value{}, err
			}

			items[i] = sub
		}

		return jobfile.List(items...), nil

	case jobfile.KindMapping:
		entries := make([]jobfile.Entry, len(v.Entries))
		seen := make(map[string]string, len(v.Entries))

		for i, e := range v.Entries {
			key, err := substitute(e.Key, vars, option)
			if err != nil {
				return jobfile.Value{}, err
			}

			if key == "" {
				return jobfile.Value{}, &SubstitutionStructuralError{
					Option:  option,
					Key:     e.Key,
					Message: "key becomes empty",
				}
			}

			if prev, dup := seen[key]; dup {
				return jobfile.Value{}, &SubstitutionStructuralError{
					Option:  option,
					Key:     e.Key,
					Message: fmt.Sprintf("key collides with %q as %q", prev, key),
				}
			}

			seen[key] = e.Key

			sub, err := Value(e.Value, vars, option)
			if err != nil {
				return jobfile.Value{}, err
			}

			entries[i] = jobfile.Entry{Key: key, Value: sub}
		}

		return jobfile.Mapping(entries...), nil

	default:
		return v, nil
	}
}

// String substitutes placeholders in a single string.
func String(s string, vars Vars) (string, error) {
	return substitute(s, vars, "")
}

// Placeholders returns the distinct placeholder names used in s, in order of
// first appearance.
func Placeholders(s string) []string {
	var names []string

	seen := map[string]struct{}{}

	_ = scan(s, func(name string) (string, error) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}

		return "", nil
	}, nil)

	return names
}

func substitute(s string, vars Vars, option string) (string, error) {
	if !strings.ContainsAny(s, "{}") {
		return s, nil
	}

	var b strings.Builder

	b.Grow(len(s))

	err := scan(s, func(name string) (string, error) {
		val, ok := vars[name]
		if !ok {
			return "", &UndefinedPlaceholderError{Placeholder: name, Option: option}
		}

		return val, nil
	}, &b)
	if err != nil {
		return "", err
	}

	return b.String(), nil
}

// scan walks s, calling resolve for each placeholder and writing the result
// to out when out is not nil.
func scan(s string, resolve func(name string) (string, error), out *strings.Builder) error {
	write := func(str string) {
		if out != nil {
			out.WriteString(str)
		}
	}

	for i := 0; i < len(s); {
		c := s[i]

		switch {
		case c == '{' && i+1 < len(s) && s[i+1] == '{':
			write("{")
			i += 2

		case c == '}' && i+1 < len(s) && s[i+1] == '}':
			write("}")
			i += 2

		case c == '{':
			end := strings.IndexByte(s[i+1:], '}')
			if end >= 0 && IsIdentifier(s[i+1:i+1+end]) {
				val, err := resolve(s[i+1 : i+1+end])
				if err != nil {
					return err
				}

				write(val)
				i += end + 2

				continue
			}

			write("{")
			i++

		default:
			write(s[i : i+1])
			i++
		}
	}

	return nil
}

// IsIdentifier reports whether s can be used as a placeholder name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
