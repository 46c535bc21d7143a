package jobfile

import (
	"strconv"
	"strings"
)

// Bindings resolves matrix variable names to the value chosen for one row.
type Bindings interface {
	Get(name string) (string, bool)
}

// Condition restricts an option to rows where Variable is set to Value.
type Condition struct {
	Variable string
	Value    string
}

// String returns the condition in document syntax.
func (c Condition) String() string {
	return c.Variable + "-" + c.Value
}

// Key is a parsed top-level document key.
type Key struct {
	// Raw is the key as written in the document.
	Raw string
	// Conditions must all hold for the option to apply.
	Conditions []Condition
	// Option is the base option name.
	Option string
}

// ParseKey parses a key of the form "var1-value1:var2-value2:option".
// A condition splits at its first '-', so values may contain '-' but variable
// names may not.
func ParseKey(raw string) (Key, error) {
	parts := strings.Split(raw, ":")
	key := Key{Raw: raw, Option: parts[len(parts)-1]}

	if key.Option == "" {
		return Key{}, &ConditionError{Key: raw, Message: "missing option name after conditions"}
	}

	for _, part := range parts[:len(parts)-1] {
		variable, value, ok := strings.Cut(part, "-")
		if !ok {
			return Key{}, &ConditionError{Key: raw, Message: "condition " + strconv.Quote(part) + " must have the form <variable>-<value>"}
		}

		if variable == "" || value == "" {
			return Key{}, &ConditionError{Key: raw, Message: "condition " + strconv.Quote(part) + " has an empty variable or value"}
		}

		key.Conditions = append(key.Conditions, Condition{Variable: variable, Value: value})
	}

	return key, nil
}

// IsConditional returns true if the key carries at least one condition.
func (k Key) IsConditional() bool {
	return len(k.Conditions) > 0
}

// Matches reports whether every condition holds for the given row. Keys without
// conditions always match.
func (k Key) Matches(row Bindings) bool {
	for _, c := range k.Conditions {
		v, ok := row.Get(c.Variable)
		if !ok || v != c.Value {
			return false
		}
	}

	return true
}
