// Package matrix expands a job matrix declaration into rows, one per
// combination of variable values.
//
// Variables keep the order in which the document declares them and the last
// declared variable varies fastest, so the row order is stable across runs:
//
//	planet: [earth, mars]
//	moon:   [europa, io]
//
// expands to (earth, europa), (earth, io), (mars, europa), (mars, io).
package matrix

import (
	"fmt"
	"strings"

	"jobsdone/internal/jobfile"
	"jobsdone/internal/subst"
)

// Reserved names are always bound during placeholder substitution and cannot
// be used as matrix variables.
const (
	ReservedBranch = "branch"
	ReservedName   = "name"
)

// ReservedVariableNameError is returned when a matrix variable collides with a
// reserved name.
type ReservedVariableNameError struct {
	Variable string
}

func (e *ReservedVariableNameError) Error() string {
	return fmt.Sprintf("matrix variable %q uses a reserved name (reserved: %s, %s)",
		e.Variable, ReservedBranch, ReservedName)
}

// InvalidVariableNameError is returned when a matrix variable name cannot be
// referenced as a {placeholder}.
type InvalidVariableNameError struct {
	Variable string
}

func (e *InvalidVariableNameError) Error() string {
	return fmt.Sprintf("matrix variable %q is not a valid name (letters, digits and '_', not starting with a digit)", e.Variable)
}

// Variable is a declared matrix variable and its possible values.
type Variable struct {
	Name   string
	Values []string
}

// Declaration is a matrix declaration in document order.
type Declaration []Variable

// FromValue builds a Declaration from the parsed value of the matrix option.
// The value must already have passed jobfile.ValidateDocument.
func FromValue(v jobfile.Value) (Declaration, error) {
	if v.Kind != jobfile.KindMapping {
		return nil, &jobfile.OptionTypeError{Option: jobfile.OptionMatrix, Got: v.Kind, Expected: jobfile.KindMapping}
	}

	decl := make(Declaration, 0, len(v.Entries))

	for _, e := range v.Entries {
		if e.Key == ReservedBranch || e.Key == ReservedName {
			return nil, &ReservedVariableNameError{Variable: e.Key}
		}

		if !subst.IsIdentifier(e.Key) {
			return nil, &InvalidVariableNameError{Variable: e.Key}
		}

		values, ok := e.Value.StringSlice()
		if !ok {
			return nil, &jobfile.OptionTypeError{
				Option:   jobfile.OptionMatrix + "." + e.Key,
				Got:      e.Value.Kind,
				Expected: jobfile.KindList,
			}
		}

		decl = append(decl, Variable{Name: e.Key, Values: values})
	}

	return decl, nil
}

// Size returns the number of rows Expand produces.
func (d Declaration) Size() int {
	n := 1
	for _, v := range d {
		n *= len(v.Values)
	}

	return n
}

// Lookup returns the declared variable with the given name.
func (d Declaration) Lookup(name string) (Variable, bool) {
	for _, v := range d {
		if v.Name == name {
			return v, true
		}
	}

	return Variable{}, false
}

// Expand returns the Cartesian product of the declaration. An empty
// declaration yields a single empty row; a variable without values yields no
// rows at all.
func Expand(d Declaration) []Row {
	size := d.Size()
	rows := make([]Row, 0, size)

	// idx is an odometer over the value lists, rightmost digit fastest.
	idx := make([]int, len(d))

	for range size {
		row := make(Row, len(d))
		for i, v := range d {
			row[i] = Binding{Name: v.Name, Value: v.Values[idx[i]]}
		}

		rows = append(rows, row)

		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(d[i].Values) {
				break
			}

			idx[i] = 0
		}
	}

	return rows
}

// Binding assigns a value to one matrix variable.
type Binding struct {
	Name  string
	Value string
}

// Row is one combination of matrix values, in declaration order.
type Row []Binding

// Get returns the value bound to name.
func (r Row) Get(name string) (string, bool) {
	for _, b := range r {
		if b.Name == name {
			return b.Value, true
		}
	}

	return "", false
}

// Map returns the row as a plain map.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r))
	for _, b := range r {
		m[b.Name] = b.Value
	}

	return m
}

// String renders the row as "name=value,..." in declaration order.
func (r Row) String() string {
	parts := make([]string, len(r))
	for i, b := range r {
		parts[i] = b.Name + "=" + b.Value
	}

	return strings.Join(parts, ",")
}

// Clone returns a copy of r.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}

	out := make(Row, len(r))
	copy(out, r)

	return out
}
