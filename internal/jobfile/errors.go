package jobfile

import (
	"fmt"
	"strings"
)

// DocumentSyntaxError is returned when a document is not well-formed YAML or
// does not have the structure of a jobs_done document.
type DocumentSyntaxError struct {
	// Line is the 1-based line of the offending node, 0 if unknown.
	Line    int
	Message string
	Err     error
}

func (e *DocumentSyntaxError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Line > 0 {
		return fmt.Sprintf("invalid jobs_done document: line %d: %s", e.Line, msg)
	}

	return "invalid jobs_done document: " + msg
}

func (e *DocumentSyntaxError) Unwrap() error {
	return e.Err
}

// UnknownOptionError is returned when a document uses an option name that is
// not in the schema.
type UnknownOptionError struct {
	Option string
	// Available lists every recognized option name, sorted.
	Available []string
	// Suggestions lists known names close to Option, best first.
	Suggestions []string
}

func (e *UnknownOptionError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "received unknown option %q", e.Option)

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestions[0])
	}

	b.WriteString("\n\nAvailable options are:")

	for _, name := range e.Available {
		b.WriteString("\n- ")
		b.WriteString(name)
	}

	return b.String()
}

// OptionTypeError is returned when an option value does not have the kind the
// schema expects.
type OptionTypeError struct {
	Option   string
	Got      Kind
	Expected Kind
}

func (e *OptionTypeError) Error() string {
	return fmt.Sprintf("on option %q: expected %q but got %q", e.Option, e.Expected, e.Got)
}

// ConditionError is returned for a malformed condition prefix, a condition on
// a variable the matrix does not declare, or a condition on a core-only
// option.
type ConditionError struct {
	Key     string
	Message string
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("invalid condition in key %q: %s", e.Key, e.Message)
}

// BranchPatternError is returned when a branch_patterns entry is not a valid
// regular expression.
type BranchPatternError struct {
	Pattern string
	Err     error
}

func (e *BranchPatternError) Error() string {
	return fmt.Sprintf("invalid branch pattern %q: %v", e.Pattern, e.Err)
}

func (e *BranchPatternError) Unwrap() error {
	return e.Err
}
