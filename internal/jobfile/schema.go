package jobfile

import (
	"slices"
	"strings"
)

// Option names recognized in a jobs_done document.
const (
	// OptionBoosttestPatterns lists patterns of Boost.Test result files.
	OptionBoosttestPatterns = "boosttest_patterns"
	// OptionBuildBatchCommands lists batch script commands used to build.
	OptionBuildBatchCommands = "build_batch_commands"
	// OptionBuildShellCommands lists shell script commands used to build.
	OptionBuildShellCommands = "build_shell_commands"
	// OptionDescriptionRegex is matched against the build output and used as
	// the build description.
	OptionDescriptionRegex = "description_regex"
	// OptionJUnitPatterns lists patterns of JUnit result files.
	OptionJUnitPatterns = "junit_patterns"
	// OptionParameters declares build parameters, one mapping per parameter.
	OptionParameters = "parameters"

	// OptionBranchPatterns lists regular expressions matched against the
	// repository branch. Consumed by the expander, never forwarded.
	OptionBranchPatterns = "branch_patterns"
	// OptionMatrix declares the job matrix. Consumed by the expander, never
	// forwarded.
	OptionMatrix = "matrix"
)

// OptionSchema describes one recognized option.
type OptionSchema struct {
	Name string
	Kind Kind
	// Forwarded options reach generators; the others are consumed while
	// expanding the document.
	Forwarded   bool
	Description string
}

// schema is sorted by name and never modified at runtime.
var schema = []OptionSchema{
	{
		Name:        OptionBoosttestPatterns,
		Kind:        KindList,
		Forwarded:   true,
		Description: "patterns of Boost.Test result files",
	},
	{
		Name:        OptionBranchPatterns,
		Kind:        KindList,
		Description: "regular expressions the repository branch must match",
	},
	{
		Name:        OptionBuildBatchCommands,
		Kind:        KindList,
		Forwarded:   true,
		Description: "batch script commands used to build the project",
	},
	{
		Name:        OptionBuildShellCommands,
		Kind:        KindList,
		Forwarded:   true,
		Description: "shell script commands used to build the project",
	},
	{
		Name:        OptionDescriptionRegex,
		Kind:        KindScalar,
		Forwarded:   true,
		Description: "regular expression matched against the build output to set the build description",
	},
	{
		Name:        OptionJUnitPatterns,
		Kind:        KindList,
		Forwarded:   true,
		Description: "patterns of JUnit result files",
	},
	{
		Name:        OptionMatrix,
		Kind:        KindMapping,
		Description: "variables whose combinations produce one job each",
	},
	{
		Name:        OptionParameters,
		Kind:        KindList,
		Forwarded:   true,
		Description: "build parameters, one mapping per parameter",
	},
}

// LookupOption returns the schema entry for name.
func LookupOption(name string) (OptionSchema, bool) {
	i, found := slices.BinarySearchFunc(schema, name, func(o OptionSchema, n string) int {
		return strings.Compare(o.Name, n)
	})
	if !found {
		return OptionSchema{}, false
	}

	return schema[i], true
}

// OptionNames returns every recognized option name, sorted.
func OptionNames() []string {
	names := make([]string, len(schema))
	for i, o := range schema {
		names[i] = o.Name
	}

	return names
}

// ForwardedOptions returns the schema entries of options forwarded to
// generators, sorted by name.
func ForwardedOptions() []OptionSchema {
	var out []OptionSchema

	for _, o := range schema {
		if o.Forwarded {
			out = append(out, o)
		}
	}

	return out
}
