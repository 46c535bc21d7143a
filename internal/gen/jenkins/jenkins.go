// Package jenkins renders job specifications as Jenkins freestyle project
// configurations (config.xml).
package jenkins

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"jobsdone/internal/gen"
	"jobsdone/internal/job"
	"jobsdone/internal/jobfile"
	"jobsdone/internal/matrix"
)

// Name is the registry name of the Jenkins generator.
const Name = "jenkins"

// ErrNotConfigured is returned by Generate before a spec was configured.
var ErrNotConfigured = errors.New("jenkins: generator is not configured")

// ConfigError is returned when an option cannot be expressed as Jenkins
// configuration.
type ConfigError struct {
	Option  string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("jenkins: on option %q: %s", e.Option, e.Message)
}

// Register adds the Jenkins generator to r.
func Register(r *gen.Registry) {
	r.Register(Name, func() gen.Generator { return New() })
}

// Generator renders one job.Spec as a Jenkins project.
type Generator struct {
	project *project
}

// New creates an unconfigured Generator.
func New() *Generator {
	return &Generator{}
}

// Name implements gen.Generator.
func (g *Generator) Name() string {
	return Name
}

// Configure implements gen.Generator.
func (g *Generator) Configure(spec job.Spec) error {
	params, err := parseParameters(spec.Parameters)
	if err != nil {
		return err
	}

	tests := make([]testType, 0, len(spec.JUnitPatterns)+len(spec.BoosttestPatterns))
	for _, p := range spec.JUnitPatterns {
		tests = append(tests, testType{Element: "JUnitType", Pattern: p})
	}

	for _, p := range spec.BoosttestPatterns {
		tests = append(tests, testType{Element: "BoostTestJunitHudsonTestType", Pattern: p})
	}

	g.project = &project{
		JobName:          JobName(spec),
		AssignedNode:     AssignedNode(spec),
		URL:              spec.Repository.URL,
		Branch:           spec.Repository.Branch,
		RepositoryName:   spec.Repository.Name,
		Parameters:       params,
		BatchCommands:    spec.BuildBatchCommands,
		ShellCommands:    spec.BuildShellCommands,
		TestTypes:        tests,
	}

	if spec.DescriptionRegex != nil {
		g.project.DescriptionRegex = *spec.DescriptionRegex
	}

	return nil
}

// Generate implements gen.Generator.
func (g *Generator) Generate() (gen.Artifact, error) {
	if g.project == nil {
		return gen.Artifact{}, ErrNotConfigured
	}

	var buf bytes.Buffer
	if err := projectTemplate.Execute(&buf, g.project); err != nil {
		return gen.Artifact{}, fmt.Errorf("executing template: %w", err)
	}

	return gen.Artifact{
		Name:     g.project.JobName,
		Filename: g.project.JobName + ".xml",
		Content:  buf.Bytes(),
	}, nil
}

// jobNameReplacer maps characters Jenkins rejects in job names, path
// separators included, to '_'.
var jobNameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", "%", "_",
)

// JobName returns "<name>-<branch>" followed by the matrix row values ordered
// by variable name, e.g. "space-master-europa-earth". Characters that are not
// allowed in a job name or a file name, such as the '/' of "feature/rockets",
// become '_'.
func JobName(spec job.Spec) string {
	parts := append([]string{spec.Repository.Name, spec.Repository.Branch}, sortedRowValues(spec)...)
	return jobNameReplacer.Replace(strings.Join(parts, "-"))
}

// AssignedNode returns the node label expression for spec: the repository
// name followed by the matrix row values ordered by variable name.
func AssignedNode(spec job.Spec) string {
	parts := append([]string{spec.Repository.Name}, sortedRowValues(spec)...)
	return strings.Join(parts, "-")
}

func sortedRowValues(spec job.Spec) []string {
	row := spec.MatrixRow.Clone()
	slices.SortFunc(row, func(a, b matrix.Binding) int { return strings.Compare(a.Name, b.Name) })

	values := make([]string, len(row))
	for i, b := range row {
		values[i] = b.Value
	}

	return values
}

// parseParameters converts parameters entries such as
//
//	- choice:
//	    name: PARAM
//	    choices: [a, b]
//	    description: text
//	- string:
//	    name: OTHER
//	    default: x
//
// into parameter definitions.
func parseParameters(values []jobfile.Value) ([]parameter, error) {
	params := make([]parameter, 0, len(values))

	for i, v := range values {
		if v.Kind != jobfile.KindMapping || len(v.Entries) != 1 {
			return nil, paramError(i, "expected a mapping with a single parameter type")
		}

		kind, body := v.Entries[0].Key, v.Entries[0].Value
		if kind != paramChoice && kind != paramString {
			return nil, paramError(i, fmt.Sprintf("unknown parameter type %q (expected %q or %q)", kind, paramChoice, paramString))
		}

		if body.Kind != jobfile.KindMapping {
			return nil, paramError(i, fmt.Sprintf("%s parameter must be a mapping", kind))
		}

		p := parameter{Type: kind}

		for _, e := range body.Entries {
			var err error

			switch {
			case e.Key == "name":
				p.Name, err = scalarField(i, kind, e)
			case e.Key == "description":
				p.Description, err = scalarField(i, kind, e)
			case e.Key == "choices" && kind == paramChoice:
				var ok bool
				if p.Choices, ok = e.Value.StringSlice(); !ok {
					err = paramError(i, "choices must be a list of strings")
				}
			case e.Key == "default" && kind == paramString:
				p.Default, err = scalarField(i, kind, e)
			default:
				err = paramError(i, fmt.Sprintf("unknown %s parameter field %q", kind, e.Key))
			}

			if err != nil {
				return nil, err
			}
		}

		if p.Name == "" {
			return nil, paramError(i, fmt.Sprintf("%s parameter requires a name", kind))
		}

		if kind == paramChoice && len(p.Choices) == 0 {
			return nil, paramError(i, fmt.Sprintf("choice parameter %q requires choices", p.Name))
		}

		params = append(params, p)
	}

	return params, nil
}

func scalarField(i int, kind string, e jobfile.Entry) (string, error) {
	if e.Value.Kind != jobfile.KindScalar {
		return "", paramError(i, fmt.Sprintf("%s parameter field %q must be a string", kind, e.Key))
	}

	return e.Value.Scalar, nil
}

func paramError(i int, msg string) *ConfigError {
	return &ConfigError{Option: jobfile.OptionParameters, Message: fmt.Sprintf("item %d: %s", i, msg)}
}
