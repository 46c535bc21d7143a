package job

import (
	"jobsdone/internal/jobfile"
	"jobsdone/internal/matrix"
	"jobsdone/internal/repository"
)

// Spec is a fully resolved job: one matrix row of a jobs_done document with
// every condition applied and every placeholder substituted.
//
// Each forwarded option has its own field. A nil slice or a nil
// DescriptionRegex means the document did not set the option; an empty
// value means it did.
type Spec struct {
	// Repository the job is generated for.
	Repository repository.Repository
	// MatrixRow that produced the job; empty when no matrix is declared.
	MatrixRow matrix.Row

	BoosttestPatterns  []string
	BuildBatchCommands []string
	BuildShellCommands []string
	DescriptionRegex   *string
	JUnitPatterns      []string
	// Parameters holds one value per build parameter, usually a mapping
	// such as {choice: {name: ..., choices: [...]}}.
	Parameters []jobfile.Value
}

// optionField binds a forwarded option name to its Spec field.
type optionField struct {
	name string
	set  func(s *Spec, v jobfile.Value) error
	get  func(s *Spec) (jobfile.Value, bool)
}

// optionFields lists every forwarded option, sorted by name.
var optionFields = []optionField{
	stringListField(jobfile.OptionBoosttestPatterns, func(s *Spec) *[]string { return &s.BoosttestPatterns }),
	stringListField(jobfile.OptionBuildBatchCommands, func(s *Spec) *[]string { return &s.BuildBatchCommands }),
	stringListField(jobfile.OptionBuildShellCommands, func(s *Spec) *[]string { return &s.BuildShellCommands }),
	{
		name: jobfile.OptionDescriptionRegex,
		set: func(s *Spec, v jobfile.Value) error {
			if v.Kind != jobfile.KindScalar {
				return &jobfile.OptionTypeError{Option: jobfile.OptionDescriptionRegex, Got: v.Kind, Expected: jobfile.KindScalar}
			}

			regex := v.Scalar
			s.DescriptionRegex = &regex

			return nil
		},
		get: func(s *Spec) (jobfile.Value, bool) {
			if s.DescriptionRegex == nil {
				return jobfile.Value{}, false
			}

			return jobfile.Scalar(*s.DescriptionRegex), true
		},
	},
	stringListField(jobfile.OptionJUnitPatterns, func(s *Spec) *[]string { return &s.JUnitPatterns }),
	{
		name: jobfile.OptionParameters,
		set: func(s *Spec, v jobfile.Value) error {
			if v.Kind != jobfile.KindList {
				return &jobfile.OptionTypeError{Option: jobfile.OptionParameters, Got: v.Kind, Expected: jobfile.KindList}
			}

			s.Parameters = make([]jobfile.Value, len(v.Items))
			for i, item := range v.Items {
				s.Parameters[i] = item.Clone()
			}

			return nil
		},
		get: func(s *Spec) (jobfile.Value, bool) {
			if s.Parameters == nil {
				return jobfile.Value{}, false
			}

			return jobfile.List(s.Parameters...).Clone(), true
		},
	},
}

func stringListField(name string, field func(s *Spec) *[]string) optionField {
	return optionField{
		name: name,
		set: func(s *Spec, v jobfile.Value) error {
			if v.Kind != jobfile.KindList {
				return &jobfile.OptionTypeError{Option: name, Got: v.Kind, Expected: jobfile.KindList}
			}

			out := make([]string, 0, len(v.Items))

			for _, item := range v.Items {
				if item.Kind != jobfile.KindScalar {
					return &jobfile.OptionTypeError{Option: name, Got: item.Kind, Expected: jobfile.KindScalar}
				}

				out = append(out, item.Scalar)
			}

			*field(s) = out

			return nil
		},
		get: func(s *Spec) (jobfile.Value, bool) {
			list := *field(s)
			if list == nil {
				return jobfile.Value{}, false
			}

			return jobfile.Strings(list...), true
		},
	}
}

func lookupField(name string) (optionField, bool) {
	for _, f := range optionFields {
		if f.name == name {
			return f, true
		}
	}

	return optionField{}, false
}

// newSpec builds a Spec from a validated, substituted option set.
func newSpec(repo repository.Repository, row matrix.Row, options []jobfile.Entry) (Spec, error) {
	spec := Spec{Repository: repo, MatrixRow: row.Clone()}

	for _, e := range options {
		f, ok := lookupField(e.Key)
		if !ok {
			return Spec{}, jobfile.NewUnknownOptionError(e.Key)
		}

		if err := f.set(&spec, e.Value); err != nil {
			return Spec{}, err
		}
	}

	return spec, nil
}

// Option returns the value of a forwarded option and whether the document set
// it.
func (s *Spec) Option(name string) (jobfile.Value, bool) {
	f, ok := lookupField(name)
	if !ok {
		return jobfile.Value{}, false
	}

	return f.get(s)
}

// Options returns the forwarded options set on the spec, sorted by name.
func (s *Spec) Options() []jobfile.Entry {
	var out []jobfile.Entry

	for _, f := range optionFields {
		if v, ok := f.get(s); ok {
			out = append(out, jobfile.Entry{Key: f.name, Value: v})
		}
	}

	return out
}

// Value renders the spec as a document value: repository, matrix row and
// options, in a fixed order.
func (s *Spec) Value() jobfile.Value {
	row := make([]jobfile.Entry, len(s.MatrixRow))
	for i, b := range s.MatrixRow {
		row[i] = jobfile.Entry{Key: b.Name, Value: jobfile.Scalar(b.Value)}
	}

	return jobfile.Mapping(
		jobfile.Entry{Key: "repository", Value: jobfile.Mapping(
			jobfile.Entry{Key: "url", Value: jobfile.Scalar(s.Repository.URL)},
			jobfile.Entry{Key: "branch", Value: jobfile.Scalar(s.Repository.Branch)},
			jobfile.Entry{Key: "name", Value: jobfile.Scalar(s.Repository.Name)},
		)},
		jobfile.Entry{Key: "matrix_row", Value: jobfile.Mapping(row...)},
		jobfile.Entry{Key: "options", Value: jobfile.Mapping(s.Options()...)},
	)
}
