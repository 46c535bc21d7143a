package gen

import (
	"fmt"
	"slices"
	"strings"

	"jobsdone/internal/job"
	"jobsdone/internal/match"
)

// Artifact is one generated job definition.
type Artifact struct {
	// Name is the CI job name, e.g. "space-milky_way-earth".
	Name string
	// Filename is relative to the output directory.
	Filename string
	// Content is the rendered job definition.
	Content []byte
}

// Generator renders job specifications for one CI backend.
type Generator interface {
	// Name returns the backend name, e.g. "jenkins".
	Name() string
	// Configure loads a spec, replacing any previously configured one.
	Configure(spec job.Spec) error
	// Generate renders the configured spec.
	Generate() (Artifact, error)
}

// Factory creates a fresh Generator.
type Factory func() Generator

// UnknownGeneratorError is returned when no generator is registered under a
// name.
type UnknownGeneratorError struct {
	Name        string
	Available   []string
	Suggestions []string
}

func (e *UnknownGeneratorError) Error() string {
	msg := fmt.Sprintf("unknown generator %q", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestions[0])
	}

	return msg + "; available: " + strings.Join(e.Available, ", ")
}

// Registry maps generator names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Registering a name twice panics.
func (r *Registry) Register(name string, factory Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("gen: generator %q registered twice", name))
	}

	r.factories[name] = factory
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, error) {
	factory, ok := r.factories[name]
	if !ok {
		names := r.Names()

		return nil, &UnknownGeneratorError{
			Name:        name,
			Available:   names,
			Suggestions: match.Suggest(name, names, 1),
		}
	}

	return factory, nil
}

// Names returns the registered generator names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// GenerateAll renders every spec with a fresh generator from factory. The
// artifacts keep the order of specs. Two specs rendering to the same filename
// is an error.
func GenerateAll(factory Factory, specs []job.Spec) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(specs))
	seen := make(map[string]int, len(specs))

	for i, spec := range specs {
		g := factory()

		if err := g.Configure(spec); err != nil {
			return nil, fmt.Errorf("configuring %s job %d: %w", g.Name(), i, err)
		}

		artifact, err := g.Generate()
		if err != nil {
			return nil, fmt.Errorf("generating %s job %d: %w", g.Name(), i, err)
		}

		if prev, dup := seen[artifact.Filename]; dup {
			return nil, fmt.Errorf("jobs %d and %d both generate %s", prev, i, artifact.Filename)
		}

		seen[artifact.Filename] = i
		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}
