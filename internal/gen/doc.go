// Package gen turns job specifications into CI job artifacts.
//
// A Generator is configured with one job.Spec at a time and produces one
// Artifact for it. Generators are looked up by name in a Registry; the
// artifacts they produce are written out with WriteArtifacts.
//
// Backends live in sub-packages (see gen/jenkins) and register themselves
// with a Registry.
package gen
