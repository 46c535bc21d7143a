// Package jobfile provides parsing, the option schema and validation for
// jobs_done documents.
//
// A jobs_done document is a YAML mapping that lives in the root of a
// repository (see Filename). It describes one CI job, or a family of jobs when
// a matrix is declared.
//
// # Document Overview
//
//	branch_patterns:
//	  - master
//	  - fb-.*
//	matrix:
//	  planet: [earth, mars]
//	  moon: [europa]
//	junit_patterns:
//	  - "{planet}-{branch}.xml"
//	planet-mars:build_shell_commands:
//	  - ./build --red
//
// # Raw Scalars
//
// Every scalar keeps its literal text. "true" stays the four-character string
// and "010" is not read as a number. The schema decides the shape of each
// option; YAML scalar typing never does.
//
// # Keys
//
// A top-level key is an option name optionally prefixed by conditions, each
// terminated by ':' and written as <variable>-<value>. See ParseKey.
//
// # Validation
//
// ValidateDocument checks the raw document: every base option name must be
// known and its value must have the kind the schema expects. ValidateOptions
// applies the same checks to the option set of a single matrix row after
// conditions and placeholders have been resolved.
package jobfile
