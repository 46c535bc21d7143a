package jobfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yaml := `
matrix:
  planet: [earth, mars]
  version: [1.10, 010, yes, ~]

build_shell_commands:
- make {planet}
- |
  multi_line
  command

planet-mars:description_regex: "MARS\\: (.*)"

parameters:
- choice:
    name: PARAM
    choices: [a, b]
`

	doc, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, doc)

	keys := make([]string, len(doc.Entries))
	for i, e := range doc.Entries {
		keys[i] = e.Key
	}

	// Keys keep declaration order and condition prefixes.
	assert.Equal(t, []string{"matrix", "build_shell_commands", "planet-mars:description_regex", "parameters"}, keys)

	// Scalars are kept as written, never resolved to numbers, booleans or null.
	matrix, ok := doc.Lookup("matrix")
	require.True(t, ok)

	version, ok := matrix.Get("version")
	require.True(t, ok)

	values, ok := version.StringSlice()
	require.True(t, ok)
	assert.Equal(t, []string{"1.10", "010", "yes", "~"}, values)

	commands, ok := doc.Lookup("build_shell_commands")
	require.True(t, ok)
	assert.Equal(t, Strings("make {planet}", "multi_line\ncommand\n"), commands)

	regex, ok := doc.Lookup("planet-mars:description_regex")
	require.True(t, ok)
	assert.Equal(t, Scalar(`MARS\: (.*)`), regex)

	params, ok := doc.Lookup("parameters")
	require.True(t, ok)
	require.Equal(t, KindList, params.Kind)

	choice, ok := params.Items[0].Get("choice")
	require.True(t, ok)
	assert.Equal(t, []string{"name", "choices"}, choice.Keys())
}

func TestParse_Empty(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte("")},
		{"whitespace", []byte("\n\n")},
		{"comment only", []byte("# no options\n")},
		{"null", []byte("null\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.data)
			require.NoError(t, err)
			require.NotNil(t, doc)
			assert.True(t, doc.IsEmpty())
		})
	}

	doc, err := Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestParse_Aliases(t *testing.T) {
	doc, err := Parse([]byte(`
matrix:
  planet: &planets [earth, mars]
junit_patterns: *planets
`))
	require.NoError(t, err)

	v, ok := doc.Lookup("junit_patterns")
	require.True(t, ok)
	assert.Equal(t, Strings("earth", "mars"), v)
}

func TestParse_ExplicitDocumentStart(t *testing.T) {
	doc, err := Parse([]byte("---\njunit_patterns: [a]\n"))
	require.NoError(t, err)
	assert.Len(t, doc.Entries, 1)
}

func TestParse_AliasExpansionIsBounded(t *testing.T) {
	// Each level references the previous one ten times: 10^9 scalars once
	// fully expanded.
	var b strings.Builder

	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")

	for i := 1; i < 9; i++ {
		ref := fmt.Sprintf("*l%d", i-1)
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(ref+", ", 10), ", "))
	}

	_, err := Parse([]byte(b.String()))

	var syntaxErr *DocumentSyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Contains(t, err.Error(), "document expands to too many nodes")
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{"malformed", "matrix: [a\n", "failed to parse YAML"},
		{"top-level list", "- a\n- b\n", "top level must be a mapping, got list"},
		{"top-level scalar", "hello\n", "top level must be a mapping, got scalar"},
		{"duplicate key", "junit_patterns: [a]\njunit_patterns: [b]\n", `duplicate key "junit_patterns"`},
		{"non-scalar key", "? [a, b]\n: c\n", "mapping keys must be scalars"},
		{"multiple documents", "a: [x]\n---\nb: [y]\n", "expected a single document in the stream"},
		{"hidden second document", "junit_patterns:\n- a.xml\n---\nbogus_option: [x]\n", "expected a single document"},
		{"malformed second document", "a: [x]\n---\nb: [y\n", "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))

			var syntaxErr *DocumentSyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	doc, err := LoadFile(filepath.Join(dir, Filename))
	require.NoError(t, err)
	assert.Nil(t, doc, "a missing file is an absent document")

	path := filepath.Join(dir, Filename)
	require.NoError(t, os.WriteFile(path, []byte("junit_patterns: [a]\n"), 0o644))

	doc, err = LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Len(t, doc.Entries, 1)
}

func TestMarshal_KeepsStrings(t *testing.T) {
	v := Mapping(
		Entry{Key: "version", Value: Strings("1.10", "010", "yes", "null", "")},
		Entry{Key: "123", Value: Scalar("true")},
	)

	data, err := Marshal(v)
	require.NoError(t, err)

	doc, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, Mapping(doc.Entries...).Equal(v), "round trip changed the value:\n%s", data)
}
