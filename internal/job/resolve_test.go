package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"jobsdone/internal/jobfile"
)

func TestResolve(t *testing.T) {
	doc := parse(t, `
matrix:
  planet: [earth, mars]
  moon: [io]

build_shell_commands:
- default
junit_patterns:
- all.xml
planet-mars:build_shell_commands:
- mars
planet-mars:moon-io:description_regex: "mars io"
`)

	options, err := ConditionalOptions(doc)
	require.NoError(t, err)
	require.Len(t, options, 4)

	earth := Resolve(options, row("planet", "earth", "moon", "io"))
	assert.Equal(t, []jobfile.Entry{
		{Key: "build_shell_commands", Value: jobfile.Strings("default")},
		{Key: "junit_patterns", Value: jobfile.Strings("all.xml")},
	}, earth)

	mars := Resolve(options, row("planet", "mars", "moon", "io"))
	assert.Equal(t, []jobfile.Entry{
		{Key: "build_shell_commands", Value: jobfile.Strings("mars")},
		{Key: "junit_patterns", Value: jobfile.Strings("all.xml")},
		{Key: "description_regex", Value: jobfile.Scalar("mars io")},
	}, mars)
}

func TestConditionalOptions_SkipsCoreOptions(t *testing.T) {
	doc := parse(t, `
branch_patterns: [master]
matrix:
  planet: [earth]
junit_patterns: [a]
`)

	options, err := ConditionalOptions(doc)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "junit_patterns", options[0].Key.Option)

	none, err := ConditionalOptions(parse(t, ""))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMatchBranch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		branch   string
		expected bool
	}{
		{"default matches everything", DefaultBranchPatterns, "anything", true},
		{"anchored at start", []string{"fb-"}, "fb-planets", true},
		{"not a search", []string{"planets"}, "fb-planets", false},
		{"any of several", []string{"master", "rb-.*"}, "rb-1.0", true},
		{"alternation stays anchored", []string{"a|b"}, "xb", false},
		{"no patterns", nil, "master", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := MatchBranch(tt.patterns, tt.branch)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestMatchBranch_InvalidPatternAlwaysReported(t *testing.T) {
	_, err := MatchBranch([]string{".*", "("}, "master")

	var patternErr *jobfile.BranchPatternError
	require.ErrorAs(t, err, &patternErr)
	assert.Equal(t, "(", patternErr.Pattern)
}

func TestBranchPatterns(t *testing.T) {
	assert.Equal(t, DefaultBranchPatterns, BranchPatterns(nil))
	assert.Equal(t, DefaultBranchPatterns, BranchPatterns(parse(t, "junit_patterns: [a]\n")))
	assert.Equal(t, []string{"master"}, BranchPatterns(parse(t, "branch_patterns: [master]\n")))
}

func TestSpec_Value(t *testing.T) {
	spec := Spec{
		Repository:         spaceRepo,
		MatrixRow:          row("planet", "earth"),
		BuildShellCommands: []string{"make"},
	}

	v, ok := spec.Option(jobfile.OptionBuildShellCommands)
	require.True(t, ok)
	assert.Equal(t, jobfile.Strings("make"), v)

	_, ok = spec.Option(jobfile.OptionJUnitPatterns)
	assert.False(t, ok)

	_, ok = spec.Option(jobfile.OptionMatrix)
	assert.False(t, ok)

	out, err := jobfile.Marshal(spec.Value())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, map[string]any{
		"repository": map[string]any{"url": "http://space.git", "branch": "milky_way", "name": "space"},
		"matrix_row": map[string]any{"planet": "earth"},
		"options":    map[string]any{"build_shell_commands": []any{"make"}},
	}, got)
}

func TestSpec_EmptyDescriptionRegexIsSet(t *testing.T) {
	specs, err := Expand(parse(t, "description_regex: \"\"\n"), spaceRepo)
	require.NoError(t, err)
	require.Len(t, specs, 1)

	require.NotNil(t, specs[0].DescriptionRegex)
	assert.Empty(t, *specs[0].DescriptionRegex)

	v, ok := specs[0].Option(jobfile.OptionDescriptionRegex)
	require.True(t, ok)
	assert.Equal(t, jobfile.Scalar(""), v)
	assert.Equal(t, []jobfile.Entry{{Key: jobfile.OptionDescriptionRegex, Value: jobfile.Scalar("")}}, specs[0].Options())

	none, err := Expand(parse(t, "junit_patterns: [a]\n"), spaceRepo)
	require.NoError(t, err)
	assert.Nil(t, none[0].DescriptionRegex)

	_, ok = none[0].Option(jobfile.OptionDescriptionRegex)
	assert.False(t, ok)
}
