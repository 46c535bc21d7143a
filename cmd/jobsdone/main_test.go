package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const planetsDocument = `
matrix:
  planet:
  - earth
  - mars

build_shell_commands:
- "make {planet}"

planet-mars:junit_patterns:
- "{name}-mars.xml"
`

// run executes the root command with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--log-level", "error",
	}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), err
}

func writeDocument(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, ".jobs_done.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "jobs")
	writeDocument(t, dir, planetsDocument)

	stdout, err := run(t, "generate", dir, "--url", "http://space.git", "--branch", "milky_way", "--output", out)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(out, "space-milky_way-earth.xml"),
		filepath.Join(out, "space-milky_way-mars.xml"),
	}, strings.Fields(stdout))

	mars, err := os.ReadFile(filepath.Join(out, "space-milky_way-mars.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(mars), "<command>make mars</command>")
	assert.Contains(t, string(mars), "<pattern>space-mars.xml</pattern>")
	assert.Contains(t, string(mars), "<assignedNode>space-mars</assignedNode>")

	earth, err := os.ReadFile(filepath.Join(out, "space-milky_way-earth.xml"))
	require.NoError(t, err)
	assert.NotContains(t, string(earth), "<xunit>")
}

func TestGenerate_BranchNotMatched(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "jobs")
	writeDocument(t, dir, "branch_patterns:\n- master\n")

	stdout, err := run(t, "generate", dir, "--url", "http://space.git", "--branch", "fb-other", "--output", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.NoDirExists(t, out)
}

func TestGenerate_InvalidDocument(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "junit_pattern:\n- a\n")

	_, err := run(t, "generate", dir, "--url", "http://space.git", "--output", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `received unknown option "junit_pattern"`)
}

func TestExpand(t *testing.T) {
	path := writeDocument(t, t.TempDir(), planetsDocument)

	stdout, err := run(t, "expand", path, "--url", "http://space.git", "--name", "galaxy")
	require.NoError(t, err)

	var specs []struct {
		Repository map[string]string   `yaml:"repository"`
		MatrixRow  map[string]string   `yaml:"matrix_row"`
		Options    map[string][]string `yaml:"options"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &specs))
	require.Len(t, specs, 2)

	for _, spec := range specs {
		assert.Equal(t, map[string]string{"url": "http://space.git", "branch": "master", "name": "galaxy"}, spec.Repository)
	}

	assert.Equal(t, map[string]string{"planet": "earth"}, specs[0].MatrixRow)
	assert.Equal(t, map[string][]string{"build_shell_commands": {"make earth"}}, specs[0].Options)

	assert.Equal(t, map[string]string{"planet": "mars"}, specs[1].MatrixRow)
	assert.Equal(t, map[string][]string{
		"build_shell_commands": {"make mars"},
		"junit_patterns":       {"galaxy-mars.xml"},
	}, specs[1].Options)
}

func TestExpand_Dump(t *testing.T) {
	path := writeDocument(t, t.TempDir(), planetsDocument)

	stdout, err := run(t, "expand", path, "--url", "http://space.git", "--format", "dump")
	require.NoError(t, err)
	assert.Contains(t, stdout, "job.Spec")
	assert.Contains(t, stdout, `"make mars"`)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeDocument(t, dir, planetsDocument)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("matrix:\n  planet: [earth]\nplanet-pluto:junit_patterns:\n- a\njunit_pattern:\n- b\n"), 0o644))

	stdout, err := run(t, "check", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[job_count]")

	stdout, err = run(t, "check", "--quiet", good, bad, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 error(s) found")
	assert.Contains(t, stdout, "[unknown_option]")
	assert.Contains(t, stdout, "did you mean junit_patterns")
	assert.Contains(t, stdout, "[missing_document]")
	assert.NotContains(t, stdout, "[job_count]")
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := run(t, "check", "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
