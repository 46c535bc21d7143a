package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning("unused_matrix_variable", "variable \"moon\" is never used", "matrix")
	d.AddInfo("job_count", "document expands to 2 jobs", "")
	assert.False(t, d.HasErrors())

	d.AddError("unknown_option", "received unknown option \"junit_pattern\"", "junit_pattern", "junit_patterns")
	assert.True(t, d.HasErrors())
	assert.Len(t, d.All(), 3)
	assert.Equal(t, SeverityError, d.All()[0].Severity)

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t,
		`junit_pattern: [unknown_option] received unknown option "junit_pattern" (did you mean junit_patterns?)`,
		err.Error())
}

func TestDiagnostics_ForDocumentAndMerge(t *testing.T) {
	var a, b Diagnostics

	a.AddError("option_type", "bad", "matrix")
	b.AddWarning("empty_matrix_variable", "empty", "matrix")

	tagged := a.ForDocument("repo/.jobs_done.yaml")
	assert.Equal(t, "repo/.jobs_done.yaml", tagged.Errors[0].Document)
	assert.Empty(t, a.Errors[0].Document, "ForDocument must not modify the receiver")

	tagged.Merge(b)
	assert.Len(t, tagged.Errors, 1)
	assert.Len(t, tagged.Warnings, 1)
	assert.Equal(t, "repo/.jobs_done.yaml: matrix: [option_type] bad", tagged.Errors[0].String())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
