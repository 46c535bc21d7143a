package subst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsdone/internal/jobfile"
)

func TestString(t *testing.T) {
	vars := Vars{"planet": "earth", "branch": "milky_way", "name": "space"}

	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"no placeholders", "plain text", "plain text"},
		{"single", "{planet}", "earth"},
		{"embedded", "{planet}-{branch}.xml", "earth-milky_way.xml"},
		{"repeated", "{name}/{name}", "space/space"},
		{"escaped braces", "{{planet}}", "{planet}"},
		{"escaped next to placeholder", "{{{planet}}}", "{earth}"},
		{"regex quantifier kept", `a{3}\d{1,2}`, `a{3}\d{1,2}`},
		{"lone braces kept", "{ } {", "{ } {"},
		{"unterminated", "{planet", "{planet"},
		{"value is not rescanned", "{planet}", "earth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(tt.in, vars)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestString_ValueIsLiteral(t *testing.T) {
	got, err := String("{a}", Vars{"a": "{b}: [x, y]", "b": "nope"})
	require.NoError(t, err)
	assert.Equal(t, "{b}: [x, y]", got)
}

func TestString_Undefined(t *testing.T) {
	_, err := String("{planet}-{sun}", Vars{"planet": "earth"})

	var undefined *UndefinedPlaceholderError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "sun", undefined.Placeholder)
	assert.Equal(t, "undefined placeholder {sun}", err.Error())
}

func TestValue_SameAtEveryDepth(t *testing.T) {
	vars := Vars{"a": "1"}

	in := jobfile.List(
		jobfile.Scalar("top-{a}"),
		jobfile.Mapping(jobfile.Entry{
			Key: "choice",
			Value: jobfile.Mapping(
				jobfile.Entry{Key: "name", Value: jobfile.Scalar("top-{a}")},
				jobfile.Entry{Key: "choices", Value: jobfile.Strings("top-{a}", "plain")},
			),
		}),
	)

	got, err := Value(in, vars, "parameters")
	require.NoError(t, err)

	assert.Equal(t, "top-1", got.Items[0].Scalar)

	choice, ok := got.Items[1].Get("choice")
	require.True(t, ok)

	name, ok := choice.Get("name")
	require.True(t, ok)
	assert.Equal(t, "top-1", name.Scalar)

	choices, ok := choice.Get("choices")
	require.True(t, ok)
	assert.Equal(t, jobfile.Strings("top-1", "plain"), choices)

	// The input is left untouched.
	assert.Equal(t, "top-{a}", in.Items[0].Scalar)
}

func TestValue_Keys(t *testing.T) {
	in := jobfile.Mapping(
		jobfile.Entry{Key: "{planet}_param", Value: jobfile.Scalar("x")},
	)

	got, err := Value(in, Vars{"planet": "earth"}, "parameters")
	require.NoError(t, err)
	assert.Equal(t, []string{"earth_param"}, got.Keys())
}

func TestValue_StructuralErrors(t *testing.T) {
	t.Run("keys collide", func(t *testing.T) {
		in := jobfile.Mapping(
			jobfile.Entry{Key: "{a}", Value: jobfile.Scalar("1")},
			jobfile.Entry{Key: "x", Value: jobfile.Scalar("2")},
		)

		_, err := Value(in, Vars{"a": "x"}, "parameters")

		var structural *SubstitutionStructuralError
		require.ErrorAs(t, err, &structural)
		assert.Equal(t, "parameters", structural.Option)
		assert.Equal(t, "x", structural.Key)
	})

	t.Run("key becomes empty", func(t *testing.T) {
		in := jobfile.Mapping(jobfile.Entry{Key: "{a}", Value: jobfile.Scalar("1")})

		_, err := Value(in, Vars{"a": ""}, "parameters")

		var structural *SubstitutionStructuralError
		require.ErrorAs(t, err, &structural)
		assert.Equal(t, "{a}", structural.Key)
	})
}

func TestEntries(t *testing.T) {
	entries := []jobfile.Entry{
		{Key: "junit_patterns", Value: jobfile.Strings("{planet}.xml")},
		{Key: "description_regex", Value: jobfile.Scalar("{sun}")},
	}

	_, err := Entries(entries, Vars{"planet": "earth"})

	var undefined *UndefinedPlaceholderError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "sun", undefined.Placeholder)
	assert.Equal(t, "description_regex", undefined.Option)

	got, err := Entries(entries[:1], Vars{"planet": "earth"})
	require.NoError(t, err)
	assert.Equal(t, []jobfile.Entry{{Key: "junit_patterns", Value: jobfile.Strings("earth.xml")}}, got)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"planet", "branch"}, Placeholders("{planet}-{branch}-{planet} {{moon}} a{3}"))
	assert.Nil(t, Placeholders("plain"))
}
