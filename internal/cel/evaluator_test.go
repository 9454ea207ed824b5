package cel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(name string, tags ...string) map[string]any {
	return map[string]any{
		"name": name,
		"path": "Editor/" + name,
		"tags": tags,
		"kind": "none",
	}
}

func TestFilterMatch(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		expr string
		data map[string]any
		want bool
	}{
		{`"EAP" in _.tags`, item("Play", "EAP"), true},
		{`"EAP" in _.tags`, item("Stop", "EAS"), false},
		{`_.name.startsWith("Pl")`, item("Play"), true},
		{`_.path.lowerAscii().contains("editor/")`, item("Step"), true},
		{`size(_.tags) == 0 && _.kind == "none"`, item("Pause"), true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := eval.Compile(tt.expr)
			require.NoError(t, err)
			got, err := f.Match(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	_, err = eval.Compile("   ")
	require.Error(t, err)

	_, err = eval.Compile("_.name ==")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation error")
}

func TestMatchNonBool(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	f, err := eval.Compile("_.name")
	require.NoError(t, err)
	assert.Equal(t, "_.name", f.String())
	_, err = f.Match(item("Play"))
	require.ErrorIs(t, err, ErrNotBool)
}

func TestMatchMissingField(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	f, err := eval.Compile("_.nope == 1")
	require.NoError(t, err)
	_, err = f.Match(item("Play"))
	require.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	got, err := eval.Evaluate("_.name + \"!\"", item("Play"))
	require.NoError(t, err)
	assert.Equal(t, "Play!", got)

	got, err = eval.Evaluate("size(_.tags)", item("Play", "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)

	got, err = eval.Evaluate(`_.tags.map(t, t + "x")`, item("Play", "a"))
	require.NoError(t, err)
	assert.Equal(t, []any{"ax"}, got)
}

func TestFunctions(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	fns := eval.Functions()
	assert.Contains(t, fns, "startsWith")
	assert.Contains(t, fns, "lowerAscii")
	assert.Contains(t, fns, "filter")
	assert.NotContains(t, fns, "_==_")
	assert.IsIncreasing(t, fns)
}
