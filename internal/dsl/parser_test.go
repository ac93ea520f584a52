package dsl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Dataflow/internal/domain"
)

func TestParse_Pipeline(t *testing.T) {
	steps, err := Parse("extract | transform | load")
	require.NoError(t, err)

	require.Len(t, steps, 3)
	assert.Equal(t, []string{"extract", "transform", "load"}, roles(steps))
	for _, s := range steps {
		assert.Equal(t, domain.AppTypeTask, s.AppType)
		assert.Empty(t, s.Qualifier)
		assert.Nil(t, s.Args)
	}
}

func TestParse_SingleApp(t *testing.T) {
	steps, err := Parse("timestamp")
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, domain.AppStep{Role: "timestamp", AppName: "timestamp", AppType: domain.AppTypeTask}, steps[0])
}

func TestParse_FullStep(t *testing.T) {
	steps, err := Parse(`ingest: app/extract@1.2.0 --source=s3://bucket/in --format="csv, gz" --mode='fast'`)
	require.NoError(t, err)
	require.Len(t, steps, 1)

	s := steps[0]
	assert.Equal(t, "ingest", s.Role)
	assert.Equal(t, "extract", s.AppName)
	assert.Equal(t, domain.AppTypeApp, s.AppType)
	assert.Equal(t, "1.2.0", s.Qualifier)
	assert.Equal(t, map[string]string{
		"source": "s3://bucket/in",
		"format": "csv, gz",
		"mode":   "fast",
	}, s.Args)
	assert.Equal(t, "app:extract@1.2.0", s.Reference())
}

func TestParse_ComposedWithSplit(t *testing.T) {
	dsl := `
		# подготовка
		prepare &&
		<left: copy --target=a || right: copy --target=b> # параллельно
		&& merge
	`
	steps, err := Parse(dsl)
	require.NoError(t, err)
	assert.Equal(t, []string{"prepare", "left", "right", "merge"}, roles(steps))
	assert.Equal(t, "copy", steps[1].AppName)
	assert.Equal(t, "copy", steps[2].AppName)
}

func TestParse_WhitespaceNormalized(t *testing.T) {
	a, err := Parse("extract|transform|load")
	require.NoError(t, err)
	b, err := Parse("  extract \n |\ttransform   |  load  # tail comment")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParse_Deterministic(t *testing.T) {
	const dsl = "a: app/x@1 --k=v && b: task/y | <c || d>"
	first, err := Parse(dsl)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Parse(dsl)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		dsl  string
		want error
	}{
		{name: "empty", dsl: "", want: ErrEmptyDSL},
		{name: "only comment", dsl: "  # nothing here", want: ErrEmptyDSL},
		{name: "trailing pipe", dsl: "extract |", want: ErrTrailingOperator},
		{name: "trailing and", dsl: "extract && ", want: ErrTrailingOperator},
		{name: "leading pipe", dsl: "| extract", want: ErrUnexpectedToken},
		{name: "double pipe outside split", dsl: "a || b", want: ErrUnexpectedToken},
		{name: "single ampersand", dsl: "a & b", want: ErrUnexpectedToken},
		{name: "missing operator", dsl: "a b", want: ErrUnexpectedToken},
		{name: "label without app", dsl: "lbl:", want: ErrTrailingOperator},
		{name: "qualifier without version", dsl: "extract@ | load", want: ErrBadQualifier},
		{name: "qualifier at end", dsl: "extract@", want: ErrBadQualifier},
		{name: "unknown type", dsl: "stream/extract", want: ErrUnknownAppType},
		{name: "unclosed split", dsl: "<a || b", want: ErrUnmatchedSplit},
		{name: "stray close", dsl: "a > b", want: ErrUnmatchedSplit},
		{name: "trailing or in split", dsl: "<a ||", want: ErrTrailingOperator},
		{name: "argument without value", dsl: "a --flag", want: ErrBadArgument},
		{name: "argument without key", dsl: "a --=x", want: ErrBadArgument},
		{name: "unterminated quote", dsl: `a --k="oops`, want: ErrUnterminatedQuote},
		{name: "duplicate app", dsl: "copy && copy", want: ErrDuplicateRole},
		{name: "duplicate label", dsl: "x: a && x: b", want: ErrDuplicateRole},
		{name: "bad character", dsl: "a | $b", want: ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := Parse(tt.dsl)
			require.Error(t, err)
			assert.Nil(t, steps)

			var mErr *MalformedDSLError
			require.True(t, errors.As(err, &mErr), "expected MalformedDSLError, got %T", err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("extract | transform |")

	var mErr *MalformedDSLError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, 20, mErr.Pos)
	assert.Contains(t, err.Error(), "malformed dsl at 20")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("a | b"))
	assert.ErrorIs(t, Validate("a |"), ErrTrailingOperator)
}

func roles(steps []domain.AppStep) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Role
	}
	return out
}
