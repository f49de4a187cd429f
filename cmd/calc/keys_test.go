package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imperilator/internal/measure"
)

func TestParseKeys(t *testing.T) {
	tokens, err := parseKeys("f12 i6 i1/2 * s2.5 = bs clear")

	require.NoError(t, err)
	assert.Equal(t, []measure.InputToken{
		measure.NewToken(measure.PadFeet, "1"),
		measure.NewToken(measure.PadFeet, "2"),
		measure.NewToken(measure.PadInches, "6"),
		measure.NewToken(measure.PadInches, "1/2"),
		measure.NewToken(measure.PadOperator, "x"),
		measure.NewToken(measure.PadScalar, "2"),
		measure.NewToken(measure.PadScalar, "."),
		measure.NewToken(measure.PadScalar, "5"),
		measure.NewToken(measure.PadOperator, "="),
		measure.NewToken(measure.PadControl, measure.KeyBackspace),
		measure.NewToken(measure.PadControl, measure.KeyClear),
	}, tokens)
}

func TestParseKeysRejectsUnknownWords(t *testing.T) {
	for _, script := range []string{"q5", "f", "%"} {
		_, err := parseKeys(script)
		assert.Error(t, err, script)
	}
}
