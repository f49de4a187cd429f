package measure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		tok  InputToken
		want ErrorKind
	}{
		{name: "control always valid", mode: ModeError, tok: NewToken(PadControl, KeyClear)},
		{name: "operator from input", mode: ModeInput, tok: NewToken(PadOperator, "+"), want: EmptyExpression},
		{name: "operator from imperial", mode: ModeImperial, tok: NewToken(PadOperator, "x")},
		{name: "operator from scalar", mode: ModeScalar, tok: NewToken(PadOperator, "=")},
		{name: "operator from error", mode: ModeError, tok: NewToken(PadOperator, "/"), want: InvalidExpression},
		{name: "scalar from imperial", mode: ModeImperial, tok: NewToken(PadScalar, "3"), want: MixedType},
		{name: "scalar from input", mode: ModeInput, tok: NewToken(PadScalar, "3")},
		{name: "scalar decimal from scalar", mode: ModeScalar, tok: NewToken(PadScalar, ".")},
		{name: "scalar from error", mode: ModeError, tok: NewToken(PadScalar, "3"), want: InvalidExpression},
		{name: "feet from input", mode: ModeInput, tok: NewToken(PadFeet, "5")},
		{name: "inches fraction from imperial", mode: ModeImperial, tok: NewToken(PadInches, "3/8")},
		{name: "inches from scalar", mode: ModeScalar, tok: NewToken(PadInches, "1"), want: MixedType},
		{name: "feet from error", mode: ModeError, tok: NewToken(PadFeet, "1"), want: InvalidExpression},
		{name: "unknown control key", mode: ModeInput, tok: NewToken(PadControl, "Undo"), want: InvalidExpression},
		{name: "unknown operator", mode: ModeScalar, tok: NewToken(PadOperator, "%"), want: InvalidExpression},
		{name: "decimal on inches pad", mode: ModeInput, tok: NewToken(PadInches, "."), want: InvalidExpression},
		{name: "improper fraction", mode: ModeInput, tok: NewToken(PadInches, "16/16"), want: InvalidExpression},
		{name: "odd denominator", mode: ModeInput, tok: NewToken(PadInches, "1/3"), want: InvalidExpression},
		{name: "multi digit key", mode: ModeInput, tok: NewToken(PadScalar, "12"), want: InvalidExpression},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.mode, tc.tok)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			kind, ok := KindOf(err)
			require.True(t, ok, "expected *Error, got %v", err)
			assert.Equal(t, tc.want, kind)
		})
	}
}

func TestValidateSequence(t *testing.T) {
	feet := NewToken(PadFeet, "5")
	plus := NewToken(PadOperator, "+")
	minus := NewToken(PadOperator, "-")

	assert.NoError(t, ValidateSequence(nil))
	assert.NoError(t, ValidateSequence([]InputToken{feet}))
	assert.NoError(t, ValidateSequence([]InputToken{feet, plus, feet}))
	assert.ErrorIs(t, ValidateSequence([]InputToken{feet, plus, minus}), ErrConsecutiveOperator)
	assert.ErrorIs(t, ValidateSequence([]InputToken{plus, minus, feet}), ErrConsecutiveOperator)
}

func TestValidateNextPrefersConsecutiveOperator(t *testing.T) {
	log := []InputToken{NewToken(PadInches, "4"), NewToken(PadOperator, "+")}

	err := ValidateNext(ModeInput, log, NewToken(PadOperator, "/"))
	assert.ErrorIs(t, err, ErrConsecutiveOperator)

	err = ValidateNext(ModeInput, nil, NewToken(PadOperator, "/"))
	assert.ErrorIs(t, err, ErrEmptyExpression)
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{newError(ConsecutiveOperator), "Cannot enter consecutive operators"},
		{newError(MixedType), "Cannot mix scalar and Imperial measurements"},
		{newError(EmptyExpression), "That doesn't make any sense"},
		{newError(DivisionByZero), "Division by zero"},
		{newError(NoEqualsFound), "No equals operator found"},
		{invalidExpression("test reason"), "Invalid expression: test reason"},
		{unsupported(KindImperial, OpAdd, KindScalar), "Unsupported operation: Imperial + Scalar"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}

func TestErrorIsMatchesKindOnly(t *testing.T) {
	err := invalidExpression("not enough operands")
	assert.True(t, errors.Is(err, ErrInvalidExpression))
	assert.False(t, errors.Is(err, ErrDivisionByZero))

	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestValidateNextRejectsOverlongOperand(t *testing.T) {
	var log []InputToken
	for range 9 {
		log = append(log, NewToken(PadFeet, "9"))
	}

	err := ValidateNext(ModeImperial, log, NewToken(PadFeet, "1"))
	require.ErrorIs(t, err, ErrInvalidExpression)
	assert.Equal(t, "Invalid expression: too many digits for Feet", err.Error())

	assert.NoError(t, ValidateNext(ModeImperial, log, NewToken(PadInches, "1")), "inches have their own limit")
	assert.NoError(t, ValidateNext(ModeImperial, log, NewToken(PadInches, "1/2")))

	log = append(log, NewToken(PadOperator, "+"))
	assert.NoError(t, ValidateNext(ModeInput, log, NewToken(PadFeet, "1")), "a new operand starts from zero")
}
