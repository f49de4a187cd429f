package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState(0)

	assert.Equal(t, ModeInput, s.Mode)
	assert.Equal(t, 16, s.Denominator)
	assert.Equal(t, Pad(""), s.ActivePad)
	assert.Equal(t, PadValue{Denominator: 16}, s.Measurements.Feet)
	assert.Equal(t, "", s.Measurements.Scalar.Value)
}

func TestApplyImperialAccumulates(t *testing.T) {
	s := ApplyAll(NewState(16), []InputToken{
		NewToken(PadFeet, "1"),
		NewToken(PadFeet, "2"),
		NewToken(PadInches, "3"),
		NewToken(PadInches, "1/4"),
		NewToken(PadInches, "3/8"),
	})

	assert.Equal(t, ModeImperial, s.Mode)
	assert.Equal(t, PadInches, s.ActivePad)
	assert.Equal(t, 12, s.Measurements.Feet.Whole)
	assert.Equal(t, PadValue{Whole: 3, Numerator: 3, Denominator: 8}, s.Measurements.Inches)
}

func TestApplyScalarDecimalOnlyOnce(t *testing.T) {
	s := ApplyAll(NewState(16), []InputToken{
		NewToken(PadScalar, "3"),
		NewToken(PadScalar, "."),
		NewToken(PadScalar, "1"),
		NewToken(PadScalar, "."),
		NewToken(PadScalar, "4"),
	})

	assert.Equal(t, ModeScalar, s.Mode)
	assert.Equal(t, "3.14", s.Measurements.Scalar.Value)
}

func TestApplyOperatorTransitions(t *testing.T) {
	s := Apply(NewState(16), NewToken(PadOperator, "+"))
	assert.Equal(t, ModeError, s.Mode)

	s = Apply(s, NewToken(PadControl, KeyErrorTimeout))
	assert.Equal(t, ModeInput, s.Mode)

	s = ApplyAll(s, []InputToken{NewToken(PadScalar, "5"), NewToken(PadOperator, "x")})
	assert.Equal(t, ModeInput, s.Mode)
	assert.Equal(t, "5", s.Measurements.Scalar.Value, "operators leave accumulators untouched")
}

func TestApplyMixedFamilyEntersError(t *testing.T) {
	s := ApplyAll(NewState(16), []InputToken{NewToken(PadFeet, "5"), NewToken(PadScalar, "3")})
	assert.Equal(t, ModeError, s.Mode)
	assert.Equal(t, "", s.Measurements.Scalar.Value)

	s = ApplyAll(NewState(16), []InputToken{NewToken(PadScalar, "5"), NewToken(PadInches, "3")})
	assert.Equal(t, ModeError, s.Mode)
	assert.Equal(t, 0, s.Measurements.Inches.Whole)
}

func TestApplyErrorTimeoutPreservesAccumulators(t *testing.T) {
	s := ApplyAll(NewState(16), []InputToken{NewToken(PadFeet, "7"), NewToken(PadScalar, "1")})
	require.Equal(t, ModeError, s.Mode)

	s = Apply(s, NewToken(PadControl, KeyErrorTimeout))
	assert.Equal(t, ModeInput, s.Mode)
	assert.Equal(t, 7, s.Measurements.Feet.Whole)
}

func TestApplyBackspace(t *testing.T) {
	t.Run("scalar drops last character", func(t *testing.T) {
		s := ApplyAll(NewState(16), []InputToken{NewToken(PadScalar, "4"), NewToken(PadScalar, "."), NewToken(PadControl, KeyBackspace)})
		assert.Equal(t, "4", s.Measurements.Scalar.Value)
	})

	t.Run("inches drops last digit and keeps fraction", func(t *testing.T) {
		s := ApplyAll(NewState(16), []InputToken{
			NewToken(PadInches, "4"),
			NewToken(PadInches, "2"),
			NewToken(PadInches, "1/2"),
			NewToken(PadControl, KeyBackspace),
		})
		assert.Equal(t, PadValue{Whole: 4, Numerator: 1, Denominator: 2}, s.Measurements.Inches)
	})

	t.Run("no active pad is a no-op", func(t *testing.T) {
		before := NewState(16)
		assert.Equal(t, before, Apply(before, NewToken(PadControl, KeyBackspace)))
	})
}

func TestApplyClearKeepsDenominatorPreference(t *testing.T) {
	s, err := NewState(16).WithDenominator(32)
	require.NoError(t, err)

	s = ApplyAll(s, []InputToken{NewToken(PadFeet, "9"), NewToken(PadControl, KeyClear)})

	assert.Equal(t, NewState(32), s)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	before := ApplyAll(NewState(16), []InputToken{NewToken(PadFeet, "1")})
	snapshot := before

	_ = Apply(before, NewToken(PadFeet, "2"))

	assert.Equal(t, snapshot, before)
}

func TestWithDenominator(t *testing.T) {
	s := ApplyAll(NewState(16), []InputToken{NewToken(PadInches, "3"), NewToken(PadInches, "5/16")})

	s, err := s.WithDenominator(8)
	require.NoError(t, err)
	assert.Equal(t, PadValue{Whole: 3, Numerator: 0, Denominator: 8}, s.Measurements.Inches)
	assert.Equal(t, 8, s.Denominator)

	_, err = s.WithDenominator(4)
	assert.Error(t, err)
}

func TestResume(t *testing.T) {
	tests := []struct {
		name   string
		active Pad
		tokens []MathToken
		mode   Mode
		pad    Pad
		want   Measurements
	}{
		{
			name:   "empty expression",
			active: PadInches,
			mode:   ModeInput,
			want:   NewState(32).Measurements,
		},
		{
			name:   "trailing length operand",
			active: PadInches,
			tokens: []MathToken{imp(1, 4, 3, 8)},
			mode:   ModeImperial,
			pad:    PadInches,
			want: Measurements{
				Feet:   PadValue{Whole: 1, Denominator: 16},
				Inches: PadValue{Whole: 4, Numerator: 3, Denominator: 8},
			},
		},
		{
			name:   "length operand reached from scalar pad",
			active: PadScalar,
			tokens: []MathToken{sc("2"), opTok(OpMultiply), imp(3, 0, 0, 16)},
			mode:   ModeImperial,
			pad:    PadFeet,
			want: Measurements{
				Feet:   PadValue{Whole: 3, Denominator: 16},
				Inches: PadValue{Denominator: 32},
			},
		},
		{
			name:   "trailing scalar operand",
			active: PadScalar,
			tokens: []MathToken{sc("2.5")},
			mode:   ModeScalar,
			pad:    PadScalar,
			want: Measurements{
				Feet:   PadValue{Denominator: 16},
				Inches: PadValue{Denominator: 32},
				Scalar: ScalarValue{Value: "2.5"},
			},
		},
		{
			name:   "trailing operator",
			active: PadInches,
			tokens: []MathToken{imp(0, 4, 0, 16), opTok(OpAdd)},
			mode:   ModeInput,
			want:   NewState(32).Measurements,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState(32)
			s.Mode = ModeError
			s.ActivePad = tc.active
			s.Measurements.Inches.Whole = 77

			got := Resume(s, tc.tokens)

			assert.Equal(t, tc.mode, got.Mode)
			assert.Equal(t, tc.pad, got.ActivePad)
			assert.Equal(t, tc.want, got.Measurements)
			assert.Equal(t, 32, got.Denominator)
		})
	}
}
