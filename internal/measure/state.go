package measure

import (
	"fmt"
	"strings"
)

// Mode is the entry mode of the input state machine.
type Mode string

const (
	ModeInput    Mode = "Input"
	ModeImperial Mode = "Imperial"
	ModeScalar   Mode = "Scalar"
	ModeError    Mode = "Error"
)

const defaultDenominator = 16

// ValidDenominator reports whether d may be chosen as the fraction pad
// denominator.
func ValidDenominator(d int) bool {
	return d == 8 || d == 16 || d == 32
}

// PadValue is the live state of the feet or inches pad.
type PadValue struct {
	Whole       int `json:"whole"`
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// ScalarValue is the live state of the scalar pad.
type ScalarValue struct {
	Value string `json:"value"`
}

// Measurements holds the per-pad accumulators.
type Measurements struct {
	Feet   PadValue    `json:"feet"`
	Inches PadValue    `json:"inches"`
	Scalar ScalarValue `json:"scalar"`
}

// State is the input state machine. It holds only values, so assigning a
// State copies it completely.
type State struct {
	Mode         Mode
	Measurements Measurements
	// ActivePad is the pad last typed on, or "" when none is.
	ActivePad Pad
	// Denominator is the user's fraction pad preference; it survives Clear.
	Denominator int
}

// NewState returns the initial state with the given denominator preference.
// An unsupported denominator falls back to 16ths.
func NewState(denominator int) State {
	if !ValidDenominator(denominator) {
		denominator = defaultDenominator
	}
	return State{
		Mode: ModeInput,
		Measurements: Measurements{
			Feet:   PadValue{Denominator: defaultDenominator},
			Inches: PadValue{Denominator: denominator},
		},
		Denominator: denominator,
	}
}

// WithDenominator switches the fraction denominator and discards any
// in-progress inches fraction.
func (s State) WithDenominator(d int) (State, error) {
	if !ValidDenominator(d) {
		return s, fmt.Errorf("fraction denominator %d: must be 8, 16 or 32", d)
	}
	s.Denominator = d
	s.Measurements.Inches.Numerator = 0
	s.Measurements.Inches.Denominator = d
	return s, nil
}

// Apply is the transition function of the input state machine.
func Apply(s State, tok InputToken) State {
	switch tok.Pad {
	case PadControl:
		return applyControl(s, tok)
	case PadOperator:
		switch s.Mode {
		case ModeImperial, ModeScalar:
			s.Mode = ModeInput
		case ModeInput:
			s.Mode = ModeError
		}
		return s
	case PadScalar:
		return applyScalar(s, tok)
	case PadFeet, PadInches:
		return applyImperial(s, tok)
	}
	return s
}

// ApplyAll folds tokens over s.
func ApplyAll(s State, tokens []InputToken) State {
	for _, tok := range tokens {
		s = Apply(s, tok)
	}
	return s
}

func applyControl(s State, tok InputToken) State {
	switch tok.Key {
	case KeyClear:
		return NewState(s.Denominator)
	case KeyBackspace:
		switch s.ActivePad {
		case PadScalar:
			if v := s.Measurements.Scalar.Value; v != "" {
				s.Measurements.Scalar.Value = v[:len(v)-1]
			}
		case PadFeet:
			s.Measurements.Feet.Whole /= 10
		case PadInches:
			s.Measurements.Inches.Whole /= 10
		}
	case KeyErrorTimeout:
		if s.Mode == ModeError {
			s.Mode = ModeInput
		}
	}
	return s
}

func applyScalar(s State, tok InputToken) State {
	switch s.Mode {
	case ModeImperial:
		s.Mode = ModeError
		return s
	case ModeError:
		return s
	case ModeInput:
		s.Mode = ModeScalar
	}
	s.ActivePad = PadScalar

	v := s.Measurements.Scalar.Value
	if tok.Key == KeyDecimal {
		if !strings.Contains(v, KeyDecimal) {
			s.Measurements.Scalar.Value = v + KeyDecimal
		}
	} else if _, ok := digitOf(tok.Key); ok {
		s.Measurements.Scalar.Value = v + tok.Key
	}
	return s
}

func applyImperial(s State, tok InputToken) State {
	switch s.Mode {
	case ModeScalar:
		s.Mode = ModeError
		return s
	case ModeError:
		return s
	case ModeInput:
		s.Mode = ModeImperial
	}
	s.ActivePad = tok.Pad

	pv := &s.Measurements.Feet
	if tok.Pad == PadInches {
		pv = &s.Measurements.Inches
	}
	if num, den, ok := parseFraction(tok.Key); ok {
		pv.Numerator, pv.Denominator = num, den
	} else if d, ok := digitOf(tok.Key); ok {
		pv.Whole = shiftDigit(pv.Whole, d)
	}
	return s
}

// Resume loads the pad accumulators from the operand at the end of tokens
// and sets the mode that expression implies. When tokens does not end in
// an operand being typed, the pads are cleared. The denominator preference
// is kept.
func Resume(s State, tokens []MathToken) State {
	next := NewState(s.Denominator)
	next.Mode = ModeOf(tokens)
	if len(tokens) == 0 {
		return next
	}

	switch t := tokens[len(tokens)-1].(type) {
	case Imperial:
		next.Measurements.Feet.Whole = t.Feet
		next.Measurements.Inches.Whole = t.Inches
		if t.Numerator > 0 {
			next.Measurements.Inches.Numerator = t.Numerator
			next.Measurements.Inches.Denominator = t.Denominator
		}
		switch {
		case s.ActivePad == PadFeet || s.ActivePad == PadInches:
			next.ActivePad = s.ActivePad
		case t.Inches > 0 || t.Numerator > 0:
			next.ActivePad = PadInches
		default:
			next.ActivePad = PadFeet
		}
	case Scalar:
		next.Measurements.Scalar.Value = t.Value
		next.ActivePad = PadScalar
	}
	return next
}
