package measure

// Validate checks a single token against the current entry mode. It never
// mutates anything; a non-nil error means the token must be dropped.
func Validate(mode Mode, tok InputToken) error {
	if err := checkKey(tok); err != nil {
		return err
	}

	switch tok.Pad {
	case PadControl:
		return nil

	case PadOperator:
		switch mode {
		case ModeImperial, ModeScalar:
			return nil
		case ModeInput:
			return newError(EmptyExpression)
		}
		return invalidExpression("Invalid state for operator")

	case PadScalar:
		switch mode {
		case ModeInput, ModeScalar:
			return nil
		case ModeImperial:
			return newError(MixedType)
		}
		return invalidExpression("Invalid state for scalar input")

	case PadFeet, PadInches:
		switch mode {
		case ModeInput, ModeImperial:
			return nil
		case ModeScalar:
			return newError(MixedType)
		}
		return invalidExpression("Invalid state for Imperial input")
	}

	return invalidExpression("unknown pad %q", tok.Pad)
}

// ValidateSequence checks rules that span more than one token of an
// accepted-token log.
func ValidateSequence(tokens []InputToken) error {
	for i := 1; i < len(tokens); i++ {
		if tokens[i-1].IsOperator() && tokens[i].IsOperator() {
			return newError(ConsecutiveOperator)
		}
	}
	return nil
}

// ValidateNext validates tok as the next entry after log. Sequence rules are
// checked first so that a second operator reports ConsecutiveOperator rather
// than EmptyExpression.
func ValidateNext(mode Mode, log []InputToken, tok InputToken) error {
	if len(log) > 0 {
		if err := ValidateSequence([]InputToken{log[len(log)-1], tok}); err != nil {
			return err
		}
	}
	if err := Validate(mode, tok); err != nil {
		return err
	}
	return checkDigits(log, tok)
}

// checkDigits rejects a feet or inches digit that would grow the open
// operand past maxWhole.
func checkDigits(log []InputToken, tok InputToken) error {
	if tok.Pad != PadFeet && tok.Pad != PadInches {
		return nil
	}
	d, ok := digitOf(tok.Key)
	if !ok {
		return nil
	}
	cur, open := lastOf[Imperial](Accumulate(log))
	if !open {
		return nil
	}
	whole := cur.Feet
	if tok.Pad == PadInches {
		whole = cur.Inches
	}
	if whole > (maxWhole-d)/10 {
		return invalidExpression("too many digits for %s", tok.Pad)
	}
	return nil
}
