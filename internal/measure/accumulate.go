package measure

import (
	"slices"
	"strconv"
	"strings"
)

// Accumulate folds an accepted-token log into an expression. Consecutive
// keystrokes of one operand family merge into a single operand; operators
// close the open operand. Control tokens do not contribute.
func Accumulate(log []InputToken) []MathToken {
	var out []MathToken
	for _, tok := range log {
		out = accumulate(out, tok)
	}
	return out
}

// Append returns tokens extended by tok, continuing the trailing operand
// when tok belongs to the same family. tokens is not modified.
func Append(tokens []MathToken, tok InputToken) []MathToken {
	return accumulate(slices.Clone(tokens), tok)
}

// accumulate may overwrite the last element of out.
func accumulate(out []MathToken, tok InputToken) []MathToken {
	switch tok.Pad {
	case PadOperator:
		return append(out, OperatorToken{Operator: Operator(tok.Key)})

	case PadFeet, PadInches:
		cur, open := lastOf[Imperial](out)
		if !open {
			cur = NewImperial()
		}
		if num, den, ok := parseFraction(tok.Key); ok {
			cur.Numerator, cur.Denominator = num, den
		} else if d, ok := digitOf(tok.Key); ok {
			if tok.Pad == PadFeet {
				cur.Feet = shiftDigit(cur.Feet, d)
			} else {
				cur.Inches = shiftDigit(cur.Inches, d)
			}
		}
		return replaceOrAppend(out, cur, open)

	case PadScalar:
		cur, open := lastOf[Scalar](out)
		if tok.Key == KeyDecimal {
			if !strings.Contains(cur.Value, KeyDecimal) {
				cur.Value += KeyDecimal
			}
		} else if _, ok := digitOf(tok.Key); ok {
			cur.Value += tok.Key
		}
		return replaceOrAppend(out, cur, open)
	}
	return out
}

func lastOf[T MathToken](tokens []MathToken) (T, bool) {
	var zero T
	if len(tokens) == 0 {
		return zero, false
	}
	t, ok := tokens[len(tokens)-1].(T)
	return t, ok
}

func replaceOrAppend(out []MathToken, t MathToken, replace bool) []MathToken {
	if replace {
		out[len(out)-1] = t
		return out
	}
	return append(out, t)
}

// RemoveLastUseful undoes the most recent piece of the expression. For an
// Imperial operand it strips, in order, the last feet digit, the last inches
// digit, then the fraction, dropping the operand once nothing is left. A
// Scalar loses its last character. Any other token is dropped whole.
// tokens is not modified.
func RemoveLastUseful(tokens []MathToken) []MathToken {
	if len(tokens) == 0 {
		return tokens
	}
	out := slices.Clone(tokens)
	last := len(out) - 1

	switch t := out[last].(type) {
	case Imperial:
		switch {
		case t.Feet > 0:
			t.Feet /= 10
		case t.Inches > 0:
			t.Inches /= 10
		case t.Numerator > 0:
			t.Numerator, t.Denominator = 0, defaultDenominator
		}
		if t.empty() {
			return out[:last]
		}
		out[last] = t
		return out

	case Scalar:
		if len(t.Value) > 1 {
			out[last] = Scalar{Value: t.Value[:len(t.Value)-1]}
			return out
		}
		return out[:last]

	case OperatorToken, Length, Area, Volume, ScalarSolution:
		return out[:last]
	}
	return out[:last]
}

// Expand is the inverse of Accumulate: it returns a keystroke log that
// accumulates back to tokens. Result tokens have no keystroke form and are
// rejected.
func Expand(tokens []MathToken) ([]InputToken, error) {
	var log []InputToken
	for _, mt := range tokens {
		switch t := mt.(type) {
		case Imperial:
			if t.Feet > 0 {
				log = appendDigits(log, PadFeet, t.Feet)
			}
			if t.Inches > 0 {
				log = appendDigits(log, PadInches, t.Inches)
			}
			if t.Numerator > 0 {
				key := strconv.Itoa(t.Numerator) + "/" + strconv.Itoa(t.Denominator)
				log = append(log, NewToken(PadInches, key))
			}
			if t.empty() {
				log = append(log, NewToken(PadFeet, "0"))
			}
		case Scalar:
			for _, r := range t.Value {
				log = append(log, NewToken(PadScalar, string(r)))
			}
		case OperatorToken:
			log = append(log, NewToken(PadOperator, string(t.Operator)))
		case Length, Area, Volume, ScalarSolution:
			return nil, invalidExpression("%s result has no keystroke form", mt.Kind())
		}
	}
	return log, nil
}

func appendDigits(log []InputToken, pad Pad, n int) []InputToken {
	for _, r := range strconv.Itoa(n) {
		log = append(log, NewToken(pad, string(r)))
	}
	return log
}
