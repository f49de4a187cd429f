package measure

import (
	"fmt"
	"strconv"
	"strings"
)

// Pad identifies the control surface an input event came from.
type Pad string

const (
	PadFeet     Pad = "Feet"
	PadInches   Pad = "Inches"
	PadScalar   Pad = "Scalar"
	PadOperator Pad = "Operator"
	PadControl  Pad = "Control"
)

// Control keys.
const (
	KeyClear        = "Clear"
	KeyBackspace    = "Backspace"
	KeyErrorTimeout = "ErrorTimeout"
)

// KeyDecimal is the decimal point on the scalar pad.
const KeyDecimal = "."

// Operator is an arithmetic operator symbol. OpEquals is the evaluation
// trigger and never survives a successful evaluation.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "x"
	OpDivide   Operator = "/"
	OpEquals   Operator = "="
)

func (o Operator) valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpEquals:
		return true
	}
	return false
}

// precedence returns the binding strength of o; multiplication and division
// bind tighter than addition and subtraction.
func (o Operator) precedence() int {
	switch o {
	case OpMultiply, OpDivide:
		return 2
	case OpAdd, OpSubtract:
		return 1
	}
	return 0
}

// InputToken is a single accepted or candidate keystroke. Tokens are values
// and are never mutated once created.
type InputToken struct {
	Pad Pad    `json:"pad"`
	Key string `json:"key"`
}

// NewToken builds an InputToken.
func NewToken(pad Pad, key string) InputToken {
	return InputToken{Pad: pad, Key: key}
}

func (t InputToken) String() string {
	return fmt.Sprintf("%s:%s", t.Pad, t.Key)
}

// IsOperator reports whether t came from the operator pad.
func (t InputToken) IsOperator() bool { return t.Pad == PadOperator }

// IsOperand reports whether t contributes to a Feet/Inches/Scalar operand.
func (t InputToken) IsOperand() bool {
	return t.Pad == PadFeet || t.Pad == PadInches || t.Pad == PadScalar
}

// fractionDenominators are the denominators a fraction key may carry.
var fractionDenominators = map[int]struct{}{2: {}, 4: {}, 8: {}, 16: {}, 32: {}}

func digitOf(key string) (int, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}

// parseFraction parses a "num/den" key.
func parseFraction(key string) (num, den int, ok bool) {
	n, d, found := strings.Cut(key, "/")
	if !found {
		return 0, 0, false
	}
	num, err := strconv.Atoi(n)
	if err != nil {
		return 0, 0, false
	}
	den, err = strconv.Atoi(d)
	if err != nil {
		return 0, 0, false
	}
	if _, allowed := fractionDenominators[den]; !allowed || num <= 0 || num >= den {
		return 0, 0, false
	}
	return num, den, true
}

// maxWhole caps digit accumulation so a long run of digits cannot overflow.
const maxWhole = 999_999_999

func shiftDigit(whole, digit int) int {
	if whole > (maxWhole-digit)/10 {
		return whole
	}
	return whole*10 + digit
}

// checkKey reports whether tok's key belongs to its pad's vocabulary.
func checkKey(tok InputToken) error {
	switch tok.Pad {
	case PadControl:
		switch tok.Key {
		case KeyClear, KeyBackspace, KeyErrorTimeout:
			return nil
		}
	case PadOperator:
		if Operator(tok.Key).valid() {
			return nil
		}
	case PadScalar:
		if _, ok := digitOf(tok.Key); ok || tok.Key == KeyDecimal {
			return nil
		}
	case PadFeet, PadInches:
		if _, ok := digitOf(tok.Key); ok {
			return nil
		}
		if _, _, ok := parseFraction(tok.Key); ok {
			return nil
		}
	default:
		return invalidExpression("unknown pad %q", tok.Pad)
	}
	return invalidExpression("invalid key %q for %s pad", tok.Key, tok.Pad)
}
