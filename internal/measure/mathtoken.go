package measure

// TokenKind tags each MathToken variant.
type TokenKind string

const (
	KindImperial       TokenKind = "Imperial"
	KindScalar         TokenKind = "Scalar"
	KindOperator       TokenKind = "Operator"
	KindLength         TokenKind = "Length"
	KindArea           TokenKind = "Area"
	KindVolume         TokenKind = "Volume"
	KindScalarSolution TokenKind = "ScalarSolution"
)

// MathToken is one element of an accumulated expression. The set of
// implementations is closed: Imperial, Scalar, OperatorToken, Length, Area,
// Volume and ScalarSolution.
type MathToken interface {
	Kind() TokenKind
	mathToken()
}

// Imperial is a length operand being typed. A zero Numerator means no
// fraction is set.
type Imperial struct {
	Feet        int
	Inches      int
	Numerator   int
	Denominator int
}

// NewImperial returns an empty operand with the default 16ths denominator.
func NewImperial() Imperial {
	return Imperial{Denominator: defaultDenominator}
}

// Scalar is a dimensionless operand. Value keeps the typed text, e.g. "3.".
type Scalar struct {
	Value string
}

// OperatorToken is an operator between two operands.
type OperatorToken struct {
	Operator Operator
}

// Length is a computed length. TotalInches is exact; the remaining fields
// are its feet/inches/fraction decomposition.
type Length struct {
	TotalInches float64
	Feet        int
	Inches      int
	Numerator   int
	Denominator int
}

// Area is a computed area with a preformatted sq.ft/sq.in display.
type Area struct {
	TotalSquareInches float64
	DisplayValue      string
}

// Volume is a computed volume with a preformatted cu.ft/cu.in display.
type Volume struct {
	TotalCubicInches float64
	DisplayValue     string
}

// ScalarSolution is a computed dimensionless result.
type ScalarSolution struct {
	Value string
}

func (Imperial) Kind() TokenKind       { return KindImperial }
func (Scalar) Kind() TokenKind         { return KindScalar }
func (OperatorToken) Kind() TokenKind  { return KindOperator }
func (Length) Kind() TokenKind         { return KindLength }
func (Area) Kind() TokenKind           { return KindArea }
func (Volume) Kind() TokenKind         { return KindVolume }
func (ScalarSolution) Kind() TokenKind { return KindScalarSolution }

func (Imperial) mathToken()       {}
func (Scalar) mathToken()         {}
func (OperatorToken) mathToken()  {}
func (Length) mathToken()         {}
func (Area) mathToken()           {}
func (Volume) mathToken()         {}
func (ScalarSolution) mathToken() {}

// empty reports whether nothing has been entered into the operand.
func (i Imperial) empty() bool {
	return i.Feet == 0 && i.Inches == 0 && i.Numerator == 0
}

// IsResult reports whether t was produced by an evaluation.
func IsResult(t MathToken) bool {
	switch t.(type) {
	case Length, Area, Volume, ScalarSolution:
		return true
	}
	return false
}

// ModeOf derives the entry mode implied by the tail of an expression: Input
// when it is empty or ends in an operator, otherwise the family of the
// trailing operand.
func ModeOf(tokens []MathToken) Mode {
	if len(tokens) == 0 {
		return ModeInput
	}
	switch tokens[len(tokens)-1].(type) {
	case Imperial, Length, Area, Volume:
		return ModeImperial
	case Scalar, ScalarSolution:
		return ModeScalar
	}
	return ModeInput
}
