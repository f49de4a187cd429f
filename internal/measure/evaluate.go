package measure

// Evaluate reduces the expression preceding the last "=" in tokens to a
// single result token. On failure it returns tokens unchanged together with
// the error; tokens is never modified.
func Evaluate(tokens []MathToken) ([]MathToken, error) {
	eq := lastEquals(tokens)
	if eq < 0 {
		return tokens, newError(NoEqualsFound)
	}

	expr := tokens[:eq]
	if len(expr) == 0 {
		return tokens, newError(EmptyExpression)
	}

	result, err := evaluateExpression(expr)
	if err != nil {
		return tokens, err
	}
	return []MathToken{result}, nil
}

func lastEquals(tokens []MathToken) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if op, ok := tokens[i].(OperatorToken); ok && op.Operator == OpEquals {
			return i
		}
	}
	return -1
}

func evaluateExpression(expr []MathToken) (MathToken, error) {
	if len(expr) == 1 {
		return solve(expr[0])
	}

	postfix, err := toPostfix(expr)
	if err != nil {
		return nil, err
	}
	return evaluatePostfix(postfix)
}

// solve turns a lone operand into its solution form.
func solve(t MathToken) (MathToken, error) {
	switch v := t.(type) {
	case Imperial:
		return Decompose(v.TotalInches()), nil
	case Scalar:
		if _, err := parseScalar(v.Value); err != nil {
			return nil, err
		}
		return ScalarSolution(v), nil
	case Length, Area, Volume, ScalarSolution:
		return t, nil
	case OperatorToken:
		return nil, invalidExpression("not enough operands")
	}
	return nil, invalidExpression("unknown token %T", t)
}

// toPostfix reorders an infix expression into postfix using the
// shunting-yard algorithm. All operators are left-associative.
func toPostfix(expr []MathToken) ([]MathToken, error) {
	out := make([]MathToken, 0, len(expr))
	var ops []OperatorToken

	for _, t := range expr {
		op, ok := t.(OperatorToken)
		if !ok {
			out = append(out, t)
			continue
		}
		if op.Operator == OpEquals {
			return nil, invalidExpression("unexpected %q", OpEquals)
		}
		for len(ops) > 0 && ops[len(ops)-1].Operator.precedence() >= op.Operator.precedence() {
			out = append(out, ops[len(ops)-1])
			ops = ops[:len(ops)-1]
		}
		ops = append(ops, op)
	}
	for i := len(ops) - 1; i >= 0; i-- {
		out = append(out, ops[i])
	}
	return out, nil
}

// slot is a value on the evaluation stack. carried marks an Area or Volume
// that came from an earlier evaluation rather than from this one.
type slot struct {
	tok     MathToken
	carried bool
}

func evaluatePostfix(postfix []MathToken) (MathToken, error) {
	var stack []slot

	for _, t := range postfix {
		op, ok := t.(OperatorToken)
		if !ok {
			_, area := t.(Area)
			_, volume := t.(Volume)
			stack = append(stack, slot{tok: t, carried: area || volume})
			continue
		}
		if len(stack) < 2 {
			return nil, invalidExpression("not enough operands")
		}
		left, right := stack[len(stack)-2], stack[len(stack)-1]
		stack = stack[:len(stack)-2]

		// Area and Volume results do not convert back into operands.
		if left.carried || right.carried {
			return nil, unsupported(left.tok.Kind(), op.Operator, right.tok.Kind())
		}
		v, err := reduce(left.tok, op.Operator, right.tok)
		if err != nil {
			return nil, err
		}
		stack = append(stack, slot{tok: v})
	}

	if len(stack) != 1 {
		return nil, invalidExpression("incorrect number of operands")
	}
	return solve(stack[0].tok)
}

// operand is a token coerced to its base kind with a numeric magnitude:
// inches for Imperial, square inches for Area, cubic inches for Volume.
type operand struct {
	kind  TokenKind
	value float64
}

func coerce(t MathToken) (operand, error) {
	switch v := t.(type) {
	case Imperial:
		return operand{KindImperial, v.TotalInches()}, nil
	case Length:
		return operand{KindImperial, v.TotalInches}, nil
	case Scalar:
		n, err := parseScalar(v.Value)
		return operand{KindScalar, n}, err
	case ScalarSolution:
		n, err := parseScalar(v.Value)
		return operand{KindScalar, n}, err
	case Area:
		return operand{KindArea, v.TotalSquareInches}, nil
	case Volume:
		return operand{KindVolume, v.TotalCubicInches}, nil
	case OperatorToken:
		return operand{}, invalidExpression("operator %q used as operand", v.Operator)
	}
	return operand{}, invalidExpression("unknown token %T", t)
}

// reduce applies one binary operator under the unit combination rules.
func reduce(leftTok MathToken, op Operator, rightTok MathToken) (MathToken, error) {
	l, err := coerce(leftTok)
	if err != nil {
		return nil, err
	}
	r, err := coerce(rightTok)
	if err != nil {
		return nil, err
	}

	switch {
	case l.kind == KindImperial && r.kind == KindImperial:
		switch op {
		case OpAdd:
			return Decompose(l.value + r.value), nil
		case OpSubtract:
			return Decompose(l.value - r.value), nil
		case OpMultiply:
			sq := l.value * r.value
			return Area{TotalSquareInches: sq, DisplayValue: formatArea(sq)}, nil
		case OpDivide:
			if r.value == 0 {
				return nil, newError(DivisionByZero)
			}
			return ScalarSolution{Value: formatNumber(l.value / r.value)}, nil
		}

	case l.kind == KindScalar && r.kind == KindScalar:
		return scalarArithmetic(l.value, op, r.value)

	case l.kind == KindScalar && r.kind == KindImperial && op == OpMultiply,
		l.kind == KindImperial && r.kind == KindScalar && op == OpMultiply:
		return Decompose(l.value * r.value), nil

	case l.kind == KindImperial && r.kind == KindScalar && op == OpDivide:
		if r.value == 0 {
			return nil, newError(DivisionByZero)
		}
		return Decompose(l.value / r.value), nil

	case l.kind == KindArea && r.kind == KindImperial && op == OpMultiply,
		l.kind == KindImperial && r.kind == KindArea && op == OpMultiply:
		cu := l.value * r.value
		return Volume{TotalCubicInches: cu, DisplayValue: formatVolume(cu)}, nil
	}

	return nil, unsupported(l.kind, op, r.kind)
}

func scalarArithmetic(l float64, op Operator, r float64) (MathToken, error) {
	var v float64
	switch op {
	case OpAdd:
		v = l + r
	case OpSubtract:
		v = l - r
	case OpMultiply:
		v = l * r
	case OpDivide:
		if r == 0 {
			return nil, newError(DivisionByZero)
		}
		v = l / r
	default:
		return nil, unsupported(KindScalar, op, KindScalar)
	}
	return ScalarSolution{Value: formatNumber(v)}, nil
}
