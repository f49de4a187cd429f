package measure

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders an expression for display. Operators are padded with a
// single space on each side.
func Format(tokens []MathToken) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(FormatToken(t))
	}
	return b.String()
}

// FormatToken renders a single token.
func FormatToken(t MathToken) string {
	switch v := t.(type) {
	case Imperial:
		return formatFeetInches(false, v.Feet, v.Inches, v.Numerator, v.Denominator)
	case Length:
		s := formatFeetInches(v.TotalInches < 0, abs(v.Feet), abs(v.Inches), v.Numerator, v.Denominator)
		if s == "0" {
			return s
		}
		return fmt.Sprintf("%s (%sin)", s, formatNumber(v.TotalInches))
	case Scalar:
		if v.Value == "" {
			return "0"
		}
		return v.Value
	case ScalarSolution:
		return v.Value
	case OperatorToken:
		return " " + string(v.Operator) + " "
	case Area:
		return fmt.Sprintf("%s (%s sq.in)", v.DisplayValue, formatNumber(v.TotalSquareInches))
	case Volume:
		return fmt.Sprintf("%s (%s cu.in)", v.DisplayValue, formatNumber(v.TotalCubicInches))
	}
	return ""
}

func formatFeetInches(negative bool, feet, inches, num, den int) string {
	var parts []string
	if feet > 0 {
		parts = append(parts, strconv.Itoa(feet)+"ft")
	}
	if inches > 0 || num > 0 {
		var in []string
		if inches > 0 {
			in = append(in, strconv.Itoa(inches))
		}
		if num > 0 {
			n, d := simplify(num, den)
			in = append(in, fmt.Sprintf("%d/%d", n, d))
		}
		parts = append(parts, strings.Join(in, " ")+"in")
	}
	if len(parts) == 0 {
		return "0"
	}
	s := strings.Join(parts, " ")
	if negative {
		s = "-" + s
	}
	return s
}
