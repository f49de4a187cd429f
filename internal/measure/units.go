package measure

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	inchesPerFoot       = 12
	squareInchesPerFoot = 144
	cubicInchesPerFoot  = 1728
)

// commonDenominators are tried in order when turning a decimal remainder
// into a display fraction.
var commonDenominators = []int{2, 4, 8, 16, 32}

// fractionTolerance bounds the display error of a converted fraction.
const fractionTolerance = 1.0 / 64

// TotalInches converts the operand to decimal inches.
func (i Imperial) TotalInches() float64 {
	total := float64(i.Feet*inchesPerFoot + i.Inches)
	if i.Numerator > 0 && i.Denominator > 0 {
		total += float64(i.Numerator) / float64(i.Denominator)
	}
	return total
}

// Decompose splits a total in inches into feet, whole inches and the nearest
// common fraction. Negative totals carry the sign on feet and inches; the
// fraction is always non-negative.
func Decompose(total float64) Length {
	sign, abs := 1, total
	if total < 0 {
		sign, abs = -1, -total
	}

	feet := math.Floor(abs / inchesPerFoot)
	remaining := abs - feet*inchesPerFoot
	inches := math.Floor(remaining)
	num, den := nearestFraction(remaining - inches)

	// A remainder just under one inch rounds up to a whole inch.
	if num > 0 && num == den {
		num, den = 0, 1
		inches++
		if inches == inchesPerFoot {
			inches = 0
			feet++
		}
	}

	return Length{
		TotalInches: total,
		Feet:        sign * int(feet),
		Inches:      sign * int(inches),
		Numerator:   num,
		Denominator: den,
	}
}

func nearestFraction(decimal float64) (num, den int) {
	if decimal == 0 {
		return 0, 1
	}
	for _, d := range commonDenominators {
		n := math.Round(decimal * float64(d))
		if math.Abs(n/float64(d)-decimal) < fractionTolerance {
			if n == 0 {
				return 0, 1
			}
			return int(n), d
		}
	}
	return int(math.Round(decimal * 32)), 32
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// simplify reduces num/den by their greatest common divisor.
func simplify(num, den int) (int, int) {
	if num == 0 {
		return 0, 1
	}
	g := gcd(abs(num), abs(den))
	return num / g, den / g
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// formatNumber renders v in its shortest round-trip decimal form.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseScalar converts typed scalar text to a number. In-progress text such
// as "3." is accepted; a lone "." or empty text is not a number.
func parseScalar(value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, invalidExpression("%q is not a number", value)
	}
	return v, nil
}

// formatComposite renders a total in small units as whole large units plus a
// two-decimal remainder, e.g. "2 sq.ft 4.00 sq.in".
func formatComposite(total float64, perLarge float64, largeUnit, smallUnit string) string {
	prefix := ""
	if total < 0 {
		prefix, total = "-", -total
	}

	large := math.Floor(total / perLarge)
	remaining := total - large*perLarge

	var parts []string
	if large > 0 {
		parts = append(parts, fmt.Sprintf("%s %s", formatNumber(large), largeUnit))
	}
	if remaining > 0 {
		parts = append(parts, fmt.Sprintf("%.2f %s", remaining, smallUnit))
	}
	if len(parts) == 0 {
		return "0 " + smallUnit
	}
	return prefix + strings.Join(parts, " ")
}

func formatArea(squareInches float64) string {
	return formatComposite(squareInches, squareInchesPerFoot, "sq.ft", "sq.in")
}

func formatVolume(cubicInches float64) string {
	return formatComposite(cubicInches, cubicInchesPerFoot, "cu.ft", "cu.in")
}
