package measure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		tokens []MathToken
		want   string
	}{
		{name: "empty", tokens: nil, want: ""},
		{
			name:   "imperial and scalar",
			tokens: []MathToken{imp(5, 3, 4, 16), opTok(OpAdd), sc("3.14")},
			want:   "5ft 3 1/4in + 3.14",
		},
		{name: "fraction only", tokens: []MathToken{imp(0, 0, 8, 16)}, want: "1/2in"},
		{name: "inches with fraction", tokens: []MathToken{imp(0, 4, 1, 8)}, want: "4 1/8in"},
		{name: "empty imperial", tokens: []MathToken{imp(0, 0, 0, 16)}, want: "0"},
		{name: "empty scalar", tokens: []MathToken{sc("")}, want: "0"},
		{name: "trailing operator", tokens: []MathToken{imp(0, 4, 0, 16), opTok(OpDivide)}, want: "4in / "},
		{name: "length", tokens: []MathToken{Length{TotalInches: 30, Feet: 2, Inches: 6, Denominator: 1}}, want: "2ft 6in (30in)"},
		{name: "length with fraction", tokens: []MathToken{Decompose(26.25)}, want: "2ft 2 1/4in (26.25in)"},
		{name: "negative length", tokens: []MathToken{Decompose(-13.5)}, want: "-1ft 1 1/2in (-13.5in)"},
		{name: "zero length", tokens: []MathToken{Decompose(0)}, want: "0"},
		{name: "area", tokens: []MathToken{Area{TotalSquareInches: 50, DisplayValue: "50.00 sq.in"}}, want: "50.00 sq.in (50 sq.in)"},
		{name: "volume", tokens: []MathToken{Volume{TotalCubicInches: 120, DisplayValue: "120.00 cu.in"}}, want: "120.00 cu.in (120 cu.in)"},
		{name: "scalar solution", tokens: []MathToken{ScalarSolution{Value: "0.5"}}, want: "0.5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.tokens))
		})
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct{ num, den, wantNum, wantDen int }{
		{4, 16, 1, 4},
		{8, 16, 1, 2},
		{6, 32, 3, 16},
		{3, 8, 3, 8},
		{0, 16, 0, 1},
	}
	for _, tc := range tests {
		n, d := simplify(tc.num, tc.den)
		assert.Equal(t, tc.wantNum, n, "%d/%d", tc.num, tc.den)
		assert.Equal(t, tc.wantDen, d, "%d/%d", tc.num, tc.den)
	}
}

func TestFormatComposite(t *testing.T) {
	assert.Equal(t, "0 sq.in", formatArea(0))
	assert.Equal(t, "2 sq.ft 4.00 sq.in", formatArea(292))
	assert.Equal(t, "-1 sq.ft", formatArea(-144))
	assert.Equal(t, "1 cu.ft 24.50 cu.in", formatVolume(1752.5))
}

func TestDecomposeRoundTrip(t *testing.T) {
	fractions := [][2]int{{0, 16}, {1, 2}, {1, 4}, {3, 8}, {1, 16}, {5, 32}, {31, 32}, {15, 16}}

	for feet := 0; feet < 4; feet++ {
		for inches := 0; inches < 12; inches++ {
			for _, f := range fractions {
				in := imp(feet, inches, f[0], f[1])
				got := Decompose(in.TotalInches())

				back := float64(got.Feet*12+got.Inches) + float64(got.Numerator)/float64(got.Denominator)
				assert.LessOrEqual(t, math.Abs(back-in.TotalInches()), 1.0/64, "%+v -> %+v", in, got)
				assert.Equal(t, in.TotalInches(), got.TotalInches)
			}
		}
	}
}

func TestDecomposeRoundsNearWholeInch(t *testing.T) {
	got := Decompose(11.999)

	assert.Equal(t, Length{TotalInches: 11.999, Feet: 1, Inches: 0, Numerator: 0, Denominator: 1}, got)
}

func TestNearestFractionBoundsNoise(t *testing.T) {
	n, d := nearestFraction(0.1 + 0.2)

	assert.Equal(t, 5, n)
	assert.Equal(t, 16, d)
}
