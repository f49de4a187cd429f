package main

import (
	"fmt"
	"strings"

	"imperilator/internal/measure"
)

var operatorWords = map[string]measure.Operator{
	"+": measure.OpAdd,
	"-": measure.OpSubtract,
	"x": measure.OpMultiply,
	"*": measure.OpMultiply,
	"/": measure.OpDivide,
	"=": measure.OpEquals,
}

var padPrefixes = map[byte]measure.Pad{
	'f': measure.PadFeet,
	'i': measure.PadInches,
	's': measure.PadScalar,
}

// parseKeys turns keystroke notation into input tokens. Keys are not
// validated against their pad here; the session does that.
func parseKeys(script string) ([]measure.InputToken, error) {
	var tokens []measure.InputToken
	for _, word := range strings.Fields(script) {
		if op, ok := operatorWords[word]; ok {
			tokens = append(tokens, measure.NewToken(measure.PadOperator, string(op)))
			continue
		}
		switch strings.ToLower(word) {
		case "bs", "backspace":
			tokens = append(tokens, measure.NewToken(measure.PadControl, measure.KeyBackspace))
			continue
		case "clear", "c":
			tokens = append(tokens, measure.NewToken(measure.PadControl, measure.KeyClear))
			continue
		}

		pad, ok := padPrefixes[word[0]]
		if !ok || len(word) == 1 {
			return nil, fmt.Errorf("unrecognised keystroke %q", word)
		}
		body := word[1:]

		// A fraction is a single key.
		if strings.Contains(body, "/") {
			tokens = append(tokens, measure.NewToken(pad, body))
			continue
		}
		for _, r := range body {
			tokens = append(tokens, measure.NewToken(pad, string(r)))
		}
	}
	return tokens, nil
}
