package calculator

import (
	"imperilator/internal/measure"
)

// DenominatorRequest is the JSON body for PUT /sessions/{id}/denominator.
type DenominatorRequest struct {
	Denominator int `json:"denominator"`
}

// ScriptRequest is the JSON body for POST /calculator/evaluate.
type ScriptRequest struct {
	Tokens []measure.InputToken `json:"tokens"`
}

// ErrorView describes the error currently shown by a session.
type ErrorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SessionView is the JSON form of a Snapshot.
type SessionView struct {
	ID           string               `json:"id"`
	Mode         measure.Mode         `json:"mode"`
	Expression   string               `json:"expression"`
	Measurements measure.Measurements `json:"measurements"`
	ActivePad    measure.Pad          `json:"activePad,omitempty"`
	Denominator  int                  `json:"denominator"`
	Error        *ErrorView           `json:"error,omitempty"`
	History      []HistoryEntry       `json:"history"`
}

// TokenView is the JSON form of a MathToken.
type TokenView struct {
	Kind    measure.TokenKind `json:"kind"`
	Display string            `json:"display"`
	// Total is the magnitude in inches, square inches or cubic inches for
	// measurement tokens.
	Total *float64 `json:"total,omitempty"`
}

// EvaluationResponse is returned by the evaluate endpoints.
type EvaluationResponse struct {
	Expression string      `json:"expression"`
	Result     string      `json:"result"`
	Token      TokenView   `json:"token"`
	Tokens     []TokenView `json:"tokens,omitempty"`
}

func newSessionView(s Snapshot) SessionView {
	v := SessionView{
		ID:           s.ID,
		Mode:         s.Mode,
		Expression:   s.Expression,
		Measurements: s.Measurements,
		ActivePad:    s.ActivePad,
		Denominator:  s.Denominator,
		History:      s.History,
	}
	if v.History == nil {
		v.History = []HistoryEntry{}
	}
	if s.Err != nil {
		kind, _ := measure.KindOf(s.Err)
		v.Error = &ErrorView{Kind: string(kind), Message: s.Err.Error()}
	}
	return v
}

func newTokenView(t measure.MathToken) TokenView {
	v := TokenView{Kind: t.Kind(), Display: measure.FormatToken(t)}

	var total float64
	switch tok := t.(type) {
	case measure.Imperial:
		total = tok.TotalInches()
	case measure.Length:
		total = tok.TotalInches
	case measure.Area:
		total = tok.TotalSquareInches
	case measure.Volume:
		total = tok.TotalCubicInches
	default:
		return v
	}
	v.Total = &total
	return v
}

func newTokenViews(tokens []measure.MathToken) []TokenView {
	out := make([]TokenView, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, newTokenView(t))
	}
	return out
}
