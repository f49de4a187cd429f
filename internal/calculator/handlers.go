package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"imperilator/internal/handlers"
	"imperilator/internal/measure"
	"imperilator/internal/observability"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

var errInvalidBody = errors.New("invalid request body")

// Handler serves the calculator HTTP API on top of a Store.
type Handler struct {
	store *Store
}

// NewHandler returns a Handler backed by store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	_, span, logger := begin(r, "create")
	defer span.End()

	s := h.store.Create()
	span.SetAttributes(attribute.String("session.id", s.ID()))
	span.SetStatus(codes.Ok, "")

	logger.Info("session created", zap.String("session_id", s.ID()))

	handlers.WriteJSON(w, http.StatusCreated, newSessionView(s.Snapshot()))
}

// GetSession handles GET /sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := begin(r, "get")
	defer span.End()

	s, ok := h.session(ctx, span, logger, w, r, "get")
	if !ok {
		return
	}
	handlers.WriteJSON(w, http.StatusOK, newSessionView(s.Snapshot()))
}

// DeleteSession handles DELETE /sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := begin(r, "delete")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))
	if err := h.store.Delete(id); err != nil {
		fail(ctx, span, logger, w, "delete", err)
		return
	}

	logger.Info("session deleted", zap.String("session_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// SubmitToken handles POST /sessions/{id}/tokens. An "=" keystroke evaluates
// the expression.
func (h *Handler) SubmitToken(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := begin(r, "submit")
	defer span.End()

	s, ok := h.session(ctx, span, logger, w, r, "submit")
	if !ok {
		return
	}

	var tok measure.InputToken
	if err := decode(r, &tok); err != nil {
		fail(ctx, span, logger, w, "submit", err)
		return
	}
	span.SetAttributes(
		attribute.String("calculator.pad", string(tok.Pad)),
		attribute.String("calculator.key", tok.Key),
	)

	var err error
	if tok.IsOperator() && measure.Operator(tok.Key) == measure.OpEquals {
		_, err = evaluate(ctx, span, logger, s)
	} else {
		_, err = s.Submit(tok)
	}
	recordKeystroke(ctx, tok.Pad, err == nil)
	if err != nil {
		fail(ctx, span, logger, w, "submit", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Debug("keystroke accepted",
		zap.String("session_id", s.ID()),
		zap.String("pad", string(tok.Pad)),
		zap.String("key", tok.Key),
	)
	handlers.WriteJSON(w, http.StatusOK, newSessionView(s.Snapshot()))
}

// Evaluate handles POST /sessions/{id}/evaluate.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := begin(r, "evaluate")
	defer span.End()

	s, ok := h.session(ctx, span, logger, w, r, "evaluate")
	if !ok {
		return
	}

	ev, err := evaluate(ctx, span, logger, s)
	if err != nil {
		fail(ctx, span, logger, w, "evaluate", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, EvaluationResponse{
		Expression: ev.Expression,
		Result:     ev.Result,
		Token:      newTokenView(ev.Token),
	})
}

// Backspace handles POST /sessions/{id}/backspace.
func (h *Handler) Backspace(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := begin(r, "backspace")
	defer span.End()

	s, ok := h.session(ctx, span, logger, w, r, "backspace")
	if !ok {
		return
	}
	recordKeystroke(ctx, measure.PadControl, true)
	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, newSessionView(s.Backspace()))
}

// Clear handles POST /sessions/{id}/clear.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := begin(r, "clear")
	defer span.End()

	s, ok := h.session(ctx, span, logger, w, r, "clear")
	if !ok {
		return
	}
	recordKeystroke(ctx, measure.PadControl, true)
	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, newSessionView(s.Clear()))
}

// SetDenominator handles PUT /sessions/{id}/denominator.
func (h *Handler) SetDenominator(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := begin(r, "denominator")
	defer span.End()

	s, ok := h.session(ctx, span, logger, w, r, "denominator")
	if !ok {
		return
	}

	var req DenominatorRequest
	if err := decode(r, &req); err != nil {
		fail(ctx, span, logger, w, "denominator", err)
		return
	}
	span.SetAttributes(attribute.Int("calculator.denominator", req.Denominator))

	snap, err := s.SetFractionDenominator(req.Denominator)
	if err != nil {
		fail(ctx, span, logger, w, "denominator", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, newSessionView(snap))
}

// History handles GET /sessions/{id}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := begin(r, "history")
	defer span.End()

	s, ok := h.session(ctx, span, logger, w, r, "history")
	if !ok {
		return
	}

	history := s.History()
	if history == nil {
		history = []HistoryEntry{}
	}
	handlers.WriteJSON(w, http.StatusOK, history)
}

// EvaluateScript handles POST /calculator/evaluate: the keystrokes are run
// through a throwaway session and the resulting expression is evaluated.
// A trailing "=" is optional.
func (h *Handler) EvaluateScript(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := begin(r, "script")
	defer span.End()

	var req ScriptRequest
	if err := decode(r, &req); err != nil {
		fail(ctx, span, logger, w, "script", err)
		return
	}
	span.SetAttributes(attribute.Int("calculator.keystrokes", len(req.Tokens)))

	tokens := req.Tokens
	if n := len(tokens); n > 0 && tokens[n-1].IsOperator() && measure.Operator(tokens[n-1].Key) == measure.OpEquals {
		tokens = tokens[:n-1]
	}

	s := NewSession(observability.RequestIDFromContext(ctx), WithAfterFunc(noTimers), WithLogger(logger))
	if _, err := s.Replay(tokens); err != nil {
		fail(ctx, span, logger, w, "script", err)
		return
	}
	_, expr := s.ExportTokens()

	ev, err := evaluate(ctx, span, logger, s)
	if err != nil {
		fail(ctx, span, logger, w, "script", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, EvaluationResponse{
		Expression: ev.Expression,
		Result:     ev.Result,
		Token:      newTokenView(ev.Token),
		Tokens:     newTokenViews(expr),
	})
}

// begin opens the span for a calculator action and returns a logger
// correlated with it.
func begin(r *http.Request, op string) (context.Context, trace.Span, *zap.Logger) {
	ctx, span := tracer.Start(r.Context(), "calculator."+op,
		trace.WithAttributes(
			attribute.String("calculator.operation", op),
			attribute.String("request.id", observability.RequestIDFromContext(r.Context())),
		),
	)
	return ctx, span, observability.LoggerWithTrace(ctx)
}

func (h *Handler) session(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, r *http.Request, op string) (*Session, bool) {
	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	s, err := h.store.Get(id)
	if err != nil {
		fail(ctx, span, logger, w, op, err)
		return nil, false
	}
	return s, true
}

func evaluate(ctx context.Context, span trace.Span, logger *zap.Logger, s *Session) (Evaluation, error) {
	start := time.Now()
	ev, err := s.RequestEvaluation()
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms
	if err != nil {
		return ev, err
	}

	recordEvaluation(ctx, ev.Token, elapsed)

	span.AddEvent("evaluation.complete", trace.WithAttributes(
		attribute.String("expression", ev.Expression),
		attribute.String("result", ev.Result),
		attribute.String("result.kind", string(ev.Token.Kind())),
		attribute.Float64("duration_ms", elapsed),
	))

	logger.Info("expression evaluated",
		zap.String("session_id", s.ID()),
		zap.String("expression", ev.Expression),
		zap.String("result", ev.Result),
		zap.Float64("duration_ms", elapsed),
	)
	return ev, nil
}

// fail maps err to an HTTP status and error kind and records it.
func fail(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, op string, err error) {
	f := observability.Failure{
		Operation: op,
		Message:   err.Error(),
		Err:       err,
	}
	if kind, ok := measure.KindOf(err); ok {
		f.Status, f.Kind = http.StatusUnprocessableEntity, string(kind)
	} else if errors.Is(err, ErrSessionNotFound) {
		f.Status, f.Kind = http.StatusNotFound, "NotFound"
	} else {
		f.Status, f.Kind = http.StatusBadRequest, "InvalidRequest"
	}
	observability.RecordError(ctx, span, logger, errorCounter, f, w)
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return false }

// noTimers disables error auto-clear for sessions that never outlive a
// request.
func noTimers(time.Duration, func()) Timer { return stoppedTimer{} }
