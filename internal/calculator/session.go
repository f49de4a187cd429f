package calculator

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"imperilator/internal/measure"
)

// Defaults for a new session.
const (
	DefaultHistorySize        = 4
	DefaultDenominator        = 16
	DefaultErrorModeTimeout   = 1500 * time.Millisecond
	DefaultErrorBannerTimeout = 3 * time.Second
)

// Timer is the part of *time.Timer a session needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// HistoryEntry is one completed calculation.
type HistoryEntry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID           string
	Mode         measure.Mode
	Measurements measure.Measurements
	ActivePad    measure.Pad
	Denominator  int
	Expression   string
	Tokens       []measure.MathToken
	Err          error
	History      []HistoryEntry
}

// Evaluation is the outcome of a successful "=".
type Evaluation struct {
	Expression string
	Result     string
	Token      measure.MathToken
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithHistorySize bounds the calculation history.
func WithHistorySize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithDenominator sets the initial fraction denominator.
func WithDenominator(d int) Option {
	return func(s *Session) {
		if measure.ValidDenominator(d) {
			s.state = measure.NewState(d)
		}
	}
}

// WithTimeouts sets how long Error mode and the error message last before
// clearing on their own.
func WithTimeouts(errorMode, errorBanner time.Duration) Option {
	return func(s *Session) {
		s.errorModeTimeout = errorMode
		s.errorBannerTimeout = errorBanner
	}
}

// WithAfterFunc replaces the timer source.
func WithAfterFunc(f AfterFunc) Option {
	return func(s *Session) { s.afterFunc = f }
}

// Session owns one calculator: the input state machine, the keystroke log,
// the accumulated expression and the calculation history. Every method runs
// to completion under the session lock, so keystrokes never interleave.
//
// The expression is always base followed by Accumulate(log), where base is
// the result of the previous evaluation, if any.
type Session struct {
	mu sync.Mutex

	id     string
	logger *zap.Logger

	state  measure.State
	base   measure.MathToken
	log    []measure.InputToken
	tokens []measure.MathToken
	err    error

	history     []HistoryEntry
	historySize int

	afterFunc          AfterFunc
	errorModeTimeout   time.Duration
	errorBannerTimeout time.Duration
	modeTimer          Timer
	bannerTimer        Timer
	// generation invalidates timers that fire after a newer keystroke.
	generation uint64
}

// NewSession creates a session identified by id.
func NewSession(id string, opts ...Option) *Session {
	s := &Session{
		id:                 id,
		logger:             zap.NewNop(),
		state:              measure.NewState(DefaultDenominator),
		historySize:        DefaultHistorySize,
		afterFunc:          realAfterFunc,
		errorModeTimeout:   DefaultErrorModeTimeout,
		errorBannerTimeout: DefaultErrorBannerTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session_id", id))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Submit processes one keystroke. A rejected keystroke leaves the log, the
// expression and the accumulators untouched and returns the typed error.
// An "=" keystroke triggers evaluation.
func (s *Session) Submit(tok measure.InputToken) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok.Pad == measure.PadControl {
		if err := measure.Validate(s.state.Mode, tok); err != nil {
			return s.snapshot(), s.reject(tok, err)
		}
		switch tok.Key {
		case measure.KeyClear:
			s.clear()
		case measure.KeyBackspace:
			s.backspace()
		case measure.KeyErrorTimeout:
			s.expireErrorMode()
		}
		return s.snapshot(), nil
	}

	if tok.IsOperator() && measure.Operator(tok.Key) == measure.OpEquals {
		_, err := s.evaluate()
		return s.snapshot(), err
	}

	if err := s.accept(tok); err != nil {
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

// RequestEvaluation evaluates the pending expression as if "=" were pressed.
func (s *Session) RequestEvaluation() (Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.evaluate()
}

// Backspace removes the most recent piece of the expression and clears any
// displayed error.
func (s *Session) Backspace() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.backspace()
	return s.snapshot()
}

// Clear resets the expression and accumulators. The denominator preference
// and the history are kept.
func (s *Session) Clear() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear()
	return s.snapshot()
}

// SetFractionDenominator changes the inches fraction denominator and resets
// any in-progress fraction on the inches pad.
func (s *Session) SetFractionDenominator(d int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state.WithDenominator(d)
	if err != nil {
		return s.snapshot(), err
	}
	s.state = st
	return s.snapshot(), nil
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Mode returns the current entry mode.
func (s *Session) Mode() measure.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Mode
}

// Expression returns the rendered expression.
func (s *Session) Expression() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return measure.Format(s.tokens)
}

// History returns the most recent calculations, oldest first.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.history)
}

// ExportTokens returns copies of the keystroke log and the expression.
func (s *Session) ExportTokens() ([]measure.InputToken, []measure.MathToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.log), slices.Clone(s.tokens)
}

// Replay clears the session and submits tokens in order, stopping at the
// first rejected keystroke.
func (s *Session) Replay(tokens []measure.InputToken) (Snapshot, error) {
	s.Clear()
	for i, tok := range tokens {
		if _, err := s.Submit(tok); err != nil {
			return s.Snapshot(), fmt.Errorf("keystroke %d (%s): %w", i, tok, err)
		}
	}
	return s.Snapshot(), nil
}

// Close stops pending timers.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimers()
}

func (s *Session) accept(tok measure.InputToken) error {
	s.beginCycle()

	// Typing a new operand after a result starts a new expression, so it is
	// judged as the first keystroke of one.
	fresh := tok.IsOperand() && s.base != nil && len(s.log) == 0
	mode := s.state.Mode
	if fresh && mode != measure.ModeError {
		mode = measure.ModeInput
	}

	if err := measure.ValidateNext(mode, s.log, tok); err != nil {
		return s.reject(tok, err)
	}

	if fresh {
		s.base, s.tokens = nil, nil
		s.state = measure.NewState(s.state.Denominator)
	}
	s.log = append(s.log, tok)
	s.state = measure.Apply(s.state, tok)
	s.tokens = measure.Append(s.tokens, tok)
	return nil
}

func (s *Session) evaluate() (Evaluation, error) {
	eq := measure.NewToken(measure.PadOperator, string(measure.OpEquals))

	s.beginCycle()
	if err := measure.ValidateNext(s.state.Mode, s.log, eq); err != nil {
		return Evaluation{}, s.reject(eq, err)
	}

	pending := measure.Append(s.tokens, eq)
	result, err := measure.Evaluate(pending)
	if err != nil {
		return Evaluation{}, s.reject(eq, err)
	}

	ev := Evaluation{
		Expression: measure.Format(s.tokens),
		Result:     measure.FormatToken(result[0]),
		Token:      result[0],
	}
	s.record(ev)

	s.base = result[0]
	s.tokens = result
	s.log = nil
	s.state = measure.NewState(s.state.Denominator)
	s.state.Mode = measure.ModeOf(s.tokens)

	s.logger.Debug("expression evaluated",
		zap.String("expression", ev.Expression),
		zap.String("result", ev.Result),
		zap.String("kind", string(ev.Token.Kind())),
	)
	return ev, nil
}

func (s *Session) record(ev Evaluation) {
	s.history = append(s.history, HistoryEntry{Expression: ev.Expression, Result: ev.Result})
	if over := len(s.history) - s.historySize; over > 0 {
		s.history = slices.Delete(s.history, 0, over)
	}
}

func (s *Session) backspace() {
	s.beginCycle()

	s.tokens = measure.RemoveLastUseful(s.tokens)

	rest := s.tokens
	s.base = nil
	if len(rest) > 0 && measure.IsResult(rest[0]) {
		s.base, rest = rest[0], rest[1:]
	}
	log, err := measure.Expand(rest)
	if err != nil {
		s.logger.Warn("rebuilding keystroke log", zap.Error(err))
	} else {
		s.log = log
	}
	s.state = measure.Resume(s.state, s.tokens)
}

func (s *Session) clear() {
	s.beginCycle()

	s.state = measure.Apply(s.state, measure.NewToken(measure.PadControl, measure.KeyClear))
	s.base, s.log, s.tokens = nil, nil, nil
}

// beginCycle starts a new keystroke cycle: pending auto-clear timers are
// cancelled and the displayed error goes away. Error mode is left alone;
// only Backspace, Clear and the mode timer end it.
func (s *Session) beginCycle() {
	s.stopTimers()
	s.generation++
	s.err = nil
}

func (s *Session) reject(tok measure.InputToken, err error) error {
	s.err = err
	s.state.Mode = measure.ModeError

	kind, _ := measure.KindOf(err)
	s.logger.Debug("keystroke rejected",
		zap.String("pad", string(tok.Pad)),
		zap.String("key", tok.Key),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)

	gen := s.generation
	s.modeTimer = s.afterFunc(s.errorModeTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == gen {
			s.expireErrorMode()
		}
	})
	s.bannerTimer = s.afterFunc(s.errorBannerTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == gen {
			s.err = nil
		}
	})
	return err
}

// expireErrorMode leaves Error mode without touching the expression.
func (s *Session) expireErrorMode() {
	if s.state.Mode != measure.ModeError {
		return
	}
	s.state = measure.Apply(s.state, measure.NewToken(measure.PadControl, measure.KeyErrorTimeout))
	// An open operand keeps its family so the next keystroke is judged
	// against it.
	s.state.Mode = measure.ModeOf(s.tokens)
	s.logger.Debug("error mode expired", zap.String("mode", string(s.state.Mode)))
}

func (s *Session) stopTimers() {
	if s.modeTimer != nil {
		s.modeTimer.Stop()
		s.modeTimer = nil
	}
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
		s.bannerTimer = nil
	}
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:           s.id,
		Mode:         s.state.Mode,
		Measurements: s.state.Measurements,
		ActivePad:    s.state.ActivePad,
		Denominator:  s.state.Denominator,
		Expression:   measure.Format(s.tokens),
		Tokens:       slices.Clone(s.tokens),
		Err:          s.err,
		History:      slices.Clone(s.history),
	}
}
