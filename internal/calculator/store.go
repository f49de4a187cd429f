package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or evicted session ids.
var ErrSessionNotFound = errors.New("session not found")

type storeEntry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps calculator sessions in memory and evicts the ones left idle
// longer than the TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*storeEntry

	ttl    time.Duration
	opts   []Option
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewStore creates a store whose sessions are built with opts. A zero ttl
// disables eviction.
func NewStore(logger *zap.Logger, ttl time.Duration, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*storeEntry),
		ttl:      ttl,
		opts:     append([]Option{WithLogger(logger)}, opts...),
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Create starts a new session.
func (st *Store) Create() *Session {
	s := NewSession(st.newID(), st.opts...)

	st.mu.Lock()
	st.sessions[s.ID()] = &storeEntry{session: s, lastSeen: st.now()}
	st.mu.Unlock()

	st.logger.Debug("session created", zap.String("session_id", s.ID()))
	return s
}

// Get returns the session and marks it as used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = st.now()
	return e.session, nil
}

// Delete removes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	e, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.session.Close()
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.sessions)
}

// Sweep evicts sessions idle since before now minus the TTL and returns how
// many were removed.
func (st *Store) Sweep(now time.Time) int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-st.ttl)

	var expired []*Session
	st.mu.Lock()
	for id, e := range st.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.session)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		st.logger.Info("evicted idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep(st.now())
		}
	}
}
