package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/InfinitechAdCorp/izakayaadmin/delivery"
	"go.uber.org/zap"
)

// Sessions holds the open checkout forms, one per browser session.
type Sessions struct {
	resolver *delivery.Resolver
	debounce time.Duration
	idleTTL  time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions(resolver *delivery.Resolver, debounce, idleTTL time.Duration, logger *zap.Logger) *Sessions {
	return &Sessions{
		resolver: resolver,
		debounce: debounce,
		idleTTL:  idleTTL,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session's form, opening a fresh one when needed.
func (r *Sessions) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := NewSession(id, r.resolver, r.debounce)
	r.sessions[id] = s
	return s
}

func (r *Sessions) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Discard closes the form and cancels any pending fee lookup.
func (r *Sessions) Discard(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.tracker.Stop()
	}
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep discards forms idle for longer than the idle TTL and reports how many.
func (r *Sessions) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.State() != StateProcessing && now.Sub(s.idleSince()) > r.idleTTL {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.tracker.Stop()
	}
	return len(stale)
}

// Run sweeps periodically until ctx is done.
func (r *Sessions) Run(ctx context.Context) {
	if r.idleTTL <= 0 {
		return
	}
	interval := r.idleTTL / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				r.logger.Debug("Expired idle checkout sessions", zap.Int("count", n))
			}
		}
	}
}
