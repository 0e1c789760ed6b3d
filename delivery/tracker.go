package delivery

import (
	"context"
	"strings"
	"sync"
	"time"
)

// UpdateFunc is told about fees quoted by the backend. Fallback fees are not reported.
type UpdateFunc func(city string, fee float64)

// Tracker follows the city typed on one checkout form. Each Input restarts a
// quiescence timer; only the latest input is resolved, and a result that
// arrives after a newer input is dropped.
type Tracker struct {
	resolver *Resolver
	debounce time.Duration
	onUpdate UpdateFunc

	mu         sync.Mutex
	fee        float64
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	done       chan struct{} // closed when the current generation settles
	city       string
	token      string
	pending    bool
	inFlight   bool
	stopped    bool
}

// NewTracker starts at the base fee. A non-positive debounce means DefaultDebounce.
func NewTracker(resolver *Resolver, debounce time.Duration, onUpdate UpdateFunc) *Tracker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Tracker{
		resolver: resolver,
		debounce: debounce,
		onUpdate: onUpdate,
		fee:      resolver.BaseFee(),
	}
}

// Input records a new city value. Anything pending for an older value is abandoned.
func (t *Tracker) Input(city, token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}

	t.generation++
	t.abandonLocked()

	city = strings.TrimSpace(city)
	if !Eligible(city) {
		t.fee = t.resolver.BaseFee()
		return
	}

	gen := t.generation
	t.city, t.token = city, token
	t.pending = true
	t.done = make(chan struct{})
	t.timer = time.AfterFunc(t.debounce, func() { t.fire(gen) })
}

// Fee is the latest settled fee.
func (t *Tracker) Fee() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fee
}

// Calculating reports whether a backend lookup is in flight.
func (t *Tracker) Calculating() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

// Pending reports whether the latest input has not settled yet.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Flush skips the remaining quiescence window and waits for the latest input
// to settle, returning the resulting fee.
func (t *Tracker) Flush(ctx context.Context) (float64, error) {
	for {
		t.mu.Lock()
		if !t.pending {
			fee := t.fee
			t.mu.Unlock()
			return fee, nil
		}
		if t.timer != nil && t.timer.Stop() {
			t.timer = nil
			go t.fire(t.generation)
		}
		done := t.done
		t.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return t.Fee(), ctx.Err()
		}
	}
}

// Stop abandons any pending lookup. Later inputs are ignored.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.generation++
	t.abandonLocked()
}

func (t *Tracker) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.generation || t.stopped {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.timer = nil
	t.cancel = cancel
	t.inFlight = true
	city, token := t.city, t.token
	t.mu.Unlock()

	res := t.resolver.Resolve(ctx, city, token)
	cancel()

	t.mu.Lock()
	if gen != t.generation {
		t.mu.Unlock()
		return
	}
	t.fee = res.Fee
	t.cancel = nil
	t.inFlight = false
	t.mu.Unlock()

	if res.FromBackend && t.onUpdate != nil {
		t.onUpdate(city, res.Fee)
	}

	// Flush returns only after the update callback has run.
	t.mu.Lock()
	if gen == t.generation {
		t.settleLocked()
	}
	t.mu.Unlock()
}

// abandonLocked stops the timer, cancels the in-flight lookup and releases
// Flush waiters so they re-check the newest generation.
func (t *Tracker) abandonLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.inFlight = false
	t.settleLocked()
}

func (t *Tracker) settleLocked() {
	t.pending = false
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
}
