package cart

import (
	"context"
	"sync"
	"time"

	"github.com/InfinitechAdCorp/izakayaadmin/storage"
	"go.uber.org/zap"
)

type entry struct {
	store    *Store
	lastSeen time.Time
}

// Registry hands out one Store per storage key, loading it on first use.
// Stores untouched for longer than the idle TTL are dropped from memory;
// their persisted state stays in the KV store and is reloaded on next use.
type Registry struct {
	mu      sync.Mutex
	kv      storage.KV
	idleTTL time.Duration
	logger  *zap.Logger
	stores  map[string]*entry
	now     func() time.Time
}

// NewRegistry creates a registry. An idleTTL of zero keeps stores forever.
func NewRegistry(kv storage.KV, idleTTL time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		kv:      kv,
		idleTTL: idleTTL,
		logger:  logger,
		stores:  make(map[string]*entry),
		now:     time.Now,
	}
}

func (r *Registry) Get(ctx context.Context, key string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.stores[key]; ok {
		e.lastSeen = r.now()
		return e.store
	}
	s := Load(ctx, r.kv, key, r.logger)
	r.stores[key] = &entry{store: s, lastSeen: r.now()}
	return s
}

// Evict drops the cached store; the persisted state is left in place.
func (r *Registry) Evict(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, key)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Sweep evicts stores idle for longer than the idle TTL and reports how many.
// A store with live subscribers is kept.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key, e := range r.stores {
		if now.Sub(e.lastSeen) > r.idleTTL && !e.store.watched() {
			delete(r.stores, key)
			n++
		}
	}
	return n
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
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
				r.logger.Debug("Evicted idle carts", zap.Int("count", n))
			}
		}
	}
}
