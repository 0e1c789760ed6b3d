// Package cart owns session carts: line items keyed by product id, persisted
// after every mutation, with change notifications for dependent views.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/InfinitechAdCorp/izakayaadmin/pricing"
	"github.com/InfinitechAdCorp/izakayaadmin/storage"
	"go.uber.org/zap"
)

// MaxQuantity caps the units held on a single line.
const MaxQuantity = 999

// Snapshot is a copy of the cart with its derived figures.
type Snapshot struct {
	Items     []models.CartLineItem `json:"items"`
	Total     float64               `json:"subtotal"`
	ItemCount int                   `json:"item_count"`
}

type Listener func(Snapshot)

// Store holds one cart. All mutations go through its methods; each one is
// applied under the store lock and persisted before listeners are notified.
type Store struct {
	mu        sync.Mutex
	key       string
	kv        storage.KV
	logger    *zap.Logger
	items     []models.CartLineItem
	listeners map[int]Listener
	nextSub   int
}

// Load rehydrates the cart persisted under key. Missing or unreadable data
// yields an empty cart.
func Load(ctx context.Context, kv storage.KV, key string, logger *zap.Logger) *Store {
	s := &Store{
		key:       key,
		kv:        kv,
		logger:    logger,
		listeners: make(map[int]Listener),
	}

	raw, err := kv.Get(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s
	case err != nil:
		logger.Warn("Failed to load cart, starting empty", zap.String("key", key), zap.Error(err))
		return s
	}

	items, err := decodeState(raw)
	if err != nil {
		logger.Warn("Discarding corrupted cart state", zap.String("key", key), zap.Error(err))
		return s
	}
	s.items = items
	return s
}

// decodeState parses persisted state, dropping lines that would break the
// cart invariants and merging duplicate ids.
func decodeState(raw []byte) ([]models.CartLineItem, error) {
	var state models.CartState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceCorrupt, err)
	}

	items := make([]models.CartLineItem, 0, len(state.Items))
	index := make(map[models.ItemID]int, len(state.Items))
	for _, item := range state.Items {
		if item.ID == "" || item.Quantity < 1 {
			continue
		}
		if i, ok := index[item.ID]; ok {
			items[i].Quantity = addQuantity(items[i].Quantity, item.Quantity)
			continue
		}
		item.Quantity = addQuantity(0, item.Quantity)
		index[item.ID] = len(items)
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) Key() string { return s.key }

// addQuantity sums two line quantities, saturating at MaxQuantity.
func addQuantity(current, delta int) int {
	if delta >= MaxQuantity-current {
		return MaxQuantity
	}
	return current + delta
}

// AddItem merges into an existing line for the same id, otherwise appends a
// snapshot of the product. Quantities below 1 count as 1 and a line never
// holds more than MaxQuantity.
func (s *Store) AddItem(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return s.mutate(ctx, func() bool {
		if i := s.indexOf(product.ID); i >= 0 {
			next := addQuantity(s.items[i].Quantity, quantity)
			if next == s.items[i].Quantity {
				return false
			}
			s.items[i].Quantity = next
			return true
		}
		s.items = append(s.items, product.LineItem(addQuantity(0, quantity)))
		return true
	})
}

// UpdateQuantity sets an absolute quantity, capped at MaxQuantity. Anything
// below 1 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id models.ItemID, quantity int) error {
	return s.mutate(ctx, func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		if quantity < 1 {
			s.removeAt(i)
			return true
		}
		s.items[i].Quantity = min(quantity, MaxQuantity)
		return true
	})
}

func (s *Store) RemoveItem(ctx context.Context, id models.ItemID) error {
	return s.mutate(ctx, func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.removeAt(i)
		return true
	})
}

func (s *Store) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, func() bool {
		s.items = nil
		return true
	})
}

// Items returns a copy of the line items in first-add order.
func (s *Store) Items() []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

func (s *Store) GetTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Subtotal(s.items)
}

// GetItemCount is the number of units, not lines.
func (s *Store) GetItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.ItemCount(s.items)
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to run after every mutation. The returned func removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) watched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners) > 0
}

// mutate applies change under the lock, persists when it reports a change,
// then notifies listeners outside the lock.
func (s *Store) mutate(ctx context.Context, change func() bool) error {
	s.mu.Lock()
	if !change() {
		s.mu.Unlock()
		return nil
	}
	snap := s.snapshotLocked()
	err := s.persistLocked(ctx, snap.Items)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return err
}

func (s *Store) persistLocked(ctx context.Context, items []models.CartLineItem) error {
	if items == nil {
		items = []models.CartLineItem{}
	}
	raw, err := json.Marshal(models.CartState{Items: items})
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		s.logger.Error("Failed to persist cart", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:     s.copyItems(),
		Total:     pricing.Subtotal(s.items),
		ItemCount: pricing.ItemCount(s.items),
	}
}

func (s *Store) copyItems() []models.CartLineItem {
	out := make([]models.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) indexOf(id models.ItemID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i], s.items[i+1:]...)
}
