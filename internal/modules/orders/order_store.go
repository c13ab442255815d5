package orders

import (
	"sync"

	"reader-booking/internal/models"
)

// Store is the per-view order cache: the last fetched page, its counters,
// the set of orders with an in-flight mutation, and the last query error.
// Each list view owns its own Store instance, constructed at view mount and
// discarded at unmount; stores are never shared across views.
type Store struct {
	mu         sync.RWMutex
	items      []models.Order
	itemsCount int
	pageCount  int
	lastQuery  models.Query
	pending    map[int64]struct{}
	lastErr    error
}

// NewStore returns an empty per-view cache.
func NewStore() *Store {
	return &Store{pending: make(map[int64]struct{})}
}

// ReplacePage atomically swaps in a freshly fetched page and clears the last
// error. Duplicate ids within one page are collapsed, keeping the first
// occurrence, so the items invariant holds even against a misbehaving
// backend.
func (s *Store) ReplacePage(page models.Page[models.Order], q models.Query) {
	items := make([]models.Order, 0, len(page.Content))
	seen := make(map[int64]struct{}, len(page.Content))
	for _, o := range page.Content {
		if _, dup := seen[o.ID]; dup {
			continue
		}
		seen[o.ID] = struct{}{}
		items = append(items, o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.itemsCount = page.ItemsCount
	s.pageCount = page.PageCount
	s.lastQuery = q
	s.lastErr = nil
}

// PatchOne merges the patch into the cached order with the given id. If the
// order is not on the current page (it may have scrolled off), this is a
// deliberate no-op; the next full fetch reconciles. Returns whether a cached
// order was patched.
func (s *Store) PatchOne(id int64, patch models.OrderPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			patch.Apply(&s.items[i])
			return true
		}
	}
	return false
}

// Get returns a copy of the cached order with the given id.
func (s *Store) Get(id int64) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i], true
		}
	}
	return models.Order{}, false
}

// Items returns a copy of the current page.
func (s *Store) Items() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.items))
	copy(out, s.items)
	return out
}

// ItemsCount returns the unfiltered-pagination total for the last query.
func (s *Store) ItemsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsCount
}

// PageCount returns the page count for the last query.
func (s *Store) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageCount
}

// LastQuery returns the query that produced the current page.
func (s *Store) LastQuery() models.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastQuery
}

// BeginMutation marks the order as having a mutation in flight. It fails
// with ErrConcurrentMutation when the order is not cached or already marked;
// this is the primary duplicate-action guard.
func (s *Store) BeginMutation(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached := false
	for i := range s.items {
		if s.items[i].ID == id {
			cached = true
			break
		}
	}
	if !cached {
		return models.ErrConcurrentMutation
	}
	if _, inFlight := s.pending[id]; inFlight {
		return models.ErrConcurrentMutation
	}
	s.pending[id] = struct{}{}
	return nil
}

// EndMutation clears the in-flight mark regardless of outcome.
func (s *Store) EndMutation(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// InFlight reports whether the order has a mutation in flight; views use it
// to disable the triggering control.
func (s *Store) InFlight(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pending[id]
	return ok
}

// SetError retains a query failure. The cached page is left untouched so
// the last good data stays visible.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// LastError returns the retained query error, if any.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
