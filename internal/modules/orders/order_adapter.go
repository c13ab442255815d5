package orders

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"reader-booking/internal/models"
)

// DefaultSearchDebounce is how long the adapter waits after the last
// keystroke before issuing a search fetch.
const DefaultSearchDebounce = 500 * time.Millisecond

// ListFunc fetches one page; the view decides which endpoint backs it
// (admin list, or the logged-user list with a target).
type ListFunc func(ctx context.Context, q models.Query) (models.Page[models.Order], error)

// Adapter binds a view's filter/sort/page state to list fetches. Filter and
// page-size changes reset to the first page; search input is debounced; and
// racing fetches resolve last-request-wins, so a superseded response can
// never overwrite the cache with stale data.
type Adapter struct {
	store    *Store
	list     ListFunc
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	query models.Query
	timer *time.Timer

	seq atomic.Uint64
	wg  sync.WaitGroup
}

// NewAdapter creates an adapter for one view. The context bounds the view's
// lifetime; cancel it (or call Close) at unmount. A non-positive debounce
// falls back to the default.
func NewAdapter(ctx context.Context, store *Store, list ListFunc, target string, debounce time.Duration) *Adapter {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Adapter{
		store:    store,
		list:     list,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		query: models.Query{
			Page:   1,
			Limit:  models.LimitSmall,
			Status: models.StatusAll,
			Target: target,
		},
	}
}

// Refresh re-fetches the current page with the current filters.
func (a *Adapter) Refresh() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fetchLocked()
}

// SetPage moves to the given 1-indexed page.
func (a *Adapter) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.query.Page = page
	a.fetchLocked()
}

// SetPageSize changes the page size and returns to the first page.
func (a *Adapter) SetPageSize(limit int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.query.Limit = limit
	a.query.Page = 1
	a.fetchLocked()
}

// SetStatus changes the status filter and returns to the first page, so a
// narrower filter can never request an out-of-range page.
func (a *Adapter) SetStatus(status string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.query.Status = status
	a.query.Page = 1
	a.fetchLocked()
}

// SetDateRange filters to whole local days between from and to and returns
// to the first page. Zero times clear the range.
func (a *Adapter) SetDateRange(from, to time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if from.IsZero() && to.IsZero() {
		a.query.Start, a.query.End = 0, 0
	} else {
		a.query.SetDayRange(from, to)
	}
	a.query.Page = 1
	a.fetchLocked()
}

// SetSearch updates the free-text filter and returns to the first page. The
// fetch is debounced: every call cancels and restarts the timer, so typing
// "abc" within the window issues exactly one request, for "abc".
func (a *Adapter) SetSearch(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.query.Search = text
	a.query.Page = 1
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.fetchLocked()
	})
}

// Query returns the filter state the next fetch would use.
func (a *Adapter) Query() models.Query {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.query
}

// Close cancels in-flight work and stops any pending debounce timer.
func (a *Adapter) Close() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	a.cancel()
}

// Wait blocks until all in-flight fetches have settled. Intended for
// teardown and tests.
func (a *Adapter) Wait() {
	a.wg.Wait()
}

// fetchLocked issues one asynchronous fetch for the current query. Callers
// must hold a.mu. Each fetch takes a fresh sequence number; by the time a
// response arrives, a later fetch may have claimed the sequence, in which
// case the response is discarded unapplied.
func (a *Adapter) fetchLocked() {
	id := a.seq.Add(1)
	q := a.query
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		page, err := a.list(a.ctx, q)

		a.mu.Lock()
		defer a.mu.Unlock()
		if a.seq.Load() != id {
			// Superseded: silently dropped, not an error state.
			return
		}
		if err != nil {
			if a.ctx.Err() != nil {
				return
			}
			// Keep the last good page visible; only record the failure.
			a.store.SetError(err)
			return
		}
		a.store.ReplacePage(page, q)
	}()
}
