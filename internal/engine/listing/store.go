// Package listing holds the incremental hotel listing controller: the
// accumulated result set, its frozen facets, the active filter and sort,
// and the page cursor.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rendis/hotelrank/internal/engine/booking"
	"github.com/rendis/hotelrank/internal/model"
)

// ErrLoadInProgress is returned by LoadInitial when a page fetch is still
// outstanding.
var ErrLoadInProgress = errors.New("listing: load already in progress")

const loadInProgressMessage = "A load is already in progress"

// PageLoader fetches one page of normalized items. A failed page returns
// an error and no items.
type PageLoader interface {
	FetchPage(ctx context.Context, page int) ([]model.ListingItem, error)
}

// Notifier receives human readable error messages. Delivery is fire and
// forget.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Snapshot is an immutable copy of the store state for rendering.
type Snapshot struct {
	View         []model.ListingItem
	Facets       model.Facets
	Filter       Filter
	Page         int
	Total        int
	Loading      bool
	FetchingMore bool
	Exhausted    bool
}

// Options tunes a Store.
type Options struct {
	// SkipFailedPages advances past a page whose fetch failed instead of
	// retrying it on the next trigger.
	SkipFailedPages bool
	// OnChange is called after every state change, outside the lock.
	OnChange func(Snapshot)
	Logger   *slog.Logger
}

// Store is the listing controller. All mutations go through its methods;
// the mutex only makes snapshots safe to read while a fetch runs on
// another goroutine.
type Store struct {
	loader PageLoader
	notify Notifier
	opts   Options
	logger *slog.Logger

	mu        sync.Mutex
	items     []model.ListingItem
	view      []model.ListingItem
	facets    model.Facets
	filter    Filter
	page      int
	inFlight  bool
	loading   bool
	loaded    bool
	exhausted bool
}

func NewStore(loader PageLoader, notify Notifier, opts Options) *Store {
	if notify == nil {
		notify = NotifierFunc(func(string) {})
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		loader: loader,
		notify: notify,
		opts:   opts,
		logger: logger.With("component", "listing"),
		filter: Filter{Sort: model.SortPopularity},
	}
}

// LoadInitial fetches page 0, replacing the result set and deriving the
// facets. On failure the set stays empty, the error is sent to the
// notifier and also returned. While another fetch is in flight nothing is
// reset; the notifier is told and ErrLoadInProgress is returned.
func (s *Store) LoadInitial(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.notify.Notify(loadInProgressMessage)
		return ErrLoadInProgress
	}
	s.inFlight = true
	s.loading = true
	s.loaded = false
	s.exhausted = false
	s.page = 0
	s.items = nil
	s.facets = model.Facets{}
	s.recompute()
	s.mu.Unlock()
	s.changed()

	items, err := s.loader.FetchPage(ctx, 0)

	s.mu.Lock()
	s.inFlight = false
	s.loading = false
	if err == nil {
		s.items = items
		s.facets = DeriveFacets(items)
		s.loaded = true
		s.exhausted = len(items) == 0
	}
	s.recompute()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("initial load failed", "error", err)
		s.notify.Notify(failureMessage(err))
		s.changed()
		return err
	}
	s.logger.Info("initial page loaded", "items", len(items))
	s.changed()
	return nil
}

// LoadNextPage fetches the page after the cursor and appends it. It is a
// no-op, returning false, while another fetch is in flight, before page 0
// has loaded, or once an empty page marked the results exhausted.
func (s *Store) LoadNextPage(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.inFlight || !s.loaded || s.exhausted {
		s.mu.Unlock()
		return false, nil
	}
	s.inFlight = true
	s.page++
	page := s.page
	s.mu.Unlock()
	s.changed()

	items, err := s.loader.FetchPage(ctx, page)

	s.mu.Lock()
	s.inFlight = false
	if err != nil {
		if !s.opts.SkipFailedPages {
			s.page--
		}
	} else {
		s.items = append(s.items, items...)
		s.exhausted = len(items) == 0
		s.recompute()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("page load failed", "page", page, "skip", s.opts.SkipFailedPages, "error", err)
		s.notify.Notify(failureMessage(err))
		s.changed()
		return true, err
	}
	s.logger.Info("page appended", "page", page, "items", len(items))
	s.changed()
	return true, nil
}

// Watch calls LoadNextPage for every near-end-of-list signal until ctx
// is done or trigger is closed. Signals arriving while a fetch is in
// flight are dropped by LoadNextPage itself.
func (s *Store) Watch(ctx context.Context, trigger <-chan struct{}) {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-trigger:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.LoadNextPage(ctx)
			}()
		}
	}
}

func (s *Store) SetBrandFilter(brand string) {
	s.update(func(f *Filter) { f.Brand = brand })
}

func (s *Store) SetCityFilter(city string) {
	s.update(func(f *Filter) { f.City = city })
}

// SetQuery sets the free-text predicate.
func (s *Store) SetQuery(q string) {
	s.update(func(f *Filter) { f.Query = q })
}

func (s *Store) SetSort(key model.SortKey) {
	s.update(func(f *Filter) { f.Sort = key })
}

func (s *Store) update(fn func(*Filter)) {
	s.mu.Lock()
	fn(&s.filter)
	s.recompute()
	s.mu.Unlock()
	s.changed()
}

// Remove deletes the item with id from the result set and the view.
// Removing an absent id is a no-op.
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	var removed bool
	s.items, removed = removeID(s.items, id)
	if removed {
		s.recompute()
	}
	s.mu.Unlock()
	if removed {
		s.changed()
	}
	return removed
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// View returns a copy of the current filtered and sorted items.
func (s *Store) View() []model.ListingItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.view)
}

// Items returns a copy of the full result set in insertion order.
func (s *Store) Items() []model.ListingItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Facets() model.Facets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneFacets(s.facets)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		View:         slices.Clone(s.view),
		Facets:       cloneFacets(s.facets),
		Filter:       s.filter,
		Page:         s.page,
		Total:        len(s.items),
		Loading:      s.loading,
		FetchingMore: s.inFlight && !s.loading,
		Exhausted:    s.exhausted,
	}
}

// recompute must hold mu.
func (s *Store) recompute() {
	s.view = DeriveView(s.items, s.filter)
}

func (s *Store) changed() {
	if s.opts.OnChange != nil {
		s.opts.OnChange(s.Snapshot())
	}
}

func cloneFacets(f model.Facets) model.Facets {
	return model.Facets{Brands: slices.Clone(f.Brands), Cities: slices.Clone(f.Cities)}
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, booking.ErrDestinationNotFound):
		return "Failed to retrieve destination ID"
	case errors.Is(err, context.Canceled):
		return "Loading cancelled"
	default:
		return fmt.Sprintf("Error fetching hotels: %v", err)
	}
}
