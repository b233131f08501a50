package booking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rendis/hotelrank/internal/engine/textfold"
	"github.com/rendis/hotelrank/internal/model"
)

// FetchState tracks the last page fetch.
type FetchState int

const (
	StateIdle FetchState = iota
	StateResolving
	StateFetching
	StateSucceeded
	StateFailed
)

func (s FetchState) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateFetching:
		return "fetching"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// DestinationCache persists resolved destination ids between sessions.
type DestinationCache interface {
	CachedDestination(ctx context.Context, key string) (model.Destination, bool, error)
	SaveDestination(ctx context.Context, key string, d model.Destination) error
}

// Loader fetches pages for one destination name with a fixed stay
// template. The destination is resolved once and reused for every page.
type Loader struct {
	client      *Client
	destination string
	stay        model.StayQuery
	cache       DestinationCache
	logger      *slog.Logger

	mu       sync.Mutex
	resolved *model.Destination
	state    FetchState
}

// NewLoader builds a Loader. cache may be nil.
func NewLoader(client *Client, destination string, stay model.StayQuery, cache DestinationCache, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		client:      client,
		destination: destination,
		stay:        stay,
		cache:       cache,
		logger:      logger.With("component", "loader", "destination", destination),
	}
}

func cacheKey(name string) string {
	return textfold.Normalize(name) + "|" + locationLocale
}

func (l *Loader) State() FetchState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loader) setState(s FetchState) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// Destination returns the resolved destination, resolving it on first use.
// Lookups that fail are not memoized.
func (l *Loader) Destination(ctx context.Context) (model.Destination, error) {
	l.mu.Lock()
	if l.resolved != nil {
		d := *l.resolved
		l.mu.Unlock()
		return d, nil
	}
	l.mu.Unlock()

	key := cacheKey(l.destination)
	if l.cache != nil {
		d, ok, err := l.cache.CachedDestination(ctx, key)
		if err != nil {
			l.logger.Warn("destination cache read failed", "error", err)
		} else if ok {
			l.logger.Debug("destination cache hit", "dest_id", d.ID)
			l.remember(d)
			return d, nil
		}
	}

	d, err := l.client.ResolveDestination(ctx, l.destination)
	if err != nil {
		return model.Destination{}, err
	}
	l.logger.Info("destination resolved", "dest_id", d.ID, "label", d.Label)

	if l.cache != nil {
		if err := l.cache.SaveDestination(ctx, key, d); err != nil {
			l.logger.Warn("destination cache write failed", "error", err)
		}
	}
	l.remember(d)
	return d, nil
}

func (l *Loader) remember(d model.Destination) {
	l.mu.Lock()
	l.resolved = &d
	l.mu.Unlock()
}

// FetchPage resolves the destination if needed and fetches one page.
// On any failure it returns no items.
func (l *Loader) FetchPage(ctx context.Context, page int) ([]model.ListingItem, error) {
	l.setState(StateResolving)
	dest, err := l.Destination(ctx)
	if err != nil {
		l.setState(StateFailed)
		return nil, err
	}

	l.setState(StateFetching)
	items, err := l.client.SearchHotels(ctx, dest, page, l.stay)
	if err != nil {
		l.setState(StateFailed)
		l.logger.Error("page fetch failed", "page", page, "error", err)
		return nil, fmt.Errorf("loading %s: %w", l.destination, err)
	}

	l.setState(StateSucceeded)
	l.logger.Info("page fetched", "page", page, "items", len(items))
	return items, nil
}
