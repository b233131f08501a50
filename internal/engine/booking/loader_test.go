package booking_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rendis/hotelrank/internal/engine/booking"
	"github.com/rendis/hotelrank/internal/model"
)

type memCache struct {
	entries map[string]model.Destination
	saves   int
}

func (m *memCache) CachedDestination(_ context.Context, key string) (model.Destination, bool, error) {
	d, ok := m.entries[key]
	return d, ok, nil
}

func (m *memCache) SaveDestination(_ context.Context, key string, d model.Destination) error {
	if m.entries == nil {
		m.entries = make(map[string]model.Destination)
	}
	m.entries[key] = d
	m.saves++
	return nil
}

func TestLoader_ResolvesDestinationOnce(t *testing.T) {
	api, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/locations": jsonBody(nyLocations),
		"/hotels/search":    jsonBody(searchPage),
	})
	cache := &memCache{}
	loader := booking.NewLoader(client, "New York", model.DefaultStayQuery(), cache, nil)

	for page := 0; page < 2; page++ {
		items, err := loader.FetchPage(context.Background(), page)
		if err != nil {
			t.Fatalf("FetchPage(%d): %v", page, err)
		}
		if len(items) != 2 {
			t.Fatalf("FetchPage(%d): %d items", page, len(items))
		}
	}

	if got := api.count("/hotels/locations"); got != 1 {
		t.Fatalf("location lookups = %d, want 1", got)
	}
	if got := api.count("/hotels/search"); got != 2 {
		t.Fatalf("searches = %d, want 2", got)
	}
	if !strings.Contains(api.query("/hotels/search", 1), "page_number=1") {
		t.Fatalf("second search query: %s", api.query("/hotels/search", 1))
	}
	if cache.saves != 1 {
		t.Fatalf("cache saves = %d, want 1", cache.saves)
	}
	if loader.State() != booking.StateSucceeded {
		t.Fatalf("state = %s", loader.State())
	}
}

func TestLoader_DestinationNotFoundSkipsSearch(t *testing.T) {
	api, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/locations": jsonBody(`[]`),
		"/hotels/search":    jsonBody(searchPage),
	})
	loader := booking.NewLoader(client, "New York", model.DefaultStayQuery(), nil, nil)

	items, err := loader.FetchPage(context.Background(), 0)
	if !errors.Is(err, booking.ErrDestinationNotFound) {
		t.Fatalf("expected ErrDestinationNotFound, got %v", err)
	}
	if items != nil {
		t.Fatalf("expected no items, got %d", len(items))
	}
	if got := api.count("/hotels/search"); got != 0 {
		t.Fatalf("search requests = %d, want 0", got)
	}
	if loader.State() != booking.StateFailed {
		t.Fatalf("state = %s", loader.State())
	}
}

func TestLoader_UsesPersistentCache(t *testing.T) {
	api, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/search": jsonBody(searchPage),
	})
	cache := &memCache{entries: map[string]model.Destination{
		"new york|en-us": {ID: "20088325", Type: "city"},
	}}
	loader := booking.NewLoader(client, "New York", model.DefaultStayQuery(), cache, nil)

	if _, err := loader.FetchPage(context.Background(), 0); err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if got := api.count("/hotels/locations"); got != 0 {
		t.Fatalf("location lookups = %d, want 0", got)
	}
	if !strings.Contains(api.query("/hotels/search", 0), "dest_id=20088325") {
		t.Fatalf("search query: %s", api.query("/hotels/search", 0))
	}
}
