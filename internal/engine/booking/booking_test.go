package booking_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rendis/hotelrank/internal/engine/booking"
	"github.com/rendis/hotelrank/internal/model"
)

type fakeAPI struct {
	mu       sync.Mutex
	hits     map[string]int
	queries  map[string][]string // path -> raw queries in order
	handlers map[string]http.HandlerFunc
	lastKey  string
	lastHost string
}

func newFakeAPI(t *testing.T, handlers map[string]http.HandlerFunc) (*fakeAPI, *booking.Client) {
	t.Helper()
	api := &fakeAPI{
		hits:     make(map[string]int),
		queries:  make(map[string][]string),
		handlers: handlers,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.hits[r.URL.Path]++
		api.queries[r.URL.Path] = append(api.queries[r.URL.Path], r.URL.RawQuery)
		api.lastKey = r.Header.Get("X-RapidAPI-Key")
		api.lastHost = r.Header.Get("X-RapidAPI-Host")
		h := api.handlers[r.URL.Path]
		api.mu.Unlock()
		if h == nil {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	client := booking.NewClient(booking.Options{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		APIHost:     "test-host",
		BaseBackoff: -1,
		HTTPClient:  srv.Client(),
	})
	return api, client
}

func (a *fakeAPI) count(path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits[path]
}

func (a *fakeAPI) query(path string, i int) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queries[path][i]
}

func jsonBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

const nyLocations = `[
	{"dest_id": "20088325", "dest_type": "city", "name": "New York", "label": "New York, New York State, United States", "latitude": 40.768074, "longitude": -73.98191},
	{"dest_id": "999", "dest_type": "region", "name": "New York State"}
]`

const searchPage = `{"result": [
	{"hotel_id": 1001, "hotel_name": "Park Hotel", "address": "1 Park Ave", "city": "New York", "country_trans": "United States", "hotel_brand": "Hilton", "review_score": 8.4, "min_total_price": 120.5, "latitude": 40.75, "longitude": -73.98, "main_photo_url": "https://img/1.jpg"},
	{"hotel_id": 1002, "hotel_name": "Tiny Inn", "city": "Brooklyn", "review_score": null, "min_total_price": "80", "latitude": 40.68, "longitude": -73.94},
	"garbage"
]}`

func TestResolveDestination_FirstMatch(t *testing.T) {
	api, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/locations": jsonBody(nyLocations),
	})

	d, err := client.ResolveDestination(context.Background(), "New York")
	if err != nil {
		t.Fatalf("ResolveDestination: %v", err)
	}
	if d.ID != "20088325" || d.Type != "city" {
		t.Fatalf("got %+v", d)
	}
	if !d.HasCoords() {
		t.Fatal("expected coordinates")
	}
	if q := api.query("/hotels/locations", 0); q != "locale=en-us&name=New+York" {
		t.Fatalf("query = %q", q)
	}
	api.mu.Lock()
	key, host := api.lastKey, api.lastHost
	api.mu.Unlock()
	if key != "test-key" || host != "test-host" {
		t.Fatalf("headers: key=%q host=%q", key, host)
	}
}

func TestResolveDestination_EmptyIsNotFound(t *testing.T) {
	_, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/locations": jsonBody(`[]`),
	})

	_, err := client.ResolveDestination(context.Background(), "Atlantis")
	if !errors.Is(err, booking.ErrDestinationNotFound) {
		t.Fatalf("expected ErrDestinationNotFound, got %v", err)
	}
}

func TestResolveDestination_StatusError(t *testing.T) {
	_, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/locations": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		},
	})

	_, err := client.ResolveDestination(context.Background(), "New York")
	var se *booking.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 StatusError, got %v", err)
	}
}

func TestSearchHotels_Normalizes(t *testing.T) {
	api, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/search": jsonBody(searchPage),
	})

	dest := model.Destination{ID: "20088325", Type: "city"}
	items, err := client.SearchHotels(context.Background(), dest, 3, model.DefaultStayQuery())
	if err != nil {
		t.Fatalf("SearchHotels: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	park := items[0]
	if park.ID != 1001 || park.Brand != "Hilton" || park.MinPrice != 120.5 || park.ReviewScore != 8.4 {
		t.Fatalf("park: %+v", park)
	}
	if park.Country != "United States" || park.ImageURL != "https://img/1.jpg" {
		t.Fatalf("park: %+v", park)
	}

	inn := items[1]
	if inn.Brand != model.IndependentBrand {
		t.Fatalf("brand = %q, want sentinel", inn.Brand)
	}
	if inn.ReviewScore != 0 || inn.MinPrice != 80 || inn.ImageURL != "" || inn.Address != "" {
		t.Fatalf("inn defaults: %+v", inn)
	}

	q := api.query("/hotels/search", 0)
	for _, want := range []string{
		"dest_id=20088325", "page_number=3", "checkin_date=2025-01-18",
		"checkout_date=2025-01-19", "adults_number=2", "children_number=2",
		"children_ages=5%2C0", "room_number=1", "filter_by_currency=AED",
		"order_by=popularity", "locale=en-gb", "units=metric", "include_adjacency=true",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
}

func TestSearchHotels_MalformedResponse(t *testing.T) {
	_, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/search": jsonBody(`{"message": "You are not subscribed"}`),
	})

	items, err := client.SearchHotels(context.Background(), model.Destination{ID: "1"}, 0, model.DefaultStayQuery())
	if !errors.Is(err, booking.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if items != nil {
		t.Fatalf("failed page must not return items, got %d", len(items))
	}
}

func TestClient_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int64
	_, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/locations": func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			jsonBody(nyLocations)(w, r)
		},
	})

	if _, err := client.ResolveDestination(context.Background(), "New York"); err != nil {
		t.Fatalf("ResolveDestination: %v", err)
	}
	if got := client.Stats().RateLimits.Load(); got != 1 {
		t.Fatalf("rate limits = %d, want 1", got)
	}
	if got := client.Stats().Requests.Load(); got != 2 {
		t.Fatalf("requests = %d, want 2", got)
	}
}

func TestClient_RateLimitExhausted(t *testing.T) {
	_, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/locations": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
	})

	_, err := client.ResolveDestination(context.Background(), "New York")
	var rl *booking.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if got := client.Stats().Requests.Load(); got != 3 {
		t.Fatalf("requests = %d, want 3", got)
	}
}

func TestFetchDetail(t *testing.T) {
	api, client := newFakeAPI(t, map[string]http.HandlerFunc{
		"/hotels/data": jsonBody(`{
			"name": "Park Hotel", "address": "1 Park Ave", "city": "New York", "country": "us",
			"main_photo_url": "https://img/1.jpg", "review_score": "8.4", "review_score_word": "Very good",
			"location": {"latitude": 40.75, "longitude": -73.98},
			"hotel_facilities": "Free WiFi, Gym ,,Pool",
			"description_translations": [
				{"languagecode": "fr", "description": "Bel hôtel"},
				{"languagecode": "en-gb", "description": "Nice hotel"}
			],
			"checkin": {"from": "15:00", "to": "", "24_hour_available": 1}
		}`),
	})

	d, err := client.FetchDetail(context.Background(), 1001)
	if err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}
	if d.ReviewScore != 8.4 || d.ReviewScoreWord != "Very good" {
		t.Fatalf("score: %+v", d)
	}
	if len(d.Descriptions) != 1 || d.Descriptions[0] != "Nice hotel" {
		t.Fatalf("descriptions: %v", d.Descriptions)
	}
	if len(d.Facilities) != 3 || d.Facilities[1] != "Gym" {
		t.Fatalf("facilities: %v", d.Facilities)
	}
	if !d.Checkin24h || d.CheckinFrom != "15:00" || !d.HasCoords() {
		t.Fatalf("checkin/coords: %+v", d)
	}
	if q := api.query("/hotels/data", 0); q != "hotel_id=1001&locale=en-gb" {
		t.Fatalf("query = %q", q)
	}
}
