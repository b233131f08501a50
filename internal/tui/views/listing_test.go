package views

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rendis/hotelrank/internal/model"
)

type stubLoader struct {
	mu    sync.Mutex
	pages map[int][]model.ListingItem
	calls []int
}

func (l *stubLoader) FetchPage(_ context.Context, page int) ([]model.ListingItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, page)
	return l.pages[page], nil
}

func (l *stubLoader) Destination(context.Context) (model.Destination, error) {
	return model.Destination{ID: "-1456928", Name: "Paris", Label: "Paris, France", Lat: 48.8566, Lon: 2.3522}, nil
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestListing(t *testing.T) (ListingModel, *ListingSession, *stubLoader) {
	t.Helper()
	loader := &stubLoader{pages: map[int][]model.ListingItem{
		0: {
			{ID: 1, Name: "Le Meurice", Brand: "Dorchester", City: "Paris", MinPrice: 900, Lat: 48.865, Lon: 2.328},
			{ID: 2, Name: "Hotel du Nord", Brand: model.IndependentBrand, City: "Paris", MinPrice: 110},
			{ID: 3, Name: "Ibis Bercy", Brand: "Ibis", City: "Charenton", MinPrice: 75},
			{ID: 4, Name: "Pullman", Brand: "Accor", City: "Paris", MinPrice: 210},
			{ID: 5, Name: "Novotel", Brand: "Accor", City: "Paris", MinPrice: 160},
		},
		1: {{ID: 6, Name: "Mama Shelter", Brand: "Accor", City: "Paris", MinPrice: 130}},
	}}
	session := NewListingSession("Paris", loader, nil, SessionOptions{ExportDir: t.TempDir()})
	t.Cleanup(session.Close)

	m := NewListingModel(session, model.SortPopularity)
	if err := session.Store.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	next, _ := m.Update(storeChangedMsg{})
	return next.(ListingModel), session, loader
}

func press(m ListingModel, keys ...string) (ListingModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(ListingModel)
	}
	return m, cmd
}

func TestListing_FilterKeys(t *testing.T) {
	m, session, _ := newTestListing(t)

	m, _ = press(m, "b")
	if got := session.Store.Snapshot().Filter.Brand; got != "Dorchester" {
		t.Fatalf("brand after one press = %q", got)
	}
	m, _ = press(m, "b", "b", "b")
	if got := session.Store.Snapshot().Filter.Brand; got != "Accor" {
		t.Fatalf("brand after four presses = %q", got)
	}
	if len(m.snap.View) != 2 {
		t.Fatalf("view = %d rows, want 2", len(m.snap.View))
	}

	m, _ = press(m, "b")
	if got := session.Store.Snapshot().Filter.Brand; got != "" {
		t.Fatalf("brand should cycle back to none, got %q", got)
	}

	m, _ = press(m, "c", "c")
	if got := session.Store.Snapshot().Filter.City; got != "Charenton" {
		t.Fatalf("city = %q", got)
	}

	m, _ = press(m, "x")
	if f := session.Store.Snapshot().Filter; f.Brand != "" || f.City != "" || f.Query != "" {
		t.Fatalf("filters not cleared: %+v", f)
	}
}

func TestListing_CursorLandsOnFirstRow(t *testing.T) {
	m, session, _ := newTestListing(t)

	if c := m.table.Cursor(); c != 0 {
		t.Fatalf("cursor after first page = %d, want 0", c)
	}
	if it, ok := m.selectedItem(); !ok || it.ID != 1 {
		t.Fatalf("selected = %+v, %v", it, ok)
	}

	session.Store.SetQuery("nothing matches this")
	next, _ := m.Update(storeChangedMsg{})
	m = next.(ListingModel)
	if _, ok := m.selectedItem(); ok {
		t.Fatal("empty view should have no selection")
	}

	session.Store.SetQuery("")
	next, _ = m.Update(storeChangedMsg{})
	m = next.(ListingModel)
	if it, ok := m.selectedItem(); !ok || it.ID != 1 {
		t.Fatalf("selected after rows return = %+v, %v", it, ok)
	}
}

func TestListing_SortAndRemove(t *testing.T) {
	m, session, _ := newTestListing(t)

	// popularity -> distance -> price
	m, _ = press(m, "s", "s")
	if got := session.Store.Snapshot().Filter.Sort; got != model.SortPrice {
		t.Fatalf("sort = %q", got)
	}
	if m.snap.View[0].ID != 3 {
		t.Fatalf("cheapest first, got %d", m.snap.View[0].ID)
	}

	m, _ = press(m, "d")
	if session.Store.Snapshot().Total != 4 || m.snap.View[0].ID != 2 {
		t.Fatalf("after remove: total=%d first=%d", session.Store.Snapshot().Total, m.snap.View[0].ID)
	}
}

func TestListing_EnterOpensDetail(t *testing.T) {
	m, _, _ := newTestListing(t)

	_, cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	msg, ok := cmd().(OpenDetail)
	if !ok {
		t.Fatalf("got %T, want OpenDetail", cmd())
	}
	if msg.Item.ID != 1 {
		t.Errorf("opened %d, want 1", msg.Item.ID)
	}
}

func TestListing_QueryFocus(t *testing.T) {
	m, session, _ := newTestListing(t)

	m, _ = press(m, "/")
	if m.focus != focusQuery {
		t.Fatal("slash should focus the query")
	}
	m, _ = press(m, "n", "o", "v")
	if got := session.Store.Snapshot().Filter.Query; got != "nov" {
		t.Fatalf("query = %q", got)
	}
	if len(m.snap.View) != 1 || m.snap.View[0].ID != 5 {
		t.Fatalf("view = %+v", m.snap.View)
	}
}

func TestListing_NearEndLoadsNextPage(t *testing.T) {
	m, session, loader := newTestListing(t)

	m, _ = press(m, "down", "down")
	deadline := time.Now().Add(2 * time.Second)
	for session.Store.Snapshot().Total != 6 {
		if time.Now().After(deadline) {
			t.Fatalf("next page never loaded, calls=%v", loader.calls)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestListing_Export(t *testing.T) {
	m, session, _ := newTestListing(t)

	_, cmd := press(m, "e")
	done, ok := cmd().(exportDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("export: %+v", done)
	}
	if done.rows != 5 || !strings.HasPrefix(done.path, session.ExportDir) {
		t.Fatalf("export = %+v", done)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("exported file: %v", err)
	}
}

func TestCycle(t *testing.T) {
	values := []string{"a", "b"}
	if cycle(values, "") != "a" || cycle(values, "a") != "b" || cycle(values, "b") != "" {
		t.Error("cycle order mismatch")
	}
	if cycle(nil, "a") != "" {
		t.Error("empty facet list should clear the filter")
	}
}
