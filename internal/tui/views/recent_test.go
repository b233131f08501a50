package views

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rendis/hotelrank/internal/model"
)

func TestRecent_EnterOpensSelected(t *testing.T) {
	now := time.Now()
	var m tea.Model = NewRecentModel([]RecentEntry{
		{Name: "Lisbon", SearchedAt: now.Add(-time.Minute * 5)},
		{Name: "Porto", SearchedAt: now.Add(-time.Hour * 3)},
	}, nil)

	m, _ = m.Update(keyMsg("down"))
	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	got, ok := cmd().(OpenListing)
	if !ok || got.Destination != "Porto" || got.Sort != model.SortPopularity {
		t.Fatalf("got %#v", got)
	}
}

func TestRecent_EmptyAndError(t *testing.T) {
	m := NewRecentModel(nil, nil)
	if _, cmd := m.Update(keyMsg("enter")); cmd != nil {
		t.Fatal("enter on an empty list should do nothing")
	}
	if !strings.Contains(m.View(), "Nothing searched yet") {
		t.Fatal("missing empty state")
	}

	m = NewRecentModel(nil, errors.New("disk full"))
	if !strings.Contains(m.View(), "disk full") {
		t.Fatal("missing error text")
	}

	_, cmd := m.Update(keyMsg("n"))
	if cmd == nil {
		t.Fatal("n returned no command")
	}
	if _, ok := cmd().(NavigateToDestination); !ok {
		t.Fatal("n should open the destination form")
	}
}

func TestTimeAgo(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{42 * time.Minute, "42 min"},
		{30 * time.Hour, "30 h"},
		{72 * time.Hour, "3 days"},
	}
	for _, tt := range tests {
		if got := timeAgo(tt.d); got != tt.want {
			t.Errorf("timeAgo(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
