package components

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func TestMapView_FitsMarkersAndSegment(t *testing.T) {
	m := NewMapView(20, 6)
	hotel := orb.Point{-73.9855, 40.7580}
	centre := orb.Point{-73.9820, 40.7680}
	m.SetMarkers([]Marker{{Point: centre}, {Point: hotel, Highlight: true}})
	m.SetSegment(centre, hotel)

	b := m.Bound()
	if !b.Contains(hotel) || !b.Contains(centre) {
		t.Fatalf("bound %v does not contain both points", b)
	}

	out := m.View()
	if lines := strings.Split(out, "\n"); len(lines) != 6 {
		t.Fatalf("got %d rows, want 6", len(lines))
	}
	if !strings.ContainsFunc(out, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }) {
		t.Error("expected braille dots in output")
	}
}

func TestMapView_ZoomShrinksView(t *testing.T) {
	m := NewMapView(10, 4)
	m.SetMarkers([]Marker{{Point: orb.Point{0, 0}}, {Point: orb.Point{10, 10}}})
	before := m.Bound()

	m.ZoomIn()
	after := m.Bound()
	if after.Max[0]-after.Min[0] >= before.Max[0]-before.Min[0] {
		t.Errorf("zoom in did not shrink view: %v -> %v", before, after)
	}

	m.ZoomReset()
	if m.Bound() != before {
		t.Errorf("reset = %v, want %v", m.Bound(), before)
	}
}

func TestMapView_EmptySize(t *testing.T) {
	m := NewMapView(0, 0)
	if m.View() != "" {
		t.Error("zero-size map should render nothing")
	}
}
