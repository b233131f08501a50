package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestDistanceKm(t *testing.T) {
	timesSquare := orb.Point{-73.9855, 40.7580}
	centralPark := orb.Point{-73.9654, 40.7829}

	got := DistanceKm(timesSquare, centralPark)
	if math.Abs(got-3.2) > 0.2 {
		t.Errorf("DistanceKm = %.3f, want about 3.2", got)
	}
	if DistanceKm(timesSquare, timesSquare) != 0 {
		t.Error("distance to self should be 0")
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{0.25, "250 m"},
		{1, "1.0 km"},
		{12.345, "12.3 km"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.km); got != tt.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tt.km, got, tt.want)
		}
	}
}

func TestFitBound(t *testing.T) {
	pts := []orb.Point{{0, 0}, {10, 20}}
	b := FitBound(pts, 0.1)
	if b.Min != (orb.Point{-1, -2}) || b.Max != (orb.Point{11, 22}) {
		t.Errorf("bound = %v", b)
	}

	single := FitBound([]orb.Point{{2.35, 48.85}}, 0.1)
	if !single.Contains(orb.Point{2.35, 48.85}) || single.Min == single.Max {
		t.Errorf("single-point bound = %v", single)
	}

	if FitBound(nil, 0.1) != (orb.Bound{}) {
		t.Error("empty input should give zero bound")
	}
}
