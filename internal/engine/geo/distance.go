package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DistanceKm is the great-circle distance between two [lng, lat] points.
func DistanceKm(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b) / 1000.0
}

// FormatDistance renders km the way the listing shows it: metres under 1 km.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%.0f m", km*1000)
	}
	return fmt.Sprintf("%.1f km", km)
}

// BoundAround returns a bound centred on p that extends radiusKm in every
// direction.
func BoundAround(p orb.Point, radiusKm float64) orb.Bound {
	return geo.NewBoundAroundPoint(p, radiusKm*1000)
}

// FitBound covers every point plus a margin of pad (fraction of each
// side). A single point gets a 1 km box so it can still be drawn.
func FitBound(points []orb.Point, pad float64) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}
	b := orb.MultiPoint(points).Bound()
	if b.Min == b.Max {
		return BoundAround(b.Min, 1)
	}
	dx := (b.Max[0] - b.Min[0]) * pad
	dy := (b.Max[1] - b.Min[1]) * pad
	return orb.Bound{
		Min: orb.Point{b.Min[0] - dx, b.Min[1] - dy},
		Max: orb.Point{b.Max[0] + dx, b.Max[1] + dy},
	}
}
