package model

import "testing"

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"", SortPopularity, false},
		{"price", SortPrice, false},
		{"bayesian_review_score", SortReview, false},
		{"class_ascending", SortStarsAsc, false},
		{"cheapest", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSortKeyCycle(t *testing.T) {
	k := SortPopularity
	for range SortKeys {
		if k.Next().Prev() != k {
			t.Fatalf("Prev(Next(%q)) != %q", k, k)
		}
		k = k.Next()
	}
	if k != SortPopularity {
		t.Errorf("full cycle ended at %q", k)
	}
	if SortKey("bogus").Next() != SortPopularity {
		t.Error("unknown key should restart the cycle")
	}
}

func TestPointIsLonLat(t *testing.T) {
	it := ListingItem{Lat: 40.75, Lon: -73.98}
	if p := it.Point(); p[0] != -73.98 || p[1] != 40.75 {
		t.Errorf("Point() = %v", p)
	}
	if !it.HasCoords() || (ListingItem{}).HasCoords() {
		t.Error("HasCoords mismatch")
	}
}
