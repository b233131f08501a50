package model

import "fmt"

// SortKey selects the ordering of the listing view. Values match the
// provider's order_by names so they can be passed through from the UI.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortDistance   SortKey = "distance"
	SortPrice      SortKey = "price"
	SortReview     SortKey = "bayesian_review_score"
	SortStarsDesc  SortKey = "class_descending"
	SortStarsAsc   SortKey = "class_ascending"
)

// SortKeys lists the keys in the order the UI cycles through them.
var SortKeys = []SortKey{
	SortPopularity,
	SortDistance,
	SortPrice,
	SortReview,
	SortStarsDesc,
	SortStarsAsc,
}

func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortPopularity, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

func (k SortKey) Label() string {
	switch k {
	case SortDistance:
		return "Distance from city centre"
	case SortPrice:
		return "Price (low to high)"
	case SortReview:
		return "Guest review score"
	case SortStarsDesc:
		return "Stars (5 to 0)"
	case SortStarsAsc:
		return "Stars (0 to 5)"
	default:
		return "Popularity"
	}
}

// Next returns the key after k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortPopularity
}

// Prev is the inverse of Next.
func (k SortKey) Prev() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+len(SortKeys)-1)%len(SortKeys)]
		}
	}
	return SortPopularity
}
