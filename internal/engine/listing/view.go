package listing

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rendis/hotelrank/internal/engine/textfold"
	"github.com/rendis/hotelrank/internal/model"
)

// Filter is the active filter/sort selection. Empty strings mean "no
// predicate".
type Filter struct {
	Brand string
	City  string
	Query string
	Sort  model.SortKey
}

// Active reports whether any predicate narrows the result set.
func (f Filter) Active() bool {
	return f.Brand != "" || f.City != "" || strings.TrimSpace(f.Query) != ""
}

// DeriveView computes sort(filter(items)). It never mutates items.
func DeriveView(items []model.ListingItem, f Filter) []model.ListingItem {
	view := ApplyFilter(items, f)
	SortItems(view, f.Sort)
	return view
}

// ApplyFilter returns the items matching every active predicate, in
// their original order, as a new slice.
func ApplyFilter(items []model.ListingItem, f Filter) []model.ListingItem {
	words := textfold.Words(f.Query)
	out := make([]model.ListingItem, 0, len(items))
	for _, it := range items {
		if f.Brand != "" && it.Brand != f.Brand {
			continue
		}
		if f.City != "" && it.City != f.City {
			continue
		}
		if len(words) > 0 && !textfold.ContainsAll(haystack(it), words) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func haystack(it model.ListingItem) string {
	return strings.Join([]string{it.Name, it.Address, it.City, it.Country, it.Brand}, " ")
}

// SortItems stable-sorts items in place. Popularity and distance keep the
// current order.
func SortItems(items []model.ListingItem, key model.SortKey) {
	var less func(a, b model.ListingItem) int
	switch key {
	case model.SortPrice:
		less = func(a, b model.ListingItem) int { return cmp.Compare(a.MinPrice, b.MinPrice) }
	case model.SortReview, model.SortStarsDesc:
		// no star rating in search results, stars reuse the review score
		less = func(a, b model.ListingItem) int { return cmp.Compare(b.ReviewScore, a.ReviewScore) }
	case model.SortStarsAsc:
		less = func(a, b model.ListingItem) int { return cmp.Compare(a.ReviewScore, b.ReviewScore) }
	default:
		return
	}
	slices.SortStableFunc(items, less)
}

// DeriveFacets collects distinct brands and non-empty cities in first-seen order.
func DeriveFacets(items []model.ListingItem) model.Facets {
	var f model.Facets
	seenBrand := make(map[string]bool)
	seenCity := make(map[string]bool)
	for _, it := range items {
		if !seenBrand[it.Brand] {
			seenBrand[it.Brand] = true
			f.Brands = append(f.Brands, it.Brand)
		}
		if it.City != "" && !seenCity[it.City] {
			seenCity[it.City] = true
			f.Cities = append(f.Cities, it.City)
		}
	}
	return f
}

// removeID drops every item with id. Duplicates across pages share an id,
// so all copies go.
func removeID(items []model.ListingItem, id int64) ([]model.ListingItem, bool) {
	n := len(items)
	items = slices.DeleteFunc(items, func(it model.ListingItem) bool { return it.ID == id })
	return items, len(items) != n
}
