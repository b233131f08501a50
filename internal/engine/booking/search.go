package booking

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rendis/hotelrank/internal/model"
)

const searchPath = "/hotels/search"

func searchParams(dest model.Destination, page int, stay model.StayQuery) url.Values {
	destType := dest.Type
	if destType == "" {
		destType = "city"
	}

	params := url.Values{}
	params.Set("dest_id", dest.ID)
	params.Set("dest_type", destType)
	params.Set("page_number", strconv.Itoa(page))
	params.Set("checkin_date", stay.CheckIn)
	params.Set("checkout_date", stay.CheckOut)
	params.Set("adults_number", strconv.Itoa(stay.Adults))
	params.Set("children_number", strconv.Itoa(stay.Children))
	params.Set("children_ages", stay.ChildrenAges)
	params.Set("room_number", strconv.Itoa(stay.Rooms))
	params.Set("filter_by_currency", stay.Currency)
	params.Set("order_by", stay.OrderBy)
	params.Set("categories_filter_ids", stay.Categories)
	params.Set("locale", stay.Locale)
	params.Set("units", stay.Units)
	params.Set("include_adjacency", strconv.FormatBool(stay.IncludeAdjacency))
	return params
}

// SearchHotels fetches one page of results for dest. A failed page
// returns no items at all.
func (c *Client) SearchHotels(ctx context.Context, dest model.Destination, page int, stay model.StayQuery) ([]model.ListingItem, error) {
	raw, err := c.getJSON(ctx, searchPath, searchParams(dest, page, stay))
	if err != nil {
		return nil, fmt.Errorf("searching page %d: %w", page, err)
	}

	result := safeGet(raw, "result")
	records, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("searching page %d: %w: missing result array", page, ErrMalformedResponse)
	}

	items := make([]model.ListingItem, 0, len(records))
	for i, rec := range records {
		obj := safeObject(rec)
		if obj == nil {
			c.logger.Debug("skipping non-object record", "page", page, "index", i)
			continue
		}
		items = append(items, normalizeHotel(obj))
	}
	return items, nil
}

// normalizeHotel maps one provider record onto a ListingItem. Missing
// numbers become 0 and missing strings "".
func normalizeHotel(rec map[string]any) model.ListingItem {
	brand := safeString(rec["hotel_brand"])
	if brand == "" {
		brand = model.IndependentBrand
	}
	price := safeFloat(rec["min_total_price"])
	if price < 0 {
		price = 0
	}
	return model.ListingItem{
		ID:          safeInt(rec["hotel_id"]),
		Name:        safeString(rec["hotel_name"]),
		Address:     safeString(rec["address"]),
		City:        safeString(rec["city"]),
		Country:     safeString(rec["country_trans"]),
		Brand:       brand,
		ReviewScore: safeFloat(rec["review_score"]),
		MinPrice:    price,
		Lat:         safeFloat(rec["latitude"]),
		Lon:         safeFloat(rec["longitude"]),
		ImageURL:    safeString(rec["main_photo_url"]),
	}
}
