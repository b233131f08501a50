package booking

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rendis/hotelrank/internal/model"
)

const (
	detailPath   = "/hotels/data"
	detailLocale = "en-gb"
)

// FetchDetail loads the record behind the detail page. Only en-gb
// descriptions are kept.
func (c *Client) FetchDetail(ctx context.Context, hotelID int64) (model.HotelDetail, error) {
	params := url.Values{}
	params.Set("hotel_id", strconv.FormatInt(hotelID, 10))
	params.Set("locale", detailLocale)

	raw, err := c.getJSON(ctx, detailPath, params)
	if err != nil {
		return model.HotelDetail{}, fmt.Errorf("fetching hotel %d: %w", hotelID, err)
	}
	obj := safeObject(raw)
	if obj == nil {
		return model.HotelDetail{}, fmt.Errorf("fetching hotel %d: %w: expected object", hotelID, ErrMalformedResponse)
	}

	d := model.HotelDetail{
		ID:              hotelID,
		Name:            safeString(obj["name"]),
		Address:         safeString(obj["address"]),
		City:            safeString(obj["city"]),
		Country:         safeString(obj["country"]),
		MainPhotoURL:    safeString(obj["main_photo_url"]),
		ReviewScore:     safeFloat(obj["review_score"]),
		ReviewScoreWord: safeString(obj["review_score_word"]),
		Lat:             safeFloat(safeGet(obj, "location", "latitude")),
		Lon:             safeFloat(safeGet(obj, "location", "longitude")),
		CheckinFrom:     safeString(safeGet(obj, "checkin", "from")),
		CheckinTo:       safeString(safeGet(obj, "checkin", "to")),
		Checkin24h:      safeBool(safeGet(obj, "checkin", "24_hour_available")),
	}

	for _, f := range strings.Split(safeString(obj["hotel_facilities"]), ",") {
		if f = strings.TrimSpace(f); f != "" {
			d.Facilities = append(d.Facilities, f)
		}
	}

	for _, t := range safeSlice(obj["description_translations"]) {
		if safeString(safeGet(t, "languagecode")) != detailLocale {
			continue
		}
		if desc := safeString(safeGet(t, "description")); desc != "" {
			d.Descriptions = append(d.Descriptions, desc)
		}
	}

	return d, nil
}
