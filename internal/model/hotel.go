package model

import "github.com/paulmach/orb"

// IndependentBrand is used when the provider reports no hotel brand.
const IndependentBrand = "Independent"

// ListingItem is one normalized hotel search result.
type ListingItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"hotel_name"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Brand       string  `json:"brand"`
	ReviewScore float64 `json:"review_score"` // 0 when the provider has no score
	MinPrice    float64 `json:"min_total_price"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ImageURL    string  `json:"image_url"`
}

// Point returns the item location. orb.Point is [lng, lat].
func (i ListingItem) Point() orb.Point {
	return orb.Point{i.Lon, i.Lat}
}

func (i ListingItem) HasCoords() bool {
	return i.Lat != 0 || i.Lon != 0
}

// Facets holds the distinct filter values, in first-seen order.
type Facets struct {
	Brands []string `json:"brands"`
	Cities []string `json:"cities"`
}

// Destination is a resolved provider location.
type Destination struct {
	ID    string  `json:"dest_id"`
	Type  string  `json:"dest_type"`
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Lat   float64 `json:"latitude"`
	Lon   float64 `json:"longitude"`
}

func (d Destination) Point() orb.Point {
	return orb.Point{d.Lon, d.Lat}
}

func (d Destination) HasCoords() bool {
	return d.Lat != 0 || d.Lon != 0
}

// HotelDetail is the record behind the detail page.
type HotelDetail struct {
	ID              int64    `json:"hotel_id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	Country         string   `json:"country"`
	MainPhotoURL    string   `json:"main_photo_url"`
	ReviewScore     float64  `json:"review_score"`
	ReviewScoreWord string   `json:"review_score_word"`
	Lat             float64  `json:"latitude"`
	Lon             float64  `json:"longitude"`
	Facilities      []string `json:"facilities"`
	Descriptions    []string `json:"descriptions"`
	CheckinFrom     string   `json:"checkin_from"`
	CheckinTo       string   `json:"checkin_to"`
	Checkin24h      bool     `json:"checkin_24h"`
}

func (d HotelDetail) Point() orb.Point {
	return orb.Point{d.Lon, d.Lat}
}

func (d HotelDetail) HasCoords() bool {
	return d.Lat != 0 || d.Lon != 0
}

// StayQuery is the fixed stay/occupancy template sent with every search.
type StayQuery struct {
	CheckIn          string
	CheckOut         string
	Adults           int
	Children         int
	ChildrenAges     string
	Rooms            int
	Currency         string
	OrderBy          string
	Categories       string
	Locale           string
	Units            string
	IncludeAdjacency bool
}

func DefaultStayQuery() StayQuery {
	return StayQuery{
		CheckIn:          "2025-01-18",
		CheckOut:         "2025-01-19",
		Adults:           2,
		Children:         2,
		ChildrenAges:     "5,0",
		Rooms:            1,
		Currency:         "AED",
		OrderBy:          "popularity",
		Categories:       "class::2,class::4,free_cancellation::1",
		Locale:           "en-gb",
		Units:            "metric",
		IncludeAdjacency: true,
	}
}
