// Package export writes listing views to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rendis/hotelrank/internal/engine/geo"
	"github.com/rendis/hotelrank/internal/engine/textfold"
	"github.com/rendis/hotelrank/internal/model"
)

var header = []string{
	"hotel_id", "name", "brand", "review_score", "min_total_price",
	"address", "city", "country", "lat", "lon", "distance_km", "image_url",
}

// WriteCSV writes items in the given order. distance_km is measured from
// center and left blank when either side has no coordinates.
func WriteCSV(w io.Writer, items []model.ListingItem, center model.Destination) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, it := range items {
		var distance string
		if it.HasCoords() && center.HasCoords() {
			distance = fmt.Sprintf("%.2f", geo.DistanceKm(center.Point(), it.Point()))
		}
		record := []string{
			strconv.FormatInt(it.ID, 10),
			it.Name,
			it.Brand,
			fmt.Sprintf("%.1f", it.ReviewScore),
			fmt.Sprintf("%.2f", it.MinPrice),
			it.Address,
			it.City,
			it.Country,
			fmt.Sprintf("%.6f", it.Lat),
			fmt.Sprintf("%.6f", it.Lon),
			distance,
			it.ImageURL,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing hotel %d: %w", it.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FileName builds hotelrank_<destination>_<ts>.csv.
func FileName(destination string, now time.Time) string {
	slug := strings.Join(textfold.Words(destination), "-")
	if slug == "" {
		slug = "results"
	}
	return fmt.Sprintf("hotelrank_%s_%s.csv", slug, now.Format("20060102_150405"))
}

// WriteFile exports items to dir/FileName and returns the path.
func WriteFile(dir, destination string, items []model.ListingItem, center model.Destination) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(destination, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating output: %w", err)
	}
	if err := WriteCSV(f, items, center); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing output: %w", err)
	}
	return path, nil
}
