package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rendis/hotelrank/internal/model"
)

func TestWriteCSV(t *testing.T) {
	items := []model.ListingItem{
		{ID: 1, Name: "Pod, Times Square", Brand: model.IndependentBrand, ReviewScore: 8.4, MinPrice: 120, City: "New York", Lat: 40.758, Lon: -73.9855},
		{ID: 2, Name: "No Coords Inn", Brand: "Hilton", MinPrice: 80},
	}
	center := model.Destination{ID: "20088325", Lat: 40.768, Lon: -73.982}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, items, center); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0][0] != "hotel_id" || len(records[0]) != len(header) {
		t.Errorf("header = %v", records[0])
	}
	first := records[1]
	if first[1] != "Pod, Times Square" || first[3] != "8.4" || first[4] != "120.00" {
		t.Errorf("first row = %v", first)
	}
	if first[10] == "" {
		t.Error("expected distance for a hotel with coordinates")
	}
	if records[2][10] != "" {
		t.Errorf("distance without coords = %q", records[2][10])
	}
}

func TestFileName(t *testing.T) {
	ts := time.Date(2025, 1, 18, 9, 30, 0, 0, time.UTC)
	if got := FileName("São Paulo", ts); got != "hotelrank_sao-paulo_20250118_093000.csv" {
		t.Errorf("FileName = %q", got)
	}
	if got := FileName("  ", ts); got != "hotelrank_results_20250118_093000.csv" {
		t.Errorf("FileName(blank) = %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := WriteFile(dir, "Paris", []model.ListingItem{{ID: 7, Name: "Le Bristol"}}, model.Destination{})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("Le Bristol")) {
		t.Errorf("file content = %q", data)
	}
}
