package textfold_test

import (
	"testing"

	"github.com/rendis/hotelrank/internal/engine/textfold"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Zürich", "zurich"},
		{"Hôtel Élysée", "hotel elysee"},
		{"NEW YORK", "new york"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := textfold.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsAll(t *testing.T) {
	words := textfold.Words("  Park   hôtel ")
	if len(words) != 2 {
		t.Fatalf("Words: got %v", words)
	}
	if !textfold.ContainsAll("The Park Hotel Manhattan", words) {
		t.Fatal("expected match")
	}
	if textfold.ContainsAll("Park Lane Suites", words) {
		t.Fatal("expected no match")
	}
	if !textfold.ContainsAll("anything", nil) {
		t.Fatal("no words should match everything")
	}
}
