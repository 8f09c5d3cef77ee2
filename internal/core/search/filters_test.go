package search

import (
	"testing"
	"time"

	"github.com/neilberkman/espressolog/internal/core/models"
)

func TestParseQuery(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.Local)

	f := ParseQuery("bean:Kenya grinder:NICHE fav after:2024-06-01 before:2024-06-10 chocolate", now)
	if f.Bean != "kenya" || f.Grinder != "niche" || !f.FavoritesOnly {
		t.Errorf("filters = %+v", f)
	}
	if !f.After.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)) {
		t.Errorf("After = %v", f.After)
	}
	if !f.Before.Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)) {
		t.Errorf("Before = %v", f.Before)
	}
	if len(f.Terms) != 1 || f.Terms[0] != "chocolate" {
		t.Errorf("Terms = %v", f.Terms)
	}
}

func TestParseQueryNaturalDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.Local)

	f := ParseQuery("date:yesterday", now)
	want := time.Date(2024, 6, 14, 0, 0, 0, 0, time.Local)
	if !f.After.Equal(want) {
		t.Errorf("After = %v, want %v", f.After, want)
	}
}

func TestParseQueryUnparseableDate(t *testing.T) {
	f := ParseQuery("after:zzz", time.Now())
	if !f.After.IsZero() {
		t.Errorf("After = %v, want zero", f.After)
	}
	if !ParseQuery("", time.Now()).IsEmpty() {
		t.Error("empty query should produce empty filters")
	}
}

func TestApply(t *testing.T) {
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)
	mk := func(bean, grinder, notes string, fav bool, day int) models.BrewLogEntry {
		s := models.DefaultSession()
		s.BeanName, s.Grinder, s.Notes, s.Favorite = bean, grinder, notes, fav
		return models.BrewLogEntry{Timestamp: base.AddDate(0, 0, day), Session: s, Suggestion: "Too sour → grind finer"}
	}
	entries := []models.BrewLogEntry{
		mk("Kenya AA", "Niche Zero", "bright", false, 0),
		mk("Brazil Cerrado", "Niche Zero", "chocolate", true, 3),
		mk("Kenya Nyeri", "Comandante", "blackcurrant", true, 6),
	}
	now := base.AddDate(0, 0, 10)

	tests := []struct {
		query string
		want  []int
	}{
		{"", []int{0, 1, 2}},
		{"bean:kenya", []int{0, 2}},
		{"fav", []int{1, 2}},
		{"grinder:niche fav", []int{1}},
		{"chocolate", []int{1}},
		{"sour", []int{0, 1, 2}},
		{"after:2024-06-02", []int{1, 2}},
		{"before:2024-06-05", []int{0, 1}},
		{"bean:kenya nothing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Apply(entries, ParseQuery(tt.query, now))
			if len(got) != len(tt.want) {
				t.Fatalf("Apply(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Apply(%q) = %v, want %v", tt.query, got, tt.want)
				}
			}
		})
	}
}
