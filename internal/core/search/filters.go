package search

import (
	"strings"
	"time"

	"github.com/neilberkman/espressolog/internal/core/models"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Filters represents parsed filters from a list query
type Filters struct {
	Terms         []string  // free words, all must match
	Bean          string    // substring of bean_name
	Grinder       string    // substring of grinder
	FavoritesOnly bool
	After         time.Time // zero means unset
	Before        time.Time // zero means unset
}

// ParseQuery extracts filters from a query string
// Supports:
//   - bean:<name>, grinder:<name> - case-insensitive substring match
//   - fav, favorite - favorites only
//   - date:yesterday, after:3-days-ago, before:2024-11-01 - date ranges
//
// Natural-language dates resolve to the start of their day.
func ParseQuery(query string, now time.Time) Filters {
	filters := Filters{}

	// Initialize date parser with English rules
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	for _, token := range strings.Fields(query) {
		lower := strings.ToLower(token)
		switch {
		case lower == "fav" || lower == "favorite" || lower == "favorites":
			filters.FavoritesOnly = true
		case strings.HasPrefix(lower, "bean:"):
			filters.Bean = strings.ToLower(token[len("bean:"):])
		case strings.HasPrefix(lower, "grinder:"):
			filters.Grinder = strings.ToLower(token[len("grinder:"):])
		case strings.HasPrefix(lower, "date:"):
			if t, ok := parseDate(w, token[len("date:"):], now); ok {
				filters.After = t
			}
		case strings.HasPrefix(lower, "after:"):
			if t, ok := parseDate(w, token[len("after:"):], now); ok {
				filters.After = t
			}
		case strings.HasPrefix(lower, "before:"):
			if t, ok := parseDate(w, token[len("before:"):], now); ok {
				filters.Before = t
			}
		default:
			filters.Terms = append(filters.Terms, lower)
		}
	}

	return filters
}

// IsEmpty reports whether the filters match everything
func (f Filters) IsEmpty() bool {
	return len(f.Terms) == 0 && f.Bean == "" && f.Grinder == "" &&
		!f.FavoritesOnly && f.After.IsZero() && f.Before.IsZero()
}

// Match reports whether a single entry passes the filters
func (f Filters) Match(e models.BrewLogEntry) bool {
	if f.FavoritesOnly && !e.Favorite() {
		return false
	}
	if f.Bean != "" && !strings.Contains(strings.ToLower(e.Session.BeanName), f.Bean) {
		return false
	}
	if f.Grinder != "" && !strings.Contains(strings.ToLower(e.Session.Grinder), f.Grinder) {
		return false
	}
	if !f.After.IsZero() && e.Timestamp.Before(f.After) {
		return false
	}
	if !f.Before.IsZero() && !e.Timestamp.Before(f.Before) {
		return false
	}

	if len(f.Terms) > 0 {
		haystack := strings.ToLower(strings.Join([]string{
			e.Session.BeanName, e.Session.Grinder, e.Session.Notes, e.Suggestion,
		}, "\n"))
		for _, term := range f.Terms {
			if !strings.Contains(haystack, term) {
				return false
			}
		}
	}
	return true
}

// Apply returns the store indices of matching entries in append order
func Apply(entries []models.BrewLogEntry, f Filters) []int {
	var out []int
	for i, e := range entries {
		if f.Match(e) {
			out = append(out, i)
		}
	}
	return out
}

// parseDate tries fixed layouts first, then natural language with dashes
// read as spaces ("3-days-ago")
func parseDate(w *when.Parser, dateStr string, now time.Time) (time.Time, bool) {
	formats := []string{
		"2006-01-02",
		models.TimestampLayout,
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
		"01/02/2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, now.Location()); err == nil {
			return t, true
		}
	}

	result, err := w.Parse(strings.ReplaceAll(dateStr, "-", " "), now)
	if err == nil && result != nil {
		t := result.Time
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location()), true
	}
	return time.Time{}, false
}
