package models

import "time"

// TimestampLayout is the on-disk and display format of entry timestamps
const TimestampLayout = "2006-01-02 15:04:05"

// BrewLogEntry is a saved snapshot of a BrewSession
type BrewLogEntry struct {
	Timestamp  time.Time
	Session    BrewSession
	Suggestion string // suggestion text produced when the entry was saved
}

// Favorite reports whether the entry is marked as a favorite
func (e BrewLogEntry) Favorite() bool {
	return e.Session.Favorite
}

// Reload returns the fields that go back into an editable session. The
// favorite flag and the stored suggestion stay with the entry.
func (e BrewLogEntry) Reload() BrewSession {
	s := e.Session
	s.Favorite = false
	return s
}

// Label is a short human description used in pickers
func (e BrewLogEntry) Label() string {
	bean := e.Session.BeanName
	if bean == "" {
		bean = "(unnamed bean)"
	}
	return bean + " - " + e.Timestamp.Format(TimestampLayout)
}
