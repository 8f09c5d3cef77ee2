package brewlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/neilberkman/espressolog/internal/core/models"
)

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Minute)
		return now
	}
}

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brew_log.csv")
	st, err := Open(path, WithClock(fixedClock(time.Date(2024, 5, 1, 7, 0, 0, 500, time.Local))))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return st, path
}

func entry(bean string, favorite bool) models.BrewLogEntry {
	s := models.DefaultSession()
	s.BeanName = bean
	s.Grinder = "Niche Zero"
	s.Favorite = favorite
	return models.BrewLogEntry{Session: s, Suggestion: "Brew looks balanced! Keep these parameters."}
}

func seed(t *testing.T, st *Store, beans ...string) {
	t.Helper()
	for _, b := range beans {
		if _, _, err := st.Append(context.Background(), entry(b, false)); err != nil {
			t.Fatalf("Append(%s) error = %v", b, err)
		}
	}
}

func beans(entries []models.BrewLogEntry) string {
	var names []string
	for _, e := range entries {
		names = append(names, e.Session.BeanName)
	}
	return strings.Join(names, ",")
}

func TestOpenCreatesHeaderOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "brew_log.csv")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d, want 0", st.Len())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join(Columns, ",") + "\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brew_log.csv")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d", st.Len())
	}
}

func TestAppendRoundTrip(t *testing.T) {
	st, path := openTemp(t)

	e := entry("Ethiopia Guji", true)
	e.Session.Notes = "jasmine, \"tea-like\",\nlong finish"
	e.Session.Dose = 18.3
	e.Suggestion = "Too sour → grind finer (decrease grind size by 0.5)"

	index, stored, err := st.Append(context.Background(), e)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if index != 0 {
		t.Errorf("Append() index = %d, want 0", index)
	}
	if stored.Timestamp.Nanosecond() != 0 {
		t.Errorf("timestamp not truncated to seconds: %v", stored.Timestamp)
	}

	list := st.List()
	last := list[len(list)-1]
	if last.Session != e.Session || last.Suggestion != e.Suggestion {
		t.Errorf("last entry = %+v, want %+v", last, e)
	}
	if got := last.Timestamp.Format(models.TimestampLayout); got != "2024-05-01 07:00:00" {
		t.Errorf("timestamp = %s", got)
	}

	// Reopen from disk and compare again.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	got := reopened.List()
	if len(got) != 1 {
		t.Fatalf("reopened Len = %d", len(got))
	}
	if got[0].Session != e.Session || got[0].Suggestion != e.Suggestion {
		t.Errorf("reopened entry = %+v", got[0])
	}
	if !got[0].Timestamp.Equal(stored.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, stored.Timestamp)
	}
}

func TestAppendReturnsAssignedIndex(t *testing.T) {
	st, _ := openTemp(t)
	seed(t, st, "a", "b")

	index, _, err := st.Append(context.Background(), entry("c", false))
	if err != nil {
		t.Fatal(err)
	}
	if index != 2 {
		t.Fatalf("index = %d, want 2", index)
	}
	if e, _ := st.Get(index); e.Session.BeanName != "c" {
		t.Errorf("Get(%d) = %+v", index, e)
	}
}

func TestAppendRejectsInvalidSession(t *testing.T) {
	st, _ := openTemp(t)
	e := entry("bad", false)
	e.Session.Body = 9

	_, _, err := st.Append(context.Background(), e)
	if !errors.Is(err, models.ErrInvalidSession) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if st.Len() != 0 {
		t.Error("invalid entry was stored")
	}
}

func TestListReturnsCopy(t *testing.T) {
	st, _ := openTemp(t)
	seed(t, st, "a")

	list := st.List()
	list[0].Session.BeanName = "mutated"
	if st.List()[0].Session.BeanName != "a" {
		t.Error("List() exposed internal storage")
	}
}

func TestSetFavoriteIdempotent(t *testing.T) {
	st, path := openTemp(t)
	seed(t, st, "a", "b")
	ctx := context.Background()

	if err := st.SetFavorite(ctx, 1, true); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)
	if err := st.SetFavorite(ctx, 1, true); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(path)

	if string(first) != string(second) {
		t.Error("second SetFavorite changed the file")
	}
	list := st.List()
	if list[0].Favorite() || !list[1].Favorite() {
		t.Errorf("favorites = %v,%v", list[0].Favorite(), list[1].Favorite())
	}

	if err := st.SetFavorite(ctx, 1, false); err != nil {
		t.Fatal(err)
	}
	if st.List()[1].Favorite() {
		t.Error("favorite not cleared")
	}
}

func TestBatchDelete(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		want    string
		removed int
	}{
		{"single", []int{1}, "a,c,d", 1},
		{"set semantics", []int{3, 0, 3}, "b,c", 2},
		{"all", []int{0, 1, 2, 3}, "", 4},
		{"none", nil, "a,b,c,d", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, path := openTemp(t)
			seed(t, st, "a", "b", "c", "d")
			if err := st.SetFavorite(context.Background(), 2, true); err != nil {
				t.Fatal(err)
			}

			removed, err := st.BatchDelete(context.Background(), tt.indices)
			if err != nil {
				t.Fatalf("BatchDelete() error = %v", err)
			}
			if removed != tt.removed {
				t.Errorf("removed = %d, want %d", removed, tt.removed)
			}
			if got := beans(st.List()); got != tt.want {
				t.Errorf("survivors = %q, want %q", got, tt.want)
			}
			for _, e := range st.List() {
				if e.Favorite() != (e.Session.BeanName == "c") {
					t.Errorf("favorite flag of %s = %v", e.Session.BeanName, e.Favorite())
				}
			}

			reopened, err := Open(path)
			if err != nil {
				t.Fatal(err)
			}
			if got := beans(reopened.List()); got != tt.want {
				t.Errorf("persisted survivors = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndexErrors(t *testing.T) {
	st, _ := openTemp(t)
	seed(t, st, "a", "b")
	ctx := context.Background()

	checks := map[string]error{
		"SetFavorite": st.SetFavorite(ctx, 2, true),
		"LoadByIndex": func() error { _, err := st.LoadByIndex(-1); return err }(),
		"BatchDelete": func() error { _, err := st.BatchDelete(ctx, []int{0, 5}); return err }(),
	}
	for name, err := range checks {
		var ierr *IndexError
		if !errors.As(err, &ierr) {
			t.Errorf("%s: expected *IndexError, got %v", name, err)
			continue
		}
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("%s: errors.Is(ErrIndexOutOfRange) = false", name)
		}
	}

	// The failed batch must not have removed index 0.
	if st.Len() != 2 {
		t.Errorf("Len() = %d after rejected batch delete", st.Len())
	}
}

func TestLoadByIndex(t *testing.T) {
	st, _ := openTemp(t)
	e := entry("Brazil", true)
	e.Session.Sourness = 5
	e.Session.Notes = "nutty"
	if _, _, err := st.Append(context.Background(), e); err != nil {
		t.Fatal(err)
	}

	got, err := st.LoadByIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	want := st.List()[0].Session
	want.Favorite = false
	if got != want {
		t.Errorf("LoadByIndex = %+v, want %+v", got, want)
	}
}

func TestWriteFailureLeavesMemoryUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "brew_log.csv")
	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	seed(t, st, "a")

	if err := os.RemoveAll(filepath.Dir(path)); err != nil {
		t.Fatal(err)
	}

	_, _, err = st.Append(context.Background(), entry("b", false))
	if !errors.Is(err, ErrStoreIO) {
		t.Fatalf("expected store I/O error, got %v", err)
	}
	if got := beans(st.List()); got != "a" {
		t.Errorf("memory = %q, want a", got)
	}

	err = st.SetFavorite(context.Background(), 0, true)
	if !errors.Is(err, ErrStoreIO) {
		t.Fatalf("expected store I/O error, got %v", err)
	}
	if st.List()[0].Favorite() {
		t.Error("favorite changed despite failed write")
	}
}

func TestCanceledContext(t *testing.T) {
	st, _ := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := st.Append(ctx, entry("a", false)); !errors.Is(err, context.Canceled) {
		t.Errorf("Append error = %v", err)
	}
	if st.Len() != 0 {
		t.Error("entry appended with canceled context")
	}
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	st, path := openTemp(t)
	seed(t, st, "a", "b")

	files, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		var names []string
		for _, f := range files {
			names = append(names, f.Name())
		}
		t.Errorf("directory contents = %v", names)
	}
}

func TestSortedIndices(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []models.BrewLogEntry{
		{Timestamp: base.Add(2 * time.Hour)},
		{Timestamp: base},
		{Timestamp: base.Add(2 * time.Hour)},
		{Timestamp: base.Add(time.Hour)},
	}
	got := SortedIndices(entries)
	want := []int{2, 0, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedIndices = %v, want %v", got, want)
		}
	}
}
