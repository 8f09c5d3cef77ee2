package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/espressolog/internal/core/brewlog"
	"github.com/neilberkman/espressolog/internal/core/models"
	"github.com/neilberkman/espressolog/internal/core/session"
)

type errMsg struct {
	err error
}

type entriesLoadedMsg struct {
	entries []brewEntry
}

type brewSavedMsg struct {
	workflow session.Workflow
	outcome  session.Outcome
}

type statusMsg struct {
	text string
}

// brewEntry pairs a log entry with its store index
type brewEntry struct {
	index int
	entry models.BrewLogEntry
}

func loadEntries(st *brewlog.Store) tea.Cmd {
	return func() tea.Msg {
		entries := st.List()
		out := make([]brewEntry, 0, len(entries))
		// Newest first (interface concern - the log stays in append order)
		for _, i := range brewlog.SortedIndices(entries) {
			out = append(out, brewEntry{index: i, entry: entries[i]})
		}
		return entriesLoadedMsg{entries: out}
	}
}

// saveBrew runs the "get suggestions" trigger on a copy of the workflow
func saveBrew(st *brewlog.Store, w session.Workflow) tea.Cmd {
	return func() tea.Msg {
		out, err := w.Finish(context.Background(), st)
		if err != nil {
			return errMsg{err}
		}
		return brewSavedMsg{workflow: w, outcome: out}
	}
}

func setFavorite(st *brewlog.Store, index int, favorite bool) tea.Cmd {
	return func() tea.Msg {
		if err := st.SetFavorite(context.Background(), index, favorite); err != nil {
			return errMsg{err}
		}
		text := "Unmarked favorite"
		if favorite {
			text = "Marked as favorite ★"
		}
		return statusMsg{text: text}
	}
}

func deleteEntries(st *brewlog.Store, indices []int) tea.Cmd {
	return func() tea.Msg {
		removed, err := st.BatchDelete(context.Background(), indices)
		if err != nil {
			return errMsg{err}
		}
		return statusMsg{text: pluralize(removed, "brew") + " deleted"}
	}
}
