package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/espressolog/internal/core/models"
)

func (m Model) openDetail(b brewEntry) Model {
	m.detail = b
	m.viewport.SetContent(detailContent(b))
	m.viewport.GotoTop()
	m.mode = detailView
	return m
}

func detailContent(b brewEntry) string {
	e := b.entry
	s := e.Session
	var sb strings.Builder

	title := fmt.Sprintf("#%d %s", b.index, e.Label())
	if e.Favorite() {
		title += " " + favoriteStyle.Render("★")
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(timestampStyle.Render(fmt.Sprintf("Brewed %s (%s)",
		e.Timestamp.Format(models.TimestampLayout), humanize.Time(e.Timestamp))))
	sb.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Grinder", s.Grinder},
		{"Dose", fmt.Sprintf("%g g", s.Dose)},
		{"Grind size", fmt.Sprintf("%g", s.GrindSize)},
		{"Pre-infusion", fmt.Sprintf("%g s", s.PreInfusionTime)},
		{"Yield", fmt.Sprintf("%g g", s.Yield)},
		{"Shot time", fmt.Sprintf("%g s", s.ShotTime)},
		{"Sourness", ratingBar(s.Sourness)},
		{"Bitterness", ratingBar(s.Bitterness)},
		{"Sweetness", ratingBar(s.Sweetness)},
		{"Body", ratingBar(s.Body)},
		{"Overall", ratingBar(s.OverallSatisfaction)},
	}
	for _, r := range rows {
		sb.WriteString(labelStyle.Render(r.label))
		sb.WriteString(r.value)
		sb.WriteString("\n")
	}

	if s.Notes != "" {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("Notes"))
		sb.WriteString("\n")
		sb.WriteString(s.Notes)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(suggestionStyle.Render(e.Suggestion))
	sb.WriteString("\n")
	return sb.String()
}

// ratingBar draws a 1-5 rating as filled and empty dots
func ratingBar(v int) string {
	if v < models.MinRating || v > models.MaxRating {
		return fmt.Sprintf("%d", v)
	}
	return strings.Repeat("●", v) + strings.Repeat("○", models.MaxRating-v) + fmt.Sprintf(" %d", v)
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = listView
		return m, nil

	case "l":
		return m.loadInto(m.detail.index)

	case "f":
		m.mode = listView
		return m, setFavorite(m.store, m.detail.index, !m.detail.entry.Favorite())

	case "c":
		m.copyText(m.detail.entry.Suggestion, "Suggestion copied to clipboard")
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewDetail() string {
	return m.viewport.View() + "\n" +
		m.footer("l load into dial-in • f favorite • c copy suggestion • esc back")
}
