package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/espressolog/internal/core/models"
)

func (m Model) openDialIn() (tea.Model, tea.Cmd) {
	m.form = newDialInForm(m.workflow.Session)
	m.mode = dialInView
	return m, nil
}

// loadInto copies a logged brew into the workflow and opens the dial-in form
func (m Model) loadInto(index int) (tea.Model, tea.Cmd) {
	s, err := m.store.LoadByIndex(index)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.workflow.Load(s)
	m.form = newDialInForm(m.workflow.Session)
	m.mode = dialInView
	m.status = fmt.Sprintf("Loaded brew #%d", index)
	return m, nil
}

// updateForm handles the keys both forms share. It returns submit=true when
// enter was pressed on the last field.
func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		cmd := m.form.move(1)
		return m, cmd, false
	case "shift+tab", "up":
		cmd := m.form.move(-1)
		return m, cmd, false
	case "enter":
		if m.form.onLast() {
			return m, nil, true
		}
		cmd := m.form.move(1)
		return m, cmd, false
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd, false
}

func (m Model) updateDialIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.workflow.Cancel()
		m.mode = listView
		return m, nil
	}

	m, cmd, submit := m.updateForm(msg)
	if !submit {
		return m, cmd
	}

	// "save & brew"
	s, err := m.form.apply(m.workflow.Session)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.workflow.Session = s
	if err := m.workflow.StartBrew(); err != nil {
		m.err = err
		return m, nil
	}
	m.form = newRatingForm(m.workflow.Session)
	m.mode = ratingView
	return m, nil
}

func (m Model) updateRating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	if msg.String() == "esc" {
		m.workflow.Cancel()
		m.mode = listView
		return m, nil
	}

	m, cmd, submit := m.updateForm(msg)
	if !submit {
		return m, cmd
	}

	// "get suggestions"
	s, err := m.form.apply(m.workflow.Session)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.workflow.Session = s
	m.saving = true
	return m, saveBrew(m.store, m.workflow)
}

func (m Model) viewForm() string {
	var b strings.Builder

	phase := m.workflow.Phase()
	b.WriteString(timestampStyle.Render("Phase: " + phase.String()))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	b.WriteString("\n\n")

	if m.saving {
		b.WriteString(statusStyle.Render("Saving..."))
	} else if m.mode == ratingView && phase == models.PhaseBrewing {
		b.WriteString(m.footer("Rate the shot you just pulled"))
	} else {
		b.WriteString(m.footer("Set the dial-in values for the next shot"))
	}
	return b.String()
}
