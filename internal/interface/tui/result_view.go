package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/neilberkman/espressolog/internal/core/session"
)

// changeTable renders the current vs suggested values side by side
func changeTable(out session.Outcome) string {
	rows := out.Result.Rows(out.Brewed)
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(helpStyle).
		Headers("Parameter", "Current", "Suggested").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	for _, r := range rows {
		t.Row(session.ParamLabel(r.Param), session.FormatValue(r.Current), session.FormatValue(r.Suggested))
	}
	return t.Render()
}

func (m Model) resultContent() string {
	var b strings.Builder

	b.WriteString(suggestionStyle.Render(m.last.Result.Text))
	b.WriteString("\n\n")
	if t := changeTable(m.last); t != "" {
		b.WriteString(t)
		b.WriteString("\n\n")
	}
	b.WriteString(m.report)
	return b.String()
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		// Dial-in values carry over to the next shot
		return m.openDialIn()

	case "c":
		m.copyText(m.report, "Report copied to clipboard")
		return m, nil

	case "enter", "esc", "q":
		m.mode = listView
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewResult() string {
	return titleStyle.Render("Brew saved") + "\n" +
		m.viewport.View() + "\n" +
		m.footer("n next brew • c copy report • enter back to history")
}
