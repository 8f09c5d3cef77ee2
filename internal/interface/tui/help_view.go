package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key returns to the history
	m.mode = listView
	return m, nil
}

func (m Model) viewHelp() string {
	help := `
espressolog - Help
══════════════════

HISTORY
───────
  ↑/↓, j/k     Navigate brews
  n            New brew (dial-in form)
  space        Select / deselect brew
  a / A        Select all / clear selection
  f            Toggle favorite
  D            Delete selected brews (or the one under the cursor)
  l            Load brew into the dial-in form
  enter        Show brew details
  c            Copy suggestion to clipboard
  /            Filter (bean:, grinder:, fav, after:, before:, date:)
  esc          Clear filter
  ?            Show this help
  q            Quit

DIAL-IN AND RATING FORMS
────────────────────────
  tab, ↓       Next field
  shift+tab, ↑ Previous field
  enter        Next field; on the last field "save & brew" (dial-in)
               or "get suggestions" (rating)
  esc          Cancel, keep the values

RESULT
──────
  n            Next brew with the same dial-in
  c            Copy report to clipboard
  enter, esc   Back to history

Press any key to return to history
`

	return helpStyle.Render(help)
}
