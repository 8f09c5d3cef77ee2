package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/espressolog/internal/core/search"
)

type brewListItem struct {
	brew   brewEntry
	marked bool
}

func (i brewListItem) FilterValue() string {
	s := i.brew.entry.Session
	return s.BeanName + " " + s.Grinder + " " + s.Notes
}

func (i brewListItem) Title() string {
	s := i.brew.entry.Session
	box := "[ ]"
	if i.marked {
		box = "[x]"
	}
	bean := s.BeanName
	if bean == "" {
		bean = "(unnamed bean)"
	}
	title := fmt.Sprintf("%s #%d %s", box, i.brew.index, bean)
	if s.Grinder != "" {
		title += " · " + s.Grinder
	}
	return title
}

func (i brewListItem) Description() string {
	s := i.brew.entry.Session
	return fmt.Sprintf("%gg → %gg in %gs, grind %g | overall %d/5 | %s",
		s.Dose, s.Yield, s.ShotTime, s.GrindSize, s.OverallSatisfaction, humanize.Time(i.brew.entry.Timestamp))
}

// Custom delegate to render selection and favorite markers
type brewDelegate struct {
	list.DefaultDelegate
}

func (d brewDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	b, ok := item.(brewListItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := b.Title()
	desc := b.Description()

	switch {
	case index == m.Index():
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	case b.marked:
		title = markedItemStyle.Render(title)
		desc = itemStyle.Render(desc)
	default:
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}
	if b.brew.entry.Favorite() {
		title += " " + favoriteStyle.Render("★")
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func createBrewList(width, height int) list.Model {
	delegate := brewDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(nil, delegate, width, height)
	l.Title = ""                 // No title
	l.SetShowStatusBar(false)    // No status bar
	l.SetShowHelp(false)         // No built-in help
	l.SetShowTitle(false)        // No title rendering
	l.SetFilteringEnabled(false) // "/" opens our own query bar
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

// visible returns the entries matching the query bar, newest first
func (m Model) visible() []brewEntry {
	f := search.ParseQuery(m.query.Value(), time.Now())
	if f.IsEmpty() {
		return m.entries
	}
	var out []brewEntry
	for _, b := range m.entries {
		if f.Match(b.entry) {
			out = append(out, b)
		}
	}
	return out
}

// refreshList rebuilds the list items, keeping the cursor in range
func (m *Model) refreshList() {
	visible := m.visible()
	items := make([]list.Item, len(visible))
	for i, b := range visible {
		items[i] = brewListItem{brew: b, marked: m.marked[b.index]}
	}

	cursor := m.list.Index()
	m.list.SetItems(items)
	if cursor >= len(items) {
		cursor = len(items) - 1
	}
	if cursor >= 0 {
		m.list.Select(cursor)
	}
}

func (m Model) current() (brewEntry, bool) {
	item, ok := m.list.SelectedItem().(brewListItem)
	if !ok {
		return brewEntry{}, false
	}
	return item.brew, true
}

// markedIndices returns the selected store indices in ascending order
func (m Model) markedIndices() []int {
	out := make([]int, 0, len(m.marked))
	for i := range m.marked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.querying {
		return m.updateQuery(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.mode = helpView
		return m, nil

	case "/":
		m.querying = true
		cmd := m.query.Focus()
		return m, cmd

	case "esc":
		if m.query.Value() != "" {
			m.query.SetValue("")
			m.refreshList()
		}
		return m, nil

	case "n":
		return m.openDialIn()

	case " ", "space":
		if b, ok := m.current(); ok {
			if m.marked[b.index] {
				delete(m.marked, b.index)
			} else {
				m.marked[b.index] = true
			}
			m.refreshList()
		}
		return m, nil

	case "a":
		for _, b := range m.visible() {
			m.marked[b.index] = true
		}
		m.refreshList()
		return m, nil

	case "A":
		m.marked = map[int]bool{}
		m.refreshList()
		return m, nil

	case "f":
		if b, ok := m.current(); ok {
			return m, setFavorite(m.store, b.index, !b.entry.Favorite())
		}
		return m, nil

	case "D":
		indices := m.markedIndices()
		if len(indices) == 0 {
			if b, ok := m.current(); ok {
				indices = []int{b.index}
			}
		}
		if len(indices) == 0 {
			return m, nil
		}
		// Indices shift after a delete
		m.marked = map[int]bool{}
		return m, deleteEntries(m.store, indices)

	case "l":
		if b, ok := m.current(); ok {
			return m.loadInto(b.index)
		}
		return m, nil

	case "enter":
		if b, ok := m.current(); ok {
			return m.openDetail(b), nil
		}
		return m, nil

	case "c":
		if b, ok := m.current(); ok {
			m.copyText(b.entry.Suggestion, "Suggestion copied to clipboard")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.querying = false
		m.query.Blur()
		return m, nil

	case "esc":
		m.querying = false
		m.query.Blur()
		m.query.SetValue("")
		m.refreshList()
		return m, nil
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	m.refreshList()
	return m, cmd
}

func (m *Model) copyText(text, done string) {
	if err := clipboard.WriteAll(text); err != nil {
		m.err = fmt.Errorf("could not copy to clipboard: %w", err)
		return
	}
	m.status = done
}

func (m Model) viewList() string {
	var b strings.Builder

	if m.querying || m.query.Value() != "" {
		b.WriteString(titleStyle.Render("Filter: "))
		b.WriteString(m.query.View())
		b.WriteString("\n")
	}

	if len(m.entries) == 0 {
		b.WriteString("No brews logged yet. Press 'n' to dial in your first shot.\n")
	} else if len(m.visible()) == 0 {
		b.WriteString("No brews match the filter.\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	b.WriteString(m.footer("n new • space select • f favorite • D delete • l load • enter show • / filter • ? help • q quit"))
	return b.String()
}

// footer shows the last error or status, else the key hints
func (m Model) footer(hints string) string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	if n := len(m.marked); n > 0 {
		hints = fmt.Sprintf("%d selected • ", n) + hints
	}
	return helpStyle.Render(hints)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
