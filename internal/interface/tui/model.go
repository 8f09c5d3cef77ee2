package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/espressolog/internal/core/brewlog"
	"github.com/neilberkman/espressolog/internal/core/models"
	"github.com/neilberkman/espressolog/internal/core/session"
)

type viewMode int

const (
	listView viewMode = iota
	dialInView
	ratingView
	resultView
	detailView
	helpView
)

type Model struct {
	store          *brewlog.Store
	reportTemplate string
	workflow       session.Workflow

	mode     viewMode
	list     list.Model
	viewport viewport.Model
	form     form
	query    textinput.Model
	querying bool
	width    int
	height   int
	err      error
	status   string
	saving   bool

	entries []brewEntry     // newest first
	marked  map[int]bool    // store indices selected for batch operations
	detail  brewEntry       // entry shown in the detail view
	last    session.Outcome // most recent saved brew
	report  string
}

// New creates the TUI model. defaults seed the first dial-in form.
func New(st *brewlog.Store, defaults models.BrewSession, reportTemplate string) Model {
	q := textinput.New()
	q.Placeholder = "bean:kenya after:last-week fav chocolate"
	q.Prompt = ""
	q.CharLimit = 200
	q.Width = 60

	return Model{
		store:          st,
		reportTemplate: reportTemplate,
		workflow:       *session.NewWorkflow(defaults),
		mode:           listView,
		list:           createBrewList(0, 0),
		viewport:       viewport.New(0, 0),
		query:          q,
		marked:         map[int]bool{},
	}
}

func (m Model) Init() tea.Cmd {
	return loadEntries(m.store)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-3) // filter bar + footer
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 2
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Any key dismisses the last message
		m.err = nil
		m.status = ""

		// Mode-specific key handling
		switch m.mode {
		case listView:
			return m.updateList(msg)
		case dialInView:
			return m.updateDialIn(msg)
		case ratingView:
			return m.updateRating(msg)
		case resultView:
			return m.updateResult(msg)
		case detailView:
			return m.updateDetail(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case entriesLoadedMsg:
		m.entries = msg.entries
		m.refreshList()
		return m, nil

	case brewSavedMsg:
		m.saving = false
		m.workflow = msg.workflow
		m.last = msg.outcome
		report, err := session.RenderReport(m.reportTemplate, msg.outcome.Brewed, msg.outcome.Result, msg.outcome.Entry.Timestamp)
		if err != nil {
			m.err = err
		}
		m.report = report
		m.viewport.SetContent(m.resultContent())
		m.viewport.GotoTop()
		m.mode = resultView
		return m, loadEntries(m.store)

	case statusMsg:
		m.status = msg.text
		return m, loadEntries(m.store)

	case errMsg:
		m.saving = false
		m.err = msg.err
		return m, loadEntries(m.store)
	}

	// Cursor blink and other input plumbing
	var cmd tea.Cmd
	switch {
	case m.mode == dialInView || m.mode == ratingView:
		m.form, cmd = m.form.update(msg)
	case m.querying:
		m.query, cmd = m.query.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.mode {
	case listView:
		return m.viewList()
	case dialInView, ratingView:
		return m.viewForm()
	case resultView:
		return m.viewResult()
	case detailView:
		return m.viewDetail()
	case helpView:
		return m.viewHelp()
	}

	return ""
}
