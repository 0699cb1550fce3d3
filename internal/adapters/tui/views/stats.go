package views

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/domain"
	"mylibrary/internal/textclean"
)

const (
	statsTopN   = 10
	statsRecent = 5
)

// StatsKeyMap defines key bindings for the stats view
type StatsKeyMap struct {
	Refresh key.Binding
}

var StatsKeys = StatsKeyMap{
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
}

// StatsModel shows the server-computed statistics snapshot
type StatsModel struct {
	ViewState
	env     Env
	stats   *domain.Stats
	loading bool
	spinner spinner.Model
}

// NewStatsModel creates the stats view
func NewStatsModel(env Env) *StatsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner
	return &StatsModel{env: env, spinner: s}
}

// Init fetches a fresh snapshot every time the view is shown
func (m *StatsModel) Init() tea.Cmd {
	m.loading = true
	m.ClearMessage()
	return tea.Batch(m.spinner.Tick, statsCmd(m.env))
}

// Stats returns the last loaded snapshot
func (m *StatsModel) Stats() *domain.Stats {
	return m.stats
}

// Reset drops the snapshot, used after logout
func (m *StatsModel) Reset() {
	m.stats = nil
	m.loading = false
	m.ClearMessage()
}

// Update handles messages for the stats view
func (m *StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case statsLoadedMsg:
		m.loading = false
		m.stats = msg.stats
		return m, nil

	case failedMsg:
		if msg.source == sourceStats {
			m.loading = false
			m.SetMessage(validationText(msg.err), true)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, StatsKeys.Refresh) && !m.loading {
			return m, m.Init()
		}
	}
	return m, nil
}

// View renders the stats view
func (m *StatsModel) View() string {
	v := NewViewBuilder().Title("Statistics")

	if m.loading && m.stats == nil {
		v.Line(m.spinner.View() + " Loading statistics...")
		return v.StringUnwrapped()
	}
	if m.stats == nil {
		v.Message(m.Message, m.MessageErr)
		v.Help(StatsKeys.Refresh)
		return v.StringUnwrapped()
	}

	s := m.stats
	v.Line(RenderLabelValue("Total books", strconv.Itoa(s.TotalBooks)))
	v.Line(RenderLabelValue("Pinned", strconv.Itoa(len(s.PinnedBooks))))

	v.Section("Top authors")
	if len(s.BooksByAuthor) == 0 {
		v.Muted("  No authors yet")
	}
	for _, a := range s.BooksByAuthor[:min(statsTopN, len(s.BooksByAuthor))] {
		v.Line(countLine(a.Author, a.Count))
	}

	v.Section("Top tags")
	if len(s.BooksByTag) == 0 {
		v.Muted("  No tags yet")
	}
	for _, t := range s.BooksByTag[:min(statsTopN, len(s.BooksByTag))] {
		v.Line(countLine("#"+t.Tag, t.Count))
	}

	v.Section("Locations")
	if len(s.BooksByLocation) == 0 {
		v.Muted("  No locations yet")
	}
	for _, l := range s.BooksByLocation {
		v.Line(countLine(l.Location, l.Count))
	}

	v.Section("Recently added")
	if len(s.RecentAdditions) == 0 {
		v.Muted("  Nothing added yet")
	}
	for _, b := range s.RecentAdditions[:min(statsRecent, len(s.RecentAdditions))] {
		line := "  " + textclean.Line(b.Title)
		if authors := textclean.Join(b.Authors, ", "); authors != "" {
			line += " " + styles.Authors.Render("by "+authors)
		}
		v.Line(line)
	}

	v.BlankLine()
	v.Message(m.Message, m.MessageErr)
	v.Help(StatsKeys.Refresh)
	return v.StringUnwrapped()
}

func countLine(label string, count int) string {
	return fmt.Sprintf("  %s %s", padRight(Truncate(label, 40), 42), styles.HelpKey.Render(strconv.Itoa(count)))
}
