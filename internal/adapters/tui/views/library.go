package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/application"
	"mylibrary/internal/application/commands"
	"mylibrary/internal/domain"
	"mylibrary/internal/ports"
	"mylibrary/internal/textclean"
)

// LibraryKeyMap defines key bindings for the library view
type LibraryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Open     key.Binding
	Search   key.Binding
	Location key.Binding
	Clear    key.Binding
	Add      key.Binding
	Scan     key.Binding
	Import   key.Binding
	Export   key.Binding
	Refresh  key.Binding
	Done     key.Binding
}

var LibraryKeys = LibraryKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("ctrl+f", "pgdown"),
		key.WithHelp("ctrl+f", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("ctrl+b", "pgup"),
		key.WithHelp("ctrl+b", "prev page"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Location: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "location"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear filters"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Scan: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "scan"),
	),
	Import: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "import"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Done: key.NewBinding(
		key.WithKeys("enter", "esc"),
		key.WithHelp("enter/esc", "done"),
	),
}

// LibraryModel lists the catalog with search and location filters
type LibraryModel struct {
	ViewState
	env       Env
	search    textinput.Model
	searching bool
	filter    domain.Filter
	books     []domain.Book
	paginator *Paginator
}

// NewLibraryModel creates the library view
func NewLibraryModel(env Env) *LibraryModel {
	search := textinput.New()
	search.Placeholder = "title, author or ISBN"
	search.Prompt = "/ "
	search.CharLimit = 100

	return &LibraryModel{
		env:       env,
		search:    search,
		paginator: NewPaginator(10),
	}
}

// Init initializes the library view
func (m *LibraryModel) Init() tea.Cmd {
	m.apply()
	return nil
}

// CapturingInput implements InputCapturer
func (m *LibraryModel) CapturingInput() bool {
	return m.searching
}

// Filter returns the active filter
func (m *LibraryModel) Filter() domain.Filter {
	return m.filter
}

// Visible returns the books that pass the filter, in catalog order
func (m *LibraryModel) Visible() []domain.Book {
	return m.books
}

// Selected returns the book under the cursor
func (m *LibraryModel) Selected() (domain.Book, bool) {
	i := m.paginator.Cursor()
	if i < 0 || i >= len(m.books) {
		return domain.Book{}, false
	}
	return m.books[i], true
}

// Reset clears filters and cursor, used after logout
func (m *LibraryModel) Reset() {
	m.filter = domain.Filter{}
	m.search.SetValue("")
	m.search.Blur()
	m.searching = false
	m.books = nil
	m.paginator.Reset()
}

// apply re-runs the filter against the cache
func (m *LibraryModel) apply() {
	if m.filter.LocationID != 0 {
		if _, ok := m.env.State.Catalog.Location(m.filter.LocationID); !ok {
			m.filter.LocationID = 0
		}
	}
	m.books = m.env.State.Catalog.Filter(m.filter)
	m.paginator.SetTotal(len(m.books))
}

// SetSize updates the view dimensions and the page size
func (m *LibraryModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(max(3, (height-14)/2))
	m.search.Width = max(20, width/2)
}

// Update handles messages for the library view
func (m *LibraryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case CatalogLoadedMsg:
		m.apply()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m, m.updateSearch(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *LibraryModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, LibraryKeys.Done) {
		m.searching = false
		m.search.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.filter.Search != m.search.Value() {
		m.filter.Search = m.search.Value()
		m.paginator.SetCursor(0)
		m.apply()
	}
	return cmd
}

func (m *LibraryModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, LibraryKeys.Up):
		m.paginator.CursorUp()
	case key.Matches(msg, LibraryKeys.Down):
		m.paginator.CursorDown()
	case key.Matches(msg, LibraryKeys.NextPage):
		m.paginator.NextPage()
	case key.Matches(msg, LibraryKeys.PrevPage):
		m.paginator.PrevPage()

	case key.Matches(msg, LibraryKeys.Search):
		m.searching = true
		return m.search.Focus()

	case key.Matches(msg, LibraryKeys.Location):
		m.filter.LocationID = nextLocation(m.env.State.Catalog.Locations(), m.filter.LocationID)
		m.paginator.SetCursor(0)
		m.apply()

	case key.Matches(msg, LibraryKeys.Clear):
		m.filter = domain.Filter{}
		m.search.SetValue("")
		m.apply()

	case key.Matches(msg, LibraryKeys.Open):
		if book, ok := m.Selected(); ok {
			return openModal(NewBookDetailsModal(m.env, book.ID))
		}

	case key.Matches(msg, LibraryKeys.Add):
		return openModal(NewBookFormModal(m.env, 0, commands.BookInput{LocationID: m.filter.LocationID}))

	case key.Matches(msg, LibraryKeys.Scan):
		return openModal(NewScanModal(m.env))

	case key.Matches(msg, LibraryKeys.Import):
		return openModal(NewImportModal(m.env))

	case key.Matches(msg, LibraryKeys.Export):
		if !m.env.State.Workflows.Busy(application.WorkflowExport) {
			m.env.notify(ports.LevelInfo, "Export started")
		}
		return exportCmd(m.env)

	case key.Matches(msg, LibraryKeys.Refresh):
		return cmdOf(RefreshCatalogMsg{})
	}
	return nil
}

// nextLocation cycles all → first → ... → last → all
func nextLocation(locations []domain.Location, current int64) int64 {
	if len(locations) == 0 {
		return 0
	}
	if current == 0 {
		return locations[0].ID
	}
	for i, l := range locations {
		if l.ID == current {
			if i+1 < len(locations) {
				return locations[i+1].ID
			}
			return 0
		}
	}
	return 0
}

// View renders the library view
func (m *LibraryModel) View() string {
	v := NewViewBuilder()

	total := len(m.env.State.Catalog.Books())
	heading := fmt.Sprintf("My Library (%d)", total)
	if !m.filter.IsZero() {
		heading = fmt.Sprintf("My Library (%d of %d)", len(m.books), total)
	}
	v.Title(heading)

	v.Line(m.renderFilters()).BlankLine()

	switch {
	case !m.env.State.Catalog.Loaded():
		v.Muted("Loading your library...")
	case total == 0:
		v.Muted("No books in your library yet. Press a to add your first book.")
	case len(m.books) == 0:
		v.Muted("No books match the filters. Press c to clear them.")
	default:
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			v.Raw(m.renderRow(m.books[i], i == m.paginator.Cursor()))
		}
		if info := m.paginator.PageInfo(); info != "" {
			v.Muted(info)
		}
	}

	v.BlankLine()
	if m.searching {
		v.Help(LibraryKeys.Done)
	} else {
		v.Help(LibraryKeys.Open, LibraryKeys.Search, LibraryKeys.Location, LibraryKeys.Clear,
			LibraryKeys.Add, LibraryKeys.Scan, LibraryKeys.Import, LibraryKeys.Export)
	}
	return v.StringUnwrapped()
}

func (m *LibraryModel) renderFilters() string {
	searchView := m.search.View()
	if !m.searching && m.search.Value() == "" {
		searchView = RenderMuted("/ search")
	}

	location := "All locations"
	if m.filter.LocationID != 0 {
		location = textclean.Line(m.env.State.Catalog.LocationName(m.filter.LocationID))
	}
	return searchView + "   " + RenderLabelValue("Location", location)
}

func (m *LibraryModel) renderRow(b domain.Book, selected bool) string {
	marker := "  "
	if b.IsPinned {
		marker = styles.Pinned.Render("★ ")
	}

	title := Truncate(textclean.Line(b.Title), max(20, m.Width-8))
	if selected {
		title = styles.RowSelected.Render(title)
	}

	var details []string
	if authors := textclean.Join(b.Authors, ", "); authors != "" {
		details = append(details, styles.Authors.Render(authors))
	}
	if b.HasLocation() {
		details = append(details, "@ "+textclean.Line(m.env.State.Catalog.LocationName(b.LocationID)))
	}
	if b.Condition != domain.ConditionNone {
		details = append(details, b.Condition.Label())
	}
	if tags := textclean.Join(b.TagNames(), " #"); tags != "" {
		details = append(details, styles.Tags.Render("#"+tags))
	}

	return marker + title + "\n    " + strings.Join(details, RenderMuted(" · ")) + "\n"
}

// bookLabel is the short form used in confirmations and toasts
func bookLabel(b domain.Book) string {
	label := strconv.Quote(textclean.Line(b.Title))
	if authors := textclean.Join(b.Authors, ", "); authors != "" {
		label += " by " + authors
	}
	return label
}
