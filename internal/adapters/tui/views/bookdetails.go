package views

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/application/commands"
	"mylibrary/internal/domain"
	"mylibrary/internal/textclean"
)

// DetailsKeyMap defines key bindings for the book details modal
type DetailsKeyMap struct {
	Edit   key.Binding
	Pin    key.Binding
	Delete key.Binding
	Copy   key.Binding
	Close  key.Binding
}

var DetailsKeys = DetailsKeyMap{
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Pin: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pin/unpin"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy ISBN"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "close"),
	),
}

// BookDetailsModal is a read-only summary taken from the catalog cache
type BookDetailsModal struct {
	ViewState
	env     Env
	bookID  int64
	pinning bool
}

// NewBookDetailsModal shows the cached book with id
func NewBookDetailsModal(env Env, id int64) *BookDetailsModal {
	return &BookDetailsModal{env: env, bookID: id}
}

// Title implements Modal
func (m *BookDetailsModal) Title() string { return "Book details" }

// Close implements Modal
func (m *BookDetailsModal) Close() {}

// Init implements tea.Model
func (m *BookDetailsModal) Init() tea.Cmd { return nil }

func (m *BookDetailsModal) book() (domain.Book, bool) {
	return m.env.State.Catalog.Book(m.bookID)
}

// Update handles messages for the details modal
func (m *BookDetailsModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case PinToggledMsg:
		if msg.Result.BookID == m.bookID {
			m.pinning = false
		}
		return m, nil

	case BookDeletedMsg:
		if msg.Result.BookID == m.bookID {
			return m, popModal()
		}
		return m, nil

	case failedMsg:
		if msg.source == sourceDetails {
			m.pinning = false
			m.SetMessage(validationText(msg.err), true)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *BookDetailsModal) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, DetailsKeys.Close) {
		return popModal()
	}

	book, ok := m.book()
	if !ok {
		return nil
	}

	switch {
	case key.Matches(msg, DetailsKeys.Edit):
		return openModal(NewBookFormModal(m.env, book.ID, commands.InputFromBook(book)))

	case key.Matches(msg, DetailsKeys.Pin):
		if m.pinning {
			return nil
		}
		m.pinning = true
		return togglePinCmd(m.env, book.ID)

	case key.Matches(msg, DetailsKeys.Delete):
		id := book.ID
		return pushModal(NewConfirmModal("Delete book", bookLabel(book), "Delete this book?", func() tea.Cmd {
			return deleteBookCmd(m.env, id)
		}))

	case key.Matches(msg, DetailsKeys.Copy):
		if book.ISBN == "" {
			return nil
		}
		if err := m.env.Clipboard(book.ISBN); err != nil {
			m.SetMessage("Could not copy ISBN: "+err.Error(), true)
			return nil
		}
		m.SetMessage("ISBN copied", false)
	}
	return nil
}

// View renders the details modal
func (m *BookDetailsModal) View() string {
	v := NewViewBuilder()

	b, ok := m.book()
	if !ok {
		v.Muted("This book is no longer in your library.")
		v.BlankLine()
		v.Help(DetailsKeys.Close)
		return v.StringUnwrapped()
	}

	title := styles.Title.Render(textclean.Line(b.Title))
	if b.IsPinned {
		title = styles.Pinned.Render("★ ") + title
	}
	v.Raw(title + "\n")
	if authors := textclean.Join(b.Authors, ", "); authors != "" {
		v.Line(styles.Authors.Render("by " + authors))
	}
	v.BlankLine()

	v.Line(RenderLabelValue("ISBN", b.ISBN))
	v.Line(RenderLabelValue("Publisher", textclean.Line(b.Publisher)))
	if b.PublishedYear != 0 {
		v.Line(RenderLabelValue("Published", strconv.Itoa(b.PublishedYear)))
	}
	if b.PageCount != 0 {
		v.Line(RenderLabelValue("Pages", strconv.Itoa(b.PageCount)))
	}
	v.Line(RenderLabelValue("Location", textclean.Line(m.env.State.Catalog.LocationName(b.LocationID))))
	v.Line(RenderLabelValue("Condition", b.Condition.Label()))
	if tags := textclean.Join(b.TagNames(), " #"); tags != "" {
		v.Line(RenderLabelValue("Tags", styles.Tags.Render("#"+tags)))
	}
	v.Line(RenderLabelValue("Cover", b.CoverURL))

	if desc := textclean.Plain(b.Description); desc != "" {
		v.BlankLine().Section("Description").Line(wrap(desc, m.wrapWidth()))
	}
	if notes := textclean.Plain(b.Notes); notes != "" {
		v.BlankLine().Section("Notes").Line(wrap(notes, m.wrapWidth()))
	}

	v.BlankLine()
	v.Message(m.Message, m.MessageErr)
	v.Help(DetailsKeys.Edit, DetailsKeys.Pin, DetailsKeys.Delete, DetailsKeys.Copy, DetailsKeys.Close)
	return v.StringUnwrapped()
}

func (m *BookDetailsModal) wrapWidth() int {
	if m.Width <= 0 {
		return 70
	}
	return max(30, min(90, m.Width-12))
}

// wrap breaks text on word boundaries at width columns
func wrap(text string, width int) string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
