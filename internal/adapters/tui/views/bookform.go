package views

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/editor"
	"mylibrary/internal/application/commands"
	"mylibrary/internal/domain"
	"mylibrary/internal/textclean"
)

const (
	bookISBN = iota
	bookTitle
	bookAuthors
	bookCover
	bookLocation
	bookCondition
	bookTags
	bookNotes
)

// BookFormKeyMap defines the extra bindings of the book form
type BookFormKeyMap struct {
	Lookup      key.Binding
	NewLocation key.Binding
	EditNotes   key.Binding
}

var BookFormKeys = BookFormKeyMap{
	Lookup: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "look up ISBN"),
	),
	NewLocation: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "new location"),
	),
	EditNotes: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "notes in editor"),
	),
}

type notesEditedMsg struct {
	draft *editor.Draft
	err   error
}

// BookFormModal adds a book, or edits one when bookID is set
type BookFormModal struct {
	ViewState
	env       Env
	bookID    int64
	form      *InputForm
	carried   commands.BookInput
	saving    bool
	lookingUp bool
}

// NewBookFormModal creates the form prefilled from input
func NewBookFormModal(env Env, bookID int64, input commands.BookInput) *BookFormModal {
	form := NewInputForm(
		NewInputField("ISBN", "978...", 20),
		NewInputField("Title", "required", 300),
		NewInputField("Authors", "comma separated", 500),
		NewInputField("Cover URL", "https://...", 500),
		NewSelectField("Location", locationChoices(env.State.Catalog.Locations())),
		NewSelectField("Condition", conditionChoices()),
		NewInputField("Tags", "comma separated", 500),
		NewInputField("Notes", "ctrl+e for the editor", 2000),
	)
	m := &BookFormModal{env: env, bookID: bookID, form: form, carried: input}
	m.fill(input)
	if input.Title == "" && input.ISBN != "" {
		form.SetFocus(bookTitle)
	}
	return m
}

// WithNotice shows msg above the form, e.g. after a failed scan lookup
func (m *BookFormModal) WithNotice(msg string, isErr bool) *BookFormModal {
	m.SetMessage(msg, isErr)
	return m
}

func locationChoices(locations []domain.Location) []Choice {
	choices := []Choice{{Label: "No location", Value: ""}}
	for _, l := range locations {
		choices = append(choices, Choice{Label: textclean.Line(l.Name), Value: strconv.FormatInt(l.ID, 10)})
	}
	return choices
}

func conditionChoices() []Choice {
	choices := make([]Choice, 0, len(domain.Conditions))
	for _, c := range domain.Conditions {
		choices = append(choices, Choice{Label: c.Label(), Value: string(c)})
	}
	return choices
}

func (m *BookFormModal) fill(in commands.BookInput) {
	m.form.SetValue(bookISBN, in.ISBN)
	m.form.SetValue(bookTitle, in.Title)
	m.form.SetValue(bookAuthors, in.Authors)
	m.form.SetValue(bookCover, in.CoverURL)
	m.form.SetValue(bookLocation, formatID(in.LocationID))
	m.form.SetValue(bookCondition, string(in.Condition))
	m.form.SetValue(bookTags, in.Tags)
	m.form.SetValue(bookNotes, in.Notes)
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// Input collects the current form content plus the lookup-only fields
func (m *BookFormModal) Input() commands.BookInput {
	in := m.carried
	in.ISBN = m.form.Value(bookISBN)
	in.Title = m.form.Value(bookTitle)
	in.Authors = m.form.Value(bookAuthors)
	in.CoverURL = m.form.Value(bookCover)
	in.LocationID, _ = strconv.ParseInt(m.form.Value(bookLocation), 10, 64)
	in.Condition = domain.Condition(m.form.Value(bookCondition))
	in.Tags = m.form.Value(bookTags)
	in.Notes = m.form.RawValue(bookNotes)
	return in
}

// Title implements Modal
func (m *BookFormModal) Title() string {
	if m.bookID != 0 {
		return "Edit book"
	}
	return "Add book"
}

// Close implements Modal
func (m *BookFormModal) Close() {}

// CapturingInput implements InputCapturer
func (m *BookFormModal) CapturingInput() bool { return true }

// Init implements tea.Model
func (m *BookFormModal) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the book form
func (m *BookFormModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BookSavedMsg:
		if m.saving {
			m.saving = false
			return m, popModal()
		}
		return m, nil

	case lookupResultMsg:
		return m, m.handleLookup(msg)

	case failedMsg:
		if msg.source == sourceBookForm {
			m.saving = false
			m.lookingUp = false
			m.SetMessage(validationText(msg.err), true)
		}
		return m, nil

	case CatalogLoadedMsg:
		m.form.SetChoices(bookLocation, locationChoices(msg.Snapshot.Locations))
		return m, nil

	case LocationCreatedMsg:
		if msg.ForBookForm {
			m.selectLocation(msg.Location)
		}
		return m, nil

	case notesEditedMsg:
		return m, m.handleNotes(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, popModal()
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		case key.Matches(msg, BookFormKeys.Lookup):
			return m, m.lookup()
		case key.Matches(msg, BookFormKeys.NewLocation):
			return m, pushModal(NewLocationFormModal(m.env, true))
		case key.Matches(msg, BookFormKeys.EditNotes):
			return m, m.editNotes()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// selectLocation adds l to the selector if the cache has not caught up yet
func (m *BookFormModal) selectLocation(l domain.Location) {
	choices := locationChoices(m.env.State.Catalog.Locations())
	if _, ok := m.env.State.Catalog.Location(l.ID); !ok {
		choices = append(choices, Choice{Label: textclean.Line(l.Name), Value: formatID(l.ID)})
	}
	m.form.SetChoices(bookLocation, choices)
	m.form.SetValue(bookLocation, formatID(l.ID))
}

func (m *BookFormModal) submit() tea.Cmd {
	if m.saving {
		return nil
	}
	cmd := commands.NewSaveBookCommand(m.env.State, m.bookID, m.Input())
	if err := cmd.Validate(); err != nil {
		m.SetMessage(validationText(err), true)
		return nil
	}
	m.saving = true
	m.SetMessage("Saving...", false)
	return saveBookCmd(m.env, cmd)
}

func (m *BookFormModal) lookup() tea.Cmd {
	if m.lookingUp {
		return nil
	}
	isbn := m.form.Value(bookISBN)
	if err := commands.NewLookupISBNCommand(m.env.State, isbn).Validate(); err != nil {
		m.SetMessage("Enter an ISBN to look up", true)
		return nil
	}
	m.lookingUp = true
	m.SetMessage("Looking up "+isbn+"...", false)
	return lookupCmd(m.env, isbn)
}

func (m *BookFormModal) handleLookup(msg lookupResultMsg) tea.Cmd {
	if !m.lookingUp {
		return nil
	}
	m.lookingUp = false

	if msg.miss || msg.meta == nil {
		m.SetMessage(fmt.Sprintf("No book found for ISBN %s, fill in the details yourself", m.form.Value(bookISBN)), true)
		return nil
	}

	in := m.Input()
	in.ApplyMetadata(*msg.meta)
	m.carried = in
	m.fill(in)
	m.SetMessage("Found "+in.Title, false)
	return nil
}

func (m *BookFormModal) editNotes() tea.Cmd {
	if m.env.Editor == nil {
		return nil
	}
	draft, err := editor.NewDraft(m.form.RawValue(bookNotes))
	if err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}
	cmd, err := m.env.Editor.Command(draft.Path)
	if err != nil {
		draft.Finish()
		m.SetMessage(err.Error(), true)
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return notesEditedMsg{draft: draft, err: err}
	})
}

func (m *BookFormModal) handleNotes(msg notesEditedMsg) tea.Cmd {
	notes, err := msg.draft.Finish()
	if msg.err != nil {
		err = msg.err
	}
	if err != nil {
		m.SetMessage("Editor failed: "+err.Error(), true)
		return nil
	}
	m.form.SetValue(bookNotes, notes)
	m.ClearMessage()
	return nil
}

// View renders the book form
func (m *BookFormModal) View() string {
	return NewViewBuilder().
		Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Line(m.form.RenderHelp("save")).
		Help(BookFormKeys.Lookup, BookFormKeys.NewLocation, BookFormKeys.EditNotes).
		StringUnwrapped()
}
