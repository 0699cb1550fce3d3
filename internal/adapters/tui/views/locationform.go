package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/application/commands"
)

const (
	locationName = iota
	locationDescription
)

// LocationFormModal creates a shelving location. When opened from the book
// form it is pushed above it and the book form selects the new location.
type LocationFormModal struct {
	ViewState
	env         Env
	form        *InputForm
	forBookForm bool
	pending     bool
}

// NewLocationFormModal creates an empty location form
func NewLocationFormModal(env Env, forBookForm bool) *LocationFormModal {
	return &LocationFormModal{
		env: env,
		form: NewInputForm(
			NewInputField("Name", "Living room shelf", 100),
			NewInputField("Description", "optional", 500),
		),
		forBookForm: forBookForm,
	}
}

// Title implements Modal
func (m *LocationFormModal) Title() string { return "New location" }

// Close implements Modal
func (m *LocationFormModal) Close() {}

// CapturingInput implements InputCapturer
func (m *LocationFormModal) CapturingInput() bool { return true }

// Init implements tea.Model
func (m *LocationFormModal) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the location form
func (m *LocationFormModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LocationCreatedMsg:
		if m.pending {
			m.pending = false
			return m, popModal()
		}
		return m, nil

	case failedMsg:
		if msg.source == sourceLocation {
			m.pending = false
			m.SetMessage(validationText(msg.err), true)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, popModal()
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *LocationFormModal) submit() tea.Cmd {
	if m.pending {
		return nil
	}
	cmd := commands.NewCreateLocationCommand(m.env.State, m.form.Value(locationName), m.form.Value(locationDescription))
	if err := cmd.Validate(); err != nil {
		m.SetMessage(validationText(err), true)
		return nil
	}
	m.pending = true
	m.SetMessage("Saving...", false)
	return createLocationCmd(m.env, cmd, m.forBookForm)
}

// View renders the location form
func (m *LocationFormModal) View() string {
	return NewViewBuilder().
		Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("create")).
		StringUnwrapped()
}
