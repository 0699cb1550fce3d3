package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/application/commands"
	"mylibrary/internal/domain"
)

const (
	profileDisplayName = iota
	profileBio
	profileAvatar
)

// ProfileFormModal edits the public profile fields
type ProfileFormModal struct {
	ViewState
	env     Env
	form    *InputForm
	pending bool
}

// NewProfileFormModal creates the form prefilled from p
func NewProfileFormModal(env Env, p domain.Profile) *ProfileFormModal {
	form := NewInputForm(
		NewInputField("Display name", p.Username, 100),
		NewInputField("Bio", "A few words about your library", 500),
		NewInputField("Avatar URL", "https://...", 500),
	)
	form.SetValue(profileDisplayName, p.DisplayName)
	form.SetValue(profileBio, p.Bio)
	form.SetValue(profileAvatar, p.AvatarURL)
	return &ProfileFormModal{env: env, form: form}
}

// Title implements Modal
func (m *ProfileFormModal) Title() string { return "Edit profile" }

// Close implements Modal
func (m *ProfileFormModal) Close() {}

// CapturingInput implements InputCapturer
func (m *ProfileFormModal) CapturingInput() bool { return true }

// Init implements tea.Model
func (m *ProfileFormModal) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the profile form
func (m *ProfileFormModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProfileUpdatedMsg:
		if m.pending {
			m.pending = false
			return m, popModal()
		}
		return m, nil

	case failedMsg:
		if msg.source == sourceProfile {
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

func (m *ProfileFormModal) submit() tea.Cmd {
	if m.pending {
		return nil
	}
	name := m.form.Value(profileDisplayName)
	bio := m.form.Value(profileBio)
	avatar := m.form.Value(profileAvatar)
	update := domain.ProfileUpdate{DisplayName: &name, Bio: &bio, AvatarURL: &avatar}

	if err := commands.NewUpdateProfileCommand(m.env.State, update).Validate(); err != nil {
		m.SetMessage(validationText(err), true)
		return nil
	}
	m.pending = true
	m.SetMessage("Saving...", false)
	return updateProfileCmd(m.env, sourceProfile, update)
}

// View renders the profile form
func (m *ProfileFormModal) View() string {
	return NewViewBuilder().
		Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("save")).
		StringUnwrapped()
}
