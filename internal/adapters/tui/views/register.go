package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/application/commands"
)

const (
	registerEmail = iota
	registerUsername
	registerPassword
)

// RegisterModel is the account creation view
type RegisterModel struct {
	ViewState
	env     Env
	form    *InputForm
	pending bool
}

// NewRegisterModel creates the registration view
func NewRegisterModel(env Env) *RegisterModel {
	return &RegisterModel{
		env: env,
		form: NewInputForm(
			NewInputField("Email", "you@example.org", 254),
			NewInputField("Username", "letters, digits, _ or -", 64),
			NewPasswordField("Password"),
		),
	}
}

// Init initializes the register view
func (m *RegisterModel) Init() tea.Cmd {
	return m.form.Init()
}

// Reset clears the form
func (m *RegisterModel) Reset() {
	m.form.Reset()
	m.pending = false
	m.ClearMessage()
}

// CapturingInput implements InputCapturer
func (m *RegisterModel) CapturingInput() bool { return true }

// Update handles messages for the register view
func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case failedMsg:
		if msg.source == sourceRegister {
			m.pending = false
			m.SetMessage(validationText(msg.err), true)
		}
		return m, nil

	case LoggedInMsg:
		m.Reset()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, AuthKeys.Back):
			return m, cmdOf(SwitchViewMsg{View: ViewLogin})
		case key.Matches(msg, AuthKeys.Submit):
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *RegisterModel) submit() tea.Cmd {
	if m.pending {
		return nil
	}
	cmd := commands.NewRegisterCommand(m.env.State,
		m.form.Value(registerEmail),
		m.form.Value(registerUsername),
		m.form.RawValue(registerPassword),
	)
	if err := cmd.Validate(); err != nil {
		m.SetMessage(validationText(err), true)
		return nil
	}
	m.pending = true
	m.SetMessage("Creating account...", false)
	return registerCmd(m.env, cmd.Registration.Email, cmd.Registration.Username, cmd.Registration.Password)
}

// View renders the register view
func (m *RegisterModel) View() string {
	return NewViewBuilder().
		Title("Create an account").
		Subtitle("You will be signed in right away").
		Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Help(AuthKeys.NextField, AuthKeys.Submit, AuthKeys.Back).
		String()
}
