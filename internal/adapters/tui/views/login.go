package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// AuthKeyMap defines key bindings shared by the login and register views
type AuthKeyMap struct {
	Submit    key.Binding
	Switch    key.Binding
	Back      key.Binding
	Quit      key.Binding
	NextField key.Binding
}

var AuthKeys = AuthKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Switch: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "create account"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to login"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
}

const (
	loginUsername = iota
	loginPassword
)

// LoginModel is the sign-in view
type LoginModel struct {
	ViewState
	env     Env
	form    *InputForm
	pending bool
}

// NewLoginModel creates the login view
func NewLoginModel(env Env) *LoginModel {
	return &LoginModel{
		env: env,
		form: NewInputForm(
			NewInputField("Username", "your username", 64),
			NewPasswordField("Password"),
		),
	}
}

// Init initializes the login view
func (m *LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

// Reset clears the form, keeping the username for convenience
func (m *LoginModel) Reset() {
	username := m.form.Value(loginUsername)
	m.form.Reset()
	m.form.SetValue(loginUsername, username)
	if username != "" {
		m.form.SetFocus(loginPassword)
	}
	m.pending = false
}

// CapturingInput implements InputCapturer
func (m *LoginModel) CapturingInput() bool { return true }

// Update handles messages for the login view
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case failedMsg:
		if msg.source == sourceLogin {
			m.pending = false
			m.form.SetValue(loginPassword, "")
			m.SetMessage(validationText(msg.err), true)
		}
		return m, nil

	case LoggedInMsg:
		m.pending = false
		m.form.SetValue(loginPassword, "")
		m.ClearMessage()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, AuthKeys.Switch):
			return m, cmdOf(SwitchViewMsg{View: ViewRegister})
		case key.Matches(msg, AuthKeys.Submit):
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *LoginModel) submit() tea.Cmd {
	if m.pending {
		return nil
	}
	if m.form.Value(loginUsername) == "" || m.form.RawValue(loginPassword) == "" {
		m.SetMessage("Please enter username and password", true)
		return nil
	}
	m.pending = true
	m.SetMessage("Signing in...", false)
	return loginCmd(m.env, m.form.Value(loginUsername), m.form.RawValue(loginPassword))
}

// View renders the login view
func (m *LoginModel) View() string {
	return NewViewBuilder().
		Title("MyLibrary").
		Subtitle("Sign in to your library").
		Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Help(AuthKeys.NextField, AuthKeys.Submit, AuthKeys.Switch, AuthKeys.Quit).
		String()
}
