package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/adapters/tui/views"
	"mylibrary/internal/application"
)

// toastInterval is how often expired toasts are pruned
const toastInterval = 500 * time.Millisecond

// GlobalKeyMap defines the bindings available outside forms and modals
type GlobalKeyMap struct {
	Library  key.Binding
	Stats    key.Binding
	Settings key.Binding
	Logout   key.Binding
	Help     key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
}

var GlobalKeys = GlobalKeyMap{
	Library: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "library"),
	),
	Stats: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "stats"),
	),
	Settings: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "settings"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "log out"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQ: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}

type toastTickMsg struct{}

// screen is a top-level view
type screen interface {
	tea.Model
	SetSize(width, height int)
}

// App is the main TUI application model. It owns the current view, the
// modal stack and the toasts, and turns command results into navigation.
type App struct {
	env    views.Env
	modals ModalStack

	current  views.ViewName
	login    *views.LoginModel
	register *views.RegisterModel
	library  *views.LibraryModel
	stats    *views.StatsModel
	settings *views.SettingsModel

	starting    bool
	toastTicker bool

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(env views.Env) *App {
	env = env.WithDefaults()
	return &App{
		env:      env,
		current:  views.ViewLogin,
		login:    views.NewLoginModel(env),
		register: views.NewRegisterModel(env),
		library:  views.NewLibraryModel(env),
		stats:    views.NewStatsModel(env),
		settings: views.NewSettingsModel(env),
	}
}

// Init shows the login view when no credential is stored, otherwise it
// validates the credential before showing the library
func (a *App) Init() tea.Cmd {
	if !a.env.State.Session.HasCredential() {
		a.current = views.ViewLogin
		return a.login.Init()
	}
	a.starting = true
	a.current = views.ViewLibrary
	return views.LoadProfileCmd(a.env)
}

// Current returns the view being shown
func (a *App) Current() views.ViewName {
	return a.current
}

// Modals returns the modal stack
func (a *App) Modals() *ModalStack {
	return &a.modals
}

func (a *App) screens() []screen {
	return []screen{a.login, a.register, a.library, a.stats, a.settings}
}

func (a *App) screen(name views.ViewName) screen {
	switch name {
	case views.ViewRegister:
		return a.register
	case views.ViewLibrary:
		return a.library
	case views.ViewStats:
		return a.stats
	case views.ViewSettings:
		return a.settings
	default:
		return a.login
	}
}

func (a *App) authenticated() bool {
	return a.current != views.ViewLogin && a.current != views.ViewRegister
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	return a, tea.Batch(cmd, a.scheduleToasts())
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, s := range a.screens() {
			s.SetSize(msg.Width, a.bodyHeight())
		}
		return a.modals.Broadcast(tea.WindowSizeMsg{Width: a.modalWidth(), Height: a.bodyHeight()})

	case toastTickMsg:
		a.toastTicker = false
		a.env.Toasts.Prune()
		return nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case views.SwitchViewMsg:
		return a.switchTo(msg.View)

	case views.OpenModalMsg:
		return a.openModal(msg.Modal, false)

	case views.PushModalMsg:
		return a.openModal(msg.Modal, true)

	case views.PopModalMsg:
		a.modals.Pop()
		return nil

	case views.CloseModalsMsg:
		a.modals.CloseAll()
		return nil

	case views.ProfileLoadedMsg:
		a.starting = false
		return tea.Batch(a.switchTo(views.ViewLibrary), views.RefreshCmd(a.env))

	case views.StartupFailedMsg:
		a.starting = false
		a.current = views.ViewLogin
		if application.IsAuthError(msg.Err) {
			a.login.SetMessage("Please log in again", true)
		} else {
			a.login.SetMessage("Could not load your profile: "+msg.Err.Error(), true)
		}
		return a.login.Init()

	case views.LoggedInMsg:
		cmd := a.broadcast(msg)
		return tea.Batch(cmd, a.switchTo(views.ViewLibrary), views.RefreshCmd(a.env))

	case views.LoggedOutMsg:
		a.signedOut()
		return a.login.Init()

	case views.AuthErrorMsg:
		a.signedOut()
		a.login.SetMessage(authMessage(msg.Err), true)
		return a.login.Init()

	case views.RefreshCatalogMsg:
		return views.RefreshCmd(a.env)
	}

	cmd := a.broadcast(msg)
	if _, ok := msg.(views.CatalogChange); ok {
		cmd = tea.Batch(cmd, views.RefreshCmd(a.env))
	}
	return cmd
}

// broadcast delivers a non-key message to the open modals and every view
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{a.modals.Broadcast(msg)}
	for _, s := range a.screens() {
		_, cmd := s.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, GlobalKeys.ForceQ) {
		return a.quit()
	}

	if top, ok := a.modals.Top(); ok {
		_, cmd := top.Update(msg)
		return cmd
	}

	current := a.screen(a.current)
	if a.authenticated() && !capturing(current) {
		switch {
		case key.Matches(msg, GlobalKeys.Library):
			return a.switchTo(views.ViewLibrary)
		case key.Matches(msg, GlobalKeys.Stats):
			return a.switchTo(views.ViewStats)
		case key.Matches(msg, GlobalKeys.Settings):
			return a.switchTo(views.ViewSettings)
		case key.Matches(msg, GlobalKeys.Logout):
			return views.LogoutCmd(a.env)
		case key.Matches(msg, GlobalKeys.Help):
			return a.openModal(views.NewHelpModal(), false)
		case key.Matches(msg, GlobalKeys.Quit):
			return a.quit()
		}
	}

	_, cmd := current.Update(msg)
	return cmd
}

func capturing(m tea.Model) bool {
	c, ok := m.(views.InputCapturer)
	return ok && c.CapturingInput()
}

func (a *App) quit() tea.Cmd {
	a.modals.CloseAll()
	return tea.Quit
}

// switchTo replaces the current view. Leaving a view closes every modal.
func (a *App) switchTo(name views.ViewName) tea.Cmd {
	if name != views.ViewLogin && name != views.ViewRegister && !a.env.State.Session.HasCredential() {
		name = views.ViewLogin
	}
	a.modals.CloseAll()
	a.current = name

	switch name {
	case views.ViewRegister:
		a.register.Reset()
		return a.register.Init()
	case views.ViewLogin:
		a.login.Reset()
		return a.login.Init()
	default:
		return a.screen(name).Init()
	}
}

func (a *App) openModal(m views.Modal, push bool) tea.Cmd {
	if m == nil {
		return nil
	}
	if s, ok := m.(interface{ SetSize(width, height int) }); ok {
		s.SetSize(a.modalWidth(), a.bodyHeight())
	}
	if push {
		return a.modals.Push(m)
	}
	return a.modals.Open(m)
}

// signedOut drops every piece of per-user UI state
func (a *App) signedOut() {
	a.modals.CloseAll()
	a.starting = false
	a.library.Reset()
	a.stats.Reset()
	a.settings.Reset()
	a.login.Reset()
	a.current = views.ViewLogin
}

func authMessage(err error) string {
	var authErr *application.AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return "Session ended: " + authErr.Message
	}
	return "Your session expired, please log in again"
}

func (a *App) scheduleToasts() tea.Cmd {
	if a.toastTicker || a.env.Toasts.Len() == 0 {
		return nil
	}
	a.toastTicker = true
	return tea.Tick(toastInterval, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}

func (a *App) bodyHeight() int {
	return max(0, a.height-4)
}

func (a *App) modalWidth() int {
	return max(40, min(100, a.width-8))
}

// View renders the application
func (a *App) View() string {
	var sections []string

	if a.authenticated() {
		sections = append(sections, a.renderHeader())
	}

	var body string
	switch {
	case a.starting:
		body = styles.App.Render(views.RenderMuted("Loading your profile..."))
	case a.modals.Len() > 0:
		top, _ := a.modals.Top()
		body = views.RenderModal(top)
		if a.width > 0 {
			body = lipgloss.Place(a.width, max(lipgloss.Height(body), a.bodyHeight()), lipgloss.Center, lipgloss.Center, body)
		}
	case a.authenticated():
		body = styles.App.Render(a.screen(a.current).View())
	default:
		body = a.screen(a.current).View()
	}
	sections = append(sections, body)

	if toasts := a.env.Toasts.View(); toasts != "" {
		sections = append(sections, toasts)
	}
	return strings.Join(sections, "\n")
}

func (a *App) renderHeader() string {
	items := []struct {
		name  views.ViewName
		label string
	}{
		{views.ViewLibrary, "1 Library"},
		{views.ViewStats, "2 Stats"},
		{views.ViewSettings, "3 Settings"},
	}

	var nav []string
	for _, it := range items {
		if it.name == a.current {
			nav = append(nav, styles.NavActive.Render(it.label))
		} else {
			nav = append(nav, styles.NavItem.Render(it.label))
		}
	}
	left := styles.Title.UnsetMarginBottom().Render("MyLibrary") + "  " + strings.Join(nav, " ")

	right := ""
	if p := a.env.State.Session.Profile(); p != nil {
		right = styles.NavUser.Render(p.Name())
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 2 {
		gap = 2
	}
	return " " + left + strings.Repeat(" ", gap) + right
}
