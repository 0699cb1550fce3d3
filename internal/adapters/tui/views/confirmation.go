package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmModal asks a yes/no question before a destructive action. The
// action only starts after y.
type ConfirmModal struct {
	title    string
	target   string
	question string
	action   func() tea.Cmd
	Keys     ConfirmKeyMap
}

// NewConfirmModal creates a confirmation for action on target
func NewConfirmModal(title, target, question string, action func() tea.Cmd) *ConfirmModal {
	return &ConfirmModal{
		title:    title,
		target:   target,
		question: question,
		action:   action,
		Keys:     DefaultConfirmKeys,
	}
}

// Title implements Modal
func (m *ConfirmModal) Title() string { return m.title }

// Close implements Modal
func (m *ConfirmModal) Close() {}

// Init implements tea.Model
func (m *ConfirmModal) Init() tea.Cmd { return nil }

// Update handles messages for the confirmation
func (m *ConfirmModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
	}
	return m, nil
}

// HandleKeyMsg processes key messages for the confirmation.
// Returns (handled, cmd) where handled is true if the key was processed.
func (m *ConfirmModal) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		return true, popModal()
	case key.Matches(msg, m.Keys.Confirm):
		var action tea.Cmd
		if m.action != nil {
			action = m.action()
		}
		return true, tea.Batch(popModal(), action)
	}
	return false, nil
}

// View renders the confirmation
func (m *ConfirmModal) View() string {
	var b strings.Builder

	b.WriteString(styles.ErrorMsg.Render("This action cannot be undone!"))
	b.WriteString("\n\n")

	if m.target != "" {
		b.WriteString("  ")
		b.WriteString(m.target)
		b.WriteString("\n\n")
	}

	b.WriteString(RenderConfirmPrompt(m.question))
	return b.String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
