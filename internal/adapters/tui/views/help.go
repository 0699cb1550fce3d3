package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help modal
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModal lists the keyboard shortcuts
type HelpModal struct{}

// NewHelpModal creates the help modal
func NewHelpModal() *HelpModal {
	return &HelpModal{}
}

// Title implements Modal
func (m *HelpModal) Title() string { return "Keyboard shortcuts" }

// Close implements Modal
func (m *HelpModal) Close() {}

// Init implements tea.Model
func (m *HelpModal) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help modal
func (m *HelpModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, HelpKeys.Close) {
		return m, popModal()
	}
	return m, nil
}

// View renders the shortcut reference
func (m *HelpModal) View() string {
	var b strings.Builder

	b.WriteString(styles.InputLabel.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(helpLine("1 / 2 / 3", "Library, Stats, Settings"))
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("Ctrl+F / Ctrl+B", "Next/previous page"))
	b.WriteString(helpLine("Enter", "Book details"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Library"))
	b.WriteString("\n")
	b.WriteString(helpLine("/", "Search title, author or ISBN"))
	b.WriteString(helpLine("f", "Cycle location filter"))
	b.WriteString(helpLine("c", "Clear filters"))
	b.WriteString(helpLine("a", "Add a book"))
	b.WriteString(helpLine("s", "Scan a barcode"))
	b.WriteString(helpLine("i / x", "Import / export CSV"))
	b.WriteString(helpLine("r", "Refresh"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Book form"))
	b.WriteString("\n")
	b.WriteString(helpLine("Ctrl+L", "Look up ISBN"))
	b.WriteString(helpLine("Ctrl+N", "New location"))
	b.WriteString(helpLine("Ctrl+E", "Edit notes in $EDITOR"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("Ctrl+L", "Log out (outside forms)"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return b.String()
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
