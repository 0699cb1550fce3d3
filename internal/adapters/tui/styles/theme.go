package styles

import (
	"github.com/charmbracelet/lipgloss"

	"mylibrary/internal/ports"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	Info      = lipgloss.Color("#60A5FA") // Blue
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	// Header navigation
	NavItem = lipgloss.NewStyle().
		Foreground(Muted).
		Padding(0, 1)

	NavActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true).
			Padding(0, 1)

	NavUser = lipgloss.NewStyle().
		Foreground(Secondary).
		Italic(true)

	// Book rows
	RowSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	Pinned = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	Authors = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#D1D5DB"))

	Tags = lipgloss.NewStyle().
		Foreground(Info)

	// Modal frame
	Modal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Spinner = lipgloss.NewStyle().
		Foreground(Primary)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// Toasts
	Toast = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		Padding(0, 1)
)

// LevelColor returns the color for a notification level
func LevelColor(level ports.Level) lipgloss.Color {
	switch level {
	case ports.LevelSuccess:
		return Secondary
	case ports.LevelWarning:
		return Warning
	case ports.LevelError:
		return Error
	default:
		return Info
	}
}

// ToastStyle returns the toast style for a notification level
func ToastStyle(level ports.Level) lipgloss.Style {
	c := LevelColor(level)
	return Toast.BorderForeground(c).Foreground(c)
}
