package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/application"
	"mylibrary/internal/application/commands"
	"mylibrary/internal/ports"
)

// ScanKeyMap defines key bindings for the scan modal
type ScanKeyMap struct {
	Cancel key.Binding
}

var ScanKeys = ScanKeyMap{
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

type scanCodeMsg struct {
	scan *ScanModal
	code string
}

type scanEndedMsg struct {
	scan *ScanModal
}

// ScanModal runs the barcode decoder while it is open. The decoder is
// started in Init and released in Close, which the modal stack calls on
// every way out.
type ScanModal struct {
	ViewState
	env     Env
	spinner spinner.Model
	code    string

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// NewScanModal creates the scan modal
func NewScanModal(env Env) *ScanModal {
	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = styles.Spinner
	return &ScanModal{env: env, spinner: s}
}

// Title implements Modal
func (m *ScanModal) Title() string { return "Scan barcode" }

// Running reports whether the decoder is held by this modal
func (m *ScanModal) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Init starts the decoder
func (m *ScanModal) Init() tea.Cmd {
	if m.env.Scanner == nil {
		m.SetMessage("No barcode scanner configured", true)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	codes, err := m.env.Scanner.Start(ctx)
	if err != nil {
		cancel()
		m.SetMessage(err.Error(), true)
		return nil
	}

	m.mu.Lock()
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	return tea.Batch(m.spinner.Tick, m.waitForCode(codes))
}

func (m *ScanModal) waitForCode(codes <-chan string) tea.Cmd {
	return func() tea.Msg {
		code, ok := <-codes
		if !ok {
			return scanEndedMsg{scan: m}
		}
		return scanCodeMsg{scan: m, code: code}
	}
}

// Close stops the decoder. Safe to call more than once.
func (m *ScanModal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	m.cancel()
	if err := m.env.Scanner.Stop(); err != nil {
		m.env.notify(ports.LevelWarning, "Failed to stop scanner: "+err.Error())
	}
}

// Update handles messages for the scan modal
func (m *ScanModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanCodeMsg:
		if msg.scan != m || m.code != "" {
			return m, nil
		}
		m.code = msg.code
		m.Close()
		m.SetMessage("Found "+msg.code+", looking it up...", false)
		return m, scanLookupCmd(m.env, msg.code)

	case scanEndedMsg:
		if msg.scan != m || m.code != "" {
			return m, nil
		}
		m.Close()
		m.SetMessage("The scanner stopped without reading a code", true)
		return m, nil

	case spinner.TickMsg:
		if !m.Running() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, ScanKeys.Cancel) {
			return m, popModal()
		}
	}
	return m, nil
}

// scanLookupCmd resolves a scanned code and opens the book form with
// whatever was found
func scanLookupCmd(env Env, code string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		input := commands.BookInput{ISBN: code}
		meta, err := commands.NewLookupISBNCommand(env.State, code).Execute(ctx)
		switch {
		case err == nil:
			input.ApplyMetadata(*meta)
			return OpenModalMsg{Modal: NewBookFormModal(env, 0, input)}
		case application.IsAuthError(err):
			return AuthErrorMsg{Err: err}
		case commands.IsLookupMiss(err):
			form := NewBookFormModal(env, 0, input).
				WithNotice(fmt.Sprintf("No book found for ISBN %s, fill in the details yourself", code), true)
			return OpenModalMsg{Modal: form}
		default:
			form := NewBookFormModal(env, 0, input).WithNotice(validationText(err), true)
			return OpenModalMsg{Modal: form}
		}
	}
}

// View renders the scan modal
func (m *ScanModal) View() string {
	v := NewViewBuilder()
	if m.Running() {
		v.Line(m.spinner.View() + " Hold the barcode in front of the camera...")
		v.BlankLine()
	}
	v.Message(m.Message, m.MessageErr)
	v.Help(ScanKeys.Cancel)
	return v.StringUnwrapped()
}
