package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/application/commands"
	"mylibrary/internal/domain"
)

// ImportKeyMap defines key bindings for the import modal
type ImportKeyMap struct {
	Submit     key.Binding
	Cancel     key.Binding
	ShowErrors key.Binding
	Done       key.Binding
}

var ImportKeys = ImportKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "import"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	ShowErrors: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "show/hide errors"),
	),
	Done: key.NewBinding(
		key.WithKeys("enter", "esc"),
		key.WithHelp("enter", "back to library"),
	),
}

type importStage int

const (
	importChoosing importStage = iota
	importRunning
	importFinished
)

// ImportModal uploads a CSV file and shows the server's tally
type ImportModal struct {
	ViewState
	env        Env
	path       textinput.Model
	spinner    spinner.Model
	stage      importStage
	tally      *domain.ImportResult
	showErrors bool
}

// NewImportModal creates the import modal
func NewImportModal(env Env) *ImportModal {
	path := textinput.New()
	path.Placeholder = "~/Downloads/books.csv"
	path.Prompt = "File: "
	path.CharLimit = 1024
	path.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &ImportModal{env: env, path: path, spinner: s}
}

// Title implements Modal
func (m *ImportModal) Title() string { return "Import CSV" }

// Close implements Modal
func (m *ImportModal) Close() {}

// CapturingInput implements InputCapturer
func (m *ImportModal) CapturingInput() bool { return m.stage == importChoosing }

// Tally returns the finished import's counts, or nil
func (m *ImportModal) Tally() *domain.ImportResult { return m.tally }

// ErrorsVisible reports whether the error list is expanded
func (m *ImportModal) ErrorsVisible() bool { return m.showErrors }

// Init implements tea.Model
func (m *ImportModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the import modal
func (m *ImportModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ImportDoneMsg:
		if m.stage == importRunning {
			m.stage = importFinished
			tally := msg.Result.Tally
			m.tally = &tally
			m.ClearMessage()
		}
		return m, nil

	case failedMsg:
		if msg.source == sourceImport && m.stage == importRunning {
			m.stage = importChoosing
			m.path.Focus()
			m.SetMessage(validationText(msg.err), true)
		}
		return m, nil

	case spinner.TickMsg:
		if m.stage != importRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	if m.stage == importChoosing {
		var cmd tea.Cmd
		m.path, cmd = m.path.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *ImportModal) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.stage {
	case importChoosing:
		switch {
		case key.Matches(msg, ImportKeys.Cancel):
			return popModal()
		case key.Matches(msg, ImportKeys.Submit):
			return m.submit()
		}
		var cmd tea.Cmd
		m.path, cmd = m.path.Update(msg)
		return cmd

	case importRunning:
		if key.Matches(msg, ImportKeys.Cancel) {
			return popModal()
		}

	case importFinished:
		switch {
		case key.Matches(msg, ImportKeys.ShowErrors):
			m.showErrors = !m.showErrors
		case key.Matches(msg, ImportKeys.Done):
			return tea.Batch(popModal(), cmdOf(SwitchViewMsg{View: ViewLibrary}))
		}
	}
	return nil
}

func (m *ImportModal) submit() tea.Cmd {
	cmd := commands.NewImportCommand(m.env.State, m.path.Value())
	if err := cmd.Validate(); err != nil {
		m.SetMessage(validationText(err), true)
		return nil
	}
	m.stage = importRunning
	m.path.Blur()
	m.ClearMessage()
	return tea.Batch(m.spinner.Tick, importCmd(m.env, cmd))
}

// View renders the import modal
func (m *ImportModal) View() string {
	v := NewViewBuilder()

	switch m.stage {
	case importChoosing:
		v.Muted("Columns: ISBN (required), Title, Authors")
		v.BlankLine()
		v.Line(m.path.View())
		v.BlankLine()
		v.Message(m.Message, m.MessageErr)
		v.Help(ImportKeys.Submit, ImportKeys.Cancel)

	case importRunning:
		v.Line(m.spinner.View() + " Importing " + m.path.Value() + "...")
		v.BlankLine()
		v.Help(ImportKeys.Cancel)

	case importFinished:
		t := m.tally
		v.Line(RenderLabelValue("Total", fmt.Sprint(t.Total)))
		v.Line(RenderLabelValue("Imported", styles.Success.Render(fmt.Sprint(t.Successful))))
		failed := fmt.Sprint(t.Failed)
		if t.Failed > 0 {
			failed = styles.ErrorMsg.Render(failed)
		}
		v.Line(RenderLabelValue("Failed", failed))
		v.BlankLine()

		if t.HasErrors() {
			if m.showErrors {
				v.Section(fmt.Sprintf("Errors (%d)", len(t.Errors)))
				for _, e := range t.Errors {
					v.Line("  " + e)
				}
				v.BlankLine()
			} else {
				v.Muted(fmt.Sprintf("%d errors hidden, press e to show them", len(t.Errors)))
				v.BlankLine()
			}
			v.Help(ImportKeys.ShowErrors, ImportKeys.Done)
		} else {
			v.Help(ImportKeys.Done)
		}
	}
	return v.StringUnwrapped()
}
