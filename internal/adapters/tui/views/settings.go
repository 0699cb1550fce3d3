package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/domain"
	"mylibrary/internal/ports"
	"mylibrary/internal/textclean"
)

// SettingsKeyMap defines key bindings for the settings view
type SettingsKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	EditProfile key.Binding
	CopyURL     key.Binding
	OpenURL     key.Binding
	NewLocation key.Binding
	Delete      key.Binding
}

var SettingsKeys = SettingsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle"),
	),
	EditProfile: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit profile"),
	),
	CopyURL: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy link"),
	),
	OpenURL: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open link"),
	),
	NewLocation: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new location"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete location"),
	),
}

type settingsRowKind int

const (
	rowPublic settingsRowKind = iota
	rowShowTags
	rowShowNotes
	rowShowCondition
	rowLocation
)

type settingsRow struct {
	kind     settingsRowKind
	location domain.Location
}

// SettingsModel edits the profile, sharing flags and locations
type SettingsModel struct {
	ViewState
	env     Env
	cursor  int
	pending bool
}

// NewSettingsModel creates the settings view
func NewSettingsModel(env Env) *SettingsModel {
	return &SettingsModel{env: env}
}

// Init initializes the settings view
func (m *SettingsModel) Init() tea.Cmd {
	m.ClearMessage()
	m.clampCursor()
	return nil
}

// Reset returns the cursor to the top, used after logout
func (m *SettingsModel) Reset() {
	m.cursor = 0
	m.pending = false
	m.ClearMessage()
}

func (m *SettingsModel) profile() domain.Profile {
	if p := m.env.State.Session.Profile(); p != nil {
		return *p
	}
	return domain.Profile{}
}

// rows lists the selectable lines. The visibility flags only exist while
// the library is public.
func (m *SettingsModel) rows() []settingsRow {
	rows := []settingsRow{{kind: rowPublic}}
	if m.profile().IsLibraryPublic {
		rows = append(rows,
			settingsRow{kind: rowShowTags},
			settingsRow{kind: rowShowNotes},
			settingsRow{kind: rowShowCondition},
		)
	}
	for _, l := range m.env.State.Catalog.Locations() {
		rows = append(rows, settingsRow{kind: rowLocation, location: l})
	}
	return rows
}

func (m *SettingsModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles messages for the settings view
func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case ProfileUpdatedMsg, CatalogLoadedMsg:
		m.pending = false
		m.clampCursor()
		return m, nil

	case failedMsg:
		if msg.source == sourceSettings {
			m.pending = false
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *SettingsModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	rows := m.rows()

	switch {
	case key.Matches(msg, SettingsKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, SettingsKeys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, SettingsKeys.Toggle):
		if m.cursor < len(rows) {
			return m.toggle(rows[m.cursor].kind)
		}

	case key.Matches(msg, SettingsKeys.EditProfile):
		return openModal(NewProfileFormModal(m.env, m.profile()))

	case key.Matches(msg, SettingsKeys.CopyURL):
		return m.copyURL()

	case key.Matches(msg, SettingsKeys.OpenURL):
		return m.openURL()

	case key.Matches(msg, SettingsKeys.NewLocation):
		return openModal(NewLocationFormModal(m.env, false))

	case key.Matches(msg, SettingsKeys.Delete):
		if m.cursor < len(rows) && rows[m.cursor].kind == rowLocation {
			return m.confirmDelete(rows[m.cursor].location)
		}
	}
	return nil
}

// toggle flips one sharing flag and sends only that field
func (m *SettingsModel) toggle(kind settingsRowKind) tea.Cmd {
	if m.pending || kind == rowLocation {
		return nil
	}
	p := m.profile()

	var update domain.ProfileUpdate
	switch kind {
	case rowPublic:
		v := !p.IsLibraryPublic
		update.IsLibraryPublic = &v
	case rowShowTags:
		v := !p.ShowTagsPublic
		update.ShowTagsPublic = &v
	case rowShowNotes:
		v := !p.ShowNotesPublic
		update.ShowNotesPublic = &v
	case rowShowCondition:
		v := !p.ShowConditionPublic
		update.ShowConditionPublic = &v
	}

	m.pending = true
	return updateProfileCmd(m.env, sourceSettings, update)
}

func (m *SettingsModel) copyURL() tea.Cmd {
	if !m.profile().IsLibraryPublic {
		return nil
	}
	url := m.env.State.PublicURL()
	if err := m.env.Clipboard(url); err != nil {
		m.env.notify(ports.LevelError, "Could not copy link: "+err.Error())
		return nil
	}
	m.env.notify(ports.LevelSuccess, "Link copied to clipboard")
	return nil
}

func (m *SettingsModel) openURL() tea.Cmd {
	if !m.profile().IsLibraryPublic || m.env.Browser == nil {
		return nil
	}
	if err := m.env.Browser.OpenURL(m.env.State.PublicURL()); err != nil {
		m.env.notify(ports.LevelError, err.Error())
	}
	return nil
}

func (m *SettingsModel) confirmDelete(l domain.Location) tea.Cmd {
	target := textclean.Line(l.Name)
	if n := m.locationCount(l.ID); n > 0 {
		target = fmt.Sprintf("%s (%d books will lose their location)", target, n)
	}
	id := l.ID
	return openModal(NewConfirmModal("Delete location", target, "Delete this location?", func() tea.Cmd {
		return deleteLocationCmd(m.env, id)
	}))
}

func (m *SettingsModel) locationCount(id int64) int {
	return len(m.env.State.Catalog.Filter(domain.Filter{LocationID: id}))
}

// View renders the settings view
func (m *SettingsModel) View() string {
	p := m.profile()
	rows := m.rows()
	v := NewViewBuilder().Title("Settings")

	v.Section("Profile")
	v.Line(RenderLabelValue("Username", p.Username))
	v.Line(RenderLabelValue("Email", p.Email))
	v.Line(RenderLabelValue("Display name", p.DisplayName))
	v.Line(RenderLabelValue("Bio", p.Bio))
	v.Line(RenderLabelValue("Avatar", p.AvatarURL))
	v.BlankLine()

	v.Section("Sharing")
	i := 0
	for ; i < len(rows) && rows[i].kind != rowLocation; i++ {
		v.Line(m.renderFlag(rows[i].kind, p, i == m.cursor))
		if rows[i].kind == rowPublic && p.IsLibraryPublic {
			v.Line("    " + RenderLabelValue("Public link", m.env.State.PublicURL()))
		}
	}
	v.BlankLine()

	v.Section("Locations")
	if i == len(rows) {
		v.Muted("  No locations yet. Press n to add one.")
	}
	for ; i < len(rows); i++ {
		l := rows[i].location
		line := fmt.Sprintf("%s %s", padRight(Truncate(textclean.Line(l.Name), 30), 32), RenderMuted(fmt.Sprintf("%d books", m.locationCount(l.ID))))
		if i == m.cursor {
			line = styles.RowSelected.Render(line)
		}
		v.Line("  " + line)
	}
	v.BlankLine()

	bindings := []key.Binding{SettingsKeys.Toggle, SettingsKeys.EditProfile}
	if p.IsLibraryPublic {
		bindings = append(bindings, SettingsKeys.CopyURL, SettingsKeys.OpenURL)
	}
	bindings = append(bindings, SettingsKeys.NewLocation, SettingsKeys.Delete)
	v.Help(bindings...)
	return v.StringUnwrapped()
}

func (m *SettingsModel) renderFlag(kind settingsRowKind, p domain.Profile, focused bool) string {
	switch kind {
	case rowPublic:
		return "  " + RenderCheckbox("Public library", p.IsLibraryPublic, focused)
	case rowShowTags:
		return "    " + RenderCheckbox("Show tags", p.ShowTagsPublic, focused)
	case rowShowNotes:
		return "    " + RenderCheckbox("Show notes", p.ShowNotesPublic, focused)
	case rowShowCondition:
		return "    " + RenderCheckbox("Show condition", p.ShowConditionPublic, focused)
	}
	return ""
}
