package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/application"
	"mylibrary/internal/application/commands"
	"mylibrary/internal/domain"
)

// SwitchViewMsg asks the App to show another top-level view
type SwitchViewMsg struct {
	View ViewName
}

// LoggedInMsg is sent after a successful login or registration
type LoggedInMsg struct {
	Message string
}

// LoggedOutMsg is sent after the session was cleared on purpose
type LoggedOutMsg struct{}

// AuthErrorMsg reports that the server rejected the credential. The
// session is already cleared; the App returns to the login view.
type AuthErrorMsg struct {
	Err error
}

// ProfileLoadedMsg reports that a restored credential is still valid
type ProfileLoadedMsg struct {
	Profile *domain.Profile
}

// StartupFailedMsg reports that a restored credential could not be used
type StartupFailedMsg struct {
	Err error
}

// RefreshCatalogMsg asks the App to reload books and locations
type RefreshCatalogMsg struct{}

// CatalogLoadedMsg carries a freshly loaded catalog
type CatalogLoadedMsg struct {
	Snapshot application.Snapshot
}

// CatalogChange is implemented by messages reporting a server-side change
// to books or locations. The App refreshes the catalog when it sees one.
type CatalogChange interface {
	changesCatalog()
}

// BookSavedMsg reports a created or updated book
type BookSavedMsg struct {
	Result *commands.SaveBookResult
}

// BookDeletedMsg reports a deleted book
type BookDeletedMsg struct {
	Result *commands.BookResult
}

// PinToggledMsg reports a pin change
type PinToggledMsg struct {
	Result *commands.BookResult
}

// LocationCreatedMsg reports a new location. ForBookForm is set when the
// form was pushed above a book form.
type LocationCreatedMsg struct {
	Location    domain.Location
	ForBookForm bool
}

// LocationDeletedMsg reports a removed location
type LocationDeletedMsg struct {
	Result *commands.LocationResult
}

// ImportDoneMsg carries the tally of a finished import
type ImportDoneMsg struct {
	Result *commands.ImportResult
}

func (BookSavedMsg) changesCatalog()       {}
func (BookDeletedMsg) changesCatalog()     {}
func (PinToggledMsg) changesCatalog()      {}
func (LocationCreatedMsg) changesCatalog() {}
func (LocationDeletedMsg) changesCatalog() {}
func (ImportDoneMsg) changesCatalog()      {}

// ProfileUpdatedMsg reports new profile settings
type ProfileUpdatedMsg struct {
	Result *commands.ProfileResult
}

// OpenModalMsg closes every open modal and shows Modal
type OpenModalMsg struct {
	Modal Modal
}

// PushModalMsg shows Modal above the current one
type PushModalMsg struct {
	Modal Modal
}

// PopModalMsg closes the top modal
type PopModalMsg struct{}

// CloseModalsMsg closes every modal
type CloseModalsMsg struct{}

// failedMsg carries an error that the originating model shows inline
type failedMsg struct {
	source string
	err    error
}

// cmdOf wraps a message in a command
func cmdOf(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// openModal, pushModal and popModal are shorthands for the stack messages
func openModal(m Modal) tea.Cmd { return cmdOf(OpenModalMsg{Modal: m}) }
func pushModal(m Modal) tea.Cmd { return cmdOf(PushModalMsg{Modal: m}) }
func popModal() tea.Cmd         { return cmdOf(PopModalMsg{}) }

// failure turns a command error into a message. Authentication failures
// always go to the App; everything else returns to source.
func failure(source string, err error) tea.Msg {
	if application.IsAuthError(err) {
		return AuthErrorMsg{Err: err}
	}
	return failedMsg{source: source, err: err}
}
