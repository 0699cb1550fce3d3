package application

import (
	"errors"

	"mylibrary/internal/ports"
)

// State is the application state shared by every surface. It is created
// once in main and passed down explicitly.
type State struct {
	API       ports.LibraryAPI
	Session   *Session
	Catalog   *Catalog
	Notifier  ports.Notifier
	Workflows *Workflows

	// PublicBaseURL is the origin under which shared libraries are served
	PublicBaseURL string
}

// NewState wires the shared state. The catalog is reset whenever the
// session is cleared.
func NewState(api ports.LibraryAPI, session *Session, notifier ports.Notifier, publicBaseURL string) *State {
	if notifier == nil {
		notifier = ports.NotifierFunc(func(ports.Level, string) {})
	}
	st := &State{
		API:           api,
		Session:       session,
		Catalog:       NewCatalog(api),
		Notifier:      notifier,
		Workflows:     NewWorkflows(),
		PublicBaseURL: publicBaseURL,
	}
	session.OnClear(st.Catalog.Reset)
	return st
}

// Run executes fn under the named busy guard. A rejected trigger is
// reported to the user as a warning.
func (s *State) Run(workflow string, fn func() error) error {
	err := s.Workflows.Do(workflow, fn)
	if errors.Is(err, ErrBusy) {
		s.Notifier.Notify(ports.LevelWarning, "Please wait, "+workflow+" is still running")
	}
	return err
}

// PublicURL returns the shared library address of the signed-in user
func (s *State) PublicURL() string {
	p := s.Session.Profile()
	if p == nil {
		return ""
	}
	return p.PublicURL(s.PublicBaseURL)
}
