package views

import (
	"context"
	"time"

	"github.com/atotto/clipboard"

	"mylibrary/internal/application"
	"mylibrary/internal/ports"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// ViewName identifies a top-level view
type ViewName int

const (
	ViewLogin ViewName = iota
	ViewRegister
	ViewLibrary
	ViewStats
	ViewSettings
)

func (v ViewName) String() string {
	switch v {
	case ViewRegister:
		return "Register"
	case ViewLibrary:
		return "Library"
	case ViewStats:
		return "Stats"
	case ViewSettings:
		return "Settings"
	default:
		return "Login"
	}
}

// Env carries the shared state and the outside-world adapters every view
// and modal may need
type Env struct {
	State     *application.State
	Toasts    *Toasts
	Browser   ports.URLOpener
	Editor    ports.EditorOpener
	Scanner   ports.BarcodeScanner
	Clipboard func(text string) error
	ExportDir string

	// RequestTimeout bounds every command started from the UI
	RequestTimeout time.Duration
}

// WithDefaults fills unset optional fields
func (e Env) WithDefaults() Env {
	if e.Clipboard == nil {
		e.Clipboard = clipboard.WriteAll
	}
	if e.ExportDir == "" {
		e.ExportDir = "."
	}
	if e.RequestTimeout <= 0 {
		e.RequestTimeout = 60 * time.Second
	}
	return e
}

// context returns a context bounded by the request timeout
func (e Env) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.RequestTimeout)
}

func (e Env) notify(level ports.Level, message string) {
	if e.State != nil && e.State.Notifier != nil {
		e.State.Notifier.Notify(level, message)
	}
}
