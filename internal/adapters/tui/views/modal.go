package views

import tea "github.com/charmbracelet/bubbletea"

// Modal is a dialog shown above the current view. Close releases whatever
// the modal holds (a camera, a pending request) and is called exactly once
// when the modal leaves the stack.
type Modal interface {
	tea.Model
	Title() string
	Close()
}

// InputCapturer is implemented by models that are currently taking text
// input, so single-letter shortcuts must not fire
type InputCapturer interface {
	CapturingInput() bool
}

// RenderModal frames a modal body with its title
func RenderModal(m Modal) string {
	return NewViewBuilder().
		Title(m.Title()).
		Raw(m.View()).
		Framed()
}
