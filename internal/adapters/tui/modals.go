package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/tui/views"
)

// ModalStack holds the open modals. Only the top one receives keys. Every
// modal that leaves the stack is closed exactly once, whichever way it
// leaves.
type ModalStack struct {
	items []views.Modal
}

// Open closes every open modal and shows m alone
func (s *ModalStack) Open(m views.Modal) tea.Cmd {
	s.CloseAll()
	return s.Push(m)
}

// Push shows m above the current modals
func (s *ModalStack) Push(m views.Modal) tea.Cmd {
	if m == nil {
		return nil
	}
	s.items = append(s.items, m)
	return m.Init()
}

// Pop closes the top modal
func (s *ModalStack) Pop() {
	n := len(s.items)
	if n == 0 {
		return
	}
	top := s.items[n-1]
	s.items[n-1] = nil
	s.items = s.items[:n-1]
	top.Close()
}

// CloseAll closes every modal, top first
func (s *ModalStack) CloseAll() {
	for len(s.items) > 0 {
		s.Pop()
	}
}

// Top returns the modal receiving keys
func (s *ModalStack) Top() (views.Modal, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of open modals
func (s *ModalStack) Len() int {
	return len(s.items)
}

// Items returns the open modals, bottom first
func (s *ModalStack) Items() []views.Modal {
	return append([]views.Modal(nil), s.items...)
}

// Broadcast delivers a non-key message to every open modal, bottom first
func (s *ModalStack) Broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, m := range s.Items() {
		_, cmd := m.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}
