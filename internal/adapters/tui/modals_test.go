package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type stubModal struct {
	name   string
	closed int
	seen   []tea.Msg
	log    *[]string
}

func (m *stubModal) Init() tea.Cmd { return nil }

func (m *stubModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.seen = append(m.seen, msg)
	return m, nil
}

func (m *stubModal) View() string  { return m.name }
func (m *stubModal) Title() string { return m.name }

func (m *stubModal) Close() {
	m.closed++
	if m.log != nil {
		*m.log = append(*m.log, m.name)
	}
}

func TestModalStackOpenReplaces(t *testing.T) {
	var s ModalStack
	a := &stubModal{name: "a"}
	b := &stubModal{name: "b"}
	c := &stubModal{name: "c"}

	s.Open(a)
	s.Push(b)
	s.Open(c)

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if top, _ := s.Top(); top != c {
		t.Errorf("Top() = %v, want c", top)
	}
	for _, m := range []*stubModal{a, b} {
		if m.closed != 1 {
			t.Errorf("%s closed %d times, want 1", m.name, m.closed)
		}
	}
	if c.closed != 0 {
		t.Errorf("c closed %d times, want 0", c.closed)
	}
}

func TestModalStackClosesEachOnce(t *testing.T) {
	tests := []struct {
		name      string
		leave     func(s *ModalStack)
		wantOrder []string
	}{
		{
			name:      "close all goes top first",
			leave:     func(s *ModalStack) { s.CloseAll() },
			wantOrder: []string{"c", "b", "a"},
		},
		{
			name: "pop one by one then close all",
			leave: func(s *ModalStack) {
				s.Pop()
				s.Pop()
				s.CloseAll()
				s.CloseAll()
			},
			wantOrder: []string{"c", "b", "a"},
		},
		{
			name: "popping an empty stack is a no-op",
			leave: func(s *ModalStack) {
				s.CloseAll()
				s.Pop()
			},
			wantOrder: []string{"c", "b", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var order []string
			var s ModalStack
			modals := []*stubModal{
				{name: "a", log: &order},
				{name: "b", log: &order},
				{name: "c", log: &order},
			}
			for _, m := range modals {
				s.Push(m)
			}

			tt.leave(&s)

			if s.Len() != 0 {
				t.Fatalf("Len() = %d, want 0", s.Len())
			}
			for _, m := range modals {
				if m.closed != 1 {
					t.Errorf("%s closed %d times, want 1", m.name, m.closed)
				}
			}
			if len(order) != len(tt.wantOrder) {
				t.Fatalf("close order = %v, want %v", order, tt.wantOrder)
			}
			for i := range order {
				if order[i] != tt.wantOrder[i] {
					t.Errorf("close order = %v, want %v", order, tt.wantOrder)
					break
				}
			}
		})
	}
}

func TestModalStackBroadcast(t *testing.T) {
	var s ModalStack
	a := &stubModal{name: "a"}
	b := &stubModal{name: "b"}
	s.Push(a)
	s.Push(b)

	s.Broadcast(tea.WindowSizeMsg{Width: 80, Height: 24})

	for _, m := range []*stubModal{a, b} {
		if len(m.seen) != 1 {
			t.Errorf("%s saw %d messages, want 1", m.name, len(m.seen))
		}
	}
}

func TestModalStackPushNil(t *testing.T) {
	var s ModalStack
	if cmd := s.Push(nil); cmd != nil {
		t.Error("Push(nil) returned a command")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
