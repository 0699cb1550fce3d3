package views

import (
	"strings"
	"sync"
	"time"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/ports"
)

// maxToasts bounds how many notifications are shown at once
const maxToasts = 4

// Toast is one visible notification
type Toast struct {
	Level   ports.Level
	Message string
	Expires time.Time
}

// Toasts implements ports.Notifier for the TUI. It is written from command
// goroutines and read from the render loop.
type Toasts struct {
	mu    sync.Mutex
	ttl   time.Duration
	items []Toast
	now   func() time.Time
}

// NewToasts creates a notifier whose toasts expire after ttl
func NewToasts(ttl time.Duration) *Toasts {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Toasts{ttl: ttl, now: time.Now}
}

// Notify adds a toast. Repeating the newest message only extends it.
func (t *Toasts) Notify(level ports.Level, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	expires := t.now().Add(t.ttl)
	if n := len(t.items); n > 0 && t.items[n-1].Message == message && t.items[n-1].Level == level {
		t.items[n-1].Expires = expires
		return
	}
	t.items = append(t.items, Toast{Level: level, Message: message, Expires: expires})
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
}

// TTL returns how long a toast stays visible
func (t *Toasts) TTL() time.Duration {
	return t.ttl
}

// Prune drops expired toasts and reports whether any remain
func (t *Toasts) Prune() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	kept := t.items[:0]
	for _, item := range t.items {
		if item.Expires.After(now) {
			kept = append(kept, item)
		}
	}
	t.items = kept
	return len(t.items) > 0
}

// Items returns the visible toasts, oldest first
func (t *Toasts) Items() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Toast(nil), t.items...)
}

// Len returns the number of visible toasts
func (t *Toasts) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// Clear removes every toast
func (t *Toasts) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = nil
}

// View renders the toasts one per line
func (t *Toasts) View() string {
	items := t.Items()
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, styles.ToastStyle(item.Level).Render(item.Message))
	}
	return strings.Join(lines, "\n")
}

var _ ports.Notifier = (*Toasts)(nil)
