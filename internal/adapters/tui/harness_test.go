package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/apiclient"
	"mylibrary/internal/adapters/tui/views"
	"mylibrary/internal/application"
	"mylibrary/internal/testsupport/fakeapi"
)

// settleTimeout bounds how long a command may run before the harness treats
// it as a timer and drops it
const settleTimeout = 250 * time.Millisecond

type memoryStore struct {
	mu    sync.Mutex
	token string
}

func (m *memoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memoryStore) Clear() error {
	return m.Save("")
}

type fakeScanner struct {
	mu      sync.Mutex
	preload []string
	ch      chan string
	starts  int
	stops   int
	running bool
}

func (s *fakeScanner) Start(_ context.Context) (<-chan string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts++
	s.running = true
	s.ch = make(chan string, len(s.preload)+1)
	for _, code := range s.preload {
		s.ch <- code
	}
	return s.ch, nil
}

func (s *fakeScanner) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.running = false
		s.stops++
		close(s.ch)
	}
	return nil
}

func (s *fakeScanner) counts() (starts, stops int, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts, s.stops, s.running
}

type fakeBrowser struct {
	mu     sync.Mutex
	opened []string
}

func (b *fakeBrowser) OpenURL(rawURL string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened = append(b.opened, rawURL)
	return nil
}

type harness struct {
	t         *testing.T
	api       *fakeapi.Server
	app       *App
	state     *application.State
	toasts    *views.Toasts
	scanner   *fakeScanner
	browser   *fakeBrowser
	clipboard []string
	quit      bool
}

type harnessOption func(h *harness)

// signedIn stores a valid credential for ada before the App starts
func signedIn() harnessOption {
	return func(h *harness) {
		token := h.api.IssueToken("ada")
		if err := h.state.Session.SetCredential(token); err != nil {
			h.t.Fatalf("SetCredential: %v", err)
		}
	}
}

func withScannerCodes(codes ...string) harnessOption {
	return func(h *harness) {
		h.scanner.preload = codes
	}
}

// newHarness starts an App against a fake server that knows ada/secret.
// setup runs against the fake before the App starts.
func newHarness(t *testing.T, setup func(api *fakeapi.Server), opts ...harnessOption) *harness {
	t.Helper()

	api := fakeapi.New()
	api.AddUser("ada", "secret")
	if setup != nil {
		setup(api)
	}
	base := api.Start(t)

	toasts := views.NewToasts(time.Hour)
	session := application.NewSession(&memoryStore{})
	client := apiclient.New(base, session, apiclient.WithNotifier(toasts))
	state := application.NewState(client, session, toasts, "https://books.example.org")

	h := &harness{
		t:       t,
		api:     api,
		state:   state,
		toasts:  toasts,
		scanner: &fakeScanner{},
		browser: &fakeBrowser{},
	}
	for _, opt := range opts {
		opt(h)
	}

	h.app = NewApp(views.Env{
		State:   state,
		Toasts:  toasts,
		Browser: h.browser,
		Scanner: h.scanner,
		Clipboard: func(text string) error {
			h.clipboard = append(h.clipboard, text)
			return nil
		},
		ExportDir:      t.TempDir(),
		RequestTimeout: 5 * time.Second,
	})
	h.run(h.app.Init())
	h.send(tea.WindowSizeMsg{Width: 140, Height: 60})
	return h
}

// send delivers msg to the App and runs the resulting commands
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	_, cmd := h.app.Update(msg)
	h.run(cmd)
}

// press sends one key per argument
func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

// typeText sends text one rune at a time
func (h *harness) typeText(text string) {
	h.t.Helper()
	for _, r := range text {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var namedKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"tab":    tea.KeyTab,
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"ctrl+c": tea.KeyCtrlC,
	"ctrl+l": tea.KeyCtrlL,
	"ctrl+n": tea.KeyCtrlN,
	"ctrl+r": tea.KeyCtrlR,
}

func keyMsg(k string) tea.KeyMsg {
	if k == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if t, ok := namedKeys[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// run executes commands and feeds their messages back until nothing is
// left. Commands still blocked after settleTimeout are timers (cursor
// blink, toast expiry, an idle scanner) and are dropped.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()

	pending := []tea.Cmd{cmd}
	for round := 0; len(pending) > 0; round++ {
		if round > 50 {
			h.t.Fatal("message loop did not settle")
		}
		msgs := collect(pending)
		pending = nil

		for _, msg := range msgs {
			switch msg := msg.(type) {
			case tea.BatchMsg:
				pending = append(pending, msg...)
			case tea.QuitMsg:
				h.quit = true
			case spinner.TickMsg, toastTickMsg:
			default:
				_, next := h.app.Update(msg)
				pending = append(pending, next)
			}
		}
	}
}

func collect(cmds []tea.Cmd) []tea.Msg {
	results := make(chan tea.Msg, len(cmds))
	n := 0
	for _, c := range cmds {
		if c == nil {
			continue
		}
		n++
		go func(c tea.Cmd) {
			results <- c()
		}(c)
	}

	var msgs []tea.Msg
	timeout := time.After(settleTimeout)
	for i := 0; i < n; i++ {
		select {
		case msg := <-results:
			if msg != nil {
				msgs = append(msgs, msg)
			}
		case <-timeout:
			return msgs
		}
	}
	return msgs
}

func (h *harness) view() string {
	return h.app.View()
}

func (h *harness) assertView(contains ...string) {
	h.t.Helper()
	v := h.view()
	for _, s := range contains {
		if !strings.Contains(v, s) {
			h.t.Errorf("view does not contain %q:\n%s", s, v)
		}
	}
}

func (h *harness) assertNotView(absent ...string) {
	h.t.Helper()
	v := h.view()
	for _, s := range absent {
		if strings.Contains(v, s) {
			h.t.Errorf("view unexpectedly contains %q:\n%s", s, v)
		}
	}
}

func (h *harness) toastContains(substr string) bool {
	for _, item := range h.toasts.Items() {
		if strings.Contains(item.Message, substr) {
			return true
		}
	}
	return false
}

func topModal[T views.Modal](t *testing.T, h *harness) T {
	t.Helper()
	var zero T
	top, ok := h.app.Modals().Top()
	if !ok {
		t.Fatalf("no modal open, want %T", zero)
	}
	m, ok := top.(T)
	if !ok {
		t.Fatalf("top modal is %T, want %T", top, zero)
	}
	return m
}
