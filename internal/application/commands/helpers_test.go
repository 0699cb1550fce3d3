package commands

import (
	"context"
	"strings"
	"sync"
	"testing"

	"mylibrary/internal/adapters/apiclient"
	"mylibrary/internal/application"
	"mylibrary/internal/ports"
	"mylibrary/internal/testsupport/fakeapi"
)

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

type notes struct {
	mu   sync.Mutex
	msgs []string
}

func (n *notes) Notify(level ports.Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, level.String()+": "+message)
}

func (n *notes) contains(substr string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, m := range n.msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

type fixture struct {
	api   *fakeapi.Server
	state *application.State
	notes *notes
}

// newFixture returns a state wired to a fake server with user ada/secret.
// When login is true the session is already authenticated.
func newFixture(t *testing.T, login bool) *fixture {
	t.Helper()

	api := fakeapi.New()
	api.AddUser("ada", "secret")
	base := api.Start(t)

	n := &notes{}
	session := application.NewSession(&memoryStore{})
	client := apiclient.New(base, session, apiclient.WithNotifier(n))
	state := application.NewState(client, session, n, "https://books.example.org")

	f := &fixture{api: api, state: state, notes: n}
	if login {
		if _, err := NewLoginCommand(state, "ada", "secret").Execute(context.Background()); err != nil {
			t.Fatalf("login failed: %v", err)
		}
	}
	return f
}

func (f *fixture) refresh(t *testing.T) application.Snapshot {
	t.Helper()
	snap, err := f.state.Catalog.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	return snap
}
