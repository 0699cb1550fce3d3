package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mylibrary/internal/adapters/sqlite"
	"mylibrary/internal/config"
	"mylibrary/internal/ports"
	"mylibrary/internal/testsupport/fakeapi"
)

func testConfig(t *testing.T, apiURL string) config.Config {
	t.Helper()
	cfg := config.Config{
		DataDir:     t.TempDir(),
		ExportDir:   t.TempDir(),
		HTTPTimeout: 5 * time.Second,
		LogLevel:    "debug",
	}
	if err := cfg.SetAPIURL(apiURL); err != nil {
		t.Fatalf("SetAPIURL() error = %v", err)
	}
	return cfg
}

func TestOpen_RestoresCredential(t *testing.T) {
	api := fakeapi.New()
	api.AddUser("ada", "secret")
	cfg := testConfig(t, api.Start(t))

	store, err := sqlite.Open(cfg.DataDir)
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	if err := store.Save(api.IssueToken("ada")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store.Close()

	rt, err := Open(cfg, ports.NotifierFunc(func(ports.Level, string) {}))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rt.Close()

	if !rt.State.Session.HasCredential() {
		t.Fatal("credential was not restored")
	}
	p, err := rt.State.Session.LoadProfile(context.Background(), rt.State.API)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.Username != "ada" {
		t.Errorf("Username = %q, want ada", p.Username)
	}

	if _, err := os.Stat(cfg.LogPath()); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestOpen_SignedOut(t *testing.T) {
	cfg := testConfig(t, "http://localhost:1/api")

	rt, err := Open(cfg, ports.NotifierFunc(func(ports.Level, string) {}))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rt.Close()

	if rt.State.Session.HasCredential() {
		t.Error("fresh data dir has a credential")
	}
	if got, want := rt.State.PublicBaseURL, "http://localhost:1"; got != want {
		t.Errorf("PublicBaseURL = %q, want %q", got, want)
	}
}

func TestOpen_UnusableDataDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, "http://localhost:1/api")
	cfg.DataDir = file

	if _, err := Open(cfg, nil); err == nil {
		t.Fatal("Open() with a file as data dir succeeded")
	}
}
