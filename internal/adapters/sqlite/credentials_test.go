package sqlite

import (
	"os"
	"testing"
)

func TestCredentialStore_SaveLoadClear(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on empty store error = %v", err)
	}
	if got != "" {
		t.Errorf("Load() on empty store = %q, want empty", got)
	}

	if err := store.Save("first"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save("second"); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}
	if got, _ := store.Load(); got != "second" {
		t.Errorf("Load() = %q, want %q", got, "second")
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got, _ := store.Load(); got != "" {
		t.Errorf("Load() after Clear = %q, want empty", got)
	}
}

func TestCredentialStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Save("persisted-token"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store.Close()

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "persisted-token" {
		t.Errorf("Load() = %q, want %q", got, "persisted-token")
	}
}

func TestCredentialStore_FilePermissions(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("database permissions = %o, want 600", perm)
	}
}
