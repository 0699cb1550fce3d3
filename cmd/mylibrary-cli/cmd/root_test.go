package cmd

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mylibrary/internal/adapters/sqlite"
	"mylibrary/internal/application"
	"mylibrary/internal/domain"
	"mylibrary/internal/testsupport/fakeapi"
)

type cliEnv struct {
	api     *fakeapi.Server
	dataDir string
}

// newCLIEnv points the CLI at a fake server that knows ada/secret
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	api := fakeapi.New()
	api.AddUser("ada", "secret")
	base := api.Start(t)

	dataDir := t.TempDir()
	t.Setenv("MYLIBRARY_API_URL", base)
	t.Setenv("MYLIBRARY_DATA_DIR", dataDir)
	t.Setenv("MYLIBRARY_EXPORT_DIR", t.TempDir())
	t.Setenv("MYLIBRARY_PUBLIC_URL", "https://books.example.org")
	return &cliEnv{api: api, dataDir: dataDir}
}

// signIn stores a valid credential the way a previous login would
func (e *cliEnv) signIn(t *testing.T) {
	t.Helper()
	store, err := sqlite.Open(e.dataDir)
	require.NoError(t, err)
	require.NoError(t, store.Save(e.api.IssueToken("ada")))
	require.NoError(t, store.Close())
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	closeRuntime()
	if err != nil {
		reportError(&stderr, err)
	}
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		stdin      string
		wantErr    bool
		wantStdout string
		wantStderr string
	}{
		{
			name:       "prompted username",
			args:       []string{"login"},
			stdin:      "ada\nsecret\n",
			wantStdout: "Welcome, ada",
		},
		{
			name:       "username flag",
			args:       []string{"login", "--username", "ada"},
			stdin:      "secret\n",
			wantStdout: "Welcome, ada",
		},
		{
			name:       "wrong password",
			args:       []string{"login", "-u", "ada"},
			stdin:      "nope\n",
			wantErr:    true,
			wantStderr: "Incorrect username or password",
		},
		{
			name:       "no password given",
			args:       []string{"login", "-u", "ada"},
			stdin:      "",
			wantErr:    true,
			wantStderr: "no input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newCLIEnv(t)
			res := runCLI(t, tt.stdin, tt.args...)

			if tt.wantErr {
				require.Error(t, res.err)
			} else {
				require.NoError(t, res.err, res.stderr)
			}
			assert.Contains(t, res.stdout, tt.wantStdout)
			assert.Contains(t, res.stderr, tt.wantStderr)
		})
	}
}

func TestLoginPersistsSession(t *testing.T) {
	newCLIEnv(t)

	res := runCLI(t, "secret\n", "login", "-u", "ada")
	require.NoError(t, res.err, res.stderr)

	res = runCLI(t, "", "whoami")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "ada@example.org")
	assert.Contains(t, res.stdout, "Public library: off")

	res = runCLI(t, "", "logout")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Logged out")

	res = runCLI(t, "", "whoami")
	require.Error(t, res.err)
	assert.True(t, application.IsAuthError(res.err))
	assert.Contains(t, res.stderr, "mylibrary-cli login")
}

func TestRegister(t *testing.T) {
	env := newCLIEnv(t)

	res := runCLI(t, "hunter22\nhunter22\n", "register", "--email", "grace@example.org", "-u", "grace")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "grace")
	assert.Equal(t, 1, env.api.CountRequests(http.MethodPost, "/auth/register"))

	res = runCLI(t, "one\ntwo\n", "register", "--email", "x@example.org", "-u", "x")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "passwords do not match")
	assert.Equal(t, 1, env.api.CountRequests(http.MethodPost, "/auth/register"))
}

func TestBooks(t *testing.T) {
	env := newCLIEnv(t)
	env.signIn(t)
	shelf := env.api.SeedLocation("ada", domain.Location{Name: "Living room"})
	env.api.SeedBook("ada", domain.Book{Title: "The Hobbit", Authors: domain.Authors{"J.R.R. Tolkien"}, LocationID: shelf.ID})
	env.api.SeedBook("ada", domain.Book{Title: "Emma", Authors: domain.Authors{"Jane Austen"}, IsPinned: true})

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
		wantErr bool
	}{
		{
			name: "all books",
			args: []string{"books"},
			want: []string{"The Hobbit", "Emma", "@ Living room", "2 of 2 books"},
		},
		{
			name:    "search",
			args:    []string{"books", "--search", "austen"},
			want:    []string{"Emma", "1 of 2 books"},
			notWant: []string{"The Hobbit"},
		},
		{
			name:    "location by name",
			args:    []string{"books", "--location", "living ROOM"},
			want:    []string{"The Hobbit"},
			notWant: []string{"Emma"},
		},
		{
			name:    "location by id",
			args:    []string{"books", "-l", strconv.FormatInt(shelf.ID, 10)},
			want:    []string{"The Hobbit"},
			notWant: []string{"Emma"},
		},
		{
			name: "no match",
			args: []string{"books", "-s", "tolstoy"},
			want: []string{"No books match the filters."},
		},
		{
			name:    "unknown location",
			args:    []string{"books", "-l", "Attic"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			if tt.wantErr {
				require.Error(t, res.err)
				return
			}
			require.NoError(t, res.err, res.stderr)
			for _, w := range tt.want {
				assert.Contains(t, res.stdout, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, res.stdout, w)
			}
		})
	}
}

func TestAddPinDelete(t *testing.T) {
	env := newCLIEnv(t)
	env.signIn(t)
	env.api.SeedLocation("ada", domain.Location{Name: "Study"})
	env.api.SetISBN(domain.ISBNMetadata{ISBN: "9780261103344", Title: "The Hobbit", Authors: []string{"J.R.R. Tolkien"}})

	res := runCLI(t, "", "add", "--isbn", "9780261103344", "--location", "study", "--tags", "fantasy, classic")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, `Added "The Hobbit"`)

	books := env.api.Books("ada")
	require.Len(t, books, 1)
	book := books[0]
	assert.Equal(t, []string{"fantasy", "classic"}, book.TagNames())
	assert.NotZero(t, book.LocationID)
	id := strconv.FormatInt(book.ID, 10)

	res = runCLI(t, "", "pin", id)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, `Pinned "The Hobbit"`)
	assert.True(t, env.api.Books("ada")[0].IsPinned)

	res = runCLI(t, "n\n", "delete", id)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Cancelled")
	assert.Contains(t, res.stderr, `Delete "The Hobbit"? [y/N]`)
	assert.Zero(t, env.api.CountRequests(http.MethodDelete, "/books/"+id))

	res = runCLI(t, "y\n", "delete", id)
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, 1, env.api.CountRequests(http.MethodDelete, "/books/"+id))
	assert.Empty(t, env.api.Books("ada"))

	res = runCLI(t, "", "delete", "abc", "--yes")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "must be a number")
}

func TestAddValidation(t *testing.T) {
	env := newCLIEnv(t)
	env.signIn(t)

	res := runCLI(t, "", "add", "--title", "Dune", "--condition", "mint")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "unknown condition")
	assert.Zero(t, env.api.CountRequests(http.MethodPost, "/books/"))

	res = runCLI(t, "", "add", "--isbn", "9780000000002")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "pass --title")
	assert.Zero(t, env.api.CountRequests(http.MethodPost, "/books/"))
}

func TestLocations(t *testing.T) {
	env := newCLIEnv(t)
	env.signIn(t)

	res := runCLI(t, "", "locations")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No locations yet.")

	res = runCLI(t, "", "locations", "add", "Attic", "--description", "boxes")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, `Added location "Attic"`)

	res = runCLI(t, "", "locations")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Attic")
	assert.Contains(t, res.stdout, "0 books")
	assert.Contains(t, res.stdout, "boxes")

	garage := env.api.SeedLocation("ada", domain.Location{Name: "Garage"})
	res = runCLI(t, "", "locations", "delete", strconv.FormatInt(garage.ID, 10), "--yes")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Deleted Garage")
}

func TestShare(t *testing.T) {
	env := newCLIEnv(t)
	env.signIn(t)

	res := runCLI(t, "", "share", "on", "--tags")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Public link: https://books.example.org/library/ada")

	req, ok := env.api.LastRequest(http.MethodPatch, "/users/me")
	require.True(t, ok)
	assert.JSONEq(t, `{"is_library_public":true,"show_tags_public":true}`, string(req.Body))

	res = runCLI(t, "", "share", "off")
	require.NoError(t, res.err, res.stderr)
	assert.NotContains(t, res.stdout, "Public link")

	req, _ = env.api.LastRequest(http.MethodPatch, "/users/me")
	assert.JSONEq(t, `{"is_library_public":false}`, string(req.Body))

	res = runCLI(t, "", "share", "maybe")
	require.Error(t, res.err)
}

func TestExportImport(t *testing.T) {
	env := newCLIEnv(t)
	env.signIn(t)
	env.api.SeedBook("ada", domain.Book{Title: "Dune", ISBN: "9780441013593"})
	dir := t.TempDir()

	res := runCLI(t, "", "export", "--dir", dir)
	require.NoError(t, res.err, res.stderr)
	exported := filepath.Join(dir, "library_ada.csv")
	assert.Contains(t, res.stdout, exported)
	content, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Dune")

	path := filepath.Join(dir, "incoming.csv")
	require.NoError(t, os.WriteFile(path, []byte("ISBN,Title\n9780261103344,The Hobbit\n,Nameless\n"), 0o644))

	res = runCLI(t, "", "import", path)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Total: 2")
	assert.Contains(t, res.stdout, "Failed: 1")
	assert.Contains(t, res.stdout, "Row 3: missing ISBN")

	res = runCLI(t, "", "import", filepath.Join(dir, "notes.txt"))
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "please choose a .csv file")
}

func TestSignedOutCommandsAskForLogin(t *testing.T) {
	newCLIEnv(t)

	res := runCLI(t, "", "books")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "mylibrary-cli login")
}
