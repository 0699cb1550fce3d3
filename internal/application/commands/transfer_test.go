package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestImportCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "csv file", path: writeFile(t, "books.csv", "ISBN\n"), wantErr: false},
		{name: "wrong extension", path: writeFile(t, "books.txt", "ISBN\n"), wantErr: true},
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.csv"), wantErr: true},
		{name: "empty path", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewImportCommand(nil, tt.path).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var valErr *application.ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestImportCommand_Execute(t *testing.T) {
	f := newFixture(t, true)
	f.api.SetISBN(domain.ISBNMetadata{ISBN: "9780261103344", Title: "The Hobbit", Authors: []string{"J.R.R. Tolkien"}})

	path := writeFile(t, "import.csv", strings.Join([]string{
		"ISBN,Title,Authors",
		"9780261103344,,",
		"9780156453806,Invisible Cities,Italo Calvino",
		",No ISBN,Nobody",
		"1111111111,,",
	}, "\n"))

	result, err := NewImportCommand(f.state, path).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := domain.ImportResult{
		Total:      4,
		Processed:  4,
		Successful: 2,
		Failed:     2,
		Errors: []string{
			"Row 4: missing ISBN",
			"Row 5: could not find book data for ISBN 1111111111",
		},
	}
	if !reflect.DeepEqual(result.Tally, want) {
		t.Errorf("tally = %+v, want %+v", result.Tally, want)
	}
	if result.Message != "Imported 2 of 4 books" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestImportCommand_HeaderNamesAreCaseSensitive(t *testing.T) {
	f := newFixture(t, true)
	path := writeFile(t, "import.csv", "isbn,title\n9780156453806,Invisible Cities\n")

	result, err := NewImportCommand(f.state, path).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Tally.Successful != 0 || result.Tally.Failed != 1 {
		t.Errorf("tally = %+v, want the row to fail", result.Tally)
	}
	if want := []string{"Row 2: missing ISBN"}; !reflect.DeepEqual(result.Tally.Errors, want) {
		t.Errorf("Errors = %v, want %v", result.Tally.Errors, want)
	}
	if got := len(f.api.Books("ada")); got != 0 {
		t.Errorf("stored %d books, want 0", got)
	}
}

func TestExportCommand_Execute(t *testing.T) {
	f := newFixture(t, true)
	f.api.SeedBook("ada", domain.Book{Title: "Dune", Authors: domain.Authors{"Frank Herbert"}, ISBN: "9780441013593"})
	dir := t.TempDir()

	result, err := NewExportCommand(f.state, dir).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Path != filepath.Join(dir, "library_ada.csv") {
		t.Errorf("Path = %q", result.Path)
	}

	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "9780441013593,Dune,Frank Herbert") {
		t.Errorf("export content = %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"library_ada.csv", "library_ada.csv"},
		{"../../etc/passwd", "passwd"},
		{"", DefaultExportName},
		{".hidden", DefaultExportName},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := exportFileName(tt.input); got != tt.want {
				t.Errorf("exportFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
