package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
)

// DefaultExportName is used when the server suggests no filename
const DefaultExportName = "library.csv"

// ImportResult contains the outcome of a CSV import
type ImportResult struct {
	Tally   domain.ImportResult
	Message string
}

// ImportCommand uploads a CSV file for bulk creation
type ImportCommand struct {
	state *application.State
	Path  string
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(state *application.State, path string) *ImportCommand {
	return &ImportCommand{state: state, Path: expandHome(strings.TrimSpace(path))}
}

// Validate checks the file exists and looks like a CSV
func (c *ImportCommand) Validate() error {
	if err := application.ValidateRequired("file", c.Path); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(c.Path), ".csv") {
		return &application.ValidationError{Field: "file", Message: "please choose a .csv file"}
	}
	info, err := os.Stat(c.Path)
	if err != nil {
		return &application.ValidationError{Field: "file", Message: fmt.Sprintf("cannot read %s", c.Path)}
	}
	if info.IsDir() {
		return &application.ValidationError{Field: "file", Message: fmt.Sprintf("%s is a directory", c.Path)}
	}
	return nil
}

// Execute uploads the file and waits for the server's tally
func (c *ImportCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var tally *domain.ImportResult
	err := c.state.Run(application.WorkflowImport, func() error {
		f, err := os.Open(c.Path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", c.Path, err)
		}
		defer f.Close()

		tally, err = c.state.API.ImportCSV(ctx, filepath.Base(c.Path), f)
		return err
	})
	if err != nil {
		return nil, err
	}
	if tally == nil {
		tally = &domain.ImportResult{}
	}

	return &ImportResult{
		Tally:   *tally,
		Message: fmt.Sprintf("Imported %d of %d books", tally.Successful, tally.Total),
	}, nil
}

// ExportResult contains where the export was written
type ExportResult struct {
	Path    string
	Message string
}

// ExportCommand downloads the catalog as CSV into a directory
type ExportCommand struct {
	state *application.State
	Dir   string
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(state *application.State, dir string) *ExportCommand {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return &ExportCommand{state: state, Dir: expandHome(dir)}
}

// Execute streams the export to a temporary file and renames it to the
// server's filename once complete.
func (c *ExportCommand) Execute(ctx context.Context) (*ExportResult, error) {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var path string
	err := c.state.Run(application.WorkflowExport, func() error {
		tmp, err := os.CreateTemp(c.Dir, ".export-*.csv")
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer os.Remove(tmp.Name())

		name, err := c.state.API.ExportCSV(ctx, tmp)
		if closeErr := tmp.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return err
		}

		path = filepath.Join(c.Dir, exportFileName(name))
		if err := os.Rename(tmp.Name(), path); err != nil {
			return fmt.Errorf("failed to save export: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ExportResult{Path: path, Message: "Exported to " + path}, nil
}

// exportFileName keeps only the base name of a server suggestion
func exportFileName(suggested string) string {
	name := filepath.Base(strings.TrimSpace(suggested))
	if name == "." || name == "/" || name == "" || strings.HasPrefix(name, ".") {
		return DefaultExportName
	}
	return name
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
