package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Opener implements ports.EditorOpener
type Opener struct {
	lookupEnv func(string) string
}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{lookupEnv: os.Getenv}
}

// OpenFile opens a file in the user's preferred editor
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	editor := o.findEditor()
	if len(editor) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	args := append(editor[1:], path)
	cmd := exec.Command(editor[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor command split into program and arguments,
// so values like "code --wait" work
func (o *Opener) findEditor() []string {
	for _, key := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(o.lookupEnv(key)); len(fields) > 0 {
			return fields
		}
	}

	editors := []string{"nvim", "vim", "vi", "nano"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return []string{path}
		}
	}

	return nil
}

// Draft is a temporary file holding text being edited externally
type Draft struct {
	Path string
}

// NewDraft writes content to a fresh temporary markdown file
func NewDraft(content string) (*Draft, error) {
	f, err := os.CreateTemp("", "mylibrary-notes-*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to create notes file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write notes file: %w", err)
	}
	return &Draft{Path: f.Name()}, nil
}

// Finish reads the edited text back and removes the file. A single
// trailing newline added by most editors is dropped.
func (d *Draft) Finish() (string, error) {
	defer os.Remove(d.Path)

	data, err := os.ReadFile(d.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read notes file: %w", err)
	}
	return strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r"), nil
}
