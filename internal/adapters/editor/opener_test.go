package editor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCommand_UsesEditorWithArguments(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantArgs []string
	}{
		{
			name:     "editor",
			env:      map[string]string{"EDITOR": "nano"},
			wantArgs: []string{"nano", "/tmp/notes.md"},
		},
		{
			name:     "editor with flags",
			env:      map[string]string{"EDITOR": "code --wait"},
			wantArgs: []string{"code", "--wait", "/tmp/notes.md"},
		},
		{
			name:     "visual fallback",
			env:      map[string]string{"EDITOR": " ", "VISUAL": "emacs"},
			wantArgs: []string{"emacs", "/tmp/notes.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{lookupEnv: func(k string) string { return tt.env[k] }}
			cmd, err := o.Command("/tmp/notes.md")
			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}
			if len(cmd.Args) != len(tt.wantArgs) {
				t.Fatalf("Args = %v, want %v", cmd.Args, tt.wantArgs)
			}
			for i := range tt.wantArgs {
				if cmd.Args[i] != tt.wantArgs[i] {
					t.Errorf("Args[%d] = %q, want %q", i, cmd.Args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestDraft_RoundTrip(t *testing.T) {
	d, err := NewDraft("first line")
	if err != nil {
		t.Fatalf("NewDraft() error = %v", err)
	}
	if filepath.Ext(d.Path) != ".md" {
		t.Errorf("Path = %q, want .md file", d.Path)
	}

	if err := os.WriteFile(d.Path, []byte("edited\nsecond line\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := d.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if got != "edited\nsecond line" {
		t.Errorf("Finish() = %q", got)
	}
	if _, err := os.Stat(d.Path); !os.IsNotExist(err) {
		t.Errorf("draft file not removed")
	}
}
