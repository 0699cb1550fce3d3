package browser

import (
	"os/exec"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		url      string
		wantArgs []string
		wantErr  bool
	}{
		{
			name:     "linux",
			goos:     "linux",
			url:      "https://books.example.org/library/ada",
			wantArgs: []string{"xdg-open", "https://books.example.org/library/ada"},
		},
		{
			name:     "darwin",
			goos:     "darwin",
			url:      "http://localhost:8000/library/ada",
			wantArgs: []string{"open", "http://localhost:8000/library/ada"},
		},
		{
			name:     "windows",
			goos:     "windows",
			url:      "https://books.example.org/library/ada",
			wantArgs: []string{"cmd", "/c", "start", "", "https://books.example.org/library/ada"},
		},
		{
			name:    "file scheme rejected",
			goos:    "linux",
			url:     "file:///etc/passwd",
			wantErr: true,
		},
		{
			name:    "unsupported os",
			goos:    "plan9",
			url:     "https://books.example.org",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{goos: tt.goos}
			cmd, err := o.Command(tt.url)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(cmd.Args) != len(tt.wantArgs) {
				t.Fatalf("Args = %q, want %q", cmd.Args, tt.wantArgs)
			}
			for i := range tt.wantArgs {
				if cmd.Args[i] != tt.wantArgs[i] {
					t.Errorf("Args[%d] = %q, want %q", i, cmd.Args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestOpenURL_RunsCommand(t *testing.T) {
	var ran *exec.Cmd
	o := &Opener{goos: "linux", run: func(c *exec.Cmd) error { ran = c; return nil }}

	if err := o.OpenURL("https://books.example.org/library/ada"); err != nil {
		t.Fatalf("OpenURL() error = %v", err)
	}
	if ran == nil || ran.Args[0] != "xdg-open" {
		t.Errorf("command not run: %v", ran)
	}
}
