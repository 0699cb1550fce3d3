package barcode

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestParseCode(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{line: "9780261103344", want: "9780261103344", wantOK: true},
		{line: "EAN-13:9780261103344\r", want: "9780261103344", wantOK: true},
		{line: "  96385074 ", want: "96385074", wantOK: true},
		{line: "", wantOK: false},
		{line: "QR-Code:https://example.org", wantOK: false},
		{line: "warning: no camera", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseCode(tt.line)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseCode(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestZbar_StartDeliversCodesAndStops(t *testing.T) {
	z := NewZbar("sh", WithArgs("-c", "echo 'not a code'; echo 9780261103344; exec sleep 30"))

	codes, err := z.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case code := <-codes:
		if code != "9780261103344" {
			t.Errorf("code = %q", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no code received")
	}

	if _, err := z.Start(context.Background()); err == nil {
		t.Error("second Start() expected error while running")
	}

	if err := z.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if z.Running() {
		t.Error("decoder still running after Stop()")
	}
	if _, open := <-codes; open {
		t.Error("channel not closed after Stop()")
	}
	if err := z.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestZbar_MissingBinary(t *testing.T) {
	z := NewZbar("mylibrary-no-such-decoder")
	_, err := z.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Start() error = %v, want not found", err)
	}
	if z.Running() {
		t.Error("Running() after failed start")
	}
}
