package barcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultArgs restrict zbarcam to the EAN symbologies printed on books and
// keep its preview window closed
var DefaultArgs = []string{"--raw", "--nodisplay", "-Sdisable", "-Sean13.enable", "-Sean8.enable"}

// Zbar implements ports.BarcodeScanner by running zbarcam and reading one
// decoded code per line from its stdout
type Zbar struct {
	binary string
	args   []string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures the Zbar scanner
type Option func(*Zbar)

// WithArgs replaces the decoder arguments
func WithArgs(args ...string) Option {
	return func(z *Zbar) {
		z.args = args
	}
}

// NewZbar creates a scanner that runs binary (usually "zbarcam")
func NewZbar(binary string, opts ...Option) *Zbar {
	z := &Zbar{
		binary: binary,
		args:   DefaultArgs,
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Start launches the decoder. Codes arrive on the returned channel until the
// decoder exits or Stop is called, after which the channel is closed.
func (z *Zbar) Start(ctx context.Context) (<-chan string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.cancel != nil {
		select {
		case <-z.done:
			z.cancel, z.done = nil, nil
		default:
			return nil, errors.New("scanner is already running")
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, z.binary, z.args...)
	cmd.WaitDelay = time.Second
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to attach to %s: %w", z.binary, err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s not found: install zbar to scan barcodes", z.binary)
		}
		return nil, fmt.Errorf("failed to start %s: %w", z.binary, err)
	}

	out := make(chan string)
	done := make(chan struct{})
	z.cancel = cancel
	z.done = done

	go func() {
		<-ctx.Done()
		stdout.Close()
	}()

	go func() {
		defer close(done)
		defer close(out)
		readCodes(ctx, stdout, out)
		cancel()
		_ = cmd.Wait()
	}()

	return out, nil
}

// Stop kills the decoder and waits for it to exit. Calling Stop on a stopped
// scanner is a no-op.
func (z *Zbar) Stop() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.cancel == nil {
		return nil
	}
	z.cancel()
	<-z.done
	z.cancel = nil
	z.done = nil
	return nil
}

// Running reports whether the decoder process is alive
func (z *Zbar) Running() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.done == nil {
		return false
	}
	select {
	case <-z.done:
		return false
	default:
		return true
	}
}

func readCodes(ctx context.Context, r io.Reader, out chan<- string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		code, ok := parseCode(scanner.Text())
		if !ok {
			continue
		}
		select {
		case out <- code:
		case <-ctx.Done():
			return
		}
	}
}

// parseCode accepts a raw line and strips an optional "EAN-13:" style prefix
func parseCode(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if i := strings.LastIndex(line, ":"); i >= 0 {
		line = line[i+1:]
	}
	if line == "" {
		return "", false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return line, true
}
