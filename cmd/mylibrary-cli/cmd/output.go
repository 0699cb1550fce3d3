package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/application"
	"mylibrary/internal/domain"
	"mylibrary/internal/ports"
	"mylibrary/internal/textclean"
)

// newNotifier prints API notifications to w, colored by level
func newNotifier(w io.Writer) ports.Notifier {
	return ports.NotifierFunc(func(level ports.Level, message string) {
		label := lipgloss.NewStyle().Foreground(styles.LevelColor(level)).Bold(true).Render(level.String() + ":")
		fmt.Fprintln(w, label+" "+message)
	})
}

func printSuccess(cmd *cobra.Command, message string) {
	fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render(message))
}

func printMuted(cmd *cobra.Command, message string) {
	fmt.Fprintln(cmd.OutOrStdout(), styles.MutedText.Render(message))
}

func printTitle(cmd *cobra.Command, title string) {
	fmt.Fprintln(cmd.OutOrStdout(), styles.Title.UnsetMarginBottom().Render(title))
}

func printField(cmd *cobra.Command, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.InputLabel.Render(label+":"), value)
}

// bookLine renders one book for listings
func bookLine(state *application.State, b domain.Book) string {
	var sb strings.Builder
	sb.WriteString(styles.MutedText.Render(fmt.Sprintf("%5d", b.ID)) + "  ")
	if b.IsPinned {
		sb.WriteString(styles.Pinned.Render("★") + " ")
	}
	sb.WriteString(textclean.Line(b.Title))
	if authors := textclean.Join(b.Authors, ", "); authors != "" {
		sb.WriteString("  " + styles.Authors.Render(authors))
	}
	if name := textclean.Line(state.Catalog.LocationName(b.LocationID)); name != "" {
		sb.WriteString("  " + styles.MutedText.Render("@ "+name))
	}
	if b.Condition != domain.ConditionNone {
		sb.WriteString("  [" + b.Condition.Label() + "]")
	}
	for _, t := range b.TagNames() {
		if t = textclean.Line(t); t != "" {
			sb.WriteString("  " + styles.Tags.Render("#"+t))
		}
	}
	return sb.String()
}

// parseID reads a positive numeric ID argument
func parseID(field, arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, &application.ValidationError{Field: field, Message: fmt.Sprintf("%s must be a number, got %q", field, arg)}
	}
	if err := application.ValidateID(field, id); err != nil {
		return 0, err
	}
	return id, nil
}

// resolveLocation accepts a location ID or a case-insensitive name.
// The catalog must be loaded.
func resolveLocation(state *application.State, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		if _, ok := state.Catalog.Location(id); ok {
			return id, nil
		}
	}
	for _, l := range state.Catalog.Locations() {
		if strings.EqualFold(l.Name, value) {
			return l.ID, nil
		}
	}
	return 0, &application.ValidationError{Field: "location", Message: fmt.Sprintf("no location named %q", value)}
}

var errNoInput = errors.New("no input")

// prompter reads answers from the command's input. Prompts go to stderr
// so stdout stays clean for piping.
type prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{in: in, r: bufio.NewReader(in), out: cmd.ErrOrStderr()}
}

// Line asks for one line of text
func (p *prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret asks for a password without echo when input is a terminal
func (p *prompter) Secret(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.Line(label)
	}
	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// Confirm asks a yes/no question, defaulting to no
func (p *prompter) Confirm(question string) (bool, error) {
	answer, err := p.Line(question + " [y/N] ")
	if errors.Is(err, errNoInput) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
