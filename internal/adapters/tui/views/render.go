package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"mylibrary/internal/adapters/tui/styles"
)

// bindingHelpLine renders bindings as "key desc • key desc"
func bindingHelpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMuted renders secondary text
func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// RenderLabelValue renders "label: value". Empty values render as a
// muted dash.
func RenderLabelValue(label, value string) string {
	if strings.TrimSpace(value) == "" {
		value = RenderMuted("-")
	}
	return fmt.Sprintf("%s %s", styles.InputLabel.Render(label+":"), value)
}

// RenderCheckbox renders a labelled checkbox, highlighted when focused
func RenderCheckbox(label string, checked, focused bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	line := box + " " + label
	if focused {
		return styles.RowSelected.Render(line)
	}
	return line
}

// Truncate shortens s to width runes, marking the cut with an ellipsis
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// ViewBuilder accumulates the lines of a view or modal
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates an empty builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

func (v *ViewBuilder) add(text, end string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString(end)
	return v
}

// Title adds a heading followed by a blank line
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	return v.add(styles.Title.Render(title), "\n\n")
}

// Subtitle adds a secondary heading followed by a blank line
func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	return v.add(styles.Subtitle.Render(subtitle), "\n\n")
}

// Section adds a section heading
func (v *ViewBuilder) Section(title string) *ViewBuilder {
	return v.add(styles.Section.Render(title), "\n")
}

// Line adds one line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	return v.add(text, "\n")
}

// BlankLine adds an empty line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	return v.add("", "\n")
}

// Muted adds one line of secondary text
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	return v.add(RenderMuted(text), "\n")
}

// Message adds a success or error line. Empty messages add nothing.
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	style := styles.Success
	if isError {
		style = styles.ErrorMsg
	}
	return v.add(style.Render(message), "\n\n")
}

// Help adds the key help line
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	return v.add(bindingHelpLine(bindings), "")
}

// Raw adds text as is
func (v *ViewBuilder) Raw(text string) *ViewBuilder {
	return v.add(text, "")
}

// String returns the content inside the app margins
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}

// StringUnwrapped returns the content without margins
func (v *ViewBuilder) StringUnwrapped() string {
	return v.b.String()
}

// Framed returns the content inside the modal border
func (v *ViewBuilder) Framed() string {
	return styles.Modal.Render(strings.TrimRight(v.b.String(), "\n"))
}
