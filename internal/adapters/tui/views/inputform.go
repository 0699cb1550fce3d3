package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Tab    key.Binding
	Back   key.Binding
	Prev   key.Binding
	Next   key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Back: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous option"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", " "),
		key.WithHelp("→", "next option"),
	),
}

// Choice is one option of a selector field
type Choice struct {
	Label string
	Value string
}

// InputField represents a single input field with label and textinput.
// A field with Choices is a selector cycled with left/right instead.
type InputField struct {
	Label    string
	Input    textinput.Model
	Choices  []Choice
	Selected int
}

// IsSelector reports whether the field picks from Choices
func (f InputField) IsSelector() bool {
	return f.Choices != nil
}

// InputForm manages multiple text input fields with focus handling
type InputForm struct {
	Fields       []InputField
	FocusedField int
	Keys         InputFormKeyMap
}

// NewInputForm creates a new input form with the given fields
func NewInputForm(fields ...InputField) *InputForm {
	form := &InputForm{
		Fields:       fields,
		FocusedField: 0,
		Keys:         DefaultInputFormKeys,
	}
	// Focus the first field
	if len(fields) > 0 {
		form.Fields[0].Input.Focus()
	}
	return form
}

// NewInputField creates a new input field with the given label and placeholder
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{
		Label: label,
		Input: input,
	}
}

// NewPasswordField creates a text field that masks its value
func NewPasswordField(label string) InputField {
	f := NewInputField(label, "", 128)
	f.Input.EchoMode = textinput.EchoPassword
	f.Input.EchoCharacter = '•'
	return f
}

// NewSelectField creates a selector over choices
func NewSelectField(label string, choices []Choice) InputField {
	if choices == nil {
		choices = []Choice{}
	}
	return InputField{
		Label:   label,
		Input:   textinput.New(),
		Choices: choices,
	}
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the input form.
// Returns (handled, cmd) where handled is true if the key was processed.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.Keys.Tab):
			f.NextField()
			return true, nil
		case key.Matches(msg, f.Keys.Back):
			f.PrevField()
			return true, nil
		}

		if f.focusedSelector() {
			switch {
			case key.Matches(msg, f.Keys.Prev):
				f.cycle(-1)
				return true, nil
			case key.Matches(msg, f.Keys.Next):
				f.cycle(1)
				return true, nil
			}
			return false, nil
		}
	}

	// Update the focused input
	var cmd tea.Cmd
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) && !f.focusedSelector() {
		f.Fields[f.FocusedField].Input, cmd = f.Fields[f.FocusedField].Input.Update(msg)
	}
	return false, cmd
}

func (f *InputForm) focusedSelector() bool {
	return f.FocusedField >= 0 && f.FocusedField < len(f.Fields) && f.Fields[f.FocusedField].IsSelector()
}

func (f *InputForm) cycle(delta int) {
	field := &f.Fields[f.FocusedField]
	n := len(field.Choices)
	if n == 0 {
		return
	}
	field.Selected = ((field.Selected+delta)%n + n) % n
}

// NextField moves focus to the next field
func (f *InputForm) NextField() {
	if len(f.Fields) <= 1 {
		return
	}
	f.SetFocus((f.FocusedField + 1) % len(f.Fields))
}

// PrevField moves focus to the previous field
func (f *InputForm) PrevField() {
	if len(f.Fields) <= 1 {
		return
	}
	f.SetFocus((f.FocusedField - 1 + len(f.Fields)) % len(f.Fields))
}

// SetFocus sets focus to a specific field
func (f *InputForm) SetFocus(index int) {
	if index < 0 || index >= len(f.Fields) {
		return
	}

	// Blur current field
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) {
		f.Fields[f.FocusedField].Input.Blur()
	}

	// Focus new field
	f.FocusedField = index
	f.Fields[f.FocusedField].Input.Focus()
}

// Value returns the value of a field by index. Selectors return the value
// of the selected choice.
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	field := f.Fields[index]
	if field.IsSelector() {
		if field.Selected < 0 || field.Selected >= len(field.Choices) {
			return ""
		}
		return field.Choices[field.Selected].Value
	}
	return strings.TrimSpace(field.Input.Value())
}

// RawValue returns a text field's value without trimming
func (f *InputForm) RawValue(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return f.Fields[index].Input.Value()
}

// SetValue sets the value of a field by index. On a selector the choice
// with that value is selected, or the first one if none matches.
func (f *InputForm) SetValue(index int, value string) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	field := &f.Fields[index]
	if field.IsSelector() {
		field.Selected = 0
		for i, c := range field.Choices {
			if c.Value == value {
				field.Selected = i
				break
			}
		}
		return
	}
	field.Input.SetValue(value)
}

// SetChoices replaces a selector's options, keeping the selected value
// when it still exists
func (f *InputForm) SetChoices(index int, choices []Choice) {
	if index < 0 || index >= len(f.Fields) || !f.Fields[index].IsSelector() {
		return
	}
	current := f.Value(index)
	f.Fields[index].Choices = choices
	f.SetValue(index, current)
}

// Reset clears all field values and resets focus to the first field
func (f *InputForm) Reset() {
	for i := range f.Fields {
		f.Fields[i].Input.SetValue("")
		f.Fields[i].Input.Blur()
		f.Fields[i].Selected = 0
	}
	f.FocusedField = 0
	if len(f.Fields) > 0 {
		f.Fields[0].Input.Focus()
	}
}

// RenderField renders a single field with appropriate styling
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}

	field := f.Fields[index]
	var b strings.Builder

	b.WriteString(styles.InputLabel.Render(field.Label))
	b.WriteString("\n")

	content := field.Input.View()
	if field.IsSelector() {
		content = "‹ " + renderChoice(field) + " ›"
	}

	if index == f.FocusedField {
		b.WriteString(styles.InputFocused.Render(content))
	} else {
		b.WriteString(styles.InputField.Render(content))
	}

	return b.String()
}

func renderChoice(field InputField) string {
	if field.Selected < 0 || field.Selected >= len(field.Choices) {
		return RenderMuted("none")
	}
	return field.Choices[field.Selected].Label
}

// RenderFields renders every field separated by blank lines
func (f *InputForm) RenderFields() string {
	parts := make([]string, 0, len(f.Fields))
	for i := range f.Fields {
		parts = append(parts, f.RenderField(i))
	}
	return strings.Join(parts, "\n")
}

// RenderHelp renders the help text for the form
func (f *InputForm) RenderHelp(submitText string) string {
	var parts []string

	if len(f.Fields) > 1 {
		parts = append(parts, styles.HelpKey.Render("tab")+" "+styles.HelpDesc.Render("next field"))
	}
	if f.focusedSelector() {
		parts = append(parts, styles.HelpKey.Render("←/→")+" "+styles.HelpDesc.Render("choose"))
	}
	parts = append(parts, styles.HelpKey.Render("enter")+" "+styles.HelpDesc.Render(submitText))
	parts = append(parts, styles.HelpKey.Render("esc")+" "+styles.HelpDesc.Render("cancel"))

	return strings.Join(parts, "  ")
}
