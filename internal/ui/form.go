package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a stack of text inputs with one focused field.
type form struct {
	inputs []textinput.Model
	focus  int
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 128
	in.Width = 40
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

func newForm(inputs ...textinput.Model) form {
	f := form{inputs: inputs}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func newLoginForm() form {
	return newForm(newInput("email", false), newInput("password", true))
}

func newRegisterForm() form {
	return newForm(newInput("name", false), newInput("email", false), newInput("password", true))
}

// move shifts focus by delta, wrapping around.
func (f *form) move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) last() bool { return f.focus == len(f.inputs)-1 }

func (f *form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

// complete reports whether every field has a value.
func (f *form) complete() bool {
	for i := range f.inputs {
		if f.value(i) == "" {
			return false
		}
	}
	return len(f.inputs) > 0
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) view() string {
	lines := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		lines[i] = in.View()
	}
	return strings.Join(lines, "\n")
}
