package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkarlsen/prmerge/internal/ui"
)

// Terminal is the interactive Prompter. Each prompt runs as its own small
// bubbletea program inline (no alt screen), so the surrounding workflow
// output stays visible.
type Terminal struct{}

// NewTerminal returns the interactive prompter.
func NewTerminal() *Terminal {
	return &Terminal{}
}

var (
	promptStyle = lipgloss.NewStyle().Foreground(ui.ColorCyan).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(ui.ColorMagenta)
)

// confirm

type confirmModel struct {
	label   string
	def     bool
	answer  bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer, m.done = true, true
	case "n", "N":
		m.answer, m.done = false, true
	case "enter":
		m.answer, m.done = m.def, true
	case "ctrl+c", "esc", "q":
		m.aborted, m.done = true, true
	}
	if m.done {
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	hint := "[y/N]"
	if m.def {
		hint = "[Y/n]"
	}
	if m.done {
		answer := "n"
		if m.answer {
			answer = "y"
		}
		return fmt.Sprintf("%s %s %s\n", promptStyle.Render(m.label), hint, answer)
	}
	return fmt.Sprintf("%s %s ", promptStyle.Render(m.label), hint)
}

// Confirm asks a yes/no question.
func (t *Terminal) Confirm(label string, def bool) (bool, error) {
	final, err := tea.NewProgram(confirmModel{label: label, def: def}).Run()
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.answer, nil
}

// input

type inputModel struct {
	label   string
	input   textinput.Model
	done    bool
	aborted bool
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted, m.done = true, true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return fmt.Sprintf("%s %s\n", promptStyle.Render(m.label), m.input.Value())
	}
	return fmt.Sprintf("%s %s", promptStyle.Render(m.label), m.input.View())
}

// Input asks for a line of free text, pre-filled with def.
func (t *Terminal) Input(label, def string) (string, error) {
	ti := textinput.New()
	ti.SetValue(def)
	ti.CursorEnd()
	ti.Focus()
	ti.CharLimit = 500

	final, err := tea.NewProgram(inputModel{label: label, input: ti}).Run()
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.aborted {
		return "", ErrAborted
	}
	return strings.TrimSpace(m.input.Value()), nil
}

// select

type selectModel struct {
	label   string
	options []string
	cursor  int
	done    bool
	aborted bool
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.aborted, m.done = true, true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.done {
		return fmt.Sprintf("%s %s\n", promptStyle.Render(m.label), m.options[m.cursor])
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.label))
	b.WriteString("\n")
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + opt))
		} else {
			b.WriteString("  " + opt)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Select asks the operator to pick one of options.
func (t *Terminal) Select(label string, options []string, def int) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("select %q: no options", label)
	}
	if def < 0 || def >= len(options) {
		def = 0
	}
	final, err := tea.NewProgram(selectModel{label: label, options: options, cursor: def}).Run()
	if err != nil {
		return "", err
	}
	m := final.(selectModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.options[m.cursor], nil
}

// Pause blocks until the operator presses enter.
func (t *Terminal) Pause(label string) error {
	_, err := t.Input(label, "")
	return err
}
