// Package ui implements the terminal props editor behind skinview edit.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/recera/skinview/pkg/skinview"
)

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Space  key.Binding
	Back   key.Binding
	Save   key.Binding
	Revert key.Binding
	Quit   key.Binding
	Help   key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit"),
	),
	Space: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Save: key.NewBinding(
		key.WithKeys("s", "ctrl+s"),
		key.WithHelp("s", "save"),
	),
	Revert: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "revert"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Save, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Enter, k.Space, k.Back},
		{k.Save, k.Revert, k.Quit, k.Help},
	}
}

// Model is the props editor state
type Model struct {
	width  int
	height int

	path   string
	props  skinview.Props
	saved  skinview.Props
	fields []field
	cursor int

	// Inline editing of number and text fields
	editing bool
	input   textinput.Model

	help     help.Model
	showHelp bool
	quitting bool

	statusMessage string
	errorMessage  string
}

// NewModel creates an editor for props, saved to path
func NewModel(path string, props skinview.Props) Model {
	input := textinput.New()
	input.CharLimit = 512
	input.Width = 48

	return Model{
		path:   path,
		props:  props.Clone(),
		saved:  props.Clone(),
		fields: propsFields(),
		input:  input,
		help:   help.New(),
	}
}

// Props returns the props being edited
func (m Model) Props() skinview.Props {
	return m.props.Clone()
}

// Dirty reports whether there are unsaved edits
func (m Model) Dirty() bool {
	return !m.props.Equal(m.saved)
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKeys(msg)
		}
		return m.handleListKeys(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMessage = ""
	f := m.fields[m.cursor]

	switch {
	case key.Matches(msg, DefaultKeyMap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, DefaultKeyMap.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.errorMessage = ""

	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
		m.errorMessage = ""

	case key.Matches(msg, DefaultKeyMap.Left):
		if f.kind == kindEnum {
			m.apply(func(p *skinview.Props) error { f.cycle(p, -1); return nil })
		}

	case key.Matches(msg, DefaultKeyMap.Right):
		if f.kind == kindEnum {
			m.apply(func(p *skinview.Props) error { f.cycle(p, 1); return nil })
		}

	case key.Matches(msg, DefaultKeyMap.Space), key.Matches(msg, DefaultKeyMap.Enter):
		switch f.kind {
		case kindBool:
			m.apply(func(p *skinview.Props) error { f.toggle(p); return nil })
		case kindEnum:
			m.apply(func(p *skinview.Props) error { f.cycle(p, 1); return nil })
		default:
			if key.Matches(msg, DefaultKeyMap.Enter) {
				m.editing = true
				m.errorMessage = ""
				m.input.SetValue(f.value(m.props))
				m.input.CursorEnd()
				return m, m.input.Focus()
			}
		}

	case key.Matches(msg, DefaultKeyMap.Save):
		m.save()

	case key.Matches(msg, DefaultKeyMap.Revert):
		m.props = m.saved.Clone()
		m.errorMessage = ""
		m.statusMessage = "Reverted to last saved props"
	}

	return m, nil
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, DefaultKeyMap.Enter):
		f := m.fields[m.cursor]
		value := m.input.Value()
		if m.apply(func(p *skinview.Props) error { return f.set(p, value) }) {
			m.editing = false
			m.input.Blur()
		}
		return m, nil

	case key.Matches(msg, DefaultKeyMap.Back):
		m.editing = false
		m.errorMessage = ""
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply runs edit against a copy and keeps the result only if it is valid
func (m *Model) apply(edit func(p *skinview.Props) error) bool {
	next := m.props.Clone()
	if err := edit(&next); err != nil {
		m.errorMessage = err.Error()
		return false
	}
	if err := next.Validate(); err != nil {
		m.errorMessage = err.Error()
		return false
	}
	m.props = next
	m.errorMessage = ""
	return true
}

func (m *Model) save() {
	if err := skinview.SaveProps(m.path, m.props); err != nil {
		m.errorMessage = fmt.Sprintf("Save failed: %v", err)
		return
	}
	m.saved = m.props.Clone()
	m.errorMessage = ""
	m.statusMessage = "Saved " + m.path
}

// Run starts the editor on path and returns the props it ended with
func Run(path string, props skinview.Props) (skinview.Props, error) {
	if !isatty() {
		return props, fmt.Errorf("not running in a terminal")
	}

	p := tea.NewProgram(NewModel(path, props), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return props, fmt.Errorf("TUI error: %w", err)
	}

	m := finalModel.(Model)
	if m.Dirty() {
		return m.Props(), fmt.Errorf("quit with unsaved changes")
	}
	return m.Props(), nil
}

func isatty() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
