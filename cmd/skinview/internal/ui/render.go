package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions
var (
	primaryColor   = lipgloss.Color("#3b82f6")
	secondaryColor = lipgloss.Color("#64748b")
	successColor   = lipgloss.Color("#10b981")
	warningColor   = lipgloss.Color("#f59e0b")
	errorColor     = lipgloss.Color("#ef4444")
	mutedColor     = lipgloss.Color("#94a3b8")

	baseStyle = lipgloss.NewStyle().
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	selectedStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Width(28)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)

// visibleRows is how many field rows fit between the header and footer
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return len(m.fields)
	}
	rows := m.height - 12
	if rows < 5 {
		rows = 5
	}
	return rows
}

// View renders the editor
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "Skin Viewer Props"
	if m.Dirty() {
		title += warningStyle.Render(" (modified)")
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(m.path))
	b.WriteString("\n\n")

	// Scroll so the cursor stays visible
	rows := m.visibleRows()
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := start + rows
	if end > len(m.fields) {
		end = len(m.fields)
	}

	for i := start; i < end; i++ {
		f := m.fields[i]
		cursor := "  "
		label := labelStyle.Render(f.label)
		if i == m.cursor {
			cursor = selectedStyle.Render("▸ ")
			label = selectedStyle.Inherit(labelStyle).Render(f.label)
		}

		var value string
		switch {
		case i == m.cursor && m.editing:
			value = m.input.View()
		case f.kind == kindEnum:
			value = fmt.Sprintf("‹ %s ›", f.value(m.props))
		default:
			value = f.value(m.props)
			if value == "" {
				value = mutedStyle.Render("(unset)")
			}
		}

		b.WriteString(cursor + label + value + "\n")
	}

	if m.errorMessage != "" {
		b.WriteString("\n" + errorStyle.Render("✗ "+m.errorMessage) + "\n")
	} else if m.statusMessage != "" {
		b.WriteString("\n" + successStyle.Render("✓ "+m.statusMessage) + "\n")
	}

	help := m.help
	help.ShowAll = m.showHelp
	b.WriteString(footerStyle.Render(help.View(DefaultKeyMap)))

	return baseStyle.Render(b.String())
}
