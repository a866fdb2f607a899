package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Artexxx/HR-Directory/internal/validation"
)

const help = "tab/shift+tab focus • enter submit • ctrl+e edit row • ctrl+d delete row • ctrl+r reload • / search • esc cancel • ctrl+c quit"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Employee Directory"))
	b.WriteString("\n")

	errs := m.ctrl.Errors()
	for i, f := range validation.Fields {
		label := m.styles.Label
		if i == m.focus && !m.searching {
			label = m.styles.Focused
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, label.Render(f.Label()+":"), m.inputs[i].View())
		if msg := errs[f]; msg != "" {
			line += "  " + m.styles.Error.Render(msg)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Button.Render(m.ctrl.SubmitLabel()))
	if m.ctrl.Mode().IsEditing() {
		b.WriteString("  " + m.styles.Help.Render("esc to cancel"))
	}
	b.WriteString("\n")

	if m.busy {
		b.WriteString(m.styles.Help.Render("working..."))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status))
		b.WriteString("\n")
	}

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(help))

	return b.String()
}
