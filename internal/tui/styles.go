package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	Destructive = lipgloss.Color("#e53935")
	Accent      = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#6b7280")
	Primary     = lipgloss.Color("#2196F3")
)

type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Error   lipgloss.Style
	Status  lipgloss.Style
	Button  lipgloss.Style
	Help    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1),
		Label:   lipgloss.NewStyle().Bold(true).Width(14),
		Focused: lipgloss.NewStyle().Bold(true).Width(14).Foreground(Accent),
		Error:   lipgloss.NewStyle().Foreground(Destructive),
		Status:  lipgloss.NewStyle().Foreground(Destructive).Italic(true),
		Button:  lipgloss.NewStyle().Bold(true).Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(Primary),
		Help:    lipgloss.NewStyle().Foreground(Muted),
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("#101F38")).Background(Accent)
	return s
}
