package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	tabActive lipgloss.Style
	tabIdle   lipgloss.Style
	label     lipgloss.Style
	entry     lipgloss.Style
	selected  lipgloss.Style
	timestamp lipgloss.Style
	errText   lipgloss.Style
	hint      lipgloss.Style
	empty     lipgloss.Style
	confirm   lipgloss.Style
	cooldown  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		tabActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Underline(true),
		tabIdle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		entry:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		errText:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		hint:      lipgloss.NewStyle().Faint(true),
		empty:     lipgloss.NewStyle().Faint(true),
		confirm:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		cooldown:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}
