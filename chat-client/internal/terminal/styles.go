package terminal

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	online   lipgloss.Style
	offline  lipgloss.Style
	self     lipgloss.Style
	system   lipgloss.Style
	typing   lipgloss.Style
	selected lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
	timeline lipgloss.Style
	roster   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		online:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		offline:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		self:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		system:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		typing:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		timeline: lipgloss.NewStyle().PaddingRight(1),
		roster: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1),
	}
}
