package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Selected lipgloss.Style
	Modal    lipgloss.Style
	Success  lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Label:    lipgloss.NewStyle().Width(14),
		Focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Modal: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("196")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
}
