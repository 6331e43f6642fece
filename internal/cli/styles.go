package cli

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#4F46E5")
	muted  = lipgloss.Color("#6B7280")
	green  = lipgloss.Color("#16A34A")
	red    = lipgloss.Color("#DC2626")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle = lipgloss.NewStyle().Foreground(muted).Width(8)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(green)
	noneStyle  = lipgloss.NewStyle().Bold(true).Foreground(red)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
)
