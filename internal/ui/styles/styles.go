package styles

import "github.com/charmbracelet/lipgloss"

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FD7AF"))
	Bar   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7DCE13"))
)
