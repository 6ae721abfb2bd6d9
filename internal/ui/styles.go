package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	ColorHeader = "252"
	ColorKey    = "81"
	ColorCount  = "214"
	ColorOK     = "82"
	ColorWarn   = "214"
	ColorErr    = "245"
	ColorMuted  = "240"
)

// Shared styles
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeader))
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorKey))
	CountStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCount))
	OKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOK))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarn))
	ErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorErr))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
)
