package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"thunder.klederson.com/internal/vt100"
)

// Storm color palette
var (
	ColorBolt     = lipgloss.Color("#FFD700")
	ColorAmber    = lipgloss.Color("#FFAA00")
	ColorDimAmber = lipgloss.Color("#7A5200")
	ColorCloud    = lipgloss.Color("#C0C8D0")
	ColorNight    = lipgloss.Color("#10141C")
	ColorClear    = lipgloss.Color("#33CC66")
	ColorWarning  = lipgloss.Color("#FF3300")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(ColorNight).
			Foreground(ColorBolt).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorBolt).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorCloud)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorNight).
			Foreground(ColorCloud).
			Padding(0, 1)

	StyleStatusStorm = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StyleStatusClear = lipgloss.NewStyle().
				Foreground(ColorClear).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDimAmber)

	StyleTrend = lipgloss.NewStyle().
			Foreground(ColorAmber)
)

// TerminalColor maps a VT100 color to the host terminal's matching ANSI color.
func TerminalColor(c vt100.Color) lipgloss.Color {
	return lipgloss.Color(strconv.Itoa(int(c)))
}
