package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"thunder.klederson.com/internal/config"
	"thunder.klederson.com/internal/panel"
)

// RenderMenuBar renders the top menu bar with the panel key bindings.
func RenderMenuBar(width int, layout string, mode panel.Mode) string {
	title := fmt.Sprintf(" %s v%s ", strings.ToUpper(config.AppName), config.AppVersion)

	keys := []struct{ key, label string }{
		{"T", "hunder"},
		{"R", "eset"},
		{"W", "inter"},
		{"^L", " redraw"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	right := StyleMenuLabel.Render(fmt.Sprintf("Layout: %s  Mode: %s", layout, mode)) + " "
	left := StyleMenuKey.Render(title) + menu

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
