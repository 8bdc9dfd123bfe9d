package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the menu bar, the bordered panel and the status bar.
func ComposeLayout(menuBar, panelView, statusBar string) string {
	framed := StylePanelBorder.Render(panelView)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, framed, statusBar)
}
