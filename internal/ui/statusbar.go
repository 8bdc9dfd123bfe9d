package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"thunder.klederson.com/internal/lightning"
)

// RenderStatusBar renders the bottom status bar: storm state, event counts
// and the recent strike-distance trend.
func RenderStatusBar(width int, st lightning.Stats, demo bool) string {
	status := StyleStatusClear.Render("[CLEAR]")
	if st.Active {
		status = StyleStatusStorm.Render("[STORM]")
	}

	source := "keys"
	if demo {
		source = "demo"
	}
	info := fmt.Sprintf(" Strikes: %d  Disturbers: %d  Noise: %d  Source: %s  Trend: ",
		st.Strikes, st.Disturbers, st.Noise, source)

	// info and the bar itself are each padded by one column per side
	trendW := width - lipgloss.Width(status) - lipgloss.Width(info) - 4
	if trendW < 0 {
		trendW = 0
	}
	trend := StyleTrend.Render(RenderSparkline(st.Distances, trendW))

	content := status + StyleStatusBar.Render(info) + trend

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}

// RenderSparkline draws the last width values on a five-level scale.
// Higher glyphs mean a more distant strike.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for i := start; i < len(values); i++ {
		idx := int((values[i] - minV) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteByte(chars[idx])
	}

	return sb.String()
}
