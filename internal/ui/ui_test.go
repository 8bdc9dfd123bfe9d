package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thunder.klederson.com/internal/lightning"
	"thunder.klederson.com/internal/panel"
	"thunder.klederson.com/internal/vt100"
)

func colorsAt(s *Screen, row, col int) (fg, bg vt100.Color) {
	c := s.cells[row-1][col-1]
	return c.fg, c.bg
}

func drawPanel(layout panel.Layout, rd panel.Reading, mode panel.Mode) *Screen {
	s := NewScreen(24, 80)
	r := panel.NewRenderer(s, layout, panel.BuildInfo{SensorModel: "AS3935", SerialNumber: "TH-0042", AssemblyDate: "2020-05-01", BuildTime: "2020-05-02"})
	r.Redraw(rd, mode)
	return s
}

func TestScreen_FullActiveRows(t *testing.T) {
	s := drawPanel(panel.LayoutFull, panel.Reading{Active: true, Strikes: 5, Distance: 12, Energy: 340000, MinutesSinceLastStrike: 3}, panel.ModeSummer)

	assert.Equal(t, " Thunder V1.0", s.Line(1))
	assert.Equal(t, " _______ _                     _           _", s.Line(2))
	assert.Equal(t, "                          (c) Nicola 2020", s.Line(8))
	assert.Equal(t, " MODE: SUMMER", s.Line(9))
	assert.Equal(t, " STK: 5", s.Line(11))
	assert.Equal(t, " DST: 12 km", s.Line(13))
	assert.Equal(t, " ENE: 340000", s.Line(15))
	assert.Equal(t, " TMS: 3 min", s.Line(17))
	assert.Equal(t, " T - Thunder   R - Reset Stats   W - Toggle Winter Mode", s.Line(19))
	assert.False(t, s.cursorOn)
}

func TestScreen_FullInactiveRows(t *testing.T) {
	s := drawPanel(panel.LayoutFull, panel.Reading{Strikes: 5, Distance: 12}, panel.ModeWinter)

	assert.Equal(t, " MODE: WINTER", s.Line(9))
	assert.Equal(t, " STK: ---", s.Line(11))
	assert.Equal(t, " DST: ---", s.Line(13))
	assert.Equal(t, " ENE: ---", s.Line(15))
	assert.Equal(t, " TMS: ---", s.Line(17))
}

func TestScreen_CompactInactiveRows(t *testing.T) {
	s := drawPanel(panel.LayoutCompact, panel.Reading{}, panel.ModeSummer)

	assert.Equal(t, " No Thunderstorm.", s.Line(10))
	assert.Empty(t, s.Line(11))
	assert.Empty(t, s.Line(12))
	assert.Empty(t, s.Line(13))
	assert.Equal(t, " T - Thunder   R - Reset Stats", s.Line(15))
	assert.Contains(t, s.Line(3), "MODEL: AS3935")
	assert.Contains(t, s.Line(4), "S/N:   TH-0042")
	assert.Empty(t, s.Line(9))
}

func TestScreen_CompactClearsStaleDigits(t *testing.T) {
	s := NewScreen(24, 80)
	r := panel.NewRenderer(s, panel.LayoutCompact, panel.BuildInfo{})
	r.Redraw(panel.Reading{Active: true, Strikes: 100, Distance: 40, Energy: 2000000, MinutesSinceLastStrike: 25}, panel.ModeSummer)
	r.PrintReport(panel.Reading{Active: true, Strikes: 1, Distance: 5, Energy: 7, MinutesSinceLastStrike: 0}, panel.ModeSummer)

	assert.Equal(t, " STK: 1", s.Line(10))
	assert.Equal(t, " DST: 5 km", s.Line(11))
	assert.Equal(t, " ENE: 7", s.Line(12))
	assert.Equal(t, " TMS: 0 min", s.Line(13))
}

func TestScreen_Colors(t *testing.T) {
	s := drawPanel(panel.LayoutFull, panel.Reading{Active: true, Strikes: 5}, panel.ModeSummer)

	fg, bg := colorsAt(s, 11, 2)
	assert.Equal(t, vt100.Yellow, fg)
	assert.Equal(t, vt100.Black, bg)

	fg, _ = colorsAt(s, 11, 7)
	assert.Equal(t, vt100.White, fg)

	fg, bg = colorsAt(s, 1, 2)
	assert.Equal(t, vt100.Black, fg)
	assert.Equal(t, vt100.Yellow, bg)

	// title bar runs to the last column but one; the clamped cursor clears the last
	_, bg = colorsAt(s, 1, 79)
	assert.Equal(t, vt100.Yellow, bg)
	_, bg = colorsAt(s, 1, 80)
	assert.Equal(t, vt100.Black, bg)

	// credit line switches to green mid-banner
	fg, _ = colorsAt(s, 8, 27)
	assert.Equal(t, vt100.Green, fg)
}

func TestScreen_ClampsAndIgnoresOverflow(t *testing.T) {
	s := NewScreen(2, 4)
	s.SetCursor(9, 9)
	s.Print("xyz")
	assert.Equal(t, "   x", s.Line(2))

	s.SetCursor(1, 1)
	s.Print("\x1b[2Jab\x1b[?25lc")
	assert.Equal(t, "abc", s.Line(1))
	assert.Empty(t, s.Line(0))
	assert.Empty(t, s.Line(3))
}

func TestScreen_ReplaysSerialStream(t *testing.T) {
	var buf strings.Builder
	r := panel.NewRenderer(vt100.NewWriter(&buf), panel.LayoutFull, panel.BuildInfo{})
	r.Redraw(panel.Reading{Active: true, Strikes: 5, Distance: 12, Energy: 340000, MinutesSinceLastStrike: 3}, panel.ModeSummer)

	direct := drawPanel(panel.LayoutFull, panel.Reading{Active: true, Strikes: 5, Distance: 12, Energy: 340000, MinutesSinceLastStrike: 3}, panel.ModeSummer)
	replayed := NewScreen(24, 80)
	replayed.Print(buf.String())

	for row := 1; row <= 24; row++ {
		assert.Equal(t, direct.Line(row), replayed.Line(row), "row %d", row)
	}
	assert.Equal(t, direct.cells, replayed.cells)
	assert.False(t, replayed.cursorOn)
}

func TestScreen_ControlSequences(t *testing.T) {
	s := NewScreen(3, 10)
	s.Print("abcdefghij\x1b[2;3Hxy\x1b[1;4H\x1b[K")
	assert.Equal(t, "abc", s.Line(1))
	assert.Equal(t, "  xy", s.Line(2))

	s.Print("\x1b[41m\x1b[2J\x1b[3;1Hz\x1b[m")
	assert.Empty(t, s.Line(1))
	assert.Equal(t, "z", s.Line(3))
	_, bg := colorsAt(s, 1, 1)
	assert.Equal(t, vt100.Red, bg)

	s.Print("\x1b[?25l")
	assert.False(t, s.cursorOn)
	s.Print("\x1b[?25h")
	assert.True(t, s.cursorOn)
}

func TestScreen_View(t *testing.T) {
	s := drawPanel(panel.LayoutFull, panel.Reading{}, panel.ModeSummer)
	view := s.View()

	lines := strings.Split(view, "\n")
	require.Len(t, lines, 24)
	for _, l := range lines {
		assert.Equal(t, 80, lipgloss.Width(l))
	}
	assert.Contains(t, view, "Thunder V1.0")
}

func TestRenderSparkline(t *testing.T) {
	assert.Empty(t, RenderSparkline(nil, 10))
	assert.Empty(t, RenderSparkline([]float64{1, 2}, 0))
	assert.Equal(t, "_^", RenderSparkline([]float64{1, 40}, 10))
	assert.Equal(t, "^_", RenderSparkline([]float64{40, 40, 1}, 2))
	assert.Equal(t, "___", RenderSparkline([]float64{6, 6, 6}, 5))
}

func TestRenderBars(t *testing.T) {
	menu := RenderMenuBar(100, "full", panel.ModeWinter)
	assert.Contains(t, menu, "THUNDER v1.0")
	assert.Contains(t, menu, "Mode: WINTER")

	status := RenderStatusBar(100, lightning.Stats{Active: true, Strikes: 3, Noise: 1, Distances: []float64{40, 20, 5}}, true)
	assert.Contains(t, status, "[STORM]")
	assert.Contains(t, status, "Strikes: 3")
	assert.Contains(t, status, "Source: demo")
	assert.Contains(t, status, "^._")

	assert.Contains(t, RenderStatusBar(100, lightning.Stats{}, false), "[CLEAR]")

	view := ComposeLayout(menu, "panel", status)
	assert.Contains(t, view, "panel")
}
