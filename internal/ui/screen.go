package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"thunder.klederson.com/internal/vt100"
)

// noColor marks a cell that keeps the host terminal's default color.
const noColor vt100.Color = -1

type cell struct {
	ch     rune
	fg, bg vt100.Color
}

// Screen is an in-memory character grid that accepts the same calls as a
// serial VT100 terminal, so the panel can be previewed inside a local TUI.
// Printed text may carry VT100 control sequences; see csi for the subset
// that is honored.
type Screen struct {
	rows, cols int
	cells      [][]cell
	row, col   int // 0-based cursor
	fg, bg     vt100.Color
	cursorOn   bool
	parser     *ansi.Parser
}

// NewScreen creates a blank grid.
func NewScreen(rows, cols int) *Screen {
	s := &Screen{rows: rows, cols: cols, fg: noColor, bg: noColor, cursorOn: true}
	s.cells = make([][]cell, rows)
	for r := range s.cells {
		s.cells[r] = make([]cell, cols)
	}
	s.fill(0, 0, rows, cols, noColor)

	s.parser = ansi.NewParser()
	s.parser.SetHandler(ansi.Handler{
		Print:     s.put,
		Execute:   s.control,
		HandleCsi: s.csi,
	})
	return s
}

// SetCursor moves to a 1-based position, clamped to the grid.
func (s *Screen) SetCursor(row, col int) {
	s.row = clamp(row-1, 0, s.rows-1)
	s.col = clamp(col-1, 0, s.cols-1)
}

func (s *Screen) SetTextColor(c vt100.Color)       { s.fg = c }
func (s *Screen) SetBackgroundColor(c vt100.Color) { s.bg = c }

// ClearScreen blanks every cell with the current background.
func (s *Screen) ClearScreen() {
	s.fill(0, 0, s.rows, s.cols, s.bg)
}

// ClearLineAfter blanks from the cursor to the end of its row.
func (s *Screen) ClearLineAfter() {
	s.fill(s.row, s.col, s.row+1, s.cols, s.bg)
}

func (s *Screen) CursorOff() { s.cursorOn = false }

// Print writes text at the cursor. Control sequences embedded in text are
// interpreted, so a byte stream recorded from a serial panel can be
// replayed with a single call.
func (s *Screen) Print(text string) {
	for i := 0; i < len(text); i++ {
		s.parser.Advance(text[i])
	}
}

// Println writes text followed by CRLF.
func (s *Screen) Println(text string) {
	s.Print(text + vt100.CRLF)
}

// Line returns the plain text of a 1-based row without trailing blanks.
func (s *Screen) Line(row int) string {
	if row < 1 || row > s.rows {
		return ""
	}
	var sb strings.Builder
	for _, c := range s.cells[row-1] {
		sb.WriteRune(c.ch)
	}
	return strings.TrimRight(sb.String(), " ")
}

// View renders the grid with lipgloss, one styled run per color change.
func (s *Screen) View() string {
	lines := make([]string, s.rows)
	for r, rowCells := range s.cells {
		var sb strings.Builder
		start := 0
		for i := 1; i <= len(rowCells); i++ {
			if i < len(rowCells) && sameColors(rowCells[i], rowCells[start]) {
				continue
			}
			sb.WriteString(renderRun(rowCells[start:i]))
			start = i
		}
		lines[r] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) put(r rune) {
	if s.col < s.cols {
		s.cells[s.row][s.col] = cell{ch: r, fg: s.fg, bg: s.bg}
		s.col++
	}
}

func (s *Screen) control(b byte) {
	switch b {
	case '\r':
		s.col = 0
	case '\n':
		if s.row < s.rows-1 {
			s.row++
		}
	}
}

// csi applies the subset of CSI sequences the panel emits: CUP, ED, EL,
// SGR and DECTCEM. Anything else is dropped.
func (s *Screen) csi(cmd ansi.Cmd, params ansi.Params) {
	switch cmd.Final() {
	case 'H':
		row, _, _ := params.Param(0, 1)
		col, _, _ := params.Param(1, 1)
		s.SetCursor(row, col)
	case 'J':
		switch n, _, _ := params.Param(0, 0); n {
		case 0:
			s.ClearLineAfter()
			s.fill(s.row+1, 0, s.rows, s.cols, s.bg)
		case 2:
			s.ClearScreen()
		}
	case 'K':
		if n, _, _ := params.Param(0, 0); n == 0 {
			s.ClearLineAfter()
		}
	case 'm':
		s.sgr(params)
	case 'h', 'l':
		if cmd.Prefix() == '?' {
			if n, _, _ := params.Param(0, 0); n == 25 {
				s.cursorOn = cmd.Final() == 'h'
			}
		}
	}
}

func (s *Screen) sgr(params ansi.Params) {
	if len(params) == 0 {
		s.fg, s.bg = noColor, noColor
		return
	}
	params.ForEach(0, func(_, n int, _ bool) {
		switch {
		case n == 0:
			s.fg, s.bg = noColor, noColor
		case n >= 30 && n <= 37:
			s.fg = vt100.Color(n - 30)
		case n == 39:
			s.fg = noColor
		case n >= 40 && n <= 47:
			s.bg = vt100.Color(n - 40)
		case n == 49:
			s.bg = noColor
		}
	})
}

func (s *Screen) fill(r0, c0, r1, c1 int, bg vt100.Color) {
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			s.cells[r][c] = cell{ch: ' ', fg: noColor, bg: bg}
		}
	}
}

func sameColors(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg
}

func renderRun(run []cell) string {
	text := make([]rune, len(run))
	for i, c := range run {
		text[i] = c.ch
	}
	if len(run) == 0 {
		return ""
	}
	style := lipgloss.NewStyle()
	if fg := run[0].fg; fg != noColor {
		style = style.Foreground(TerminalColor(fg))
	}
	if bg := run[0].bg; bg != noColor {
		style = style.Background(TerminalColor(bg))
	}
	return style.Render(string(text))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
