// Package panel renders the Thunder front-panel screen onto a VT100-style
// terminal: the banner, the title bar and the strike report.
package panel

import (
	"fmt"
	"strconv"

	"thunder.klederson.com/internal/config"
	"thunder.klederson.com/internal/vt100"
)

const (
	labelColor  = vt100.Yellow
	valueColor  = vt100.White
	placeholder = "---"
)

// Terminal is the output surface the renderer draws on.
type Terminal interface {
	SetCursor(row, col int)
	SetTextColor(c vt100.Color)
	SetBackgroundColor(c vt100.Color)
	ClearScreen()
	ClearLineAfter()
	CursorOff()
	Print(s string)
	Println(s string)
}

// Reading is one set of sensor values to display.
type Reading struct {
	Active                 bool
	Strikes                uint32
	Distance               uint32 // km
	Energy                 uint32
	MinutesSinceLastStrike uint32
}

// BuildInfo is the device metadata shown with the banner.
type BuildInfo struct {
	SensorModel  string
	SerialNumber string
	AssemblyDate string
	BuildTime    string
}

// DefaultBuildInfo returns the metadata linked into the binary.
func DefaultBuildInfo() BuildInfo {
	return BuildInfo{
		SensorModel:  config.SensorModel,
		SerialNumber: config.SerialNumber,
		AssemblyDate: config.AssemblyDate,
		BuildTime:    config.BuildTime,
	}
}

// Renderer draws the panel. It keeps no state between calls.
type Renderer struct {
	term   Terminal
	layout Layout
	build  BuildInfo
}

// NewRenderer creates a renderer for the given terminal and layout.
func NewRenderer(term Terminal, layout Layout, build BuildInfo) *Renderer {
	return &Renderer{term: term, layout: layout, build: build}
}

// Layout returns the layout in use.
func (r *Renderer) Layout() Layout {
	return r.layout
}

// PrintMessage writes a fixed message at the current cursor position.
func (r *Renderer) PrintMessage(m Message) {
	r.term.Print(m.String())
}

// PrintBanner draws the ASCII-art banner starting at row 2.
func (r *Renderer) PrintBanner() {
	r.term.SetCursor(2, 1)
	r.PrintMessage(MessageBanner)

	if !r.layout.ShowBuildInfo {
		return
	}
	lines := []struct{ label, value string }{
		{"MODEL: ", r.build.SensorModel},
		{"S/N:   ", r.build.SerialNumber},
		{"ASSY:  ", r.build.AssemblyDate},
		{"BUILD: ", r.build.BuildTime},
	}
	for i, l := range lines {
		r.term.SetCursor(r.layout.BuildInfoRow+i, r.layout.BuildInfoCol)
		r.term.SetTextColor(labelColor)
		r.term.Print(l.label)
		r.term.SetTextColor(valueColor)
		r.term.Print(l.value)
	}
}

// PrintStatusBar clears the screen, draws the banner and the title bar on row 1.
func (r *Renderer) PrintStatusBar() {
	r.term.SetBackgroundColor(vt100.Black)
	r.term.ClearScreen()

	r.PrintBanner()

	r.term.SetCursor(1, 1)
	r.term.SetBackgroundColor(vt100.Yellow)
	r.term.SetTextColor(vt100.Black)
	r.term.Print(Title())

	r.term.ClearLineAfter()
	r.term.SetCursor(1, config.TerminalWidth+1)
	r.term.SetBackgroundColor(vt100.Black)
	r.term.SetTextColor(vt100.White)
	r.term.ClearLineAfter()
}

// PrintReport draws the mode line, the key legend and the four strike fields.
// When the reading is inactive no numeric value is written.
func (r *Renderer) PrintReport(rd Reading, mode Mode) {
	l := r.layout

	if l.ShowMode {
		r.term.SetCursor(l.ModeRow, l.FieldCol)
		r.term.SetTextColor(labelColor)
		r.term.Print("MODE: ")
		r.term.SetTextColor(valueColor)
		r.term.Print(mode.String())
	}

	if l.ShowLegend {
		r.term.SetCursor(l.LegendRow, l.FieldCol)
		r.term.SetTextColor(labelColor)
		r.PrintMessage(l.Legend)
	}

	r.term.CursorOff()

	if !rd.Active {
		r.printIdle()
		r.term.CursorOff()
		return
	}

	r.printField(l.StrikesRow, "STK: ", strconv.FormatUint(uint64(rd.Strikes), 10))
	r.printField(l.DistanceRow, "DST: ", fmt.Sprintf("%d km", rd.Distance))
	r.printField(l.EnergyRow, "ENE: ", strconv.FormatUint(uint64(rd.Energy), 10))
	r.printField(l.TimeRow, "TMS: ", fmt.Sprintf("%d min", rd.MinutesSinceLastStrike))

	r.term.CursorOff()
}

// Redraw repaints the whole screen.
func (r *Renderer) Redraw(rd Reading, mode Mode) {
	r.PrintStatusBar()
	r.PrintReport(rd, mode)
}

func (r *Renderer) printIdle() {
	l := r.layout
	if !l.SinglePlaceholder {
		r.printField(l.StrikesRow, "STK: ", placeholder)
		r.printField(l.DistanceRow, "DST: ", placeholder)
		r.printField(l.EnergyRow, "ENE: ", placeholder)
		r.printField(l.TimeRow, "TMS: ", placeholder)
		return
	}

	r.term.SetCursor(l.PlaceholderRow, l.FieldCol)
	r.term.SetTextColor(valueColor)
	r.PrintMessage(MessageNoThunderstorm)
	r.term.ClearLineAfter()

	for _, row := range l.fieldRows() {
		if row == l.PlaceholderRow {
			continue
		}
		r.term.SetCursor(row, l.FieldCol)
		r.term.ClearLineAfter()
	}
}

func (r *Renderer) printField(row int, label, value string) {
	r.term.SetCursor(row, r.layout.FieldCol)
	r.term.SetTextColor(labelColor)
	r.term.Print(label)
	r.term.SetTextColor(valueColor)
	r.term.Print(value)
	if r.layout.ClearFields {
		r.term.ClearLineAfter()
	}
	r.term.Println("")
}

// Title is the text of the title bar.
func Title() string {
	return fmt.Sprintf(" %s V%s ", config.AppName, config.AppVersion)
}
