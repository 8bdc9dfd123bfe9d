// Package vt100 writes the VT100/ANSI control sequences used by the front
// panel to an arbitrary byte stream, usually a serial port.
package vt100

import (
	"io"
	"strconv"

	"github.com/charmbracelet/x/ansi"
)

// Color is one of the eight basic terminal colors.
type Color int

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// CRLF terminates every printed line; serial terminals expect both bytes.
const CRLF = "\r\n"

// Writer emits control sequences and text to an io.Writer.
// The first write error is kept and every later call becomes a no-op.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered while writing.
func (t *Writer) Err() error {
	return t.err
}

// SetCursor moves the cursor to a 1-based row and column.
func (t *Writer) SetCursor(row, col int) {
	t.write("\x1b[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H")
}

// SetTextColor selects the foreground color.
func (t *Writer) SetTextColor(c Color) {
	t.write("\x1b[" + strconv.Itoa(30+int(c)) + "m")
}

// SetBackgroundColor selects the background color.
func (t *Writer) SetBackgroundColor(c Color) {
	t.write("\x1b[" + strconv.Itoa(40+int(c)) + "m")
}

// ClearScreen erases the whole display using the current background.
func (t *Writer) ClearScreen() {
	t.write(ansi.EraseEntireScreen)
}

// ClearLineAfter erases from the cursor to the end of the line.
func (t *Writer) ClearLineAfter() {
	t.write(ansi.EraseLineRight)
}

// CursorOff hides the cursor.
func (t *Writer) CursorOff() {
	t.write(ansi.HideCursor)
}

// CursorOn shows the cursor.
func (t *Writer) CursorOn() {
	t.write(ansi.ShowCursor)
}

// Print writes s verbatim.
func (t *Writer) Print(s string) {
	t.write(s)
}

// Println writes s followed by CRLF.
func (t *Writer) Println(s string) {
	t.write(s + CRLF)
}

func (t *Writer) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}
