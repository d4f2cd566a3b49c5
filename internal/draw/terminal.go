package draw

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"
)

// maxChunkSize keeps each write below a typical MTU so frames travel
// smoothly over SSH.
const maxChunkSize = 1400

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalSizeRawWith returns actual terminal dimensions using the provided size function.
func TerminalSizeRawWith(sizeFunc TermSizeFunc) (width, height int, err error) {
	return sizeFunc()
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// Style is a truecolor text style. BG is used only when HasBG is set.
type Style struct {
	FG    colorful.Color
	BG    colorful.Color
	HasBG bool
}

// CenteredCol returns the column at which s starts when centered on centerCol.
func CenteredCol(centerCol int, s string) int {
	return max(centerCol-utf8.RuneCountInString(s)/2, 1)
}

// ChunkWriter collects one frame of terminal output and writes it in
// MTU-sized chunks on Flush. All positions are 1-based and shifted by the
// writer's offset, so a ChunkWriter can address an area inside the screen.
type ChunkWriter struct {
	out    io.Writer
	buf    bytes.Buffer
	offCol int
	offRow int
}

var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter that flushes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{out: w, offCol: offsetCol, offRow: offsetRow}
}

// SetOffset updates the cursor offset, e.g. after a terminal resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends a cursor position sequence.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	fmt.Fprintf(&cw.buf, "\033[%d;%dH", row+cw.offRow, col+cw.offCol)
}

// Write implements io.Writer so a Canvas can render into the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.buf.Write(p)
}

// WriteString appends s at the current cursor position.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s starting at (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteCentered writes s centered on column centerCol.
func (cw *ChunkWriter) WriteCentered(centerCol, row int, s string) {
	cw.WriteAt(CenteredCol(centerCol, s), row, s)
}

// WriteStyled writes s at (col, row) in the given colors and resets the
// style afterwards.
func (cw *ChunkWriter) WriteStyled(col, row int, st Style, s string) {
	cw.MoveCursor(col, row)
	writeFG(&cw.buf, st.FG)
	if st.HasBG {
		writeBG(&cw.buf, st.BG)
	}
	cw.buf.WriteString(s)
	cw.buf.WriteString(resetStyle)
}

// Len returns the number of buffered bytes not yet flushed.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

// Flush writes the frame to the underlying writer and empties the buffer.
func (cw *ChunkWriter) Flush() error {
	defer cw.buf.Reset()
	for cw.buf.Len() > 0 {
		if _, err := cw.out.Write(cw.buf.Next(maxChunkSize)); err != nil {
			return err
		}
	}
	return nil
}
