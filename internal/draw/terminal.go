package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize keeps each write under a typical MTU so SSH frames stay small.
const maxChunkSize = 1400

// ChunkWriter collects one frame of escape sequences and text, then sends it
// in MTU-sized pieces on Flush. Positions passed to WriteAt are 1-based and
// shifted by the centering offset.
type ChunkWriter struct {
	frame  strings.Builder
	out    *bufio.Writer
	offCol int
	offRow int
}

// NewChunkWriter returns a ChunkWriter over w with the given centering offset.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset changes the centering offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

// Write lets the canvas render straight into the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.frame.Write(p)
}

// WriteString appends s to the frame.
func (cw *ChunkWriter) WriteString(s string) {
	cw.frame.WriteString(s)
}

// WriteAt places s at col,row.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	var num [20]byte
	cw.frame.WriteString("\033[")
	cw.frame.Write(strconv.AppendInt(num[:0], int64(row+cw.offRow), 10))
	cw.frame.WriteByte(';')
	cw.frame.Write(strconv.AppendInt(num[:0], int64(col+cw.offCol), 10))
	cw.frame.WriteByte('H')
	cw.frame.WriteString(s)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush sends the frame and starts a new one.
func (cw *ChunkWriter) Flush() error {
	data := cw.frame.String()
	cw.frame.Reset()
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.WriteString(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return cw.out.Flush()
}

// TermSizeFunc reports the terminal size in columns and rows.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the local stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen wipes the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// SetWindowTitle sets the window title with OSC 0.
func SetWindowTitle(w io.Writer, title string) {
	fmt.Fprintf(w, "\033]0;%s\007", title)
}

// EnterAltScreen switches to the alternate buffer so the shell's scrollback
// survives the game. Pair it with ExitAltScreen.
func EnterAltScreen(w io.Writer) {
	fmt.Fprint(w, "\033[?1049h")
}

func ExitAltScreen(w io.Writer) {
	fmt.Fprint(w, "\033[?1049l")
}
