package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// staleCell never matches a real cell, forcing it to be redrawn.
const staleCell = math.MaxUint16

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
// Render only emits cells that changed since the previous frame.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x], ColorNone if unset
	prev           []uint16
	pen            Color

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64 // in sub-pixels
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets used to center the render area.
	offsetCol int
	offsetRow int

	renderBuf       []byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		pen:           ColorWhite,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// Every cell is redrawn on the next Render.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]Color, subPixelHeight*termWidth)
		c.prev = make([]uint16, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
	c.ForceRedraw()
}

// ForceRedraw marks every cell stale.
func (c *Canvas) ForceRedraw() {
	for i := range c.prev {
		c.prev[i] = staleCell
	}
}

// MarkTextDirty marks n cells starting at the 1-based (col, row) as stale,
// so text written over the canvas is erased once it is gone.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for i := 0; i < n; i++ {
		x := col - 1 + i
		if x >= 0 && x < c.termWidth {
			c.prev[r*c.termWidth+x] = staleCell
		}
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// SetColor selects the pen used by subsequent drawing calls.
func (c *Canvas) SetColor(col Color) {
	if col == ColorNone {
		col = ColorWhite
	}
	c.pen = col
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = c.pen
	}
}

// Set sets a pixel at logical coordinates (applies scaling).
func (c *Canvas) Set(x, y float64) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)))
}

// At reports the color of the pixel at terminal sub-pixel coordinates.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return ColorNone
	}
	return c.pixels[y*c.termWidth+x]
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n])
	}
}

// FillRect fills an axis-aligned rectangle given in logical coordinates.
// Every covered cell gets at least one pixel, however small the scale.
func (c *Canvas) FillRect(x, y, w, h float64) {
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := max(int(math.Ceil((x+w)*c.scaleX))-1, x0)
	y1 := max(int(math.Ceil((y+h)*c.scaleY))-1, y0)

	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			c.setPixel(px, py)
		}
	}
}

// StrokeRect outlines an axis-aligned rectangle given in logical coordinates.
func (c *Canvas) StrokeRect(x, y, w, h float64) {
	pts := c.BorrowPoints(4)
	pts[0] = Point{x, y}
	pts[1] = Point{x + w, y}
	pts[2] = Point{x + w, y + h}
	pts[3] = Point{x, y + h}
	c.DrawPolygon(pts, false)
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// Render writes the cells that changed since the last Render using
// half-block characters. The writer is usually a ChunkWriter.
func (c *Canvas) Render(w io.Writer) {
	buf := c.renderBuf[:0]
	wrote := false

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			cell := uint16(top)<<8 | uint16(bottom)

			idx := row*c.termWidth + col
			if c.prev[idx] == cell {
				continue
			}
			c.prev[idx] = cell
			wrote = true

			buf = append(buf, "\033["...)
			buf = strconv.AppendInt(buf, int64(row+1+c.offsetRow), 10)
			buf = append(buf, ';')
			buf = strconv.AppendInt(buf, int64(col+1+c.offsetCol), 10)
			buf = append(buf, 'H')
			buf = appendCell(buf, top, bottom)
		}
	}

	if wrote {
		buf = append(buf, ColorReset...)
		w.Write(buf)
	}
	c.renderBuf = buf
}

// appendCell appends the SGR and glyph for a cell with the given halves.
func appendCell(buf []byte, top, bottom Color) []byte {
	switch {
	case top == ColorNone && bottom == ColorNone:
		return append(append(buf, ColorReset...), ' ')
	case bottom == ColorNone:
		buf = sgr(buf, top.fgCode(), 0)
		return appendRune(buf, BlockUpperHalf)
	case top == ColorNone:
		buf = sgr(buf, bottom.fgCode(), 0)
		return appendRune(buf, BlockLowerHalf)
	case top == bottom:
		buf = sgr(buf, top.fgCode(), 0)
		return appendRune(buf, BlockFull)
	default:
		buf = sgr(buf, top.fgCode(), bottom.fgCode()+10)
		return appendRune(buf, BlockUpperHalf)
	}
}

func sgr(buf []byte, fg, bg int) []byte {
	buf = append(buf, "\033[0;"...)
	buf = strconv.AppendInt(buf, int64(fg), 10)
	if bg != 0 {
		buf = append(buf, ';')
		buf = strconv.AppendInt(buf, int64(bg), 10)
	}
	return append(buf, 'm')
}

func appendRune(buf []byte, r rune) []byte {
	return append(buf, string(r)...)
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// 1-based terminal positions
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder

	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, strings.Repeat("─", c.termWidth))
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	io.WriteString(w, buf.String())
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
