package client

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tomz197/warthreads/internal/draw"
	"github.com/tomz197/warthreads/internal/loop/match"
	"github.com/tomz197/warthreads/internal/object"
)

// enemyColors picks a color per enemy variant.
var enemyColors = [...]draw.Color{draw.ColorRed, draw.ColorMagenta, draw.ColorCyan}

// drawFrame draws the current frame.
func (c *Client) drawFrame(snap match.Snapshot) error {
	cw := c.chunkWriter

	// Full clear on phase change so overlays from the previous phase go away.
	if c.state.Phase != c.state.prevPhase {
		cw.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevPhase = c.state.Phase
	}

	if c.state.titleDirty {
		draw.SetWindowTitle(cw, c.state.Title)
		c.state.titleDirty = false
	}

	c.canvas.Clear()
	for _, v := range c.sortedVisuals() {
		c.drawVisual(v)
	}

	c.canvas.Render(cw)
	c.canvas.RenderBorder(cw)

	c.drawUI(snap)

	return cw.Flush()
}

// sortedVisuals returns visuals in creation order so overlapping shapes
// stack the same way every frame.
func (c *Client) sortedVisuals() []object.Visual {
	out := make([]object.Visual, 0, len(c.state.Visuals))
	for _, v := range c.state.Visuals {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b object.Visual) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// drawVisual draws one entity onto the canvas.
func (c *Client) drawVisual(v object.Visual) {
	r := v.Rect
	x, y := float64(r.X), float64(r.Y)
	w, h := float64(r.W), float64(r.H)

	switch v.Kind {
	case object.KindGun:
		c.canvas.SetColor(draw.ColorGreen)
		pts := c.canvas.BorrowPoints(3)
		pts[0] = draw.Point{X: x, Y: y + h}
		pts[1] = draw.Point{X: x + w/2, Y: y}
		pts[2] = draw.Point{X: x + w, Y: y + h}
		c.canvas.DrawPolygon(pts, true)

	case object.KindProjectile:
		c.canvas.SetColor(draw.ColorYellow)
		c.canvas.FillRect(x, y, w, h)

	case object.KindEnemy, object.KindLargeEnemy:
		c.canvas.SetColor(enemyColors[v.Variant%len(enemyColors)])
		switch v.Variant % len(enemyColors) {
		case 0:
			c.canvas.FillRect(x, y, w, h)
		case 1:
			pts := c.canvas.BorrowPoints(4)
			pts[0] = draw.Point{X: x + w/2, Y: y}
			pts[1] = draw.Point{X: x + w, Y: y + h/2}
			pts[2] = draw.Point{X: x + w/2, Y: y + h}
			pts[3] = draw.Point{X: x, Y: y + h/2}
			c.canvas.DrawPolygon(pts, true)
		default:
			c.canvas.StrokeRect(x, y, w, h)
			c.canvas.DrawLine(draw.Point{X: x, Y: y}, draw.Point{X: x + w, Y: y + h})
			c.canvas.DrawLine(draw.Point{X: x + w, Y: y}, draw.Point{X: x, Y: y + h})
		}
	}
}

// drawUI draws the text overlay for the current phase.
func (c *Client) drawUI(snap match.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	c.drawHUD(termWidth, termHeight, snap)

	switch c.state.Phase {
	case PhaseWaiting:
		c.drawStartScreen(centerX, centerY, snap)
	case PhaseEnded:
		c.drawEndDialog(centerX, centerY)
	}
}

// drawHUD draws the score line and gauges.
// Fixed-width fields keep shrinking values from leaving residue.
func (c *Client) drawHUD(termWidth, termHeight int, snap match.Snapshot) {
	cw := c.chunkWriter

	title := c.state.Title
	if title == "" {
		title = match.FormatTitle(snap.Hits, snap.Misses)
	}
	cw.WriteAt(2, 1, fmt.Sprintf("%-48s", title))

	shots := "Shots: " + strings.Repeat("●", snap.Available) + strings.Repeat("○", max(snap.Capacity-snap.Available, 0))
	cw.WriteAt(max(termWidth-len([]rune(shots))-1, 1), 1, shots)

	cw.WriteAt(2, termHeight, fmt.Sprintf("Speed: %-5d", snap.Speed))
}

// drawStartScreen draws the waiting prompt over the arena.
func (c *Client) drawStartScreen(centerX, centerY int, snap match.Snapshot) {
	titleArt := []string{
		`__      __              __   _____ _                    _    `,
		`\ \    / /_ _ _ _   ___ / _| |_   _| |_  _ _ ___ __ _ __| |___`,
		` \ \/\/ / _' | '_| / _ \  _|   | | | ' \| '_/ -_) _' / _' (_-<`,
		`  \_/\_/\__,_|_|   \___/_|     |_| |_||_|_| \___\__,_\__,_/__/`,
	}
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	cw := c.chunkWriter
	top := centerY - 6
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, top+i, line)
	}

	controlLines := []string{
		"A D / < >  . . .  Move",
		"SPACE  . . . . .  Shoot",
		"Q  . . . . . . .  Quit",
	}
	controlsY := top + len(titleArt) + 1
	for i, line := range controlLines {
		cw.WriteAt(centerX-len(line)/2, controlsY+i, line)
	}

	left := max(c.startTimeout-snap.Age, 0).Round(time.Second)
	prompt := fmt.Sprintf(">>  Move to start (auto start in %2.0fs)  <<", left.Seconds())
	promptY := controlsY + len(controlLines) + 1
	promptX := centerX - len(prompt)/2

	// Blink the prompt; hidden cells must be repainted by the canvas.
	on := time.Now().UnixMilli()/600%2 == 0
	if on {
		cw.WriteAt(promptX, promptY, prompt)
	} else if c.state.blinkOn {
		c.canvas.MarkTextDirty(promptX, promptY, len(prompt))
	}
	c.state.blinkOn = on
}

// drawEndDialog draws the end-of-match box with the final score.
func (c *Client) drawEndDialog(centerX, centerY int) {
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("Hits: %d   Misses: %d", c.state.Hits, c.state.Misses),
		"",
		fmt.Sprintf("Press any key (closing in %2.0fs)", max(c.state.endTimer, 0)),
	}

	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	width += 4

	cw := c.chunkWriter
	left := centerX - width/2
	top := centerY - len(lines)/2 - 1

	cw.WriteAt(left, top, "┌"+strings.Repeat("─", width-2)+"┐")
	for i, l := range lines {
		pad := width - 2 - len(l)
		row := "│" + strings.Repeat(" ", pad/2) + l + strings.Repeat(" ", pad-pad/2) + "│"
		cw.WriteAt(left, top+1+i, row)
	}
	cw.WriteAt(left, top+1+len(lines), "└"+strings.Repeat("─", width-2)+"┘")
}
