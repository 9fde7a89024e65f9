package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a pen color for canvas pixels. The zero value is an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
)

// ColorReset restores default terminal attributes.
const ColorReset = "\033[0m"

// fgCode returns the SGR foreground code for c.
func (c Color) fgCode() int {
	switch c {
	case ColorRed:
		return 31
	case ColorGreen:
		return 32
	case ColorYellow:
		return 33
	case ColorBlue:
		return 34
	case ColorMagenta:
		return 35
	case ColorCyan:
		return 36
	default:
		return 37
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
