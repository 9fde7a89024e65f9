package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestFillRectScales(t *testing.T) {
	// 80x30 terminal showing an 800x600 arena: 10 logical units per column,
	// 10 logical units per sub-pixel row.
	c := NewScaledCanvas(80, 30, 800, 600)
	c.SetColor(ColorRed)
	c.FillRect(100, 100, 20, 20)

	for y := 10; y < 12; y++ {
		for x := 10; x < 12; x++ {
			if got := c.At(x, y); got != ColorRed {
				t.Errorf("At(%d,%d) = %v, want red", x, y, got)
			}
		}
	}
	if c.At(12, 10) != ColorNone || c.At(10, 12) != ColorNone {
		t.Error("FillRect spilled past the rectangle")
	}
}

func TestFillRectNeverVanishes(t *testing.T) {
	c := NewScaledCanvas(10, 5, 800, 600)
	c.FillRect(400, 300, 1, 1)

	found := false
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c.At(x, y) != ColorNone {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("tiny rectangle left no pixel")
	}
}

func TestRenderOnlyWritesChanges(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var out bytes.Buffer

	c.Render(&out)
	if out.Len() == 0 {
		t.Fatal("first render wrote nothing")
	}

	out.Reset()
	c.Render(&out)
	if out.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", out.String())
	}

	c.Set(1, 0)
	c.Render(&out)
	if !strings.Contains(out.String(), string(BlockUpperHalf)) {
		t.Fatalf("changed cell not drawn: %q", out.String())
	}
	if strings.Count(out.String(), "H") != 1 {
		t.Fatalf("expected one cursor move, got %q", out.String())
	}

	// Erasing the pixel must blank the cell.
	out.Reset()
	c.Clear()
	c.Render(&out)
	if !strings.Contains(out.String(), " ") {
		t.Fatalf("cleared cell not blanked: %q", out.String())
	}
}

func TestMarkTextDirtyRedrawsCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var out bytes.Buffer
	c.Render(&out)

	out.Reset()
	c.MarkTextDirty(2, 1, 2)
	c.Render(&out)
	if got := strings.Count(out.String(), "H"); got != 2 {
		t.Fatalf("redrew %d cells, want 2", got)
	}

	// Out of range marks are ignored.
	c.MarkTextDirty(1, 9, 3)
	c.MarkTextDirty(-4, 1, 2)
}

func TestMixedHalvesUseBackground(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	c.SetColor(ColorRed)
	c.Set(0, 0)
	c.SetColor(ColorBlue)
	c.Set(0, 1)

	var out bytes.Buffer
	c.Render(&out)
	if !strings.Contains(out.String(), "\033[0;31;44m") {
		t.Fatalf("expected red over blue SGR, got %q", out.String())
	}
}

func TestChunkWriterFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(1, 1, "hi")
	cw.WriteString(strings.Repeat("x", maxChunkSize*2))
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "\033[2;3Hhi") {
		t.Fatalf("offset not applied: %q", out.String()[:12])
	}
	if out.Len() != len("\033[2;3Hhi")+maxChunkSize*2 {
		t.Fatalf("flushed %d bytes", out.Len())
	}
}

func TestAltScreenPair(t *testing.T) {
	var out bytes.Buffer
	EnterAltScreen(&out)
	ExitAltScreen(&out)
	if out.String() != "\033[?1049h\033[?1049l" {
		t.Fatalf("alt screen sequences = %q", out.String())
	}
}
