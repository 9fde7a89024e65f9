package input

import (
	"bufio"
)

// Input is everything typed since the previous frame. Moves and shots are
// counted rather than held so every key press maps to exactly one action.
type Input struct {
	Quit    bool
	Left    int
	Right   int
	Fire    int
	Enter   bool
	Escape  bool
	Pressed []byte
	// Closed is set once the underlying reader has failed or hit EOF.
	Closed bool
}

// Any reports whether at least one byte arrived this frame.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking)
// and parses them, handling escape sequences for arrow keys.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Parse(buf)
	in.Closed = s.closed
	return in
}

// Parse turns raw terminal bytes into an Input.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C': // Right arrow
				in.Right++
				i += 2
				continue
			case 'D': // Left arrow
				in.Left++
				i += 2
				continue
			case 'A', 'B': // Up/Down arrows do nothing
				i += 2
				continue
			}
		}

		applyByte(&in, b)
	}

	return in
}

func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A', 'j', 'J':
		in.Left++
	case 'd', 'D', 'l', 'L':
		in.Right++
	case ' ', 'w', 'W', 'k', 'K':
		in.Fire++
	case '\n', '\r':
		in.Enter = true
	case '\x1b':
		in.Escape = true
	}
}
