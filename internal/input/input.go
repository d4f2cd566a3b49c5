// Package input turns raw terminal bytes into per-frame key presses.
package input

import (
	"bufio"
)

// Input represents the keys pressed since the previous frame. Every field is
// edge-triggered: a key held down shows up once per byte the terminal sends.
type Input struct {
	Quit             bool // q, Q, Ctrl-C or a lone Esc
	Start            bool // Space or Enter
	Exit             bool // x: end the scene and show the summary
	ToggleLabels     bool // a
	TogglePause      bool // p
	ToggleExplosions bool // e
	ToggleSound      bool // s
	ToggleMusic      bool // t
	Closed           bool // The underlying reader returned an error
	Pressed          []byte
}

// Any reports whether any key was pressed this frame.
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

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	buf := drain(s)
	in := Parse(buf)
	in.Closed = s.closed
	return in
}

// Reset discards pending bytes, so a key that changed the scene does not
// also act in the next one.
func Reset(s *Stream) {
	drain(s)
}

func drain(s *Stream) []byte {
	var buf []byte
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				return buf
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
	return buf
}

// Parse decodes a batch of bytes read from a raw-mode terminal.
// CSI sequences (arrow keys and the like) are skipped.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			if i+1 < len(buf) && buf[i+1] == '[' {
				// ESC [ params final; final byte is in 0x40..0x7e
				i += 2
				for i < len(buf) && (buf[i] < 0x40 || buf[i] > 0x7e) {
					i++
				}
				continue
			}
			in.Quit = true
			continue
		}

		switch b {
		case 'q', 'Q', 0x03:
			in.Quit = true
		case ' ', '\n', '\r':
			in.Start = true
		case 'x', 'X':
			in.Exit = true
		case 'a', 'A':
			in.ToggleLabels = !in.ToggleLabels
		case 'p', 'P':
			in.TogglePause = !in.TogglePause
		case 'e', 'E':
			in.ToggleExplosions = !in.ToggleExplosions
		case 's', 'S':
			in.ToggleSound = !in.ToggleSound
		case 't', 'T':
			in.ToggleMusic = !in.ToggleMusic
		}
	}
	return in
}
