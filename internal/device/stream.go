package device

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"sync"
)

// Stream writes every action as one JSON object per line. The pointer
// position is tracked locally.
type Stream struct {
	mu  sync.Mutex
	enc *json.Encoder
	pos image.Point
}

// NewStream creates a Stream writing to w with the pointer at start.
func NewStream(w io.Writer, start image.Point) *Stream {
	return &Stream{enc: json.NewEncoder(w), pos: start}
}

func (s *Stream) write(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(a); err != nil {
		return fmt.Errorf("failed to write %s: %w", a, err)
	}
	if a.Op == OpMove {
		s.pos = a.Point()
	}
	return nil
}

// Move implements pen.Device.
func (s *Stream) Move(x, y int) error { return s.write(Move(x, y)) }

// Press implements pen.Device.
func (s *Stream) Press() error { return s.write(Press()) }

// Release implements pen.Device.
func (s *Stream) Release() error { return s.write(Release()) }

// Position implements pen.Device.
func (s *Stream) Position() (image.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos, nil
}
