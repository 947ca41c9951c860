package device

import (
	"image"
	"sync"
)

// Recorder is an in-memory pointer that records every action.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
	pos     image.Point
	pressed bool

	// Fail, when set, is consulted before each action is applied. A non-nil
	// return is reported as the action's error and the action is not recorded.
	Fail func(Action) error
}

// NewRecorder creates a Recorder with the pointer at start.
func NewRecorder(start image.Point) *Recorder {
	return &Recorder{pos: start}
}

func (r *Recorder) apply(a Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Fail != nil {
		if err := r.Fail(a); err != nil {
			return err
		}
	}
	switch a.Op {
	case OpMove:
		r.pos = a.Point()
	case OpPress:
		r.pressed = true
	case OpRelease:
		r.pressed = false
	}
	r.actions = append(r.actions, a)
	return nil
}

// Move implements pen.Device.
func (r *Recorder) Move(x, y int) error { return r.apply(Move(x, y)) }

// Press implements pen.Device.
func (r *Recorder) Press() error { return r.apply(Press()) }

// Release implements pen.Device.
func (r *Recorder) Release() error { return r.apply(Release()) }

// Position implements pen.Device.
func (r *Recorder) Position() (image.Point, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos, nil
}

// Actions returns a copy of the recorded actions.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Count returns how many actions of op were recorded.
func (r *Recorder) Count(op Op) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.actions {
		if a.Op == op {
			n++
		}
	}
	return n
}

// Pressed reports whether the button is currently down.
func (r *Recorder) Pressed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pressed
}

// Reset drops the recorded actions. Position and button state are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
}
