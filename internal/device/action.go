package device

import (
	"fmt"
	"image"
)

// Op names a pointer action.
type Op string

const (
	OpMove    Op = "move"
	OpPress   Op = "press"
	OpRelease Op = "release"
)

// Action is one pointer primitive. X and Y are only meaningful for OpMove.
type Action struct {
	Op Op  `json:"op"`
	X  int `json:"x,omitempty"`
	Y  int `json:"y,omitempty"`
}

// Move returns a move action to (x, y).
func Move(x, y int) Action { return Action{Op: OpMove, X: x, Y: y} }

// Press returns a press action.
func Press() Action { return Action{Op: OpPress} }

// Release returns a release action.
func Release() Action { return Action{Op: OpRelease} }

// Point returns the action target.
func (a Action) Point() image.Point { return image.Pt(a.X, a.Y) }

func (a Action) String() string {
	if a.Op == OpMove {
		return fmt.Sprintf("move(%d,%d)", a.X, a.Y)
	}
	return string(a.Op)
}
