package pen

import (
	"errors"
	"image"
	"time"
)

var (
	// ErrCancelled reports that the context was cancelled mid-stroke. The
	// device has been released.
	ErrCancelled = errors.New("cancelled")

	// ErrDeviceFailure wraps any error returned by a Device.
	ErrDeviceFailure = errors.New("device failure")
)

// Device is the pointer capability the pen drives. Coordinates are absolute
// device pixels.
type Device interface {
	Move(x, y int) error
	Press() error
	Release() error
	Position() (image.Point, error)
}

// Sleeper blocks for a duration.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(time.Duration)

// Sleep calls f(d).
func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// RealSleeper sleeps on the wall clock.
var RealSleeper Sleeper = SleeperFunc(time.Sleep)
