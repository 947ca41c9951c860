package pen

import "fmt"

// Speed controls the in-stroke draw motion.
type Speed struct {
	// StepSize is the distance in pixels between interpolated sub-steps.
	// Values below PreciseStepSize select the longer release delay.
	StepSize float64 `json:"step_size" yaml:"step_size"`

	// SleepInterval is the number of sub-steps between 1 ms yields.
	SleepInterval int `json:"sleep_interval" yaml:"sleep_interval"`
}

// PreciseStepSize is the step size below which a stroke counts as precise.
const PreciseStepSize = 2.0

// DefaultSpeed is the calibration point of the duration estimator.
func DefaultSpeed() Speed {
	return Speed{StepSize: 5.0, SleepInterval: 50}
}

// Validate rejects non-positive values.
func (s Speed) Validate() error {
	if s.StepSize <= 0 {
		return fmt.Errorf("step size must be positive, got %v", s.StepSize)
	}
	if s.SleepInterval <= 0 {
		return fmt.Errorf("sleep interval must be positive, got %d", s.SleepInterval)
	}
	return nil
}

// Precise reports whether the speed uses the precise release delay.
func (s Speed) Precise() bool {
	return s.StepSize < PreciseStepSize
}
