package quality

import "github.com/duskhall/dusk-go/engine/logger"

const (
	// defaultWindowSize is the rolling-window length in frames; it is also
	// the cooldown length after a level change.
	defaultWindowSize = 60

	// defaultUpperThresholdMs is the average frame time above which detail
	// steps down one rung.
	defaultUpperThresholdMs = 14.0

	// defaultLowerThresholdMs is the average frame time below which detail
	// steps back up. The gap below the upper threshold provides hysteresis.
	defaultLowerThresholdMs = 11.0
)

// ControllerBuilderOption is a functional option for configuring a
// Controller. Use the With* functions to create options.
type ControllerBuilderOption func(c *controller)

// WithWindowSize sets the rolling-window length in frames, which doubles
// as the cooldown after a level change. Non-positive values are ignored.
//
// Parameters:
//   - frames: the window length
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithWindowSize(frames int) ControllerBuilderOption {
	return func(c *controller) {
		if frames > 0 {
			c.window = NewRollingWindow(frames)
		}
	}
}

// WithThresholds sets the hysteresis band in milliseconds. Ignored unless
// 0 < lower < upper.
//
// Parameters:
//   - lowerMs: the average below which detail steps up
//   - upperMs: the average above which detail steps down
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithThresholds(lowerMs, upperMs float64) ControllerBuilderOption {
	return func(c *controller) {
		if lowerMs > 0 && lowerMs < upperMs {
			c.lowerMs = lowerMs
			c.upperMs = upperMs
		}
	}
}

// WithLogger sets the logger used for level-change diagnostics.
// Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithLogger(log logger.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if log != nil {
			c.log = log
		}
	}
}
