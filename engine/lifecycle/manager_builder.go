package lifecycle

import "github.com/duskhall/dusk-go/engine/logger"

const (
	// defaultFadeDuration is the fade-out and fade-in length in seconds.
	defaultFadeDuration = 0.4

	// defaultHoldDuration is how long the screen holds at full fade after
	// the new scene is adopted, in seconds.
	defaultHoldDuration = 0.15
)

// ManagerBuilderOption is a functional option for configuring a Manager.
// Use the With* functions to create options.
type ManagerBuilderOption func(m *manager)

// WithFadeDuration sets the fade-out/fade-in duration in seconds.
// Non-positive values are ignored.
//
// Parameters:
//   - seconds: the fade duration
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithFadeDuration(seconds float64) ManagerBuilderOption {
	return func(m *manager) {
		if seconds > 0 {
			m.fadeDuration = seconds
		}
	}
}

// WithHoldDuration sets how long the screen holds at full fade after the
// new scene is adopted, in seconds. Negative values are ignored; zero
// disables the hold.
//
// Parameters:
//   - seconds: the hold duration
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithHoldDuration(seconds float64) ManagerBuilderOption {
	return func(m *manager) {
		if seconds >= 0 {
			m.holdDuration = seconds
		}
	}
}

// WithLogger sets the logger used for transition diagnostics.
// Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithLogger(log logger.Logger) ManagerBuilderOption {
	return func(m *manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithErrorCallback sets the callback invoked when an asynchronous scene
// build fails. The transition is already unwound when the callback runs.
//
// Parameters:
//   - callback: the error handler
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithErrorCallback(callback func(error)) ManagerBuilderOption {
	return func(m *manager) {
		m.onError = callback
	}
}
