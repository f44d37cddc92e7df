// Package quality holds frame time to a budget by degrading optional
// rendering features in a fixed, cheapest-first order. The controller is a
// closed loop: frame durations go in, cumulative feature toggles come out.
package quality

import "gonum.org/v1/gonum/stat"

// RollingWindow is a fixed-capacity ring of recent frame durations.
// Statistics are only meaningful once the window is full; callers must
// check Full before trusting Mean.
type RollingWindow struct {
	samples []float64
	next    int
	count   int
}

// NewRollingWindow creates a window holding the given number of samples.
//
// Parameters:
//   - capacity: the window size (must be positive)
//
// Returns:
//   - *RollingWindow: the newly created window
func NewRollingWindow(capacity int) *RollingWindow {
	if capacity <= 0 {
		panic("quality: NewRollingWindow requires a positive capacity")
	}
	return &RollingWindow{samples: make([]float64, capacity)}
}

// Push records a sample, evicting the oldest once the window is full.
//
// Parameters:
//   - value: the sample to record
func (w *RollingWindow) Push(value float64) {
	w.samples[w.next] = value
	w.next = (w.next + 1) % len(w.samples)
	if w.count < len(w.samples) {
		w.count++
	}
}

// Full reports whether the window has reached capacity.
//
// Returns:
//   - bool: true once capacity samples have been pushed
func (w *RollingWindow) Full() bool {
	return w.count == len(w.samples)
}

// Len returns the number of samples currently held.
//
// Returns:
//   - int: the sample count
func (w *RollingWindow) Len() int {
	return w.count
}

// Capacity returns the window size.
//
// Returns:
//   - int: the capacity
func (w *RollingWindow) Capacity() int {
	return len(w.samples)
}

// Mean returns the average of the held samples, or 0 when empty.
//
// Returns:
//   - float64: the sample mean
func (w *RollingWindow) Mean() float64 {
	if w.count == 0 {
		return 0
	}
	return stat.Mean(w.samples[:w.count], nil)
}
