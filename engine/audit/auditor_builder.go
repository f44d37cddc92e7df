package audit

import (
	"time"

	"github.com/duskhall/dusk-go/engine/logger"
	"github.com/duskhall/dusk-go/engine/resource"
)

const (
	// defaultCycles is the number of full load cycles per run.
	defaultCycles = 3

	// defaultSettleDelay is the pause after each load, giving uploads time
	// to complete before counters are read.
	defaultSettleDelay = 25 * time.Millisecond

	// defaultTolerance is the per-metric allowed growth per cycle index.
	defaultTolerance = 4
)

// AuditorBuilderOption is a functional option for configuring an Auditor.
// Use the With* functions to create options.
type AuditorBuilderOption func(a *auditor)

// WithCycles sets the number of full load cycles per run.
// Non-positive values are ignored.
//
// Parameters:
//   - cycles: the cycle count
//
// Returns:
//   - AuditorBuilderOption: option function to apply
func WithCycles(cycles int) AuditorBuilderOption {
	return func(a *auditor) {
		if cycles > 0 {
			a.cycles = cycles
		}
	}
}

// WithSettleDelay sets the pause after each load. Zero disables the pause;
// negative values are ignored.
//
// Parameters:
//   - delay: the settle delay
//
// Returns:
//   - AuditorBuilderOption: option function to apply
func WithSettleDelay(delay time.Duration) AuditorBuilderOption {
	return func(a *auditor) {
		if delay >= 0 {
			a.settle = delay
		}
	}
}

// WithTolerance sets the allowed counter growth for one metric, per cycle
// index. Negative values are ignored.
//
// Parameters:
//   - kind: the resource metric
//   - allowed: the allowed growth
//
// Returns:
//   - AuditorBuilderOption: option function to apply
func WithTolerance(kind resource.Kind, allowed int) AuditorBuilderOption {
	return func(a *auditor) {
		if allowed >= 0 {
			a.tolerances[kind] = allowed
		}
	}
}

// WithLogger sets the logger used for audit progress and leak reports.
// Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - AuditorBuilderOption: option function to apply
func WithLogger(log logger.Logger) AuditorBuilderOption {
	return func(a *auditor) {
		if log != nil {
			a.log = log
		}
	}
}
