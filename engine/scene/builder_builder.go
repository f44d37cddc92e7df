package scene

import "github.com/duskhall/dusk-go/engine/logger"

// BuilderOption is a functional option for configuring a Builder.
// Use the With* functions to create options.
type BuilderOption func(b *builder)

// WithLogger sets the logger used for build diagnostics.
// Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - BuilderOption: option function to apply
func WithLogger(log logger.Logger) BuilderOption {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}
