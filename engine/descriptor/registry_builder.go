package descriptor

import "github.com/duskhall/dusk-go/engine/logger"

// RegistryBuilderOption is a functional option for configuring a Registry.
// Use the With* functions to create options.
type RegistryBuilderOption func(r *registry)

// WithDescriptors registers initial descriptors.
//
// Parameters:
//   - descs: the descriptors to register
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithDescriptors(descs ...*SceneDescriptor) RegistryBuilderOption {
	return func(r *registry) {
		for _, d := range descs {
			if d != nil && d.ID != "" {
				r.descriptors[d.ID] = d
			}
		}
	}
}

// WithLogger sets the logger used for reload diagnostics.
// Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithLogger(log logger.Logger) RegistryBuilderOption {
	return func(r *registry) {
		if log != nil {
			r.log = log
		}
	}
}
