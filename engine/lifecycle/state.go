package lifecycle

// TransitionState identifies the current phase of a scene transition.
// Transitions move strictly linearly through the states and always return
// to StateIdle.
type TransitionState int

const (
	// StateIdle means no transition is in flight; a scene may or may not be
	// active.
	StateIdle TransitionState = iota

	// StateFadingOut means the screen is fading to opaque ahead of the
	// unload. The transition can still be aborted in this state.
	StateFadingOut

	// StateUnloading means the active scene is being retired. This state is
	// the committed boundary: it completes within a single tick and cannot
	// be aborted.
	StateUnloading

	// StateLoading means the target scene is being built asynchronously.
	// The screen stays fully opaque, with a short hold after adoption.
	StateLoading

	// StateFadingIn means the new scene is active and the screen is fading
	// back to transparent.
	StateFadingIn
)

// String returns the state name.
//
// Returns:
//   - string: the state name
func (s TransitionState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateFadingOut:
		return "FADING_OUT"
	case StateUnloading:
		return "UNLOADING"
	case StateLoading:
		return "LOADING"
	case StateFadingIn:
		return "FADING_IN"
	default:
		return "UNKNOWN"
	}
}
