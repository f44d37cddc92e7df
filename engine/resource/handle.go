package resource

import (
	"context"

	"github.com/google/uuid"
)

// Handle is one acquisition of a cached resource. Every acquisition carries
// its own traceable id so leak diagnostics can attribute an unpaired
// Acquire to a specific call site.
//
// The handle does not release itself: the owner must call Cache.Release with
// the same key exactly once.
type Handle struct {
	id   uuid.UUID
	key  string
	kind Kind
	e    *entry
}

// ID returns the unique acquisition id.
//
// Returns:
//   - uuid.UUID: the acquisition id
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Key returns the logical resource id this handle refers to.
//
// Returns:
//   - string: the resource key
func (h *Handle) Key() string {
	return h.key
}

// Kind returns the accounting kind of the underlying entry.
//
// Returns:
//   - Kind: the resource kind
func (h *Handle) Kind() Kind {
	return h.kind
}

// Await blocks until the underlying load settles or ctx is cancelled.
// All concurrent acquirers of the same key share one load: they all receive
// the same resource instance, or the same loader error.
//
// Parameters:
//   - ctx: cancellation context checked while waiting
//
// Returns:
//   - Resource: the loaded resource (nil on error)
//   - error: the loader error, ErrReleasedBeforeLoad, or ctx.Err()
func (h *Handle) Await(ctx context.Context) (Resource, error) {
	select {
	case <-h.e.done:
		return h.e.res, h.e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the load has completed (successfully or not)
// without blocking.
//
// Returns:
//   - bool: true once the load has settled
func (h *Handle) Settled() bool {
	select {
	case <-h.e.done:
		return true
	default:
		return false
	}
}
