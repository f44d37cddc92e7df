// Package resource provides the ref-counted, dedup-on-load cache that is the
// single source of truth for shared GPU-resident resources.
package resource

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/duskhall/dusk-go/engine/logger"
	"github.com/google/uuid"
)

// Kind classifies a cached resource for accounting purposes.
type Kind int

const (
	// KindTexture covers GPU-resident textures and their views.
	KindTexture Kind = iota

	// KindGeometry covers vertex/index buffer pairs.
	KindGeometry

	numKinds
)

// String returns the metric name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "textures"
	case KindGeometry:
		return "geometry"
	default:
		return "unknown"
	}
}

// Resource is a GPU-resident resource with an explicit disposal call.
// Reclamation is never implicit: the cache calls Release exactly once when
// the last acquisition is released.
type Resource interface {
	// Release frees the underlying GPU handles. Must be idempotent-safe to
	// call once; the cache guarantees it is never called twice.
	Release()
}

// LoaderFunc produces a resource. Invoked at most once per cache entry,
// on a loader worker goroutine.
type LoaderFunc func() (Resource, error)

// ErrReleasedBeforeLoad is delivered to awaiters whose entry lost all its
// owners (or was force-drained) before the in-flight load settled. The
// freshly loaded resource is disposed, never adopted.
var ErrReleasedBeforeLoad = errors.New("resource: released before load settled")

// Cache is the ref-counted, dedup-on-load store for shared GPU resources
// keyed by a logical string id.
//
// Concurrent Acquire calls for the same key share a single in-flight load:
// the entry is inserted before its loader runs, so a second caller can never
// start a duplicate load. Acquire and Release calls must be paired by the
// same logical owner; this precondition is not enforced internally.
type Cache interface {
	// Acquire returns a handle for the resource under key, loading it via
	// load if no entry exists. An existing (possibly still-pending) entry has
	// its refcount incremented and is shared.
	//
	// Parameters:
	//   - key: the logical resource id
	//   - kind: the accounting kind for the entry (ignored when the entry already exists)
	//   - load: the loader invoked if the entry is absent (must not be nil)
	//
	// Returns:
	//   - *Handle: the acquisition handle carrying a traceable id
	Acquire(key string, kind Kind, load LoaderFunc) *Handle

	// Release decrements the refcount for key. On the transition to zero the
	// resource is disposed synchronously and the entry removed. Releasing an
	// absent key is a no-op.
	//
	// Parameters:
	//   - key: the logical resource id
	Release(key string)

	// DisposeAll force-drains every entry regardless of refcount.
	// Shutdown only.
	DisposeAll()

	// Outstanding returns the number of live entries of the given kind.
	//
	// Parameters:
	//   - kind: the accounting kind
	//
	// Returns:
	//   - int: the live entry count
	Outstanding(kind Kind) int

	// Loads returns the cumulative number of loader invocations for the kind.
	//
	// Parameters:
	//   - kind: the accounting kind
	//
	// Returns:
	//   - uint64: the loader invocation count
	Loads(kind Kind) uint64

	// Disposals returns the cumulative number of resource disposals for the kind.
	//
	// Parameters:
	//   - kind: the accounting kind
	//
	// Returns:
	//   - uint64: the disposal count
	Disposals(kind Kind) uint64

	// RefCount returns the current refcount for key, or 0 if absent.
	// Diagnostic only.
	//
	// Parameters:
	//   - key: the logical resource id
	//
	// Returns:
	//   - int: the refcount
	RefCount(key string) int
}

// entry tracks one cached resource. res and err are written exactly once,
// before done is closed; settled is guarded by the cache mutex.
type entry struct {
	key  string
	kind Kind

	refCount int
	res      Resource
	err      error
	settled  bool
	done     chan struct{}
}

type cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	// loaderPool runs LoaderFuncs on a bounded set of reusable goroutines.
	loaderPool    worker.DynamicWorkerPool
	loaderWorkers int
	taskSeq       atomic.Int64

	outstanding [numKinds]atomic.Int64
	loads       [numKinds]atomic.Uint64
	disposals   [numKinds]atomic.Uint64

	log logger.Logger
}

var _ Cache = &cache{}

// NewCache creates a Cache with the provided options applied.
//
// Parameters:
//   - options: functional options for cache configuration
//
// Returns:
//   - Cache: the newly created cache
func NewCache(options ...CacheBuilderOption) Cache {
	c := &cache{
		entries:       make(map[string]*entry),
		loaderWorkers: defaultLoaderWorkers,
		log:           logger.NewNop(),
	}

	for _, option := range options {
		option(c)
	}

	// Queue size of 256 accommodates a full room's worth of pending loads with headroom.
	c.loaderPool = worker.NewDynamicWorkerPool(c.loaderWorkers, 256, loaderIdleTimeout)

	return c
}

func (c *cache) Acquire(key string, kind Kind, load LoaderFunc) *Handle {
	if load == nil {
		panic("resource: Acquire requires a non-nil loader")
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.refCount++
		c.mu.Unlock()
		return &Handle{id: uuid.New(), key: key, kind: e.kind, e: e}
	}

	// Placeholder inserted before the load begins so a concurrent Acquire for
	// the same key joins this entry instead of starting a duplicate load.
	e := &entry{
		key:      key,
		kind:     kind,
		refCount: 1,
		done:     make(chan struct{}),
	}
	c.entries[key] = e
	c.outstanding[kind].Add(1)
	c.loads[kind].Add(1)
	c.mu.Unlock()

	c.loaderPool.SubmitTask(worker.Task{
		ID: int(c.taskSeq.Add(1)),
		Do: func() (any, error) {
			res, err := load()
			c.settle(e, res, err)
			return nil, err
		},
	})

	return &Handle{id: uuid.New(), key: key, kind: kind, e: e}
}

// settle resolves an in-flight entry. Loader errors remove the entry so a
// later Acquire retries cleanly; a resource whose entry was already retired
// is disposed rather than leaked.
func (c *cache) settle(e *entry, res Resource, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e.settled = true
	cur, present := c.entries[e.key]

	if err != nil {
		e.err = err
		if present && cur == e {
			delete(c.entries, e.key)
			c.outstanding[e.kind].Add(-1)
		}
		close(e.done)
		c.log.Warn("resource load failed",
			logger.WithField("key", e.key),
			logger.WithField("kind", e.kind.String()),
			logger.WithField("error", err))
		return
	}

	if !present || cur != e {
		// Every owner released (or DisposeAll ran) while the load was in
		// flight. The freshly loaded resource is disposed, never adopted.
		if res != nil {
			res.Release()
			c.disposals[e.kind].Add(1)
		}
		e.err = ErrReleasedBeforeLoad
		close(e.done)
		return
	}

	e.res = res
	close(e.done)
}

func (c *cache) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}

	e.refCount--
	if e.refCount > 0 {
		return
	}

	delete(c.entries, key)
	c.outstanding[e.kind].Add(-1)
	c.disposeLocked(e)
}

func (c *cache) DisposeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		delete(c.entries, key)
		c.outstanding[e.kind].Add(-1)
		c.disposeLocked(e)
	}
}

// disposeLocked frees a retired entry's resource. Entries still loading are
// left for settle, which finds the entry gone and disposes the orphan.
// Caller must hold c.mu.
func (c *cache) disposeLocked(e *entry) {
	if e.settled && e.res != nil {
		e.res.Release()
		e.res = nil
		c.disposals[e.kind].Add(1)
	}
}

func (c *cache) Outstanding(kind Kind) int {
	if kind < 0 || kind >= numKinds {
		return 0
	}
	return int(c.outstanding[kind].Load())
}

func (c *cache) Loads(kind Kind) uint64 {
	if kind < 0 || kind >= numKinds {
		return 0
	}
	return c.loads[kind].Load()
}

func (c *cache) Disposals(kind Kind) uint64 {
	if kind < 0 || kind >= numKinds {
		return 0
	}
	return c.disposals[kind].Load()
}

func (c *cache) RefCount(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.refCount
	}
	return 0
}
