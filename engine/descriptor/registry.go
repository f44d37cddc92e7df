package descriptor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/duskhall/dusk-go/common"
	"github.com/duskhall/dusk-go/engine/logger"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Registry resolves scene ids to descriptors. It is the engine-side view of
// the externally authored scene set: descriptors can be registered
// programmatically or loaded from a directory of YAML files, optionally with
// hot reload while authoring.
type Registry interface {
	// Get returns the descriptor for id.
	//
	// Parameters:
	//   - id: the scene id
	//
	// Returns:
	//   - *SceneDescriptor: the descriptor, or nil if absent
	//   - bool: true if the descriptor exists
	Get(id string) (*SceneDescriptor, bool)

	// Has reports whether a descriptor exists for id.
	//
	// Parameters:
	//   - id: the scene id
	//
	// Returns:
	//   - bool: true if the descriptor exists
	Has(id string) bool

	// IDs returns all known scene ids in sorted order.
	//
	// Returns:
	//   - []string: the sorted scene ids
	IDs() []string

	// Add registers a descriptor, replacing any previous entry with the same id.
	//
	// Parameters:
	//   - desc: the descriptor to register (must have a non-empty ID)
	Add(desc *SceneDescriptor)

	// LoadDir parses every .yaml/.yml file under dir as a SceneDescriptor
	// and registers it. Files are parsed in parallel. A descriptor with an
	// empty id field takes the file name stem as its id.
	//
	// Parameters:
	//   - dir: the directory to load
	//
	// Returns:
	//   - error: error if the directory cannot be read or any file fails to parse
	LoadDir(dir string) error

	// Watch reloads descriptor files under dir as they change, until ctx is
	// cancelled. Intended for authoring sessions; parse failures are logged
	// and the previous descriptor is retained.
	//
	// Parameters:
	//   - ctx: cancellation context ending the watch
	//   - dir: the directory to watch
	//
	// Returns:
	//   - error: error if the watcher cannot be started
	Watch(ctx context.Context, dir string) error
}

type registry struct {
	mu          sync.RWMutex
	descriptors map[string]*SceneDescriptor

	log logger.Logger
}

var _ Registry = &registry{}

// NewRegistry creates a Registry with the provided options applied.
//
// Parameters:
//   - options: functional options for registry configuration
//
// Returns:
//   - Registry: the newly created registry
func NewRegistry(options ...RegistryBuilderOption) Registry {
	r := &registry{
		descriptors: make(map[string]*SceneDescriptor),
		log:         logger.NewNop(),
	}

	for _, option := range options {
		option(r)
	}

	return r
}

func (r *registry) Get(id string) (*SceneDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[id]
	return d, ok
}

func (r *registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[id]
	return ok
}

func (r *registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *registry) Add(desc *SceneDescriptor) {
	if desc == nil || desc.ID == "" {
		panic("descriptor: Add requires a descriptor with a non-empty ID")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[desc.ID] = desc
}

func (r *registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("descriptor: reading %s: %w", dir, err)
	}

	var g errgroup.Group
	for _, entry := range entries {
		if entry.IsDir() || !isDescriptorFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			return r.loadFile(path)
		})
	}
	return g.Wait()
}

func (r *registry) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("descriptor: creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("descriptor: watching %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				if !isDescriptorFile(event.Name) {
					continue
				}
				// Parse failures keep the previous descriptor so a half-saved
				// file never knocks a scene out of the registry.
				if err := r.loadFile(event.Name); err != nil {
					r.log.Warn("descriptor reload failed",
						logger.WithField("file", event.Name),
						logger.WithField("error", err))
					continue
				}
				r.log.Info("descriptor reloaded", logger.WithField("file", event.Name))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.log.Warn("descriptor watcher error", logger.WithField("error", err))
			}
		}
	}()

	return nil
}

// loadFile parses one descriptor file and registers the result.
func (r *registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("descriptor: reading %s: %w", path, err)
	}

	var desc SceneDescriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return fmt.Errorf("descriptor: parsing %s: %w", path, err)
	}
	desc.ID = common.Coalesce(desc.ID, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[desc.ID] = &desc
	return nil
}

func isDescriptorFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
