// Package scene provides the LoadedScene runtime aggregate and the builder
// that turns a scene descriptor into one, routing every resource load
// through the shared ResourceCache.
package scene

import "github.com/duskhall/dusk-go/engine/resource"

// Loaders is the resource-loader set handed to scene builders. Every load is
// routed through the shared cache so concurrent scenes and repeated
// transitions deduplicate GPU uploads.
type Loaders interface {
	// LoadModel acquires the mesh resource under key, invoking fetch if it
	// is not already cached.
	//
	// Parameters:
	//   - key: the logical model id
	//   - fetch: the fetcher producing the mesh resource
	//
	// Returns:
	//   - *resource.Handle: the acquisition handle
	LoadModel(key string, fetch resource.LoaderFunc) *resource.Handle

	// LoadTexture acquires the texture resource under key, invoking fetch if
	// it is not already cached.
	//
	// Parameters:
	//   - key: the logical texture id
	//   - fetch: the fetcher producing the texture resource
	//
	// Returns:
	//   - *resource.Handle: the acquisition handle
	LoadTexture(key string, fetch resource.LoaderFunc) *resource.Handle

	// Release releases one acquisition of key, the counterpart of a
	// LoadModel/LoadTexture call.
	//
	// Parameters:
	//   - key: the logical resource id
	Release(key string)
}

type cacheLoaders struct {
	cache resource.Cache
}

var _ Loaders = &cacheLoaders{}

// NewLoaders creates the Loaders set backed by the given cache.
//
// Parameters:
//   - cache: the shared resource cache (must not be nil)
//
// Returns:
//   - Loaders: the loader set
func NewLoaders(cache resource.Cache) Loaders {
	if cache == nil {
		panic("scene: NewLoaders requires a non-nil Cache")
	}
	return &cacheLoaders{cache: cache}
}

func (l *cacheLoaders) LoadModel(key string, fetch resource.LoaderFunc) *resource.Handle {
	return l.cache.Acquire(key, resource.KindGeometry, fetch)
}

func (l *cacheLoaders) LoadTexture(key string, fetch resource.LoaderFunc) *resource.Handle {
	return l.cache.Acquire(key, resource.KindTexture, fetch)
}

func (l *cacheLoaders) Release(key string) {
	l.cache.Release(key)
}
