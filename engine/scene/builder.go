package scene

import (
	"context"
	"fmt"

	"github.com/duskhall/dusk-go/engine/descriptor"
	"github.com/duskhall/dusk-go/engine/light"
	"github.com/duskhall/dusk-go/engine/logger"
	"github.com/duskhall/dusk-go/engine/particle"
	"github.com/duskhall/dusk-go/engine/resource"
)

// Fetchers produce GPU resources for logical ids. They are the boundary to
// the asset pipeline: the engine never reads asset files itself.
type Fetchers struct {
	// Model fetches the mesh resource for a logical model id.
	Model func(key string) (resource.Resource, error)

	// Texture fetches the texture resource for a logical texture id.
	Texture func(key string) (resource.Resource, error)
}

// Builder turns a scene descriptor into a LoadedScene.
//
// Build is a pure function of its arguments: idempotent per call, never
// mutating the descriptor. On failure or cancellation every acquisition the
// call made is released before returning, so a failed build leaves no
// residue in the cache.
type Builder interface {
	// Build loads all resources the descriptor references and assembles the
	// runtime scene aggregate.
	//
	// Parameters:
	//   - ctx: cancellation context checked while awaiting resource loads
	//   - desc: the scene descriptor (read-only)
	//   - loaders: the resource-loader set to route loads through
	//
	// Returns:
	//   - *LoadedScene: the assembled scene (nil on error)
	//   - error: the first load failure, or ctx.Err() on cancellation
	Build(ctx context.Context, desc *descriptor.SceneDescriptor, loaders Loaders) (*LoadedScene, error)
}

type builder struct {
	fetchers Fetchers
	log      logger.Logger
}

var _ Builder = &builder{}

// NewBuilder creates a Builder using the given fetchers, with the provided
// options applied.
//
// Parameters:
//   - fetchers: the asset fetchers (Model and Texture must not be nil)
//   - options: functional options for builder configuration
//
// Returns:
//   - Builder: the newly created builder
func NewBuilder(fetchers Fetchers, options ...BuilderOption) Builder {
	if fetchers.Model == nil || fetchers.Texture == nil {
		panic("scene: NewBuilder requires Model and Texture fetchers")
	}

	b := &builder{
		fetchers: fetchers,
		log:      logger.NewNop(),
	}

	for _, option := range options {
		option(b)
	}

	return b
}

func (b *builder) Build(ctx context.Context, desc *descriptor.SceneDescriptor, loaders Loaders) (*LoadedScene, error) {
	if desc == nil {
		return nil, fmt.Errorf("scene: build requires a descriptor")
	}

	// Deduplicate resource keys up front: each distinct key is acquired once
	// per build, so the scene's release list mirrors its acquire list.
	modelKeys, textureKeys := collectResourceKeys(desc)

	handles := make([]*resource.Handle, 0, len(modelKeys)+len(textureKeys))
	acquired := make([]string, 0, cap(handles))

	for _, key := range modelKeys {
		key := key
		handles = append(handles, loaders.LoadModel(key, func() (resource.Resource, error) {
			return b.fetchers.Model(key)
		}))
		acquired = append(acquired, key)
	}
	for _, key := range textureKeys {
		key := key
		handles = append(handles, loaders.LoadTexture(key, func() (resource.Resource, error) {
			return b.fetchers.Texture(key)
		}))
		acquired = append(acquired, key)
	}

	// Await every load. Failure or cancellation releases all acquisitions,
	// including ones still in flight, which the cache orphan-disposes.
	for _, h := range handles {
		if _, err := h.Await(ctx); err != nil {
			for _, key := range acquired {
				loaders.Release(key)
			}
			return nil, fmt.Errorf("scene: building %q: %w", desc.ID, err)
		}
	}

	lights := make([]light.Light, 0, len(desc.Lights))
	var flicker []light.Light
	for _, spec := range desc.Lights {
		l := light.FromSpec(spec)
		lights = append(lights, l)
		if l.Flickers() {
			flicker = append(flicker, l)
		}
	}

	emitters := make([]particle.Emitter, 0, len(desc.Emitters))
	for _, spec := range desc.Emitters {
		emitters = append(emitters, particle.FromSpec(spec))
	}

	triggers := make([]descriptor.TriggerVolume, len(desc.Triggers))
	copy(triggers, desc.Triggers)

	b.log.Debug("scene built",
		logger.WithField("scene", desc.ID),
		logger.WithField("models", len(modelKeys)),
		logger.WithField("textures", len(textureKeys)),
		logger.WithField("lights", len(lights)))

	return &LoadedScene{
		ID:            desc.ID,
		Root:          "node/" + desc.ID,
		Lights:        lights,
		FlickerLights: flicker,
		Triggers:      triggers,
		Bounds:        desc.Bounds(),
		Emitters:      emitters,
		Background:    desc.Background,
		acquiredKeys:  acquired,
		dispose: func() {
			for _, key := range acquired {
				loaders.Release(key)
			}
		},
	}, nil
}

// collectResourceKeys gathers the distinct model and texture keys a
// descriptor references, in first-reference order.
func collectResourceKeys(desc *descriptor.SceneDescriptor) (models, textures []string) {
	seenModels := make(map[string]struct{})
	seenTextures := make(map[string]struct{})

	addTexture := func(key string) {
		if key == "" {
			return
		}
		if _, ok := seenTextures[key]; !ok {
			seenTextures[key] = struct{}{}
			textures = append(textures, key)
		}
	}

	for _, obj := range desc.Objects {
		if obj.Model != "" {
			if _, ok := seenModels[obj.Model]; !ok {
				seenModels[obj.Model] = struct{}{}
				models = append(models, obj.Model)
			}
		}
		for _, tex := range obj.Textures {
			addTexture(tex)
		}
	}
	for _, layer := range desc.Background {
		addTexture(layer.Texture)
	}

	return models, textures
}
