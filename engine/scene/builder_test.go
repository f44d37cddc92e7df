package scene

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/duskhall/dusk-go/common"
	"github.com/duskhall/dusk-go/engine/descriptor"
	"github.com/duskhall/dusk-go/engine/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResource struct {
	key      string
	released atomic.Int32
}

func (f *fakeResource) Release() { f.released.Add(1) }

// countingFetchers builds Fetchers that record invocations per key.
func countingFetchers() (Fetchers, *atomic.Int32, *atomic.Int32) {
	var modelCalls, textureCalls atomic.Int32
	f := Fetchers{
		Model: func(key string) (resource.Resource, error) {
			modelCalls.Add(1)
			return &fakeResource{key: key}, nil
		},
		Texture: func(key string) (resource.Resource, error) {
			textureCalls.Add(1)
			return &fakeResource{key: key}, nil
		},
	}
	return f, &modelCalls, &textureCalls
}

func hallDescriptor() *descriptor.SceneDescriptor {
	return &descriptor.SceneDescriptor{
		ID:         "great_hall",
		Dimensions: common.Vec3{X: 24, Y: 8, Z: 16},
		Lights: []descriptor.LightSpec{
			{Type: "directional", Direction: common.Vec3{Y: -1}, Intensity: 0.4},
			{Type: "point", Position: common.Vec3{X: 2, Y: 3}, Intensity: 2, Flicker: true},
		},
		Triggers: []descriptor.TriggerVolume{
			{Target: "cellar", SpawnPoint: common.Vec3{Z: 2}},
		},
		Emitters: []descriptor.EmitterSpec{
			{Name: "brazier_smoke", Rate: 12},
		},
		Objects: []descriptor.PlacedObject{
			{Name: "column_a", Model: "mesh/ironwood_column", Textures: []string{"tex/ironwood", "tex/ironwood_n"}},
			{Name: "column_b", Model: "mesh/ironwood_column", Textures: []string{"tex/ironwood"}},
			{Name: "altar", Model: "mesh/altar", Textures: []string{"tex/altar"}},
		},
	}
}

func TestBuildAssemblesScene(t *testing.T) {
	cache := resource.NewCache()
	fetchers, modelCalls, textureCalls := countingFetchers()
	b := NewBuilder(fetchers)

	loaded, err := b.Build(context.Background(), hallDescriptor(), NewLoaders(cache))
	require.NoError(t, err)

	assert.Equal(t, "great_hall", loaded.ID)
	assert.Equal(t, "node/great_hall", loaded.Root)

	// Shared keys are acquired once: 2 distinct models, 3 distinct textures.
	assert.Equal(t, int32(2), modelCalls.Load())
	assert.Equal(t, int32(3), textureCalls.Load())
	assert.Equal(t, 2, cache.Outstanding(resource.KindGeometry))
	assert.Equal(t, 3, cache.Outstanding(resource.KindTexture))
	assert.Len(t, loaded.AcquiredKeys(), 5)

	assert.Len(t, loaded.Lights, 2)
	require.Len(t, loaded.FlickerLights, 1)
	assert.True(t, loaded.FlickerLights[0].Flickers())

	require.Len(t, loaded.Triggers, 1)
	assert.Equal(t, "cellar", loaded.Triggers[0].Target)

	require.Len(t, loaded.Emitters, 1)
	assert.Equal(t, "brazier_smoke", loaded.Emitters[0].Name())

	assert.Equal(t, common.Vec3{X: -12, Y: -4, Z: -8}, loaded.Bounds.Min)
}

func TestDisposeReleasesEverything(t *testing.T) {
	cache := resource.NewCache()
	fetchers, _, _ := countingFetchers()
	b := NewBuilder(fetchers)

	loaded, err := b.Build(context.Background(), hallDescriptor(), NewLoaders(cache))
	require.NoError(t, err)

	loaded.Dispose()

	assert.Equal(t, 0, cache.Outstanding(resource.KindGeometry))
	assert.Equal(t, 0, cache.Outstanding(resource.KindTexture))
	assert.Empty(t, loaded.Emitters)
	assert.Empty(t, loaded.Triggers)

	// A second dispose must not double-release.
	loaded.Dispose()
	assert.Equal(t, uint64(2), cache.Disposals(resource.KindGeometry))
	assert.Equal(t, uint64(3), cache.Disposals(resource.KindTexture))
}

func TestBuildSharesCacheAcrossScenes(t *testing.T) {
	cache := resource.NewCache()
	fetchers, modelCalls, _ := countingFetchers()
	b := NewBuilder(fetchers)
	loaders := NewLoaders(cache)

	first, err := b.Build(context.Background(), hallDescriptor(), loaders)
	require.NoError(t, err)
	second, err := b.Build(context.Background(), hallDescriptor(), loaders)
	require.NoError(t, err)

	// The second build reuses cached entries; no new fetches.
	assert.Equal(t, int32(2), modelCalls.Load())
	assert.Equal(t, 2, cache.RefCount("mesh/ironwood_column"))

	first.Dispose()
	assert.Equal(t, 2, cache.Outstanding(resource.KindGeometry), "second scene keeps entries alive")
	second.Dispose()
	assert.Equal(t, 0, cache.Outstanding(resource.KindGeometry))
}

func TestBuildFailureReleasesAcquisitions(t *testing.T) {
	cache := resource.NewCache()
	boom := errors.New("missing asset")
	fetchers := Fetchers{
		Model: func(key string) (resource.Resource, error) {
			return &fakeResource{key: key}, nil
		},
		Texture: func(key string) (resource.Resource, error) {
			return nil, boom
		},
	}
	b := NewBuilder(fetchers)

	loaded, err := b.Build(context.Background(), hallDescriptor(), NewLoaders(cache))
	require.ErrorIs(t, err, boom)
	assert.Nil(t, loaded)

	// A failed build leaves no residue: the next attempt starts clean.
	assert.Equal(t, 0, cache.Outstanding(resource.KindGeometry))
	assert.Equal(t, 0, cache.Outstanding(resource.KindTexture))
}

func TestBuildCancellation(t *testing.T) {
	cache := resource.NewCache()
	gate := make(chan struct{})
	fetchers := Fetchers{
		Model: func(key string) (resource.Resource, error) {
			<-gate
			return &fakeResource{key: key}, nil
		},
		Texture: func(key string) (resource.Resource, error) {
			<-gate
			return &fakeResource{key: key}, nil
		},
	}
	b := NewBuilder(fetchers)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := b.Build(ctx, hallDescriptor(), NewLoaders(cache))
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("build did not observe cancellation")
	}

	// Unblock the in-flight fetches; their results are orphan-disposed.
	close(gate)
	require.Eventually(t, func() bool {
		return cache.Outstanding(resource.KindGeometry) == 0 &&
			cache.Outstanding(resource.KindTexture) == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestBuildRequiresDescriptor(t *testing.T) {
	fetchers, _, _ := countingFetchers()
	b := NewBuilder(fetchers)
	_, err := b.Build(context.Background(), nil, NewLoaders(resource.NewCache()))
	assert.Error(t, err)
}
