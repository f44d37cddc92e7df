// Package descriptor defines the static, declarative description of a scene
// and the registry that resolves scene ids to descriptors. Descriptors are
// produced by external authoring tooling and are read-only to the engine.
package descriptor

import "github.com/duskhall/dusk-go/common"

// LightSpec describes one light source placed in a scene.
type LightSpec struct {
	// Type is the light kind: "directional", "point", or "spot".
	Type string `yaml:"type"`

	// Position is the world-space position (meaningless for directional lights).
	Position common.Vec3 `yaml:"position"`

	// Direction is the normalized direction for directional and spot lights.
	Direction common.Vec3 `yaml:"direction"`

	// Color is the RGB light color.
	Color [3]float32 `yaml:"color"`

	// Intensity is the scalar intensity multiplier.
	Intensity float32 `yaml:"intensity"`

	// Range is the attenuation range for point and spot lights.
	Range float32 `yaml:"range"`

	// Flicker marks lights whose intensity follows a continuous per-frame
	// noise function. Flickering lights require ongoing per-frame
	// registration with the entity system.
	Flicker bool `yaml:"flicker"`
}

// TriggerVolume is an axis-aligned region that initiates a scene transition
// when the player-controlled entity enters it.
type TriggerVolume struct {
	// Bounds is the trigger region in world space.
	Bounds common.AABB `yaml:"bounds"`

	// Target is the scene id to transition to.
	Target string `yaml:"target"`

	// SpawnPoint is where the player appears in the target scene.
	SpawnPoint common.Vec3 `yaml:"spawnPoint"`
}

// EmitterSpec describes one particle emitter placed in a scene.
type EmitterSpec struct {
	// Name identifies the emitter for diagnostics.
	Name string `yaml:"name"`

	// Position is the emitter origin in world space.
	Position common.Vec3 `yaml:"position"`

	// Rate is the particle spawn rate in particles per second.
	Rate float32 `yaml:"rate"`

	// MaxParticles caps the number of live particles.
	MaxParticles int `yaml:"maxParticles"`
}

// PlacedObject is one static object instance placed in a scene.
type PlacedObject struct {
	// Name identifies the placement for diagnostics.
	Name string `yaml:"name"`

	// Model is the logical id of the model resource to load.
	Model string `yaml:"model"`

	// Textures are the logical ids of the texture resources the object's
	// materials reference.
	Textures []string `yaml:"textures"`

	// Position, RotationY, and Scale give the object's world transform.
	Position  common.Vec3 `yaml:"position"`
	RotationY float32     `yaml:"rotationY"`
	Scale     float32     `yaml:"scale"`
}

// BackgroundLayer is one scrolling backdrop layer behind the scene geometry.
type BackgroundLayer struct {
	// Texture is the logical id of the layer texture.
	Texture string `yaml:"texture"`

	// ScrollSpeed is the horizontal scroll in units per second.
	ScrollSpeed float32 `yaml:"scrollSpeed"`

	// Depth orders layers back-to-front (lower is further away).
	Depth float32 `yaml:"depth"`
}

// PostProcess holds per-scene overrides for the post-processing chain.
type PostProcess struct {
	Vignette   float32    `yaml:"vignette"`
	Bloom      float32    `yaml:"bloom"`
	FogColor   [3]float32 `yaml:"fogColor"`
	FogDensity float32    `yaml:"fogDensity"`
}

// SceneDescriptor is the immutable static description of a scene's contents.
// The engine never mutates a descriptor; builders read it and produce
// runtime state.
type SceneDescriptor struct {
	// ID is the scene's unique identifier.
	ID string `yaml:"id"`

	// Name is the human-readable display name.
	Name string `yaml:"name"`

	// Dimensions is the scene extent along each axis; the scene's bounds are
	// the box centered at the origin with these dimensions.
	Dimensions common.Vec3 `yaml:"dimensions"`

	// Lights lists every placed light.
	Lights []LightSpec `yaml:"lights"`

	// Triggers lists the door trigger volumes.
	Triggers []TriggerVolume `yaml:"triggers"`

	// Emitters lists the particle emitters.
	Emitters []EmitterSpec `yaml:"emitters"`

	// Objects lists the placed static objects.
	Objects []PlacedObject `yaml:"objects"`

	// PostProcess optionally overrides the post-processing chain.
	PostProcess *PostProcess `yaml:"postProcess"`

	// Background optionally lists scrolling backdrop layers.
	Background []BackgroundLayer `yaml:"background"`
}

// Bounds returns the scene's axis-aligned bounds derived from Dimensions.
//
// Returns:
//   - common.AABB: the box centered at the origin spanning Dimensions
func (d *SceneDescriptor) Bounds() common.AABB {
	return common.AABBFromCenter(common.Vec3{}, d.Dimensions.Scale(0.5))
}
