// Package light provides runtime light sources constructed from scene
// descriptors, including flickering lights whose intensity follows a
// continuous per-frame noise function.
package light

import (
	"math"

	"github.com/duskhall/dusk-go/common"
	"github.com/duskhall/dusk-go/engine/descriptor"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun or moon.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Used for bare bulbs, lanterns, candle flames, and braziers.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	LightTypeSpot
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType  LightType
	position   common.Vec3
	direction  common.Vec3
	color      [3]float32
	intensity  float32
	lightRange float32
	enabled    bool

	flicker       bool
	flickerSeed   float32
	flickerDepth  float32
	flickerFrozen bool
}

// Light defines the interface for a runtime light source.
//
// Lights are scene-level entities. Flickering lights additionally expose a
// time-dependent intensity and must be re-registered with the entity system
// every frame; the lifecycle manager queues them for registration when a
// scene is adopted.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - common.Vec3: the position
	Position() common.Vec3

	// Direction returns the normalized direction of the light.
	// Meaningless for point lights.
	//
	// Returns:
	//   - common.Vec3: the normalized direction
	Direction() common.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the base intensity multiplier, before flicker.
	//
	// Returns:
	//   - float32: the base intensity
	Intensity() float32

	// Range returns the attenuation range for point and spot lights.
	//
	// Returns:
	//   - float32: the range in world units
	Range() float32

	// Enabled returns whether the light contributes to the scene.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: whether the light contributes to the scene
	SetEnabled(enabled bool)

	// Flickers reports whether this light's intensity follows the flicker
	// noise function and therefore needs per-frame registration.
	//
	// Returns:
	//   - bool: true if the light flickers
	Flickers() bool

	// FlickerIntensity returns the effective intensity at time t.
	// For non-flickering (or frozen) lights this is the base intensity.
	//
	// Parameters:
	//   - t: scene time in seconds
	//
	// Returns:
	//   - float32: the effective intensity
	FlickerIntensity(t float32) float32

	// SetFlickerFrozen pins a flickering light to its base intensity.
	// Used by the quality controller to cheapen per-frame light updates.
	//
	// Parameters:
	//   - frozen: true to pin the intensity
	SetFlickerFrozen(frozen bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the given type with the provided options applied.
//
// Parameters:
//   - lightType: the kind of light source
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(lightType LightType, options ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:    lightType,
		color:        [3]float32{1, 1, 1},
		intensity:    1,
		enabled:      true,
		flickerDepth: defaultFlickerDepth,
	}

	for _, option := range options {
		option(l)
	}

	return l
}

// FromSpec constructs a runtime light from a descriptor light spec.
// Unknown type strings fall back to point lights. Flickering lights are
// seeded from their position so two torches never pulse in lockstep.
//
// Parameters:
//   - spec: the descriptor light spec
//
// Returns:
//   - Light: the constructed light
func FromSpec(spec descriptor.LightSpec) Light {
	lightType := LightTypePoint
	switch spec.Type {
	case "directional":
		lightType = LightTypeDirectional
	case "spot":
		lightType = LightTypeSpot
	}

	options := []LightBuilderOption{
		WithPosition(spec.Position),
		WithDirection(spec.Direction),
		WithColor(spec.Color[0], spec.Color[1], spec.Color[2]),
		WithIntensity(spec.Intensity),
		WithRange(spec.Range),
	}
	if spec.Flicker {
		options = append(options, WithFlicker(seedFromPosition(spec.Position)))
	}

	return NewLight(lightType, options...)
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() common.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() common.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) Flickers() bool {
	return l.flicker
}

func (l *lightImpl) FlickerIntensity(t float32) float32 {
	if !l.flicker || l.flickerFrozen {
		return l.intensity
	}
	return l.intensity * (1 + l.flickerDepth*flickerNoise(t, l.flickerSeed))
}

func (l *lightImpl) SetFlickerFrozen(frozen bool) {
	l.flickerFrozen = frozen
}

// seedFromPosition derives a stable flicker seed from a light's position.
func seedFromPosition(p common.Vec3) float32 {
	return float32(math.Mod(float64(p.X*12.9898+p.Y*78.233+p.Z*37.719), 100))
}
