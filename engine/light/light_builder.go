package light

import (
	"math"

	"github.com/duskhall/dusk-go/common"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(p common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = p
	}
}

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing; a zero vector is kept as zero.
//
// Parameters:
//   - d: the direction
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(d common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		if length := d.Length(); length > 0 {
			l.direction = d.Scale(1 / length)
		}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity is an option builder that sets the base intensity multiplier.
// Non-positive intensities default to 1.
//
// Parameters:
//   - intensity: the intensity multiplier
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		if intensity <= 0 {
			intensity = 1
		}
		l.intensity = intensity
	}
}

// WithRange is an option builder that sets the attenuation range.
//
// Parameters:
//   - lightRange: the range in world units
//
// Returns:
//   - LightBuilderOption: a function that applies the range option to a lightImpl
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithFlicker is an option builder that marks the light as flickering with
// the given noise seed.
//
// Parameters:
//   - seed: the flicker noise seed (distinct seeds decorrelate nearby lights)
//
// Returns:
//   - LightBuilderOption: a function that applies the flicker option to a lightImpl
func WithFlicker(seed float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.flicker = true
		l.flickerSeed = seed
	}
}

// WithFlickerDepth is an option builder that sets the flicker modulation
// depth: 0 is no modulation, 1 swings the full base intensity.
//
// Parameters:
//   - depth: the modulation depth (clamped to [0, 1])
//
// Returns:
//   - LightBuilderOption: a function that applies the depth option to a lightImpl
func WithFlickerDepth(depth float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.flickerDepth = common.Clamp(depth, 0, 1)
	}
}

// defaultFlickerDepth modulates a third of the base intensity, enough to
// read as a live flame without strobing.
const defaultFlickerDepth = float32(0.35)

// flickerNoise is a continuous noise function over time: three incommensurate
// sine octaves summed with decreasing amplitude. Returns a value in (-1, 1)
// that is smooth in t and deterministic per seed.
func flickerNoise(t, seed float32) float32 {
	ft := float64(t)
	fs := float64(seed)
	n := 0.5*math.Sin(ft*13.7+fs) +
		0.3*math.Sin(ft*7.3+fs*1.73) +
		0.2*math.Sin(ft*2.9+fs*3.11)
	return float32(n)
}
