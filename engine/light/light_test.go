package light

import (
	"testing"

	"github.com/duskhall/dusk-go/common"
	"github.com/duskhall/dusk-go/engine/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSpec(t *testing.T) {
	l := FromSpec(descriptor.LightSpec{
		Type:      "point",
		Position:  common.Vec3{X: 2, Y: 3, Z: 0},
		Color:     [3]float32{1, 0.7, 0.3},
		Intensity: 2.5,
		Range:     8,
		Flicker:   true,
	})

	assert.Equal(t, LightTypePoint, l.Type())
	assert.Equal(t, common.Vec3{X: 2, Y: 3, Z: 0}, l.Position())
	assert.Equal(t, float32(2.5), l.Intensity())
	assert.True(t, l.Enabled())
	assert.True(t, l.Flickers())
}

func TestFromSpecUnknownTypeFallsBackToPoint(t *testing.T) {
	l := FromSpec(descriptor.LightSpec{Type: "volumetric"})
	assert.Equal(t, LightTypePoint, l.Type())
}

func TestDirectionIsNormalized(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithDirection(common.Vec3{X: 0, Y: -3, Z: 0}))
	assert.InDelta(t, -1.0, l.Direction().Y, 1e-6)
}

func TestFlickerIsDeterministicAndBounded(t *testing.T) {
	l := NewLight(LightTypePoint, WithIntensity(2), WithFlicker(7.5))

	for _, tm := range []float32{0, 0.016, 0.5, 1.7, 42} {
		a := l.FlickerIntensity(tm)
		b := l.FlickerIntensity(tm)
		assert.Equal(t, a, b, "same time must give same intensity")
		// Depth 0.35 on base 2 bounds the swing to [1.3, 2.7].
		assert.GreaterOrEqual(t, a, float32(2*(1-0.35)))
		assert.LessOrEqual(t, a, float32(2*(1+0.35)))
	}

	// Intensity must actually vary over time.
	require.NotEqual(t, l.FlickerIntensity(0.1), l.FlickerIntensity(0.6))
}

func TestFlickerSeedsDecorrelate(t *testing.T) {
	a := FromSpec(descriptor.LightSpec{Flicker: true, Position: common.Vec3{X: 1}})
	b := FromSpec(descriptor.LightSpec{Flicker: true, Position: common.Vec3{X: 5}})
	assert.NotEqual(t, a.FlickerIntensity(0.25), b.FlickerIntensity(0.25))
}

func TestFlickerFrozenPinsBaseIntensity(t *testing.T) {
	l := NewLight(LightTypePoint, WithIntensity(3), WithFlicker(1))
	l.SetFlickerFrozen(true)
	assert.Equal(t, float32(3), l.FlickerIntensity(0.33))
	l.SetFlickerFrozen(false)
	assert.NotEqual(t, float32(3), l.FlickerIntensity(0.33))
}

func TestNonFlickeringLightIgnoresTime(t *testing.T) {
	l := NewLight(LightTypePoint, WithIntensity(1.5))
	assert.False(t, l.Flickers())
	assert.Equal(t, float32(1.5), l.FlickerIntensity(9.9))
}
