package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: -2, Z: 0.5}

	assert.Equal(t, Vec3{X: 5, Y: 0, Z: 3.5}, a.Add(b))
	assert.Equal(t, Vec3{X: -3, Y: 4, Z: 2.5}, a.Sub(b))
	assert.Equal(t, Vec3{X: 2, Y: 4, Z: 6}, a.Scale(2))
	assert.InDelta(t, 5, Vec3{X: 3, Y: 4}.Length(), 1e-6)
}

func TestLerp(t *testing.T) {
	assert.Equal(t, float32(5), Lerp(0, 10, 0.5))
	assert.Equal(t, float32(0), Lerp(0, 10, -1), "t clamps at 0")
	assert.Equal(t, float32(10), Lerp(0, 10, 2), "t clamps at 1")

	mid := LerpVec3(Vec3{}, Vec3{X: 2, Y: 4, Z: 6}, 0.5)
	assert.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, mid)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(float32(2), 0, 1))
	assert.Equal(t, float64(0), Clamp(-0.5, 0.0, 1.0))
	assert.Equal(t, 7, Clamp(7, 0, 10))
}

func TestAABBFromCenter(t *testing.T) {
	b := AABBFromCenter(Vec3{X: 1}, Vec3{X: 2, Y: 3, Z: 4})
	assert.Equal(t, Vec3{X: -1, Y: -3, Z: -4}, b.Min)
	assert.Equal(t, Vec3{X: 3, Y: 3, Z: 4}, b.Max)
	assert.Equal(t, Vec3{X: 1}, b.Center())
}

func TestAABBContains(t *testing.T) {
	b := AABBFromCenter(Vec3{}, Vec3{X: 1, Y: 1, Z: 1})

	assert.True(t, b.Contains(Vec3{}))
	assert.True(t, b.Contains(Vec3{X: 1, Y: 1, Z: 1}), "surface is inclusive")
	assert.False(t, b.Contains(Vec3{X: 1.001}))
}

func TestAABBIntersects(t *testing.T) {
	a := AABBFromCenter(Vec3{}, Vec3{X: 1, Y: 1, Z: 1})
	b := AABBFromCenter(Vec3{X: 1.5}, Vec3{X: 1, Y: 1, Z: 1})
	c := AABBFromCenter(Vec3{X: 5}, Vec3{X: 1, Y: 1, Z: 1})

	assert.True(t, a.Intersects(b))
	assert.True(t, b.Intersects(a))
	assert.False(t, a.Intersects(c))
}

func TestAABBExpand(t *testing.T) {
	b := AABBFromCenter(Vec3{}, Vec3{X: 1, Y: 1, Z: 1})
	grown := b.Expand(Vec3{X: 3, Y: -2, Z: 0})

	assert.Equal(t, Vec3{X: -1, Y: -2, Z: -1}, grown.Min)
	assert.Equal(t, Vec3{X: 3, Y: 1, Z: 1}, grown.Max)
	assert.Equal(t, b.Min, Vec3{X: -1, Y: -1, Z: -1}, "original box untouched")
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "fallback", Coalesce("", "fallback"))
	assert.Equal(t, "primary", Coalesce("primary", "fallback"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
