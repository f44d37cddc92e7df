// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"cmp"
	"math"
)

// Vec3 is a 3-component vector in world space.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns the component-wise sum of v and o.
//
// Parameters:
//   - o: the vector to add
//
// Returns:
//   - Vec3: the component-wise sum
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference of v and o.
//
// Parameters:
//   - o: the vector to subtract
//
// Returns:
//   - Vec3: the component-wise difference
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by the scalar s.
//
// Parameters:
//   - s: the scalar multiplier
//
// Returns:
//   - Vec3: the scaled vector
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean length of v.
//
// Returns:
//   - float32: the vector length
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// LerpVec3 linearly interpolates between a and b by t in [0, 1].
//
// Parameters:
//   - a: the start vector
//   - b: the end vector
//   - t: the interpolation factor (clamped to [0, 1])
//
// Returns:
//   - Vec3: the interpolated vector
func LerpVec3(a, b Vec3, t float32) Vec3 {
	t = Clamp(t, 0, 1)
	return a.Add(b.Sub(a).Scale(t))
}

// AABB is an axis-aligned bounding box defined by its minimum and maximum corners.
type AABB struct {
	Min, Max Vec3
}

// AABBFromCenter constructs an AABB from a center point and half-extents.
//
// Parameters:
//   - center: the box center in world space
//   - halfExtents: half the box size along each axis
//
// Returns:
//   - AABB: the constructed box
func AABBFromCenter(center, halfExtents Vec3) AABB {
	return AABB{
		Min: center.Sub(halfExtents),
		Max: center.Add(halfExtents),
	}
}

// Contains reports whether the point p lies inside the box (inclusive).
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - bool: true if p is inside or on the box surface
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether the box overlaps another box.
//
// Parameters:
//   - o: the other box
//
// Returns:
//   - bool: true if the boxes overlap
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Center returns the midpoint of the box.
//
// Returns:
//   - Vec3: the box center
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Expand grows the box to include the point p.
//
// Parameters:
//   - p: the point to include
//
// Returns:
//   - AABB: the expanded box
func (b AABB) Expand(p Vec3) AABB {
	out := b
	if p.X < out.Min.X {
		out.Min.X = p.X
	}
	if p.Y < out.Min.Y {
		out.Min.Y = p.Y
	}
	if p.Z < out.Min.Z {
		out.Min.Z = p.Z
	}
	if p.X > out.Max.X {
		out.Max.X = p.X
	}
	if p.Y > out.Max.Y {
		out.Max.Y = p.Y
	}
	if p.Z > out.Max.Z {
		out.Max.Z = p.Z
	}
	return out
}

// Clamp constrains v to the range [lo, hi].
//
// Parameters:
//   - v: the value to constrain
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - T: v clamped to [lo, hi]
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t in [0, 1].
//
// Parameters:
//   - a: the start value
//   - b: the end value
//   - t: the interpolation factor (clamped to [0, 1])
//
// Returns:
//   - float32: the interpolated value
func Lerp(a, b, t float32) float32 {
	t = Clamp(t, 0, 1)
	return a + (b-a)*t
}
