// Package core provides fundamental types and utilities shared by the track
// generator, the season engine and the preview platform. It has no external
// dependencies so that simulation code stays pure and testable.
package core

import "math"

// Epsilon is the default tolerance for floating point comparisons of
// positions and rotations.
const Epsilon = 1e-9

// Vec3 is a point or direction in world space (Y up, Z forward).
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// ApproxEqual reports whether every component of v is within eps of o.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// Quat is a unit quaternion describing a rotation.
// The zero value is not a valid rotation; use IdentityQuat.
type Quat struct {
	W, X, Y, Z float64
}

// IdentityQuat returns the rotation that leaves vectors unchanged.
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromYaw returns a rotation of deg degrees around the Y axis.
// Positive yaw turns +Z towards +X.
func QuatFromYaw(deg float64) Quat {
	half := deg * math.Pi / 360
	return Quat{W: math.Cos(half), Y: math.Sin(half)}
}

// Mul returns the rotation q followed by o (q * o).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Normalize scales q to unit length. A degenerate quaternion becomes identity.
func (q Quat) Normalize() Quat {
	n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if n < Epsilon {
		return IdentityQuat()
	}
	return Quat{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Yaw returns the heading of the rotated forward axis in degrees.
func (q Quat) Yaw() float64 {
	f := q.Rotate(Vec3{Z: 1})
	return math.Atan2(f.X, f.Z) * 180 / math.Pi
}

// ApproxEqual reports whether q and o describe the same rotation within eps.
// q and -q are the same rotation.
func (q Quat) ApproxEqual(o Quat, eps float64) bool {
	dot := q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
	return math.Abs(math.Abs(dot)-1) <= eps
}

// Transform is a rigid placement: a position plus a rotation.
type Transform struct {
	Position Vec3
	Rotation Quat
}

// IdentityTransform returns the transform at the origin with no rotation.
func IdentityTransform() Transform {
	return Transform{Rotation: IdentityQuat()}
}

// NewTransform builds a transform from a position and a yaw in degrees.
func NewTransform(pos Vec3, yawDeg float64) Transform {
	return Transform{Position: pos, Rotation: QuatFromYaw(yawDeg)}
}

// Apply maps a point from t's local space into world space.
func (t Transform) Apply(local Vec3) Vec3 {
	return t.Position.Add(t.Rotation.Rotate(local))
}

// Compose returns the world transform of local, which is expressed relative to t.
func (t Transform) Compose(local Transform) Transform {
	return Transform{
		Position: t.Apply(local.Position),
		Rotation: t.Rotation.Mul(local.Rotation).Normalize(),
	}
}

// ApproxEqual compares position and rotation within eps.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	return t.Position.ApproxEqual(o.Position, eps) && t.Rotation.ApproxEqual(o.Rotation, eps)
}

// Rect represents an axis-aligned box on the preview screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Lerp interpolates linearly between a and b; t is clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	t = ClampF(t, 0, 1)
	return a + (b-a)*t
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
