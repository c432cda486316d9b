// Package la implements the float32 transform math used to build model,
// view and projection matrices for OpenGL style pipelines.
//
// All functions are pure. Degenerate inputs such as zero length vectors,
// parallel view and up directions or coincident clipping planes are not
// checked for and propagate IEEE-754 Inf and NaN values to the result.
package la

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Vec3 is a 3D vector of float32 components.
type Vec3 struct {
	X, Y, Z float32
}

// Array returns the vector components in X, Y, Z order.
func (v Vec3) Array() [3]float32 { return [3]float32{v.X, v.Y, v.Z} }

// MS3 converts v to the geometry package vector type.
func (v Vec3) MS3() ms3.Vec { return ms3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// FromMS3 converts a geometry package vector to a Vec3.
func FromMS3(v ms3.Vec) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// Dot returns the dot product u·v.
func Dot(u, v Vec3) float32 {
	return u.X*v.X + u.Y*v.Y + u.Z*v.Z
}

// Cross returns the right handed cross product u×v.
func Cross(u, v Vec3) Vec3 {
	return Vec3{
		X: u.Y*v.Z - u.Z*v.Y,
		Y: -(u.X*v.Z - u.Z*v.X),
		Z: u.X*v.Y - u.Y*v.X,
	}
}

// Normalize returns v scaled to unit length. The zero vector yields NaN components.
func Normalize(v Vec3) Vec3 {
	mag := math32.Sqrt(Dot(v, v))
	return Vec3{X: v.X / mag, Y: v.Y / mag, Z: v.Z / mag}
}

// Norm returns the euclidean length of v.
func Norm(v Vec3) float32 { return math32.Sqrt(Dot(v, v)) }

func Add(u, v Vec3) Vec3 { return Vec3{X: u.X + v.X, Y: u.Y + v.Y, Z: u.Z + v.Z} }

func Sub(u, v Vec3) Vec3 { return Vec3{X: u.X - v.X, Y: u.Y - v.Y, Z: u.Z - v.Z} }

func Scale(f float32, v Vec3) Vec3 { return Vec3{X: f * v.X, Y: f * v.Y, Z: f * v.Z} }
