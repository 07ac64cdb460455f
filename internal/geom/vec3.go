// Package geom provides the small amount of 3D vector math the planet
// simulation needs. Everything is float32 to match the mesh and field
// buffers handed to the renderer.
package geom

import "github.com/chewxy/math32"

// Vec3 is a 3-dimensional float32 vector.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Add returns the component-wise sum of v and b.
func (v Vec3) Add(b Vec3) Vec3 {
	return Vec3{v.X + b.X, v.Y + b.Y, v.Z + b.Z}
}

// Sub returns the component-wise difference of v and b.
func (v Vec3) Sub(b Vec3) Vec3 {
	return Vec3{v.X - b.X, v.Y - b.Y, v.Z - b.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and b.
func (v Vec3) Dot(b Vec3) float32 {
	return v.X*b.X + v.Y*b.Y + v.Z*b.Z
}

// Cross returns the cross product of v and b.
func (v Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		v.Y*b.Z - v.Z*b.Y,
		v.Z*b.X - v.X*b.Z,
		v.X*b.Y - v.Y*b.X,
	}
}

// SquaredLength returns the squared length of v.
func (v Vec3) SquaredLength() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the euclidean length of v.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.SquaredLength())
}

// SquaredDistance returns the squared euclidean distance between v and b.
func (v Vec3) SquaredDistance(b Vec3) float32 {
	return b.Sub(v).SquaredLength()
}

// Distance returns the euclidean distance between v and b.
func (v Vec3) Distance(b Vec3) float32 {
	return math32.Sqrt(v.SquaredDistance(b))
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	if n := v.SquaredLength(); n > 0 {
		return v.Scale(1 / math32.Sqrt(n))
	}
	return v
}

// Midpoint returns the point halfway between v and b.
func (v Vec3) Midpoint(b Vec3) Vec3 {
	return Vec3{(v.X + b.X) * 0.5, (v.Y + b.Y) * 0.5, (v.Z + b.Z) * 0.5}
}
