package la

import "github.com/chewxy/math32"

// WorldUp is the Z-up world axis used by [LookAt].
var WorldUp = Vec3{Z: 1}

// Mat4 is a 4x4 matrix stored in column-major order: element at row r and
// column c lives at index c*4+r. Its memory layout can be uploaded as is to
// OpenGL uniforms with transpose set to false.
type Mat4 [16]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		0:  1,
		5:  1,
		10: 1,
		15: 1,
	}
}

// At returns the element at the given row and column.
func (m Mat4) At(row, col int) float32 { return m[col*4+row] }

// Array returns the matrix elements in column-major order.
func (m Mat4) Array() [16]float32 { return m }

// Transpose returns the transpose of m.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			t[r*4+c] = m[c*4+r]
		}
	}
	return t
}

// Mul returns the matrix product a*b. Applying the result to a vector is
// equivalent to applying b first and then a.
func Mul(a, b Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// MulVec4 returns the product of m and column vector v.
func (m Mat4) MulVec4(v [4]float32) (out [4]float32) {
	for r := 0; r < 4; r++ {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}

// MulPosition transforms p as a homogeneous point with w=1. No perspective divide is performed.
func (m Mat4) MulPosition(p Vec3) Vec3 {
	v := m.MulVec4([4]float32{p.X, p.Y, p.Z, 1})
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func radians(deg float32) float32 { return deg * math32.Pi / 180 }

// TranslationMat4 returns the identity matrix with its translation column set to t.
func TranslationMat4(t Vec3) Mat4 {
	m := Identity()
	m[12] = t.X
	m[13] = t.Y
	m[14] = t.Z
	return m
}

// ZRotationMat4 returns a right handed rotation of angleDeg degrees about the Z axis.
func ZRotationMat4(angleDeg float32) Mat4 {
	s, c := math32.Sincos(radians(angleDeg))
	m := Identity()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// ModelMat4 returns the model transform that rotates angleDeg degrees about Z
// and then translates by pos. It is built directly instead of multiplying
// [TranslationMat4] and [ZRotationMat4].
func ModelMat4(pos Vec3, angleDeg float32) Mat4 {
	s, c := math32.Sincos(radians(angleDeg))
	return Mat4{
		0: c, 1: s,
		4: -s, 5: c,
		10: 1,
		12: pos.X, 13: pos.Y, 14: pos.Z, 15: 1,
	}
}

// LookAt returns a right handed view matrix for a camera at from looking
// towards to, using [WorldUp] as the up reference. See [LookAtUp].
func LookAt(from, to Vec3) Mat4 {
	return LookAtUp(from, to, WorldUp)
}

// LookAtUp returns a right handed view matrix for a camera at from looking
// towards to with worldUp as the up reference. The matrix rows hold the
// camera's right, up and backward axes. If from equals to or the view
// direction is parallel to worldUp the result is filled with NaN.
func LookAtUp(from, to, worldUp Vec3) Mat4 {
	f := Normalize(Sub(to, from))
	r := Normalize(Cross(f, worldUp))
	u := Normalize(Cross(r, f))
	return Mat4{
		0: r.X, 1: u.X, 2: -f.X, 3: 0,
		4: r.Y, 5: u.Y, 6: -f.Y, 7: 0,
		8: r.Z, 9: u.Z, 10: -f.Z, 11: 0,
		12: -Dot(r, from), 13: -Dot(u, from), 14: Dot(f, from), 15: 1,
	}
}

// Perspective returns a perspective projection with vertical field of view
// fovyDeg in degrees. near and far are positive distances that are negated
// before use, so the depth row is mirrored with respect to glFrustum:
//
//	m[10] = (near+far)/(far-near)
//	m[14] = 2*near*far/(far-near)
//
// No validation is done. A zero aspect or field of view, or near == far,
// produce Inf or NaN elements.
func Perspective(fovyDeg, aspect, near, far float32) Mat4 {
	t := math32.Tan(fovyDeg * math32.Pi / 360)
	n := -near
	f := -far
	return Mat4{
		0:  1 / (t * aspect),
		5:  1 / t,
		10: -(n + f) / (n - f),
		11: -1,
		14: (2 * n * f) / (n - f),
	}
}
