package la_test

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/slimegl/slimegl/la"
	"github.com/soypat/geometry/ms3"
)

const tol = 1e-5

func randVec(rng *rand.Rand, scale float32) la.Vec3 {
	return la.Vec3{
		X: scale * (2*rng.Float32() - 1),
		Y: scale * (2*rng.Float32() - 1),
		Z: scale * (2*rng.Float32() - 1),
	}
}

func eqf(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}

func eqVec(a, b la.Vec3, tol float32) bool {
	return eqf(a.X, b.X, tol) && eqf(a.Y, b.Y, tol) && eqf(a.Z, b.Z, tol)
}

func eqMat(a, b la.Mat4, tol float32) bool {
	for i := range a {
		if !eqf(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

func isNaNVec(v la.Vec3) bool {
	return math32.IsNaN(v.X) && math32.IsNaN(v.Y) && math32.IsNaN(v.Z)
}

func TestIdentity(t *testing.T) {
	m := la.Identity()
	for i, v := range m {
		want := float32(0)
		if i == 0 || i == 5 || i == 10 || i == 15 {
			want = 1
		}
		if v != want {
			t.Errorf("identity[%d]=%v, want %v", i, v, want)
		}
	}
	rng := rand.New(rand.NewSource(1))
	a := la.ModelMat4(randVec(rng, 10), 33)
	if la.Mul(a, m) != a || la.Mul(m, a) != a {
		t.Error("identity is not neutral for Mul")
	}
}

func TestTranslationMat4(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		tr := randVec(rng, 100)
		m := la.TranslationMat4(tr)
		if m[12] != tr.X || m[13] != tr.Y || m[14] != tr.Z {
			t.Fatalf("translation column mismatch: %v for %v", m, tr)
		}
		got := m.MulVec4([4]float32{0, 0, 0, 1})
		if got != [4]float32{tr.X, tr.Y, tr.Z, 1} {
			t.Errorf("origin translated to %v, want %v", got, tr)
		}
		id := la.Identity()
		for _, idx := range []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 15} {
			if m[idx] != id[idx] {
				t.Errorf("entry %d modified: %v", idx, m[idx])
			}
		}
	}
}

func TestZRotationMat4(t *testing.T) {
	if la.ZRotationMat4(0) != la.Identity() {
		t.Error("zero rotation is not identity")
	}
	if !eqMat(la.ZRotationMat4(360), la.ZRotationMat4(0), tol) {
		t.Errorf("full turn not identity: %v", la.ZRotationMat4(360))
	}
	got := la.ZRotationMat4(90).MulPosition(la.Vec3{X: 1})
	if !eqVec(got, la.Vec3{Y: 1}, tol) {
		t.Errorf("x axis rotated 90deg to %v, want y axis", got)
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		deg := 720 * (2*rng.Float32() - 1)
		m := la.ZRotationMat4(deg)
		c, s := m[0], m[1]
		if !eqf(c*c+s*s, 1, tol) {
			t.Errorf("rotation %v not orthogonal: c²+s²=%v", deg, c*c+s*s)
		}
		if m[4] != -s || m[5] != c || m[10] != 1 || m[15] != 1 {
			t.Errorf("rotation %v bad layout: %v", deg, m)
		}
		// Compare against geometry package rotation about Z.
		p := randVec(rng, 5)
		rot := ms3.RotationMat4(deg*math32.Pi/180, ms3.Vec{Z: 1})
		want := la.FromMS3(rot.MulPosition(p.MS3()))
		if !eqVec(m.MulPosition(p), want, 1e-4) {
			t.Errorf("rotation %v of %v: got %v, want %v", deg, p, m.MulPosition(p), want)
		}
	}
}

func TestModelMat4(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := randVec(rng, 50)
		deg := 360 * rng.Float32()
		m := la.ModelMat4(p, deg)
		origin := m.MulVec4([4]float32{0, 0, 0, 1})
		if origin != [4]float32{p.X, p.Y, p.Z, 1} {
			t.Errorf("origin mapped to %v, want %v", origin, p)
		}
		composed := la.Mul(la.TranslationMat4(p), la.ZRotationMat4(deg))
		if m != composed {
			t.Errorf("fused model transform differs from composition:\n%v\n%v", m, composed)
		}
	}
}

func TestDotCross(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		u := randVec(rng, 10)
		v := randVec(rng, 10)
		if la.Dot(u, v) != la.Dot(v, u) {
			t.Errorf("dot not commutative for %v %v", u, v)
		}
		if !eqf(la.Dot(u, v), ms3.Dot(u.MS3(), v.MS3()), 1e-4) {
			t.Errorf("dot mismatch with ms3 for %v %v", u, v)
		}
		uv := la.Cross(u, v)
		vu := la.Cross(v, u)
		if !eqVec(uv, la.Scale(-1, vu), 1e-4) {
			t.Errorf("cross not anti-commutative: %v %v", uv, vu)
		}
		if !eqVec(uv, la.FromMS3(ms3.Cross(u.MS3(), v.MS3())), 1e-4) {
			t.Errorf("cross mismatch with ms3 for %v %v", u, v)
		}
		if !eqf(la.Dot(u, uv), 0, 1e-3) || !eqf(la.Dot(v, uv), 0, 1e-3) {
			t.Errorf("cross %v not orthogonal to inputs %v %v", uv, u, v)
		}
	}
	x, y, z := la.Vec3{X: 1}, la.Vec3{Y: 1}, la.Vec3{Z: 1}
	if la.Cross(x, y) != z || la.Cross(y, z) != x || la.Cross(z, x) != y {
		t.Error("cross product is not right handed")
	}
}

func TestNormalize(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		v := randVec(rng, 1000)
		if la.Norm(v) < 1e-3 {
			continue
		}
		n := la.Normalize(v)
		if !eqf(la.Dot(n, n), 1, tol) {
			t.Errorf("normalized %v has squared length %v", v, la.Dot(n, n))
		}
		if !eqVec(n, la.FromMS3(ms3.Unit(v.MS3())), tol) {
			t.Errorf("normalize mismatch with ms3 for %v", v)
		}
	}
	if z := la.Normalize(la.Vec3{}); !isNaNVec(z) {
		t.Errorf("normalize of zero vector want all NaN, got %v", z)
	}
}

func TestLookAt(t *testing.T) {
	from := la.Vec3{}
	m := la.LookAt(from, la.Vec3{Y: 1})
	right := la.Vec3{X: m[0], Y: m[4], Z: m[8]}
	up := la.Vec3{X: m[1], Y: m[5], Z: m[9]}
	forward := la.Vec3{X: -m[2], Y: -m[6], Z: -m[10]}
	basis := []la.Vec3{right, up, forward}
	for i := range basis {
		if !eqf(la.Dot(basis[i], basis[i]), 1, tol) {
			t.Errorf("basis vector %d not unit: %v", i, basis[i])
		}
		for j := i + 1; j < len(basis); j++ {
			if !eqf(la.Dot(basis[i], basis[j]), 0, tol) {
				t.Errorf("basis vectors %d and %d not orthogonal", i, j)
			}
		}
	}
	if !eqVec(forward, la.Vec3{Y: 1}, tol) || !eqVec(right, la.Vec3{X: 1}, tol) || !eqVec(up, la.Vec3{Z: 1}, tol) {
		t.Errorf("unexpected basis right=%v up=%v forward=%v", right, up, forward)
	}
	if m[12] != 0 || m[13] != 0 || m[14] != 0 {
		t.Errorf("translation for origin eye must be zero, got %v %v %v", m[12], m[13], m[14])
	}
	if m[3] != 0 || m[7] != 0 || m[11] != 0 || m[15] != 1 {
		t.Errorf("bad bottom row %v %v %v %v", m[3], m[7], m[11], m[15])
	}

	// Eye maps to view space origin and target lies on -Z.
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		eye := randVec(rng, 20)
		target := randVec(rng, 20)
		v := la.LookAt(eye, target)
		if got := v.MulPosition(eye); !eqVec(got, la.Vec3{}, 1e-3) {
			t.Errorf("eye %v maps to %v, want origin", eye, got)
		}
		got := v.MulPosition(target)
		dist := la.Norm(la.Sub(target, eye))
		if !eqVec(got, la.Vec3{Z: -dist}, 1e-3) {
			t.Errorf("target maps to %v, want (0,0,%v)", got, -dist)
		}
	}
}

func TestLookAtDegenerate(t *testing.T) {
	p := la.Vec3{X: 1, Y: 2, Z: 3}
	m := la.LookAt(p, p)
	for _, idx := range []int{0, 1, 2, 4, 5, 6, 8, 9, 10} {
		if !math32.IsNaN(m[idx]) {
			t.Errorf("coincident eye/target: want NaN basis entry %d, got %v", idx, m[idx])
		}
	}
	// Looking straight down the up axis.
	m = la.LookAt(la.Vec3{}, la.Vec3{Z: -1})
	if !math32.IsNaN(m[0]) {
		t.Errorf("view parallel to world up: want NaN right vector, got %v", m[0])
	}
	// Same direction with a custom up axis is well defined.
	m = la.LookAtUp(la.Vec3{}, la.Vec3{Z: -1}, la.Vec3{Y: 1})
	for i, v := range m {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			t.Fatalf("custom up should avoid degeneracy, entry %d=%v", i, v)
		}
	}
}

func TestPerspective(t *testing.T) {
	const near, far = 0.1, 100.0
	m := la.Perspective(90, 1, near, far)
	if m[0] != m[5] || m[0] <= 0 {
		t.Errorf("square aspect: want equal positive focal entries, got %v %v", m[0], m[5])
	}
	if !eqf(m[5], 1, tol) {
		t.Errorf("fovy=90 should give unit focal length, got %v", m[5])
	}
	if m[11] != -1 {
		t.Errorf("entry 11 must be -1, got %v", m[11])
	}
	// near and far are negated before use which mirrors the usual depth terms.
	wantDepth := float32(2*near*far) / float32(far-near)
	if math32.IsInf(m[14], 0) || !eqf(m[14], wantDepth, tol) {
		t.Errorf("entry 14 = %v, want %v", m[14], wantDepth)
	}
	if !eqf(m[10], float32(near+far)/float32(far-near), tol) {
		t.Errorf("entry 10 = %v", m[10])
	}
	for _, idx := range []int{1, 2, 3, 4, 6, 7, 8, 9, 12, 13, 15} {
		if m[idx] != 0 {
			t.Errorf("entry %d should be zero, got %v", idx, m[idx])
		}
	}
	wide := la.Perspective(90, 2, near, far)
	if !eqf(wide[0], m[0]/2, tol) || wide[5] != m[5] {
		t.Errorf("aspect must only scale x: %v %v", wide[0], wide[5])
	}
	// Coincident planes are not guarded.
	bad := la.Perspective(60, 1, 1, 1)
	if !math32.IsNaN(bad[10]) && !math32.IsInf(bad[10], 0) {
		t.Errorf("near==far should yield non-finite depth scale, got %v", bad[10])
	}
}

func TestMulComposition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		a := la.ModelMat4(randVec(rng, 5), 360*rng.Float32())
		b := la.LookAt(randVec(rng, 5), randVec(rng, 5))
		p := randVec(rng, 5)
		got := la.Mul(a, b).MulPosition(p)
		want := a.MulPosition(b.MulPosition(p))
		if !eqVec(got, want, 1e-3) {
			t.Errorf("(a*b)p=%v, a(bp)=%v", got, want)
		}
		if la.Mul(a, b).Transpose() != la.Mul(b.Transpose(), a.Transpose()) {
			// Allow rounding differences in summation order.
			if !eqMat(la.Mul(a, b).Transpose(), la.Mul(b.Transpose(), a.Transpose()), 1e-4) {
				t.Error("transpose of product mismatch")
			}
		}
	}
	m := la.TranslationMat4(la.Vec3{X: 1, Y: 2, Z: 3})
	if m.At(0, 3) != 1 || m.At(1, 3) != 2 || m.At(2, 3) != 3 {
		t.Error("At does not follow column-major layout")
	}
}
