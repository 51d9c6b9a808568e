package geom

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// Transform is an affine transform with a marker for 3D operations.
//
// The matrix is stored row major as
//
//     | m[0] m[1] m[2] |
//     | m[3] m[4] m[5] |
//     |  0    0    1   |
//
// so that x' = m[0]*x + m[1]*y + m[2] and y' = m[3]*x + m[4]*y + m[5].
// For transforms with 3D components the matrix holds the flattened 2D
// projection.
type Transform struct {
	m      f64.Aff3
	threeD bool
	set    bool // zero value is identity
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{}
}

// Matrix creates a transform from an affine matrix.
func Matrix(m f64.Aff3) Transform {
	return Transform{m: m, set: true}
}

// Translation creates a translation by (tx, ty) pixels.
func Translation(tx, ty float64) Transform {
	return Matrix(f64.Aff3{1, 0, tx, 0, 1, ty})
}

// Scale creates a scaling transform.
func Scale(sx, sy float64) Transform {
	return Matrix(f64.Aff3{sx, 0, 0, 0, sy, 0})
}

// Rotation creates a rotation by deg degrees, clockwise in screen coordinates.
func Rotation(deg float64) Transform {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Matrix(f64.Aff3{cos, -sin, 0, sin, cos, 0})
}

// Aff3 returns the (flattened) affine matrix of t.
func (t Transform) Aff3() f64.Aff3 {
	if !t.set {
		return f64.Aff3{1, 0, 0, 0, 1, 0}
	}
	return t.m
}

// With3D returns t marked as having 3D components.
func (t Transform) With3D() Transform {
	t.m = t.Aff3()
	t.set = true
	t.threeD = true
	return t
}

// Is3D is true if t has 3D components.
func (t Transform) Is3D() bool {
	return t.threeD
}

// IsIdentity is true for the identity transform.
func (t Transform) IsIdentity() bool {
	return !t.threeD && t.Aff3() == f64.Aff3{1, 0, 0, 0, 1, 0}
}

// IsIdentityOrTranslation is true if t does not scale, rotate or skew.
func (t Transform) IsIdentityOrTranslation() bool {
	m := t.Aff3()
	return !t.threeD && m[0] == 1 && m[1] == 0 && m[3] == 0 && m[4] == 1
}

// Translation returns the translation part of t in pixels.
func (t Transform) Translation() (float64, float64) {
	m := t.Aff3()
	return m[2], m[5]
}

// Multiply returns t·u, i.e. the transform applying u first, then t.
func (t Transform) Multiply(u Transform) Transform {
	if !u.set {
		return t
	}
	if !t.set {
		return u
	}
	a, b := t.m, u.m
	r := Transform{
		m: f64.Aff3{
			a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
			a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
		},
		set:    true,
		threeD: t.threeD || u.threeD,
	}
	return r
}

// Translate returns t·translate(tx, ty).
func (t Transform) Translate(tx, ty float64) Transform {
	return t.Multiply(Translation(tx, ty))
}

// Around returns the transform t applied around origin (ox, oy), i.e.
// translate(o)·t·translate(-o).
func (t Transform) Around(ox, oy float64) Transform {
	if ox == 0 && oy == 0 {
		return t
	}
	return Translation(ox, oy).Multiply(t).Multiply(Translation(-ox, -oy))
}

// MapPoint applies t to a point in float pixels.
func (t Transform) MapPoint(x, y float64) (float64, float64) {
	m := t.Aff3()
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// MapRect returns the bounding box of r transformed by t, enclosing the
// transformed corners.
func (t Transform) MapRect(r Rect) Rect {
	if t.IsIdentityOrTranslation() {
		tx, ty := t.Translation()
		return r.Add(Point{X: FromFloat(tx), Y: FromFloat(ty)})
	}
	x0, y0 := Float(r.Min.X), Float(r.Min.Y)
	x1, y1 := Float(r.Max.X), Float(r.Max.Y)
	minx, miny := math.Inf(1), math.Inf(1)
	maxx, maxy := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		x, y := t.MapPoint(c[0], c[1])
		minx, miny = math.Min(minx, x), math.Min(miny, y)
		maxx, maxy = math.Max(maxx, x), math.Max(maxy, y)
	}
	return Rect{
		Min: Point{X: Unit(math.Floor(minx * 64)), Y: Unit(math.Floor(miny * 64))},
		Max: Point{X: Unit(math.Ceil(maxx * 64)), Y: Unit(math.Ceil(maxy * 64))},
	}
}

func (t Transform) String() string {
	if t.IsIdentity() {
		return "identity"
	}
	m := t.Aff3()
	s := fmt.Sprintf("[%.2f %.2f %.2f] [%.2f %.2f %.2f]", m[0], m[1], m[2], m[3], m[4], m[5])
	if t.threeD {
		s += " 3d"
	}
	return s
}
