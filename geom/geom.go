package geom

import (
	"fmt"
	"math"

	"golang.org/x/image/math/fixed"
)

// Unit is a layout unit, i.e. 1/64 of a pixel.
type Unit = fixed.Int26_6

// Point is a point in layout units.
type Point = fixed.Point26_6

// Rect is a rectangle in layout units. Min is inclusive, Max exclusive.
type Rect = fixed.Rectangle26_6

// Size is a 2D extent in layout units.
type Size struct {
	W, H Unit
}

func (sz Size) String() string {
	return fmt.Sprintf("%s x %s", FormatUnit(sz.W), FormatUnit(sz.H))
}

// IsEmpty is true if either dimension is zero or negative.
func (sz Size) IsEmpty() bool {
	return sz.W <= 0 || sz.H <= 0
}

// Px converts whole pixels to layout units.
func Px(n int) Unit {
	return fixed.I(n)
}

// Pt creates a point from whole pixels.
func Pt(x, y int) Point {
	return fixed.P(x, y)
}

// Sz creates a size from whole pixels.
func Sz(w, h int) Size {
	return Size{W: Px(w), H: Px(h)}
}

// R creates a rectangle from whole pixel coordinates.
func R(x0, y0, x1, y1 int) Rect {
	return fixed.R(x0, y0, x1, y1)
}

// RectAt creates a rectangle at origin p with size sz.
func RectAt(p Point, sz Size) Rect {
	return Rect{Min: p, Max: Point{X: p.X + sz.W, Y: p.Y + sz.H}}
}

// Width returns the horizontal extent of r.
func Width(r Rect) Unit {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of r.
func Height(r Rect) Unit {
	return r.Max.Y - r.Min.Y
}

// SizeOf returns the size of r.
func SizeOf(r Rect) Size {
	return Size{W: Width(r), H: Height(r)}
}

// Area returns the area of r in square pixels, rounded down.
// Empty rectangles have area 0.
func Area(r Rect) int64 {
	if r.Empty() {
		return 0
	}
	return int64(Width(r).Floor()) * int64(Height(r).Floor())
}

// Overlaps is true if r and s share at least one point.
func Overlaps(r, s Rect) bool {
	return !r.Intersect(s).Empty()
}

// Translate moves r by p.
func Translate(r Rect, p Point) Rect {
	return r.Add(p)
}

// MoveTo places r at a new origin, preserving its size.
func MoveTo(r Rect, p Point) Rect {
	return RectAt(p, SizeOf(r))
}

// Inflate grows r by d on every side.
func Inflate(r Rect, d Unit) Rect {
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// AtLeastOnePixel returns r, or a 1×1 rectangle at r's origin if r is empty.
// Empty rectangles never intersect, but overlap testing needs them to.
func AtLeastOnePixel(r Rect) Rect {
	if r.Empty() {
		return RectAt(r.Min, Sz(1, 1))
	}
	return r
}

// Neg returns -p.
func Neg(p Point) Point {
	return Point{X: -p.X, Y: -p.Y}
}

// infiniteCoord is large enough to cover any document while leaving room for
// offsets to be added without overflowing an int32.
const infiniteCoord = 1 << 24

// Infinite returns a rectangle covering every practically reachable coordinate.
func Infinite() Rect {
	return Rect{
		Min: Point{X: -infiniteCoord * 64, Y: -infiniteCoord * 64},
		Max: Point{X: infiniteCoord * 64, Y: infiniteCoord * 64},
	}
}

// IsInfinite is true if r is the rectangle returned by Infinite.
func IsInfinite(r Rect) bool {
	return r == Infinite()
}

// Float converts a layout unit to float pixels.
func Float(u Unit) float64 {
	return float64(u) / 64
}

// FromFloat converts float pixels to the nearest layout unit.
func FromFloat(f float64) Unit {
	return Unit(math.Round(f * 64))
}

// FormatUnit prints u as pixels with up to two decimals.
func FormatUnit(u Unit) string {
	if u&63 == 0 {
		return fmt.Sprintf("%d", int(u)>>6)
	}
	return fmt.Sprintf("%.2f", Float(u))
}

// FormatPoint prints p as "x, y" in pixels.
func FormatPoint(p Point) string {
	return FormatUnit(p.X) + ", " + FormatUnit(p.Y)
}

// FormatRect prints r as "(x, y) w x h" in pixels.
func FormatRect(r Rect) string {
	if IsInfinite(r) {
		return "(infinite)"
	}
	return fmt.Sprintf("(%s) %s", FormatPoint(r.Min), SizeOf(r))
}
