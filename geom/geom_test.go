package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectOverlap(t *testing.T) {
	a := R(0, 0, 100, 100)
	b := R(50, 50, 150, 150)
	c := R(100, 0, 200, 100)
	assert.True(t, Overlaps(a, b), "a and b should overlap")
	assert.False(t, Overlaps(a, c), "touching rectangles should not overlap")
	assert.Equal(t, R(50, 50, 100, 100), a.Intersect(b))
	assert.Equal(t, R(0, 0, 150, 150), a.Union(b))
}

func TestEmptyRectGrowsToOnePixel(t *testing.T) {
	r := RectAt(Pt(10, 10), Size{})
	if !r.Empty() {
		t.Fatalf("expected rect to be empty, is %s", FormatRect(r))
	}
	r = AtLeastOnePixel(r)
	if r != R(10, 10, 11, 11) {
		t.Errorf("expected 1x1 rect at (10,10), is %s", FormatRect(r))
	}
	if !Overlaps(r, R(0, 0, 20, 20)) {
		t.Errorf("expected grown rect to overlap its surroundings")
	}
}

func TestArea(t *testing.T) {
	assert.Equal(t, int64(5000), Area(R(0, 0, 50, 100)))
	assert.Equal(t, int64(0), Area(R(10, 10, 10, 40)))
}

func TestTransformMapRect(t *testing.T) {
	r := R(0, 0, 10, 20)
	tr := Translation(5, 7)
	assert.Equal(t, R(5, 7, 15, 27), tr.MapRect(r))
	sc := Scale(2, 2)
	assert.Equal(t, R(0, 0, 20, 40), sc.MapRect(r))
	rot := Rotation(90)
	mapped := rot.MapRect(r)
	assert.Equal(t, -20, mapped.Min.X.Round())
	assert.Equal(t, 0, mapped.Min.Y.Round())
	assert.Equal(t, 0, mapped.Max.X.Round())
	assert.Equal(t, 10, mapped.Max.Y.Round())
}

func TestTransformMultiplyOrder(t *testing.T) {
	// scale first, then translate
	tr := Translation(10, 0).Multiply(Scale(2, 2))
	x, y := tr.MapPoint(1, 1)
	if math.Abs(x-12) > 1e-9 || math.Abs(y-2) > 1e-9 {
		t.Errorf("expected (12, 2), is (%g, %g)", x, y)
	}
	if !Identity().IsIdentity() || Identity().Is3D() {
		t.Errorf("expected zero transform to be a 2D identity")
	}
	if !Identity().With3D().Is3D() {
		t.Errorf("expected With3D to mark transform as 3D")
	}
	if Identity().With3D().IsIdentity() {
		t.Errorf("a 3D transform is never an identity")
	}
}

func TestTransformAround(t *testing.T) {
	rot := Rotation(180).Around(5, 5)
	x, y := rot.MapPoint(0, 0)
	if math.Abs(x-10) > 1e-9 || math.Abs(y-10) > 1e-9 {
		t.Errorf("expected (10, 10), is (%g, %g)", x, y)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "(10, 20) 30 x 40", FormatRect(R(10, 20, 40, 60)))
	assert.Equal(t, "1.50", FormatUnit(FromFloat(1.5)))
}
