package style

import (
	"math"
	"testing"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyMap(t *testing.T) {
	pmap := NewPropertyMap()
	pmap.Set("Will-Change", "Transform")
	assert.True(t, pmap.IsSet("will-change"))
	assert.Equal(t, Property("transform"), pmap.Get("will-change"))
	assert.False(t, pmap.IsSet("opacity"))
	assert.Equal(t, "will-change: transform;", pmap.String())
}

func TestParseLength(t *testing.T) {
	var u geom.Unit
	if ParseLength("12px").Match().Just(&u) == nil || u != geom.Px(12) {
		t.Errorf("expected 12px, is %v", ParseLength("12px"))
	}
	var p float64
	if ParseLength("50%").Match().Percentage(&p) == nil || p != 50 {
		t.Errorf("expected 50%%, is %v", ParseLength("50%"))
	}
	assert.True(t, ParseLength("auto").IsAuto())
	assert.True(t, ParseLength("bogus").IsUnset())
	r, ok := Percentage(25).Resolve(geom.Px(200))
	assert.True(t, ok)
	assert.Equal(t, geom.Px(50), r)
}

func TestPositionMatch(t *testing.T) {
	offsets := []PositionOffset{{Len: JustLength(geom.Px(10)), Dir: Top}}
	pos := Position("sticky", offsets)
	var o []PositionOffset
	if pos.Match().Sticky(&o) == nil {
		t.Fatalf("expected position to match sticky, is %v", pos)
	}
	assert.Len(t, o, 4)
	assert.Equal(t, "10px", o[Top].Len.String())
	assert.True(t, o[Left].Len.IsUnset())
	assert.Nil(t, pos.Match().Fixed(nil))
	//
	constrained := PositionPattern[bool](pos).OneOf(PositionPatterns[bool]{
		Fixed:  true,
		Sticky: true,
	})
	assert.True(t, constrained)
	assert.True(t, pos.IsInFlowPositioned())
	assert.False(t, Position("bogus", nil).IsPositioned())
}

func TestZIndex(t *testing.T) {
	assert.True(t, AutoZ.IsAuto())
	assert.False(t, Z(0).IsAuto(), "z-index: 0 must not be auto")
	assert.Equal(t, -3, Z(-3).Int())
}

func TestParseTransform(t *testing.T) {
	tf, err := ParseTransform("translate(10px, 20px) rotate(90deg)")
	require.NoError(t, err)
	assert.False(t, tf.Has3DOperation())
	x, y := tf.Matrix.MapPoint(10, 0)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 30, y, 1e-9)
	//
	tf, err = ParseTransform("translateZ(0)")
	require.NoError(t, err)
	assert.True(t, tf.Has3DOperation())
	assert.True(t, tf.IsRepresentableIn2D())
	assert.True(t, tf.Matrix.Is3D())
	//
	tf, err = ParseTransform("rotateY(60deg)")
	require.NoError(t, err)
	assert.False(t, tf.IsRepresentableIn2D())
	x, _ = tf.Matrix.MapPoint(100, 0)
	assert.InDelta(t, 50, x, 1e-9)
	//
	_, err = ParseTransform("wobble(3)")
	assert.ErrorIs(t, err, ErrInvalidTransform)
	_, err = ParseTransform("translate(10px")
	assert.ErrorIs(t, err, ErrInvalidTransform)
}

func TestParseAngle(t *testing.T) {
	for s, deg := range map[string]float64{"90deg": 90, "0.5turn": 180, "100grad": 90, "0": 0} {
		a, err := parseAngle(s)
		require.NoError(t, err, s)
		assert.InDelta(t, deg, a, 1e-9, s)
	}
	a, err := parseAngle("3.14159265rad")
	require.NoError(t, err)
	assert.InDelta(t, 180, a, 1e-6)
	assert.False(t, math.IsNaN(a))
}

func TestParseDeclarations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor.style")
	defer teardown()
	//
	st, err := ParseDeclarations(`position: fixed; top: 0; z-index: 2; opacity: .5;
		will-change: transform, scroll-position; overflow: hidden scroll;
		transform-style: preserve-3d; perspective: 800px`)
	require.NoError(t, err)
	assert.True(t, st.Position.IsFixed())
	assert.Equal(t, "0", geom.FormatUnit(mustResolve(t, st.Position.Offset(Top))))
	assert.Equal(t, 2, st.ZIndex.Int())
	assert.InDelta(t, 0.5, st.Opacity(), 1e-9)
	assert.True(t, st.WillChange.CanTriggerCompositing())
	assert.NotZero(t, st.WillChange&WillChangeScrollPosition)
	assert.Equal(t, OverflowHidden, st.OverflowX)
	assert.Equal(t, OverflowScroll, st.OverflowY)
	assert.True(t, st.IsScrollContainer())
	assert.True(t, st.Preserves3D())
	assert.Equal(t, geom.Px(800), st.Perspective)
	assert.True(t, st.IsStackingContext())
	assert.True(t, st.CreatesGroup())
}

func TestLastDeclarationWithoutSemicolon(t *testing.T) {
	st, err := ParseDeclarations("position: relative; will-change: transform")
	require.NoError(t, err)
	assert.True(t, st.Position.IsRelative())
	assert.True(t, st.WillChange.CanTriggerCompositing())
	//
	st, err = ParseDeclarations("  z-index: 0  ")
	require.NoError(t, err)
	assert.False(t, st.ZIndex.IsAuto())
	assert.Equal(t, 0, st.ZIndex.Int())
	//
	pmap, err := Declarations("opacity: .5;")
	require.NoError(t, err)
	assert.Equal(t, Property(".5"), pmap.Get("opacity"))
}

func TestParseDeclarationsKeepsGoodValues(t *testing.T) {
	st, err := ParseDeclarations("z-index: many; filter: blur(2px)")
	assert.Error(t, err)
	assert.True(t, st.HasFilter())
	assert.True(t, st.ZIndex.IsAuto())
}

func TestInitialStyle(t *testing.T) {
	var st Style
	assert.Equal(t, 1.0, st.Opacity())
	assert.False(t, st.IsStackingContext())
	assert.False(t, st.CreatesGroup())
	assert.True(t, st.IsVisible())
	ox, oy := st.TransformOrigin(geom.Sz(100, 40))
	assert.Equal(t, 50.0, ox)
	assert.Equal(t, 20.0, oy)
}

func TestClip(t *testing.T) {
	c, err := parseClip("rect(10px, 110px, 60px, 20px)")
	require.NoError(t, err)
	assert.True(t, c.Set)
	assert.Equal(t, geom.R(20, 10, 110, 60), c.Rect)
}

func mustResolve(t *testing.T, l Length) geom.Unit {
	u, ok := l.Resolve(0)
	if !ok {
		t.Fatalf("expected length %v to resolve", l)
	}
	return u
}
