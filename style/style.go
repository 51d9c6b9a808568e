package style

import (
	"fmt"
	"strings"

	"github.com/npillmayer/compositor/geom"
)

// Style holds the typed style values of a render layer's content.
//
// The zero value is the initial style of a static, opaque, untransformed box.
type Style struct {
	Position       PositionT
	ZIndex         ZIndex
	Transform      Transform
	TransformStyle TransformStyle
	Origin         [2]Length // transform-origin x and y; unset means 50%
	Perspective    geom.Unit // 0 means none
	BackfaceHidden bool
	Filter         Property
	BackdropFilter Property
	WillChange     WillChange
	OverflowX      Overflow
	OverflowY      Overflow
	Clip           Clip
	ClipPath       Property
	BlendMode      Property // empty or "normal" means no blending
	Isolation      bool     // isolation: isolate
	Visibility     Visibility
	Mask           Property
	BoxReflect     Property
	transparency   float64 // 1 - opacity
}

// ZIndex is either auto or an integer value. The zero value is auto.
type ZIndex struct {
	value int
	set   bool
}

// AutoZ is the z-index `auto`.
var AutoZ = ZIndex{}

// Z creates an integer z-index.
func Z(v int) ZIndex {
	return ZIndex{value: v, set: true}
}

// IsAuto is true for `auto`.
func (z ZIndex) IsAuto() bool {
	return !z.set
}

// Int returns the z-index as an integer, 0 for `auto`.
func (z ZIndex) Int() int {
	return z.value
}

func (z ZIndex) String() string {
	if z.IsAuto() {
		return "auto"
	}
	return fmt.Sprintf("%d", z.value)
}

// TransformStyle is either flat or preserve-3d.
type TransformStyle uint8

const (
	Flat TransformStyle = iota
	Preserve3D
)

// Overflow is the CSS overflow value for one axis.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
	OverflowClip
)

var overflowNames = []string{"visible", "hidden", "scroll", "auto", "clip"}

func (o Overflow) String() string {
	if int(o) < len(overflowNames) {
		return overflowNames[o]
	}
	return "?"
}

// IsScrollable is true for overflow values which create a scroll container
// the user may scroll.
func (o Overflow) IsScrollable() bool {
	return o == OverflowScroll || o == OverflowAuto
}

// Visibility is the CSS visibility value.
type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
	Collapse
)

// Clip is the legacy CSS clip rect for absolutely positioned boxes.
type Clip struct {
	Rect geom.Rect
	Set  bool
}

// WillChange is a set of properties announced by `will-change`.
type WillChange uint16

const (
	WillChangeTransform WillChange = 1 << iota
	WillChangeOpacity
	WillChangeFilter
	WillChangeBackdropFilter
	WillChangePerspective
	WillChangeScrollPosition
	WillChangeContents
	WillChangePosition
	WillChangeZIndex
)

var willChangeNames = map[string]WillChange{
	"transform":               WillChangeTransform,
	"translate":               WillChangeTransform,
	"rotate":                  WillChangeTransform,
	"scale":                   WillChangeTransform,
	"opacity":                 WillChangeOpacity,
	"filter":                  WillChangeFilter,
	"backdrop-filter":         WillChangeBackdropFilter,
	"-webkit-backdrop-filter": WillChangeBackdropFilter,
	"perspective":             WillChangePerspective,
	"scroll-position":         WillChangeScrollPosition,
	"contents":                WillChangeContents,
	"position":                WillChangePosition,
	"z-index":                 WillChangeZIndex,
}

// ParseWillChange interprets a will-change property. Unknown features
// are ignored.
func ParseWillChange(p Property) WillChange {
	var w WillChange
	for _, f := range p.Fields() {
		if bit, ok := willChangeNames[f]; ok {
			w |= bit
		}
	}
	return w
}

// CanTriggerCompositing is true if any announced property may, on its own,
// promote a layer to a composited layer.
func (w WillChange) CanTriggerCompositing() bool {
	const triggers = WillChangeTransform | WillChangeOpacity | WillChangeFilter |
		WillChangeBackdropFilter | WillChangePerspective
	return w&triggers != 0
}

// CreatesStackingContext is true if announcing the properties makes the
// box a stacking context.
func (w WillChange) CreatesStackingContext() bool {
	return w.CanTriggerCompositing() || w&WillChangeZIndex != 0
}

func (w WillChange) String() string {
	if w == 0 {
		return "auto"
	}
	var names []string
	for _, n := range []struct {
		bit  WillChange
		name string
	}{
		{WillChangeTransform, "transform"}, {WillChangeOpacity, "opacity"},
		{WillChangeFilter, "filter"}, {WillChangeBackdropFilter, "backdrop-filter"},
		{WillChangePerspective, "perspective"}, {WillChangeScrollPosition, "scroll-position"},
		{WillChangeContents, "contents"}, {WillChangePosition, "position"},
		{WillChangeZIndex, "z-index"},
	} {
		if w&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ", ")
}

// --- Derived properties ----------------------------------------------------

// Opacity returns the opacity in [0…1].
func (st *Style) Opacity() float64 {
	return 1 - st.transparency
}

// SetOpacity sets the opacity, clamped to [0…1].
func (st *Style) SetOpacity(o float64) {
	if o < 0 {
		o = 0
	} else if o > 1 {
		o = 1
	}
	st.transparency = 1 - o
}

// IsTransparent is true if opacity is less than 1.
func (st *Style) IsTransparent() bool {
	return st.transparency > 0
}

// HasTransform is true if a transform other than `none` is set.
func (st *Style) HasTransform() bool {
	return !st.Transform.IsNone()
}

// HasFilter is true if a filter other than `none` is set.
func (st *Style) HasFilter() bool {
	return !st.Filter.IsNone()
}

// HasBackdropFilter is true if a backdrop filter other than `none` is set.
func (st *Style) HasBackdropFilter() bool {
	return !st.BackdropFilter.IsNone()
}

// HasBlendMode is true for a mix-blend-mode other than `normal`.
func (st *Style) HasBlendMode() bool {
	return !st.BlendMode.IsEmpty() && st.BlendMode != "normal"
}

// HasMask is true if a mask image is set.
func (st *Style) HasMask() bool {
	return !st.Mask.IsNone()
}

// HasClipPath is true if a clip path is set.
func (st *Style) HasClipPath() bool {
	return !st.ClipPath.IsNone()
}

// HasReflection is true if a box reflection is set.
func (st *Style) HasReflection() bool {
	return !st.BoxReflect.IsNone()
}

// HasPerspective is true if a perspective other than `none` is set.
func (st *Style) HasPerspective() bool {
	return st.Perspective > 0
}

// Preserves3D is true for transform-style: preserve-3d.
func (st *Style) Preserves3D() bool {
	return st.TransformStyle == Preserve3D
}

// CreatesGroup is true if the box has to be rendered into an isolated group
// before it is composed with its backdrop.
func (st *Style) CreatesGroup() bool {
	return st.IsTransparent() || st.HasMask() || st.HasClipPath() || st.HasFilter() ||
		st.HasBackdropFilter() || st.HasBlendMode()
}

// IsStackingContext is true if the box establishes a stacking context.
func (st *Style) IsStackingContext() bool {
	pos := st.Position
	switch {
	case pos.IsFixed() || pos.IsSticky():
		return true
	case pos.IsPositioned() && !st.ZIndex.IsAuto():
		return true
	}
	return st.CreatesGroup() || st.HasTransform() || st.Isolation || st.Preserves3D() ||
		st.HasPerspective() || st.HasReflection() || st.WillChange.CreatesStackingContext()
}

// HasOverflowClip is true if content overflowing the box is clipped in either
// direction.
func (st *Style) HasOverflowClip() bool {
	return st.OverflowX != OverflowVisible || st.OverflowY != OverflowVisible
}

// IsScrollContainer is true if the box may be scrolled in either direction.
func (st *Style) IsScrollContainer() bool {
	return st.OverflowX.IsScrollable() || st.OverflowY.IsScrollable()
}

// HasClip is true if either the legacy clip rect or an overflow clip is set.
func (st *Style) HasClip() bool {
	return st.Clip.Set || st.HasOverflowClip()
}

// IsVisible is true unless visibility is hidden or collapsed.
func (st *Style) IsVisible() bool {
	return st.Visibility == Visible
}

// TransformOrigin resolves transform-origin against a border box size.
func (st *Style) TransformOrigin(sz geom.Size) (float64, float64) {
	resolve := func(l Length, base geom.Unit) float64 {
		if l.IsUnset() || l.IsAuto() {
			return geom.Float(base) / 2
		}
		u, _ := l.Resolve(base)
		return geom.Float(u)
	}
	return resolve(st.Origin[0], sz.W), resolve(st.Origin[1], sz.H)
}

// String lists the non-initial values of st.
func (st *Style) String() string {
	var b strings.Builder
	add := func(k string, v interface{}) {
		b.WriteString(fmt.Sprintf("%s: %v; ", k, v))
	}
	if st.Position.IsPositioned() {
		add("position", st.Position)
	}
	if !st.ZIndex.IsAuto() {
		add("z-index", st.ZIndex)
	}
	if st.IsTransparent() {
		add("opacity", st.Opacity())
	}
	if st.HasTransform() {
		add("transform", st.Transform)
	}
	if st.Preserves3D() {
		add("transform-style", "preserve-3d")
	}
	if st.HasPerspective() {
		add("perspective", geom.FormatUnit(st.Perspective))
	}
	if st.HasFilter() {
		add("filter", st.Filter)
	}
	if st.HasBackdropFilter() {
		add("backdrop-filter", st.BackdropFilter)
	}
	if st.WillChange != 0 {
		add("will-change", st.WillChange)
	}
	if st.HasOverflowClip() {
		add("overflow", st.OverflowX.String()+" "+st.OverflowY.String())
	}
	return strings.TrimSpace(b.String())
}
