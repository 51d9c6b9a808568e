package layer

import (
	"fmt"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/style"
	"github.com/npillmayer/compositor/tree"
)

// ID identifies a render layer within its tree. IDs are never reused.
type ID uint32

// NoID is the ID of no layer.
const NoID ID = 0

// RenderLayer is a node of the stacking tree.
//
// Geometry is kept relative to the parent layer: Offset is the position of
// the layer's border box within its parent's border box, before the parent's
// scroll offset is applied. Fixed-position layers are positioned relative to
// the viewport instead.
type RenderLayer struct {
	tree.Node[*RenderLayer]
	id      ID
	owner   *Tree
	Name    string      // name for debugging, e.g. "div#menu"
	Style   style.Style // typed style of the layer's content
	Content Content     // what the layer renders

	Offset         geom.Point // border box origin, relative to parent
	Size           geom.Size  // border box size
	VisualOverflow geom.Rect  // painted extent in local coordinates; empty means border box
	ScrollOffset   geom.Point // scroll position of a scroll container
	ScrollSize     geom.Size  // size of the scrollable contents of a scroll container

	// CompositedScrolling is set by the scrolling collaborator if the layer's
	// overflow scrolling is performed by the compositor.
	CompositedScrolling bool

	Animations []Animation

	dirty                      DirtyBits
	indirect                   IndirectReason
	hasCompositingDescendant   bool
	has3DTransformedDescendant bool
	nonIsolatedBlending        bool // has composited descendants with blending, not isolated
	notCompositedReason        NotCompositedReason
	repaintRect                geom.Rect
	reflection                 ID // reflection layer of a reflection source
	reflectionSource           ID // source of a reflection layer
	lists                      zOrderLists
}

// ID returns the layer's ID.
func (l *RenderLayer) ID() ID {
	return l.id
}

// Tree returns the tree owning l.
func (l *RenderLayer) Tree() *Tree {
	return l.owner
}

func (l *RenderLayer) String() string {
	if l == nil {
		return "<nil layer>"
	}
	if l.Name != "" {
		return fmt.Sprintf("%s[%d]", l.Name, l.id)
	}
	return fmt.Sprintf("layer[%d]", l.id)
}

// ParentLayer returns the parent render layer in document order.
func (l *RenderLayer) ParentLayer() *RenderLayer {
	if p := l.Parent(); p != nil {
		return p.Payload
	}
	return nil
}

// AncestorWith returns the nearest ancestor layer, in document order,
// for which pred is true, or nil.
func (l *RenderLayer) AncestorWith(pred func(*RenderLayer) bool) *RenderLayer {
	match := func(test, _ *tree.Node[*RenderLayer]) (*tree.Node[*RenderLayer], error) {
		if pred(test.Payload) {
			return test, nil
		}
		return nil, nil
	}
	nodes, err := tree.NewWalker(&l.Node).AncestorWith(match).Collect()
	if err != nil || len(nodes) == 0 {
		return nil
	}
	return nodes[0].Payload
}

// ChildLayers returns the child render layers in document order.
func (l *RenderLayer) ChildLayers() []*RenderLayer {
	children := l.Children()
	r := make([]*RenderLayer, len(children))
	for i, ch := range children {
		r[i] = ch.Payload
	}
	return r
}

// IsRoot is true for the root layer of the tree, i.e. the layer of the view.
func (l *RenderLayer) IsRoot() bool {
	return l.owner != nil && l.owner.root == l
}

// --- Geometry ----------------------------------------------------------------

// BorderBox returns the border box in local coordinates.
func (l *RenderLayer) BorderBox() geom.Rect {
	return geom.RectAt(geom.Point{}, l.Size)
}

// OverlapBounds returns the bounds used for overlap testing in local
// coordinates.
func (l *RenderLayer) OverlapBounds() geom.Rect {
	if l.VisualOverflow.Empty() {
		return l.BorderBox()
	}
	return l.VisualOverflow.Union(l.BorderBox())
}

// LocalTransform returns the transform of the layer's style, applied around
// its transform origin. It is the identity for layers without transform.
func (l *RenderLayer) LocalTransform() geom.Transform {
	if !l.Style.HasTransform() {
		return geom.Identity()
	}
	ox, oy := l.Style.TransformOrigin(l.Size)
	return l.Style.Transform.Matrix.Around(ox, oy)
}

// HasTransform is true if the layer's style sets a transform.
func (l *RenderLayer) HasTransform() bool {
	return l.Style.HasTransform()
}

// Has3DTransform is true if the layer's transform is not representable in 2D.
func (l *RenderLayer) Has3DTransform() bool {
	return l.Style.HasTransform() && !l.Style.Transform.IsRepresentableIn2D()
}

// IsScrollContainer is true if the layer clips overflow and may be scrolled.
func (l *RenderLayer) IsScrollContainer() bool {
	return l.Style.IsScrollContainer()
}

// HasScrollableOverflow is true if the scrollable contents exceed the border box.
func (l *RenderLayer) HasScrollableOverflow() bool {
	return l.IsScrollContainer() && (l.ScrollSize.W > l.Size.W || l.ScrollSize.H > l.Size.H)
}

// HasOverflowClip is true if the layer clips its content.
func (l *RenderLayer) HasOverflowClip() bool {
	return l.Style.HasOverflowClip()
}

// ClipRect returns the rectangle the layer clips its descendants to, in local
// coordinates.
func (l *RenderLayer) ClipRect() (geom.Rect, bool) {
	switch {
	case l.Style.Clip.Set && l.Style.HasOverflowClip():
		return l.Style.Clip.Rect.Intersect(l.BorderBox()), true
	case l.Style.Clip.Set:
		return l.Style.Clip.Rect, true
	case l.Style.HasOverflowClip():
		return l.BorderBox(), true
	}
	return geom.Rect{}, false
}

// HasVisibleContent is true if the layer paints anything.
func (l *RenderLayer) HasVisibleContent() bool {
	return l.Style.IsVisible() && !l.Size.IsEmpty()
}

// --- Compositing state bookkeeping -------------------------------------------

// IndirectReason is a reason to composite a layer which depends on other
// layers rather than on the layer's own style.
type IndirectReason uint8

const (
	IndirectNone IndirectReason = iota
	IndirectOverlap
	IndirectStacking
	IndirectBackgroundLayer
	IndirectGraphicalEffect
	IndirectPerspective
	IndirectPreserve3D
)

var indirectNames = []string{"none", "overlap", "stacking", "background-layer",
	"graphical-effect", "perspective", "preserve-3d"}

func (r IndirectReason) String() string {
	if int(r) < len(indirectNames) {
		return indirectNames[r]
	}
	return "?"
}

// IndirectCompositingReason returns the indirect reason set by the last
// requirements pass.
func (l *RenderLayer) IndirectCompositingReason() IndirectReason {
	return l.indirect
}

// SetIndirectCompositingReason is called by the requirements pass only.
func (l *RenderLayer) SetIndirectCompositingReason(r IndirectReason) {
	l.indirect = r
}

// MustCompositeForIndirectReasons is true if the indirect reason alone
// forces the layer to be composited.
func (l *RenderLayer) MustCompositeForIndirectReasons() bool {
	return l.indirect != IndirectNone
}

// HasCompositingDescendant is true if any paint-order descendant is composited.
func (l *RenderLayer) HasCompositingDescendant() bool {
	return l.hasCompositingDescendant
}

// SetHasCompositingDescendant is called by the requirements pass only.
func (l *RenderLayer) SetHasCompositingDescendant(b bool) {
	l.hasCompositingDescendant = b
}

// Has3DTransformedDescendant is true if any paint-order descendant has a
// 3D transform.
func (l *RenderLayer) Has3DTransformedDescendant() bool {
	return l.has3DTransformedDescendant
}

// SetHas3DTransformedDescendant is called by the requirements pass only.
func (l *RenderLayer) SetHas3DTransformedDescendant(b bool) {
	l.has3DTransformedDescendant = b
}

// HasNotIsolatedCompositedBlendingDescendants is true if a composited
// descendant blends with content outside of this layer.
func (l *RenderLayer) HasNotIsolatedCompositedBlendingDescendants() bool {
	return l.nonIsolatedBlending
}

// SetHasNotIsolatedCompositedBlendingDescendants is called by the
// requirements pass only.
func (l *RenderLayer) SetHasNotIsolatedCompositedBlendingDescendants(b bool) {
	l.nonIsolatedBlending = b
}

// IsolatesCompositedBlending is true if the layer is a stacking context
// containing composited blending descendants.
func (l *RenderLayer) IsolatesCompositedBlending() bool {
	return l.nonIsolatedBlending && l.IsStackingContext()
}

// NotCompositedReason tells why a viewport-constrained layer is not composited.
type NotCompositedReason uint8

const (
	NoNotCompositedReason NotCompositedReason = iota
	NotCompositedForBoundsOutOfView
	NotCompositedForNonViewContainer
	NotCompositedForNoVisibleContent
	NotCompositedForUnscrollableAncestors
)

var notCompositedNames = []string{"", "bounds-out-of-view", "non-view-container",
	"no-visible-content", "unscrollable-ancestors"}

func (r NotCompositedReason) String() string {
	if int(r) < len(notCompositedNames) {
		return notCompositedNames[r]
	}
	return "?"
}

// ViewportConstrainedNotCompositedReason returns the reason recorded by the
// last update.
func (l *RenderLayer) ViewportConstrainedNotCompositedReason() NotCompositedReason {
	return l.notCompositedReason
}

// SetViewportConstrainedNotCompositedReason records why a fixed or sticky
// layer is not composited.
func (l *RenderLayer) SetViewportConstrainedNotCompositedReason(r NotCompositedReason) {
	l.notCompositedReason = r
}

// RepaintRect returns the cached repaint rect, relative to the layer's repaint
// container.
func (l *RenderLayer) RepaintRect() geom.Rect {
	return l.repaintRect
}

// SetRepaintRect caches the repaint rect relative to the repaint container.
func (l *RenderLayer) SetRepaintRect(r geom.Rect) {
	l.repaintRect = r
}

// --- Reflections -------------------------------------------------------------

// ReflectionLayer returns the reflection of a reflection source, or nil.
func (l *RenderLayer) ReflectionLayer() *RenderLayer {
	if l.reflection == NoID || l.owner == nil {
		return nil
	}
	return l.owner.Layer(l.reflection)
}

// ReflectionSource returns the source of a reflection layer, or nil.
func (l *RenderLayer) ReflectionSource() *RenderLayer {
	if l.reflectionSource == NoID || l.owner == nil {
		return nil
	}
	return l.owner.Layer(l.reflectionSource)
}

// IsReflection is true for the reflection layer of a reflection source.
func (l *RenderLayer) IsReflection() bool {
	return l.reflectionSource != NoID
}

// --- Animations --------------------------------------------------------------

// AnimatedProperty is a set of properties animated by an animation.
type AnimatedProperty uint8

const (
	AnimatesTransform AnimatedProperty = 1 << iota
	AnimatesOpacity
	AnimatesFilter
	AnimatesBackdropFilter
)

// Animation is an animation running on a layer's content.
type Animation struct {
	Name        string
	Properties  AnimatedProperty
	Running     bool              // false for paused animations
	Accelerated bool              // the animation may run in the compositor
	Keyframes   []style.Transform // transform keyframes, if transform is animated
}

// RunningAcceleratedAnimation is true if an accelerated animation of any of
// props is running.
func (l *RenderLayer) RunningAcceleratedAnimation(props AnimatedProperty) bool {
	for _, a := range l.Animations {
		if a.Running && a.Accelerated && a.Properties&props != 0 {
			return true
		}
	}
	return false
}

// IsRunningTransformAnimation is true if a transform animation is running,
// accelerated or not.
func (l *RenderLayer) IsRunningTransformAnimation() bool {
	for _, a := range l.Animations {
		if a.Running && a.Properties&AnimatesTransform != 0 {
			return true
		}
	}
	return false
}

// AnimatedBounds returns the local bounds of the layer and its descendants,
// enclosing every position a running transform animation may move them to.
// It returns false if the bounds cannot be computed, e.g. because a keyframe
// has a transform not representable in 2D.
// Without a running transform animation, the layer's static transform is
// applied.
func (l *RenderLayer) AnimatedBounds() (geom.Rect, bool) {
	bounds := l.boundsIncludingDescendants()
	var r geom.Rect
	found := false
	ox, oy := l.Style.TransformOrigin(l.Size)
	for _, a := range l.Animations {
		if !a.Running || a.Properties&AnimatesTransform == 0 {
			continue
		}
		if len(a.Keyframes) == 0 {
			return geom.Rect{}, false
		}
		for _, kf := range a.Keyframes {
			if !kf.IsRepresentableIn2D() {
				return geom.Rect{}, false
			}
			r = r.Union(kf.Matrix.Around(ox, oy).MapRect(bounds))
			found = true
		}
	}
	if !found {
		return l.LocalTransform().MapRect(bounds), true
	}
	return r, true
}

// boundsIncludingDescendants unions the overlap bounds of l and every
// descendant, in local coordinates of l.
func (l *RenderLayer) boundsIncludingDescendants() geom.Rect {
	r := l.OverlapBounds()
	for _, ch := range l.ChildLayers() {
		if ch.Style.Position.IsFixed() {
			continue
		}
		b := ch.LocalTransform().MapRect(ch.boundsIncludingDescendants())
		b = b.Add(ch.Offset).Sub(l.ScrollOffset)
		r = r.Union(b)
	}
	return r
}
