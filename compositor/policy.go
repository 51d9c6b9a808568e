package compositor

import (
	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/layer"
)

// queryData collects side results of the promotion predicates.
type queryData struct {
	// a layout-dependent predicate could not decide, as layout is not valid
	reevaluateAfterLayout bool
	// why a fixed or sticky layer is not composited
	nonCompositedForPositionReason layer.NotCompositedReason
	// direct reasons found by requiresCompositingLayer
	reasons Reasons
}

// minimumCanvasArea is the size a canvas painted to a layer needs under the
// conservative policy to be composited.
const minimumCanvasArea = 50 * 100

// canBeComposited is true if compositing is possible for l at all.
func (c *Compositor) canBeComposited(l *layer.RenderLayer) bool {
	return c.config.AcceleratedCompositing
}

// needsToBeComposited is true if l requires a backing for direct or for
// (previously computed) indirect reasons.
func (c *Compositor) needsToBeComposited(l *layer.RenderLayer, q *queryData) bool {
	if !c.canBeComposited(l) {
		return false
	}
	if src := l.ReflectionSource(); src != nil {
		return c.backing(src) != nil
	}
	return c.requiresCompositingLayer(l, q) || l.MustCompositeForIndirectReasons() ||
		(l.IsRoot() && c.compositing)
}

// requiresCompositingLayer is true if l requires compositing for a direct
// reason.
func (c *Compositor) requiresCompositingLayer(l *layer.RenderLayer, q *queryData) bool {
	q.reasons = c.directReasons(l, q)
	return q.reasons != 0
}

// directReasons evaluates every promotion predicate for l.
func (c *Compositor) directReasons(l *layer.RenderLayer, q *queryData) Reasons {
	var r Reasons
	if c.requiresCompositingForTransform(l) {
		r |= Reason3DTransform
	}
	if c.requiresCompositingForBackfaceVisibility(l) {
		r |= ReasonBackfaceVisibilityHidden
	}
	if c.requiresCompositingForAnimation(l) {
		r |= ReasonAnimation
	}
	switch l.Kind() {
	case layer.Video:
		if c.requiresCompositingForVideo(l) {
			r |= ReasonVideo
		}
	case layer.Canvas:
		if c.requiresCompositingForCanvas(l) {
			r |= ReasonCanvas
		}
	case layer.Plugin:
		if c.requiresCompositingForPlugin(l, q) {
			r |= ReasonPlugin
		}
	case layer.Frame:
		if c.requiresCompositingForFrame(l, q) {
			r |= ReasonIFrame
		}
	}
	if c.requiresCompositingForFilters(l) {
		r |= ReasonFilters
	}
	if c.requiresCompositingForBackdropFilter(l) {
		r |= ReasonBackdropFilter
	}
	if c.requiresCompositingForWillChange(l) {
		r |= ReasonWillChange
	}
	if c.requiresCompositingForPosition(l, q) {
		if l.Style.Position.IsSticky() {
			r |= ReasonPositionSticky
		} else {
			r |= ReasonPositionFixed
		}
	}
	if c.requiresCompositingForOverflowScrolling(l, q) {
		r |= ReasonOverflowScrolling
	}
	return r
}

func (c *Compositor) hasTrigger(t Triggers) bool {
	return c.config.Triggers&t != 0
}

// layoutDependent is called by predicates which need valid geometry. If layout
// is not valid, the query is flagged for re-evaluation and the current state
// of l is returned.
func (c *Compositor) layoutDependent(l *layer.RenderLayer, q *queryData) (bool, bool) {
	if c.view.LayoutValid {
		return false, false
	}
	q.reevaluateAfterLayout = true
	return c.backing(l) != nil, true
}

func (c *Compositor) requiresCompositingForTransform(l *layer.RenderLayer) bool {
	if !c.hasTrigger(Trigger3DTransform) || !l.HasTransform() {
		return false
	}
	t := l.Style.Transform
	if c.config.Policy == ConservativePolicy {
		if t.Has3DOperation() && l.Style.HasFilter() {
			return true
		}
		return !t.IsRepresentableIn2D()
	}
	return t.Has3DOperation()
}

func (c *Compositor) requiresCompositingForBackfaceVisibility(l *layer.RenderLayer) bool {
	if !c.hasTrigger(Trigger3DTransform) || !l.Style.BackfaceHidden {
		return false
	}
	if l.AncestorWith((*layer.RenderLayer).Has3DTransform) != nil {
		return true
	}
	if sc := l.PaintOrderParent(); sc != nil && sc.Style.Preserves3D() {
		return true
	}
	return false
}

func (c *Compositor) requiresCompositingForAnimation(l *layer.RenderLayer) bool {
	if !c.hasTrigger(TriggerAnimation) {
		return false
	}
	props := layer.AnimatesTransform | layer.AnimatesOpacity | layer.AnimatesFilter
	if c.config.Features.BackdropFilters {
		props |= layer.AnimatesBackdropFilter
	}
	for _, a := range l.Animations {
		if !a.Accelerated || a.Properties&props == 0 {
			continue
		}
		// paused animations promote only without Web Animations integration
		if a.Running || !c.config.Features.WebAnimationsCSSIntegration {
			return true
		}
	}
	return false
}

func (c *Compositor) requiresCompositingForVideo(l *layer.RenderLayer) bool {
	if !c.hasTrigger(TriggerVideo) {
		return false
	}
	v, ok := l.Video()
	return ok && v.AcceleratedPlayback && l.HasVisibleContent()
}

func (c *Compositor) requiresCompositingForCanvas(l *layer.RenderLayer) bool {
	if !c.hasTrigger(TriggerCanvas) {
		return false
	}
	cv, ok := l.Canvas()
	if !ok {
		return false
	}
	switch cv.Mode {
	case layer.CanvasAsLayerContents:
		return true
	case layer.CanvasPaintedToLayer:
		if c.config.Policy == ConservativePolicy {
			return geom.Area(l.BorderBox()) >= minimumCanvasArea
		}
		return true
	}
	return false
}

func (c *Compositor) requiresCompositingForPlugin(l *layer.RenderLayer, q *queryData) bool {
	if !c.hasTrigger(TriggerPlugin) {
		return false
	}
	p, ok := l.Plugin()
	if !ok || !p.RequiresAcceleratedCompositing {
		return false
	}
	if current, deferred := c.layoutDependent(l, q); deferred {
		return current
	}
	return !l.Size.IsEmpty()
}

func (c *Compositor) requiresCompositingForFrame(l *layer.RenderLayer, q *queryData) bool {
	f, ok := l.Frame()
	if !ok || f.Child == nil || !l.Style.IsVisible() {
		return false
	}
	if !f.Child.UsesCompositing() {
		return false
	}
	if current, deferred := c.layoutDependent(l, q); deferred {
		return current
	}
	return !l.Size.IsEmpty()
}

func (c *Compositor) requiresCompositingForFilters(l *layer.RenderLayer) bool {
	return c.hasTrigger(TriggerFilters) && l.Style.HasFilter() && c.config.Policy == NormalPolicy
}

func (c *Compositor) requiresCompositingForBackdropFilter(l *layer.RenderLayer) bool {
	return c.config.Features.BackdropFilters && l.Style.HasBackdropFilter()
}

func (c *Compositor) requiresCompositingForWillChange(l *layer.RenderLayer) bool {
	if !c.hasTrigger(TriggerWillChange) || c.config.Policy == ConservativePolicy {
		return false
	}
	return l.Style.WillChange.CanTriggerCompositing()
}

// requiresCompositingForPosition decides for fixed and sticky layers. Fixed
// layers are composited only if they stay fixed relative to the view and
// are visible in the viewport; q records the reason otherwise.
func (c *Compositor) requiresCompositingForPosition(l *layer.RenderLayer, q *queryData) bool {
	pos := l.Style.Position
	if !isViewportConstrained(pos) {
		return false
	}
	if !c.config.AcceleratedCompositingForFixedPosition {
		return false
	}
	if pos.IsSticky() {
		return c.isAsyncScrollableStickyLayer(l)
	}
	if current, deferred := c.layoutDependent(l, q); deferred {
		return current
	}
	if c.hasTransformedAncestor(l) {
		q.nonCompositedForPositionReason = layer.NotCompositedForNonViewContainer
		return false
	}
	if !c.paintsContent(l) {
		q.nonCompositedForPositionReason = layer.NotCompositedForNoVisibleContent
		return false
	}
	if !c.view.IsScrollable() {
		q.nonCompositedForPositionReason = layer.NotCompositedForUnscrollableAncestors
		return false
	}
	if !c.fixedLayerIntersectsViewport(l) {
		q.nonCompositedForPositionReason = layer.NotCompositedForBoundsOutOfView
		return false
	}
	return true
}

// isAsyncScrollableStickyLayer is true if a sticky layer is constrained by a
// scroller which the scrolling coordinator scrolls.
func (c *Compositor) isAsyncScrollableStickyLayer(l *layer.RenderLayer) bool {
	if c.config.Scrolling == nil {
		return false
	}
	if p := l.AncestorWith((*layer.RenderLayer).IsScrollContainer); p != nil {
		return c.usesCompositedScrolling(p)
	}
	return true
}

func (c *Compositor) requiresCompositingForOverflowScrolling(l *layer.RenderLayer, q *queryData) bool {
	if !c.hasTrigger(TriggerScrollableOverflow) || !c.config.Features.AsyncOverflowScrolling {
		return false
	}
	if !l.CompositedScrolling {
		return false
	}
	if current, deferred := c.layoutDependent(l, q); deferred {
		return current
	}
	return l.HasScrollableOverflow()
}

// usesCompositedScrolling is true if l's overflow is scrolled by moving a
// scrolled-contents layer.
func (c *Compositor) usesCompositedScrolling(l *layer.RenderLayer) bool {
	return c.config.Features.AsyncOverflowScrolling && l.CompositedScrolling && l.HasScrollableOverflow()
}

func (c *Compositor) hasTransformedAncestor(l *layer.RenderLayer) bool {
	return l.AncestorWith((*layer.RenderLayer).HasTransform) != nil
}

// paintsContent is true if l or any of its descendants paints anything.
func (c *Compositor) paintsContent(l *layer.RenderLayer) bool {
	if l.HasVisibleContent() {
		return true
	}
	for _, ch := range l.ChildLayers() {
		if c.paintsContent(ch) {
			return true
		}
	}
	return false
}

func (c *Compositor) fixedLayerIntersectsViewport(l *layer.RenderLayer) bool {
	g := newGeometryMap(c.view)
	r := g.absoluteRect(l, l.OverlapBounds())
	return geom.Overlaps(r, c.view.VisibleContentRect())
}

// --- Indirect reasons --------------------------------------------------------

// requiresCompositingForIndirectReason checks the reasons depending on the
// layer's descendants.
func (c *Compositor) requiresCompositingForIndirectReason(l *layer.RenderLayer,
	hasCompositedDescendants, has3DTransformedDescendants bool) layer.IndirectReason {
	if hasCompositedDescendants && (l.IsolatesCompositedBlending() || l.HasTransform() ||
		l.Style.CreatesGroup() || l.ReflectionLayer() != nil) {
		return layer.IndirectGraphicalEffect
	}
	if has3DTransformedDescendants {
		if l.Style.Preserves3D() {
			return layer.IndirectPreserve3D
		}
		if l.Style.HasPerspective() {
			return layer.IndirectPerspective
		}
	}
	return layer.IndirectNone
}

// clipsCompositingDescendants is true if l has composited descendants it has
// to clip.
func (c *Compositor) clipsCompositingDescendants(l *layer.RenderLayer) bool {
	return l.HasCompositingDescendant() && l.Style.HasClip()
}
