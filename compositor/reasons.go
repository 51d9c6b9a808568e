package compositor

import (
	"strings"

	"github.com/npillmayer/compositor/layer"
)

// Reasons is a set of reasons why a layer is composited. It is meant for
// diagnostics only; decisions are made by the requirements pass.
type Reasons uint32

// Direct reasons, depending on the layer's own style and content.
const (
	Reason3DTransform Reasons = 1 << iota
	ReasonVideo
	ReasonCanvas
	ReasonPlugin
	ReasonIFrame
	ReasonBackfaceVisibilityHidden
	ReasonAnimation
	ReasonFilters
	ReasonBackdropFilter
	ReasonPositionFixed
	ReasonPositionSticky
	ReasonOverflowScrolling
	ReasonWillChange
	ReasonRoot

	// Indirect reasons, depending on other layers.
	ReasonStacking
	ReasonOverlap
	ReasonNegativeZIndexChildren
	ReasonTransformWithCompositedDescendants
	ReasonOpacityWithCompositedDescendants
	ReasonFilterWithCompositedDescendants
	ReasonBlendingWithCompositedDescendants
	ReasonReflectionWithCompositedDescendants
	ReasonIsolatesCompositedBlendingDescendants
	ReasonPerspective
	ReasonPreserve3D
	ReasonClipsCompositingDescendants
)

const directReasons = Reason3DTransform | ReasonVideo | ReasonCanvas | ReasonPlugin | ReasonIFrame |
	ReasonBackfaceVisibilityHidden | ReasonAnimation | ReasonFilters | ReasonBackdropFilter |
	ReasonPositionFixed | ReasonPositionSticky | ReasonOverflowScrolling | ReasonWillChange | ReasonRoot

var reasonNames = []string{
	"3D transform", "video", "canvas", "plugin", "iframe", "backface-visibility hidden",
	"animation", "filters", "backdrop-filter", "position fixed", "position sticky",
	"overflow scrolling", "will-change", "root",
	"stacking", "overlap", "negative z-index children",
	"transform with composited descendants", "opacity with composited descendants",
	"filter with composited descendants", "blending with composited descendants",
	"reflection with composited descendants", "isolates composited blending descendants",
	"perspective", "preserve-3d", "clips compositing descendants",
}

// IsDirect is true if r contains a direct reason.
func (r Reasons) IsDirect() bool {
	return r&directReasons != 0
}

func (r Reasons) String() string {
	if r == 0 {
		return "none"
	}
	var names []string
	for i, n := range reasonNames {
		if r&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

// layoutDependentReasons are decided by predicates which need valid layout.
const layoutDependentReasons = ReasonPlugin | ReasonIFrame | ReasonPositionFixed | ReasonOverflowScrolling

// mergeDeferred replaces the layout-dependent reasons of r by those of
// stored, if the evaluation of r was deferred until after layout.
func (r Reasons) mergeDeferred(stored Reasons, deferred bool) Reasons {
	if !deferred {
		return r
	}
	return r&^layoutDependentReasons | stored&layoutDependentReasons
}

// ReasonsForCompositing returns why l is composited. It is empty for
// layers without backing.
func (c *Compositor) ReasonsForCompositing(l *layer.RenderLayer) Reasons {
	if c.backing(l) == nil {
		return 0
	}
	q := queryData{}
	reasons := c.directReasons(l, &q).mergeDeferred(c.backing(l).reasons, q.reevaluateAfterLayout)
	if l.IsRoot() {
		reasons |= ReasonRoot
	}
	switch l.IndirectCompositingReason() {
	case layer.IndirectStacking:
		reasons |= ReasonStacking
	case layer.IndirectOverlap:
		reasons |= ReasonOverlap
	case layer.IndirectBackgroundLayer:
		reasons |= ReasonNegativeZIndexChildren
	case layer.IndirectGraphicalEffect:
		switch {
		case l.HasTransform():
			reasons |= ReasonTransformWithCompositedDescendants
		case l.IsolatesCompositedBlending():
			reasons |= ReasonIsolatesCompositedBlendingDescendants
		}
		if l.Style.IsTransparent() {
			reasons |= ReasonOpacityWithCompositedDescendants
		}
		if l.Style.HasFilter() {
			reasons |= ReasonFilterWithCompositedDescendants
		}
		if l.Style.HasBlendMode() {
			reasons |= ReasonBlendingWithCompositedDescendants
		}
		if l.ReflectionLayer() != nil {
			reasons |= ReasonReflectionWithCompositedDescendants
		}
	case layer.IndirectPerspective:
		reasons |= ReasonPerspective
	case layer.IndirectPreserve3D:
		reasons |= ReasonPreserve3D
	}
	if reasons == 0 && c.clipsCompositingDescendants(l) {
		reasons |= ReasonClipsCompositingDescendants
	}
	return reasons
}
