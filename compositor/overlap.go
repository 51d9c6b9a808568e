package compositor

import (
	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/layer"
)

// OverlapMap collects the bounds of everything painted so far during a
// requirements pass, in root coordinates. Bounds are kept in a stack of
// containers, one for every compositing container entered. Overlap is tested
// against the innermost container only: content of an enclosing container is
// painted into other backings and cannot be overdrawn by the current one.
//
// An OverlapMap lives for a single requirements pass.
type OverlapMap struct {
	stack    []overlapContainer
	geometry *geometryMap
	isEmpty  bool
}

type overlapContainer struct {
	rects  []geom.Rect
	bounds geom.Rect
}

func (oc *overlapContainer) add(r geom.Rect) {
	oc.rects = append(oc.rects, r)
	oc.bounds = oc.bounds.Union(r)
}

func (oc *overlapContainer) overlaps(r geom.Rect) bool {
	if !geom.Overlaps(oc.bounds, r) {
		return false
	}
	for _, cr := range oc.rects {
		if geom.Overlaps(cr, r) {
			return true
		}
	}
	return false
}

func (oc *overlapContainer) unite(other *overlapContainer) {
	oc.rects = append(oc.rects, other.rects...)
	oc.bounds = oc.bounds.Union(other.bounds)
}

// NewOverlapMap creates an overlap map with a single, empty container.
func NewOverlapMap(view *View) *OverlapMap {
	return &OverlapMap{
		stack:    []overlapContainer{{}},
		geometry: newGeometryMap(view),
		isEmpty:  true,
	}
}

// IsEmpty is true if no bounds have been added since the map was created.
func (m *OverlapMap) IsEmpty() bool {
	return m.isEmpty
}

// Add adds bounds to the innermost container. Empty rects are ignored.
func (m *OverlapMap) Add(r geom.Rect) {
	if r.Empty() {
		return
	}
	m.stack[len(m.stack)-1].add(r)
	m.isEmpty = false
}

// Overlaps tests r against the innermost container.
func (m *OverlapMap) Overlaps(r geom.Rect) bool {
	return m.stack[len(m.stack)-1].overlaps(r)
}

// PushCompositingContainer starts a new container.
func (m *OverlapMap) PushCompositingContainer() {
	m.stack = append(m.stack, overlapContainer{})
}

// PopCompositingContainer merges the innermost container into its parent.
// Popping the outermost container is a programming error.
func (m *OverlapMap) PopCompositingContainer() {
	assertThat(len(m.stack) > 1, "overlap map: pop without push")
	top := len(m.stack) - 1
	m.stack[top-1].unite(&m.stack[top])
	m.stack = m.stack[:top]
}

// Depth returns the number of containers on the stack.
func (m *OverlapMap) Depth() int {
	return len(m.stack)
}

// computeExtent computes the root-coordinate bounds of l, once.
// For a layer running a transform animation, the bounds enclose every
// position the animation may move the layer to. If these cannot be computed,
// the extent is marked as uncertain.
func (m *OverlapMap) computeExtent(l *layer.RenderLayer, extent *overlapExtent) {
	if extent.extentComputed {
		return
	}
	extent.hasTransformAnimation = extent.hasTransformAnimation ||
		l.RunningAcceleratedAnimation(layer.AnimatesTransform)
	if extent.hasTransformAnimation {
		toRoot := m.geometry.toRoot(l, false)
		if animated, ok := l.AnimatedBounds(); ok {
			extent.bounds = toRoot.MapRect(animated)
		} else {
			extent.animationCausesExtentUncertainty = true
			extent.bounds = toRoot.MapRect(l.OverlapBounds())
		}
	} else {
		extent.bounds = m.geometry.absoluteRect(l, l.OverlapBounds())
	}
	extent.bounds = geom.AtLeastOnePixel(extent.bounds)
	if l.Style.Position.IsFixed() && l.IsStackingContext() && !m.geometry.hasTransformedAncestor(l) {
		extent.bounds = m.geometry.inflateForScrolling(extent.bounds)
	}
	extent.extentComputed = true
}

// addLayer adds the extent of l, clipped by its ancestors' clips. Layers with
// uncertain extent are added with their clip rect, as they may end up
// anywhere inside it.
func (m *OverlapMap) addLayer(l *layer.RenderLayer, extent *overlapExtent) {
	if l.IsRoot() {
		return
	}
	m.computeExtent(l, extent)
	clip := m.geometry.clipFor(l)
	if extent.animationCausesExtentUncertainty {
		if geom.IsInfinite(clip) {
			clip = m.geometry.view.documentRect()
		}
		m.Add(clip)
		return
	}
	m.Add(clip.Intersect(extent.bounds))
}

// addLayerRecursive adds l and all its paint-order descendants.
func (m *OverlapMap) addLayerRecursive(l *layer.RenderLayer) {
	var extent overlapExtent
	m.addLayer(l, &extent)
	for _, ch := range l.PaintOrderChildren() {
		m.addLayerRecursive(ch)
	}
}

// --- Geometry map -------------------------------------------------------------

// geometryMap maps local layer coordinates to root coordinates. Mappings of
// ancestors are cached for the lifetime of a requirements pass.
type geometryMap struct {
	view    *View
	toRoots map[*layer.RenderLayer]geom.Transform
	clips   map[*layer.RenderLayer]geom.Rect
}

func newGeometryMap(view *View) *geometryMap {
	return &geometryMap{
		view:    view,
		toRoots: make(map[*layer.RenderLayer]geom.Transform),
		clips:   make(map[*layer.RenderLayer]geom.Rect),
	}
}

// toRoot returns the transform from l's local coordinates to root
// coordinates. If respectTransforms is false, l's own transform is ignored;
// ancestor transforms always apply.
func (g *geometryMap) toRoot(l *layer.RenderLayer, respectTransforms bool) geom.Transform {
	if respectTransforms {
		if t, ok := g.toRoots[l]; ok {
			return t
		}
	}
	t := g.parentToRoot(l)
	if respectTransforms {
		t = t.Multiply(l.LocalTransform())
		g.toRoots[l] = t
	}
	return t
}

// parentToRoot maps l's local coordinates to root coordinates, without l's
// own transform.
func (g *geometryMap) parentToRoot(l *layer.RenderLayer) geom.Transform {
	p := l.ParentLayer()
	switch {
	case p == nil:
		return translation(l.Offset)
	case l.Style.Position.IsFixed() && !g.hasTransformedAncestor(l):
		return translation(g.view.ScrollPosition.Add(l.Offset))
	}
	return g.toRoot(p, true).Multiply(translation(l.Offset.Sub(p.ScrollOffset)))
}

// absoluteRect maps a rect in l's local coordinates to root coordinates.
func (g *geometryMap) absoluteRect(l *layer.RenderLayer, r geom.Rect) geom.Rect {
	return g.toRoot(l, true).MapRect(r)
}

// clipFor returns the clip rect which applies to l, in root coordinates.
// It is infinite for unclipped layers.
func (g *geometryMap) clipFor(l *layer.RenderLayer) geom.Rect {
	if c, ok := g.clips[l]; ok {
		return c
	}
	clip := geom.Infinite()
	p := l.ParentLayer()
	if p != nil && !(l.Style.Position.IsFixed() && !g.hasTransformedAncestor(l)) {
		clip = g.clipFor(p)
		if r, ok := p.ClipRect(); ok {
			clip = clip.Intersect(g.toRoot(p, true).MapRect(r))
		}
	}
	g.clips[l] = clip
	return clip
}

func (g *geometryMap) hasTransformedAncestor(l *layer.RenderLayer) bool {
	return l.AncestorWith((*layer.RenderLayer).HasTransform) != nil
}

// inflateForScrolling extends the bounds of a fixed layer by the range the
// document may still be scrolled, as the layer may end up anywhere within it.
func (g *geometryMap) inflateForScrolling(r geom.Rect) geom.Rect {
	v := g.view
	maxX := v.ContentsSize.W - v.ViewportSize.W
	maxY := v.ContentsSize.H - v.ViewportSize.H
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	r.Min.X -= v.ScrollPosition.X
	r.Min.Y -= v.ScrollPosition.Y
	r.Max.X += maxX - v.ScrollPosition.X
	r.Max.Y += maxY - v.ScrollPosition.Y
	return r
}

func translation(p geom.Point) geom.Transform {
	if p.X == 0 && p.Y == 0 {
		return geom.Identity()
	}
	return geom.Translation(geom.Float(p.X), geom.Float(p.Y))
}
