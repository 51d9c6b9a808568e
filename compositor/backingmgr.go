package compositor

import (
	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/layer"
)

// updateBacking creates or destroys the backing of l to match required. It
// returns true if the backing changed.
//
// Layout-dependent decisions are never taken speculatively: while layout is
// pending, the predicates report the current state, so no backing is created
// or destroyed on their behalf.
func (c *Compositor) updateBacking(l *layer.RenderLayer, q *queryData, required bool) bool {
	changed := false
	b := c.backing(l)
	if required && b == nil {
		c.enableCompositingMode(true)
		// what was painted into the old container has to go away
		c.repaintOnCompositingChange(l)
		b = newBacking(c, l)
		c.backings[l.ID()] = b
		c.computeRepaintRectsForSubtree(l)
		l.SetNeedsCompositingConfigurationUpdate()
		l.SetNeedsCompositingGeometryUpdate()
		tracer().Debugf("layer %v gets a backing", l)
		changed = true
	} else if !required && b != nil {
		if refl := l.ReflectionLayer(); refl != nil {
			if rb := c.backing(refl); rb != nil {
				rb.graphics.SetReplicatedByLayer(nil)
			}
			b.graphics.SetReplicatedByLayer(nil)
		}
		c.detachScrollCoordinatedLayer(l, allRoles)
		b.destroy()
		delete(c.backings, l.ID())
		c.computeRepaintRectsForSubtree(l)
		c.repaintOnCompositingChange(l)
		tracer().Debugf("layer %v loses its backing", l)
		changed = true
	}
	if b = c.backing(l); b != nil {
		b.reasons = q.reasons.mergeDeferred(b.reasons, q.reevaluateAfterLayout)
	}
	if l.Style.Position.IsFixed() {
		reason := layer.NotCompositedReason(0)
		if !required {
			reason = q.nonCompositedForPositionReason
		}
		if l.ViewportConstrainedNotCompositedReason() != reason {
			l.SetViewportConstrainedNotCompositedReason(reason)
		}
	}
	return changed
}

// updateLayerCompositingState re-evaluates a single layer outside of the
// paint-order walk. It is used for reflections, which are not part of their
// source's z-order lists.
func (c *Compositor) updateLayerCompositingState(l *layer.RenderLayer, q *queryData) bool {
	required := c.needsToBeComposited(l, q)
	if required && l.IsReflection() {
		l.SetIndirectCompositingReason(layer.IndirectStacking)
	} else if !required {
		l.SetIndirectCompositingReason(layer.IndirectNone)
	}
	changed := c.updateBacking(l, q, required)
	l.ClearCompositingRequirementsTraversalState()
	return changed
}

// destroyBackingsInSubtree tears down the backings of a subtree which is
// about to be removed.
func (c *Compositor) destroyBackingsInSubtree(l *layer.RenderLayer) {
	for _, ch := range l.ChildLayers() {
		c.destroyBackingsInSubtree(ch)
	}
	if refl := l.ReflectionLayer(); refl != nil {
		c.destroyBackingsInSubtree(refl)
	}
	if b := c.backing(l); b != nil {
		c.detachScrollCoordinatedLayer(l, allRoles)
		b.destroy()
		delete(c.backings, l.ID())
	}
}

// --- Coordinates -------------------------------------------------------------

// offsetFromRoot returns the origin of l in root coordinates, ignoring
// transforms.
func (c *Compositor) offsetFromRoot(l *layer.RenderLayer) geom.Point {
	p := l.ParentLayer()
	switch {
	case p == nil:
		return l.Offset
	case l.Style.Position.IsFixed() && !c.hasTransformedAncestor(l):
		return c.view.ScrollPosition.Add(l.Offset)
	}
	return c.offsetFromRoot(p).Add(l.Offset).Sub(p.ScrollOffset)
}

// enclosingCompositedAncestor returns the nearest paint-order ancestor of l
// which has a backing.
func (c *Compositor) enclosingCompositedAncestor(l *layer.RenderLayer) *layer.RenderLayer {
	for p := l.PaintOrderParent(); p != nil; p = p.PaintOrderParent() {
		if c.backing(p) != nil {
			return p
		}
	}
	return nil
}

// hasCompositedNegativeZOrderChild is true if a negative z-order child of l
// paints into a backing of its own.
func (c *Compositor) hasCompositedNegativeZOrderChild(l *layer.RenderLayer) bool {
	for _, ch := range l.NegativeZOrderLayers() {
		if c.backing(ch) != nil || ch.HasCompositingDescendant() {
			return true
		}
	}
	return false
}

// compositedBounds returns the bounds the backing of l has to cover, in
// local coordinates of l: its own bounds united with every descendant
// painting into it.
func (c *Compositor) compositedBounds(l *layer.RenderLayer) geom.Rect {
	if l.IsRoot() {
		return c.view.documentRect()
	}
	bounds := l.OverlapBounds()
	var desc geom.Rect
	for _, ch := range l.PaintOrderChildren() {
		desc = desc.Union(c.paintedBounds(ch, l))
	}
	if clip, ok := l.ClipRect(); ok {
		desc = desc.Intersect(clip)
	}
	return bounds.Union(desc)
}

// paintedBounds returns the bounds of a non-composited layer and its
// non-composited descendants, in coordinates of anc.
func (c *Compositor) paintedBounds(l, anc *layer.RenderLayer) geom.Rect {
	if c.backing(l) != nil || l.Style.Position.IsFixed() {
		return geom.Rect{}
	}
	t := c.transformToAncestor(l, anc)
	r := t.MapRect(l.OverlapBounds())
	for _, ch := range l.PaintOrderChildren() {
		r = r.Union(c.paintedBounds(ch, anc))
	}
	return r
}

// transformToAncestor maps local coordinates of l to coordinates of anc.
func (c *Compositor) transformToAncestor(l, anc *layer.RenderLayer) geom.Transform {
	t := l.LocalTransform()
	for cur := l; cur != anc && cur.ParentLayer() != nil; cur = cur.ParentLayer() {
		p := cur.ParentLayer()
		t = translation(cur.Offset.Sub(p.ScrollOffset)).Multiply(t)
		if p != anc {
			t = p.LocalTransform().Multiply(t)
		}
	}
	return t
}

// --- Repaints ----------------------------------------------------------------

// repaintContainer returns the nearest paint-order ancestor-or-self of l with
// a backing.
func (c *Compositor) repaintContainer(l *layer.RenderLayer) *layer.RenderLayer {
	for p := l; p != nil; p = p.PaintOrderParent() {
		if c.backing(p) != nil {
			return p
		}
	}
	return nil
}

// computeRepaintRectsForSubtree caches the repaint rects of l and its
// descendants, relative to their repaint containers.
func (c *Compositor) computeRepaintRectsForSubtree(l *layer.RenderLayer) {
	g := newGeometryMap(c.view)
	var walk func(*layer.RenderLayer)
	walk = func(cur *layer.RenderLayer) {
		r := g.absoluteRect(cur, cur.OverlapBounds())
		if cont := c.repaintContainer(cur); cont != nil {
			b := c.backing(cont)
			r = r.Sub(c.offsetFromRoot(cont).Add(b.compositedBounds.Min))
		}
		cur.SetRepaintRect(r)
		for _, ch := range cur.PaintOrderChildren() {
			walk(ch)
		}
	}
	walk(l)
}

// repaintOnCompositingChange invalidates the area of l in its repaint
// container, which l paints into or no longer paints into.
func (c *Compositor) repaintOnCompositingChange(l *layer.RenderLayer) {
	anc := l.PaintOrderParent()
	if anc == nil {
		return
	}
	cont := c.repaintContainer(anc)
	if cont == nil {
		return
	}
	b := c.backing(cont)
	g := newGeometryMap(c.view)
	r := g.absoluteRect(l, l.OverlapBounds()).Sub(c.offsetFromRoot(cont).Add(b.compositedBounds.Min))
	b.setContentsNeedDisplayInRect(r)
}
