package compositor

import (
	"github.com/npillmayer/compositor/layer"
)

// computeCompositingRequirements decides for l and its paint-order
// descendants whether they will be composited, and creates or destroys
// backings accordingly. Layers are visited in paint order: negative z-order
// children, normal flow children, positive z-order children.
//
// Clean subtrees are handed to traverseUnchangedSubtree, which only
// re-populates the overlap map.
func (c *Compositor) computeCompositingRequirements(ancestor, l *layer.RenderLayer, overlaps *OverlapMap,
	state *compositingState, descendantHas3DTransform *bool) {
	if !l.HasDescendantNeedingCompositingRequirementsTraversal() && !l.NeedsCompositingRequirementsTraversal() &&
		!state.fullPaintOrderTraversalRequired && !state.descendantsRequireCompositingUpdate {
		c.traverseUnchangedSubtree(ancestor, l, overlaps, state, descendantHas3DTransform)
		return
	}
	tracer().Debugf("requirements: visit %v", l)
	l.SetHasCompositingDescendant(false)
	l.SetIndirectCompositingReason(layer.IndirectNone)
	q := queryData{}
	willBeComposited := c.needsToBeComposited(l, &q)
	state.fullPaintOrderTraversalRequired = state.fullPaintOrderTraversalRequired ||
		l.SubsequentLayersNeedCompositingRequirementsTraversal()

	extent := overlapExtent{}
	if willBeComposited && !l.IsRoot() {
		extent.hasTransformAnimation = l.RunningAcceleratedAnimation(layer.AnimatesTransform)
	}
	reason := layer.IndirectNone
	if state.subtreeIsCompositing {
		reason = layer.IndirectStacking
	}
	if !willBeComposited && !overlaps.IsEmpty() && state.testingOverlap {
		overlaps.computeExtent(l, &extent)
		reason = layer.IndirectNone
		if overlaps.Overlaps(extent.bounds) {
			reason = layer.IndirectOverlap
		}
	}
	// Children of a video cannot paint into its backing, as the video is
	// drawn on top of it.
	if anc := state.compositingAncestor; anc != nil && anc.Kind() == layer.Video {
		reason = layer.IndirectOverlap
	}
	if reason != layer.IndirectNone && !l.IsRoot() {
		l.SetIndirectCompositingReason(reason)
	}
	if !willBeComposited && l.MustCompositeForIndirectReasons() && c.canBeComposited(l) {
		willBeComposited = true
	}

	childState := state.stateForPaintOrderChildren(l)
	layerWillComposite := func() {
		willBeComposited = true
		state.subtreeIsCompositing = true
		childState.compositingAncestor = l
		childState.testingOverlap = true
		if !l.IsRoot() {
			overlaps.PushCompositingContainer()
			overlaps.computeExtent(l, &extent)
			childState.ancestorHasTransformAnimation = childState.ancestorHasTransformAnimation ||
				extent.hasTransformAnimation
			// Animated bounds are not computable if an ancestor animates as well.
			extent.animationCausesExtentUncertainty = extent.animationCausesExtentUncertainty ||
				(extent.hasTransformAnimation && state.ancestorHasTransformAnimation)
		}
	}
	if willBeComposited {
		layerWillComposite()
	}

	anyDescendantHas3D := false
	for _, ch := range l.NegativeZOrderLayers() {
		c.computeCompositingRequirements(l, ch, overlaps, &childState, &anyDescendantHas3D)
		// A composited negative z-order child has to paint above l's
		// background, so l needs a layer for its contents.
		if !willBeComposited && childState.subtreeIsCompositing && c.canBeComposited(l) {
			l.SetIndirectCompositingReason(layer.IndirectBackgroundLayer)
			layerWillComposite()
		}
	}
	for _, ch := range l.NormalFlowLayers() {
		c.computeCompositingRequirements(l, ch, overlaps, &childState, &anyDescendantHas3D)
	}
	for _, ch := range l.PositiveZOrderLayers() {
		c.computeCompositingRequirements(l, ch, overlaps, &childState, &anyDescendantHas3D)
	}

	l.SetHasNotIsolatedCompositedBlendingDescendants(childState.hasNotIsolatedCompositedBlendingDescendants)
	if !willBeComposited && !l.IsRoot() && c.canBeComposited(l) {
		if r := c.requiresCompositingForIndirectReason(l, childState.subtreeIsCompositing,
			anyDescendantHas3D); r != layer.IndirectNone {
			l.SetIndirectCompositingReason(r)
			layerWillComposite()
			overlaps.addLayerRecursive(l)
		}
	}
	*descendantHas3DTransform = *descendantHas3DTransform || anyDescendantHas3D || l.Has3DTransform()
	l.SetHas3DTransformedDescendant(anyDescendantHas3D)
	l.SetHasCompositingDescendant(childState.subtreeIsCompositing)

	clips := c.canBeComposited(l) && c.clipsCompositingDescendants(l)
	if clips && !willBeComposited && !l.IsRoot() {
		layerWillComposite()
		overlaps.addLayerRecursive(l)
	}
	if anc := childState.compositingAncestor; anc != nil && !anc.IsRoot() {
		overlaps.addLayer(l, &extent)
	}
	if childState.compositingAncestor == l && !l.IsRoot() {
		overlaps.PopCompositingContainer()
	}

	if l.IsRoot() {
		willBeComposited = c.decideRootCompositing(l, childState.subtreeIsCompositing, &q)
	}
	if c.updateBacking(l, &q, willBeComposited) {
		l.SetNeedsCompositingLayerConnection()
		l.SetChildrenNeedCompositingGeometryUpdate()
		l.SetNeedsCompositingGeometryUpdateOnAncestors()
	}
	if refl := l.ReflectionLayer(); refl != nil && c.updateLayerCompositingState(refl, &q) {
		l.SetNeedsCompositingLayerConnection()
	}
	if l.IsDirty(layer.PaintOrderChildrenUpdate) {
		l.SetChildrenNeedCompositingGeometryUpdate()
		l.SetNeedsCompositingLayerConnection()
	}
	l.ClearCompositingRequirementsTraversalState()
	if q.reevaluateAfterLayout {
		c.deferReevaluation(l)
	}
	state.updateWithDescendantState(childState, l, willBeComposited, clips, &extent, false)
}

// decideRootCompositing decides if the root layer is composited, at the end
// of the requirements pass. If nothing needs compositing, the compositor
// leaves compositing mode, unless the platform keeps it.
func (c *Compositor) decideRootCompositing(root *layer.RenderLayer, subtreeIsCompositing bool, q *queryData) bool {
	if !c.canBeComposited(root) {
		return false
	}
	if subtreeIsCompositing || c.requiresCompositingLayer(root, q) || c.config.ForceCompositingMode {
		return true
	}
	if c.compositing && c.config.Platform.KeepsCompositingWhenIdle() {
		return true
	}
	c.enableCompositingMode(false)
	return false
}

// traverseUnchangedSubtree walks a subtree which needs no re-evaluation. It
// keeps the overlap map and the compositing state in line with the decisions
// of earlier passes.
func (c *Compositor) traverseUnchangedSubtree(ancestor, l *layer.RenderLayer, overlaps *OverlapMap,
	state *compositingState, descendantHas3DTransform *bool) {
	composited := c.backing(l) != nil
	extent := overlapExtent{}
	if composited && !l.IsRoot() {
		extent.hasTransformAnimation = l.RunningAcceleratedAnimation(layer.AnimatesTransform)
	}
	childState := state.stateForPaintOrderChildren(l)
	pushed := false
	if composited {
		childState.compositingAncestor = l
		childState.testingOverlap = true
		if !l.IsRoot() {
			overlaps.PushCompositingContainer()
			pushed = true
			overlaps.computeExtent(l, &extent)
			childState.ancestorHasTransformAnimation = childState.ancestorHasTransformAnimation ||
				extent.hasTransformAnimation
			extent.animationCausesExtentUncertainty = extent.animationCausesExtentUncertainty ||
				(extent.hasTransformAnimation && state.ancestorHasTransformAnimation)
		}
	}
	anyDescendantHas3D := false
	for _, ch := range l.PaintOrderChildren() {
		c.traverseUnchangedSubtree(l, ch, overlaps, &childState, &anyDescendantHas3D)
	}
	*descendantHas3DTransform = *descendantHas3DTransform || anyDescendantHas3D || l.Has3DTransform()
	if anc := childState.compositingAncestor; anc != nil && !anc.IsRoot() {
		overlaps.addLayer(l, &extent)
	}
	if pushed {
		overlaps.PopCompositingContainer()
	}
	clips := composited && c.clipsCompositingDescendants(l)
	state.updateWithDescendantState(childState, l, composited, clips, &extent, true)
}
