package compositor

import (
	"github.com/npillmayer/compositor/graphics"
	"github.com/npillmayer/compositor/layer"
)

// updateLevel tells the hierarchy pass how much of a subtree to update,
// independent of dirty bits.
type updateLevel uint8

const (
	updateAllDescendants updateLevel = 1 << iota
	updateCompositedChildren
)

// updateBackingAndHierarchy updates the backing of l, collects the graphics
// layers of its composited paint-order descendants and attaches them in
// paint order. l's own top graphics layer is appended to childList.
func (c *Compositor) updateBackingAndHierarchy(l *layer.RenderLayer, childList *[]*graphics.Layer,
	treeState *scrollingTreeState, level updateLevel, depth int) {
	layerNeedsUpdate := level != 0
	if l.NeedsUpdateBackingOrHierarchyTraversal() {
		layerNeedsUpdate = true
	}
	tracer().Debugf("hierarchy: %*svisit %v", depth*2, "", l)

	b := c.backing(l)
	childLevel := level
	stateForDescendants := *treeState
	if b != nil {
		childLevel &^= updateCompositedChildren
		if b.updateCompositedBounds() {
			l.SetNeedsCompositingGeometryUpdate()
			childLevel |= updateCompositedChildren
		}
		if layerNeedsUpdate || l.NeedsCompositingConfigurationUpdate() {
			if b.updateConfiguration() {
				l.SetNeedsCompositingLayerConnection()
			}
			l.SetNeedsCompositingGeometryUpdate()
		}
		if layerNeedsUpdate || l.NeedsCompositingGeometryUpdate() {
			b.updateGeometry()
		}
		if refl := l.ReflectionLayer(); refl != nil {
			if rb := c.backing(refl); rb != nil {
				rb.updateCompositedBounds()
				rb.updateConfiguration()
				rb.updateGeometry()
				refl.ClearUpdateBackingOrHierarchyTraversalState()
			}
		}
		nodeID, structureChanged := c.updateScrollCoordinationForLayer(l, treeState)
		if nodeID != treeState.parentNodeID {
			stateForDescendants = scrollingTreeState{parentNodeID: nodeID}
		}
		if structureChanged {
			childLevel |= updateAllDescendants
		}
	}
	if l.ChildrenNeedCompositingGeometryUpdate() {
		childLevel |= updateCompositedChildren
	}

	requireDescendantTraversal := l.HasDescendantNeedingUpdateBackingOrHierarchyTraversal() ||
		(l.HasCompositingDescendant() && (b == nil || l.NeedsCompositingLayerConnection() || childLevel != 0))
	requiresChildRebuild := b != nil && l.NeedsCompositingLayerConnection() && !l.HasCompositingDescendant()

	var children []*graphics.Layer
	list := childList
	if b != nil {
		list = &children
	}
	if requireDescendantTraversal {
		negZ := l.NegativeZOrderLayers()
		for _, ch := range negZ {
			c.updateBackingAndHierarchy(ch, list, &stateForDescendants, childLevel, depth+1)
		}
		if b != nil && b.foreground != nil && len(negZ) > 0 {
			*list = append(*list, b.foreground)
		}
		for _, ch := range l.NormalFlowLayers() {
			c.updateBackingAndHierarchy(ch, list, &stateForDescendants, childLevel, depth+1)
		}
		for _, ch := range l.PositiveZOrderLayers() {
			c.updateBackingAndHierarchy(ch, list, &stateForDescendants, childLevel, depth+1)
		}
	}
	if b != nil {
		if !c.parentFrameContentLayers(l) && (requireDescendantTraversal || requiresChildRebuild) {
			if b.parentForSublayers().SetChildLayers(children) {
				tracer().Debugf("hierarchy: re-attached %d children of %v", len(children), l)
			}
		}
		*childList = append(*childList, b.childForSuperlayers())
	}
	if stateForDescendants.parentNodeID == treeState.parentNodeID {
		treeState.nextChildIndex = stateForDescendants.nextChildIndex
	}
	l.ClearUpdateBackingOrHierarchyTraversalState()
}

// parentFrameContentLayers attaches the root graphics layer of a composited
// child frame to the backing of its owner layer. It returns false if l does
// not host such a frame.
func (c *Compositor) parentFrameContentLayers(l *layer.RenderLayer) bool {
	f, ok := l.Frame()
	if !ok || f.Child == nil || !f.Child.UsesCompositing() {
		return false
	}
	b := c.backing(l)
	if b == nil {
		return false
	}
	root := f.Child.RootGraphicsLayer()
	if root == nil {
		return false
	}
	b.parentForSublayers().SetChildLayers([]*graphics.Layer{root})
	return true
}
