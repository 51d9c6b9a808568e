package layer

import "strings"

// DirtyBits is the set of pending compositing work for a layer.
type DirtyBits uint16

const (
	// RequirementsTraversal: the layer's compositing requirements have to be re-evaluated.
	RequirementsTraversal DirtyBits = 1 << iota
	// PaintOrderChildrenUpdate: the paint-order children of the layer changed.
	PaintOrderChildrenUpdate
	// PostLayoutUpdate: the layer has been laid out since the last update.
	PostLayoutUpdate
	// DescendantNeedsRequirementsTraversal marks the path to a dirty descendant.
	DescendantNeedsRequirementsTraversal
	// AllDescendantsNeedRequirementsTraversal forces re-evaluation of the whole subtree.
	AllDescendantsNeedRequirementsTraversal
	// SubsequentLayersNeedRequirementsTraversal forces re-evaluation of every
	// layer following this one in paint order.
	SubsequentLayersNeedRequirementsTraversal
	// ConfigurationUpdate: the backing has to add or remove sublayers.
	ConfigurationUpdate
	// GeometryUpdate: positions and sizes of the backing's layers are stale.
	GeometryUpdate
	// ChildrenNeedGeometryUpdate: paint-order children need a geometry update.
	ChildrenNeedGeometryUpdate
	// LayerConnection: the layer has to be re-attached to its graphics parent.
	LayerConnection
	// ScrollingTreeUpdate: scrolling nodes of the layer have to be updated.
	ScrollingTreeUpdate
	// DescendantNeedsBackingOrHierarchyTraversal marks the path to a descendant
	// with pending backing or hierarchy work.
	DescendantNeedsBackingOrHierarchyTraversal
)

// requirementsBits are cleared by the requirements pass.
const requirementsBits = RequirementsTraversal | PaintOrderChildrenUpdate | PostLayoutUpdate |
	DescendantNeedsRequirementsTraversal | AllDescendantsNeedRequirementsTraversal |
	SubsequentLayersNeedRequirementsTraversal

// hierarchyBits are cleared by the hierarchy pass.
const hierarchyBits = ConfigurationUpdate | GeometryUpdate | ChildrenNeedGeometryUpdate |
	LayerConnection | ScrollingTreeUpdate | DescendantNeedsBackingOrHierarchyTraversal

var dirtyBitNames = []string{
	"requirements", "paint-order-children", "post-layout", "descendant-requirements",
	"all-descendants-requirements", "subsequent-layers", "configuration", "geometry",
	"children-geometry", "connection", "scrolling-tree", "descendant-hierarchy",
}

func (d DirtyBits) String() string {
	if d == 0 {
		return "clean"
	}
	var names []string
	for i, n := range dirtyBitNames {
		if d&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, "|")
}

// Dirty returns the layer's current dirty bits.
func (l *RenderLayer) Dirty() DirtyBits {
	return l.dirty
}

// IsDirty is true if any of bits is set.
func (l *RenderLayer) IsDirty(bits DirtyBits) bool {
	return l.dirty&bits != 0
}

// --- Requirements traversal ------------------------------------------------

// NeedsCompositingRequirementsTraversal is true if the layer itself has to be
// re-evaluated by the requirements pass.
func (l *RenderLayer) NeedsCompositingRequirementsTraversal() bool {
	return l.IsDirty(RequirementsTraversal | PaintOrderChildrenUpdate | PostLayoutUpdate |
		SubsequentLayersNeedRequirementsTraversal)
}

// HasDescendantNeedingCompositingRequirementsTraversal is true if the
// requirements pass has to descend into this layer's subtree.
func (l *RenderLayer) HasDescendantNeedingCompositingRequirementsTraversal() bool {
	return l.IsDirty(DescendantNeedsRequirementsTraversal | AllDescendantsNeedRequirementsTraversal)
}

// DescendantsNeedCompositingRequirementsTraversal is true if every layer of
// the subtree has to be re-evaluated.
func (l *RenderLayer) DescendantsNeedCompositingRequirementsTraversal() bool {
	return l.IsDirty(AllDescendantsNeedRequirementsTraversal)
}

// SubsequentLayersNeedCompositingRequirementsTraversal is true if layers
// following this one in paint order have to be re-evaluated.
func (l *RenderLayer) SubsequentLayersNeedCompositingRequirementsTraversal() bool {
	return l.IsDirty(SubsequentLayersNeedRequirementsTraversal)
}

// SetNeedsCompositingRequirementsTraversal marks the layer for re-evaluation.
func (l *RenderLayer) SetNeedsCompositingRequirementsTraversal() {
	l.setDirtyWithAncestors(RequirementsTraversal, DescendantNeedsRequirementsTraversal)
}

// SetNeedsPostLayoutCompositingUpdate marks the layer as laid out.
func (l *RenderLayer) SetNeedsPostLayoutCompositingUpdate() {
	l.setDirtyWithAncestors(PostLayoutUpdate, DescendantNeedsRequirementsTraversal)
}

// SetNeedsCompositingPaintOrderChildrenUpdate marks the paint-order children
// of the layer as changed.
func (l *RenderLayer) SetNeedsCompositingPaintOrderChildrenUpdate() {
	l.setDirtyWithAncestors(PaintOrderChildrenUpdate, DescendantNeedsRequirementsTraversal)
}

// SetDescendantsNeedCompositingRequirementsTraversal forces re-evaluation of
// the whole subtree of l.
func (l *RenderLayer) SetDescendantsNeedCompositingRequirementsTraversal() {
	l.setDirtyWithAncestors(AllDescendantsNeedRequirementsTraversal, DescendantNeedsRequirementsTraversal)
}

// SetSubsequentLayersNeedCompositingRequirementsTraversal forces
// re-evaluation of all layers painted after l.
func (l *RenderLayer) SetSubsequentLayersNeedCompositingRequirementsTraversal() {
	l.setDirtyWithAncestors(SubsequentLayersNeedRequirementsTraversal, DescendantNeedsRequirementsTraversal)
}

// ClearCompositingRequirementsTraversalState clears the bits handled by the
// requirements pass.
func (l *RenderLayer) ClearCompositingRequirementsTraversalState() {
	l.dirty &^= requirementsBits
}

// --- Backing and hierarchy traversal ---------------------------------------

// NeedsCompositingConfigurationUpdate is true if the backing has to be
// re-configured.
func (l *RenderLayer) NeedsCompositingConfigurationUpdate() bool {
	return l.IsDirty(ConfigurationUpdate)
}

// NeedsCompositingGeometryUpdate is true if the backing's geometry is stale.
func (l *RenderLayer) NeedsCompositingGeometryUpdate() bool {
	return l.IsDirty(GeometryUpdate)
}

// ChildrenNeedCompositingGeometryUpdate is true if paint-order children need
// a geometry update.
func (l *RenderLayer) ChildrenNeedCompositingGeometryUpdate() bool {
	return l.IsDirty(ChildrenNeedGeometryUpdate)
}

// NeedsCompositingLayerConnection is true if the layer's graphics layers have
// to be re-attached.
func (l *RenderLayer) NeedsCompositingLayerConnection() bool {
	return l.IsDirty(LayerConnection)
}

// NeedsScrollingTreeUpdate is true if the layer's scrolling nodes are stale.
func (l *RenderLayer) NeedsScrollingTreeUpdate() bool {
	return l.IsDirty(ScrollingTreeUpdate)
}

// NeedsUpdateBackingOrHierarchyTraversal is true if the hierarchy pass has to
// process the layer itself.
func (l *RenderLayer) NeedsUpdateBackingOrHierarchyTraversal() bool {
	return l.IsDirty(hierarchyBits &^ DescendantNeedsBackingOrHierarchyTraversal)
}

// HasDescendantNeedingUpdateBackingOrHierarchyTraversal is true if the
// hierarchy pass has to descend into the subtree of l.
func (l *RenderLayer) HasDescendantNeedingUpdateBackingOrHierarchyTraversal() bool {
	return l.IsDirty(DescendantNeedsBackingOrHierarchyTraversal)
}

// SetNeedsCompositingConfigurationUpdate marks the backing for re-configuration.
func (l *RenderLayer) SetNeedsCompositingConfigurationUpdate() {
	l.setDirtyWithAncestors(ConfigurationUpdate, DescendantNeedsBackingOrHierarchyTraversal)
}

// SetNeedsCompositingGeometryUpdate marks the backing's geometry as stale.
func (l *RenderLayer) SetNeedsCompositingGeometryUpdate() {
	l.setDirtyWithAncestors(GeometryUpdate, DescendantNeedsBackingOrHierarchyTraversal)
}

// SetChildrenNeedCompositingGeometryUpdate marks the geometry of all
// paint-order children as stale.
func (l *RenderLayer) SetChildrenNeedCompositingGeometryUpdate() {
	l.setDirtyWithAncestors(ChildrenNeedGeometryUpdate, DescendantNeedsBackingOrHierarchyTraversal)
}

// SetNeedsCompositingLayerConnection marks the layer for re-attachment.
func (l *RenderLayer) SetNeedsCompositingLayerConnection() {
	l.setDirtyWithAncestors(LayerConnection, DescendantNeedsBackingOrHierarchyTraversal)
}

// SetNeedsScrollingTreeUpdate marks the layer's scrolling nodes as stale.
func (l *RenderLayer) SetNeedsScrollingTreeUpdate() {
	l.setDirtyWithAncestors(ScrollingTreeUpdate, DescendantNeedsBackingOrHierarchyTraversal)
}

// SetNeedsCompositingGeometryUpdateOnAncestors marks every paint-order
// ancestor's geometry as stale. Composited bounds of a layer depend on its
// composited descendants.
func (l *RenderLayer) SetNeedsCompositingGeometryUpdateOnAncestors() {
	for p := l.PaintOrderParent(); p != nil; p = p.PaintOrderParent() {
		p.dirty |= GeometryUpdate | DescendantNeedsBackingOrHierarchyTraversal
	}
}

// ClearUpdateBackingOrHierarchyTraversalState clears the bits handled by the
// hierarchy pass.
func (l *RenderLayer) ClearUpdateBackingOrHierarchyTraversalState() {
	l.dirty &^= hierarchyBits
}

// setDirtyWithAncestors sets bits on l and pathBit on every paint-order
// ancestor.
func (l *RenderLayer) setDirtyWithAncestors(bits, pathBit DirtyBits) {
	l.dirty |= bits
	for p := l.PaintOrderParent(); p != nil; p = p.PaintOrderParent() {
		p.dirty |= pathBit
	}
}
