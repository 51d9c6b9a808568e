package compositor

import (
	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/layer"
	"github.com/npillmayer/compositor/scrolling"
	"github.com/npillmayer/compositor/style"
)

// scrollingTreeState is passed down the hierarchy pass. Scrolling nodes of
// a layer are inserted under parentNodeID, at nextChildIndex.
type scrollingTreeState struct {
	parentNodeID   scrolling.NodeID
	nextChildIndex int
}

// scrollingRoles is a set of scrollingRole.
type scrollingRoles uint8

const allRoles scrollingRoles = 1<<viewportConstrainedRole | 1<<scrollingNodeRole | 1<<frameHostingRole

func (r scrollingRoles) has(role scrollingRole) bool {
	return r&(1<<role) != 0
}

// scrollingCoordinator returns the coordinator to register nodes with, or
// nil. A child frame coordinates only if its owner layer has a frame hosting
// node to attach to.
func (c *Compositor) scrollingCoordinator() scrolling.Coordinator {
	if c.config.Scrolling == nil {
		return nil
	}
	if !c.view.MainFrame && c.frameHostingNodeID() == scrolling.NoNode {
		return nil
	}
	return c.config.Scrolling
}

// frameHostingNodeID returns the frame hosting node of this compositor's
// owner layer in the parent frame, or NoNode.
func (c *Compositor) frameHostingNodeID() scrolling.NodeID {
	parent, owner := c.config.parent, c.config.ownerLayer
	if parent == nil || owner == nil {
		return scrolling.NoNode
	}
	if b := parent.backing(owner); b != nil {
		return b.ScrollingNodeID(scrolling.FrameHostingNode)
	}
	return scrolling.NoNode
}

// coordinatedScrollingRoles returns the roles l plays in the scrolling tree.
func (c *Compositor) coordinatedScrollingRoles(l *layer.RenderLayer) scrollingRoles {
	var roles scrollingRoles
	if c.backing(l) == nil {
		return 0
	}
	if isViewportConstrained(l.Style.Position) && c.config.AcceleratedCompositingForFixedPosition {
		roles |= 1 << viewportConstrainedRole
	}
	if l.IsRoot() {
		if c.view.MainFrame || c.config.Features.AsyncFrameScrolling {
			roles |= 1 << scrollingNodeRole
		}
	} else if c.usesCompositedScrolling(l) {
		roles |= 1 << scrollingNodeRole
	}
	if f, ok := l.Frame(); ok && f.Child != nil && c.config.Features.AsyncFrameScrolling {
		roles |= 1 << frameHostingRole
	}
	return roles
}

// updateScrollCoordinationForLayer registers the scrolling nodes of l and
// pushes their layers, geometry and constraints. It returns the node
// descendants attach to and whether nodes were created or destroyed.
func (c *Compositor) updateScrollCoordinationForLayer(l *layer.RenderLayer,
	treeState *scrollingTreeState) (scrolling.NodeID, bool) {
	sc := c.scrollingCoordinator()
	if sc == nil {
		return treeState.parentNodeID, false
	}
	b := c.backing(l)
	roles := c.coordinatedScrollingRoles(l)
	structureChanged := c.detachScrollCoordinatedLayer(l, allRoles&^roles)
	if roles == 0 {
		return treeState.parentNodeID, structureChanged
	}
	needsUpdate := l.NeedsCompositingGeometryUpdate() || l.NeedsScrollingTreeUpdate() ||
		l.NeedsCompositingConfigurationUpdate()
	parentID := treeState.parentNodeID
	st := treeState
	if roles.has(viewportConstrainedRole) {
		typ := style.PositionPattern[scrolling.NodeType](l.Style.Position).OneOf(
			style.PositionPatterns[scrolling.NodeType]{
				Fixed:  scrolling.FixedNode,
				Sticky: scrolling.StickyNode,
			})
		id, created := c.attachScrollingNode(l, viewportConstrainedRole, typ, st)
		if id != scrolling.NoNode {
			if created || needsUpdate {
				sc.SetNodeLayers(id, scrolling.NodeLayers{Layer: b.graphics})
				sc.SetViewportConstraints(id, c.viewportConstraints(l))
			}
			parentID = id
			st = &scrollingTreeState{parentNodeID: id}
		}
		structureChanged = structureChanged || created
	}
	if roles.has(scrollingNodeRole) {
		typ := scrolling.OverflowNode
		if l.IsRoot() {
			typ = scrolling.SubframeNode
			if c.view.MainFrame {
				typ = scrolling.MainFrameNode
			}
		}
		id, created := c.attachScrollingNode(l, scrollingNodeRole, typ, st)
		if id != scrolling.NoNode {
			if created || needsUpdate {
				c.pushScrollingNodeState(l, id)
			}
			parentID = id
		}
		structureChanged = structureChanged || created
	}
	if roles.has(frameHostingRole) {
		id, created := c.attachScrollingNode(l, frameHostingRole, scrolling.FrameHostingNode, st)
		if id != scrolling.NoNode {
			if created || needsUpdate {
				sc.SetNodeLayers(id, scrolling.NodeLayers{Layer: b.graphics})
			}
			parentID = id
		}
		structureChanged = structureChanged || created
	}
	return parentID, structureChanged
}

// attachScrollingNode inserts the node of a role of l into the scrolling
// tree. A node whose type changed is destroyed and replaced by a new one.
func (c *Compositor) attachScrollingNode(l *layer.RenderLayer, role scrollingRole, typ scrolling.NodeType,
	st *scrollingTreeState) (scrolling.NodeID, bool) {
	sc := c.config.Scrolling
	b := c.backing(l)
	n := b.nodes[role]
	created := false
	if n.id != scrolling.NoNode && n.typ != typ {
		c.forgetScrollingDescendants(n.id)
		sc.DetachAndDestroySubtree(n.id)
		delete(c.scrollingNodes, n.id)
		n = roleNode{}
	}
	if n.id == scrolling.NoNode {
		n = roleNode{id: sc.UniqueNodeID(), typ: typ}
		created = true
	}
	if sc.InsertNode(typ, n.id, st.parentNodeID, st.nextChildIndex) == scrolling.NoNode {
		tracer().Errorf("cannot attach %v scrolling node for layer %v", typ, l)
		b.nodes[role] = roleNode{}
		delete(c.scrollingNodes, n.id)
		return scrolling.NoNode, created
	}
	b.nodes[role] = n
	c.scrollingNodes[n.id] = l.ID()
	st.nextChildIndex++
	return n.id, created
}

// forgetScrollingDescendants clears the roles of the layers owning nodes
// below id, which is about to be destroyed with its subtree. The nodes are
// re-created when the hierarchy pass visits their layers.
func (c *Compositor) forgetScrollingDescendants(id scrolling.NodeID) {
	for _, ch := range c.config.Scrolling.ChildrenOfNode(id) {
		c.forgetScrollingDescendants(ch)
		lid, ok := c.scrollingNodes[ch]
		if !ok {
			continue
		}
		delete(c.scrollingNodes, ch)
		l := c.view.Layers.Layer(lid)
		if l == nil {
			continue
		}
		if b := c.backing(l); b != nil {
			for role := range b.nodes {
				if b.nodes[role].id == ch {
					b.nodes[role] = roleNode{}
				}
			}
		}
	}
}

// detachScrollCoordinatedLayer destroys the nodes of l for roles. Children
// of destroyed nodes stay alive, to be re-parented by the hierarchy pass. It
// returns true if a node was destroyed.
func (c *Compositor) detachScrollCoordinatedLayer(l *layer.RenderLayer, roles scrollingRoles) bool {
	b := c.backing(l)
	if b == nil {
		return false
	}
	detached := false
	for role := viewportConstrainedRole; role < roleCount; role++ {
		n := b.nodes[role]
		if !roles.has(role) || n.id == scrolling.NoNode {
			continue
		}
		if c.config.Scrolling != nil {
			c.config.Scrolling.UnparentChildrenAndDestroyNode(n.id)
		}
		delete(c.scrollingNodes, n.id)
		b.nodes[role] = roleNode{}
		detached = true
	}
	return detached
}

// LayerForScrollingNode returns the render layer owning a scrolling node, or
// nil.
func (c *Compositor) LayerForScrollingNode(id scrolling.NodeID) *layer.RenderLayer {
	lid, ok := c.scrollingNodes[id]
	if !ok {
		return nil
	}
	return c.view.Layers.Layer(lid)
}

// pushScrollingNodeState hands layers and geometry of a scrolling node to
// the coordinator.
func (c *Compositor) pushScrollingNodeState(l *layer.RenderLayer, id scrolling.NodeID) {
	sc := c.config.Scrolling
	b := c.backing(l)
	if l.IsRoot() {
		sc.SetNodeLayers(id, scrolling.NodeLayers{
			Layer:               c.RootGraphicsLayer(),
			ScrollContainer:     c.clipLayer,
			ScrolledContents:    c.scrollLayer,
			HorizontalScrollbar: c.hScrollbar,
			VerticalScrollbar:   c.vScrollbar,
		})
		sc.SetNodeGeometry(id, c.frameScrollingGeometry())
		return
	}
	sc.SetNodeLayers(id, scrolling.NodeLayers{
		Layer:            b.graphics,
		ScrollContainer:  b.scrollContainer,
		ScrolledContents: b.scrolledContents,
	})
	clip, _ := l.ClipRect()
	sc.SetNodeGeometry(id, scrolling.Geometry{
		ParentRelativeScrollableRect: clip.Add(b.graphics.Position()).Sub(b.compositedBounds.Min),
		ScrollPosition:               l.ScrollOffset,
		ScrollableAreaSize:           geom.SizeOf(clip),
		TotalContentsSize:            l.ScrollSize,
		ReachableContentsSize:        l.ScrollSize,
	})
}

// frameScrollingGeometry returns the geometry of the frame's scrolling node.
func (c *Compositor) frameScrollingGeometry() scrolling.Geometry {
	v := c.view
	return scrolling.Geometry{
		ParentRelativeScrollableRect: geom.RectAt(geom.Point{}, v.ViewportSize),
		ScrollPosition:               v.ScrollPosition,
		ScrollableAreaSize:           v.ViewportSize,
		TotalContentsSize:            v.ContentsSize,
		ReachableContentsSize:        geom.SizeOf(v.documentRect()),
	}
}

// viewportConstraints computes the constraints of a fixed or sticky layer.
func (c *Compositor) viewportConstraints(l *layer.RenderLayer) scrolling.ViewportConstraints {
	b := c.backing(l)
	pos := l.Style.Position
	edges := anchorEdges(pos)
	if pos.IsFixed() {
		if edges == 0 {
			edges = scrolling.EdgeSet(scrolling.Top, scrolling.Left)
		}
		return scrolling.FixedConstraints{
			ViewportRectAtLastLayout:  c.view.VisibleContentRect(),
			LayerPositionAtLastLayout: b.graphics.Position(),
			AnchorEdges:               edges,
		}
	}
	constraining := c.view.VisibleContentRect()
	if p := l.AncestorWith((*layer.RenderLayer).IsScrollContainer); p != nil {
		clip, _ := p.ClipRect()
		constraining = clip.Add(c.offsetFromRoot(p)).Add(p.ScrollOffset)
	}
	var containing geom.Rect
	if p := l.ParentLayer(); p != nil {
		containing = p.BorderBox().Add(c.offsetFromRoot(p))
	}
	sticky := scrolling.StickyConstraints{
		ConstrainingRectAtLastLayout: constraining,
		StickyBoxRect:                l.BorderBox().Add(c.offsetFromRoot(l)),
		ContainingBlockRect:          containing,
		LayerPositionAtLastLayout:    b.graphics.Position(),
		AnchorEdges:                  edges,
	}
	for dir := style.Top; dir <= style.Left; dir++ {
		base := geom.Height(constraining)
		if dir == style.Left || dir == style.Right {
			base = geom.Width(constraining)
		}
		if u, ok := pos.Offset(dir).Resolve(base); ok {
			sticky.Offsets[dir] = u
		}
	}
	return sticky
}

// isViewportConstrained is true for fixed and sticky positions.
func isViewportConstrained(pos style.PositionT) bool {
	return style.PositionPattern[bool](pos).OneOf(style.PositionPatterns[bool]{
		Fixed:  true,
		Sticky: true,
	})
}

// anchorEdges returns the edges of a fixed or sticky position with a
// non-auto offset.
func anchorEdges(pos style.PositionT) scrolling.Edges {
	var offsets []style.PositionOffset
	if pos.Match().Fixed(&offsets) == nil && pos.Match().Sticky(&offsets) == nil {
		return 0
	}
	var edges scrolling.Edges
	for _, o := range offsets {
		if !o.Len.IsAuto() {
			edges |= scrolling.EdgeSet(scrolling.Edge(o.Dir))
		}
	}
	return edges
}
