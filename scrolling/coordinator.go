package scrolling

import (
	"fmt"
	"strings"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/graphics"
)

// NodeID identifies a scrolling node. IDs are allocated by the coordinator
// and never reused.
type NodeID uint64

// NoNode is the null node ID.
const NoNode NodeID = 0

// NodeType is the kind of a scrolling node.
type NodeType uint8

const (
	MainFrameNode NodeType = iota
	SubframeNode
	OverflowNode
	FrameHostingNode
	FixedNode
	StickyNode
)

var nodeTypeNames = []string{"MainFrame", "Subframe", "Overflow", "FrameHosting", "Fixed", "Sticky"}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// IsViewportConstrained is true for fixed and sticky nodes.
func (t NodeType) IsViewportConstrained() bool {
	return t == FixedNode || t == StickyNode
}

// IsScrolling is true for nodes of scrollable areas.
func (t NodeType) IsScrolling() bool {
	return t == MainFrameNode || t == SubframeNode || t == OverflowNode
}

// ChangeFlags select which parts of a node's state the compositor pushes.
type ChangeFlags uint8

const (
	ChangeLayer         ChangeFlags = 1 << iota // graphics layers of the node
	ChangeLayerGeometry                         // geometry or constraints of the node
)

// ChangeAll selects every part of a node's state.
const ChangeAll = ChangeLayer | ChangeLayerGeometry

func (f ChangeFlags) String() string {
	var s []string
	if f&ChangeLayer != 0 {
		s = append(s, "layer")
	}
	if f&ChangeLayerGeometry != 0 {
		s = append(s, "geometry")
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "|")
}

// NodeLayers are the graphics layers a scrolling node operates on. Unused
// entries are nil.
type NodeLayers struct {
	Layer               *graphics.Layer // primary layer, moved by viewport-constrained nodes
	ScrollContainer     *graphics.Layer // clips the scrolled contents
	ScrolledContents    *graphics.Layer // moved when scrolling
	HorizontalScrollbar *graphics.Layer
	VerticalScrollbar   *graphics.Layer
}

// Geometry is a snapshot of a scrolling node's geometry.
type Geometry struct {
	ParentRelativeScrollableRect geom.Rect  // visible scroll area, relative to the parent node's layer
	ScrollOrigin                 geom.Point // origin of the scroll position range
	ScrollPosition               geom.Point
	ScrollableAreaSize           geom.Size
	TotalContentsSize            geom.Size
	ReachableContentsSize        geom.Size
}

// ViewportConstraints are the positioning constraints of a fixed or sticky
// node. Implemented by FixedConstraints and StickyConstraints.
type ViewportConstraints interface {
	ConstraintType() NodeType
}

// FixedConstraints position a fixed layer relative to the viewport.
type FixedConstraints struct {
	ViewportRectAtLastLayout  geom.Rect
	LayerPositionAtLastLayout geom.Point
	AnchorEdges               Edges
}

// ConstraintType returns FixedNode.
func (FixedConstraints) ConstraintType() NodeType { return FixedNode }

// StickyConstraints position a sticky layer within its containing block.
type StickyConstraints struct {
	ConstrainingRectAtLastLayout geom.Rect
	StickyBoxRect                geom.Rect
	ContainingBlockRect          geom.Rect
	LayerPositionAtLastLayout    geom.Point
	AnchorEdges                  Edges
	Offsets                      [4]geom.Unit // indexed by Edge
}

// ConstraintType returns StickyNode.
func (StickyConstraints) ConstraintType() NodeType { return StickyNode }

// Edge is one edge of a box.
type Edge uint8

const (
	Top Edge = iota
	Right
	Bottom
	Left
)

// Edges is a set of box edges.
type Edges uint8

// EdgeSet creates a set of edges.
func EdgeSet(edges ...Edge) Edges {
	var s Edges
	for _, e := range edges {
		s |= 1 << e
	}
	return s
}

// Has is true if e is in the set.
func (s Edges) Has(e Edge) bool {
	return s&(1<<e) != 0
}

// NoChildIndex appends a node to its parent's children.
const NoChildIndex = -1

// Coordinator is the interface of a scroll coordination subsystem.
//
// Nodes are inserted with a parent and a child slot. Re-inserting an existing
// node with the same type moves it to the new parent and slot. Inserting a
// node with parent NoNode makes it the root.
type Coordinator interface {
	// UniqueNodeID allocates a fresh node ID.
	UniqueNodeID() NodeID
	// InsertNode inserts or moves a node. It returns the node's ID, or NoNode
	// if the node could not be inserted.
	InsertNode(t NodeType, id, parent NodeID, childIndex int) NodeID
	// UnparentNode detaches a node from its parent, keeping it for later
	// re-insertion.
	UnparentNode(id NodeID)
	// UnparentChildrenAndDestroyNode destroys a node. Its children are kept
	// unparented.
	UnparentChildrenAndDestroyNode(id NodeID)
	// DetachAndDestroySubtree destroys a node and all its descendants.
	DetachAndDestroySubtree(id NodeID)
	// ClearAllNodes destroys every node.
	ClearAllNodes()
	// ParentOfNode returns the parent of a node, or NoNode.
	ParentOfNode(id NodeID) NodeID
	// ChildrenOfNode returns the children of a node, in order.
	ChildrenOfNode(id NodeID) []NodeID
	// SetNodeLayers hands over the graphics layers of a node.
	SetNodeLayers(id NodeID, layers NodeLayers)
	// SetNodeGeometry pushes a geometry snapshot for a scrolling node.
	SetNodeGeometry(id NodeID, g Geometry)
	// SetViewportConstraints pushes the constraints of a fixed or sticky node.
	SetViewportConstraints(id NodeID, c ViewportConstraints)
	// CommitTreeState hands all pushed state to the scrolling thread. It is
	// called after every layer flush.
	CommitTreeState()
}
