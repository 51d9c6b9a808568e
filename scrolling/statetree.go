package scrolling

import (
	"fmt"
	"sort"

	"github.com/npillmayer/compositor/tree"
	tp "github.com/xlab/treeprint"
)

// StateTree is an in-memory Coordinator. It records the node tree and the
// most recent snapshots pushed for every node.
//
// The zero value is not usable, use NewStateTree.
type StateTree struct {
	nodes      map[NodeID]*StateNode
	root       *StateNode
	lastID     NodeID
	updates    int // number of pushed layer, geometry and constraint snapshots
	commits    int
	hasChanges bool
}

// StateNode is a node of a StateTree.
type StateNode struct {
	tree.Node[*StateNode]
	id          NodeID
	typ         NodeType
	layers      NodeLayers
	geometry    Geometry
	constraints ViewportConstraints
	changes     ChangeFlags // changes since the last commit
}

// NewStateTree creates an empty state tree.
func NewStateTree() *StateTree {
	return &StateTree{nodes: make(map[NodeID]*StateNode)}
}

var _ Coordinator = (*StateTree)(nil)

// ID returns the node's ID.
func (n *StateNode) ID() NodeID { return n.id }

// Type returns the node's type.
func (n *StateNode) Type() NodeType { return n.typ }

// Layers returns the graphics layers last set for the node.
func (n *StateNode) Layers() NodeLayers { return n.layers }

// Geometry returns the geometry last pushed for the node.
func (n *StateNode) Geometry() Geometry { return n.geometry }

// Constraints returns the viewport constraints last pushed for the node.
func (n *StateNode) Constraints() ViewportConstraints { return n.constraints }

// Changes returns the parts of the node changed since the last commit.
func (n *StateNode) Changes() ChangeFlags { return n.changes }

func (n *StateNode) parentNode() *StateNode {
	if p := n.Parent(); p != nil {
		return p.Payload
	}
	return nil
}

// UniqueNodeID allocates a fresh node ID.
func (st *StateTree) UniqueNodeID() NodeID {
	st.lastID++
	return st.lastID
}

// Node returns the node for id, or nil.
func (st *StateTree) Node(id NodeID) *StateNode {
	return st.nodes[id]
}

// Root returns the root node, or nil.
func (st *StateTree) Root() *StateNode {
	return st.root
}

// NodeCount returns the number of live nodes, parented or not.
func (st *StateTree) NodeCount() int {
	return len(st.nodes)
}

// InsertNode inserts or moves a node.
//
// A node which exists with a different type cannot be re-inserted; the
// caller has to destroy it first. In this case NoNode is returned.
func (st *StateTree) InsertNode(t NodeType, id, parent NodeID, childIndex int) NodeID {
	if id == NoNode {
		tracer().Errorf("cannot insert scrolling node with null ID")
		return NoNode
	}
	n := st.nodes[id]
	if n != nil && n.typ != t {
		tracer().Errorf("scrolling node %d exists with type %v, cannot re-insert as %v", id, n.typ, t)
		return NoNode
	}
	var p *StateNode
	if parent != NoNode {
		if p = st.nodes[parent]; p == nil {
			tracer().Errorf("cannot insert scrolling node %d: unknown parent %d", id, parent)
			return NoNode
		}
	}
	if n == nil {
		n = &StateNode{id: id, typ: t, changes: ChangeAll}
		n.Payload = n
		st.nodes[id] = n
		if id > st.lastID {
			st.lastID = id
		}
	}
	st.hasChanges = true
	if p == nil {
		if st.root != nil && st.root != n {
			st.DetachAndDestroySubtree(st.root.id)
		}
		n.RemoveFromParent()
		st.root = n
		tracer().Debugf("scrolling root is %v node %d", t, id)
		return id
	}
	if n == st.root {
		st.root = nil
	}
	if n.parentNode() == p && (childIndex == NoChildIndex || p.IndexOfChild(&n.Node) == childIndex) {
		return id
	}
	n.RemoveFromParent()
	if childIndex == NoChildIndex || childIndex >= p.ChildCount() {
		p.AddChild(&n.Node)
	} else {
		p.InsertChildAt(childIndex, &n.Node)
	}
	tracer().Debugf("scrolling node %d (%v) inserted into %d", id, t, parent)
	return id
}

// UnparentNode detaches a node from its parent. The node stays alive.
func (st *StateTree) UnparentNode(id NodeID) {
	n := st.nodes[id]
	if n == nil {
		return
	}
	n.RemoveFromParent()
	if st.root == n {
		st.root = nil
	}
	st.hasChanges = true
}

// UnparentChildrenAndDestroyNode destroys a node, keeping its children alive
// but unparented.
func (st *StateTree) UnparentChildrenAndDestroyNode(id NodeID) {
	n := st.nodes[id]
	if n == nil {
		return
	}
	n.RemoveAllChildren()
	st.UnparentNode(id)
	delete(st.nodes, id)
}

// DetachAndDestroySubtree destroys a node and all its descendants.
func (st *StateTree) DetachAndDestroySubtree(id NodeID) {
	n := st.nodes[id]
	if n == nil {
		return
	}
	st.UnparentNode(id)
	var destroy func(*StateNode)
	destroy = func(n *StateNode) {
		for _, ch := range n.Children() {
			destroy(ch.Payload)
		}
		delete(st.nodes, n.id)
	}
	destroy(n)
}

// ClearAllNodes destroys every node.
func (st *StateTree) ClearAllNodes() {
	st.nodes = make(map[NodeID]*StateNode)
	st.root = nil
	st.hasChanges = true
}

// ParentOfNode returns the parent of a node, or NoNode.
func (st *StateTree) ParentOfNode(id NodeID) NodeID {
	if n := st.nodes[id]; n != nil {
		if p := n.parentNode(); p != nil {
			return p.id
		}
	}
	return NoNode
}

// ChildrenOfNode returns the children of a node, in order.
func (st *StateTree) ChildrenOfNode(id NodeID) []NodeID {
	n := st.nodes[id]
	if n == nil {
		return nil
	}
	children := n.Children()
	ids := make([]NodeID, len(children))
	for i, ch := range children {
		ids[i] = ch.Payload.id
	}
	return ids
}

// SetNodeLayers records the graphics layers of a node.
func (st *StateTree) SetNodeLayers(id NodeID, layers NodeLayers) {
	n := st.nodes[id]
	if n == nil {
		tracer().Errorf("set layers of unknown scrolling node %d", id)
		return
	}
	st.updates++
	if n.layers != layers {
		n.layers = layers
		n.changes |= ChangeLayer
		st.hasChanges = true
	}
}

// SetNodeGeometry records a geometry snapshot of a scrolling node.
func (st *StateTree) SetNodeGeometry(id NodeID, g Geometry) {
	n := st.nodes[id]
	if n == nil {
		tracer().Errorf("set geometry of unknown scrolling node %d", id)
		return
	}
	if !n.typ.IsScrolling() {
		tracer().Errorf("scrolling node %d of type %v has no scroll geometry", id, n.typ)
		return
	}
	st.updates++
	if n.geometry != g {
		n.geometry = g
		n.changes |= ChangeLayerGeometry
		st.hasChanges = true
	}
}

// SetViewportConstraints records the constraints of a fixed or sticky node.
func (st *StateTree) SetViewportConstraints(id NodeID, c ViewportConstraints) {
	n := st.nodes[id]
	if n == nil {
		tracer().Errorf("set constraints of unknown scrolling node %d", id)
		return
	}
	if c == nil || c.ConstraintType() != n.typ {
		tracer().Errorf("constraints do not match type %v of scrolling node %d", n.typ, id)
		return
	}
	st.updates++
	if n.constraints != c {
		n.constraints = c
		n.changes |= ChangeLayerGeometry
		st.hasChanges = true
	}
}

// CommitTreeState clears the change flags of all nodes.
func (st *StateTree) CommitTreeState() {
	if !st.hasChanges {
		return
	}
	for _, n := range st.nodes {
		n.changes = 0
	}
	st.commits++
	st.hasChanges = false
}

// Updates returns the number of snapshots pushed so far.
func (st *StateTree) Updates() int {
	return st.updates
}

// Commits returns the number of commits with changes.
func (st *StateTree) Commits() int {
	return st.commits
}

// String returns a tree representation of the parented nodes, followed by
// unparented nodes.
func (st *StateTree) String() string {
	out := tp.New()
	out.SetValue("scrolling tree")
	if st.root != nil {
		st.root.dump(out.AddBranch(st.root.label()))
	}
	var loose []*StateNode
	for _, n := range st.nodes {
		if n != st.root && n.Parent() == nil {
			loose = append(loose, n)
		}
	}
	if len(loose) > 0 {
		sort.Slice(loose, func(i, j int) bool { return loose[i].id < loose[j].id })
		b := out.AddBranch("unparented")
		for _, n := range loose {
			n.dump(b.AddBranch(n.label()))
		}
	}
	return out.String()
}

func (n *StateNode) label() string {
	return fmt.Sprintf("%v node %d", n.typ, n.id)
}

func (n *StateNode) dump(b tp.Tree) {
	for _, ch := range n.Children() {
		ch.Payload.dump(b.AddBranch(ch.Payload.label()))
	}
}
