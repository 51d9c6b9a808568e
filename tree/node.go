package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
)

/*
We manage a tree of mutable nodes. Each nodes carries a payload of type parameter T.
Nodes maintain a slice of children.

Trees are owned by a single goroutine. Compositing passes run synchronously
on the thread owning the render tree, so nodes carry no locks.
*/

// Node is the base type our trees are built of. Domain node types embed
// a Node and set Payload to reference themselves.
type Node[T comparable] struct {
	parent   *Node[T]   // parent node of this node
	children []*Node[T] // children in order
	Payload  T          // nodes may carry a payload of arbitrary type
}

// NewNode creates a new tree node with a given payload.
func NewNode[T comparable](payload T) *Node[T] {
	return &Node[T]{Payload: payload}
}

func (node *Node[T]) String() string {
	return fmt.Sprintf("(Node #ch=%d %v)", node.ChildCount(), node.Payload)
}

// AddChild appends a child node. If ch is currently attached to another
// parent, it is removed from there first.
// It returns the parent node to allow for chaining.
func (node *Node[T]) AddChild(ch *Node[T]) *Node[T] {
	if ch == nil {
		return node
	}
	ch.RemoveFromParent()
	node.children = append(node.children, ch)
	ch.parent = node
	return node
}

// InsertChildAt inserts a child node at position i, shifting children at
// later positions. Positions beyond the end append.
// It returns the parent node to allow for chaining.
func (node *Node[T]) InsertChildAt(i int, ch *Node[T]) *Node[T] {
	if ch == nil {
		return node
	}
	ch.RemoveFromParent()
	if i < 0 {
		i = 0
	}
	if i >= len(node.children) {
		node.children = append(node.children, ch)
	} else {
		node.children = append(node.children, nil)     // make room for one child
		copy(node.children[i+1:], node.children[i:]) // shift i+1..n
		node.children[i] = ch
	}
	ch.parent = node
	return node
}

// SetChildren replaces all children of node by chs, in order.
// Former children not contained in chs are detached.
// SetChildren returns false if the children were already identical.
func (node *Node[T]) SetChildren(chs []*Node[T]) bool {
	if sameChildren(node.children, chs) {
		return false
	}
	node.RemoveAllChildren()
	for _, ch := range chs {
		node.AddChild(ch)
	}
	return true
}

func sameChildren[T comparable](a, b []*Node[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RemoveAllChildren detaches every child of node.
func (node *Node[T]) RemoveAllChildren() {
	for _, ch := range node.children {
		ch.parent = nil
	}
	node.children = nil
}

// RemoveFromParent detaches node from its parent, if any.
// It returns the detached node.
func (node *Node[T]) RemoveFromParent() *Node[T] {
	if node == nil || node.parent == nil {
		return node
	}
	p := node.parent
	if i := p.IndexOfChild(node); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	node.parent = nil
	return node
}

// Parent returns the parent node or nil (for the root of the tree).
func (node *Node[T]) Parent() *Node[T] {
	return node.parent
}

// Root returns the topmost ancestor of node.
func (node *Node[T]) Root() *Node[T] {
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// ChildCount returns the number of children-nodes for a node.
func (node *Node[T]) ChildCount() int {
	return len(node.children)
}

// Child returns the n-th child of a node.
func (node *Node[T]) Child(n int) (*Node[T], bool) {
	if n < 0 || len(node.children) <= n {
		return nil, false
	}
	return node.children[n], true
}

// Children returns a copy of the slice of children of a node.
func (node *Node[T]) Children() []*Node[T] {
	children := make([]*Node[T], len(node.children))
	copy(children, node.children)
	return children
}

// IndexOfChild returns the index of a child within the list of children
// of its parent, or -1.
func (node *Node[T]) IndexOfChild(ch *Node[T]) int {
	for i, child := range node.children {
		if ch == child {
			return i
		}
	}
	return -1
}

// IsAncestorOf is true if node is a proper ancestor of n.
func (node *Node[T]) IsAncestorOf(n *Node[T]) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p == node {
			return true
		}
	}
	return false
}
