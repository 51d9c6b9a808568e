package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
)

// ErrInvalidFilter is returned if a walker step is called with a nil function.
var ErrInvalidFilter = errors.New("filter stage is invalid")

// ErrEmptyTree is returned if a Walker is called with an empty tree.
var ErrEmptyTree = errors.New("cannot walk empty tree")

// Predicate is a function type to match against nodes of a tree.
// test is the node under test, node is the input node.
type Predicate[T comparable] func(test *Node[T], node *Node[T]) (match *Node[T], err error)

// Whatever is a predicate to match anything (see type Predicate).
// It is useful to match the first node in a given direction.
func Whatever[T comparable]() Predicate[T] {
	return func(test *Node[T], node *Node[T]) (*Node[T], error) {
		return test, nil
	}
}

// Action is a function type to operate on tree nodes.
type Action[T comparable] func(n *Node[T], parent *Node[T], position int) (*Node[T], error)

// Walker holds a selection of tree nodes and performs operations on them.
// Clients create a Walker for a (sub-)tree, chain some navigation and
// filter steps, and finally collect the selection:
//
//    nodes, err := NewWalker(node).DescendantsWith(pred).Collect()
//
// Steps run synchronously. The first error stops all further steps and is
// reported by Collect.
type Walker[T comparable] struct {
	selection []*Node[T]
	err       error
}

// NewWalker creates a Walker for the initial node of a (sub-)tree.
// If initial is nil, the walker will report ErrEmptyTree.
func NewWalker[T comparable](initial *Node[T]) *Walker[T] {
	if initial == nil {
		return &Walker[T]{err: ErrEmptyTree}
	}
	return &Walker[T]{selection: []*Node[T]{initial}}
}

// Collect returns the current selection and the first error that occurred.
func (w *Walker[T]) Collect() ([]*Node[T], error) {
	return w.selection, w.err
}

func (w *Walker[T]) step(f func(*Node[T]) ([]*Node[T], error)) *Walker[T] {
	if w.err != nil {
		return w
	}
	var next []*Node[T]
	for _, n := range w.selection {
		res, err := f(n)
		if err != nil {
			w.err = err
			tracer().Errorf(err.Error())
			return w
		}
		next = append(next, res...)
	}
	w.selection = next
	return w
}

// AncestorWith finds, for every selected node, the nearest ancestor
// matching the given predicate. The search does not include the start node.
func (w *Walker[T]) AncestorWith(predicate Predicate[T]) *Walker[T] {
	if predicate == nil {
		w.err = ErrInvalidFilter
		return w
	}
	return w.step(func(n *Node[T]) ([]*Node[T], error) {
		for anc := n.Parent(); anc != nil; anc = anc.Parent() {
			match, err := predicate(anc, n)
			if err != nil {
				return nil, err
			}
			if match != nil {
				return []*Node[T]{match}, nil
			}
		}
		return nil, nil // no matching ancestor found, not an error
	})
}

// DescendantsWith finds descendants matching a predicate, in pre-order.
// The search does not include the start node.
func (w *Walker[T]) DescendantsWith(predicate Predicate[T]) *Walker[T] {
	if predicate == nil {
		w.err = ErrInvalidFilter
		return w
	}
	return w.step(func(n *Node[T]) ([]*Node[T], error) {
		var found []*Node[T]
		var err error
		var visit func(*Node[T])
		visit = func(node *Node[T]) {
			for _, ch := range node.children {
				if err != nil {
					return
				}
				var match *Node[T]
				if match, err = predicate(ch, n); err != nil {
					return
				}
				if match != nil {
					found = append(found, match)
				}
				visit(ch)
			}
		}
		visit(n)
		return found, err
	})
}

// AllDescendants selects all descendants in pre-order.
func (w *Walker[T]) AllDescendants() *Walker[T] {
	return w.DescendantsWith(Whatever[T]())
}

// TopDown traverses the subtrees of the selection, starting at (and
// including) the selected nodes. Parents are always processed before
// their children. If the action returns an error for a node, descending
// the branch below this node is aborted and the error is reported.
// Non-nil action results form the new selection.
func (w *Walker[T]) TopDown(action Action[T]) *Walker[T] {
	if action == nil {
		w.err = ErrInvalidFilter
		return w
	}
	return w.step(func(n *Node[T]) ([]*Node[T], error) {
		var results []*Node[T]
		var visit func(node, parent *Node[T], pos int) error
		visit = func(node, parent *Node[T], pos int) error {
			res, err := action(node, parent, pos)
			if err != nil {
				return err
			}
			if res != nil {
				results = append(results, res)
			}
			for i, ch := range node.Children() {
				if err := visit(ch, node, i); err != nil {
					return err
				}
			}
			return nil
		}
		pos := 0
		if p := n.Parent(); p != nil {
			pos = p.IndexOfChild(n)
		}
		return results, visit(n, n.Parent(), pos)
	})
}
