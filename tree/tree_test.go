package tree

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree() (*Node[string], map[string]*Node[string]) {
	nodes := map[string]*Node[string]{}
	for _, name := range []string{"root", "a", "b", "c", "a1", "a2", "b1"} {
		nodes[name] = NewNode(name)
	}
	nodes["root"].AddChild(nodes["a"]).AddChild(nodes["b"]).AddChild(nodes["c"])
	nodes["a"].AddChild(nodes["a1"]).AddChild(nodes["a2"])
	nodes["b"].AddChild(nodes["b1"])
	return nodes["root"], nodes
}

func payloads(nodes []*Node[string]) []string {
	r := make([]string, len(nodes))
	for i, n := range nodes {
		r[i] = n.Payload
	}
	return r
}

func TestNodeChildren(t *testing.T) {
	root, n := buildTree()
	assert.Equal(t, 3, root.ChildCount())
	assert.Equal(t, 1, root.IndexOfChild(n["b"]))
	assert.True(t, root.IsAncestorOf(n["a2"]))
	assert.False(t, n["b"].IsAncestorOf(n["a2"]))
	assert.Equal(t, root, n["b1"].Root())
	//
	n["a2"].RemoveFromParent()
	assert.Nil(t, n["a2"].Parent())
	assert.Equal(t, []string{"a1"}, payloads(n["a"].Children()))
	//
	root.InsertChildAt(1, n["a2"])
	assert.Equal(t, []string{"a", "a2", "b", "c"}, payloads(root.Children()))
}

func TestNodeReparent(t *testing.T) {
	root, n := buildTree()
	n["c"].AddChild(n["a1"])
	assert.Equal(t, n["c"], n["a1"].Parent())
	assert.Equal(t, []string{"a2"}, payloads(n["a"].Children()))
	assert.Equal(t, 3, root.ChildCount())
}

func TestSetChildren(t *testing.T) {
	root, n := buildTree()
	changed := root.SetChildren([]*Node[string]{n["c"], n["a"]})
	assert.True(t, changed)
	assert.Nil(t, n["b"].Parent())
	assert.Equal(t, []string{"c", "a"}, payloads(root.Children()))
	changed = root.SetChildren([]*Node[string]{n["c"], n["a"]})
	assert.False(t, changed, "setting identical children should report no change")
}

func TestWalkerDescendants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor.tree")
	defer teardown()
	//
	root, _ := buildTree()
	isLeaf := func(test, node *Node[string]) (*Node[string], error) {
		if test.ChildCount() == 0 {
			return test, nil
		}
		return nil, nil
	}
	leafs, err := NewWalker(root).DescendantsWith(isLeaf).Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "b1", "c"}, payloads(leafs))
}

func TestWalkerAncestor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor.tree")
	defer teardown()
	//
	_, n := buildTree()
	isA := func(test, node *Node[string]) (*Node[string], error) {
		if test.Payload == "a" {
			return test, nil
		}
		return nil, nil
	}
	anc, err := NewWalker(n["a2"]).AncestorWith(isA).Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, payloads(anc))
	anc, _ = NewWalker(n["b1"]).AncestorWith(isA).Collect()
	assert.Empty(t, anc)
}

func TestWalkerTopDown(t *testing.T) {
	root, _ := buildTree()
	var order []string
	collect := func(n, parent *Node[string], pos int) (*Node[string], error) {
		order = append(order, n.Payload)
		return nil, nil
	}
	_, err := NewWalker(root).TopDown(collect).Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "a", "a1", "a2", "b", "b1", "c"}, order)
}

func TestWalkerErrorStops(t *testing.T) {
	root, _ := buildTree()
	boom := errors.New("boom")
	visited := 0
	_, err := NewWalker(root).TopDown(func(n, parent *Node[string], pos int) (*Node[string], error) {
		visited++
		if n.Payload == "a" {
			return nil, boom
		}
		return n, nil
	}).AllDescendants().Collect()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, visited)
}

func TestEmptyWalker(t *testing.T) {
	_, err := NewWalker[string](nil).AllDescendants().Collect()
	assert.ErrorIs(t, err, ErrEmptyTree)
}
