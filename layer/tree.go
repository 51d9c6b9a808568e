package layer

import (
	"errors"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/tree"
)

// ErrForeignLayer is returned if a layer of another tree is passed to a
// tree operation.
var ErrForeignLayer = errors.New("layer belongs to a different tree")

// Tree owns the render layers of a document.
//
// Structural changes must be made through the tree, not through the embedded
// tree nodes, so the tree can invalidate cached paint-order lists.
type Tree struct {
	layers map[ID]*RenderLayer
	root   *RenderLayer
	nextID ID
	gen    uint64
}

// NewTree creates an empty layer tree.
func NewTree() *Tree {
	return &Tree{layers: make(map[ID]*RenderLayer)}
}

// NewLayer creates a new unattached layer with generic content.
func (t *Tree) NewLayer(name string) *RenderLayer {
	t.nextID++
	l := &RenderLayer{id: t.nextID, owner: t, Name: name, Content: GenericContent{}}
	l.Payload = l
	t.layers[l.id] = l
	return l
}

// NewRoot creates the root layer of the tree, covering a view of size sz.
func (t *Tree) NewRoot(sz geom.Size) *RenderLayer {
	l := t.NewLayer("root")
	l.Size = sz
	t.root = l
	t.InvalidateLayerLists()
	return l
}

// Root returns the root layer.
func (t *Tree) Root() *RenderLayer {
	return t.root
}

// Layer returns the layer for an ID, or nil if the layer has been removed.
func (t *Tree) Layer(id ID) *RenderLayer {
	return t.layers[id]
}

// Len returns the number of live layers.
func (t *Tree) Len() int {
	return len(t.layers)
}

// AddChild appends child to the children of parent.
func (t *Tree) AddChild(parent, child *RenderLayer) error {
	return t.InsertChildAt(parent, parent.ChildCount(), child)
}

// InsertChildAt inserts child as the i-th child of parent.
func (t *Tree) InsertChildAt(parent *RenderLayer, i int, child *RenderLayer) error {
	if parent.owner != t || child.owner != t {
		return ErrForeignLayer
	}
	if old := child.PaintOrderParent(); old != nil {
		old.SetNeedsCompositingPaintOrderChildrenUpdate()
	}
	parent.InsertChildAt(i, &child.Node)
	t.InvalidateLayerLists()
	child.SetNeedsCompositingRequirementsTraversal()
	child.SetSubsequentLayersNeedCompositingRequirementsTraversal()
	if p := child.PaintOrderParent(); p != nil {
		p.SetNeedsCompositingPaintOrderChildrenUpdate()
	}
	return nil
}

// Remove detaches l from its parent and removes l and its subtree from the
// tree. Reflection links to removed layers are dropped.
func (t *Tree) Remove(l *RenderLayer) error {
	if l.owner != t {
		return ErrForeignLayer
	}
	if p := l.PaintOrderParent(); p != nil {
		p.SetNeedsCompositingPaintOrderChildrenUpdate()
		p.SetSubsequentLayersNeedCompositingRequirementsTraversal()
	}
	l.RemoveFromParent()
	_, err := tree.NewWalker(&l.Node).TopDown(func(n, parent *tree.Node[*RenderLayer], pos int) (*tree.Node[*RenderLayer], error) {
		delete(t.layers, n.Payload.id)
		return nil, nil
	}).Collect()
	if err != nil {
		return err
	}
	for _, other := range t.layers {
		if t.layers[other.reflection] == nil {
			other.reflection = NoID
		}
		if t.layers[other.reflectionSource] == nil {
			other.reflectionSource = NoID
		}
	}
	if l == t.root {
		t.root = nil
	}
	t.InvalidateLayerLists()
	return nil
}

// SetReflection makes reflection the reflection layer of source. The
// reflection layer becomes a child of source and is excluded from paint-order
// lists. Passing nil removes an existing reflection.
func (t *Tree) SetReflection(source, reflection *RenderLayer) error {
	if old := source.ReflectionLayer(); old != nil {
		old.reflectionSource = NoID
		source.reflection = NoID
		if err := t.Remove(old); err != nil {
			return err
		}
	}
	if reflection == nil {
		return nil
	}
	if reflection.owner != t || source.owner != t {
		return ErrForeignLayer
	}
	reflection.reflectionSource = source.id
	source.reflection = reflection.id
	source.AddChild(&reflection.Node)
	t.InvalidateLayerLists()
	source.SetNeedsCompositingRequirementsTraversal()
	return nil
}

// InvalidateLayerLists invalidates every cached paint-order list. It has to
// be called whenever z-index, positioning or stacking of a layer changes.
func (t *Tree) InvalidateLayerLists() {
	t.gen++
}

// Layers returns all layers of the tree in document order.
func (t *Tree) Layers() []*RenderLayer {
	if t.root == nil {
		return nil
	}
	nodes, err := tree.NewWalker(&t.root.Node).AllDescendants().Collect()
	if err != nil {
		tracer().Errorf("collecting layers: %v", err)
		return nil
	}
	r := make([]*RenderLayer, 0, len(nodes)+1)
	r = append(r, t.root)
	for _, n := range nodes {
		r = append(r, n.Payload)
	}
	return r
}

// FindByName returns the first layer in document order with the given name.
func (t *Tree) FindByName(name string) *RenderLayer {
	for _, l := range t.Layers() {
		if l.Name == name {
			return l
		}
	}
	return nil
}
