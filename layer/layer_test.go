package layer

import (
	"testing"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/style"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func styled(t *testing.T, tr *Tree, parent *RenderLayer, name, css string) *RenderLayer {
	t.Helper()
	l := tr.NewLayer(name)
	st, err := style.ParseDeclarations(css)
	require.NoError(t, err)
	l.Style = st
	l.Size = geom.Sz(100, 100)
	require.NoError(t, tr.AddChild(parent, l))
	return l
}

func names(ls []*RenderLayer) []string {
	r := []string{}
	for _, l := range ls {
		r = append(r, l.Name)
	}
	return r
}

func TestZOrderLists(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor.layer")
	defer teardown()
	//
	tr := NewTree()
	root := tr.NewRoot(geom.Sz(800, 600))
	styled(t, tr, root, "flow", "")
	pos2 := styled(t, tr, root, "pos2", "position: relative; z-index: 2")
	styled(t, tr, root, "neg", "position: absolute; z-index: -1")
	wrapper := styled(t, tr, root, "wrapper", "position: relative")
	styled(t, tr, wrapper, "nested", "position: absolute; z-index: 1")
	styled(t, tr, pos2, "inside", "position: absolute; z-index: -5")
	//
	assert.Equal(t, []string{"neg"}, names(root.NegativeZOrderLayers()))
	assert.Equal(t, []string{"flow"}, names(root.NormalFlowLayers()))
	assert.Equal(t, []string{"wrapper", "nested", "pos2"}, names(root.PositiveZOrderLayers()),
		"z-index auto sorts as 0, nested layers of non-stacking contexts belong to root")
	assert.Equal(t, []string{"inside"}, names(pos2.NegativeZOrderLayers()))
	assert.Empty(t, wrapper.PositiveZOrderLayers(), "wrapper is not a stacking context")
	assert.Equal(t, []string{"neg", "flow", "wrapper", "nested", "pos2"}, names(root.PaintOrderChildren()))
}

func TestPaintOrderParent(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(geom.Sz(800, 600))
	wrapper := styled(t, tr, root, "wrapper", "position: relative")
	flow := styled(t, tr, wrapper, "flow", "overflow: hidden")
	nested := styled(t, tr, wrapper, "nested", "position: absolute")
	assert.Equal(t, wrapper, flow.PaintOrderParent())
	assert.Equal(t, root, nested.PaintOrderParent())
	assert.Equal(t, root, wrapper.PaintOrderParent())
	assert.Nil(t, root.PaintOrderParent())
}

func TestAncestorWith(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(geom.Sz(800, 600))
	scroller := styled(t, tr, root, "scroller", "overflow: scroll")
	moved := styled(t, tr, scroller, "moved", "transform: translate(10px, 0)")
	leaf := styled(t, tr, moved, "leaf", "position: relative")
	assert.Equal(t, moved, leaf.AncestorWith((*RenderLayer).HasTransform))
	assert.Equal(t, scroller, leaf.AncestorWith((*RenderLayer).IsScrollContainer))
	assert.Nil(t, moved.AncestorWith((*RenderLayer).HasTransform), "search starts at the parent")
	assert.Nil(t, root.AncestorWith(func(*RenderLayer) bool { return true }))
}

func TestListsFollowStyleChanges(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(geom.Sz(800, 600))
	a := styled(t, tr, root, "a", "position: relative; z-index: 1")
	styled(t, tr, root, "b", "position: relative; z-index: 2")
	assert.Equal(t, []string{"a", "b"}, names(root.PositiveZOrderLayers()))
	a.Style.ZIndex = style.Z(3)
	assert.Equal(t, []string{"a", "b"}, names(root.PositiveZOrderLayers()), "lists are cached")
	tr.InvalidateLayerLists()
	assert.Equal(t, []string{"b", "a"}, names(root.PositiveZOrderLayers()))
}

func TestDirtyPropagation(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(geom.Sz(800, 600))
	parent := styled(t, tr, root, "parent", "position: relative; z-index: 0")
	child := styled(t, tr, parent, "child", "position: absolute")
	for _, l := range tr.Layers() {
		l.ClearCompositingRequirementsTraversalState()
		l.ClearUpdateBackingOrHierarchyTraversalState()
	}
	child.SetNeedsCompositingRequirementsTraversal()
	assert.True(t, child.NeedsCompositingRequirementsTraversal())
	assert.True(t, parent.HasDescendantNeedingCompositingRequirementsTraversal())
	assert.True(t, root.HasDescendantNeedingCompositingRequirementsTraversal())
	assert.False(t, root.NeedsCompositingRequirementsTraversal())
	//
	child.SetNeedsCompositingGeometryUpdate()
	assert.True(t, parent.HasDescendantNeedingUpdateBackingOrHierarchyTraversal())
	child.SetNeedsCompositingGeometryUpdateOnAncestors()
	assert.True(t, parent.NeedsCompositingGeometryUpdate())
	assert.True(t, root.NeedsCompositingGeometryUpdate())
	//
	child.ClearCompositingRequirementsTraversalState()
	assert.False(t, child.NeedsCompositingRequirementsTraversal())
	assert.Equal(t, "clean", DirtyBits(0).String())
}

func TestInsertionMarksLayers(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(geom.Sz(800, 600))
	root.ClearCompositingRequirementsTraversalState()
	l := tr.NewLayer("late")
	require.NoError(t, tr.AddChild(root, l))
	assert.True(t, l.NeedsCompositingRequirementsTraversal())
	assert.True(t, l.SubsequentLayersNeedCompositingRequirementsTraversal())
	assert.True(t, root.IsDirty(PaintOrderChildrenUpdate))
	//
	other := NewTree()
	assert.ErrorIs(t, tr.AddChild(root, other.NewLayer("foreign")), ErrForeignLayer)
}

func TestRemoveAndReflection(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(geom.Sz(800, 600))
	source := styled(t, tr, root, "source", "-webkit-box-reflect: below")
	inner := styled(t, tr, source, "inner", "position: absolute")
	refl := tr.NewLayer("reflection")
	require.NoError(t, tr.SetReflection(source, refl))
	assert.Equal(t, refl, source.ReflectionLayer())
	assert.Equal(t, source, refl.ReflectionSource())
	assert.True(t, refl.IsReflection())
	assert.Equal(t, []string{"inner"}, names(source.PositiveZOrderLayers()),
		"reflections are not part of z-order lists")
	assert.Equal(t, source, refl.PaintOrderParent())
	//
	n := tr.Len()
	require.NoError(t, tr.Remove(source))
	assert.Equal(t, n-3, tr.Len())
	assert.Nil(t, tr.Layer(inner.ID()))
	assert.Nil(t, tr.Layer(refl.ID()))
	assert.Empty(t, root.PaintOrderChildren())
}

func TestIndirectReasons(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(geom.Sz(800, 600))
	l := styled(t, tr, root, "l", "")
	assert.False(t, l.MustCompositeForIndirectReasons())
	l.SetIndirectCompositingReason(IndirectOverlap)
	assert.True(t, l.MustCompositeForIndirectReasons())
	assert.Equal(t, IndirectOverlap, l.IndirectCompositingReason())
	l.SetIndirectCompositingReason(IndirectNone)
	assert.False(t, l.MustCompositeForIndirectReasons())
}

func TestAnimatedBounds(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(geom.Sz(800, 600))
	l := styled(t, tr, root, "box", "")
	r, ok := l.AnimatedBounds()
	require.True(t, ok)
	assert.Equal(t, geom.R(0, 0, 100, 100), r)
	//
	from, err := style.ParseTransform("translateX(0)")
	require.NoError(t, err)
	to, err := style.ParseTransform("translateX(200px)")
	require.NoError(t, err)
	l.Animations = []Animation{{
		Name:        "slide",
		Properties:  AnimatesTransform,
		Running:     true,
		Accelerated: true,
		Keyframes:   []style.Transform{from, to},
	}}
	assert.True(t, l.RunningAcceleratedAnimation(AnimatesTransform))
	assert.False(t, l.RunningAcceleratedAnimation(AnimatesOpacity))
	r, ok = l.AnimatedBounds()
	require.True(t, ok)
	assert.Equal(t, geom.R(0, 0, 300, 100), r)
	//
	flip, err := style.ParseTransform("rotateX(45deg)")
	require.NoError(t, err)
	l.Animations[0].Keyframes = append(l.Animations[0].Keyframes, flip)
	_, ok = l.AnimatedBounds()
	assert.False(t, ok, "3D keyframes make the bounds unknown")
}

func TestContentKinds(t *testing.T) {
	tr := NewTree()
	l := tr.NewLayer("video")
	assert.Equal(t, Generic, l.Kind())
	l.Content = VideoContent{AcceleratedPlayback: true}
	v, ok := l.Video()
	require.True(t, ok)
	assert.True(t, v.AcceleratedPlayback)
	_, ok = l.Canvas()
	assert.False(t, ok)
	assert.False(t, l.IsEmbedded())
	l.Content = FrameContent{}
	assert.True(t, l.IsEmbedded())
}
