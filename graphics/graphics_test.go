package graphics

import (
	"strings"
	"testing"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerHierarchy(t *testing.T) {
	root := NewLayer("root")
	a, b, c := NewLayer("a"), NewLayer("b"), NewLayer("c")
	root.AddChildLayer(a)
	root.AddChildLayer(c)
	root.AddChildLayerBelow(b, c)
	names := func(ls []*Layer) []string {
		r := []string{}
		for _, l := range ls {
			r = append(r, l.Name())
		}
		return r
	}
	assert.Equal(t, []string{"a", "b", "c"}, names(root.ChildLayers()))
	assert.Equal(t, root, b.ParentLayer())
	//
	assert.False(t, root.SetChildLayers([]*Layer{a, b, c}), "identical children should not count as a change")
	assert.True(t, root.SetChildLayers([]*Layer{c, a}))
	assert.Nil(t, b.ParentLayer())
	assert.Equal(t, []string{"c", "a"}, names(root.ChildLayers()))
	//
	a.RemoveFromParentLayer()
	assert.Equal(t, []string{"c"}, names(root.ChildLayers()))
}

func TestFlushCommitsChanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor.graphics")
	defer teardown()
	//
	root := NewLayer("root")
	child := NewLayer("child")
	root.AddChildLayer(child)
	assert.True(t, root.HasUncommittedChanges())
	n := root.FlushCompositingState()
	assert.Equal(t, 2, n)
	assert.False(t, root.HasUncommittedChanges())
	//
	child.SetPosition(geom.Pt(10, 10))
	child.SetPosition(geom.Pt(10, 10))
	assert.Equal(t, PositionChanged, child.UncommittedChanges())
	assert.Equal(t, 1, root.FlushCompositingState())
	assert.Equal(t, 0, root.FlushCompositingState())
}

func TestDisplayInvalidation(t *testing.T) {
	l := NewLayer("content")
	l.SetSize(geom.Sz(100, 100))
	l.SetNeedsDisplayInRect(geom.R(0, 0, 10, 10))
	assert.False(t, l.NeedsDisplay(), "layer without content must ignore invalidations")
	//
	l.SetDrawsContent(true)
	assert.True(t, l.NeedsDisplay())
	l.FlushCompositingState()
	assert.False(t, l.NeedsDisplay())
	assert.Equal(t, 1, l.RepaintCount())
	assert.True(t, l.IsBackingStoreAttached())
	//
	l.ResetTrackedRepaints()
	l.SetNeedsDisplayInRect(geom.R(90, 90, 200, 200))
	require.Len(t, l.TrackedRepaintRects(), 1)
	assert.Equal(t, geom.R(90, 90, 100, 100), l.TrackedRepaintRects()[0])
}

func TestTiledBacking(t *testing.T) {
	l := NewLayer("big")
	l.SetDrawsContent(true)
	l.SetSize(geom.Sz(1000, 5000))
	assert.False(t, l.UsesTiledBacking(), "tiling is decided on flush")
	l.FlushCompositingState()
	assert.True(t, l.UsesTiledBacking())
	assert.Equal(t, 2*10, l.TileCount())
	l.SetSize(geom.Sz(1000, 1000))
	l.FlushCompositingState()
	assert.False(t, l.UsesTiledBacking())
}

func TestDump(t *testing.T) {
	root := NewLayer("root")
	root.SetSize(geom.Sz(800, 600))
	content := NewLayer("content")
	content.SetPosition(geom.Pt(8, 8))
	content.SetSize(geom.Sz(100, 50))
	content.SetDrawsContent(true)
	content.SetOpacity(0.5)
	root.AddChildLayer(content)
	root.FlushCompositingState()
	//
	out := root.Dump(DumpNormal)
	t.Logf("\n%s", out)
	assert.True(t, strings.HasPrefix(out, `(GraphicsLayer "root")`))
	assert.Contains(t, out, "children 1")
	assert.Contains(t, out, `(GraphicsLayer "content")`)
	assert.Contains(t, out, "opacity: 0.50")
	assert.Contains(t, out, "draws content")
	assert.NotContains(t, out, "backing store attached")
	//
	out = root.Dump(IncludeBackingStoreAttached | IncludeDebugInfo)
	assert.Contains(t, out, "backing store attached: true")
	assert.Contains(t, out, "repaint count: 1")
}

func TestReplica(t *testing.T) {
	source := NewLayer("source")
	replica := NewLayer("replica")
	source.SetReplicatedByLayer(replica)
	assert.Equal(t, replica, source.ReplicaLayer())
	assert.Equal(t, source, replica.ReplicatedLayer())
	assert.Contains(t, source.Dump(DumpNormal), `replica (GraphicsLayer "replica")`)
	source.SetReplicatedByLayer(nil)
	assert.Nil(t, replica.ReplicatedLayer())
}
