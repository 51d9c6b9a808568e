package compositor

import (
	"testing"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/graphics"
	"github.com/npillmayer/compositor/layer"
	"github.com/npillmayer/compositor/layerdoc"
	"github.com/npillmayer/compositor/scrolling"
	"github.com/npillmayer/compositor/style"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup builds a layer tree from markup and a compositor for an 800×600
// main frame view of it.
func setup(t *testing.T, markup string, opts ...Option) (*layerdoc.Document, *Compositor) {
	t.Helper()
	doc, err := layerdoc.Parse(markup, geom.Sz(800, 600))
	require.NoError(t, err)
	c, err := New(NewView(doc.Tree, geom.Sz(800, 600)), opts...)
	require.NoError(t, err)
	return doc, c
}

func mustLayer(t *testing.T, doc *layerdoc.Document, selector string) *layer.RenderLayer {
	t.Helper()
	l := doc.Layer(selector)
	require.NotNil(t, l, "no layer for %q", selector)
	return l
}

func graphicsNames(ls []*graphics.Layer) []string {
	r := []string{}
	for _, l := range ls {
		r = append(r, l.Name())
	}
	return r
}

func TestNewWithoutTree(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoLayerTree)
	_, err = New(&View{})
	assert.ErrorIs(t, err, ErrNoLayerTree)
}

const threeDivs = `<body>
<div id="a" style="position: relative; will-change: transform" data-rect="0 0 100 100"></div>
<div id="b" style="position: relative" data-rect="200 0 100 100"></div>
<div id="c" style="position: relative" data-rect="400 0 100 100"></div>
</body>`

func TestOverlapPromotesLaterSibling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	doc, c := setup(t, threeDivs)
	a, b, cc := mustLayer(t, doc, "#a"), mustLayer(t, doc, "#b"), mustLayer(t, doc, "#c")
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	assert.True(t, c.InCompositingMode())
	assert.True(t, c.IsComposited(doc.Tree.Root()))
	assert.True(t, c.IsComposited(a))
	assert.False(t, c.IsComposited(b))
	assert.False(t, c.IsComposited(cc))
	assert.Equal(t, ReasonWillChange, c.ReasonsForCompositing(a))
	assert.Equal(t, ReasonRoot, c.ReasonsForCompositing(doc.Tree.Root()))
	assert.Equal(t, Reasons(0), c.ReasonsForCompositing(b))
	assert.Equal(t, 2, c.Stats().CompositedLayers)
	//
	b.Offset = geom.Pt(50, 50)
	c.LayerGeometryChanged(b)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	assert.True(t, c.IsComposited(a))
	assert.True(t, c.IsComposited(b), "b overlaps a composited layer painted before it")
	assert.Equal(t, layer.IndirectOverlap, b.IndirectCompositingReason())
	assert.Equal(t, ReasonOverlap, c.ReasonsForCompositing(b))
	assert.False(t, c.IsComposited(cc))
	t.Logf("\n%s", c.CompositingReport())
}

func TestUpdateIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	_, c := setup(t, threeDivs)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	dump := c.LayerTreeAsText(graphics.DumpNormal)
	assert.False(t, c.UpdateCompositingLayers(OnLayout), "second update should find nothing dirty")
	assert.Equal(t, dump, c.LayerTreeAsText(graphics.DumpNormal))
	assert.Equal(t, 1, c.Stats().CompositingUpdates)
}

func TestGraphicsLayerTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	doc, c := setup(t, threeDivs)
	c.View().ContentsSize = geom.Sz(800, 2000)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	root := c.RootGraphicsLayer()
	require.NotNil(t, root)
	assert.Equal(t, "overflow controls host", root.Name())
	require.NotNil(t, c.ClipLayer())
	require.NotNil(t, c.ScrolledContentsLayer())
	assert.Equal(t, c.ClipLayer(), c.ScrollContainerLayer())
	assert.NotNil(t, c.OverhangAreasLayer())
	assert.NotNil(t, c.VerticalScrollbarLayer())
	assert.Nil(t, c.HorizontalScrollbarLayer())
	assert.Nil(t, c.ScrollCornerLayer())
	assert.Nil(t, c.HeaderLayer())
	//
	rb := c.Backing(doc.Tree.Root())
	require.NotNil(t, rb)
	assert.Equal(t, []string{"div#a"}, graphicsNames(rb.GraphicsLayer().ChildLayers()))
	text := c.LayerTreeAsText(graphics.DumpNormal)
	assert.Contains(t, text, `(GraphicsLayer "root layer")`)
	assert.Contains(t, text, `(GraphicsLayer "div#a")`)
	t.Logf("\n%s", text)
	//
	c.FrameViewDidScroll(geom.Pt(0, 100))
	assert.Equal(t, geom.Pt(0, -100), c.ScrolledContentsLayer().Position())
}

func TestLeavingCompositingMode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	for _, platform := range []PlatformStrategy{DesktopPlatform{}, MobilePlatform{}} {
		doc, c := setup(t, threeDivs, WithPlatform(platform))
		a := mustLayer(t, doc, "#a")
		require.True(t, c.UpdateCompositingLayers(OnLayout))
		require.True(t, c.InCompositingMode())
		//
		old := a.Style
		a.Style.WillChange = 0
		c.LayerStyleChanged(a, old)
		require.True(t, c.UpdateCompositingLayers(OnStyleChange))
		assert.False(t, c.IsComposited(a))
		idle := platform.KeepsCompositingWhenIdle()
		assert.Equal(t, idle, c.InCompositingMode(), "platform %T", platform)
		assert.Equal(t, idle, c.RootGraphicsLayer() != nil, "platform %T", platform)
	}
}

func TestMobileRootLayers(t *testing.T) {
	doc, c := setup(t, threeDivs, WithPlatform(MobilePlatform{}))
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	root := c.RootGraphicsLayer()
	require.NotNil(t, root)
	assert.Equal(t, "content root", root.Name())
	assert.Nil(t, c.ClipLayer())
	assert.Nil(t, c.ScrolledContentsLayer())
	assert.Equal(t, []string{"root layer"}, graphicsNames(root.ChildLayers()))
	assert.True(t, c.IsComposited(mustLayer(t, doc, "#a")))
}

func TestWithoutAcceleratedCompositing(t *testing.T) {
	doc, c := setup(t, threeDivs, WithoutAcceleratedCompositing())
	assert.False(t, c.UpdateCompositingLayers(OnLayout))
	assert.False(t, c.IsComposited(mustLayer(t, doc, "#a")))
	assert.Nil(t, c.RootGraphicsLayer())
	assert.Equal(t, "", c.LayerTreeAsText(graphics.DumpNormal))
}

func TestTriggersRestrictPromotion(t *testing.T) {
	doc, c := setup(t, threeDivs, WithTriggers(AllTriggers&^TriggerWillChange))
	c.UpdateCompositingLayers(OnLayout)
	assert.False(t, c.IsComposited(mustLayer(t, doc, "#a")))
	assert.False(t, c.InCompositingMode())
}

func TestForceCompositing(t *testing.T) {
	doc, c := setup(t, `<body><div id="x" style="position: relative" data-rect="0 0 10 10"></div></body>`,
		ForceCompositing())
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	assert.True(t, c.InCompositingMode())
	assert.True(t, c.IsComposited(doc.Tree.Root()))
	assert.False(t, c.IsComposited(mustLayer(t, doc, "#x")))
}

func TestNegativeZOrderForeground(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	doc, c := setup(t, `<body>
<div id="f" style="position: relative; z-index: 0" data-rect="0 0 400 400">
  <div id="n1" style="position: relative; z-index: -2; will-change: transform" data-rect="0 0 50 50"></div>
  <div id="n2" style="position: relative; z-index: -1; will-change: transform" data-rect="100 0 50 50"></div>
  <div id="top" style="position: relative; z-index: 1; will-change: transform" data-rect="200 0 50 50"></div>
</div></body>`)
	f := mustLayer(t, doc, "#f")
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	require.True(t, c.IsComposited(f))
	assert.Equal(t, layer.IndirectBackgroundLayer, f.IndirectCompositingReason())
	assert.Equal(t, ReasonNegativeZIndexChildren, c.ReasonsForCompositing(f))
	fb := c.Backing(f)
	require.NotNil(t, fb.ForegroundLayer())
	assert.Equal(t, []string{"div#n1", "div#n2", "div#f (foreground)", "div#top"},
		graphicsNames(fb.GraphicsLayer().ChildLayers()),
		"foreground has to be painted above all negative z-order children")
	//
	for _, sel := range []string{"#n1", "#n2"} {
		n := mustLayer(t, doc, sel)
		c.LayerWillBeRemoved(n)
		require.NoError(t, doc.Tree.Remove(n))
	}
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	assert.False(t, c.IsComposited(f), "without negative z-order children no background layer is needed")
	assert.True(t, c.IsComposited(mustLayer(t, doc, "#top")))
}

func TestSingleNegativeZOrderChild(t *testing.T) {
	doc, c := setup(t, `<body>
<div id="f" style="position: relative; z-index: 0" data-rect="0 0 400 400">
  <div id="n" style="position: relative; z-index: -1; will-change: transform" data-rect="0 0 50 50"></div>
  <div id="top" style="position: relative; z-index: 1; will-change: transform" data-rect="200 0 50 50"></div>
</div></body>`)
	f := mustLayer(t, doc, "#f")
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	require.True(t, c.IsComposited(f))
	assert.Equal(t, layer.IndirectBackgroundLayer, f.IndirectCompositingReason())
	fb := c.Backing(f)
	require.NotNil(t, fb.ForegroundLayer())
	assert.Equal(t, []string{"div#n", "div#f (foreground)", "div#top"},
		graphicsNames(fb.GraphicsLayer().ChildLayers()))
}

func TestIndirectReasonRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	doc, c := setup(t, `<body>
<div id="p" style="position: relative; z-index: 0; opacity: 0.5" data-rect="0 0 300 300">
  <div id="q" style="position: relative; will-change: transform" data-rect="10 10 50 50"></div>
</div></body>`)
	p, q := mustLayer(t, doc, "#p"), mustLayer(t, doc, "#q")
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	require.True(t, c.IsComposited(p))
	assert.Equal(t, layer.IndirectGraphicalEffect, p.IndirectCompositingReason())
	reasons := c.ReasonsForCompositing(p)
	assert.NotZero(t, reasons&ReasonOpacityWithCompositedDescendants)
	assert.Nil(t, c.Backing(p).ForegroundLayer())
	assert.Equal(t, c.Backing(p).GraphicsLayer(), c.Backing(q).GraphicsLayer().ParentLayer())
	//
	old := p.Style
	p.Style.SetOpacity(1)
	c.LayerStyleChanged(p, old)
	require.True(t, c.UpdateCompositingLayers(OnStyleChange))
	assert.False(t, c.IsComposited(p))
	assert.Equal(t, layer.IndirectNone, p.IndirectCompositingReason())
	rootG := c.Backing(doc.Tree.Root()).GraphicsLayer()
	assert.Equal(t, rootG, c.Backing(q).GraphicsLayer().ParentLayer())
	//
	old = p.Style
	p.Style.SetOpacity(0.5)
	c.LayerStyleChanged(p, old)
	require.True(t, c.UpdateCompositingLayers(OnStyleChange))
	require.True(t, c.IsComposited(p))
	assert.Equal(t, layer.IndirectGraphicalEffect, p.IndirectCompositingReason())
	assert.Equal(t, reasons, c.ReasonsForCompositing(p))
	assert.Equal(t, c.Backing(p).GraphicsLayer(), c.Backing(q).GraphicsLayer().ParentLayer())
}

func TestUncertainAnimationExtent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	doc, c := setup(t, `<body>
<div id="anim" style="position: relative" data-rect="0 0 50 50" data-animate="transform"></div>
<div id="far" style="position: relative" data-rect="700 500 50 50"></div>
</body>`)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	anim, far := mustLayer(t, doc, "#anim"), mustLayer(t, doc, "#far")
	assert.Equal(t, ReasonAnimation, c.ReasonsForCompositing(anim))
	assert.True(t, c.IsComposited(far),
		"an animation without keyframes may move anywhere, later layers cannot be tested for overlap")
	assert.Equal(t, layer.IndirectStacking, far.IndirectCompositingReason())
}

func TestBoundedAnimationExtent(t *testing.T) {
	doc, c := setup(t, `<body>
<div id="anim" style="position: relative" data-rect="0 0 50 50"
     data-animate="transform" data-keyframes="translate(0px, 0px); translate(100px, 0px)"></div>
<div id="far" style="position: relative" data-rect="700 500 50 50"></div>
<div id="near" style="position: relative" data-rect="120 0 20 20"></div>
</body>`)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	assert.True(t, c.IsComposited(mustLayer(t, doc, "#anim")))
	assert.False(t, c.IsComposited(mustLayer(t, doc, "#far")))
	assert.True(t, c.IsComposited(mustLayer(t, doc, "#near")), "near is inside the animated extent")
}

func TestPausedAnimation(t *testing.T) {
	const markup = `<body><div id="anim" style="position: relative" data-rect="0 0 50 50"
     data-animate="opacity" data-paused></div></body>`
	doc, c := setup(t, markup)
	c.UpdateCompositingLayers(OnLayout)
	assert.True(t, c.IsComposited(mustLayer(t, doc, "#anim")))
	doc, c = setup(t, markup, WithFeatures(Features{WebAnimationsCSSIntegration: true}))
	c.UpdateCompositingLayers(OnLayout)
	assert.False(t, c.IsComposited(mustLayer(t, doc, "#anim")))
}

func TestCanvasPolicy(t *testing.T) {
	const markup = `<body>
<canvas id="small" data-layer data-content="canvas-2d" data-rect="0 0 40 40"></canvas>
<canvas id="large" data-layer data-content="canvas-2d" data-rect="100 0 200 200"></canvas>
</body>`
	doc, c := setup(t, markup)
	c.UpdateCompositingLayers(OnLayout)
	assert.True(t, c.IsComposited(mustLayer(t, doc, "#small")))
	assert.True(t, c.IsComposited(mustLayer(t, doc, "#large")))
	doc, c = setup(t, markup, WithPolicy(ConservativePolicy))
	c.UpdateCompositingLayers(OnLayout)
	assert.False(t, c.IsComposited(mustLayer(t, doc, "#small")))
	assert.True(t, c.IsComposited(mustLayer(t, doc, "#large")))
	assert.Equal(t, ReasonCanvas, c.ReasonsForCompositing(mustLayer(t, doc, "#large")))
}

func TestReasonsWhileLayoutIsPending(t *testing.T) {
	doc, c := setup(t, `<body>
<div id="a" style="position: relative; will-change: transform" data-rect="0 0 100 100"></div>
<div id="fx" style="position: fixed; top: 0px" data-rect="0 0 800 50"></div>
</body>`)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	fx := mustLayer(t, doc, "#fx")
	require.True(t, c.IsComposited(fx))
	assert.Equal(t, layer.NotCompositedForUnscrollableAncestors, fx.ViewportConstrainedNotCompositedReason())
	assert.Equal(t, ReasonOverlap, c.ReasonsForCompositing(fx))
	//
	c.InvalidateLayout()
	assert.Equal(t, ReasonOverlap, c.ReasonsForCompositing(fx),
		"pending layout must not report a fixed position reason for a layer composited for overlap")
}

func TestFixedNotComposited(t *testing.T) {
	doc, c := setup(t, `<body>
<div id="fx" style="position: fixed; top: 0px" data-rect="0 0 800 50"></div>
</body>`)
	c.UpdateCompositingLayers(OnLayout)
	fx := mustLayer(t, doc, "#fx")
	assert.False(t, c.IsComposited(fx))
	assert.Equal(t, layer.NotCompositedForUnscrollableAncestors, fx.ViewportConstrainedNotCompositedReason())
	assert.Contains(t, c.CompositingReport(), "div#fx (not composited: unscrollable-ancestors)")
	//
	c.View().ContentsSize = geom.Sz(800, 2000)
	c.FrameViewDidChangeSize()
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	assert.True(t, c.IsComposited(fx))
	assert.Equal(t, ReasonPositionFixed, c.ReasonsForCompositing(fx))
	assert.Equal(t, layer.NoNotCompositedReason, fx.ViewportConstrainedNotCompositedReason())
}

// --- Frames ------------------------------------------------------------------

type testFrame struct {
	composited bool
	root       *graphics.Layer
}

func (f *testFrame) UsesCompositing() bool              { return f.composited }
func (f *testFrame) RootGraphicsLayer() *graphics.Layer { return f.root }
func (f *testFrame) ContentSize() geom.Size             { return geom.Sz(300, 200) }

func TestFrameDecisionWaitsForLayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	doc, c := setup(t, `<body><iframe id="frame" data-layer data-content="frame" data-rect="0 0 300 200"></iframe></body>`)
	fl := mustLayer(t, doc, "#frame")
	frame := &testFrame{composited: true, root: graphics.NewLayer("child root")}
	fl.Content = layer.FrameContent{Child: frame}
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	require.True(t, c.IsComposited(fl))
	assert.Equal(t, ReasonIFrame, c.ReasonsForCompositing(fl))
	assert.Equal(t, []*graphics.Layer{frame.root}, c.Backing(fl).GraphicsLayer().ChildLayers())
	//
	c.InvalidateLayout()
	fl.Size = geom.Size{}
	c.LayerGeometryChanged(fl)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	assert.True(t, c.IsComposited(fl), "decision must not change while layout is pending")
	assert.Equal(t, []*layer.RenderLayer{fl}, c.ReevaluateAfterLayout())
	//
	fl.Size = geom.Sz(300, 200)
	c.DidLayout()
	assert.True(t, c.IsComposited(fl))
	assert.Empty(t, c.ReevaluateAfterLayout())
	//
	fl.Size = geom.Size{}
	c.LayerGeometryChanged(fl)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	assert.False(t, c.IsComposited(fl), "an empty frame is not composited with valid layout")
}

func TestSubframeCompositor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	pdoc, parent := setup(t, `<body><iframe id="frame" data-layer data-content="frame" data-rect="10 10 300 200"></iframe></body>`)
	owner := mustLayer(t, pdoc, "#frame")
	cdoc, err := layerdoc.Parse(threeDivs, geom.Sz(300, 200))
	require.NoError(t, err)
	view := NewView(cdoc.Tree, geom.Sz(300, 200))
	view.MainFrame = false
	child, err := New(view, AsSubframeOf(parent, owner))
	require.NoError(t, err)
	owner.Content = layer.FrameContent{Child: child}
	//
	require.True(t, child.UpdateCompositingLayers(OnLayout))
	assert.Equal(t, ViaEnclosingFrame, child.RootLayerAttachment())
	assert.True(t, owner.NeedsCompositingRequirementsTraversal(), "owner layer has to be re-evaluated")
	require.True(t, parent.UpdateCompositingLayers(OnLayout))
	require.True(t, parent.IsComposited(owner))
	assert.Equal(t, []*graphics.Layer{child.RootGraphicsLayer()},
		parent.Backing(owner).GraphicsLayer().ChildLayers())
}

// --- Scrolling ---------------------------------------------------------------

func TestScrollingNodesOfFixedScroller(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	st := scrolling.NewStateTree()
	doc, c := setup(t, `<body>
<div id="fx" style="position: fixed; top: 0px; overflow: scroll" data-rect="0 0 200 100"
     data-scroll-size="200 500" data-composited-scrolling></div>
</body>`, WithScrollingCoordinator(st), WithFeatures(Features{AsyncOverflowScrolling: true}))
	c.View().ContentsSize = geom.Sz(800, 2000)
	fx := mustLayer(t, doc, "#fx")
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	require.True(t, c.IsComposited(fx))
	assert.Equal(t, ReasonPositionFixed|ReasonOverflowScrolling, c.ReasonsForCompositing(fx))
	//
	b := c.Backing(fx)
	fixedID := b.ScrollingNodeID(scrolling.FixedNode)
	overflowID := b.ScrollingNodeID(scrolling.OverflowNode)
	rootID := c.Backing(doc.Tree.Root()).ScrollingNodeID(scrolling.MainFrameNode)
	require.NotEqual(t, scrolling.NoNode, fixedID)
	require.NotEqual(t, scrolling.NoNode, overflowID)
	require.NotEqual(t, scrolling.NoNode, rootID)
	assert.Equal(t, rootID, st.Root().ID())
	assert.Equal(t, rootID, st.ParentOfNode(fixedID))
	assert.Equal(t, fixedID, st.ParentOfNode(overflowID), "scrolling node of a fixed layer hangs below its fixed node")
	assert.Equal(t, fx, c.LayerForScrollingNode(fixedID))
	assert.Equal(t, fx, c.LayerForScrollingNode(overflowID))
	//
	constraints, ok := st.Node(fixedID).Constraints().(scrolling.FixedConstraints)
	require.True(t, ok)
	assert.True(t, constraints.AnchorEdges.Has(scrolling.Top))
	assert.Equal(t, b.ScrolledContentsLayer(), st.Node(overflowID).Layers().ScrolledContents)
	t.Logf("\n%s", st)
	//
	c.FlushPendingLayerChanges(true)
	assert.Equal(t, 1, st.Commits())
	assert.Equal(t, 1, c.Stats().LayerFlushes)
	//
	old := fx.Style
	fx.Style.OverflowX, fx.Style.OverflowY = 0, 0
	c.LayerStyleChanged(fx, old)
	require.True(t, c.UpdateCompositingLayers(OnStyleChange))
	require.True(t, c.IsComposited(fx))
	assert.Equal(t, scrolling.NoNode, b.ScrollingNodeID(scrolling.OverflowNode))
	assert.Nil(t, st.Node(overflowID))
	assert.Nil(t, c.LayerForScrollingNode(overflowID))
	assert.Equal(t, fixedID, b.ScrollingNodeID(scrolling.FixedNode))
}

func TestStickyScroller(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	st := scrolling.NewStateTree()
	doc, c := setup(t, `<body>
<div id="outer" style="position: relative; z-index: 0; overflow: scroll" data-rect="0 0 400 300"
     data-scroll-size="400 1000" data-scroll-offset="0 100" data-composited-scrolling>
  <div id="sticky" style="position: sticky; top: 10px; overflow: scroll" data-rect="0 150 200 100"
       data-scroll-size="200 400" data-composited-scrolling></div>
</div></body>`, WithScrollingCoordinator(st), WithFeatures(Features{AsyncOverflowScrolling: true}))
	c.View().ContentsSize = geom.Sz(800, 2000)
	outer, sticky := mustLayer(t, doc, "#outer"), mustLayer(t, doc, "#sticky")
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	require.True(t, c.IsComposited(outer))
	require.True(t, c.IsComposited(sticky))
	assert.NotZero(t, c.ReasonsForCompositing(outer)&ReasonOverflowScrolling)
	assert.Equal(t, ReasonPositionSticky|ReasonOverflowScrolling, c.ReasonsForCompositing(sticky))
	//
	outerID := c.Backing(outer).ScrollingNodeID(scrolling.OverflowNode)
	b := c.Backing(sticky)
	stickyID := b.ScrollingNodeID(scrolling.StickyNode)
	overflowID := b.ScrollingNodeID(scrolling.OverflowNode)
	require.NotEqual(t, scrolling.NoNode, outerID)
	require.NotEqual(t, scrolling.NoNode, stickyID)
	require.NotEqual(t, scrolling.NoNode, overflowID)
	assert.Equal(t, outerID, st.ParentOfNode(stickyID), "sticky node hangs below the scroller constraining it")
	assert.Equal(t, stickyID, st.ParentOfNode(overflowID))
	//
	constraints, ok := st.Node(stickyID).Constraints().(scrolling.StickyConstraints)
	require.True(t, ok)
	assert.Equal(t, scrolling.EdgeSet(scrolling.Top), constraints.AnchorEdges)
	assert.Equal(t, geom.Px(10), constraints.Offsets[scrolling.Top])
	assert.Equal(t, geom.R(0, 100, 400, 400), constraints.ConstrainingRectAtLastLayout,
		"constraining rect is the scrolled clip of the scroller")
	assert.Equal(t, geom.R(0, 50, 200, 150), constraints.StickyBoxRect)
	assert.Equal(t, geom.R(0, 0, 400, 300), constraints.ContainingBlockRect)
	t.Logf("\n%s", st)
	//
	old := sticky.Style
	sticky.Style.Position = style.Fixed(nil)
	c.LayerStyleChanged(sticky, old)
	require.True(t, c.UpdateCompositingLayers(OnStyleChange))
	require.True(t, c.IsComposited(sticky))
	fixedID := b.ScrollingNodeID(scrolling.FixedNode)
	newOverflowID := b.ScrollingNodeID(scrolling.OverflowNode)
	require.NotEqual(t, scrolling.NoNode, fixedID)
	require.NotEqual(t, scrolling.NoNode, newOverflowID)
	assert.Equal(t, scrolling.NoNode, b.ScrollingNodeID(scrolling.StickyNode))
	assert.Nil(t, st.Node(stickyID))
	assert.Nil(t, st.Node(overflowID), "nodes below a replaced node are destroyed")
	assert.NotEqual(t, overflowID, newOverflowID, "descendant nodes are re-created")
	assert.Equal(t, fixedID, st.ParentOfNode(newOverflowID))
	assert.Equal(t, b.ScrolledContentsLayer(), st.Node(newOverflowID).Layers().ScrolledContents)
	assert.Equal(t, sticky, c.LayerForScrollingNode(newOverflowID))
	assert.Nil(t, c.LayerForScrollingNode(overflowID))
}
