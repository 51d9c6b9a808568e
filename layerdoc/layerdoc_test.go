package layerdoc

import (
	"testing"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/layer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var page = `<html><body>
<div id="header" style="position: fixed; top: 0" data-rect="0 0 800 50"></div>
<p>some text which does not create a layer</p>
<div id="content" class="main scroller" style="overflow: scroll" data-rect="0 50 800 550"
     data-scroll-size="800 2000" data-scroll-offset="0 100px" data-composited-scrolling>
  <span>
    <video id="intro" data-layer data-content="video" data-accelerated data-rect="10 10 320 200"></video>
  </span>
  <div class="box" style="transform: rotate(5deg)" data-rect="0 300 100 100"
       data-animate="transform" data-keyframes="translate(0px); translate(100px)" data-paused data-reflect></div>
</div>
</body></html>`

func TestParseLayerTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor.layerdoc")
	defer teardown()
	//
	doc, err := Parse(page, geom.Sz(800, 600))
	require.NoError(t, err)
	root := doc.Tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, geom.Sz(800, 600), root.Size)
	require.Len(t, root.ChildLayers(), 2)
	assert.Equal(t, "div#header", root.ChildLayers()[0].Name)
	assert.Equal(t, "div#content", root.ChildLayers()[1].Name)
	//
	content := doc.Layer("#content")
	require.NotNil(t, content)
	assert.Equal(t, geom.Pt(0, 50), content.Offset)
	assert.Equal(t, geom.Sz(800, 2000), content.ScrollSize)
	assert.Equal(t, geom.Pt(0, 100), content.ScrollOffset)
	assert.True(t, content.CompositedScrolling)
	assert.True(t, content.IsScrollContainer())
	//
	video := doc.Layer("video")
	require.NotNil(t, video)
	assert.Equal(t, content, video.ParentLayer(), "span does not create a layer")
	v, ok := video.Video()
	assert.True(t, ok)
	assert.True(t, v.AcceleratedPlayback)
	//
	header := doc.Layer("#header")
	assert.True(t, header.Style.Position.IsFixed())
}

func TestParseAnimationAndReflection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor.layerdoc")
	defer teardown()
	//
	doc, err := Parse(page, geom.Sz(800, 600))
	require.NoError(t, err)
	box := doc.Layer(".box")
	require.NotNil(t, box)
	assert.Equal(t, "div.box", box.Name)
	assert.True(t, box.HasTransform())
	require.Len(t, box.Animations, 1)
	a := box.Animations[0]
	assert.False(t, a.Running)
	assert.Equal(t, layer.AnimatesTransform, a.Properties)
	assert.Len(t, a.Keyframes, 2)
	//
	refl := box.ReflectionLayer()
	require.NotNil(t, refl)
	assert.Equal(t, box, refl.ReflectionSource())
	assert.Equal(t, box.Size, refl.Size)
}

func TestQuery(t *testing.T) {
	doc, err := Parse(page, geom.Sz(800, 600))
	require.NoError(t, err)
	ls, err := doc.Query("div")
	require.NoError(t, err)
	assert.Len(t, ls, 3)
	ls, err = doc.Query("p")
	require.NoError(t, err)
	assert.Empty(t, ls, "paragraph does not create a layer")
	_, err = doc.Query("div[")
	assert.Error(t, err)
	assert.Nil(t, doc.Layer("#missing"))
	//
	body := doc.Element(doc.Tree.Root())
	require.NotNil(t, body)
	assert.Equal(t, "body", body.Data)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(`<body><div data-rect="1 2 3"></div></body>`, geom.Sz(100, 100))
	assert.Error(t, err)
	_, err = Parse(`<body><div data-layer data-content="hologram"></div></body>`, geom.Sz(100, 100))
	assert.Error(t, err)
	_, err = Parse(`<body><div data-layer data-animate="color"></div></body>`, geom.Sz(100, 100))
	assert.Error(t, err)
}

func TestAnnotationsCreateLayers(t *testing.T) {
	doc, err := Parse(`<body>
<div id="plain"><canvas id="cv" data-content="canvas" data-rect="0 0 300 150"></canvas></div>
<img id="pic" data-rect="10 10 20 20">
</body>`, geom.Sz(800, 600))
	require.NoError(t, err)
	assert.Nil(t, doc.Layer("#plain"), "plain div does not create a layer")
	cv := doc.Layer("#cv")
	require.NotNil(t, cv)
	assert.Equal(t, doc.Tree.Root(), cv.ParentLayer())
	assert.Equal(t, geom.Sz(300, 150), cv.Size)
	pic := doc.Layer("#pic")
	require.NotNil(t, pic)
	assert.Equal(t, geom.Pt(10, 10), pic.Offset)
	assert.Len(t, doc.Tree.Root().ChildLayers(), 2)
}
