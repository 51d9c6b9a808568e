package layer

import (
	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/graphics"
)

// ElementKind is the kind of content a layer renders.
type ElementKind uint8

const (
	Generic ElementKind = iota
	Video
	Canvas
	Plugin
	Frame
	Image
)

var kindNames = []string{"generic", "video", "canvas", "plugin", "frame", "image"}

func (k ElementKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Content is what a layer renders. It is one of GenericContent, VideoContent,
// CanvasContent, PluginContent, FrameContent or ImageContent.
type Content interface {
	Kind() ElementKind
}

// GenericContent is painted content without special capabilities.
type GenericContent struct{}

// VideoContent is a video element.
type VideoContent struct {
	AcceleratedPlayback bool // frames may be handed to the compositor directly
}

// CanvasMode is the rendering strategy of a canvas.
type CanvasMode uint8

const (
	CanvasUnaccelerated   CanvasMode = iota // painted like other content
	CanvasPaintedToLayer                    // painted into a dedicated layer
	CanvasAsLayerContents                   // the canvas buffer is the layer's contents
)

// CanvasContent is a canvas element.
type CanvasContent struct {
	Mode CanvasMode
}

// PluginContent is an embedded plugin object.
type PluginContent struct {
	RequiresAcceleratedCompositing bool
}

// FrameContent is an iframe hosting a child document.
type FrameContent struct {
	Child ChildFrame // nil if the child document has not been loaded
}

// ImageContent is an image element.
type ImageContent struct {
	DirectlyComposited bool // the decoded image is used as layer contents
}

// ChildFrame is the view of a child document's compositor, as seen from the
// frame-owning layer.
type ChildFrame interface {
	// UsesCompositing is true if the child document is in compositing mode.
	UsesCompositing() bool
	// RootGraphicsLayer returns the root of the child's graphics layer tree.
	RootGraphicsLayer() *graphics.Layer
	// ContentSize is the size of the child document's view.
	ContentSize() geom.Size
}

func (GenericContent) Kind() ElementKind { return Generic }
func (VideoContent) Kind() ElementKind   { return Video }
func (CanvasContent) Kind() ElementKind  { return Canvas }
func (PluginContent) Kind() ElementKind  { return Plugin }
func (FrameContent) Kind() ElementKind   { return Frame }
func (ImageContent) Kind() ElementKind   { return Image }

// Kind returns the kind of the layer's content.
func (l *RenderLayer) Kind() ElementKind {
	if l.Content == nil {
		return Generic
	}
	return l.Content.Kind()
}

// Video returns the video capabilities of the layer's content.
func (l *RenderLayer) Video() (VideoContent, bool) {
	v, ok := l.Content.(VideoContent)
	return v, ok
}

// Canvas returns the canvas capabilities of the layer's content.
func (l *RenderLayer) Canvas() (CanvasContent, bool) {
	c, ok := l.Content.(CanvasContent)
	return c, ok
}

// Plugin returns the plugin capabilities of the layer's content.
func (l *RenderLayer) Plugin() (PluginContent, bool) {
	p, ok := l.Content.(PluginContent)
	return p, ok
}

// Frame returns the frame capabilities of the layer's content.
func (l *RenderLayer) Frame() (FrameContent, bool) {
	f, ok := l.Content.(FrameContent)
	return f, ok
}

// Image returns the image capabilities of the layer's content.
func (l *RenderLayer) Image() (ImageContent, bool) {
	i, ok := l.Content.(ImageContent)
	return i, ok
}

// IsEmbedded is true for content rendered by someone else (plugins, frames).
func (l *RenderLayer) IsEmbedded() bool {
	k := l.Kind()
	return k == Plugin || k == Frame
}
