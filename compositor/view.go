package compositor

import (
	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/graphics"
	"github.com/npillmayer/compositor/layer"
)

// View is the frame view a compositor works for. It is owned by the layout
// collaborator, which keeps its fields current.
type View struct {
	Layers         *layer.Tree
	ViewportSize   geom.Size  // size of the visible area
	ContentsSize   geom.Size  // size of the scrollable document
	ScrollPosition geom.Point // scroll position of the document
	MainFrame      bool       // false for the view of a child frame
	LayoutValid    bool       // false while layout is pending
	HeaderHeight   geom.Unit  // height of a header banner above the document
	FooterHeight   geom.Unit  // height of a footer banner below the document
}

// NewView creates a valid main frame view for a layer tree, with the
// document filling the viewport.
func NewView(layers *layer.Tree, viewport geom.Size) *View {
	return &View{
		Layers:       layers,
		ViewportSize: viewport,
		ContentsSize: viewport,
		MainFrame:    true,
		LayoutValid:  true,
	}
}

// VisibleContentRect returns the visible part of the document in document
// coordinates.
func (v *View) VisibleContentRect() geom.Rect {
	return geom.RectAt(v.ScrollPosition, v.ViewportSize)
}

// documentRect returns the rect covered by the document, at least the
// viewport.
func (v *View) documentRect() geom.Rect {
	sz := v.ContentsSize
	if sz.W < v.ViewportSize.W {
		sz.W = v.ViewportSize.W
	}
	if sz.H < v.ViewportSize.H {
		sz.H = v.ViewportSize.H
	}
	return geom.RectAt(geom.Point{}, sz)
}

// IsScrollable is true if the document exceeds the viewport.
func (v *View) IsScrollable() bool {
	return v.ContentsSize.W > v.ViewportSize.W || v.ContentsSize.H > v.ViewportSize.H
}

// Host displays the root graphics layer of a main frame compositor.
type Host interface {
	// AttachRootGraphicsLayer hands over the root graphics layer, or nil to
	// leave compositing mode.
	AttachRootGraphicsLayer(root *graphics.Layer)
	// LayerFlushScheduled is called when the compositor needs a flush.
	LayerFlushScheduled()
}

// PlatformStrategy encapsulates platform specific compositing behavior.
type PlatformStrategy interface {
	// KeepsCompositingWhenIdle is true if the platform stays in compositing
	// mode when no layer requires compositing any longer, to avoid flicker.
	KeepsCompositingWhenIdle() bool
	// DelegatesScrolling is true if the platform scrolls the main frame by
	// itself, so no scroll layers are needed.
	DelegatesScrolling() bool
	// ScrollbarLayers is true if scrollbars are rendered into their own
	// graphics layers.
	ScrollbarLayers() bool
	// SupportsOverhangAreas is true if rubber-banding exposes overhang areas.
	SupportsOverhangAreas() bool
	// SupportsHeaderFooterLayers is true if the platform shows header and
	// footer banners above and below the document.
	SupportsHeaderFooterLayers() bool
}

// DesktopPlatform is the default platform strategy: the compositor scrolls
// the main frame with layered scrollbars and overhang areas.
type DesktopPlatform struct{}

func (DesktopPlatform) KeepsCompositingWhenIdle() bool   { return false }
func (DesktopPlatform) DelegatesScrolling() bool         { return false }
func (DesktopPlatform) ScrollbarLayers() bool            { return true }
func (DesktopPlatform) SupportsOverhangAreas() bool      { return true }
func (DesktopPlatform) SupportsHeaderFooterLayers() bool { return true }

// MobilePlatform delegates scrolling to the platform and stays in compositing
// mode once it has been entered.
type MobilePlatform struct{}

func (MobilePlatform) KeepsCompositingWhenIdle() bool   { return true }
func (MobilePlatform) DelegatesScrolling() bool         { return true }
func (MobilePlatform) ScrollbarLayers() bool            { return false }
func (MobilePlatform) SupportsOverhangAreas() bool      { return false }
func (MobilePlatform) SupportsHeaderFooterLayers() bool { return false }
