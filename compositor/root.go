package compositor

import (
	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/graphics"
	"github.com/npillmayer/compositor/layer"
)

// RootLayerAttachment tells where the root graphics layer is displayed.
type RootLayerAttachment uint8

const (
	Unattached         RootLayerAttachment = iota
	ViaHost                                // main frame, handed to the host
	ViaEnclosingFrame                      // child frame, attached to the owner's backing
)

func (a RootLayerAttachment) String() string {
	switch a {
	case ViaHost:
		return "via-host"
	case ViaEnclosingFrame:
		return "via-enclosing-frame"
	}
	return "unattached"
}

// ScrollbarThickness is the size of layered scrollbars.
var ScrollbarThickness = geom.Px(15)

// rootLayers are the graphics layers above the root backing:
//
//     overflow controls host
//       ├─ overhang areas
//       ├─ frame clipping
//       │    └─ frame scrolling
//       │         ├─ content shadow
//       │         ├─ header
//       │         ├─ content root ── root backing
//       │         └─ footer
//       ├─ horizontal scrollbar
//       ├─ vertical scrollbar
//       └─ scroll corner
//
// If the platform delegates scrolling, only the content root exists.
type rootLayers struct {
	rootContents  *graphics.Layer
	overflowHost  *graphics.Layer
	clipLayer     *graphics.Layer
	scrollLayer   *graphics.Layer
	overhang      *graphics.Layer
	contentShadow *graphics.Layer
	header        *graphics.Layer
	footer        *graphics.Layer
	hScrollbar    *graphics.Layer
	vScrollbar    *graphics.Layer
	scrollCorner  *graphics.Layer
}

func (c *Compositor) newRootGraphicsLayer(name string) *graphics.Layer {
	g := graphics.NewLayer(name)
	g.SetShowDebugBorder(c.config.ShowDebugBorders)
	g.SetShowRepaintCounter(c.config.ShowRepaintCounter)
	return g
}

// ensureRootLayer creates the root graphics layers.
func (c *Compositor) ensureRootLayer() {
	if c.rootContents != nil {
		return
	}
	tracer().Debugf("creating root graphics layers")
	c.rootContents = c.newRootGraphicsLayer("content root")
	platform := c.config.Platform
	if !c.view.MainFrame || !platform.DelegatesScrolling() {
		c.overflowHost = c.newRootGraphicsLayer("overflow controls host")
		c.clipLayer = c.newRootGraphicsLayer("frame clipping")
		c.clipLayer.SetMasksToBounds(true)
		c.scrollLayer = c.newRootGraphicsLayer("frame scrolling")
		c.overflowHost.AddChildLayer(c.clipLayer)
		c.clipLayer.AddChildLayer(c.scrollLayer)
		c.scrollLayer.AddChildLayer(c.rootContents)
		if c.view.MainFrame && platform.SupportsOverhangAreas() {
			c.overhang = c.newRootGraphicsLayer("overhang areas")
			c.overflowHost.AddChildLayerBelow(c.overhang, c.clipLayer)
			c.contentShadow = c.newRootGraphicsLayer("content shadow")
			c.scrollLayer.AddChildLayerBelow(c.contentShadow, c.rootContents)
		}
	}
	c.updateHeaderFooterLayers()
	c.updateOverflowControlsLayers()
	c.updateRootLayerGeometry()
}

// destroyRootLayer detaches and drops the root graphics layers.
func (c *Compositor) destroyRootLayer() {
	if c.rootContents == nil {
		return
	}
	c.detachRootLayer()
	if c.overflowHost != nil {
		c.overflowHost.RemoveAllChildLayers()
	}
	c.rootContents.RemoveAllChildLayers()
	c.rootLayers = rootLayers{}
	tracer().Debugf("root graphics layers destroyed")
}

// updateHeaderFooterLayers adds or removes header and footer banners of the
// main frame.
func (c *Compositor) updateHeaderFooterLayers() {
	if c.scrollLayer == nil || !c.view.MainFrame || !c.config.Platform.SupportsHeaderFooterLayers() {
		return
	}
	c.header = c.updateBannerLayer(c.header, "header", c.view.HeaderHeight > 0, true)
	c.footer = c.updateBannerLayer(c.footer, "footer", c.view.FooterHeight > 0, false)
}

func (c *Compositor) updateBannerLayer(g *graphics.Layer, name string, needed, below bool) *graphics.Layer {
	switch {
	case needed && g == nil:
		g = c.newRootGraphicsLayer(name)
		g.SetDrawsContent(true)
		if below {
			c.scrollLayer.AddChildLayerBelow(g, c.rootContents)
		} else {
			c.scrollLayer.AddChildLayer(g)
		}
	case !needed && g != nil:
		g.RemoveFromParentLayer()
		g = nil
	}
	return g
}

// updateOverflowControlsLayers adds or removes layered scrollbars.
func (c *Compositor) updateOverflowControlsLayers() {
	if c.overflowHost == nil {
		return
	}
	layered := c.config.Platform.ScrollbarLayers()
	v := c.view
	hNeeded := layered && v.ContentsSize.W > v.ViewportSize.W
	vNeeded := layered && v.ContentsSize.H > v.ViewportSize.H
	c.hScrollbar = c.updateControlLayer(c.hScrollbar, "horizontal scrollbar", hNeeded)
	c.vScrollbar = c.updateControlLayer(c.vScrollbar, "vertical scrollbar", vNeeded)
	c.scrollCorner = c.updateControlLayer(c.scrollCorner, "scroll corner", hNeeded && vNeeded)
}

func (c *Compositor) updateControlLayer(g *graphics.Layer, name string, needed bool) *graphics.Layer {
	switch {
	case needed && g == nil:
		g = c.newRootGraphicsLayer(name)
		g.SetDrawsContent(true)
		c.overflowHost.AddChildLayer(g)
	case !needed && g != nil:
		g.RemoveFromParentLayer()
		g = nil
	}
	return g
}

// updateRootLayerGeometry sizes and positions the root graphics layers from
// the view.
func (c *Compositor) updateRootLayerGeometry() {
	if c.rootContents == nil {
		return
	}
	v := c.view
	doc := geom.SizeOf(v.documentRect())
	c.rootContents.SetPosition(geom.Point{Y: v.HeaderHeight})
	c.rootContents.SetSize(doc)
	if c.overflowHost != nil {
		c.overflowHost.SetSize(v.ViewportSize)
		c.clipLayer.SetSize(v.ViewportSize)
		c.scrollLayer.SetPosition(geom.Neg(v.ScrollPosition))
		c.scrollLayer.SetSize(geom.Size{W: doc.W, H: doc.H + v.HeaderHeight + v.FooterHeight})
	}
	if c.overhang != nil {
		c.overhang.SetSize(v.ViewportSize)
	}
	if c.contentShadow != nil {
		c.contentShadow.SetPosition(c.rootContents.Position())
		c.contentShadow.SetSize(doc)
	}
	if c.header != nil {
		c.header.SetSize(geom.Size{W: doc.W, H: v.HeaderHeight})
	}
	if c.footer != nil {
		c.footer.SetPosition(geom.Point{Y: v.HeaderHeight + doc.H})
		c.footer.SetSize(geom.Size{W: doc.W, H: v.FooterHeight})
	}
	t := ScrollbarThickness
	if c.hScrollbar != nil {
		c.hScrollbar.SetPosition(geom.Point{Y: v.ViewportSize.H - t})
		c.hScrollbar.SetSize(geom.Size{W: v.ViewportSize.W - t, H: t})
	}
	if c.vScrollbar != nil {
		c.vScrollbar.SetPosition(geom.Point{X: v.ViewportSize.W - t})
		c.vScrollbar.SetSize(geom.Size{W: t, H: v.ViewportSize.H - t})
	}
	if c.scrollCorner != nil {
		c.scrollCorner.SetPosition(geom.Point{X: v.ViewportSize.W - t, Y: v.ViewportSize.H - t})
		c.scrollCorner.SetSize(geom.Size{W: t, H: t})
	}
}

// RootGraphicsLayer returns the topmost graphics layer of the frame, or nil
// if the compositor is not in compositing mode.
func (c *Compositor) RootGraphicsLayer() *graphics.Layer {
	if c.overflowHost != nil {
		return c.overflowHost
	}
	return c.rootContents
}

// ClipLayer returns the layer clipping the frame to the viewport, or nil.
func (c *Compositor) ClipLayer() *graphics.Layer { return c.clipLayer }

// ScrollContainerLayer returns the container of the frame's scrolled
// contents, or nil.
func (c *Compositor) ScrollContainerLayer() *graphics.Layer { return c.clipLayer }

// ScrolledContentsLayer returns the layer moved by frame scrolling, or nil.
func (c *Compositor) ScrolledContentsLayer() *graphics.Layer { return c.scrollLayer }

// HeaderLayer returns the header banner layer, or nil.
func (c *Compositor) HeaderLayer() *graphics.Layer { return c.header }

// FooterLayer returns the footer banner layer, or nil.
func (c *Compositor) FooterLayer() *graphics.Layer { return c.footer }

// OverhangAreasLayer returns the layer painting rubber-band overhang, or nil.
func (c *Compositor) OverhangAreasLayer() *graphics.Layer { return c.overhang }

// HorizontalScrollbarLayer returns the horizontal scrollbar layer, or nil.
func (c *Compositor) HorizontalScrollbarLayer() *graphics.Layer { return c.hScrollbar }

// VerticalScrollbarLayer returns the vertical scrollbar layer, or nil.
func (c *Compositor) VerticalScrollbarLayer() *graphics.Layer { return c.vScrollbar }

// ScrollCornerLayer returns the scroll corner layer, or nil.
func (c *Compositor) ScrollCornerLayer() *graphics.Layer { return c.scrollCorner }

// --- Attachment --------------------------------------------------------------

// RootLayerAttachment tells where the root graphics layer is displayed.
func (c *Compositor) RootLayerAttachment() RootLayerAttachment {
	return c.attachment
}

// attachRootLayer hands the root graphics layer to the host, or to the
// compositor of the enclosing frame. A flush requested while detached is
// replayed.
func (c *Compositor) attachRootLayer() {
	if c.rootContents == nil || c.attachment != Unattached {
		return
	}
	if parent := c.config.parent; parent != nil && !c.view.MainFrame {
		c.attachment = ViaEnclosingFrame
		c.notifyOwnerLayer()
	} else {
		if c.config.Host != nil {
			c.config.Host.AttachRootGraphicsLayer(c.RootGraphicsLayer())
		}
		c.attachment = ViaHost
	}
	tracer().Infof("root graphics layer attached %v", c.attachment)
	if c.flushOnReattach {
		c.flushOnReattach = false
		c.FlushPendingLayerChanges(true)
	}
}

// detachRootLayer takes the root graphics layer off display.
func (c *Compositor) detachRootLayer() {
	switch c.attachment {
	case ViaHost:
		if c.config.Host != nil {
			c.config.Host.AttachRootGraphicsLayer(nil)
		}
	case ViaEnclosingFrame:
		if g := c.RootGraphicsLayer(); g != nil {
			g.RemoveFromParentLayer()
		}
		c.notifyOwnerLayer()
	default:
		return
	}
	tracer().Infof("root graphics layer detached")
	c.attachment = Unattached
}

// notifyOwnerLayer tells the enclosing frame to re-evaluate the layer hosting
// this frame.
func (c *Compositor) notifyOwnerLayer() {
	parent, owner := c.config.parent, c.config.ownerLayer
	if parent == nil || owner == nil {
		return
	}
	owner.SetNeedsCompositingRequirementsTraversal()
	owner.SetNeedsCompositingConfigurationUpdate()
	owner.SetNeedsCompositingLayerConnection()
	parent.ScheduleCompositingLayerUpdate()
}

// SetIsInWindow attaches or detaches the root graphics layer when the view
// is shown or hidden.
func (c *Compositor) SetIsInWindow(in bool) {
	c.inWindow = in
	if !c.compositing {
		return
	}
	if in {
		c.ensureRootLayer()
		c.attachRootLayer()
	} else {
		c.detachRootLayer()
	}
}

// enableCompositingMode enters or leaves compositing mode.
func (c *Compositor) enableCompositingMode(enable bool) {
	if enable == c.compositing {
		return
	}
	c.compositing = enable
	if enable {
		c.ensureRootLayer()
		if c.inWindow {
			c.attachRootLayer()
		}
	} else {
		c.destroyRootLayer()
	}
	tracer().Infof("compositing mode %s", onOff(enable))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// --- Child frame -------------------------------------------------------------

var _ layer.ChildFrame = (*Compositor)(nil)

// UsesCompositing is true if the compositor is in compositing mode.
func (c *Compositor) UsesCompositing() bool {
	return c.compositing
}

// ContentSize returns the size of the frame's document.
func (c *Compositor) ContentSize() geom.Size {
	return c.view.ContentsSize
}
