package compositor

import (
	"fmt"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/graphics"
	"github.com/npillmayer/compositor/layer"
	"github.com/npillmayer/compositor/scrolling"
)

// Backing is the compositing state of a composited render layer. It owns the
// graphics layers of the render layer:
//
//     primary ─┬─ clipping ── children      layer clips composited descendants
//              ├─ scroll container ── scrolled contents ── children
//              └─ children                  otherwise
//
// A foreground layer is inserted among the children, after the negative
// z-order children, if any of them is composited.
type Backing struct {
	owner            *Compositor
	layer            *layer.RenderLayer
	graphics         *graphics.Layer
	clipping         *graphics.Layer
	scrollContainer  *graphics.Layer
	scrolledContents *graphics.Layer
	foreground       *graphics.Layer
	compositedBounds geom.Rect // in local coordinates of the render layer
	nodes            [roleCount]roleNode
	reasons          Reasons // direct reasons of the last evaluation
}

// scrollingRole is a role a backing plays in the scrolling tree.
type scrollingRole uint8

const (
	viewportConstrainedRole scrollingRole = iota
	scrollingNodeRole
	frameHostingRole
	roleCount
)

type roleNode struct {
	id  scrolling.NodeID
	typ scrolling.NodeType
}

func newBacking(c *Compositor, l *layer.RenderLayer) *Backing {
	b := &Backing{owner: c, layer: l}
	b.graphics = b.createGraphicsLayer(layerName(l))
	return b
}

func layerName(l *layer.RenderLayer) string {
	if l.IsRoot() {
		return "root layer"
	}
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("layer %d", l.ID())
}

func (b *Backing) createGraphicsLayer(name string) *graphics.Layer {
	g := graphics.NewLayer(name)
	g.SetShowDebugBorder(b.owner.config.ShowDebugBorders)
	g.SetShowRepaintCounter(b.owner.config.ShowRepaintCounter)
	return g
}

// Layer returns the render layer of the backing.
func (b *Backing) Layer() *layer.RenderLayer {
	return b.layer
}

// GraphicsLayer returns the primary graphics layer.
func (b *Backing) GraphicsLayer() *graphics.Layer {
	return b.graphics
}

// ClippingLayer returns the layer clipping composited descendants, or nil.
func (b *Backing) ClippingLayer() *graphics.Layer {
	return b.clipping
}

// ScrollContainerLayer returns the clipping layer of composited scrolling,
// or nil.
func (b *Backing) ScrollContainerLayer() *graphics.Layer {
	return b.scrollContainer
}

// ScrolledContentsLayer returns the layer moved by composited scrolling, or nil.
func (b *Backing) ScrolledContentsLayer() *graphics.Layer {
	return b.scrolledContents
}

// ForegroundLayer returns the layer painting the contents above composited
// negative z-order children, or nil.
func (b *Backing) ForegroundLayer() *graphics.Layer {
	return b.foreground
}

// CompositedBounds returns the bounds of the primary graphics layer, in local
// coordinates of the render layer.
func (b *Backing) CompositedBounds() geom.Rect {
	return b.compositedBounds
}

// ScrollingNodeID returns the scrolling node of a node type the backing
// plays, or NoNode.
func (b *Backing) ScrollingNodeID(t scrolling.NodeType) scrolling.NodeID {
	n := b.nodes[roleFor(t)]
	if n.typ != t {
		return scrolling.NoNode
	}
	return n.id
}

func roleFor(t scrolling.NodeType) scrollingRole {
	switch {
	case t.IsViewportConstrained():
		return viewportConstrainedRole
	case t == scrolling.FrameHostingNode:
		return frameHostingRole
	}
	return scrollingNodeRole
}

// parentForSublayers returns the graphics layer composited children are
// attached to.
func (b *Backing) parentForSublayers() *graphics.Layer {
	switch {
	case b.scrolledContents != nil:
		return b.scrolledContents
	case b.clipping != nil:
		return b.clipping
	}
	return b.graphics
}

// childForSuperlayers returns the graphics layer attached to the backing of
// the compositing ancestor.
func (b *Backing) childForSuperlayers() *graphics.Layer {
	return b.graphics
}

// sublayerOrigin returns the origin of parentForSublayers in local
// coordinates of the render layer.
func (b *Backing) sublayerOrigin() geom.Point {
	if b.scrolledContents != nil || b.clipping != nil {
		clip, _ := b.layer.ClipRect()
		if b.scrolledContents != nil {
			return clip.Min.Sub(b.layer.ScrollOffset)
		}
		return clip.Min
	}
	return b.compositedBounds.Min
}

// --- Configuration -----------------------------------------------------------

// updateConfiguration adds or removes sublayers as needed and transfers
// style properties to the primary graphics layer. It returns true if the
// sublayer structure changed.
func (b *Backing) updateConfiguration() bool {
	c, l := b.owner, b.layer
	changed := false
	scrolls := c.usesCompositedScrolling(l)
	if b.updateClippingLayer(!scrolls && c.clipsCompositingDescendants(l)) {
		changed = true
	}
	if b.updateScrollingLayers(scrolls) {
		changed = true
	}
	if b.updateForegroundLayer(c.hasCompositedNegativeZOrderChild(l)) {
		changed = true
	}
	g := b.graphics
	paints := b.paintsContent()
	if b.foreground != nil {
		b.foreground.SetDrawsContent(paints)
	}
	g.SetDrawsContent(paints)
	g.SetContentsVisible(l.Style.IsVisible())
	g.SetOpacity(l.Style.Opacity())
	g.SetBlendMode(string(l.Style.BlendMode))
	g.SetPreserves3D(l.Style.Preserves3D())
	g.SetBackfaceHidden(l.Style.BackfaceHidden)
	if refl := l.ReflectionLayer(); refl != nil {
		if rb := c.backing(refl); rb != nil {
			g.SetReplicatedByLayer(rb.graphics)
		} else {
			g.SetReplicatedByLayer(nil)
		}
	}
	return changed
}

// paintsContent is true if the primary layer has anything to paint itself.
// Videos, plugins and frames render into their own surfaces.
func (b *Backing) paintsContent() bool {
	l := b.layer
	switch l.Kind() {
	case layer.Video, layer.Plugin, layer.Frame:
		return false
	case layer.Canvas:
		if cv, _ := l.Canvas(); cv.Mode == layer.CanvasAsLayerContents {
			return false
		}
	}
	if l.IsRoot() {
		return true
	}
	return l.HasVisibleContent() || b.hasPaintingDescendants(l)
}

// hasPaintingDescendants is true if a non-composited descendant paints into
// this backing.
func (b *Backing) hasPaintingDescendants(l *layer.RenderLayer) bool {
	for _, ch := range l.PaintOrderChildren() {
		if b.owner.backing(ch) != nil {
			continue
		}
		if ch.HasVisibleContent() || b.hasPaintingDescendants(ch) {
			return true
		}
	}
	return false
}

func (b *Backing) updateClippingLayer(needed bool) bool {
	if needed == (b.clipping != nil) {
		return false
	}
	if needed {
		b.clipping = b.createGraphicsLayer(b.graphics.Name() + " (clipping)")
		b.clipping.SetMasksToBounds(true)
		b.graphics.AddChildLayer(b.clipping)
	} else {
		b.clipping.RemoveFromParentLayer()
		b.clipping = nil
	}
	return true
}

func (b *Backing) updateScrollingLayers(needed bool) bool {
	if needed == (b.scrollContainer != nil) {
		return false
	}
	if needed {
		b.scrollContainer = b.createGraphicsLayer(b.graphics.Name() + " (scroll container)")
		b.scrollContainer.SetMasksToBounds(true)
		b.scrolledContents = b.createGraphicsLayer(b.graphics.Name() + " (scrolled contents)")
		b.scrollContainer.AddChildLayer(b.scrolledContents)
		b.graphics.AddChildLayer(b.scrollContainer)
	} else {
		b.scrollContainer.RemoveFromParentLayer()
		b.scrollContainer, b.scrolledContents = nil, nil
	}
	return true
}

func (b *Backing) updateForegroundLayer(needed bool) bool {
	if needed == (b.foreground != nil) {
		return false
	}
	if needed {
		b.foreground = b.createGraphicsLayer(b.graphics.Name() + " (foreground)")
	} else {
		b.foreground.RemoveFromParentLayer()
		b.foreground = nil
	}
	return true
}

// --- Geometry ----------------------------------------------------------------

// updateCompositedBounds recomputes the bounds of the primary layer. It
// returns true if they changed.
func (b *Backing) updateCompositedBounds() bool {
	bounds := b.owner.compositedBounds(b.layer)
	if bounds == b.compositedBounds {
		return false
	}
	b.compositedBounds = bounds
	return true
}

// updateGeometry positions the graphics layers of the backing relative to
// the backing of the compositing ancestor.
func (b *Backing) updateGeometry() {
	c, l := b.owner, b.layer
	bounds := b.compositedBounds
	g := b.graphics
	var pos geom.Point
	if src := l.ReflectionSource(); src != nil {
		if sb := c.backing(src); sb != nil {
			pos = c.offsetFromRoot(l).Add(bounds.Min).Sub(c.offsetFromRoot(src).Add(sb.compositedBounds.Min))
		}
	} else if anc := c.enclosingCompositedAncestor(l); anc != nil {
		ab := c.backing(anc)
		pos = c.offsetFromRoot(l).Add(bounds.Min).Sub(c.offsetFromRoot(anc).Add(ab.sublayerOrigin()))
	} else {
		pos = bounds.Min
	}
	g.SetPosition(pos)
	g.SetSize(geom.SizeOf(bounds))
	if l.HasTransform() {
		bx, by := geom.Float(bounds.Min.X), geom.Float(bounds.Min.Y)
		t := geom.Translation(-bx, -by).Multiply(l.LocalTransform()).Multiply(geom.Translation(bx, by))
		g.SetTransform(t)
	} else {
		g.SetTransform(geom.Identity())
	}
	if l.Style.HasPerspective() {
		g.SetChildrenTransform(geom.Identity().With3D())
	} else {
		g.SetChildrenTransform(geom.Identity())
	}
	clip, _ := l.ClipRect()
	if b.clipping != nil {
		b.clipping.SetPosition(clip.Min.Sub(bounds.Min))
		b.clipping.SetSize(geom.SizeOf(clip))
	}
	if b.scrollContainer != nil {
		b.scrollContainer.SetPosition(clip.Min.Sub(bounds.Min))
		b.scrollContainer.SetSize(geom.SizeOf(clip))
		b.updateScrollOffset()
	}
	if b.foreground != nil {
		b.foreground.SetPosition(bounds.Min.Sub(b.sublayerOrigin()))
		b.foreground.SetSize(geom.SizeOf(bounds))
	}
}

// updateScrollOffset moves the scrolled contents layer to the layer's
// current scroll offset.
func (b *Backing) updateScrollOffset() {
	if b.scrolledContents == nil {
		return
	}
	b.scrolledContents.SetPosition(geom.Neg(b.layer.ScrollOffset))
	sz := b.layer.ScrollSize
	if sz.IsEmpty() {
		sz = b.layer.Size
	}
	b.scrolledContents.SetSize(sz)
}

// --- Display -----------------------------------------------------------------

// setContentsNeedDisplayInRect invalidates r, given in local coordinates of
// the primary layer's bounds.
func (b *Backing) setContentsNeedDisplayInRect(r geom.Rect) {
	b.graphics.SetNeedsDisplayInRect(r)
	if b.foreground != nil {
		b.foreground.SetNeedsDisplayInRect(r)
	}
}

// destroy removes the graphics layers of the backing from the graphics tree.
func (b *Backing) destroy() {
	b.graphics.SetReplicatedByLayer(nil)
	if r := b.graphics.ReplicatedLayer(); r != nil {
		r.SetReplicatedByLayer(nil)
	}
	b.graphics.RemoveFromParentLayer()
	b.graphics.RemoveAllChildLayers()
	if b.foreground != nil {
		b.foreground.RemoveFromParentLayer()
	}
	b.clipping, b.scrollContainer, b.scrolledContents, b.foreground = nil, nil, nil, nil
}
