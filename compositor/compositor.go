package compositor

import (
	"errors"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/layer"
	"github.com/npillmayer/compositor/scrolling"
	"github.com/npillmayer/compositor/style"
)

// ErrNoLayerTree is returned by New for a view without a layer tree.
var ErrNoLayerTree = errors.New("compositor: view has no render layer tree")

// Compositor manages the compositing of the render layers of a frame view.
// It decides which layers get backings, builds the graphics layer tree and
// registers scrolling nodes with a scrolling coordinator.
//
// A compositor is not safe for concurrent use. All calls, including timer
// callbacks, have to happen on the goroutine owning the view.
type Compositor struct {
	config         Config
	view           *View
	backings       map[layer.ID]*Backing
	scrollingNodes map[scrolling.NodeID]layer.ID
	reevaluate     []*layer.RenderLayer // layers to re-evaluate after layout
	compositing    bool
	attachment     RootLayerAttachment
	inWindow       bool
	stats          Stats
	rootLayers
	scheduler
}

// New creates a compositor for a view. Without a timer option, the
// compositor uses manual timers, which never fire on their own.
func New(view *View, opts ...Option) (*Compositor, error) {
	if view == nil || view.Layers == nil {
		return nil, ErrNoLayerTree
	}
	config := DefaultConfig()
	for _, opt := range opts {
		config = opt(config)
	}
	if config.Timers == nil {
		config.Timers = NewManualTimers()
	}
	if config.Platform == nil {
		config.Platform = DesktopPlatform{}
	}
	c := &Compositor{
		config:         config,
		view:           view,
		backings:       make(map[layer.ID]*Backing),
		scrollingNodes: make(map[scrolling.NodeID]layer.ID),
		inWindow:       true,
	}
	c.initScheduler()
	if root := view.Layers.Root(); root != nil {
		root.SetNeedsCompositingRequirementsTraversal()
	}
	tracer().Debugf("compositor created, triggers = %v, policy = %v", config.Triggers, config.Policy)
	return c, nil
}

// Config returns the settings of c.
func (c *Compositor) Config() Config {
	return c.config
}

// View returns the view c works for.
func (c *Compositor) View() *View {
	return c.view
}

func (c *Compositor) backing(l *layer.RenderLayer) *Backing {
	if l == nil {
		return nil
	}
	return c.backings[l.ID()]
}

// Backing returns the backing of a composited layer, or nil.
func (c *Compositor) Backing(l *layer.RenderLayer) *Backing {
	return c.backing(l)
}

// IsComposited is true if l has a backing.
func (c *Compositor) IsComposited(l *layer.RenderLayer) bool {
	return c.backing(l) != nil
}

// InCompositingMode is true if any layer of the view is composited.
func (c *Compositor) InCompositingMode() bool {
	return c.compositing
}

// Stats returns the counters of c.
func (c *Compositor) Stats() Stats {
	return c.stats
}

// ReevaluateAfterLayout returns the layers whose compositing decision is
// deferred until layout is valid again.
func (c *Compositor) ReevaluateAfterLayout() []*layer.RenderLayer {
	return c.reevaluate
}

// --- Notifications -----------------------------------------------------------

// LayerStyleChanged tells the compositor that the style of l changed from
// old to l.Style.
func (c *Compositor) LayerStyleChanged(l *layer.RenderLayer, old style.Style) {
	if old.IsStackingContext() != l.Style.IsStackingContext() || old.ZIndex != l.Style.ZIndex ||
		old.Position.IsPositioned() != l.Style.Position.IsPositioned() {
		c.view.Layers.InvalidateLayerLists()
		if p := l.ParentLayer(); p != nil {
			p.SetNeedsCompositingPaintOrderChildrenUpdate()
		}
	}
	l.SetNeedsCompositingRequirementsTraversal()
	if c.backing(l) != nil {
		l.SetNeedsCompositingConfigurationUpdate()
		l.SetNeedsCompositingGeometryUpdate()
	}
	if old.HasTransform() != l.Style.HasTransform() || old.Transform.Matrix != l.Style.Transform.Matrix ||
		old.Position.IsFixed() != l.Style.Position.IsFixed() {
		// overlap changes for everything painted later
		l.SetSubsequentLayersNeedCompositingRequirementsTraversal()
		l.SetChildrenNeedCompositingGeometryUpdate()
	}
	if old.Opacity() != l.Style.Opacity() || old.CreatesGroup() != l.Style.CreatesGroup() {
		l.SetDescendantsNeedCompositingRequirementsTraversal()
	}
	if refl := l.ReflectionLayer(); refl != nil {
		refl.SetNeedsCompositingRequirementsTraversal()
	}
	c.ScheduleCompositingLayerUpdate()
}

// LayerGeometryChanged tells the compositor that layout moved or resized l.
func (c *Compositor) LayerGeometryChanged(l *layer.RenderLayer) {
	l.SetNeedsPostLayoutCompositingUpdate()
	l.SetSubsequentLayersNeedCompositingRequirementsTraversal()
	l.SetNeedsCompositingGeometryUpdate()
	l.SetChildrenNeedCompositingGeometryUpdate()
	l.SetNeedsCompositingGeometryUpdateOnAncestors()
	if c.backing(l) != nil && (l.Style.Position.IsFixed() || l.Style.Position.IsSticky()) {
		l.SetNeedsScrollingTreeUpdate()
	}
	c.ScheduleCompositingLayerUpdate()
}

// LayerWasAdded tells the compositor that l has been inserted into the tree.
func (c *Compositor) LayerWasAdded(l *layer.RenderLayer) {
	l.SetNeedsCompositingRequirementsTraversal()
	l.SetDescendantsNeedCompositingRequirementsTraversal()
	l.SetSubsequentLayersNeedCompositingRequirementsTraversal()
	if p := l.PaintOrderParent(); p != nil {
		p.SetNeedsCompositingLayerConnection()
	}
	c.ScheduleCompositingLayerUpdate()
}

// LayerWillBeRemoved tells the compositor that l and its descendants are
// about to be removed from the tree. Their backings are destroyed.
func (c *Compositor) LayerWillBeRemoved(l *layer.RenderLayer) {
	if anc := c.enclosingCompositedAncestor(l); anc != nil {
		c.repaintOnCompositingChange(l)
		anc.SetNeedsCompositingLayerConnection()
		anc.SetNeedsCompositingGeometryUpdate()
	}
	c.destroyBackingsInSubtree(l)
	c.forgetReevaluation(l)
	if p := l.PaintOrderParent(); p != nil {
		p.SetNeedsCompositingRequirementsTraversal()
		p.SetSubsequentLayersNeedCompositingRequirementsTraversal()
	}
	c.ScheduleCompositingLayerUpdate()
}

func (c *Compositor) deferReevaluation(l *layer.RenderLayer) {
	for _, r := range c.reevaluate {
		if r == l {
			return
		}
	}
	c.reevaluate = append(c.reevaluate, l)
}

func (c *Compositor) forgetReevaluation(removed *layer.RenderLayer) {
	keep := c.reevaluate[:0]
	for _, l := range c.reevaluate {
		if !isAncestorOrSelf(removed, l) {
			keep = append(keep, l)
		}
	}
	c.reevaluate = keep
}

func isAncestorOrSelf(anc, l *layer.RenderLayer) bool {
	for p := l; p != nil; p = p.ParentLayer() {
		if p == anc {
			return true
		}
	}
	return false
}

// DidLayout tells the compositor that layout is valid again. Layers whose
// decisions have been deferred are re-evaluated, and a compositing update
// runs immediately.
func (c *Compositor) DidLayout() {
	c.view.LayoutValid = true
	for _, l := range c.reevaluate {
		l.SetNeedsPostLayoutCompositingUpdate()
	}
	c.reevaluate = nil
	if root := c.view.Layers.Root(); root != nil {
		root.SetNeedsCompositingGeometryUpdate()
	}
	c.UpdateCompositingLayers(OnLayout)
}

// InvalidateLayout tells the compositor that layout is pending.
func (c *Compositor) InvalidateLayout() {
	c.view.LayoutValid = false
}

// FrameViewDidScroll tells the compositor that the document scrolled to pos.
// Viewport-constrained layers are re-evaluated and an unthrottled update
// runs.
func (c *Compositor) FrameViewDidScroll(pos geom.Point) {
	if pos == c.view.ScrollPosition {
		return
	}
	c.view.ScrollPosition = pos
	if c.scrollLayer != nil {
		c.scrollLayer.SetPosition(geom.Neg(pos))
	}
	for _, l := range c.view.Layers.Layers() {
		if l.Style.Position.IsFixed() || l.Style.Position.IsSticky() {
			l.SetNeedsCompositingRequirementsTraversal()
			l.SetSubsequentLayersNeedCompositingRequirementsTraversal()
			l.SetNeedsCompositingGeometryUpdate()
			l.SetNeedsScrollingTreeUpdate()
		}
	}
	if !c.UpdateCompositingLayers(OnScroll) && c.RootGraphicsLayer() != nil {
		c.ScheduleLayerFlush(false)
	}
}

// OverflowDidScroll tells the compositor that a scroll container scrolled to
// offset.
func (c *Compositor) OverflowDidScroll(l *layer.RenderLayer, offset geom.Point) {
	if l.ScrollOffset == offset {
		return
	}
	l.ScrollOffset = offset
	if b := c.backing(l); b != nil && b.scrolledContents != nil {
		b.updateScrollOffset()
		l.SetNeedsScrollingTreeUpdate()
		c.UpdateCompositingLayers(CompositedScroll)
		return
	}
	l.SetNeedsCompositingRequirementsTraversal()
	l.SetDescendantsNeedCompositingRequirementsTraversal()
	l.SetChildrenNeedCompositingGeometryUpdate()
	c.UpdateCompositingLayers(OnScroll)
}

// FrameViewDidChangeSize tells the compositor that viewport or contents size
// changed.
func (c *Compositor) FrameViewDidChangeSize() {
	if root := c.view.Layers.Root(); root != nil {
		root.SetNeedsCompositingRequirementsTraversal()
		root.SetDescendantsNeedCompositingRequirementsTraversal()
		root.SetNeedsCompositingGeometryUpdate()
	}
	c.updateRootLayerGeometry()
	c.ScheduleCompositingLayerUpdate()
}
