package compositor

import (
	"github.com/npillmayer/compositor/graphics"
	"github.com/npillmayer/compositor/scrolling"
)

// UpdateType is the occasion of a compositing update.
type UpdateType uint8

const (
	OnLayout UpdateType = iota
	OnStyleChange
	OnScroll
	OnHitTest
	CompositedScroll
)

var updateTypeNames = []string{"layout", "style-change", "scroll", "hit-test", "composited-scroll"}

func (t UpdateType) String() string {
	if int(t) < len(updateTypeNames) {
		return updateTypeNames[t]
	}
	return "?"
}

func (t UpdateType) isScroll() bool {
	return t == OnScroll || t == CompositedScroll
}

// Stats count the work done by a compositor.
type Stats struct {
	CompositingUpdates int // updates which ran at least one pass
	LayerFlushes       int // flushes of the graphics layer tree
	CompositedLayers   int // render layers with a backing after the last update
}

// scheduler is the state of the update scheduler.
type scheduler struct {
	updateTimer   Timer // zero-delay compositing update
	flushTimer    Timer // zero-delay layer flush
	throttleTimer Timer // throttles layer flushes while loading

	updating        bool
	flushing        bool
	loading         bool
	flushPending    bool // a flush was requested while throttled
	flushOnReattach bool // a flush was requested while unattached
	interacting     bool // throttling is disabled until the next flush
}

func (c *Compositor) initScheduler() {
	timers := c.config.Timers
	c.updateTimer = timers.NewTimer(func() {
		c.UpdateCompositingLayers(OnLayout)
	})
	c.flushTimer = timers.NewTimer(func() {
		c.FlushPendingLayerChanges(true)
	})
	c.throttleTimer = timers.NewTimer(c.layerFlushThrottleTimerFired)
}

// UpdateCompositingLayers runs the requirements pass and the hierarchy pass
// over the dirty parts of the render layer tree. Nothing is done if no layer
// is dirty. It returns true if a pass ran.
//
// Calls from within an update are ignored.
func (c *Compositor) UpdateCompositingLayers(t UpdateType) bool {
	if c.updating || !c.config.AcceleratedCompositing {
		return false
	}
	root := c.view.Layers.Root()
	if root == nil {
		return false
	}
	if c.config.ForceCompositingMode && !c.compositing {
		c.enableCompositingMode(true)
		root.SetNeedsCompositingRequirementsTraversal()
	}
	if t.isScroll() && !c.compositing {
		return false
	}
	needsRequirements := root.NeedsCompositingRequirementsTraversal() ||
		root.HasDescendantNeedingCompositingRequirementsTraversal()
	needsHierarchy := root.NeedsUpdateBackingOrHierarchyTraversal() ||
		root.HasDescendantNeedingUpdateBackingOrHierarchyTraversal()
	if !needsRequirements && !needsHierarchy {
		return false
	}
	c.updating = true
	defer func() { c.updating = false }()
	c.updateTimer.Stop()
	c.stats.CompositingUpdates++
	tracer().Debugf("compositing update #%d on %v", c.stats.CompositingUpdates, t)

	if needsRequirements {
		overlaps := NewOverlapMap(c.view)
		state := newCompositingState(nil)
		has3D := false
		c.computeCompositingRequirements(nil, root, overlaps, &state, &has3D)
	}
	if c.compositing {
		c.updateRootLayerGeometry()
		c.updateHeaderFooterLayers()
		c.updateOverflowControlsLayers()
		treeState := scrollingTreeState{parentNodeID: scrolling.NoNode}
		if !c.view.MainFrame {
			treeState.parentNodeID = c.frameHostingNodeID()
		}
		var children []*graphics.Layer
		c.updateBackingAndHierarchy(root, &children, &treeState, 0, 0)
		if c.rootContents != nil {
			c.rootContents.SetChildLayers(children)
		}
	} else {
		for _, l := range c.view.Layers.Layers() {
			l.ClearUpdateBackingOrHierarchyTraversalState()
		}
	}
	c.stats.CompositedLayers = len(c.backings)
	if g := c.RootGraphicsLayer(); g != nil && g.HasUncommittedChanges() {
		c.ScheduleLayerFlush(!t.isScroll())
	}
	return true
}

// ScheduleCompositingLayerUpdate arms a zero-delay timer to run a compositing
// update on layout.
func (c *Compositor) ScheduleCompositingLayerUpdate() {
	if !c.updateTimer.IsActive() {
		c.updateTimer.Start(0)
	}
}

// ScheduleLayerFlush requests a flush of the graphics layer tree. If
// canThrottle is set and flushes are throttled, the flush is deferred until
// the throttle timer fires.
func (c *Compositor) ScheduleLayerFlush(canThrottle bool) {
	if canThrottle && c.isThrottlingLayerFlushes() {
		c.flushPending = true
		tracer().Debugf("layer flush throttled")
		return
	}
	c.scheduleLayerFlushNow()
}

func (c *Compositor) scheduleLayerFlushNow() {
	c.flushPending = false
	if c.config.Host != nil {
		c.config.Host.LayerFlushScheduled()
	}
	if !c.flushTimer.IsActive() {
		c.flushTimer.Start(0)
	}
}

func (c *Compositor) isThrottlingLayerFlushes() bool {
	if !c.config.LayerFlushThrottling || !c.loading {
		return false
	}
	return c.throttleTimer.IsActive() && !c.interacting
}

// SetLoading tells the compositor whether the page is loading. While loading,
// layer flushes are throttled, if throttling is configured.
func (c *Compositor) SetLoading(loading bool) {
	if loading == c.loading {
		return
	}
	c.loading = loading
	if !c.config.LayerFlushThrottling {
		return
	}
	if loading {
		if !c.throttleTimer.IsActive() {
			c.throttleTimer.Start(c.config.InitialThrottleDelay)
		}
		return
	}
	c.throttleTimer.Stop()
	if c.flushPending {
		c.scheduleLayerFlushNow()
	}
}

// DisableLayerFlushThrottlingTemporarilyForInteraction lets flushes through
// until the next flush, e.g. during a user gesture.
func (c *Compositor) DisableLayerFlushThrottlingTemporarilyForInteraction() {
	if c.interacting {
		return
	}
	c.interacting = true
	if c.flushPending {
		c.scheduleLayerFlushNow()
	}
}

func (c *Compositor) layerFlushThrottleTimerFired() {
	if !c.flushPending {
		return
	}
	c.scheduleLayerFlushNow()
}

// startLayerFlushTimerIfNeeded re-arms throttling after a flush.
func (c *Compositor) startLayerFlushTimerIfNeeded() {
	c.interacting = false
	if !c.config.LayerFlushThrottling || !c.loading || c.throttleTimer.IsActive() {
		return
	}
	c.throttleTimer.Start(c.config.ThrottleDelay)
}

// FlushPendingLayerChanges commits the graphics layer tree and hands the
// scrolling state to the coordinator. A flush while the root graphics layer
// is unattached is replayed on attachment. Calls from within a flush are
// ignored.
func (c *Compositor) FlushPendingLayerChanges(isFlushRoot bool) {
	if c.flushing {
		return
	}
	if c.attachment == Unattached {
		if c.RootGraphicsLayer() != nil {
			c.flushOnReattach = true
		}
		return
	}
	c.flushing = true
	defer func() { c.flushing = false }()
	c.flushTimer.Stop()
	c.flushPending = false
	root := c.RootGraphicsLayer()
	n := root.FlushCompositingState()
	c.stats.LayerFlushes++
	tracer().Debugf("layer flush #%d committed %d layers", c.stats.LayerFlushes, n)
	if sc := c.scrollingCoordinator(); sc != nil && isFlushRoot {
		if rb := c.backing(c.view.Layers.Root()); rb != nil {
			if id := rb.ScrollingNodeID(c.frameNodeType()); id != scrolling.NoNode {
				sc.SetNodeGeometry(id, c.frameScrollingGeometry())
			}
		}
		sc.CommitTreeState()
	}
	c.startLayerFlushTimerIfNeeded()
}

func (c *Compositor) frameNodeType() scrolling.NodeType {
	if c.view.MainFrame {
		return scrolling.MainFrameNode
	}
	return scrolling.SubframeNode
}
