package graphics

import (
	"fmt"
	"sync/atomic"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/tree"
)

// ID identifies a graphics layer.
type ID uint64

var lastID uint64

func nextID() ID {
	return ID(atomic.AddUint64(&lastID, 1))
}

// Layer is a node of the graphics layer tree.
type Layer struct {
	tree.Node[*Layer]
	id                ID
	name              string
	position          geom.Point // relative to the parent layer
	boundsOrigin      geom.Point // origin of the layer's own coordinate system
	size              geom.Size
	transform         geom.Transform
	childrenTransform geom.Transform
	opacity           float64
	blendMode         string
	masksToBounds     bool
	drawsContent      bool
	contentsVisible   bool
	preserves3D       bool
	backfaceHidden    bool
	replica           *Layer // layer replicating this one
	replicated        *Layer // layer this one is a replica of
	changes           ChangeMask
	needsDisplay      bool
	dirtyRects        []geom.Rect
	trackedRepaints   []geom.Rect
	repaintCount      int
	showDebugBorder   bool
	showRepaintCount  bool
	attached          bool // backing store attached after the last flush
	tiled             bool
}

// NewLayer creates a graphics layer. name is used for debugging.
func NewLayer(name string) *Layer {
	l := &Layer{id: nextID(), name: name, opacity: 1, contentsVisible: true}
	l.Payload = l
	l.changes = ChildrenChanged | NameChanged
	return l
}

// ID returns the layer's ID.
func (l *Layer) ID() ID {
	return l.id
}

// Name returns the debugging name.
func (l *Layer) Name() string {
	return l.name
}

func (l *Layer) String() string {
	if l == nil {
		return "<nil graphics layer>"
	}
	return fmt.Sprintf("(GraphicsLayer %q)", l.name)
}

// SetName changes the debugging name.
func (l *Layer) SetName(name string) {
	if name != l.name {
		l.name = name
		l.noteChange(NameChanged)
	}
}

// --- Hierarchy ---------------------------------------------------------------

// ParentLayer returns the parent graphics layer, or nil.
func (l *Layer) ParentLayer() *Layer {
	if p := l.Parent(); p != nil {
		return p.Payload
	}
	return nil
}

// ChildLayers returns the children, back to front.
func (l *Layer) ChildLayers() []*Layer {
	children := l.Children()
	r := make([]*Layer, len(children))
	for i, ch := range children {
		r[i] = ch.Payload
	}
	return r
}

// AddChildLayer appends a child on top of all other children.
func (l *Layer) AddChildLayer(ch *Layer) {
	if old := ch.ParentLayer(); old != nil {
		old.noteChange(ChildrenChanged)
	}
	l.AddChild(&ch.Node)
	l.noteChange(ChildrenChanged)
}

// AddChildLayerBelow inserts ch directly below sibling. If sibling is not a
// child of l, ch is appended.
func (l *Layer) AddChildLayerBelow(ch, sibling *Layer) {
	i := l.IndexOfChild(&sibling.Node)
	if i < 0 {
		l.AddChildLayer(ch)
		return
	}
	if old := ch.ParentLayer(); old != nil {
		old.noteChange(ChildrenChanged)
	}
	l.InsertChildAt(i, &ch.Node)
	l.noteChange(ChildrenChanged)
}

// SetChildLayers replaces all children. It returns true if the child list
// changed.
func (l *Layer) SetChildLayers(children []*Layer) bool {
	nodes := make([]*tree.Node[*Layer], len(children))
	for i, ch := range children {
		if old := ch.ParentLayer(); old != nil && old != l {
			old.noteChange(ChildrenChanged)
		}
		nodes[i] = &ch.Node
	}
	if l.SetChildren(nodes) {
		l.noteChange(ChildrenChanged)
		return true
	}
	return false
}

// RemoveAllChildLayers detaches all children.
func (l *Layer) RemoveAllChildLayers() {
	if l.ChildCount() > 0 {
		l.RemoveAllChildren()
		l.noteChange(ChildrenChanged)
	}
}

// RemoveFromParentLayer detaches l from its parent.
func (l *Layer) RemoveFromParentLayer() {
	if p := l.ParentLayer(); p != nil {
		l.RemoveFromParent()
		p.noteChange(ChildrenChanged)
	}
}

// --- Replication -------------------------------------------------------------

// SetReplicatedByLayer sets the layer replicating l, e.g. for a reflection.
// nil removes the replica.
func (l *Layer) SetReplicatedByLayer(r *Layer) {
	if l.replica == r {
		return
	}
	if l.replica != nil {
		l.replica.replicated = nil
	}
	l.replica = r
	if r != nil {
		r.replicated = l
	}
	l.noteChange(ReplicaChanged)
}

// ReplicaLayer returns the layer replicating l, or nil.
func (l *Layer) ReplicaLayer() *Layer {
	return l.replica
}

// ReplicatedLayer returns the layer l is a replica of, or nil.
func (l *Layer) ReplicatedLayer() *Layer {
	return l.replicated
}

// --- Properties --------------------------------------------------------------

// Position returns the position relative to the parent layer.
func (l *Layer) Position() geom.Point { return l.position }

// SetPosition sets the position relative to the parent layer.
func (l *Layer) SetPosition(p geom.Point) {
	if p != l.position {
		l.position = p
		l.noteChange(PositionChanged)
	}
}

// BoundsOrigin returns the origin of the layer's coordinate system.
func (l *Layer) BoundsOrigin() geom.Point { return l.boundsOrigin }

// SetBoundsOrigin sets the origin of the layer's coordinate system. Scrolled
// contents layers use it for the scroll position.
func (l *Layer) SetBoundsOrigin(p geom.Point) {
	if p != l.boundsOrigin {
		l.boundsOrigin = p
		l.noteChange(BoundsOriginChanged)
	}
}

// Size returns the layer's size.
func (l *Layer) Size() geom.Size { return l.size }

// SetSize sets the layer's size.
func (l *Layer) SetSize(sz geom.Size) {
	if sz != l.size {
		l.size = sz
		l.noteChange(SizeChanged)
	}
}

// Bounds returns the layer's rectangle in its own coordinate system.
func (l *Layer) Bounds() geom.Rect {
	return geom.RectAt(l.boundsOrigin, l.size)
}

// Transform returns the layer's transform.
func (l *Layer) Transform() geom.Transform { return l.transform }

// SetTransform sets the layer's transform.
func (l *Layer) SetTransform(t geom.Transform) {
	if t != l.transform {
		l.transform = t
		l.noteChange(TransformChanged)
	}
}

// ChildrenTransform returns the transform applied to children, e.g. for
// perspective.
func (l *Layer) ChildrenTransform() geom.Transform { return l.childrenTransform }

// SetChildrenTransform sets the transform applied to children.
func (l *Layer) SetChildrenTransform(t geom.Transform) {
	if t != l.childrenTransform {
		l.childrenTransform = t
		l.noteChange(ChildrenTransformChanged)
	}
}

// Opacity returns the layer's opacity.
func (l *Layer) Opacity() float64 { return l.opacity }

// SetOpacity sets the layer's opacity.
func (l *Layer) SetOpacity(o float64) {
	if o != l.opacity {
		l.opacity = o
		l.noteChange(OpacityChanged)
	}
}

// BlendMode returns the layer's blend mode, empty for normal.
func (l *Layer) BlendMode() string { return l.blendMode }

// SetBlendMode sets the layer's blend mode.
func (l *Layer) SetBlendMode(m string) {
	if m == "normal" {
		m = ""
	}
	if m != l.blendMode {
		l.blendMode = m
		l.noteChange(BlendModeChanged)
	}
}

// MasksToBounds is true if the layer clips its children.
func (l *Layer) MasksToBounds() bool { return l.masksToBounds }

// SetMasksToBounds lets the layer clip its children to its bounds.
func (l *Layer) SetMasksToBounds(b bool) {
	if b != l.masksToBounds {
		l.masksToBounds = b
		l.noteChange(MasksToBoundsChanged)
	}
}

// DrawsContent is true if the layer paints content of its own.
func (l *Layer) DrawsContent() bool { return l.drawsContent }

// SetDrawsContent sets if the layer paints content of its own.
func (l *Layer) SetDrawsContent(b bool) {
	if b != l.drawsContent {
		l.drawsContent = b
		l.noteChange(DrawsContentChanged)
		if b {
			l.SetNeedsDisplay()
		}
	}
}

// ContentsVisible is false for layers with hidden content.
func (l *Layer) ContentsVisible() bool { return l.contentsVisible }

// SetContentsVisible sets the visibility of the layer's content.
func (l *Layer) SetContentsVisible(b bool) {
	if b != l.contentsVisible {
		l.contentsVisible = b
		l.noteChange(ContentsVisibilityChanged)
	}
}

// Preserves3D is true if children are rendered in the same 3D context.
func (l *Layer) Preserves3D() bool { return l.preserves3D }

// SetPreserves3D sets the 3D rendering context flag.
func (l *Layer) SetPreserves3D(b bool) {
	if b != l.preserves3D {
		l.preserves3D = b
		l.noteChange(Preserves3DChanged)
	}
}

// BackfaceHidden is true if the back side of the layer is not drawn.
func (l *Layer) BackfaceHidden() bool { return l.backfaceHidden }

// SetBackfaceHidden sets backface visibility.
func (l *Layer) SetBackfaceHidden(b bool) {
	if b != l.backfaceHidden {
		l.backfaceHidden = b
		l.noteChange(BackfaceVisibilityChanged)
	}
}

// SetShowDebugBorder turns the debug border on or off.
func (l *Layer) SetShowDebugBorder(b bool) {
	if b != l.showDebugBorder {
		l.showDebugBorder = b
		l.noteChange(DebugIndicatorsChanged)
	}
}

// SetShowRepaintCounter turns the repaint counter on or off.
func (l *Layer) SetShowRepaintCounter(b bool) {
	if b != l.showRepaintCount {
		l.showRepaintCount = b
		l.noteChange(DebugIndicatorsChanged)
	}
}

// DebugBorderWidth returns the width of the debug border, 0 if not shown.
func (l *Layer) DebugBorderWidth() float64 {
	if !l.showDebugBorder {
		return 0
	}
	if l.tiled {
		return 2
	}
	return 1
}

// RepaintCount returns how many flushes repainted the layer.
func (l *Layer) RepaintCount() int {
	return l.repaintCount
}

// --- Display -----------------------------------------------------------------

// SetNeedsDisplay invalidates the whole layer.
func (l *Layer) SetNeedsDisplay() {
	l.SetNeedsDisplayInRect(l.Bounds())
}

// SetNeedsDisplayInRect invalidates r, given in the layer's coordinates.
// Invalidations of layers which do not draw content are dropped.
func (l *Layer) SetNeedsDisplayInRect(r geom.Rect) {
	if !l.drawsContent {
		return
	}
	r = r.Intersect(l.Bounds())
	if r.Empty() {
		return
	}
	l.needsDisplay = true
	l.dirtyRects = append(l.dirtyRects, r)
	l.trackedRepaints = append(l.trackedRepaints, r)
	l.noteChange(DisplayChanged)
}

// NeedsDisplay is true if the layer has invalidated areas not yet flushed.
func (l *Layer) NeedsDisplay() bool {
	return l.needsDisplay
}

// TrackedRepaintRects returns all areas invalidated since the last reset.
func (l *Layer) TrackedRepaintRects() []geom.Rect {
	return l.trackedRepaints
}

// ResetTrackedRepaints forgets tracked invalidations, for the layer and its
// descendants.
func (l *Layer) ResetTrackedRepaints() {
	l.trackedRepaints = nil
	for _, ch := range l.ChildLayers() {
		ch.ResetTrackedRepaints()
	}
}

// --- Tiling ------------------------------------------------------------------

// TiledBackingThreshold is the maximum width or height of a layer with a
// single backing store. Larger layers use tiled backing.
const TiledBackingThreshold = 2048

// TileSize is the edge length of a backing tile.
const TileSize = 512

// UsesTiledBacking is true if the layer's backing store is split into tiles.
// It is updated by a flush.
func (l *Layer) UsesTiledBacking() bool {
	return l.tiled
}

// TileCount returns the number of tiles covering a tiled layer.
func (l *Layer) TileCount() int {
	if !l.tiled {
		return 0
	}
	ceil := func(u geom.Unit) int {
		px := u.Ceil()
		return (px + TileSize - 1) / TileSize
	}
	return ceil(l.size.W) * ceil(l.size.H)
}

func (l *Layer) needsTiledBacking() bool {
	return l.drawsContent && (l.size.W > geom.Px(TiledBackingThreshold) ||
		l.size.H > geom.Px(TiledBackingThreshold))
}
