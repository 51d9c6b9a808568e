package graphics

import "strings"

// ChangeMask is a set of uncommitted property changes of a graphics layer.
type ChangeMask uint32

const (
	ChildrenChanged ChangeMask = 1 << iota
	PositionChanged
	BoundsOriginChanged
	SizeChanged
	TransformChanged
	ChildrenTransformChanged
	OpacityChanged
	BlendModeChanged
	MasksToBoundsChanged
	DrawsContentChanged
	ContentsVisibilityChanged
	Preserves3DChanged
	BackfaceVisibilityChanged
	ReplicaChanged
	DisplayChanged
	DebugIndicatorsChanged
	TilingChanged
	NameChanged
)

var changeNames = []string{"children", "position", "bounds-origin", "size", "transform",
	"children-transform", "opacity", "blend-mode", "masks-to-bounds", "draws-content",
	"contents-visibility", "preserves-3d", "backface-visibility", "replica", "display",
	"debug-indicators", "tiling", "name"}

func (m ChangeMask) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	for i, n := range changeNames {
		if m&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, "|")
}

func (l *Layer) noteChange(m ChangeMask) {
	l.changes |= m
}

// UncommittedChanges returns the changes not yet flushed.
func (l *Layer) UncommittedChanges() ChangeMask {
	return l.changes
}

// HasUncommittedChanges is true if l or any descendant has uncommitted changes.
func (l *Layer) HasUncommittedChanges() bool {
	if l.changes != 0 {
		return true
	}
	if l.replica != nil && l.replica.HasUncommittedChanges() {
		return true
	}
	for _, ch := range l.ChildLayers() {
		if ch.HasUncommittedChanges() {
			return true
		}
	}
	return false
}

// FlushCompositingState commits the pending changes of l and its
// descendants, including replica layers. It returns the number of layers
// which had changes.
func (l *Layer) FlushCompositingState() int {
	n := l.commit()
	if l.replica != nil {
		n += l.replica.FlushCompositingState()
	}
	for _, ch := range l.ChildLayers() {
		n += ch.FlushCompositingState()
	}
	return n
}

func (l *Layer) commit() int {
	if tiled := l.needsTiledBacking(); tiled != l.tiled {
		l.tiled = tiled
		l.changes |= TilingChanged
		tracer().Debugf("%v switches tiled backing to %v", l, tiled)
	}
	l.attached = l.drawsContent && l.contentsVisible
	if l.changes == 0 {
		return 0
	}
	if l.needsDisplay {
		l.repaintCount++
		l.needsDisplay = false
		l.dirtyRects = nil
	}
	tracer().Debugf("commit %v: %v", l, l.changes)
	l.changes = 0
	return 1
}

// IsBackingStoreAttached is true if the layer had a backing store after the
// last flush.
func (l *Layer) IsBackingStoreAttached() bool {
	return l.attached
}
