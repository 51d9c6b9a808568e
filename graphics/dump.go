package graphics

import (
	"fmt"
	"strings"

	"github.com/npillmayer/compositor/geom"
	tp "github.com/xlab/treeprint"
)

// DumpFlags select optional information for Dump.
type DumpFlags uint16

const (
	DumpNormal                  DumpFlags = 0
	IncludeRepaintRects         DumpFlags = 1 << iota // tracked repaint rects
	IncludeTileCaches                                 // tile coverage of tiled layers
	IncludeBackingStoreAttached                       // backing store state after the last flush
	IncludeLayerIDs                                   // graphics layer IDs
	IncludeDebugInfo                                  // repaint counts and debug borders
	IncludeAll                  = IncludeRepaintRects | IncludeTileCaches |
		IncludeBackingStoreAttached | IncludeLayerIDs | IncludeDebugInfo
)

// Dump returns a textual representation of the graphics layer tree rooted
// at l. Properties with initial values are omitted.
//
// The format is intended for tests and debugging; it is not stable.
func (l *Layer) Dump(flags DumpFlags) string {
	root := tp.New()
	root.SetValue(l.label(flags))
	l.dumpProperties(root, flags)
	return strings.TrimRight(root.String(), "\n") + "\n"
}

func (l *Layer) label(flags DumpFlags) string {
	if flags&IncludeLayerIDs != 0 {
		return fmt.Sprintf("(GraphicsLayer %q #%d)", l.name, l.id)
	}
	return fmt.Sprintf("(GraphicsLayer %q)", l.name)
}

func (l *Layer) dumpProperties(branch tp.Tree, flags DumpFlags) {
	if l.position != (geom.Point{}) {
		branch.AddNode("position: " + geom.FormatPoint(l.position))
	}
	if l.boundsOrigin != (geom.Point{}) {
		branch.AddNode("bounds origin: " + geom.FormatPoint(l.boundsOrigin))
	}
	if !l.size.IsEmpty() {
		branch.AddNode("size: " + l.size.String())
	}
	if !l.transform.IsIdentity() {
		branch.AddNode("transform: " + l.transform.String())
	}
	if !l.childrenTransform.IsIdentity() {
		branch.AddNode("children transform: " + l.childrenTransform.String())
	}
	if l.opacity != 1 {
		branch.AddNode(fmt.Sprintf("opacity: %.2f", l.opacity))
	}
	if l.blendMode != "" {
		branch.AddNode("blend mode: " + l.blendMode)
	}
	if l.masksToBounds {
		branch.AddNode("clips")
	}
	if l.drawsContent {
		branch.AddNode("draws content")
	}
	if !l.contentsVisible {
		branch.AddNode("contents hidden")
	}
	if l.preserves3D {
		branch.AddNode("preserves 3D")
	}
	if l.backfaceHidden {
		branch.AddNode("backface hidden")
	}
	if flags&IncludeBackingStoreAttached != 0 {
		branch.AddNode(fmt.Sprintf("backing store attached: %v", l.attached))
	}
	if flags&IncludeTileCaches != 0 && l.tiled {
		branch.AddNode(fmt.Sprintf("tile cache: %d tiles of %dpx", l.TileCount(), TileSize))
	}
	if flags&IncludeDebugInfo != 0 {
		if l.showRepaintCount || l.repaintCount > 0 {
			branch.AddNode(fmt.Sprintf("repaint count: %d", l.repaintCount))
		}
		if w := l.DebugBorderWidth(); w > 0 {
			branch.AddNode(fmt.Sprintf("debug border: %.0f", w))
		}
	}
	if flags&IncludeRepaintRects != 0 && len(l.trackedRepaints) > 0 {
		rects := branch.AddBranch("repaint rects")
		for _, r := range l.trackedRepaints {
			rects.AddNode(geom.FormatRect(r))
		}
	}
	if l.replica != nil {
		replica := branch.AddBranch("replica " + l.replica.label(flags))
		l.replica.dumpProperties(replica, flags)
	}
	children := l.ChildLayers()
	if len(children) == 0 {
		return
	}
	chBranch := branch.AddBranch(fmt.Sprintf("children %d", len(children)))
	for _, ch := range children {
		b := chBranch.AddBranch(ch.label(flags))
		ch.dumpProperties(b, flags)
	}
}
