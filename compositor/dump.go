package compositor

import (
	"fmt"
	"strings"

	"github.com/npillmayer/compositor/graphics"
	"github.com/npillmayer/compositor/layer"
	tp "github.com/xlab/treeprint"
)

// LayerTreeAsText returns a dump of the graphics layer tree, or an empty
// string if the compositor is not in compositing mode.
func (c *Compositor) LayerTreeAsText(flags graphics.DumpFlags) string {
	root := c.RootGraphicsLayer()
	if root == nil {
		return ""
	}
	return root.Dump(flags)
}

// CompositingReport returns a tree of the render layers in paint order,
// with the compositing reasons of composited layers.
func (c *Compositor) CompositingReport() string {
	root := c.view.Layers.Root()
	if root == nil {
		return ""
	}
	t := tp.New()
	c.reportLayer(t, root)
	return strings.TrimRight(t.String(), "\n")
}

func (c *Compositor) reportLayer(branch tp.Tree, l *layer.RenderLayer) {
	label := layerName(l)
	if c.backing(l) != nil {
		label = fmt.Sprintf("%s [%v]", label, c.ReasonsForCompositing(l))
	} else if r := l.ViewportConstrainedNotCompositedReason(); r != 0 {
		label = fmt.Sprintf("%s (not composited: %v)", label, r)
	}
	children := l.PaintOrderChildren()
	if refl := l.ReflectionLayer(); refl != nil {
		children = append(children[:len(children):len(children)], refl)
	}
	if len(children) == 0 {
		branch.AddNode(label)
		return
	}
	b := branch.AddBranch(label)
	for _, ch := range children {
		c.reportLayer(b, ch)
	}
}
