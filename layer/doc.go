/*
Package layer models the render layer tree the compositor consumes.

A render layer is a node of the stacking tree of a document. Layers are kept
in document order as children of their parent layer; for painting, every
stacking context partitions the layers it is responsible for into three
paint-order groups:

    negative z-order   layers with z-index < 0, sorted by z-index
    normal flow        non-positioned children, in document order
    positive z-order   positioned layers with z-index >= 0 or auto, sorted by z-index

Painting, and every compositing pass, visits these groups in exactly this
order.

Layers are owned by a Tree, which allocates their IDs and acts as an arena.
Cross links between layers (reflections) are stored as IDs and resolved
through the tree, so removing a layer never leaves a dangling reference.

Each layer carries a small set of dirty bits. Collaborators mark layers
dirty when style or geometry changes, and the compositor clears the bits
when it has processed the layer.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'compositor.layer'.
func tracer() tracing.Trace {
	return tracing.Select("compositor.layer")
}
