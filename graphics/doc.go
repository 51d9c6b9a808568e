/*
Package graphics implements the graphics layer tree, the output of compositing.

A graphics layer is a surface the platform compositor composes to the
screen. Graphics layers form a tree of their own, disjoint in shape from the
render layer tree: it contains a layer for every composited render layer,
plus synthetic layers for clipping, scrolling and foreground separation, plus
the root layers framing a view.

Graphics layers record property changes as uncommitted changes. A flush
commits the pending changes of a whole tree, which is the point where a
platform compositor would pick them up.

A text representation of a graphics layer tree is available with Dump, which
is intended for tests and debugging only.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package graphics

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'compositor.graphics'.
func tracer() tracing.Trace {
	return tracing.Select("compositor.graphics")
}
