/*
Package scrolling defines the interface between the compositor and a scroll
coordination subsystem.

A scrolling coordinator keeps a tree of scrolling nodes, independent from
both the render layer tree and the graphics layer tree. Nodes represent
scrollable frames, scrollable overflow regions, frame hosting layers and
viewport-constrained (fixed or sticky) layers. The compositor registers
nodes, hands over the graphics layers a node operates on, and pushes
geometry and constraint snapshots. The coordinator may apply scroll offsets
asynchronously; it never calls back into the compositor.

StateTree is an in-memory coordinator which records the node tree and the
snapshots. It is used by tests and by the layerdump command.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scrolling

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'compositor.scrolling'.
func tracer() tracing.Trace {
	return tracing.Select("compositor.scrolling")
}
