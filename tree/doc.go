/*
Package tree implements an all-purpose tree type.

Trees in this module are the graphics layer tree and the render layer tree.
Both are mutated only by the thread owning the document, and all compositing
passes run synchronously on that thread; consequently nodes are not
protected by locks.

Domain node types embed a Node and set its payload to point back to
themselves:

   type Layer struct {
       tree.Node[*Layer]
       ...
   }

Walkers

We support a small set of search & filter functions on tree nodes. Clients
chain these to select nodes:

   AncestorWith(predicate)      // find ancestor with a given predicate
   DescendantsWith(predicate)   // find descendants with a given predicate
   AllDescendants()             // select all descendants (pre-order)
   TopDown(action)              // traverse all nodes top down (pre-order)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'compositor.tree'.
func tracer() tracing.Trace {
	return tracing.Select("compositor.tree")
}
