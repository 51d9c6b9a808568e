/*
Package layerdoc builds render layer trees from HTML markup.

Markup is a compact way to write down layer trees for tests and for the
layerdump command. Every element inside <body> carrying a style attribute, a
data-layer attribute or one of the annotations below becomes a render layer;
it is attached to the layer of
its nearest layer-creating ancestor element, or to the root layer. The <body>
element itself becomes the root layer and covers the viewport.

The inline style is parsed into a typed style. Geometry and content, which
would be the result of layout in a browser, are given as data attributes:

	data-rect="x y w h"              border box, relative to the parent layer
	data-overflow="x0 y0 x1 y1"      visual overflow in local coordinates
	data-scroll-size="w h"           scrollable contents of a scroll container
	data-scroll-offset="x y"         scroll position of a scroll container
	data-composited-scrolling        overflow is scrolled by the compositor
	data-content="video"             or canvas, canvas-layer, canvas-2d, plugin,
	                                 frame, image
	data-accelerated                 accelerated video playback, or a plugin
	                                 requiring accelerated compositing
	data-animate="transform opacity" accelerated animation of properties
	data-keyframes="t1; t2; …"       transform keyframes of the animation
	data-paused                      the animation is paused
	data-reflect                     the layer gets a reflection layer

Values are in CSS pixels. Layers may be selected by CSS selectors:

	doc, _ := layerdoc.Parse(markup, geom.Sz(800, 600))
	menu := doc.Layer("#menu")

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layerdoc

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'compositor.layerdoc'.
func tracer() tracing.Trace {
	return tracing.Select("compositor.layerdoc")
}
