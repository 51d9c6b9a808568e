/*
Package style provides the typed style values the compositor consults.

CSS properties are plentyful and some of them are complicated. The compositor
needs only a small subset of them: positioning, z-order, transforms and 3D
rendering context, opacity, filters, blending and isolation, overflow and
clipping, will-change and visibility. This package shields the compositor from
the textual nature of CSS properties: raw values are of type Property, and a
Style holds the converted, typed values.

A Style may be created directly or from a CSS declaration block, such as the
content of an HTML style attribute:

    st, err := style.ParseDeclarations("position: fixed; top: 0; will-change: transform")

Status

The set of properties is limited to what is relevant for compositing decisions.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'compositor.style'.
func tracer() tracing.Trace {
	return tracing.Select("compositor.style")
}
