/*
Package compositor decides which render layers are composited and builds the
graphics layer tree for them.

A compositing update runs in two passes over the render layer tree. The
requirements pass visits layers in paint order, consults the promotion policy
for every layer and tests layers for overlap with composited content painted
before them. It decides per layer whether it will be composited and creates or
destroys backings accordingly. The hierarchy pass then visits composited layers
only, configures their backings, computes geometry, assembles the graphics
layer tree and registers scrolling nodes with a scrolling coordinator.

Both passes are driven by dirty bits on render layers. Running an update when
nothing is dirty is cheap; an update scheduler coalesces requests for updates
and flushes from layout, style changes and scrolling, and throttles layer
flushes while a page is loading.

Everything runs on the goroutine owning the render layer tree. Timers fire
back on that goroutine, either through a run loop queue or manually in
tests.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package compositor

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'compositor'.
func tracer() tracing.Trace {
	return tracing.Select("compositor")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("compositor: "+msg, msgargs...)
		panic(msg)
	}
}
