// Command layerdump runs a compositing update for a layer document and prints
// the result.
//
// Usage:
//
//	layerdump [flags] <file.html>
//
// Layer documents are HTML files with layout annotations, see package
// layerdoc.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/compositor/compositor"
	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/graphics"
	"github.com/npillmayer/compositor/graphics/graphicsdbg"
	"github.com/npillmayer/compositor/layerdoc"
	"github.com/npillmayer/compositor/scrolling"
	"github.com/npillmayer/schuko/tracing"
)

func main() {
	width := flag.Int("w", 800, "viewport width in pixels")
	height := flag.Int("h", 600, "viewport height in pixels")
	contents := flag.String("contents", "", "document size as WxH, defaults to the viewport")
	format := flag.String("format", "text", "output format: text, report, dot or scrolling")
	mobile := flag.Bool("mobile", false, "use the mobile platform strategy")
	conservative := flag.Bool("conservative", false, "use the conservative promotion policy")
	all := flag.Bool("all", false, "include debug information in text output")
	verbose := flag.Bool("v", false, "trace compositing decisions")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: layerdump [flags] <file.html>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	if *verbose {
		for _, key := range []string{"compositor", "compositor.layer", "compositor.graphics",
			"compositor.scrolling", "compositor.style", "compositor.layerdoc"} {
			tracing.Select(key).SetTraceLevel(tracing.LevelDebug)
		}
	}
	markup, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fatal(err)
	}
	doc, err := layerdoc.Parse(string(markup), geom.Sz(*width, *height))
	if err != nil {
		fatal(err)
	}
	view := compositor.NewView(doc.Tree, geom.Sz(*width, *height))
	if *contents != "" {
		var w, h int
		if _, err := fmt.Sscanf(*contents, "%dx%d", &w, &h); err != nil {
			fatal(fmt.Errorf("malformed document size %q: %w", *contents, err))
		}
		view.ContentsSize = geom.Sz(w, h)
	}
	st := scrolling.NewStateTree()
	opts := []compositor.Option{compositor.WithScrollingCoordinator(st)}
	if *mobile {
		opts = append(opts, compositor.WithPlatform(compositor.MobilePlatform{}))
	}
	if *conservative {
		opts = append(opts, compositor.WithPolicy(compositor.ConservativePolicy))
	}
	c, err := compositor.New(view, opts...)
	if err != nil {
		fatal(err)
	}
	c.UpdateCompositingLayers(compositor.OnLayout)
	c.FlushPendingLayerChanges(true)

	switch *format {
	case "text":
		flags := graphics.DumpNormal
		if *all {
			flags = graphics.IncludeAll
		}
		fmt.Print(c.LayerTreeAsText(flags))
	case "report":
		fmt.Print(c.CompositingReport())
	case "dot":
		root := c.RootGraphicsLayer()
		if root == nil {
			fatal(fmt.Errorf("document has no composited layers"))
		}
		if err := graphicsdbg.ToGraphViz(root, os.Stdout); err != nil {
			fatal(err)
		}
	case "scrolling":
		fmt.Print(st.String())
	default:
		fatal(fmt.Errorf("unknown output format %q", *format))
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "layerdump: %v\n", err)
	os.Exit(1)
}
