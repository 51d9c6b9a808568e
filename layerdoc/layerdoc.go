package layerdoc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/layer"
	"github.com/npillmayer/compositor/style"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoBody is returned for markup without a <body> element.
var ErrNoBody = errors.New("layerdoc: markup has no body")

// Document is a render layer tree together with the markup it was built from.
type Document struct {
	Tree   *layer.Tree
	HTML   *html.Node
	layers map[*html.Node]*layer.RenderLayer
}

// Parse builds a render layer tree from markup. The root layer covers a
// viewport of size viewport.
func Parse(markup string, viewport geom.Size) (*Document, error) {
	h, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	body := findElement(atom.Body, h)
	if body == nil {
		return nil, ErrNoBody
	}
	doc := &Document{
		Tree:   layer.NewTree(),
		HTML:   h,
		layers: make(map[*html.Node]*layer.RenderLayer),
	}
	root := doc.Tree.NewRoot(viewport)
	doc.layers[body] = root
	if err := configure(root, body); err != nil {
		return nil, err
	}
	root.Offset = geom.Point{}
	root.Size = viewport
	for ch := body.FirstChild; ch != nil; ch = ch.NextSibling {
		if err := doc.build(ch, root); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("layer document with %d layers", doc.Tree.Len())
	return doc, nil
}

// build creates layers for h and its descendants.
func (doc *Document) build(h *html.Node, parent *layer.RenderLayer) error {
	if h.Type != html.ElementNode {
		return nil
	}
	if createsLayer(h) {
		l := doc.Tree.NewLayer(nameOf(h))
		if err := configure(l, h); err != nil {
			return err
		}
		if err := doc.Tree.AddChild(parent, l); err != nil {
			return err
		}
		doc.layers[h] = l
		if hasAttr(h, "data-reflect") {
			refl := doc.Tree.NewLayer(l.Name + " (reflection)")
			refl.Size = l.Size
			refl.Offset = geom.Point{Y: l.Size.H}
			if err := doc.Tree.SetReflection(l, refl); err != nil {
				return err
			}
		}
		parent = l
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if err := doc.build(ch, parent); err != nil {
			return err
		}
	}
	return nil
}

// annotations are the attributes describing layout results of a layer.
var annotations = []string{
	"data-rect", "data-overflow", "data-scroll-size", "data-scroll-offset",
	"data-composited-scrolling", "data-content", "data-accelerated",
	"data-animate", "data-keyframes", "data-paused", "data-reflect",
}

func createsLayer(h *html.Node) bool {
	if hasAttr(h, "style") || hasAttr(h, "data-layer") {
		return true
	}
	for _, a := range annotations {
		if hasAttr(h, a) {
			return true
		}
	}
	return false
}

// nameOf names a layer after its element, e.g. "div#menu" or "video.intro".
func nameOf(h *html.Node) string {
	if id, ok := attr(h, "id"); ok && id != "" {
		return h.Data + "#" + id
	}
	if cl, ok := attr(h, "class"); ok {
		if fs := strings.Fields(cl); len(fs) > 0 {
			return h.Data + "." + fs[0]
		}
	}
	return h.Data
}

// configure sets style, geometry and content of l from the attributes of h.
func configure(l *layer.RenderLayer, h *html.Node) error {
	if css, ok := attr(h, "style"); ok {
		st, err := style.ParseDeclarations(css)
		if err != nil {
			return fmt.Errorf("layerdoc: %s: %w", l.Name, err)
		}
		l.Style = st
	}
	if v, ok := attr(h, "data-rect"); ok {
		n, err := numbers(v, 4)
		if err != nil {
			return fmt.Errorf("layerdoc: %s: data-rect: %w", l.Name, err)
		}
		l.Offset = geom.Point{X: n[0], Y: n[1]}
		l.Size = geom.Size{W: n[2], H: n[3]}
	}
	if v, ok := attr(h, "data-overflow"); ok {
		n, err := numbers(v, 4)
		if err != nil {
			return fmt.Errorf("layerdoc: %s: data-overflow: %w", l.Name, err)
		}
		l.VisualOverflow = geom.Rect{Min: geom.Point{X: n[0], Y: n[1]}, Max: geom.Point{X: n[2], Y: n[3]}}
	}
	if v, ok := attr(h, "data-scroll-size"); ok {
		n, err := numbers(v, 2)
		if err != nil {
			return fmt.Errorf("layerdoc: %s: data-scroll-size: %w", l.Name, err)
		}
		l.ScrollSize = geom.Size{W: n[0], H: n[1]}
	}
	if v, ok := attr(h, "data-scroll-offset"); ok {
		n, err := numbers(v, 2)
		if err != nil {
			return fmt.Errorf("layerdoc: %s: data-scroll-offset: %w", l.Name, err)
		}
		l.ScrollOffset = geom.Point{X: n[0], Y: n[1]}
	}
	l.CompositedScrolling = hasAttr(h, "data-composited-scrolling")
	accelerated := hasAttr(h, "data-accelerated")
	if v, ok := attr(h, "data-content"); ok {
		switch v {
		case "video":
			l.Content = layer.VideoContent{AcceleratedPlayback: accelerated}
		case "canvas", "canvas-layer":
			l.Content = layer.CanvasContent{Mode: layer.CanvasAsLayerContents}
		case "canvas-2d":
			l.Content = layer.CanvasContent{Mode: layer.CanvasPaintedToLayer}
		case "plugin":
			l.Content = layer.PluginContent{RequiresAcceleratedCompositing: accelerated}
		case "frame":
			l.Content = layer.FrameContent{}
		case "image":
			l.Content = layer.ImageContent{DirectlyComposited: accelerated}
		default:
			return fmt.Errorf("layerdoc: %s: unknown content %q", l.Name, v)
		}
	}
	if v, ok := attr(h, "data-animate"); ok {
		a, err := animation(l.Name, v, h)
		if err != nil {
			return err
		}
		l.Animations = append(l.Animations, a)
	}
	return nil
}

func animation(name, props string, h *html.Node) (layer.Animation, error) {
	a := layer.Animation{
		Name:        name + " animation",
		Running:     !hasAttr(h, "data-paused"),
		Accelerated: true,
	}
	for _, p := range strings.Fields(props) {
		switch p {
		case "transform":
			a.Properties |= layer.AnimatesTransform
		case "opacity":
			a.Properties |= layer.AnimatesOpacity
		case "filter":
			a.Properties |= layer.AnimatesFilter
		case "backdrop-filter":
			a.Properties |= layer.AnimatesBackdropFilter
		default:
			return a, fmt.Errorf("layerdoc: %s: cannot animate %q", name, p)
		}
	}
	if kf, ok := attr(h, "data-keyframes"); ok {
		for _, s := range strings.Split(kf, ";") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			t, err := style.ParseTransform(style.Property(s))
			if err != nil {
				return a, fmt.Errorf("layerdoc: %s: keyframe %q: %w", name, s, err)
			}
			a.Keyframes = append(a.Keyframes, t)
		}
	}
	return a, nil
}

// numbers parses exactly n pixel values.
func numbers(s string, n int) ([]geom.Unit, error) {
	fs := strings.Fields(strings.ReplaceAll(s, "px", ""))
	if len(fs) != n {
		return nil, fmt.Errorf("expected %d values, have %d", n, len(fs))
	}
	u := make([]geom.Unit, n)
	for i, f := range fs {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		u[i] = geom.FromFloat(x)
	}
	return u, nil
}

// --- Queries -----------------------------------------------------------------

// Query returns the layers of the elements matching a CSS selector, in
// document order. Matching elements which do not create layers are skipped.
func (doc *Document) Query(selector string) ([]*layer.RenderLayer, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	var r []*layer.RenderLayer
	for _, h := range sel.MatchAll(doc.HTML) {
		if l, ok := doc.layers[h]; ok {
			r = append(r, l)
		}
	}
	return r, nil
}

// Layer returns the layer of the first element matching a CSS selector, or
// nil.
func (doc *Document) Layer(selector string) *layer.RenderLayer {
	ls, err := doc.Query(selector)
	if err != nil {
		tracer().Errorf("layer query %q: %v", selector, err)
		return nil
	}
	if len(ls) == 0 {
		return nil
	}
	return ls[0]
}

// Element returns the element l was built from, or nil.
func (doc *Document) Element(l *layer.RenderLayer) *html.Node {
	for h, hl := range doc.layers {
		if hl == l {
			return h
		}
	}
	return nil
}

// --- HTML helpers ------------------------------------------------------------

func attr(h *html.Node, key string) (string, bool) {
	for _, a := range h.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(h *html.Node, key string) bool {
	_, ok := attr(h, key)
	return ok
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := findElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}
