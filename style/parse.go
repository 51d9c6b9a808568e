package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/compositor/geom"
)

// ErrInvalidDeclarations is returned if a declaration block cannot be parsed.
var ErrInvalidDeclarations = errors.New("invalid style declarations")

// Declarations parses a CSS declaration block, i.e. the content of an HTML
// style attribute, into a property map. Later declarations of the same
// property overwrite earlier ones, unless the earlier one is `!important`.
func Declarations(text string) (*PropertyMap, error) {
	// douceur drops the value of an unterminated last declaration
	text = strings.TrimSpace(text)
	if text != "" && !strings.HasSuffix(text, ";") {
		text += ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeclarations, err)
	}
	pmap := NewPropertyMap()
	important := make(map[string]bool)
	for _, d := range decls {
		key := strings.ToLower(d.Property)
		if important[key] && !d.Important {
			continue
		}
		pmap.Set(key, Property(d.Value))
		important[key] = important[key] || d.Important
	}
	return pmap, nil
}

// ParseDeclarations parses a CSS declaration block and converts it to a
// typed style.
func ParseDeclarations(text string) (Style, error) {
	pmap, err := Declarations(text)
	if err != nil {
		return Style{}, err
	}
	return FromProperties(pmap)
}

// FromProperties converts raw properties into a typed style. Properties not
// relevant for compositing are ignored. Values which cannot be interpreted
// are skipped; the first such error is returned together with the style
// built from the remaining properties.
func FromProperties(pmap *PropertyMap) (Style, error) {
	var st Style
	var firstErr error
	fail := func(key string, err error) {
		tracer().Debugf("style property %s: %v", key, err)
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", key, err)
		}
	}
	var offsets []PositionOffset
	for dir, key := range []string{"top", "right", "bottom", "left"} {
		if p, ok := pmap.Property(key); ok {
			offsets = append(offsets, PositionOffset{Len: ParseLength(p), Dir: PosDir(dir)})
		}
	}
	for _, kv := range pmap.Properties() {
		p := kv.Value
		switch kv.Key {
		case "position":
			st.Position = Position(p, offsets)
		case "z-index":
			if p == "auto" {
				st.ZIndex = AutoZ
			} else if z, err := strconv.Atoi(string(p)); err == nil {
				st.ZIndex = Z(z)
			} else {
				fail(kv.Key, err)
			}
		case "opacity":
			if o, err := strconv.ParseFloat(string(p), 64); err == nil {
				st.SetOpacity(o)
			} else {
				fail(kv.Key, err)
			}
		case "transform", "-webkit-transform":
			if t, err := ParseTransform(p); err == nil {
				st.Transform = t
			} else {
				fail(kv.Key, err)
			}
		case "transform-origin", "-webkit-transform-origin":
			for i, f := range p.Fields() {
				if i < 2 {
					st.Origin[i] = ParseLength(Property(f))
				}
			}
		case "transform-style", "-webkit-transform-style":
			if p == "preserve-3d" {
				st.TransformStyle = Preserve3D
			}
		case "perspective", "-webkit-perspective":
			if !p.IsNone() {
				if f, ok := parsePx(string(p)); ok {
					st.Perspective = geom.FromFloat(f)
				} else {
					fail(kv.Key, fmt.Errorf("not a length: %q", p))
				}
			}
		case "backface-visibility", "-webkit-backface-visibility":
			st.BackfaceHidden = p == "hidden"
		case "filter", "-webkit-filter":
			st.Filter = p
		case "backdrop-filter", "-webkit-backdrop-filter":
			st.BackdropFilter = p
		case "will-change":
			st.WillChange = ParseWillChange(p)
		case "overflow":
			fs := p.Fields()
			if len(fs) > 0 {
				st.OverflowX = parseOverflow(fs[0])
				st.OverflowY = st.OverflowX
			}
			if len(fs) > 1 {
				st.OverflowY = parseOverflow(fs[1])
			}
		case "overflow-x":
			st.OverflowX = parseOverflow(string(p))
		case "overflow-y":
			st.OverflowY = parseOverflow(string(p))
		case "clip":
			if c, err := parseClip(p); err == nil {
				st.Clip = c
			} else {
				fail(kv.Key, err)
			}
		case "clip-path", "-webkit-clip-path":
			st.ClipPath = p
		case "mix-blend-mode":
			st.BlendMode = p
		case "isolation":
			st.Isolation = p == "isolate"
		case "visibility":
			switch p {
			case "hidden":
				st.Visibility = Hidden
			case "collapse":
				st.Visibility = Collapse
			}
		case "mask", "mask-image", "-webkit-mask", "-webkit-mask-image":
			st.Mask = p
		case "-webkit-box-reflect":
			st.BoxReflect = p
		}
	}
	return st, firstErr
}

func parseOverflow(s string) Overflow {
	switch s {
	case "hidden":
		return OverflowHidden
	case "scroll":
		return OverflowScroll
	case "auto", "overlay":
		return OverflowAuto
	case "clip":
		return OverflowClip
	}
	return OverflowVisible
}

// parseClip reads `rect(top, right, bottom, left)`.
func parseClip(p Property) (Clip, error) {
	s := strings.TrimSpace(string(p))
	if s == "auto" || s == "" {
		return Clip{}, nil
	}
	if !strings.HasPrefix(s, "rect(") || !strings.HasSuffix(s, ")") {
		return Clip{}, fmt.Errorf("not a clip rect: %q", s)
	}
	fs := Property(s[5 : len(s)-1]).Fields()
	if len(fs) != 4 {
		return Clip{}, fmt.Errorf("clip rect needs 4 values: %q", s)
	}
	var v [4]float64
	for i, f := range fs {
		x, ok := parsePx(f)
		if !ok {
			return Clip{}, fmt.Errorf("not a length: %q", f)
		}
		v[i] = x
	}
	r := geom.Rect{
		Min: geom.Point{X: geom.FromFloat(v[3]), Y: geom.FromFloat(v[0])},
		Max: geom.Point{X: geom.FromFloat(v[1]), Y: geom.FromFloat(v[2])},
	}
	return Clip{Rect: r, Set: true}, nil
}
