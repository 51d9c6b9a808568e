package style

import (
	"strconv"
	"strings"

	"github.com/npillmayer/compositor/geom"
)

const (
	lengthNone     uint32 = 0
	lengthAbsolute uint32 = 0x0001
	lengthAuto     uint32 = 0x0002
	lengthPercent  uint32 = 0x0003
	kindMask       uint32 = 0x000f
)

// Length is an option type for CSS lengths as used for position offsets.
type Length struct {
	d       geom.Unit
	percent float64
	flags   uint32
}

/*
type Length
	= Unset
	| Auto
	| JustLength unit
	| Percentage float
*/

// Auto creates a length of value `auto`.
func Auto() Length {
	return Length{flags: lengthAuto}
}

// JustLength creates a CSS length with a fixed value of x.
func JustLength(x geom.Unit) Length {
	return Length{d: x, flags: lengthAbsolute}
}

// Percentage creates a CSS length with a %-relative value.
func Percentage(p float64) Length {
	return Length{percent: p, flags: lengthPercent}
}

// IsUnset is true for the zero value.
func (l Length) IsUnset() bool {
	return l.flags&kindMask == lengthNone
}

// IsAuto is true for `auto` and unset lengths.
func (l Length) IsAuto() bool {
	return l.flags&kindMask == lengthAuto || l.IsUnset()
}

// Resolve returns the length in layout units, resolving percentages against
// base. Auto lengths resolve to 0 with ok=false.
func (l Length) Resolve(base geom.Unit) (geom.Unit, bool) {
	var u geom.Unit
	var p float64
	if l.Match().Just(&u) != nil {
		return u, true
	}
	if l.Match().Percentage(&p) != nil {
		return geom.FromFloat(geom.Float(base) * p / 100), true
	}
	return 0, false
}

func (l Length) String() string {
	switch l.flags & kindMask {
	case lengthAbsolute:
		return geom.FormatUnit(l.d) + "px"
	case lengthPercent:
		return strconv.FormatFloat(l.percent, 'f', -1, 64) + "%"
	case lengthAuto:
		return "auto"
	}
	return "unset"
}

// --- Matching --------------------------------------------------------------

// Match starts a pattern match on a length.
func (l Length) Match() *LMatcher {
	return &LMatcher{length: l}
}

// LMatcher matches lengths against kinds.
type LMatcher struct {
	length Length
}

// Just matches an absolute length and extracts its value.
func (m *LMatcher) Just(du *geom.Unit) *LMatcher {
	if m.length.flags&kindMask == lengthAbsolute {
		if du != nil {
			*du = m.length.d
		}
		return m
	}
	return nil
}

// Percentage matches a relative length and extracts its percentage.
func (m *LMatcher) Percentage(p *float64) *LMatcher {
	if m.length.flags&kindMask == lengthPercent {
		if p != nil {
			*p = m.length.percent
		}
		return m
	}
	return nil
}

// ParseLength converts a property into a length. Supported are "auto",
// pixel values ("12px", "12"), and percentages ("50%"). Anything else
// results in an unset length.
func ParseLength(p Property) Length {
	s := strings.TrimSpace(string(p))
	switch {
	case s == "":
		return Length{}
	case s == "auto":
		return Auto()
	case strings.HasSuffix(s, "%"):
		if f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64); err == nil {
			return Percentage(f)
		}
	default:
		if f, ok := parsePx(s); ok {
			return JustLength(geom.FromFloat(f))
		}
	}
	tracer().Debugf("cannot interpret %q as a length", s)
	return Length{}
}

// parsePx interprets "12px", "12" or "0" as pixels.
func parsePx(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
