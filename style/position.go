package style

import (
	"strings"
)

// position is an enum type for the CSS position property.
type position uint16

// Enum values for type Position
const (
	positionUnset    position = iota
	positionStatic            // CSS static (default)
	positionRelative          // CSS relative
	positionAbsolute          // CSS absolute
	positionFixed             // CSS fixed
	positionSticky            // CSS sticky
)

// PositionT is an option type for CSS positions.
type PositionT struct {
	offsets []PositionOffset
	kind    position
}

// PositionOffset is one of the four offset properties top, right, bottom, left.
type PositionOffset struct {
	Len Length
	Dir PosDir
}

// PosDir is either Top, Right, Bottom or Left.
type PosDir uint8

const (
	Top PosDir = iota
	Right
	Bottom
	Left
)

// NormalizeOffsets normalizes offset properties (Top, Right, Bottom, Left) into
// a 4-way slice, ordered by PosDir. Invalid PosDir-s are silently dropped.
func NormalizeOffsets(offsets []PositionOffset) []PositionOffset {
	norm := make([]PositionOffset, 4)
	for i := Top; i <= Left; i++ {
		norm[i].Dir = i
	}
	for _, o := range offsets {
		if o.Dir >= Top && o.Dir <= Left {
			norm[int(o.Dir)] = o
		}
	}
	return norm
}

/*
type PositionT
	= Unset
	| Static
	| Relative top right bottom left
	| Absolute top right bottom left
	| Fixed top right bottom left
	| Sticky top right bottom left
*/

// Static creates a CSS position of value `static`.
func Static() PositionT {
	return PositionT{kind: positionStatic}
}

// Relative creates a CSS position of value `relative`, given optional offsets.
// offsets may be provied partially or none at all.
func Relative(offsets []PositionOffset) PositionT {
	return PositionT{kind: positionRelative, offsets: NormalizeOffsets(offsets)}
}

// Absolute creates a CSS position of value `absolute`, given optional offsets.
func Absolute(offsets []PositionOffset) PositionT {
	return PositionT{kind: positionAbsolute, offsets: NormalizeOffsets(offsets)}
}

// Fixed creates a CSS position of value `fixed`, given optional offsets.
func Fixed(offsets []PositionOffset) PositionT {
	return PositionT{kind: positionFixed, offsets: NormalizeOffsets(offsets)}
}

// Sticky creates a CSS position of value `sticky`, given optional offsets.
func Sticky(offsets []PositionOffset) PositionT {
	return PositionT{kind: positionSticky, offsets: NormalizeOffsets(offsets)}
}

var positionMap = map[position]string{
	positionStatic:   "static",
	positionRelative: "relative",
	positionAbsolute: "absolute",
	positionFixed:    "fixed",
	positionSticky:   "sticky",
}

// Position returns an optional position type from a property string.
// It will never return an error, even with illegal input, but instead will then
// return an unset position.
func Position(p Property, offsets []PositionOffset) PositionT {
	p = Property(strings.ToLower(string(p)))
	switch p {
	case "static":
		return Static()
	case "relative":
		return Relative(offsets)
	case "absolute":
		return Absolute(offsets)
	case "fixed":
		return Fixed(offsets)
	case "sticky", "-webkit-sticky":
		return Sticky(offsets)
	}
	return PositionT{}
}

// Offset returns the offset length for a direction. For static or unset
// positions it is unset.
func (p PositionT) Offset(dir PosDir) Length {
	if int(dir) >= len(p.offsets) {
		return Length{}
	}
	return p.offsets[dir].Len
}

func (p PositionT) String() string {
	if s, ok := positionMap[p.kind]; ok {
		return s
	}
	return "unset"
}

// ---------------------------------------------------------------------------

// Match starts a pattern match on a position.
func (p PositionT) Match() *PMatcher {
	return &PMatcher{pos: p}
}

// PMatcher matches positions against kinds.
type PMatcher struct {
	pos PositionT
}

// Fixed matches a fixed position and extracts its offsets.
func (m *PMatcher) Fixed(o *[]PositionOffset) *PMatcher {
	return m.kindWithOffsets(positionFixed, o)
}

// Sticky matches a sticky position and extracts its offsets.
func (m *PMatcher) Sticky(o *[]PositionOffset) *PMatcher {
	return m.kindWithOffsets(positionSticky, o)
}

func (m *PMatcher) kindWithOffsets(k position, o *[]PositionOffset) *PMatcher {
	if m.pos.kind == k {
		if o != nil {
			*o = m.pos.offsets
		}
		return m
	}
	return nil
}

// --- Expression matching ---------------------------------------------------

// PositionPatterns holds one result value per position kind.
type PositionPatterns[T any] struct {
	Unset    T
	Static   T
	Absolute T
	Relative T
	Fixed    T
	Sticky   T
	Default  T
}

// PositionPattern starts an expression match on p.
func PositionPattern[T any](p PositionT) *PMatchExpr[T] {
	return &PMatchExpr[T]{pos: p}
}

// PMatchExpr is part of pattern matching for PositionT types and intended to be instantiated
// using `PositionPattern()` only.
type PMatchExpr[T any] struct {
	pos PositionT
}

// OneOf selects the pattern value for the kind of position.
func (m *PMatchExpr[T]) OneOf(patterns PositionPatterns[T]) T {
	switch m.pos.kind {
	case positionUnset:
		return patterns.Unset
	case positionStatic:
		return patterns.Static
	case positionAbsolute:
		return patterns.Absolute
	case positionRelative:
		return patterns.Relative
	case positionFixed:
		return patterns.Fixed
	case positionSticky:
		return patterns.Sticky
	}
	return patterns.Default
}

// ---------------------------------------------------------------------------

// IsPositioned is true for every position other than static or unset.
func (p PositionT) IsPositioned() bool {
	return p.kind != positionUnset && p.kind != positionStatic
}

// IsOutOfFlow is true for absolute and fixed positions.
func (p PositionT) IsOutOfFlow() bool {
	return p.kind == positionAbsolute || p.kind == positionFixed
}

// IsInFlowPositioned is true for relative and sticky positions.
func (p PositionT) IsInFlowPositioned() bool {
	return p.kind == positionRelative || p.kind == positionSticky
}

// IsRelative returns true if p represents a relative position.
func (p PositionT) IsRelative() bool {
	return p.kind == positionRelative
}

// IsAbsolute returns true if p represents an absolute position.
func (p PositionT) IsAbsolute() bool {
	return p.kind == positionAbsolute
}

// IsFixed returns true if p represents a fixed position.
func (p PositionT) IsFixed() bool {
	return p.kind == positionFixed
}

// IsSticky returns true if p represents a sticky position.
func (p PositionT) IsSticky() bool {
	return p.kind == positionSticky
}
