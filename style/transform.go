package style

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/compositor/geom"
	"golang.org/x/image/math/f64"
)

// ErrInvalidTransform is returned for transform values which cannot be parsed.
var ErrInvalidTransform = errors.New("invalid transform")

// Transform is a parsed CSS transform list.
//
// The combined matrix is kept as a flattened 2D projection. Has3DOperation
// tells if any function of the list is a 3D function, even if it is a no-op
// in 2D such as translateZ(0).
type Transform struct {
	Matrix geom.Transform
	ops    []string
	has3D  bool
	not2D  bool
}

// NoTransform is the transform `none`.
var NoTransform = Transform{}

// IsNone is true for `transform: none`.
func (t Transform) IsNone() bool {
	return len(t.ops) == 0
}

// Has3DOperation is true if any transform function is a 3D function.
func (t Transform) Has3DOperation() bool {
	return t.has3D
}

// IsRepresentableIn2D is false if the list contains 3D functions with effects
// not expressible by a 2D matrix.
func (t Transform) IsRepresentableIn2D() bool {
	return !t.not2D
}

// Functions returns the names of the transform functions, in order.
func (t Transform) Functions() []string {
	return t.ops
}

func (t Transform) String() string {
	if t.IsNone() {
		return "none"
	}
	return strings.Join(t.ops, " ")
}

// ParseTransform parses a CSS transform list, e.g.
//
//     translate(10px, 20px) rotate(45deg) translateZ(0)
//
// Function names are case-insensitive.
// Functions are applied from left to right, i.e. the resulting matrix is
// the product of the function matrices in list order.
func ParseTransform(p Property) (Transform, error) {
	s := strings.TrimSpace(string(p))
	if s == "" || s == "none" {
		return NoTransform, nil
	}
	t := Transform{}
	m := geom.Identity()
	for len(s) > 0 {
		open := strings.IndexByte(s, '(')
		end := strings.IndexByte(s, ')')
		if open <= 0 || end < open {
			return NoTransform, fmt.Errorf("%w: %q", ErrInvalidTransform, p)
		}
		name := strings.ToLower(strings.TrimSpace(s[:open]))
		args := Property(s[open+1 : end]).Fields()
		fm, is3D, flat, err := transformFunction(name, args)
		if err != nil {
			return NoTransform, fmt.Errorf("%w: %s: %v", ErrInvalidTransform, name, err)
		}
		m = m.Multiply(fm)
		t.ops = append(t.ops, name)
		t.has3D = t.has3D || is3D
		t.not2D = t.not2D || !flat
		s = strings.TrimSpace(s[end+1:])
	}
	if t.has3D {
		m = m.With3D()
	}
	t.Matrix = m
	return t, nil
}

// transformFunction returns the 2D projection of a transform function, a flag
// if it is a 3D function, and a flag if it is representable in 2D.
func transformFunction(name string, args []string) (geom.Transform, bool, bool, error) {
	num := func(i int) (float64, error) {
		if i >= len(args) {
			return 0, errors.New("missing argument")
		}
		return strconv.ParseFloat(args[i], 64)
	}
	length := func(i int) (float64, error) {
		if i >= len(args) {
			return 0, errors.New("missing argument")
		}
		if f, ok := parsePx(args[i]); ok {
			return f, nil
		}
		return 0, fmt.Errorf("not a length: %q", args[i])
	}
	angle := func(i int) (float64, error) {
		if i >= len(args) {
			return 0, errors.New("missing argument")
		}
		return parseAngle(args[i])
	}
	var err error
	var a, b, c float64
	switch name {
	case "translate":
		if a, err = length(0); err == nil {
			if len(args) > 1 {
				b, err = length(1)
			}
		}
		return geom.Translation(a, b), false, true, err
	case "translatex":
		a, err = length(0)
		return geom.Translation(a, 0), false, true, err
	case "translatey":
		a, err = length(0)
		return geom.Translation(0, a), false, true, err
	case "translatez":
		a, err = length(0)
		return geom.Identity(), true, a == 0, err
	case "translate3d":
		if a, err = length(0); err == nil {
			if b, err = length(1); err == nil {
				c, err = length(2)
			}
		}
		return geom.Translation(a, b), true, c == 0, err
	case "scale":
		if a, err = num(0); err == nil {
			b = a
			if len(args) > 1 {
				b, err = num(1)
			}
		}
		return geom.Scale(a, b), false, true, err
	case "scalex":
		a, err = num(0)
		return geom.Scale(a, 1), false, true, err
	case "scaley":
		a, err = num(0)
		return geom.Scale(1, a), false, true, err
	case "scalez":
		a, err = num(0)
		return geom.Identity(), true, a == 1, err
	case "scale3d":
		if a, err = num(0); err == nil {
			if b, err = num(1); err == nil {
				c, err = num(2)
			}
		}
		return geom.Scale(a, b), true, c == 1, err
	case "rotate", "rotatez":
		a, err = angle(0)
		return geom.Rotation(a), name == "rotatez", true, err
	case "rotatex":
		a, err = angle(0)
		return geom.Scale(1, math.Cos(a*math.Pi/180)), true, a == 0, err
	case "rotatey":
		a, err = angle(0)
		return geom.Scale(math.Cos(a*math.Pi/180), 1), true, a == 0, err
	case "skew", "skewx", "skewy":
		var ax, ay float64
		if ax, err = angle(0); err == nil && len(args) > 1 {
			ay, err = angle(1)
		}
		if name == "skewy" {
			ax, ay = 0, ax
		}
		tx, ty := math.Tan(ax*math.Pi/180), math.Tan(ay*math.Pi/180)
		return geom.Matrix(f64.Aff3{1, tx, 0, ty, 1, 0}), false, true, err
	case "matrix":
		if len(args) != 6 {
			return geom.Identity(), false, true, errors.New("matrix needs 6 arguments")
		}
		var v [6]float64
		for i := range v {
			if v[i], err = num(i); err != nil {
				return geom.Identity(), false, true, err
			}
		}
		return geom.Matrix(f64.Aff3{v[0], v[2], v[4], v[1], v[3], v[5]}), false, true, nil
	case "matrix3d":
		if len(args) != 16 {
			return geom.Identity(), true, false, errors.New("matrix3d needs 16 arguments")
		}
		var v [16]float64
		for i := range v {
			if v[i], err = num(i); err != nil {
				return geom.Identity(), true, false, err
			}
		}
		flat := v[2] == 0 && v[3] == 0 && v[6] == 0 && v[7] == 0 && v[8] == 0 &&
			v[9] == 0 && v[10] == 1 && v[11] == 0 && v[14] == 0 && v[15] == 1
		return geom.Matrix(f64.Aff3{v[0], v[4], v[12], v[1], v[5], v[13]}), true, flat, nil
	case "perspective":
		_, err = length(0)
		return geom.Identity(), true, false, err
	}
	return geom.Identity(), false, true, fmt.Errorf("unknown transform function")
}

// parseAngle converts an angle to degrees. Units deg, rad, grad and turn are
// recognized.
func parseAngle(s string) (float64, error) {
	units := []struct {
		suffix string
		factor float64
	}{
		{"deg", 1}, {"grad", 0.9}, {"rad", 180 / math.Pi}, {"turn", 360},
	}
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			f, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
			return f * u.factor, err
		}
	}
	if s == "0" {
		return 0, nil
	}
	return 0, fmt.Errorf("not an angle: %q", s)
}
