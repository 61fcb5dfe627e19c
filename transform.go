package inking

import (
	"fmt"
	"math"
)

// === Affine Transformations ================================================

// AT is an affine transform, a matrix type used for transforming vectors.
type AT []float64 // a 3x3 matrix, flattened by rows

// Internal constructor. Clients implicitely use this as a starting point for
// transform combinations.
func newAT() AT {
	m := make([]float64, 9)
	return m
}

func (m AT) get(row, col int) float64 {
	return m[row*3+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*3 : (row+1)*3]
}

func (m AT) col(col int) []float64 {
	c := make([]float64, 3)
	c[0] = m[col]
	c[1] = m[3+col]
	c[2] = m[6+col]
	return c
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation transform. Translate a point by (dx,dy).
func Translation(p Pair) AT {
	m := Identity()
	m.set(0, 2, p.X())
	m.set(1, 2, p.Y())
	return m
}

// Rotation transform. Rotate a point counter-clockwise around the origin.
// Argument is in radians.
func Rotation(theta float64) AT {
	m := newAT()
	sin := math.Sin(theta)
	cos := math.Cos(theta)
	m.set(0, 0, cos)
	m.set(0, 1, -sin)
	m.set(1, 0, sin)
	m.set(1, 1, cos)
	m.set(2, 2, 1.0)
	return m
}

// Scaling transform. Scales x and y independently.
func Scaling(sx, sy float64) AT {
	m := newAT()
	m.set(0, 0, sx)
	m.set(1, 1, sy)
	m.set(2, 2, 1.0)
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	s := fmt.Sprintf("[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
	return s
}

// v1 × v2, v.n = [a,b,c]
func dotProd(vec1, vec2 []float64) float64 {
	p1 := vec1[0] * vec2[0]
	p2 := vec1[1] * vec2[1]
	p3 := vec1[2] * vec2[2]
	return p1 + p2 + p3
}

// Combine 2 affine transformation to a new one. Returns a new transformation
// without changing the argument(s). The result applies m first, then n.
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

// Transform a 2D-point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	x := m.get(0, 0)*p.X() + m.get(0, 1)*p.Y() + m.get(0, 2)
	y := m.get(1, 0)*p.X() + m.get(1, 1)*p.Y() + m.get(1, 2)
	return P(x, y)
}

// Scale is the geometric mean of the axis scale factors of m. Widths of
// control points are multiplied by it when a buffer is transformed.
func (m AT) Scale() float64 {
	det := m.get(0, 0)*m.get(1, 1) - m.get(0, 1)*m.get(1, 0)
	return math.Sqrt(math.Abs(det))
}

// TransformPoints transforms a control point buffer in place. Positions
// (channels 0 and 1 of every point) are transformed, and if widthChannel is
// true, channel 2 is scaled by m.Scale(). Other channels are left untouched.
// Trailing values not filling a complete point are ignored.
func (m AT) TransformPoints(points []float32, stride int, widthChannel bool) error {
	if stride < 2 {
		return fmt.Errorf("%w: stride %d < 2", ErrInvalidArgument, stride)
	}
	if widthChannel && stride < 3 {
		return fmt.Errorf("%w: no width channel with stride %d", ErrInvalidArgument, stride)
	}
	scale := float32(m.Scale())
	for i := 0; i+stride <= len(points); i += stride {
		p := m.Transform(P32(points[i], points[i+1]))
		points[i], points[i+1] = float32(p.X()), float32(p.Y())
		if widthChannel {
			points[i+2] *= scale
		}
	}
	tracer().Debugf("transformed %d points by %s", len(points)/stride, m)
	return nil
}
