/*
Package inking implements the numeric base of an ink path-processing
pipeline: points, bounds, affine transformations of control point buffers
and the error taxonomy shared by the sub-packages.

The pipeline itself lives in sub-packages:

	pathbuilder   raw pointer samples → Catmull-Rom control points
	smooth        multi-channel double-exponential smoothing
	intersect     intervals of a stroke inside/outside a target
	spline        the control point buffer and its segments
	inkconf       brush presets from files or application configuration

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package inking

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'inking'
func tracer() tracing.Trace {
	return tracing.Select("inking")
}

var (
	// ErrInvalidState indicates an operation invoked out of sequence, e.g. adding
	// a point to a path which has not been started.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidArgument indicates malformed configuration or buffer sizes.
	ErrInvalidArgument = errors.New("invalid argument")
)

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Clamp restricts n to [lo,hi].
func Clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// === Pair Data Type ========================================================

// Pair is a 2D-point, stored as a complex number.
type Pair complex128

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// P32 constructs a pair from float32 buffer values.
func P32(x, y float32) Pair {
	return Pair(complex(float64(x), float64(y)))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// Abs is the distance of p from the origin.
func (p Pair) Abs() float64 {
	return cmplx.Abs(complex128(p))
}

// Dist is the euclidian distance between p and q.
func (p Pair) Dist(q Pair) float64 {
	return (q - p).Abs()
}

// Dot is the dot product of p and q.
func (p Pair) Dot(q Pair) float64 {
	return p.X()*q.X() + p.Y()*q.Y()
}

// Scaled returns a new pair scaled by factor a.
func (p Pair) Scaled(a float64) Pair {
	return P(p.X()*a, p.Y()*a)
}

// Lerp interpolates linearly between p (t=0) and q (t=1).
func (p Pair) Lerp(q Pair, t float64) Pair {
	return p + (q - p).Scaled(t)
}
