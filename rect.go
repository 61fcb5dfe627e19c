package inking

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle given by its top-left corner and its
// extent. The empty rectangle has NaN components; it is the neutral element
// for Union.
type Rect struct {
	X, Y, W, H float64
}

// EmptyRect returns the NaN-valued empty rectangle.
func EmptyRect() Rect {
	nan := math.NaN()
	return Rect{nan, nan, nan, nan}
}

// RectFromCorners creates a rectangle spanning two corner points.
func RectFromCorners(a, b Pair) Rect {
	x0, x1 := math.Min(a.X(), b.X()), math.Max(a.X(), b.X())
	y0, y1 := math.Min(a.Y(), b.Y()), math.Max(a.Y(), b.Y())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// IsEmpty is a predicate: has r any NaN components?
func (r Rect) IsEmpty() bool {
	return math.IsNaN(r.X) || math.IsNaN(r.Y) || math.IsNaN(r.W) || math.IsNaN(r.H)
}

// Min is the top-left corner.
func (r Rect) Min() Pair {
	return P(r.X, r.Y)
}

// Max is the bottom-right corner.
func (r Rect) Max() Pair {
	return P(r.X+r.W, r.Y+r.H)
}

// Union returns the smallest rectangle containing both r and r2.
func (r Rect) Union(r2 Rect) Rect {
	if r.IsEmpty() {
		return r2
	}
	if r2.IsEmpty() {
		return r
	}
	x0 := math.Min(r.X, r2.X)
	y0 := math.Min(r.Y, r2.Y)
	x1 := math.Max(r.X+r.W, r2.X+r2.W)
	y1 := math.Max(r.Y+r.H, r2.Y+r2.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Extend returns the smallest rectangle containing r and p.
func (r Rect) Extend(p Pair) Rect {
	return r.Union(Rect{X: p.X(), Y: p.Y()})
}

// Outset grows r by d on every side.
func (r Rect) Outset(d float64) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Overlaps is a predicate: do r and r2 share at least one point?
func (r Rect) Overlaps(r2 Rect) bool {
	if r.IsEmpty() || r2.IsEmpty() {
		return false
	}
	return r.X <= r2.X+r2.W && r2.X <= r.X+r.W &&
		r.Y <= r2.Y+r2.H && r2.Y <= r.Y+r.H
}

// Contains is a predicate: is p inside r or on its border?
func (r Rect) Contains(p Pair) bool {
	if r.IsEmpty() {
		return false
	}
	return p.X() >= r.X && p.X() <= r.X+r.W && p.Y() >= r.Y && p.Y() <= r.Y+r.H
}

func (r Rect) String() string {
	if r.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%g,%g %gx%g]", r.X, r.Y, r.W, r.H)
}
