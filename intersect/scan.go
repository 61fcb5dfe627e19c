package intersect

import (
	"github.com/npillmayer/inking"
	"github.com/npillmayer/inking/spline"
)

// run is a piece [t0,t1] of candidate segment seg with uniform
// classification.
type run struct {
	seg    int
	t0, t1 float64
	inside bool
}

// scan classifies the candidate c segment by segment and reports maximal
// runs to visit, in path order. Runs never span segments. scan stops as soon
// as visit returns false.
func (x *Intersector) scan(c *spline.Path, region *Region, visit func(run) bool) {
	for i := 0; i < c.Segments(); i++ {
		seg := c.Segment(i)
		if !x.near(seg.Bounds(x.scattering)) {
			if !visit(run{seg: i, t0: seg.T0, t1: seg.T1}) {
				return
			}
			continue
		}
		n := seg.Steps(x.tolerance)
		if n < minSamples {
			n = minSamples
		}
		start, prev := seg.T0, seg.T0
		state := x.inside(seg, prev, region)
		for k := 1; k <= n; k++ {
			t := seg.Param(k, n)
			if t <= prev {
				continue
			}
			s := x.inside(seg, t, region)
			if s != state {
				b := x.bisect(seg, prev, t, state, region)
				if !visit(run{seg: i, t0: start, t1: b, inside: state}) {
					return
				}
				start, state = b, s
			}
			prev = t
		}
		if !visit(run{seg: i, t0: start, t1: seg.T1, inside: state}) {
			return
		}
	}
}

// near is a predicate: may a candidate segment with bounds box touch the
// target?
func (x *Intersector) near(box inking.Rect) bool {
	if !box.Overlaps(x.bounds) {
		return false
	}
	if x.target == TargetStroke {
		for _, g := range x.groups {
			if g.box.Overlaps(box) {
				return true
			}
		}
		return false
	}
	return true
}

// bisect narrows down the position of a change of classification between
// parameters lo (classified as state) and hi.
func (x *Intersector) bisect(seg spline.Segment, lo, hi float64, state bool, region *Region) float64 {
	for i := 0; i < bisections; i++ {
		mid := (lo + hi) / 2
		if x.inside(seg, mid, region) == state {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// inside classifies the candidate position at parameter t of seg.
func (x *Intersector) inside(seg spline.Segment, t float64, region *Region) bool {
	p := seg.Point(t)
	switch x.target {
	case TargetClosedPath:
		return region.Contains(p)
	case TargetStroke:
		hw := seg.Width(t) / 2 * (1 + x.scattering)
		return x.touchesStroke(p, hw)
	}
	return false
}

// touchesStroke is a predicate: is p closer to the target stroke's centre
// line than the stroke's half width plus hw?
func (x *Intersector) touchesStroke(p inking.Pair, hw float64) bool {
	for _, g := range x.groups {
		if !g.box.Outset(hw).Contains(p) {
			continue
		}
		for _, r := range x.ribs[g.from:g.to] {
			if !r.box.Outset(hw).Contains(p) {
				continue
			}
			d, s := distToLine(p, r.a, r.b)
			w := r.wa + s*(r.wb-r.wa)
			if d <= w/2+hw {
				return true
			}
		}
	}
	return false
}

// distToLine returns the distance of p from the line segment a–b and the
// relative position s ∈ [0,1] of the nearest point.
func distToLine(p, a, b inking.Pair) (float64, float64) {
	ab := b - a
	l2 := ab.Dot(ab)
	if inking.Is0(l2) {
		return p.Dist(a), 0
	}
	s := inking.Clamp((p-a).Dot(ab)/l2, 0, 1)
	return p.Dist(a.Lerp(b, s)), s
}
