package intersect

import (
	"fmt"
	"math"

	"github.com/npillmayer/inking"
	"github.com/npillmayer/inking/spline"
)

// Target is the kind of geometry an Intersector tests against.
type Target int8

// Kinds of targets.
const (
	TargetNone Target = iota
	TargetStroke
	TargetClosedPath
)

func (t Target) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetStroke:
		return "stroke"
	case TargetClosedPath:
		return "closed path"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

const (
	// DefaultTolerance is the default length in pixels of the linear pieces
	// used to approximate curves.
	DefaultTolerance = 0.5
	bisections       = 12  // refinement steps for a transition
	minSamples       = 4   // samples per candidate segment, at least
	clipThreshold    = 256 // regions with more vertices are clipped to the candidate
)

// Option configures an Intersector.
type Option func(*Intersector)

// WithScattering sets the scattering of candidate paths, as used by particle
// brushes: the rendered extent of a candidate grows by a factor of
// 1+scattering. Negative values count as 0.
func WithScattering(s float64) Option {
	return func(x *Intersector) {
		x.scattering = math.Max(0, s)
	}
}

// WithTolerance sets the length of the linear pieces used to approximate
// the target and to sample candidates. Values ≤ 0 are ignored.
func WithTolerance(px float64) Option {
	return func(x *Intersector) {
		if px > 0 {
			x.tolerance = px
		}
	}
}

// rib is a piece of a flattened target stroke.
type rib struct {
	a, b   inking.Pair
	wa, wb float64 // widths at a and b
	box    inking.Rect
}

// ribs of one target segment
type ribGroup struct {
	box      inking.Rect
	from, to int
}

// Intersector computes intervals of candidate paths inside or outside of a
// target. An Intersector is not safe for concurrent use.
type Intersector struct {
	target     Target
	bounds     inking.Rect // of the target
	ribs       []rib
	groups     []ribGroup
	region     *Region
	scattering float64
	tolerance  float64
	result     IntersectionResult
}

// New creates an Intersector without a target.
func New(opts ...Option) *Intersector {
	x := &Intersector{
		tolerance: DefaultTolerance,
		bounds:    inking.EmptyRect(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Target returns the kind of the current target.
func (x *Intersector) Target() Target {
	return x.target
}

// TargetBounds returns the bounding box of the current target.
func (x *Intersector) TargetBounds() inking.Rect {
	return x.bounds
}

func (x *Intersector) clearTarget() {
	x.target = TargetNone
	x.bounds = inking.EmptyRect()
	x.ribs = x.ribs[:0]
	x.groups = x.groups[:0]
	x.region = nil
}

// SetTargetAsStroke makes a stroke the target. Paths with less than four
// control points have no extent; they leave the Intersector without target.
// The path is flattened immediately, later changes of target do not affect
// the Intersector.
func (x *Intersector) SetTargetAsStroke(target *spline.Path) {
	x.clearTarget()
	if target == nil || target.Validate() != nil || len(target.Points) < target.Stride*4 {
		tracer().Infof("degenerate stroke target, intersector has no target")
		return
	}
	var pts []inking.Pair
	for i := 0; i < target.Segments(); i++ {
		seg := target.Segment(i)
		pts = seg.Flatten(x.tolerance, pts[:0])
		n := len(pts) - 1
		group := ribGroup{box: seg.Bounds(0), from: len(x.ribs)}
		for k := 0; k < n; k++ {
			r := rib{
				a:  pts[k],
				b:  pts[k+1],
				wa: seg.Width(seg.Param(k, n)),
				wb: seg.Width(seg.Param(k+1, n)),
			}
			r.box = inking.RectFromCorners(r.a, r.b).Outset(math.Max(r.wa, r.wb) / 2)
			x.ribs = append(x.ribs, r)
		}
		group.to = len(x.ribs)
		x.groups = append(x.groups, group)
		x.bounds = x.bounds.Union(group.box)
	}
	x.target = TargetStroke
	tracer().Debugf("stroke target of %d segments flattened to %d pieces", len(x.groups), len(x.ribs))
}

// SetTargetAsClosedPath makes the region enclosed by a closed path the
// target. points holds control points with the given stride; the path's
// outline runs through all of its segments and closes from the last one to
// the first one. Less than four control points leave the Intersector
// without target.
func (x *Intersector) SetTargetAsClosedPath(points []float32, stride int) {
	x.clearTarget()
	if stride < 2 || len(points) < stride*4 || len(points)%stride != 0 {
		tracer().Infof("degenerate closed path target, intersector has no target")
		return
	}
	path := spline.Nullpath(stride, 0)
	path.Points = append([]float32(nil), points...)
	x.region = RegionOf(path, x.tolerance)
	x.bounds = x.region.Bounds()
	x.target = TargetClosedPath
	tracer().Debugf("closed path target flattened to %d vertices", x.region.N())
}

// SetTargetAsRegion makes a region the target.
func (x *Intersector) SetTargetAsRegion(r *Region) {
	x.clearTarget()
	if r == nil || r.IsEmpty() {
		tracer().Infof("empty region target, intersector has no target")
		return
	}
	x.region = r
	x.bounds = r.Bounds()
	x.target = TargetClosedPath
}

// IntersectWithTarget splits a candidate path into intervals inside and
// outside the target. Without a target, or for a candidate without
// segments, the result has no intervals. A malformed candidate leaves an
// error wrapping inking.ErrInvalidArgument in the result, see Err.
//
// The result is owned by the Intersector and overwritten by the next call.
func (x *Intersector) IntersectWithTarget(c *spline.Path) *IntersectionResult {
	x.result.reset()
	ok, err := x.acceptCandidate(c)
	if err != nil {
		x.result.err = err
		return &x.result
	}
	if x.target == TargetNone || !ok {
		return &x.result
	}
	ivs := x.result.intervals
	region := x.regionFor(c)
	x.scan(c, region, func(r run) bool {
		n := len(ivs)
		if n > 0 && ivs[n-1].Inside == r.inside {
			ivs[n-1].ToIndex, ivs[n-1].ToValue = r.seg+3, float32(r.t1)
			return true
		}
		iv := Interval{FromIndex: r.seg, FromValue: float32(r.t0), Inside: r.inside}
		if n > 0 { // start where the predecessor ends
			iv.FromIndex, iv.FromValue = ivs[n-1].ToIndex-3, ivs[n-1].ToValue
		}
		iv.ToIndex, iv.ToValue = r.seg+3, float32(r.t1)
		ivs = append(ivs, iv)
		return true
	})
	x.result.intervals = ivs
	tracer().Debugf("candidate of %d segments: %d intervals", c.Segments(), len(ivs))
	return &x.result
}

// IsIntersectingTarget is a predicate: has the candidate path any part inside
// the target? It does not touch the Intersector's result. A malformed
// candidate is reported as an error wrapping inking.ErrInvalidArgument.
func (x *Intersector) IsIntersectingTarget(c *spline.Path) (bool, error) {
	ok, err := x.acceptCandidate(c)
	if err != nil || x.target == TargetNone || !ok {
		return false, err
	}
	found := false
	x.scan(c, x.regionFor(c), func(r run) bool {
		found = r.inside
		return !found
	})
	return found, nil
}

// acceptCandidate is false for well-formed candidates without segments.
func (x *Intersector) acceptCandidate(c *spline.Path) (bool, error) {
	if err := c.Validate(); err != nil {
		tracer().Errorf("candidate path: %v", err)
		return false, fmt.Errorf("candidate path: %w", err)
	}
	return c.Segments() > 0, nil
}

// regionFor returns the region to test a candidate against. Large regions
// are clipped to the candidate's bounds.
func (x *Intersector) regionFor(c *spline.Path) *Region {
	if x.target != TargetClosedPath || x.region.N() <= clipThreshold {
		return x.region
	}
	box := c.Bounds(x.scattering).Outset(x.tolerance)
	if box.Contains(x.bounds.Min()) && box.Contains(x.bounds.Max()) {
		return x.region
	}
	clipped := x.region.Clip(box)
	if clipped.IsEmpty() {
		return x.region
	}
	return clipped
}

// CalculateSegmentBounds returns the bounding box of segment index of a
// control point buffer: the bounds of the centre line, grown by half of the
// maximum width times 1+scattering. width is NaN if channel 2 holds
// per-point widths. An invalid index yields the empty rectangle.
func CalculateSegmentBounds(points []float32, stride int, width float32, index int,
	scattering float64) inking.Rect {
	//
	seg, ok := spline.SegmentOf(points, stride, width, index)
	if !ok {
		return inking.EmptyRect()
	}
	return seg.Bounds(scattering)
}
