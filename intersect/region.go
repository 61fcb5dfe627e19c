package intersect

import (
	"fmt"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/inking"
	"github.com/npillmayer/inking/spline"
)

// Region is a closed polygonal area, made of one or more outlines.
// A point is inside if it is enclosed by an odd number of outlines.
type Region struct {
	poly   polyclip.Polygon
	bounds inking.Rect
	open   bool // last outline still accepts knots
}

// NullRegion creates an empty region, to be extended by subsequent builder
// calls:
//
//	triangle := NullRegion().Knot(inking.P(0, 0)).Knot(inking.P(1, 3)).Knot(inking.P(3, 0)).Cycle()
func NullRegion() *Region {
	return &Region{bounds: inking.EmptyRect()}
}

// Knot adds a vertex to the current outline. Part of builder functionality.
func (r *Region) Knot(p inking.Pair) *Region {
	if !r.open {
		r.poly = append(r.poly, polyclip.Contour{})
		r.open = true
	}
	r.poly[len(r.poly)-1].Add(point(p))
	r.bounds = r.bounds.Extend(p)
	return r
}

// Cycle closes the current outline. Further knots start a new outline,
// e.g. a hole. Part of builder functionality.
func (r *Region) Cycle() *Region {
	r.open = false
	return r
}

// Box creates a rectangular region from two opposite corners.
func Box(a, b inking.Pair) *Region {
	rect := inking.RectFromCorners(a, b)
	return rectRegion(rect)
}

func rectRegion(rect inking.Rect) *Region {
	lo, hi := rect.Min(), rect.Max()
	return NullRegion().Knot(lo).Knot(inking.P(hi.X(), lo.Y())).Knot(hi).
		Knot(inking.P(lo.X(), hi.Y())).Cycle()
}

// RegionOf flattens the centre line of a closed path into a region. The
// outline connects the segments of path and closes from the end of the
// last segment to the start of the first one. Pieces of the outline are at
// most tolerance long.
func RegionOf(path *spline.Path, tolerance float64) *Region {
	r := NullRegion()
	var pts []inking.Pair
	for i := 0; i < path.Segments(); i++ {
		pts = path.Segment(i).Flatten(tolerance, pts[:0])
		if i > 0 {
			pts = pts[1:] // shared with previous segment
		}
		for _, p := range pts {
			r.Knot(p)
		}
	}
	return r.Cycle()
}

// N returns the number of vertices of all outlines.
func (r *Region) N() int {
	return r.poly.NumVertices()
}

// Bounds returns the bounding box of the region.
func (r *Region) Bounds() inking.Rect {
	return r.bounds
}

// IsEmpty is a predicate: has the region no area?
func (r *Region) IsEmpty() bool {
	for _, c := range r.poly {
		if len(c) >= 3 {
			return false
		}
	}
	return true
}

// Contains is a predicate: is p inside the region? Points on an outline may
// be reported either way.
func (r *Region) Contains(p inking.Pair) bool {
	if !r.bounds.Contains(p) {
		return false
	}
	pt := point(p)
	inside := false
	for _, c := range r.poly {
		if len(c) >= 3 && c.Contains(pt) {
			inside = !inside
		}
	}
	return inside
}

// Overlaps is a predicate: does the bounding box of the region overlap rect?
func (r *Region) Overlaps(rect inking.Rect) bool {
	if r.bounds.IsEmpty() || rect.IsEmpty() {
		return false
	}
	return boundingBox(r.bounds).Overlaps(boundingBox(rect))
}

// Clip returns the part of the region inside rect.
func (r *Region) Clip(rect inking.Rect) *Region {
	if !r.Overlaps(rect) {
		return NullRegion()
	}
	clip := rectRegion(rect)
	result := r.poly.Construct(polyclip.INTERSECTION, clip.poly)
	clipped := NullRegion()
	for _, c := range result {
		for _, p := range c {
			clipped.Knot(inking.P(p.X, p.Y))
		}
		clipped.Cycle()
	}
	tracer().Debugf("clipped region of %d vertices to %d vertices", r.N(), clipped.N())
	return clipped
}

// AsString returns a region as a (debugging) string.
func AsString(r *Region) string {
	var sb strings.Builder
	for i, c := range r.poly {
		if i > 0 {
			sb.WriteString(" & ")
		}
		for j, p := range c {
			if j > 0 {
				sb.WriteString(" -- ")
			}
			fmt.Fprintf(&sb, "(%.4g,%.4g)", p.X, p.Y)
		}
		sb.WriteString(" -- cycle")
	}
	return sb.String()
}

func point(p inking.Pair) polyclip.Point {
	return polyclip.Point{X: p.X(), Y: p.Y()}
}

func boundingBox(r inking.Rect) polyclip.Rectangle {
	return polyclip.Rectangle{Min: point(r.Min()), Max: point(r.Max())}
}
