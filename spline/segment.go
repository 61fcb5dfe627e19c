package spline

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/npillmayer/inking"
)

// maxSteps limits the flattening of a single segment.
const maxSteps = 64

// Segment is a view onto one Catmull-Rom segment of a parent path. The cubic
// polynomials of the centre line and of the width are pre-computed; the
// segment is valid for parameters T0 ≤ t ≤ T1.
type Segment struct {
	Index  int     // index of the segment's first control point
	T0, T1 float64 // parameter range
	x, y   cubic   // centre line
	w      cubic   // width
}

// Segment returns segment i of path. Segment i uses control points i…i+3.
// The first segment starts at path.Ts, the last one ends at path.Tf.
func (path *Path) Segment(i int) Segment {
	t0, t1 := 0.0, 1.0
	if i == 0 {
		t0 = float64(path.Ts)
	}
	if i == path.Segments()-1 {
		t1 = float64(path.Tf)
	}
	return segmentOf(path.Points, path.Stride, path.Width, i, t0, t1)
}

// SegmentOf returns segment index of a raw control point buffer, covering
// the full parameter range [0,1]. width is NaN if channel 2 holds per-point
// widths.
func SegmentOf(points []float32, stride int, width float32, index int) (Segment, bool) {
	if stride < 2 || index < 0 || index >= SegmentsCount(len(points), stride) {
		return Segment{}, false
	}
	return segmentOf(points, stride, width, index, 0, 1), true
}

func segmentOf(points []float32, stride int, width float32, i int, t0, t1 float64) Segment {
	seg := Segment{Index: i, T0: t0, T1: t1}
	k := i * stride
	v := func(j, ch int) float64 {
		return float64(points[k+j*stride+ch])
	}
	seg.x = catmullRom(v(0, 0), v(1, 0), v(2, 0), v(3, 0))
	seg.y = catmullRom(v(0, 1), v(1, 1), v(2, 1), v(3, 1))
	switch {
	case math32.IsNaN(width) && stride >= 3:
		seg.w = catmullRom(v(0, 2), v(1, 2), v(2, 2), v(3, 2))
	case math32.IsNaN(width):
		seg.w = cubic{}
	default:
		seg.w = cubic{float64(width)}
	}
	return seg
}

// Point returns the centre line position at parameter t.
func (seg Segment) Point(t float64) inking.Pair {
	return inking.P(seg.x.at(t), seg.y.at(t))
}

// Tangent returns the (unnormalized) derivative of the centre line at t.
func (seg Segment) Tangent(t float64) inking.Pair {
	return inking.P(seg.x.derivAt(t), seg.y.derivAt(t))
}

// Width returns the stroke width at parameter t. Catmull-Rom interpolation
// may overshoot, widths are clamped to be non-negative.
func (seg Segment) Width(t float64) float64 {
	return math.Max(0, seg.w.at(t))
}

// MaxWidth returns the largest width over the segment's parameter range.
func (seg Segment) MaxWidth() float64 {
	_, hi := seg.w.extrema(seg.T0, seg.T1)
	return math.Max(0, hi)
}

// CentreBounds returns the exact bounding box of the centre line over the
// segment's parameter range.
func (seg Segment) CentreBounds() inking.Rect {
	x0, x1 := seg.x.extrema(seg.T0, seg.T1)
	y0, y1 := seg.y.extrema(seg.T0, seg.T1)
	return inking.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Bounds returns the bounding box of the segment's rendered extent: the
// centre line bounds, grown by half the maximum width. scattering increases
// the width of each point (1 doubles it), as particle brushes spread beyond
// the nominal width.
func (seg Segment) Bounds(scattering float64) inking.Rect {
	r := seg.CentreBounds()
	d := seg.MaxWidth() / 2 * (1 + math.Max(0, scattering))
	return r.Outset(d)
}

// Steps returns the number of linear pieces needed to approximate the
// segment's centre line with pieces no longer than maxStep (at least 1).
func (seg Segment) Steps(maxStep float64) int {
	if maxStep <= 0 || seg.T1 <= seg.T0 {
		return 1
	}
	var length float64
	prev := seg.Point(seg.T0)
	for k := 1; k <= 4; k++ {
		p := seg.Point(seg.Param(k, 4))
		length += prev.Dist(p)
		prev = p
	}
	n := int(math.Ceil(length / maxStep))
	if n < 1 {
		return 1
	}
	if n > maxSteps {
		return maxSteps
	}
	return n
}

// Param returns the parameter of step k out of n, equally spaced over
// [T0,T1].
func (seg Segment) Param(k, n int) float64 {
	if k >= n {
		return seg.T1
	}
	return seg.T0 + (seg.T1-seg.T0)*float64(k)/float64(n)
}

// Flatten appends Steps(maxStep)+1 centre line points to dst, the first one
// at T0 and the last one at T1.
func (seg Segment) Flatten(maxStep float64, dst []inking.Pair) []inking.Pair {
	n := seg.Steps(maxStep)
	for k := 0; k <= n; k++ {
		dst = append(dst, seg.Point(seg.Param(k, n)))
	}
	return dst
}
