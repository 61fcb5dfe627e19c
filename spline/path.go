package spline

import (
	"fmt"
	"math"
	"strings"

	"github.com/chewxy/math32"
	"github.com/npillmayer/inking"
)

// Path is a buffer of Catmull-Rom control points together with the metadata
// needed to interpret it.
type Path struct {
	Points   []float32 // control points, Stride values each
	Stride   int       // values per control point
	Width    float32   // constant width; NaN if channel 2 carries widths
	Ts, Tf   float32   // start parameter of first segment, end parameter of last
	Finished bool      // no more points will be appended
}

// NaN is a shortcut for a float32 NaN, used for "per-point width".
func NaN() float32 {
	return math32.NaN()
}

// Nullpath creates an empty path with parameter range [0,1], to be extended
// by calls to Knot.
func Nullpath(stride int, width float32) *Path {
	if stride < 2 {
		panic("stride of a path must be at least 2")
	}
	return &Path{Stride: stride, Width: width, Ts: 0, Tf: 1}
}

// Knot appends a control point. Callers must supply exactly Stride-2 property
// values. Part of builder functionality.
func (path *Path) Knot(x, y float32, props ...float32) *Path {
	if len(props) != path.Stride-2 {
		panic(fmt.Sprintf("knot needs %d property values, got %d", path.Stride-2, len(props)))
	}
	path.Points = append(path.Points, x, y)
	path.Points = append(path.Points, props...)
	return path
}

// PointsCount calculates the number of control points in a buffer of size
// floats.
func PointsCount(size, stride int) int {
	if stride <= 0 {
		return 0
	}
	return size / stride
}

// SegmentsCount calculates the number of Catmull-Rom segments in a buffer of
// size floats. It is never negative.
func SegmentsCount(size, stride int) int {
	n := PointsCount(size, stride) - 3
	if n < 0 {
		return 0
	}
	return n
}

// Validate checks the shape of a path. Ts and Tf have to be in [0,1]; for a
// path of a single segment Ts must not exceed Tf.
func (path *Path) Validate() error {
	if path == nil {
		return fmt.Errorf("%w: path must not be nil", inking.ErrInvalidArgument)
	}
	if path.Stride < 2 {
		return fmt.Errorf("%w: stride %d < 2", inking.ErrInvalidArgument, path.Stride)
	}
	if len(path.Points)%path.Stride != 0 {
		return fmt.Errorf("%w: size %d is not a multiple of stride %d", inking.ErrInvalidArgument,
			len(path.Points), path.Stride)
	}
	if path.Ts < 0 || path.Ts > 1 || path.Tf < 0 || path.Tf > 1 ||
		(path.Segments() <= 1 && path.Ts > path.Tf) {
		return fmt.Errorf("%w: spline parameters [%g,%g] outside [0,1]", inking.ErrInvalidArgument,
			path.Ts, path.Tf)
	}
	return nil
}

// N returns the number of control points.
func (path *Path) N() int {
	return PointsCount(len(path.Points), path.Stride)
}

// Segments returns the number of Catmull-Rom segments.
func (path *Path) Segments() int {
	return SegmentsCount(len(path.Points), path.Stride)
}

// HasWidthChannel is a predicate: does channel 2 hold per-point widths?
func (path *Path) HasWidthChannel() bool {
	return math32.IsNaN(path.Width) && path.Stride >= 3
}

// Z returns control point i as a pair.
func (path *Path) Z(i int) inking.Pair {
	k := i * path.Stride
	return inking.P32(path.Points[k], path.Points[k+1])
}

// W returns the width at control point i. Paths without width information
// have width 0.
func (path *Path) W(i int) float64 {
	if path.HasWidthChannel() {
		return float64(path.Points[i*path.Stride+2])
	}
	if math32.IsNaN(path.Width) {
		return 0
	}
	return float64(path.Width)
}

// Value returns channel ch of control point i.
func (path *Path) Value(i, ch int) float32 {
	return path.Points[i*path.Stride+ch]
}

// Clone returns a deep copy of path.
func (path *Path) Clone() *Path {
	c := *path
	c.Points = append([]float32(nil), path.Points...)
	return &c
}

// Sub returns the sub-path of control points from..to (inclusive), with
// parameter range [ts,tf]. The points are copied.
func (path *Path) Sub(from, to int, ts, tf float32) (*Path, error) {
	if from < 0 || to >= path.N() || to-from < 3 {
		tracer().Errorf("cannot cut sub-path %d..%d", from, to)
		return nil, fmt.Errorf("%w: sub-path %d..%d of path with %d points", inking.ErrInvalidArgument,
			from, to, path.N())
	}
	sub := &Path{
		Points:   append([]float32(nil), path.Points[from*path.Stride:(to+1)*path.Stride]...),
		Stride:   path.Stride,
		Width:    path.Width,
		Ts:       ts,
		Tf:       tf,
		Finished: true,
	}
	return sub, nil
}

// Bounds returns the union of all segment bounds, see SegmentBounds.
func (path *Path) Bounds(scattering float64) inking.Rect {
	r := inking.EmptyRect()
	for i := 0; i < path.Segments(); i++ {
		r = r.Union(path.Segment(i).Bounds(scattering))
	}
	return r
}

// AsString returns a path as a (debugging) string, listing its control
// points and the spline parameter range:
//
//	[0,1] (0,0;2) .. (10,0;2) .. (20,0;4) .. (30,0;4)
func AsString(path *Path) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%g,%g]", path.Ts, path.Tf)
	for i := 0; i < path.N(); i++ {
		if i > 0 {
			sb.WriteString(" ..")
		}
		k := i * path.Stride
		fmt.Fprintf(&sb, " (%.4g,%.4g", round(float64(path.Points[k])), round(float64(path.Points[k+1])))
		for ch := 2; ch < path.Stride; ch++ {
			fmt.Fprintf(&sb, ";%.4g", round(float64(path.Points[k+ch])))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func round(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Round(x*10000.0) / 10000.0
}
