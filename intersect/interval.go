package intersect

import (
	"fmt"
	"iter"

	"github.com/npillmayer/inking/spline"
)

// Interval is a run of a candidate path which lies either completely inside
// or completely outside the target. It starts on the segment of control
// points FromIndex…FromIndex+3 at parameter FromValue and ends on the segment
// of control points ToIndex-3…ToIndex at parameter ToValue.
type Interval struct {
	FromIndex, ToIndex int
	FromValue, ToValue float32
	Inside             bool
}

// Offsets returns the positions of the interval's first and last control
// point in a float buffer with the given stride.
func (iv Interval) Offsets(stride int) (from, to int) {
	return iv.FromIndex * stride, iv.ToIndex * stride
}

// SubPath copies the interval's part of the candidate path c into a path of
// its own.
func (iv Interval) SubPath(c *spline.Path) (*spline.Path, error) {
	return c.Sub(iv.FromIndex, iv.ToIndex, iv.FromValue, iv.ToValue)
}

func (iv Interval) String() string {
	where := "outside"
	if iv.Inside {
		where = "inside"
	}
	return fmt.Sprintf("[%d:%.4g … %d:%.4g %s]", iv.FromIndex, iv.FromValue, iv.ToIndex, iv.ToValue, where)
}

// IntersectionResult is the ordered list of intervals of a candidate path.
// An Intersector owns a single result and overwrites it with every call to
// IntersectWithTarget; clients have to consume it before the next call.
type IntersectionResult struct {
	intervals []Interval
	err       error
}

// Err returns the reason why the candidate path could not be intersected,
// or nil. A result with an error has no intervals.
func (res *IntersectionResult) Err() error {
	return res.err
}

// Count returns the number of intervals.
func (res *IntersectionResult) Count() int {
	return len(res.intervals)
}

// Interval returns interval i.
func (res *IntersectionResult) Interval(i int) Interval {
	return res.intervals[i]
}

// Intervals returns all intervals. The slice is owned by the result.
func (res *IntersectionResult) Intervals() []Interval {
	return res.intervals
}

// All iterates over the intervals in order.
func (res *IntersectionResult) All() iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		for _, iv := range res.intervals {
			if !yield(iv) {
				return
			}
		}
	}
}

func (res *IntersectionResult) reset() {
	res.intervals = res.intervals[:0]
	res.err = nil
}
