/*
Package intersect classifies a candidate path as inside or outside a target.

An Intersector holds one target at a time: either a stroke, i.e. a path with
a width, or a closed path, which encloses a region. A candidate path is cut
into intervals, each of which lies completely inside or completely outside
the target. Erasers and selection tools use the intervals to split or
select strokes.

An interval is given by positions on the candidate's Catmull-Rom segments.
FromIndex is the first control point of the start segment and FromValue the
spline parameter within that segment; ToIndex is the last control point of
the end segment and ToValue its parameter. Thus every interval spans at
least four control points and may be rendered as a path of its own (see
Interval.SubPath). Intervals are ordered and seamless: each one starts where
its predecessor ends, the first one starts at the candidate's start
parameter and the last one ends at its end parameter.

A stroke target contains a position of the candidate if their rendered
extents touch, i.e. if the distance between the centre lines is at most the
sum of both half widths. A closed path target contains a position if the
candidate's centre line lies inside the flattened outline (even-odd rule).

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package intersect

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'inking.intersect'
func tracer() tracing.Trace {
	return tracing.Select("inking.intersect")
}
