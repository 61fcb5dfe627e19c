// Package spline deals with Catmull-Rom control point buffers, the path
// representation produced by the path builder and consumed by rasterizers
// and the intersector.
/*

A path is a flat buffer of float32 values. Every control point occupies
stride consecutive values:

   x, y [, width] [, alpha]

Channel 2 is a width channel if and only if the path's constant width is NaN.
Four consecutive control points define one segment of a uniform Catmull-Rom
spline; the curve of segment i runs from control point i+1 to control
point i+2, so a path of n points has n-3 segments. The first segment starts
at parameter Ts and the last segment ends at parameter Tf, which allows
sub-paths to begin and end in the middle of a segment.

Usage

Paths are usually produced by package pathbuilder. For tests and tools a
path may be built by hand:

   path := Nullpath(3, NaN()).Knot(0, 0, 2).Knot(10, 0, 2).Knot(20, 0, 4).Knot(30, 0, 4)

which yields a path of one segment, running from (10,0) to (20,0) with a
width growing from 2 to 4.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spline

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'inking.spline'
func tracer() tracing.Trace {
	return tracing.Select("inking.spline")
}
