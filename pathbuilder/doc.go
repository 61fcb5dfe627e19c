/*
Package pathbuilder creates Catmull-Rom control points from raw pointer input.

A Builder consumes one stroke at a time: BeginPath for the first sample,
AddPoint for every move and EndPath for the last sample. Each of these calls
returns a path part, i.e. the control points which became available with the
sample. Clients may post-process a part (usually with package smooth) and
then commit it with AddPathPart. Only committed parts make up the path.

Every accepted sample results in exactly one control point. A control point
is emitted as soon as its successor sample is known, as the property values
(width, alpha) of speed driven input depend on both neighbours. BeginPath
therefore returns an empty part, and EndPath flushes the remaining points.

Control points carry x, y and one value per enabled property:

    x, y [, width] [, alpha]

Property values are derived from the input by a Normalizer, which maps a
sample to [0,1], and then by a PropertyConfig, which maps [0,1] through a
function family onto the property's value range.

Preliminary paths

To hide the latency of holding back the newest point, a builder offers a
two-step preview. CreatePreliminaryPath returns the held-back control point
followed by points predicted from the current trajectory. After smoothing,
FinishPreliminaryPath prepends the last committed control points, giving a
renderable path which connects to the permanent path. Preliminary paths are
never merged into the permanent path.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package pathbuilder

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'inking.path'
func tracer() tracing.Trace {
	return tracing.Select("inking.path")
}
