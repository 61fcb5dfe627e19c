/*
Package inkconf holds brush presets for the ink pipeline.

A Preset bundles everything needed to set up a path builder and a smoother
for one kind of brush: the input kind (pressure or speed), the normalization
range, the movement threshold, the property configurations for width and
alpha, and smoothing coefficients per channel.

Presets are read from TOML or YAML files, or from an application
configuration which implements schuko.Configuration. Keys of an application
configuration live under "inking.":

	inking.input               pressure | speed
	inking.density             display density for speed input
	inking.normalization.min   lower bound of raw input
	inking.normalization.max   upper bound of raw input
	inking.movement            movement threshold
	inking.pathwidth           width of paths without width property
	inking.width.function      power | periodic | sigmoid | none
	inking.width.min, .max, .initial, .final, .parameter, .flip
	inking.alpha.…             as for width; setting the function enables alpha
	inking.smoothing.alpha, .beta, .final, .window, .iterations

Unknown keys of TOML and YAML files are rejected.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package inkconf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'inking.conf'
func tracer() tracing.Trace {
	return tracing.Select("inking.conf")
}
