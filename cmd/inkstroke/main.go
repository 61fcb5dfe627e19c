/*
Command inkstroke runs recorded pointer samples through the ink pipeline.

Samples are read as CSV records "x,y[,pressure[,timestamp]]", one per line,
from a file or from stdin. Lines starting with '#' are ignored, as is a
header line. The samples form a single stroke, which is turned into control
points by a path builder and smoothed, both configured by a brush preset.

The finished stroke may be placed by scaling, rotating and translating it,
in this order. Optionally the placed stroke is intersected with a lasso
polygon or a box, and the intervals of the stroke inside and outside of it
are listed.

Usage:

	inkstroke [-preset pen.toml] [-in stroke.csv] [-scale s[,s]] [-rotate deg] [-translate "dx,dy"]
	          [-lasso "x,y x,y x,y …" | -box "x,y x,y"]

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/npillmayer/inking/inkconf"
	"github.com/npillmayer/inking/intersect"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// tracer writes to trace with key 'inking.cmd'
func tracer() tracing.Trace {
	return tracing.Select("inking.cmd")
}

// traceKeys are the keys the packages of the pipeline trace to.
var traceKeys = []string{
	"inking",
	"inking.spline",
	"inking.path",
	"inking.smooth",
	"inking.intersect",
	"inking.conf",
	"inking.cmd",
}

// setTraceLevel sets the level of every tracer of the pipeline.
func setTraceLevel(level string) {
	l := tracing.TraceLevelFromString(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}

func main() {
	var (
		input  = flag.String("in", "", "CSV file of samples x,y[,pressure[,timestamp]], default stdin")
		preset = flag.String("preset", "", "brush preset file (.toml, .yaml)")
		lasso  = flag.String("lasso", "", "closed polygon \"x,y x,y x,y …\" to intersect the stroke with")
		box    = flag.String("box", "", "rectangle \"x,y x,y\" to intersect the stroke with")
		raw    = flag.Bool("raw", false, "do not smooth control points")
		scale  = flag.String("scale", "", "scale factor \"s\" or \"sx,sy\" of the stroke")
		rotate = flag.Float64("rotate", 0, "rotation of the stroke in degrees, counter-clockwise")
		offset = flag.String("translate", "", "offset \"dx,dy\" of the stroke")
		level  = flag.String("trace", "Error", "trace level: Debug, Info or Error")
	)
	flag.Parse()

	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	setTraceLevel(*level)

	p := inkconf.Default()
	if *preset != "" {
		var err error
		if p, err = inkconf.LoadFile(*preset); err != nil {
			log.Fatalf("Cannot load preset: %v", err)
		}
	}

	var in io.Reader = os.Stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatalf("Cannot open samples: %v", err)
		}
		defer f.Close()
		in = f
	}
	samples, err := readSamples(in)
	if err != nil {
		log.Fatalf("Cannot read samples: %v", err)
	}

	var target *intersect.Region
	switch {
	case *lasso != "" && *box != "":
		log.Fatalf("Use either -lasso or -box")
	case *lasso != "":
		if target, err = parseLasso(*lasso); err != nil {
			log.Fatalf("Invalid lasso: %v", err)
		}
	case *box != "":
		if target, err = parseBox(*box); err != nil {
			log.Fatalf("Invalid box: %v", err)
		}
	}

	m, err := placement(*scale, *rotate, *offset)
	if err != nil {
		log.Fatalf("Invalid placement: %v", err)
	}

	pl, err := newPipeline(p, !*raw)
	if err != nil {
		log.Fatalf("Cannot set up pipeline: %v", err)
	}
	path, err := pl.stroke(samples)
	if err != nil {
		log.Fatalf("Stroke failed: %v", err)
	}
	if err = place(path, m); err != nil {
		log.Fatalf("Cannot place stroke: %v", err)
	}
	report(os.Stdout, p, pl, path, target)
}
