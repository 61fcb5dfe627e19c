package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/inking"
	"github.com/npillmayer/inking/inkconf"
	"github.com/npillmayer/inking/intersect"
	"github.com/npillmayer/inking/pathbuilder"
	"github.com/npillmayer/inking/smooth"
	"github.com/npillmayer/inking/spline"
)

// default time between samples without timestamps, in seconds
const sampleInterval = 0.008

// pipeline feeds samples of a stroke to a path builder, smoothes the parts
// it produces and commits them to the path.
type pipeline struct {
	builder  *pathbuilder.Builder
	smoother *smooth.Smoother // nil for raw control points
	previews int              // preliminary paths created
	longest  int              // size of the longest preliminary path
}

func newPipeline(p *inkconf.Preset, smoothing bool) (*pipeline, error) {
	b, err := p.NewBuilder()
	if err != nil {
		return nil, err
	}
	pl := &pipeline{builder: b}
	if smoothing {
		if pl.smoother, err = p.NewSmoother(); err != nil {
			return nil, err
		}
	}
	return pl, nil
}

// stroke builds a path from samples. Between samples it renders a preview
// of the path's continuation, as an interactive application would.
func (pl *pipeline) stroke(samples []pathbuilder.Sample) (*spline.Path, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: stroke without samples", inking.ErrInvalidArgument)
	}
	if pl.smoother != nil {
		pl.smoother.Reset()
	}
	part, err := pl.builder.BeginPath(samples[0])
	if err != nil {
		return nil, err
	}
	if err = pl.commit(part, false); err != nil {
		return nil, err
	}
	last := len(samples) - 1
	for i := 1; i < last; i++ {
		if part, err = pl.builder.AddPoint(samples[i]); err != nil {
			return nil, err
		}
		if err = pl.commit(part, false); err != nil {
			return nil, err
		}
		if err = pl.preview(); err != nil {
			return nil, err
		}
	}
	if part, err = pl.builder.EndPath(samples[last]); err != nil {
		return nil, err
	}
	if err = pl.commit(part, true); err != nil {
		return nil, err
	}
	return pl.builder.Path(), nil
}

func (pl *pipeline) commit(part []float32, finish bool) error {
	if pl.smoother != nil && len(part) > 0 {
		res, err := pl.smoother.Smooth(part, len(part), finish)
		if err != nil {
			return err
		}
		part = res.Points()
	}
	return pl.builder.AddPathPart(part, len(part))
}

func (pl *pipeline) preview() error {
	part, err := pl.builder.CreatePreliminaryPath()
	if err != nil {
		return err
	}
	if pl.smoother != nil && len(part) > 0 {
		res, err := pl.smoother.Smooth(part, len(part), true)
		if err != nil {
			return err
		}
		part = res.Points()
	}
	prelim, err := pl.builder.FinishPreliminaryPath(part, len(part))
	if err != nil {
		return err
	}
	pl.previews++
	pl.longest = max(pl.longest, len(prelim))
	tracer().Debugf("preliminary path of %d values", len(prelim))
	return nil
}

// --- Input -----------------------------------------------------------------

// readSamples reads CSV records "x,y[,pressure[,timestamp]]". Missing
// pressures are 1, missing timestamps are spaced by sampleInterval. A first
// record which does not start with a number is taken as a header.
func readSamples(r io.Reader) ([]pathbuilder.Sample, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var samples []pathbuilder.Sample
	for line := 0; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("%w: record %d has %d fields", inking.ErrInvalidArgument, line+1, len(rec))
		}
		var v [4]float64
		v[2], v[3] = 1, float64(len(samples))*sampleInterval
		for i := 0; i < len(rec) && i < len(v); i++ {
			if v[i], err = strconv.ParseFloat(strings.TrimSpace(rec[i]), 64); err != nil {
				break
			}
		}
		if err != nil {
			if line == 0 {
				continue
			}
			return nil, fmt.Errorf("%w: record %d: %w", inking.ErrInvalidArgument, line+1, err)
		}
		samples = append(samples, pathbuilder.Sample{
			X:         float32(v[0]),
			Y:         float32(v[1]),
			Pressure:  float32(v[2]),
			Timestamp: v[3],
		})
	}
	tracer().Infof("read %d samples", len(samples))
	return samples, nil
}

// parsePoints parses "x,y x,y …".
func parsePoints(s string) ([]inking.Pair, error) {
	var points []inking.Pair
	for _, f := range strings.Fields(s) {
		xy := strings.Split(f, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("%w: point %q", inking.ErrInvalidArgument, f)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: point %q: %w", inking.ErrInvalidArgument, f, err)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: point %q: %w", inking.ErrInvalidArgument, f, err)
		}
		points = append(points, inking.P(x, y))
	}
	return points, nil
}

func parseLasso(s string) (*intersect.Region, error) {
	points, err := parsePoints(s)
	if err != nil {
		return nil, err
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: lasso needs at least 3 points", inking.ErrInvalidArgument)
	}
	r := intersect.NullRegion()
	for _, p := range points {
		r.Knot(p)
	}
	return r.Cycle(), nil
}

func parseBox(s string) (*intersect.Region, error) {
	points, err := parsePoints(s)
	if err != nil {
		return nil, err
	}
	if len(points) != 2 {
		return nil, fmt.Errorf("%w: box needs 2 corners", inking.ErrInvalidArgument)
	}
	return intersect.Box(points[0], points[1]), nil
}

// --- Placement -------------------------------------------------------------

// placement combines a scaling "s" or "sx,sy", a counter-clockwise rotation
// in degrees and an offset "dx,dy", applied in this order. Empty strings and
// a zero rotation leave the respective step out.
func placement(scale string, degrees float64, offset string) (inking.AT, error) {
	m := inking.Identity()
	if scale != "" {
		var s [2]float64
		parts := strings.Split(scale, ",")
		if len(parts) > 2 {
			return nil, fmt.Errorf("%w: scale %q", inking.ErrInvalidArgument, scale)
		}
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: scale %q: %w", inking.ErrInvalidArgument, scale, err)
			}
			if inking.Is0(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: scale factor %g", inking.ErrInvalidArgument, v)
			}
			s[i] = v
		}
		if len(parts) == 1 {
			s[1] = s[0]
		}
		m = m.Combine(inking.Scaling(s[0], s[1]))
	}
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return nil, fmt.Errorf("%w: rotation %g", inking.ErrInvalidArgument, degrees)
	}
	if degrees != 0 {
		m = m.Combine(inking.Rotation(degrees * inking.Deg2Rad))
	}
	if offset != "" {
		points, err := parsePoints(offset)
		if err != nil {
			return nil, err
		}
		if len(points) != 1 {
			return nil, fmt.Errorf("%w: offset %q", inking.ErrInvalidArgument, offset)
		}
		m = m.Combine(inking.Translation(points[0]))
	}
	return m, nil
}

// place transforms a finished path in place. Widths, per point or constant,
// follow the scale of m.
func place(path *spline.Path, m inking.AT) error {
	if err := m.TransformPoints(path.Points, path.Stride, path.HasWidthChannel()); err != nil {
		return err
	}
	if !path.HasWidthChannel() && !math.IsNaN(float64(path.Width)) {
		path.Width *= float32(m.Scale())
	}
	tracer().Debugf("placed path by %s", m)
	return nil
}

// --- Output ----------------------------------------------------------------

func report(w io.Writer, p *inkconf.Preset, pl *pipeline, path *spline.Path, target *intersect.Region) {
	fmt.Fprintf(w, "%v\n", p)
	fmt.Fprintf(w, "path: %d control points, stride %d, %d segments\n", path.N(), path.Stride, path.Segments())
	fmt.Fprintf(w, "bounds: %v\n", path.Bounds(0))
	fmt.Fprintf(w, "previews: %d, longest %d values\n", pl.previews, pl.longest)
	if target == nil {
		return
	}
	x := intersect.New()
	x.SetTargetAsRegion(target)
	fmt.Fprintf(w, "target: %s\n", intersect.AsString(target))
	res := x.IntersectWithTarget(path)
	if err := res.Err(); err != nil {
		fmt.Fprintf(w, "  no intervals: %v\n", err)
		return
	}
	for iv := range res.All() {
		fmt.Fprintf(w, "  %v\n", iv)
	}
}
