package pathbuilder

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/npillmayer/inking"
	"github.com/npillmayer/inking/spline"
)

// DefaultPathWidth is the constant width of paths without a width property.
const DefaultPathWidth = 1

// count of committed control points prepended to a finished preliminary path
const prelimOverlap = 3

// Builder creates the control points of a path from input samples. Input
// samples are normalized by a Normalizer, which is fixed at construction
// time.
//
// The slices returned by BeginPath, AddPoint, EndPath, CreatePreliminaryPath
// and FinishPreliminaryPath are owned by the builder. They are valid until the
// next call of the same method (or of any of the first three, which share a
// buffer). Clients must not retain them.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	norm       Normalizer
	props      [2]PropertyConfig
	enabled    [2]bool
	pathWidth  float32
	threshold  float32
	samples    []Sample  // accepted samples of the current stroke
	emitted    int       // count of samples already emitted as control points
	part       []float32 // last path part
	path       []float32 // committed control points
	added      int       // size of the last committed part
	prelim     []float32 // last preliminary path part
	prelimPath []float32 // last finished preliminary path
	started    bool
	finished   bool
}

// New creates a builder driven by the given normalizer. The width property
// is enabled with DefaultWidthConfig, the alpha property is disabled.
func New(norm Normalizer) *Builder {
	if norm == nil {
		panic("path builder needs a normalizer")
	}
	b := &Builder{
		norm:      norm,
		pathWidth: DefaultPathWidth,
	}
	b.props[Width] = DefaultWidthConfig()
	b.enabled[Width] = true
	b.props[Alpha] = DefaultAlphaConfig()
	return b
}

// NewPressureBuilder creates a builder for pressure driven input.
func NewPressureBuilder() *Builder {
	return New(NewPressureNormalizer())
}

// NewSpeedBuilder creates a builder for velocity driven input. density is
// the display density, used to scale the velocity range.
func NewSpeedBuilder(density float32) *Builder {
	return New(NewSpeedNormalizer(density))
}

// Normalizer returns the builder's input normalizer.
func (b *Builder) Normalizer() Normalizer {
	return b.norm
}

// --- Configuration ---------------------------------------------------------

func (b *Builder) inStroke() bool {
	return b.started && !b.finished
}

func (b *Builder) checkConfigurable(what string) error {
	if b.inStroke() {
		tracer().Errorf("cannot change %s while building a path", what)
		return fmt.Errorf("%w: %s changed during unfinished path", inking.ErrInvalidState, what)
	}
	return nil
}

// SetMovementThreshold sets the minimum distance in pixels between two
// accepted samples. Samples closer to the last accepted sample are
// discarded. NaN or negative values switch filtering off.
func (b *Builder) SetMovementThreshold(minMovement float32) {
	if math32.IsNaN(minMovement) || minMovement < 0 {
		minMovement = 0
	}
	b.threshold = minMovement
}

// MovementThreshold returns the minimum distance between accepted samples.
func (b *Builder) MovementThreshold() float32 {
	return b.threshold
}

// SetNormalizationConfig sets the range of raw input values which is mapped
// onto [0,1]. For speed driven builders the range is given in pixels per
// second and scaled by the display density.
func (b *Builder) SetNormalizationConfig(min, max float32) error {
	r := NormalizationConfig{Min: min, Max: max}
	if err := r.Validate(); err != nil {
		return err
	}
	if err := b.checkConfigurable("normalization"); err != nil {
		return err
	}
	b.norm.SetRange(r)
	return nil
}

// SetPropertyConfig configures and enables a property.
func (b *Builder) SetPropertyConfig(name PropertyName, conf PropertyConfig) error {
	if name != Width && name != Alpha {
		return fmt.Errorf("%w: %v", inking.ErrInvalidArgument, name)
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	if err := b.checkConfigurable("property " + name.String()); err != nil {
		return err
	}
	b.props[name] = conf
	b.enabled[name] = true
	return nil
}

// DisablePropertyConfig removes a property from the control points.
func (b *Builder) DisablePropertyConfig(name PropertyName) error {
	if name != Width && name != Alpha {
		return fmt.Errorf("%w: %v", inking.ErrInvalidArgument, name)
	}
	if err := b.checkConfigurable("property " + name.String()); err != nil {
		return err
	}
	b.enabled[name] = false
	return nil
}

// PropertyConfig returns the configuration of a property and whether it is
// enabled.
func (b *Builder) PropertyConfig(name PropertyName) (PropertyConfig, bool) {
	if name != Width && name != Alpha {
		return PropertyConfig{}, false
	}
	return b.props[name], b.enabled[name]
}

// SetPathWidth sets the constant width of paths built without a width
// property.
func (b *Builder) SetPathWidth(width float32) error {
	if !finite(width) || width < 0 {
		return fmt.Errorf("%w: path width %g", inking.ErrInvalidArgument, width)
	}
	if err := b.checkConfigurable("path width"); err != nil {
		return err
	}
	b.pathWidth = width
	return nil
}

// Stride returns the number of values per control point: x and y plus one
// value per enabled property.
func (b *Builder) Stride() int {
	stride := 2
	for _, on := range b.enabled {
		if on {
			stride++
		}
	}
	return stride
}

// --- Building --------------------------------------------------------------

// BeginPath starts a new path with its first sample. Any previous path is
// discarded. The returned part is empty, as the first control point waits
// for its successor.
func (b *Builder) BeginPath(s Sample) ([]float32, error) {
	if !finite(s.X) || !finite(s.Y) {
		return nil, fmt.Errorf("%w: sample position (%g,%g)", inking.ErrInvalidArgument, s.X, s.Y)
	}
	b.samples = append(b.samples[:0], s)
	b.emitted = 0
	b.path = b.path[:0]
	b.added = 0
	b.prelim = b.prelim[:0]
	b.prelimPath = b.prelimPath[:0]
	b.part = b.part[:0]
	b.started, b.finished = true, false
	tracer().Infof("begin path at (%g,%g), stride %d", s.X, s.Y, b.Stride())
	return b.part, nil
}

// AddPoint continues the path with a sample. It returns the control points
// which became available, possibly none.
func (b *Builder) AddPoint(s Sample) ([]float32, error) {
	if !b.inStroke() {
		tracer().Errorf("add point to path which is not being built")
		return nil, fmt.Errorf("%w: AddPoint without BeginPath", inking.ErrInvalidState)
	}
	if !finite(s.X) || !finite(s.Y) {
		return nil, fmt.Errorf("%w: sample position (%g,%g)", inking.ErrInvalidArgument, s.X, s.Y)
	}
	b.part = b.part[:0]
	if !b.accept(s) {
		tracer().Debugf("sample (%g,%g) below movement threshold", s.X, s.Y)
		return b.part, nil
	}
	b.samples = append(b.samples, s)
	b.part = b.emit(b.part, len(b.samples)-1)
	return b.part, nil
}

// EndPath finishes the path with its last sample and returns all remaining
// control points. A last sample below the movement threshold does not
// produce a control point of its own.
func (b *Builder) EndPath(s Sample) ([]float32, error) {
	if !b.inStroke() {
		tracer().Errorf("end path which is not being built")
		return nil, fmt.Errorf("%w: EndPath without BeginPath", inking.ErrInvalidState)
	}
	if !finite(s.X) || !finite(s.Y) {
		return nil, fmt.Errorf("%w: sample position (%g,%g)", inking.ErrInvalidArgument, s.X, s.Y)
	}
	if b.accept(s) {
		b.samples = append(b.samples, s)
	}
	b.finished = true
	b.part = b.emit(b.part[:0], len(b.samples))
	tracer().Infof("end path after %d samples", len(b.samples))
	return b.part, nil
}

func (b *Builder) accept(s Sample) bool {
	if b.threshold == 0 {
		return true
	}
	last := b.samples[len(b.samples)-1]
	return last.P().Dist(s.P()) >= float64(b.threshold)
}

// emit appends control points for all samples before index upto which have
// not been emitted yet.
func (b *Builder) emit(dst []float32, upto int) []float32 {
	for ; b.emitted < upto; b.emitted++ {
		last := b.finished && b.emitted == len(b.samples)-1
		dst = b.knot(dst, b.samples, b.emitted, b.emitted == 0, last)
	}
	return dst
}

// knot appends the control point for samples[i]. first and last flag the
// ends of the stroke.
func (b *Builder) knot(dst []float32, samples []Sample, i int, first, last bool) []float32 {
	s := samples[i]
	dst = append(dst, s.X, s.Y)
	var u float32
	if b.enabled[Width] || b.enabled[Alpha] {
		u = b.norm.Normalize(samples, i)
	}
	for name, on := range b.enabled {
		if !on {
			continue
		}
		conf := b.props[name]
		v := conf.Value(u)
		if first && !math32.IsNaN(conf.Initial) {
			v = conf.Initial
		}
		if last && !math32.IsNaN(conf.Final) {
			v = conf.Final
		}
		dst = append(dst, v)
	}
	return dst
}

// AddPathPart commits control points to the path. part is usually a part
// returned by BeginPath, AddPoint or EndPath, after post-processing (e.g.
// smoothing). Its size may differ from the generated part, but has to be a
// multiple of the stride.
func (b *Builder) AddPathPart(part []float32, size int) error {
	if !b.started {
		return fmt.Errorf("%w: AddPathPart without BeginPath", inking.ErrInvalidState)
	}
	if size < 0 || size > len(part) || size%b.Stride() != 0 {
		return fmt.Errorf("%w: part size %d (buffer %d) for stride %d", inking.ErrInvalidArgument,
			size, len(part), b.Stride())
	}
	b.path = append(b.path, part[:size]...)
	b.added = size
	return nil
}

// --- Preliminary path ------------------------------------------------------

// count of points extrapolated by CreatePreliminaryPath
const predictedKnots = 2

// CreatePreliminaryPath returns a preview of the path's continuation: the
// control point held back for its successor, followed by points predicted
// from the latest movement. After EndPath the preview is empty.
func (b *Builder) CreatePreliminaryPath() ([]float32, error) {
	if !b.started {
		return nil, fmt.Errorf("%w: preliminary path without BeginPath", inking.ErrInvalidState)
	}
	b.prelim = b.prelim[:0]
	if b.finished || len(b.samples) == 0 {
		return b.prelim, nil
	}
	// the normalizer looks at direct neighbours only
	base := b.emitted - 1
	if base < 0 {
		base = 0
	}
	ext := append(make([]Sample, 0, len(b.samples)-base+predictedKnots), b.samples[base:]...)
	if n := len(b.samples); n >= 2 {
		p, q := b.samples[n-2], b.samples[n-1]
		dx, dy := q.X-p.X, q.Y-p.Y
		dt := q.Timestamp - p.Timestamp
		for _, f := range [predictedKnots]float32{1, 1.5} {
			ext = append(ext, Sample{
				X:         q.X + f*dx,
				Y:         q.Y + f*dy,
				Pressure:  q.Pressure,
				Timestamp: q.Timestamp + float64(f)*dt,
			})
		}
	}
	for i := b.emitted - base; i < len(ext); i++ {
		b.prelim = b.knot(b.prelim, ext, i, base+i == 0, false)
	}
	return b.prelim, nil
}

// FinishPreliminaryPath completes a preliminary path part (usually the result
// of CreatePreliminaryPath, after smoothing) to a renderable path, by
// prepending the last committed control points.
func (b *Builder) FinishPreliminaryPath(part []float32, size int) ([]float32, error) {
	if !b.started {
		return nil, fmt.Errorf("%w: preliminary path without BeginPath", inking.ErrInvalidState)
	}
	stride := b.Stride()
	if size < 0 || size > len(part) || size%stride != 0 {
		return nil, fmt.Errorf("%w: preliminary part size %d (buffer %d) for stride %d",
			inking.ErrInvalidArgument, size, len(part), stride)
	}
	b.prelimPath = b.prelimPath[:0]
	if b.finished {
		return b.prelimPath, nil
	}
	start := len(b.path) - prelimOverlap*stride
	if start < 0 {
		start = 0
	}
	b.prelimPath = append(b.prelimPath, b.path[start:]...)
	b.prelimPath = append(b.prelimPath, part[:size]...)
	return b.prelimPath, nil
}

// --- Queries ---------------------------------------------------------------

// PathSize returns the number of values in the committed path.
func (b *Builder) PathSize() int {
	return len(b.path)
}

// PathPartSize returns the size of the last part returned by BeginPath,
// AddPoint or EndPath.
func (b *Builder) PathPartSize() int {
	return len(b.part)
}

// AddedPointsSize returns the size of the part most recently committed by
// AddPathPart.
func (b *Builder) AddedPointsSize() int {
	return b.added
}

// PathLastUpdatePosition returns the offset of the values added by the most
// recent call to AddPathPart.
func (b *Builder) PathLastUpdatePosition() int {
	return b.PathSize() - b.AddedPointsSize()
}

// PointsCount returns the number of committed control points.
func (b *Builder) PointsCount() int {
	return spline.PointsCount(len(b.path), b.Stride())
}

// PreliminaryPathSize returns the size of the last preliminary path part.
func (b *Builder) PreliminaryPathSize() int {
	return len(b.prelim)
}

// FinishedPreliminaryPathSize returns the size of the last finished
// preliminary path.
func (b *Builder) FinishedPreliminaryPathSize() int {
	return len(b.prelimPath)
}

// HasFinished is a predicate: has the current path been ended?
func (b *Builder) HasFinished() bool {
	return b.finished
}

// Path returns the committed control points as a path. The path shares its
// points with the builder: it is valid until the next call to BeginPath or
// AddPathPart.
func (b *Builder) Path() *spline.Path {
	return b.asPath(b.path)
}

// PreliminaryPath returns the last finished preliminary path as a path,
// sharing its points with the builder.
func (b *Builder) PreliminaryPath() *spline.Path {
	return b.asPath(b.prelimPath)
}

func (b *Builder) asPath(points []float32) *spline.Path {
	width := b.pathWidth
	if b.enabled[Width] {
		width = spline.NaN()
	}
	path := spline.Nullpath(b.Stride(), width)
	path.Points = points
	path.Finished = b.finished
	return path
}
