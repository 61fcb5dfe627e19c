package pathbuilder

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/npillmayer/inking"
)

// Sample is one raw input event of a pointer device.
type Sample struct {
	X, Y      float32
	Pressure  float32 // used by pressure driven builders
	Timestamp float64 // seconds, used by speed driven builders
}

// P returns the position of a sample.
func (s Sample) P() inking.Pair {
	return inking.P32(s.X, s.Y)
}

// NormalizationConfig is the range of raw input values mapped onto [0,1].
// Values outside the range are clamped.
type NormalizationConfig struct {
	Min, Max float32
}

// Validate checks that the range is finite and not empty.
func (nc NormalizationConfig) Validate() error {
	if !finite(nc.Min) || !finite(nc.Max) || nc.Min >= nc.Max {
		return fmt.Errorf("%w: normalization range [%g,%g]", inking.ErrInvalidArgument, nc.Min, nc.Max)
	}
	return nil
}

func (nc NormalizationConfig) normalize(v float32) float32 {
	u := (v - nc.Min) / (nc.Max - nc.Min)
	return math32.Max(0, math32.Min(1, u))
}

// Normalizer maps input samples to [0,1]. Normalize is called for the sample
// at index i of all samples accepted so far for the current stroke. The
// successor of sample i may not be known yet.
type Normalizer interface {
	Normalize(knots []Sample, i int) float32
	SetRange(r NormalizationConfig)
	Range() NormalizationConfig
}

// --- Pressure --------------------------------------------------------------

// PressureNormalizer normalizes the pressure of a sample.
type PressureNormalizer struct {
	r NormalizationConfig
}

var _ Normalizer = &PressureNormalizer{}

// NewPressureNormalizer creates a normalizer for pressures in [0,1].
func NewPressureNormalizer() *PressureNormalizer {
	return &PressureNormalizer{r: NormalizationConfig{Min: 0, Max: 1}}
}

// Normalize is part of interface Normalizer.
func (pn *PressureNormalizer) Normalize(knots []Sample, i int) float32 {
	p := knots[i].Pressure
	if math32.IsNaN(p) {
		return 0
	}
	return pn.r.normalize(p)
}

// SetRange is part of interface Normalizer.
func (pn *PressureNormalizer) SetRange(r NormalizationConfig) {
	pn.r = r
}

// Range is part of interface Normalizer.
func (pn *PressureNormalizer) Range() NormalizationConfig {
	return pn.r
}

// --- Speed -----------------------------------------------------------------

// Default velocity range in pixels per second, before scaling by density.
const (
	DefaultMinSpeed = 100
	DefaultMaxSpeed = 4000
)

// SpeedNormalizer normalizes the velocity of the pointer at a sample. The
// velocity is estimated from the sample's neighbours, if available.
// The velocity range is given in density independent pixels per second and
// scaled by the display density.
type SpeedNormalizer struct {
	r       NormalizationConfig
	density float32
}

var _ Normalizer = &SpeedNormalizer{}

// NewSpeedNormalizer creates a normalizer for velocities with the default
// range. A density ≤ 0 is treated as 1.
func NewSpeedNormalizer(density float32) *SpeedNormalizer {
	if !(density > 0) {
		density = 1
	}
	return &SpeedNormalizer{
		r:       NormalizationConfig{Min: DefaultMinSpeed, Max: DefaultMaxSpeed},
		density: density,
	}
}

// Density returns the display density factor.
func (sn *SpeedNormalizer) Density() float32 {
	return sn.density
}

// Normalize is part of interface Normalizer.
func (sn *SpeedNormalizer) Normalize(knots []Sample, i int) float32 {
	v := Speed(knots, i)
	r := NormalizationConfig{Min: sn.r.Min * sn.density, Max: sn.r.Max * sn.density}
	return r.normalize(v)
}

// SetRange is part of interface Normalizer.
func (sn *SpeedNormalizer) SetRange(r NormalizationConfig) {
	sn.r = r
}

// Range is part of interface Normalizer.
func (sn *SpeedNormalizer) Range() NormalizationConfig {
	return sn.r
}

// Speed estimates the velocity at sample i in pixels per second. It uses the
// central difference of the neighbours of i, or a one-sided difference at the
// ends of knots. Samples without time progress have speed 0.
func Speed(knots []Sample, i int) float32 {
	if len(knots) < 2 {
		return 0
	}
	a, b := i-1, i+1
	if a < 0 {
		a = 0
	}
	if b >= len(knots) {
		b = len(knots) - 1
	}
	dt := knots[b].Timestamp - knots[a].Timestamp
	if !(dt > 0) {
		return 0
	}
	d := knots[a].P().Dist(knots[b].P())
	return float32(d / dt)
}

func finite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}
