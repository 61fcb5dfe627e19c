// Package smooth reduces noise in multi-channel data sequences, e.g. the
// control points of a path part, by double exponential smoothing.
/*
Every channel is smoothed independently with Holt's linear model: a level
follows the data with coefficient alpha, a trend follows the change of the
level with coefficient beta. The result depends only on the last few values
of the sequence. The default configuration works well for touch input at
about 60 events per second.

A call to Smooth with finish=true does not advance the persisted state.
Instead it extrapolates a tail which converges to the last input values, so
a stroke can be closed (or previewed) without a visible lag at its end.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package smooth

import (
	"fmt"
	"math"

	"github.com/npillmayer/inking"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'inking.smooth'
func tracer() tracing.Trace {
	return tracing.Select("inking.smooth")
}

// Default channel properties.
const (
	DefaultAlpha     = 0.55
	DefaultBeta      = 0.35
	DefaultFinalBeta = 0.8
)

const (
	maxFinishSteps  = 32   // upper limit for the extrapolated tail
	finishTolerance = 0.01 // tail stops when every channel is this close
)

// Smoother smoothes a fixed number of independent channels. Input buffers
// are interleaved: value k belongs to channel k mod ChannelCount().
//
// A Smoother is not safe for concurrent use.
type Smoother struct {
	channels     []channel
	result       Result // returned by Smooth(…, false)
	finishResult Result // returned by Smooth(…, true)
}

// Result holds smoothed values. Each Smoother owns one Result per mode and
// reuses it: the values are valid until the next call to Smooth with the
// same finish flag.
type Result struct {
	points []float32
}

// Points returns the smoothed values.
func (r *Result) Points() []float32 {
	return r.points
}

// Size returns the number of smoothed values.
func (r *Result) Size() int {
	return len(r.points)
}

type channel struct {
	alpha, beta, finalBeta float64
	confAlpha, confBeta    float64 // as configured, before tuning
	window, iterations     int
	enabled                bool
	st                     state
	history                []float64 // trailing raw inputs, for tuning
	fed                    int       // inputs since last reset
}

// Holt model level/trend.
type state struct {
	level, trend float64
	initialized  bool
}

func (st *state) step(x, alpha, beta float64) float64 {
	if !st.initialized {
		st.level, st.trend, st.initialized = x, 0, true
		return x
	}
	prev := st.level
	st.level = alpha*x + (1-alpha)*(st.level+st.trend)
	st.trend = beta*(st.level-prev) + (1-beta)*st.trend
	return st.level
}

// settle moves the level towards a fixed target x while damping the trend.
func (st *state) settle(x, alpha, finalBeta float64) float64 {
	st.trend *= 1 - finalBeta
	st.level = alpha*x + (1-alpha)*(st.level+st.trend)
	return st.level
}

// New creates a smoother for channelCount channels, each configured with the
// default properties and enabled.
func New(channelCount int) (*Smoother, error) {
	if channelCount < 1 {
		return nil, fmt.Errorf("%w: smoother needs at least one channel, got %d",
			inking.ErrInvalidArgument, channelCount)
	}
	s := &Smoother{channels: make([]channel, channelCount)}
	for i := range s.channels {
		s.SetDefaultProperties(i)
		s.channels[i].enabled = true
	}
	return s, nil
}

// ChannelCount returns the number of independent channels.
func (s *Smoother) ChannelCount() int {
	return len(s.channels)
}

// Reset clears the smoothing history of all channels and drops coefficients
// found by tuning. It has to be called at the start of every new data
// sequence (stroke).
func (s *Smoother) Reset() {
	for i := range s.channels {
		ch := &s.channels[i]
		ch.st = state{}
		ch.history = ch.history[:0]
		ch.fed = 0
		ch.alpha, ch.beta = ch.confAlpha, ch.confBeta
	}
	tracer().Debugf("smoother reset, %d channels", len(s.channels))
}

// SetDefaultProperties configures a channel with the default coefficients
// and switches off tuning. Invalid indices are ignored.
func (s *Smoother) SetDefaultProperties(index int) {
	if index < 0 || index >= len(s.channels) {
		tracer().Errorf("default properties for unknown channel %d", index)
		return
	}
	ch := &s.channels[index]
	ch.alpha, ch.beta, ch.finalBeta = DefaultAlpha, DefaultBeta, DefaultFinalBeta
	ch.confAlpha, ch.confBeta = ch.alpha, ch.beta
	ch.window, ch.iterations = 0, 0
}

// SetChannelProperties configures the smoothing coefficients of a channel.
// alpha must be in (0,1], beta and finalBeta in [0,1]. finalBeta damps the
// trend while a finishing call extrapolates its tail: 1 drops the trend at
// once, 0 keeps it undamped.
func (s *Smoother) SetChannelProperties(index int, alpha, beta, finalBeta float64) error {
	return s.SetChannelPropertiesOpt(index, alpha, beta, finalBeta, 0, 0)
}

// SetChannelPropertiesOpt configures the smoothing coefficients of a channel
// and enables coefficient tuning: every windowSize inputs, alpha and beta are
// re-fitted to the last windowSize raw inputs, minimizing the one-step-ahead
// prediction error with at most iterations optimizer iterations.
// windowSize = 0 or iterations = 0 switches tuning off.
func (s *Smoother) SetChannelPropertiesOpt(index int, alpha, beta, finalBeta float64,
	windowSize, iterations int) error {
	//
	if index < 0 || index >= len(s.channels) {
		return fmt.Errorf("%w: channel %d not in [0,%d)", inking.ErrInvalidArgument, index, len(s.channels))
	}
	if !(alpha > 0 && alpha <= 1) || !inUnit(beta) || !inUnit(finalBeta) {
		return fmt.Errorf("%w: coefficients alpha=%g beta=%g final=%g", inking.ErrInvalidArgument,
			alpha, beta, finalBeta)
	}
	if windowSize < 0 || iterations < 0 || (windowSize > 0 && windowSize < minWindow) {
		return fmt.Errorf("%w: window %d, iterations %d", inking.ErrInvalidArgument, windowSize, iterations)
	}
	ch := &s.channels[index]
	ch.alpha, ch.beta, ch.finalBeta = alpha, beta, finalBeta
	ch.confAlpha, ch.confBeta = alpha, beta
	ch.window, ch.iterations = windowSize, iterations
	if windowSize == 0 || iterations == 0 {
		ch.window, ch.iterations = 0, 0
	}
	ch.history = ch.history[:0]
	return nil
}

// SetEnableChannel switches smoothing of a channel on or off. Disabled
// channels pass their values through unmodified.
func (s *Smoother) SetEnableChannel(index int, enabled bool) error {
	if index < 0 || index >= len(s.channels) {
		return fmt.Errorf("%w: channel %d not in [0,%d)", inking.ErrInvalidArgument, index, len(s.channels))
	}
	s.channels[index].enabled = enabled
	return nil
}

// EnableChannel switches smoothing of a channel on.
func (s *Smoother) EnableChannel(index int) error {
	return s.SetEnableChannel(index, true)
}

// DisableChannel switches smoothing of a channel off.
func (s *Smoother) DisableChannel(index int) error {
	return s.SetEnableChannel(index, false)
}

// Smooth smoothes the first size values of buf. size must be a multiple of
// the channel count.
//
// With finish=false the result has the same size as the input and the
// smoother's state advances. With finish=true the result may be larger than
// the input: an extrapolated tail is appended, ending exactly with the last
// input sample, and the smoother's state is left unchanged.
//
// The returned Result is owned by the smoother, see type Result.
func (s *Smoother) Smooth(buf []float32, size int, finish bool) (*Result, error) {
	n := len(s.channels)
	if size < 0 || size > len(buf) || size%n != 0 {
		return nil, fmt.Errorf("%w: size %d for buffer of %d values and %d channels",
			inking.ErrInvalidArgument, size, len(buf), n)
	}
	if finish {
		s.finishResult.points = s.finish(buf[:size], s.finishResult.points[:0])
		tracer().Debugf("finish-smoothed %d values into %d", size, len(s.finishResult.points))
		return &s.finishResult, nil
	}
	out := s.result.points[:0]
	for k := 0; k < size; k += n {
		for c := range s.channels {
			ch := &s.channels[c]
			x := float64(buf[k+c])
			if !ch.enabled {
				out = append(out, buf[k+c])
				continue
			}
			v := ch.st.step(x, ch.alpha, ch.beta)
			out = append(out, float32(v))
			ch.observe(x)
		}
	}
	s.result.points = out
	return &s.result, nil
}

// finish smoothes in with copies of the channel states and appends the
// converging tail to out.
func (s *Smoother) finish(in []float32, out []float32) []float32 {
	n := len(s.channels)
	if len(in) == 0 {
		return out
	}
	states := make([]state, n)
	for c := range s.channels {
		states[c] = s.channels[c].st
	}
	for k := 0; k < len(in); k += n {
		for c := range s.channels {
			ch := &s.channels[c]
			if !ch.enabled {
				out = append(out, in[k+c])
				continue
			}
			out = append(out, float32(states[c].step(float64(in[k+c]), ch.alpha, ch.beta)))
		}
	}
	last := in[len(in)-n:]
	for step := 0; step < maxFinishSteps && !closeTo(out[len(out)-n:], last); step++ {
		row := make([]float32, n)
		for c := range s.channels {
			ch := &s.channels[c]
			if !ch.enabled {
				row[c] = last[c]
				continue
			}
			row[c] = float32(states[c].settle(float64(last[c]), ch.alpha, ch.finalBeta))
		}
		if closeTo(row, last) {
			break
		}
		out = append(out, row...)
	}
	if closeTo(out[len(out)-n:], last) {
		copy(out[len(out)-n:], last)
	} else {
		out = append(out, last...)
	}
	return out
}

func closeTo(row, target []float32) bool {
	for c := range row {
		if math.Abs(float64(row[c]-target[c])) > finishTolerance {
			return false
		}
	}
	return true
}

func inUnit(x float64) bool {
	return x >= 0 && x <= 1
}
