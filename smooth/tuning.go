package smooth

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// minWindow is the smallest window useful for fitting two coefficients.
const minWindow = 3

// Coefficients are kept away from 0 and 1 while tuning.
const (
	minCoeff = 0.01
	maxCoeff = 0.99
)

// observe records a raw input of a channel and re-tunes the channel's
// coefficients whenever a full window of new inputs has been seen.
func (ch *channel) observe(x float64) {
	ch.fed++
	if ch.window == 0 {
		return
	}
	if len(ch.history) == ch.window {
		copy(ch.history, ch.history[1:])
		ch.history = ch.history[:ch.window-1]
	}
	ch.history = append(ch.history, x)
	if len(ch.history) == ch.window && ch.fed%ch.window == 0 {
		ch.tune()
	}
}

// tune fits alpha and beta to the window of raw inputs. The coefficients are
// optimized in logit space, which keeps them inside (0,1) without
// constraints. A fit is accepted only if it improves the prediction error.
func (ch *channel) tune() {
	window := append([]float64(nil), ch.history...)
	objective := func(x []float64) float64 {
		return predictionError(window, coeff(x[0]), coeff(x[1]))
	}
	current := predictionError(window, ch.alpha, ch.beta)
	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{MajorIterations: ch.iterations}
	method := &optimize.NelderMead{SimplexSize: 0.5}
	init := []float64{logit(ch.alpha), logit(ch.beta)}
	res, err := optimize.Minimize(problem, init, settings, method)
	if res == nil {
		tracer().Errorf("tuning smoother channel failed: %v", err)
		return
	}
	if res.F < current {
		tracer().Debugf("tuned channel: alpha %.3f → %.3f, beta %.3f → %.3f (error %.4g → %.4g)",
			ch.alpha, coeff(res.X[0]), ch.beta, coeff(res.X[1]), current, res.F)
		ch.alpha, ch.beta = coeff(res.X[0]), coeff(res.X[1])
	}
}

// predictionError is the sum of squared one-step-ahead forecast errors of a
// Holt model with coefficients alpha and beta over xs.
func predictionError(xs []float64, alpha, beta float64) float64 {
	var st state
	var sum float64
	for i, x := range xs {
		if i > 0 {
			e := x - (st.level + st.trend)
			sum += e * e
		}
		st.step(x, alpha, beta)
	}
	return sum
}

func coeff(x float64) float64 {
	c := 1 / (1 + math.Exp(-x))
	return math.Min(maxCoeff, math.Max(minCoeff, c))
}

func logit(c float64) float64 {
	c = math.Min(maxCoeff, math.Max(minCoeff, c))
	return math.Log(c / (1 - c))
}
