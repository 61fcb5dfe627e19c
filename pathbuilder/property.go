package pathbuilder

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/npillmayer/inking"
)

// PropertyName identifies a per-point property of a path.
type PropertyName int8

// Properties, in the order of their channels.
const (
	Width PropertyName = iota
	Alpha
)

var propertyNames = [...]string{"Width", "Alpha"}

func (pn PropertyName) String() string {
	if pn < 0 || int(pn) >= len(propertyNames) {
		return fmt.Sprintf("PropertyName(%d)", int(pn))
	}
	return propertyNames[pn]
}

// ParsePropertyName is the inverse of PropertyName.String, ignoring case.
func ParsePropertyName(s string) (PropertyName, error) {
	for i, n := range propertyNames {
		if strings.EqualFold(s, n) {
			return PropertyName(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown property %q", inking.ErrInvalidArgument, s)
}

// PropertyFunction is a family of functions mapping [0,1] onto [0,1].
type PropertyFunction int8

// Available function families. The shape of each is controlled by a
// parameter p:
//
//	Power     u^p
//	Periodic  ½ − ½·cos(π·u^p)
//	Sigmoid   logistic curve with steepness p, normalized to pass (0,0) and (1,1)
const (
	Power PropertyFunction = iota
	Periodic
	Sigmoid
)

var functionNames = [...]string{"Power", "Periodic", "Sigmoid"}

func (pf PropertyFunction) String() string {
	if pf < 0 || int(pf) >= len(functionNames) {
		return fmt.Sprintf("PropertyFunction(%d)", int(pf))
	}
	return functionNames[pf]
}

// ParsePropertyFunction is the inverse of PropertyFunction.String, ignoring
// case.
func ParsePropertyFunction(s string) (PropertyFunction, error) {
	for i, n := range functionNames {
		if strings.EqualFold(s, n) {
			return PropertyFunction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown property function %q", inking.ErrInvalidArgument, s)
}

const defaultSteepness = 6

// Apply evaluates the function for u, which is clamped to [0,1].
func (pf PropertyFunction) Apply(u, p float32) float32 {
	u = math32.Max(0, math32.Min(1, u))
	switch pf {
	case Periodic:
		if !(p > 0) {
			p = 1
		}
		return 0.5 - 0.5*math32.Cos(math32.Pi*math32.Pow(u, p))
	case Sigmoid:
		k := p
		if !(k > 0) {
			k = defaultSteepness
		}
		lo, hi := logistic(-k/2), logistic(k/2)
		return (logistic(k*(u-0.5)) - lo) / (hi - lo)
	default:
		if !(p > 0) {
			p = 1
		}
		return math32.Pow(u, p)
	}
}

func logistic(z float32) float32 {
	return 1 / (1 + math32.Exp(-z))
}

// PropertyConfig describes how a property is derived from normalized input.
// Initial and Final, if not NaN, override the value of the first and the
// last control point of a stroke.
type PropertyConfig struct {
	Min, Max       float32
	Initial, Final float32
	Function       PropertyFunction
	Parameter      float32
	Flip           bool
}

// DefaultWidthConfig is the width configuration of a new builder.
func DefaultWidthConfig() PropertyConfig {
	return PropertyConfig{
		Min:       2,
		Max:       10,
		Initial:   math32.NaN(),
		Final:     math32.NaN(),
		Function:  Power,
		Parameter: 1,
	}
}

// DefaultAlphaConfig is a configuration for the alpha property.
func DefaultAlphaConfig() PropertyConfig {
	return PropertyConfig{
		Min:       0.1,
		Max:       1,
		Initial:   math32.NaN(),
		Final:     math32.NaN(),
		Function:  Power,
		Parameter: 1,
	}
}

// Validate checks a property configuration.
func (pc PropertyConfig) Validate() error {
	if !finite(pc.Min) || !finite(pc.Max) || pc.Min >= pc.Max {
		return fmt.Errorf("%w: property range [%g,%g]", inking.ErrInvalidArgument, pc.Min, pc.Max)
	}
	if math32.IsInf(pc.Initial, 0) || math32.IsInf(pc.Final, 0) {
		return fmt.Errorf("%w: infinite initial or final value", inking.ErrInvalidArgument)
	}
	if pc.Function < Power || pc.Function > Sigmoid {
		return fmt.Errorf("%w: %v", inking.ErrInvalidArgument, pc.Function)
	}
	if !finite(pc.Parameter) {
		return fmt.Errorf("%w: function parameter %g", inking.ErrInvalidArgument, pc.Parameter)
	}
	return nil
}

// Value maps a normalized input u onto [Min,Max].
func (pc PropertyConfig) Value(u float32) float32 {
	f := pc.Function.Apply(u, pc.Parameter)
	if pc.Flip {
		f = 1 - f
	}
	return pc.Min + f*(pc.Max-pc.Min)
}
