package inkconf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chewxy/math32"
	"github.com/npillmayer/inking"
	"github.com/npillmayer/inking/pathbuilder"
	"github.com/npillmayer/inking/smooth"
)

// Input kinds of a preset.
const (
	PressureInput = "pressure"
	SpeedInput    = "speed"
)

// Range is a normalization range of raw input values.
type Range struct {
	Min float32 `toml:"min" yaml:"min"`
	Max float32 `toml:"max" yaml:"max"`
}

// Property configures a control point property. Function is one of "power",
// "periodic" or "sigmoid", empty meaning "power". Initial and Final are
// optional.
type Property struct {
	Function  string   `toml:"function" yaml:"function"`
	Min       float32  `toml:"min" yaml:"min"`
	Max       float32  `toml:"max" yaml:"max"`
	Initial   *float32 `toml:"initial,omitempty" yaml:"initial,omitempty"`
	Final     *float32 `toml:"final,omitempty" yaml:"final,omitempty"`
	Parameter float32  `toml:"parameter" yaml:"parameter"`
	Flip      bool     `toml:"flip" yaml:"flip"`
}

// Channel holds smoothing coefficients. A channel without Index applies to
// all channels; channels are applied in order, so later entries override
// earlier ones. Alpha = 0 selects smooth.DefaultAlpha, a missing Beta or
// FinalBeta the respective default.
type Channel struct {
	Index      *int     `toml:"index,omitempty" yaml:"index,omitempty"`
	Disabled   bool     `toml:"disabled" yaml:"disabled"`
	Alpha      float64  `toml:"alpha" yaml:"alpha"`
	Beta       *float64 `toml:"beta,omitempty" yaml:"beta,omitempty"`
	FinalBeta  *float64 `toml:"final,omitempty" yaml:"final,omitempty"`
	Window     int      `toml:"window" yaml:"window"`
	Iterations int      `toml:"iterations" yaml:"iterations"`
}

// Preset is a brush preset. Properties are keyed by property name ("width",
// "alpha"); a property missing from the map is disabled. Without a width
// property, paths have the constant width PathWidth.
type Preset struct {
	Name              string              `toml:"name" yaml:"name"`
	Input             string              `toml:"input" yaml:"input"`
	Density           float32             `toml:"density" yaml:"density"`
	Normalization     *Range              `toml:"normalization,omitempty" yaml:"normalization,omitempty"`
	MovementThreshold float32             `toml:"movement" yaml:"movement"`
	PathWidth         float32             `toml:"pathwidth" yaml:"pathwidth"`
	Properties        map[string]Property `toml:"properties" yaml:"properties"`
	Smoothing         []Channel           `toml:"smoothing" yaml:"smoothing"`
}

// Default returns the preset of a pressure pen with the default width
// property and default smoothing.
func Default() *Preset {
	w := pathbuilder.DefaultWidthConfig()
	return &Preset{
		Name:  "default",
		Input: PressureInput,
		Properties: map[string]Property{
			"width": {Function: "power", Min: w.Min, Max: w.Max, Parameter: w.Parameter},
		},
	}
}

func (p *Preset) input() string {
	if p.Input == "" {
		return PressureInput
	}
	return strings.ToLower(p.Input)
}

// properties returns the enabled properties, resolved to builder
// configurations.
func (p *Preset) properties() (map[pathbuilder.PropertyName]pathbuilder.PropertyConfig, error) {
	props := make(map[pathbuilder.PropertyName]pathbuilder.PropertyConfig, len(p.Properties))
	for key, prop := range p.Properties {
		name, err := pathbuilder.ParsePropertyName(key)
		if err != nil {
			return nil, err
		}
		if _, dup := props[name]; dup {
			return nil, fmt.Errorf("%w: property %v configured twice", inking.ErrInvalidArgument, name)
		}
		conf, err := prop.config()
		if err != nil {
			return nil, fmt.Errorf("property %v: %w", name, err)
		}
		props[name] = conf
	}
	return props, nil
}

func (prop Property) config() (pathbuilder.PropertyConfig, error) {
	conf := pathbuilder.PropertyConfig{
		Min:       prop.Min,
		Max:       prop.Max,
		Initial:   math32.NaN(),
		Final:     math32.NaN(),
		Parameter: prop.Parameter,
		Flip:      prop.Flip,
	}
	if prop.Function != "" {
		f, err := pathbuilder.ParsePropertyFunction(prop.Function)
		if err != nil {
			return conf, err
		}
		conf.Function = f
	}
	if prop.Initial != nil {
		conf.Initial = *prop.Initial
	}
	if prop.Final != nil {
		conf.Final = *prop.Final
	}
	return conf, conf.Validate()
}

// Stride returns the number of values per control point of paths built with
// this preset.
func (p *Preset) Stride() int {
	stride := 2
	for _, name := range []string{"width", "alpha"} {
		for key := range p.Properties {
			if strings.EqualFold(key, name) {
				stride++
				break
			}
		}
	}
	return stride
}

// Validate checks a preset.
func (p *Preset) Validate() error {
	if in := p.input(); in != PressureInput && in != SpeedInput {
		return fmt.Errorf("%w: input kind %q", inking.ErrInvalidArgument, p.Input)
	}
	if math32.IsNaN(p.Density) || math32.IsInf(p.Density, 0) || p.Density < 0 {
		return fmt.Errorf("%w: density %g", inking.ErrInvalidArgument, p.Density)
	}
	if p.Normalization != nil {
		r := pathbuilder.NormalizationConfig{Min: p.Normalization.Min, Max: p.Normalization.Max}
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if math32.IsNaN(p.MovementThreshold) || p.MovementThreshold < 0 {
		return fmt.Errorf("%w: movement threshold %g", inking.ErrInvalidArgument, p.MovementThreshold)
	}
	if math32.IsNaN(p.PathWidth) || math32.IsInf(p.PathWidth, 0) || p.PathWidth < 0 {
		return fmt.Errorf("%w: path width %g", inking.ErrInvalidArgument, p.PathWidth)
	}
	if _, err := p.properties(); err != nil {
		return err
	}
	_, err := p.NewSmoother()
	return err
}

// NewBuilder creates a path builder configured by the preset.
func (p *Preset) NewBuilder() (*pathbuilder.Builder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var b *pathbuilder.Builder
	if p.input() == SpeedInput {
		b = pathbuilder.NewSpeedBuilder(p.Density)
	} else {
		b = pathbuilder.NewPressureBuilder()
	}
	if p.Normalization != nil {
		if err := b.SetNormalizationConfig(p.Normalization.Min, p.Normalization.Max); err != nil {
			return nil, err
		}
	}
	b.SetMovementThreshold(p.MovementThreshold)
	if p.PathWidth > 0 {
		if err := b.SetPathWidth(p.PathWidth); err != nil {
			return nil, err
		}
	}
	props, err := p.properties()
	if err != nil {
		return nil, err
	}
	for _, name := range []pathbuilder.PropertyName{pathbuilder.Width, pathbuilder.Alpha} {
		if conf, ok := props[name]; ok {
			err = b.SetPropertyConfig(name, conf)
		} else {
			err = b.DisablePropertyConfig(name)
		}
		if err != nil {
			return nil, err
		}
	}
	tracer().Infof("preset %q: %s builder, stride %d", p.Name, p.input(), b.Stride())
	return b, nil
}

// NewSmoother creates a smoother with one channel per control point value,
// configured by the preset's smoothing entries.
func (p *Preset) NewSmoother() (*smooth.Smoother, error) {
	s, err := smooth.New(p.Stride())
	if err != nil {
		return nil, err
	}
	for _, ch := range p.Smoothing {
		alpha, beta, final := smooth.DefaultAlpha, smooth.DefaultBeta, smooth.DefaultFinalBeta
		if ch.Alpha != 0 {
			alpha = ch.Alpha
		}
		if ch.Beta != nil {
			beta = *ch.Beta
		}
		if ch.FinalBeta != nil {
			final = *ch.FinalBeta
		}
		for _, i := range ch.indices(s.ChannelCount()) {
			if err := s.SetChannelPropertiesOpt(i, alpha, beta, final, ch.Window, ch.Iterations); err != nil {
				return nil, fmt.Errorf("smoothing: %w", err)
			}
			if err := s.SetEnableChannel(i, !ch.Disabled); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (ch Channel) indices(n int) []int {
	if ch.Index != nil {
		return []int{*ch.Index}
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return all
}

// String lists the preset's settings in a stable order.
func (p *Preset) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "preset %q: %s", p.Name, p.input())
	if p.input() == SpeedInput {
		fmt.Fprintf(&sb, " (density %g)", p.Density)
	}
	if p.Normalization != nil {
		fmt.Fprintf(&sb, ", range [%g,%g]", p.Normalization.Min, p.Normalization.Max)
	}
	keys := make([]string, 0, len(p.Properties))
	for key := range p.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		prop := p.Properties[key]
		fmt.Fprintf(&sb, ", %s %g..%g", strings.ToLower(key), prop.Min, prop.Max)
	}
	return sb.String()
}
