package inkconf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/inking"
	"github.com/npillmayer/inking/pathbuilder"
	"github.com/npillmayer/schuko"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadTOML reads and validates a preset in TOML format.
func LoadTOML(r io.Reader) (*Preset, error) {
	p := &Preset{}
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(p); err != nil {
		return nil, fmt.Errorf("%w: TOML preset: %w", inking.ErrInvalidArgument, err)
	}
	return validated(p)
}

// LoadYAML reads and validates a preset in YAML format.
func LoadYAML(r io.Reader) (*Preset, error) {
	p := &Preset{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("%w: YAML preset: %w", inking.ErrInvalidArgument, err)
	}
	return validated(p)
}

// LoadFile reads a preset from a file. The format is selected by the file
// extension: .toml, .yaml or .yml.
func LoadFile(name string) (*Preset, error) {
	var load func(io.Reader) (*Preset, error)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		load = LoadTOML
	case ".yaml", ".yml":
		load = LoadYAML
	default:
		return nil, fmt.Errorf("%w: unknown preset format of %s", inking.ErrInvalidArgument, name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	tracer().Infof("loaded %v", p)
	return p, nil
}

func validated(p *Preset) (*Preset, error) {
	if err := p.Validate(); err != nil {
		tracer().Errorf("invalid preset %q: %v", p.Name, err)
		return nil, err
	}
	return p, nil
}

// FromConfiguration creates a preset from the "inking." keys of an
// application configuration. Keys not set keep the values of Default().
// A width function of "none" disables the width property; the alpha property
// is enabled by setting its function.
func FromConfiguration(conf schuko.Configuration) (*Preset, error) {
	p := Default()
	p.Name = "configuration"
	c := confReader{conf: conf}
	if conf.IsSet("inking.input") {
		p.Input = conf.GetString("inking.input")
	}
	p.Density = c.float("inking.density", p.Density)
	if conf.IsSet("inking.normalization.min") || conf.IsSet("inking.normalization.max") {
		p.Normalization = &Range{
			Min: c.float("inking.normalization.min", 0),
			Max: c.float("inking.normalization.max", 1),
		}
	}
	p.MovementThreshold = c.float("inking.movement", p.MovementThreshold)
	p.PathWidth = c.float("inking.pathwidth", p.PathWidth)
	for _, name := range []string{"width", "alpha"} {
		prefix := "inking." + name + "."
		prop, ok := p.Properties[name]
		if conf.IsSet(prefix + "function") {
			fn := conf.GetString(prefix + "function")
			if strings.EqualFold(fn, "none") {
				delete(p.Properties, name)
				continue
			}
			if !ok {
				defaults := pathbuilder.DefaultAlphaConfig()
				prop = Property{Min: defaults.Min, Max: defaults.Max, Parameter: defaults.Parameter}
			}
			prop.Function, ok = fn, true
		}
		if !ok {
			continue
		}
		prop.Min = c.float(prefix+"min", prop.Min)
		prop.Max = c.float(prefix+"max", prop.Max)
		prop.Parameter = c.float(prefix+"parameter", prop.Parameter)
		prop.Initial = c.optional(prefix+"initial", prop.Initial)
		prop.Final = c.optional(prefix+"final", prop.Final)
		if conf.IsSet(prefix + "flip") {
			prop.Flip = conf.GetBool(prefix + "flip")
		}
		p.Properties[name] = prop
	}
	if ch, ok := c.channel("inking.smoothing."); ok {
		p.Smoothing = append(p.Smoothing, ch)
	}
	if c.err != nil {
		return nil, c.err
	}
	return validated(p)
}

// confReader reads typed values from a configuration, remembering the first
// error.
type confReader struct {
	conf schuko.Configuration
	err  error
}

func (c *confReader) number(key string) (float64, bool) {
	if c.err != nil || !c.conf.IsSet(key) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.conf.GetString(key)), 64)
	if err != nil {
		c.err = fmt.Errorf("%w: configuration key %s: %w", inking.ErrInvalidArgument, key, err)
		return 0, false
	}
	return v, true
}

func (c *confReader) float(key string, dflt float32) float32 {
	if v, ok := c.number(key); ok {
		return float32(v)
	}
	return dflt
}

func (c *confReader) optional(key string, dflt *float32) *float32 {
	if v, ok := c.number(key); ok {
		f := float32(v)
		return &f
	}
	return dflt
}

func (c *confReader) channel(prefix string) (Channel, bool) {
	ch, set := Channel{}, false
	if v, ok := c.number(prefix + "alpha"); ok {
		ch.Alpha, set = v, true
	}
	if v, ok := c.number(prefix + "beta"); ok {
		ch.Beta, set = &v, true
	}
	if v, ok := c.number(prefix + "final"); ok {
		ch.FinalBeta, set = &v, true
	}
	if c.conf.IsSet(prefix + "window") {
		ch.Window, set = c.conf.GetInt(prefix+"window"), true
	}
	if c.conf.IsSet(prefix + "iterations") {
		ch.Iterations, set = c.conf.GetInt(prefix+"iterations"), true
	}
	return ch, set
}
