package inkconf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/npillmayer/inking"
	"github.com/npillmayer/inking/pathbuilder"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const markerTOML = `
name = "marker"
input = "speed"
density = 2
movement = 1.5

[normalization]
min = 50
max = 2000

[properties.width]
function = "sigmoid"
min = 1
max = 8
initial = 0.5

[properties.alpha]
min = 0.2
max = 1

[[smoothing]]
alpha = 0.4
beta = 0.2

[[smoothing]]
index = 3
disabled = true
`

const markerYAML = `
name: marker
input: speed
density: 2
movement: 1.5
normalization:
  min: 50
  max: 2000
properties:
  width:
    function: sigmoid
    min: 1
    max: 8
    initial: 0.5
  alpha:
    min: 0.2
    max: 1
smoothing:
  - alpha: 0.4
    beta: 0.2
  - index: 3
    disabled: true
`

func checkMarker(t *testing.T, p *Preset) {
	t.Helper()
	assert.Equal(t, "marker", p.Name)
	assert.Equal(t, 4, p.Stride())
	b, err := p.NewBuilder()
	require.NoError(t, err)
	assert.Equal(t, 4, b.Stride())
	assert.Equal(t, float32(1.5), b.MovementThreshold())
	sn, ok := b.Normalizer().(*pathbuilder.SpeedNormalizer)
	require.True(t, ok, "speed input needs a speed normalizer")
	assert.Equal(t, float32(2), sn.Density())
	assert.Equal(t, pathbuilder.NormalizationConfig{Min: 50, Max: 2000}, sn.Range())
	w, on := b.PropertyConfig(pathbuilder.Width)
	require.True(t, on)
	assert.Equal(t, pathbuilder.Sigmoid, w.Function)
	assert.Equal(t, float32(0.5), w.Initial)
	assert.True(t, math32.IsNaN(w.Final))
	a, on := b.PropertyConfig(pathbuilder.Alpha)
	require.True(t, on)
	assert.Equal(t, pathbuilder.Power, a.Function)
	assert.Equal(t, float32(0.2), a.Min)
	s, err := p.NewSmoother()
	require.NoError(t, err)
	assert.Equal(t, 4, s.ChannelCount())
}

func TestLoadTOML(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := LoadTOML(strings.NewReader(markerTOML))
	require.NoError(t, err)
	checkMarker(t, p)
	require.Len(t, p.Smoothing, 2)
	assert.Nil(t, p.Smoothing[0].Index)
	require.NotNil(t, p.Smoothing[1].Index)
	assert.Equal(t, 3, *p.Smoothing[1].Index)
}

func TestLoadYAML(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := LoadYAML(strings.NewReader(markerYAML))
	require.NoError(t, err)
	checkMarker(t, p)
	t.Logf("%v", p)
	assert.Equal(t, `preset "marker": speed (density 2), range [50,2000], alpha 0.2..1, width 1..8`, p.String())
}

func TestUnknownKeysAreRejected(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := LoadTOML(strings.NewReader(markerTOML + "\ncolour = \"red\"\n"))
	assert.True(t, errors.Is(err, inking.ErrInvalidArgument), "got %v", err)
	_, err = LoadYAML(strings.NewReader(markerYAML + "colour: red\n"))
	assert.True(t, errors.Is(err, inking.ErrInvalidArgument), "got %v", err)
}

func TestInvalidPresets(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cases := map[string]string{
		"input":      `input = "brush"`,
		"property":   "[properties.depth]\nmin = 1\nmax = 2",
		"function":   "[properties.width]\nfunction = \"cubic\"\nmin = 1\nmax = 2",
		"range":      "[properties.width]\nmin = 3\nmax = 2",
		"flat range": "[properties.alpha]\nmin = 0.5\nmax = 0.5",
		"empty norm": "[normalization]\nmin = 1\nmax = 1",
		"channel":    "[[smoothing]]\nindex = 5",
		"alpha":      "[[smoothing]]\nalpha = 1.5",
		"threshold":  "movement = -1",
	}
	for what, text := range cases {
		_, err := LoadTOML(strings.NewReader(text))
		assert.True(t, errors.Is(err, inking.ErrInvalidArgument), "%s: got %v", what, err)
	}
}

func TestDefaultPreset(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := Default()
	require.NoError(t, p.Validate())
	b, err := p.NewBuilder()
	require.NoError(t, err)
	assert.Equal(t, 3, b.Stride())
	_, ok := b.Normalizer().(*pathbuilder.PressureNormalizer)
	assert.True(t, ok)
	w, on := b.PropertyConfig(pathbuilder.Width)
	require.True(t, on)
	assert.Equal(t, pathbuilder.DefaultWidthConfig().Max, w.Max)
}

func TestPresetWithoutPropertiesHasConstantWidth(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := LoadTOML(strings.NewReader("pathwidth = 4\n"))
	require.NoError(t, err)
	b, err := p.NewBuilder()
	require.NoError(t, err)
	assert.Equal(t, 2, b.Stride())
	_, err = b.BeginPath(pathbuilder.Sample{X: 0, Y: 0, Pressure: 1})
	require.NoError(t, err)
	_, err = b.EndPath(pathbuilder.Sample{X: 10, Y: 0, Pressure: 1, Timestamp: 0.01})
	require.NoError(t, err)
	assert.Equal(t, float32(4), b.Path().Width)
}

func TestLoadFile(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	dir := t.TempDir()
	name := filepath.Join(dir, "pencil.yml")
	require.NoError(t, os.WriteFile(name, []byte("input: pressure\n"), 0o644))
	p, err := LoadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "pencil", p.Name)
	_, err = LoadFile(filepath.Join(dir, "pencil.json"))
	assert.True(t, errors.Is(err, inking.ErrInvalidArgument))
	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFromConfiguration(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	conf := testconfig.Conf{}
	conf.Set("inking.input", "speed")
	conf.Set("inking.density", "1.5")
	conf.Set("inking.movement", "2")
	conf.Set("inking.width.max", "12")
	conf.Set("inking.width.flip", "true")
	conf.Set("inking.alpha.function", "periodic")
	conf.Set("inking.alpha.final", "0")
	conf.Set("inking.smoothing.alpha", "0.3")
	conf.Set("inking.smoothing.window", "8")
	conf.Set("inking.smoothing.iterations", "20")
	p, err := FromConfiguration(conf)
	require.NoError(t, err)
	assert.Equal(t, SpeedInput, p.Input)
	assert.Equal(t, 4, p.Stride())
	require.Len(t, p.Smoothing, 1)
	assert.Equal(t, 8, p.Smoothing[0].Window)
	b, err := p.NewBuilder()
	require.NoError(t, err)
	w, _ := b.PropertyConfig(pathbuilder.Width)
	assert.Equal(t, float32(12), w.Max)
	assert.True(t, w.Flip)
	a, on := b.PropertyConfig(pathbuilder.Alpha)
	require.True(t, on)
	assert.Equal(t, pathbuilder.Periodic, a.Function)
	assert.Equal(t, float32(0), a.Final)
}

func TestFromConfigurationErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	conf := testconfig.Conf{}
	conf.Set("inking.density", "dense")
	_, err := FromConfiguration(conf)
	assert.True(t, errors.Is(err, inking.ErrInvalidArgument))
	conf = testconfig.Conf{}
	conf.Set("inking.width.function", "none")
	p, err := FromConfiguration(conf)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stride())
}

func TestNewBuilderReportsPropertyErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := Default()
	p.Properties["width"] = Property{Function: "cubic", Min: 1, Max: 2}
	b, err := p.NewBuilder()
	assert.Nil(t, b)
	assert.True(t, errors.Is(err, inking.ErrInvalidArgument), "got %v", err)
	p.Properties["width"] = Property{Min: 2, Max: 2}
	_, err = p.NewBuilder()
	assert.True(t, errors.Is(err, inking.ErrInvalidArgument), "got %v", err)
}
