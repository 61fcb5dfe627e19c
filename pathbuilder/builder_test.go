package pathbuilder

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/npillmayer/inking"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stroke feeds samples to b, committing every part unmodified.
func stroke(t *testing.T, b *Builder, samples ...Sample) [][]float32 {
	t.Helper()
	var parts [][]float32
	for i, s := range samples {
		var part []float32
		var err error
		switch i {
		case 0:
			part, err = b.BeginPath(s)
		case len(samples) - 1:
			part, err = b.EndPath(s)
		default:
			part, err = b.AddPoint(s)
		}
		require.NoError(t, err)
		require.Equal(t, len(part), b.PathPartSize())
		parts = append(parts, append([]float32(nil), part...))
		require.NoError(t, b.AddPathPart(part, len(part)))
		require.Equal(t, 0, b.PathSize()%b.Stride())
	}
	return parts
}

func horizontal(n int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{X: float32(10 * i), Pressure: 0.5, Timestamp: 0.01 * float64(i)}
	}
	return samples
}

func TestFourSamplesMakeFourPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewPressureBuilder()
	parts := stroke(t, b, horizontal(4)...)
	assert.Equal(t, []int{0, 3, 3, 6}, []int{len(parts[0]), len(parts[1]), len(parts[2]), len(parts[3])})
	assert.Equal(t, 3, b.Stride())
	assert.Equal(t, 12, b.PathSize())
	assert.Equal(t, 4, b.PointsCount())
	assert.True(t, b.HasFinished())
	path := b.Path()
	require.NoError(t, path.Validate())
	assert.True(t, path.HasWidthChannel())
	assert.True(t, path.Finished)
	for i := 0; i < path.N(); i++ {
		if i > 0 {
			assert.Greater(t, path.Z(i).X(), path.Z(i-1).X())
		}
		assert.InDelta(t, 6.0, path.W(i), 1e-5) // 2 + 0.5·(10−2)
	}
}

func TestSpeedBuilderConstantSpeed(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewSpeedBuilder(1)
	stroke(t, b, horizontal(5)...)
	path := b.Path()
	require.Equal(t, 5, path.N())
	u := float32(1000-DefaultMinSpeed) / (DefaultMaxSpeed - DefaultMinSpeed)
	for i := 0; i < path.N(); i++ {
		assert.InDelta(t, 2+8*u, path.W(i), 1e-3)
	}
}

func TestSpeedIsScaledByDensity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	samples := horizontal(3)
	sn := NewSpeedNormalizer(2)
	sn.SetRange(NormalizationConfig{Min: 100, Max: 500})
	// 1000 px/s is beyond 500 px/s, but within 2·500 px/s
	assert.InDelta(t, 1.0, sn.Normalize(samples, 1), 1e-6)
	sn = NewSpeedNormalizer(4)
	sn.SetRange(NormalizationConfig{Min: 100, Max: 500})
	assert.InDelta(t, float32(1000-400)/(2000-400), sn.Normalize(samples, 1), 1e-6)
	assert.Equal(t, float32(0), Speed(samples[:1], 0))
}

func TestMovementThreshold(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewPressureBuilder()
	b.SetMovementThreshold(5)
	_, err := b.BeginPath(Sample{X: 0, Pressure: 1})
	require.NoError(t, err)
	part, err := b.AddPoint(Sample{X: 1, Pressure: 1})
	require.NoError(t, err)
	assert.Empty(t, part, "sample closer than threshold")
	part, err = b.AddPoint(Sample{X: 10, Pressure: 1})
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 10}, part)
	part, err = b.EndPath(Sample{X: 12, Pressure: 1})
	require.NoError(t, err)
	assert.Equal(t, []float32{10, 0, 10}, part, "end sample below threshold flushes held point")
	b.SetMovementThreshold(math32.NaN())
	assert.Equal(t, float32(0), b.MovementThreshold())
}

func TestInitialAndFinalValues(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewPressureBuilder()
	conf := DefaultWidthConfig()
	conf.Initial, conf.Final = 1, 3
	require.NoError(t, b.SetPropertyConfig(Width, conf))
	stroke(t, b, horizontal(4)...)
	path := b.Path()
	assert.Equal(t, 1.0, path.W(0))
	assert.InDelta(t, 6.0, path.W(1), 1e-5)
	assert.Equal(t, 3.0, path.W(3))
}

func TestAlphaChannelIsLast(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewPressureBuilder()
	require.NoError(t, b.SetPropertyConfig(Alpha, PropertyConfig{Min: 0, Max: 1,
		Initial: math32.NaN(), Final: math32.NaN(), Function: Power, Parameter: 1}))
	assert.Equal(t, 4, b.Stride())
	stroke(t, b, horizontal(4)...)
	path := b.Path()
	assert.InDelta(t, 0.5, path.Value(2, 3), 1e-6)
	require.NoError(t, b.DisablePropertyConfig(Width))
	assert.Equal(t, 3, b.Stride())
	assert.False(t, b.Path().HasWidthChannel())
}

func TestConstantWidthPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewPressureBuilder()
	require.NoError(t, b.DisablePropertyConfig(Width))
	require.NoError(t, b.SetPathWidth(4))
	assert.Equal(t, 2, b.Stride())
	stroke(t, b, horizontal(4)...)
	path := b.Path()
	assert.Equal(t, float32(4), path.Width)
	assert.Equal(t, 4.0, path.W(2))
	if err := b.SetPathWidth(-1); !errors.Is(err, inking.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestOutOfSequenceCalls(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewPressureBuilder()
	if _, err := b.AddPoint(Sample{}); !errors.Is(err, inking.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if _, err := b.EndPath(Sample{}); !errors.Is(err, inking.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err := b.AddPathPart(nil, 0); !errors.Is(err, inking.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if _, err := b.CreatePreliminaryPath(); !errors.Is(err, inking.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	stroke(t, b, horizontal(4)...)
	if _, err := b.AddPoint(Sample{}); !errors.Is(err, inking.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState after EndPath, got %v", err)
	}
}

func TestConfigurationIsFrozenDuringStroke(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewPressureBuilder()
	_, err := b.BeginPath(Sample{})
	require.NoError(t, err)
	if err := b.DisablePropertyConfig(Width); !errors.Is(err, inking.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err := b.SetNormalizationConfig(0, 2); !errors.Is(err, inking.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	assert.Equal(t, 3, b.Stride())
	_, err = b.EndPath(Sample{X: 1})
	require.NoError(t, err)
	require.NoError(t, b.SetNormalizationConfig(0, 2))
	assert.Equal(t, NormalizationConfig{Min: 0, Max: 2}, b.Normalizer().Range())
	if err := b.SetNormalizationConfig(2, 2); !errors.Is(err, inking.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAddPathPartRejectsRaggedSize(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewPressureBuilder()
	_, err := b.BeginPath(Sample{})
	require.NoError(t, err)
	require.NoError(t, b.AddPathPart([]float32{1, 2, 3, 4, 5, 6}, 6))
	err = b.AddPathPart([]float32{1, 2, 3, 4}, 4)
	if !errors.Is(err, inking.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	assert.Equal(t, 6, b.PathSize(), "rejected part has no effect")
	assert.Equal(t, 6, b.AddedPointsSize())
	assert.Equal(t, 0, b.PathLastUpdatePosition())
	require.NoError(t, b.AddPathPart([]float32{7, 8, 9, 0}, 3))
	assert.Equal(t, 6, b.PathLastUpdatePosition())
}

func TestPreliminaryPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewPressureBuilder()
	samples := horizontal(3)
	_, err := b.BeginPath(samples[0])
	require.NoError(t, err)
	prelim, err := b.CreatePreliminaryPath()
	require.NoError(t, err)
	assert.Equal(t, 3, len(prelim), "only the held point")
	part, err := b.AddPoint(samples[1])
	require.NoError(t, err)
	require.NoError(t, b.AddPathPart(part, len(part)))
	prelim, err = b.CreatePreliminaryPath()
	require.NoError(t, err)
	require.Equal(t, 9, len(prelim))
	assert.Equal(t, 9, b.PreliminaryPathSize())
	assert.Equal(t, []float32{10, 20, 25}, []float32{prelim[0], prelim[3], prelim[6]})
	full, err := b.FinishPreliminaryPath(prelim, len(prelim))
	require.NoError(t, err)
	assert.Equal(t, 12, len(full))
	assert.Equal(t, 12, b.FinishedPreliminaryPathSize())
	assert.Equal(t, float32(0), full[0], "starts with committed point")
	assert.Equal(t, 4, b.PreliminaryPath().N())
	assert.Equal(t, 3, b.PathSize(), "preliminary path is not merged")
	_, err = b.FinishPreliminaryPath(prelim, 7)
	if !errors.Is(err, inking.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	part, err = b.EndPath(samples[2])
	require.NoError(t, err)
	require.NoError(t, b.AddPathPart(part, len(part)))
	prelim, err = b.CreatePreliminaryPath()
	require.NoError(t, err)
	assert.Empty(t, prelim)
	full, err = b.FinishPreliminaryPath(prelim, 0)
	require.NoError(t, err)
	assert.Empty(t, full)
}

func TestBeginPathDiscardsPreviousPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	b := NewPressureBuilder()
	stroke(t, b, horizontal(4)...)
	_, err := b.BeginPath(Sample{X: 100})
	require.NoError(t, err)
	assert.Equal(t, 0, b.PathSize())
	assert.False(t, b.HasFinished())
}
