package inking

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.000000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
	assert.Equal(t, 0.0, Clamp(-3, 0, 1))
}

// assertPair compares pairs within a tolerance of 1e-6.
func assertPair(t *testing.T, want, got Pair) {
	t.Helper()
	assert.InDelta(t, want.X(), got.X(), 1e-6, "x of %v", got)
	assert.InDelta(t, want.Y(), got.Y(), 1e-6, "y of %v", got)
}

func TestPairBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := P(3, 2)
	q := P(-3, -2)
	assertPair(t, P(0, 0), p+q)
	assert.InDelta(t, 5.0, P(0, 0).Dist(P(3, 4)), 1e-9)
	assert.InDelta(t, 11.0, P(1, 2).Dot(P(3, 4)), 1e-9)
	assertPair(t, P(5, 10), P(0, 0).Lerp(P(10, 20), 0.5))
}

func TestTranslation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assertPair(t, P(0, 0), Translation(P(-1, -1)).Transform(P(1, 1)))
	half := Rotation(180 * Deg2Rad).Combine(Translation(P(1, 0)))
	assertPair(t, P(0, 0), half.Transform(P(1, 0)))
}

func TestCombineOrder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// scale first, then translate
	m := Scaling(2, 2).Combine(Translation(P(1, 0)))
	assertPair(t, P(3, 2), m.Transform(P(1, 1)))
	assert.InDelta(t, 2.0, m.Scale(), 1e-9)
	assertPair(t, P(4, 7), Identity().Transform(P(4, 7)))
}

func TestTransformPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	points := []float32{1, 1, 4, 2, 0, 6}
	err := Scaling(2, 2).TransformPoints(points, 3, true)
	assert.NoError(t, err)
	assert.Equal(t, []float32{2, 2, 8, 4, 0, 12}, points)
	err = Identity().TransformPoints(points, 2, true)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRectUnion(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := EmptyRect()
	assert.True(t, r.IsEmpty())
	r = r.Union(Rect{0, 0, 2, 2})
	assert.Equal(t, Rect{0, 0, 2, 2}, r)
	r = r.Union(EmptyRect()).Union(Rect{5, -1, 1, 1})
	assert.Equal(t, Rect{0, -1, 6, 3}, r)
	assert.True(t, r.Overlaps(Rect{6, 2, 1, 1}))
	assert.False(t, r.Overlaps(Rect{6.5, 2, 1, 1}))
	assert.False(t, r.Overlaps(EmptyRect()))
	assert.True(t, r.Outset(1).Contains(P(-1, -2)))
	assert.True(t, math.IsNaN(EmptyRect().Outset(3).X))
}
