package intersect

import (
	"testing"

	"github.com/npillmayer/inking"
	"github.com/npillmayer/inking/spline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestRegionBuilder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := NullRegion().Knot(inking.P(0, 0)).Knot(inking.P(1, 3)).Knot(inking.P(3, 0)).Cycle()
	t.Logf("region = %s", AsString(r))
	assert.Equal(t, 3, r.N())
	assert.Equal(t, "(0,0) -- (1,3) -- (3,0) -- cycle", AsString(r))
	assert.True(t, r.Contains(inking.P(1, 1)))
	assert.False(t, r.Contains(inking.P(0, 2)))
}

func TestBoxWithHole(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	box := Box(inking.P(0, 5), inking.P(4, 1))
	assert.Equal(t, 4, box.N())
	assert.Equal(t, inking.Rect{X: 0, Y: 1, W: 4, H: 4}, box.Bounds())
	assert.True(t, box.Contains(inking.P(0.5, 3)))
	box.Knot(inking.P(1, 2)).Knot(inking.P(3, 2)).Knot(inking.P(3, 4)).Knot(inking.P(1, 4)).Cycle()
	assert.Equal(t, 8, box.N())
	assert.False(t, box.Contains(inking.P(2, 3)), "inside the hole")
	assert.True(t, box.Contains(inking.P(0.5, 3)))
}

func TestClip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	box := Box(inking.P(0, 0), inking.P(10, 10))
	clipped := box.Clip(inking.Rect{X: 5, Y: 5, W: 10, H: 10})
	assert.False(t, clipped.IsEmpty())
	assert.True(t, clipped.Contains(inking.P(7, 7)))
	assert.False(t, clipped.Contains(inking.P(2, 2)))
	assert.InDelta(t, 5.0, clipped.Bounds().X, 1e-9)
	assert.InDelta(t, 5.0, clipped.Bounds().W, 1e-9)
	assert.True(t, box.Clip(inking.Rect{X: 20, Y: 20, W: 1, H: 1}).IsEmpty())
}

func TestRegionOfClosedPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := spline.Nullpath(2, 0)
	path.Points = square()
	r := RegionOf(path, 1)
	b := r.Bounds()
	assert.InDelta(t, -12.5, b.X, 0.1)
	assert.InDelta(t, 125.0, b.W, 0.2)
	assert.True(t, r.Contains(inking.P(50, 50)))
	assert.True(t, r.Contains(inking.P(-5, 50)), "Catmull-Rom outline bulges")
	assert.False(t, r.Contains(inking.P(-10, -10)))
}
