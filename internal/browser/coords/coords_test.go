// internal/browser/coords/coords_test.go
package coords_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
	"github.com/wheelhouse-ai/wheelhouse/internal/browser/coords"
)

func TestToViewport(t *testing.T) {
	t.Parallel()

	agent := schemas.Size{Width: 800, Height: 600}
	viewport := schemas.Size{Width: 1600, Height: 1200}

	testCases := []struct {
		name     string
		point    schemas.Point
		agent    schemas.Size
		viewport schemas.Size
		want     schemas.Point
	}{
		{"DoubleUpscale", schemas.Point{X: 100, Y: 100}, agent, viewport, schemas.Point{X: 200, Y: 200}},
		{"Origin", schemas.Point{}, agent, viewport, schemas.Point{}},
		{"BottomRightCorner", schemas.Point{X: 799, Y: 599}, agent, viewport, schemas.Point{X: 1598, Y: 1198}},
		{"NonIntegerRatioFloors", schemas.Point{X: 100, Y: 100}, schemas.Size{Width: 1024, Height: 768}, schemas.Size{Width: 1366, Height: 768}, schemas.Point{X: 133, Y: 100}},
		{"Downscale", schemas.Point{X: 500, Y: 300}, viewport, agent, schemas.Point{X: 250, Y: 150}},
		{"UnknownAgentFrame", schemas.Point{X: 42, Y: 17}, schemas.Size{}, viewport, schemas.Point{X: 42, Y: 17}},
		{"UnknownViewport", schemas.Point{X: 42, Y: 17}, agent, schemas.Size{}, schemas.Point{X: 42, Y: 17}},
		{"NegativeAgentDimension", schemas.Point{X: 42, Y: 17}, schemas.Size{Width: -800, Height: 600}, viewport, schemas.Point{X: 42, Y: 17}},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := coords.ToViewport(tt.point, tt.agent, tt.viewport)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScaleDeltaNegative(t *testing.T) {
	t.Parallel()

	agent := schemas.Size{Width: 1024, Height: 1024}
	viewport := schemas.Size{Width: 1366, Height: 1366}

	// floor(-5 * 1366 / 1024) = floor(-6.67) = -7. Truncating division
	// would give -6 and drift upward on every upward scroll.
	got := coords.ScaleDelta(schemas.Point{X: 0, Y: -5}, agent, viewport)
	assert.Equal(t, schemas.Point{X: 0, Y: -7}, got)

	got = coords.ScaleDelta(schemas.Point{X: -5, Y: 5}, agent, viewport)
	assert.Equal(t, schemas.Point{X: -7, Y: 6}, got)
}

// floorDiv is an integer reference for floor(a/b) with b > 0.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func TestProperty_ToViewport_MatchesIntegerFloor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := schemas.Point{
			X: rapid.Int64Range(-10000, 10000).Draw(rt, "x"),
			Y: rapid.Int64Range(-10000, 10000).Draw(rt, "y"),
		}
		agent := schemas.Size{
			Width:  rapid.Int64Range(1, 8192).Draw(rt, "aw"),
			Height: rapid.Int64Range(1, 8192).Draw(rt, "ah"),
		}
		viewport := schemas.Size{
			Width:  rapid.Int64Range(1, 8192).Draw(rt, "ow"),
			Height: rapid.Int64Range(1, 8192).Draw(rt, "oh"),
		}

		got := coords.ToViewport(p, agent, viewport)
		want := schemas.Point{
			X: floorDiv(p.X*viewport.Width, agent.Width),
			Y: floorDiv(p.Y*viewport.Height, agent.Height),
		}
		assert.Equal(t, want, got)
	})
}

func TestProperty_ToViewport_MonotonicInX(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		agent := schemas.Size{
			Width:  rapid.Int64Range(1, 4096).Draw(rt, "aw"),
			Height: rapid.Int64Range(1, 4096).Draw(rt, "ah"),
		}
		viewport := schemas.Size{
			Width:  rapid.Int64Range(1, 4096).Draw(rt, "ow"),
			Height: rapid.Int64Range(1, 4096).Draw(rt, "oh"),
		}
		x1 := rapid.Int64Range(-5000, 5000).Draw(rt, "x1")
		x2 := rapid.Int64Range(-5000, 5000).Draw(rt, "x2")
		if x1 > x2 {
			x1, x2 = x2, x1
		}

		lo := coords.ToViewport(schemas.Point{X: x1}, agent, viewport)
		hi := coords.ToViewport(schemas.Point{X: x2}, agent, viewport)
		assert.LessOrEqual(t, lo.X, hi.X)
	})
}

func TestProperty_ToViewport_IdentityFrames(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := schemas.Size{
			Width:  rapid.Int64Range(1, 4096).Draw(rt, "w"),
			Height: rapid.Int64Range(1, 4096).Draw(rt, "h"),
		}
		p := schemas.Point{
			X: rapid.Int64Range(-5000, 5000).Draw(rt, "x"),
			Y: rapid.Int64Range(-5000, 5000).Draw(rt, "y"),
		}
		assert.Equal(t, p, coords.ToViewport(p, size, size))
	})
}
