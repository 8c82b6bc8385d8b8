// internal/browser/coords/coords.go
package coords

import (
	"math"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// The agent reasons over a downscaled capture of the page (the agent
// frame) while the browser consumes real viewport pixels. Everything in
// this package is a total function mapping between the two; no I/O, no
// session state.

// ToViewport maps a point expressed in the agent frame onto the real
// viewport. When either frame is unknown (empty size) the point is
// returned unchanged, so callers can feed coordinates through
// unconditionally.
func ToViewport(p schemas.Point, agent, viewport schemas.Size) schemas.Point {
	if agent.Empty() || viewport.Empty() {
		return p
	}
	return schemas.Point{
		X: scale(p.X, agent.Width, viewport.Width),
		Y: scale(p.Y, agent.Height, viewport.Height),
	}
}

// ScaleDelta maps a scroll delta expressed in the agent frame onto the
// real viewport. Deltas may be negative; scaling preserves sign and uses
// the same per axis rule as ToViewport.
func ScaleDelta(d schemas.Point, agent, viewport schemas.Size) schemas.Point {
	return ToViewport(d, agent, viewport)
}

// scale applies floor(v * out / in). Integer division would truncate
// toward zero and disagree with floor for negative values, so the
// computation goes through float64.
func scale(v, in, out int64) int64 {
	return int64(math.Floor(float64(v) * float64(out) / float64(in)))
}
