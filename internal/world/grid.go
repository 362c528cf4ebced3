package world

import (
	"math"

	"github.com/udisondev/topdown/internal/model"
)

// DefaultCellSize is the grid cell edge in world units.
// Enemy aggro ranges are a few units, so a query touches at most a 3×3 window.
const DefaultCellSize = 4.0

// cellKey is the integer index of a grid cell.
type cellKey struct {
	cx, cy int32
}

// cellOf converts a world position to its cell index.
// Formula: floor(coord / cellSize)
func cellOf(pos model.Vec2, cellSize float64) cellKey {
	return cellKey{
		cx: int32(math.Floor(pos.X / cellSize)),
		cy: int32(math.Floor(pos.Y / cellSize)),
	}
}

// cellRange returns the inclusive cell window covering the square
// [center-radius, center+radius].
func cellRange(center model.Vec2, radius, cellSize float64) (lo, hi cellKey) {
	lo = cellOf(model.Vec2{X: center.X - radius, Y: center.Y - radius}, cellSize)
	hi = cellOf(model.Vec2{X: center.X + radius, Y: center.Y + radius}, cellSize)
	return lo, hi
}
