// Package collision resolves requested entity displacements against the tile
// collision layer and against other entities. Blocked movement is an
// expected outcome and is always reported as a reduced displacement, never as
// an error.
package collision

import (
	"math"

	"chosenoffset.com/overworld/internal/core/geom"
)

// edgeInset keeps samples on the right and bottom edges inside the last
// pixel of the box, so a box flush against a cell boundary does not sample
// the neighbouring cell.
const edgeInset = 0.001

// Blocker locates grid cells and reports whether the cell containing a world
// point is blocked.
type Blocker interface {
	IsBlocked(worldX, worldY float64) bool
	CellAt(worldX, worldY float64) (col, row int)
}

// ResolveTileMove returns the part of (dx, dy) that box may travel without
// entering a blocked cell. Each axis is tested separately, x first, so a box
// pushed diagonally into a wall still slides along it. Only the leading edge
// on the moving axis is sampled, and only points that cross into a new cell
// can block, so a box already overlapping a blocked cell can still leave it.
// step is the sampling interval along the edge and should not exceed the
// tile size.
func ResolveTileMove(box geom.Rect, dx, dy float64, b Blocker, step float64) (float64, float64) {
	ax, ay := 0.0, 0.0

	if dx != 0 {
		x := box.X
		if dx > 0 {
			x = box.X + box.W - edgeInset
		}
		ys := samples(box.Y, box.Y+box.H-edgeInset, step)
		if !entersBlocked(b, x, ys, dx, true) {
			ax = dx
		}
	}

	if dy != 0 {
		moved := box.Translate(ax, 0)
		y := moved.Y
		if dy > 0 {
			y = moved.Y + moved.H - edgeInset
		}
		xs := samples(moved.X, moved.X+moved.W-edgeInset, step)
		if !entersBlocked(b, y, xs, dy, false) {
			ay = dy
		}
	}

	return ax, ay
}

// entersBlocked moves each point of a leading edge by d along one axis and
// reports whether any of them crosses into a blocked cell. edge is the edge's
// coordinate on the moving axis and lanes are the sample positions along it.
func entersBlocked(b Blocker, edge float64, lanes []float64, d float64, horizontal bool) bool {
	for _, lane := range lanes {
		fromX, fromY, toX, toY := edge, lane, edge+d, lane
		if !horizontal {
			fromX, fromY, toX, toY = lane, edge, lane, edge+d
		}
		fc, fr := b.CellAt(fromX, fromY)
		tc, tr := b.CellAt(toX, toY)
		if fc == tc && fr == tr {
			continue
		}
		if b.IsBlocked(toX, toY) {
			return true
		}
	}
	return false
}

// samples returns lo, hi and evenly spaced points between them no more than
// step apart.
func samples(lo, hi, step float64) []float64 {
	if hi <= lo || step <= 0 {
		return []float64{lo}
	}
	n := int(math.Ceil((hi - lo) / step))
	out := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		out = append(out, lo+(hi-lo)*float64(i)/float64(n))
	}
	return append(out, hi)
}

// ResolveEntityOverlap returns the minimum translation that moves movable out
// of fixed. The push is along the axis of least penetration (x on ties) and
// points away from fixed's centre; coincident centres push in the positive
// direction. Boxes that do not intersect yield (0, 0).
func ResolveEntityOverlap(fixed, movable geom.Rect) (float64, float64) {
	ox, oy := fixed.Overlap(movable)
	if ox <= 0 || oy <= 0 {
		return 0, 0
	}

	fc, mc := fixed.Center(), movable.Center()
	if ox <= oy {
		if mc.X < fc.X {
			return -ox, 0
		}
		return ox, 0
	}
	if mc.Y < fc.Y {
		return 0, -oy
	}
	return 0, oy
}

// Resolver binds a Blocker so entities can resolve moves without knowing
// about the map.
type Resolver struct {
	Blocker  Blocker
	StepSize float64 // Edge sampling interval, normally the tile size
}

// NewResolver creates a resolver over b sampling every tileSize pixels.
func NewResolver(b Blocker, tileSize int) *Resolver {
	return &Resolver{Blocker: b, StepSize: float64(tileSize)}
}

// ResolveMove implements entity.Mover.
func (r *Resolver) ResolveMove(box geom.Rect, dx, dy float64) (float64, float64) {
	return ResolveTileMove(box, dx, dy, r.Blocker, r.StepSize)
}
