// Package collision moves boxes through terrain with stepped sweeps.
//
// A move is split into unit steps (the last one fractional) and the box is
// tested after every step, so a fast body cannot skip over a thin tile in a
// single frame. Boxes are integer pixel rectangles centred on the floating
// position with the corner truncated toward zero.
package collision

import (
	"math"

	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
)

// Resolver resolves axis moves against a terrain source and a flat world floor.
type Resolver struct {
	source TerrainSource
	floorY float64
}

// NewResolver creates a resolver. floorY is the fallback ground plane:
// anything at or below it counts as grounded.
func NewResolver(source TerrainSource, floorY float64) *Resolver {
	return &Resolver{source: source, floorY: floorY}
}

// SetSource swaps the terrain source, e.g. from a full scan to the index
// once the index has been built.
func (r *Resolver) SetSource(source TerrainSource) {
	r.source = source
}

// Source returns the terrain source in use.
func (r *Resolver) Source() TerrainSource {
	return r.source
}

// FloorY returns the fallback ground plane.
func (r *Resolver) FloorY() float64 {
	return r.floorY
}

// maxSweep is the longest move MoveAxis accepts in one call. Longer or
// non-finite deltas are anomalies and leave the body where it is.
const maxSweep = 1 << 16

// MoveAxis moves pos by delta along one axis for a w×h box. It stops at the
// last free position before the first overlap and reports whether it hit
// something. A zero-area box never collides.
func (r *Resolver) MoveAxis(pos core.Vec, w, h int, delta float64, horizontal bool) (core.Vec, bool) {
	if delta == 0 || math.IsNaN(delta) || math.Abs(delta) > maxSweep {
		return pos, false
	}
	solid := w > 0 && h > 0

	unit := 1.0
	if delta < 0 {
		unit = -1.0
	}

	// Whole unit steps, then the fractional (or final full) remainder.
	n := int(math.Ceil(math.Abs(delta)))
	for i := range n {
		step := unit
		if i == n-1 {
			step = delta - unit*float64(n-1)
		}

		next := pos
		if horizontal {
			next.X += step
		} else {
			next.Y += step
		}

		if solid && r.blocked(core.CenteredRect(next, w, h)) {
			return pos, true
		}
		pos = next
	}
	return pos, false
}

// CheckOnGround reports whether the box, shifted one pixel down, rests on
// terrain, or pos is at or past the world floor. Zero-area boxes only use
// the floor comparison.
func (r *Resolver) CheckOnGround(pos core.Vec, w, h int) bool {
	if pos.Y >= r.floorY {
		return true
	}
	if w <= 0 || h <= 0 {
		return false
	}
	return r.blocked(core.CenteredRect(pos, w, h).Offset(0, 1))
}

// GroundKind returns the kind of the tile directly under the box.
// It reports false when nothing is underneath, including the bare floor.
func (r *Resolver) GroundKind(pos core.Vec, w, h int) (ecs.TerrainKind, bool) {
	if w <= 0 || h <= 0 {
		return 0, false
	}
	tiles := r.Colliding(core.CenteredRect(pos, w, h).Offset(0, 1))
	if len(tiles) == 0 {
		return 0, false
	}
	// A slow tile anywhere under the feet wins.
	for _, t := range tiles {
		if t.Kind == ecs.TerrainSlow {
			return t.Kind, true
		}
	}
	return tiles[0].Kind, true
}

// Colliding returns every blocking tile overlapping box.
func (r *Resolver) Colliding(box core.Rect) []Tile {
	if r.source == nil || box.Empty() {
		return nil
	}
	var hits []Tile
	for _, t := range r.source.Tiles(box) {
		if t.Box.Intersects(box) {
			hits = append(hits, t)
		}
	}
	return hits
}

func (r *Resolver) blocked(box core.Rect) bool {
	return len(r.Colliding(box)) > 0
}
