package collision

import (
	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/spatial"
	"github.com/vovakirdan/poochi/internal/sprite"
)

// Tile is a blocking terrain box in world pixels.
type Tile struct {
	Entity ecs.Entity
	Box    core.Rect
	Kind   ecs.TerrainKind
}

// TerrainSource yields the blocking tiles whose boxes may overlap area.
// Implementations may return tiles outside area; the resolver does the
// exact overlap test.
type TerrainSource interface {
	Tiles(area core.Rect) []Tile
}

// tileFor builds the tile of e, or reports false when e does not block.
// Players, enemies, projectiles and physics-affected bodies are never
// terrain. Passable tiles never block and entities without an image have no box.
func tileFor(w *ecs.World, cache *sprite.Cache, e ecs.Entity, pos core.Vec) (Tile, bool) {
	if w.Role(e) != ecs.RoleTerrain || w.PhysicsAffected.Has(e) {
		return Tile{}, false
	}
	r := w.Renderables.Get(e)
	if r == nil || r.Image == nil {
		return Tile{}, false
	}
	kind := ecs.TerrainSolid
	if t := w.Terrains.Get(e); t != nil {
		kind = t.Kind
	}
	if kind == ecs.TerrainPassable {
		return Tile{}, false
	}
	bw, bh := cache.Size(r.Image)
	box := core.CenteredRect(pos, bw, bh)
	if box.Empty() {
		return Tile{}, false
	}
	return Tile{Entity: e, Box: box, Kind: kind}, true
}

// ScanSource checks every positioned renderable in the world.
type ScanSource struct {
	world *ecs.World
	cache *sprite.Cache
}

// NewScanSource creates a full-scan terrain source.
func NewScanSource(w *ecs.World, cache *sprite.Cache) *ScanSource {
	return &ScanSource{world: w, cache: cache}
}

// Tiles implements TerrainSource.
func (s *ScanSource) Tiles(area core.Rect) []Tile {
	var out []Tile
	for _, e := range s.world.With(s.world.Positions, s.world.Renderables) {
		t, ok := tileFor(s.world, s.cache, e, s.world.Positions.Get(e).Vec())
		if ok && t.Box.Intersects(area) {
			out = append(out, t)
		}
	}
	return out
}

// IndexSource asks the spatial index for candidates around the moving box.
// The index is keyed by entity centre, so the query window is the box grown
// by Margin, which must be at least half the largest tile extent.
type IndexSource struct {
	world  *ecs.World
	cache  *sprite.Cache
	index  *spatial.QuadTree[*ecs.Renderable]
	Margin float64
}

// NewIndexSource creates an index-backed terrain source.
func NewIndexSource(w *ecs.World, cache *sprite.Cache, index *spatial.QuadTree[*ecs.Renderable], margin float64) *IndexSource {
	return &IndexSource{world: w, cache: cache, index: index, Margin: margin}
}

// Tiles implements TerrainSource.
func (s *IndexSource) Tiles(area core.Rect) []Tile {
	window := area.RectF().Expand(s.Margin)

	var out []Tile
	for _, entry := range spatial.Dedup(s.index.QueryRange(window)) {
		e := ecs.Entity(entry.ID)
		// The index may still hold an entity deleted earlier this frame.
		if !s.world.Exists(e) {
			continue
		}
		pos := entry.Pos
		if p := s.world.Positions.Get(e); p != nil {
			pos = p.Vec()
		}
		t, ok := tileFor(s.world, s.cache, e, pos)
		if ok && t.Box.Intersects(area) {
			out = append(out, t)
		}
	}
	return out
}
