// Package visibility turns the world into an ordered draw list.
//
// Each frame the engine collects candidates (from the spatial index around
// the camera's visible world rect, or by scanning every positioned
// renderable), orders them by layer, optionally drops those projected
// outside the viewport, and emits one DrawCommand per remaining sprite.
package visibility

import (
	"cmp"
	"slices"

	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/spatial"
	"github.com/vovakirdan/poochi/internal/sprite"
)

// Config controls candidate selection.
type Config struct {
	UseIndex bool    // query the index instead of scanning
	FineCull bool    // drop candidates projected outside the viewport
	Margin   float64 // world pixels added around the visible rect, one tile
	Bounds   core.RectF
	Capacity int
	MaxDepth int
}

// DefaultConfig returns the battle defaults.
func DefaultConfig() Config {
	return Config{
		UseIndex: true,
		FineCull: true,
		Margin:   16,
		Bounds:   core.RectF{X: -512, Y: -512, W: 1024, H: 1024},
		Capacity: spatial.DefaultCapacity,
		MaxDepth: spatial.DefaultMaxDepth,
	}
}

// DrawCommand is one sprite to draw at the given viewport pixel, its
// top-left corner already offset by half the image size.
type DrawCommand struct {
	Entity ecs.Entity
	X, Y   int
	Layer  int
	Image  *sprite.Image
}

// Engine owns the spatial index shared with the collision broad-phase.
type Engine struct {
	cfg    Config
	world  *ecs.World
	camera *Camera
	index  *spatial.QuadTree[*ecs.Renderable]
	built  bool
}

// NewEngine creates an engine for w seen through camera. Deleted entities
// are dropped from the index as they are deleted.
func NewEngine(w *ecs.World, camera *Camera, cfg Config) *Engine {
	e := &Engine{
		cfg:    cfg,
		world:  w,
		camera: camera,
		index:  spatial.NewQuadTree[*ecs.Renderable](cfg.Bounds, cfg.Capacity, cfg.MaxDepth),
	}
	w.OnDelete(e.forget)
	return e
}

// Index returns the spatial index.
func (e *Engine) Index() *spatial.QuadTree[*ecs.Renderable] {
	return e.index
}

// Camera returns the engine's camera.
func (e *Engine) Camera() *Camera {
	return e.camera
}

// Built reports whether BuildOnce has run.
func (e *Engine) Built() bool {
	return e.built
}

// BuildOnce fills the index with every positioned renderable. Later calls
// do nothing. It returns the entities that fell outside the index bounds;
// those are still drawn when the index is disabled but never found by
// index queries.
func (e *Engine) BuildOnce() []ecs.Entity {
	if e.built {
		return nil
	}
	e.built = true

	w := e.world
	var dropped []ecs.Entity
	for _, ent := range w.With(w.Positions, w.Renderables) {
		if !e.index.Insert(uint32(ent), w.Positions.Get(ent).Vec(), w.Renderables.Get(ent)) {
			dropped = append(dropped, ent)
		}
	}
	return dropped
}

// Sync re-inserts every Movable entity at its current position and picks up
// Movable entities created since the last call.
func (e *Engine) Sync() []ecs.Entity {
	if !e.built {
		return nil
	}
	w := e.world
	var dropped []ecs.Entity
	for _, ent := range w.With(w.Movables, w.Positions, w.Renderables) {
		if !e.index.Update(uint32(ent), w.Positions.Get(ent).Vec(), w.Renderables.Get(ent)) {
			dropped = append(dropped, ent)
		}
	}
	return dropped
}

func (e *Engine) forget(ent ecs.Entity) {
	e.index.Remove(uint32(ent))
}

// candidates returns the entities that may be visible, in creation order.
func (e *Engine) candidates() []ecs.Entity {
	w := e.world
	if !e.cfg.UseIndex || !e.built {
		return w.With(w.Positions, w.Renderables)
	}

	area := e.camera.VisibleWorldRect().Expand(e.cfg.Margin)
	entries := spatial.Dedup(e.index.QueryRange(area))
	out := make([]ecs.Entity, 0, len(entries))
	for _, entry := range entries {
		ent := ecs.Entity(entry.ID)
		if w.Exists(ent) && w.Positions.Has(ent) && w.Renderables.Has(ent) {
			out = append(out, ent)
		}
	}
	// Ids grow with creation, so this restores insertion order.
	slices.Sort(out)
	return out
}

// Frame builds the draw list for the current camera.
func (e *Engine) Frame() []DrawCommand {
	w := e.world
	ents := e.candidates()
	slices.SortStableFunc(ents, func(a, b ecs.Entity) int {
		return cmp.Compare(w.Renderables.Get(a).Layer, w.Renderables.Get(b).Layer)
	})

	view := e.camera.Viewport().Expand(e.cfg.Margin * e.camera.Zoom)
	cmds := make([]DrawCommand, 0, len(ents))
	for _, ent := range ents {
		r := w.Renderables.Get(ent)
		if r.Image == nil {
			continue
		}
		p := w.Positions.Get(ent)
		sx, sy := e.camera.ToScreen(p.Vec())
		sy -= p.Z
		if e.cfg.FineCull && !view.ContainsPoint(core.Vec{X: sx, Y: sy}) {
			continue
		}
		cmds = append(cmds, DrawCommand{
			Entity: ent,
			X:      int(sx - float64(r.Image.W)/2),
			Y:      int(sy - float64(r.Image.H)/2),
			Layer:  r.Layer,
			Image:  r.Image,
		})
	}
	return cmds
}
