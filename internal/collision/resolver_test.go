package collision

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/spatial"
	"github.com/vovakirdan/poochi/internal/sprite"
)

func addTile(w *ecs.World, x, y float64, tw, th int, kind ecs.TerrainKind) ecs.Entity {
	e := w.Create()
	w.Positions.Set(e, ecs.Position{X: x, Y: y})
	w.Renderables.Set(e, ecs.Renderable{Image: sprite.Solid("tile", tw, th, '#', core.ColorGreen)})
	w.Terrains.Set(e, ecs.Terrain{Kind: kind})
	return e
}

func TestMoveAxisStepped(t *testing.T) {
	w := ecs.NewWorld()
	// Thin wall occupying columns 9..10.
	addTile(w, 10, 0, 2, 16, ecs.TerrainSolid)
	r := NewResolver(NewScanSource(w, sprite.NewCache()), 1000)

	tests := []struct {
		name    string
		delta   float64
		wantX   float64
		wantHit bool
	}{
		{"large delta is blocked before the wall", 30, 7, true},
		{"exact adjacency is free", 7, 7, false},
		{"fractional move", 2.5, 2.5, false},
		{"moving away", -3, -3, false},
		{"sub-pixel", 0.25, 0.25, false},
		{"zero", 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, hit := r.MoveAxis(core.Vec{X: 0, Y: 0}, 4, 4, tc.delta, true)
			assert.InDelta(t, tc.wantX, got.X, 1e-9)
			assert.Zero(t, got.Y)
			assert.Equal(t, tc.wantHit, hit)
		})
	}
}

func TestMoveAxisVertical(t *testing.T) {
	w := ecs.NewWorld()
	// Floor tile occupying rows 12..27.
	addTile(w, 0, 20, 16, 16, ecs.TerrainSolid)
	r := NewResolver(NewScanSource(w, sprite.NewCache()), 1000)

	got, hit := r.MoveAxis(core.Vec{X: 0, Y: 0}, 4, 4, 50, false)
	assert.True(t, hit)
	assert.Equal(t, 10.0, got.Y, "box bottom rests on the tile top")

	got, hit = r.MoveAxis(core.Vec{X: 0, Y: 10}, 4, 4, -5, false)
	assert.False(t, hit)
	assert.Equal(t, 5.0, got.Y)
}

func TestMoveAxisRejectsAnomalousDelta(t *testing.T) {
	w := ecs.NewWorld()
	addTile(w, 10, 0, 2, 16, ecs.TerrainSolid)
	r := NewResolver(NewScanSource(w, sprite.NewCache()), 1000)
	start := core.Vec{X: 1, Y: 2}

	for _, d := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e17, -1e17, maxSweep + 1} {
		done := make(chan struct{})
		var got core.Vec
		var hit bool
		go func() {
			got, hit = r.MoveAxis(start, 4, 4, d, true)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("MoveAxis(delta=%v) did not return", d)
		}
		assert.Equal(t, start, got, "delta %v", d)
		assert.False(t, hit, "delta %v", d)
	}

	// The longest accepted sweep still runs to the wall.
	got, hit := r.MoveAxis(core.Vec{}, 4, 4, maxSweep, true)
	assert.True(t, hit)
	assert.Equal(t, 7.0, got.X)
}

func TestZeroAreaIgnoresTerrain(t *testing.T) {
	w := ecs.NewWorld()
	addTile(w, 10, 0, 2, 16, ecs.TerrainSolid)
	r := NewResolver(NewScanSource(w, sprite.NewCache()), 80)

	got, hit := r.MoveAxis(core.Vec{}, 0, 0, 30, true)
	assert.False(t, hit)
	assert.Equal(t, 30.0, got.X)

	assert.False(t, r.CheckOnGround(core.Vec{X: 10, Y: -9}, 0, 0), "on top of the tile but without a box")
	assert.True(t, r.CheckOnGround(core.Vec{X: 10, Y: 80}, 0, 0))
	assert.True(t, r.CheckOnGround(core.Vec{X: 10, Y: 95}, 0, 0))
}

func TestCheckOnGround(t *testing.T) {
	w := ecs.NewWorld()
	addTile(w, 0, 20, 16, 16, ecs.TerrainSolid)
	r := NewResolver(NewScanSource(w, sprite.NewCache()), 80)

	tests := []struct {
		name string
		pos  core.Vec
		want bool
	}{
		{"resting on tile", core.Vec{X: 0, Y: 10}, true},
		{"one pixel above", core.Vec{X: 0, Y: 9}, false},
		{"slid off the edge", core.Vec{X: 11, Y: 10}, false},
		{"at the floor", core.Vec{X: 50, Y: 80}, true},
		{"past the floor", core.Vec{X: 50, Y: 81}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.CheckOnGround(tc.pos, 4, 4))
		})
	}
}

func TestActorsAndPassableNeverBlock(t *testing.T) {
	w := ecs.NewWorld()
	addTile(w, 10, 0, 4, 16, ecs.TerrainPassable)

	enemy := w.Create()
	w.Positions.Set(enemy, ecs.Position{X: 20})
	w.Renderables.Set(enemy, ecs.Renderable{Image: sprite.Solid("enemy", 8, 8, 'E', core.ColorRed)})
	w.Enemies.Set(enemy, ecs.Tag{})

	blank := w.Create()
	w.Positions.Set(blank, ecs.Position{X: 30})
	w.Renderables.Set(blank, ecs.Renderable{})

	r := NewResolver(NewScanSource(w, sprite.NewCache()), 1000)
	got, hit := r.MoveAxis(core.Vec{}, 4, 4, 40, true)
	assert.False(t, hit)
	assert.Equal(t, 40.0, got.X)
}

func TestGroundKind(t *testing.T) {
	w := ecs.NewWorld()
	addTile(w, 0, 20, 16, 16, ecs.TerrainSlow)
	r := NewResolver(NewScanSource(w, sprite.NewCache()), 80)

	kind, ok := r.GroundKind(core.Vec{X: 0, Y: 10}, 4, 4)
	require.True(t, ok)
	assert.Equal(t, ecs.TerrainSlow, kind)

	_, ok = r.GroundKind(core.Vec{X: 0, Y: 80}, 4, 4)
	assert.False(t, ok, "bare floor has no kind")
}

func TestIndexSourceMatchesScan(t *testing.T) {
	w := ecs.NewWorld()
	cache := sprite.NewCache()
	index := spatial.NewQuadTree[*ecs.Renderable](core.RectF{X: -200, Y: -200, W: 400, H: 400}, 2, 4)

	for i := 0; i < 10; i++ {
		e := addTile(w, float64(i*16), 20, 16, 16, ecs.TerrainSolid)
		index.Insert(uint32(e), w.Positions.Get(e).Vec(), w.Renderables.Get(e))
	}
	// A wall further along, then deleted without leaving the index.
	gone := addTile(w, 60, 0, 2, 16, ecs.TerrainSolid)
	index.Insert(uint32(gone), w.Positions.Get(gone).Vec(), w.Renderables.Get(gone))
	w.Delete(gone)

	scan := NewResolver(NewScanSource(w, cache), 1000)
	indexed := NewResolver(NewIndexSource(w, cache, index, 16), 1000)

	for _, y := range []float64{0, 9, 10} {
		for _, x := range []float64{-20, 0, 37.5, 150} {
			pos := core.Vec{X: x, Y: y}
			assert.Equal(t, scan.CheckOnGround(pos, 4, 4), indexed.CheckOnGround(pos, 4, 4), "ground at %v", pos)
		}
	}

	got, hit := indexed.MoveAxis(core.Vec{X: 40, Y: 0}, 4, 4, 40, true)
	assert.False(t, hit, "deleted wall must not block")
	assert.Equal(t, 80.0, got.X)

	got, hit = indexed.MoveAxis(core.Vec{X: 40, Y: 0}, 4, 4, 30, false)
	assert.True(t, hit)
	assert.Equal(t, 10.0, got.Y)
}
