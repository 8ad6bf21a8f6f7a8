package visibility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/sprite"
)

func place(w *ecs.World, x, y float64, layer int, img *sprite.Image) ecs.Entity {
	e := w.Create()
	w.Positions.Set(e, ecs.Position{X: x, Y: y})
	w.Renderables.Set(e, ecs.Renderable{Image: img, Layer: layer})
	return e
}

func entities(cmds []DrawCommand) []ecs.Entity {
	out := make([]ecs.Entity, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Entity)
	}
	return out
}

func newEngine(w *ecs.World, useIndex bool) *Engine {
	cam := NewCamera(320, 240, 1, 1)
	cam.CenterOn(core.Vec{X: 0, Y: 80})
	cfg := DefaultConfig()
	cfg.UseIndex = useIndex
	return NewEngine(w, cam, cfg)
}

func TestRenderOrderByLayer(t *testing.T) {
	for _, useIndex := range []bool{false, true} {
		w := ecs.NewWorld()
		img := sprite.Solid("s", 8, 8, '#', core.ColorWhite)
		// Spread across the index so entries land in different quadrants.
		top := place(w, 100, 0, 3, img)
		first := place(w, -100, 150, 1, img)
		mid := place(w, 0, 80, 2, img)
		second := place(w, 90, 150, 1, img)

		eng := newEngine(w, useIndex)
		require.Empty(t, eng.BuildOnce())

		cmds := eng.Frame()
		assert.Equal(t, []ecs.Entity{first, second, mid, top}, entities(cmds), "useIndex=%v", useIndex)

		layers := make([]int, 0, len(cmds))
		for _, c := range cmds {
			layers = append(layers, c.Layer)
		}
		assert.Equal(t, []int{1, 1, 2, 3}, layers)
	}
}

func TestRenderOrderExtremeLayers(t *testing.T) {
	w := ecs.NewWorld()
	img := sprite.Solid("s", 8, 8, '#', core.ColorWhite)
	hi := place(w, 0, 80, math.MaxInt, img)
	lo := place(w, 10, 80, math.MinInt, img)
	zero := place(w, 20, 80, 0, img)

	cmds := newEngine(w, false).Frame()
	assert.Equal(t, []ecs.Entity{lo, zero, hi}, entities(cmds))
}

func TestFrameCentresAndHops(t *testing.T) {
	w := ecs.NewWorld()
	e := place(w, 0, 80, 0, sprite.Solid("p", 8, 6, '@', core.ColorYellow))
	w.Positions.Get(e).Z = 4

	eng := newEngine(w, true)
	eng.BuildOnce()

	cmds := eng.Frame()
	require.Len(t, cmds, 1)
	assert.Equal(t, 156, cmds[0].X)
	assert.Equal(t, 120-4-3, cmds[0].Y)
}

func TestNilImageSkipped(t *testing.T) {
	w := ecs.NewWorld()
	place(w, 0, 80, 0, nil)
	shown := place(w, 10, 80, 0, sprite.Solid("s", 2, 2, '#', 0))

	eng := newEngine(w, false)
	assert.Equal(t, []ecs.Entity{shown}, entities(eng.Frame()))
}

func TestCulling(t *testing.T) {
	img := sprite.Solid("s", 8, 8, '#', 0)
	w := ecs.NewWorld()
	near := place(w, 0, 80, 0, img)
	edge := place(w, 170, 80, 0, img) // inside the one-tile margin
	place(w, 400, 80, 0, img)

	t.Run("index", func(t *testing.T) {
		eng := newEngine(w, true)
		eng.BuildOnce()
		assert.Equal(t, []ecs.Entity{near, edge}, entities(eng.Frame()))
	})

	t.Run("scan with fine cull", func(t *testing.T) {
		eng := newEngine(w, false)
		assert.Equal(t, []ecs.Entity{near, edge}, entities(eng.Frame()))
	})

	t.Run("scan without cull", func(t *testing.T) {
		cam := NewCamera(320, 240, 1, 1)
		cam.CenterOn(core.Vec{X: 0, Y: 80})
		cfg := DefaultConfig()
		cfg.UseIndex, cfg.FineCull = false, false
		assert.Len(t, NewEngine(w, cam, cfg).Frame(), 3)
	})
}

func TestSyncOnlyMovesMovables(t *testing.T) {
	w := ecs.NewWorld()
	img := sprite.Solid("s", 8, 8, '#', 0)
	tile := place(w, 0, 80, 0, img)
	hero := place(w, 0, 80, 2, img)
	w.Movables.Set(hero, ecs.Tag{})

	eng := newEngine(w, true)
	eng.BuildOnce()

	w.Positions.Get(tile).X = 400
	w.Positions.Get(hero).X = 10
	eng.Sync()

	far := core.RectF{X: 395, Y: 75, W: 10, H: 10}
	assert.Empty(t, eng.Index().QueryRange(far), "static entries are not refreshed")

	got := eng.Index().QueryRange(core.RectF{X: 5, Y: 75, W: 10, H: 10})
	require.NotEmpty(t, got)
	assert.Equal(t, uint32(hero), got[0].ID)

	shot := place(w, -20, 80, 1, img)
	w.Movables.Set(shot, ecs.Tag{})
	eng.Sync()
	assert.Equal(t, 3, eng.Index().Len(), "movables created after the build are picked up")
}

func TestDeleteDropsFromIndex(t *testing.T) {
	w := ecs.NewWorld()
	img := sprite.Solid("s", 8, 8, '#', 0)
	e := place(w, 0, 80, 0, img)
	keep := place(w, 1, 80, 0, img)

	eng := newEngine(w, true)
	eng.BuildOnce()
	w.Delete(e)

	assert.Equal(t, 1, eng.Index().Len())
	assert.Equal(t, []ecs.Entity{keep}, entities(eng.Frame()))
}

func TestBuildOnceReportsDropped(t *testing.T) {
	w := ecs.NewWorld()
	img := sprite.Solid("s", 8, 8, '#', 0)
	place(w, 0, 80, 0, img)
	lost := place(w, 5000, 0, 0, img)

	eng := newEngine(w, true)
	assert.Equal(t, []ecs.Entity{lost}, eng.BuildOnce())
	assert.Nil(t, eng.BuildOnce(), "second build is a no-op")
	assert.True(t, eng.Built())
}
