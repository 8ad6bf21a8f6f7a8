// Package projectile spawns, moves, expires and resolves hits of the
// player's shots. Projectiles are kinematic: constant horizontal speed, no
// gravity, and a single box-overlap test per frame against enemies.
package projectile

import (
	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/sprite"
)

// Config holds projectile tuning.
type Config struct {
	Speed    float64 // px/s
	Lifetime float64 // seconds
	Size     int     // square hit box edge in pixels
	Layer    int
	Cooldown float64 // seconds between shots
}

// DefaultConfig returns the battle defaults.
func DefaultConfig() Config {
	return Config{
		Speed:    200,
		Lifetime: 1.0,
		Size:     8,
		Layer:    1,
		Cooldown: 0.25,
	}
}

// OutcomeSink receives battle events raised by hits.
type OutcomeSink interface {
	TargetDefeated(e ecs.Entity)
}

// System owns every entity carrying a Projectile component.
type System struct {
	cfg   Config
	world *ecs.World
	cache *sprite.Cache
	clock core.Clock
	sink  OutcomeSink
	image *sprite.Image
}

// NewSystem creates a projectile system. sink may be nil.
func NewSystem(w *ecs.World, cache *sprite.Cache, clock core.Clock, sink OutcomeSink, cfg Config) *System {
	return &System{
		cfg:   cfg,
		world: w,
		cache: cache,
		clock: clock,
		sink:  sink,
		image: ball(cfg.Size),
	}
}

// ball draws a filled circle of diameter d.
func ball(d int) *sprite.Image {
	img := sprite.NewImage(d, d)
	img.Name = "projectile"
	img.Glyph = '●'
	img.Color = core.ColorRed
	r := float64(d) / 2
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if dx*dx+dy*dy <= r*r {
				img.SetAlpha(x, y, 255)
			}
		}
	}
	return img
}

// Spawn creates a projectile at pos moving in dir (-1 or +1), stamped with
// the current clock time.
func (s *System) Spawn(pos core.Vec, dir int) ecs.Entity {
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}
	w := s.world
	e := w.Create()
	w.Positions.Set(e, ecs.Position{X: pos.X, Y: pos.Y})
	w.Projectiles.Set(e, ecs.Projectile{Direction: dir, Speed: s.cfg.Speed, SpawnTime: s.clock.Now()})
	w.Renderables.Set(e, ecs.Renderable{Image: s.image, Layer: s.cfg.Layer})
	w.Movables.Set(e, ecs.Tag{})
	return e
}

// Trigger handles the fire key for shooter. A shot is spawned when fire is
// held and no cooldown is running; the cooldown ends once Cooldown seconds
// have passed. It reports whether a shot was fired this frame.
func (s *System) Trigger(shooter ecs.Entity, input core.InputFrame) bool {
	a := s.world.Animations.Get(shooter)
	p := s.world.Positions.Get(shooter)
	if a == nil || p == nil {
		return false
	}
	now := s.clock.Now()

	if input.Has(core.KeyFire) && !a.Firing {
		a.Firing = true
		a.FiringSince = now
		s.Spawn(p.Vec(), int(a.Facing))
		return true
	}
	if a.Firing && now-a.FiringSince >= s.cfg.Cooldown {
		a.Firing = false
	}
	return false
}

// Update expires old projectiles, moves the rest by dt and resolves hits.
// It returns the number of enemies defeated.
func (s *System) Update(dt float64) int {
	w := s.world
	now := s.clock.Now()

	for _, e := range w.With(w.Positions, w.Projectiles) {
		pr := w.Projectiles.Get(e)
		if now-pr.SpawnTime >= s.cfg.Lifetime {
			w.Delete(e)
			continue
		}
		w.Positions.Get(e).X += float64(pr.Direction) * pr.Speed * dt
	}

	return s.resolveHits()
}

func (s *System) resolveHits() int {
	w := s.world
	defeated := 0
	enemies := w.With(w.Enemies, w.Positions, w.Renderables)

	for _, shot := range w.With(w.Positions, w.Projectiles) {
		box := core.CenteredRect(w.Positions.Get(shot).Vec(), s.cfg.Size, s.cfg.Size)
		for _, target := range enemies {
			if !w.Exists(target) {
				continue
			}
			bw, bh := s.cache.Size(w.Renderables.Get(target).Image)
			if !box.Intersects(core.CenteredRect(w.Positions.Get(target).Vec(), bw, bh)) {
				continue
			}
			w.Delete(target)
			w.Delete(shot)
			defeated++
			if s.sink != nil {
				s.sink.TargetDefeated(target)
			}
			break
		}
	}
	return defeated
}

// Active returns the number of live projectiles.
func (s *System) Active() int {
	return s.world.Projectiles.Len()
}
