// Package enemy drives enemy intent: patrolling between two boundaries,
// fleeing from the player with a hop when cornered, and being caught by
// touch.
//
// Physics-affected enemies only set their intent here; the physics
// integrator moves them. Other enemies fly and are moved directly.
package enemy

import (
	"math"

	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/projectile"
	"github.com/vovakirdan/poochi/internal/sprite"
)

// Config holds enemy behaviour tuning.
type Config struct {
	FleeJump      float64 // jump strength of a cornered fleeing enemy
	CloseDistance float64 // horizontal distance that triggers the hop
	HopGravity    float64 // pulls a flying enemy's visual hop back down
	AnimInterval  float64
}

// DefaultConfig returns the battle defaults.
func DefaultConfig() Config {
	return Config{
		FleeJump:      130,
		CloseDistance: 60,
		HopGravity:    200,
		AnimInterval:  0.15,
	}
}

// System updates every entity carrying Enemy, Position and EnemyAI.
type System struct {
	cfg   Config
	world *ecs.World
	cache *sprite.Cache
	sink  projectile.OutcomeSink
}

// NewSystem creates an enemy system. sink may be nil.
func NewSystem(w *ecs.World, cache *sprite.Cache, sink projectile.OutcomeSink, cfg Config) *System {
	return &System{cfg: cfg, world: w, cache: cache, sink: sink}
}

// Update advances enemy AI by one frame and returns how many enemies were
// caught by the player this frame.
func (s *System) Update(now, dt float64) int {
	w := s.world

	var player *ecs.Position
	var playerBox core.Rect
	if pe, ok := w.Player(); ok {
		if player = w.Positions.Get(pe); player != nil {
			playerBox = s.bodyBox(pe, player)
		}
	}

	caught := 0
	for _, e := range w.With(w.Enemies, w.Positions, w.EnemyAIs) {
		pos := w.Positions.Get(e)
		ai := w.EnemyAIs.Get(e)

		if ai.Flees && player != nil {
			s.flee(e, ai, pos, player)
			if s.touching(e, pos, playerBox) {
				w.Delete(e)
				caught++
				if s.sink != nil {
					s.sink.TargetDefeated(e)
				}
				continue
			}
		}

		if !w.PhysicsAffected.Has(e) {
			pos.X += float64(ai.MoveDirection) * ai.MoveSpeed * dt
			s.hop(ai, pos, dt)
		}
		s.bound(ai, pos, player)
		s.animate(e, ai, now)
	}
	return caught
}

// flee points the enemy away from the player and hops when the player gets
// close: grounded physics enemies ask the integrator for a jump, flying
// enemies start a visual hop.
func (s *System) flee(e ecs.Entity, ai *ecs.EnemyAI, pos, player *ecs.Position) {
	if player.X < pos.X {
		ai.MoveDirection = 1
	} else {
		ai.MoveDirection = -1
	}

	near := math.Abs(player.X-pos.X) <= s.cfg.CloseDistance

	m := s.world.Motions.Get(e)
	if m == nil {
		// Flying enemies hop visually, one hop at a time.
		if near && pos.Z == 0 && ai.HopVelocity == 0 {
			ai.HopVelocity = s.cfg.FleeJump
		}
		return
	}
	if !m.OnGround {
		return
	}
	if near {
		ai.WantsJump = true
		if ai.JumpStrength == 0 {
			ai.JumpStrength = s.cfg.FleeJump
		}
	}
}

// hop advances the visual hop height Z and lands it back at zero.
func (s *System) hop(ai *ecs.EnemyAI, pos *ecs.Position, dt float64) {
	if ai.HopVelocity == 0 && pos.Z == 0 {
		return
	}
	g := s.cfg.HopGravity
	if g <= 0 {
		g = DefaultConfig().HopGravity
	}
	pos.Z += ai.HopVelocity * dt
	ai.HopVelocity -= g * dt
	if pos.Z <= 0 {
		pos.Z = 0
		ai.HopVelocity = 0
	}
}

// bound clamps the enemy to its patrol range and turns it around, except
// when a fleeing enemy is pinned against the edge by the player.
func (s *System) bound(ai *ecs.EnemyAI, pos, player *ecs.Position) {
	pinned := func(playerSide float64) bool {
		return ai.Flees && player != nil && playerSide*(player.X-pos.X) > 0
	}
	switch {
	case pos.X >= ai.RightBoundary:
		pos.X = ai.RightBoundary
		if !pinned(-1) {
			ai.MoveDirection = -1
		}
	case pos.X <= ai.LeftBoundary:
		pos.X = ai.LeftBoundary
		if !pinned(1) {
			ai.MoveDirection = 1
		}
	}
}

func (s *System) animate(e ecs.Entity, ai *ecs.EnemyAI, now float64) {
	a := s.world.Animations.Get(e)
	if a == nil {
		return
	}
	if ai.MoveDirection > 0 {
		a.Facing = ecs.FacingRight
	} else {
		a.Facing = ecs.FacingLeft
	}
	if now-a.LastFrameTime > s.cfg.AnimInterval {
		a.Frame = 1 - a.Frame
		a.LastFrameTime = now
	}

	key := ecs.FrameKey{Pose: ecs.PoseWalk, Facing: a.Facing}
	if a.Frame >= len(a.Sprites[key]) {
		a.Frame = 0
	}
	if r := s.world.Renderables.Get(e); r != nil {
		if img := a.Sprites.Frame(key, a.Frame); img != nil {
			r.Image = img
		}
	}
}

// touching tests the enemy's full image box against the player's body.
func (s *System) touching(e ecs.Entity, pos *ecs.Position, playerBox core.Rect) bool {
	r := s.world.Renderables.Get(e)
	if r == nil || r.Image == nil {
		return false
	}
	box := core.CenteredRect(pos.Vec(), r.Image.W, r.Image.H)
	return box.Intersects(playerBox)
}

// bodyBox returns the collision box of a character from its base frame.
func (s *System) bodyBox(e ecs.Entity, pos *ecs.Position) core.Rect {
	var img *sprite.Image
	if a := s.world.Animations.Get(e); a != nil {
		img = a.Sprites.Base(a.Facing)
	}
	if img == nil {
		if r := s.world.Renderables.Get(e); r != nil {
			img = r.Image
		}
	}
	w, h := s.cache.Size(img)
	return core.CenteredRect(pos.Vec(), w, h)
}
