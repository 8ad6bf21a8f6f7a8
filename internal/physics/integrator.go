// Package physics advances physics-affected entities one frame at a time.
//
// Each entity is either Grounded or Airborne. A jump leaves the ground, a
// downward collision lands, and sliding off a ledge during the horizontal
// move drops the entity back into the air. The per-entity order is fixed:
// horizontal move and bounds clamp, ground probe and jump, gravity, vertical
// move, floor clamp, frame selection.
package physics

import (
	"github.com/vovakirdan/poochi/internal/collision"
	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/sprite"
)

// Config holds the integration constants. Speeds are in px/s.
type Config struct {
	Gravity      float64
	JumpStrength float64
	MoveSpeed    float64
	MaxFallSpeed float64
	FloorY       float64
	LeftBound    float64
	RightBound   float64
	AnimInterval float64 // seconds between walk frames
	SlowFactor   float64 // horizontal multiplier on slow terrain
}

// DefaultConfig returns the standalone integrator defaults. Battle scenes
// override the jump strength.
func DefaultConfig() Config {
	return Config{
		Gravity:      200,
		JumpStrength: 120,
		MoveSpeed:    120,
		MaxFallSpeed: 300,
		FloorY:       80,
		LeftBound:    -140,
		RightBound:   140,
		AnimInterval: 0.15,
		SlowFactor:   0.5,
	}
}

// Integrator moves every entity carrying Position, Motion and the
// PhysicsAffected marker.
type Integrator struct {
	cfg      Config
	world    *ecs.World
	resolver *collision.Resolver
	cache    *sprite.Cache
}

// New creates an integrator over w.
func New(w *ecs.World, resolver *collision.Resolver, cache *sprite.Cache, cfg Config) *Integrator {
	return &Integrator{cfg: cfg, world: w, resolver: resolver, cache: cache}
}

// Config returns the active configuration.
func (in *Integrator) Config() Config {
	return in.cfg
}

// Update advances one frame. now is the clock time of the frame and dt its
// length in seconds.
func (in *Integrator) Update(input core.InputFrame, now, dt float64) {
	w := in.world
	for _, e := range w.With(w.Positions, w.Motions, w.PhysicsAffected) {
		switch w.Role(e) {
		case ecs.RolePlayer:
			in.step(e, in.playerIntent(e, input, now, dt), dt)
			in.selectFrame(e)
		case ecs.RoleEnemy:
			in.step(e, in.enemyIntent(e, dt), dt)
		default:
			in.step(e, intent{}, dt)
		}
	}
}

// intent is what an entity wants to do this frame.
type intent struct {
	dx   float64
	jump float64 // jump strength, 0 for no jump
}

func (in *Integrator) playerIntent(e ecs.Entity, input core.InputFrame, now, dt float64) intent {
	var it intent
	if dir := input.Horizontal(); dir != 0 {
		it.dx = float64(dir) * in.cfg.MoveSpeed * dt
		if a := in.world.Animations.Get(e); a != nil {
			if dir < 0 {
				a.Facing = ecs.FacingLeft
			} else {
				a.Facing = ecs.FacingRight
			}
			in.animate(a, now)
		}
	}
	if input.Has(core.KeyJump) {
		it.jump = in.cfg.JumpStrength
	}
	return it
}

func (in *Integrator) enemyIntent(e ecs.Entity, dt float64) intent {
	ai := in.world.EnemyAIs.Get(e)
	if ai == nil {
		return intent{}
	}
	it := intent{dx: float64(ai.MoveDirection) * ai.MoveSpeed * dt}
	if ai.WantsJump {
		it.jump = ai.JumpStrength
		ai.WantsJump = false
	}
	return it
}

// animate advances the walk cycle when the frame interval has elapsed.
func (in *Integrator) animate(a *ecs.Animation, now float64) {
	if now-a.LastFrameTime <= in.cfg.AnimInterval {
		return
	}
	n := len(a.Sprites[ecs.FrameKey{Pose: ecs.PoseWalk, Facing: a.Facing}])
	if n < 2 {
		n = 2
	}
	a.Frame = (a.Frame + 1) % n
	a.LastFrameTime = now
}

// dims returns the collision box size of e. Characters use their base walk
// frame so that wider poses do not change the body.
func (in *Integrator) dims(e ecs.Entity) (int, int) {
	if a := in.world.Animations.Get(e); a != nil {
		if img := a.Sprites.Base(a.Facing); img != nil {
			return in.cache.Size(img)
		}
	}
	if r := in.world.Renderables.Get(e); r != nil {
		return in.cache.Size(r.Image)
	}
	return 0, 0
}

func (in *Integrator) step(e ecs.Entity, it intent, dt float64) {
	p := in.world.Positions.Get(e)
	m := in.world.Motions.Get(e)
	bw, bh := in.dims(e)
	pos := p.Vec()

	// (1) horizontal
	if it.dx != 0 {
		if kind, ok := in.resolver.GroundKind(pos, bw, bh); ok && kind == ecs.TerrainSlow {
			it.dx *= in.cfg.SlowFactor
		}
		pos, _ = in.resolver.MoveAxis(pos, bw, bh, it.dx, true)
	}
	pos.X = core.ClampF(pos.X, in.cfg.LeftBound, in.cfg.RightBound)

	// (2) ground probe, jump
	m.OnGround = in.resolver.CheckOnGround(pos, bw, bh)
	if it.jump > 0 && m.OnGround {
		m.VelocityY = -it.jump
		m.OnGround = false
	}

	// (3) gravity
	m.VelocityY += in.cfg.Gravity * dt
	if m.VelocityY > in.cfg.MaxFallSpeed {
		m.VelocityY = in.cfg.MaxFallSpeed
	}

	// (4) vertical
	if dy := m.VelocityY * dt; dy != 0 {
		var hit bool
		pos, hit = in.resolver.MoveAxis(pos, bw, bh, dy, false)
		if hit {
			m.VelocityY = 0
		}
	}

	// (5) floor
	if pos.Y >= in.cfg.FloorY {
		pos.Y = in.cfg.FloorY
		m.VelocityY = 0
	}

	m.OnGround = in.resolver.CheckOnGround(pos, bw, bh)
	p.X, p.Y = pos.X, pos.Y
}

// selectFrame picks the visible frame (6): fire while the cooldown runs,
// jump while airborne, walk otherwise.
func (in *Integrator) selectFrame(e ecs.Entity) {
	a := in.world.Animations.Get(e)
	r := in.world.Renderables.Get(e)
	if a == nil || r == nil {
		return
	}

	pose := ecs.PoseWalk
	switch {
	case a.Firing:
		pose = ecs.PoseFire
	case !in.world.Motions.Get(e).OnGround:
		pose = ecs.PoseJump
	}

	key := ecs.FrameKey{Pose: pose, Facing: a.Facing}
	if strip := a.Sprites[key]; len(strip) > 0 && a.Frame >= len(strip) {
		a.Frame = 0
	}
	if img := a.Sprites.Frame(key, a.Frame); img != nil {
		r.Image = img
	}
}
