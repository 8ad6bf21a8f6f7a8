package enemy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/sprite"
)

type sink struct{ got []ecs.Entity }

func (s *sink) TargetDefeated(e ecs.Entity) { s.got = append(s.got, e) }

func spawnEnemy(w *ecs.World, x, y float64, ai ecs.EnemyAI) ecs.Entity {
	e := w.Create()
	w.Positions.Set(e, ecs.Position{X: x, Y: y})
	w.Renderables.Set(e, ecs.Renderable{Image: sprite.Solid("enemy", 16, 16, 'E', core.ColorRed), Layer: 2})
	w.Enemies.Set(e, ecs.Tag{})
	w.EnemyAIs.Set(e, ai)
	return e
}

func spawnPlayer(w *ecs.World, x, y float64) ecs.Entity {
	e := w.Create()
	w.Positions.Set(e, ecs.Position{X: x, Y: y})
	w.Renderables.Set(e, ecs.Renderable{Image: sprite.Solid("player", 15, 32, '@', core.ColorYellow)})
	w.Players.Set(e, ecs.Tag{})
	return e
}

func TestPatrolTurnsAtBoundaries(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnEnemy(w, 95, -60, ecs.EnemyAI{MoveDirection: 1, MoveSpeed: 100, LeftBoundary: -100, RightBoundary: 100})
	s := NewSystem(w, sprite.NewCache(), nil, DefaultConfig())

	s.Update(0, 0.1)
	assert.Equal(t, 100.0, w.Positions.Get(e).X)
	assert.Equal(t, -1, w.EnemyAIs.Get(e).MoveDirection)

	s.Update(0.1, 0.1)
	assert.Equal(t, 90.0, w.Positions.Get(e).X)
}

func TestPhysicsEnemyNotMovedHere(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnEnemy(w, 0, 80, ecs.EnemyAI{MoveDirection: 1, MoveSpeed: 100, LeftBoundary: -100, RightBoundary: 100})
	w.PhysicsAffected.Set(e, ecs.Tag{})
	w.Motions.Set(e, ecs.Motion{OnGround: true})

	NewSystem(w, sprite.NewCache(), nil, DefaultConfig()).Update(0, 0.1)
	assert.Zero(t, w.Positions.Get(e).X)
}

func TestFleeAndHop(t *testing.T) {
	w := ecs.NewWorld()
	spawnPlayer(w, 0, 80)
	e := spawnEnemy(w, 50, 80, ecs.EnemyAI{MoveDirection: -1, MoveSpeed: 60, LeftBoundary: -140, RightBoundary: 140, Flees: true})
	w.PhysicsAffected.Set(e, ecs.Tag{})
	w.Motions.Set(e, ecs.Motion{OnGround: true})

	NewSystem(w, sprite.NewCache(), nil, DefaultConfig()).Update(0, 0.1)

	ai := w.EnemyAIs.Get(e)
	assert.Equal(t, 1, ai.MoveDirection, "runs away from the player")
	assert.True(t, ai.WantsJump)
	assert.Equal(t, 130.0, ai.JumpStrength)
	assert.Zero(t, w.Positions.Get(e).Z, "physics enemies jump for real")
}

func TestFlyingEnemyHopsVisually(t *testing.T) {
	w := ecs.NewWorld()
	spawnPlayer(w, 0, 80)
	e := spawnEnemy(w, 50, 80, ecs.EnemyAI{MoveDirection: -1, MoveSpeed: 60, LeftBoundary: -140, RightBoundary: 140, Flees: true})
	s := NewSystem(w, sprite.NewCache(), nil, DefaultConfig())

	s.Update(0, 0.1)
	pos := w.Positions.Get(e)
	assert.InDelta(t, 13.0, pos.Z, 1e-9, "hop starts at the flee jump speed")
	assert.Equal(t, 80.0, pos.Y, "the hop never moves the collision position")

	peak := pos.Z
	for i := 1; i < 30; i++ {
		s.Update(float64(i)*0.1, 0.1)
		peak = max(peak, pos.Z)
	}
	assert.Greater(t, peak, 13.0)
	assert.Zero(t, pos.Z, "lands again")
	assert.Zero(t, w.EnemyAIs.Get(e).HopVelocity)
}

func TestFleeingEnemyPinnedAtEdge(t *testing.T) {
	w := ecs.NewWorld()
	spawnPlayer(w, 0, 80)
	e := spawnEnemy(w, 141, 80, ecs.EnemyAI{MoveDirection: 1, MoveSpeed: 60, LeftBoundary: -140, RightBoundary: 140, Flees: true})
	w.PhysicsAffected.Set(e, ecs.Tag{})
	w.Motions.Set(e, ecs.Motion{})

	NewSystem(w, sprite.NewCache(), nil, DefaultConfig()).Update(0, 0.1)

	assert.Equal(t, 140.0, w.Positions.Get(e).X)
	assert.Equal(t, 1, w.EnemyAIs.Get(e).MoveDirection, "does not turn back toward the player")
	assert.False(t, w.EnemyAIs.Get(e).WantsJump, "airborne enemies do not hop")
}

func TestCaughtByTouch(t *testing.T) {
	w := ecs.NewWorld()
	spawnPlayer(w, 0, 80)
	e := spawnEnemy(w, 10, 80, ecs.EnemyAI{MoveDirection: 1, MoveSpeed: 60, LeftBoundary: -140, RightBoundary: 140, Flees: true})
	rec := &sink{}

	n := NewSystem(w, sprite.NewCache(), rec, DefaultConfig()).Update(0, 0.1)

	require.Equal(t, 1, n)
	assert.False(t, w.Exists(e))
	assert.Equal(t, []ecs.Entity{e}, rec.got)
}

func TestPatrollersAreNotCaught(t *testing.T) {
	w := ecs.NewWorld()
	spawnPlayer(w, 0, 80)
	e := spawnEnemy(w, 0, 80, ecs.EnemyAI{MoveDirection: 1, MoveSpeed: 10, LeftBoundary: -140, RightBoundary: 140})

	n := NewSystem(w, sprite.NewCache(), nil, DefaultConfig()).Update(0, 0.1)
	assert.Zero(t, n)
	assert.True(t, w.Exists(e))
}

func TestAnimationFollowsDirection(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnEnemy(w, 0, 0, ecs.EnemyAI{MoveDirection: -1, MoveSpeed: 10, LeftBoundary: -100, RightBoundary: 100})
	left := []*sprite.Image{sprite.Solid("l0", 16, 16, 'l', 0), sprite.Solid("l1", 16, 16, 'L', 0)}
	right := []*sprite.Image{sprite.Solid("r0", 16, 16, 'r', 0), sprite.Solid("r1", 16, 16, 'R', 0)}
	w.Animations.Set(e, ecs.Animation{Sprites: ecs.SpriteSet{
		{Pose: ecs.PoseWalk, Facing: ecs.FacingLeft}:  left,
		{Pose: ecs.PoseWalk, Facing: ecs.FacingRight}: right,
	}})
	s := NewSystem(w, sprite.NewCache(), nil, DefaultConfig())

	s.Update(0.1, 0.01)
	assert.Same(t, left[0], w.Renderables.Get(e).Image)

	s.Update(0.2, 0.01)
	assert.Same(t, left[1], w.Renderables.Get(e).Image)

	w.EnemyAIs.Get(e).MoveDirection = 1
	s.Update(0.25, 0.01)
	assert.Same(t, right[1], w.Renderables.Get(e).Image)
}
