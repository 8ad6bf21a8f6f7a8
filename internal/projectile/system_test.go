package projectile

import (
	"testing"

	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/sprite"
)

type recorder struct {
	defeated []ecs.Entity
}

func (r *recorder) TargetDefeated(e ecs.Entity) {
	r.defeated = append(r.defeated, e)
}

func newSystem(t *testing.T) (*System, *ecs.World, *core.SimClock, *recorder) {
	t.Helper()
	w := ecs.NewWorld()
	clock := core.NewSimClock(10)
	rec := &recorder{}
	return NewSystem(w, sprite.NewCache(), clock, rec, DefaultConfig()), w, clock, rec
}

func TestProjectileLifetime(t *testing.T) {
	tests := []struct {
		age   float64
		alive bool
	}{
		{0, true},
		{0.5, true},
		{0.999, true},
		{1.0, false},
		{1.5, false},
	}

	for _, tt := range tests {
		s, w, clock, _ := newSystem(t)
		e := s.Spawn(core.Vec{X: 0, Y: 0}, 1)

		clock.Advance(tt.age)
		s.Update(0)

		if got := w.Exists(e); got != tt.alive {
			t.Errorf("age %.3f: alive = %v, want %v", tt.age, got, tt.alive)
		}
	}
}

func TestProjectileMoves(t *testing.T) {
	s, w, clock, _ := newSystem(t)
	right := s.Spawn(core.Vec{X: 0, Y: 5}, 1)
	left := s.Spawn(core.Vec{X: 0, Y: 5}, -1)

	clock.Advance(0.1)
	s.Update(0.1)

	if x := w.Positions.Get(right).X; x != 20 {
		t.Errorf("right projectile x = %v, want 20", x)
	}
	if x := w.Positions.Get(left).X; x != -20 {
		t.Errorf("left projectile x = %v, want -20", x)
	}
	if y := w.Positions.Get(right).Y; y != 5 {
		t.Errorf("projectiles have no gravity, y = %v", y)
	}
}

func TestProjectileHitsEnemy(t *testing.T) {
	s, w, _, rec := newSystem(t)

	enemy := w.Create()
	w.Positions.Set(enemy, ecs.Position{X: 30, Y: 0})
	w.Renderables.Set(enemy, ecs.Renderable{Image: sprite.Solid("norris", 16, 16, 'N', core.ColorGray)})
	w.Enemies.Set(enemy, ecs.Tag{})

	shot := s.Spawn(core.Vec{X: 0, Y: 0}, 1)

	// 100px/frame: lands inside the enemy box on the first update.
	if n := s.Update(0.125); n != 1 {
		t.Fatalf("Update() defeated %d, want 1", n)
	}
	if w.Exists(enemy) || w.Exists(shot) {
		t.Error("enemy and projectile should both be deleted")
	}
	if len(rec.defeated) != 1 || rec.defeated[0] != enemy {
		t.Errorf("sink got %v, want [%d]", rec.defeated, enemy)
	}
}

func TestProjectileMissesAbove(t *testing.T) {
	s, w, _, rec := newSystem(t)

	enemy := w.Create()
	w.Positions.Set(enemy, ecs.Position{X: 10, Y: -40})
	w.Renderables.Set(enemy, ecs.Renderable{Image: sprite.Solid("peeves", 24, 24, 'P', core.ColorMagenta)})
	w.Enemies.Set(enemy, ecs.Tag{})

	s.Spawn(core.Vec{X: 0, Y: 0}, 1)
	s.Update(0.05)

	if !w.Exists(enemy) || len(rec.defeated) != 0 {
		t.Error("projectile should miss an enemy out of line")
	}
	if s.Active() != 1 {
		t.Errorf("Active() = %d, want 1", s.Active())
	}
}

func TestTriggerCooldown(t *testing.T) {
	s, w, clock, _ := newSystem(t)

	player := w.Create()
	w.Positions.Set(player, ecs.Position{X: 0, Y: 80})
	w.Animations.Set(player, ecs.Animation{Facing: ecs.FacingLeft})
	fire := core.NewInputFrame(core.KeyFire)

	if !s.Trigger(player, fire) {
		t.Fatal("first press should fire")
	}
	if !w.Animations.Get(player).Firing {
		t.Error("firing flag not set")
	}

	clock.Set(10.1)
	if s.Trigger(player, fire) {
		t.Error("fired during cooldown")
	}

	clock.Set(10.25)
	if s.Trigger(player, fire) {
		t.Error("the frame that ends the cooldown must not fire")
	}
	if w.Animations.Get(player).Firing {
		t.Error("cooldown should end after 0.25s")
	}

	if !s.Trigger(player, fire) {
		t.Error("should fire again after cooldown")
	}
	if s.Active() != 2 {
		t.Errorf("Active() = %d, want 2", s.Active())
	}

	for _, e := range w.Projectiles.Entities() {
		if d := w.Projectiles.Get(e).Direction; d != -1 {
			t.Errorf("projectile direction = %d, want facing -1", d)
		}
	}
}
