package ecs

import (
	"fmt"

	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/sprite"
)

// Position is the world-space location of an entity. Z is a purely visual
// vertical offset, the hop height of a flying enemy, and takes no part in
// collision.
type Position struct {
	X, Y, Z float64
}

// Vec returns the collision-relevant part of the position.
func (p Position) Vec() core.Vec {
	return core.Vec{X: p.X, Y: p.Y}
}

// Motion is the vertical motion state of a physics-affected entity.
type Motion struct {
	VelocityY float64 // px/s, positive is down
	OnGround  bool
}

// Renderable is the current visual frame and its draw layer.
// Image may be nil; the entity is then skipped at draw time.
type Renderable struct {
	Image *sprite.Image
	Layer int
}

// TerrainKind tags static tiles.
type TerrainKind int

const (
	TerrainSolid    TerrainKind = iota // blocks movement
	TerrainPassable                    // drawn but never blocks
	TerrainSlow                        // blocks, and slows walkers standing on it
	TerrainLedge                       // blocks; a floating platform
)

func (k TerrainKind) String() string {
	switch k {
	case TerrainSolid:
		return "solid"
	case TerrainPassable:
		return "passable"
	case TerrainSlow:
		return "slow"
	case TerrainLedge:
		return "ledge"
	default:
		return fmt.Sprintf("TerrainKind(%d)", int(k))
	}
}

// ParseTerrainKind maps a level-file name to a terrain kind.
func ParseTerrainKind(s string) (TerrainKind, error) {
	switch s {
	case "solid", "grass":
		return TerrainSolid, nil
	case "passable", "decor":
		return TerrainPassable, nil
	case "slow", "mud":
		return TerrainSlow, nil
	case "ledge":
		return TerrainLedge, nil
	default:
		return 0, fmt.Errorf("ecs: unknown terrain kind %q", s)
	}
}

// Terrain marks a static tile.
type Terrain struct {
	Kind TerrainKind
}

// Projectile is a kinematic body moving horizontally without gravity.
type Projectile struct {
	Direction int // -1 or +1
	Speed     float64
	SpawnTime float64
}

// Facing is the horizontal direction a character looks at.
type Facing int

const (
	FacingLeft  Facing = -1
	FacingRight Facing = 1
)

// Pose selects which animation strip a character shows.
type Pose int

const (
	PoseWalk Pose = iota // also used while idle
	PoseJump
	PoseFire
)

// FrameKey indexes a SpriteSet.
type FrameKey struct {
	Pose   Pose
	Facing Facing
}

// SpriteSet holds the animation strips of a character.
type SpriteSet map[FrameKey][]*sprite.Image

// Frame returns frame i of the strip, wrapping to 0 when out of range.
// The walk strip is the fallback when a pose has no frames.
func (s SpriteSet) Frame(key FrameKey, i int) *sprite.Image {
	strip := s[key]
	if len(strip) == 0 {
		strip = s[FrameKey{Pose: PoseWalk, Facing: key.Facing}]
	}
	if len(strip) == 0 {
		return nil
	}
	if i < 0 || i >= len(strip) {
		i = 0
	}
	return strip[i]
}

// Base returns the first walk frame for facing. Collision dimensions are
// taken from it so that wider poses (firing) do not change the body size.
func (s SpriteSet) Base(f Facing) *sprite.Image {
	return s.Frame(FrameKey{Pose: PoseWalk, Facing: f}, 0)
}

// Animation is the visual-frame state of a character.
type Animation struct {
	Sprites       SpriteSet
	Facing        Facing
	Frame         int
	LastFrameTime float64
	Firing        bool
	FiringSince   float64
}

// EnemyAI drives an enemy's horizontal intent.
type EnemyAI struct {
	MoveDirection int     // -1 or +1
	MoveSpeed     float64 // px/s
	LeftBoundary  float64
	RightBoundary float64
	Flees         bool    // runs from the player and hops when close
	JumpStrength  float64 // used when WantsJump is set
	WantsJump     bool    // consumed by the physics integrator
	HopVelocity   float64 // upward px/s of a flying enemy's visual hop
}

// Tag is an empty marker component.
type Tag struct{}
