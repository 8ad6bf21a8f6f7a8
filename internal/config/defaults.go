package config

import (
	"embed"
)

//go:embed defaults/battle.yaml
var defaultBattleYAML []byte

//go:embed levels/*.yaml
var levelFS embed.FS

// DefaultBattleConfig returns the hardcoded battle configuration, used when
// no YAML source can be read.
func DefaultBattleConfig() BattleConfig {
	return BattleConfig{
		Physics: PhysicsConfig{
			Gravity:      200,
			JumpStrength: 200,
			MoveSpeed:    120,
			MaxFallSpeed: 300,
			FloorY:       80,
			LeftBound:    -140,
			RightBound:   140,
			AnimInterval: 0.15,
			SlowFactor:   0.5,
		},
		Projectile: ProjectileConfig{
			Speed:    200,
			Lifetime: 1.0,
			Size:     8,
			Layer:    1,
			Cooldown: 0.25,
		},
		Enemy: EnemyConfig{
			FleeJump:      130,
			CloseDistance: 60,
			SpeedScale:    1.0,
		},
		Camera: CameraConfig{
			Zoom:            1.0,
			InnerRectFactor: 1.0,
			SlideTime:       0.5,
			StartX:          0,
			StartY:          30,
			FollowPlayer:    true,
		},
		Index: IndexConfig{
			Enabled:  true,
			FineCull: true,
			Capacity: 10,
			MaxDepth: 5,
			Extent:   512,
		},
		Render: RenderConfig{
			CellWidth:  4,
			CellHeight: 8,
		},
		Battle: BattleRules{
			EndDelay: 1.0,
		},
	}
}
