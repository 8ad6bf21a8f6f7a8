// Package config provides YAML-based battle configuration and level
// loading with embedded defaults.
package config

// BattleConfig contains all tuning for a battle scene.
type BattleConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Enemy      EnemyConfig      `yaml:"enemy"`
	Camera     CameraConfig     `yaml:"camera"`
	Index      IndexConfig      `yaml:"index"`
	Render     RenderConfig     `yaml:"render"`
	Battle     BattleRules      `yaml:"battle"`
}

// PhysicsConfig defines the integrator constants. Speeds are px/s.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`
	JumpStrength float64 `yaml:"jump_strength"`
	MoveSpeed    float64 `yaml:"move_speed"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	FloorY       float64 `yaml:"floor_y"`
	LeftBound    float64 `yaml:"left_bound"`
	RightBound   float64 `yaml:"right_bound"`
	AnimInterval float64 `yaml:"anim_interval"`
	SlowFactor   float64 `yaml:"slow_factor"` // horizontal multiplier on slow terrain
}

// ProjectileConfig defines the player's shots.
type ProjectileConfig struct {
	Speed    float64 `yaml:"speed"`
	Lifetime float64 `yaml:"lifetime"`
	Size     int     `yaml:"size"`
	Layer    int     `yaml:"layer"`
	Cooldown float64 `yaml:"cooldown"`
}

// EnemyConfig defines enemy behaviour.
type EnemyConfig struct {
	FleeJump      float64 `yaml:"flee_jump"`
	CloseDistance float64 `yaml:"close_distance"`
	SpeedScale    float64 `yaml:"speed_scale"` // multiplies every level's enemy speed
}

// CameraConfig defines the battle camera.
type CameraConfig struct {
	Zoom            float64 `yaml:"zoom"`
	InnerRectFactor float64 `yaml:"inner_rect_factor"`
	SlideTime       float64 `yaml:"slide_time"`
	StartX          float64 `yaml:"start_x"`
	StartY          float64 `yaml:"start_y"`
	FollowPlayer    bool    `yaml:"follow_player"`
}

// IndexConfig defines the spatial index and culling switches.
type IndexConfig struct {
	Enabled  bool    `yaml:"enabled"`
	FineCull bool    `yaml:"fine_cull"`
	Capacity int     `yaml:"capacity"`
	MaxDepth int     `yaml:"max_depth"`
	Extent   float64 `yaml:"extent"` // half size of the square root boundary
}

// RenderConfig maps world pixels to terminal cells.
type RenderConfig struct {
	CellWidth  int `yaml:"cell_width"`  // world pixels per column
	CellHeight int `yaml:"cell_height"` // world pixels per row
}

// BattleRules defines how a battle ends.
type BattleRules struct {
	EndDelay float64 `yaml:"end_delay"` // seconds between the last defeat and the switch
}

// Level describes one battle arena.
type Level struct {
	Name     string            `yaml:"name"`
	TileSize int               `yaml:"tile_size"`
	Legend   map[string]string `yaml:"legend"` // grid rune -> terrain kind
	Grid     []string          `yaml:"grid"`
	Player   SpawnConfig       `yaml:"player"`
	Enemies  []EnemySpawn      `yaml:"enemies"`
}

// SpawnConfig is a world position.
type SpawnConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// EnemySpawn describes one enemy of a level.
type EnemySpawn struct {
	Kind          string  `yaml:"kind"` // sprite name
	X             float64 `yaml:"x"`
	Y             float64 `yaml:"y"`
	Speed         float64 `yaml:"speed"`
	Direction     int     `yaml:"direction"`
	LeftBoundary  float64 `yaml:"left_boundary"`
	RightBoundary float64 `yaml:"right_boundary"`
	Flees         bool    `yaml:"flees"`
	Physics       bool    `yaml:"physics"` // falls and collides instead of flying
}
