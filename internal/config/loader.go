package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownLevel is returned when no source provides the requested level.
var ErrUnknownLevel = errors.New("unknown level")

// LoadBattle loads battle configuration.
// Search order: customPath -> ~/.poochi/configs/battle.yaml -> ./configs/battle.yaml -> embedded default
func LoadBattle(customPath string) (BattleConfig, error) {
	var cfg BattleConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if cfg, err = parseBattle(data); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("configs", "battle.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseBattle(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/battle.yaml"); err == nil {
		if cfg, err := parseBattle(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseBattle(defaultBattleYAML)
	if err != nil {
		return DefaultBattleConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseBattle decodes YAML over the hardcoded defaults, so a partial file
// only overrides the keys it names.
func parseBattle(data []byte) (BattleConfig, error) {
	cfg := DefaultBattleConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects non-finite tuning and negative speeds, which would stall
// or reverse the simulation.
func (c BattleConfig) Validate() error {
	finite := []struct {
		name string
		v    float64
	}{
		{"physics.floor_y", c.Physics.FloorY},
		{"physics.left_bound", c.Physics.LeftBound},
		{"physics.right_bound", c.Physics.RightBound},
		{"projectile.lifetime", c.Projectile.Lifetime},
		{"projectile.cooldown", c.Projectile.Cooldown},
		{"camera.start_x", c.Camera.StartX},
		{"camera.start_y", c.Camera.StartY},
	}
	for _, f := range finite {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite, got %v", f.name, f.v)
		}
	}

	speeds := []struct {
		name string
		v    float64
	}{
		{"physics.gravity", c.Physics.Gravity},
		{"physics.jump_strength", c.Physics.JumpStrength},
		{"physics.move_speed", c.Physics.MoveSpeed},
		{"physics.max_fall_speed", c.Physics.MaxFallSpeed},
		{"physics.slow_factor", c.Physics.SlowFactor},
		{"projectile.speed", c.Projectile.Speed},
		{"enemy.flee_jump", c.Enemy.FleeJump},
		{"enemy.speed_scale", c.Enemy.SpeedScale},
	}
	for _, f := range speeds {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%s must be a finite non-negative number, got %v", f.name, f.v)
		}
	}
	if c.Physics.LeftBound > c.Physics.RightBound {
		return fmt.Errorf("physics.left_bound %v is right of right_bound %v", c.Physics.LeftBound, c.Physics.RightBound)
	}
	return nil
}

// LoadLevel loads a battle level by name (e.g. "battle_1").
// Search order: ~/.poochi/levels/<name>.yaml -> ./configs/levels/<name>.yaml -> embedded level
func LoadLevel(name string) (Level, error) {
	file := name + ".yaml"

	if p := userConfigPath("levels", file); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			return parseLevel(p, data)
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "levels", file)); err == nil {
		return parseLevel(file, data)
	}

	data, err := levelFS.ReadFile(path.Join("levels", file))
	if err != nil {
		return Level{}, fmt.Errorf("%w: %s", ErrUnknownLevel, name)
	}
	return parseLevel(file, data)
}

// LevelNames returns the names of the embedded levels, sorted.
func LevelNames() []string {
	entries, err := fs.ReadDir(levelFS, "levels")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func parseLevel(src string, data []byte) (Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return lvl, fmt.Errorf("failed to parse level %s: %w", src, err)
	}
	if err := lvl.Validate(); err != nil {
		return lvl, fmt.Errorf("invalid level %s: %w", src, err)
	}
	return lvl, nil
}

// Validate checks that the grid is rectangular and every rune is either
// empty ('.' or ' ') or named in the legend.
func (l Level) Validate() error {
	if l.TileSize <= 0 {
		return errors.New("tile_size must be positive")
	}
	if len(l.Grid) == 0 {
		return errors.New("empty grid")
	}
	width := len([]rune(l.Grid[0]))
	for y, row := range l.Grid {
		runes := []rune(row)
		if len(runes) != width {
			return fmt.Errorf("row %d has %d columns, want %d", y, len(runes), width)
		}
		for x, r := range runes {
			if r == '.' || r == ' ' {
				continue
			}
			if _, ok := l.Legend[string(r)]; !ok {
				return fmt.Errorf("row %d col %d: rune %q not in legend", y, x, r)
			}
		}
	}
	return nil
}

// Size returns the grid size in tiles.
func (l Level) Size() (w, h int) {
	if len(l.Grid) == 0 {
		return 0, 0
	}
	return len([]rune(l.Grid[0])), len(l.Grid)
}

// userConfigPath returns the path to a user file, or empty if home is unavailable.
func userConfigPath(dir, filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".poochi", dir, filename)
}
