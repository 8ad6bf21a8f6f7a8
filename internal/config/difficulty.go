package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// presetScaling is how much a preset changes the loaded configuration.
type presetScaling struct {
	enemySpeed    float64 // multiplier
	cooldown      float64 // multiplier
	closeDistance float64 // multiplier
}

var presets = map[DifficultyPreset]presetScaling{
	DifficultyEasy:   {enemySpeed: 0.75, cooldown: 0.6, closeDistance: 0.75},
	DifficultyNormal: {enemySpeed: 1.0, cooldown: 1.0, closeDistance: 1.0},
	DifficultyHard:   {enemySpeed: 1.5, cooldown: 1.6, closeDistance: 1.5},
}

// ApplyPreset modifies the config based on a difficulty preset.
// Unknown presets leave the config unchanged.
func ApplyPreset(cfg *BattleConfig, preset DifficultyPreset) {
	s, ok := presets[preset]
	if !ok {
		return
	}
	cfg.Enemy.SpeedScale *= s.enemySpeed
	cfg.Enemy.CloseDistance *= s.closeDistance
	cfg.Projectile.Cooldown *= s.cooldown
}
