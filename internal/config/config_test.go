package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedBattleMatchesHardcoded(t *testing.T) {
	cfg, err := parseBattle(defaultBattleYAML)
	if err != nil {
		t.Fatalf("parseBattle(embedded) failed: %v", err)
	}
	if cfg != DefaultBattleConfig() {
		t.Errorf("embedded defaults drifted from DefaultBattleConfig():\n got %+v\nwant %+v", cfg, DefaultBattleConfig())
	}
}

func TestLoadBattleCustomPathPartial(t *testing.T) {
	p := filepath.Join(t.TempDir(), "battle.yaml")
	if err := os.WriteFile(p, []byte("physics:\n  gravity: 400\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBattle(p)
	if err != nil {
		t.Fatalf("LoadBattle() failed: %v", err)
	}
	if cfg.Physics.Gravity != 400 {
		t.Errorf("Gravity = %v, want 400", cfg.Physics.Gravity)
	}
	if cfg.Physics.MoveSpeed != 120 {
		t.Errorf("MoveSpeed = %v, want default 120", cfg.Physics.MoveSpeed)
	}
}

func TestLoadBattleCustomPathErrors(t *testing.T) {
	if _, err := LoadBattle(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("physics: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBattle(p); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestEmbeddedLevels(t *testing.T) {
	names := LevelNames()
	want := []string{"battle_1", "battle_2", "battle_3"}
	if len(names) != len(want) {
		t.Fatalf("LevelNames() = %v, want %v", names, want)
	}

	for i, name := range want {
		if names[i] != name {
			t.Errorf("LevelNames()[%d] = %q, want %q", i, names[i], name)
		}
		lvl, err := LoadLevel(name)
		if err != nil {
			t.Errorf("LoadLevel(%q) failed: %v", name, err)
			continue
		}
		if w, h := lvl.Size(); w != 20 || h != 14 {
			t.Errorf("%s size = %dx%d, want 20x14", name, w, h)
		}
		if len(lvl.Enemies) == 0 {
			t.Errorf("%s has no enemies", name)
		}
	}
}

func TestLoadLevelUnknown(t *testing.T) {
	_, err := LoadLevel("battle_99")
	if !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("LoadLevel(unknown) error = %v, want ErrUnknownLevel", err)
	}
}

func TestLevelValidate(t *testing.T) {
	tests := []struct {
		name    string
		lvl     Level
		wantErr bool
	}{
		{"ok", Level{TileSize: 16, Legend: map[string]string{"g": "grass"}, Grid: []string{"..", "gg"}}, false},
		{"ragged", Level{TileSize: 16, Legend: map[string]string{"g": "grass"}, Grid: []string{"...", "gg"}}, true},
		{"unknown rune", Level{TileSize: 16, Legend: map[string]string{"g": "grass"}, Grid: []string{"gx"}}, true},
		{"no tile size", Level{Grid: []string{".."}}, true},
		{"empty", Level{TileSize: 16}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lvl.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultBattleConfig()
	ApplyPreset(&cfg, DifficultyHard)
	if cfg.Enemy.SpeedScale != 1.5 {
		t.Errorf("hard SpeedScale = %v, want 1.5", cfg.Enemy.SpeedScale)
	}
	if cfg.Enemy.CloseDistance != 90 {
		t.Errorf("hard CloseDistance = %v, want 90", cfg.Enemy.CloseDistance)
	}

	normal := DefaultBattleConfig()
	ApplyPreset(&normal, DifficultyNormal)
	if normal != DefaultBattleConfig() {
		t.Error("normal preset should not change the config")
	}

	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("expected error for unknown preset")
	}
	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, %v", p, err)
	}
}

func TestLoadBattleRejectsBadTuning(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"infinite move speed", "physics:\n  move_speed: .inf\n", "physics.move_speed"},
		{"nan gravity", "physics:\n  gravity: .nan\n", "physics.gravity"},
		{"negative projectile speed", "projectile:\n  speed: -5\n", "projectile.speed"},
		{"infinite floor", "physics:\n  floor_y: -.inf\n", "physics.floor_y"},
		{"swapped bounds", "physics:\n  left_bound: 50\n  right_bound: -50\n", "left_bound"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "battle.yaml")
			if err := os.WriteFile(p, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadBattle(p)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadBattle() error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	// Huge but finite speeds are accepted; the resolver bounds each sweep.
	cfg := DefaultBattleConfig()
	cfg.Physics.MoveSpeed = 1e18
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() rejected a finite speed: %v", err)
	}
}
