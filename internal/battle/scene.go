// Package battle assembles a side-view battle from a level grid and runs the
// frame pipeline: fire trigger, physics, enemy AI, projectiles, index sync,
// camera, and finally the draw list rendered into terminal cells.
package battle

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/poochi/internal/collision"
	"github.com/vovakirdan/poochi/internal/config"
	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/enemy"
	"github.com/vovakirdan/poochi/internal/physics"
	"github.com/vovakirdan/poochi/internal/projectile"
	"github.com/vovakirdan/poochi/internal/registry"
	"github.com/vovakirdan/poochi/internal/sprite"
	"github.com/vovakirdan/poochi/internal/visibility"
)

// Draw layers.
const (
	LayerTerrain = 0
	LayerEnemy   = 2
	LayerPlayer  = 3
)

const hudRows = 1

// Set via CLI before scenes are created.
var (
	configPath string
	difficulty = config.DifficultyNormal
	logger     = log.New(io.Discard)
)

// SetConfigPath sets the custom battle config path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the preset applied on every Reset.
func SetDifficultyPreset(p config.DifficultyPreset) {
	difficulty = p
}

// SetLogger sets the logger new scenes write to.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Scene is one battle. It implements registry.Game and receives defeat
// events from the projectile and enemy systems.
type Scene struct {
	id        string
	levelName string

	log        *log.Logger
	controller Controller

	cfg   config.BattleConfig
	level config.Level
	art   *Art

	world    *ecs.World
	cache    *sprite.Cache
	clock    *core.SimClock
	resolver *collision.Resolver
	physics  *physics.Integrator
	shots    *projectile.System
	enemies  *enemy.System
	view     *visibility.Engine
	raster   raster
	player   ecs.Entity

	indexedTerrain bool // every terrain tile made it into the index

	targets   int
	defeated  int
	cleared   bool
	clearedAt float64
	over      bool
	reason    SwitchReason
	err       error
}

// New creates a scene for the named level. Nothing is loaded until Reset.
func New(levelName string) *Scene {
	return &Scene{id: levelName, levelName: levelName, log: logger}
}

// SetController sets who is told when the battle ends.
func (s *Scene) SetController(c Controller) {
	s.controller = c
}

// ID returns the level name.
func (s *Scene) ID() string {
	return s.id
}

// Title returns a display name derived from the level name.
func (s *Scene) Title() string {
	if s.level.Name != "" {
		return fmt.Sprintf("%s vs %s", titleFor(s.levelName), s.level.Name)
	}
	return titleFor(s.levelName)
}

// titleFor turns "battle_1" into "Battle 1".
func titleFor(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Reset loads configuration and level and rebuilds the battle. Failures are
// logged and leave the scene ended, showing the error.
func (s *Scene) Reset(rt core.RuntimeConfig) {
	s.log = logger.With("scene", s.id)

	cfg, err := config.LoadBattle(configPath)
	if err != nil {
		s.log.Warn("using default battle config", "error", err)
		cfg = config.DefaultBattleConfig()
	}
	config.ApplyPreset(&cfg, difficulty)

	lvl, err := config.LoadLevel(s.levelName)
	if err == nil {
		err = s.ResetWith(rt, cfg, lvl)
	}
	if err != nil {
		s.log.Error("battle setup failed", "error", err)
		s.err = err
		s.over = true
	}
}

// ResetWith rebuilds the battle from explicit configuration. On error the
// scene is left ended.
func (s *Scene) ResetWith(rt core.RuntimeConfig, cfg config.BattleConfig, lvl config.Level) error {
	if s.log == nil {
		s.log = logger.With("scene", s.id)
	}
	if err := s.rebuild(rt, cfg, lvl); err != nil {
		s.err = err
		s.over = true
		return err
	}
	s.log.Info("battle built",
		"level", lvl.Name,
		"entities", s.world.Len(),
		"targets", s.targets,
		"index", cfg.Index.Enabled,
	)
	return nil
}

func (s *Scene) rebuild(rt core.RuntimeConfig, cfg config.BattleConfig, lvl config.Level) error {
	if err := lvl.Validate(); err != nil {
		return fmt.Errorf("battle: %s: %w", s.id, err)
	}

	s.cfg = cfg
	s.level = lvl
	s.art = NewArt(lvl.TileSize)
	s.world = ecs.NewWorld()
	s.cache = sprite.NewCache()
	s.clock = core.NewSimClock(0)
	s.targets, s.defeated = 0, 0
	s.cleared, s.clearedAt = false, 0
	s.over, s.reason, s.err = false, 0, nil

	s.buildTerrain()
	s.spawnPlayer()
	if err := s.spawnEnemies(); err != nil {
		return fmt.Errorf("battle: %s: %w", s.id, err)
	}
	s.targets = s.world.Enemies.Len()
	if s.targets == 0 {
		s.cleared = true
	}

	s.setupView(rt)
	s.setupSystems()
	return nil
}

// buildTerrain creates one tile per non-empty grid cell. The grid is
// centred on the world origin.
func (s *Scene) buildTerrain() {
	t := s.level.TileSize
	cols, rows := s.level.Size()
	offX := float64(t/2 - cols*t/2)
	offY := float64(t/2 - rows*t/2)

	w := s.world
	for r, row := range s.level.Grid {
		for c, ch := range []rune(row) {
			name, ok := s.level.Legend[string(ch)]
			if !ok {
				continue
			}
			kind, err := ecs.ParseTerrainKind(name)
			if err != nil {
				s.log.Warn("skipping tile", "row", r, "col", c, "error", err)
				continue
			}
			e := w.Create()
			w.Positions.Set(e, ecs.Position{X: offX + float64(c*t), Y: offY + float64(r*t)})
			w.Renderables.Set(e, ecs.Renderable{Image: s.art.Tile(kind), Layer: LayerTerrain})
			w.Terrains.Set(e, ecs.Terrain{Kind: kind})
		}
	}
}

func (s *Scene) spawnPlayer() {
	w := s.world
	set := s.art.Player()
	e := w.Create()
	w.Positions.Set(e, ecs.Position{X: s.level.Player.X, Y: s.level.Player.Y})
	w.Motions.Set(e, ecs.Motion{})
	w.Renderables.Set(e, ecs.Renderable{Image: set.Base(ecs.FacingRight), Layer: LayerPlayer})
	w.Animations.Set(e, ecs.Animation{Sprites: set, Facing: ecs.FacingRight})
	w.Players.Set(e, ecs.Tag{})
	w.PhysicsAffected.Set(e, ecs.Tag{})
	w.Movables.Set(e, ecs.Tag{})
	s.player = e
}

func (s *Scene) spawnEnemies() error {
	w := s.world
	for _, sp := range s.level.Enemies {
		set, err := s.art.Enemy(sp.Kind)
		if err != nil {
			return err
		}
		dir := sp.Direction
		if dir == 0 {
			dir = -1
		}
		facing := ecs.FacingLeft
		if dir > 0 {
			facing = ecs.FacingRight
		}

		e := w.Create()
		w.Positions.Set(e, ecs.Position{X: sp.X, Y: sp.Y})
		w.Renderables.Set(e, ecs.Renderable{Image: set.Base(facing), Layer: LayerEnemy})
		w.Animations.Set(e, ecs.Animation{Sprites: set, Facing: facing})
		w.EnemyAIs.Set(e, ecs.EnemyAI{
			MoveDirection: dir,
			MoveSpeed:     sp.Speed * s.cfg.Enemy.SpeedScale,
			LeftBoundary:  sp.LeftBoundary,
			RightBoundary: sp.RightBoundary,
			Flees:         sp.Flees,
		})
		w.Enemies.Set(e, ecs.Tag{})
		w.Movables.Set(e, ecs.Tag{})
		if sp.Physics {
			w.Motions.Set(e, ecs.Motion{})
			w.PhysicsAffected.Set(e, ecs.Tag{})
		}
		s.log.Debug("enemy spawned", "kind", sp.Kind, "entity", e, "x", sp.X, "y", sp.Y)
	}
	return nil
}

// setupView sizes the camera to the screen below the HUD and builds the
// spatial index once.
func (s *Scene) setupView(rt core.RuntimeConfig) {
	cc := s.cfg.Camera
	rc := s.cfg.Render
	rows := max(rt.ScreenH-hudRows, 1)
	s.raster = raster{cellW: max(rc.CellWidth, 1), cellH: max(rc.CellHeight, 1), top: hudRows, rows: rows}

	cam := visibility.NewCamera(max(rt.ScreenW, 1)*s.raster.cellW, rows*s.raster.cellH, cc.Zoom, cc.InnerRectFactor)
	cam.SlideTime = cc.SlideTime
	cam.CenterOn(core.Vec{X: cc.StartX, Y: cc.StartY})
	if cc.FollowPlayer {
		cam.Follow(s.playerPos)
	}

	ic := s.cfg.Index
	ext := ic.Extent
	s.view = visibility.NewEngine(s.world, cam, visibility.Config{
		UseIndex: ic.Enabled,
		FineCull: ic.FineCull,
		Margin:   float64(s.level.TileSize),
		Bounds:   core.RectF{X: -ext, Y: -ext, W: 2 * ext, H: 2 * ext},
		Capacity: ic.Capacity,
		MaxDepth: ic.MaxDepth,
	})
	s.indexedTerrain = true
	for _, e := range s.view.BuildOnce() {
		p := s.world.Positions.Get(e)
		s.log.Warn("entity outside index bounds", "entity", e, "x", p.X, "y", p.Y)
		if s.world.Terrains.Has(e) {
			s.indexedTerrain = false
		}
	}
}

func (s *Scene) setupSystems() {
	w := s.world
	pc := s.cfg.Physics

	s.resolver = collision.NewResolver(collision.NewScanSource(w, s.cache), pc.FloorY)
	switch {
	case !s.cfg.Index.Enabled:
	case !s.indexedTerrain:
		// The index misses some tiles, so collision keeps scanning the world.
		s.log.Warn("terrain outside index bounds, collision uses a full scan", "extent", s.cfg.Index.Extent)
	default:
		s.resolver.SetSource(collision.NewIndexSource(w, s.cache, s.view.Index(), float64(s.level.TileSize)))
	}

	s.physics = physics.New(w, s.resolver, s.cache, physics.Config{
		Gravity:      pc.Gravity,
		JumpStrength: pc.JumpStrength,
		MoveSpeed:    pc.MoveSpeed,
		MaxFallSpeed: pc.MaxFallSpeed,
		FloorY:       pc.FloorY,
		LeftBound:    pc.LeftBound,
		RightBound:   pc.RightBound,
		AnimInterval: pc.AnimInterval,
		SlowFactor:   pc.SlowFactor,
	})

	prc := s.cfg.Projectile
	s.shots = projectile.NewSystem(w, s.cache, s.clock, s, projectile.Config{
		Speed:    prc.Speed,
		Lifetime: prc.Lifetime,
		Size:     prc.Size,
		Layer:    prc.Layer,
		Cooldown: prc.Cooldown,
	})

	s.enemies = enemy.NewSystem(w, s.cache, s, enemy.Config{
		FleeJump:      s.cfg.Enemy.FleeJump,
		CloseDistance: s.cfg.Enemy.CloseDistance,
		HopGravity:    pc.Gravity,
		AnimInterval:  pc.AnimInterval,
	})
}

func (s *Scene) playerPos() core.Vec {
	if p := s.world.Positions.Get(s.player); p != nil {
		return p.Vec()
	}
	return core.Vec{}
}

// Step runs one frame of the pipeline.
func (s *Scene) Step(in core.InputFrame, dt float64) core.StepResult {
	if s.over || s.world == nil {
		return core.StepResult{State: s.State()}
	}
	if in.Has(core.KeyEscape) {
		s.finish(Retreat)
		return core.StepResult{State: s.State()}
	}

	s.clock.Advance(dt)
	now := s.clock.Now()

	if s.world.Exists(s.player) {
		if s.shots.Trigger(s.player, in) {
			s.log.Debug("shot fired", "t", now)
		}
	}
	s.physics.Update(in, now, dt)
	s.enemies.Update(now, dt)
	s.shots.Update(dt)
	for _, e := range s.view.Sync() {
		s.log.Debug("movable outside index bounds", "entity", e)
	}
	s.view.Camera().Update(now)

	if s.cleared && now-s.clearedAt >= s.cfg.Battle.EndDelay {
		s.finish(BattleWon)
	}
	return core.StepResult{State: s.State()}
}

// TargetDefeated implements projectile.OutcomeSink.
func (s *Scene) TargetDefeated(e ecs.Entity) {
	s.defeated++
	remaining := s.world.Enemies.Len()
	s.log.Info("target defeated", "entity", e, "remaining", remaining, "t", s.clock.Now())
	if remaining == 0 && !s.cleared {
		s.cleared = true
		s.clearedAt = s.clock.Now()
	}
}

func (s *Scene) finish(reason SwitchReason) {
	s.over = true
	s.reason = reason
	s.log.Info("switching world", "reason", reason, "defeated", s.defeated, "elapsed", s.clock.Now())
	if s.controller != nil {
		s.controller.SwitchWorld(reason)
	}
}

// Render draws the HUD and the draw list.
func (s *Scene) Render(dst *core.Screen) {
	if s.err != nil {
		dst.DrawTextCentered(dst.Height()/2, "battle failed: "+s.err.Error())
		return
	}
	if s.world == nil {
		return
	}

	for _, cmd := range s.view.Frame() {
		s.raster.blit(dst, cmd)
	}
	s.drawHUD(dst)

	switch s.reason {
	case BattleWon:
		s.drawCenteredMessage(dst, "VICTORY", "R to fight again, Q to quit")
	case Retreat:
		s.drawCenteredMessage(dst, "RETREAT", "R to fight again, Q to quit")
	}
}

func (s *Scene) drawHUD(dst *core.Screen) {
	hud := core.Cell{Rune: ' ', Color: core.ColorWhite}
	dst.DrawRect(core.NewRect(0, 0, dst.Width(), hudRows), hud)
	text := fmt.Sprintf(" %s   defeated %d/%d   %.1fs", s.Title(), s.defeated, s.targets, s.clock.Now())
	for i, r := range []rune(text) {
		dst.SetCell(i, 0, core.Cell{Rune: r, Color: core.ColorWhite})
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (s *Scene) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), core.Cell{Rune: ' '})
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}

// State returns the current battle state.
func (s *Scene) State() core.GameState {
	st := core.GameState{
		Score:    s.defeated,
		Targets:  s.targets,
		GameOver: s.over,
	}
	if s.clock != nil {
		st.Elapsed = s.clock.Now()
	}
	if s.reason != 0 {
		st.Outcome = s.reason.String()
	}
	return st
}

// Reason returns why the battle ended, or 0 while it runs.
func (s *Scene) Reason() SwitchReason {
	return s.reason
}

// World exposes the entity world, for inspection.
func (s *Scene) World() *ecs.World {
	return s.world
}

// Player returns the player entity.
func (s *Scene) Player() ecs.Entity {
	return s.player
}

func init() {
	for _, name := range config.LevelNames() {
		registry.Register(name, func() registry.Game {
			return New(name)
		})
	}
}
