package battle

import (
	"fmt"

	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/ecs"
	"github.com/vovakirdan/poochi/internal/sprite"
)

// Masks are drawn one character per terminal cell, facing right. A tile is
// 4 mask columns by 2 mask rows, so masks are scaled by (tile/4, tile/2).
var (
	playerWalk = [][]string{
		{".##.", "####", ".##.", "#..#"},
		{".##.", "####", ".##.", ".##."},
	}
	playerJump = []string{".##.", "####", "####", "#..#"}
	playerFire = []string{".##..", "#####", ".##..", "#..#."}
)

// enemyLook is the appearance of an enemy kind: two walk frames.
type enemyLook struct {
	frames [2][]string
	glyph  rune
	color  core.Color
}

var enemyLooks = map[string]enemyLook{
	"peeves": {
		frames: [2][]string{
			{"#....#", "######", ".#..#."},
			{"##..##", ".####.", "#....#"},
		},
		glyph: '▓',
		color: core.ColorMagenta,
	},
	"norris": {
		frames: [2][]string{
			{"#..#", "####"},
			{".##.", "####"},
		},
		glyph: '▓',
		color: core.ColorCyan,
	},
	"quirl": {
		frames: [2][]string{
			{".##.", "####", "####", "#..#"},
			{".##.", "####", "####", ".##."},
		},
		glyph: '▒',
		color: core.ColorRed,
	},
}

// tileLook is the glyph and color of a terrain kind.
type tileLook struct {
	glyph rune
	color core.Color
}

var tileLooks = map[ecs.TerrainKind]tileLook{
	ecs.TerrainSolid:    {'█', core.ColorGreen},
	ecs.TerrainLedge:    {'▓', core.ColorBrown},
	ecs.TerrainSlow:     {'▒', core.ColorBrown},
	ecs.TerrainPassable: {'░', core.ColorGray},
}

// Art builds and shares the frames of one scene. Frames are built once per
// kind so the bounding box cache sees a stable set of images.
type Art struct {
	sx, sy int
	tile   int
	tiles  map[ecs.TerrainKind]*sprite.Image
}

// NewArt creates the art for a level with the given tile size.
func NewArt(tileSize int) *Art {
	return &Art{
		sx:    max(tileSize/4, 1),
		sy:    max(tileSize/2, 1),
		tile:  tileSize,
		tiles: make(map[ecs.TerrainKind]*sprite.Image),
	}
}

func (a *Art) mask(name string, rows []string, glyph rune, color core.Color) *sprite.Image {
	return sprite.FromMask(name, rows, glyph, color).Scale(a.sx, a.sy)
}

// both returns img and its mirror keyed by facing.
func both(img *sprite.Image) map[ecs.Facing]*sprite.Image {
	return map[ecs.Facing]*sprite.Image{
		ecs.FacingRight: img,
		ecs.FacingLeft:  img.Flipped(),
	}
}

func (a *Art) addStrip(set ecs.SpriteSet, pose ecs.Pose, frames ...*sprite.Image) {
	for _, img := range frames {
		for facing, f := range both(img) {
			key := ecs.FrameKey{Pose: pose, Facing: facing}
			set[key] = append(set[key], f)
		}
	}
}

// Player returns the player's sprite set.
func (a *Art) Player() ecs.SpriteSet {
	set := make(ecs.SpriteSet)
	for i, rows := range playerWalk {
		a.addStrip(set, ecs.PoseWalk, a.mask(fmt.Sprintf("poochi_walk_%d", i), rows, '█', core.ColorYellow))
	}
	a.addStrip(set, ecs.PoseJump, a.mask("poochi_jump", playerJump, '█', core.ColorYellow))
	a.addStrip(set, ecs.PoseFire, a.mask("poochi_fire", playerFire, '█', core.ColorYellow))
	return set
}

// Enemy returns the sprite set of an enemy kind.
func (a *Art) Enemy(kind string) (ecs.SpriteSet, error) {
	look, ok := enemyLooks[kind]
	if !ok {
		return nil, fmt.Errorf("unknown enemy kind %q", kind)
	}
	set := make(ecs.SpriteSet)
	for i, rows := range look.frames {
		a.addStrip(set, ecs.PoseWalk, a.mask(fmt.Sprintf("%s_%d", kind, i), rows, look.glyph, look.color))
	}
	return set, nil
}

// Tile returns the shared image of a terrain kind.
func (a *Art) Tile(kind ecs.TerrainKind) *sprite.Image {
	if img, ok := a.tiles[kind]; ok {
		return img
	}
	look := tileLooks[kind]
	img := sprite.Solid(kind.String(), a.tile, a.tile, look.glyph, look.color)
	a.tiles[kind] = img
	return img
}
