package battle

import (
	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/visibility"
)

// raster maps viewport pixels onto screen cells below the HUD.
type raster struct {
	cellW, cellH int
	top          int // first screen row of the viewport
	rows         int // viewport height in rows
}

// blit draws every opaque pixel of cmd into its cell. Later commands
// overwrite earlier ones, which keeps the layer order of the draw list.
func (r raster) blit(dst *core.Screen, cmd visibility.DrawCommand) {
	img := cmd.Image
	cell := core.Cell{Rune: img.Glyph, Color: img.Color}
	for py := 0; py < img.H; py++ {
		row := floorDiv(cmd.Y+py, r.cellH)
		if row < 0 || row >= r.rows {
			continue
		}
		for px := 0; px < img.W; px++ {
			if img.AlphaAt(px, py) == 0 {
				continue
			}
			dst.SetCell(floorDiv(cmd.X+px, r.cellW), r.top+row, cell)
		}
	}
}

// floorDiv divides rounding toward negative infinity, so pixels just left
// of or above the viewport land outside it.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
