// Package sprite holds sprite frames as alpha buffers and derives their
// collision boxes from the opaque pixels.
package sprite

import (
	"strings"

	"github.com/vovakirdan/poochi/internal/core"
)

// Image is a single sprite frame. Every pixel carries an alpha value;
// pixels with alpha 0 are transparent. When drawn on a terminal the opaque
// pixels are shown with Glyph in Color.
type Image struct {
	Name  string
	W, H  int
	Alpha []uint8
	Glyph rune
	Color core.Color
}

// NewImage creates a fully transparent w×h image.
func NewImage(w, h int) *Image {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Image{W: w, H: h, Alpha: make([]uint8, w*h), Glyph: '█'}
}

// Solid creates a fully opaque w×h image.
func Solid(name string, w, h int, glyph rune, color core.Color) *Image {
	img := NewImage(w, h)
	for i := range img.Alpha {
		img.Alpha[i] = 255
	}
	img.Name = name
	img.Glyph = glyph
	img.Color = color
	return img
}

// FromMask builds an image from rows of text. Spaces and '.' are
// transparent, anything else is opaque. Rows shorter than the widest row are
// padded with transparency.
func FromMask(name string, rows []string, glyph rune, color core.Color) *Image {
	w := 0
	for _, row := range rows {
		if n := len([]rune(row)); n > w {
			w = n
		}
	}
	img := NewImage(w, len(rows))
	for y, row := range rows {
		for x, r := range []rune(row) {
			if r != ' ' && r != '.' {
				img.SetAlpha(x, y, 255)
			}
		}
	}
	img.Name = name
	img.Glyph = glyph
	img.Color = color
	return img
}

// SetAlpha sets the alpha of the pixel at (x, y). Out-of-bounds writes are ignored.
func (img *Image) SetAlpha(x, y int, a uint8) {
	if x < 0 || y < 0 || x >= img.W || y >= img.H {
		return
	}
	img.Alpha[y*img.W+x] = a
}

// AlphaAt returns the alpha of the pixel at (x, y), 0 outside the image.
func (img *Image) AlphaAt(x, y int) uint8 {
	if img == nil || x < 0 || y < 0 || x >= img.W || y >= img.H {
		return 0
	}
	return img.Alpha[y*img.W+x]
}

// Flipped returns a horizontally mirrored copy.
func (img *Image) Flipped() *Image {
	out := NewImage(img.W, img.H)
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			out.Alpha[y*img.W+(img.W-1-x)] = img.Alpha[y*img.W+x]
		}
	}
	out.Name = img.Name
	out.Glyph = img.Glyph
	out.Color = img.Color
	return out
}

// String renders the alpha mask as '#' and '.' rows, for debugging.
func (img *Image) String() string {
	var sb strings.Builder
	for y := 0; y < img.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < img.W; x++ {
			if img.AlphaAt(x, y) > 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// Scale returns a copy enlarged by integer factors sx and sy. Factors
// below 1 are treated as 1.
func (img *Image) Scale(sx, sy int) *Image {
	sx, sy = max(sx, 1), max(sy, 1)
	out := NewImage(img.W*sx, img.H*sy)
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			out.Alpha[y*out.W+x] = img.Alpha[(y/sy)*img.W+x/sx]
		}
	}
	out.Name = img.Name
	out.Glyph = img.Glyph
	out.Color = img.Color
	return out
}
