package sprite

import "github.com/vovakirdan/poochi/internal/core"

// Extract returns the smallest box enclosing every pixel with alpha > 0,
// in the image's local coordinates. An image without opaque pixels, or a
// nil image, yields the zero box.
//
// This scans the whole surface; use a Cache when the same frame is
// queried repeatedly.
func Extract(img *Image) core.Rect {
	if img == nil {
		return core.Rect{}
	}

	minX, minY := img.W, img.H
	maxX, maxY := -1, -1
	for y := 0; y < img.H; y++ {
		row := img.Alpha[y*img.W : (y+1)*img.W]
		for x, a := range row {
			if a == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			maxY = y
		}
	}

	if maxX < 0 {
		return core.Rect{}
	}
	return core.NewRect(minX, minY, maxX-minX+1, maxY-minY+1)
}

// Cache memoizes Extract per image. Frames are treated as immutable once
// they are handed to the cache.
type Cache struct {
	boxes map[*Image]core.Rect
}

// NewCache creates an empty bounding box cache.
func NewCache() *Cache {
	return &Cache{boxes: make(map[*Image]core.Rect)}
}

// Bounds returns the cached opaque bounds of img.
func (c *Cache) Bounds(img *Image) core.Rect {
	if img == nil {
		return core.Rect{}
	}
	if box, ok := c.boxes[img]; ok {
		return box
	}
	box := Extract(img)
	c.boxes[img] = box
	return box
}

// Size returns the width and height of the opaque bounds of img.
func (c *Cache) Size(img *Image) (w, h int) {
	box := c.Bounds(img)
	return box.W, box.H
}

// Len returns the number of cached frames.
func (c *Cache) Len() int {
	return len(c.boxes)
}
