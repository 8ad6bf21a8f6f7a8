package visibility

import "github.com/vovakirdan/poochi/internal/core"

// Camera maps world pixels to viewport pixels: screen = world*zoom + offset.
//
// With a follow target the camera keeps still while the target stays inside
// an inner dead zone, and slides one dead-zone extent over SlideTime seconds
// once the target leaves it.
type Camera struct {
	Width, Height int // viewport in pixels
	Zoom          float64
	OffsetX       float64
	OffsetY       float64
	SlideTime     float64

	innerW, innerH float64
	target         func() core.Vec

	sliding    bool
	slideStart float64
	fromX      float64
	fromY      float64
	toX        float64
	toY        float64
}

// NewCamera creates a camera with a dead zone of innerFactor times the
// viewport. A zoom of 0 is treated as 1.
func NewCamera(width, height int, zoom, innerFactor float64) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{
		Width:     width,
		Height:    height,
		Zoom:      zoom,
		SlideTime: 0.5,
		innerW:    float64(width) * innerFactor,
		innerH:    float64(height) * innerFactor,
	}
}

// Follow sets the function that reports the target position. nil stops following.
func (c *Camera) Follow(target func() core.Vec) {
	c.target = target
}

// centerOffset returns the offset that puts p in the middle of the viewport.
func (c *Camera) centerOffset(p core.Vec) (float64, float64) {
	return -p.X*c.Zoom + float64(c.Width/2), -p.Y*c.Zoom + float64(c.Height/2)
}

// CenterOn snaps the camera onto p and cancels any running slide.
func (c *Camera) CenterOn(p core.Vec) {
	c.OffsetX, c.OffsetY = c.centerOffset(p)
	c.sliding = false
}

// Sliding reports whether a slide is in progress.
func (c *Camera) Sliding() bool {
	return c.sliding
}

func (c *Camera) startSlide(now, dx, dy float64) {
	c.sliding = true
	c.slideStart = now
	c.fromX, c.fromY = c.OffsetX, c.OffsetY
	c.toX, c.toY = c.OffsetX+dx, c.OffsetY+dy
}

// Update advances a running slide, or starts one when the target has left
// the dead zone.
func (c *Camera) Update(now float64) {
	if c.sliding {
		f := 1.0
		if c.SlideTime > 0 {
			f = core.ClampF((now-c.slideStart)/c.SlideTime, 0, 1)
		}
		c.OffsetX = c.fromX + (c.toX-c.fromX)*f
		c.OffsetY = c.fromY + (c.toY-c.fromY)*f
		if f >= 1 {
			c.sliding = false
		}
		return
	}
	if c.target == nil {
		return
	}

	wantX, wantY := c.centerOffset(c.target())
	left := c.OffsetX - c.innerW/2
	top := c.OffsetY - c.innerH/2

	switch {
	case wantX < left:
		c.startSlide(now, -c.innerW, 0)
	case wantX > left+c.innerW:
		c.startSlide(now, c.innerW, 0)
	}
	if c.sliding {
		return
	}
	switch {
	case wantY < top:
		c.startSlide(now, 0, -c.innerH)
	case wantY > top+c.innerH:
		c.startSlide(now, 0, c.innerH)
	}
}

// ToScreen projects a world point into viewport pixels.
func (c *Camera) ToScreen(p core.Vec) (float64, float64) {
	return p.X*c.Zoom + c.OffsetX, p.Y*c.Zoom + c.OffsetY
}

// Viewport returns the viewport in viewport pixels.
func (c *Camera) Viewport() core.RectF {
	return core.RectF{W: float64(c.Width), H: float64(c.Height)}
}

// VisibleWorldRect returns the part of the world covered by the viewport.
func (c *Camera) VisibleWorldRect() core.RectF {
	return core.RectF{
		X: -c.OffsetX / c.Zoom,
		Y: -c.OffsetY / c.Zoom,
		W: float64(c.Width) / c.Zoom,
		H: float64(c.Height) / c.Zoom,
	}
}
