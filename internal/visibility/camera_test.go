package visibility

import (
	"testing"

	"github.com/vovakirdan/poochi/internal/core"
)

func TestCameraProjection(t *testing.T) {
	c := NewCamera(320, 240, 2, 1)
	c.CenterOn(core.Vec{X: 10, Y: 80})

	sx, sy := c.ToScreen(core.Vec{X: 10, Y: 80})
	if sx != 160 || sy != 120 {
		t.Errorf("ToScreen(target) = (%v, %v), want (160, 120)", sx, sy)
	}

	r := c.VisibleWorldRect()
	want := core.RectF{X: -70, Y: 20, W: 160, H: 120}
	if r != want {
		t.Errorf("VisibleWorldRect() = %+v, want %+v", r, want)
	}
}

func TestCameraZeroZoom(t *testing.T) {
	c := NewCamera(100, 100, 0, 1)
	if c.Zoom != 1 {
		t.Errorf("Zoom = %v, want 1", c.Zoom)
	}
}

func TestCameraSlide(t *testing.T) {
	target := core.Vec{}
	c := NewCamera(100, 100, 1, 0.5)
	c.CenterOn(target)
	c.Follow(func() core.Vec { return target })

	c.Update(0)
	if c.Sliding() {
		t.Fatal("target inside the dead zone should not slide")
	}

	target.X = 30
	c.Update(1)
	if !c.Sliding() {
		t.Fatal("leaving the dead zone should start a slide")
	}

	steps := []struct {
		now     float64
		offset  float64
		sliding bool
	}{
		{1.25, 25, true},
		{1.5, 0, false},
	}
	for _, s := range steps {
		c.Update(s.now)
		if c.OffsetX != s.offset || c.Sliding() != s.sliding {
			t.Errorf("at %v: offset %v sliding %v, want %v %v", s.now, c.OffsetX, c.Sliding(), s.offset, s.sliding)
		}
	}

	c.Update(2)
	if c.Sliding() {
		t.Error("target is back inside the dead zone")
	}
}
