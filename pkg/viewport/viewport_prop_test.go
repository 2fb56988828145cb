package viewport

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestPropZoomAnchorFixed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cw := rapid.Float64Range(100, 4000).Draw(t, "containerW")
		ch := rapid.Float64Range(100, 4000).Draw(t, "containerH")
		c := New(Viewport{
			X:      rapid.Float64Range(-5000, 5000).Draw(t, "x"),
			Y:      rapid.Float64Range(-5000, 5000).Draw(t, "y"),
			Width:  rapid.Float64Range(10, 10000).Draw(t, "w"),
			Height: rapid.Float64Range(10, 10000).Draw(t, "h"),
		})
		c.SetContainer(cw, ch)

		pxX := rapid.Float64Range(0, cw).Draw(t, "pxX")
		pxY := rapid.Float64Range(0, ch).Draw(t, "pxY")

		before := c.View()
		anchorX := before.X + pxX/cw*before.Width
		anchorY := before.Y + pxY/ch*before.Height

		c.ZoomAt(pxX, pxY, rapid.Bool().Draw(t, "in"))

		after := c.View()
		gotX := (anchorX - after.X) / after.Width * cw
		gotY := (anchorY - after.Y) / after.Height * ch
		if math.Abs(gotX-pxX) > 1e-6*math.Max(1, math.Abs(pxX)) ||
			math.Abs(gotY-pxY) > 1e-6*math.Max(1, math.Abs(pxY)) {
			t.Fatalf("anchor drifted from (%v,%v) to (%v,%v)", pxX, pxY, gotX, gotY)
		}
	})
}

func TestPropWindowStaysPositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New(Viewport{Width: 1000, Height: 500})
		c.SetContainer(800, 600)

		steps := rapid.IntRange(1, 100).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				c.Pan(rapid.Float64Range(-200, 200).Draw(t, "dx"),
					rapid.Float64Range(-200, 200).Draw(t, "dy"))
			case 1:
				c.ZoomAt(rapid.Float64Range(0, 800).Draw(t, "zx"),
					rapid.Float64Range(0, 600).Draw(t, "zy"),
					rapid.Bool().Draw(t, "in"))
			case 2:
				c.Scroll(rapid.Float64Range(-50, 50).Draw(t, "sx"),
					rapid.Float64Range(-50, 50).Draw(t, "sy"))
			}
			v := c.View()
			if !v.Valid() || math.IsNaN(v.X) || math.IsNaN(v.Y) ||
				math.IsInf(v.Width, 0) || math.IsInf(v.Height, 0) {
				t.Fatalf("window degenerated: %+v", v)
			}
		}
	})
}
