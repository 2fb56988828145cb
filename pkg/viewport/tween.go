package viewport

import "time"

// TweenDuration is the fixed length of every animated camera transition.
const TweenDuration = 320 * time.Millisecond

// tween interpolates the camera from one window to another. The clock
// starts on the first Step call so construction is free of time reads.
type tween struct {
	from    Viewport
	to      Viewport
	start   time.Time
	started bool
}

// startTween replaces any in-flight animation with a new one toward the
// target. Only one tween is ever active.
func (c *Controller) startTween(target Viewport) {
	c.anim = &tween{from: c.view, to: target}
}

// cancel drops the in-flight tween, leaving the camera wherever the last
// Step put it.
func (c *Controller) cancel() {
	c.anim = nil
}

// Animating reports whether a tween is in flight.
func (c *Controller) Animating() bool {
	return c.anim != nil
}

// Step advances the in-flight tween to the given time and reports
// whether the animation is still running. Call once per display frame;
// without a tween it is a no-op returning false.
func (c *Controller) Step(now time.Time) bool {
	if c.anim == nil {
		return false
	}
	a := c.anim
	if !a.started {
		a.start = now
		a.started = true
	}

	t := float64(now.Sub(a.start)) / float64(TweenDuration)
	if t >= 1 {
		c.view = a.to
		c.anim = nil
		return false
	}
	if t < 0 {
		t = 0
	}

	e := easeOutCubic(t)
	c.view = Viewport{
		X:      lerp(a.from.X, a.to.X, e),
		Y:      lerp(a.from.Y, a.to.Y, e),
		Width:  lerp(a.from.Width, a.to.Width, e),
		Height: lerp(a.from.Height, a.to.Height, e),
	}
	return true
}

// Target returns the destination of the in-flight tween and whether one
// exists.
func (c *Controller) Target() (Viewport, bool) {
	if c.anim == nil {
		return Viewport{}, false
	}
	return c.anim.to, true
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
