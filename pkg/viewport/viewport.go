// Package viewport drives the camera over a laid-out tree. The camera is
// a rectangular window in layout-unit space mapped onto the container's
// pixel area. The controller owns that window plus the node selection and
// at most one in-flight animated transition; pan and zoom are immediate,
// while fit, focus, and search framing animate toward a computed target.
package viewport

import (
	"math"

	"github.com/mhersch/treeline/pkg/layout"
)

// ============================================================================
// Tuning constants
// ============================================================================

const (
	// ZoomStep is the per-tick scale factor for wheel zoom. Zooming in
	// divides the window size by this, zooming out multiplies.
	ZoomStep = 1.1

	// FitPadding surrounds the content bounds when fitting the whole
	// tree, in layout units.
	FitPadding = 80.0

	// FramePadding surrounds the match bounds for search framing.
	FramePadding = 60.0

	// MinFrameWidth and MinFrameHeight floor the search-framing window
	// so a single tight match never fills the screen.
	MinFrameWidth  = 480.0
	MinFrameHeight = 320.0

	// MinFitScale stops fit-to-content from zooming in past this many
	// layout units per pixel. Small trees stay at natural size instead
	// of being blown up.
	MinFitScale = 1.0
)

// ============================================================================
// Viewport
// ============================================================================

// Viewport is the camera window in layout-unit space. Width and Height
// are always positive.
type Viewport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the box lies fully inside the window.
func (v Viewport) Contains(b layout.Box) bool {
	return b.X >= v.X && b.Y >= v.Y &&
		b.Right() <= v.X+v.Width && b.Bottom() <= v.Y+v.Height
}

// Valid reports whether the window has positive extent.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// ============================================================================
// Controller
// ============================================================================

// Controller owns the viewport, the current selection, and the single
// in-flight tween. All mutation goes through its methods; callers read
// the current window with View.
type Controller struct {
	view       Viewport
	containerW float64
	containerH float64
	selected   string
	anim       *tween
}

// New returns a controller starting at the given window. An invalid
// window falls back to a unit-scale default.
func New(initial Viewport) *Controller {
	if !initial.Valid() {
		initial = Viewport{Width: 1280, Height: 800}
	}
	return &Controller{view: initial}
}

// View returns the current camera window.
func (c *Controller) View() Viewport {
	return c.view
}

// Selected returns the ID of the selected node, or "" when none.
func (c *Controller) Selected() string {
	return c.selected
}

// ClearSelection drops the current selection without moving the camera.
func (c *Controller) ClearSelection() {
	c.selected = ""
}

// SetContainer records the pixel size of the rendering surface. A zero
// or negative size leaves pointer-driven operations disabled until a
// real size arrives.
func (c *Controller) SetContainer(w, h float64) {
	c.containerW = w
	c.containerH = h
}

// containerValid reports whether pixel-space conversions are defined.
func (c *Controller) containerValid() bool {
	return c.containerW > 0 && c.containerH > 0
}

// scale returns the layout-units-per-pixel factors for each axis.
func (c *Controller) scale() (sx, sy float64) {
	return c.view.Width / c.containerW, c.view.Height / c.containerH
}

// Pan translates the camera by a pointer drag delta given in pixels.
// Dragging the content right moves the camera left. Starting a pan
// cancels any in-flight tween and clears the selection; with an unsized
// container the event is dropped.
func (c *Controller) Pan(dxPx, dyPx float64) {
	if !c.containerValid() {
		return
	}
	c.cancel()
	c.selected = ""

	sx, sy := c.scale()
	c.view.X -= dxPx * sx
	c.view.Y -= dyPx * sy
}

// Scroll pans by a raw wheel delta in pixels. Unlike Pan the delta moves
// the camera in the scroll direction and the selection is kept.
func (c *Controller) Scroll(dxPx, dyPx float64) {
	if !c.containerValid() {
		return
	}
	c.cancel()

	sx, sy := c.scale()
	c.view.X += dxPx * sx
	c.view.Y += dyPx * sy
}

// ZoomAt scales the window by one ZoomStep tick, anchored at the given
// pixel position so the layout point under the pointer stays put on
// screen. With an unsized container the event is dropped.
func (c *Controller) ZoomAt(pxX, pxY float64, in bool) {
	if !c.containerValid() {
		return
	}
	c.cancel()

	factor := ZoomStep
	if in {
		factor = 1 / ZoomStep
	}
	newW := c.view.Width * factor
	newH := c.view.Height * factor

	fx := pxX / c.containerW
	fy := pxY / c.containerH
	c.view.X += fx * (c.view.Width - newW)
	c.view.Y += fy * (c.view.Height - newH)
	c.view.Width = newW
	c.view.Height = newH
}

// FitContent animates toward a window showing the whole content bounds
// plus padding, matched to the container's aspect ratio. The window never
// zooms in past MinFitScale. Empty bounds or an unsized container skip
// the operation.
func (c *Controller) FitContent(bounds layout.Box) {
	if bounds.Empty() || !c.containerValid() {
		return
	}

	padded := bounds.Pad(FitPadding)
	s := max3(padded.W/c.containerW, padded.H/c.containerH, MinFitScale)
	c.startTween(c.windowAround(padded.CenterX(), padded.CenterY(), s))
}

// FocusNode animates to a unit-scale window centered on the node and
// marks it selected. At most one node is selected at a time.
func (c *Controller) FocusNode(n *layout.PositionedNode) {
	if n == nil || !c.containerValid() {
		return
	}
	c.selected = n.ID

	box := n.Box()
	c.startTween(c.windowAround(box.CenterX(), box.CenterY(), 1))
}

// FrameMatches animates toward a window containing all match bounds plus
// padding, floored at a minimum size. Empty bounds leave the camera
// where it is.
func (c *Controller) FrameMatches(bounds layout.Box) {
	if bounds.Empty() || !c.containerValid() {
		return
	}

	padded := bounds.Pad(FramePadding)
	w := math.Max(padded.W, MinFrameWidth)
	h := math.Max(padded.H, MinFrameHeight)
	s := math.Max(w/c.containerW, h/c.containerH)
	c.startTween(c.windowAround(padded.CenterX(), padded.CenterY(), s))
}

// windowAround builds a container-aspect window at the given layout
// scale, centered on a layout point.
func (c *Controller) windowAround(cx, cy, scale float64) Viewport {
	w := c.containerW * scale
	h := c.containerH * scale
	return Viewport{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
