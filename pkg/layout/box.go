package layout

// Box is an axis-aligned rectangle in layout units.
// X, Y is the top-left corner; Y grows downward.
type Box struct {
	X, Y float64
	W, H float64
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// CenterX returns the horizontal center point of the box.
func (b Box) CenterX() float64 { return b.X + b.W/2 }

// CenterY returns the vertical center point of the box.
func (b Box) CenterY() float64 { return b.Y + b.H/2 }

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

// Union returns the smallest box containing both b and o.
// An empty box is the identity element.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	x := min(b.X, o.X)
	y := min(b.Y, o.Y)
	r := max(b.Right(), o.Right())
	bot := max(b.Bottom(), o.Bottom())
	return Box{X: x, Y: y, W: r - x, H: bot - y}
}

// Pad returns the box grown by p on every side.
func (b Box) Pad(p float64) Box {
	return Box{X: b.X - p, Y: b.Y - p, W: b.W + 2*p, H: b.H + 2*p}
}

// Contains reports whether o lies fully inside b.
func (b Box) Contains(o Box) bool {
	return o.X >= b.X && o.Y >= b.Y && o.Right() <= b.Right() && o.Bottom() <= b.Bottom()
}

// Intersects reports whether b and o overlap.
func (b Box) Intersects(o Box) bool {
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}
