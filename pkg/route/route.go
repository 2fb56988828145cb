// Package route computes orthogonal connector paths between positioned
// nodes. A connector leaves the parent at the vertical center of its right
// edge, runs horizontally to the midpoint of the column gap, turns
// vertically to the child's row, and enters the child at the vertical
// center of its left edge. Corners are rounded with quadratic curves when
// the segments leave enough room, and fall back to sharp bends otherwise.
package route

import (
	"fmt"
	"math"
	"strings"

	"github.com/mhersch/treeline/pkg/layout"
)

// CornerRadius is the corner rounding applied to connector bends, in
// layout units.
const CornerRadius = 8.0

// Point is a location in layout coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is a routed connector. Points are the sharp polyline vertices in
// order from parent to child; rendering may round the interior bends.
type Path struct {
	points []Point
}

// Points returns the polyline vertices from parent exit to child entry.
// The slice is owned by the path and must not be mutated.
func (p Path) Points() []Point {
	return p.points
}

// Start returns the first vertex of the path.
func (p Path) Start() Point {
	return p.points[0]
}

// End returns the last vertex of the path.
func (p Path) End() Point {
	return p.points[len(p.points)-1]
}

// Route computes the connector between a parent box and a child box laid
// out in the next depth column.
func Route(from, to layout.Box) Path {
	start := Point{X: from.Right(), Y: from.CenterY()}
	end := Point{X: to.X, Y: to.CenterY()}

	// Same row: a single horizontal segment, no bends.
	if math.Abs(start.Y-end.Y) < 1e-9 {
		return Path{points: []Point{start, end}}
	}

	midX := (start.X + end.X) / 2
	return Path{points: []Point{
		start,
		{X: midX, Y: start.Y},
		{X: midX, Y: end.Y},
		end,
	}}
}

// SVG renders the path as an SVG path data string. Each interior bend is
// rounded with a quadratic curve of up to CornerRadius; when a segment is
// too short to absorb the rounding the bend stays sharp.
func (p Path) SVG() string {
	pts := p.points
	var b strings.Builder
	fmt.Fprintf(&b, "M %.1f %.1f", pts[0].X, pts[0].Y)

	for i := 1; i < len(pts)-1; i++ {
		prev, cur, next := pts[i-1], pts[i], pts[i+1]
		r := bendRadius(prev, cur, next)
		if r <= 0 {
			fmt.Fprintf(&b, " L %.1f %.1f", cur.X, cur.Y)
			continue
		}
		in := towards(cur, prev, r)
		out := towards(cur, next, r)
		fmt.Fprintf(&b, " L %.1f %.1f Q %.1f %.1f %.1f %.1f",
			in.X, in.Y, cur.X, cur.Y, out.X, out.Y)
	}

	last := pts[len(pts)-1]
	fmt.Fprintf(&b, " L %.1f %.1f", last.X, last.Y)
	return b.String()
}

// bendRadius returns the usable corner radius at cur, or 0 when either
// adjoining segment is too short for any rounding. Segments shared by two
// bends only lend half their length to each.
func bendRadius(prev, cur, next Point) float64 {
	in := dist(prev, cur) / 2
	out := dist(cur, next) / 2
	r := math.Min(CornerRadius, math.Min(in, out))
	if r < 1 {
		return 0
	}
	return r
}

// towards returns the point at distance d from origin along the segment to
// target. Segments are axis-aligned so only one coordinate moves.
func towards(origin, target Point, d float64) Point {
	dx := target.X - origin.X
	dy := target.Y - origin.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return origin
	}
	return Point{
		X: origin.X + dx/length*d,
		Y: origin.Y + dy/length*d,
	}
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
