package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mhersch/treeline/pkg/layout"
)

var (
	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("248"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)

	topicStyle = lipgloss.NewStyle().
			Bold(true)

	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	edgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// View implements tea.Model. Nodes are projected through the camera
// window onto a cell canvas; everything outside the window is skipped.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return "loading..."
	}

	canvas := newCellCanvas(m.width, m.height-1)

	selected := m.camera.Selected()
	matched := make(map[string]bool, len(m.matches))
	for _, match := range m.matches {
		matched[match.Node.ID] = true
	}
	m.tree.Walk(func(n *layout.PositionedNode) {
		m.drawEdges(canvas, n)
	})
	m.tree.Walk(func(n *layout.PositionedNode) {
		m.drawNode(canvas, n, selected != "" && n.ID == selected, matched[n.ID])
	})

	var b strings.Builder
	b.WriteString(canvas.String())
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	return b.String()
}

// layoutToCell projects a layout point into canvas cells.
func (m Model) layoutToCell(x, y float64) (int, int) {
	v := m.camera.View()
	cx := (x - v.X) / v.Width * float64(m.width)
	cy := (y - v.Y) / v.Height * float64(m.height)
	return int(cx), int(cy)
}

func (m Model) drawNode(c *cellCanvas, n *layout.PositionedNode, selected, matched bool) {
	x0, y0 := m.layoutToCell(n.X, n.Y)
	x1, y1 := m.layoutToCell(n.X+layout.NodeWidth, n.Y+n.Height)
	w := x1 - x0
	h := y1 - y0
	if w < 4 || h < 2 {
		// Too small at this zoom level to draw a box; mark the spot.
		c.set(x0, y0, '▪', m.nodeBorderStyle(n, selected, matched))
		return
	}

	border := m.nodeBorderStyle(n, selected, matched)
	c.box(x0, y0, w, h, border)

	label := n.Topic
	if n.Collapsed && n.HiddenCount > 0 {
		label = fmt.Sprintf("%s (+%d)", label, n.HiddenCount)
	}
	c.text(x0+2, y0+1, label, w-4, topicStyle)
	if m.showContent && h > 3 && n.Content != "" {
		c.text(x0+2, y0+2, firstLine(n.Content), w-4, contentStyle)
	}
}

func (m Model) nodeBorderStyle(n *layout.PositionedNode, selected, matched bool) lipgloss.Style {
	if selected {
		return selectedStyle
	}
	if matched {
		return matchStyle
	}
	if n.Color != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color))
	}
	return borderStyle
}

// drawEdges draws an elbow from a node to each visible child, colored
// by the child's branch.
func (m Model) drawEdges(c *cellCanvas, n *layout.PositionedNode) {
	px, py := m.layoutToCell(n.X+layout.NodeWidth, n.Y+n.Height/2)
	for _, child := range n.Children {
		chx, chy := m.layoutToCell(child.X, child.Y+child.Height/2)
		style := edgeStyle
		if child.Color != "" {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(child.Color))
		}
		midX := (px + chx) / 2
		for x := px; x < midX; x++ {
			c.set(x, py, '─', style)
		}
		lo, hi := py, chy
		if lo > hi {
			lo, hi = hi, lo
		}
		for y := lo; y <= hi; y++ {
			c.set(midX, y, '│', style)
		}
		for x := midX + 1; x < chx; x++ {
			c.set(x, chy, '─', style)
		}
	}
}

func (m Model) statusLine() string {
	if m.searching {
		return searchStyle.Render("/" + m.query + "▌")
	}
	if m.showHelp {
		return helpStyle.Render(
			"arrows/hjkl pan · +/- zoom · f fit · tab select · enter focus · space collapse · / search · q quit")
	}

	parts := []string{fmt.Sprintf("%d nodes", m.tree.Len())}
	if m.query != "" {
		parts = append(parts, fmt.Sprintf("%d matches for %q", len(m.matches), m.query))
	}
	if n := m.selectedNode(); n != nil {
		parts = append(parts, n.Topic)
	}
	parts = append(parts, "? help")
	return statusStyle.Render(strings.Join(parts, " · "))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ============================================================================
// Cell canvas
// ============================================================================

type cell struct {
	r     rune
	style lipgloss.Style
	set   bool
}

// cellCanvas is a fixed-size grid that fragments are composited onto
// before the final string is assembled row by row.
type cellCanvas struct {
	w, h  int
	cells [][]cell
}

func newCellCanvas(w, h int) *cellCanvas {
	cells := make([][]cell, h)
	for i := range cells {
		cells[i] = make([]cell, w)
	}
	return &cellCanvas{w: w, h: h, cells: cells}
}

func (c *cellCanvas) set(x, y int, r rune, style lipgloss.Style) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, style: style, set: true}
}

// text writes a clipped single-line string.
func (c *cellCanvas) text(x, y int, s string, maxW int, style lipgloss.Style) {
	if maxW <= 0 {
		return
	}
	runes := []rune(s)
	if len(runes) > maxW {
		if maxW > 1 {
			runes = append(runes[:maxW-1], '…')
		} else {
			runes = runes[:maxW]
		}
	}
	for i, r := range runes {
		c.set(x+i, y, r, style)
	}
}

// box draws a rounded border rectangle.
func (c *cellCanvas) box(x, y, w, h int, style lipgloss.Style) {
	c.set(x, y, '╭', style)
	c.set(x+w-1, y, '╮', style)
	c.set(x, y+h-1, '╰', style)
	c.set(x+w-1, y+h-1, '╯', style)
	for i := 1; i < w-1; i++ {
		c.set(x+i, y, '─', style)
		c.set(x+i, y+h-1, '─', style)
	}
	for j := 1; j < h-1; j++ {
		c.set(x, y+j, '│', style)
		c.set(x+w-1, y+j, '│', style)
	}
	// Clear the interior so boxes occlude edges behind them.
	for j := 1; j < h-1; j++ {
		for i := 1; i < w-1; i++ {
			c.set(x+i, y+j, ' ', style)
		}
	}
}

func (c *cellCanvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range row {
			if !cl.set {
				b.WriteByte(' ')
				continue
			}
			if cl.r == ' ' {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(cl.style.Render(string(cl.r)))
		}
	}
	return b.String()
}
