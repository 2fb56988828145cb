// Package view is the interactive terminal viewer. It drives the camera
// over a laid-out document: drag or arrow-key panning, anchored zoom,
// animated fit and focus transitions, collapse toggling, and search with
// match framing, all inside a Bubble Tea program.
package view

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mhersch/treeline/pkg/doc"
	"github.com/mhersch/treeline/pkg/layout"
	"github.com/mhersch/treeline/pkg/search"
	"github.com/mhersch/treeline/pkg/viewport"
)

// Terminal cells are not square; these factors map cells to layout
// pixels so geometry stays proportional on screen.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	// keyPanStep is the pan distance per arrow key press, in pixels.
	keyPanStep = 48.0

	// frameInterval approximates a 60 fps animation clock.
	frameInterval = time.Second / 60
)

// frameMsg drives the in-flight camera tween.
type frameMsg time.Time

// Model is the viewer state.
type Model struct {
	root      *doc.Node
	collapsed *doc.CollapsedSet
	tree      *layout.Tree
	camera    *viewport.Controller
	keys      KeyMap

	// terminal size in cells
	width  int
	height int

	// pointer drag state
	dragging   bool
	dragMoved  bool
	lastMouseX int
	lastMouseY int

	// search state
	searching bool
	query     string
	matches   []search.Match

	// cursor is the index into the visible pre-order sequence used by
	// tab selection, or -1.
	cursor int

	showContent bool
	showHelp    bool
	fitOnOpen   bool
	fitted      bool
	quitting    bool
}

// New creates a viewer for the given document.
func New(root *doc.Node, showContent, fitOnOpen bool) Model {
	collapsed := doc.NewCollapsedSet()
	return Model{
		root:        root,
		collapsed:   collapsed,
		tree:        layout.Build(root, collapsed),
		camera:      viewport.New(viewport.Viewport{Width: 1280, Height: 800}),
		keys:        DefaultKeyMap(),
		cursor:      -1,
		showContent: showContent,
		fitOnOpen:   fitOnOpen,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// relayout rebuilds the positioned tree after a structural change and
// drops state that pointed into the old layout.
func (m *Model) relayout() {
	m.tree = layout.Build(m.root, m.collapsed)
	m.matches = search.Tree(m.tree, m.query)
	if m.cursor >= m.tree.Len() {
		m.cursor = -1
	}
}

// visibleNodes returns the pre-order sequence of positioned nodes.
func (m *Model) visibleNodes() []*layout.PositionedNode {
	nodes := make([]*layout.PositionedNode, 0, m.tree.Len())
	m.tree.Walk(func(n *layout.PositionedNode) {
		nodes = append(nodes, n)
	})
	return nodes
}

// nodeAt returns the visible node whose box contains the given layout
// point, or nil.
func (m *Model) nodeAt(x, y float64) *layout.PositionedNode {
	var found *layout.PositionedNode
	m.tree.Walk(func(n *layout.PositionedNode) {
		b := n.Box()
		if x >= b.X && x <= b.Right() && y >= b.Y && y <= b.Bottom() {
			found = n
		}
	})
	return found
}

// cellToLayout converts a terminal cell position to layout coordinates
// under the current camera window.
func (m *Model) cellToLayout(cx, cy int) (float64, float64) {
	v := m.camera.View()
	px := float64(cx) * cellWidth
	py := float64(cy) * cellHeight
	return v.X + px*v.Width/(float64(m.width)*cellWidth),
		v.Y + py*v.Height/(float64(m.height)*cellHeight)
}

// animate schedules the next animation frame while a tween is running.
func animate() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
