package view

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mhersch/treeline/pkg/layout"
	"github.com/mhersch/treeline/pkg/search"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case frameMsg:
		if m.camera.Step(time.Time(msg)) {
			return m, animate()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.camera.SetContainer(float64(msg.Width)*cellWidth, float64(msg.Height)*cellHeight)

	// One-time fit once the terminal reports a usable size.
	if m.fitOnOpen && !m.fitted && msg.Width > 0 && msg.Height > 0 {
		m.fitted = true
		m.camera.FitContent(m.tree.Bounds())
		return m, animate()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.PanUp):
		m.camera.Pan(0, keyPanStep)
	case key.Matches(msg, m.keys.PanDown):
		m.camera.Pan(0, -keyPanStep)
	case key.Matches(msg, m.keys.PanLeft):
		m.camera.Pan(keyPanStep, 0)
	case key.Matches(msg, m.keys.PanRight):
		m.camera.Pan(-keyPanStep, 0)

	case key.Matches(msg, m.keys.ZoomIn):
		m.camera.ZoomAt(float64(m.width)*cellWidth/2, float64(m.height)*cellHeight/2, true)
	case key.Matches(msg, m.keys.ZoomOut):
		m.camera.ZoomAt(float64(m.width)*cellWidth/2, float64(m.height)*cellHeight/2, false)

	case key.Matches(msg, m.keys.Fit):
		m.camera.FitContent(m.tree.Bounds())
		return m, animate()

	case key.Matches(msg, m.keys.Focus):
		if n := m.selectedNode(); n != nil {
			m.camera.FocusNode(n)
			return m, animate()
		}

	case key.Matches(msg, m.keys.Next):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Prev):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Collapse):
		if n := m.selectedNode(); n != nil && (len(n.Children) > 0 || n.Collapsed) {
			m.collapsed.Toggle(n.ID)
			m.relayout()
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.query = ""
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.query = ""
		m.matches = nil
		m.cursor = -1
		m.camera.ClearSelection()
	}
	return m, nil
}

// handleSearchKey edits the live query. Every change reframes the
// matches; an empty query leaves the camera alone.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
		m.matches = nil
		return m, nil

	case tea.KeyEnter:
		m.searching = false
		return m, nil

	case tea.KeyBackspace:
		if len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
		}
		return m.reframeMatches()

	case tea.KeySpace:
		m.query += " "
		return m.reframeMatches()

	case tea.KeyRunes:
		m.query += string(msg.Runes)
		return m.reframeMatches()
	}
	return m, nil
}

func (m Model) reframeMatches() (tea.Model, tea.Cmd) {
	m.matches = search.Tree(m.tree, m.query)
	if search.Query(m.query) == "" {
		m.matches = nil
		m.camera.ClearSelection()
		return m, nil
	}
	if len(m.matches) == 0 {
		return m, nil
	}
	m.camera.FrameMatches(search.Bounds(m.matches))
	return m, animate()
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if msg.Ctrl {
				m.camera.ZoomAt(float64(msg.X)*cellWidth, float64(msg.Y)*cellHeight, true)
			} else {
				m.camera.Scroll(0, -keyPanStep)
			}
		case tea.MouseButtonWheelDown:
			if msg.Ctrl {
				m.camera.ZoomAt(float64(msg.X)*cellWidth, float64(msg.Y)*cellHeight, false)
			} else {
				m.camera.Scroll(0, keyPanStep)
			}
		case tea.MouseButtonWheelLeft:
			m.camera.Scroll(-keyPanStep, 0)
		case tea.MouseButtonWheelRight:
			m.camera.Scroll(keyPanStep, 0)
		case tea.MouseButtonLeft:
			m.dragging = true
			m.dragMoved = false
			m.lastMouseX = msg.X
			m.lastMouseY = msg.Y
		}

	case tea.MouseActionMotion:
		if m.dragging {
			dx := float64(msg.X-m.lastMouseX) * cellWidth
			dy := float64(msg.Y-m.lastMouseY) * cellHeight
			if dx != 0 || dy != 0 {
				m.dragMoved = true
				m.camera.Pan(dx, dy)
			}
			m.lastMouseX = msg.X
			m.lastMouseY = msg.Y
		}

	case tea.MouseActionRelease:
		if m.dragging && !m.dragMoved {
			// A click without movement focuses the node under the
			// pointer or clears the selection on background.
			lx, ly := m.cellToLayout(msg.X, msg.Y)
			if n := m.nodeAt(lx, ly); n != nil {
				m.selectByID(n.ID)
				m.camera.FocusNode(n)
				m.dragging = false
				return m, animate()
			}
			m.camera.ClearSelection()
			m.cursor = -1
		}
		m.dragging = false
	}
	return m, nil
}

// selectedNode returns the node under the cursor, or nil.
func (m *Model) selectedNode() *layout.PositionedNode {
	nodes := m.visibleNodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return nil
	}
	return nodes[m.cursor]
}

// moveCursor advances the selection through the pre-order sequence,
// wrapping at the ends.
func (m *Model) moveCursor(delta int) {
	n := m.tree.Len()
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
}

// selectByID positions the cursor on the node with the given ID.
func (m *Model) selectByID(id string) {
	for i, n := range m.visibleNodes() {
		if n.ID == id {
			m.cursor = i
			return
		}
	}
	m.cursor = -1
}
