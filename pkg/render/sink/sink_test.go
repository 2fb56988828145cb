package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mhersch/treeline/pkg/doc"
	"github.com/mhersch/treeline/pkg/layout"
	"github.com/mhersch/treeline/pkg/render"
	"github.com/mhersch/treeline/pkg/viewport"
)

func testFrame(t *testing.T) *render.Frame {
	t.Helper()
	root := &doc.Node{
		ID:    "root",
		Topic: "Root <Topic>",
		Children: []*doc.Node{
			{ID: "a", Topic: "Alpha", Content: "body text"},
			{ID: "b", Topic: "Beta"},
		},
	}
	return render.Build(layout.Build(root, nil))
}

func TestRenderSVGBasics(t *testing.T) {
	svg := string(RenderSVG(testFrame(t)))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("output should be a standalone SVG document")
	}
	if got := strings.Count(svg, "<rect"); got != 3 {
		t.Errorf("expected 3 node rects, got %d", got)
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected 2 connector paths, got %d", got)
	}
	if !strings.Contains(svg, "Root &lt;Topic&gt;") {
		t.Error("topic text should be HTML-escaped")
	}
}

func TestRenderSVGBackground(t *testing.T) {
	svg := string(RenderSVG(testFrame(t), WithBackground("#ffffff")))
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("background option should add a fill rect")
	}
}

func TestRenderSVGDetail(t *testing.T) {
	plain := string(RenderSVG(testFrame(t)))
	detailed := string(RenderSVG(testFrame(t), WithDetail()))

	if strings.Contains(plain, "body text") {
		t.Error("content should be hidden without the detail option")
	}
	if !strings.Contains(detailed, "body text") {
		t.Error("detail option should include node content")
	}
}

func TestRenderSVGWindowCulling(t *testing.T) {
	f := testFrame(t)

	// A window far away from the content drops every node.
	svg := string(RenderSVG(f, WithWindow(viewport.Viewport{
		X: 100000, Y: 100000, Width: 100, Height: 100,
	})))
	if strings.Count(svg, "<rect") != 0 {
		t.Error("off-screen nodes should be culled")
	}

	// A window over the root column keeps the root but drops leaves.
	svg = string(RenderSVG(f, WithWindow(viewport.Viewport{
		X: -10, Y: -10000, Width: 100, Height: 20000,
	})))
	if !strings.Contains(svg, "Root") {
		t.Error("root should survive culling inside the window")
	}
	if strings.Contains(svg, "Beta") {
		t.Error("nodes outside the window should be culled")
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	f := testFrame(t)
	data, err := RenderJSON(f, WithJSONWindow(viewport.Viewport{Width: 800, Height: 600}))
	if err != nil {
		t.Fatalf("render json: %v", err)
	}

	var out struct {
		Window *viewport.Viewport `json:"window"`
		Nodes  []render.Node      `json:"nodes"`
		Edges  []struct {
			From, To, Path string
		} `json:"edges"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(out.Nodes) != len(f.Nodes) || len(out.Edges) != len(f.Edges) {
		t.Errorf("JSON has %d nodes / %d edges, want %d / %d",
			len(out.Nodes), len(out.Edges), len(f.Nodes), len(f.Edges))
	}
	if out.Window == nil || out.Window.Width != 800 {
		t.Errorf("window not preserved: %+v", out.Window)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testFrame(t))

	if !strings.HasPrefix(dot, "digraph tree {") || !strings.HasSuffix(dot, "}\n") {
		t.Error("output should be a digraph block")
	}
	for _, id := range []string{`"root"`, `"a"`, `"b"`} {
		if !strings.Contains(dot, id) {
			t.Errorf("DOT missing node %s", id)
		}
	}
	if !strings.Contains(dot, `"root" -> "a"`) {
		t.Error("DOT missing root->a edge")
	}
	if !strings.Contains(dot, "pos=") {
		t.Error("DOT should pin node positions")
	}
}

func TestToDOTCollapsedLabel(t *testing.T) {
	root := &doc.Node{
		ID:    "root",
		Topic: "Root",
		Children: []*doc.Node{
			{ID: "a", Topic: "Alpha", Children: []*doc.Node{
				{ID: "a1", Topic: "Hidden"},
			}},
		},
	}
	f := render.Build(layout.Build(root, doc.NewCollapsedSetOf("a")))

	dot := ToDOT(f)
	if !strings.Contains(dot, "Alpha (+1)") {
		t.Error("collapsed node label should carry the hidden count")
	}
	if strings.Contains(dot, "Hidden") {
		t.Error("hidden nodes should not appear in DOT")
	}
}
