package sink

import (
	"encoding/json"

	"github.com/mhersch/treeline/pkg/buildinfo"
	"github.com/mhersch/treeline/pkg/render"
	"github.com/mhersch/treeline/pkg/viewport"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	window  *viewport.Viewport
	version bool
}

// WithJSONWindow records the camera window in the JSON output so a
// consumer can restore the same view.
func WithJSONWindow(v viewport.Viewport) JSONOption {
	return func(r *jsonRenderer) { r.window = &v }
}

// WithJSONVersion stamps the output with the producing binary's version.
func WithJSONVersion() JSONOption {
	return func(r *jsonRenderer) { r.version = true }
}

type jsonOutput struct {
	Version string             `json:"version,omitempty"`
	Window  *viewport.Viewport `json:"window,omitempty"`
	Bounds  jsonBounds         `json:"bounds"`
	Nodes   []render.Node      `json:"nodes"`
	Edges   []jsonEdge         `json:"edges,omitempty"`
}

type jsonBounds struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type jsonEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Path  string `json:"path"`
	Color string `json:"color,omitempty"`
}

// RenderJSON exports the frame as a pretty-printed JSON document. This is
// the interchange format for external renderers and for layout caching;
// a round trip through it preserves every node position, connector path,
// and branch color.
func RenderJSON(f *render.Frame, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Window: r.window,
		Bounds: jsonBounds{X: f.Bounds.X, Y: f.Bounds.Y, W: f.Bounds.W, H: f.Bounds.H},
		Nodes:  f.Nodes,
	}
	if r.version {
		out.Version = buildinfo.Version
	}
	for _, e := range f.Edges {
		out.Edges = append(out.Edges, jsonEdge{From: e.From, To: e.To, Path: e.Path, Color: e.Color})
	}

	return json.MarshalIndent(out, "", "  ")
}
