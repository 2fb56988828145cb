package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mhersch/treeline/pkg/cache"
	"github.com/mhersch/treeline/pkg/errors"
)

const sampleDoc = `{
  "id": "root",
  "topic": "Project",
  "children": [
    {"id": "a", "topic": "Alpha", "content": "first branch",
     "children": [{"id": "a1", "topic": "Detail"}]},
    {"id": "b", "topic": "Beta"}
  ]
}`

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"source only", Options{Source: "doc.json"}, false},
		{"raw only", Options{Raw: []byte("{}")}, false},
		{"neither", Options{}, true},
		{"both", Options{Source: "doc.json", Raw: []byte("{}")}, true},
		{"bad format", Options{Source: "doc.json", Formats: []string{"pdf"}}, true},
		{"good formats", Options{Source: "doc.json", Formats: []string{"svg", "json", "dot"}}, false},
		{"negative width", Options{Source: "doc.json", Width: -100}, true},
		{"negative height", Options{Source: "doc.json", Height: -50}, true},
		{"explicit window", Options{Source: "doc.json", Width: 640, Height: 480}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDegenerateWindowRejected(t *testing.T) {
	opts := Options{Source: "doc.json", Width: -100, Height: 50}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidViewport) {
		t.Errorf("err = %v, want code %s", err, errors.ErrCodeInvalidViewport)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Source: "doc.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("default formats = %v, want [svg]", opts.Formats)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("default window = %vx%v", opts.Width, opts.Height)
	}
}

func TestLoadFromFile(t *testing.T) {
	root, err := Load(context.Background(), Options{Source: writeDoc(t)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if root.ID != "root" || len(root.Children) != 2 {
		t.Errorf("unexpected document: %+v", root)
	}
}

func TestLoadFromRaw(t *testing.T) {
	root, err := Load(context.Background(), Options{Raw: []byte(sampleDoc)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if root.Topic != "Project" {
		t.Errorf("topic = %q", root.Topic)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), Options{Source: filepath.Join(t.TempDir(), "absent.json")})
	if err == nil {
		t.Error("missing file should error")
	}
}

func TestExecuteProducesArtifacts(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Raw:     []byte(sampleDoc),
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if result.Stats.NodeCount != 4 {
		t.Errorf("node count = %d, want 4", result.Stats.NodeCount)
	}
	if result.Stats.VisibleCount != 4 {
		t.Errorf("visible count = %d, want 4", result.Stats.VisibleCount)
	}
	if result.Tree == nil || result.Frame == nil {
		t.Fatal("result should carry tree and frame")
	}
	for _, format := range []string{FormatSVG, FormatJSON, FormatDOT} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact is not SVG")
	}
	if result.DocHash == "" {
		t.Error("doc hash should be set")
	}
}

func TestExecuteCollapsedSubtree(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Raw:       []byte(sampleDoc),
		Collapsed: []string{"a"},
		Formats:   []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if result.Stats.VisibleCount != 3 {
		t.Errorf("visible count = %d, want 3 with branch collapsed", result.Stats.VisibleCount)
	}
	if result.Stats.NodeCount != 4 {
		t.Errorf("node count should still see hidden nodes, got %d", result.Stats.NodeCount)
	}
}

func TestExecuteLayoutCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	opts := Options{Raw: []byte(sampleDoc), Formats: []string{FormatJSON}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss all caches")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if string(second.Artifacts[FormatJSON]) != string(first.Artifacts[FormatJSON]) {
		t.Error("cached artifact should match the original")
	}
}

func TestExecuteCollapsedChangesLayoutKey(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	if _, err := runner.Execute(ctx, Options{Raw: []byte(sampleDoc), Formats: []string{FormatJSON}}); err != nil {
		t.Fatal(err)
	}

	result, err := runner.Execute(ctx, Options{
		Raw:       []byte(sampleDoc),
		Collapsed: []string{"a"},
		Formats:   []string{FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.LayoutHit {
		t.Error("different collapsed set should not hit the cached layout")
	}
}

func TestLayoutKeyOptsSortsCollapsed(t *testing.T) {
	a := Options{Collapsed: []string{"b", "a"}}
	b := Options{Collapsed: []string{"a", "b"}}
	if len(a.LayoutKeyOpts().Collapsed) != 2 {
		t.Fatal("collapsed ids dropped")
	}
	for i := range a.LayoutKeyOpts().Collapsed {
		if a.LayoutKeyOpts().Collapsed[i] != b.LayoutKeyOpts().Collapsed[i] {
			t.Error("collapsed order should not affect the cache key")
		}
	}
}
