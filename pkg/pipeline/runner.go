package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhersch/treeline/pkg/cache"
	"github.com/mhersch/treeline/pkg/doc"
	"github.com/mhersch/treeline/pkg/layout"
	"github.com/mhersch/treeline/pkg/observability"
	"github.com/mhersch/treeline/pkg/render"
)

// Runner executes the pipeline with per-stage caching.
//
// The Runner is stateless except for the cache and logger; it stores no
// pipeline results. Multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses the default key scheme; a
// nil cache disables caching; a nil logger uses the package default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	root, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Root = root
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = doc.Count(root) + 1
	result.CacheInfo.LoadHit = loadHit

	if data, err := doc.Marshal(root); err == nil {
		result.DocHash = cache.Hash(data)
	}

	r.Logger.Info("loaded document",
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	tree, frame, layoutHit, err := r.FrameWithCacheInfo(ctx, root, result.DocHash, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = tree
	result.Frame = frame
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.VisibleCount = len(frame.Nodes)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"visible", result.Stats.VisibleCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, frame, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the document with caching and reports whether
// the cache served it. Raw and refresh loads always bypass the cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*doc.Node, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}

	// Only URL sources benefit from doc caching; files and raw bytes
	// are already local.
	cacheable := isURL(opts.Source) && !opts.Refresh
	var key string
	if cacheable {
		key = r.Keyer.DocKey(cache.Hash([]byte(opts.Source)))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if root, err := doc.Parse(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "doc")
				return root, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "doc")
	}

	root, err := Load(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		if data, err := doc.Marshal(root); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.TTLDocument)
			observability.Cache().OnCacheSet(ctx, "doc", len(data))
		}
	}
	return root, false, nil
}

// FrameWithCacheInfo computes the drawable frame with caching keyed on
// the document hash and collapsed set. The positioned tree is nil when
// the frame came from the cache.
func (r *Runner) FrameWithCacheInfo(ctx context.Context, root *doc.Node, docHash string, opts Options) (*layout.Tree, *render.Frame, bool, error) {
	key := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if frame, err := render.UnmarshalFrame(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return nil, frame, true, nil
		}
		// Corrupt entry: fall through and recompute.
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	tree, frame := ComputeLayout(ctx, root, opts)

	if data, err := render.MarshalFrame(frame); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return tree, frame, false, nil
}

// RenderWithCacheInfo renders all requested formats with per-format
// caching keyed on the frame content.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, frame *render.Frame, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	frameData, err := render.MarshalFrame(frame)
	if err != nil {
		return nil, false, err
	}
	frameHash := cache.Hash(frameData)

	artifacts := make(map[string][]byte)
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := RenderFrame(ctx, frame, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Close releases resources held by the runner, primarily the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
