package pipeline

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/mhersch/treeline/pkg/doc"
	"github.com/mhersch/treeline/pkg/errors"
	"github.com/mhersch/treeline/pkg/httputil"
	"github.com/mhersch/treeline/pkg/observability"
)

// Load reads the document from the configured source and normalizes it.
// Sources are a local file path, an http(s) URL, or raw bytes supplied
// directly in the options.
func Load(ctx context.Context, opts Options) (*doc.Node, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	observability.Pipeline().OnLoadStart(ctx, opts.Source)
	start := time.Now()

	root, err := load(ctx, opts)

	var count int
	if root != nil {
		count = doc.Count(root) + 1
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, count, time.Since(start), err)
	return root, err
}

func load(ctx context.Context, opts Options) (*doc.Node, error) {
	data := opts.Raw
	switch {
	case len(data) > 0:
	case isURL(opts.Source):
		body, err := httputil.NewClient().Fetch(ctx, opts.Source)
		if err != nil {
			return nil, err
		}
		data = body
	default:
		body, err := os.ReadFile(opts.Source)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.New(errors.ErrCodeFileNotFound, "document not found: %s", opts.Source)
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", opts.Source)
		}
		data = body
	}

	root, err := doc.Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Normalize(root)
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
