package pipeline

import (
	"context"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/mhersch/treeline/pkg/errors"
	"github.com/mhersch/treeline/pkg/observability"
	"github.com/mhersch/treeline/pkg/render"
	"github.com/mhersch/treeline/pkg/render/sink"
)

// RenderFrame serializes the frame into every requested format.
func RenderFrame(ctx context.Context, frame *render.Frame, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var err error
	for _, format := range opts.Formats {
		artifacts[format], err = renderFormat(ctx, frame, format, opts)
		if err != nil {
			break
		}
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, frame *render.Frame, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []sink.SVGOption
		if opts.Culled {
			svgOpts = append(svgOpts, sink.WithWindow(opts.Window(frame.Bounds)))
		}
		if opts.Detailed {
			svgOpts = append(svgOpts, sink.WithDetail())
		}
		return sink.RenderSVG(frame, svgOpts...), nil

	case FormatJSON:
		return sink.RenderJSON(frame, sink.WithJSONVersion())

	case FormatDOT:
		return []byte(sink.ToDOT(frame)), nil

	case FormatPNG:
		return sink.RenderDOT(ctx, sink.ToDOT(frame), graphviz.PNG)

	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format %q", format)
	}
}
