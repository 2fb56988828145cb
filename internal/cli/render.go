package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhersch/treeline/pkg/errors"
	"github.com/mhersch/treeline/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple formats)
	formats   []string // output formats: "svg", "json", "dot", "png"
	collapsed []string // node IDs to collapse before layout
	width     float64  // viewport width in pixels
	height    float64  // viewport height in pixels
	culled    bool     // drop nodes outside the viewport window
	detailed  bool     // include node body text in SVG output
	noCache   bool     // disable caching
	refresh   bool     // bypass the document cache
}

// renderCommand creates the render command for generating diagram
// artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr, collapseStr string
	opts := renderOpts{
		width:  pipeline.DefaultWidth,
		height: pipeline.DefaultHeight,
	}

	cmd := &cobra.Command{
		Use:   "render [file|url]",
		Short: "Render a document to SVG, JSON, DOT, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			opts.collapsed = parseIDList(collapseStr)
			for _, f := range opts.formats {
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png (comma-separated)")
	cmd.Flags().StringVar(&collapseStr, "collapse", "", "comma-separated node IDs to collapse")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().BoolVar(&opts.culled, "culled", false, "cull nodes outside the viewport window")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node body text in SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the document cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{
		Source:    input,
		Collapsed: opts.collapsed,
		Formats:   opts.formats,
		Width:     opts.width,
		Height:    opts.height,
		Culled:    opts.culled,
		Detailed:  opts.detailed,
		Refresh:   opts.refresh,
		Logger:    c.Logger,
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("rendered %d format(s)", len(opts.formats)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Render complete")
	for _, format := range opts.formats {
		var path string
		if len(opts.formats) == 1 {
			path = outputPath(opts.output, input, "."+format)
		} else {
			path = outputPath("", input, "") + "." + format
			if opts.output != "" {
				path = opts.output + "." + format
			}
		}
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.VisibleCount, result.CacheInfo.RenderHit)

	return nil
}
