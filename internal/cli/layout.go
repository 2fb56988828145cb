package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhersch/treeline/pkg/errors"
	"github.com/mhersch/treeline/pkg/pipeline"
)

// layoutCommand creates the layout command for computing positioned
// frames without rendering artifacts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output      string
		collapseStr string
		noCache     bool
		refresh     bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file|url]",
		Short: "Compute a positioned frame from a document",
		Long: `Compute a positioned frame from a document.

The layout command loads a document from a file or URL, computes node
positions and connector routes, and writes the frame as JSON. The frame
can be rendered to SVG/PNG with the 'render' command or served over HTTP
with 'serve'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, collapseStr, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.frame.json)")
	cmd.Flags().StringVar(&collapseStr, "collapse", "", "comma-separated node IDs to collapse")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the document cache")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output, collapseStr string, noCache, refresh bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Source:    input,
		Collapsed: parseIDList(collapseStr),
		Formats:   []string{pipeline.FormatJSON},
		Refresh:   refresh,
		Logger:    c.Logger,
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("layout of %d nodes", result.Stats.NodeCount))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	path := outputPath(output, input, ".frame.json")
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, result.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(result.Stats.NodeCount, result.Stats.VisibleCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", "treeline render "+input)

	return nil
}
