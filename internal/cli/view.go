package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mhersch/treeline/internal/view"
	"github.com/mhersch/treeline/pkg/pipeline"
)

// viewCommand creates the view command for the interactive terminal
// viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "view [file|url]",
		Short: "Explore a document in the interactive terminal viewer",
		Long: `Explore a document in the interactive terminal viewer.

Pan with the arrow keys or by dragging, zoom with +/- or ctrl+wheel,
press f to fit the whole tree, tab to step through nodes, enter to focus
the selection, space to collapse a branch, and / to search.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], noCache, refresh)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the document cache")

	return cmd
}

func (c *CLI) runView(ctx context.Context, input string, noCache, refresh bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Source:  input,
		Refresh: refresh,
		Logger:  c.Logger,
	}
	root, _, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	program := tea.NewProgram(
		view.New(root, c.Config.Viewer.ShowContent, c.Config.Viewer.FitOnOpen),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = program.Run()
	return err
}
