package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/expconv/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/expconv/internal/ports"
	"github.com/emiliopalmerini/expconv/internal/util"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversion runs",
		Long: `List conversion runs saved with "expconv convert --record", newest first.

Examples:
  expconv history
  expconv history --limit 5 --input experiments/master-experiments.csv
  expconv history --prune 720h`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().String("input", "", "Only list runs of this input path")
	cmd.Flags().Duration("prune", 0, "Delete runs that finished longer ago than this before listing")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	db, repo, err := app.OpenHistory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	out := cmd.OutOrStdout()
	styles := theme.New(lipgloss.NewRenderer(out))

	if prune, _ := cmd.Flags().GetDuration("prune"); prune > 0 {
		n, err := repo.DeleteBefore(ctx, time.Now().Add(-prune))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("Pruned %d runs older than %s", n, prune)))
	}

	opts := ports.ListRunsOptions{}
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	if cmd.Flags().Changed("input") {
		input, _ := cmd.Flags().GetString("input")
		opts.InputPath = &input
	}

	runs, err := repo.List(ctx, opts)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	fmt.Fprintln(out, styles.Heading.Render(fmt.Sprintf("%-16s  %-8s  %8s  %8s  %7s  %10s  %s", "FINISHED", "ID", "RECORDS", "TOKENS", "USED", "SIZE", "INPUT")))
	for _, r := range runs {
		line := fmt.Sprintf("%-16s  %-8s  %8d  %8s  %6.1f%%  %10s  %s",
			util.FormatDateTime(r.FinishedAt),
			shortID(r.ID),
			r.Stats.RecordCount,
			util.FormatNumber(int64(r.Stats.TotalTokens)),
			r.Stats.PercentUsed,
			util.FormatBytes(r.Stats.OutputBytes),
			filepath.Base(r.InputPath),
		)
		if r.Stats.OverBudget {
			line = styles.Warning.Render(line)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
