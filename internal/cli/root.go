package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errReported marks a failure that has already been printed to the user.
var errReported = errors.New("reported")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "expconv",
		Short: "Convert the growth experiments CSV into LLM-ready JSON",
		Long: `expconv converts the growth-experiments spreadsheet export into a JSON array
and estimates how much of a model context window the result would occupy.

Run without a subcommand to convert using the configured paths.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConvert,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	addConvertFlags(rootCmd)

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newMigrateCmd())
	return rootCmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
