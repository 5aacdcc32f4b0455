package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/expconv/internal/convert"
	"github.com/emiliopalmerini/expconv/internal/report"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the experiments CSV to JSON and report token usage",
		Long: `Convert the experiments CSV to a JSON array and print statistics,
a token analysis against the model context budget and a preview of the
first experiments.

Paths default to EXPCONV_INPUT and EXPCONV_OUTPUT; flags override them.

Examples:
  expconv convert
  expconv convert --input data.csv --output data.json
  expconv convert --context-budget 100000 --record`,
		Args: cobra.NoArgs,
		RunE: runConvert,
	}
	addConvertFlags(cmd)
	return cmd
}

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Input CSV path (default from EXPCONV_INPUT)")
	cmd.Flags().StringP("output", "o", "", "Output JSON path (default from EXPCONV_OUTPUT)")
	cmd.Flags().Int("context-budget", 0, "Model context budget in tokens (default from EXPCONV_CONTEXT_BUDGET)")
	cmd.Flags().Bool("record", false, "Save the run to the history database")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	opts := convert.Options{
		InputPath:     app.Config.Input,
		OutputPath:    app.Config.Output,
		ContextBudget: app.Config.ContextBudget,
	}
	if cmd.Flags().Changed("input") {
		opts.InputPath, _ = cmd.Flags().GetString("input")
	}
	if cmd.Flags().Changed("output") {
		opts.OutputPath, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("context-budget") {
		opts.ContextBudget, _ = cmd.Flags().GetInt("context-budget")
	}
	if opts.ContextBudget <= 0 {
		return fmt.Errorf("context budget must be positive, got %d", opts.ContextBudget)
	}

	rep := report.New(cmd.OutOrStdout(), app.Config.ModelLabel)

	res, err := convert.New(opts, app.Logger).Convert(ctx)
	if err != nil {
		if errors.Is(err, convert.ErrInputNotFound) {
			rep.InputNotFound(opts.InputPath)
		} else {
			rep.Failure(err)
		}
		app.Logger.Debug("conversion failed", "input", opts.InputPath, "error", err)
		return fmt.Errorf("%w: %w", errReported, err)
	}

	rep.Summary(res)
	rep.Success(res.Stats.RecordCount, res.OutputPath)

	run := res.Run()
	if record, _ := cmd.Flags().GetBool("record"); record {
		app.RecordRun(ctx, run)
	}
	app.ExportMetrics(ctx, run)

	return nil
}
