package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/emiliopalmerini/expconv/internal/tokens"
)

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate [FILE]",
		Short: "Estimate the token count of a file or stdin",
		Long: `Estimate the token count of a text file, or of stdin when no file is
given, using the same heuristic as the converter: whitespace runs collapse
to one space, then four characters count as one token.

Examples:
  expconv estimate experiments/master-experiments.json
  cat prompt.txt | expconv estimate`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEstimate,
	}
	cmd.Flags().Int("context-budget", 0, "Model context budget in tokens (default from EXPCONV_CONTEXT_BUDGET)")
	return cmd
}

func runEstimate(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	budget := app.Config.ContextBudget
	if cmd.Flags().Changed("context-budget") {
		budget, _ = cmd.Flags().GetInt("context-budget")
	}

	var data []byte
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	n := tokens.Estimate(string(data))
	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()

	p.Fprintf(out, "Estimated tokens: %d\n", n)
	p.Fprintf(out, "%s context limit: %d tokens\n", app.Config.ModelLabel, budget)
	fmt.Fprintf(out, "Percentage of context used: %s\n", tokens.PercentOf(n, budget))
	return nil
}
