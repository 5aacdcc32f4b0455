package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/expconv/internal/migrate"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [version]",
		Short: "Run history database migrations",
		Long: `Run history database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  expconv migrate      # Run all pending migrations
  expconv migrate 0    # Rollback all migrations`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	db, err := app.openHistoryDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		return migrate.Up(ctx, db, out)
	}

	targetVersion, err := strconv.Atoi(args[0])
	if err != nil || targetVersion < 0 {
		return fmt.Errorf("invalid version number: %s", args[0])
	}
	return migrate.MigrateTo(ctx, db, out, targetVersion)
}
