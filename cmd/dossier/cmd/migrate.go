package cmd

import (
	"github.com/spf13/cobra"

	"dossier/internal/platform/postgres"
	dErrors "dossier/pkg/domain-errors"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Postgres.DSN == "" {
		return dErrors.Configuration("DATABASE_URL is required to migrate")
	}

	handles, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer handles.Close()

	applied, err := postgres.Migrate(ctx, handles.DB.DB)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "migrations applied", "count", len(applied), "migrations", applied)
	return nil
}
