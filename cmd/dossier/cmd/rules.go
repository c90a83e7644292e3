package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dossier/internal/platform/postgres"
	"dossier/internal/rules"
	rulesStore "dossier/internal/rules/store"
	dErrors "dossier/pkg/domain-errors"
)

var rulesFile string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage rule parameters",
}

var rulesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Upsert rule parameters from a YAML file",
	Long: `Reads a YAML file of the form

  rules:
    - country: MD
      pmd: OT
      parameter: minSubmissions
      value: 2

and upserts every entry into the rules table.`,
	RunE: runRulesImport,
}

func init() {
	rulesImportCmd.Flags().StringVarP(&rulesFile, "file", "f", "", "YAML rules file")
	_ = rulesImportCmd.MarkFlagRequired("file")
	rulesCmd.AddCommand(rulesImportCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Postgres.DSN == "" {
		return dErrors.Configuration("DATABASE_URL is required to import rules")
	}

	f, err := os.Open(rulesFile)
	if err != nil {
		return fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()

	handles, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer handles.Close()

	n, err := rules.Import(ctx, rulesStore.NewPostgres(handles.DB.DB), f)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "rules imported", "file", rulesFile, "count", n)
	return nil
}
