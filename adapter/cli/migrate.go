package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database"
	_ "github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database/postgres" // Register Postgres driver
	_ "github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/migrations"
	"github.com/UBC-CIC/first-responder-admin/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply the embedded schema migrations to the configured database.
Migrations are idempotent and also run when the service starts.

Examples:
  DATABASE_URL=postgres://localhost/responder responder migrate
  SQLITE_PATH=./responder.db responder migrate`,
	Annotations: map[string]string{skipContainerAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		conn, err := database.NewConnection(cmd.Context(), database.Config{
			Driver:     database.Driver(cfg.DatabaseDriver),
			URL:        cfg.DatabaseURL,
			SQLitePath: cfg.SQLitePath,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() { _ = conn.Close() }()

		if err := migrations.Run(cmd.Context(), conn); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s).\n", conn.Driver())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
