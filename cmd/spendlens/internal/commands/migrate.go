package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendlens/internal/config"
	"github.com/MrJamesThe3rd/spendlens/internal/database"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the configured storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.cfg.App.Storage == config.StorageMemory {
				return errors.New("migrate requires STORAGE=postgres or STORAGE=sqlite")
			}

			driver, dsn := e.cfg.DSN()
			if err := database.Migrate(driver, dsn); err != nil {
				return err
			}

			printf(cmd, "Migrations applied (%s)\n", driver)

			return nil
		},
	}
}
