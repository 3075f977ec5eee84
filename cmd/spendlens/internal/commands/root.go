// Package commands implements the spendlens CLI. Every command acts on one
// owner's data in the storage selected by the environment; with STORAGE=memory
// nothing outlives the process.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendlens/internal/app"
	"github.com/MrJamesThe3rd/spendlens/internal/auth"
	"github.com/MrJamesThe3rd/spendlens/internal/config"
	"github.com/MrJamesThe3rd/spendlens/internal/logging"
)

// env is shared by every subcommand. The app is built on first use so that
// commands like migrate never open the stores.
type env struct {
	owner string
	cfg   *config.Config
	app   *app.App
}

func (e *env) load(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.App.Name, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)
	e.cfg = cfg

	if !cmd.Flags().Changed("owner") {
		e.owner = cfg.App.Owner
	}

	return nil
}

func (e *env) open() (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}

	a, err := app.New(e.cfg)
	if err != nil {
		return nil, err
	}

	e.app = a

	return a, nil
}

func (e *env) close(*cobra.Command, []string) error {
	if e.app == nil {
		return nil
	}

	err := e.app.Close()
	e.app = nil

	return err
}

func NewRoot() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:                "spendlens",
		Short:              "Expense analytics and savings recommendations",
		SilenceUsage:       true,
		PersistentPreRunE:  e.load,
		PersistentPostRunE: e.close,
	}

	root.PersistentFlags().StringVar(&e.owner, "owner", auth.LocalOwner, "Owner whose expenses are used (default $OWNER)")

	root.AddCommand(
		newSummaryCmd(e),
		newAnalyzeCmd(e),
		newImportCmd(e),
		newReportCmd(e),
		newExportCmd(e),
		newMigrateCmd(e),
		newSeedCmd(e),
		newRuleCmd(e),
		newWatchCmd(e),
	)

	return root
}

func printf(cmd *cobra.Command, format string, args ...any) {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
