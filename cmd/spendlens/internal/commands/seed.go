package commands

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendlens/internal/seed"
)

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}

			es, err := a.Ledger.Import(cmd.Context(), e.owner, seed.Demo(e.owner))
			if err != nil {
				return err
			}

			printf(cmd, "Seeded %d expenses for %s\n", len(es), e.owner)

			return nil
		},
	}
}
