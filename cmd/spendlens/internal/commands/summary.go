package commands

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendlens/internal/report"
)

func newSummaryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print spending totals by category and month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}

			s, err := a.Ledger.Summary(cmd.Context(), e.owner)
			if err != nil {
				return err
			}

			return report.WriteSummary(cmd.OutOrStdout(), s, a.Currency)
		},
	}
}
