package commands

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendlens/internal/report"
)

func newAnalyzeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run the savings analysis and print recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}

			printf(cmd, "Analyzing your spending patterns...\n\n")

			rep, err := a.Ledger.RunAnalysis(cmd.Context(), e.owner)
			if err != nil {
				return err
			}

			return report.WriteInsights(cmd.OutOrStdout(), rep, a.Currency)
		},
	}
}
