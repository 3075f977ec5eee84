package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
	"github.com/MrJamesThe3rd/spendlens/internal/report"
)

func newReportCmd(e *env) *cobra.Command {
	var chartDir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print summary and insight tables, optionally writing charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			s, err := a.Ledger.Summary(ctx, e.owner)
			if err != nil {
				return err
			}

			es, err := a.Ledger.Expenses(ctx, e.owner, expense.ListFilter{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if err := report.WriteSummary(out, s, a.Currency); err != nil {
				return err
			}

			printf(cmd, "\n")

			if err := report.WriteInsights(out, analytics.Analyze(es), a.Currency); err != nil {
				return err
			}

			if chartDir == "" {
				return nil
			}

			return writeCharts(cmd, chartDir, s)
		},
	}

	cmd.Flags().StringVar(&chartDir, "chart-dir", "", "Directory to write category.png and monthly.png into")

	return cmd
}

func writeCharts(cmd *cobra.Command, dir string, s analytics.Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create chart dir: %w", err)
	}

	charts := []struct {
		name string
		draw func(io.Writer, analytics.Summary) error
	}{
		{"category.png", report.CategoryChart},
		{"monthly.png", report.MonthlyChart},
	}

	for _, c := range charts {
		path := filepath.Join(dir, c.name)

		if err := writeChart(path, c.draw, s); err != nil {
			if errors.Is(err, report.ErrNoData) {
				slog.Warn("skipping chart", "chart", c.name, "reason", err)
				continue
			}

			return err
		}

		printf(cmd, "\nWrote %s\n", path)
	}

	return nil
}

func writeChart(path string, draw func(io.Writer, analytics.Summary) error, s analytics.Summary) (err error) {
	if s.IsEmpty() {
		return report.ErrNoData
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return draw(f, s)
}
