package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

func newExportCmd(e *env) *cobra.Command {
	var (
		output   string
		category string
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write expenses, reports and charts to a zip archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := expense.ListFilter{}

			if category != "" {
				filter.Category = new(category)
			}

			for _, d := range []struct {
				value string
				dst   **time.Time
			}{{from, &filter.StartDate}, {to, &filter.EndDate}} {
				if d.value == "" {
					continue
				}

				t, err := time.Parse(time.DateOnly, d.value)
				if err != nil {
					return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", d.value)
				}

				*d.dst = &t
			}

			a, err := e.open()
			if err != nil {
				return err
			}

			if output == "" {
				output = a.Exporter.Filename()
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create archive: %w", err)
			}

			res, err := a.Exporter.Export(cmd.Context(), f, e.owner, filter)
			if cerr := f.Close(); err == nil {
				err = cerr
			}

			if err != nil {
				os.Remove(output)
				return err
			}

			printf(cmd, "Exported %d expenses to %s (%s)\n", res.Expenses, output, strings.Join(res.Files, ", "))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default spendlens_YYYYMMDD.zip)")
	cmd.Flags().StringVar(&category, "category", "", "only export this category")
	cmd.Flags().StringVar(&from, "from", "", "first date to include, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date to include, YYYY-MM-DD")

	return cmd
}
