package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendlens/internal/importer"
)

func newImportCmd(e *env) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import expenses from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			a, err := e.open()
			if err != nil {
				return err
			}

			result, err := a.Importer.Parse(cmd.Context(), e.owner, f, format)
			if err != nil {
				return err
			}

			es, err := a.Ledger.Import(cmd.Context(), e.owner, result.Entries)
			if err != nil {
				return err
			}

			printf(cmd, "Imported %d expenses (%s, %s), skipped %d rows, %d categorized by rules\n",
				len(es), result.Profile, result.Charset, result.Skipped, result.Categorized)

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", importer.FormatAuto, "CSV layout: auto, standard or european")

	return cmd
}
