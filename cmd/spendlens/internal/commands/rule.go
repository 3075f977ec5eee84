package commands

import (
	"github.com/spf13/cobra"
)

func newRuleCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage description rules applied to uncategorized imports",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add PATTERN CATEGORY",
			Short: "Assign CATEGORY to imported rows whose description contains PATTERN",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := e.open()
				if err != nil {
					return err
				}

				r, err := a.Rules.Learn(cmd.Context(), e.owner, args[0], args[1])
				if err != nil {
					return err
				}

				printf(cmd, "Rule saved: %q -> %s\n", r.Pattern, r.Category)

				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List rules, longest pattern first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := e.open()
				if err != nil {
					return err
				}

				rules, err := a.Rules.Rules(cmd.Context(), e.owner)
				if err != nil {
					return err
				}

				if len(rules) == 0 {
					printf(cmd, "No rules for %s\n", e.owner)
					return nil
				}

				for _, r := range rules {
					printf(cmd, "%-30s %s\n", r.Pattern, r.Category)
				}

				return nil
			},
		},
	)

	return cmd
}
