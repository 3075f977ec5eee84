package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendlens/internal/events"
)

func newWatchCmd(e *env) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print expense change events from the message broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.cfg.AMQP.URL == "" {
				return errors.New("watch requires AMQP_URL")
			}

			a, err := e.open()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = a.Broker().Consume(ctx, func(msg events.ExpensesChanged) error {
				if !all && msg.Owner != e.owner {
					return nil
				}

				printf(cmd, "%s  %-8s owner=%s count=%d total=%s\n",
					msg.At.Format(time.RFC3339), msg.Action, msg.Owner, msg.Count, a.Currency.Format(msg.Total))

				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Print events for every owner")

	return cmd
}
