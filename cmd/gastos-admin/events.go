package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gastos/internal/amqp"
)

func eventsCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print transaction events as they are published",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is not set")
			}
			if pattern == "" {
				pattern = cfg.AMQPRoutingKey + ".#"
			}

			client, err := amqp.NewClient(cmd.Context(), amqp.Config{
				URL:           cfg.AMQPURL,
				Exchange:      cfg.AMQPExchange,
				RoutingPrefix: cfg.AMQPRoutingKey,
				Logger:        logger,
			})
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			err = client.Subscribe(cmd.Context(), pattern, func(_ context.Context, ev *amqp.TransactionEvent) error {
				b, err := ev.ToJSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "binding pattern (default: <AMQP_ROUTING_KEY>.#)")
	return cmd
}
