package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/PatentVault/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

func newEventsCmd() *cobra.Command {
	var fromStart bool
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow the portfolio event topic",
		Long:  "Prints portfolio events (created, imported, updated, deleted, reminder.sent)\nfrom the configured Kafka topic until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if !cliCtx.Config.Kafka.Enabled {
				return errors.InvalidParam("kafka is not enabled in the configuration")
			}

			consumer, err := kafka.NewConsumer(cliCtx.Config.Kafka, fromStart, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = consumer.Run(ctx, printEvent(cmd, cliCtx.OutputFormat))
			consumed, failed := consumer.Counts()
			cliCtx.Logger.Info("event consumer stopped",
				logging.Int64("consumed", consumed), logging.Int64("failed", failed))
			return err
		},
	}
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "read the topic from the earliest offset")
	return cmd
}

// printEvent writes one line per event, or the raw envelope in json mode.
func printEvent(cmd *cobra.Command, format string) kafka.EventHandler {
	return func(_ context.Context, env *kafka.EventEnvelope) error {
		if format == "json" {
			return printJSON(cmd, env)
		}
		ev, err := env.Event()
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%s  %-16s %s", env.Timestamp.Format("2006-01-02 15:04:05"), ev.Type, ev.PatentID)
		if ev.Name != "" {
			line += "  " + ev.Name
		}
		if len(ev.Recipients) > 0 {
			line += "  -> " + strings.Join(ev.Recipients, ", ")
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
		return nil
	}
}

//Personal.AI order the ending
