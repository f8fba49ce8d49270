package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/database"
	"github.com/justsurfingit/careerkit/internal/queue"
	"github.com/justsurfingit/careerkit/internal/services"
)

func (c *cli) workerCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run queued pipeline runs from RabbitMQ",
		Long: `Consume the agent_runs queue, run each pipeline and store its output on
the run record. Progress is published to the run_updates exchange.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.RabbitMQURL == "" {
				return errors.New("RABBITMQ_URL is not set")
			}
			db, err := database.Connect(c.cfg.DatabaseURL, c.log)
			if err != nil {
				return err
			}
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			broker, err := queue.Dial(c.cfg.RabbitMQURL, c.log)
			if err != nil {
				return err
			}
			defer broker.Close()

			p := queue.NewProcessor(a.Suite, services.NewRunService(db), broker, c.log)
			c.log.Info("waiting for runs", zap.Int("workers", workers))
			return broker.Consume(cmd.Context(), workers, p)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "Number of concurrent runs")
	return cmd
}
