package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rentwatch/internal/infra/config"
	"rentwatch/internal/infra/logger"

	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one reconciliation pass and print the summary",
		Long: `Runs the same code path as the daily scheduled job for a single date
(default: yesterday). Safe to repeat and to use for backfills: dates that
were already reconciled are skipped by the idempotency gate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, dateFlag)
		},
	}
	cmd.Flags().StringVar(&dateFlag, "date", "", "due date to reconcile (YYYY-MM-DD, default yesterday)")
	return cmd
}

func runReconcile(cmd *cobra.Command, dateFlag string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg)
	log := logger.Get()

	target := time.Now().AddDate(0, 0, -1)
	if dateFlag != "" {
		target, err = time.Parse("2006-01-02", dateFlag)
		if err != nil {
			return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
		}
	}

	service, db, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
	defer cancel()

	summary, err := service.RunForDate(ctx, target)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
