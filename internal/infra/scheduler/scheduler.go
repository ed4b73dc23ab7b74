package scheduler

import (
	"context"
	"time"

	"rentwatch/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner is the slice of the reconciliation service the scheduler drives.
type Runner interface {
	RunForDate(ctx context.Context, date time.Time) (*app.RunSummary, error)
}

// ReconciliationScheduler triggers one reconciliation run per day. The cron
// job calls the exact same RunForDate used by the CLI and HTTP triggers, so
// a timer run, a manual backfill and a retried run all flow through the
// same idempotency gate.
type ReconciliationScheduler struct {
	cronEngine *cron.Cron
	runner     Runner
	logger     *logrus.Logger
	cronSpec   string // e.g. "0 8 * * *" (08:00 daily)
	runTimeout time.Duration
}

func NewReconciliationScheduler(runner Runner, logger *logrus.Logger, cronSpec string, runTimeout time.Duration) *ReconciliationScheduler {
	return &ReconciliationScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // wall-clock time of the host
		runner:     runner,
		logger:     logger,
		cronSpec:   cronSpec,
		runTimeout: runTimeout,
	}
}

// Start registers the daily job and starts the cron engine.
func (s *ReconciliationScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for daily rent reconciliation")
		s.runYesterday()
	})
	if err != nil {
		return err
	}
	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Reconciliation scheduler started")
	return nil
}

// runYesterday reconciles the previous calendar day. Rent due yesterday has
// had a full banking day to land, so the feed is checked one day behind.
func (s *ReconciliationScheduler) runYesterday() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	target := time.Now().AddDate(0, 0, -1)
	summary, err := s.runner.RunForDate(ctx, target)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled reconciliation run failed; will retry on the next tick")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"run_id":    summary.RunID,
		"processed": summary.Processed,
		"failed":    summary.Failed,
	}).Info("Scheduled reconciliation run finished")
}

// Stop stops the cron engine and waits for any in-flight run to complete.
// An abandoned run is safe to cut short: committed ledger entries stand and
// the next run's idempotency gate skips them.
func (s *ReconciliationScheduler) Stop() {
	s.logger.Info("Stopping reconciliation scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Reconciliation scheduler gracefully stopped")
}
