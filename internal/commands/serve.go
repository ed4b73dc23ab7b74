package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentwatch/internal/infra/config"
	"rentwatch/internal/infra/database"
	"rentwatch/internal/infra/httpapi"
	"rentwatch/internal/infra/logger"
	"rentwatch/internal/infra/scheduler"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daily reconciliation scheduler and admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg)
	log := logger.Get()
	log.WithField("environment", cfg.Environment).Info("rentd starting")

	service, db, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Database connection established")

	reconScheduler := scheduler.NewReconciliationScheduler(service, log, cfg.CronSpecReconcile, cfg.RunTimeout)
	if err := reconScheduler.Start(); err != nil {
		return err
	}

	api := httpapi.NewServer(service, database.NewPostgresLedgerStore(db), log)
	httpServer := &http.Server{
		Addr:    cfg.HTTPListenAddr,
		Handler: api.Handler(),
	}
	go func() {
		log.WithField("addr", cfg.HTTPListenAddr).Info("Admin API listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Admin API server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	reconScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Admin API shutdown did not complete cleanly")
	}

	log.Info("rentd shut down gracefully")
	return nil
}
