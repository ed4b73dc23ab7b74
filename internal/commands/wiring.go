package commands

import (
	"database/sql"
	"fmt"

	"rentwatch/internal/app"
	"rentwatch/internal/domain/notify"
	"rentwatch/internal/infra/akahu"
	"rentwatch/internal/infra/config"
	"rentwatch/internal/infra/database"
	"rentwatch/internal/infra/email"
	"rentwatch/internal/infra/notifier"
	"rentwatch/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

// buildService wires the reconciliation engine and its collaborators from
// configuration. The caller owns closing the returned *sql.DB.
func buildService(cfg *config.AppConfig, log *logrus.Logger) (*app.ReconciliationService, *sql.DB, error) {
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to database: %w", err)
	}

	dispatcher, err := buildDispatcher(cfg, log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	feed := akahu.NewClient(cfg.AkahuBaseURL, cfg.AkahuTimeout, log)
	service := app.NewReconciliationService(
		database.NewPostgresPropertyRepository(db),
		database.NewPostgresLandlordRepository(db),
		database.NewPostgresLedgerStore(db),
		app.NewTransactionMatcher(feed, log),
		dispatcher,
		log,
		cfg.WorkerCount,
	)
	return service, db, nil
}

func buildDispatcher(cfg *config.AppConfig, log *logrus.Logger) (notify.Dispatcher, error) {
	switch cfg.NotifyChannel {
	case config.NotifyChannelTelegram:
		return telegram.NewDispatcher(cfg.TelegramToken, log)
	case config.NotifyChannelLog:
		return notifier.NewLogDispatcher(log), nil
	default:
		return email.NewDispatcher(email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, log), nil
	}
}
