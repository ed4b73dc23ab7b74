package notifier

import (
	"context"

	"rentwatch/internal/domain/notify"

	"github.com/sirupsen/logrus"
)

// LogDispatcher writes notifications to the log instead of delivering them.
// Used when NOTIFY_CHANNEL=log, typically in development.
type LogDispatcher struct {
	logger *logrus.Logger
}

func NewLogDispatcher(logger *logrus.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Notify(ctx context.Context, kind notify.Kind, to notify.Recipient, payload notify.Payload) error {
	fields := logrus.Fields{
		"kind":      kind,
		"recipient": to.Email,
		"property":  payload.PropertyAddress,
		"due_date":  payload.DueDate.Format("2006-01-02"),
		"expected":  payload.ExpectedAmount.StringFixed(2),
	}
	if payload.ActualAmount != nil {
		fields["actual"] = payload.ActualAmount.StringFixed(2)
	}
	d.logger.WithFields(fields).Info("Notification (log channel)")
	return nil
}
