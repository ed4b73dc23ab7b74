package telegram

import (
	"context"
	"fmt"

	"rentwatch/internal/domain/notify"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Dispatcher delivers reconciliation notifications to a landlord's linked
// Telegram chat. Tenant reminders stay on email; Telegram chat IDs are only
// collected for landlords.
type Dispatcher struct {
	bot    *telebot.Bot
	logger *logrus.Logger
}

func NewDispatcher(token string, logger *logrus.Logger) (*Dispatcher, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Dispatcher{bot: bot, logger: logger}, nil
}

func (d *Dispatcher) Notify(ctx context.Context, kind notify.Kind, to notify.Recipient, payload notify.Payload) error {
	if to.TelegramChatID == 0 {
		return fmt.Errorf("no telegram chat linked for %s notification", kind)
	}

	_, err := d.bot.Send(&telebot.Chat{ID: to.TelegramChatID}, messageFor(kind, payload))
	if err != nil {
		return fmt.Errorf("failed to send %s telegram message: %w", kind, err)
	}
	d.logger.WithFields(logrus.Fields{"kind": kind, "chat_id": to.TelegramChatID}).
		Info("Telegram notification sent")
	return nil
}

func messageFor(kind notify.Kind, p notify.Payload) string {
	due := p.DueDate.Format("2006-01-02")
	switch kind {
	case notify.KindLandlordReceived:
		return fmt.Sprintf("✅ Rent received for %s: %s from %s (due %s)",
			p.PropertyAddress, p.ActualAmount.StringFixed(2), p.TenantName, due)
	case notify.KindLandlordPartial:
		return fmt.Sprintf("⚠️ Partial rent for %s: got %s, expected %s from %s (due %s)",
			p.PropertyAddress, p.ActualAmount.StringFixed(2), p.ExpectedAmount.StringFixed(2), p.TenantName, due)
	case notify.KindLandlordMissed:
		return fmt.Sprintf("❌ Rent missed for %s: %s from %s not found (due %s)",
			p.PropertyAddress, p.ExpectedAmount.StringFixed(2), p.TenantName, due)
	case notify.KindTenantReminder:
		return fmt.Sprintf("Reminder: rent of %s for %s was due on %s",
			p.ExpectedAmount.StringFixed(2), p.PropertyAddress, due)
	}
	return ""
}
