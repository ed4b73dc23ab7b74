package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"rentwatch/internal/domain/notify"

	"github.com/sirupsen/logrus"
)

// Config is the SMTP delivery configuration.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Dispatcher delivers reconciliation notifications over SMTP. When no
// credentials are configured it logs the message instead of failing, so
// development environments run the full reconciliation path without a mail
// account.
type Dispatcher struct {
	cfg    Config
	logger *logrus.Logger
	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewDispatcher(cfg Config, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{cfg: cfg, logger: logger, send: smtp.SendMail}
}

func (d *Dispatcher) Notify(ctx context.Context, kind notify.Kind, to notify.Recipient, payload notify.Payload) error {
	if to.Email == "" {
		return fmt.Errorf("no email address for %s notification", kind)
	}

	subject, body := render(kind, to, payload)

	if d.cfg.Username == "" || d.cfg.Password == "" {
		d.logger.WithFields(logrus.Fields{
			"kind":      kind,
			"recipient": to.Email,
			"subject":   subject,
		}).Info("Email credentials not configured, logging notification instead of sending")
		return nil
	}

	msg := strings.Join([]string{
		"From: " + d.cfg.From,
		"To: " + to.Email,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)
	auth := smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	if err := d.send(addr, auth, d.cfg.From, []string{to.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send %s email to %s: %w", kind, to.Email, err)
	}

	d.logger.WithFields(logrus.Fields{"kind": kind, "recipient": to.Email}).Info("Email notification sent")
	return nil
}

func render(kind notify.Kind, to notify.Recipient, p notify.Payload) (subject, body string) {
	due := p.DueDate.Format("2006-01-02")
	switch kind {
	case notify.KindLandlordReceived:
		subject = fmt.Sprintf("Rent received - %s", p.PropertyAddress)
		body = fmt.Sprintf(
			"Hello %s,\n\nRent of %s from %s for %s was received (due %s).\n",
			to.Name, amountOrExpected(p), p.TenantName, p.PropertyAddress, due)
	case notify.KindLandlordPartial:
		subject = fmt.Sprintf("Partial rent payment - %s", p.PropertyAddress)
		body = fmt.Sprintf(
			"Hello %s,\n\nA payment of %s from %s for %s does not match the expected %s (due %s).\n",
			to.Name, amountOrExpected(p), p.TenantName, p.PropertyAddress, p.ExpectedAmount.StringFixed(2), due)
	case notify.KindLandlordMissed:
		subject = fmt.Sprintf("Rent missed - %s", p.PropertyAddress)
		body = fmt.Sprintf(
			"Hello %s,\n\nNo rent payment of %s from %s was found for %s (due %s).\n",
			to.Name, p.ExpectedAmount.StringFixed(2), p.TenantName, p.PropertyAddress, due)
	case notify.KindTenantReminder:
		subject = fmt.Sprintf("Rent reminder - %s", p.PropertyAddress)
		body = fmt.Sprintf(
			"Hello %s,\n\nThis is a reminder that your rent of %s for %s was due on %s and has not been received.\n",
			to.Name, p.ExpectedAmount.StringFixed(2), p.PropertyAddress, due)
	}
	return subject, body
}

func amountOrExpected(p notify.Payload) string {
	if p.ActualAmount != nil {
		return p.ActualAmount.StringFixed(2)
	}
	return p.ExpectedAmount.StringFixed(2)
}
