package landlord

import (
	"database/sql"
	"time"
)

// Landlord is the owner of one or more properties. Registration, auth and
// subscription state live in the surrounding web application; only the
// fields the reconciliation engine consumes are modelled here.
type Landlord struct {
	ID             int64
	Email          string
	FirstName      string
	TelegramChatID sql.NullInt64 // set when the landlord linked a Telegram chat for alerts
	AkahuAppToken  sql.NullString
	AkahuUserToken sql.NullString
	CreatedAt      time.Time
}

// HasBankFeed reports whether the landlord linked a bank feed. Without both
// tokens no feed call is attempted and every due date reconciles as missed.
func (l *Landlord) HasBankFeed() bool {
	return l.AkahuAppToken.Valid && l.AkahuAppToken.String != "" &&
		l.AkahuUserToken.Valid && l.AkahuUserToken.String != ""
}
