package ledger

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Status classifies the outcome of reconciling one due date.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReceived Status = "received"
	StatusMissed   Status = "missed"
	StatusPartial  Status = "partial"
)

// RentPayment is one immutable ledger entry: the reconciliation outcome for
// a single (property, due date) pair. The pair is unique; an entry is
// created exactly once and never deleted. Only the notified flags change
// after creation, set once a notification was actually dispatched.
// Corresponds to the 'rent_payments' table.
type RentPayment struct {
	ID                     int64
	PropertyID             int64
	ExpectedAmount         decimal.Decimal
	ActualAmount           decimal.NullDecimal // null unless a bank transaction was matched
	DueDate                time.Time
	ReceivedDate           sql.NullTime
	Status                 Status
	TransactionDescription sql.NullString
	TransactionReference   sql.NullString
	LandlordNotified       bool
	TenantNotified         bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// DateOnly truncates t to midnight UTC. Due dates are calendar dates; every
// path that touches the ledger key normalises through here so lookups and
// the unique constraint agree.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
