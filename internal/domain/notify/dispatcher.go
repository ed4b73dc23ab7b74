package notify

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which reconciliation outcome a notification reports.
type Kind string

const (
	KindLandlordReceived Kind = "landlord_received"
	KindLandlordMissed   Kind = "landlord_missed"
	KindLandlordPartial  Kind = "landlord_partial"
	KindTenantReminder   Kind = "tenant_reminder"
)

// Recipient carries the delivery addresses known for the target person.
// Each dispatcher uses the field relevant to its channel.
type Recipient struct {
	Name           string
	Email          string
	TelegramChatID int64
}

// Payload is the reconciliation context rendered into the outbound message.
type Payload struct {
	PropertyAddress string
	TenantName      string
	ExpectedAmount  decimal.Decimal
	ActualAmount    *decimal.Decimal // set for received and partial outcomes
	DueDate         time.Time
	ReceivedDate    *time.Time
}

// Dispatcher delivers a notification over some channel. Delivery is
// best-effort and fire-and-forget from the engine's point of view: the
// engine logs failures but never retries, and a failed dispatch must not
// affect ledger correctness. Retry policy, if any, belongs to the
// implementation.
type Dispatcher interface {
	Notify(ctx context.Context, kind Kind, to Recipient, payload Payload) error
}
