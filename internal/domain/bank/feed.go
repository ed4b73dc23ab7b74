package bank

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Credential is a landlord's linked bank-feed access pair.
type Credential struct {
	AppToken  string
	UserToken string
}

// Transaction is a normalized bank transaction as seen by the core. Raw
// feed payloads never cross this boundary; the feed implementation parses
// them into this shape. Transactions are ephemeral and not persisted
// directly, they only inform the ledger entry.
type Transaction struct {
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Reference   string
}

// Feed is an external bank-transaction source. Implementations return the
// transactions visible for the credential within the inclusive date range,
// in feed-defined order.
type Feed interface {
	FetchTransactions(ctx context.Context, cred Credential, from, to time.Time) ([]Transaction, error)
}
