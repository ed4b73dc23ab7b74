package ledger

import (
	"context"
	"time"
)

// Store defines the durability operations for rent payment ledger entries.
//
// Create must enforce the (property_id, due_date) uniqueness at the storage
// layer and fail with the store's duplicate-payment error when the pair
// already exists: the Exists check alone is not race-safe when runs overlap.
type Store interface {
	Exists(ctx context.Context, propertyID int64, dueDate time.Time) (bool, error)
	Create(ctx context.Context, p *RentPayment) error
	GetByPropertyAndDate(ctx context.Context, propertyID int64, dueDate time.Time) (*RentPayment, error)
	// ListByProperty returns a property's entries ordered by due date descending.
	ListByProperty(ctx context.Context, propertyID int64) ([]*RentPayment, error)
	MarkLandlordNotified(ctx context.Context, id int64) error
	MarkTenantNotified(ctx context.Context, id int64) error
}
