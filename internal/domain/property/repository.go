package property

import "context"

// Repository defines the operations for persisting and retrieving properties.
type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id int64) (*Property, error)
	ListByLandlord(ctx context.Context, landlordID int64) ([]*Property, error)
	// ListAll returns every property across all landlords; the
	// reconciliation run iterates this set.
	ListAll(ctx context.Context) ([]*Property, error)
	Update(ctx context.Context, p *Property) error
}
