package landlord

import "context"

// Repository defines read access to landlords.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Landlord, error)
}
