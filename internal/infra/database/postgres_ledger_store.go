package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentwatch/internal/domain/ledger"

	"github.com/lib/pq"
)

// Custom errors specific to the ledger store.
var ErrPaymentNotFound = errors.New("rent payment not found")
var ErrDuplicatePayment = errors.New("duplicate rent payment (property_id, due_date)")

// uniqueViolation is the PostgreSQL error code for a unique constraint
// violation; the rent_payments_property_due_unique constraint is the
// durable half of the idempotency gate.
const uniqueViolation = "23505"

type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{db: db}
}

func (s *PostgresLedgerStore) Exists(ctx context.Context, propertyID int64, dueDate time.Time) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM rent_payments WHERE property_id = $1 AND due_date = $2)`
	var exists bool
	err := s.db.QueryRowContext(ctx, query, propertyID, ledger.DateOnly(dueDate)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking for existing rent payment: %w", err)
	}
	return exists, nil
}

func (s *PostgresLedgerStore) Create(ctx context.Context, p *ledger.RentPayment) error {
	query := `INSERT INTO rent_payments
                (property_id, expected_amount, actual_amount, due_date, received_date,
                 status, transaction_description, transaction_reference,
                 landlord_notified, tenant_notified)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
               RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		p.PropertyID, p.ExpectedAmount, p.ActualAmount, ledger.DateOnly(p.DueDate), p.ReceivedDate,
		p.Status, p.TransactionDescription, p.TransactionReference,
		p.LandlordNotified, p.TenantNotified,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicatePayment
		}
		return fmt.Errorf("error creating rent payment: %w", err)
	}
	return nil
}

func (s *PostgresLedgerStore) GetByPropertyAndDate(ctx context.Context, propertyID int64, dueDate time.Time) (*ledger.RentPayment, error) {
	query := paymentSelect + ` WHERE property_id = $1 AND due_date = $2`
	p := ledger.RentPayment{}
	err := scanPayment(s.db.QueryRowContext(ctx, query, propertyID, ledger.DateOnly(dueDate)), &p)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error getting rent payment by property and date: %w", err)
	}
	return &p, nil
}

func (s *PostgresLedgerStore) ListByProperty(ctx context.Context, propertyID int64) ([]*ledger.RentPayment, error) {
	query := paymentSelect + ` WHERE property_id = $1 ORDER BY due_date DESC`
	rows, err := s.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("error querying rent payments by property: %w", err)
	}
	defer rows.Close()

	payments := make([]*ledger.RentPayment, 0)
	for rows.Next() {
		p := ledger.RentPayment{}
		if err := scanPayment(rows, &p); err != nil {
			return nil, fmt.Errorf("error scanning rent payment row: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rent payment rows: %w", err)
	}
	return payments, nil
}

func (s *PostgresLedgerStore) MarkLandlordNotified(ctx context.Context, id int64) error {
	return s.markNotified(ctx, id, "landlord_notified")
}

func (s *PostgresLedgerStore) MarkTenantNotified(ctx context.Context, id int64) error {
	return s.markNotified(ctx, id, "tenant_notified")
}

func (s *PostgresLedgerStore) markNotified(ctx context.Context, id int64, column string) error {
	// column is one of two compile-time constants, never user input.
	query := fmt.Sprintf(`UPDATE rent_payments SET %s = TRUE, updated_at = NOW() WHERE id = $1`, column)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking %s on rent payment %d: %w", column, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for rent payment %d: %w", id, err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

const paymentSelect = `SELECT id, property_id, expected_amount, actual_amount, due_date, received_date,
               status, transaction_description, transaction_reference,
               landlord_notified, tenant_notified, created_at, updated_at
               FROM rent_payments`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner, p *ledger.RentPayment) error {
	return row.Scan(
		&p.ID, &p.PropertyID, &p.ExpectedAmount, &p.ActualAmount, &p.DueDate, &p.ReceivedDate,
		&p.Status, &p.TransactionDescription, &p.TransactionReference,
		&p.LandlordNotified, &p.TenantNotified, &p.CreatedAt, &p.UpdatedAt,
	)
}
