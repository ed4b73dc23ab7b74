package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentwatch/internal/domain/property"
)

var ErrPropertyNotFound = errors.New("property not found")

type PostgresPropertyRepository struct {
	db *sql.DB
}

func NewPostgresPropertyRepository(db *sql.DB) *PostgresPropertyRepository {
	return &PostgresPropertyRepository{db: db}
}

const propertySelect = `SELECT id, landlord_id, address, tenant_name, tenant_email,
               rent_amount, rent_frequency, rent_due_day_of_week, rent_due_day,
               bank_statement_keyword, send_tenant_reminder, created_at, updated_at
               FROM properties`

func (r *PostgresPropertyRepository) Create(ctx context.Context, p *property.Property) error {
	query := `INSERT INTO properties
                (landlord_id, address, tenant_name, tenant_email,
                 rent_amount, rent_frequency, rent_due_day_of_week, rent_due_day,
                 bank_statement_keyword, send_tenant_reminder)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
               RETURNING id, created_at, updated_at`
	dow, dom := dueDayColumns(p.Rule)
	err := r.db.QueryRowContext(ctx, query,
		p.LandlordID, p.Address, p.TenantName, p.TenantEmail,
		p.Rule.ExpectedAmount, p.Rule.Frequency, dow, dom,
		p.Rule.MatchKeyword, p.SendTenantReminder,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating property: %w", err)
	}
	return nil
}

func (r *PostgresPropertyRepository) GetByID(ctx context.Context, id int64) (*property.Property, error) {
	query := propertySelect + ` WHERE id = $1`
	p, err := scanProperty(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("error getting property by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresPropertyRepository) ListByLandlord(ctx context.Context, landlordID int64) ([]*property.Property, error) {
	query := propertySelect + ` WHERE landlord_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, landlordID)
	if err != nil {
		return nil, fmt.Errorf("error querying properties by landlord: %w", err)
	}
	defer rows.Close()
	return scanProperties(rows)
}

func (r *PostgresPropertyRepository) ListAll(ctx context.Context) ([]*property.Property, error) {
	query := propertySelect + ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying all properties: %w", err)
	}
	defer rows.Close()
	return scanProperties(rows)
}

func (r *PostgresPropertyRepository) Update(ctx context.Context, p *property.Property) error {
	query := `UPDATE properties
               SET address = $1, tenant_name = $2, tenant_email = $3,
                   rent_amount = $4, rent_frequency = $5, rent_due_day_of_week = $6,
                   rent_due_day = $7, bank_statement_keyword = $8,
                   send_tenant_reminder = $9, updated_at = NOW()
               WHERE id = $10
               RETURNING updated_at`
	dow, dom := dueDayColumns(p.Rule)
	err := r.db.QueryRowContext(ctx, query,
		p.Address, p.TenantName, p.TenantEmail,
		p.Rule.ExpectedAmount, p.Rule.Frequency, dow, dom,
		p.Rule.MatchKeyword, p.SendTenantReminder, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrPropertyNotFound
		}
		return fmt.Errorf("error updating property: %w", err)
	}
	return nil
}

// dueDayColumns maps the rule's single meaningful due-day field onto the
// two nullable schema columns.
func dueDayColumns(rule property.RentRule) (dayOfWeek, dayOfMonth sql.NullInt64) {
	switch rule.Frequency {
	case property.FrequencyWeekly, property.FrequencyFortnightly:
		dayOfWeek = sql.NullInt64{Int64: int64(rule.DueDayOfWeek), Valid: true}
	case property.FrequencyMonthly:
		dayOfMonth = sql.NullInt64{Int64: int64(rule.DueDayOfMonth), Valid: true}
	}
	return dayOfWeek, dayOfMonth
}

func scanProperty(row rowScanner) (*property.Property, error) {
	p := property.Property{}
	var dayOfWeek, dayOfMonth sql.NullInt64
	err := row.Scan(
		&p.ID, &p.LandlordID, &p.Address, &p.TenantName, &p.TenantEmail,
		&p.Rule.ExpectedAmount, &p.Rule.Frequency, &dayOfWeek, &dayOfMonth,
		&p.Rule.MatchKeyword, &p.SendTenantReminder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Rule.DueDayOfWeek = int(dayOfWeek.Int64)
	p.Rule.DueDayOfMonth = int(dayOfMonth.Int64)
	return &p, nil
}

func scanProperties(rows *sql.Rows) ([]*property.Property, error) {
	properties := make([]*property.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning property row: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return properties, nil
}
