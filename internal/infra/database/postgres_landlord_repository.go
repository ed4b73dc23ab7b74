package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentwatch/internal/domain/landlord"
)

var ErrLandlordNotFound = errors.New("landlord not found")

type PostgresLandlordRepository struct {
	db *sql.DB
}

func NewPostgresLandlordRepository(db *sql.DB) *PostgresLandlordRepository {
	return &PostgresLandlordRepository{db: db}
}

func (r *PostgresLandlordRepository) GetByID(ctx context.Context, id int64) (*landlord.Landlord, error) {
	query := `SELECT id, email, first_name, telegram_chat_id, akahu_app_token, akahu_user_token, created_at
               FROM landlords WHERE id = $1`
	l := landlord.Landlord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Email, &l.FirstName, &l.TelegramChatID,
		&l.AkahuAppToken, &l.AkahuUserToken, &l.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLandlordNotFound
		}
		return nil, fmt.Errorf("error getting landlord by ID: %w", err)
	}
	return &l, nil
}
