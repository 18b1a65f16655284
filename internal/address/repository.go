package address

import (
	"context"
	"database/sql"
	"errors"

	"nutrimart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrAddressNotFound = errors.New("address not found")

type Repository interface {
	// GetByUserID returns the user's addresses, default-marked first.
	GetByUserID(ctx context.Context, userID uint) ([]*Address, error)
	Create(ctx context.Context, userID uint, input CreateAddressInput) (*Address, error)
	SetDefault(ctx context.Context, userID uint, addressID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID uint) ([]*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "GetByUserID"),
		zap.Uint("user_id", userID),
	)

	const q = `
		SELECT
			id, user_id,
			name, phone,
			address, city, postal_code, country,
			is_default
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var res []*Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(
			&a.ID, &a.UserID,
			&a.Name, &a.Phone,
			&a.Address, &a.City, &a.PostalCode, &a.Country,
			&a.IsDefault,
		); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, &a)
	}

	return res, rows.Err()
}

func (r *repository) Create(ctx context.Context, userID uint, input CreateAddressInput) (*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "Create"),
		zap.Uint("user_id", userID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if input.SetAsDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE addresses SET is_default = false WHERE user_id = $1
		`, userID); err != nil {
			return nil, err
		}
	}

	a := &Address{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       input.Name,
		Phone:      input.Phone,
		Address:    input.Address,
		City:       input.City,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		IsDefault:  input.SetAsDefault,
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO addresses (
			id, user_id, name, phone,
			address, city, postal_code, country, is_default
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		a.ID, a.UserID, a.Name, a.Phone,
		a.Address, a.City, a.PostalCode, a.Country, a.IsDefault,
	); err != nil {
		log.Error("insert failed", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return a, nil
}

func (r *repository) SetDefault(ctx context.Context, userID uint, addressID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE addresses SET is_default = false WHERE user_id = $1
	`, userID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE addresses SET is_default = true
		WHERE id = $1 AND user_id = $2
	`, addressID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAddressNotFound
	}

	return tx.Commit()
}
