package cart

import (
	"context"
	"database/sql"

	"nutrimart-be/internal/logger"

	"go.uber.org/zap"
)

// Repository persists cart rows. Every mutation is a single SQL statement
// so concurrent tabs hammering the same cart cannot lose updates.
type Repository interface {
	GetItems(ctx context.Context, userID uint) ([]Item, error)
	// AddItem merges quantity into an existing row or inserts a new one,
	// atomically.
	AddItem(ctx context.Context, userID uint, productID string, quantity int) error
	// SetQuantity overwrites a row's quantity; ErrCartItemNotFound when the
	// row does not exist.
	SetQuantity(ctx context.Context, userID uint, productID string, quantity int) error
	// RemoveItem deletes a row if present; ErrCartItemNotFound when absent.
	RemoveItem(ctx context.Context, userID uint, productID string) error
	// Clear deletes every row of the user's cart. Clearing an absent cart
	// succeeds.
	Clear(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetItems(ctx context.Context, userID uint) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, product_id, quantity, created_at, updated_at
		FROM carts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.UserID, &it.ProductID, &it.Quantity,
			&it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (r *repository) AddItem(ctx context.Context, userID uint, productID string, quantity int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "AddCartItem"),
		zap.Uint("user_id", userID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET
			quantity = carts.quantity + EXCLUDED.quantity,
			updated_at = NOW()
	`, userID, productID, quantity)
	if err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return err
	}

	log.Debug("cart item upserted")
	return nil
}

func (r *repository) SetQuantity(ctx context.Context, userID uint, productID string, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`, quantity, userID, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) RemoveItem(ctx context.Context, userID uint, productID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1
	`, userID)
	return err
}
