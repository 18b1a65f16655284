package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nutrimart-be/internal/logger"
	"nutrimart-be/internal/pricing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx resolves the requested products, prices the order and
	// persists it inside one transaction, so a concurrent price edit can
	// never split the snapshot.
	CreateOrderTx(ctx context.Context, params CreateOrderParams) (*Order, error)
	GetByID(ctx context.Context, orderID string) (*Order, error)
	GetByUser(ctx context.Context, userID uint) ([]*Order, error)
	// GetAll is the admin listing, newest first, with optional paid/
	// delivered filters.
	GetAll(ctx context.Context, opts ListOptions) ([]*Order, error)
	// MarkPaid flips is_paid exactly once; a second call reports
	// ErrOrderAlreadyPaid and leaves the first result untouched.
	MarkPaid(ctx context.Context, orderID string, paidAt time.Time, result PaymentResult) (*Order, error)
	MarkDelivered(ctx context.Context, orderID string, deliveredAt time.Time) (*Order, error)
	CountAndRevenue(ctx context.Context) (int64, float64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, user_id,
	ship_address, ship_city, ship_postal_code, ship_country,
	payment_method,
	items_price, shipping_price, total_price,
	is_paid, paid_at,
	payment_txn_id, payment_status, payment_update_time, payment_email,
	is_delivered, delivered_at,
	created_at, updated_at`

func (r *repository) CreateOrderTx(ctx context.Context, params CreateOrderParams) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.Uint("user_id", params.UserID),
		zap.Int("requested_lines", len(params.Lines)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Resolve live products inside the transaction. Requested lines
	// whose product no longer exists are skipped: they contribute nothing
	// to the snapshot or the price.
	ids := make([]string, 0, len(params.Lines))
	for _, l := range params.Lines {
		ids = append(ids, l.ProductID)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, imageurl, weight, price
		FROM products
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	type liveProduct struct {
		name     string
		imageURL string
		weight   string
		price    float64
	}
	live := make(map[string]liveProduct, len(ids))

	for rows.Next() {
		var id string
		var p liveProduct
		if err := rows.Scan(&id, &p.name, &p.imageURL, &p.weight, &p.price); err != nil {
			rows.Close()
			return nil, err
		}
		live[id] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 2. Snapshot lines and price them with current catalog data.
	var items []OrderItem
	var priceLines []pricing.Line

	for _, l := range params.Lines {
		p, ok := live[l.ProductID]
		if !ok {
			log.Warn("skipping unresolvable order line",
				zap.String("product_id", l.ProductID),
			)
			continue
		}

		items = append(items, OrderItem{
			ProductID: l.ProductID,
			Name:      p.name,
			ImageURL:  p.imageURL,
			Price:     p.price,
			Quantity:  l.Quantity,
		})
		priceLines = append(priceLines, pricing.Line{
			UnitPrice: p.price,
			Quantity:  l.Quantity,
			Weight:    p.weight,
		})
	}

	// An order must snapshot at least one real product; if every requested
	// line pointed at a deleted product there is nothing to deliver, and
	// charging base shipping for it would be wrong.
	if len(items) == 0 {
		log.Warn("rejecting order: no requested line resolved")
		return nil, ErrNoOrderItems
	}

	quote := pricing.Calculate(priceLines)

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          params.UserID,
		Items:           items,
		ShippingAddress: params.ShippingAddress,
		PaymentMethod:   params.PaymentMethod,
		ItemsPrice:      quote.ItemsPrice,
		ShippingPrice:   quote.ShippingPrice,
		TotalPrice:      quote.TotalPrice,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	// 3. Persist order + item snapshots.
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id,
			ship_address, ship_city, ship_postal_code, ship_country,
			payment_method,
			items_price, shipping_price, total_price,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		o.ID, o.UserID,
		o.ShippingAddress.Address, o.ShippingAddress.City,
		o.ShippingAddress.PostalCode, o.ShippingAddress.Country,
		o.PaymentMethod,
		o.ItemsPrice, o.ShippingPrice, o.TotalPrice,
		o.CreatedAt, o.UpdatedAt,
	); err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	for _, item := range o.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, name, imageurl, price, quantity
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			o.ID, item.ProductID, item.Name, item.ImageURL,
			item.Price, item.Quantity,
		); err != nil {
			log.Error("failed to insert order item", zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("order created",
		zap.String("order_id", o.ID),
		zap.Float64("total_price", o.TotalPrice),
		zap.Int("lines", len(o.Items)),
	)

	return o, nil
}

func (r *repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, orderID)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) GetByUser(ctx context.Context, userID uint) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) GetAll(ctx context.Context, opts ListOptions) ([]*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE 1=1`
	args := []any{}

	if opts.IsPaid != nil {
		args = append(args, *opts.IsPaid)
		query += fmt.Sprintf(" AND is_paid = $%d", len(args))
	}
	if opts.IsDelivered != nil {
		args = append(args, *opts.IsDelivered)
		query += fmt.Sprintf(" AND is_delivered = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit == 0 {
		limit = 20
	}
	page := opts.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, (page-1)*limit)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) MarkPaid(ctx context.Context, orderID string, paidAt time.Time, result PaymentResult) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET is_paid = true,
		    paid_at = $2,
		    payment_txn_id = $3,
		    payment_status = $4,
		    payment_update_time = $5,
		    payment_email = $6,
		    updated_at = NOW()
		WHERE id = $1 AND is_paid = false
		RETURNING `+orderColumns,
		orderID, paidAt,
		result.TransactionID, result.Status, result.UpdateTime, result.EmailAddress,
	)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		// Either missing or already paid; look once more to tell them apart.
		var exists bool
		if qErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID,
		).Scan(&exists); qErr != nil {
			return nil, qErr
		}
		if exists {
			return nil, ErrOrderAlreadyPaid
		}
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) MarkDelivered(ctx context.Context, orderID string, deliveredAt time.Time) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET is_delivered = true,
		    delivered_at = $2,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		orderID, deliveredAt,
	)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) CountAndRevenue(ctx context.Context) (int64, float64, error) {
	var count int64
	var revenue float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE is_paid = true
	`).Scan(&count, &revenue)
	return count, revenue, err
}

func (r *repository) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[string]*Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, name, imageurl, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id ASC
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item OrderItem
		if err := rows.Scan(
			&orderID, &item.ProductID, &item.Name,
			&item.ImageURL, &item.Price, &item.Quantity,
		); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	return rows.Err()
}

func scanOrder(s interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	var paidAt, deliveredAt sql.NullTime
	var txnID, status, updateTime, email sql.NullString

	err := s.Scan(
		&o.ID, &o.UserID,
		&o.ShippingAddress.Address, &o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.PaymentMethod,
		&o.ItemsPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.IsPaid, &paidAt,
		&txnID, &status, &updateTime, &email,
		&o.IsDelivered, &deliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}
	if txnID.Valid {
		o.PaymentResult = &PaymentResult{
			TransactionID: txnID.String,
			Status:        status.String,
			UpdateTime:    updateTime.String,
			EmailAddress:  email.String,
		}
	}

	return &o, nil
}
