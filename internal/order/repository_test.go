package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id",
		"ship_address", "ship_city", "ship_postal_code", "ship_country",
		"payment_method",
		"items_price", "shipping_price", "total_price",
		"is_paid", "paid_at",
		"payment_txn_id", "payment_status", "payment_update_time", "payment_email",
		"is_delivered", "delivered_at",
		"created_at", "updated_at",
	})
}

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"order_id", "product_id", "name", "imageurl", "price", "quantity",
	})
}

func TestRepository_CreateOrderTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	params := CreateOrderParams{
		UserID: 1,
		Lines: []RequestedLine{
			{ProductID: "prod-1", Quantity: 3},
			{ProductID: "deleted", Quantity: 2},
		},
		PaymentMethod: "payhere",
		ShippingAddress: ShippingAddress{
			Address: "12 Galle Rd", City: "Colombo",
			PostalCode: "00300", Country: "Sri Lanka",
		},
	}

	t.Run("Prices derived server-side, missing products skipped", func(t *testing.T) {
		mock.ExpectBegin()

		// Only prod-1 resolves: 3 x 500g at 1000 each.
		mock.ExpectQuery("SELECT id, name, imageurl, weight, price FROM products").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "imageurl", "weight", "price"}).
				AddRow("prod-1", "Peanut Butter", "/img/pb.jpg", "500g", 1000.0))

		// 1.5kg total weight: 350 base + one started extra tier.
		mock.ExpectExec("INSERT INTO orders").
			WithArgs(
				sqlmock.AnyArg(), uint(1),
				"12 Galle Rd", "Colombo", "00300", "Sri Lanka",
				"payhere",
				3000.0, 430.0, 3430.0,
				sqlmock.AnyArg(), sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		// The unresolvable line produced no snapshot row.
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(sqlmock.AnyArg(), "prod-1", "Peanut Butter", "/img/pb.jpg", 1000.0, 3).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectCommit()

		o, err := repo.CreateOrderTx(context.Background(), params)

		require.NoError(t, err)
		assert.Equal(t, 3000.0, o.ItemsPrice)
		assert.Equal(t, 430.0, o.ShippingPrice)
		assert.Equal(t, 3430.0, o.TotalPrice)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "prod-1", o.Items[0].ProductID)
		assert.False(t, o.IsPaid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No line resolves, order rejected", func(t *testing.T) {
		mock.ExpectBegin()

		// Both products were deleted after carting: nothing to snapshot,
		// so no order (and no base shipping charge) may be persisted.
		mock.ExpectQuery("SELECT id, name, imageurl, weight, price FROM products").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "imageurl", "weight", "price"}))

		mock.ExpectRollback()

		o, err := repo.CreateOrderTx(context.Background(), CreateOrderParams{
			UserID: 1,
			Lines: []RequestedLine{
				{ProductID: "deleted-1", Quantity: 3},
				{ProductID: "deleted-2", Quantity: 2},
			},
			PaymentMethod:   "payhere",
			ShippingAddress: params.ShippingAddress,
		})

		assert.ErrorIs(t, err, ErrNoOrderItems)
		assert.Nil(t, o)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name, imageurl, weight, price FROM products").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "imageurl", "weight", "price"}).
				AddRow("prod-1", "Peanut Butter", "/img/pb.jpg", "500g", 1000.0))
		mock.ExpectExec("INSERT INTO orders").
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		_, err := repo.CreateOrderTx(context.Background(), params)
		assert.Error(t, err)
	})
}

func TestRepository_MarkPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	paidAt := time.Now()
	result := PaymentResult{
		TransactionID: "txn-9",
		Status:        "2",
		UpdateTime:    paidAt.Format(time.RFC3339),
		EmailAddress:  "payer@example.com",
	}

	t.Run("First call succeeds", func(t *testing.T) {
		rows := orderRows().AddRow(
			"ord-1", 1,
			"12 Galle Rd", "Colombo", "00300", "Sri Lanka",
			"payhere",
			3000.0, 430.0, 3430.0,
			true, paidAt,
			"txn-9", "2", result.UpdateTime, "payer@example.com",
			false, nil,
			time.Now(), time.Now(),
		)

		mock.ExpectQuery("UPDATE orders SET is_paid = true(.+)WHERE id = \\$1 AND is_paid = false").
			WithArgs("ord-1", sqlmock.AnyArg(), "txn-9", "2", result.UpdateTime, "payer@example.com").
			WillReturnRows(rows)
		mock.ExpectQuery("SELECT(.+)FROM order_items").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(itemRows())

		o, err := repo.MarkPaid(context.Background(), "ord-1", paidAt, result)

		require.NoError(t, err)
		assert.True(t, o.IsPaid)
		require.NotNil(t, o.PaymentResult)
		assert.Equal(t, "txn-9", o.PaymentResult.TransactionID)
	})

	t.Run("Already paid", func(t *testing.T) {
		mock.ExpectQuery("UPDATE orders SET is_paid = true").
			WillReturnRows(orderRows())
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("ord-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := repo.MarkPaid(context.Background(), "ord-1", paidAt, result)
		assert.ErrorIs(t, err, ErrOrderAlreadyPaid)
	})

	t.Run("Missing order", func(t *testing.T) {
		mock.ExpectQuery("UPDATE orders SET is_paid = true").
			WillReturnRows(orderRows())
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := repo.MarkPaid(context.Background(), "ghost", paidAt, result)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Order lines are the stored snapshot", func(t *testing.T) {
		rows := orderRows().AddRow(
			"ord-1", 1,
			"12 Galle Rd", "Colombo", "00300", "Sri Lanka",
			"payhere",
			3000.0, 430.0, 3430.0,
			false, nil,
			nil, nil, nil, nil,
			false, nil,
			time.Now(), time.Now(),
		)

		mock.ExpectQuery("SELECT(.+)FROM orders WHERE id").
			WithArgs("ord-1").
			WillReturnRows(rows)
		// Snapshot price 1000 regardless of what the catalog says today.
		mock.ExpectQuery("SELECT(.+)FROM order_items").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(itemRows().
				AddRow("ord-1", "prod-1", "Peanut Butter", "/img/pb.jpg", 1000.0, 3))

		o, err := repo.GetByID(context.Background(), "ord-1")

		require.NoError(t, err)
		assert.Equal(t, 3430.0, o.TotalPrice)
		assert.Nil(t, o.PaymentResult)
		require.Len(t, o.Items, 1)
		assert.Equal(t, 1000.0, o.Items[0].Price)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.+)FROM orders WHERE id").
			WithArgs("ghost").
			WillReturnRows(orderRows())

		_, err := repo.GetByID(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_GetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Paid filter and paging", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT(.+)FROM orders WHERE 1=1 AND is_paid(.+)ORDER BY created_at DESC LIMIT(.+)OFFSET").
			WithArgs(true, uint16(10), uint16(10)).
			WillReturnRows(orderRows().AddRow(
				"ord-1", 1,
				"12 Galle Rd", "Colombo", "00300", "Sri Lanka",
				"payhere",
				3000.0, 430.0, 3430.0,
				true, now,
				"txn-1", "2", now.Format(time.RFC3339), "jane@example.com",
				false, nil,
				now, now,
			))
		mock.ExpectQuery("SELECT(.+)FROM order_items").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(itemRows())

		paid := true
		orders, err := repo.GetAll(context.Background(), ListOptions{IsPaid: &paid, Limit: 10, Page: 2})

		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.True(t, orders[0].IsPaid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty result", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.+)FROM orders WHERE 1=1 ORDER BY created_at DESC").
			WithArgs(uint16(20), uint16(0)).
			WillReturnRows(orderRows())

		orders, err := repo.GetAll(context.Background(), ListOptions{})

		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestRepository_CountAndRevenue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT COUNT(.+)FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(4, 13720.0))

	count, revenue, err := repo.CountAndRevenue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Equal(t, 13720.0, revenue)
}
