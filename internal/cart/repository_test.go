package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_AddItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO carts(.+)ON CONFLICT").
			WithArgs(uint(1), "prod-1", 2).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.AddItem(context.Background(), 1, "prod-1", 2)
		assert.NoError(t, err)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO carts").
			WillReturnError(errors.New("db error"))

		err := repo.AddItem(context.Background(), 1, "prod-1", 2)
		assert.Error(t, err)
	})
}

func TestRepository_SetQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE carts SET quantity = \\$1").
			WithArgs(5, uint(1), "prod-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetQuantity(context.Background(), 1, "prod-1", 5)
		assert.NoError(t, err)
	})

	t.Run("Missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE carts SET quantity = \\$1").
			WithArgs(5, uint(1), "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetQuantity(context.Background(), 1, "ghost", 5)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})
}

func TestRepository_RemoveItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM carts WHERE user_id = \\$1 AND product_id = \\$2").
			WithArgs(uint(1), "prod-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RemoveItem(context.Background(), 1, "prod-1")
		assert.NoError(t, err)
	})

	t.Run("Missing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM carts WHERE user_id = \\$1 AND product_id = \\$2").
			WithArgs(uint(1), "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RemoveItem(context.Background(), 1, "ghost")
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})
}

func TestRepository_Clear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Clearing an absent cart succeeds", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM carts WHERE user_id = \\$1").
			WithArgs(uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Clear(context.Background(), 1)
		assert.NoError(t, err)
	})
}

func TestRepository_GetItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"user_id", "product_id", "quantity", "created_at", "updated_at",
		}).
			AddRow(1, "prod-1", 2, time.Now(), time.Now()).
			AddRow(1, "prod-2", 1, time.Now(), time.Now())

		mock.ExpectQuery("SELECT(.+)FROM carts").
			WithArgs(uint(1)).
			WillReturnRows(rows)

		items, err := repo.GetItems(context.Background(), 1)
		assert.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "prod-1", items[0].ProductID)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.+)FROM carts").
			WillReturnError(errors.New("db error"))

		_, err := repo.GetItems(context.Background(), 1)
		assert.Error(t, err)
	})
}
