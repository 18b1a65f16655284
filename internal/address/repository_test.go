package address

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Default address sorts first", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "user_id", "name", "phone",
			"address", "city", "postal_code", "country", "is_default",
		}).
			AddRow(uuid.New(), 1, nil, nil, "12 Galle Rd", "Colombo", "00300", "Sri Lanka", true).
			AddRow(uuid.New(), 1, nil, nil, "7 Kandy Rd", "Kandy", "20000", "Sri Lanka", false)

		mock.ExpectQuery("SELECT(.+)FROM addresses").
			WithArgs(uint(1)).
			WillReturnRows(rows)

		addrs, err := repo.GetByUserID(context.Background(), 1)
		assert.NoError(t, err)
		require.Len(t, addrs, 2)
		assert.True(t, addrs[0].IsDefault)
		assert.Equal(t, "Colombo", addrs[0].City)
	})

	t.Run("No addresses", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.+)FROM addresses").
			WithArgs(uint(2)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "name", "phone",
				"address", "city", "postal_code", "country", "is_default",
			}))

		addrs, err := repo.GetByUserID(context.Background(), 2)
		assert.NoError(t, err)
		assert.Empty(t, addrs)
	})
}

func TestRepository_SetDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	addrID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE addresses SET is_default = false").
			WithArgs(uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("UPDATE addresses SET is_default = true").
			WithArgs(addrID, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SetDefault(context.Background(), 1, addrID)
		assert.NoError(t, err)
	})

	t.Run("Unknown address", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE addresses SET is_default = false").
			WithArgs(uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("UPDATE addresses SET is_default = true").
			WithArgs(addrID, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SetDefault(context.Background(), 1, addrID)
		assert.ErrorIs(t, err, ErrAddressNotFound)
	})
}
