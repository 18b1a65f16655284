package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password", "is_admin", "created_at", "updated_at",
	})
}

func TestRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := userRows().
			AddRow(1, "Jo", "jo@example.com", "hash", false, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("jo@example.com").
			WillReturnRows(rows)

		u, err := repo.GetByEmail(context.Background(), "jo@example.com")
		assert.NoError(t, err)
		assert.Equal(t, uint(1), u.ID)
		assert.Equal(t, "Jo", u.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("ghost@example.com").
			WillReturnRows(userRows())

		_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	params := RegisterParams{Name: "Jo", Email: "jo@example.com", Password: "secret1"}

	t.Run("Success", func(t *testing.T) {
		rows := userRows().
			AddRow(1, "Jo", "jo@example.com", "hash", false, time.Now(), time.Now())

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(params.Name, params.Email, "hash").
			WillReturnRows(rows)

		u, err := repo.Create(context.Background(), params, "hash")
		assert.NoError(t, err)
		assert.Equal(t, uint(1), u.ID)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(errors.New("db error"))

		_, err := repo.Create(context.Background(), params, "hash")
		assert.Error(t, err)
	})
}
