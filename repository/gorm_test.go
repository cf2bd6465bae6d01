package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jwtpizza/model"
)

func setupMockDB(t *testing.T) (*Gorm, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGorm(gdb), mock
}

func TestGorm_UserByEmail(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(3, "Kai Chen", "d@jwt.com", "hash"))
	mock.ExpectQuery(`SELECT \* FROM "user_roles" WHERE "user_roles"."user_id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "role", "object_id"}).
			AddRow(1, 3, "diner", nil))

	u, err := repo.UserByEmail(context.Background(), "d@jwt.com")
	require.NoError(t, err)
	assert.Equal(t, model.UserID(3), u.ID)
	assert.Equal(t, "Kai Chen", u.Name)
	require.Len(t, u.Roles, 1)
	assert.Equal(t, model.RoleDiner, u.Roles[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_UserByEmail_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}))

	_, err := repo.UserByEmail(context.Background(), "nobody@jwt.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_ListUsers_More(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(name\) LIKE \$1 ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(1, "Alice", "a@jwt.com", "h").
			AddRow(2, "Bob", "b@jwt.com", "h").
			AddRow(3, "Carol", "c@jwt.com", "h"))
	mock.ExpectQuery(`SELECT \* FROM "user_roles" WHERE "user_roles"."user_id" IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "role", "object_id"}))

	users, more, err := repo.ListUsers(context.Background(), Page{Limit: 2})
	require.NoError(t, err)
	assert.True(t, more)
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_DeleteFranchise_NotFoundRollsBack(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "stores" WHERE franchise_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "user_roles" WHERE role = \$1 AND object_id = \$2`).
		WithArgs("franchisee", 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "franchises" WHERE id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteFranchise(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_DeleteFranchise(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "stores"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "user_roles"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "franchises"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteFranchise(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_CreateOrder_UnknownStoreRollsBack(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "stores" WHERE franchise_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "franchise_id", "name", "total_revenue"}))
	mock.ExpectRollback()

	err := repo.CreateOrder(context.Background(), &model.Order{
		FranchiseID: 2,
		StoreID:     99,
		Items:       []model.OrderItem{{MenuID: 1, Price: 0.0038}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_DeleteStore_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec(`DELETE FROM "stores" WHERE franchise_id = \$1 AND id = \$2`).
		WithArgs(1, 42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteStore(context.Background(), 1, 42), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
