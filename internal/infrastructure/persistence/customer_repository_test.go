package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/shared"
)

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func TestGormCustomerRepository_FindByID(t *testing.T) {
	t.Run("finds existing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "account_type", "phone", "active"}).
			AddRow(customerID, "Jess", "Wong", "CASH", "0400111222", true)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.NoError(t, err)
		require.NotNil(t, customer)
		assert.Equal(t, customerID, customer.ID)
		assert.Equal(t, "Jess Wong", customer.Name())
		assert.Equal(t, party.AccountTypeCash, customer.AccountType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, customer)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindAll(t *testing.T) {
	t.Run("applies search and pagination", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "account_type", "active"}).
			AddRow(uuid.New(), "Sam", "Briggs", "NET_30", true).
			AddRow(uuid.New(), "Tara", "Briggs", "CASH", true)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE first_name ILIKE .* ORDER BY last_name ASC LIMIT .*`).
			WillReturnRows(rows)

		customers, err := repo.FindAll(context.Background(), shared.Filter{
			Page:     1,
			PageSize: 20,
			Search:   "Briggs",
		})

		assert.NoError(t, err)
		assert.Len(t, customers, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects order columns outside the whitelist", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		// The injected column must be replaced with the default sort
		mock.ExpectQuery(`SELECT \* FROM "customers" ORDER BY last_name ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindAll(context.Background(), shared.Filter{
			OrderBy: "pg_sleep(10)",
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Count(t *testing.T) {
	t.Run("counts with filters applied", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE account_type = \$1`).
			WithArgs("NET_30").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.Count(context.Background(), shared.Filter{
			Filters: map[string]interface{}{"account_type": "NET_30"},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Save(t *testing.T) {
	t.Run("saves a customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := party.NewCustomer("Jess", "Wong")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "customers" .* ON CONFLICT .* DO UPDATE SET .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), customer)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Delete(t *testing.T) {
	t.Run("deletes an existing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "customers" WHERE id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), customerID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "customers" WHERE id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), customerID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
