package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/domain/shared"
)

// newMockActRepository creates a GormFinancialActRepository with a mocked SQL connection
func newMockActRepository(t *testing.T) (*GormFinancialActRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormFinancialActRepository(gormDB), mock, mockDB
}

func TestGormFinancialActRepository_FindByID(t *testing.T) {
	t.Run("loads the act with its items", func(t *testing.T) {
		repo, mock, mockDB := newMockActRepository(t)
		defer mockDB.Close()

		actID := uuid.New()
		customerID := uuid.New()
		productID := uuid.New()
		patientID := uuid.New()

		actRows := sqlmock.NewRows([]string{"id", "customer_id", "kind", "status", "start_time", "total", "allocated_amount", "unallocated"}).
			AddRow(actID, customerID, "INVOICE", "POSTED", time.Now(), decimal.NewFromInt(120), decimal.Zero, true)

		mock.ExpectQuery(`SELECT \* FROM "financial_acts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(actID, 1).
			WillReturnRows(actRows)

		itemRows := sqlmock.NewRows([]string{"id", "act_id", "product_id", "patient_id", "quantity", "unit_price"}).
			AddRow(uuid.New(), actID, productID, patientID, decimal.NewFromInt(2), decimal.NewFromInt(60))

		mock.ExpectQuery(`SELECT \* FROM "charge_items" WHERE "charge_items"\."act_id" = \$1`).
			WithArgs(actID).
			WillReturnRows(itemRows)

		act, err := repo.FindByID(context.Background(), actID)

		assert.NoError(t, err)
		require.NotNil(t, act)
		assert.Equal(t, actID, act.ID)
		require.Len(t, act.Items, 1)
		assert.True(t, act.Items[0].Amount().Equal(decimal.NewFromInt(120)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for a missing act", func(t *testing.T) {
		repo, mock, mockDB := newMockActRepository(t)
		defer mockDB.Close()

		actID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "financial_acts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(actID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		act, err := repo.FindByID(context.Background(), actID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, act)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormFinancialActRepository_FindUnallocated(t *testing.T) {
	t.Run("orders posted unallocated acts oldest first", func(t *testing.T) {
		repo, mock, mockDB := newMockActRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		olderID := uuid.New()
		newerID := uuid.New()
		now := time.Now()

		actRows := sqlmock.NewRows([]string{"id", "customer_id", "kind", "status", "start_time", "total", "allocated_amount", "unallocated"}).
			AddRow(olderID, customerID, "INVOICE", "POSTED", now.Add(-48*time.Hour), decimal.NewFromInt(80), decimal.Zero, true).
			AddRow(newerID, customerID, "PAYMENT", "POSTED", now, decimal.NewFromInt(50), decimal.Zero, true)

		mock.ExpectQuery(`SELECT \* FROM "financial_acts" WHERE customer_id = \$1 AND status = \$2 AND unallocated = \$3 ORDER BY start_time ASC, id ASC`).
			WithArgs(customerID, "POSTED", true).
			WillReturnRows(actRows)

		mock.ExpectQuery(`SELECT \* FROM "charge_items" WHERE "charge_items"\."act_id" IN \(\$1,\$2\)`).
			WithArgs(olderID, newerID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "act_id"}))

		acts, err := repo.FindUnallocated(context.Background(), customerID)

		assert.NoError(t, err)
		require.Len(t, acts, 2)
		assert.Equal(t, olderID, acts[0].ID)
		assert.Equal(t, newerID, acts[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormFinancialActRepository_FindByIDs(t *testing.T) {
	t.Run("returns empty slice for no IDs", func(t *testing.T) {
		repo, _, mockDB := newMockActRepository(t)
		defer mockDB.Close()

		acts, err := repo.FindByIDs(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, acts)
	})
}

func TestGormFinancialActRepository_Save(t *testing.T) {
	t.Run("deletes stale items before saving", func(t *testing.T) {
		repo, mock, mockDB := newMockActRepository(t)
		defer mockDB.Close()

		act, err := billing.NewFinancialAct(uuid.New(), billing.ActKindInvoice, time.Now())
		require.NoError(t, err)
		item, err := billing.NewChargeItem(uuid.New(), uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(45))
		require.NoError(t, err)
		require.NoError(t, act.AddItem(item))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "charge_items" WHERE act_id = \$1 AND id NOT IN \(\$2\)`).
			WithArgs(act.ID, item.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO "financial_acts" .* ON CONFLICT .* DO UPDATE SET .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "charge_items" .* ON CONFLICT .* DO UPDATE SET .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.Save(context.Background(), act)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
