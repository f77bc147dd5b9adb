package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
)

// newMockDB creates a GORM DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
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

	return gormDB, mock, mockDB
}

func TestGormWarehouseStockRepository_AvailableQuantity(t *testing.T) {
	t.Run("returns known quantity when a row exists", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseStockRepository(db)

		warehouseID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"quantity"}).AddRow(decimal.NewFromInt(80))
		mock.ExpectQuery(`SELECT "quantity" FROM "warehouse_stocks" WHERE warehouse_id = \$1 AND product_id = \$2`).
			WithArgs(warehouseID, productID, 1).
			WillReturnRows(rows)

		qty, known, err := repo.AvailableQuantity(context.Background(), warehouseID, productID)
		require.NoError(t, err)
		assert.True(t, known)
		assert.True(t, qty.Equal(decimal.NewFromInt(80)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is unknown, not zero", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseStockRepository(db)

		mock.ExpectQuery(`SELECT "quantity" FROM "warehouse_stocks"`).
			WillReturnError(gorm.ErrRecordNotFound)

		qty, known, err := repo.AvailableQuantity(context.Background(), uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.False(t, known)
		assert.True(t, qty.IsZero())
	})
}

func TestGormWarehouseStockRepository_FindByWarehouseAndProduct(t *testing.T) {
	t.Run("not found maps to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseStockRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "warehouse_stocks"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByWarehouseAndProduct(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormWarehouseStockRepository_DecrementIfAvailable(t *testing.T) {
	t.Run("decrements when stock covers the deduction", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseStockRepository(db)

		mock.ExpectExec(`UPDATE "warehouse_stocks" SET .* WHERE warehouse_id = \$\d+ AND product_id = \$\d+ AND quantity >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DecrementIfAvailable(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(40))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero matched rows means a concurrent approval won", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseStockRepository(db)

		mock.ExpectExec(`UPDATE "warehouse_stocks"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DecrementIfAvailable(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(40))

		var conflictErr *shared.ConflictError
		assert.ErrorAs(t, err, &conflictErr)
	})

	t.Run("rejects non-positive quantity without touching the database", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseStockRepository(db)

		err := repo.DecrementIfAvailable(context.Background(), uuid.New(), uuid.New(), decimal.Zero)
		assert.Error(t, err)
	})
}

func TestGormWarehouseStockRepository_Increment(t *testing.T) {
	t.Run("upserts the stock row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseStockRepository(db)

		mock.ExpectExec(`INSERT INTO "warehouse_stocks" .* ON CONFLICT \("warehouse_id","product_id"\) DO UPDATE`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Increment(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(5))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseStockRepository(db)

		err := repo.Increment(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}
