package unitofwork_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/repository/outboxrepo"
	"goinventory/internal/repository/unitofwork"
	"goinventory/migrations"
)

// setupDB exige TEST_DATABASE_URL apontando para um banco descartável.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL não definido")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Skipf("PostgreSQL não disponível: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("PostgreSQL não disponível: %v", err)
	}

	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."))

	_, err = db.Exec(`TRUNCATE outbox_messages, shipment_lines, shipments, order_lines, orders, stock_items, warehouses RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func sku(t *testing.T, s string) domain.Sku {
	v, err := domain.NewSku(s)
	require.NoError(t, err)
	return v
}

func qty(t *testing.T, n int) domain.Quantity {
	v, err := domain.NewQuantity(n)
	require.NoError(t, err)
	return v
}

func TestPostgresUnitOfWork_ReserveAndShip(t *testing.T) {
	db := setupDB(t)
	log := logger.NewLogger("error")
	uow := unitofwork.NewPostgresUnitOfWork(db, 5*time.Second, log)
	ctx := context.Background()

	var warehouseID, orderID int
	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		warehouseID, err = repos.Warehouses().NextID(ctx)
		require.NoError(t, err)
		w, err := domain.NewWarehouse(warehouseID, "Central")
		require.NoError(t, err)
		require.NoError(t, w.AddStock(sku(t, "ABC-123"), qty(t, 10)))
		require.NoError(t, repos.Warehouses().Save(ctx, w))

		orderID, err = repos.Orders().NextID(ctx)
		require.NoError(t, err)
		o, err := domain.NewOrder(orderID, 99)
		require.NoError(t, err)
		require.NoError(t, o.AddLine(sku(t, "ABC-123"), qty(t, 3)))
		require.NoError(t, o.Place())
		return repos.Orders().Save(ctx, o)
	}))

	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		o, found, err := repos.Orders().GetByID(ctx, orderID)
		require.NoError(t, err)
		require.True(t, found)
		w, found, err := repos.Warehouses().GetByID(ctx, warehouseID)
		require.NoError(t, err)
		require.True(t, found)

		require.NoError(t, w.ReserveLines(o.ID(), o.LineItems()))
		require.NoError(t, o.MarkReserved())
		require.NoError(t, repos.Warehouses().Save(ctx, w))
		return repos.Orders().Save(ctx, o)
	}))

	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		o, _, err := repos.Orders().GetByID(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusReserved, o.Status())
		assert.Equal(t, 2, o.Version())

		w, _, err := repos.Warehouses().GetByID(ctx, warehouseID)
		require.NoError(t, err)
		item, _ := w.StockItem(sku(t, "ABC-123"))
		assert.Equal(t, 3, item.Reserved().Int())
		return nil
	}))

	outbox := outboxrepo.NewOutboxRepository(db, 5*time.Second, log)
	pending, err := outbox.FetchUnprocessed(ctx, 10, 5)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, domain.EventOrderPlaced, pending[0].Type)
	assert.Equal(t, domain.EventStockReserved, pending[1].Type)
	assert.JSONEq(t, `{"orderId":1,"warehouseId":1,"sku":"ABC-123","quantity":3}`, string(pending[1].Payload))

	require.NoError(t, outbox.MarkProcessed(ctx, pending[0], time.Now()))
	pending, err = outbox.FetchUnprocessed(ctx, 10, 5)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestPostgresUnitOfWork_RollbackAndConflict(t *testing.T) {
	db := setupDB(t)
	uow := unitofwork.NewPostgresUnitOfWork(db, 5*time.Second, logger.NewLogger("error"))
	ctx := context.Background()

	boom := errors.New("boom")
	err := uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		id, err := repos.Warehouses().NextID(ctx)
		require.NoError(t, err)
		w, _ := domain.NewWarehouse(id, "Descartado")
		require.NoError(t, repos.Warehouses().Save(ctx, w))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM warehouses`).Scan(&count))
	assert.Equal(t, 0, count)

	var stale *domain.Warehouse
	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		id, _ := repos.Warehouses().NextID(ctx)
		w, _ := domain.NewWarehouse(id, "Central")
		if err := repos.Warehouses().Save(ctx, w); err != nil {
			return err
		}
		stale, _ = domain.RestoreWarehouse(w.Snapshot())
		return nil
	}))
	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		fresh, _, err := repos.Warehouses().GetByID(ctx, stale.ID())
		require.NoError(t, err)
		return repos.Warehouses().Save(ctx, fresh)
	}))

	err = uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Warehouses().Save(ctx, stale)
	})
	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestPostgresUnitOfWork_FindByIDDoesNotWaitForRowLock(t *testing.T) {
	db := setupDB(t)
	uow := unitofwork.NewPostgresUnitOfWork(db, 5*time.Second, logger.NewLogger("error"))
	ctx := context.Background()

	var warehouseID, orderID int
	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		warehouseID, _ = repos.Warehouses().NextID(ctx)
		w, _ := domain.NewWarehouse(warehouseID, "Central")
		if err := repos.Warehouses().Save(ctx, w); err != nil {
			return err
		}
		orderID, _ = repos.Orders().NextID(ctx)
		o, _ := domain.NewOrder(orderID, 7)
		return repos.Orders().Save(ctx, o)
	}))

	locked := make(chan struct{})
	release := make(chan struct{})
	holderDone := make(chan error, 1)
	go func() {
		holderDone <- uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
			if _, _, err := repos.Warehouses().GetByID(ctx, warehouseID); err != nil {
				return err
			}
			if _, _, err := repos.Orders().GetByID(ctx, orderID); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	readCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	err := uow.WithinTx(readCtx, func(ctx context.Context, repos domain.Repositories) error {
		w, found, err := repos.Warehouses().FindByID(ctx, warehouseID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Central", w.Name())
		o, found, err := repos.Orders().FindByID(ctx, orderID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 7, o.CustomerID())
		return nil
	})
	close(release)

	require.NoError(t, err)
	require.NoError(t, <-holderDone)
}
