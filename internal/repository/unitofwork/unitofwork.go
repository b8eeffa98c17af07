package unitofwork

import (
	"context"
	"database/sql"
	"time"

	"goinventory/internal/domain"
	"goinventory/internal/errors"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/repository/orderrepo"
	"goinventory/internal/repository/outboxrepo"
	"goinventory/internal/repository/shipmentrepo"
	"goinventory/internal/repository/warehouserepo"
)

// PostgresUnitOfWork abre uma transação READ COMMITTED por caso de uso.
// Os repositórios entregues a fn compartilham a transação, inclusive o outbox.
type PostgresUnitOfWork struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPostgresUnitOfWork cria a unidade de trabalho sobre o pool de conexões.
func NewPostgresUnitOfWork(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{DB: db, DBTimeout: dbTimeout, logger: logger}
}

type txRepositories struct {
	orders     *orderrepo.OrderRepository
	warehouses *warehouserepo.WarehouseRepository
	shipments  *shipmentrepo.ShipmentRepository
}

func (r *txRepositories) Orders() domain.OrderRepository         { return r.orders }
func (r *txRepositories) Warehouses() domain.WarehouseRepository { return r.warehouses }
func (r *txRepositories) Shipments() domain.ShipmentRepository   { return r.shipments }

// WithinTx executa fn dentro de uma transação. Qualquer erro de fn desfaz tudo;
// o erro de fn é devolvido sem alteração.
func (u *PostgresUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	tx, err := u.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		u.logger.Error("Falha ao iniciar transação.", err)
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	// Rollback após Commit é no-op (sql.ErrTxDone).
	defer tx.Rollback()

	outbox := outboxrepo.NewOutboxRepository(tx, u.DBTimeout, u.logger)
	repos := &txRepositories{
		orders:     orderrepo.NewOrderRepository(tx, u.DBTimeout, outbox, u.logger),
		warehouses: warehouserepo.NewWarehouseRepository(tx, u.DBTimeout, outbox, u.logger),
		shipments:  shipmentrepo.NewShipmentRepository(tx, u.DBTimeout, outbox, u.logger),
	}

	if err := fn(ctx, repos); err != nil {
		u.logger.Debug("Transação desfeita.", map[string]interface{}{"reason": err.Error()})
		return err
	}

	if err := tx.Commit(); err != nil {
		u.logger.Error("Falha ao commitar transação.", err)
		return errors.NewDBError("Falha ao commitar transação", err)
	}
	return nil
}
