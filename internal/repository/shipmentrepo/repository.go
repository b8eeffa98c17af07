package shipmentrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goinventory/internal/domain"
	"goinventory/internal/errors"
	"goinventory/internal/pkg/database"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/repository/outboxrepo"
)

// ShipmentRepository implementa domain.ShipmentRepository sobre PostgreSQL.
// Remessas são imutáveis: Save só insere.
type ShipmentRepository struct {
	DB        database.DBTX
	DBTimeout time.Duration
	outbox    *outboxrepo.OutboxRepository
	logger    logger.Logger
}

// NewShipmentRepository cria e retorna uma nova instância do Repositório de Remessas.
func NewShipmentRepository(db database.DBTX, dbTimeout time.Duration, outbox *outboxrepo.OutboxRepository, logger logger.Logger) *ShipmentRepository {
	return &ShipmentRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		outbox:    outbox,
		logger:    logger,
	}
}

// NextID reserva o próximo ID da sequência de remessas.
func (r *ShipmentRepository) NextID(ctx context.Context) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var id int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT nextval(pg_get_serial_sequence('shipments', 'id'))`).Scan(&id); err != nil {
		r.logger.Error("Falha ao alocar ID de remessa.", err)
		return 0, errors.NewDBError("Falha ao alocar ID de remessa", err)
	}
	return id, nil
}

// GetByID busca uma remessa e suas linhas.
func (r *ShipmentRepository) GetByID(ctx context.Context, id int) (*domain.Shipment, bool, error) {
	r.logger.Debug("Iniciando GetByID de remessa no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, order_id, warehouse_id, created_at
        FROM shipments
        WHERE id = $1`

	var snap domain.ShipmentSnapshot
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(&snap.ID, &snap.OrderID, &snap.WarehouseID, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		r.logger.Info("Remessa não encontrada.", map[string]interface{}{"id": id})
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Falha ao buscar remessa no DB.", err)
		return nil, false, errors.NewDBError("Falha ao buscar remessa", err)
	}

	rows, err := r.DB.QueryContext(ctxTimeout, `
        SELECT id, sku, quantity
        FROM shipment_lines
        WHERE shipment_id = $1
        ORDER BY id`, id)
	if err != nil {
		r.logger.Error("Falha ao buscar linhas da remessa no DB.", err)
		return nil, false, errors.NewDBError("Falha ao buscar linhas da remessa", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.ShipmentLineSnapshot
		if err := rows.Scan(&line.ID, &line.Sku, &line.Quantity); err != nil {
			r.logger.Error("Falha ao mapear linha da remessa.", err)
			return nil, false, errors.NewDBError("Falha ao mapear linhas da remessa", err)
		}
		snap.Lines = append(snap.Lines, line)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas da remessa.", err)
		return nil, false, errors.NewDBError("Erro após iteração das linhas da remessa", err)
	}

	shipment, err := domain.RestoreShipment(snap)
	if err != nil {
		r.logger.Error("Remessa persistida em estado inválido.", err)
		return nil, false, errors.NewInternalError(fmt.Sprintf("Remessa %d corrompida", id), err)
	}
	return shipment, true, nil
}

// Save insere a remessa nova e anexa o ShipmentCreated ao outbox.
func (r *ShipmentRepository) Save(ctx context.Context, shipment *domain.Shipment) error {
	r.logger.Debug("Iniciando Save de remessa no repositório.", map[string]interface{}{"id": shipment.ID(), "order_id": shipment.OrderID()})

	if shipment.Persisted() {
		return errors.NewInvariantViolationError(fmt.Sprintf("A remessa %d já foi gravada e não pode ser alterada.", shipment.ID()))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	snap := shipment.Snapshot()
	query := `
        INSERT INTO shipments (id, order_id, warehouse_id, created_at)
        VALUES ($1, $2, $3, $4)`
	if _, err := r.DB.ExecContext(ctxTimeout, query, snap.ID, snap.OrderID, snap.WarehouseID, snap.CreatedAt); err != nil {
		r.logger.Error("Falha ao inserir remessa no DB.", err)
		return errors.NewDBError("Falha ao criar remessa", err)
	}

	insertLine := `
        INSERT INTO shipment_lines (shipment_id, id, sku, quantity)
        VALUES ($1, $2, $3, $4)`
	for _, line := range snap.Lines {
		if _, err := r.DB.ExecContext(ctxTimeout, insertLine, snap.ID, line.ID, line.Sku, line.Quantity); err != nil {
			r.logger.Error("Falha ao inserir linha da remessa.", err)
			return errors.NewDBError("Falha ao gravar linhas da remessa", err)
		}
	}

	if err := r.outbox.Append(ctx, shipment.PendingEvents()); err != nil {
		return err
	}

	shipment.MarkPersisted()
	r.logger.Info("Remessa gravada com sucesso.", map[string]interface{}{"id": snap.ID, "lines": len(snap.Lines)})
	return nil
}
