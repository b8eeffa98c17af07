package orderrepo

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

// OrderRepository implementa domain.OrderRepository sobre PostgreSQL.
type OrderRepository struct {
	DB        database.DBTX
	DBTimeout time.Duration
	outbox    *outboxrepo.OutboxRepository
	logger    logger.Logger
}

// NewOrderRepository cria e retorna uma nova instância do Repositório de Pedidos.
func NewOrderRepository(db database.DBTX, dbTimeout time.Duration, outbox *outboxrepo.OutboxRepository, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		outbox:    outbox,
		logger:    logger,
	}
}

// NextID reserva o próximo ID da sequência de pedidos.
func (r *OrderRepository) NextID(ctx context.Context) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var id int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT nextval(pg_get_serial_sequence('orders', 'id'))`).Scan(&id); err != nil {
		r.logger.Error("Falha ao alocar ID de pedido.", err)
		return 0, errors.NewDBError("Falha ao alocar ID de pedido", err)
	}
	return id, nil
}

// GetByID carrega o pedido e suas linhas, bloqueando a linha do pedido até o fim da transação.
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*domain.Order, bool, error) {
	return r.load(ctx, id, true)
}

// FindByID carrega o pedido sem bloquear a linha.
func (r *OrderRepository) FindByID(ctx context.Context, id int) (*domain.Order, bool, error) {
	return r.load(ctx, id, false)
}

func (r *OrderRepository) load(ctx context.Context, id int, forUpdate bool) (*domain.Order, bool, error) {
	r.logger.Debug("Iniciando busca de pedido no repositório.", map[string]interface{}{"id": id, "for_update": forUpdate})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, customer_id, status, next_line_id, version
        FROM orders
        WHERE id = $1`
	if forUpdate {
		query += `
        FOR UPDATE`
	}

	var (
		snap   domain.OrderSnapshot
		status string
	)
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(&snap.ID, &snap.CustomerID, &status, &snap.NextLineID, &snap.Version)
	if err == sql.ErrNoRows {
		r.logger.Info("Pedido não encontrado.", map[string]interface{}{"id": id})
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Falha ao buscar pedido no DB.", err)
		return nil, false, errors.NewDBError("Falha ao buscar pedido", err)
	}
	snap.Status = domain.OrderStatus(status)

	rows, err := r.DB.QueryContext(ctxTimeout, `
        SELECT id, sku, quantity
        FROM order_lines
        WHERE order_id = $1
        ORDER BY id`, id)
	if err != nil {
		r.logger.Error("Falha ao buscar linhas do pedido no DB.", err)
		return nil, false, errors.NewDBError("Falha ao buscar linhas do pedido", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLineSnapshot
		if err := rows.Scan(&line.ID, &line.Sku, &line.Quantity); err != nil {
			r.logger.Error("Falha ao mapear linha do pedido.", err)
			return nil, false, errors.NewDBError("Falha ao mapear linhas do pedido", err)
		}
		snap.Lines = append(snap.Lines, line)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas do pedido.", err)
		return nil, false, errors.NewDBError("Erro após iteração das linhas do pedido", err)
	}

	order, err := domain.RestoreOrder(snap)
	if err != nil {
		r.logger.Error("Pedido persistido em estado inválido.", err)
		return nil, false, errors.NewInternalError(fmt.Sprintf("Pedido %d corrompido", id), err)
	}

	r.logger.Debug("Pedido carregado.", map[string]interface{}{"id": id, "status": status, "lines": len(snap.Lines)})
	return order, true, nil
}

// Save grava o pedido com OCC, substitui as linhas e anexa os eventos pendentes ao outbox.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	r.logger.Debug("Iniciando Save de pedido no repositório.", map[string]interface{}{"id": order.ID(), "version": order.Version()})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	snap := order.Snapshot()
	now := time.Now().UTC()
	newVersion := snap.Version + 1

	if snap.Version == 0 {
		query := `
            INSERT INTO orders (id, customer_id, status, next_line_id, version, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $6)`
		if _, err := r.DB.ExecContext(ctxTimeout, query,
			snap.ID, snap.CustomerID, string(snap.Status), snap.NextLineID, newVersion, now,
		); err != nil {
			r.logger.Error("Falha ao inserir pedido no DB.", err)
			return errors.NewDBError("Falha ao criar pedido", err)
		}
	} else {
		query := `
            UPDATE orders
            SET status = $1, next_line_id = $2, version = $3, updated_at = $4
            WHERE id = $5 AND version = $6`
		result, err := r.DB.ExecContext(ctxTimeout, query,
			string(snap.Status), snap.NextLineID, newVersion, now, snap.ID, snap.Version,
		)
		if err != nil {
			r.logger.Error("Falha ao atualizar pedido.", err)
			return errors.NewDBError("Falha ao atualizar pedido", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			r.logger.Error("Falha ao verificar linhas afetadas após atualização de pedido.", err)
			return errors.NewDBError("Falha ao verificar linhas afetadas", err)
		}
		if rowsAffected == 0 {
			r.logger.Warn("Falha no controle de concorrência otimista (OCC). Versão do pedido desatualizada.", map[string]interface{}{
				"id":               snap.ID,
				"expected_version": snap.Version,
			})
			return errors.NewConflictError(fmt.Sprintf("O pedido %d foi modificado por outra operação. Tente novamente.", snap.ID))
		}

		if _, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM order_lines WHERE order_id = $1`, snap.ID); err != nil {
			r.logger.Error("Falha ao remover linhas antigas do pedido.", err)
			return errors.NewDBError("Falha ao gravar linhas do pedido", err)
		}
	}

	insertLine := `
        INSERT INTO order_lines (order_id, id, sku, quantity)
        VALUES ($1, $2, $3, $4)`
	for _, line := range snap.Lines {
		if _, err := r.DB.ExecContext(ctxTimeout, insertLine, snap.ID, line.ID, line.Sku, line.Quantity); err != nil {
			r.logger.Error("Falha ao inserir linha do pedido.", err)
			return errors.NewDBError("Falha ao gravar linhas do pedido", err)
		}
	}

	if err := r.outbox.Append(ctx, order.PendingEvents()); err != nil {
		return err
	}

	order.MarkPersisted(newVersion)
	r.logger.Info("Pedido gravado com sucesso.", map[string]interface{}{"id": snap.ID, "status": string(snap.Status), "new_version": newVersion})
	return nil
}
