package warehouserepo

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

// WarehouseRepository implementa domain.WarehouseRepository sobre PostgreSQL.
type WarehouseRepository struct {
	DB        database.DBTX
	DBTimeout time.Duration
	outbox    *outboxrepo.OutboxRepository
	logger    logger.Logger
}

// NewWarehouseRepository cria e retorna uma nova instância do Repositório de Armazéns.
// db normalmente é a transação aberta pela unidade de trabalho.
func NewWarehouseRepository(db database.DBTX, dbTimeout time.Duration, outbox *outboxrepo.OutboxRepository, logger logger.Logger) *WarehouseRepository {
	return &WarehouseRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		outbox:    outbox,
		logger:    logger,
	}
}

// NextID reserva o próximo ID da sequência de armazéns.
func (r *WarehouseRepository) NextID(ctx context.Context) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var id int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT nextval(pg_get_serial_sequence('warehouses', 'id'))`).Scan(&id); err != nil {
		r.logger.Error("Falha ao alocar ID de armazém.", err)
		return 0, errors.NewDBError("Falha ao alocar ID de armazém", err)
	}
	return id, nil
}

// GetByID carrega o armazém com todos os itens de estoque, bloqueando a linha até o fim da transação.
func (r *WarehouseRepository) GetByID(ctx context.Context, id int) (*domain.Warehouse, bool, error) {
	return r.load(ctx, id, true)
}

// FindByID carrega o armazém sem bloquear a linha.
func (r *WarehouseRepository) FindByID(ctx context.Context, id int) (*domain.Warehouse, bool, error) {
	return r.load(ctx, id, false)
}

func (r *WarehouseRepository) load(ctx context.Context, id int, forUpdate bool) (*domain.Warehouse, bool, error) {
	r.logger.Debug("Iniciando busca de armazém no repositório.", map[string]interface{}{"id": id, "for_update": forUpdate})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, version
        FROM warehouses
        WHERE id = $1`
	if forUpdate {
		query += `
        FOR UPDATE`
	}

	var snap domain.WarehouseSnapshot
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(&snap.ID, &snap.Name, &snap.Version)
	if err == sql.ErrNoRows {
		r.logger.Info("Armazém não encontrado.", map[string]interface{}{"id": id})
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Falha ao buscar armazém no DB.", err)
		return nil, false, errors.NewDBError("Falha ao buscar armazém", err)
	}

	rows, err := r.DB.QueryContext(ctxTimeout, `
        SELECT sku, on_hand, reserved
        FROM stock_items
        WHERE warehouse_id = $1
        ORDER BY sku`, id)
	if err != nil {
		r.logger.Error("Falha ao buscar itens de estoque no DB.", err)
		return nil, false, errors.NewDBError("Falha ao buscar itens de estoque", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.StockItemSnapshot
		if err := rows.Scan(&item.Sku, &item.OnHand, &item.Reserved); err != nil {
			r.logger.Error("Falha ao mapear item de estoque.", err)
			return nil, false, errors.NewDBError("Falha ao mapear itens de estoque", err)
		}
		snap.Stock = append(snap.Stock, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração dos itens de estoque.", err)
		return nil, false, errors.NewDBError("Erro após iteração de itens de estoque", err)
	}

	warehouse, err := domain.RestoreWarehouse(snap)
	if err != nil {
		r.logger.Error("Armazém persistido em estado inválido.", err)
		return nil, false, errors.NewInternalError(fmt.Sprintf("Armazém %d corrompido", id), err)
	}

	r.logger.Debug("Armazém carregado.", map[string]interface{}{"id": id, "version": snap.Version, "stock_items": len(snap.Stock)})
	return warehouse, true, nil
}

// Save grava o armazém e seus itens com OCC e anexa os eventos pendentes ao outbox.
func (r *WarehouseRepository) Save(ctx context.Context, warehouse *domain.Warehouse) error {
	r.logger.Debug("Iniciando Save de armazém no repositório.", map[string]interface{}{"id": warehouse.ID(), "version": warehouse.Version()})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	now := time.Now().UTC()
	newVersion := warehouse.Version() + 1

	if warehouse.Version() == 0 {
		query := `
            INSERT INTO warehouses (id, name, version, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $4)`
		if _, err := r.DB.ExecContext(ctxTimeout, query, warehouse.ID(), warehouse.Name(), newVersion, now); err != nil {
			r.logger.Error("Falha ao inserir armazém no DB.", err)
			return errors.NewDBError("Falha ao criar armazém", err)
		}
	} else {
		query := `
            UPDATE warehouses
            SET name = $1, version = $2, updated_at = $3
            WHERE id = $4 AND version = $5`
		result, err := r.DB.ExecContext(ctxTimeout, query, warehouse.Name(), newVersion, now, warehouse.ID(), warehouse.Version())
		if err != nil {
			r.logger.Error("Falha ao atualizar armazém.", err)
			return errors.NewDBError("Falha ao atualizar armazém", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			r.logger.Error("Falha ao verificar linhas afetadas após atualização de armazém.", err)
			return errors.NewDBError("Falha ao verificar linhas afetadas", err)
		}
		if rowsAffected == 0 {
			r.logger.Warn("Falha no controle de concorrência otimista (OCC). Versão do armazém desatualizada.", map[string]interface{}{
				"id":               warehouse.ID(),
				"expected_version": warehouse.Version(),
			})
			return errors.NewConflictError(fmt.Sprintf("O armazém %d foi modificado por outra operação. Tente novamente.", warehouse.ID()))
		}
	}

	upsert := `
        INSERT INTO stock_items (warehouse_id, sku, on_hand, reserved)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (warehouse_id, sku)
        DO UPDATE SET on_hand = EXCLUDED.on_hand, reserved = EXCLUDED.reserved`

	for _, item := range warehouse.StockItems() {
		if _, err := r.DB.ExecContext(ctxTimeout, upsert,
			warehouse.ID(), item.Sku().String(), item.OnHand().Int(), item.Reserved().Int(),
		); err != nil {
			r.logger.Error("Falha ao gravar item de estoque.", err)
			return errors.NewDBError("Falha ao gravar item de estoque", err)
		}
	}

	if err := r.outbox.Append(ctx, warehouse.PendingEvents()); err != nil {
		return err
	}

	warehouse.MarkPersisted(newVersion)
	r.logger.Info("Armazém gravado com sucesso.", map[string]interface{}{"id": warehouse.ID(), "new_version": newVersion})
	return nil
}
