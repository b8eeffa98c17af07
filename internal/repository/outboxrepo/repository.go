package outboxrepo

import (
	"context"
	"database/sql"
	"time"

	"goinventory/internal/domain"
	"goinventory/internal/errors"
	"goinventory/internal/pkg/database"
	"goinventory/internal/pkg/logger"
)

// OutboxRepository grava e consulta a tabela outbox_messages.
// Dentro de uma unidade de trabalho DB é a *sql.Tx corrente; no worker é o pool.
type OutboxRepository struct {
	DB        database.DBTX
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewOutboxRepository cria e retorna uma nova instância do Repositório de Outbox.
func NewOutboxRepository(db database.DBTX, dbTimeout time.Duration, logger logger.Logger) *OutboxRepository {
	return &OutboxRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Append grava uma mensagem por evento. Deve rodar na mesma transação da escrita do agregado.
func (r *OutboxRepository) Append(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO outbox_messages (id, occurred_at, type, payload)
        VALUES ($1, $2, $3, $4)`

	for _, e := range events {
		msg, err := domain.NewOutboxMessage(e)
		if err != nil {
			r.logger.Error("Falha ao serializar evento para o outbox.", err)
			return errors.NewInternalError("Falha ao serializar evento", err)
		}
		// jsonb é enviado como texto: o driver trata []byte como bytea.
		if _, err := r.DB.ExecContext(ctxTimeout, query, msg.ID, msg.OccurredAt, string(msg.Type), string(msg.Payload)); err != nil {
			r.logger.Error("Falha ao inserir mensagem no outbox.", err)
			return errors.NewDBError("Falha ao gravar evento no outbox", err)
		}
	}

	r.logger.Debug("Eventos gravados no outbox.", map[string]interface{}{"total_events": len(events)})
	return nil
}

// FetchUnprocessed retorna as mensagens pendentes mais antigas que ainda não esgotaram as tentativas.
func (r *OutboxRepository) FetchUnprocessed(ctx context.Context, limit, maxAttempts int) ([]domain.OutboxMessage, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, occurred_at, type, payload, processed_at, COALESCE(error, ''), attempts
        FROM outbox_messages
        WHERE processed_at IS NULL AND attempts < $1
        ORDER BY occurred_at
        LIMIT $2`

	rows, err := r.DB.QueryContext(ctxTimeout, query, maxAttempts, limit)
	if err != nil {
		r.logger.Error("Falha ao executar FetchUnprocessed query.", err)
		return nil, errors.NewDBError("Falha ao buscar mensagens do outbox", err)
	}
	defer rows.Close()

	var messages []domain.OutboxMessage
	for rows.Next() {
		var (
			msg         domain.OutboxMessage
			msgType     string
			payload     []byte
			processedAt sql.NullTime
		)
		if err := rows.Scan(&msg.ID, &msg.OccurredAt, &msgType, &payload, &processedAt, &msg.Error, &msg.Attempts); err != nil {
			r.logger.Error("Falha ao mapear mensagem do outbox.", err)
			return nil, errors.NewDBError("Falha ao mapear mensagens do outbox", err)
		}
		msg.Type = domain.EventType(msgType)
		msg.Payload = payload
		if processedAt.Valid {
			msg.ProcessedAt = &processedAt.Time
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das mensagens do outbox.", err)
		return nil, errors.NewDBError("Erro após iteração do outbox", err)
	}

	return messages, nil
}

// MarkProcessed registra a entrega bem-sucedida da mensagem.
func (r *OutboxRepository) MarkProcessed(ctx context.Context, msg domain.OutboxMessage, at time.Time) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE outbox_messages
        SET processed_at = $1, error = NULL, attempts = attempts + 1
        WHERE id = $2`

	if _, err := r.DB.ExecContext(ctxTimeout, query, at.UTC(), msg.ID); err != nil {
		r.logger.Error("Falha ao marcar mensagem como processada.", err)
		return errors.NewDBError("Falha ao marcar mensagem do outbox", err)
	}
	return nil
}

// MarkFailed registra o erro da tentativa; a mensagem continua pendente até esgotar as tentativas.
func (r *OutboxRepository) MarkFailed(ctx context.Context, msg domain.OutboxMessage, reason string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE outbox_messages
        SET error = $1, attempts = attempts + 1
        WHERE id = $2`

	if _, err := r.DB.ExecContext(ctxTimeout, query, reason, msg.ID); err != nil {
		r.logger.Error("Falha ao registrar erro da mensagem do outbox.", err)
		return errors.NewDBError("Falha ao registrar erro no outbox", err)
	}
	return nil
}
