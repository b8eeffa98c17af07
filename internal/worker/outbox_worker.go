package worker

import (
	"context"
	"time"

	"goinventory/internal/domain"
	"goinventory/internal/pkg/logger"
)

// OutboxStore é a porta de leitura/baixa do outbox usada pelo worker.
// Implementada por outboxrepo.OutboxRepository e memstore.Store.
type OutboxStore interface {
	FetchUnprocessed(ctx context.Context, limit, maxAttempts int) ([]domain.OutboxMessage, error)
	MarkProcessed(ctx context.Context, msg domain.OutboxMessage, at time.Time) error
	MarkFailed(ctx context.Context, msg domain.OutboxMessage, reason string) error
}

// Dispatcher entrega uma mensagem do outbox ao seu destino.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg domain.OutboxMessage) error
}

// Config controla o ritmo do worker.
type Config struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

// OutboxWorker consulta o outbox periodicamente e repassa as mensagens pendentes ao Dispatcher.
// A entrega é at-least-once: se MarkProcessed falhar, a mensagem volta no próximo ciclo.
type OutboxWorker struct {
	store      OutboxStore
	dispatcher Dispatcher
	cfg        Config
	logger     logger.Logger
	now        func() time.Time
}

// NewOutboxWorker cria o worker.
func NewOutboxWorker(store OutboxStore, dispatcher Dispatcher, cfg Config, logger logger.Logger) *OutboxWorker {
	return &OutboxWorker{
		store:      store,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Start roda o loop até o contexto ser cancelado.
func (w *OutboxWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.logger.Info("Outbox worker iniciado.", map[string]interface{}{
		"interval":     w.cfg.Interval.String(),
		"batch_size":   w.cfg.BatchSize,
		"max_attempts": w.cfg.MaxAttempts,
	})

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Outbox worker encerrado.", nil)
			return
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				w.logger.Error("Falha ao processar lote do outbox.", err)
			}
		}
	}
}

// ProcessBatch processa um lote e retorna quantas mensagens foram entregues.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.store.FetchUnprocessed(ctx, w.cfg.BatchSize, w.cfg.MaxAttempts)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, msg := range messages {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}

		if err := w.dispatcher.Dispatch(ctx, msg); err != nil {
			w.logger.Warn("Falha ao entregar mensagem do outbox.", map[string]interface{}{
				"id":       msg.ID.String(),
				"type":     string(msg.Type),
				"attempts": msg.Attempts + 1,
				"error":    err.Error(),
			})
			if markErr := w.store.MarkFailed(ctx, msg, err.Error()); markErr != nil {
				w.logger.Error("Falha ao registrar erro da mensagem do outbox.", markErr)
			}
			continue
		}

		if err := w.store.MarkProcessed(ctx, msg, w.now()); err != nil {
			w.logger.Error("Falha ao marcar mensagem do outbox como processada.", err)
			continue
		}
		delivered++
	}

	if len(messages) > 0 {
		w.logger.Debug("Lote do outbox processado.", map[string]interface{}{"fetched": len(messages), "delivered": delivered})
	}
	return delivered, nil
}

// LogDispatcher apenas decodifica e registra o evento. É o destino padrão enquanto
// não há um broker configurado.
type LogDispatcher struct {
	logger logger.Logger
}

// NewLogDispatcher cria o dispatcher de log.
func NewLogDispatcher(logger logger.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch falha se o payload não corresponder ao tipo registrado.
func (d *LogDispatcher) Dispatch(_ context.Context, msg domain.OutboxMessage) error {
	payload, err := domain.DecodePayload(msg.Type, msg.Payload)
	if err != nil {
		return err
	}
	d.logger.Info("Evento de domínio publicado.", map[string]interface{}{
		"id":          msg.ID.String(),
		"type":        string(msg.Type),
		"occurred_at": msg.OccurredAt.Format(time.RFC3339),
		"payload":     payload,
	})
	return nil
}
