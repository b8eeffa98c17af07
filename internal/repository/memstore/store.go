// Package memstore é uma implementação em memória das portas de persistência.
// Cada unidade de trabalho roda isolada (mutex) sobre cópias dos dados; só o
// commit publica as escritas. Usada nos testes de serviço e de API.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"goinventory/internal/domain"
	"goinventory/internal/errors"
)

type tables struct {
	orders     map[int]domain.OrderSnapshot
	warehouses map[int]domain.WarehouseSnapshot
	shipments  map[int]domain.ShipmentSnapshot
	outbox     []domain.OutboxMessage
}

func (t tables) clone() tables {
	c := tables{
		orders:     make(map[int]domain.OrderSnapshot, len(t.orders)),
		warehouses: make(map[int]domain.WarehouseSnapshot, len(t.warehouses)),
		shipments:  make(map[int]domain.ShipmentSnapshot, len(t.shipments)),
		outbox:     make([]domain.OutboxMessage, len(t.outbox)),
	}
	for k, v := range t.orders {
		c.orders[k] = v
	}
	for k, v := range t.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range t.shipments {
		c.shipments[k] = v
	}
	copy(c.outbox, t.outbox)
	return c
}

// Store guarda os snapshots dos agregados e o outbox.
type Store struct {
	mu   sync.Mutex
	data tables
	seq  map[string]int
}

// New cria um Store vazio.
func New() *Store {
	return &Store{
		data: tables{
			orders:     make(map[int]domain.OrderSnapshot),
			warehouses: make(map[int]domain.WarehouseSnapshot),
			shipments:  make(map[int]domain.ShipmentSnapshot),
		},
		seq: make(map[string]int),
	}
}

// WithinTx implementa domain.UnitOfWork.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txRepos{store: s, staged: s.data.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.NewInternalError("Transação cancelada antes do commit", err)
	}
	s.data = tx.staged
	return nil
}

// nextID incrementa a sequência; como no Postgres, IDs consumidos não voltam em rollback.
func (s *Store) nextID(name string) int {
	s.seq[name]++
	return s.seq[name]
}

// Outbox retorna uma cópia de todas as mensagens gravadas, na ordem de escrita.
func (s *Store) Outbox() []domain.OutboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.OutboxMessage, len(s.data.outbox))
	copy(out, s.data.outbox)
	return out
}

// ShipmentCount informa quantas remessas foram gravadas.
func (s *Store) ShipmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.shipments)
}

// FetchUnprocessed implementa a porta de leitura do worker de outbox.
func (s *Store) FetchUnprocessed(_ context.Context, limit, maxAttempts int) ([]domain.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []domain.OutboxMessage
	for _, m := range s.data.outbox {
		if m.ProcessedAt == nil && m.Attempts < maxAttempts {
			pending = append(pending, m)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].OccurredAt.Before(pending[j].OccurredAt) })
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// MarkProcessed registra a entrega da mensagem.
func (s *Store) MarkProcessed(_ context.Context, msg domain.OutboxMessage, at time.Time) error {
	return s.updateMessage(msg.ID, func(m *domain.OutboxMessage) {
		t := at.UTC()
		m.ProcessedAt = &t
		m.Error = ""
		m.Attempts++
	})
}

// MarkFailed registra o erro da tentativa.
func (s *Store) MarkFailed(_ context.Context, msg domain.OutboxMessage, reason string) error {
	return s.updateMessage(msg.ID, func(m *domain.OutboxMessage) {
		m.Error = reason
		m.Attempts++
	})
}

func (s *Store) updateMessage(id uuid.UUID, apply func(*domain.OutboxMessage)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.outbox {
		if s.data.outbox[i].ID == id {
			apply(&s.data.outbox[i])
			return nil
		}
	}
	return errors.NewNotFoundError(fmt.Sprintf("Mensagem de outbox %s não encontrada.", id))
}

type txRepos struct {
	store  *Store
	staged tables
}

func (t *txRepos) Orders() domain.OrderRepository         { return orderRepo{t} }
func (t *txRepos) Warehouses() domain.WarehouseRepository { return warehouseRepo{t} }
func (t *txRepos) Shipments() domain.ShipmentRepository   { return shipmentRepo{t} }

func (t *txRepos) appendEvents(events []domain.Event) error {
	for _, e := range events {
		msg, err := domain.NewOutboxMessage(e)
		if err != nil {
			return errors.NewInternalError("Falha ao serializar evento", err)
		}
		t.staged.outbox = append(t.staged.outbox, msg)
	}
	return nil
}

func checkVersion(kind string, id, stored, current int, exists bool) error {
	switch {
	case current == 0 && exists:
		return errors.NewConflictError(fmt.Sprintf("%s %d já existe.", kind, id))
	case current != 0 && (!exists || stored != current):
		return errors.NewConflictError(fmt.Sprintf("%s %d foi modificado por outra operação. Tente novamente.", kind, id))
	}
	return nil
}

type orderRepo struct{ tx *txRepos }

func (r orderRepo) NextID(context.Context) (int, error) { return r.tx.store.nextID("orders"), nil }

func (r orderRepo) GetByID(_ context.Context, id int) (*domain.Order, bool, error) {
	snap, ok := r.tx.staged.orders[id]
	if !ok {
		return nil, false, nil
	}
	o, err := domain.RestoreOrder(snap)
	if err != nil {
		return nil, false, errors.NewInternalError("Pedido corrompido", err)
	}
	return o, true, nil
}

// FindByID equivale a GetByID: o mutex já isola a unidade de trabalho.
func (r orderRepo) FindByID(ctx context.Context, id int) (*domain.Order, bool, error) {
	return r.GetByID(ctx, id)
}

func (r orderRepo) Save(_ context.Context, o *domain.Order) error {
	stored, exists := r.tx.staged.orders[o.ID()]
	if err := checkVersion("Pedido", o.ID(), stored.Version, o.Version(), exists); err != nil {
		return err
	}
	if err := r.tx.appendEvents(o.PendingEvents()); err != nil {
		return err
	}
	snap := o.Snapshot()
	snap.Version++
	r.tx.staged.orders[o.ID()] = snap
	o.MarkPersisted(snap.Version)
	return nil
}

type warehouseRepo struct{ tx *txRepos }

func (r warehouseRepo) NextID(context.Context) (int, error) {
	return r.tx.store.nextID("warehouses"), nil
}

func (r warehouseRepo) GetByID(_ context.Context, id int) (*domain.Warehouse, bool, error) {
	snap, ok := r.tx.staged.warehouses[id]
	if !ok {
		return nil, false, nil
	}
	w, err := domain.RestoreWarehouse(snap)
	if err != nil {
		return nil, false, errors.NewInternalError("Armazém corrompido", err)
	}
	return w, true, nil
}

func (r warehouseRepo) FindByID(ctx context.Context, id int) (*domain.Warehouse, bool, error) {
	return r.GetByID(ctx, id)
}

func (r warehouseRepo) Save(_ context.Context, w *domain.Warehouse) error {
	stored, exists := r.tx.staged.warehouses[w.ID()]
	if err := checkVersion("Armazém", w.ID(), stored.Version, w.Version(), exists); err != nil {
		return err
	}
	if err := r.tx.appendEvents(w.PendingEvents()); err != nil {
		return err
	}
	snap := w.Snapshot()
	snap.Version++
	r.tx.staged.warehouses[w.ID()] = snap
	w.MarkPersisted(snap.Version)
	return nil
}

type shipmentRepo struct{ tx *txRepos }

func (r shipmentRepo) NextID(context.Context) (int, error) {
	return r.tx.store.nextID("shipments"), nil
}

func (r shipmentRepo) GetByID(_ context.Context, id int) (*domain.Shipment, bool, error) {
	snap, ok := r.tx.staged.shipments[id]
	if !ok {
		return nil, false, nil
	}
	s, err := domain.RestoreShipment(snap)
	if err != nil {
		return nil, false, errors.NewInternalError("Remessa corrompida", err)
	}
	return s, true, nil
}

func (r shipmentRepo) Save(_ context.Context, s *domain.Shipment) error {
	if _, exists := r.tx.staged.shipments[s.ID()]; exists || s.Persisted() {
		return errors.NewInvariantViolationError(fmt.Sprintf("A remessa %d já foi gravada e não pode ser alterada.", s.ID()))
	}
	if err := r.tx.appendEvents(s.PendingEvents()); err != nil {
		return err
	}
	r.tx.staged.shipments[s.ID()] = s.Snapshot()
	s.MarkPersisted()
	return nil
}
