package orderrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/repository"
	"godash/internal/pkg/datetime"
	"godash/internal/pkg/logger"
	"godash/internal/pkg/storage"
)

// orderRecord é a forma persistida do pedido, com orderDate em texto.
type orderRecord struct {
	domain.Order
	OrderDate string `json:"orderDate"`
}

// OrderRepository carrega e grava a coleção inteira de pedidos.
type OrderRepository struct {
	Store    *storage.Adapter
	logger   logger.Logger
	Strict   bool
	Location *time.Location

	writeMu sync.Mutex

	mu        sync.Mutex
	lastFault error
}

// NewOrderRepository cria e retorna uma nova instância do Repositório de Pedidos.
func NewOrderRepository(store *storage.Adapter, log logger.Logger) *OrderRepository {
	return &OrderRepository{
		Store:  store,
		logger: log.With(map[string]interface{}{"repository": "orders"}),
	}
}

// LoadOrders segue as mesmas regras de LoadProducts: ausente ou ilegível vira vazio.
func (r *OrderRepository) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	orders, _, err := r.load(ctx)
	return orders, err
}

func (r *OrderRepository) load(ctx context.Context) (orders []domain.Order, fault, err error) {
	var records []orderRecord
	fault = r.Store.Get(ctx, storage.KeyOrders, &records)
	if storage.IsAbsent(fault) {
		r.setFault(nil)
		return []domain.Order{}, nil, nil
	}
	if fault != nil {
		orders, err = r.absorb(fault)
		return orders, fault, err
	}

	orders, problems := fromRecords(records, r.Location)
	for _, p := range problems {
		r.logger.Warn("Data inválida em pedido; registro mantido com data zerada.", map[string]interface{}{"cause": p.Error()})
	}

	r.setFault(nil)
	return orders, nil, nil
}

// SaveOrders substitui a coleção persistida inteira.
func (r *OrderRepository) SaveOrders(ctx context.Context, orders []domain.Order) error {
	if err := r.Store.Set(ctx, storage.KeyOrders, toRecords(orders)); err != nil {
		return apperror.NewStorageError("Falha ao gravar a coleção de pedidos", err)
	}
	r.logger.Debug("Pedidos gravados.", map[string]interface{}{"count": len(orders)})
	return nil
}

// Mutate é o ciclo carregar-alterar-gravar serializado da coleção de pedidos.
// Não grava sobre uma coleção que não pôde ser lida.
func (r *OrderRepository) Mutate(ctx context.Context, fn func([]domain.Order) ([]domain.Order, error)) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	orders, fault, err := r.load(ctx)
	if err != nil {
		return err
	}
	if fault != nil {
		return apperror.NewStorageError("Coleção de pedidos ilegível; gravação recusada", fault)
	}

	updated, err := fn(orders)
	if errors.Is(err, repository.ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.SaveOrders(ctx, updated)
}

// Replace grava a coleção inteira sem ler a anterior.
func (r *OrderRepository) Replace(ctx context.Context, orders []domain.Order) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := r.SaveOrders(ctx, orders); err != nil {
		return err
	}
	r.setFault(nil)
	return nil
}

func (r *OrderRepository) LastFault() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastFault
}

func (r *OrderRepository) setFault(err error) {
	r.mu.Lock()
	r.lastFault = err
	r.mu.Unlock()
}

func (r *OrderRepository) absorb(err error) ([]domain.Order, error) {
	r.setFault(err)
	if r.Strict {
		return nil, apperror.NewStorageError("Falha ao carregar a coleção de pedidos", err)
	}
	r.logger.Warn("Coleção de pedidos ilegível; tratando como vazia.", map[string]interface{}{"cause": err.Error()})
	return []domain.Order{}, nil
}

// DecodeOrders converte um array JSON no formato persistido em pedidos; data inválida é erro.
func (r *OrderRepository) DecodeOrders(raw json.RawMessage) ([]domain.Order, error) {
	var records []orderRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	orders, problems := fromRecords(records, r.Location)
	if len(problems) > 0 {
		return nil, problems[0]
	}
	return orders, nil
}

func toRecords(orders []domain.Order) []orderRecord {
	records := make([]orderRecord, len(orders))
	for i, o := range orders {
		if o.Items == nil {
			o.Items = []domain.OrderItem{}
		}
		records[i] = orderRecord{Order: o, OrderDate: datetime.Format(o.OrderDate)}
	}
	return records
}

func fromRecords(records []orderRecord, loc *time.Location) (orders []domain.Order, problems []error) {
	orders = make([]domain.Order, len(records))
	for i, rec := range records {
		o := rec.Order
		orderDate, err := datetime.ParseIn(rec.OrderDate, loc)
		if err != nil {
			problems = append(problems, fmt.Errorf("pedido %s: orderDate: %w", o.ID, err))
		}
		o.OrderDate = orderDate
		if o.Items == nil {
			o.Items = []domain.OrderItem{}
		}
		orders[i] = o
	}
	return orders, problems
}
