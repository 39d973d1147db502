package orderservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/pkg/latency"
	"godash/internal/pkg/logger"
)

// OrderRepository define o contrato que este Serviço espera da camada de Persistência.
type OrderRepository interface {
	LoadOrders(ctx context.Context) ([]domain.Order, error)
	Mutate(ctx context.Context, fn func([]domain.Order) ([]domain.Order, error)) error
}

// Service expõe consultas de pedidos e a troca de status.
// Pedidos não são criados nem removidos por aqui.
type Service struct {
	repo    OrderRepository
	latency *latency.Simulator
	logger  logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Pedidos.
func NewService(repo OrderRepository, sim *latency.Simulator, log logger.Logger) *Service {
	return &Service{repo: repo, latency: sim, logger: log}
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	s.latency.Wait(latency.OpList)
	return s.repo.LoadOrders(ctx)
}

// GetOrder busca um pedido pela identidade.
func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	s.latency.Wait(latency.OpGet)

	orders, err := s.repo.LoadOrders(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, notFound(id)
}

// UpdateOrderStatus troca apenas o status; total, itens e data do pedido ficam intactos.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	s.latency.Wait(latency.OpMutate)

	if !status.Valid() {
		return domain.Order{}, apperror.NewValidationError(fmt.Sprintf("Status de pedido inválido: %q.", status))
	}

	var updated domain.Order
	var previous domain.OrderStatus
	err := s.repo.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				previous = orders[i].Status
				orders[i].Status = status
				updated = orders[i]
				return orders, nil
			}
		}
		return nil, notFound(id)
	})
	if err != nil {
		var nf *apperror.NotFoundError
		if errors.As(err, &nf) {
			return domain.Order{}, nf
		}
		s.logger.Error("Falha ao gravar o novo status do pedido.", err)
		return domain.Order{}, apperror.NewInternalError("Falha ao atualizar o status do pedido.", err)
	}

	s.logger.Info("Status do pedido atualizado.", map[string]interface{}{
		"order_id": id,
		"from":     string(previous),
		"to":       string(status),
	})
	return updated, nil
}

// SearchOrders filtra por status e por texto (número, nome ou e-mail do cliente) e
// devolve sempre do pedido mais recente para o mais antigo.
func (s *Service) SearchOrders(ctx context.Context, query string, status domain.OrderStatus) ([]domain.Order, error) {
	s.latency.Wait(latency.OpList)

	orders, err := s.repo.LoadOrders(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(orders, query, status), nil
}

// Filter é a regra de busca de pedidos. Status vazio ou "all" não filtra.
func Filter(orders []domain.Order, query string, status domain.OrderStatus) []domain.Order {
	term := strings.ToLower(query)
	matchAll := strings.TrimSpace(query) == ""

	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && status != domain.StatusAll && o.Status != status {
			continue
		}
		if !matchAll &&
			!strings.Contains(strings.ToLower(o.OrderNumber), term) &&
			!strings.Contains(strings.ToLower(o.CustomerName), term) &&
			!strings.Contains(strings.ToLower(o.CustomerEmail), term) {
			continue
		}
		out = append(out, o)
	}
	SortByDateDesc(out)
	return out
}

// SortByDateDesc ordena do pedido mais recente para o mais antigo; empates mantêm a ordem da coleção.
func SortByDateDesc(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}

func notFound(id string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %s não foi encontrado.", id))
}
