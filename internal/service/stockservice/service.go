package stockservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/pkg/latency"
	"godash/internal/pkg/logger"
)

// ProductStore define o contrato que o Serviço de Estoque espera da camada de Persistência.
type ProductStore interface {
	Mutate(ctx context.Context, fn func([]domain.Product) ([]domain.Product, error)) error
}

// Service aplica ajustes relativos (delta) ao estoque de um produto.
type Service struct {
	repo    ProductStore
	latency *latency.Simulator
	logger  logger.Logger
	now     func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo ProductStore, sim *latency.Simulator, logger logger.Logger) *Service {
	return &Service{repo: repo, latency: sim, logger: logger, now: time.Now}
}

// AdjustStock soma delta ao estoque do produto. Delta zero e estoque resultante negativo são rejeitados.
func (s *Service) AdjustStock(ctx context.Context, productID string, adjustment domain.StockAdjustmentRequest) (domain.Product, error) {
	s.logger.Debug("Iniciando ajuste de estoque no serviço.", map[string]interface{}{
		"product_id": productID,
		"delta":      adjustment.Delta,
	})
	s.latency.Wait(latency.OpMutate)

	if adjustment.Delta == 0 {
		return domain.Product{}, apperror.NewValidationError("O ajuste de estoque (delta) não pode ser zero.")
	}

	var adjusted domain.Product
	err := s.repo.Mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		for i := range products {
			if products[i].ID != productID {
				continue
			}
			quantity := products[i].Stock + adjustment.Delta
			if quantity < 0 {
				return nil, apperror.NewValidationError(fmt.Sprintf(
					"Ajuste resultaria em quantidade de estoque negativa (atual %d, delta %d).", products[i].Stock, adjustment.Delta))
			}
			products[i].Stock = quantity
			if now := s.now(); now.After(products[i].UpdatedAt) {
				products[i].UpdatedAt = now
			} else {
				products[i].UpdatedAt = products[i].UpdatedAt.Add(time.Millisecond)
			}
			adjusted = products[i]
			return products, nil
		}
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não foi encontrado.", productID))
	})
	if err != nil {
		var validationErr *apperror.ValidationError
		if errors.As(err, &validationErr) {
			return domain.Product{}, validationErr
		}
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.Product{}, notFoundErr
		}
		s.logger.Error("Falha ao ajustar estoque no repositório.", err)
		return domain.Product{}, apperror.NewInternalError("Falha interna ao ajustar estoque.", err)
	}

	fields := map[string]interface{}{"product_id": adjusted.ID, "new_quantity": adjusted.Stock}
	if adjusted.Stock < domain.LowStockThreshold {
		s.logger.Warn("Estoque baixo após ajuste.", fields)
	} else {
		s.logger.Info("Estoque ajustado com sucesso.", fields)
	}
	return adjusted, nil
}
