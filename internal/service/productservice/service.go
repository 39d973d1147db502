package productservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/pkg/latency"
	"godash/internal/pkg/logger"
)

// ProductRepository define o contrato que este Serviço espera da camada de Persistência.
// Toda alteração passa por Mutate: a coleção é carregada, alterada e gravada por inteiro.
type ProductRepository interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
	Mutate(ctx context.Context, fn func([]domain.Product) ([]domain.Product, error)) error
}

// Service implementa as consultas e mutações de produtos.
type Service struct {
	repo      ProductRepository
	validator *domain.Validation
	latency   *latency.Simulator
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
}

// Option ajusta dependências opcionais do Serviço.
type Option func(*Service)

// WithClock troca o relógio (testes).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator troca o gerador de identidades (testes).
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, validator *domain.Validation, sim *latency.Simulator, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		validator: validator,
		latency:   sim,
		logger:    log,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListProducts devolve a coleção inteira, sem filtro.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.latency.Wait(latency.OpList)
	return s.repo.LoadProducts(ctx)
}

// GetProduct busca um produto pela identidade.
func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	s.latency.Wait(latency.OpGet)

	products, err := s.repo.LoadProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, notFound(id)
}

// CreateProduct valida o payload, gera a identidade e os timestamps e anexa o produto à coleção.
func (s *Service) CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	s.latency.Wait(latency.OpMutate)

	// 1. Validação de Regras de Negócio
	if err := s.validator.Validate(input); err != nil {
		return domain.Product{}, err
	}

	// 2. Preenchimento de ID, IsActive e CreatedAt/UpdatedAt
	now := s.now()
	product := domain.Product{
		ID:          s.newID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsActive:    input.IsActive == nil || *input.IsActive,
	}

	// 3. Delegação para a Camada de Persistência
	err := s.repo.Mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		return append(products, product), nil
	})
	if err != nil {
		return domain.Product{}, s.internal("Falha ao criar o produto.", err)
	}

	s.logger.Info("Produto criado.", map[string]interface{}{"product_id": product.ID, "category": product.Category})
	return product, nil
}

// UpdateProduct mescla o patch sobre o registro existente e renova UpdatedAt.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	s.latency.Wait(latency.OpMutate)

	if err := s.validator.Validate(patch); err != nil {
		return domain.Product{}, err
	}

	var updated domain.Product
	err := s.repo.Mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		i := indexOf(products, id)
		if i < 0 {
			return nil, notFound(id)
		}
		updated = patch.Apply(products[i])
		updated.UpdatedAt = s.touch(products[i].UpdatedAt)
		products[i] = updated
		return products, nil
	})
	if err != nil {
		return domain.Product{}, s.translate("Falha ao atualizar o produto.", err)
	}

	s.logger.Info("Produto atualizado.", map[string]interface{}{"product_id": id})
	return updated, nil
}

// DeleteProduct remove o registro com a identidade informada.
// Falha com NotFound quando o tamanho da coleção não muda após o filtro.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	s.latency.Wait(latency.OpMutate)

	err := s.repo.Mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		filtered := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if p.ID != id {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == len(products) {
			return nil, notFound(id)
		}
		return filtered, nil
	})
	if err != nil {
		return s.translate("Falha ao remover o produto.", err)
	}

	s.logger.Info("Produto removido.", map[string]interface{}{"product_id": id})
	return nil
}

// SearchProducts aplica o filtro de texto (nome OU descrição) e o de categoria, combinados com E.
// A ordem da coleção é preservada.
func (s *Service) SearchProducts(ctx context.Context, query, category string) ([]domain.Product, error) {
	s.latency.Wait(latency.OpList)

	products, err := s.repo.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(products, query, category), nil
}

// Filter é a regra de busca de produtos, sem acesso ao armazenamento.
// Consulta vazia ou só com espaços casa tudo; categoria vazia ou "all" não filtra.
func Filter(products []domain.Product, query, category string) []domain.Product {
	term := strings.ToLower(query)
	matchAll := strings.TrimSpace(query) == ""

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != domain.CategoryAll && p.Category != category {
			continue
		}
		if !matchAll &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// touch devolve o novo UpdatedAt, sempre estritamente posterior ao anterior.
func (s *Service) touch(previous time.Time) time.Time {
	now := s.now()
	if !now.After(previous) {
		now = previous.Add(time.Millisecond)
	}
	return now
}

// translate mantém erros de negócio (NotFound, Validation) e converte o resto em InternalError.
func (s *Service) translate(msg string, err error) error {
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		if _, internal := appErr.(*apperror.InternalError); !internal {
			return appErr
		}
	}
	return s.internal(msg, err)
}

// internal registra a causa original antes de convertê-la na falha uniforme.
func (s *Service) internal(msg string, err error) error {
	s.logger.Error(fmt.Sprintf("Falha interna no serviço de produtos: %s", msg), err)
	return apperror.NewInternalError(msg, err)
}

func indexOf(products []domain.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não foi encontrado.", id))
}
