package seedservice

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/pkg/logger"
	"godash/internal/repository"
)

// ProductStore é o repositório de produtos visto pelo gerador.
type ProductStore interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
	Mutate(ctx context.Context, fn func([]domain.Product) ([]domain.Product, error)) error
}

// OrderStore é o repositório de pedidos visto pelo gerador.
type OrderStore interface {
	Mutate(ctx context.Context, fn func([]domain.Order) ([]domain.Order, error)) error
}

// SeedReport informa quais coleções receberam os dados de demonstração.
type SeedReport struct {
	ProductsSeeded bool `json:"productsSeeded"`
	OrdersSeeded   bool `json:"ordersSeeded"`
}

// GenerationReport informa quantas entidades aleatórias foram gravadas.
type GenerationReport struct {
	Products int `json:"products"`
	Orders   int `json:"orders"`
}

// Service popula o armazenamento com dados de demonstração e gera entidades aleatórias.
// Não participa do caminho de CRUD.
type Service struct {
	products ProductStore
	orders   OrderStore
	logger   logger.Logger

	mu    sync.Mutex // protege rng
	rng   *rand.Rand
	now   func() time.Time
	newID func() string
}

// NewService cria o serviço com uma fonte aleatória própria.
func NewService(products ProductStore, orders OrderStore, log logger.Logger) *Service {
	return &Service{
		products: products,
		orders:   orders,
		logger:   log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// WithRand, WithClock e WithIDGenerator tornam o gerador determinístico em testes.
func (s *Service) WithRand(rng *rand.Rand) *Service             { s.rng = rng; return s }
func (s *Service) WithClock(now func() time.Time) *Service      { s.now = now; return s }
func (s *Service) WithIDGenerator(newID func() string) *Service { s.newID = newID; return s }

// InitializeSampleData grava os dados de demonstração apenas nas coleções vazias.
// Pode ser chamado a cada inicialização: coleções populadas não são tocadas.
func (s *Service) InitializeSampleData(ctx context.Context) (SeedReport, error) {
	var report SeedReport

	err := s.products.Mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		if len(products) > 0 {
			return nil, repository.ErrNoChange
		}
		report.ProductsSeeded = true
		return SampleProducts(), nil
	})
	if err != nil {
		s.logger.Error("Falha ao gravar os produtos de demonstração.", err)
		return SeedReport{}, apperror.NewInternalError("Falha ao popular produtos.", err)
	}

	err = s.orders.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		if len(orders) > 0 {
			return nil, repository.ErrNoChange
		}
		report.OrdersSeeded = true
		return SampleOrders(), nil
	})
	if err != nil {
		s.logger.Error("Falha ao gravar os pedidos de demonstração.", err)
		return report, apperror.NewInternalError("Falha ao popular pedidos.", err)
	}

	s.logger.Info("Dados de demonstração verificados.", map[string]interface{}{
		"products_seeded": report.ProductsSeeded,
		"orders_seeded":   report.OrdersSeeded,
	})
	return report, nil
}

func (s *Service) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *Service) int63n(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63n(n)
}

// GenerateRandomProduct sintetiza um produto; não grava nada.
func (s *Service) GenerateRandomProduct() domain.Product {
	id := s.newID()
	name := randomNames[s.intn(len(randomNames))] + " " + suffix(id, 3)
	category := randomCategories[s.intn(len(randomCategories))]
	now := s.now()

	return domain.Product{
		ID:          id,
		Name:        name,
		Description: fmt.Sprintf("%s - Yüksek kaliteli %s ürünü", name, strings.ToLower(category)),
		Price:       float64(s.intn(50000) + 1000),
		Stock:       s.intn(100) + 1,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsActive:    true,
	}
}

// GenerateRandomOrder sintetiza um pedido com 1 a 3 itens tirados do catálogo atual.
// TotalAmount é a soma exata de Price*Quantity; OrderDate cai nos últimos 7 dias.
func (s *Service) GenerateRandomOrder(ctx context.Context) (domain.Order, error) {
	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	return s.randomOrder(products)
}

func (s *Service) randomOrder(products []domain.Product) (domain.Order, error) {
	if len(products) == 0 {
		return domain.Order{}, apperror.NewValidationError("Não há produtos cadastrados para montar um pedido.")
	}

	id := s.newID()
	now := s.now()
	customer := randomCustomers[s.intn(len(randomCustomers))]

	itemCount := s.intn(3) + 1
	items := make([]domain.OrderItem, 0, itemCount)
	total := 0.0
	for i := 0; i < itemCount; i++ {
		p := products[s.intn(len(products))]
		qty := s.intn(3) + 1
		items = append(items, domain.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    qty,
			Price:       p.Price,
		})
		total += p.Price * float64(qty)
	}

	notes := ""
	if s.intn(2) == 1 {
		notes = "Özel teslimat talebi"
	}

	return domain.Order{
		ID:              id,
		OrderNumber:     fmt.Sprintf("ORD-%d-%s", now.Year(), suffix(id, 3)),
		CustomerName:    customer,
		CustomerEmail:   strings.Replace(strings.ToLower(customer), " ", ".", 1) + "@example.com",
		Items:           items,
		TotalAmount:     total,
		Status:          randomStatuses[s.intn(len(randomStatuses))],
		OrderDate:       now.Add(-time.Duration(s.int63n(int64(7 * 24 * time.Hour)))),
		ShippingAddress: randomCities[s.intn(len(randomCities))],
		Notes:           notes,
	}, nil
}

// AddRandomData gera e grava nProducts produtos e depois nOrders pedidos sobre o catálogo resultante.
func (s *Service) AddRandomData(ctx context.Context, nProducts, nOrders int) (GenerationReport, error) {
	if nProducts < 0 || nOrders < 0 {
		return GenerationReport{}, apperror.NewValidationError("As quantidades devem ser maiores ou iguais a zero.")
	}
	var report GenerationReport

	var catalog []domain.Product
	err := s.products.Mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		for i := 0; i < nProducts; i++ {
			products = append(products, s.GenerateRandomProduct())
		}
		catalog = products
		if nProducts == 0 {
			return nil, repository.ErrNoChange
		}
		return products, nil
	})
	if err != nil {
		return report, apperror.NewInternalError("Falha ao gravar produtos aleatórios.", err)
	}
	report.Products = nProducts

	if nOrders == 0 {
		return report, nil
	}
	err = s.orders.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for i := 0; i < nOrders; i++ {
			o, err := s.randomOrder(catalog)
			if err != nil {
				return nil, err
			}
			orders = append(orders, o)
		}
		return orders, nil
	})
	if err != nil {
		if _, ok := err.(*apperror.ValidationError); ok {
			return report, err
		}
		return report, apperror.NewInternalError("Falha ao gravar pedidos aleatórios.", err)
	}
	report.Orders = nOrders

	s.logger.Info("Dados aleatórios gerados.", map[string]interface{}{"products": report.Products, "orders": report.Orders})
	return report, nil
}

func suffix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
