package dashboardservice

import (
	"context"
	"sort"
	"time"

	"godash/internal/domain"
	"godash/internal/pkg/datetime"
	"godash/internal/pkg/latency"
	"godash/internal/pkg/logger"
	"godash/internal/service/orderservice"
)

// ProductLoader é a parte do repositório de produtos usada pelo painel.
type ProductLoader interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
}

// OrderLoader é a parte do repositório de pedidos usada pelo painel.
type OrderLoader interface {
	LoadOrders(ctx context.Context) ([]domain.Order, error)
}

const (
	// DashboardSalesDays, DashboardRecentOrders e DashboardTopProducts dimensionam a página inicial.
	DashboardSalesDays    = 7
	DashboardRecentOrders = 5
	DashboardTopProducts  = 5
)

// Service calcula os agregados do painel sobre as coleções completas.
// Comparações por dia usam a data de calendário no fuso loc.
type Service struct {
	products ProductLoader
	orders   OrderLoader
	latency  *latency.Simulator
	logger   logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewService cria o serviço; loc nil usa o fuso local do processo.
func NewService(products ProductLoader, orders OrderLoader, sim *latency.Simulator, log logger.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{products: products, orders: orders, latency: sim, logger: log, loc: loc, now: time.Now}
}

// WithClock devolve uma cópia do serviço com outro relógio (testes).
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

// Stats calcula os contadores do painel.
func (s *Service) Stats(ctx context.Context) (domain.DashboardStats, error) {
	s.latency.Wait(latency.OpStats)

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	orders, err := s.orders.LoadOrders(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return ComputeStats(products, orders, s.now(), s.loc), nil
}

// ComputeStats é o cálculo puro de Stats.
// Receita total considera apenas pedidos entregues; vendas do dia somam todos os pedidos de hoje.
func ComputeStats(products []domain.Product, orders []domain.Order, now time.Time, loc *time.Location) domain.DashboardStats {
	stats := domain.DashboardStats{TotalProducts: len(products)}

	for _, p := range products {
		if p.Stock < domain.LowStockThreshold {
			stats.LowStockProducts++
		}
	}

	for _, o := range orders {
		if o.Status.Active() {
			stats.ActiveOrders++
		}
		if o.Status == domain.StatusPending {
			stats.PendingOrders++
		}
		if o.Status == domain.StatusDelivered {
			stats.TotalRevenue += o.TotalAmount
		}
		if datetime.SameDay(o.OrderDate, now, loc) {
			stats.DailySales += o.TotalAmount
		}
	}
	return stats
}

// SalesSeries devolve exatamente days pontos, do mais antigo até hoje, incluindo dias sem pedidos.
func (s *Service) SalesSeries(ctx context.Context, days int) ([]domain.SalesData, error) {
	s.latency.Wait(latency.OpList)

	orders, err := s.orders.LoadOrders(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeSalesSeries(orders, days, s.now(), s.loc), nil
}

// SalesSeriesForRange traduz a janela nomeada (daily, weekly, monthly) em dias.
func (s *Service) SalesSeriesForRange(ctx context.Context, r domain.SalesRange) ([]domain.SalesData, error) {
	return s.SalesSeries(ctx, r.Days())
}

// ComputeSalesSeries agrupa os pedidos por dia de calendário.
func ComputeSalesSeries(orders []domain.Order, days int, now time.Time, loc *time.Location) []domain.SalesData {
	if days <= 0 {
		return []domain.SalesData{}
	}

	today := datetime.StartOfDay(now, loc)
	index := make(map[string]int, days)
	series := make([]domain.SalesData, days)
	for i := 0; i < days; i++ {
		key := datetime.DayKey(today.AddDate(0, 0, i-(days-1)), loc)
		series[i] = domain.SalesData{Date: key}
		index[key] = i
	}

	for _, o := range orders {
		i, ok := index[datetime.DayKey(o.OrderDate, loc)]
		if !ok {
			continue
		}
		series[i].Orders++
		series[i].Sales += o.Units()
		series[i].Revenue += o.TotalAmount
	}
	return series
}

// RecentOrders devolve os limit pedidos mais recentes.
func (s *Service) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	s.latency.Wait(latency.OpList)

	orders, err := s.orders.LoadOrders(ctx)
	if err != nil {
		return nil, err
	}
	return recent(orders, limit), nil
}

func recent(orders []domain.Order, limit int) []domain.Order {
	sorted := append([]domain.Order(nil), orders...)
	orderservice.SortByDateDesc(sorted)
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// TopProducts ranqueia produtos por unidades vendidas em pedidos não cancelados.
func (s *Service) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	s.latency.Wait(latency.OpStats)

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.LoadOrders(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeTopProducts(products, orders, limit), nil
}

// ComputeTopProducts soma unidades e receita por produto a partir dos snapshots dos itens.
// Produtos já removidos do catálogo aparecem com o nome gravado no pedido.
// Empates: maior receita primeiro, depois o ID.
func ComputeTopProducts(products []domain.Product, orders []domain.Order, limit int) []domain.TopProduct {
	catalog := make(map[string]domain.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	ranking := make(map[string]*domain.TopProduct)
	for _, o := range orders {
		if o.Status == domain.StatusCancelled {
			continue
		}
		for _, it := range o.Items {
			tp, ok := ranking[it.ProductID]
			if !ok {
				p, known := catalog[it.ProductID]
				if !known {
					p = domain.Product{ID: it.ProductID, Name: it.ProductName, Price: it.Price}
				}
				tp = &domain.TopProduct{Product: p}
				ranking[it.ProductID] = tp
			}
			tp.UnitsSold += it.Quantity
			tp.Revenue += it.Price * float64(it.Quantity)
		}
	}

	out := make([]domain.TopProduct, 0, len(ranking))
	for _, tp := range ranking {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitsSold != out[j].UnitsSold {
			return out[i].UnitsSold > out[j].UnitsSold
		}
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Product.ID < out[j].Product.ID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Dashboard monta a página inicial com uma única leitura de cada coleção.
func (s *Service) Dashboard(ctx context.Context) (domain.DashboardData, error) {
	s.latency.Wait(latency.OpStats)

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return domain.DashboardData{}, err
	}
	orders, err := s.orders.LoadOrders(ctx)
	if err != nil {
		return domain.DashboardData{}, err
	}

	now := s.now()
	data := domain.DashboardData{
		Stats:        ComputeStats(products, orders, now, s.loc),
		SalesChart:   ComputeSalesSeries(orders, DashboardSalesDays, now, s.loc),
		RecentOrders: recent(orders, DashboardRecentOrders),
		TopProducts:  ComputeTopProducts(products, orders, DashboardTopProducts),
	}
	s.logger.Debug("Painel calculado.", map[string]interface{}{
		"products": len(products),
		"orders":   len(orders),
	})
	return data, nil
}
