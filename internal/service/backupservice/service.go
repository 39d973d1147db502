package backupservice

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/pkg/datetime"
	"godash/internal/pkg/latency"
	"godash/internal/pkg/logger"
	"godash/internal/pkg/storage"
)

// ProductCollection é o repositório de produtos visto pelo backup.
type ProductCollection interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
	DecodeProducts(raw json.RawMessage) ([]domain.Product, error)
	Replace(ctx context.Context, products []domain.Product) error
	LastFault() error
}

// OrderCollection é o repositório de pedidos visto pelo backup.
type OrderCollection interface {
	LoadOrders(ctx context.Context) ([]domain.Order, error)
	DecodeOrders(raw json.RawMessage) ([]domain.Order, error)
	Replace(ctx context.Context, orders []domain.Order) error
}

// MetaStore guarda chaves avulsas (o instante do último export) e apaga o estado inteiro.
type MetaStore interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Clear(ctx context.Context) error
}

// Service exporta e importa o estado persistido como um único documento JSON.
type Service struct {
	products ProductCollection
	orders   OrderCollection
	meta     MetaStore
	latency  *latency.Simulator
	logger   logger.Logger
	now      func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Backup.
func NewService(products ProductCollection, orders OrderCollection, meta MetaStore, sim *latency.Simulator, log logger.Logger) *Service {
	return &Service{
		products: products,
		orders:   orders,
		meta:     meta,
		latency:  sim,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock devolve uma cópia do serviço com outro relógio (testes).
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now
	return &c
}

// importDocument mantém os arrays crus para distinguir campo ausente de campo vazio.
type importDocument struct {
	Products json.RawMessage `json:"products"`
	Orders   json.RawMessage `json:"orders"`
}

// Export serializa produtos, pedidos e o instante do export em JSON indentado
// e registra esse instante como último backup.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	s.latency.Wait(latency.OpList)

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.LoadOrders(ctx)
	if err != nil {
		return nil, err
	}

	exportDate := s.now().UTC()
	doc, err := json.MarshalIndent(domain.Backup{
		Products:   products,
		Orders:     orders,
		ExportDate: exportDate,
	}, "", "  ")
	if err != nil {
		s.logger.Error("Falha ao serializar o backup.", err)
		return nil, apperror.NewInternalError("Falha ao gerar o backup.", err)
	}

	// O registro do último backup não invalida o documento já gerado.
	if err := s.meta.Set(ctx, storage.KeyLastBackup, datetime.Format(exportDate)); err != nil {
		s.logger.Warn("Não foi possível registrar o último backup.", map[string]interface{}{"cause": err.Error()})
	}

	s.logger.Info("Backup exportado.", map[string]interface{}{
		"products": len(products),
		"orders":   len(orders),
		"bytes":    len(doc),
	})
	return doc, nil
}

// Import substitui as coleções presentes no documento. Uma coleção ausente
// (ou null) fica como está. Documento inválido não altera nada.
// Se a gravação dos pedidos falhar, os produtos anteriores são regravados. A exceção é
// uma coleção de produtos que já estava ilegível antes do import: ela não tem o que restaurar
// e fica com os produtos importados.
func (s *Service) Import(ctx context.Context, data []byte) (domain.ImportSummary, error) {
	s.latency.Wait(latency.OpMutate)

	// 1. Decodificação completa antes de qualquer gravação
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.ImportSummary{}, apperror.NewValidationError("Arquivo de backup inválido: " + err.Error())
	}

	var (
		products []domain.Product
		orders   []domain.Order
		err      error
	)
	if present(doc.Products) {
		if products, err = s.products.DecodeProducts(doc.Products); err != nil {
			return domain.ImportSummary{}, apperror.NewValidationError("Produtos inválidos no backup: " + err.Error())
		}
	}
	if present(doc.Orders) {
		if orders, err = s.orders.DecodeOrders(doc.Orders); err != nil {
			return domain.ImportSummary{}, apperror.NewValidationError("Pedidos inválidos no backup: " + err.Error())
		}
	}

	// 2. Cópia dos produtos atuais para desfazer a troca se os pedidos falharem
	var previous []domain.Product
	restorable := false
	if products != nil && orders != nil {
		if previous, err = s.products.LoadProducts(ctx); err != nil {
			return domain.ImportSummary{}, apperror.NewInternalError("Falha ao ler os produtos atuais.", err)
		}
		restorable = s.products.LastFault() == nil
	}

	// 3. Substituição das coleções
	var summary domain.ImportSummary
	if products != nil {
		if err := s.products.Replace(ctx, products); err != nil {
			s.logger.Error("Falha ao importar produtos.", err)
			return summary, apperror.NewInternalError("Falha ao importar produtos.", err)
		}
		n := len(products)
		summary.ProductsImported = &n
	}
	if orders != nil {
		if err := s.orders.Replace(ctx, orders); err != nil {
			s.logger.Error("Falha ao importar pedidos.", err)
			if products != nil {
				s.rollbackProducts(ctx, previous, restorable)
			}
			return domain.ImportSummary{}, apperror.NewInternalError("Falha ao importar pedidos.", err)
		}
		n := len(orders)
		summary.OrdersImported = &n
	}

	s.logger.Info("Backup importado.", map[string]interface{}{
		"products": summary.ProductsImported != nil,
		"orders":   summary.OrdersImported != nil,
	})
	return summary, nil
}

func (s *Service) rollbackProducts(ctx context.Context, previous []domain.Product, restorable bool) {
	if !restorable {
		s.logger.Warn("Produtos anteriores ilegíveis; os produtos importados foram mantidos.", nil)
		return
	}
	if err := s.products.Replace(ctx, previous); err != nil {
		s.logger.Error("Falha ao restaurar os produtos após import incompleto.", err)
		return
	}
	s.logger.Warn("Import incompleto; produtos anteriores restaurados.", map[string]interface{}{"products": len(previous)})
}

// LastBackup devolve o instante do último export; ok é falso se nunca houve um.
func (s *Service) LastBackup(ctx context.Context) (t time.Time, ok bool, err error) {
	var raw string
	err = s.meta.Get(ctx, storage.KeyLastBackup, &raw)
	if storage.IsAbsent(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, apperror.NewStorageError("Falha ao ler o último backup", err)
	}
	t, err = datetime.Parse(raw)
	if err != nil {
		return time.Time{}, false, apperror.NewStorageError("Registro de último backup corrompido", err)
	}
	return t, true, nil
}

// ClearAll apaga todo o estado persistido.
func (s *Service) ClearAll(ctx context.Context) error {
	s.latency.Wait(latency.OpMutate)

	if err := s.meta.Clear(ctx); err != nil {
		return apperror.NewStorageError("Falha ao limpar o armazenamento", err)
	}
	s.logger.Warn("Todo o estado persistido foi apagado.", nil)
	return nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
