package productrepo

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

// productRecord é a forma persistida do produto: as datas viajam como texto.
// Os campos de data desta struct sobrepõem os do produto embutido no JSON.
type productRecord struct {
	domain.Product
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ProductRepository carrega e grava a coleção inteira de produtos no adaptador de armazenamento.
type ProductRepository struct {
	Store  *storage.Adapter
	logger logger.Logger

	// Strict faz falhas de leitura e blobs corrompidos virarem erro em vez de coleção vazia.
	Strict bool
	// Location é o fuso das datas gravadas sem fuso; nil usa o fuso local do processo.
	Location *time.Location

	// writeMu serializa os ciclos carregar-alterar-gravar de Mutate dentro do processo.
	writeMu sync.Mutex

	mu        sync.Mutex
	lastFault error
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
func NewProductRepository(store *storage.Adapter, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		Store:  store,
		logger: log.With(map[string]interface{}{"repository": "products"}),
	}
}

// LoadProducts devolve a coleção persistida com as datas reconstruídas.
// Chave ausente é uma coleção vazia. Falha de leitura ou conteúdo corrompido também
// viram coleção vazia (a falha fica registrada em LastFault), exceto no modo Strict.
func (r *ProductRepository) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	products, _, err := r.load(ctx)
	return products, err
}

// load devolve também a falha absorvida nesta leitura, sem passar por LastFault.
func (r *ProductRepository) load(ctx context.Context) (products []domain.Product, fault, err error) {
	var records []productRecord
	fault = r.Store.Get(ctx, storage.KeyProducts, &records)
	if storage.IsAbsent(fault) {
		r.setFault(nil)
		return []domain.Product{}, nil, nil
	}
	if fault != nil {
		products, err = r.absorb(fault)
		return products, fault, err
	}

	// Data ilegível afeta só o registro: ele é mantido com a data zerada.
	products, problems := fromRecords(records, r.Location)
	for _, p := range problems {
		r.logger.Warn("Data inválida em produto; registro mantido com data zerada.", map[string]interface{}{"cause": p.Error()})
	}

	r.setFault(nil)
	r.logger.Debug("Produtos carregados.", map[string]interface{}{"count": len(products)})
	return products, nil, nil
}

// SaveProducts substitui a coleção persistida inteira.
func (r *ProductRepository) SaveProducts(ctx context.Context, products []domain.Product) error {
	if err := r.Store.Set(ctx, storage.KeyProducts, toRecords(products)); err != nil {
		return apperror.NewStorageError("Falha ao gravar a coleção de produtos", err)
	}
	r.logger.Debug("Produtos gravados.", map[string]interface{}{"count": len(products)})
	return nil
}

// Mutate carrega a coleção, aplica fn e grava o resultado inteiro, tudo sob o lock de escrita.
// Se fn devolver erro nada é gravado; repository.ErrNoChange é tratado como sucesso sem escrita.
// Uma coleção que não pôde ser lida nunca é sobrescrita: Mutate falha sem chamar fn.
// Escritores em outros processos continuam no regime "último a gravar vence".
func (r *ProductRepository) Mutate(ctx context.Context, fn func([]domain.Product) ([]domain.Product, error)) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	products, fault, err := r.load(ctx)
	if err != nil {
		return err
	}
	if fault != nil {
		return apperror.NewStorageError("Coleção de produtos ilegível; gravação recusada", fault)
	}

	updated, err := fn(products)
	if errors.Is(err, repository.ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.SaveProducts(ctx, updated)
}

// Replace grava a coleção inteira sem ler a anterior (import de backup), sob o lock de escrita.
func (r *ProductRepository) Replace(ctx context.Context, products []domain.Product) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := r.SaveProducts(ctx, products); err != nil {
		return err
	}
	r.setFault(nil)
	return nil
}

// LastFault devolve a última falha absorvida por LoadProducts, ou nil.
func (r *ProductRepository) LastFault() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastFault
}

func (r *ProductRepository) setFault(err error) {
	r.mu.Lock()
	r.lastFault = err
	r.mu.Unlock()
}

func (r *ProductRepository) absorb(err error) ([]domain.Product, error) {
	r.setFault(err)
	if r.Strict {
		return nil, apperror.NewStorageError("Falha ao carregar a coleção de produtos", err)
	}
	r.logger.Warn("Coleção de produtos ilegível; tratando como vazia.", map[string]interface{}{"cause": err.Error()})
	return []domain.Product{}, nil
}

// DecodeProducts converte um array JSON no formato persistido em produtos.
// Usado pelo import de backup, que rejeita o documento inteiro na primeira data inválida.
func (r *ProductRepository) DecodeProducts(raw json.RawMessage) ([]domain.Product, error) {
	var records []productRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	products, problems := fromRecords(records, r.Location)
	if len(problems) > 0 {
		return nil, problems[0]
	}
	return products, nil
}

func toRecords(products []domain.Product) []productRecord {
	records := make([]productRecord, len(products))
	for i, p := range products {
		records[i] = productRecord{
			Product:   p,
			CreatedAt: datetime.Format(p.CreatedAt),
			UpdatedAt: datetime.Format(p.UpdatedAt),
		}
	}
	return records
}

// fromRecords reconstrói as datas de cada registro. Uma data ilegível fica zerada
// e é relatada em problems; o registro nunca é descartado.
func fromRecords(records []productRecord, loc *time.Location) (products []domain.Product, problems []error) {
	products = make([]domain.Product, len(records))
	for i, rec := range records {
		p := rec.Product

		createdAt, err := datetime.ParseIn(rec.CreatedAt, loc)
		if err != nil {
			problems = append(problems, fmt.Errorf("produto %s: createdAt: %w", p.ID, err))
		}
		updatedAt, err := datetime.ParseIn(rec.UpdatedAt, loc)
		if err != nil {
			problems = append(problems, fmt.Errorf("produto %s: updatedAt: %w", p.ID, err))
		}
		p.CreatedAt = createdAt
		p.UpdatedAt = updatedAt
		products[i] = p
	}
	return products, problems
}
