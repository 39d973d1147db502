package backupservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/pkg/latency"
	"godash/internal/pkg/logger"
	"godash/internal/pkg/storage"
	"godash/internal/repository/orderrepo"
	"godash/internal/repository/productrepo"
	"godash/internal/service/backupservice"
	"godash/internal/service/seedservice"
)

var exportInstant = time.Date(2024, 1, 22, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc      *backupservice.Service
	adapter  *storage.Adapter
	products *productrepo.ProductRepository
	orders   *orderrepo.OrderRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	adapter := storage.NewAdapter(storage.NewMemoryBackend(), logger.NewNop())
	products := productrepo.NewProductRepository(adapter, logger.NewNop())
	orders := orderrepo.NewOrderRepository(adapter, logger.NewNop())
	svc := backupservice.NewService(products, orders, adapter, latency.Disabled(), logger.NewNop()).
		WithClock(func() time.Time { return exportInstant })
	return fixture{svc: svc, adapter: adapter, products: products, orders: orders}
}

func (f fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.products.SaveProducts(ctx, seedservice.SampleProducts()))
	require.NoError(t, f.orders.SaveOrders(ctx, seedservice.SampleOrders()))
}

func TestExport_DocumentShapeAndLastBackup(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	_, ok, err := f.svc.LastBackup(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	doc, err := f.svc.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "\n  \"products\"", "documento indentado")

	var parsed map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc, &parsed))
	assert.Contains(t, parsed, "products")
	assert.Contains(t, parsed, "orders")
	assert.JSONEq(t, `"2024-01-22T09:30:00Z"`, string(parsed["exportDate"]))

	last, ok, err := f.svc.LastBackup(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, last.Equal(exportInstant))
}

func TestExportImport_RoundTrip(t *testing.T) {
	source := newFixture(t)
	source.seed(t)
	ctx := context.Background()

	doc, err := source.svc.Export(ctx)
	require.NoError(t, err)

	target := newFixture(t)
	summary, err := target.svc.Import(ctx, doc)
	require.NoError(t, err)
	require.NotNil(t, summary.ProductsImported)
	require.NotNil(t, summary.OrdersImported)
	assert.Equal(t, 5, *summary.ProductsImported)
	assert.Equal(t, 4, *summary.OrdersImported)

	want, _ := source.orders.LoadOrders(ctx)
	got, err := target.orders.LoadOrders(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Items, got[i].Items)
		assert.True(t, want[i].OrderDate.Equal(got[i].OrderDate), "datas reidratadas")
	}
}

func TestImport_OnlyPresentCollectionsAreReplaced(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	summary, err := f.svc.Import(ctx, []byte(`{"products":[{"id":"p9","name":"Tek","description":"d","price":5,"stock":1,"category":"Tablet","createdAt":"2024-02-01","updatedAt":"2024-02-01T10:00:00.000Z","isActive":true}],"orders":null}`))
	require.NoError(t, err)
	require.NotNil(t, summary.ProductsImported)
	assert.Equal(t, 1, *summary.ProductsImported)
	assert.Nil(t, summary.OrdersImported)

	products, _ := f.products.LoadProducts(ctx)
	require.Len(t, products, 1)
	assert.Equal(t, "p9", products[0].ID)
	assert.Equal(t, 10, products[0].UpdatedAt.Hour())

	orders, _ := f.orders.LoadOrders(ctx)
	assert.Len(t, orders, 4, "pedidos intocados")
}

func TestImport_InvalidDocumentChangesNothing(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	for _, input := range []string{
		`not json`,
		`{"products": {"id": "1"}}`,
		`{"products": [], "orders": [{"id":"1","orderDate":"ontem"}]}`,
	} {
		_, err := f.svc.Import(ctx, []byte(input))
		var ve *apperror.ValidationError
		assert.True(t, errors.As(err, &ve), input)
	}

	products, _ := f.products.LoadProducts(ctx)
	assert.Len(t, products, 5)
	orders, _ := f.orders.LoadOrders(ctx)
	assert.Len(t, orders, 4)
}

func TestImport_EmptyArraysClearCollections(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	summary, err := f.svc.Import(ctx, []byte(`{"products":[],"orders":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, *summary.ProductsImported)
	assert.Equal(t, 0, *summary.OrdersImported)

	products, _ := f.products.LoadProducts(ctx)
	assert.Empty(t, products)
}

func TestClearAll(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	_, err := f.svc.Export(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.ClearAll(ctx))

	products, _ := f.products.LoadProducts(ctx)
	assert.Empty(t, products)
	_, ok, err := f.svc.LastBackup(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

// failingOrders grava produtos normalmente mas falha ao substituir pedidos.
type failingOrders struct {
	*orderrepo.OrderRepository
}

func (failingOrders) Replace(context.Context, []domain.Order) error {
	return errors.New("disco cheio")
}

func TestImport_OrdersFailureRestoresPreviousProducts(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	svc := backupservice.NewService(f.products, failingOrders{f.orders}, f.adapter, latency.Disabled(), logger.NewNop())

	_, err := svc.Import(ctx, []byte(`{"products":[],"orders":[]}`))
	assert.IsType(t, &apperror.InternalError{}, err)

	products, err := f.products.LoadProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5, "produtos anteriores restaurados")
	orders, _ := f.orders.LoadOrders(ctx)
	assert.Len(t, orders, 4)
}

func TestImport_ReplacesUnreadableCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.adapter.Set(ctx, storage.KeyProducts, "quebrado"))

	_, err := f.products.LoadProducts(ctx)
	require.NoError(t, err)
	require.Error(t, f.products.LastFault())

	summary, err := f.svc.Import(ctx, []byte(`{"products":[{"id":"p1","name":"A","description":"a","price":1,"stock":1,"category":"Tablet","createdAt":"2024-02-01","updatedAt":"2024-02-01"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, *summary.ProductsImported)

	products, err := f.products.LoadProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.NoError(t, f.products.LastFault())
}
