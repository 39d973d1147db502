package orderrepo_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/pkg/logger"
	"godash/internal/pkg/storage"
	"godash/internal/repository/orderrepo"
)

func newRepo() (*orderrepo.OrderRepository, *storage.MemoryBackend) {
	mem := storage.NewMemoryBackend()
	return orderrepo.NewOrderRepository(storage.NewAdapter(mem, logger.NewNop()), logger.NewNop()), mem
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	in := []domain.Order{{
		ID: "1", OrderNumber: "ORD-2024-001", CustomerName: "Ahmet Yılmaz", CustomerEmail: "ahmet@example.com",
		Items:       []domain.OrderItem{{ProductID: "1", ProductName: "iPhone 14 Pro", Quantity: 1, Price: 34999}},
		TotalAmount: 34999, Status: domain.StatusProcessing,
		OrderDate:       time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		ShippingAddress: "Kadıköy, İstanbul", Notes: "Hızlı teslimat talep edildi",
	}}

	require.NoError(t, repo.SaveOrders(ctx, in))
	out, err := repo.LoadOrders(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, in[0].OrderDate.Equal(out[0].OrderDate))

	out[0].OrderDate = in[0].OrderDate
	assert.Equal(t, in, out)
}

func TestSaveOrders_WritesCamelCaseWithTextDates(t *testing.T) {
	repo, mem := newRepo()
	ctx := context.Background()

	require.NoError(t, repo.SaveOrders(ctx, []domain.Order{{ID: "9", OrderDate: time.Date(2024, 1, 21, 8, 0, 0, 0, time.UTC)}}))

	raw, err := mem.Get(ctx, storage.KeyOrders)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "2024-01-21T08:00:00Z", decoded[0]["orderDate"])
	assert.Equal(t, []interface{}{}, decoded[0]["items"])
	assert.Contains(t, decoded[0], "orderNumber")
	assert.Contains(t, decoded[0], "totalAmount")
}

func TestLoadOrders_CorruptIsEmptyAndRecorded(t *testing.T) {
	repo, mem := newRepo()
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, storage.KeyOrders, `{"orders":true}`))
	out, err := repo.LoadOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, storage.KindCorrupt, storage.KindOf(repo.LastFault()))
}

func TestDecodeOrders_DateOnly(t *testing.T) {
	repo, _ := newRepo()
	out, err := repo.DecodeOrders(json.RawMessage(`[{"id":"3","orderDate":"2024-01-18","items":null}]`))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].OrderDate.Equal(time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)))
	assert.NotNil(t, out[0].Items)

	_, err = repo.DecodeOrders(json.RawMessage(`[{"id":"3","orderDate":"18.01.2024"}]`))
	assert.Error(t, err)
}

func TestLoadOrders_BadDateKeepsRecord(t *testing.T) {
	repo, mem := newRepo()
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, storage.KeyOrders, `[{"id":"1","orderDate":"2024-01-18"},{"id":"2","status":"pending"}]`))
	out, err := repo.LoadOrders(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.NoError(t, repo.LastFault())
	assert.True(t, out[1].OrderDate.IsZero())
	assert.NotNil(t, out[1].Items)
}

func TestMutate_RefusesToOverwriteUnreadableOrders(t *testing.T) {
	repo, mem := newRepo()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, storage.KeyOrders, `{"orders":true}`))

	err := repo.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		return append(orders, domain.Order{ID: "x"}), nil
	})
	assert.IsType(t, &apperror.InternalError{}, err)

	raw, err := mem.Get(ctx, storage.KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, `{"orders":true}`, raw)
}

func TestMutate_SerializesConcurrentWriters(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
				return append(orders, domain.Order{ID: "x", OrderDate: time.Now()}), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	out, err := repo.LoadOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 20, "nenhuma escrita concorrente foi perdida")
}
