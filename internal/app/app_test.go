package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godash/config"
	"godash/internal/app"
	"godash/internal/domain"
	"godash/internal/pkg/logger"
	"godash/internal/pkg/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver:          config.DriverMemory,
		Timezone:             "UTC",
		SeedOnStart:          true,
		RateLimitMaxRequests: 1000,
		RateLimitPeriod:      time.Minute,
		CORSOrigins:          []string{"*"},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type client struct {
	t *testing.T
	h http.Handler
}

func (c client) do(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func newSeededApp(t *testing.T) (*app.App, client) {
	t.Helper()
	a, err := app.NewWithBackend(testConfig(), logger.NewNop(), storage.NewMemoryBackend())
	require.NoError(t, err)
	require.NoError(t, a.Seed(context.Background()))
	return a, client{t: t, h: a.Handler()}
}

func TestHTTP_ProductLifecycle(t *testing.T) {
	_, c := newSeededApp(t)

	status, env := c.do(http.MethodGet, "/v1/products", nil)
	require.Equal(t, http.StatusOK, status)
	var products []domain.Product
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Len(t, products, 5)

	status, env = c.do(http.MethodPost, "/v1/products", map[string]interface{}{
		"name": "Kablosuz Mouse", "description": "Ergonomik", "price": 499.9, "stock": 3, "category": "Aksesuar",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var created domain.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)

	status, env = c.do(http.MethodPatch, "/v1/products/"+created.ID, map[string]interface{}{"price": 450})
	require.Equal(t, http.StatusOK, status)
	var patched domain.Product
	require.NoError(t, json.Unmarshal(env.Data, &patched))
	assert.Equal(t, 450.0, patched.Price)
	assert.Equal(t, "Kablosuz Mouse", patched.Name)

	status, _ = c.do(http.MethodPost, "/v1/products/"+created.ID+"/stock", map[string]int{"delta": -5})
	assert.Equal(t, http.StatusBadRequest, status, "estoque não fica negativo")

	status, env = c.do(http.MethodGet, "/v1/products?q=mouse&category=all", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 1)

	status, env = c.do(http.MethodDelete, "/v1/products/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, env = c.do(http.MethodGet, "/v1/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, created.ID)
}

func TestHTTP_CreateProductValidation(t *testing.T) {
	_, c := newSeededApp(t)

	status, env := c.do(http.MethodPost, "/v1/products", map[string]interface{}{"name": " ", "price": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)

	req := httptest.NewRequest(http.MethodPost, "/v1/products", bytes.NewBufferString("{quebrado"))
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_OrdersAndDashboard(t *testing.T) {
	_, c := newSeededApp(t)

	status, env := c.do(http.MethodGet, "/v1/orders?status=all", nil)
	require.Equal(t, http.StatusOK, status)
	var orders []domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 4)
	assert.Equal(t, "ORD-2024-004", orders[0].OrderNumber, "mais recente primeiro")

	status, env = c.do(http.MethodPatch, "/v1/orders/4/status", map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodPatch, "/v1/orders/4/status", map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = c.do(http.MethodGet, "/v1/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, status)
	var stats domain.DashboardStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 5, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockProducts)
	assert.Equal(t, 0, stats.PendingOrders)
	assert.Equal(t, 42999.0+53998.0, stats.TotalRevenue)

	status, env = c.do(http.MethodGet, "/v1/dashboard/sales?days=3", nil)
	require.Equal(t, http.StatusOK, status)
	var series []domain.SalesData
	require.NoError(t, json.Unmarshal(env.Data, &series))
	assert.Len(t, series, 3)

	status, _ = c.do(http.MethodGet, "/v1/dashboard/sales?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = c.do(http.MethodGet, "/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	var data domain.DashboardData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.SalesChart, 7)
	assert.Len(t, data.RecentOrders, 4)
}

func TestHTTP_BackupRoundTrip(t *testing.T) {
	_, source := newSeededApp(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/backup", nil)
	rec := httptest.NewRecorder()
	source.h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ecommerce-backup-")
	doc := rec.Body.Bytes()

	target, err := app.NewWithBackend(testConfig(), logger.NewNop(), storage.NewMemoryBackend())
	require.NoError(t, err)
	h := target.Handler()

	req = httptest.NewRequest(http.MethodPost, "/v1/backup", bytes.NewReader(doc))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	orders, err := target.Orders.LoadOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 4)
}

func TestHTTP_HealthPingAndRouting(t *testing.T) {
	_, c := newSeededApp(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	assert.Equal(t, "pong", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"ok"}`, rec.Body.String())

	status, env := c.do(http.MethodGet, "/v1/nada", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)

	status, _ = c.do(http.MethodPut, "/v1/products", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestHTTP_HealthReportsAbsorbedCorruption(t *testing.T) {
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), storage.KeyOrders, "{nao é json"))
	a, err := app.NewWithBackend(testConfig(), logger.NewNop(), backend)
	require.NoError(t, err)
	h := a.Handler()

	orders, err := a.OrderService.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	assert.Contains(t, rec.Body.String(), `"orders"`)
}

func TestHTTP_StrictStoreSurfacesCorruption(t *testing.T) {
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), storage.KeyOrders, "{nao é json"))
	cfg := testConfig()
	cfg.StoreStrict = true
	a, err := app.NewWithBackend(cfg, logger.NewNop(), backend)
	require.NoError(t, err)
	c := client{t: t, h: a.Handler()}

	status, env := c.do(http.MethodGet, "/v1/orders", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, env.Success)

	status, _ = c.do(http.MethodGet, "/v1/products", nil)
	assert.Equal(t, http.StatusOK, status, "produtos ausentes continuam vazios")
}

func TestHTTP_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMaxRequests = 2
	a, err := app.NewWithBackend(cfg, logger.NewNop(), storage.NewMemoryBackend())
	require.NoError(t, err)
	c := client{t: t, h: a.Handler()}

	for i := 0; i < 2; i++ {
		status, _ := c.do(http.MethodGet, "/v1/categories", nil)
		require.Equal(t, http.StatusOK, status)
	}
	status, env := c.do(http.MethodGet, "/v1/categories", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.False(t, env.Success)
}

func TestHTTP_CORSPreflight(t *testing.T) {
	_, c := newSeededApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/products/1", nil)
	req.Header.Set("Origin", "http://painel.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNew_Drivers(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		cfg := testConfig()
		cfg.StoreDriver = config.DriverFile
		cfg.DataDir = t.TempDir()

		a, err := app.New(cfg, logger.NewNop())
		require.NoError(t, err)
		defer a.Close()
		require.NoError(t, a.Seed(context.Background()))

		reopened, err := app.New(cfg, logger.NewNop())
		require.NoError(t, err)
		products, err := reopened.Products.LoadProducts(context.Background())
		require.NoError(t, err)
		assert.Len(t, products, 5, "dados persistem entre instâncias")
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig()
		cfg.StoreDriver = config.DriverRedis
		cfg.RedisAddr = mr.Addr()
		cfg.RedisPrefix = "godash:"
		cfg.CacheTimeout = time.Second

		a, err := app.New(cfg, logger.NewNop())
		require.NoError(t, err)
		defer a.Close()
		require.NoError(t, a.Seed(context.Background()))

		assert.True(t, mr.Exists("godash:"+storage.KeyProducts))
	})

	t.Run("postgres sem DATABASE_URL", func(t *testing.T) {
		cfg := testConfig()
		cfg.StoreDriver = config.DriverPostgres

		_, err := app.New(cfg, logger.NewNop())
		assert.ErrorContains(t, err, "DATABASE_URL")
	})
}
