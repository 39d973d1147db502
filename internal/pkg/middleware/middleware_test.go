package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"godash/internal/pkg/cache"
	"godash/internal/pkg/logger"
	"godash/internal/pkg/middleware"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
})

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_MemoryCounter(t *testing.T) {
	h := middleware.RateLimiter(middleware.NewMemoryCounter(), 2, time.Minute, logger.NewNop())(okHandler)

	rec := hit(h, "10.0.0.1:5000")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:5001").Code)

	rec = hit(h, "10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"error":"Limite de requisições excedido. Tente novamente mais tarde."}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:5000").Code, "outro IP tem janela própria")
}

func TestMemoryCounter_WindowResets(t *testing.T) {
	c := middleware.NewMemoryCounter()
	ctx := context.Background()

	n, err := c.Incr(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, _ = c.Incr(ctx, "k", 20*time.Millisecond)
	assert.Equal(t, int64(2), n)

	time.Sleep(30 * time.Millisecond)
	n, _ = c.Incr(ctx, "k", 20*time.Millisecond)
	assert.Equal(t, int64(1), n)
}

func TestRateLimiter_RedisCounter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := cache.NewRedisClient(mr.Addr(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	h := middleware.RateLimiter(cache.NewRedisCounter(rdb, "godash:"), 1, time.Minute, logger.NewNop())(okHandler)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.9:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.9:2").Code)
	assert.True(t, mr.Exists("godash:rate-limit:10.0.0.9"))
	assert.Equal(t, time.Minute, mr.TTL("godash:rate-limit:10.0.0.9"))
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis fora do ar")
}

func TestRateLimiter_CounterFailureLetsRequestThrough(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	h := middleware.RateLimiter(failingCounter{}, 1, time.Minute, logger.NewWithCore(core))(okHandler)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
	assert.Equal(t, 1, logs.FilterMessageSnippet("rate limit").Len())
}

func TestRequestID(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := middleware.RequestID(middleware.AccessLog(logger.NewWithCore(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodPost, "/v1/orders", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("Requisição concluída").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/v1/orders", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.Equal(t, "req-1", fields["request_id"])
}
