package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"godash/internal/api/response"
	"godash/internal/domain"
	"godash/internal/pkg/logger"
)

// Counter conta requisições numa janela fixa. O primeiro Incr de uma janela devolve 1.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// rateLimitTimeout limita o tempo gasto consultando o contador.
const rateLimitTimeout = 500 * time.Millisecond

// RateLimiter limita o número de requisições por IP dentro de cada janela.
// Falha do contador não bloqueia a requisição.
func RateLimiter(counter Counter, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "rate-limit:" + clientIP(r)

			ctx, cancel := context.WithTimeout(r.Context(), rateLimitTimeout)
			count, err := counter.Incr(ctx, key, window)
			cancel()
			if err != nil {
				log.Warn("Contador de rate limit indisponível; requisição liberada.", map[string]interface{}{"cause": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(limit) {
				log.Debug("Rate limit excedido.", map[string]interface{}{"key": key, "count": count})
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				response.JSON(w, log, http.StatusTooManyRequests, domain.Result[struct{}]{
					Error: "Limite de requisições excedido. Tente novamente mais tarde.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP usa o RemoteAddr já reescrito pelo ProxyHeaders quando há proxy na frente.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// MemoryCounter é o Counter de processo único, usado quando não há Redis.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]memoryWindow
	now     func() time.Time
}

type memoryWindow struct {
	count   int64
	expires time.Time
}

// NewMemoryCounter cria um contador em memória.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{windows: map[string]memoryWindow{}, now: time.Now}
}

// Incr incrementa a chave; uma janela expirada recomeça do zero.
func (c *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	w, ok := c.windows[key]
	if !ok || !now.Before(w.expires) {
		w = memoryWindow{expires: now.Add(window)}
		c.sweep(now)
	}
	w.count++
	c.windows[key] = w
	return w.count, nil
}

// sweep descarta janelas vencidas para o mapa não crescer sem limite.
func (c *MemoryCounter) sweep(now time.Time) {
	for k, w := range c.windows {
		if !now.Before(w.expires) {
			delete(c.windows, k)
		}
	}
}
