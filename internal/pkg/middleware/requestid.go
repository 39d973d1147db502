package middleware

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"

	"godash/internal/pkg/logger"
)

// ContextKey é o tipo das chaves que este pacote guarda no contexto.
type ContextKey int

const (
	RequestIDKey ContextKey = iota
)

// RequestIDHeader é o cabeçalho lido e devolvido com o ID da requisição.
const RequestIDHeader = "X-Request-ID"

// RequestID garante um ID por requisição: reaproveita o do cliente ou gera um UUID.
// O ID vai para o contexto, para o cabeçalho da requisição e para o da resposta.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID recupera o ID anexado por RequestID.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok
}

// AccessLog registra cada requisição concluída no Logger estruturado.
// O status e o tamanho da resposta vêm do handlers.CustomLoggingHandler.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
			fields := map[string]interface{}{
				"method":      p.Request.Method,
				"path":        p.URL.Path,
				"status":      p.StatusCode,
				"bytes":       p.Size,
				"duration_ms": time.Since(p.TimeStamp).Milliseconds(),
				"request_id":  p.Request.Header.Get(RequestIDHeader),
				"remote_addr": p.Request.RemoteAddr,
			}
			if p.StatusCode >= http.StatusInternalServerError {
				log.Warn("Requisição concluída com erro de servidor", fields)
				return
			}
			log.Info("Requisição concluída", fields)
		})
	}
}
