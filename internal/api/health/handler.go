package health

import (
	"context"
	"net/http"
	"time"

	"godash/internal/api/response"
	"godash/internal/pkg/logger"
)

// Checker é o armazenamento consultado pelo health check.
type Checker interface {
	Health(ctx context.Context) error
}

// FaultReporter expõe a última falha absorvida na leitura de uma coleção.
type FaultReporter interface {
	LastFault() error
}

// Report é o corpo do /health.
type Report struct {
	Status  string            `json:"status"` // ok | degraded | down
	Storage string            `json:"storage"`
	Faults  map[string]string `json:"faults,omitempty"`
}

// Handler atende /ping e /health.
type Handler struct {
	Store       Checker
	Collections map[string]FaultReporter
	Logger      logger.Logger
	Timeout     time.Duration
}

// NewHandler cria o Handler de saúde do serviço.
func NewHandler(store Checker, collections map[string]FaultReporter, log logger.Logger) *Handler {
	return &Handler{
		Store:       store,
		Collections: collections,
		Logger:      log,
		Timeout:     2 * time.Second,
	}
}

// PingHandler é uma função utilitária para o health check de processo.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// HealthHandler lida com a requisição GET /health.
// Armazenamento inacessível responde 503; leituras corrompidas absorvidas marcam o serviço como degraded.
// @Summary Saúde do armazenamento
// @Tags health
// @Produce json
// @Success 200 {object} Report
// @Failure 503 {object} Report
// @Router /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	report := Report{Status: "ok", Storage: "ok"}
	status := http.StatusOK

	if err := h.Store.Health(ctx); err != nil {
		h.Logger.Error("Health check do armazenamento falhou.", err)
		report.Status = "down"
		report.Storage = err.Error()
		status = http.StatusServiceUnavailable
	}

	for name, c := range h.Collections {
		if fault := c.LastFault(); fault != nil {
			if report.Faults == nil {
				report.Faults = map[string]string{}
			}
			report.Faults[name] = fault.Error()
		}
	}
	if report.Faults != nil && report.Status == "ok" {
		report.Status = "degraded"
	}

	response.JSON(w, h.Logger, status, report)
}
