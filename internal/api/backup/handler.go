package backup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"godash/internal/api/response"
	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/pkg/logger"
)

// maxImportBytes limita o corpo aceito pelo import.
const maxImportBytes = 10 << 20

// BackupService define o contrato que o Handler espera da camada de Serviço.
type BackupService interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (domain.ImportSummary, error)
}

// Handler expõe o export e o import do estado persistido.
type Handler struct {
	Service BackupService
	Logger  logger.Logger
	now     func() time.Time
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc BackupService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
		now:     time.Now,
	}
}

// ExportHandler lida com a requisição GET /v1/backup.
// O corpo é o documento de backup puro, sem o envelope, para ser salvo como arquivo.
// @Summary Exporta produtos e pedidos
// @Tags backup
// @Produce json
// @Success 200 {object} domain.Backup
// @Failure 500 {object} domain.Result[string] "Erro interno do servidor"
// @Router /backup [get]
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Export(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	filename := fmt.Sprintf("ecommerce-backup-%s.json", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.Logger.Error("Falha ao enviar o backup.", err)
	}
}

// ImportHandler lida com a requisição POST /v1/backup.
// @Summary Importa um documento de backup
// @Description Substitui apenas as coleções presentes no documento.
// @Tags backup
// @Accept json
// @Produce json
// @Param backup body domain.Backup true "Documento exportado"
// @Success 200 {object} domain.Result[domain.ImportSummary]
// @Failure 400 {object} domain.Result[string] "Documento inválido"
// @Router /backup [post]
func (h *Handler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		response.Error(w, r, h.Logger, apperror.NewValidationError("Não foi possível ler o arquivo de backup."))
		return
	}

	summary, err := h.Service.Import(r.Context(), data)
	response.Write(w, r, h.Logger, summary, err, http.StatusOK)
}
