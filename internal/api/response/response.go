// Package response escreve o envelope uniforme {success, data, error} das respostas HTTP.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/pkg/logger"
)

// Write processa o retorno (data, err) de um serviço e envia a resposta padronizada.
// Sem erro, responde successStatus; com erro, o status vem de MapToHTTPStatus.
func Write[T any](w http.ResponseWriter, r *http.Request, log logger.Logger, data T, err error, successStatus int) {
	if err == nil {
		JSON(w, log, successStatus, domain.NewResult(data, nil))
		return
	}

	// TRATAMENTO DE ERROS
	status, category, _ := apperror.MapToHTTPStatus(err)
	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
	JSON(w, log, status, domain.Failure[T](err))
}

// Error é o atalho para respostas de falha sem dado.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	Write[struct{}](w, r, log, struct{}{}, err, http.StatusOK)
}

// BadPayload responde 400 para corpo JSON ilegível.
func BadPayload(w http.ResponseWriter, r *http.Request, log logger.Logger) {
	Error(w, r, log, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."))
}

// JSON serializa v com o status informado.
func JSON(w http.ResponseWriter, log logger.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// OK responde {success: true} para operações sem dado de retorno.
func OK(w http.ResponseWriter, log logger.Logger) {
	JSON(w, log, http.StatusOK, domain.Result[struct{}]{Success: true})
}
