package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		category string
		message  string
	}{
		{"validação", NewValidationError("nome obrigatório"), http.StatusBadRequest, "VALIDATION_ERROR", "nome obrigatório"},
		{"não encontrado", NewNotFoundError("Produto 9"), http.StatusNotFound, "NOT_FOUND", "Produto 9"},
		{"conflito", NewConflictError("estoque"), http.StatusConflict, "CONFLICT", "estoque"},
		{"interno", NewInternalError("falhou", stderrors.New("disco")), http.StatusInternalServerError, "INTERNAL_ERROR", "falhou"},
		{"embrulhado", fmt.Errorf("camada: %w", NewNotFoundError("Pedido 1")), http.StatusNotFound, "NOT_FOUND", "Pedido 1"},
		{"não tipado", stderrors.New("boom"), http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, category, message := MapToHTTPStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestStorageErrorKeepsCause(t *testing.T) {
	cause := stderrors.New("quota exceeded")
	err := NewStorageError("Falha ao gravar", cause)

	assert.IsType(t, &InternalError{}, err)
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "Falha ao gravar (storage)", err.Message())
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestFieldValidationError(t *testing.T) {
	err := NewFieldValidationError("Dados inválidos", map[string]string{"price": "min"})

	var ve *ValidationError
	assert.True(t, stderrors.As(err, &ve))
	assert.Equal(t, "min", ve.Fields["price"])
	assert.Nil(t, ve.Unwrap())
}
