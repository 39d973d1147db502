package domain

import (
	apperror "godash/internal/errors"
)

// Result é o envelope uniforme das operações: {success, data?, error?}.
type Result[T any] struct {
	Success bool              `json:"success"`
	Data    *T                `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// NewResult monta o envelope a partir do retorno (T, error) de um serviço.
func NewResult[T any](data T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Result[T]{Success: true, Data: &data}
}

// Failure monta um envelope de falha com a mensagem legível do erro.
func Failure[T any](err error) Result[T] {
	_, _, message := apperror.MapToHTTPStatus(err)
	res := Result[T]{Success: false, Error: message}
	if ve, ok := err.(*apperror.ValidationError); ok && len(ve.Fields) > 0 {
		res.Fields = ve.Fields
	}
	return res
}
