package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperror "godash/internal/errors"
)

// Validation encapsula o validator com as regras customizadas do painel.
type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	v.RegisterValidation("notblank", validateNotBlank)

	// Os erros usam o nome JSON do campo, o mesmo que o cliente enviou.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validation{validator: v}
}

// validateNotBlank rejeita strings vazias ou só com espaços.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

var fieldMessages = map[string]string{
	"notblank": "não pode ser vazio",
	"required": "é obrigatório",
	"gt":       "deve ser maior que %s",
	"gte":      "deve ser maior ou igual a %s",
}

// Validate valida a struct e devolve nil ou um *apperror.ValidationError com o detalhe por campo.
func (v *Validation) Validate(i interface{}) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.NewInternalError("Falha ao validar o payload.", err)
	}

	fields := make(map[string]string, len(validationErrors))
	names := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("falhou na regra '%s'", fe.Tag())
		} else if strings.Contains(msg, "%s") {
			msg = fmt.Sprintf(msg, fe.Param())
		}
		fields[fe.Field()] = msg
		names = append(names, fe.Field())
	}

	return apperror.NewFieldValidationError(
		fmt.Sprintf("Campos inválidos: %s.", strings.Join(names, ", ")),
		fields,
	)
}
