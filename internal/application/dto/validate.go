package dto

import (
	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/pkg/validator"
)

// Validate aplica los tags `validate` del DTO y devuelve un *domain.ValidationError con el detalle por campo.
func Validate(in interface{}) error {
	errs := validator.ValidateStruct(in)
	if len(errs) == 0 {
		return nil
	}
	verr := &domain.ValidationError{}
	for _, fe := range errs {
		verr.Add(fe.Field, fe.Message())
	}
	return verr
}
