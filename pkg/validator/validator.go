package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError error de validación de un campo, con el nombre JSON del campo.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

// Message texto legible en español para el error.
func (e FieldError) Message() string {
	switch e.Tag {
	case "required":
		return "es requerido"
	case "uuid", "uuid4":
		return "debe ser un identificador válido"
	case "gt":
		return "debe ser mayor que " + e.Param
	case "gte", "min":
		return "debe ser mayor o igual a " + e.Param
	case "max":
		return "excede el máximo de " + e.Param
	case "email":
		return "debe ser un email válido"
	default:
		return "no es válido (" + e.Tag + ")"
	}
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct valida según los tags `validate` y devuelve los errores por campo (nil si es válido).
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Tag: "invalid"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}
