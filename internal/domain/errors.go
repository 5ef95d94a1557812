package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrAuditWrite        = errors.New("no se pudo registrar el movimiento en el historial")
)

// FieldError describe el problema de un campo concreto de la entrada.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa errores por campo. NotFound indica que alguna referencia
// (producto, ubicación, empresa) no existe; en ese caso también satisface errors.Is(err, ErrNotFound).
type ValidationError struct {
	Fields   []FieldError
	NotFound bool
}

// NewValidationError crea un ValidationError con un único campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add agrega un error de campo.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// AddMissing agrega un error de referencia inexistente.
func (e *ValidationError) AddMissing(field, message string) {
	e.NotFound = true
	e.Add(field, message)
}

// HasErrors informa si hay al menos un campo con error.
func (e *ValidationError) HasErrors() bool { return e != nil && len(e.Fields) > 0 }

// OrNil devuelve el error sólo si tiene campos (evita el nil tipado en interfaces).
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validación: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	if e.NotFound {
		return []error{ErrInvalidInput, ErrNotFound}
	}
	return []error{ErrInvalidInput}
}

// NotFoundError un recurso concreto no existe.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " no encontrado"
	}
	return fmt.Sprintf("%s %s no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError la salida supera la cantidad disponible.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// DuplicateKeyError ya existe un registro de inventario para la combinación producto/ubicación/empresa.
type DuplicateKeyError struct {
	Product  string
	Location string
	Company  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("Ya existe inventario para '%s' en '%s' para la empresa '%s'. Use editar.",
		e.Product, e.Location, e.Company)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicate }

// InvalidQuantityError aplicar el cambio dejaría la cantidad en negativo.
type InvalidQuantityError struct {
	Current int64
	Delta   int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("la cantidad no puede ser negativa: actual %d, cambio %d", e.Current, e.Delta)
}

func (e *InvalidQuantityError) Unwrap() error { return ErrInvalidQuantity }

// AuditWriteError falló el registro en el historial después de aplicar la mutación.
// No revierte la operación: se reporta al llamador como advertencia.
type AuditWriteError struct {
	Kind string
	Err  error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrAuditWrite.Error(), e.Kind, e.Err)
}

func (e *AuditWriteError) Unwrap() []error { return []error{ErrAuditWrite, e.Err} }
