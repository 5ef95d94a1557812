package dto

import "github.com/jhoicas/Bodegaje-api/internal/domain"

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP. Fields lleva el detalle por campo en errores de validación.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// DeletedResponse confirmación de baja de un elemento del catálogo.
type DeletedResponse struct {
	Deleted      bool   `json:"eliminado"`
	AuditWarning string `json:"audit_warning,omitempty"`
}
