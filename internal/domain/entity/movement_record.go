package entity

import (
	"strings"
	"time"
)

// MovementKind tipo de movimiento del historial.
type MovementKind string

// Tipos que afectan el inventario.
const (
	MovementCreation           MovementKind = "CREATION"
	MovementUpdate             MovementKind = "UPDATE"
	MovementDeletion           MovementKind = "DELETION"
	MovementPositiveAdjustment MovementKind = "POSITIVE_ADJUSTMENT"
	MovementNegativeAdjustment MovementKind = "NEGATIVE_ADJUSTMENT"
)

// Tipos del catálogo (productos y ubicaciones); dejan los campos de cantidad en null/0.
const (
	MovementProductCreated   MovementKind = "PRODUCT_CREATED"
	MovementProductModified  MovementKind = "PRODUCT_MODIFIED"
	MovementProductDeleted   MovementKind = "PRODUCT_DELETED"
	MovementLocationCreated  MovementKind = "LOCATION_CREATED"
	MovementLocationModified MovementKind = "LOCATION_MODIFIED"
	MovementLocationDeleted  MovementKind = "LOCATION_DELETED"
)

var movementLabels = map[MovementKind]string{
	MovementCreation:           "Creación Inicial Inventario",
	MovementUpdate:             "Actualización Cantidad Inventario",
	MovementDeletion:           "Eliminación Registro Inventario",
	MovementPositiveAdjustment: "Ajuste Positivo Inventario",
	MovementNegativeAdjustment: "Ajuste Negativo Inventario",
	MovementProductCreated:     "Producto Creado",
	MovementProductModified:    "Producto Modificado",
	MovementProductDeleted:     "Producto Eliminado",
	MovementLocationCreated:    "Ubicación Creada",
	MovementLocationModified:   "Ubicación Modificada",
	MovementLocationDeleted:    "Ubicación Eliminada",
}

// Label nombre para mostrar del tipo.
func (k MovementKind) Label() string {
	if l, ok := movementLabels[k]; ok {
		return l
	}
	return string(k)
}

// Valid informa si el tipo pertenece al conjunto cerrado.
func (k MovementKind) Valid() bool {
	_, ok := movementLabels[k]
	return ok
}

// IsCatalog informa si el movimiento corresponde al catálogo y no al inventario.
func (k MovementKind) IsCatalog() bool {
	return strings.HasPrefix(string(k), "PRODUCT_") || strings.HasPrefix(string(k), "LOCATION_")
}

// ParseMovementKind normaliza s a un tipo conocido.
func ParseMovementKind(s string) (MovementKind, bool) {
	k := MovementKind(strings.ToUpper(strings.TrimSpace(s)))
	return k, k.Valid()
}

// MovementRecord entrada inmutable del historial. Todas las referencias son opcionales:
// sobreviven al borrado de lo que referencian.
type MovementRecord struct {
	ID             string
	StockRowID     *string
	ProductID      *string
	LocationID     *string
	CompanyID      *string
	Kind           MovementKind
	QuantityBefore *int64
	QuantityAfter  *int64
	QuantityDelta  int64
	UserID         *string
	CreatedAt      time.Time
	Reason         string
}

// MovementView movimiento con los nombres de sus referencias para el historial.
type MovementView struct {
	MovementRecord
	UserName     string
	ProductName  string
	ProductSKU   string
	LocationName string
	CompanyName  string
}
