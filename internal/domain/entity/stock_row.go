package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/Bodegaje-api/internal/domain"
)

// NoCompanyLabel nombre mostrado para registros globales (sin empresa).
const NoCompanyLabel = "Sin Empresa"

// StockKey identifica un registro de inventario. CompanyID nil es una clave válida y distinta (inventario global).
type StockKey struct {
	ProductID  string
	LocationID string
	CompanyID  *string
}

// String representación estable de la clave, usada para serializar por clave en memoria y en logs.
func (k StockKey) String() string {
	company := "-"
	if k.CompanyID != nil {
		company = *k.CompanyID
	}
	return k.ProductID + "/" + k.LocationID + "/" + company
}

// StockRow cantidad disponible de un producto en una ubicación para una empresa.
type StockRow struct {
	ID         string
	ProductID  string
	LocationID string
	CompanyID  *string
	Quantity   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Key devuelve la clave única del registro.
func (s *StockRow) Key() StockKey {
	return StockKey{ProductID: s.ProductID, LocationID: s.LocationID, CompanyID: s.CompanyID}
}

// ApplyDelta suma delta a la cantidad. Rechaza el cambio sin mutar si el resultado sería negativo
// o si excede el máximo representable.
func (s *StockRow) ApplyDelta(delta int64, now time.Time) error {
	if delta > 0 && delta > math.MaxInt64-s.Quantity {
		verr := &domain.ValidationError{}
		verr.Add("cantidad", fmt.Sprintf("la cantidad resultante excede el máximo permitido (%d)", int64(math.MaxInt64)))
		return verr
	}
	next := s.Quantity + delta
	if next < 0 {
		return &domain.InvalidQuantityError{Current: s.Quantity, Delta: delta}
	}
	s.Quantity = next
	s.UpdatedAt = now
	return nil
}

// StockRowView registro de inventario con los nombres de sus referencias (listados, exportación).
type StockRowView struct {
	StockRow
	ProductName  string
	ProductSKU   string
	LocationName string
	CompanyName  string
}

// String formato legible "producto (cantidad) @ ubicación [empresa]".
func (v *StockRowView) String() string {
	company := v.CompanyName
	if v.CompanyID == nil || company == "" {
		company = NoCompanyLabel
	}
	return fmt.Sprintf("%s (%d) @ %s [%s]", v.ProductName, v.Quantity, v.LocationName, company)
}

// SameCompany compara dos referencias de empresa opcionales.
func SameCompany(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Ptr devuelve un puntero a v.
func Ptr[T any](v T) *T { return &v }
