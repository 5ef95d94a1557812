package dto

import (
	"encoding/json"
	"time"
)

// AdjustmentRequest body de POST /api/inventory/entrada y /salida.
type AdjustmentRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	LocationID string `json:"location_id" validate:"required,uuid"`
	CompanyID  string `json:"company_id" validate:"required,uuid"`
	Cantidad   int64  `json:"cantidad" validate:"gt=0"`
	Motivo     string `json:"motivo" validate:"omitempty,max=1000"`
}

// CreateStockRowRequest alta directa de un registro de inventario. CompanyID nil = inventario global.
type CreateStockRowRequest struct {
	ProductID  string  `json:"product_id" validate:"required,uuid"`
	LocationID string  `json:"location_id" validate:"required,uuid"`
	CompanyID  *string `json:"company_id" validate:"omitempty,uuid"`
	Cantidad   int64   `json:"cantidad" validate:"gte=0"`
}

// UpdateStockRowRequest edición directa; sólo se aplican los campos presentes.
// "company_id": null devuelve el registro al inventario global.
type UpdateStockRowRequest struct {
	ProductID  *string    `json:"product_id" validate:"omitempty,uuid"`
	LocationID *string    `json:"location_id" validate:"omitempty,uuid"`
	CompanyID  OptionalID `json:"company_id" swaggertype:"string" extensions:"x-nullable"`
	Cantidad   *int64     `json:"cantidad" validate:"omitempty,gte=0"`
}

// OptionalID distingue un campo ausente (Set=false) de uno enviado como null (Set=true, Value=nil).
type OptionalID struct {
	Set   bool
	Value *string
}

// SomeID OptionalID presente con valor.
func SomeID(id string) OptionalID { return OptionalID{Set: true, Value: &id} }

// NullID OptionalID presente y nulo.
func NullID() OptionalID { return OptionalID{Set: true} }

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// StockQuery filtros del listado de inventario (query string).
type StockQuery struct {
	Product  string
	Location string
	Empresa  string
	Limit    int
	Offset   int
}

// StockRowResponse salida de un registro de inventario.
type StockRowResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductSKU   string    `json:"product_sku"`
	LocationID   string    `json:"location_id"`
	LocationName string    `json:"location_name"`
	CompanyID    *string   `json:"company_id"`
	CompanyName  string    `json:"company_name"`
	Cantidad     int64     `json:"cantidad"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockRowListResponse lista paginada de inventario.
type StockRowListResponse struct {
	Items []StockRowResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockMutationResponse resultado de una mutación del inventario (entrada, salida, alta, edición, borrado).
// Deleted indica que el registro ya no existe; Movement es nil si no se generó o no se pudo registrar.
type StockMutationResponse struct {
	Row          *StockRowResponse `json:"inventario,omitempty"`
	Deleted      bool              `json:"eliminado"`
	Movement     *MovementResponse `json:"movimiento,omitempty"`
	AuditWarning string            `json:"audit_warning,omitempty"`
}
