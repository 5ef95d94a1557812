package dto

import "time"

// HistoryQuery filtros del historial. Valores no numéricos o ids inválidos se ignoran.
type HistoryQuery struct {
	ProductID  string
	LocationID string
	CompanyID  string
	Kind       string
	Year       string
	Month      string
	Day        string
	Limit      int
	Offset     int
}

// MovementResponse salida de un movimiento del historial.
type MovementResponse struct {
	ID             string    `json:"id"`
	Kind           string    `json:"tipo_movimiento"`
	KindLabel      string    `json:"tipo_movimiento_display"`
	StockRowID     *string   `json:"inventario_id"`
	ProductID      *string   `json:"product_id"`
	ProductName    string    `json:"product_name,omitempty"`
	LocationID     *string   `json:"location_id"`
	LocationName   string    `json:"location_name,omitempty"`
	CompanyID      *string   `json:"company_id"`
	CompanyName    string    `json:"company_name,omitempty"`
	QuantityBefore *int64    `json:"cantidad_anterior"`
	QuantityAfter  *int64    `json:"cantidad_nueva"`
	QuantityDelta  int64     `json:"cantidad_cambio"`
	UserID         *string   `json:"user_id"`
	UserName       string    `json:"user_name,omitempty"`
	Reason         string    `json:"motivo"`
	CreatedAt      time.Time `json:"timestamp"`
}

// MovementListResponse lista paginada del historial.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
