package entity

import "time"

// Company empresa cliente (tenant). Limita la visibilidad del inventario para usuarios cliente.
type Company struct {
	ID        string
	Name      string
	NIT       string
	Address   string
	Phone     string
	Email     string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
