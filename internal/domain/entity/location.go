package entity

import "time"

// Location ubicación física (bodega, estante, zona) donde se almacena inventario.
type Location struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
