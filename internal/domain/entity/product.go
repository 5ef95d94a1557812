package entity

import "time"

// Product producto del catálogo; el SKU es único y no cambia.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
