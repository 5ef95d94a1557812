package entity

import "time"

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User usuario del sistema. CompanyID es nil para personal interno sin empresa asignada.
type User struct {
	ID           string
	CompanyID    *string
	Email        string
	DocumentID   string // cédula
	PasswordHash string
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
