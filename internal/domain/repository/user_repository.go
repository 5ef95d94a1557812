package repository

import (
	"context"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByLogin busca por email o por documento de identidad.
	FindByLogin(ctx context.Context, login string) (*entity.User, error)
}
