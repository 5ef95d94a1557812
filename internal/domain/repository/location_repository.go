package repository

import (
	"context"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location.
// GetByID devuelve (nil, nil) si no existe.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Location, int, error)
	Delete(ctx context.Context, id string) error
}
