package repository

import (
	"context"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
)

// MovementFilter criterios del historial. Year/Month/Day en 0 no filtran.
type MovementFilter struct {
	ProductID  string
	LocationID string
	CompanyID  string
	Kind       entity.MovementKind
	Year       int
	Month      int
	Day        int
	Limit      int
	Offset     int
}

// MovementRepository historial append-only: no hay Update ni Delete.
type MovementRepository interface {
	// Append inserta el registro sin comprometer la transacción que lo contiene si falla.
	Append(ctx context.Context, record *entity.MovementRecord) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementView, int, error)
}
