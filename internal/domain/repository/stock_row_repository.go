package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
)

// StockRowFilter criterios de listado del inventario. Campos vacíos no filtran.
// CompanyID acota a una empresa; Limit 0 devuelve todo (exportación).
type StockRowFilter struct {
	ProductID  string
	LocationID string
	CompanyID  *string
	Limit      int
	Offset     int
}

// StockRowRepository puerto del ledger de inventario. Los métodos *ForUpdate bloquean la fila
// hasta el fin de la transacción; fuera de una transacción no ofrecen exclusión.
type StockRowRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockRow, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRow, error)
	// GetForUpdate devuelve (nil, nil) si no hay registro para la clave.
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRow, error)
	// GetOrCreateForUpdate crea el registro con cantidad 0 si no existe y lo bloquea.
	GetOrCreateForUpdate(ctx context.Context, key entity.StockKey, now time.Time) (row *entity.StockRow, created bool, err error)
	// Create devuelve domain.ErrDuplicate si la clave ya existe.
	Create(ctx context.Context, row *entity.StockRow) error
	Save(ctx context.Context, row *entity.StockRow) error
	Delete(ctx context.Context, id string) error
	GetView(ctx context.Context, id string) (*entity.StockRowView, error)
	List(ctx context.Context, filter StockRowFilter) ([]*entity.StockRowView, int, error)
}
