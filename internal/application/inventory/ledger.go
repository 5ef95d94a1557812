package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

// ledger operaciones sobre el inventario con repositorios atados a la transacción en curso.
// No escribe historial: eso queda en manos del flujo que lo invoca.
type ledger struct {
	rows repository.StockRowRepository
	now  time.Time
}

// getOrCreate bloquea el registro de la clave, creándolo en cero si no existe.
func (l ledger) getOrCreate(ctx context.Context, key entity.StockKey) (*entity.StockRow, bool, error) {
	row, created, err := l.rows.GetOrCreateForUpdate(ctx, key, l.now)
	if err != nil {
		return nil, false, fmt.Errorf("obtener o crear inventario: %w", err)
	}
	return row, created, nil
}

// getForUpdate bloquea el registro de la clave; NotFoundError si no existe.
func (l ledger) getForUpdate(ctx context.Context, key entity.StockKey, label string) (*entity.StockRow, error) {
	row, err := l.rows.GetForUpdate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("bloquear inventario: %w", err)
	}
	if row == nil {
		return nil, &domain.NotFoundError{Resource: label}
	}
	return row, nil
}

// applyDelta suma delta y persiste. InvalidQuantityError si el resultado sería negativo.
func (l ledger) applyDelta(ctx context.Context, row *entity.StockRow, delta int64) error {
	if err := row.ApplyDelta(delta, l.now); err != nil {
		return err
	}
	return l.rows.Save(ctx, row)
}

func (l ledger) delete(ctx context.Context, row *entity.StockRow) error {
	return l.rows.Delete(ctx, row.ID)
}

// resolved referencias de un movimiento ya verificadas. company es nil para inventario global.
type resolved struct {
	product  *entity.Product
	location *entity.Location
	company  *entity.Company
}

func (r *resolved) companyName() string {
	if r.company == nil {
		return entity.NoCompanyLabel
	}
	return r.company.Name
}

// label descripción legible de la clave para mensajes de error.
func (r *resolved) label() string {
	return fmt.Sprintf("inventario de '%s' en '%s' para la empresa '%s'", r.product.Name, r.location.Name, r.companyName())
}

func (r *resolved) duplicate() *domain.DuplicateKeyError {
	return &domain.DuplicateKeyError{Product: r.product.Name, Location: r.location.Name, Company: r.companyName()}
}

// resolve verifica que producto, ubicación y empresa existan. Las referencias que no existen
// se informan juntas como ValidationError marcado NotFound.
func (refs References) resolve(ctx context.Context, productID, locationID string, companyID *string) (*resolved, error) {
	verr := &domain.ValidationError{}
	out := &resolved{}

	p, err := refs.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		verr.AddMissing("product_id", "el producto no existe")
	}
	out.product = p

	l, err := refs.Locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		verr.AddMissing("location_id", "la ubicación no existe")
	}
	out.location = l

	if companyID != nil {
		c, err := refs.Companies.GetByID(ctx, *companyID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			verr.AddMissing("company_id", "la empresa no existe")
		}
		out.company = c
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}
