package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

var _ repository.StockRowRepository = (*StockRowRepo)(nil)

// StockRowRepo inventario en memoria. Los métodos *ForUpdate no bloquean por sí mismos:
// la exclusión la da TxRunner, que serializa las transacciones.
type StockRowRepo struct{ s *Store }

// NewStockRowRepository construye el repositorio sobre el store.
func NewStockRowRepository(s *Store) *StockRowRepo { return &StockRowRepo{s: s} }

func (r *StockRowRepo) GetByID(_ context.Context, id string) (*entity.StockRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.get(id), nil
}

func (r *StockRowRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRow, error) {
	return r.GetByID(ctx, id)
}

func (r *StockRowRepo) GetForUpdate(_ context.Context, key entity.StockKey) (*entity.StockRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.byKey(key, ""), nil
}

func (r *StockRowRepo) GetOrCreateForUpdate(_ context.Context, key entity.StockKey, now time.Time) (*entity.StockRow, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if row := r.byKey(key, ""); row != nil {
		return row, false, nil
	}
	if err := r.checkRefs(key); err != nil {
		return nil, false, err
	}
	row := entity.StockRow{
		ID:         uuid.New().String(),
		ProductID:  key.ProductID,
		LocationID: key.LocationID,
		CompanyID:  cloneString(key.CompanyID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.s.stock[row.ID] = row
	return r.get(row.ID), true, nil
}

func (r *StockRowRepo) Create(_ context.Context, row *entity.StockRow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stock[row.ID]; ok || r.byKey(row.Key(), "") != nil {
		return domain.ErrDuplicate
	}
	if err := r.checkRefs(row.Key()); err != nil {
		return err
	}
	if row.Quantity < 0 {
		return &domain.InvalidQuantityError{Current: 0, Delta: row.Quantity}
	}
	cp := *row
	cp.CompanyID = cloneString(row.CompanyID)
	r.s.stock[row.ID] = cp
	return nil
}

func (r *StockRowRepo) Save(_ context.Context, row *entity.StockRow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stock[row.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.byKey(row.Key(), row.ID) != nil {
		return domain.ErrDuplicate
	}
	if err := r.checkRefs(row.Key()); err != nil {
		return err
	}
	if row.Quantity < 0 {
		return &domain.InvalidQuantityError{Current: 0, Delta: row.Quantity}
	}
	cp := *row
	cp.CompanyID = cloneString(row.CompanyID)
	r.s.stock[row.ID] = cp
	return nil
}

func (r *StockRowRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deleteStockWhere(func(row entity.StockRow) bool { return row.ID == id })
	return nil
}

func (r *StockRowRepo) GetView(_ context.Context, id string) (*entity.StockRowView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row := r.get(id)
	if row == nil {
		return nil, nil
	}
	return r.view(*row), nil
}

func (r *StockRowRepo) List(_ context.Context, f repository.StockRowFilter) ([]*entity.StockRowView, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.StockRowView
	for _, row := range r.s.stock {
		if f.ProductID != "" && row.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && row.LocationID != f.LocationID {
			continue
		}
		if f.CompanyID != nil && (row.CompanyID == nil || *row.CompanyID != *f.CompanyID) {
			continue
		}
		list = append(list, r.view(row))
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		if a.LocationName != b.LocationName {
			return a.LocationName < b.LocationName
		}
		if (a.CompanyID == nil) != (b.CompanyID == nil) {
			return a.CompanyID == nil
		}
		if a.CompanyName != b.CompanyName {
			return a.CompanyName < b.CompanyName
		}
		return a.ID < b.ID
	})
	return page(list, f.Limit, f.Offset), len(list), nil
}

// Las funciones siguientes se llaman con mu tomado.

func (r *StockRowRepo) get(id string) *entity.StockRow {
	row, ok := r.s.stock[id]
	if !ok {
		return nil
	}
	row.CompanyID = cloneString(row.CompanyID)
	return &row
}

// byKey busca la clave ignorando el registro exceptID.
func (r *StockRowRepo) byKey(key entity.StockKey, exceptID string) *entity.StockRow {
	for id, row := range r.s.stock {
		if id == exceptID {
			continue
		}
		if row.ProductID == key.ProductID && row.LocationID == key.LocationID && entity.SameCompany(row.CompanyID, key.CompanyID) {
			return r.get(id)
		}
	}
	return nil
}

// checkRefs equivale a las llaves foráneas de la tabla.
func (r *StockRowRepo) checkRefs(key entity.StockKey) error {
	_, okP := r.s.products[key.ProductID]
	_, okL := r.s.locations[key.LocationID]
	okC := true
	if key.CompanyID != nil {
		_, okC = r.s.companies[*key.CompanyID]
	}
	if !okP || !okL || !okC {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRowRepo) view(row entity.StockRow) *entity.StockRowView {
	v := &entity.StockRowView{StockRow: row}
	v.CompanyID = cloneString(row.CompanyID)
	if p, ok := r.s.products[row.ProductID]; ok {
		v.ProductName, v.ProductSKU = p.Name, p.SKU
	}
	if l, ok := r.s.locations[row.LocationID]; ok {
		v.LocationName = l.Name
	}
	if row.CompanyID != nil {
		if c, ok := r.s.companies[*row.CompanyID]; ok {
			v.CompanyName = c.Name
		}
	}
	return v
}
