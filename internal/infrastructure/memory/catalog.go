package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.CompanyRepository  = (*CompanyRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

// NewProductRepository construye el repositorio sobre el store.
func NewProductRepository(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.products {
		if other.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name, cur.Description, cur.UpdatedAt = p.Name, p.Description, p.UpdatedAt
	r.s.products[p.ID] = cur
	return nil
}

func (r *ProductRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	needle := strings.ToLower(search)
	var list []*entity.Product
	for _, p := range r.s.products {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.SKU), needle) {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].SKU < list[j].SKU
	})
	return page(list, limit, offset), len(list), nil
}

// Delete elimina el producto con su inventario y anula sus referencias en el historial.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	r.s.deleteStockWhere(func(row entity.StockRow) bool { return row.ProductID == id })
	r.s.nullMovementRefs(func(m *entity.MovementRecord) {
		if m.ProductID != nil && *m.ProductID == id {
			m.ProductID = nil
		}
	})
	return nil
}

// LocationRepo ubicaciones en memoria.
type LocationRepo struct{ s *Store }

// NewLocationRepository construye el repositorio sobre el store.
func NewLocationRepository(s *Store) *LocationRepo { return &LocationRepo{s: s} }

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.locations[l.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.locations[l.ID] = *l
	return nil
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *LocationRepo) Update(_ context.Context, l *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.locations[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name, cur.Description, cur.UpdatedAt = l.Name, l.Description, l.UpdatedAt
	r.s.locations[l.ID] = cur
	return nil
}

func (r *LocationRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Location, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	needle := strings.ToLower(search)
	var list []*entity.Location
	for _, l := range r.s.locations {
		if needle == "" || strings.Contains(strings.ToLower(l.Name), needle) {
			l := l
			list = append(list, &l)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), len(list), nil
}

func (r *LocationRepo) Delete(_ context.Context, id string) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.locations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.locations, id)
	r.s.deleteStockWhere(func(row entity.StockRow) bool { return row.LocationID == id })
	r.s.nullMovementRefs(func(m *entity.MovementRecord) {
		if m.LocationID != nil && *m.LocationID == id {
			m.LocationID = nil
		}
	})
	return nil
}

// CompanyRepo empresas en memoria.
type CompanyRepo struct{ s *Store }

// NewCompanyRepository construye el repositorio sobre el store.
func NewCompanyRepository(s *Store) *CompanyRepo { return &CompanyRepo{s: s} }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.companies {
		if other.ID == c.ID || other.Name == c.Name || (c.NIT != "" && other.NIT == c.NIT) {
			return domain.ErrDuplicate
		}
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) GetByNIT(_ context.Context, nit string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.companies {
		if c.NIT == nit {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), len(list), nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

// NewUserRepository construye el repositorio sobre el store.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if other.ID == u.ID || strings.EqualFold(other.Email, u.Email) || other.DocumentID == u.DocumentID {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	cp.CompanyID = cloneString(u.CompanyID)
	r.s.users[u.ID] = cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	u.CompanyID = cloneString(u.CompanyID)
	return &u, nil
}

func (r *UserRepo) FindByLogin(_ context.Context, login string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if login == "" {
		return nil, nil
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, login) || u.DocumentID == login {
			u.CompanyID = cloneString(u.CompanyID)
			return &u, nil
		}
	}
	return nil, nil
}

// page aplica limit/offset; limit 0 devuelve todo desde offset.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
