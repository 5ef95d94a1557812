package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo historial en memoria: slice append-only, el índice hace de secuencia.
// Dentro de una transacción journal anota los ids agregados para poder deshacerlos.
type MovementRepo struct {
	s       *Store
	journal *[]string
}

// NewMovementRepository construye el repositorio sobre el store.
func NewMovementRepository(s *Store) *MovementRepo { return &MovementRepo{s: s} }

func (r *MovementRepo) Append(_ context.Context, m *entity.MovementRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, cloneRecord(*m))
	if r.journal != nil {
		*r.journal = append(*r.journal, m.ID)
	}
	return nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.MovementView, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	type seqView struct {
		seq  int
		view *entity.MovementView
	}
	var matched []seqView
	for i, m := range r.s.movements {
		if !matches(m, f) {
			continue
		}
		matched = append(matched, seqView{seq: i, view: r.view(m)})
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.view.CreatedAt.Equal(b.view.CreatedAt) {
			return a.view.CreatedAt.After(b.view.CreatedAt)
		}
		return a.seq > b.seq
	})
	list := make([]*entity.MovementView, 0, len(matched))
	for _, m := range matched {
		list = append(list, m.view)
	}
	return page(list, f.Limit, f.Offset), len(list), nil
}

func matches(m entity.MovementRecord, f repository.MovementFilter) bool {
	eq := func(p *string, want string) bool { return want == "" || (p != nil && *p == want) }
	if !eq(m.ProductID, f.ProductID) || !eq(m.LocationID, f.LocationID) || !eq(m.CompanyID, f.CompanyID) {
		return false
	}
	if f.Kind != "" && m.Kind != f.Kind {
		return false
	}
	if f.Year > 0 && m.CreatedAt.Year() != f.Year {
		return false
	}
	if f.Month > 0 && int(m.CreatedAt.Month()) != f.Month {
		return false
	}
	if f.Day > 0 && m.CreatedAt.Day() != f.Day {
		return false
	}
	return true
}

// view se llama con mu tomado.
func (r *MovementRepo) view(m entity.MovementRecord) *entity.MovementView {
	v := &entity.MovementView{MovementRecord: cloneRecord(m)}
	if m.UserID != nil {
		if u, ok := r.s.users[*m.UserID]; ok {
			v.UserName = u.Name
			if v.UserName == "" {
				v.UserName = u.Email
			}
		}
	}
	if m.ProductID != nil {
		if p, ok := r.s.products[*m.ProductID]; ok {
			v.ProductName, v.ProductSKU = p.Name, p.SKU
		}
	}
	if m.LocationID != nil {
		if l, ok := r.s.locations[*m.LocationID]; ok {
			v.LocationName = l.Name
		}
	}
	if m.CompanyID != nil {
		if c, ok := r.s.companies[*m.CompanyID]; ok {
			v.CompanyName = c.Name
		}
	}
	return v
}

func cloneRecord(m entity.MovementRecord) entity.MovementRecord {
	m.StockRowID = cloneString(m.StockRowID)
	m.ProductID = cloneString(m.ProductID)
	m.LocationID = cloneString(m.LocationID)
	m.CompanyID = cloneString(m.CompanyID)
	m.UserID = cloneString(m.UserID)
	m.QuantityBefore = cloneInt(m.QuantityBefore)
	m.QuantityAfter = cloneInt(m.QuantityAfter)
	return m
}
