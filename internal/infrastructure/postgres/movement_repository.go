package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo historial de movimientos sobre PostgreSQL. Sólo inserta y consulta.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Acepta pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el movimiento dentro de un savepoint: si el insert falla se revierte sólo el
// savepoint y la transacción externa sigue usable.
func (r *MovementRepo) Append(ctx context.Context, m *entity.MovementRecord) error {
	sp, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint movement: %w", err)
	}
	defer func() { _ = sp.Rollback(ctx) }()

	_, err = sp.Exec(ctx, `
		INSERT INTO movements (id, stock_row_id, product_id, location_id, company_id, kind,
			quantity_before, quantity_after, quantity_delta, user_id, created_at, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.StockRowID, m.ProductID, m.LocationID, m.CompanyID, string(m.Kind),
		m.QuantityBefore, m.QuantityAfter, m.QuantityDelta, m.UserID, m.CreatedAt, m.Reason,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint movement: %w", err)
	}
	return nil
}

// List devuelve el historial filtrado del más reciente al más antiguo. seq desempata
// movimientos con la misma marca de tiempo.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.MovementView, int, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("m.product_id = $%d", f.ProductID)
	}
	if f.LocationID != "" {
		add("m.location_id = $%d", f.LocationID)
	}
	if f.CompanyID != "" {
		add("m.company_id = $%d", f.CompanyID)
	}
	if f.Kind != "" {
		add("m.kind = $%d", string(f.Kind))
	}
	if f.Year > 0 {
		add("EXTRACT(YEAR FROM m.created_at) = $%d", f.Year)
	}
	if f.Month > 0 {
		add("EXTRACT(MONTH FROM m.created_at) = $%d", f.Month)
	}
	if f.Day > 0 {
		add("EXTRACT(DAY FROM m.created_at) = $%d", f.Day)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM movements m`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	lim, off := pageArgs(f.Limit, f.Offset)
	args = append(args, lim, off)
	query := `
		SELECT m.id, m.stock_row_id, m.product_id, m.location_id, m.company_id, m.kind,
		       m.quantity_before, m.quantity_after, m.quantity_delta, m.user_id, m.created_at, m.reason,
		       COALESCE(NULLIF(u.name, ''), u.email, ''), COALESCE(p.name, ''), COALESCE(p.sku, ''),
		       COALESCE(l.name, ''), COALESCE(c.name, '')
		FROM movements m
		LEFT JOIN users u ON u.id = m.user_id
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN locations l ON l.id = m.location_id
		LEFT JOIN companies c ON c.id = m.company_id` + clause +
		fmt.Sprintf(" ORDER BY m.created_at DESC, m.seq DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementView
	for rows.Next() {
		var v entity.MovementView
		var kind string
		if err := rows.Scan(&v.ID, &v.StockRowID, &v.ProductID, &v.LocationID, &v.CompanyID, &kind,
			&v.QuantityBefore, &v.QuantityAfter, &v.QuantityDelta, &v.UserID, &v.CreatedAt, &v.Reason,
			&v.UserName, &v.ProductName, &v.ProductSKU, &v.LocationName, &v.CompanyName); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		v.Kind = entity.MovementKind(kind)
		list = append(list, &v)
	}
	return list, total, rows.Err()
}
