package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

var _ repository.StockRowRepository = (*StockRowRepo)(nil)

const stockRowColumns = `id, product_id, location_id, company_id, quantity, created_at, updated_at`

// StockRowRepo ledger de inventario sobre PostgreSQL. Los bloqueos usan SELECT ... FOR UPDATE,
// así que sólo tienen efecto con un Querier que sea una transacción.
type StockRowRepo struct {
	q Querier
}

// NewStockRowRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockRowRepository(q Querier) *StockRowRepo {
	return &StockRowRepo{q: q}
}

func (r *StockRowRepo) GetByID(ctx context.Context, id string) (*entity.StockRow, error) {
	row, err := scanStockRow(r.q.QueryRow(ctx, `SELECT `+stockRowColumns+` FROM stock_rows WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get stock row: %w", err)
	}
	return row, nil
}

func (r *StockRowRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRow, error) {
	row, err := scanStockRow(r.q.QueryRow(ctx,
		`SELECT `+stockRowColumns+` FROM stock_rows WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("lock stock row: %w", err)
	}
	return row, nil
}

// GetForUpdate bloquea el registro de la clave. La empresa se compara con IS NOT DISTINCT FROM
// para que la clave global (NULL) también bloquee.
func (r *StockRowRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRow, error) {
	row, err := scanStockRow(r.q.QueryRow(ctx, `
		SELECT `+stockRowColumns+` FROM stock_rows
		WHERE product_id = $1 AND location_id = $2 AND company_id IS NOT DISTINCT FROM $3
		FOR UPDATE`,
		key.ProductID, key.LocationID, key.CompanyID,
	))
	if err != nil {
		return nil, fmt.Errorf("lock stock row by key: %w", err)
	}
	return row, nil
}

// getOrCreateAttempts intentos de insertar y bloquear antes de rendirse.
const getOrCreateAttempts = 3

// GetOrCreateForUpdate inserta la clave en cero si falta (ON CONFLICT DO NOTHING) y luego la bloquea.
// Dos transacciones concurrentes sobre la misma clave nueva terminan serializadas por el índice único.
// Si otra transacción borra el registro (salida a cero) mientras se espera el bloqueo, el SELECT
// no devuelve filas y se vuelve a intentar el INSERT.
func (r *StockRowRepo) GetOrCreateForUpdate(ctx context.Context, key entity.StockKey, now time.Time) (*entity.StockRow, bool, error) {
	for attempt := 0; attempt < getOrCreateAttempts; attempt++ {
		row, created, err := r.insertAndLock(ctx, key, now)
		if err != nil {
			return nil, false, err
		}
		if row != nil {
			return row, created, nil
		}
	}
	return nil, false, fmt.Errorf("stock row %s: borrado concurrente tras %d intentos", key, getOrCreateAttempts)
}

// insertAndLock devuelve row nil si el registro desapareció entre el INSERT y el bloqueo.
func (r *StockRowRepo) insertAndLock(ctx context.Context, key entity.StockKey, now time.Time) (*entity.StockRow, bool, error) {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO stock_rows (`+stockRowColumns+`)
		VALUES ($1, $2, $3, $4, 0, $5, $5)
		ON CONFLICT ON CONSTRAINT stock_rows_key DO NOTHING`,
		uuid.New().String(), key.ProductID, key.LocationID, key.CompanyID, now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, false, fmt.Errorf("create stock row %s: %w", key, domain.ErrNotFound)
		}
		return nil, false, fmt.Errorf("create stock row: %w", err)
	}
	row, err := r.GetForUpdate(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return row, cmd.RowsAffected() == 1, nil
}

// Create inserta un registro nuevo; domain.ErrDuplicate si la clave ya existe.
func (r *StockRowRepo) Create(ctx context.Context, s *entity.StockRow) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO stock_rows (`+stockRowColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.ProductID, s.LocationID, s.CompanyID, s.Quantity, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock row: %w", err)
	}
	return nil
}

// Save persiste clave y cantidad. Mover el registro sobre una clave ocupada devuelve domain.ErrDuplicate.
func (r *StockRowRepo) Save(ctx context.Context, s *entity.StockRow) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_rows SET product_id = $2, location_id = $3, company_id = $4, quantity = $5, updated_at = $6
		WHERE id = $1`,
		s.ID, s.ProductID, s.LocationID, s.CompanyID, s.Quantity, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update stock row: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRowRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_rows WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stock row: %w", err)
	}
	return nil
}

const stockViewSelect = `
	SELECT s.id, s.product_id, s.location_id, s.company_id, s.quantity, s.created_at, s.updated_at,
	       p.name, p.sku, l.name, COALESCE(c.name, '')
	FROM stock_rows s
	JOIN products p ON p.id = s.product_id
	JOIN locations l ON l.id = s.location_id
	LEFT JOIN companies c ON c.id = s.company_id`

func (r *StockRowRepo) GetView(ctx context.Context, id string) (*entity.StockRowView, error) {
	v, err := scanStockRowView(r.q.QueryRow(ctx, stockViewSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock row view: %w", err)
	}
	return v, nil
}

// List devuelve el inventario filtrado, ordenado por producto, ubicación y empresa.
func (r *StockRowRepo) List(ctx context.Context, f repository.StockRowFilter) ([]*entity.StockRowView, int, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("s.product_id = $%d", f.ProductID)
	}
	if f.LocationID != "" {
		add("s.location_id = $%d", f.LocationID)
	}
	if f.CompanyID != nil {
		add("s.company_id = $%d", *f.CompanyID)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_rows s`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock rows: %w", err)
	}

	lim, off := pageArgs(f.Limit, f.Offset)
	args = append(args, lim, off)
	query := stockViewSelect + clause +
		fmt.Sprintf(" ORDER BY p.name, l.name, c.name NULLS FIRST LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock rows: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRowView
	for rows.Next() {
		v, err := scanStockRowView(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock row: %w", err)
		}
		list = append(list, v)
	}
	return list, total, rows.Err()
}

func scanStockRow(row pgx.Row) (*entity.StockRow, error) {
	var s entity.StockRow
	if err := row.Scan(&s.ID, &s.ProductID, &s.LocationID, &s.CompanyID, &s.Quantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func scanStockRowView(row pgx.Row) (*entity.StockRowView, error) {
	var v entity.StockRowView
	err := row.Scan(&v.ID, &v.ProductID, &v.LocationID, &v.CompanyID, &v.Quantity, &v.CreatedAt, &v.UpdatedAt,
		&v.ProductName, &v.ProductSKU, &v.LocationName, &v.CompanyName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
