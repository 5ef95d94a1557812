package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegaje-api/internal/application/audit"
	"github.com/jhoicas/Bodegaje-api/internal/application/dto"
	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/access"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

// StockUseCase administración directa de registros de inventario (alta, edición, baja) y consultas
// filtradas por visibilidad.
type StockUseCase struct {
	deps     Deps
	rows     repository.StockRowRepository
	exporter SpreadsheetExporter
}

// NewStockUseCase construye el caso de uso. rows se usa para lecturas fuera de transacción.
func NewStockUseCase(deps Deps, rows repository.StockRowRepository, exporter SpreadsheetExporter) *StockUseCase {
	deps.Log = deps.Log.Component("inventory.stock")
	return &StockUseCase{deps: deps, rows: rows, exporter: exporter}
}

// Create da de alta un registro. DuplicateKeyError si ya existe uno para la misma clave.
func (uc *StockUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateStockRowRequest) (*dto.StockMutationResponse, error) {
	if err := access.Require(actor, access.CapInventoryManage); err != nil {
		return nil, err
	}
	if in.CompanyID != nil && strings.TrimSpace(*in.CompanyID) == "" {
		in.CompanyID = nil
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	refs, err := uc.deps.Refs.resolve(ctx, in.ProductID, in.LocationID, in.CompanyID)
	if err != nil {
		return nil, err
	}

	var out outcome
	err = uc.deps.Tx.Run(ctx, func(rows repository.StockRowRepository, movs repository.MovementRepository) error {
		now := uc.deps.now()
		row := &entity.StockRow{
			ID:         uuid.New().String(),
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			CompanyID:  in.CompanyID,
			Quantity:   in.Cantidad,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := rows.Create(ctx, row); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return refs.duplicate()
			}
			return err
		}
		out.row = row
		out.record, out.auditErr = uc.deps.Recorder.Record(ctx, movs, audit.Entry{
			Kind:       entity.MovementCreation,
			Actor:      actor,
			Before:     entity.Ptr(int64(0)),
			After:      entity.Ptr(row.Quantity),
			Delta:      row.Quantity,
			StockRowID: entity.Ptr(row.ID),
			ProductID:  entity.Ptr(row.ProductID),
			LocationID: entity.Ptr(row.LocationID),
			CompanyID:  row.CompanyID,
			Reason:     reasonCreation,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.deps.finish(ctx, out, refs), nil
}

// Update edita un registro bajo el mismo bloqueo que entradas y salidas. Si la clave cambia también
// se bloquea la clave destino. Sólo se registra movimiento si la cantidad cambió.
func (uc *StockUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateStockRowRequest) (*dto.StockMutationResponse, error) {
	if err := access.Require(actor, access.CapInventoryManage); err != nil {
		return nil, err
	}
	if in.CompanyID.Value != nil && strings.TrimSpace(*in.CompanyID.Value) == "" {
		in.CompanyID.Value = nil
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.CompanyID.Value != nil {
		if _, err := uuid.Parse(*in.CompanyID.Value); err != nil {
			verr := &domain.ValidationError{}
			verr.Add("company_id", "debe ser un identificador válido")
			return nil, verr
		}
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.NotFoundError{Resource: "inventario", ID: id}
	}

	var out outcome
	var refs *resolved
	err := uc.deps.Tx.Run(ctx, func(rows repository.StockRowRepository, movs repository.MovementRepository) error {
		row, err := rows.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return &domain.NotFoundError{Resource: "inventario", ID: id}
		}
		sourceKey := row.Key().String()
		if in.ProductID != nil {
			row.ProductID = *in.ProductID
		}
		if in.LocationID != nil {
			row.LocationID = *in.LocationID
		}
		if in.CompanyID.Set {
			row.CompanyID = nil
			if in.CompanyID.Value != nil {
				row.CompanyID = entity.Ptr(*in.CompanyID.Value)
			}
		}
		if refs, err = uc.deps.Refs.resolve(ctx, row.ProductID, row.LocationID, row.CompanyID); err != nil {
			return err
		}
		if row.Key().String() != sourceKey {
			target, err := rows.GetForUpdate(ctx, row.Key())
			if err != nil {
				return err
			}
			if target != nil && target.ID != row.ID {
				return refs.duplicate()
			}
		}

		now := uc.deps.now()
		before := row.Quantity
		var delta int64
		if in.Cantidad != nil {
			delta = *in.Cantidad - before
		}
		if err := row.ApplyDelta(delta, now); err != nil {
			return err
		}
		if err := rows.Save(ctx, row); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return refs.duplicate()
			}
			return err
		}
		out.row = row
		if delta == 0 {
			return nil
		}
		out.record, out.auditErr = uc.deps.Recorder.Record(ctx, movs, audit.Entry{
			Kind:       entity.MovementUpdate,
			Actor:      actor,
			Before:     entity.Ptr(before),
			After:      entity.Ptr(row.Quantity),
			Delta:      delta,
			StockRowID: entity.Ptr(row.ID),
			ProductID:  entity.Ptr(row.ProductID),
			LocationID: entity.Ptr(row.LocationID),
			CompanyID:  row.CompanyID,
			Reason:     reasonUpdate,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.deps.finish(ctx, out, refs), nil
}

// Delete elimina un registro. El movimiento conserva producto, ubicación, empresa y la cantidad eliminada.
func (uc *StockUseCase) Delete(ctx context.Context, actor access.Actor, id string) (*dto.StockMutationResponse, error) {
	if err := access.Require(actor, access.CapInventoryManage); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.NotFoundError{Resource: "inventario", ID: id}
	}

	var out outcome
	var refs *resolved
	err := uc.deps.Tx.Run(ctx, func(rows repository.StockRowRepository, movs repository.MovementRepository) error {
		l := ledger{rows: rows, now: uc.deps.now()}
		row, err := rows.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return &domain.NotFoundError{Resource: "inventario", ID: id}
		}
		if refs, err = uc.deps.Refs.resolve(ctx, row.ProductID, row.LocationID, row.CompanyID); err != nil {
			return err
		}
		if err := l.delete(ctx, row); err != nil {
			return err
		}
		out.row = row
		out.deleted = true
		out.record, out.auditErr = uc.deps.Recorder.Record(ctx, movs, audit.Entry{
			Kind:       entity.MovementDeletion,
			Actor:      actor,
			Before:     entity.Ptr(row.Quantity),
			Delta:      -row.Quantity,
			ProductID:  entity.Ptr(row.ProductID),
			LocationID: entity.Ptr(row.LocationID),
			CompanyID:  row.CompanyID,
			Reason:     fmt.Sprintf("Eliminación de registro ID %s vía API.", row.ID),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.deps.finish(ctx, out, refs), nil
}

// Get devuelve un registro visible para el actor; uno no visible se informa como inexistente.
func (uc *StockUseCase) Get(ctx context.Context, actor access.Actor, id string) (*dto.StockRowResponse, error) {
	if err := access.Require(actor, access.CapInventoryView); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.NotFoundError{Resource: "inventario", ID: id}
	}
	view, err := uc.rows.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil || !access.Visibility(actor, "").Allows(view.CompanyID) {
		return nil, &domain.NotFoundError{Resource: "inventario", ID: id}
	}
	out := toStockRowViewResponse(view)
	return &out, nil
}

// List lista el inventario visible para el actor con los filtros producto, ubicación y empresa.
func (uc *StockUseCase) List(ctx context.Context, actor access.Actor, q dto.StockQuery) (*dto.StockRowListResponse, error) {
	if err := access.Require(actor, access.CapInventoryView); err != nil {
		return nil, err
	}
	filter, scope, err := stockFilter(actor, q)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockRowListResponse{
		Items: []dto.StockRowResponse{},
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	if scope.Empty() {
		return resp, nil
	}
	views, total, err := uc.rows.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		resp.Items = append(resp.Items, toStockRowViewResponse(v))
	}
	resp.Page.Total = total
	return resp, nil
}

// Export genera la hoja de cálculo con los mismos filtros del listado y sin paginación.
func (uc *StockUseCase) Export(ctx context.Context, actor access.Actor, q dto.StockQuery) ([]byte, error) {
	if err := access.Require(actor, access.CapInventoryExport); err != nil {
		return nil, err
	}
	q.Limit, q.Offset = 0, 0
	filter, scope, err := stockFilter(actor, q)
	if err != nil {
		return nil, err
	}
	var views []*entity.StockRowView
	if !scope.Empty() {
		if views, _, err = uc.rows.List(ctx, filter); err != nil {
			return nil, err
		}
	}
	return uc.exporter.StockRows(views, uc.deps.now())
}

// stockFilter traduce la consulta a filtro de repositorio. Un id de producto o ubicación mal formado
// es error de validación; el de empresa lo resuelve el filtro de visibilidad.
func stockFilter(actor access.Actor, q dto.StockQuery) (repository.StockRowFilter, access.Scope, error) {
	verr := &domain.ValidationError{}
	filter := repository.StockRowFilter{Limit: q.Limit, Offset: q.Offset}
	if p := strings.TrimSpace(q.Product); p != "" {
		if _, err := uuid.Parse(p); err != nil {
			verr.Add("product", "debe ser un identificador válido")
		}
		filter.ProductID = p
	}
	if l := strings.TrimSpace(q.Location); l != "" {
		if _, err := uuid.Parse(l); err != nil {
			verr.Add("location", "debe ser un identificador válido")
		}
		filter.LocationID = l
	}
	if err := verr.OrNil(); err != nil {
		return filter, access.Scope{}, err
	}
	scope := access.Visibility(actor, q.Empresa)
	filter.CompanyID = scope.CompanyID
	return filter, scope, nil
}
