package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Bodegaje-api/internal/application/audit"
	"github.com/jhoicas/Bodegaje-api/internal/application/dto"
	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/access"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

// Motivos por defecto del historial.
const (
	reasonEntrada  = "Entrada de stock vía API."
	reasonSalida   = "Salida de stock vía API."
	reasonCreation = "Registro inicial vía API."
	reasonUpdate   = "Actualización de cantidad vía API."
)

// Deps dependencias comunes de los flujos que mutan el inventario.
type Deps struct {
	Tx        TxRunner
	Refs      References
	Recorder  *audit.Recorder
	Publisher *audit.Publisher
	Log       *logger.Logger
	Now       func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

// AdjustmentUseCase entradas y salidas manuales de stock. Cada operación bloquea el registro
// de la clave (producto, ubicación, empresa) durante toda la transacción.
type AdjustmentUseCase struct {
	deps Deps
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(deps Deps) *AdjustmentUseCase {
	deps.Log = deps.Log.Component("inventory.adjustment")
	return &AdjustmentUseCase{deps: deps}
}

// Entrada suma cantidad al registro de la clave, creándolo en cero si no existe.
// No es idempotente: dos llamadas iguales suman dos veces.
func (uc *AdjustmentUseCase) Entrada(ctx context.Context, actor access.Actor, in dto.AdjustmentRequest) (*dto.StockMutationResponse, error) {
	refs, key, err := uc.prepare(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	reason := reasonOr(in.Motivo, reasonEntrada)

	var out outcome
	err = uc.deps.Tx.Run(ctx, func(rows repository.StockRowRepository, movs repository.MovementRepository) error {
		l := ledger{rows: rows, now: uc.deps.now()}
		row, _, err := l.getOrCreate(ctx, key)
		if err != nil {
			return err
		}
		before := row.Quantity
		if err := l.applyDelta(ctx, row, in.Cantidad); err != nil {
			return err
		}
		out.row = row
		out.record, out.auditErr = uc.deps.Recorder.Record(ctx, movs, audit.Entry{
			Kind:       entity.MovementPositiveAdjustment,
			Actor:      actor,
			Before:     entity.Ptr(before),
			After:      entity.Ptr(row.Quantity),
			Delta:      in.Cantidad,
			StockRowID: entity.Ptr(row.ID),
			ProductID:  entity.Ptr(key.ProductID),
			LocationID: entity.Ptr(key.LocationID),
			CompanyID:  key.CompanyID,
			Reason:     reason,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.deps.Log.Info().
		Str("stock_row_id", out.row.ID).
		Int64("cantidad", in.Cantidad).
		Int64("total", out.row.Quantity).
		Str("user_id", actor.UserID).
		Msg("entrada registrada")
	return uc.deps.finish(ctx, out, refs), nil
}

// Salida descuenta cantidad del registro existente. Si la cantidad llega exactamente a cero el
// registro se elimina; una entrada posterior crea uno nuevo desde cero.
func (uc *AdjustmentUseCase) Salida(ctx context.Context, actor access.Actor, in dto.AdjustmentRequest) (*dto.StockMutationResponse, error) {
	refs, key, err := uc.prepare(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	reason := reasonOr(in.Motivo, reasonSalida)

	var out outcome
	err = uc.deps.Tx.Run(ctx, func(rows repository.StockRowRepository, movs repository.MovementRepository) error {
		l := ledger{rows: rows, now: uc.deps.now()}
		row, err := l.getForUpdate(ctx, key, refs.label())
		if err != nil {
			return err
		}
		if in.Cantidad > row.Quantity {
			return &domain.InsufficientStockError{Available: row.Quantity, Requested: in.Cantidad}
		}
		before := row.Quantity
		entry := audit.Entry{
			Kind:       entity.MovementNegativeAdjustment,
			Actor:      actor,
			Before:     entity.Ptr(before),
			Delta:      -in.Cantidad,
			ProductID:  entity.Ptr(key.ProductID),
			LocationID: entity.Ptr(key.LocationID),
			CompanyID:  key.CompanyID,
			Reason:     reason,
		}
		if before == in.Cantidad {
			if err := l.delete(ctx, row); err != nil {
				return err
			}
			row.Quantity = 0
			row.UpdatedAt = l.now
			out.deleted = true
		} else {
			if err := l.applyDelta(ctx, row, -in.Cantidad); err != nil {
				return err
			}
			entry.After = entity.Ptr(row.Quantity)
			entry.StockRowID = entity.Ptr(row.ID)
		}
		out.row = row
		out.record, out.auditErr = uc.deps.Recorder.Record(ctx, movs, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.deps.Log.Info().
		Str("stock_row_id", out.row.ID).
		Int64("cantidad", in.Cantidad).
		Int64("total", out.row.Quantity).
		Bool("eliminado", out.deleted).
		Str("user_id", actor.UserID).
		Msg("salida registrada")
	return uc.deps.finish(ctx, out, refs), nil
}

// prepare autoriza, valida y resuelve referencias antes de abrir la transacción:
// una entrada inválida nunca toca el inventario ni el historial.
func (uc *AdjustmentUseCase) prepare(ctx context.Context, actor access.Actor, in dto.AdjustmentRequest) (*resolved, entity.StockKey, error) {
	if err := access.Require(actor, access.CapInventoryAdjust); err != nil {
		return nil, entity.StockKey{}, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, entity.StockKey{}, err
	}
	refs, err := uc.deps.Refs.resolve(ctx, in.ProductID, in.LocationID, &in.CompanyID)
	if err != nil {
		return nil, entity.StockKey{}, err
	}
	key := entity.StockKey{ProductID: in.ProductID, LocationID: in.LocationID, CompanyID: entity.Ptr(in.CompanyID)}
	return refs, key, nil
}

// outcome resultado de una mutación dentro de la transacción.
type outcome struct {
	row      *entity.StockRow
	deleted  bool
	record   *entity.MovementRecord
	auditErr error
}

// finish publica el movimiento ya confirmado y arma la respuesta.
func (d Deps) finish(ctx context.Context, out outcome, refs *resolved) *dto.StockMutationResponse {
	d.Publisher.Publish(ctx, out.record)
	resp := &dto.StockMutationResponse{Deleted: out.deleted}
	if out.row != nil {
		resp.Row = toStockRowResponse(out.row, refs)
	}
	if out.record != nil {
		resp.Movement = toMovementResponse(out.record, refs)
	}
	if out.auditErr != nil {
		resp.AuditWarning = out.auditErr.Error()
	}
	return resp
}

func reasonOr(reason, def string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return r
	}
	return def
}
