// Package audit escribe el historial de movimientos y lo difunde a otros subsistemas.
//
// El registro es de mejor esfuerzo respecto a la mutación que lo origina: un fallo al escribir
// no revierte el cambio de inventario, pero queda en el log, en la métrica de fallos y se
// devuelve como *domain.AuditWriteError para que el llamador lo informe.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/access"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

// FailureCounter contabiliza escrituras fallidas del historial.
type FailureCounter interface {
	AuditWriteFailed(kind entity.MovementKind)
}

// Entry datos de un movimiento a registrar.
type Entry struct {
	Kind       entity.MovementKind
	Actor      access.Actor
	Before     *int64
	After      *int64
	Delta      int64
	StockRowID *string
	ProductID  *string
	LocationID *string
	CompanyID  *string
	Reason     string
}

// Recorder escribe entradas del historial.
type Recorder struct {
	log      *logger.Logger
	failures FailureCounter
	now      func() time.Time
}

// NewRecorder construye el recorder. failures puede ser nil.
func NewRecorder(log *logger.Logger, failures FailureCounter) *Recorder {
	return &Recorder{
		log:      log.Component("audit"),
		failures: failures,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Record agrega el movimiento usando repo (normalmente atado a la transacción de la mutación).
func (r *Recorder) Record(ctx context.Context, repo repository.MovementRepository, e Entry) (*entity.MovementRecord, error) {
	rec := &entity.MovementRecord{
		ID:             uuid.New().String(),
		StockRowID:     e.StockRowID,
		ProductID:      e.ProductID,
		LocationID:     e.LocationID,
		CompanyID:      e.CompanyID,
		Kind:           e.Kind,
		QuantityBefore: e.Before,
		QuantityAfter:  e.After,
		QuantityDelta:  e.Delta,
		UserID:         e.Actor.UserRef(),
		CreatedAt:      r.now(),
		Reason:         e.Reason,
	}
	if err := repo.Append(ctx, rec); err != nil {
		ev := r.log.Error().Err(err).
			Str("kind", string(e.Kind)).
			Int64("delta", e.Delta).
			Str("user_id", e.Actor.UserID)
		if e.ProductID != nil {
			ev = ev.Str("product_id", *e.ProductID)
		}
		if e.LocationID != nil {
			ev = ev.Str("location_id", *e.LocationID)
		}
		if e.CompanyID != nil {
			ev = ev.Str("company_id", *e.CompanyID)
		}
		ev.Msg("no se pudo registrar el movimiento en el historial")
		if r.failures != nil {
			r.failures.AuditWriteFailed(e.Kind)
		}
		return nil, &domain.AuditWriteError{Kind: string(e.Kind), Err: err}
	}
	return rec, nil
}
