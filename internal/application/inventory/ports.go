package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error todo lo hecho se revierte y los bloqueos se liberan.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRowRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// References búsquedas de catálogo y empresas para validar las referencias de un movimiento.
type References struct {
	Products  repository.ProductRepository
	Locations repository.LocationRepository
	Companies repository.CompanyRepository
}

// SpreadsheetExporter genera la hoja de cálculo del inventario.
type SpreadsheetExporter interface {
	StockRows(rows []*entity.StockRowView, generatedAt time.Time) ([]byte, error)
}

// ReportGenerator genera el reporte PDF del historial.
type ReportGenerator interface {
	MovementReport(ctx context.Context, title string, rows []*entity.MovementView, generatedAt time.Time) ([]byte, error)
}
