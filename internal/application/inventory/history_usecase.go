package inventory

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegaje-api/internal/application/dto"
	"github.com/jhoicas/Bodegaje-api/internal/domain/access"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

// maxReportRows tope de movimientos en el reporte PDF.
const maxReportRows = 2000

// HistoryUseCase consulta del historial de movimientos (sólo roles privilegiados).
type HistoryUseCase struct {
	movements repository.MovementRepository
	report    ReportGenerator
	now       func() time.Time
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(movements repository.MovementRepository, report ReportGenerator) *HistoryUseCase {
	return &HistoryUseCase{
		movements: movements,
		report:    report,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List devuelve el historial filtrado, del más reciente al más antiguo.
func (uc *HistoryUseCase) List(ctx context.Context, actor access.Actor, q dto.HistoryQuery) (*dto.MovementListResponse, error) {
	if err := access.Require(actor, access.CapInventoryHistory); err != nil {
		return nil, err
	}
	views, total, err := uc.movements.List(ctx, historyFilter(q))
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toMovementViewResponse(v))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// PDF genera el reporte imprimible (kardex) con los mismos filtros.
func (uc *HistoryUseCase) PDF(ctx context.Context, actor access.Actor, q dto.HistoryQuery) ([]byte, error) {
	if err := access.Require(actor, access.CapInventoryHistory); err != nil {
		return nil, err
	}
	q.Limit, q.Offset = maxReportRows, 0
	views, _, err := uc.movements.List(ctx, historyFilter(q))
	if err != nil {
		return nil, err
	}
	return uc.report.MovementReport(ctx, reportTitle(q), views, uc.now())
}

// historyFilter ignora en silencio ids, tipos y números inválidos.
func historyFilter(q dto.HistoryQuery) repository.MovementFilter {
	f := repository.MovementFilter{
		ProductID:  validID(q.ProductID),
		LocationID: validID(q.LocationID),
		CompanyID:  validID(q.CompanyID),
		Year:       positiveInt(q.Year),
		Month:      positiveInt(q.Month),
		Day:        positiveInt(q.Day),
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if k, ok := entity.ParseMovementKind(q.Kind); ok {
		f.Kind = k
	}
	return f
}

func validID(s string) string {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return id.String()
}

func positiveInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func reportTitle(q dto.HistoryQuery) string {
	title := "Historial de movimientos de inventario"
	var parts []string
	if y := positiveInt(q.Year); y > 0 {
		parts = append(parts, "año "+strconv.Itoa(y))
	}
	if m := positiveInt(q.Month); m > 0 {
		parts = append(parts, "mes "+strconv.Itoa(m))
	}
	if d := positiveInt(q.Day); d > 0 {
		parts = append(parts, "día "+strconv.Itoa(d))
	}
	if len(parts) > 0 {
		title += " (" + strings.Join(parts, ", ") + ")"
	}
	return title
}
