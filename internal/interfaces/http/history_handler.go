package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodegaje-api/internal/application/dto"
	"github.com/jhoicas/Bodegaje-api/internal/application/inventory"
)

// HistoryHandler consulta del historial de movimientos.
type HistoryHandler struct {
	uc *inventory.HistoryUseCase
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *inventory.HistoryUseCase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

func historyQuery(c *fiber.Ctx) dto.HistoryQuery {
	limit, offset := parsePage(c)
	return dto.HistoryQuery{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		CompanyID:  c.Query("empresa_id"),
		Kind:       c.Query("kind"),
		Year:       c.Query("year"),
		Month:      c.Query("month"),
		Day:        c.Query("day"),
		Limit:      limit,
		Offset:     offset,
	}
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Del más reciente al más antiguo. Filtros inválidos se ignoran.
// @Tags         history
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "ID del producto"
// @Param        location_id  query  string  false  "ID de la ubicación"
// @Param        empresa_id   query  string  false  "ID de la empresa"
// @Param        kind         query  string  false  "Tipo de movimiento"
// @Param        year         query  int     false  "Año"
// @Param        month        query  int     false  "Mes"
// @Param        day          query  int     false  "Día"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/history [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), ActorFromCtx(c), historyQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Reporte PDF del historial (kardex)
// @Tags         history
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/history/pdf [get]
func (h *HistoryHandler) PDF(c *fiber.Ctx) error {
	data, err := h.uc.PDF(c.UserContext(), ActorFromCtx(c), historyQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	name := "historial_" + time.Now().Format("20060102_150405") + ".pdf"
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}
