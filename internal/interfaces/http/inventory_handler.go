package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodegaje-api/internal/application/dto"
	"github.com/jhoicas/Bodegaje-api/internal/application/inventory"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler maneja los registros de inventario, entradas y salidas.
type InventoryHandler struct {
	stock       *inventory.StockUseCase
	adjustments *inventory.AdjustmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, adjustments *inventory.AdjustmentUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, adjustments: adjustments}
}

func stockQuery(c *fiber.Ctx) dto.StockQuery {
	empresa := c.Query("empresa")
	if empresa == "" {
		empresa = c.Query("empresa_id")
	}
	limit, offset := parsePage(c)
	return dto.StockQuery{
		Product:  c.Query("product"),
		Location: c.Query("location"),
		Empresa:  empresa,
		Limit:    limit,
		Offset:   offset,
	}
}

// List godoc
// @Summary      Listar inventario visible
// @Description  Los roles privilegiados ven todo (o una empresa con ?empresa=); el cliente sólo su empresa.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product   query  string  false  "ID del producto"
// @Param        location  query  string  false  "ID de la ubicación"
// @Param        empresa   query  string  false  "ID de la empresa"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockRowListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	out, err := h.stock.List(c.UserContext(), ActorFromCtx(c), stockQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar inventario a Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        product   query  string  false  "ID del producto"
// @Param        location  query  string  false  "ID de la ubicación"
// @Param        empresa   query  string  false  "ID de la empresa"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/export [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	data, err := h.stock.Export(c.UserContext(), ActorFromCtx(c), stockQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	name := "inventario_" + time.Now().Format("20060102_150405") + ".xlsx"
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// GetByID godoc
// @Summary      Obtener registro de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.StockRowResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.stock.Get(c.UserContext(), ActorFromCtx(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear registro de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRowRequest  true  "producto, ubicación, empresa (opcional) y cantidad"
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRowRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.Create(c.UserContext(), ActorFromCtx(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar registro de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del registro"
// @Param        body  body  dto.UpdateStockRowRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockRowRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.Update(c.UserContext(), ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar registro de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.StockMutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	out, err := h.stock.Delete(c.UserContext(), ActorFromCtx(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Entrada godoc
// @Summary      Registrar entrada de stock
// @Description  Suma la cantidad al registro de la combinación; lo crea si no existe.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "product_id, location_id, company_id, cantidad, motivo"
// @Success      200   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/entrada [post]
func (h *InventoryHandler) Entrada(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.adjustments.Entrada(c.UserContext(), ActorFromCtx(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Salida godoc
// @Summary      Registrar salida de stock
// @Description  Resta la cantidad; si el registro llega a cero se elimina.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "product_id, location_id, company_id, cantidad, motivo"
// @Success      200   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/salida [post]
func (h *InventoryHandler) Salida(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.adjustments.Salida(c.UserContext(), ActorFromCtx(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
