package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/application/inventory"
)

// ItemHandler maneja las peticiones HTTP para ítems de inventario (protegido).
type ItemHandler struct {
	uc    *inventory.ItemUseCase
	query *inventory.ItemQueryUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase, query *inventory.ItemQueryUseCase) *ItemHandler {
	return &ItemHandler{uc: uc, query: query}
}

// List godoc
// @Summary      Listar ítems
// @Description  Búsqueda libre, filtros por categoría y estado, orden y paginación.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search           query  string  false  "Texto en nombre, SKU, descripción o ubicación"
// @Param        category         query  string  false  "Nombre de categoría o all"
// @Param        status           query  string  false  "in-stock | low-stock | out-of-stock | deleted | all"
// @Param        sort_by          query  string  false  "name | sku | quantity | value | lastupdated"
// @Param        sort_descending  query  bool    false  "Orden descendente"
// @Param        page             query  int     false  "Página"     default(1)
// @Param        page_size        query  int     false  "Tamaño"     default(10)
// @Success      200  {object}  dto.ItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var params dto.ItemQueryParams
	if err := c.QueryParser(&params); err != nil {
		return badQuery(c, "parámetros de consulta inválidos")
	}
	params.Page, params.PageSize = pageParams(c)
	out, err := h.query.ListItems(c.Context(), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ítem
// @Description  Si quantity > 0 registra el movimiento inicial INIT-<SKU>.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar ítem
// @Description  Actualización parcial; el estado se recalcula siempre.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem
// @Description  Borrado físico si no tiene movimientos; si no, borrado lógico (status=deleted).
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	soft, err := h.uc.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if soft {
		c.Set("X-Delete-Mode", "soft")
	} else {
		c.Set("X-Delete-Mode", "hard")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckSku godoc
// @Summary      Verificar disponibilidad de SKU
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU (sin distinguir mayúsculas)"
// @Success      200  {object}  dto.SkuCheckResponse
// @Router       /api/items/check-sku/{sku} [get]
func (h *ItemHandler) CheckSku(c *fiber.Ctx) error {
	sku := c.Params("sku")
	exists, err := h.uc.CheckSkuExists(c.Context(), sku)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SkuCheckResponse{SKU: sku, Exists: exists})
}

// LowStock godoc
// @Summary      Ítems con stock bajo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/low-stock [get]
func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.GetLowStockItems(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TotalValue godoc
// @Summary      Valor total del inventario
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TotalValueResponse
// @Router       /api/items/total-value [get]
func (h *ItemHandler) TotalValue(c *fiber.Ctx) error {
	total, err := h.uc.GetTotalInventoryValue(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TotalValueResponse{TotalValue: total})
}

// pageParams lee page/page_size con defaults; page_size se acota a MaxPageSize.
// Valores explícitos <= 0 se pasan tal cual y el caso de uso los rechaza.
func pageParams(c *fiber.Ctx) (page, pageSize int) {
	page = c.QueryInt("page", dto.DefaultPage)
	pageSize = c.QueryInt("page_size", dto.DefaultPageSize)
	if pageSize > dto.MaxPageSize {
		pageSize = dto.MaxPageSize
	}
	return page, pageSize
}
