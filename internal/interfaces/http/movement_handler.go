package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/application/inventory"
)

// MovementHandler maneja el ledger de movimientos (protegido).
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar movimiento en el ledger
// @Description  Solo agrega al ledger; no modifica la cantidad del ítem. Ver /api/movements/adjust.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "item_id, type, quantity, reference, notes"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordMovement(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  Registra el movimiento y aplica el cambio de cantidad en una transacción.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "item_id, type, quantity (delta con signo para adjustment)"
// @Success      201   {object}  dto.StockAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/adjust [post]
func (h *MovementHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AdjustStock(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        item_id          query  string  false  "Filtrar por ítem"
// @Param        type             query  string  false  "inbound | outbound | adjustment | all"
// @Param        search           query  string  false  "Texto en referencia, notas o nombre del ítem"
// @Param        start_date       query  string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Param        end_date         query  string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Param        sort_by          query  string  false  "movementdate | quantity | reference | type"
// @Param        sort_descending  query  bool    false  "Por defecto true"
// @Param        page             query  int     false  "Página"  default(1)
// @Param        page_size        query  int     false  "Tamaño"  default(10)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var params dto.MovementQueryParams
	if err := c.QueryParser(&params); err != nil {
		return badQuery(c, "parámetros de consulta inválidos")
	}
	params.Page, params.PageSize = pageParams(c)

	var err error
	if params.StartDate, err = parseDateParam(c.Query("start_date"), false); err != nil {
		return badQuery(c, "start_date inválida")
	}
	if params.EndDate, err = parseDateParam(c.Query("end_date"), true); err != nil {
		return badQuery(c, "end_date inválida")
	}
	if raw := c.Query("sort_descending"); raw != "" {
		desc, err := strconv.ParseBool(raw)
		if err != nil {
			return badQuery(c, "sort_descending inválido")
		}
		params.SortDescending = &desc
	}

	out, err := h.uc.ListMovements(c.Context(), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen mensual de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio (inclusive). Por defecto hace 6 meses"
// @Param        end_date    query  string  false  "Fin (inclusive). Por defecto hoy"
// @Success      200  {array}   dto.MovementSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/summary [get]
func (h *MovementHandler) Summary(c *fiber.Ctx) error {
	from, err := parseDateParam(c.Query("start_date"), false)
	if err != nil {
		return badQuery(c, "start_date inválida")
	}
	to, err := parseDateParam(c.Query("end_date"), true)
	if err != nil {
		return badQuery(c, "end_date inválida")
	}
	end := time.Now().UTC()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, -6, 0)
	if from != nil {
		start = *from
	}
	// MonthlySummary trabaja sobre [from, to); el fin del filtro HTTP es inclusivo.
	out, err := h.uc.MonthlySummary(c.Context(), start, end.Add(time.Nanosecond))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parseDateParam acepta RFC3339 o YYYY-MM-DD. Con endOfDay, una fecha sin hora se
// interpreta como el último instante de ese día.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
