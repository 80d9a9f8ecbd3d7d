package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-core/internal/application/report"
)

// ReportHandler descarga de reportes en PDF o Excel.
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Download godoc
// @Summary      Descargar reporte
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        kind        path   string  true   "inventory | low-stock | movements"
// @Param        format      query  string  false  "pdf | xlsx"  default(pdf)
// @Param        start_date  query  string  false  "Solo movements. RFC3339 o YYYY-MM-DD"
// @Param        end_date    query  string  false  "Solo movements. RFC3339 o YYYY-MM-DD"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/{kind} [get]
func (h *ReportHandler) Download(c *fiber.Ctx) error {
	from, err := parseDateParam(c.Query("start_date"), false)
	if err != nil {
		return badQuery(c, "start_date inválida")
	}
	to, err := parseDateParam(c.Query("end_date"), true)
	if err != nil {
		return badQuery(c, "end_date inválida")
	}
	file, err := h.uc.Generate(c.Context(), report.Request{
		Kind:   c.Params("kind"),
		Format: report.Format(strings.ToLower(c.Query("format"))),
		From:   from,
		To:     to,
	})
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(file.Name)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Data)
}
