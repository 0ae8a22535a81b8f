package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-ipv/internal/application/report"
)

// ReportHandler descarga del IPV del día en PDF.
type ReportHandler struct {
	uc *report.PDFUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.PDFUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// DayReportPDF godoc
// @Summary      IPV del día en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/report.pdf [get]
func (h *ReportHandler) DayReportPDF(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	pdf, filename, err := h.uc.DownloadDayReport(c.UserContext(), section)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}
