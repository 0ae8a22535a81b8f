package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// SummarySource entrega los totales del día de un área (ipv.Service).
type SummarySource interface {
	Summary(ctx context.Context, section entity.Section) (entity.DaySummary, error)
}

// DayReportPDFGenerator puerto de generación del PDF del IPV.
type DayReportPDFGenerator interface {
	GenerateDayReport(ctx context.Context, summary entity.DaySummary, generatedAt time.Time) ([]byte, error)
}

// PDFUseCase genera el reporte PDF del IPV del día.
type PDFUseCase struct {
	source    SummarySource
	generator DayReportPDFGenerator
	now       func() time.Time
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(source SummarySource, generator DayReportPDFGenerator) *PDFUseCase {
	return &PDFUseCase{source: source, generator: generator, now: time.Now}
}

// DownloadDayReport devuelve el PDF y el nombre de archivo sugerido.
func (uc *PDFUseCase) DownloadDayReport(ctx context.Context, section entity.Section) (pdfBytes []byte, filename string, err error) {
	summary, err := uc.source.Summary(ctx, section)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener resumen: %w", err)
	}
	pdfBytes, err = uc.generator.GenerateDayReport(ctx, summary, uc.now())
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("ipv_%s_%s.pdf", section, summary.BusinessDay)
	return pdfBytes, filename, nil
}
