package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-ipv/internal/application/ipv"
	"github.com/jhoicas/gestor-ipv/internal/application/report"
	"github.com/jhoicas/gestor-ipv/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	IPV       *ipv.Service
	ProductUC *usecase.ProductUseCase
	ReportUC  *report.PDFUseCase // opcional
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	confirm := RequireConfirmation()

	// Catálogo
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// IPV por área
	sec := api.Group("/ipv/:section")
	h := NewIPVHandler(deps.IPV)
	sec.Get("/", h.View)
	sec.Post("/sync", h.Sync)
	sec.Patch("/items/:id", h.SetField)
	sec.Get("/items/:id/max-sellable", h.MaxSellable)
	sec.Post("/items/:id/validate-sale", h.ValidateSale)

	sec.Get("/recipes", h.Recipes)
	sec.Put("/recipes/:productId", h.SetRelations)
	sec.Delete("/recipes/:productId", confirm, h.RemoveRelations)

	sec.Get("/agregos", h.Agregos)
	sec.Post("/agregos", h.RegisterAgrego)
	sec.Delete("/agregos/:id", confirm, h.RemoveAgrego)

	sec.Post("/reconcile", h.Reconcile)
	sec.Post("/new-day", confirm, h.NewDay)
	sec.Post("/finalize", h.Finalize)
	sec.Post("/cash-count", h.CashCount)

	if deps.ReportUC != nil {
		sec.Get("/report.pdf", NewReportHandler(deps.ReportUC).DayReportPDF)
	}
}
