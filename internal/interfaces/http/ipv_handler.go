package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-ipv/internal/application/dto"
	"github.com/jhoicas/gestor-ipv/internal/application/ipv"
)

// IPVHandler maneja las peticiones HTTP del IPV de cada área.
type IPVHandler struct {
	svc *ipv.Service
}

// NewIPVHandler construye el handler.
func NewIPVHandler(svc *ipv.Service) *IPVHandler {
	return &IPVHandler{svc: svc}
}

// View godoc
// @Summary      Ver IPV del área
// @Tags         ipv
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Success      200  {object}  entity.LedgerState
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section} [get]
func (h *IPVHandler) View(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	out, err := h.svc.View(c.UserContext(), section)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Sincronizar con el catálogo
// @Description  Agrega productos nuevos en cero, elimina los retirados y refresca nombre y precio.
// @Tags         ipv
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Success      200  {object}  inventory.SyncResult
// @Router       /api/ipv/{section}/sync [post]
func (h *IPVHandler) Sync(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	out, err := h.svc.Sync(c.UserContext(), section)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetField godoc
// @Summary      Editar inicio, entrada o final
// @Description  Texto no numérico cuenta como 0. Editar final fija el ítem; en productos con receta
//
//	se valida contra el stock de ingredientes.
//
// @Tags         ipv
// @Accept       json
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Param        id       path  int     true  "ID del ítem"
// @Param        body     body  dto.SetFieldRequest  true  "field y value"
// @Success      200  {object}  inventory.EditResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/items/{id} [patch]
func (h *IPVHandler) SetField(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	var in dto.SetFieldRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.svc.SetField(c.UserContext(), section, id, in.Field, in.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MaxSellable godoc
// @Summary      Máximo vendible
// @Tags         ipv
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Param        id       path  int     true  "ID del producto"
// @Success      200  {object}  dto.MaxSellableResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/items/{id}/max-sellable [get]
func (h *IPVHandler) MaxSellable(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	maxSellable, err := h.svc.MaxSellable(c.UserContext(), section, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MaxSellableResponse{ProductID: id, MaxSellable: maxSellable})
}

// ValidateSale godoc
// @Summary      Validar un final propuesto
// @Tags         ipv
// @Accept       json
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Param        id       path  int     true  "ID del producto"
// @Param        body     body  dto.ValidateSaleRequest  true  "final propuesto"
// @Success      200  {object}  inventory.SaleCheck
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/items/{id}/validate-sale [post]
func (h *IPVHandler) ValidateSale(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	var in dto.ValidateSaleRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.svc.ValidateSale(c.UserContext(), section, id, in.Final)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Recipes godoc
// @Summary      Listar recetas
// @Tags         recipes
// @Produce      json
// @Param        section     path   string  true   "Área (salon, cocina)"
// @Param        product_id  query  int     false  "Filtrar por producto"
// @Success      200  {array}   entity.RecipeRelation
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/recipes [get]
func (h *IPVHandler) Recipes(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	productID := int64(c.QueryInt("product_id", 0))
	out, err := h.svc.Recipes(c.UserContext(), section, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRelations godoc
// @Summary      Configurar receta
// @Description  Reemplaza la receta completa del producto y reconcilia el área.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        section    path  string  true  "Área (salon, cocina)"
// @Param        productId  path  int     true  "ID del producto"
// @Param        body       body  dto.SetRelationsRequest  true  "ingredientes y cantidad por unidad"
// @Success      200  {object}  dto.SetRelationsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/recipes/{productId} [put]
func (h *IPVHandler) SetRelations(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	productID, ok := idParam(c, "productId")
	if !ok {
		return nil
	}
	var in dto.SetRelationsRequest
	if !parseBody(c, &in) {
		return nil
	}
	rels, report, err := h.svc.SetRelations(c.UserContext(), section, productID, in.Inputs())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SetRelationsResponse{Relations: rels, Report: report})
}

// RemoveRelations godoc
// @Summary      Eliminar receta
// @Description  Requiere X-Confirm: true o confirm=true.
// @Tags         recipes
// @Produce      json
// @Param        section    path  string  true  "Área (salon, cocina)"
// @Param        productId  path  int     true  "ID del producto"
// @Success      200  {object}  inventory.ReconcileReport
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/recipes/{productId} [delete]
func (h *IPVHandler) RemoveRelations(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	productID, ok := idParam(c, "productId")
	if !ok {
		return nil
	}
	report, err := h.svc.RemoveRelations(c.UserContext(), section, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// Agregos godoc
// @Summary      Listar agregos del día
// @Tags         agregos
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Success      200  {object}  dto.AgregoListResponse
// @Router       /api/ipv/{section}/agregos [get]
func (h *IPVHandler) Agregos(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	list, total, err := h.svc.Agregos(c.UserContext(), section)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AgregoListResponse{Items: list, Total: total})
}

// RegisterAgrego godoc
// @Summary      Registrar agrego
// @Description  kind per_unit descuenta 1 de cada ingrediente por unidad; recipe usa quantity_per_unit.
// @Tags         agregos
// @Accept       json
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Param        body     body  dto.RegisterAgregoRequest  true  "Datos del agrego"
// @Success      201  {object}  entity.Agrego
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/agregos [post]
func (h *IPVHandler) RegisterAgrego(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	var in dto.RegisterAgregoRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.svc.RegisterAgrego(c.UserContext(), section, in.Request())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveAgrego godoc
// @Summary      Eliminar agrego
// @Description  Devuelve el consumo a los ingredientes. Requiere confirmación.
// @Tags         agregos
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Param        id       path  string  true  "ID del agrego"
// @Success      200  {object}  entity.Agrego
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/agregos/{id} [delete]
func (h *IPVHandler) RemoveAgrego(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.svc.RemoveAgrego(c.UserContext(), section, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Reconciliación completa
// @Tags         ipv
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Success      200  {object}  inventory.ReconcileReport
// @Router       /api/ipv/{section}/reconcile [post]
func (h *IPVHandler) Reconcile(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	report, err := h.svc.Reconcile(c.UserContext(), section)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// NewDay godoc
// @Summary      Nuevo día
// @Description  El final pasa a inicio; entradas, vendidos y agregos se reinician. Requiere confirmación.
// @Tags         ipv
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Success      200  {object}  inventory.ReconcileReport
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/new-day [post]
func (h *IPVHandler) NewDay(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	report, err := h.svc.NewDay(c.UserContext(), section)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// Finalize godoc
// @Summary      Cerrar el día
// @Tags         ipv
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Success      200  {object}  dto.FinalizeResponse
// @Router       /api/ipv/{section}/finalize [post]
func (h *IPVHandler) Finalize(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	summary, report, err := h.svc.Finalize(c.UserContext(), section)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FinalizeResponse{Summary: summary, Report: report})
}

// CashCount godoc
// @Summary      Conteo de billetes
// @Tags         ipv
// @Accept       json
// @Produce      json
// @Param        section  path  string  true  "Área (salon, cocina)"
// @Param        body     body  dto.CashCountRequest  true  "Denominaciones y total esperado (opcional)"
// @Success      200  {object}  entity.CashCount
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ipv/{section}/cash-count [post]
func (h *IPVHandler) CashCount(c *fiber.Ctx) error {
	section, ok := sectionParam(c)
	if !ok {
		return nil
	}
	var in dto.CashCountRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.svc.CashCount(c.UserContext(), section, in.Denominations, in.Expected)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
