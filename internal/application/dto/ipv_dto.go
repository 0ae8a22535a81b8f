package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/domain/inventory"
)

// SetFieldRequest edición de un campo del IPV. Value es texto: lo no numérico cuenta como 0.
type SetFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=start entry final"`
	Value string `json:"value"`
}

// ValidateSaleRequest final propuesto para un producto.
type ValidateSaleRequest struct {
	Final string `json:"final" validate:"required"`
}

// MaxSellableResponse unidades adicionales que cubren los ingredientes.
type MaxSellableResponse struct {
	ProductID   int64           `json:"product_id"`
	MaxSellable decimal.Decimal `json:"max_sellable"`
}

// RelationRequest ingrediente de una receta.
type RelationRequest struct {
	IngredientID    int64           `json:"ingredient_id" validate:"required,gt=0"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
}

// SetRelationsRequest receta completa de un producto.
type SetRelationsRequest struct {
	Relations []RelationRequest `json:"relations" validate:"dive"`
}

// Inputs convierte la petición al formato del dominio.
func (r SetRelationsRequest) Inputs() []inventory.RelationInput {
	out := make([]inventory.RelationInput, 0, len(r.Relations))
	for _, rel := range r.Relations {
		out = append(out, inventory.RelationInput{IngredientID: rel.IngredientID, QuantityPerUnit: rel.QuantityPerUnit})
	}
	return out
}

// SetRelationsResponse receta guardada y resultado de la reconciliación.
type SetRelationsResponse struct {
	Relations []entity.RecipeRelation   `json:"relations"`
	Report    inventory.ReconcileReport `json:"report"`
}

// AgregoIngredientRequest ingrediente elegido. QuantityPerUnit solo en agregos por receta.
type AgregoIngredientRequest struct {
	IngredientID    int64           `json:"ingredient_id" validate:"required,gt=0"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
}

// RegisterAgregoRequest alta de un agrego.
type RegisterAgregoRequest struct {
	Kind        string                    `json:"kind" validate:"omitempty,oneof=per_unit recipe"`
	Name        string                    `json:"name" validate:"required,max=200"`
	UnitPrice   decimal.Decimal           `json:"unit_price"`
	Quantity    decimal.Decimal           `json:"quantity"`
	Ingredients []AgregoIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	Notes       string                    `json:"notes" validate:"max=500"`
}

// Request construye la petición de dominio según el tipo.
func (r RegisterAgregoRequest) Request() inventory.AgregoRequest {
	if entity.AgregoKind(r.Kind) == entity.AgregoByRecipe {
		sel := make([]inventory.AgregoSelection, 0, len(r.Ingredients))
		for _, in := range r.Ingredients {
			sel = append(sel, inventory.AgregoSelection{IngredientID: in.IngredientID, QuantityPerUnit: in.QuantityPerUnit})
		}
		return inventory.NewRecipeAgrego(r.Name, r.UnitPrice, r.Quantity, sel, r.Notes)
	}
	ids := make([]int64, 0, len(r.Ingredients))
	for _, in := range r.Ingredients {
		ids = append(ids, in.IngredientID)
	}
	return inventory.NewPerUnitAgrego(r.Name, r.UnitPrice, r.Quantity, ids, r.Notes)
}

// AgregoListResponse agregos del día.
type AgregoListResponse struct {
	Items []entity.Agrego `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// FinalizeResponse cierre del día.
type FinalizeResponse struct {
	Summary entity.DaySummary         `json:"summary"`
	Report  inventory.ReconcileReport `json:"report"`
}

// CashCountRequest conteo de billetes. Sin expected se compara con el total del día.
type CashCountRequest struct {
	Denominations []entity.Denomination `json:"denominations" validate:"required,min=1"`
	Expected      *decimal.Decimal      `json:"expected"`
}
