package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// RecipeGraph relaciones fijas producto → ingrediente (cantidad consumida por unidad vendida).
type RecipeGraph struct {
	relations []entity.RecipeRelation
}

func newRecipeGraph() *RecipeGraph { return &RecipeGraph{} }

// For relaciones configuradas para el producto, en orden de configuración.
func (g *RecipeGraph) For(productID int64) []entity.RecipeRelation {
	var out []entity.RecipeRelation
	for _, r := range g.relations {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}

// HasRelations reporta si el producto tiene receta.
func (g *RecipeGraph) HasRelations(productID int64) bool {
	for _, r := range g.relations {
		if r.ProductID == productID {
			return true
		}
	}
	return false
}

// UsedBy relaciones en las que participa el ingrediente.
func (g *RecipeGraph) UsedBy(ingredientID int64) []entity.RecipeRelation {
	var out []entity.RecipeRelation
	for _, r := range g.relations {
		if r.IngredientID == ingredientID {
			out = append(out, r)
		}
	}
	return out
}

// All copia de todas las relaciones.
func (g *RecipeGraph) All() []entity.RecipeRelation {
	return append([]entity.RecipeRelation(nil), g.relations...)
}

func (g *RecipeGraph) replace(productID int64, rels []entity.RecipeRelation) {
	g.removeProduct(productID)
	g.relations = append(g.relations, rels...)
}

func (g *RecipeGraph) removeProduct(productID int64) int {
	return g.removeWhere(func(r entity.RecipeRelation) bool { return r.ProductID == productID })
}

// removeReferencing quita las relaciones donde el ítem aparece como producto o ingrediente.
func (g *RecipeGraph) removeReferencing(itemID int64) int {
	return g.removeWhere(func(r entity.RecipeRelation) bool {
		return r.ProductID == itemID || r.IngredientID == itemID
	})
}

func (g *RecipeGraph) removeWhere(match func(entity.RecipeRelation) bool) int {
	kept := g.relations[:0]
	removed := 0
	for _, r := range g.relations {
		if match(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	g.relations = kept
	return removed
}

// RelationInput ingrediente y cantidad por unidad para SetRelations.
type RelationInput struct {
	IngredientID    int64
	QuantityPerUnit decimal.Decimal
}

// Recipes relaciones del IPV (todas, o solo las de un producto si productID > 0).
func (l *Ledger) Recipes(productID int64) []entity.RecipeRelation {
	if productID > 0 {
		return l.recipes.For(productID)
	}
	return l.recipes.All()
}

// SetRelations reemplaza la receta completa del producto y reconcilia el IPV.
func (l *Ledger) SetRelations(productID int64, inputs []RelationInput) ([]entity.RecipeRelation, ReconcileReport, error) {
	if len(inputs) == 0 {
		return nil, ReconcileReport{}, domain.ErrEmptyRelationSet
	}
	product, ok := l.byID[productID]
	if !ok {
		return nil, ReconcileReport{}, domain.ErrNotFound
	}
	if product.IsIngredient {
		return nil, ReconcileReport{}, fmt.Errorf("%w: %s es un ingrediente, no lleva receta", domain.ErrInvalidInput, product.Name)
	}

	seen := make(map[int64]bool, len(inputs))
	rels := make([]entity.RecipeRelation, 0, len(inputs))
	for _, in := range inputs {
		ing, ok := l.byID[in.IngredientID]
		if !ok {
			return nil, ReconcileReport{}, fmt.Errorf("%w: ingrediente %d", domain.ErrNotFound, in.IngredientID)
		}
		if !ing.IsIngredient {
			return nil, ReconcileReport{}, fmt.Errorf("%w: %s no es un ingrediente", domain.ErrInvalidInput, ing.Name)
		}
		if seen[in.IngredientID] {
			return nil, ReconcileReport{}, fmt.Errorf("%w: ingrediente %s repetido", domain.ErrInvalidInput, ing.Name)
		}
		if err := CheckQuantity(in.QuantityPerUnit); err != nil {
			return nil, ReconcileReport{}, err
		}
		q := in.QuantityPerUnit.Round(ingredientPlaces)
		if !q.IsPositive() {
			return nil, ReconcileReport{}, domain.ErrInvalidQuantity
		}
		seen[in.IngredientID] = true
		rels = append(rels, entity.RecipeRelation{
			ID:              l.newID(),
			ProductID:       productID,
			IngredientID:    in.IngredientID,
			QuantityPerUnit: q,
		})
	}

	l.recipes.replace(productID, rels)
	report := l.FullReconcile()
	return append([]entity.RecipeRelation(nil), rels...), report, nil
}

// RemoveRelations elimina la receta del producto y reconcilia. domain.ErrNotFound si no tenía.
func (l *Ledger) RemoveRelations(productID int64) (ReconcileReport, error) {
	if l.recipes.removeProduct(productID) == 0 {
		return ReconcileReport{}, domain.ErrNotFound
	}
	return l.FullReconcile(), nil
}

// MaxSellable cuántas unidades más del producto podrían venderse con el stock actual de
// ingredientes. Sin receta devuelve la venta del producto (sin restricción).
func (l *Ledger) MaxSellable(productID int64) (decimal.Decimal, error) {
	product, ok := l.byID[productID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	rels := l.recipes.For(productID)
	if len(rels) == 0 {
		return product.Sale, nil
	}
	var limit *decimal.Decimal
	for _, r := range rels {
		units := decimal.Zero
		if ing, ok := l.byID[r.IngredientID]; ok {
			units = available(ing).Div(r.QuantityPerUnit).Floor()
		}
		if limit == nil || units.LessThan(*limit) {
			limit = &units
		}
	}
	return nonNegative(*limit), nil
}

// SaleCheck resultado de ValidateSale.
type SaleCheck struct {
	Valid      bool               `json:"valid"`
	Shortfalls []domain.Shortfall `json:"shortfalls,omitempty"`
}

// ValidateSale comprueba si fijar el final del producto en proposedFinal es cubierto por los
// ingredientes. Vender igual o menos que lo registrado siempre es válido.
func (l *Ledger) ValidateSale(productID int64, proposedFinal decimal.Decimal) (SaleCheck, error) {
	product, ok := l.byID[productID]
	if !ok {
		return SaleCheck{}, domain.ErrNotFound
	}
	proposedSold := nonNegative(product.Sale.Sub(normalize(product, proposedFinal)))
	delta := proposedSold.Sub(product.Sold)
	if !delta.IsPositive() {
		return SaleCheck{Valid: true}, nil
	}

	check := SaleCheck{Valid: true}
	for _, r := range l.recipes.For(productID) {
		ing, ok := l.byID[r.IngredientID]
		if !ok {
			continue
		}
		required := delta.Mul(r.QuantityPerUnit)
		avail := available(ing)
		if avail.LessThan(required) {
			check.Valid = false
			check.Shortfalls = append(check.Shortfalls, domain.Shortfall{
				IngredientID: ing.ID,
				Ingredient:   ing.Name,
				Required:     required,
				Available:    avail,
				Deficit:      required.Sub(avail),
			})
		}
	}
	return check, nil
}
