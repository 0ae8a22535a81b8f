package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// Overshoot producto fijado a mano que vende más de lo que cubren sus ingredientes.
// La reconciliación no lo corrige; solo lo reporta.
type Overshoot struct {
	ProductID   int64           `json:"product_id"`
	Product     string          `json:"product"`
	Sold        decimal.Decimal `json:"sold"`
	MaxSellable decimal.Decimal `json:"max_sellable"`
}

// ReconcileReport resultado de FullReconcile.
type ReconcileReport struct {
	Adjusted   []int64     `json:"adjusted,omitempty"`
	Overshoots []Overshoot `json:"overshoots,omitempty"`
}

// FullReconcile reconstruye el consumo de ingredientes desde cero (agregos + ventas de
// productos con receta) sin confiar en la propagación incremental.
//
// Los productos se recorren en orden del IPV: cada uno con final automático se limita a la
// capacidad restante antes de sumar su consumo. Un final fijado a mano nunca cambia.
// Ejecutarlo dos veces seguidas deja el mismo estado.
func (l *Ledger) FullReconcile() ReconcileReport {
	var report ReconcileReport
	now := l.now()

	for _, it := range l.items {
		if it.UnitPrice.IsZero() {
			l.recomputeDerived(it)
		}
	}

	consumed := l.agregoConsumption()
	for _, p := range l.items {
		if p.IsIngredient {
			continue
		}
		l.recomputeDerived(p)
		rels := l.recipes.For(p.ID)
		if len(rels) == 0 || !p.Sold.IsPositive() {
			continue
		}
		capacity := l.capacity(rels, consumed)
		if p.Sold.GreaterThan(capacity) {
			if p.FinalManuallyEdited() {
				report.Overshoots = append(report.Overshoots, Overshoot{
					ProductID:   p.ID,
					Product:     p.Name,
					Sold:        p.Sold,
					MaxSellable: capacity,
				})
			} else {
				p.Final = p.Sale.Sub(capacity)
				l.recomputeDerived(p)
				p.LastUpdated = now
				report.Adjusted = append(report.Adjusted, p.ID)
			}
		}
		for _, r := range rels {
			consumed[r.IngredientID] = consumed[r.IngredientID].Add(p.Sold.Mul(r.QuantityPerUnit))
		}
	}

	l.settleIngredients(consumed)
	return report
}

// agregoConsumption consumo de cada ingrediente registrado por los agregos del día.
func (l *Ledger) agregoConsumption() map[int64]decimal.Decimal {
	consumed := make(map[int64]decimal.Decimal)
	for _, a := range l.agregos.events {
		for _, ing := range a.Ingredients {
			consumed[ing.ID] = consumed[ing.ID].Add(ing.QuantityConsumedTotal)
		}
	}
	return consumed
}

// consumption consumo total de cada ingrediente: agregos más lo vendido de cada producto
// por su receta.
func (l *Ledger) consumption() map[int64]decimal.Decimal {
	consumed := l.agregoConsumption()
	for _, r := range l.recipes.relations {
		if p, ok := l.byID[r.ProductID]; ok && !p.IsIngredient {
			consumed[r.IngredientID] = consumed[r.IngredientID].Add(p.Sold.Mul(r.QuantityPerUnit))
		}
	}
	return consumed
}

// settleIngredients deja vendido y final de cada ingrediente automático según el consumo
// dado. Los fijados a mano conservan su conteo.
func (l *Ledger) settleIngredients(consumed map[int64]decimal.Decimal) {
	now := l.now()
	for _, ing := range l.items {
		if !ing.IsIngredient || ing.FinalManuallyEdited() {
			continue
		}
		c := consumed[ing.ID].Round(ingredientPlaces)
		final := nonNegative(ing.Sale.Sub(c))
		if !final.Equal(ing.Final) || !decimal.Min(c, ing.Sale).Equal(ing.Sold) {
			ing.Sold = c
			ing.Final = final
			l.recomputeDerived(ing)
			ing.LastUpdated = now
		}
	}
}

// capacity unidades del producto que cubre el stock restante tras el consumo acumulado.
// Un ingrediente fijado a mano solo cubre lo que su conteo da por consumido.
func (l *Ledger) capacity(rels []entity.RecipeRelation, consumed map[int64]decimal.Decimal) decimal.Decimal {
	var limit *decimal.Decimal
	for _, r := range rels {
		units := decimal.Zero
		if ing, ok := l.byID[r.IngredientID]; ok {
			budget := ing.Sale
			if ing.FinalManuallyEdited() {
				budget = ing.Sold
			}
			units = nonNegative(budget.Sub(consumed[ing.ID])).Div(r.QuantityPerUnit).Floor()
		}
		if limit == nil || units.LessThan(*limit) {
			limit = &units
		}
	}
	if limit == nil {
		return decimal.Zero
	}
	return *limit
}
