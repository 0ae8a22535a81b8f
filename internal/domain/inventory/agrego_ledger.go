package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// AgregoLedger registro de agregos del día (solo se añade; eliminar restaura el stock).
type AgregoLedger struct {
	events []entity.Agrego
}

func newAgregoLedger() *AgregoLedger { return &AgregoLedger{} }

func (a *AgregoLedger) find(id string) int {
	for i, ev := range a.events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

// AgregoSelection ingrediente elegido para un agrego. QuantityPerUnit solo aplica a
// agregos por receta.
type AgregoSelection struct {
	IngredientID    int64
	QuantityPerUnit decimal.Decimal
}

// AgregoRequest datos para registrar un agrego. Construir con NewPerUnitAgrego o NewRecipeAgrego.
type AgregoRequest struct {
	Kind       entity.AgregoKind
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   decimal.Decimal
	Selections []AgregoSelection
	Notes      string
}

// NewPerUnitAgrego agrego de casillas: cada ingrediente marcado consume 1 unidad por agrego.
func NewPerUnitAgrego(name string, unitPrice, quantity decimal.Decimal, ingredientIDs []int64, notes string) AgregoRequest {
	sel := make([]AgregoSelection, 0, len(ingredientIDs))
	for _, id := range ingredientIDs {
		sel = append(sel, AgregoSelection{IngredientID: id, QuantityPerUnit: decimal.NewFromInt(1)})
	}
	return AgregoRequest{
		Kind:       entity.AgregoPerUnit,
		Name:       name,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		Selections: sel,
		Notes:      notes,
	}
}

// NewRecipeAgrego agrego con cantidades configuradas por ingrediente.
func NewRecipeAgrego(name string, unitPrice, quantity decimal.Decimal, selections []AgregoSelection, notes string) AgregoRequest {
	return AgregoRequest{
		Kind:       entity.AgregoByRecipe,
		Name:       name,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		Selections: selections,
		Notes:      notes,
	}
}

// Agregos copia de los agregos registrados, en orden de registro.
func (l *Ledger) Agregos() []entity.Agrego {
	out := make([]entity.Agrego, 0, len(l.agregos.events))
	for _, ev := range l.agregos.events {
		ev.Ingredients = append([]entity.AgregoIngredient(nil), ev.Ingredients...)
		out = append(out, ev)
	}
	return out
}

// AgregoTotal suma de importes de los agregos.
func (l *Ledger) AgregoTotal() decimal.Decimal {
	total := decimal.Zero
	for _, ev := range l.agregos.events {
		total = total.Add(ev.TotalAmount)
	}
	return total
}

// RegisterAgrego valida, descuenta el consumo de cada ingrediente y guarda el agrego.
// Si algún ingrediente no alcanza falla con domain.ErrInsufficientStock sin mutar nada.
func (l *Ledger) RegisterAgrego(req AgregoRequest) (entity.Agrego, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return entity.Agrego{}, fmt.Errorf("%w: el nombre del agrego es obligatorio", domain.ErrInvalidInput)
	}
	if err := CheckQuantity(req.UnitPrice); err != nil {
		return entity.Agrego{}, err
	}
	if err := CheckQuantity(req.Quantity); err != nil {
		return entity.Agrego{}, err
	}
	if !req.UnitPrice.IsPositive() || !req.Quantity.Truncate(0).IsPositive() {
		return entity.Agrego{}, domain.ErrInvalidQuantity
	}
	if len(req.Selections) == 0 {
		return entity.Agrego{}, fmt.Errorf("%w: seleccione al menos un ingrediente", domain.ErrInvalidInput)
	}
	kind := req.Kind
	if kind == "" {
		kind = entity.AgregoPerUnit
	}
	qty := req.Quantity.Truncate(0)

	seen := make(map[int64]bool, len(req.Selections))
	lines := make([]entity.AgregoIngredient, 0, len(req.Selections))
	var shortfalls []domain.Shortfall
	for _, sel := range req.Selections {
		ing, ok := l.byID[sel.IngredientID]
		if !ok {
			return entity.Agrego{}, fmt.Errorf("%w: ingrediente %d", domain.ErrNotFound, sel.IngredientID)
		}
		if !ing.IsIngredient {
			return entity.Agrego{}, fmt.Errorf("%w: %s no es un ingrediente", domain.ErrInvalidInput, ing.Name)
		}
		if seen[sel.IngredientID] {
			return entity.Agrego{}, fmt.Errorf("%w: ingrediente %s repetido", domain.ErrInvalidInput, ing.Name)
		}
		seen[sel.IngredientID] = true

		perUnit := decimal.NewFromInt(1)
		if kind == entity.AgregoByRecipe {
			if err := CheckQuantity(sel.QuantityPerUnit); err != nil {
				return entity.Agrego{}, err
			}
			perUnit = sel.QuantityPerUnit.Round(ingredientPlaces)
			if !perUnit.IsPositive() {
				return entity.Agrego{}, domain.ErrInvalidQuantity
			}
		}
		consumed := qty.Mul(perUnit)
		if avail := available(ing); avail.LessThan(consumed) {
			shortfalls = append(shortfalls, domain.Shortfall{
				IngredientID: ing.ID,
				Ingredient:   ing.Name,
				Required:     consumed,
				Available:    avail,
				Deficit:      consumed.Sub(avail),
			})
		}
		lines = append(lines, entity.AgregoIngredient{ID: ing.ID, Name: ing.Name, QuantityConsumedTotal: consumed})
	}
	if len(shortfalls) > 0 {
		return entity.Agrego{}, domain.NewShortfallError(domain.ErrInsufficientStock, shortfalls)
	}

	now := l.now()
	for _, line := range lines {
		ing := l.byID[line.ID]
		l.applyConsumption(ing, line.QuantityConsumedTotal)
		ing.LastUpdated = now
	}

	ev := entity.Agrego{
		ID:          l.newID(),
		Kind:        kind,
		Name:        name,
		UnitPrice:   req.UnitPrice,
		Quantity:    qty,
		Ingredients: lines,
		Notes:       strings.TrimSpace(req.Notes),
		Timestamp:   now,
		TotalAmount: req.UnitPrice.Mul(qty),
	}
	l.agregos.events = append(l.agregos.events, ev)
	l.settleIngredients(l.consumption())
	out := ev
	out.Ingredients = append([]entity.AgregoIngredient(nil), lines...)
	return out, nil
}

// RemoveAgrego elimina el agrego y devuelve su consumo a cada ingrediente.
// domain.ErrNotFound si el id no existe.
func (l *Ledger) RemoveAgrego(id string) (entity.Agrego, error) {
	idx := l.agregos.find(id)
	if idx < 0 {
		return entity.Agrego{}, domain.ErrNotFound
	}
	ev := l.agregos.events[idx]
	now := l.now()
	for _, line := range ev.Ingredients {
		ing, ok := l.byID[line.ID]
		if !ok {
			continue
		}
		l.applyConsumption(ing, line.QuantityConsumedTotal.Neg())
		ing.LastUpdated = now
	}
	l.agregos.events = append(l.agregos.events[:idx], l.agregos.events[idx+1:]...)
	l.settleIngredients(l.consumption())
	return ev, nil
}
