package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// Ledger es el IPV de un área: ítems, recetas y agregos del día.
// No es seguro para uso concurrente; quien lo use debe serializar las operaciones.
type Ledger struct {
	section entity.Section
	day     string
	items   []*entity.InventoryItem
	byID    map[int64]*entity.InventoryItem
	recipes *RecipeGraph
	agregos *AgregoLedger
	now     func() time.Time
	newID   func() string
}

// Option configura un Ledger.
type Option func(*Ledger)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator reemplaza el generador de IDs de relaciones y agregos (tests).
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// NewLedger crea un IPV vacío para el área.
func NewLedger(section entity.Section, opts ...Option) *Ledger {
	l := &Ledger{
		section: section,
		byID:    make(map[int64]*entity.InventoryItem),
		recipes: newRecipeGraph(),
		agregos: newAgregoLedger(),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	l.day = l.now().Format(time.DateOnly)
	return l
}

// Section devuelve el área del IPV.
func (l *Ledger) Section() entity.Section { return l.section }

// BusinessDay devuelve el día de trabajo (YYYY-MM-DD).
func (l *Ledger) BusinessDay() string { return l.day }

// Items devuelve copias de los ítems en el orden del catálogo.
func (l *Ledger) Items() []entity.InventoryItem {
	out := make([]entity.InventoryItem, 0, len(l.items))
	for _, it := range l.items {
		out = append(out, *it.Clone())
	}
	return out
}

// Item devuelve una copia del ítem o domain.ErrNotFound.
func (l *Ledger) Item(id int64) (entity.InventoryItem, error) {
	it, ok := l.byID[id]
	if !ok {
		return entity.InventoryItem{}, domain.ErrNotFound
	}
	return *it.Clone(), nil
}

// Recompute recalcula los campos derivados de item tras cualquier escritura.
// Para productos con receta, limita lo vendido a lo que permite el stock de ingredientes
// (lo ya propagado más MaxSellable). No toca otros ítems.
func (l *Ledger) Recompute(item *entity.InventoryItem) {
	propagated := normalize(item, item.Sold)
	l.recomputeDerived(item)

	if item.IsIngredient || !item.Sold.IsPositive() || !l.recipes.HasRelations(item.ID) {
		return
	}
	maxMore, _ := l.MaxSellable(item.ID)
	capacity := propagated.Add(maxMore)
	if item.Sold.GreaterThan(capacity) {
		item.Sold = capacity
		item.Final = item.Sale.Sub(capacity)
		item.Revenue = item.Sold.Mul(item.UnitPrice)
	}
}

// recomputeDerived pasos de coerción, venta, final automático, vendido e importe.
func (l *Ledger) recomputeDerived(item *entity.InventoryItem) {
	item.IsIngredient = item.UnitPrice.IsZero()
	if item.FinalMode == "" {
		item.FinalMode = entity.FinalAutoFollowing
	}
	item.Start = normalize(item, item.Start)
	item.Entry = normalize(item, item.Entry)
	item.Final = normalize(item, item.Final)
	item.Sold = normalize(item, item.Sold)

	newSale := item.Start.Add(item.Entry)
	if !newSale.Equal(item.Sale) {
		item.Sale = newSale
		if !item.FinalManuallyEdited() {
			if item.IsIngredient {
				// el consumo registrado se conserva: final = lo que queda
				item.Final = nonNegative(newSale.Sub(item.Sold))
			} else {
				item.Final = newSale
			}
		}
	}
	if item.Final.GreaterThan(item.Sale) {
		item.Final = item.Sale
	}

	item.Sold = nonNegative(item.Sale.Sub(item.Final))
	if item.IsIngredient {
		item.Revenue = decimal.Zero
		item.Available = available(item)
	} else {
		item.Revenue = item.Sold.Mul(item.UnitPrice)
		item.Available = decimal.Zero
	}
}

// EditResult resultado de SetField. Changed=false indica que el valor no cambió; Pinned
// indica que la edición pasó el final a manual (ambos exigen persistir).
type EditResult struct {
	Item     entity.InventoryItem   `json:"item"`
	Changed  bool                   `json:"changed"`
	Pinned   bool                   `json:"pinned"`
	Affected []entity.InventoryItem `json:"affected,omitempty"`
}

// Dirty reporta si la edición modificó el estado del IPV.
func (r EditResult) Dirty() bool { return r.Changed || r.Pinned }

// SetField aplica una edición del usuario a start, entry o final.
//
// Editar final fija el ítem (FinalManuallyPinned) aunque el valor no cambie. Si el producto
// tiene receta y la edición vende más de lo que cubren los ingredientes, falla con
// domain.ErrInsufficientIngredientStock y el ítem queda exactamente como estaba.
// Valores fuera de rango fallan con domain.ErrInvalidQuantity.
func (l *Ledger) SetField(id int64, field string, value decimal.Decimal) (EditResult, error) {
	item, ok := l.byID[id]
	if !ok {
		return EditResult{}, domain.ErrNotFound
	}
	old, ok := item.Value(field)
	if !ok {
		return EditResult{}, fmt.Errorf("%w: campo %q no editable", domain.ErrInvalidInput, field)
	}
	if err := CheckQuantity(value); err != nil {
		return EditResult{}, err
	}
	value = normalize(item, value)
	before := item.Clone()

	pinned := false
	if field == entity.FieldFinal && !item.FinalManuallyEdited() {
		item.FinalMode = entity.FinalManuallyPinned
		pinned = true
	}
	if value.Equal(old) {
		return EditResult{Item: *item.Clone(), Pinned: pinned}, nil
	}

	if field == entity.FieldFinal && !item.IsIngredient {
		check, err := l.ValidateSale(id, value)
		if err != nil {
			*item = *before
			return EditResult{}, err
		}
		if !check.Valid {
			*item = *before
			return EditResult{}, domain.NewShortfallError(domain.ErrInsufficientIngredientStock, check.Shortfalls)
		}
	}

	prevSold := item.Sold
	switch field {
	case entity.FieldStart:
		item.Start = value
	case entity.FieldEntry:
		item.Entry = value
	case entity.FieldFinal:
		item.Final = value
	}
	l.Recompute(item)

	var affected []entity.InventoryItem
	if delta := item.Sold.Sub(prevSold); !item.IsIngredient && !delta.IsZero() {
		var err error
		affected, err = l.propagate(item.ID, delta)
		if err != nil {
			*item = *before
			return EditResult{}, err
		}
	}
	l.settleIngredients(l.consumption())
	for i := range affected {
		affected[i] = *l.byID[affected[i].ID].Clone()
	}

	now := l.now()
	item.EditHistory = append(item.EditHistory, entity.EditRecord{
		Timestamp: now,
		Field:     field,
		OldValue:  old,
		NewValue:  value,
	})
	item.LastUpdated = now
	return EditResult{Item: *item.Clone(), Changed: true, Pinned: pinned, Affected: affected}, nil
}

// propagate traslada a los ingredientes de la receta el cambio de vendido del producto.
// Verifica todo antes de mutar: si algún ingrediente quedaría en negativo no toca nada.
func (l *Ledger) propagate(productID int64, soldDelta decimal.Decimal) ([]entity.InventoryItem, error) {
	rels := l.recipes.For(productID)
	if len(rels) == 0 {
		return nil, nil
	}
	var shortfalls []domain.Shortfall
	for _, r := range rels {
		ing, ok := l.byID[r.IngredientID]
		if !ok {
			continue
		}
		required := soldDelta.Mul(r.QuantityPerUnit)
		avail := available(ing)
		if required.GreaterThan(avail) {
			shortfalls = append(shortfalls, domain.Shortfall{
				IngredientID: ing.ID,
				Ingredient:   ing.Name,
				Required:     required,
				Available:    avail,
				Deficit:      required.Sub(avail),
			})
		}
	}
	if len(shortfalls) > 0 {
		return nil, domain.NewShortfallError(domain.ErrInsufficientIngredientStock, shortfalls)
	}

	now := l.now()
	affected := make([]entity.InventoryItem, 0, len(rels))
	for _, r := range rels {
		ing, ok := l.byID[r.IngredientID]
		if !ok {
			continue
		}
		l.applyConsumption(ing, soldDelta.Mul(r.QuantityPerUnit))
		ing.LastUpdated = now
		affected = append(affected, *ing.Clone())
	}
	return affected, nil
}

// applyConsumption suma (o resta, si delta < 0) consumo a un ingrediente. El consumo es
// físico: mueve el final aunque el ingrediente esté fijado a mano.
func (l *Ledger) applyConsumption(ing *entity.InventoryItem, delta decimal.Decimal) {
	ing.Sold = nonNegative(ing.Sold.Add(delta))
	ing.Final = nonNegative(ing.Sale.Sub(ing.Sold))
	l.recomputeDerived(ing)
}
