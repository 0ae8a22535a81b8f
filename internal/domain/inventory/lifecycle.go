package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// SyncResult IDs agregados, eliminados y actualizados por Sync.
type SyncResult struct {
	Added   []int64         `json:"added"`
	Removed []int64         `json:"removed"`
	Updated []int64         `json:"updated"`
	Report  ReconcileReport `json:"report"`
}

// Sync alinea el IPV con el catálogo del área: agrega ítems nuevos en cero, elimina los que ya
// no están (y sus relaciones) y refresca nombre y precio conservando el stock.
// Los ítems quedan en el orden del catálogo.
func (l *Ledger) Sync(catalog []entity.CatalogProduct) SyncResult {
	var res SyncResult
	now := l.now()

	next := make([]*entity.InventoryItem, 0, len(catalog))
	nextByID := make(map[int64]*entity.InventoryItem, len(catalog))
	for _, p := range catalog {
		if !p.Active || (p.Section != "" && p.Section != l.section) {
			continue
		}
		if _, dup := nextByID[p.ID]; dup {
			continue
		}
		item, exists := l.byID[p.ID]
		if !exists {
			item = &entity.InventoryItem{
				ID:          p.ID,
				Name:        p.Name,
				UnitPrice:   p.UnitPrice,
				FinalMode:   entity.FinalAutoFollowing,
				LastUpdated: now,
			}
			res.Added = append(res.Added, p.ID)
		} else if item.Name != p.Name || !item.UnitPrice.Equal(p.UnitPrice) {
			wasIngredient := item.IsIngredient
			item.Name = p.Name
			item.UnitPrice = p.UnitPrice
			item.IsIngredient = p.UnitPrice.IsZero()
			if wasIngredient != item.IsIngredient {
				// cambió de rol: sus recetas dejan de tener sentido
				l.recipes.removeReferencing(item.ID)
			}
			item.LastUpdated = now
			res.Updated = append(res.Updated, p.ID)
		}
		l.recomputeDerived(item)
		next = append(next, item)
		nextByID[p.ID] = item
	}

	for _, it := range l.items {
		if _, kept := nextByID[it.ID]; !kept {
			l.recipes.removeReferencing(it.ID)
			res.Removed = append(res.Removed, it.ID)
		}
	}

	l.items = next
	l.byID = nextByID
	res.Report = l.FullReconcile()
	return res
}

// NewDay cierra el día: el final pasa a ser el inicio, se limpian entrada, ventas, historial
// y la marca de edición manual, y se descartan los agregos. Las recetas se conservan.
func (l *Ledger) NewDay(day time.Time) ReconcileReport {
	now := l.now()
	for _, it := range l.items {
		it.Start = it.Final
		it.Entry = decimal.Zero
		it.Sale = it.Start
		it.Final = it.Start
		it.Sold = decimal.Zero
		it.Revenue = decimal.Zero
		it.EditHistory = nil
		it.FinalMode = entity.FinalAutoFollowing
		it.LastUpdated = now
		l.recomputeDerived(it)
	}
	l.agregos.events = nil
	l.day = day.Format(time.DateOnly)
	return l.FullReconcile()
}

// Summary totales del día.
func (l *Ledger) Summary() entity.DaySummary {
	s := entity.DaySummary{
		Section:        l.section,
		BusinessDay:    l.day,
		UnitsSold:      decimal.Zero,
		ProductRevenue: decimal.Zero,
		AgregoRevenue:  l.AgregoTotal(),
		Items:          l.Items(),
		Agregos:        l.Agregos(),
	}
	for _, it := range l.items {
		if it.IsIngredient {
			continue
		}
		s.UnitsSold = s.UnitsSold.Add(it.Sold)
		s.ProductRevenue = s.ProductRevenue.Add(it.Revenue)
	}
	s.Total = s.ProductRevenue.Add(s.AgregoRevenue)
	return s
}

// FinalizeDay reconcilia y devuelve el resumen del día.
func (l *Ledger) FinalizeDay() (entity.DaySummary, ReconcileReport) {
	report := l.FullReconcile()
	return l.Summary(), report
}

// Snapshot estado serializable del IPV.
func (l *Ledger) Snapshot() entity.LedgerState {
	return entity.LedgerState{
		Section:     l.section,
		BusinessDay: l.day,
		Items:       l.Items(),
		Relations:   l.recipes.All(),
		Agregos:     l.Agregos(),
		SavedAt:     l.now(),
	}
}

// FromState reconstruye un IPV desde una instantánea. Campos ausentes quedan en cero y el
// modo de final en automático.
func FromState(state entity.LedgerState, opts ...Option) *Ledger {
	l := NewLedger(state.Section, opts...)
	if state.BusinessDay != "" {
		l.day = state.BusinessDay
	}
	for i := range state.Items {
		it := state.Items[i].Clone()
		if _, dup := l.byID[it.ID]; dup {
			continue
		}
		l.recomputeDerived(it)
		l.items = append(l.items, it)
		l.byID[it.ID] = it
	}
	for _, r := range state.Relations {
		if _, ok := l.byID[r.ProductID]; !ok {
			continue
		}
		if _, ok := l.byID[r.IngredientID]; !ok {
			continue
		}
		if r.ID == "" {
			r.ID = l.newID()
		}
		l.recipes.relations = append(l.recipes.relations, r)
	}
	for _, a := range state.Agregos {
		a.Ingredients = append([]entity.AgregoIngredient(nil), a.Ingredients...)
		l.agregos.events = append(l.agregos.events, a)
	}
	return l
}
