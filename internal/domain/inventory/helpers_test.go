package inventory_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	breadID    int64 = 1
	sandwichID int64 = 2
	cheeseID   int64 = 3
	juiceID    int64 = 4
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, label string) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "%s: esperado %s, obtenido %s", label, want, got.String())
}

func kitchenCatalog() []entity.CatalogProduct {
	return []entity.CatalogProduct{
		{ID: breadID, Section: entity.SectionCocina, Name: "Pan", UnitPrice: decimal.Zero, Active: true},
		{ID: sandwichID, Section: entity.SectionCocina, Name: "Sándwich", UnitPrice: dec("5"), Active: true},
		{ID: cheeseID, Section: entity.SectionCocina, Name: "Queso", UnitPrice: decimal.Zero, Active: true},
		{ID: juiceID, Section: entity.SectionCocina, Name: "Jugo", UnitPrice: dec("2.5"), Active: true},
	}
}

// newKitchen construye un IPV de cocina sincronizado con reloj fijo e IDs secuenciales.
func newKitchen(t *testing.T) *inventory.Ledger {
	t.Helper()
	seq := 0
	l := inventory.NewLedger(entity.SectionCocina,
		inventory.WithClock(func() time.Time { return testNow }),
		inventory.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	res := l.Sync(kitchenCatalog())
	require.Len(t, res.Added, 4)
	return l
}

func setEntry(t *testing.T, l *inventory.Ledger, id int64, qty string) {
	t.Helper()
	_, err := l.SetField(id, entity.FieldEntry, dec(qty))
	require.NoError(t, err)
}

func item(t *testing.T, l *inventory.Ledger, id int64) entity.InventoryItem {
	t.Helper()
	it, err := l.Item(id)
	require.NoError(t, err)
	return it
}

// assertInvariants verifica no negatividad y consistencia de venta en todos los ítems.
func assertInvariants(t *testing.T, l *inventory.Ledger) {
	t.Helper()
	for _, it := range l.Items() {
		assert.Falsef(t, it.Sold.IsNegative(), "%s: vendido negativo", it.Name)
		assert.Falsef(t, it.Final.IsNegative(), "%s: final negativo", it.Name)
		assert.Truef(t, it.Final.LessThanOrEqual(it.Sale), "%s: final > venta", it.Name)
		assert.Truef(t, it.Sale.Equal(it.Start.Add(it.Entry)), "%s: venta != inicio + entrada", it.Name)
		assert.Truef(t, it.Sold.Equal(it.Sale.Sub(it.Final)), "%s: vendido != venta - final", it.Name)
		if it.IsIngredient {
			assert.Falsef(t, it.Available.IsNegative(), "%s: disponible negativo", it.Name)
			assert.Truef(t, it.Available.Equal(it.Sale.Sub(it.Sold)), "%s: disponible != venta - vendido", it.Name)
		}
	}
}
