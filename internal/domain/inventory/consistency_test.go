package inventory_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Consumo incremental frente a reconciliación completa
// ──────────────────────────────────────────────────────────────────────────────

// consumptionOf recalcula desde cero lo que consumen ventas y agregos de cada ingrediente.
func consumptionOf(l *inventory.Ledger) map[int64]decimal.Decimal {
	sold := make(map[int64]decimal.Decimal)
	for _, it := range l.Items() {
		sold[it.ID] = it.Sold
	}
	out := make(map[int64]decimal.Decimal)
	for _, r := range l.Recipes(0) {
		out[r.IngredientID] = out[r.IngredientID].Add(sold[r.ProductID].Mul(r.QuantityPerUnit))
	}
	for _, a := range l.Agregos() {
		for _, ing := range a.Ingredients {
			out[ing.ID] = out[ing.ID].Add(ing.QuantityConsumedTotal)
		}
	}
	return out
}

// assertConsumptionSettled verifica que cada ingrediente automático refleja su consumo real.
func assertConsumptionSettled(t *testing.T, l *inventory.Ledger, label string) {
	t.Helper()
	consumed := consumptionOf(l)
	for _, it := range l.Items() {
		if !it.IsIngredient || it.FinalManuallyEdited() {
			continue
		}
		want := decimal.Min(consumed[it.ID], it.Sale)
		assert.Truef(t, it.Sold.Equal(want), "%s: %s vendido %s, consumo %s", label, it.Name, it.Sold, consumed[it.ID])
	}
}

// assertReconcileIsNoop verifica que FullReconcile no corrige ningún ingrediente automático.
func assertReconcileIsNoop(t *testing.T, l *inventory.Ledger, label string) {
	t.Helper()
	before := make(map[int64]entity.InventoryItem)
	for _, it := range l.Items() {
		before[it.ID] = it
	}
	report := l.FullReconcile()
	assert.Emptyf(t, report.Adjusted, "%s: productos ajustados", label)
	for _, it := range l.Items() {
		if !it.IsIngredient || it.FinalManuallyEdited() {
			continue
		}
		prev := before[it.ID]
		assert.Truef(t, prev.Sold.Equal(it.Sold), "%s: %s vendido %s → %s", label, it.Name, prev.Sold, it.Sold)
		assert.Truef(t, prev.Final.Equal(it.Final), "%s: %s final %s → %s", label, it.Name, prev.Final, it.Final)
	}
}

type randomOp struct {
	name            string
	editsIngredient bool
	run             func(l *inventory.Ledger) error
}

func nextOp(rng *rand.Rand, l *inventory.Ledger) randomOp {
	ingredients := []int64{breadID, cheeseID}
	products := []int64{sandwichID, juiceID}
	fields := []string{entity.FieldStart, entity.FieldEntry}

	switch rng.Intn(6) {
	case 0:
		id := ingredients[rng.Intn(len(ingredients))]
		field := fields[rng.Intn(len(fields))]
		v := decimal.New(rng.Int63n(120), -1)
		return randomOp{
			name:            fmt.Sprintf("ingrediente %d %s=%s", id, field, v),
			editsIngredient: true,
			run: func(l *inventory.Ledger) error {
				_, err := l.SetField(id, field, v)
				return err
			},
		}
	case 1:
		id := products[rng.Intn(len(products))]
		field := fields[rng.Intn(len(fields))]
		v := decimal.NewFromInt(rng.Int63n(8))
		return randomOp{
			name: fmt.Sprintf("producto %d %s=%s", id, field, v),
			run: func(l *inventory.Ledger) error {
				_, err := l.SetField(id, field, v)
				return err
			},
		}
	case 2, 3:
		id := products[rng.Intn(len(products))]
		v := decimal.NewFromInt(rng.Int63n(10))
		return randomOp{
			name: fmt.Sprintf("producto %d final=%s", id, v),
			run: func(l *inventory.Ledger) error {
				_, err := l.SetField(id, entity.FieldFinal, v)
				return err
			},
		}
	case 4:
		id := ingredients[rng.Intn(len(ingredients))]
		qty := decimal.NewFromInt(1 + rng.Int63n(3))
		return randomOp{
			name: fmt.Sprintf("agrego %d x%s", id, qty),
			run: func(l *inventory.Ledger) error {
				_, err := l.RegisterAgrego(inventory.NewPerUnitAgrego("Extra", dec("1"), qty, []int64{id}, ""))
				return err
			},
		}
	default:
		agregos := l.Agregos()
		if len(agregos) == 0 {
			return randomOp{name: "sin agregos", run: func(*inventory.Ledger) error { return nil }}
		}
		id := agregos[rng.Intn(len(agregos))].ID
		return randomOp{
			name: "quitar agrego " + id,
			run: func(l *inventory.Ledger) error {
				_, err := l.RemoveAgrego(id)
				return err
			},
		}
	}
}

func TestConsistencia_EdicionesAleatorias(t *testing.T) {
	for seed := int64(1); seed <= 300; seed++ {
		rng := rand.New(rand.NewSource(seed))
		l := newKitchen(t)
		_, _, err := l.SetRelations(sandwichID, []inventory.RelationInput{
			{IngredientID: breadID, QuantityPerUnit: dec("2")},
			{IngredientID: cheeseID, QuantityPerUnit: dec("0.5")},
		})
		require.NoError(t, err)

		for step := 0; step < 40; step++ {
			op := nextOp(rng, l)
			label := fmt.Sprintf("semilla %d paso %d (%s)", seed, step, op.name)
			before := consumptionOf(l)

			if err := op.run(l); err != nil {
				require.Truef(t,
					errors.Is(err, domain.ErrInsufficientIngredientStock) || errors.Is(err, domain.ErrInsufficientStock),
					"%s: error inesperado: %v", label, err)
			}

			assertInvariants(t, l)
			assertConsumptionSettled(t, l, label)
			if !op.editsIngredient {
				after := consumptionOf(l)
				for _, it := range l.Items() {
					if it.IsIngredient && after[it.ID].GreaterThan(it.Sale) {
						assert.Truef(t, after[it.ID].LessThanOrEqual(before[it.ID]),
							"%s: %s sobrevendido (consumo %s, venta %s)", label, it.Name, after[it.ID], it.Sale)
					}
				}
			}
			assertReconcileIsNoop(t, l, label)
			if t.Failed() {
				return
			}
		}
	}
}

func TestConsistencia_AgregoTrasReducirIngrediente(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, cheeseID, "5")
	first, err := l.RegisterAgrego(inventory.NewPerUnitAgrego("Extra queso", dec("1"), dec("3"), []int64{cheeseID}, ""))
	require.NoError(t, err)

	setEntry(t, l, cheeseID, "2")
	assertDec(t, "2", item(t, l, cheeseID).Sold, "recortado")
	_, err = l.RegisterAgrego(inventory.NewPerUnitAgrego("Extra queso", dec("1"), dec("1"), []int64{cheeseID}, ""))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	setEntry(t, l, cheeseID, "5")
	cheese := item(t, l, cheeseID)
	assertDec(t, "3", cheese.Sold, "el agrego sigue consumiendo 3")
	assertDec(t, "2", cheese.Available, "available")
	assertReconcileIsNoop(t, l, "tras subir la entrada")

	_, err = l.RemoveAgrego(first.ID)
	require.NoError(t, err)
	cheese = item(t, l, cheeseID)
	assertDec(t, "0", cheese.Sold, "sin consumo")
	assertDec(t, "5", cheese.Available, "available")
	assertConsumptionSettled(t, l, "tras quitar el agrego")
}
