package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/domain/inventory"
)

func TestRegisterAgrego_ExtraQuesoYEliminacion(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, cheeseID, "5")

	ag, err := l.RegisterAgrego(inventory.NewPerUnitAgrego("Extra queso", dec("1"), dec("3"), []int64{cheeseID}, " sin sal "))
	require.NoError(t, err)
	assert.Equal(t, "id-1", ag.ID)
	assert.Equal(t, entity.AgregoPerUnit, ag.Kind)
	assert.Equal(t, "sin sal", ag.Notes)
	assert.Equal(t, testNow, ag.Timestamp)
	assertDec(t, "3", ag.TotalAmount, "importe")
	require.Len(t, ag.Ingredients, 1)
	assertDec(t, "3", ag.Ingredients[0].QuantityConsumedTotal, "consumo")

	cheese := item(t, l, cheeseID)
	assertDec(t, "3", cheese.Sold, "sold")
	assertDec(t, "2", cheese.Available, "available")
	require.Len(t, l.Agregos(), 1)

	removed, err := l.RemoveAgrego(ag.ID)
	require.NoError(t, err)
	assert.Equal(t, ag.ID, removed.ID)
	cheese = item(t, l, cheeseID)
	assertDec(t, "0", cheese.Sold, "sold tras eliminar")
	assertDec(t, "5", cheese.Available, "available tras eliminar")
	assert.Empty(t, l.Agregos())
	assertDec(t, "0", l.AgregoTotal(), "total")
}

func TestRegisterAgrego_PorReceta(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, cheeseID, "5")
	setEntry(t, l, breadID, "10")

	ag, err := l.RegisterAgrego(inventory.NewRecipeAgrego("Tostada", dec("2"), dec("2.7"), []inventory.AgregoSelection{
		{IngredientID: cheeseID, QuantityPerUnit: dec("0.25")},
		{IngredientID: breadID, QuantityPerUnit: dec("1")},
	}, ""))
	require.NoError(t, err)
	assert.Equal(t, entity.AgregoByRecipe, ag.Kind)
	assertDec(t, "2", ag.Quantity, "cantidad truncada")
	assertDec(t, "4", ag.TotalAmount, "importe")

	assertDec(t, "0.5", item(t, l, cheeseID).Sold, "queso")
	assertDec(t, "2", item(t, l, breadID).Sold, "pan")
	assertInvariants(t, l)
}

func TestRegisterAgrego_StockInsuficienteNoMuta(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, cheeseID, "2")
	setEntry(t, l, breadID, "10")
	before := snapshotJSON(t, l)

	_, err := l.RegisterAgrego(inventory.NewPerUnitAgrego("Doble", dec("1"), dec("3"), []int64{breadID, cheeseID}, ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	shortfalls := domain.ShortfallsOf(err)
	require.Len(t, shortfalls, 1)
	assert.Equal(t, cheeseID, shortfalls[0].IngredientID)
	assertDec(t, "3", shortfalls[0].Required, "required")
	assertDec(t, "2", shortfalls[0].Available, "available")
	assertDec(t, "1", shortfalls[0].Deficit, "deficit")

	assert.JSONEq(t, before, snapshotJSON(t, l))
}

func TestRegisterAgrego_Validaciones(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, cheeseID, "5")

	cases := []struct {
		name string
		req  inventory.AgregoRequest
		want error
	}{
		{"sin nombre", inventory.NewPerUnitAgrego("  ", dec("1"), dec("1"), []int64{cheeseID}, ""), domain.ErrInvalidInput},
		{"precio cero", inventory.NewPerUnitAgrego("A", dec("0"), dec("1"), []int64{cheeseID}, ""), domain.ErrInvalidQuantity},
		{"cantidad fraccionaria", inventory.NewPerUnitAgrego("A", dec("1"), dec("0.5"), []int64{cheeseID}, ""), domain.ErrInvalidQuantity},
		{"sin ingredientes", inventory.NewPerUnitAgrego("A", dec("1"), dec("1"), nil, ""), domain.ErrInvalidInput},
		{"producto como ingrediente", inventory.NewPerUnitAgrego("A", dec("1"), dec("1"), []int64{juiceID}, ""), domain.ErrInvalidInput},
		{"ingrediente inexistente", inventory.NewPerUnitAgrego("A", dec("1"), dec("1"), []int64{99}, ""), domain.ErrNotFound},
		{"ingrediente repetido", inventory.NewPerUnitAgrego("A", dec("1"), dec("1"), []int64{cheeseID, cheeseID}, ""), domain.ErrInvalidInput},
		{"receta con cantidad cero", inventory.NewRecipeAgrego("A", dec("1"), dec("1"),
			[]inventory.AgregoSelection{{IngredientID: cheeseID, QuantityPerUnit: dec("0")}}, ""), domain.ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.RegisterAgrego(tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, l.Agregos())
	assertDec(t, "0", item(t, l, cheeseID).Sold, "sin consumo")
}

func TestRemoveAgrego_Inexistente(t *testing.T) {
	l := newKitchen(t)
	_, err := l.RemoveAgrego("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Registrar y eliminar agregos en cualquier orden devuelve el stock exacto.
func TestAgregos_ConservacionDeStock(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, cheeseID, "7.5")
	setEntry(t, l, breadID, "12")
	before := l.Items()

	a1, err := l.RegisterAgrego(inventory.NewPerUnitAgrego("A", dec("1"), dec("2"), []int64{cheeseID, breadID}, ""))
	require.NoError(t, err)
	a2, err := l.RegisterAgrego(inventory.NewRecipeAgrego("B", dec("3"), dec("3"), []inventory.AgregoSelection{
		{IngredientID: cheeseID, QuantityPerUnit: dec("0.333")},
	}, ""))
	require.NoError(t, err)
	a3, err := l.RegisterAgrego(inventory.NewPerUnitAgrego("C", dec("1"), dec("4"), []int64{breadID}, ""))
	require.NoError(t, err)
	assertDec(t, "15", l.AgregoTotal(), "2 + 9 + 4")

	for _, id := range []string{a2.ID, a1.ID, a3.ID} {
		_, err := l.RemoveAgrego(id)
		require.NoError(t, err)
	}
	for _, want := range before {
		got := item(t, l, want.ID)
		assertDec(t, want.Sold.String(), got.Sold, want.Name+" sold")
		assertDec(t, want.Final.String(), got.Final, want.Name+" final")
	}
}
