package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/domain/inventory"
)

// Escenario a: ingrediente con entrada 20 tras sincronizar.
func TestSetField_IngredienteConEntrada(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, breadID, "20")

	bread := item(t, l, breadID)
	assert.True(t, bread.IsIngredient)
	assertDec(t, "20", bread.Sale, "sale")
	assertDec(t, "20", bread.Final, "final")
	assertDec(t, "0", bread.Sold, "sold")
	assertDec(t, "20", bread.Available, "available")
	assertDec(t, "0", bread.Revenue, "revenue")
	assert.Equal(t, entity.FinalAutoFollowing, bread.FinalMode)
}

// Escenario b: vender 10 sándwiches consume exactamente los 20 panes.
func TestSetField_VentaConRecetaConsumeIngredientes(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, breadID, "20")
	setEntry(t, l, sandwichID, "10")
	_, _, err := l.SetRelations(sandwichID, []inventory.RelationInput{{IngredientID: breadID, QuantityPerUnit: dec("2")}})
	require.NoError(t, err)

	res, err := l.SetField(sandwichID, entity.FieldFinal, dec("0"))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.Len(t, res.Affected, 1)
	assert.Equal(t, breadID, res.Affected[0].ID)

	sandwich := item(t, l, sandwichID)
	assertDec(t, "10", sandwich.Sold, "sandwich.sold")
	assertDec(t, "50", sandwich.Revenue, "sandwich.revenue")
	assert.True(t, sandwich.FinalManuallyEdited())

	bread := item(t, l, breadID)
	assertDec(t, "20", bread.Sold, "bread.sold")
	assertDec(t, "0", bread.Available, "bread.available")
	assertInvariants(t, l)
}

// Escenario c: con 15 panes no alcanzan para 10 sándwiches; la edición se revierte.
func TestSetField_StockInsuficienteRevierte(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, breadID, "15")
	setEntry(t, l, sandwichID, "10")
	_, _, err := l.SetRelations(sandwichID, []inventory.RelationInput{{IngredientID: breadID, QuantityPerUnit: dec("2")}})
	require.NoError(t, err)
	before := item(t, l, sandwichID)

	_, err = l.SetField(sandwichID, entity.FieldFinal, dec("0"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientIngredientStock))

	shortfalls := domain.ShortfallsOf(err)
	require.Len(t, shortfalls, 1)
	assert.Equal(t, "Pan", shortfalls[0].Ingredient)
	assertDec(t, "20", shortfalls[0].Required, "required")
	assertDec(t, "15", shortfalls[0].Available, "available")
	assertDec(t, "5", shortfalls[0].Deficit, "deficit")

	after := item(t, l, sandwichID)
	assertDec(t, before.Final.String(), after.Final, "final sin cambios")
	assert.Equal(t, before.FinalMode, after.FinalMode)
	assert.Len(t, after.EditHistory, len(before.EditHistory))

	bread := item(t, l, breadID)
	assertDec(t, "0", bread.Sold, "bread.sold")
	assertDec(t, "15", bread.Available, "bread.available")
}

func TestSetField_ValorIgualNoEsCambio(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, juiceID, "8")

	res, err := l.SetField(juiceID, entity.FieldEntry, dec("8"))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Len(t, item(t, l, juiceID).EditHistory, 1)

	// tocar el final fija el ítem aunque el valor sea el mismo
	res, err = l.SetField(juiceID, entity.FieldFinal, dec("8"))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.True(t, res.Pinned)
	assert.True(t, res.Dirty())
	assert.True(t, item(t, l, juiceID).FinalManuallyEdited())

	res, err = l.SetField(juiceID, entity.FieldFinal, dec("8"))
	require.NoError(t, err)
	assert.False(t, res.Dirty(), "ya estaba fijado")
}

func TestSetField_FinalFijadoDejaDeSeguirLaVenta(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, juiceID, "10")
	_, err := l.SetField(juiceID, entity.FieldFinal, dec("4"))
	require.NoError(t, err)

	setEntry(t, l, juiceID, "12")
	juice := item(t, l, juiceID)
	assertDec(t, "12", juice.Sale, "sale")
	assertDec(t, "4", juice.Final, "final fijado")
	assertDec(t, "8", juice.Sold, "sold")
	assertDec(t, "20", juice.Revenue, "revenue")

	// bajar la entrada por debajo del final lo recorta
	setEntry(t, l, juiceID, "3")
	juice = item(t, l, juiceID)
	assertDec(t, "3", juice.Final, "final recortado")
	assertDec(t, "0", juice.Sold, "sold")
	assertInvariants(t, l)
}

func TestSetField_FinalMayorQueVentaSeRecorta(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, juiceID, "5")
	_, err := l.SetField(juiceID, entity.FieldFinal, dec("50"))
	require.NoError(t, err)
	juice := item(t, l, juiceID)
	assertDec(t, "5", juice.Final, "final")
	assertDec(t, "0", juice.Sold, "sold")
}

func TestSetField_ValoresInvalidos(t *testing.T) {
	l := newKitchen(t)

	_, err := l.SetField(999, entity.FieldEntry, dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = l.SetField(juiceID, "sale", dec("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	setEntry(t, l, juiceID, inventory.CoerceQuantity("abc").String())
	assertDec(t, "0", item(t, l, juiceID).Entry, "texto no numérico")

	_, err = l.SetField(juiceID, entity.FieldEntry, dec("-4"))
	require.NoError(t, err)
	assertDec(t, "0", item(t, l, juiceID).Entry, "negativo")

	_, err = l.SetField(juiceID, entity.FieldEntry, dec("3.9"))
	require.NoError(t, err)
	assertDec(t, "3", item(t, l, juiceID).Entry, "productos en unidades enteras")
}

func TestCoerceQuantity(t *testing.T) {
	cases := map[string]string{
		"":      "0",
		"  ":    "0",
		"x1":    "0",
		"-3":    "0",
		"7":     "7",
		"2,5":   "2.5",
		" 0.25": "0.25",
	}
	for raw, want := range cases {
		assertDec(t, want, inventory.CoerceQuantity(raw), "CoerceQuantity("+raw+")")
	}
}

func TestSetField_VenderMenosDevuelveIngredientes(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, breadID, "20")
	setEntry(t, l, sandwichID, "10")
	_, _, err := l.SetRelations(sandwichID, []inventory.RelationInput{{IngredientID: breadID, QuantityPerUnit: dec("2")}})
	require.NoError(t, err)

	_, err = l.SetField(sandwichID, entity.FieldFinal, dec("4"))
	require.NoError(t, err)
	assertDec(t, "12", item(t, l, breadID).Sold, "6 sándwiches = 12 panes")

	_, err = l.SetField(sandwichID, entity.FieldFinal, dec("8"))
	require.NoError(t, err)
	assertDec(t, "4", item(t, l, breadID).Sold, "2 sándwiches = 4 panes")
	assertDec(t, "16", item(t, l, breadID).Available, "available")
	assertInvariants(t, l)
}

func TestRecompute_EntradaLimitadaPorIngredientes(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, breadID, "6")
	setEntry(t, l, sandwichID, "10")
	_, _, err := l.SetRelations(sandwichID, []inventory.RelationInput{{IngredientID: breadID, QuantityPerUnit: dec("2")}})
	require.NoError(t, err)
	_, err = l.SetField(sandwichID, entity.FieldFinal, dec("8"))
	require.NoError(t, err)
	assertDec(t, "4", item(t, l, breadID).Sold, "2 sándwiches")

	// subir la entrada con el final fijado vendería 12; el pan solo cubre 3 en total
	res, err := l.SetField(sandwichID, entity.FieldEntry, dec("20"))
	require.NoError(t, err)
	assertDec(t, "3", res.Item.Sold, "limitado por pan")
	assertDec(t, "17", res.Item.Final, "final subido")
	assertDec(t, "6", item(t, l, breadID).Sold, "pan agotado")
	assertDec(t, "0", item(t, l, breadID).Available, "pan disponible")
	assertInvariants(t, l)
}

func TestSetField_HistorialYUltimaActualizacion(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, juiceID, "5")
	_, err := l.SetField(juiceID, entity.FieldStart, dec("2"))
	require.NoError(t, err)

	juice := item(t, l, juiceID)
	require.Len(t, juice.EditHistory, 2)
	assert.Equal(t, entity.FieldStart, juice.EditHistory[1].Field)
	assertDec(t, "0", juice.EditHistory[1].OldValue, "old")
	assertDec(t, "2", juice.EditHistory[1].NewValue, "new")
	assert.Equal(t, testNow, juice.LastUpdated)
}

func TestSetField_SecuenciaMantieneInvariantes(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, breadID, "30")
	setEntry(t, l, cheeseID, "9.5")
	setEntry(t, l, sandwichID, "12")
	_, _, err := l.SetRelations(sandwichID, []inventory.RelationInput{
		{IngredientID: breadID, QuantityPerUnit: dec("2")},
		{IngredientID: cheeseID, QuantityPerUnit: dec("0.75")},
	})
	require.NoError(t, err)

	edits := []struct {
		id    int64
		field string
		value string
	}{
		{sandwichID, entity.FieldFinal, "5"},
		{cheeseID, entity.FieldEntry, "4"},
		{sandwichID, entity.FieldStart, "3"},
		{sandwichID, entity.FieldFinal, "0"},
		{breadID, entity.FieldFinal, "10"},
		{sandwichID, entity.FieldEntry, "1"},
		{juiceID, entity.FieldEntry, "7"},
		{juiceID, entity.FieldFinal, "2"},
	}
	for _, e := range edits {
		_, err := l.SetField(e.id, e.field, dec(e.value))
		if err != nil {
			require.True(t, errors.Is(err, domain.ErrInsufficientIngredientStock), "error inesperado: %v", err)
		}
		assertInvariants(t, l)
	}
}

// El consumo recortado al bajar la entrada del ingrediente no se pierde al devolver ventas.
func TestSetField_ReducirIngredienteNoPermiteSobreventa(t *testing.T) {
	l := newKitchen(t)
	_, _, err := l.SetRelations(sandwichID, []inventory.RelationInput{{IngredientID: breadID, QuantityPerUnit: dec("2")}})
	require.NoError(t, err)
	setEntry(t, l, breadID, "9")
	setEntry(t, l, sandwichID, "4")
	_, err = l.SetField(sandwichID, entity.FieldFinal, dec("0"))
	require.NoError(t, err)
	assertDec(t, "8", item(t, l, breadID).Sold, "4 sándwiches x 2")

	setEntry(t, l, breadID, "4")
	bread := item(t, l, breadID)
	assertDec(t, "4", bread.Sold, "recortado a la venta")
	assertDec(t, "0", bread.Available, "available")

	res, err := l.SetField(sandwichID, entity.FieldFinal, dec("2"))
	require.NoError(t, err)
	require.Len(t, res.Affected, 1)
	assertDec(t, "4", res.Affected[0].Sold, "2 sándwiches siguen consumiendo 4 panes")
	bread = item(t, l, breadID)
	assertDec(t, "4", bread.Sold, "bread.sold")
	assertDec(t, "0", bread.Available, "sin pan libre")

	_, err = l.SetField(sandwichID, entity.FieldFinal, dec("0"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientIngredientStock)
	shortfalls := domain.ShortfallsOf(err)
	require.Len(t, shortfalls, 1)
	assertDec(t, "4", shortfalls[0].Required, "required")
	assertDec(t, "0", shortfalls[0].Available, "available")
	assertDec(t, "2", item(t, l, sandwichID).Sold, "venta sin cambios")

	report := l.FullReconcile()
	assert.Empty(t, report.Overshoots)
	assertDec(t, "4", item(t, l, breadID).Sold, "reconciliar no cambia el pan")

	// subir la entrada libera solo lo que no consumen los 2 sándwiches
	setEntry(t, l, breadID, "9")
	bread = item(t, l, breadID)
	assertDec(t, "4", bread.Sold, "bread.sold")
	assertDec(t, "5", bread.Available, "bread.available")
	assertInvariants(t, l)
}

func TestSetField_CantidadFueraDeRango(t *testing.T) {
	l := newKitchen(t)
	setEntry(t, l, breadID, "5")
	setEntry(t, l, juiceID, "5")
	before := snapshotJSON(t, l)

	for _, raw := range []string{"1e10000000", "1e-10000000", "1000000001", "0.0000000001"} {
		for _, id := range []int64{breadID, juiceID} {
			start := time.Now()
			_, err := l.SetField(id, entity.FieldEntry, inventory.CoerceQuantity(raw))
			assert.ErrorIs(t, err, domain.ErrInvalidQuantity, raw)
			assert.Less(t, time.Since(start), time.Second, raw)
		}
	}
	assert.JSONEq(t, before, snapshotJSON(t, l), "el IPV no cambia")

	_, err := l.SetField(juiceID, entity.FieldEntry, dec("1000000000"))
	assert.NoError(t, err, "el límite se acepta")
}

func TestCheckQuantity(t *testing.T) {
	valid := []string{"0", "1", "0.25", "1000000000", "-3", "0.000000001", "1e9"}
	for _, v := range valid {
		assert.NoError(t, inventory.CheckQuantity(dec(v)), v)
	}
	invalid := []string{"1000000000.5", "1e10", "1e10000000", "1e-10"}
	for _, v := range invalid {
		assert.ErrorIs(t, inventory.CheckQuantity(dec(v)), domain.ErrInvalidQuantity, v)
	}
}
