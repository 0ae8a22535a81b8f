package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// ingredientPlaces decimales que se conservan en cantidades de ingredientes
// (las recetas admiten fracciones, p. ej. 0.25 kg por plato).
const ingredientPlaces = 3

// Límites de cualquier cantidad o importe aceptado.
const (
	minQuantityExponent = -9
	maxQuantityExponent = 9
)

var maxQuantity = decimal.New(1, maxQuantityExponent)

// CheckQuantity falla con domain.ErrInvalidQuantity si d tiene más de 9 decimales o su
// magnitud supera 1e9. El exponente se revisa primero.
func CheckQuantity(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp < minQuantityExponent || exp > maxQuantityExponent || d.Abs().GreaterThan(maxQuantity) {
		return fmt.Errorf("%w: valor fuera de rango", domain.ErrInvalidQuantity)
	}
	return nil
}

// CoerceQuantity convierte la entrada del usuario en una cantidad no negativa.
// Texto no numérico, vacío o negativo se trata como 0. Acepta coma decimal.
func CoerceQuantity(raw string) decimal.Decimal {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return nonNegative(d)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// normalize aplica la regla de coerción del ítem: nunca negativo; productos en unidades
// enteras, ingredientes con ingredientPlaces decimales.
func normalize(item *entity.InventoryItem, d decimal.Decimal) decimal.Decimal {
	d = nonNegative(d)
	if item.IsIngredient {
		return d.Round(ingredientPlaces)
	}
	return d.Truncate(0)
}

// available unidades físicas aún no consumidas de un ítem.
func available(item *entity.InventoryItem) decimal.Decimal {
	return nonNegative(item.Sale.Sub(item.Sold))
}
