package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound                    = errors.New("recurso no encontrado")
	ErrInvalidInput                = errors.New("entrada inválida")
	ErrDuplicate                   = errors.New("el recurso ya existe")
	ErrInvalidQuantity             = errors.New("la cantidad debe ser mayor que cero")
	ErrEmptyRelationSet            = errors.New("debe configurar al menos un ingrediente")
	ErrInsufficientIngredientStock = errors.New("stock de ingredientes insuficiente")
	ErrInsufficientStock           = errors.New("stock insuficiente")
	ErrConfirmationRequired        = errors.New("la operación requiere confirmación")
)

// Shortfall describe el faltante de un ingrediente para cubrir una venta o un agrego.
type Shortfall struct {
	IngredientID int64           `json:"ingredient_id"`
	Ingredient   string          `json:"ingredient"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Deficit      decimal.Decimal `json:"deficit"`
}

// ShortfallError lleva la lista de faltantes. Kind es ErrInsufficientIngredientStock
// (edición de final) o ErrInsufficientStock (registro de agrego); errors.Is funciona con ambos.
type ShortfallError struct {
	Kind       error
	Shortfalls []Shortfall
}

// NewShortfallError construye el error a partir del tipo y los faltantes.
func NewShortfallError(kind error, shortfalls []Shortfall) *ShortfallError {
	return &ShortfallError{Kind: kind, Shortfalls: shortfalls}
}

func (e *ShortfallError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (necesita %s, disponible %s, faltan %s)",
			s.Ingredient, s.Required.String(), s.Available.String(), s.Deficit.String()))
	}
	return e.Kind.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ShortfallError) Unwrap() error { return e.Kind }

// ShortfallsOf extrae los faltantes de err si es un ShortfallError.
func ShortfallsOf(err error) []Shortfall {
	var se *ShortfallError
	if errors.As(err, &se) {
		return se.Shortfalls
	}
	return nil
}
