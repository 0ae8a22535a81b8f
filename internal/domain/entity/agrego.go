package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgregoKind distingue los dos modelos de venta compuesta.
type AgregoKind string

const (
	// AgregoPerUnit: cada ingrediente marcado consume una unidad por agrego vendido.
	AgregoPerUnit AgregoKind = "per_unit"
	// AgregoByRecipe: cada ingrediente consume su cantidad configurada por agrego vendido.
	AgregoByRecipe AgregoKind = "recipe"
)

// AgregoIngredient consumo total de un ingrediente dentro de un agrego.
type AgregoIngredient struct {
	ID                    int64           `json:"id"`
	Name                  string          `json:"name"`
	QuantityConsumedTotal decimal.Decimal `json:"quantity_consumed_total"`
}

// Agrego registro de venta compuesta / cargo extra.
type Agrego struct {
	ID          string             `json:"id"`
	Kind        AgregoKind         `json:"kind"`
	Name        string             `json:"name"`
	UnitPrice   decimal.Decimal    `json:"unit_price"`
	Quantity    decimal.Decimal    `json:"quantity"`
	Ingredients []AgregoIngredient `json:"ingredients"`
	Notes       string             `json:"notes,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
}
