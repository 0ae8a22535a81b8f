package entity

import "github.com/shopspring/decimal"

// RecipeRelation declara que una unidad vendida de ProductID consume QuantityPerUnit
// unidades de IngredientID. Única por par (producto, ingrediente).
type RecipeRelation struct {
	ID              string          `json:"id"`
	ProductID       int64           `json:"product_id"`
	IngredientID    int64           `json:"ingredient_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
}
