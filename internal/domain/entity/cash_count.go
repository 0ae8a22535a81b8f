package entity

import "github.com/shopspring/decimal"

// Denomination cantidad de billetes o monedas de un valor.
type Denomination struct {
	Value decimal.Decimal `json:"value"`
	Count int64           `json:"count"`
}

// CashLine subtotal de una denominación.
type CashLine struct {
	Value    decimal.Decimal `json:"value"`
	Count    int64           `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CashCount resultado del conteo de caja frente a lo esperado por el IPV.
// Difference > 0 es sobrante, < 0 faltante.
type CashCount struct {
	Lines      []CashLine      `json:"lines"`
	Declared   decimal.Decimal `json:"declared"`
	Expected   decimal.Decimal `json:"expected"`
	Difference decimal.Decimal `json:"difference"`
}

// DaySummary totales del día de un área.
type DaySummary struct {
	Section        Section         `json:"section"`
	BusinessDay    string          `json:"business_day"`
	UnitsSold      decimal.Decimal `json:"units_sold"`
	ProductRevenue decimal.Decimal `json:"product_revenue"`
	AgregoRevenue  decimal.Decimal `json:"agrego_revenue"`
	Total          decimal.Decimal `json:"total"`
	Items          []InventoryItem `json:"items"`
	Agregos        []Agrego        `json:"agregos"`
}
