package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinalMode indica si el final de un ítem sigue la venta automáticamente o fue fijado a mano.
type FinalMode string

const (
	// FinalAutoFollowing: el final se recalcula al cambiar inicio o entrada.
	FinalAutoFollowing FinalMode = "auto"
	// FinalManuallyPinned: el usuario editó el final; ningún recálculo automático lo cambia
	// hasta el próximo día.
	FinalManuallyPinned FinalMode = "manual"
)

// Campos editables por el usuario.
const (
	FieldStart = "start"
	FieldEntry = "entry"
	FieldFinal = "final"
)

// EditRecord entrada del historial de ediciones (solo diagnóstico).
type EditRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Field     string          `json:"field"`
	OldValue  decimal.Decimal `json:"old_value"`
	NewValue  decimal.Decimal `json:"new_value"`
}

// InventoryItem es la fila del IPV para un producto o ingrediente.
// UnitPrice == 0 marca un ingrediente (no se vende directamente).
type InventoryItem struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	IsIngredient bool            `json:"is_ingredient"`
	Start        decimal.Decimal `json:"start"`
	Entry        decimal.Decimal `json:"entry"`
	Sale         decimal.Decimal `json:"sale"` // start + entry
	Final        decimal.Decimal `json:"final"`
	Sold         decimal.Decimal `json:"sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Available    decimal.Decimal `json:"available"` // solo ingredientes
	FinalMode    FinalMode       `json:"final_mode"`
	EditHistory  []EditRecord    `json:"edit_history"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// FinalManuallyEdited reporta si el usuario fijó el final.
func (i InventoryItem) FinalManuallyEdited() bool {
	return i.FinalMode == FinalManuallyPinned
}

// Value devuelve el valor del campo editable indicado.
func (i *InventoryItem) Value(field string) (decimal.Decimal, bool) {
	switch field {
	case FieldStart:
		return i.Start, true
	case FieldEntry:
		return i.Entry, true
	case FieldFinal:
		return i.Final, true
	}
	return decimal.Zero, false
}

// Clone devuelve una copia profunda (el historial incluido).
func (i *InventoryItem) Clone() *InventoryItem {
	c := *i
	if i.EditHistory != nil {
		c.EditHistory = append([]EditRecord(nil), i.EditHistory...)
	}
	return &c
}
