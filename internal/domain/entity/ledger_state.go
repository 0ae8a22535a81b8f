package entity

import "time"

// LedgerState instantánea serializable del IPV de un área (lo que se guarda en el almacén).
type LedgerState struct {
	Section     Section          `json:"section"`
	BusinessDay string           `json:"business_day"` // YYYY-MM-DD
	Items       []InventoryItem  `json:"items"`
	Relations   []RecipeRelation `json:"relations"`
	Agregos     []Agrego         `json:"agregos"`
	SavedAt     time.Time        `json:"saved_at"`
}
