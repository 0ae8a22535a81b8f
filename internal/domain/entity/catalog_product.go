package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogProduct producto del catálogo externo de un área. Precio 0 = ingrediente.
type CatalogProduct struct {
	ID        int64
	Section   Section
	Name      string
	UnitPrice decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
