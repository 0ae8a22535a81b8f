package repository

import (
	"context"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia del catálogo de productos (DIP).
// Create asigna el ID.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.CatalogProduct) error
	GetByID(ctx context.Context, id int64) (*entity.CatalogProduct, error)
	GetBySectionAndName(ctx context.Context, section entity.Section, name string) (*entity.CatalogProduct, error)
	Update(ctx context.Context, product *entity.CatalogProduct) error
	ListBySection(ctx context.Context, section entity.Section, limit, offset int) ([]*entity.CatalogProduct, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogRepository fuente del catálogo que alimenta el IPV de cada área.
type CatalogRepository interface {
	// GetCatalog productos del área en orden de catálogo (incluye inactivos).
	GetCatalog(ctx context.Context, section entity.Section) ([]entity.CatalogProduct, error)
}
