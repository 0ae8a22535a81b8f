package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.CatalogRepository = (*ProductRepo)(nil)
)

const productColumns = `id, section, name, unit_price, active, created_at, updated_at`

// ProductRepo catálogo sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto y asigna su ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.CatalogProduct) error {
	query := `
		INSERT INTO catalog_products (section, name, name_key, unit_price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		string(product.Section), product.Name, nameKey(product.Name), product.UnitPrice,
		product.Active, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.CatalogProduct, error) {
	query := `SELECT ` + productColumns + ` FROM catalog_products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySectionAndName búsqueda sin distinguir mayúsculas dentro del área.
func (r *ProductRepo) GetBySectionAndName(ctx context.Context, section entity.Section, name string) (*entity.CatalogProduct, error) {
	query := `SELECT ` + productColumns + ` FROM catalog_products WHERE section = $1 AND name_key = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, string(section), nameKey(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// Update actualiza nombre, precio y estado.
func (r *ProductRepo) Update(ctx context.Context, product *entity.CatalogProduct) error {
	query := `
		UPDATE catalog_products
		SET name = $2, name_key = $3, unit_price = $4, active = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.Name, nameKey(product.Name), product.UnitPrice, product.Active, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListBySection lista productos del área ordenados por ID.
func (r *ProductRepo) ListBySection(ctx context.Context, section entity.Section, limit, offset int) ([]*entity.CatalogProduct, error) {
	query := `SELECT ` + productColumns + ` FROM catalog_products WHERE section = $1 ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, string(section), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.CatalogProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM catalog_products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetCatalog catálogo completo del área (incluye inactivos) en orden de ID.
func (r *ProductRepo) GetCatalog(ctx context.Context, section entity.Section) ([]entity.CatalogProduct, error) {
	query := `SELECT ` + productColumns + ` FROM catalog_products WHERE section = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, string(section))
	if err != nil {
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	defer rows.Close()

	var out []entity.CatalogProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.CatalogProduct, error) {
	var (
		p       entity.CatalogProduct
		section string
	)
	if err := row.Scan(&p.ID, &section, &p.Name, &p.UnitPrice, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Section = entity.Section(section)
	return &p, nil
}
