package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// ProductStore catálogo en memoria. Implementa ProductRepository y CatalogRepository.
type ProductStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]entity.CatalogProduct
}

// NewProductStore crea el catálogo con productos iniciales (pueden traer ID o no).
func NewProductStore(seed ...entity.CatalogProduct) *ProductStore {
	s := &ProductStore{byID: make(map[int64]entity.CatalogProduct)}
	for _, p := range seed {
		p := p
		_ = s.Create(context.Background(), &p)
	}
	return s
}

func (s *ProductStore) Create(_ context.Context, product *entity.CatalogProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == 0 {
		s.nextID++
		product.ID = s.nextID
	} else if product.ID > s.nextID {
		s.nextID = product.ID
	}
	if _, dup := s.byID[product.ID]; dup {
		return domain.ErrDuplicate
	}
	s.byID[product.ID] = *product
	return nil
}

func (s *ProductStore) GetByID(_ context.Context, id int64) (*entity.CatalogProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *ProductStore) GetBySectionAndName(_ context.Context, section entity.Section, name string) (*entity.CatalogProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byID {
		if p.Section == section && strings.EqualFold(p.Name, name) {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (s *ProductStore) Update(_ context.Context, product *entity.CatalogProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[product.ID]; !ok {
		return domain.ErrNotFound
	}
	s.byID[product.ID] = *product
	return nil
}

func (s *ProductStore) ListBySection(_ context.Context, section entity.Section, limit, offset int) ([]*entity.CatalogProduct, error) {
	all := s.sorted(section)
	if offset >= len(all) {
		return []*entity.CatalogProduct{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*entity.CatalogProduct, 0, len(all))
	for i := range all {
		out = append(out, &all[i])
	}
	return out, nil
}

func (s *ProductStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// GetCatalog productos del área ordenados por ID.
func (s *ProductStore) GetCatalog(_ context.Context, section entity.Section) ([]entity.CatalogProduct, error) {
	return s.sorted(section), nil
}

func (s *ProductStore) sorted(section entity.Section) []entity.CatalogProduct {
	s.mu.RLock()
	out := make([]entity.CatalogProduct, 0, len(s.byID))
	for _, p := range s.byID {
		if p.Section == section {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
