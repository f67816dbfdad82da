// Package memory holds in-memory repositories. They keep insertion order and
// follow the same not-found and ambiguity rules as the PostgreSQL ones.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/internal/repository"
	apperrors "github.com/zunw/ecommerce/pkg/errors"
	"github.com/zunw/ecommerce/pkg/pagination"
)

var (
	_ repository.BrandRepository    = (*BrandRepository)(nil)
	_ repository.StatusRepository   = (*StatusRepository)(nil)
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
	_ repository.ProductRepository  = (*ProductRepository)(nil)
)

// resolveID applies the single-row rule to a set of matching ids.
func resolveID(ids []int64, resource, value string) (int64, error) {
	switch len(ids) {
	case 0:
		return 0, apperrors.NotFoundBy(resource, "name", value)
	case 1:
		return ids[0], nil
	default:
		return 0, apperrors.Ambiguous(resource, "name", value)
	}
}

// ─── brands ─────────────────────────────────────────────────────────────────

// BrandRepository is an in-memory repository.BrandRepository.
type BrandRepository struct {
	mu     sync.RWMutex
	brands []domain.Brand
	nextID int64
}

// NewBrandRepository returns a repository seeded with brands. Seeded brands
// keep their IDs; Create continues after the highest one.
func NewBrandRepository(brands ...domain.Brand) *BrandRepository {
	r := &BrandRepository{brands: slices.Clone(brands)}
	for _, b := range brands {
		r.nextID = max(r.nextID, b.ID)
	}
	return r
}

func (r *BrandRepository) FindByName(_ context.Context, name string) (*domain.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.brands {
		if b.Name == name {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (r *BrandRepository) FindIDByLowerName(_ context.Context, name string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []int64
	for _, b := range r.brands {
		if strings.EqualFold(b.Name, name) {
			ids = append(ids, b.ID)
		}
	}
	return resolveID(ids, "brand", name)
}

func (r *BrandRepository) ListAll(_ context.Context) ([]domain.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Brand{}, r.brands...), nil
}

func (r *BrandRepository) Create(_ context.Context, b *domain.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.brands {
		if strings.EqualFold(existing.Name, b.Name) {
			return apperrors.AlreadyExists("brand", "name", b.Name)
		}
	}
	r.nextID++
	b.ID = r.nextID
	r.brands = append(r.brands, *b)
	return nil
}

// ─── statuses ───────────────────────────────────────────────────────────────

// StatusRepository is an in-memory repository.StatusRepository.
type StatusRepository struct {
	mu       sync.RWMutex
	statuses []domain.Status
}

// NewStatusRepository returns a repository seeded with statuses.
func NewStatusRepository(statuses ...domain.Status) *StatusRepository {
	return &StatusRepository{statuses: slices.Clone(statuses)}
}

func (r *StatusRepository) ListAll(_ context.Context) ([]domain.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Status{}, r.statuses...), nil
}

func (r *StatusRepository) FindIDByName(_ context.Context, name string) (int64, error) {
	return r.findID(name, func(s string) bool { return s == name })
}

func (r *StatusRepository) FindIDByLowerName(_ context.Context, name string) (int64, error) {
	return r.findID(name, func(s string) bool { return strings.EqualFold(s, name) })
}

func (r *StatusRepository) findID(name string, match func(string) bool) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []int64
	for _, s := range r.statuses {
		if match(s.Name) {
			ids = append(ids, s.ID)
		}
	}
	return resolveID(ids, "status", name)
}

// ─── categories ─────────────────────────────────────────────────────────────

// CategoryRepository is an in-memory repository.CategoryRepository.
type CategoryRepository struct {
	categories []domain.Category
}

// NewCategoryRepository returns a repository holding categories, ordered by
// name like the PostgreSQL implementation.
func NewCategoryRepository(categories ...domain.Category) *CategoryRepository {
	sorted := slices.Clone(categories)
	slices.SortStableFunc(sorted, func(a, b domain.Category) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &CategoryRepository{categories: sorted}
}

func (r *CategoryRepository) ListAll(_ context.Context) ([]domain.Category, error) {
	return append([]domain.Category{}, r.categories...), nil
}

// ─── products ───────────────────────────────────────────────────────────────

// ProductRepository is an in-memory repository.ProductRepository.
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
}

// NewProductRepository returns a repository seeded with products in
// insertion order.
func NewProductRepository(products ...domain.Product) *ProductRepository {
	return &ProductRepository{products: slices.Clone(products)}
}

// Add appends a product.
func (r *ProductRepository) Add(p domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, p)
}

func (r *ProductRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *ProductRepository) FindByCategoryID(_ context.Context, p pagination.Pageable, categoryID int64) ([]domain.Product, error) {
	return r.page(p, func(prod domain.Product) bool { return prod.CategoryID == categoryID })
}

func (r *ProductRepository) FindByBrandID(_ context.Context, p pagination.Pageable, brandID int64) ([]domain.Product, error) {
	return r.page(p, func(prod domain.Product) bool { return prod.BrandID == brandID })
}

func (r *ProductRepository) CountByCategoryID(_ context.Context, categoryID int64) (int64, error) {
	return r.count(func(prod domain.Product) bool { return prod.CategoryID == categoryID }), nil
}

func (r *ProductRepository) CountByBrandID(_ context.Context, brandID int64) (int64, error) {
	return r.count(func(prod domain.Product) bool { return prod.BrandID == brandID }), nil
}

func (r *ProductRepository) FindAll(_ context.Context, p pagination.Pageable, f repository.ProductFilter) ([]domain.Product, error) {
	return r.page(p, matchFilter(f))
}

func (r *ProductRepository) Count(_ context.Context, f repository.ProductFilter) (int64, error) {
	return r.count(matchFilter(f)), nil
}

// matchFilter mirrors the SQL filter: id lists match any value, search is a
// case-insensitive substring of name or description.
func matchFilter(f repository.ProductFilter) func(domain.Product) bool {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	return func(p domain.Product) bool {
		if len(f.CategoryIDs) > 0 && !slices.Contains(f.CategoryIDs, p.CategoryID) {
			return false
		}
		if len(f.BrandIDs) > 0 && !slices.Contains(f.BrandIDs, p.BrandID) {
			return false
		}
		if len(f.StatusIDs) > 0 && !slices.Contains(f.StatusIDs, p.StatusID) {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			return false
		}
		return true
	}
}

func (r *ProductRepository) count(keep func(domain.Product) bool) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, p := range r.products {
		if keep(p) {
			n++
		}
	}
	return n
}

func (r *ProductRepository) page(p pagination.Pageable, keep func(domain.Product) bool) ([]domain.Product, error) {
	if err := p.Validate(domain.ProductSortProperties()...); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := []domain.Product{}
	for _, prod := range r.products {
		if keep(prod) {
			matched = append(matched, prod)
		}
	}
	r.mu.RUnlock()

	if p.Sorted() {
		slices.SortStableFunc(matched, func(a, b domain.Product) int {
			for _, o := range p.Sort {
				c := compareProducts(a, b, o.Property)
				if o.Direction == pagination.Desc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return strings.Compare(a.ID.String(), b.ID.String())
		})
	}

	start := min(p.Offset(), len(matched))
	end := min(start+p.Size, len(matched))
	return matched[start:end], nil
}

func compareProducts(a, b domain.Product, property string) int {
	switch property {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "price":
		return a.Price.Cmp(b.Price)
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}
