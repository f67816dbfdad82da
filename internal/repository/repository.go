package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/pkg/pagination"
)

// Lookups that must resolve to exactly one row return apperrors.ErrNotFound
// for zero rows and apperrors.ErrAmbiguous for more than one. Failures to
// reach the store wrap apperrors.ErrStoreUnavailable.

// BrandRepository defines brand persistence operations.
type BrandRepository interface {
	// FindByName returns the brand whose name matches exactly, or nil when
	// there is none.
	FindByName(ctx context.Context, name string) (*domain.Brand, error)

	// FindIDByLowerName returns the id of the brand whose name equals name
	// ignoring case.
	FindIDByLowerName(ctx context.Context, name string) (int64, error)

	// ListAll returns every brand in insertion order.
	ListAll(ctx context.Context) ([]domain.Brand, error)

	// Create inserts b and sets its ID. A name clash returns ErrAlreadyExists.
	Create(ctx context.Context, b *domain.Brand) error
}

// ProductFilter narrows a product listing. Each id list matches any of its
// values and an empty list matches everything. Search matches name or
// description as a case-insensitive substring.
type ProductFilter struct {
	CategoryIDs []int64
	BrandIDs    []int64
	StatusIDs   []int64
	Search      string
}

// ProductRepository defines product read operations.
type ProductRepository interface {
	// FindByID returns the product, or nil when there is none.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// FindByCategoryID returns one page of the category's products.
	FindByCategoryID(ctx context.Context, p pagination.Pageable, categoryID int64) ([]domain.Product, error)

	// FindByBrandID returns one page of the brand's products.
	FindByBrandID(ctx context.Context, p pagination.Pageable, brandID int64) ([]domain.Product, error)

	CountByCategoryID(ctx context.Context, categoryID int64) (int64, error)
	CountByBrandID(ctx context.Context, brandID int64) (int64, error)

	// FindAll returns one page of the products matching f.
	FindAll(ctx context.Context, p pagination.Pageable, f ProductFilter) ([]domain.Product, error)

	// Count counts the products matching f.
	Count(ctx context.Context, f ProductFilter) (int64, error)
}

// StatusRepository defines status read operations.
type StatusRepository interface {
	// ListAll returns every status in insertion order.
	ListAll(ctx context.Context) ([]domain.Status, error)

	// FindIDByName matches the name exactly.
	FindIDByName(ctx context.Context, name string) (int64, error)

	// FindIDByLowerName matches the name ignoring case.
	FindIDByLowerName(ctx context.Context, name string) (int64, error)
}

// CategoryRepository defines category read operations.
type CategoryRepository interface {
	ListAll(ctx context.Context) ([]domain.Category, error)
}
