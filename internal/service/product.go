package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/internal/repository"
	apperrors "github.com/zunw/ecommerce/pkg/errors"
	"github.com/zunw/ecommerce/pkg/pagination"
)

const maxSearchLength = 255

// ProductService implements the read side of the product catalog.
type ProductService struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product", id.String())
	}
	return product, nil
}

// ListByCategory returns one page of the category's products.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID int64, p pagination.Pageable) (*pagination.Page[domain.Product], error) {
	return s.list(ctx, p,
		func() ([]domain.Product, error) { return s.repo.FindByCategoryID(ctx, p, categoryID) },
		func() (int64, error) { return s.repo.CountByCategoryID(ctx, categoryID) },
	)
}

// ListByBrand returns one page of the brand's products.
func (s *ProductService) ListByBrand(ctx context.Context, brandID int64, p pagination.Pageable) (*pagination.Page[domain.Product], error) {
	return s.list(ctx, p,
		func() ([]domain.Product, error) { return s.repo.FindByBrandID(ctx, p, brandID) },
		func() (int64, error) { return s.repo.CountByBrandID(ctx, brandID) },
	)
}

// ListProducts returns one page of the products matching f.
func (s *ProductService) ListProducts(ctx context.Context, f repository.ProductFilter, p pagination.Pageable) (*pagination.Page[domain.Product], error) {
	f.Search = strings.TrimSpace(f.Search)
	if len(f.Search) > maxSearchLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("search must be at most %d characters", maxSearchLength))
	}
	return s.list(ctx, p,
		func() ([]domain.Product, error) { return s.repo.FindAll(ctx, p, f) },
		func() (int64, error) { return s.repo.Count(ctx, f) },
	)
}

func (s *ProductService) list(
	ctx context.Context,
	p pagination.Pageable,
	find func() ([]domain.Product, error),
	count func() (int64, error),
) (*pagination.Page[domain.Product], error) {
	if err := p.Validate(domain.ProductSortProperties()...); err != nil {
		return nil, err
	}

	products, err := find()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	total, err := count()
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	page := pagination.NewPage(products, total, p)
	s.logger.DebugContext(ctx, "listed products",
		slog.Int("page", page.Number),
		slog.Int("size", page.Size),
		slog.Int64("total", page.TotalElements),
	)
	return &page, nil
}
