package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/internal/repository"
	apperrors "github.com/zunw/ecommerce/pkg/errors"
)

// BrandEvents publishes brand domain events. *event.Producer implements it.
type BrandEvents interface {
	PublishBrandCreated(ctx context.Context, brand *domain.Brand) error
}

// BrandService implements the business logic for brand operations.
type BrandService struct {
	repo   repository.BrandRepository
	events BrandEvents
	logger *slog.Logger
}

// NewBrandService creates a new brand service. events may be nil, in which
// case no events are published.
func NewBrandService(repo repository.BrandRepository, events BrandEvents, logger *slog.Logger) *BrandService {
	return &BrandService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// CreateBrandInput holds the parameters for creating a brand.
type CreateBrandInput struct {
	Name string
}

// GetByName returns the brand named exactly name.
func (s *BrandService) GetByName(ctx context.Context, name string) (*domain.Brand, error) {
	brand, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get brand by name: %w", err)
	}
	if brand == nil {
		return nil, apperrors.NotFoundBy("brand", "name", name)
	}
	return brand, nil
}

// GetIDByName returns the id of the brand named name, ignoring case.
func (s *BrandService) GetIDByName(ctx context.Context, name string) (int64, error) {
	id, err := s.repo.FindIDByLowerName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("get brand id by name: %w", err)
	}
	return id, nil
}

// ListBrands returns all brands.
func (s *BrandService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	brands, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

// CreateBrand creates a brand. Names must be unique ignoring case.
func (s *BrandService) CreateBrand(ctx context.Context, input *CreateBrandInput) (*domain.Brand, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("brand name is required")
	}

	_, err := s.repo.FindIDByLowerName(ctx, name)
	switch {
	case err == nil, errors.Is(err, apperrors.ErrAmbiguous):
		return nil, apperrors.AlreadyExists("brand", "name", name)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("check brand name: %w", err)
	}

	// A concurrent create can pass the check above. The store's unique name
	// constraint decides the race and returns ErrAlreadyExists to the loser.
	brand := &domain.Brand{Name: name}
	if err := s.repo.Create(ctx, brand); err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishBrandCreated(ctx, brand); err != nil {
			// The brand is stored; a lost event must not fail the request.
			s.logger.ErrorContext(ctx, "failed to publish brand.created event",
				slog.Int64("brand_id", brand.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "brand created",
		slog.Int64("brand_id", brand.ID),
		slog.String("name", brand.Name),
	)
	return brand, nil
}
