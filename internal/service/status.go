package service

import (
	"context"
	"fmt"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/internal/repository"
	apperrors "github.com/zunw/ecommerce/pkg/errors"
)

// StatusService answers product status lookups.
type StatusService struct {
	repo            repository.StatusRepository
	caseInsensitive bool
}

// NewStatusService creates a new status service. With caseInsensitive set,
// names are matched ignoring case; otherwise they must match exactly.
func NewStatusService(repo repository.StatusRepository, caseInsensitive bool) *StatusService {
	return &StatusService{
		repo:            repo,
		caseInsensitive: caseInsensitive,
	}
}

// GetAllProductStatuses returns every status in store order.
func (s *StatusService) GetAllProductStatuses(ctx context.Context) ([]domain.Status, error) {
	statuses, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return statuses, nil
}

// GetStatusIDByName returns the id of the named status.
func (s *StatusService) GetStatusIDByName(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, apperrors.InvalidInput("status name is required")
	}

	find := s.repo.FindIDByName
	if s.caseInsensitive {
		find = s.repo.FindIDByLowerName
	}

	id, err := find(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("get status id by name: %w", err)
	}
	return id, nil
}
