package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/pkg/database"
)

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	db database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(db database.DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListAll returns all categories ordered by name.
func (r *CategoryRepository) ListAll(ctx context.Context) (_ []domain.Category, err error) {
	const query = `SELECT id, name FROM categories ORDER BY name, id`

	ctx, end := database.TraceQuery(ctx, "categories", "ListAll", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Category])
	if err != nil {
		return nil, storeError("scan category rows", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}
