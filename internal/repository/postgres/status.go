package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/pkg/database"
	apperrors "github.com/zunw/ecommerce/pkg/errors"
)

const statusesTable = "statuses"

// StatusRepository implements repository.StatusRepository using PostgreSQL.
type StatusRepository struct {
	db database.DBTX
}

// NewStatusRepository creates a new PostgreSQL-backed status repository.
func NewStatusRepository(db database.DBTX) *StatusRepository {
	return &StatusRepository{db: db}
}

// ListAll returns every status in insertion order.
func (r *StatusRepository) ListAll(ctx context.Context) (_ []domain.Status, err error) {
	const query = `SELECT id, name FROM statuses ORDER BY id`

	ctx, end := database.TraceQuery(ctx, statusesTable, "ListAll", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("list statuses", err)
	}
	statuses, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Status])
	if err != nil {
		return nil, storeError("scan status rows", err)
	}
	if statuses == nil {
		statuses = []domain.Status{}
	}
	return statuses, nil
}

// FindIDByName resolves a status id by exact name.
func (r *StatusRepository) FindIDByName(ctx context.Context, name string) (int64, error) {
	const query = `
		SELECT id FROM statuses
		WHERE name = $1
		ORDER BY id
		LIMIT 2`
	return r.findID(ctx, "FindIDByName", query, name)
}

// FindIDByLowerName resolves a status id ignoring case.
func (r *StatusRepository) FindIDByLowerName(ctx context.Context, name string) (int64, error) {
	const query = `
		SELECT id FROM statuses
		WHERE LOWER(name) = LOWER($1)
		ORDER BY id
		LIMIT 2`
	return r.findID(ctx, "FindIDByLowerName", query, name)
}

func (r *StatusRepository) findID(ctx context.Context, op, query, name string) (_ int64, err error) {
	ctx, end := database.TraceQuery(ctx, statusesTable, op, query)
	defer func() { endLookup(end, err) }()

	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return 0, storeError("find status id", err)
	}
	id, err := singleID(rows, "status", "name", name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrAmbiguous) {
		return 0, storeError("scan status id", err)
	}
	return id, err
}
