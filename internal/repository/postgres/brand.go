package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/pkg/database"
	apperrors "github.com/zunw/ecommerce/pkg/errors"
)

const brandsTable = "brands"

// BrandRepository implements repository.BrandRepository using PostgreSQL.
type BrandRepository struct {
	db database.DBTX
}

// NewBrandRepository creates a new PostgreSQL-backed brand repository.
func NewBrandRepository(db database.DBTX) *BrandRepository {
	return &BrandRepository{db: db}
}

// FindByName returns the brand whose name matches exactly, or nil.
func (r *BrandRepository) FindByName(ctx context.Context, name string) (_ *domain.Brand, err error) {
	const query = `SELECT id, name FROM brands WHERE name = $1`

	ctx, end := database.TraceQuery(ctx, brandsTable, "FindByName", query)
	defer func() { end(err) }()

	var b domain.Brand
	if err := r.db.QueryRow(ctx, query, name).Scan(&b.ID, &b.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("find brand by name", err)
	}
	return &b, nil
}

// FindIDByLowerName resolves a brand id ignoring case.
func (r *BrandRepository) FindIDByLowerName(ctx context.Context, name string) (_ int64, err error) {
	const query = `
		SELECT id FROM brands
		WHERE LOWER(name) = LOWER($1)
		ORDER BY id
		LIMIT 2`

	ctx, end := database.TraceQuery(ctx, brandsTable, "FindIDByLowerName", query)
	defer func() { endLookup(end, err) }()

	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return 0, storeError("find brand id by name", err)
	}
	id, err := singleID(rows, "brand", "name", name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrAmbiguous) {
		return 0, storeError("scan brand id", err)
	}
	return id, err
}

// ListAll returns all brands in insertion order.
func (r *BrandRepository) ListAll(ctx context.Context) (_ []domain.Brand, err error) {
	const query = `SELECT id, name FROM brands ORDER BY id`

	ctx, end := database.TraceQuery(ctx, brandsTable, "ListAll", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("list brands", err)
	}
	brands, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Brand])
	if err != nil {
		return nil, storeError("scan brand rows", err)
	}
	if brands == nil {
		brands = []domain.Brand{}
	}
	return brands, nil
}

// Create inserts b and fills in its generated ID. The unique index on
// LOWER(name) rejects names that differ from an existing one only in case,
// including ones inserted concurrently.
func (r *BrandRepository) Create(ctx context.Context, b *domain.Brand) (err error) {
	const query = `INSERT INTO brands (name) VALUES ($1) RETURNING id`

	ctx, end := database.TraceQuery(ctx, brandsTable, "Create", query)
	defer func() { end(err) }()

	if err := r.db.QueryRow(ctx, query, b.Name).Scan(&b.ID); err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("brand", "name", b.Name)
		}
		return storeError("insert brand", err)
	}
	return nil
}
