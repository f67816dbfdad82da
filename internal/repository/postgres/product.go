package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/internal/repository"
	"github.com/zunw/ecommerce/pkg/database"
	apperrors "github.com/zunw/ecommerce/pkg/errors"
	"github.com/zunw/ecommerce/pkg/pagination"
)

const productsTable = "products"

var productColumns = []string{
	"id", "name", "description", "price",
	"category_id", "brand_id", "status_id",
	"created_at", "updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// likeEscaper escapes LIKE wildcards using Postgres' default escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByID returns the product with id, or nil when there is none.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (_ *domain.Product, err error) {
	query, args, err := psql.Select(productColumns...).
		From(productsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}

	ctx, end := database.TraceQuery(ctx, productsTable, "FindByID", query)
	defer func() { end(err) }()

	var p domain.Product
	if err := pgxscan.Get(ctx, r.db, &p, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, storeError("get product", err)
	}
	return &p, nil
}

// FindByCategoryID returns one page of products in the category.
func (r *ProductRepository) FindByCategoryID(ctx context.Context, p pagination.Pageable, categoryID int64) ([]domain.Product, error) {
	return r.findPage(ctx, "FindByCategoryID", p, sq.Eq{"category_id": categoryID})
}

// FindByBrandID returns one page of products of the brand.
func (r *ProductRepository) FindByBrandID(ctx context.Context, p pagination.Pageable, brandID int64) ([]domain.Product, error) {
	return r.findPage(ctx, "FindByBrandID", p, sq.Eq{"brand_id": brandID})
}

// FindAll returns one page of the products matching f.
func (r *ProductRepository) FindAll(ctx context.Context, p pagination.Pageable, f repository.ProductFilter) ([]domain.Product, error) {
	return r.findPage(ctx, "FindAll", p, productConditions(f)...)
}

// CountByCategoryID counts the products in the category.
func (r *ProductRepository) CountByCategoryID(ctx context.Context, categoryID int64) (int64, error) {
	return r.count(ctx, "CountByCategoryID", sq.Eq{"category_id": categoryID})
}

// CountByBrandID counts the products of the brand.
func (r *ProductRepository) CountByBrandID(ctx context.Context, brandID int64) (int64, error) {
	return r.count(ctx, "CountByBrandID", sq.Eq{"brand_id": brandID})
}

// Count counts the products matching f.
func (r *ProductRepository) Count(ctx context.Context, f repository.ProductFilter) (int64, error) {
	return r.count(ctx, "Count", productConditions(f)...)
}

// productConditions turns f into WHERE terms, one per non-empty field.
func productConditions(f repository.ProductFilter) []sq.Sqlizer {
	var where []sq.Sqlizer
	if len(f.CategoryIDs) > 0 {
		where = append(where, sq.Eq{"category_id": f.CategoryIDs})
	}
	if len(f.BrandIDs) > 0 {
		where = append(where, sq.Eq{"brand_id": f.BrandIDs})
	}
	if len(f.StatusIDs) > 0 {
		where = append(where, sq.Eq{"status_id": f.StatusIDs})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
		})
	}
	return where
}

func (r *ProductRepository) findPage(ctx context.Context, op string, p pagination.Pageable, where ...sq.Sqlizer) (_ []domain.Product, err error) {
	orderBy, err := productOrderBy(p)
	if err != nil {
		return nil, err
	}

	b := psql.Select(productColumns...).From(productsTable)
	for _, w := range where {
		b = b.Where(w)
	}
	query, args, err := b.
		OrderBy(orderBy...).
		Limit(uint64(p.Size)).      // #nosec G115 -- validated positive
		Offset(uint64(p.Offset())). // #nosec G115 -- validated non-negative
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product page query: %w", err)
	}

	ctx, end := database.TraceQuery(ctx, productsTable, op, query)
	defer func() { end(err) }()

	products := []domain.Product{}
	if err := pgxscan.Select(ctx, r.db, &products, query, args...); err != nil {
		return nil, storeError("list products", err)
	}
	return products, nil
}

func (r *ProductRepository) count(ctx context.Context, op string, where ...sq.Sqlizer) (_ int64, err error) {
	b := psql.Select("COUNT(*)").From(productsTable)
	for _, w := range where {
		b = b.Where(w)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build product count query: %w", err)
	}

	ctx, end := database.TraceQuery(ctx, productsTable, op, query)
	defer func() { end(err) }()

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, storeError("count products", err)
	}
	return n, nil
}

// productOrderBy translates the requested sort into ORDER BY terms. Without a
// sort, products come back in insertion order. id is always the last term so
// pages never overlap.
func productOrderBy(p pagination.Pageable) ([]string, error) {
	if err := p.Validate(domain.ProductSortProperties()...); err != nil {
		return nil, err
	}
	if !p.Sorted() {
		return []string{"created_at ASC", "id ASC"}, nil
	}

	terms := make([]string, 0, len(p.Sort)+1)
	for _, o := range p.Sort {
		col, ok := domain.ProductSortColumns[o.Property]
		if !ok {
			return nil, apperrors.InvalidInput(fmt.Sprintf("cannot sort by %q", o.Property))
		}
		dir := "ASC"
		if o.Direction == pagination.Desc {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
	}
	return append(terms, "id ASC"), nil
}
