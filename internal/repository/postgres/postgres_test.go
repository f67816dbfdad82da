package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/internal/repository"
	apperrors "github.com/zunw/ecommerce/pkg/errors"
	"github.com/zunw/ecommerce/pkg/pagination"
)

// ─── helpers ────────────────────────────────────────────────────────────────

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var (
	idColumns       = []string{"id"}
	idNameColumns   = []string{"id", "name"}
	testProductCols = []string{
		"id", "name", "description", "price",
		"category_id", "brand_id", "status_id",
		"created_at", "updated_at",
	}
)

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          uuid.MustParse("6f1c2f6e-3d0b-4a7e-9f5e-2a1b3c4d5e6f"),
		Name:        "Anvil",
		Description: "Heavy",
		Price:       decimal.RequireFromString("19.99"),
		CategoryID:  3,
		BrandID:     1,
		StatusID:    1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productRow(p domain.Product) []any {
	return []any{
		p.ID, p.Name, p.Description, p.Price,
		p.CategoryID, p.BrandID, p.StatusID,
		p.CreatedAt, p.UpdatedAt,
	}
}

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

// ─── brands ─────────────────────────────────────────────────────────────────

func TestBrandRepository_FindByName(t *testing.T) {
	mock := newMock(t)
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("SELECT id, name FROM brands WHERE name").
		WithArgs("Acme").
		WillReturnRows(pgxmock.NewRows(idNameColumns).AddRow(int64(1), "Acme"))

	b, err := repo.FindByName(context.Background(), "Acme")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, domain.Brand{ID: 1, Name: "Acme"}, *b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_FindByName_Absent(t *testing.T) {
	mock := newMock(t)
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("SELECT id, name FROM brands WHERE name").
		WithArgs("acme").
		WillReturnRows(pgxmock.NewRows(idNameColumns))

	b, err := repo.FindByName(context.Background(), "acme")
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_FindByName_ConnectionError(t *testing.T) {
	mock := newMock(t)
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("SELECT id, name FROM brands").
		WithArgs("Acme").
		WillReturnError(errConnRefused)

	_, err := repo.FindByName(context.Background(), "Acme")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
}

func TestBrandRepository_FindIDByLowerName(t *testing.T) {
	tests := []struct {
		name    string
		rows    *pgxmock.Rows
		wantID  int64
		wantErr error
	}{
		{
			name:   "single match",
			rows:   pgxmock.NewRows(idColumns).AddRow(int64(1)),
			wantID: 1,
		},
		{
			name:    "no match",
			rows:    pgxmock.NewRows(idColumns),
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:    "two matches",
			rows:    pgxmock.NewRows(idColumns).AddRow(int64(1)).AddRow(int64(7)),
			wantErr: apperrors.ErrAmbiguous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewBrandRepository(mock)

			mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(name) = LOWER($1)")).
				WithArgs("ACME").
				WillReturnRows(tt.rows)

			id, err := repo.FindIDByLowerName(context.Background(), "ACME")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBrandRepository_ListAll(t *testing.T) {
	mock := newMock(t)
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("SELECT id, name FROM brands ORDER BY id").
		WillReturnRows(pgxmock.NewRows(idNameColumns).
			AddRow(int64(1), "Acme").
			AddRow(int64(2), "Globex"))

	brands, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Brand{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Globex"}}, brands)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_ListAll_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("SELECT id, name FROM brands").
		WillReturnRows(pgxmock.NewRows(idNameColumns))

	brands, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, brands)
	assert.Empty(t, brands)
}

func TestBrandRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("INSERT INTO brands").
		WithArgs("Initech").
		WillReturnRows(pgxmock.NewRows(idColumns).AddRow(int64(3)))

	b := &domain.Brand{Name: "Initech"}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, int64(3), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Create_Duplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewBrandRepository(mock)

	mock.ExpectQuery("INSERT INTO brands").
		WithArgs("Acme").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	err := repo.Create(context.Background(), &domain.Brand{Name: "Acme"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

// ─── statuses ───────────────────────────────────────────────────────────────

func TestStatusRepository_ListAll(t *testing.T) {
	mock := newMock(t)
	repo := NewStatusRepository(mock)

	mock.ExpectQuery("SELECT id, name FROM statuses ORDER BY id").
		WillReturnRows(pgxmock.NewRows(idNameColumns).
			AddRow(int64(1), "active").
			AddRow(int64(2), "discontinued"))

	statuses, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Status{{ID: 1, Name: "active"}, {ID: 2, Name: "discontinued"}}, statuses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepository_FindIDByName(t *testing.T) {
	mock := newMock(t)
	repo := NewStatusRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM statuses WHERE name = $1")).
		WithArgs("active").
		WillReturnRows(pgxmock.NewRows(idColumns).AddRow(int64(1)))

	id, err := repo.FindIDByName(context.Background(), "active")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepository_FindIDByName_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewStatusRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM statuses WHERE name = $1")).
		WithArgs("Active").
		WillReturnRows(pgxmock.NewRows(idColumns))

	_, err := repo.FindIDByName(context.Background(), "Active")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStatusRepository_FindIDByLowerName_Ambiguous(t *testing.T) {
	mock := newMock(t)
	repo := NewStatusRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(name) = LOWER($1)")).
		WithArgs("ACTIVE").
		WillReturnRows(pgxmock.NewRows(idColumns).AddRow(int64(1)).AddRow(int64(4)))

	_, err := repo.FindIDByLowerName(context.Background(), "ACTIVE")
	assert.True(t, errors.Is(err, apperrors.ErrAmbiguous))
}

func TestStatusRepository_FindIDByName_ConnectionError(t *testing.T) {
	mock := newMock(t)
	repo := NewStatusRepository(mock)

	mock.ExpectQuery("FROM statuses").
		WithArgs("active").
		WillReturnError(errConnRefused)

	_, err := repo.FindIDByName(context.Background(), "active")
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
}

// ─── lookup spans ───────────────────────────────────────────────────────────

func TestLookupSpans_NotFoundIsNotAnError(t *testing.T) {
	brandLookup := func(ctx context.Context, mock pgxmock.PgxPoolIface) error {
		_, err := NewBrandRepository(mock).FindIDByLowerName(ctx, "ghost")
		return err
	}
	statusLookup := func(ctx context.Context, mock pgxmock.PgxPoolIface) error {
		_, err := NewStatusRepository(mock).FindIDByLowerName(ctx, "ghost")
		return err
	}

	tests := []struct {
		name       string
		span       string
		rows       *pgxmock.Rows
		run        func(context.Context, pgxmock.PgxPoolIface) error
		wantStatus codes.Code
	}{
		{"brand not found", "db.brands.FindIDByLowerName", pgxmock.NewRows(idColumns), brandLookup, codes.Unset},
		{"status not found", "db.statuses.FindIDByLowerName", pgxmock.NewRows(idColumns), statusLookup, codes.Unset},
		{
			"brand ambiguous", "db.brands.FindIDByLowerName",
			pgxmock.NewRows(idColumns).AddRow(int64(1)).AddRow(int64(2)),
			brandLookup, codes.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := setupTestTracer(t)
			mock := newMock(t)
			mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(name) = LOWER($1)")).
				WithArgs("ghost").
				WillReturnRows(tt.rows)

			require.Error(t, tt.run(context.Background(), mock))

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.span, spans[0].Name)
			assert.Equal(t, tt.wantStatus, spans[0].Status.Code)
		})
	}
}

// ─── categories ─────────────────────────────────────────────────────────────

func TestCategoryRepository_ListAll(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	mock.ExpectQuery("SELECT id, name FROM categories").
		WillReturnRows(pgxmock.NewRows(idNameColumns).
			AddRow(int64(2), "Hardware").
			AddRow(int64(1), "Tools"))

	categories, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{ID: 2, Name: "Hardware"}, {ID: 1, Name: "Tools"}}, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─── products ───────────────────────────────────────────────────────────────

func TestProductRepository_FindByID(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)
	want := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(want.ID).
		WillReturnRows(pgxmock.NewRows(testProductCols).AddRow(productRow(want)...))

	got, err := repo.FindByID(context.Background(), want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.Price.Equal(got.Price))
	assert.Equal(t, want.CategoryID, got.CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByID_Absent(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(testProductCols))

	got, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductRepository_FindByCategoryID_DefaultOrder(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)
	p := sampleProduct()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM products WHERE category_id = $1 ORDER BY created_at ASC, id ASC LIMIT 2 OFFSET 2")).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(testProductCols).AddRow(productRow(p)...))

	products, err := repo.FindByCategoryID(context.Background(), pagination.Pageable{Page: 1, Size: 2}, 3)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByBrandID_Sorted(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM products WHERE brand_id = $1 ORDER BY price DESC, name ASC, id ASC LIMIT 20 OFFSET 0")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(testProductCols))

	p := pagination.Pageable{
		Size: 20,
		Sort: []pagination.Order{
			{Property: "price", Direction: pagination.Desc},
			{Property: "name", Direction: pagination.Asc},
		},
	}
	products, err := repo.FindByBrandID(context.Background(), p, 1)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByBrandID_UnknownSort(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	p := pagination.Pageable{Size: 20, Sort: []pagination.Order{{Property: "id; DROP TABLE products"}}}
	_, err := repo.FindByBrandID(context.Background(), p, 1)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Counts(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE category_id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE brand_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))

	n, err := repo.CountByCategoryID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = repo.CountByBrandID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ConnectionError(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery("FROM products").
		WithArgs(int64(3)).
		WillReturnError(errConnRefused)

	_, err := repo.FindByCategoryID(context.Background(), pagination.DefaultPageable(), 3)
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
}

func TestProductRepository_FindAll_Unfiltered(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)
	p := sampleProduct()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM products ORDER BY created_at ASC, id ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(pgxmock.NewRows(testProductCols).AddRow(productRow(p)...))

	products, err := repo.FindAll(context.Background(), pagination.DefaultPageable(), repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.Name, products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindAll_Filtered(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	f := repository.ProductFilter{
		CategoryIDs: []int64{3, 4},
		BrandIDs:    []int64{1},
		StatusIDs:   []int64{2},
		Search:      " 50%_off ",
	}
	pattern := `%50\%\_off%`

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM products WHERE category_id IN ($1,$2) AND brand_id IN ($3) AND status_id IN ($4) "+
			"AND (name ILIKE $5 OR description ILIKE $6) "+
			"ORDER BY name DESC, id ASC LIMIT 10 OFFSET 20")).
		WithArgs(int64(3), int64(4), int64(1), int64(2), pattern, pattern).
		WillReturnRows(pgxmock.NewRows(testProductCols))

	p := pagination.Pageable{Page: 2, Size: 10, Sort: []pagination.Order{{Property: "name", Direction: pagination.Desc}}}
	products, err := repo.FindAll(context.Background(), p, f)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Count_Filtered(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM products WHERE brand_id IN ($1,$2) AND (name ILIKE $3 OR description ILIKE $4)")).
		WithArgs(int64(1), int64(2), "%anvil%", "%anvil%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	n, err := repo.Count(context.Background(), repository.ProductFilter{BrandIDs: []int64{1, 2}, Search: "anvil"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Count_Unfiltered(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM products$`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := repo.Count(context.Background(), repository.ProductFilter{Search: "   "})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
