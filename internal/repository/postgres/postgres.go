package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zunw/ecommerce/pkg/database"
	apperrors "github.com/zunw/ecommerce/pkg/errors"
)

// storeError wraps err with op, marking it StoreUnavailable when the
// database could not be reached.
func storeError(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	if database.IsConnectionError(err) {
		return apperrors.StoreUnavailable(wrapped)
	}
	return wrapped
}

// singleID reads the id column of a query limited to two rows and insists on
// exactly one.
func singleID(rows pgx.Rows, resource, field, value string) (int64, error) {
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, err
	}
	switch len(ids) {
	case 0:
		return 0, apperrors.NotFoundBy(resource, field, value)
	case 1:
		return ids[0], nil
	default:
		return 0, apperrors.Ambiguous(resource, field, value)
	}
}

// endLookup closes the span of a single-row lookup. A missing row is an
// answer, not a failed query.
func endLookup(end func(error), err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		err = nil
	}
	end(err)
}
