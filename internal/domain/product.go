package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. It belongs to exactly one category and one
// brand and carries one status.
type Product struct {
	ID          uuid.UUID       `json:"productId" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CategoryID  int64           `json:"categoryId" db:"category_id"`
	BrandID     int64           `json:"brandId" db:"brand_id"`
	StatusID    int64           `json:"statusId" db:"status_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// Product properties clients may sort by, mapped to their columns.
var ProductSortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// ProductSortProperties lists the keys of ProductSortColumns in a stable order.
func ProductSortProperties() []string {
	return []string{"name", "price", "createdAt", "updatedAt"}
}
