package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_JSONFieldNames(t *testing.T) {
	p := Product{
		ID:          uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Name:        "Anvil",
		Description: "Heavy",
		Price:       decimal.RequireFromString("19.99"),
		CategoryID:  3,
		BrandID:     1,
		StatusID:    1,
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"productId": "550e8400-e29b-41d4-a716-446655440000",
		"name": "Anvil",
		"description": "Heavy",
		"price": "19.99",
		"categoryId": 3,
		"brandId": 1,
		"statusId": 1,
		"createdAt": "2025-01-02T03:04:05Z",
		"updatedAt": "2025-01-02T03:04:05Z"
	}`, string(raw))
}

func TestBrandAndStatus_JSONFieldNames(t *testing.T) {
	b, err := json.Marshal(Brand{ID: 1, Name: "Acme"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"brandId":1,"name":"Acme"}`, string(b))

	s, err := json.Marshal(Status{ID: 2, Name: "discontinued"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusId":2,"name":"discontinued"}`, string(s))
}

func TestProductSortProperties_MatchColumns(t *testing.T) {
	props := ProductSortProperties()
	assert.Len(t, props, len(ProductSortColumns))
	for _, p := range props {
		assert.Contains(t, ProductSortColumns, p)
	}
}
