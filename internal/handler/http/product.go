package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zunw/ecommerce/internal/repository"
	"github.com/zunw/ecommerce/internal/service"
	apperrors "github.com/zunw/ecommerce/pkg/errors"
	"github.com/zunw/ecommerce/pkg/httputil"
	"github.com/zunw/ecommerce/pkg/pagination"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/products
//
// Filters: brand, category and status take ids, repeated or comma separated;
// searchQuery (or search) matches name and description. Paging and sorting
// use the same parameters as the other listings.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f, err := productFilterFromQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	p, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	page, err := h.service.ListProducts(r.Context(), f, p)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func productFilterFromQuery(q url.Values) (repository.ProductFilter, error) {
	var (
		f   repository.ProductFilter
		err error
	)
	if f.CategoryIDs, err = idList(q, "category"); err != nil {
		return f, err
	}
	if f.BrandIDs, err = idList(q, "brand"); err != nil {
		return f, err
	}
	if f.StatusIDs, err = idList(q, "status"); err != nil {
		return f, err
	}
	f.Search = q.Get("searchQuery")
	if f.Search == "" {
		f.Search = q.Get("search")
	}
	return f, nil
}

// idList collects the positive ids given for key as repeated parameters or
// comma separated values.
func idList(q url.Values, key string) ([]int64, error) {
	var ids []int64
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id < 1 {
				return nil, apperrors.InvalidInput(fmt.Sprintf("%s must be a positive integer id, got %q", key, part))
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// ListByCategory handles GET /api/products/category/{categoryId}
//
// Query parameters: page (zero-based), size or limit, sortBy with
// sortDirection, or repeated sort=property,direction.
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := httputil.ParseID(w, r, chi.URLParam(r, "categoryId"))
	if !ok {
		return
	}
	p, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	page, err := h.service.ListByCategory(r.Context(), categoryID, p)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// ListByBrand handles GET /api/products/brand/{brandId}
func (h *ProductHandler) ListByBrand(w http.ResponseWriter, r *http.Request) {
	brandID, ok := httputil.ParseID(w, r, chi.URLParam(r, "brandId"))
	if !ok {
		return
	}
	p, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	page, err := h.service.ListByBrand(r.Context(), brandID, p)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}
