package http

import (
	"log/slog"
	"net/http"

	"github.com/zunw/ecommerce/internal/service"
	"github.com/zunw/ecommerce/pkg/httputil"
	"github.com/zunw/ecommerce/pkg/validator"
)

// BrandHandler handles HTTP requests for brand endpoints.
type BrandHandler struct {
	service *service.BrandService
	logger  *slog.Logger
}

// NewBrandHandler creates a new brand HTTP handler.
func NewBrandHandler(svc *service.BrandService, logger *slog.Logger) *BrandHandler {
	return &BrandHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateBrandRequest is the JSON request body for creating a brand.
type CreateBrandRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// ListBrands handles GET /api/brand
func (h *BrandHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.ListBrands(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, brands)
}

// GetBrand handles GET /api/brand/{name}. The name must match exactly.
func (h *BrandHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r, "name")
	if !ok {
		return
	}

	brand, err := h.service.GetByName(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, brand)
}

// GetBrandID handles GET /api/brand/{name}/id. The name is matched ignoring case.
func (h *BrandHandler) GetBrandID(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r, "name")
	if !ok {
		return
	}

	id, err := h.service.GetIDByName(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, id)
}

// CreateBrand handles POST /api/brand
func (h *BrandHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req CreateBrandRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	brand, err := h.service.CreateBrand(r.Context(), &service.CreateBrandInput{Name: req.Name})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, brand)
}
