package http

import (
	"log/slog"
	"net/http"

	"github.com/zunw/ecommerce/internal/service"
	"github.com/zunw/ecommerce/pkg/httputil"
)

// StatusHandler handles HTTP requests for product status endpoints.
type StatusHandler struct {
	service *service.StatusService
	logger  *slog.Logger
}

// NewStatusHandler creates a new status HTTP handler.
func NewStatusHandler(svc *service.StatusService, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		service: svc,
		logger:  logger,
	}
}

// ListStatuses handles GET /api/status
func (h *StatusHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.GetAllProductStatuses(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statuses)
}

// GetStatusID handles GET /api/status/{name} and answers with the bare id.
func (h *StatusHandler) GetStatusID(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r, "name")
	if !ok {
		return
	}

	id, err := h.service.GetStatusIDByName(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, id)
}
