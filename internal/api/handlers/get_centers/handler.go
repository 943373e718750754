package get_centers

import (
	"net/http"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
)

type Handler struct {
	catalog CenterCatalog
	logger  Logger
}

func NewHandler(catalog CenterCatalog, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/centers
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	centers, err := h.catalog.FetchCenters(r.Context())
	if err != nil {
		if handlers.RespondBackendError(w, err) {
			h.logger.Warn("GET /centers - Backend error: %v", err)
			return
		}
		h.logger.Error("GET /centers - Failed to fetch centers: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /centers - Centers retrieved: count=%d", len(centers))
	handlers.RespondJSON(w, http.StatusOK, FromDomainCenters(centers))
}
