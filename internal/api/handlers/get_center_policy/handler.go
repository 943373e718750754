package get_center_policy

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
)

const msgInvalidCenterID = "некорректный ID центра"

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/centers/{centerId}/policy
// Query params: treatmentId (опционально)
// Без переопределений возвращаются окна из конфигурации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	centerID := mux.Vars(r)["centerId"]
	if centerID == "" {
		h.logger.Warn("GET /centers/{id}/policy - Empty center ID")
		handlers.RespondBadRequest(w, msgInvalidCenterID)
		return
	}
	treatmentID := r.URL.Query().Get("treatmentId")

	effective, err := h.service.Describe(r.Context(), centerID, treatmentID)
	if err != nil {
		h.logger.Error("GET /centers/{id}/policy - Failed to resolve policy: center_id=%s, error=%v", centerID, err)
		handlers.RespondInternalError(w)
		return
	}

	overrides, err := h.service.List(r.Context(), centerID)
	if err != nil {
		h.logger.Error("GET /centers/{id}/policy - Failed to list overrides: center_id=%s, error=%v", centerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /centers/{id}/policy - Policy retrieved successfully: center_id=%s, level=%s",
		centerID, effective.Level)
	handlers.RespondJSON(w, http.StatusOK, ToResponse(effective, overrides))
}
