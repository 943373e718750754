package delete_center_policy

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBooking/internal/service/policy"
)

const (
	msgInvalidCenterID = "некорректный ID центра"
	msgNotFound        = "переопределение политики не найдено"
)

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

// Handle DELETE /api/v1/centers/{centerId}/policy
// Query params: treatmentId (опционально); без него удаляется политика всего центра
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	centerID := mux.Vars(r)["centerId"]
	if centerID == "" {
		h.logger.Warn("DELETE /centers/{id}/policy - Empty center ID")
		handlers.RespondBadRequest(w, msgInvalidCenterID)
		return
	}

	var treatmentID *string
	if t := r.URL.Query().Get("treatmentId"); t != "" {
		treatmentID = &t
	}

	if err := h.service.Delete(r.Context(), centerID, treatmentID); err != nil {
		if errors.Is(err, policy.ErrPolicyNotFound) {
			h.logger.Warn("DELETE /centers/{id}/policy - Not found: center_id=%s, treatment_id=%v", centerID, treatmentID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /centers/{id}/policy - Failed to delete policy: center_id=%s, error=%v", centerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /centers/{id}/policy - Policy deleted: center_id=%s", centerID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
