package update_center_policy

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBooking/internal/service/policy"
)

const (
	msgInvalidCenterID    = "некорректный ID центра"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные окна политики"
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

// Handle PUT /api/v1/centers/{centerId}/policy
// Создает переопределение или обновляет существующее для того же уровня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	centerID := mux.Vars(r)["centerId"]
	if centerID == "" {
		h.logger.Warn("PUT /centers/{id}/policy - Empty center ID")
		handlers.RespondBadRequest(w, msgInvalidCenterID)
		return
	}

	var req UpdateCenterPolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /centers/{id}/policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(centerID))
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("PUT /centers/{id}/policy - Invalid data: center_id=%s, error=%v", centerID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /centers/{id}/policy - Failed to save policy: center_id=%s, error=%v", centerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /centers/{id}/policy - Policy saved successfully: center_id=%s, policy_id=%d",
		centerID, result.Override.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromOverride(result))
}
