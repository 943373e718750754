package cancel_appointment

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBooking/internal/api/middleware"
)

const (
	msgMissingCustomerID    = "отсутствует ID клиента"
	msgInvalidAppointmentID = "некорректный ID записи"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/cancel
// Событие календаря удаляется вместе с записью
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/cancel - Missing customer ID")
		handlers.RespondUnauthorized(w, msgMissingCustomerID)
		return
	}

	appointmentID := mux.Vars(r)["appointmentId"]
	if appointmentID == "" {
		h.logger.Warn("POST /appointments/{id}/cancel - Empty appointment ID")
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	err := h.service.Cancel(r.Context(), customerID, appointmentID)
	if err != nil {
		if handlers.RespondLifecycleError(w, err) {
			h.logger.Warn("POST /appointments/{id}/cancel - Rejected: appointment_id=%s, error=%v", appointmentID, err)
			return
		}
		h.logger.Error("POST /appointments/{id}/cancel - Failed: appointment_id=%s, error=%v", appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /appointments/{id}/cancel - Appointment cancelled: customer_id=%s, appointment_id=%s", customerID, appointmentID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
