package rebook_appointment

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

// Handle POST /api/v1/appointments/{appointmentId}/rebook
// Выбор из записи станет начальным состоянием следующей сессии (POST /session)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/rebook - Missing customer ID")
		handlers.RespondUnauthorized(w, msgMissingCustomerID)
		return
	}

	appointmentID := mux.Vars(r)["appointmentId"]
	if appointmentID == "" {
		h.logger.Warn("POST /appointments/{id}/rebook - Empty appointment ID")
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	sel, err := h.service.Rebook(r.Context(), customerID, appointmentID)
	if err != nil {
		if handlers.RespondLifecycleError(w, err) {
			h.logger.Warn("POST /appointments/{id}/rebook - Rejected: appointment_id=%s, error=%v", appointmentID, err)
			return
		}
		h.logger.Error("POST /appointments/{id}/rebook - Failed: appointment_id=%s, error=%v", appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /appointments/{id}/rebook - Carryover stored: customer_id=%s, appointment_id=%s", customerID, appointmentID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromSelection(sel))
}
