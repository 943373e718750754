package submit_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBooking/internal/api/middleware"
)

const (
	msgMissingCustomerID = "отсутствует ID клиента"
	msgInvalidBody       = "некорректное тело запроса"
)

type Handler struct {
	sessions SessionManager
	logger   Logger
}

func NewHandler(sessions SessionManager, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

// Handle POST /api/v1/session/submit
// Тело запроса необязательно
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("POST /session/submit - Missing customer ID")
		handlers.RespondUnauthorized(w, msgMissingCustomerID)
		return
	}

	var req SubmitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /session/submit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	controller, err := h.sessions.Get(customerID)
	if err != nil {
		h.logger.Warn("POST /session/submit - No session: customer_id=%s", customerID)
		handlers.RespondSelectionError(w, err)
		return
	}

	appointment, err := controller.Submit(r.Context(), req.Notes)
	if err != nil {
		if handlers.RespondSelectionError(w, err) {
			h.logger.Warn("POST /session/submit - Booking rejected: customer_id=%s, error=%v", customerID, err)
			return
		}
		h.logger.Error("POST /session/submit - Failed to book: customer_id=%s, error=%v", customerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /session/submit - Appointment booked: customer_id=%s, appointment_id=%s", customerID, appointment.ID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromAppointment(appointment))
}
