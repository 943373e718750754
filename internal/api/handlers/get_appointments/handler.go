package get_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBooking/internal/api/middleware"
)

const msgMissingCustomerID = "отсутствует ID клиента"

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

// Handle GET /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Missing customer ID")
		handlers.RespondUnauthorized(w, msgMissingCustomerID)
		return
	}

	views, err := h.service.List(r.Context(), customerID)
	if err != nil {
		h.logger.Error("GET /appointments - Failed to get appointments: customer_id=%s, error=%v", customerID, err)
		handlers.RespondInternalError(w)
		return
	}

	result := make([]*handlers.AppointmentResponse, 0, len(views))
	for _, view := range views {
		result = append(result, handlers.FromAppointmentView(view))
	}

	h.logger.Info("GET /appointments - Appointments retrieved successfully: customer_id=%s, count=%d",
		customerID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
