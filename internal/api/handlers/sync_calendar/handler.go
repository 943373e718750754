package sync_calendar

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

// Handle POST /api/v1/appointments/sync-calendar
// Создает события для актуальных записей и удаляет события остальных
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/sync-calendar - Missing customer ID")
		handlers.RespondUnauthorized(w, msgMissingCustomerID)
		return
	}

	result, err := h.service.SyncMirror(r.Context(), customerID)
	if err != nil {
		if handlers.RespondLifecycleError(w, err) {
			h.logger.Warn("POST /appointments/sync-calendar - Rejected: customer_id=%s, error=%v", customerID, err)
			return
		}
		h.logger.Error("POST /appointments/sync-calendar - Failed: customer_id=%s, error=%v", customerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /appointments/sync-calendar - Calendar synced: customer_id=%s, mirrored=%d, removed=%d",
		customerID, result.Mirrored, result.Removed)
	handlers.RespondJSON(w, http.StatusOK, FromSyncResult(result))
}
