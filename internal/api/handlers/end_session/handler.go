package end_session

import (
	"net/http"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBooking/internal/api/middleware"
)

const (
	msgMissingCustomerID = "отсутствует ID клиента"
	msgNoSession         = "сессия записи не начата"
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

// Handle DELETE /api/v1/session
// Завершает сессию и отменяет её незавершённые загрузки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /session - Missing customer ID")
		handlers.RespondUnauthorized(w, msgMissingCustomerID)
		return
	}

	if !h.sessions.End(customerID) {
		h.logger.Warn("DELETE /session - No session: customer_id=%s", customerID)
		handlers.RespondNotFound(w, msgNoSession)
		return
	}

	h.logger.Info("DELETE /session - Session ended: customer_id=%s", customerID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
