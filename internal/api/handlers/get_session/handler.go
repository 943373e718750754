package get_session

import (
	"net/http"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBooking/internal/api/middleware"
)

const msgMissingCustomerID = "отсутствует ID клиента"

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

// Handle GET /api/v1/session
// Query param refresh=true перезагружает списки для текущего выбора
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("GET /session - Missing customer ID")
		handlers.RespondUnauthorized(w, msgMissingCustomerID)
		return
	}

	controller, err := h.sessions.Get(customerID)
	if err != nil {
		h.logger.Warn("GET /session - No session: customer_id=%s", customerID)
		handlers.RespondSelectionError(w, err)
		return
	}

	if r.URL.Query().Get("refresh") == "true" {
		if err := controller.Refresh(r.Context()); err != nil {
			h.logger.Warn("GET /session - Refresh failed: customer_id=%s, error=%v", customerID, err)
			if !handlers.RespondSelectionError(w, err) {
				handlers.RespondInternalError(w)
			}
			return
		}
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromState(controller.Snapshot()))
}
