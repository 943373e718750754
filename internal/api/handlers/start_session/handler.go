package start_session

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

// Handle POST /api/v1/session
// Начинает новую сессию записи; предыдущая сессия клиента закрывается.
// Ошибка загрузки списков для повторной записи не мешает начать сессию.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("POST /session - Missing customer ID")
		handlers.RespondUnauthorized(w, msgMissingCustomerID)
		return
	}

	controller, err := h.sessions.Start(r.Context(), customerID)
	if err != nil {
		h.logger.Warn("POST /session - Carryover lists not loaded: customer_id=%s, error=%v", customerID, err)
	}

	state := controller.Snapshot()
	h.logger.Info("POST /session - Session started: customer_id=%s, carryover=%t", customerID, state.Carryover)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromState(state))
}
