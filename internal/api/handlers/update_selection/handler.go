package update_selection

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/service/selection"
	"github.com/m04kA/SMC-SpaBooking/pkg/types"
)

const (
	msgMissingCustomerID = "отсутствует ID клиента"
	msgUnknownStep       = "неизвестный шаг выбора"
	msgInvalidBody       = "некорректное тело запроса"
	msgEmptyID           = "не указан идентификатор"
	msgInvalidChoice     = "укажите идентификаторы или noPreference"
	msgInvalidDateFormat = "дата должна быть в формате YYYY-MM-DD"
	msgInvalidTime       = "время должно быть в формате HH:mm"
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

// Handle PUT /api/v1/session/{step}
// step: center, treatment, addons, therapists, date, timeslot, notes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("PUT /session/{step} - Missing customer ID")
		handlers.RespondUnauthorized(w, msgMissingCustomerID)
		return
	}

	step := mux.Vars(r)["step"]

	controller, err := h.sessions.Get(customerID)
	if err != nil {
		h.logger.Warn("PUT /session/%s - No session: customer_id=%s", step, customerID)
		handlers.RespondSelectionError(w, err)
		return
	}

	if !h.apply(w, r, controller, step) {
		return
	}

	h.logger.Info("PUT /session/%s - Selection updated: customer_id=%s", step, customerID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromState(controller.Snapshot()))
}

// apply применяет шаг выбора; false - ответ уже отправлен
func (h *Handler) apply(w http.ResponseWriter, r *http.Request, c *selection.Controller, step string) bool {
	var err error

	switch step {
	case StepCenter:
		var req CenterRequest
		if !h.decode(w, r, step, &req) {
			return false
		}
		if req.CenterID == "" {
			handlers.RespondBadRequest(w, msgEmptyID)
			return false
		}
		err = c.SetCenter(r.Context(), req.CenterID)

	case StepTreatment:
		var req TreatmentRequest
		if !h.decode(w, r, step, &req) {
			return false
		}
		if req.TreatmentID == "" {
			handlers.RespondBadRequest(w, msgEmptyID)
			return false
		}
		err = c.SetTreatment(r.Context(), req.TreatmentID)

	case StepAddons, StepTherapists:
		var req ChoiceRequest
		if !h.decode(w, r, step, &req) {
			return false
		}
		if !req.valid() {
			handlers.RespondBadRequest(w, msgInvalidChoice)
			return false
		}
		if step == StepAddons {
			err = c.SetAddons(r.Context(), req.toAddons())
		} else {
			err = c.SetTherapists(r.Context(), req.toTherapists())
		}

	case StepDate:
		var req DateRequest
		if !h.decode(w, r, step, &req) {
			return false
		}
		date, parseErr := time.Parse(domain.DateFormat, req.Date)
		if parseErr != nil {
			h.logger.Warn("PUT /session/date - Invalid date %q: %v", req.Date, parseErr)
			handlers.RespondBadRequest(w, msgInvalidDateFormat)
			return false
		}
		err = c.SetDate(r.Context(), date)

	case StepTimeSlot:
		var req TimeSlotRequest
		if !h.decode(w, r, step, &req) {
			return false
		}
		slot, parseErr := types.ParseTimeSlot(req.Time)
		if parseErr != nil {
			h.logger.Warn("PUT /session/timeslot - Invalid time %q: %v", req.Time, parseErr)
			handlers.RespondBadRequest(w, msgInvalidTime)
			return false
		}
		if req.LocationID == "" || req.TherapistID == "" {
			handlers.RespondBadRequest(w, msgEmptyID)
			return false
		}
		err = c.SetTimeSlot(req.LocationID, req.TherapistID, slot)

	case StepNotes:
		var req NotesRequest
		if !h.decode(w, r, step, &req) {
			return false
		}
		err = c.SetNotes(req.Notes)

	default:
		h.logger.Warn("PUT /session/%s - Unknown step", step)
		handlers.RespondNotFound(w, msgUnknownStep)
		return false
	}

	if err != nil {
		h.logger.Warn("PUT /session/%s - Failed to update selection: %v", step, err)
		if !handlers.RespondSelectionError(w, err) {
			handlers.RespondInternalError(w)
		}
		return false
	}
	return true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, step string, v interface{}) bool {
	if err := handlers.DecodeJSON(r, v); err != nil {
		h.logger.Warn("PUT /session/%s - Invalid request body: %v", step, err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return false
	}
	return true
}
