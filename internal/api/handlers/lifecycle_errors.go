package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBooking/internal/service/calendarmirror"
	"github.com/m04kA/SMC-SpaBooking/internal/service/lifecycle"
)

const (
	msgAppointmentNotFound = "запись не найдена"
	msgNotConfirmable      = "запись сейчас нельзя подтвердить"
	msgNotCancellable      = "запись сейчас нельзя отменить"
	msgCalendarDenied      = "нет доступа к календарю"
)

// RespondLifecycleError отвечает на ошибки действий с записями.
// Возвращает false, если ошибка не относится к ним.
func RespondLifecycleError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, lifecycle.ErrAppointmentNotFound):
		RespondNotFound(w, msgAppointmentNotFound)
	case errors.Is(err, lifecycle.ErrNotConfirmable):
		RespondConflict(w, msgNotConfirmable)
	case errors.Is(err, lifecycle.ErrNotCancellable):
		RespondConflict(w, msgNotCancellable)
	case errors.Is(err, calendarmirror.ErrPermissionDenied):
		RespondForbidden(w, msgCalendarDenied)
	default:
		return RespondBackendError(w, err)
	}
	return true
}
