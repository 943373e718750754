package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBooking/internal/service/selection"
	"github.com/m04kA/SMC-SpaBooking/internal/usecase/create_booking"
)

const (
	msgNoSession         = "сессия записи не начата"
	msgSessionClosed     = "сессия записи завершена"
	msgSuperseded        = "выбор изменился, повторите запрос"
	msgUnknownOption     = "выбранный вариант недоступен"
	msgOutOfOrder        = "сначала выберите предыдущий шаг"
	msgInvalidDate       = "дата в прошлом"
	msgNotesTooLong      = "заметка слишком длинная"
	msgIncomplete        = "выбор не завершён"
	msgTooLateToBook     = "слишком поздно для записи на этот слот"
	msgInvalidBookingReq = "некорректные данные записи"
)

// RespondSelectionError отвечает на ошибки сессии выбора и создания записи.
// Возвращает false, если ошибка не относится к ним.
func RespondSelectionError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, selection.ErrNoSession):
		RespondNotFound(w, msgNoSession)
	case errors.Is(err, selection.ErrSessionClosed):
		RespondError(w, http.StatusGone, msgSessionClosed)
	case errors.Is(err, selection.ErrSuperseded):
		RespondConflict(w, msgSuperseded)
	case errors.Is(err, selection.ErrUnknownOption):
		RespondUnprocessable(w, msgUnknownOption)
	case errors.Is(err, selection.ErrOutOfOrder):
		RespondConflict(w, msgOutOfOrder)
	case errors.Is(err, selection.ErrInvalidDate), errors.Is(err, create_booking.ErrInvalidDate):
		RespondBadRequest(w, msgInvalidDate)
	case errors.Is(err, selection.ErrNotesTooLong):
		RespondBadRequest(w, msgNotesTooLong)
	case errors.Is(err, selection.ErrIncompleteSelection), errors.Is(err, create_booking.ErrIncompleteSelection):
		RespondUnprocessable(w, msgIncomplete)
	case errors.Is(err, create_booking.ErrTooLateToBook):
		RespondBadRequest(w, msgTooLateToBook)
	case errors.Is(err, create_booking.ErrInvalidInput):
		RespondBadRequest(w, msgInvalidBookingReq)
	default:
		return RespondBackendError(w, err)
	}
	return true
}
