package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBooking/internal/integrations/spaapi"
)

const (
	msgInternalError      = "внутренняя ошибка сервера"
	msgBackendUnavailable = "сервис записи недоступен, попробуйте позже"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RespondJSON пишет ответ в JSON; data == nil - пустое тело
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondUnprocessable(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnprocessableEntity, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondBackendError отвечает на ошибку бэкенда спа-центров.
// Сообщение сервера передаётся пользователю без изменений.
// Возвращает false, если err не является ошибкой бэкенда.
func RespondBackendError(w http.ResponseWriter, err error) bool {
	var serverErr *spaapi.ServerError
	switch {
	case errors.As(err, &serverErr):
		status := serverErr.StatusCode
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		RespondError(w, status, serverErr.Error())
		return true
	case errors.Is(err, spaapi.ErrNetwork), errors.Is(err, spaapi.ErrInvalidResponse), errors.Is(err, spaapi.ErrInternal):
		RespondError(w, http.StatusBadGateway, msgBackendUnavailable)
		return true
	}
	return false
}

// DecodeJSON декодирует тело запроса
func DecodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
