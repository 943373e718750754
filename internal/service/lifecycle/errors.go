package lifecycle

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrNotConfirmable возвращается, когда запись сейчас нельзя подтвердить
	ErrNotConfirmable = errors.New("appointment cannot be confirmed now")

	// ErrNotCancellable возвращается, когда запись сейчас нельзя отменить
	ErrNotCancellable = errors.New("appointment cannot be cancelled now")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
