package calendar

import "errors"

var (
	// ErrEventNotFound возвращается при обновлении отсутствующего события
	ErrEventNotFound = errors.New("calendar: event not found")

	// ErrStorage возвращается при ошибке обращения к Redis
	ErrStorage = errors.New("calendar: storage error")

	// ErrCorruptEvent возвращается, когда сохранённое событие не удаётся прочитать
	ErrCorruptEvent = errors.New("calendar: corrupt event")
)
