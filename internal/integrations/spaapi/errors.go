package spaapi

import "errors"

var (
	// ErrNetwork возвращается, когда запрос не дошёл до бэкенда (соединение, таймаут, отмена)
	ErrNetwork = errors.New("spaapi client: network error")

	// ErrInvalidResponse возвращается при некорректном ответе бэкенда
	ErrInvalidResponse = errors.New("spaapi client: invalid response")

	// ErrNotFound возвращается, когда запрошенная сущность не найдена
	ErrNotFound = errors.New("spaapi client: not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("spaapi client: internal error")
)

// ServerError ошибка, которую вернул бэкенд.
// Error() возвращает сообщение сервера без изменений: оно показывается пользователю как есть.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}
