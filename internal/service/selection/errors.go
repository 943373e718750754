package selection

import "errors"

var (
	// ErrIncompleteSelection возвращается при попытке отправить незавершённый выбор
	ErrIncompleteSelection = errors.New("selection: selection is incomplete")

	// ErrSuperseded возвращается, когда результат загрузки устарел из-за более позднего изменения выбора
	ErrSuperseded = errors.New("selection: superseded by a newer change")

	// ErrUnknownOption возвращается, когда выбранный вариант отсутствует в загруженном списке
	ErrUnknownOption = errors.New("selection: option is not offered")

	// ErrOutOfOrder возвращается, когда не выбран предшествующий шаг каскада
	ErrOutOfOrder = errors.New("selection: upstream choice is missing")

	// ErrInvalidDate возвращается при выборе даты в прошлом
	ErrInvalidDate = errors.New("selection: invalid date")

	// ErrNotesTooLong возвращается, когда заметка превышает допустимую длину
	ErrNotesTooLong = errors.New("selection: notes are too long")

	// ErrSessionClosed возвращается после завершения сессии выбора
	ErrSessionClosed = errors.New("selection: session is closed")

	// ErrNoSession возвращается, когда у клиента нет активной сессии
	ErrNoSession = errors.New("selection: no active session")
)
