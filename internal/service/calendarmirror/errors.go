package calendarmirror

import "errors"

var (
	// ErrPermissionDenied возвращается, когда доступ к календарю не выдан
	ErrPermissionDenied = errors.New("calendarmirror: calendar permission denied")

	// ErrCalendar возвращается при ошибке записи в календарь
	ErrCalendar = errors.New("calendarmirror: calendar operation failed")
)
