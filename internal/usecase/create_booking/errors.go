package create_booking

import "errors"

var (
	// ErrIncompleteSelection возвращается, когда не выбраны обязательные поля записи
	ErrIncompleteSelection = errors.New("create_booking: selection is incomplete")

	// ErrInvalidDate возвращается при дате записи в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrTooLateToBook возвращается, когда выбранный слот уже начался
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")
)
