package policy

import "errors"

var (
	// ErrPolicyNotFound возвращается, когда переопределение не найдено
	ErrPolicyNotFound = errors.New("policy override not found")

	// ErrInvalidInput возвращается при некорректных окнах политики
	ErrInvalidInput = errors.New("invalid policy windows")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
