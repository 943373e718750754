package create_booking

import "github.com/m04kA/SMC-SpaBooking/internal/domain"

// Request модель запроса на создание записи
type Request struct {
	CustomerID string           // ID клиента
	Selection  domain.Selection // Выбор пользователя (центр, услуга, доп. услуги, мастер, дата и время)
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	Stored      bool // false - запись создана на бэкенде, но локально не сохранена
	Mirrored    bool // событие создано в календаре напоминаний
}
