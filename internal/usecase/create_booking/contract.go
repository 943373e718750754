package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/integrations/spaapi"
)

// BackendClient интерфейс клиента бэкенда спа-центров
type BackendClient interface {
	SubmitBooking(ctx context.Context, req spaapi.BookingRequest) (string, error)
	FetchAppointment(ctx context.Context, customerID, appointmentID string) (*domain.Appointment, error)
}

// AppointmentRepository интерфейс локального хранилища записей
type AppointmentRepository interface {
	Save(ctx context.Context, appointment *domain.Appointment) error
}

// CalendarMirror интерфейс синхронизации записи с календарём напоминаний
type CalendarMirror interface {
	Upsert(ctx context.Context, appointment *domain.Appointment) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
