package lifecycle

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// BackendClient действия с записью на стороне бэкенда
type BackendClient interface {
	FetchAppointment(ctx context.Context, customerID, appointmentID string) (*domain.Appointment, error)
	ConfirmAppointment(ctx context.Context, customerID, appointmentID string) error
	CancelAppointment(ctx context.Context, customerID, appointmentID string) error
}

// AppointmentRepository интерфейс локального хранилища записей
type AppointmentRepository interface {
	Save(ctx context.Context, appointment *domain.Appointment) error
	GetByID(ctx context.Context, customerID, id string) (*domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Appointment, error)
	UpdateState(ctx context.Context, customerID, id string, state domain.AppointmentState) error
	Delete(ctx context.Context, customerID, id string) error
}

// PolicyResolver возвращает окна подтверждения и отмены для процедуры в центре
type PolicyResolver interface {
	Effective(ctx context.Context, centerID, treatmentID string) (domain.Policy, error)
}

// CalendarMirror синхронизация записей с календарём напоминаний
type CalendarMirror interface {
	Upsert(ctx context.Context, appointment *domain.Appointment) error
	DeleteForAppointment(ctx context.Context, customerID, appointmentID string) error
	Reconcile(ctx context.Context, customerID string, liveIDs []string) (int, error)
}

// Carryover хранилище выбора для повторной записи
type Carryover interface {
	Put(customerID string, appointment *domain.Appointment) domain.Selection
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
