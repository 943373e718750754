package calendarmirror

import (
	"context"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// Calendar интерфейс календаря напоминаний.
// Внешних ключей у календаря нет: события ищутся по тегу, пустой AppointmentID
// означает все события клиента.
type Calendar interface {
	Search(ctx context.Context, tag domain.MirrorTag) ([]domain.MirrorEvent, error)
	Create(ctx context.Context, event domain.MirrorEvent) (string, error)
	Update(ctx context.Context, event domain.MirrorEvent) error
	Delete(ctx context.Context, eventID string) error
}

// Authorizer интерфейс разрешения на доступ к календарю
type Authorizer interface {
	Status(ctx context.Context) (domain.CalendarAccess, error)
	Request(ctx context.Context) (domain.CalendarAccess, error)
}

// Metrics учет операций с календарём
type Metrics interface {
	ObserveMirrorOperation(operation string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
