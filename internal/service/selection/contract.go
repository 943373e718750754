package selection

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/integrations/spaapi"
	"github.com/m04kA/SMC-SpaBooking/internal/usecase/create_booking"
)

// CatalogClient интерфейс загрузки справочников и доступности
type CatalogClient interface {
	FetchCenters(ctx context.Context) ([]domain.Center, error)
	FetchTreatments(ctx context.Context, centerID string) ([]domain.Treatment, error)
	FetchAddons(ctx context.Context, centerID, treatmentID string) ([]domain.Addon, error)
	FetchTherapists(ctx context.Context, centerID, treatmentID string, addonIDs []string) ([]domain.Therapist, error)
	FetchSlotDates(ctx context.Context, q spaapi.SlotQuery) ([]domain.RawScheduleDate, error)
	FetchTimeSlots(ctx context.Context, q spaapi.SlotQuery, date time.Time) ([]domain.RawLocation, error)
}

// ScheduleBuilder интерфейс агрегатора доступности
type ScheduleBuilder interface {
	BuildSchedule(payload []domain.RawScheduleDate, now time.Time) []domain.CalendarScheduleDate
	BuildDay(date string, locations []domain.RawLocation, now time.Time) (domain.CalendarScheduleDate, bool)
}

// Booker интерфейс создания записи
type Booker interface {
	Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error)
}

// Carryover интерфейс хранилища выбора для повторной записи
type Carryover interface {
	Take(customerID string) (domain.Selection, bool)
}

// Metrics учет устаревших загрузок
type Metrics interface {
	ObserveSupersededFetch(stage string)
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
