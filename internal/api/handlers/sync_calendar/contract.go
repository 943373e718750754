package sync_calendar

import (
	"context"

	"github.com/m04kA/SMC-SpaBooking/internal/service/lifecycle"
)

type AppointmentService interface {
	SyncMirror(ctx context.Context, customerID string) (*lifecycle.SyncResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
