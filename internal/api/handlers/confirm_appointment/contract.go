package confirm_appointment

import (
	"context"

	"github.com/m04kA/SMC-SpaBooking/internal/service/lifecycle"
)

type AppointmentService interface {
	Confirm(ctx context.Context, customerID, id string) (*lifecycle.AppointmentView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
