package rebook_appointment

import (
	"context"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

type AppointmentService interface {
	Rebook(ctx context.Context, customerID, id string) (domain.Selection, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
