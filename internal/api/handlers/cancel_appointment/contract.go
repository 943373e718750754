package cancel_appointment

import "context"

type AppointmentService interface {
	Cancel(ctx context.Context, customerID, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
