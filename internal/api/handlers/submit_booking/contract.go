package submit_booking

import "github.com/m04kA/SMC-SpaBooking/internal/service/selection"

type SessionManager interface {
	Get(customerID string) (*selection.Controller, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
