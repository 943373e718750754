package delete_center_policy

import "context"

type PolicyService interface {
	Delete(ctx context.Context, centerID string, treatmentID *string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
