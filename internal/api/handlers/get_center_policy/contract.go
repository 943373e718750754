package get_center_policy

import (
	"context"

	"github.com/m04kA/SMC-SpaBooking/internal/service/policy"
)

type PolicyService interface {
	Describe(ctx context.Context, centerID, treatmentID string) (*policy.EffectiveResponse, error)
	List(ctx context.Context, centerID string) ([]*policy.OverrideResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
