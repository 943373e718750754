package update_center_policy

import (
	"context"

	"github.com/m04kA/SMC-SpaBooking/internal/service/policy"
)

type PolicyService interface {
	Upsert(ctx context.Context, req *policy.UpsertRequest) (*policy.OverrideResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
