package get_centers

import (
	"context"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

type CenterCatalog interface {
	FetchCenters(ctx context.Context) ([]domain.Center, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
