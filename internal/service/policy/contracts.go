package policy

import (
	"context"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// PolicyRepository интерфейс репозитория переопределений политики
type PolicyRepository interface {
	Create(ctx context.Context, o *domain.PolicyOverride) (*domain.PolicyOverride, error)
	GetByCenterAndTreatment(ctx context.Context, centerID string, treatmentID *string) (*domain.PolicyOverride, error)
	GetPolicyWithHierarchy(ctx context.Context, centerID, treatmentID string) (*domain.PolicyOverride, error)
	ListByCenter(ctx context.Context, centerID string) ([]*domain.PolicyOverride, error)
	Update(ctx context.Context, id int64, o *domain.PolicyOverride) (*domain.PolicyOverride, error)
	Delete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
