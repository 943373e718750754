package policy

import (
	"time"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// UpsertRequest запрос на создание или изменение переопределения.
// TreatmentID nil - политика всего центра; nil окно - значение по умолчанию.
type UpsertRequest struct {
	CenterID           string
	TreatmentID        *string
	ConfirmOpensHours  *int
	ConfirmClosesHours *int
	CancelNoticeHours  *int
}

// OverrideResponse переопределение вместе с итоговыми окнами
type OverrideResponse struct {
	Override  *domain.PolicyOverride
	Effective domain.Policy
}

// EffectiveResponse итоговые окна для центра и процедуры
type EffectiveResponse struct {
	CenterID      string
	TreatmentID   string
	Level         string
	ConfirmOpens  time.Duration
	ConfirmCloses time.Duration
	CancelNotice  time.Duration
}
