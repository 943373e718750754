package update_center_policy

import "github.com/m04kA/SMC-SpaBooking/internal/service/policy"

// UpdateCenterPolicyRequest HTTP request model.
// treatmentId не указан - политика всего центра; не указанное окно наследуется.
type UpdateCenterPolicyRequest struct {
	TreatmentID        *string `json:"treatmentId,omitempty"`
	ConfirmOpensHours  *int    `json:"confirmOpensHours,omitempty"`
	ConfirmClosesHours *int    `json:"confirmClosesHours,omitempty"`
	CancelNoticeHours  *int    `json:"cancelNoticeHours,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateCenterPolicyRequest) ToServiceRequest(centerID string) *policy.UpsertRequest {
	return &policy.UpsertRequest{
		CenterID:           centerID,
		TreatmentID:        r.TreatmentID,
		ConfirmOpensHours:  r.ConfirmOpensHours,
		ConfirmClosesHours: r.ConfirmClosesHours,
		CancelNoticeHours:  r.CancelNoticeHours,
	}
}
