package get_center_policy

import (
	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBooking/internal/service/policy"
)

// CenterPolicyResponse итоговые окна и все переопределения центра
type CenterPolicyResponse struct {
	CenterID    string                             `json:"centerId"`
	TreatmentID string                             `json:"treatmentId,omitempty"`
	Level       string                             `json:"level"` // treatment, center или default
	Effective   handlers.PolicyWindowsResponse     `json:"effective"`
	Overrides   []*handlers.PolicyOverrideResponse `json:"overrides"`
}

func ToResponse(effective *policy.EffectiveResponse, overrides []*policy.OverrideResponse) *CenterPolicyResponse {
	resp := &CenterPolicyResponse{
		CenterID:    effective.CenterID,
		TreatmentID: effective.TreatmentID,
		Level:       effective.Level,
		Effective: handlers.PolicyWindowsResponse{
			ConfirmOpensHours:  int(effective.ConfirmOpens.Hours()),
			ConfirmClosesHours: int(effective.ConfirmCloses.Hours()),
			CancelNoticeHours:  int(effective.CancelNotice.Hours()),
		},
		Overrides: make([]*handlers.PolicyOverrideResponse, 0, len(overrides)),
	}
	for _, o := range overrides {
		resp.Overrides = append(resp.Overrides, handlers.FromOverride(o))
	}
	return resp
}
