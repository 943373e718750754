package domain

import "time"

// PolicyOverride is a per-center lifecycle policy stored in the local database.
// Supports hierarchical configuration:
// 1. Treatment at a center (center_id, treatment_id)
// 2. Center-wide (center_id, NULL)
// Fields left nil fall back to the configured defaults.
type PolicyOverride struct {
	ID                 int64
	CenterID           string
	TreatmentID        *string // NULL = all treatments of the center
	ConfirmOpensHours  *int
	ConfirmClosesHours *int
	CancelNoticeHours  *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsCenterWide returns true if the override applies to every treatment of the center
func (o *PolicyOverride) IsCenterWide() bool {
	return o.TreatmentID == nil
}

// Apply returns base with the override's non-nil windows replacing base values
func (o *PolicyOverride) Apply(base Policy) Policy {
	if o == nil {
		return base
	}
	if o.ConfirmOpensHours != nil {
		base.ConfirmOpens = time.Duration(*o.ConfirmOpensHours) * time.Hour
	}
	if o.ConfirmClosesHours != nil {
		base.ConfirmCloses = time.Duration(*o.ConfirmClosesHours) * time.Hour
	}
	if o.CancelNoticeHours != nil {
		base.CancelNotice = time.Duration(*o.CancelNoticeHours) * time.Hour
	}
	return base
}
