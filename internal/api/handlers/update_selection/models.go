package update_selection

import "github.com/m04kA/SMC-SpaBooking/internal/domain"

// Шаги каскада выбора
const (
	StepCenter     = "center"
	StepTreatment  = "treatment"
	StepAddons     = "addons"
	StepTherapists = "therapists"
	StepDate       = "date"
	StepTimeSlot   = "timeslot"
	StepNotes      = "notes"
)

type CenterRequest struct {
	CenterID string `json:"centerId"`
}

type TreatmentRequest struct {
	TreatmentID string `json:"treatmentId"`
}

// ChoiceRequest выбор нескольких вариантов; noPreference=true - без предпочтений
type ChoiceRequest struct {
	NoPreference bool     `json:"noPreference"`
	IDs          []string `json:"ids"`
}

type DateRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

type TimeSlotRequest struct {
	LocationID  string `json:"locationId"`
	TherapistID string `json:"therapistId"`
	Time        string `json:"time"` // HH:mm
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

func (r *ChoiceRequest) valid() bool {
	if r.NoPreference {
		return len(r.IDs) == 0
	}
	return len(r.IDs) > 0
}

func (r *ChoiceRequest) toAddons() domain.Choice[domain.Addon] {
	if r.NoPreference {
		return domain.NoPreference[domain.Addon]()
	}
	addons := make([]domain.Addon, 0, len(r.IDs))
	for _, id := range r.IDs {
		addons = append(addons, domain.Addon{ID: id})
	}
	return domain.Selected(addons...)
}

func (r *ChoiceRequest) toTherapists() domain.Choice[domain.Therapist] {
	if r.NoPreference {
		return domain.NoPreference[domain.Therapist]()
	}
	therapists := make([]domain.Therapist, 0, len(r.IDs))
	for _, id := range r.IDs {
		therapists = append(therapists, domain.Therapist{ID: id})
	}
	return domain.Selected(therapists...)
}
