package handlers

import (
	"time"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/service/lifecycle"
	"github.com/m04kA/SMC-SpaBooking/internal/service/policy"
	"github.com/m04kA/SMC-SpaBooking/internal/service/selection"
	"github.com/m04kA/SMC-SpaBooking/pkg/types"
)

// Модели ответов, общие для нескольких эндпоинтов

const (
	choiceUnset        = "unset"
	choiceNoPreference = "no_preference"
	choiceSelected     = "selected"
)

type ChoiceResponse struct {
	Mode string   `json:"mode"`
	IDs  []string `json:"ids,omitempty"`
}

type TimeSlotResponse struct {
	Time    string `json:"time"`    // "14:15"
	Display string `json:"display"` // "02:15 PM"
}

type SelectionResponse struct {
	CenterID      string            `json:"centerId,omitempty"`
	CenterName    string            `json:"centerName,omitempty"`
	TreatmentID   string            `json:"treatmentId,omitempty"`
	TreatmentName string            `json:"treatmentName,omitempty"`
	Addons        ChoiceResponse    `json:"addons"`
	Therapists    ChoiceResponse    `json:"therapists"`
	Date          string            `json:"date,omitempty"`
	LocationID    string            `json:"locationId,omitempty"`
	TimeSlot      *TimeSlotResponse `json:"timeSlot,omitempty"`
	TherapistID   string            `json:"therapistId,omitempty"`
	TherapistName string            `json:"therapistName,omitempty"`
	Notes         string            `json:"notes,omitempty"`
}

type OptionResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

type TherapistSlotsResponse struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Slots []TimeSlotResponse `json:"slots"`
}

type LocationResponse struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	Address    string                   `json:"address,omitempty"`
	Therapists []TherapistSlotsResponse `json:"therapists"`
}

type DayResponse struct {
	Date      string             `json:"date"`
	Locations []LocationResponse `json:"locations"`
}

// SessionResponse состояние сессии выбора
type SessionResponse struct {
	Selection  SelectionResponse `json:"selection"`
	Treatments []OptionResponse  `json:"treatments"`
	Addons     []OptionResponse  `json:"addons"`
	Therapists []OptionResponse  `json:"therapists"`
	SlotDates  []string          `json:"slotDates"`
	TimeSlots  *DayResponse      `json:"timeSlots,omitempty"`
	Ready      bool              `json:"ready"`
	Missing    []string          `json:"missing,omitempty"`
	Carryover  bool              `json:"carryover"`
}

// AppointmentResponse запись с доступными действиями
type AppointmentResponse struct {
	ID                string    `json:"id"`
	CenterID          string    `json:"centerId"`
	CenterName        string    `json:"centerName,omitempty"`
	TreatmentID       string    `json:"treatmentId"`
	TreatmentName     string    `json:"treatmentName,omitempty"`
	AddonIDs          []string  `json:"addonIds,omitempty"`
	TherapistID       string    `json:"therapistId,omitempty"`
	TherapistName     string    `json:"therapistName,omitempty"`
	StartAt           time.Time `json:"startAt"`
	EndAt             time.Time `json:"endAt"`
	State             string    `json:"state"`
	SessionsRemaining int       `json:"sessionsRemaining"`
	Note              string    `json:"note,omitempty"`
	CanConfirm        bool      `json:"canConfirm"`
	CanCancel         bool      `json:"canCancel"`
}

// FromState конвертирует состояние сессии в DTO
func FromState(state selection.State) *SessionResponse {
	resp := &SessionResponse{
		Selection:  FromSelection(state.Selection),
		Treatments: make([]OptionResponse, 0, len(state.Treatments)),
		Addons:     make([]OptionResponse, 0, len(state.Addons)),
		Therapists: make([]OptionResponse, 0, len(state.Therapists)),
		SlotDates:  make([]string, 0, len(state.SlotDates)),
		Ready:      state.Ready,
		Missing:    state.Missing,
		Carryover:  state.Carryover,
	}

	for _, t := range state.Treatments {
		resp.Treatments = append(resp.Treatments, OptionResponse{
			ID:              t.ID,
			Name:            t.Name,
			Category:        t.Category,
			DurationMinutes: t.DurationMinutes,
		})
	}
	for _, a := range state.Addons {
		resp.Addons = append(resp.Addons, OptionResponse{ID: a.ID, Name: a.Name})
	}
	for _, t := range state.Therapists {
		resp.Therapists = append(resp.Therapists, OptionResponse{ID: t.ID, Name: t.Name})
	}
	for i := range state.SlotDates {
		resp.SlotDates = append(resp.SlotDates, state.SlotDates[i].Key())
	}
	if state.TimeSlots != nil {
		resp.TimeSlots = fromDay(state.TimeSlots)
	}
	return resp
}

// FromSelection конвертирует выбор в DTO
func FromSelection(sel domain.Selection) SelectionResponse {
	resp := SelectionResponse{
		Addons:     fromChoice(sel.Addons.Kind(), domain.AddonIDs(sel.Addons.Items())),
		Therapists: fromChoice(sel.Therapists.Kind(), domain.TherapistIDs(sel.Therapists.Items())),
		LocationID: sel.LocationID,
		Notes:      sel.Notes,
	}
	if sel.Center != nil {
		resp.CenterID = sel.Center.ID
		resp.CenterName = sel.Center.Name
	}
	if sel.Treatment != nil {
		resp.TreatmentID = sel.Treatment.ID
		resp.TreatmentName = sel.Treatment.Name
	}
	if sel.Date != nil {
		resp.Date = sel.Date.Format(domain.DateFormat)
	}
	if sel.TimeSlot != nil {
		slot := fromTimeSlot(*sel.TimeSlot)
		resp.TimeSlot = &slot
	}
	if sel.Therapist != nil {
		resp.TherapistID = sel.Therapist.ID
		resp.TherapistName = sel.Therapist.Name
	}
	return resp
}

// FromAppointmentView конвертирует запись с действиями в DTO
func FromAppointmentView(view *lifecycle.AppointmentView) *AppointmentResponse {
	resp := FromAppointment(view.Appointment)
	resp.State = string(view.Status)
	resp.CanConfirm = view.CanConfirm
	resp.CanCancel = view.CanCancel
	return resp
}

// FromAppointment конвертирует запись в DTO без вычисления действий
func FromAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                a.ID,
		CenterID:          a.CenterID,
		CenterName:        a.CenterName,
		TreatmentID:       a.TreatmentID,
		TreatmentName:     a.TreatmentName,
		AddonIDs:          a.AddonIDs,
		TherapistID:       a.TherapistID,
		TherapistName:     a.TherapistName,
		StartAt:           a.StartAt,
		EndAt:             a.EndAt,
		State:             string(a.State),
		SessionsRemaining: a.SessionsRemaining,
		Note:              a.Note,
	}
}

func fromChoice(kind domain.ChoiceKind, ids []string) ChoiceResponse {
	switch kind {
	case domain.ChoiceNoPreference:
		return ChoiceResponse{Mode: choiceNoPreference}
	case domain.ChoiceSelected:
		return ChoiceResponse{Mode: choiceSelected, IDs: ids}
	default:
		return ChoiceResponse{Mode: choiceUnset}
	}
}

func fromDay(day *domain.CalendarScheduleDate) *DayResponse {
	resp := &DayResponse{
		Date:      day.Key(),
		Locations: make([]LocationResponse, 0, len(day.Locations)),
	}
	for _, loc := range day.Locations {
		location := LocationResponse{
			ID:         loc.ID,
			Name:       loc.Name,
			Address:    loc.Address,
			Therapists: make([]TherapistSlotsResponse, 0, len(loc.Therapists)),
		}
		for _, t := range loc.Therapists {
			slots := make([]TimeSlotResponse, 0, len(t.Slots))
			for _, s := range t.Slots {
				slots = append(slots, fromTimeSlot(s))
			}
			location.Therapists = append(location.Therapists, TherapistSlotsResponse{
				ID:    t.Therapist.ID,
				Name:  t.Therapist.Name,
				Slots: slots,
			})
		}
		resp.Locations = append(resp.Locations, location)
	}
	return resp
}

func fromTimeSlot(s types.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{Time: s.Raw, Display: s.Display()}
}

// PolicyWindowsResponse окна политики в часах
type PolicyWindowsResponse struct {
	ConfirmOpensHours  int `json:"confirmOpensHours"`
	ConfirmClosesHours int `json:"confirmClosesHours"`
	CancelNoticeHours  int `json:"cancelNoticeHours"`
}

// PolicyOverrideResponse переопределение и итоговые окна
type PolicyOverrideResponse struct {
	ID                 int64                 `json:"id"`
	CenterID           string                `json:"centerId"`
	TreatmentID        *string               `json:"treatmentId,omitempty"`
	ConfirmOpensHours  *int                  `json:"confirmOpensHours,omitempty"`
	ConfirmClosesHours *int                  `json:"confirmClosesHours,omitempty"`
	CancelNoticeHours  *int                  `json:"cancelNoticeHours,omitempty"`
	Effective          PolicyWindowsResponse `json:"effective"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// FromPolicy конвертирует окна политики в часы
func FromPolicy(p domain.Policy) PolicyWindowsResponse {
	return PolicyWindowsResponse{
		ConfirmOpensHours:  int(p.ConfirmOpens / time.Hour),
		ConfirmClosesHours: int(p.ConfirmCloses / time.Hour),
		CancelNoticeHours:  int(p.CancelNotice / time.Hour),
	}
}

// FromOverride конвертирует переопределение в DTO
func FromOverride(resp *policy.OverrideResponse) *PolicyOverrideResponse {
	o := resp.Override
	return &PolicyOverrideResponse{
		ID:                 o.ID,
		CenterID:           o.CenterID,
		TreatmentID:        o.TreatmentID,
		ConfirmOpensHours:  o.ConfirmOpensHours,
		ConfirmClosesHours: o.ConfirmClosesHours,
		CancelNoticeHours:  o.CancelNoticeHours,
		Effective:          FromPolicy(resp.Effective),
		UpdatedAt:          o.UpdatedAt,
	}
}
