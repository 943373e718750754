package domain

import (
	"slices"
	"time"
)

// AppointmentState represents the lifecycle state of an appointment
type AppointmentState string

const (
	StateRequested AppointmentState = "requested"
	StateReserved  AppointmentState = "reserved"
	StateConfirmed AppointmentState = "confirmed"
	StateCancelled AppointmentState = "cancelled"
	// StatePast is a read-only classification assigned once EndAt has elapsed
	StatePast AppointmentState = "past"
)

// IsValid returns true for the states an appointment record may carry
func (s AppointmentState) IsValid() bool {
	switch s {
	case StateRequested, StateReserved, StateConfirmed, StateCancelled:
		return true
	}
	return false
}

// Appointment represents a booked appointment as stored on the device.
// It is mutated only through the lifecycle service after the backend accepted the action.
type Appointment struct {
	ID                string
	CustomerID        string
	CenterID          string
	CenterName        string
	TreatmentID       string
	TreatmentName     string
	AddonIDs          []string
	TherapistID       string
	TherapistName     string
	StartAt           time.Time
	EndAt             time.Time
	State             AppointmentState
	SessionsRemaining int
	Note              string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLive returns true if the appointment should have a calendar mirror event at now
func (a *Appointment) IsLive(now time.Time) bool {
	return slices.Contains(LiveStates, a.State) && !a.HasEnded(now)
}

// HasEnded returns true once the end of the appointment is in the past
func (a *Appointment) HasEnded(now time.Time) bool {
	return !a.EndAt.IsZero() && !a.EndAt.After(now)
}

// Policy holds the time windows that decide which lifecycle actions are offered
type Policy struct {
	// ConfirmOpens confirmation is possible once the start is closer than this
	ConfirmOpens time.Duration
	// ConfirmCloses confirmation is no longer possible once the start is closer than this
	ConfirmCloses time.Duration
	// CancelNotice reserved/confirmed appointments may be cancelled only with more notice than this
	CancelNotice time.Duration
}

// DefaultPolicy returns the built-in windows (24h-72h confirmation, 72h cancellation notice)
func DefaultPolicy() Policy {
	return Policy{
		ConfirmOpens:  DefaultConfirmOpens,
		ConfirmCloses: DefaultConfirmCloses,
		CancelNotice:  DefaultCancelNotice,
	}
}

// Classify returns the state to display at now: past once EndAt elapsed, the stored state otherwise
func (p Policy) Classify(a *Appointment, now time.Time) AppointmentState {
	if a.State != StateCancelled && a.HasEnded(now) {
		return StatePast
	}
	return a.State
}

// IsConfirmable returns true if a reserved appointment starts strictly inside
// (now+ConfirmCloses, now+ConfirmOpens)
func (p Policy) IsConfirmable(a *Appointment, now time.Time) bool {
	if p.Classify(a, now) != StateReserved {
		return false
	}
	return a.StartAt.After(now.Add(p.ConfirmCloses)) && a.StartAt.Before(now.Add(p.ConfirmOpens))
}

// IsCancellable returns true if the appointment may be cancelled at now.
// Requested appointments are always cancellable; reserved and confirmed ones need more
// than CancelNotice before the start.
func (p Policy) IsCancellable(a *Appointment, now time.Time) bool {
	switch p.Classify(a, now) {
	case StateRequested:
		return true
	case StateReserved, StateConfirmed:
		return a.StartAt.After(now.Add(p.CancelNotice))
	default:
		return false
	}
}
