package domain

import "time"

// MirrorTag correlates a device calendar event with an appointment.
// The device calendar has no custom fields, so the tag travels inside the event notes.
type MirrorTag struct {
	CustomerID    string
	AppointmentID string
}

// MirrorEvent is a reminder event in the dedicated device calendar
type MirrorEvent struct {
	ID      string
	Title   string
	StartAt time.Time
	EndAt   time.Time
	Alarms  []time.Duration // offsets before StartAt
	Notes   string
	Tag     MirrorTag
}

// CalendarAccess is the device calendar permission status
type CalendarAccess string

const (
	CalendarAccessNotDetermined CalendarAccess = "not_determined"
	CalendarAccessGranted       CalendarAccess = "granted"
	CalendarAccessDenied        CalendarAccess = "denied"
)
