package domain

import "time"

// Default lifecycle windows, used when neither config nor a policy override sets them
const (
	DefaultConfirmOpens  = 72 * time.Hour
	DefaultConfirmCloses = 24 * time.Hour
	DefaultCancelNotice  = 72 * time.Hour
)

// Business validation constants
const (
	MaxNotesLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// LiveStates are the states mirrored into the reminder calendar
var LiveStates = []AppointmentState{
	StateReserved,
	StateConfirmed,
}
