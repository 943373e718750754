package domain

import (
	"time"

	"github.com/m04kA/SMC-SpaBooking/pkg/types"
)

// RawScheduleDate is one date of the backend availability payload, not yet validated
type RawScheduleDate struct {
	Date      string // DateFormat
	Locations []RawLocation
}

// RawLocation is a location of the availability payload
type RawLocation struct {
	ID         string
	Name       string
	Address    string
	Therapists []RawTherapistSlots
}

// RawTherapistSlots holds the raw "HH:mm" times of one therapist
type RawTherapistSlots struct {
	TherapistID   string
	TherapistName string
	Times         []string
}

// TherapistSlots is a therapist with the slots still bookable for them
type TherapistSlots struct {
	Therapist Therapist
	Slots     []types.TimeSlot
}

// ScheduleLocation is a location with at least one therapist having slots
type ScheduleLocation struct {
	ID         string
	Name       string
	Address    string
	Therapists []TherapistSlots
}

// IsEmpty returns true if no therapist has a bookable slot
func (l *ScheduleLocation) IsEmpty() bool {
	for _, t := range l.Therapists {
		if len(t.Slots) > 0 {
			return false
		}
	}
	return true
}

// FindSlot returns the therapist offering the given slot at this location
func (l *ScheduleLocation) FindSlot(therapistID string, slot types.TimeSlot) (Therapist, bool) {
	for _, t := range l.Therapists {
		if t.Therapist.ID != therapistID {
			continue
		}
		for _, s := range t.Slots {
			if s.Equal(slot) {
				return t.Therapist, true
			}
		}
	}
	return Therapist{}, false
}

// CalendarScheduleDate is a date carrying at least one non-empty location
type CalendarScheduleDate struct {
	Date      time.Time
	Locations []ScheduleLocation
}

// Key returns the date in DateFormat
func (d *CalendarScheduleDate) Key() string {
	return d.Date.Format(DateFormat)
}

// FindLocation returns the location with the given id
func (d *CalendarScheduleDate) FindLocation(locationID string) (*ScheduleLocation, bool) {
	for i := range d.Locations {
		if d.Locations[i].ID == locationID {
			return &d.Locations[i], true
		}
	}
	return nil, false
}
