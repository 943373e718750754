package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidTimeSlot is returned when a raw time is not a valid 24-hour "HH:mm" string
var ErrInvalidTimeSlot = errors.New("invalid time slot format")

// Period is the display period of a time slot
type Period string

const (
	PeriodAM       Period = "AM"
	PeriodPM       Period = "PM"
	PeriodNoon     Period = "NN"
	PeriodMidnight Period = "MN"
)

// TimeSlot is a bookable start time as delivered by the backend ("HH:mm", 24-hour)
// together with its 12-hour display form.
// Equality and ordering are defined on Raw: zero-padded "HH:mm" sorts chronologically.
type TimeSlot struct {
	Raw     string // "14:15"
	Hour    string // zero-padded 12-hour display hour, "02"
	Minutes string // minutes as received, "15"
	Period  Period
}

// ParseTimeSlot converts a raw "HH:mm" string into a TimeSlot
func ParseTimeSlot(raw string) (TimeSlot, error) {
	hour, minute, err := splitClock(raw)
	if err != nil {
		return TimeSlot{}, err
	}

	displayHour := hour
	if hour > 12 {
		displayHour = hour - 12
	}

	var period Period
	switch {
	case hour == 12 && minute == 0:
		period = PeriodNoon
	case hour >= 12:
		period = PeriodPM
	case hour == 0 && minute == 0:
		period = PeriodMidnight
	default:
		period = PeriodAM
	}

	return TimeSlot{
		Raw:     raw,
		Hour:    fmt.Sprintf("%02d", displayHour),
		Minutes: raw[3:],
		Period:  period,
	}, nil
}

// MustParseTimeSlot is ParseTimeSlot for literals known to be valid; it panics otherwise
func MustParseTimeSlot(raw string) TimeSlot {
	slot, err := ParseTimeSlot(raw)
	if err != nil {
		panic(err)
	}
	return slot
}

// Value returns the slot as an HHmm integer ("14:15" -> 1415)
func (t TimeSlot) Value() int {
	hour, minute, err := splitClock(t.Raw)
	if err != nil {
		return -1
	}
	return hour*100 + minute
}

// Clock rebuilds the 24-hour hour and minute from the display fields
func (t TimeSlot) Clock() (hour int, minute int, err error) {
	h, err := strconv.Atoi(t.Hour)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: hour %q", ErrInvalidTimeSlot, t.Hour)
	}
	minute, err = strconv.Atoi(t.Minutes)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: minutes %q", ErrInvalidTimeSlot, t.Minutes)
	}

	switch t.Period {
	case PeriodNoon:
		return 12, minute, nil
	case PeriodMidnight:
		return 0, minute, nil
	case PeriodPM:
		if h == 12 {
			return 12, minute, nil
		}
		return h + 12, minute, nil
	case PeriodAM:
		return h, minute, nil
	default:
		return 0, 0, fmt.Errorf("%w: period %q", ErrInvalidTimeSlot, t.Period)
	}
}

// Equal reports whether both slots describe the same raw time
func (t TimeSlot) Equal(other TimeSlot) bool {
	return t.Raw == other.Raw
}

// Before reports whether t starts earlier than other
func (t TimeSlot) Before(other TimeSlot) bool {
	return t.Raw < other.Raw
}

// Compare returns -1, 0 or 1 ordering by raw time
func (t TimeSlot) Compare(other TimeSlot) int {
	switch {
	case t.Raw < other.Raw:
		return -1
	case t.Raw > other.Raw:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether the slot is unset
func (t TimeSlot) IsZero() bool {
	return t.Raw == ""
}

// String returns the raw "HH:mm" form
func (t TimeSlot) String() string {
	return t.Raw
}

// Display returns the 12-hour display form, e.g. "02:15 PM"
func (t TimeSlot) Display() string {
	return t.Hour + ":" + t.Minutes + " " + string(t.Period)
}

func splitClock(raw string) (int, int, error) {
	if len(raw) != 5 || raw[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, raw)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, raw)
		}
	}

	hour := int(raw[0]-'0')*10 + int(raw[1]-'0')
	minute := int(raw[3]-'0')*10 + int(raw[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrInvalidTimeSlot, raw)
	}
	return hour, minute, nil
}
