package domain

import (
	"time"

	"github.com/m04kA/SMC-SpaBooking/pkg/types"
)

// ChoiceKind distinguishes "not decided yet" from an explicit "no preference"
type ChoiceKind int

const (
	ChoiceUnset ChoiceKind = iota
	ChoiceNoPreference
	ChoiceSelected
)

// Choice is an optional multi-value selection: Unset | NoPreference | Selected(items)
type Choice[T any] struct {
	kind  ChoiceKind
	items []T
}

// Unset returns a choice that has not been made yet
func Unset[T any]() Choice[T] {
	return Choice[T]{kind: ChoiceUnset}
}

// NoPreference returns an explicit "any" choice
func NoPreference[T any]() Choice[T] {
	return Choice[T]{kind: ChoiceNoPreference}
}

// Selected returns a choice of the given items; an empty list is treated as NoPreference
func Selected[T any](items ...T) Choice[T] {
	if len(items) == 0 {
		return NoPreference[T]()
	}
	copied := make([]T, len(items))
	copy(copied, items)
	return Choice[T]{kind: ChoiceSelected, items: copied}
}

func (c Choice[T]) Kind() ChoiceKind {
	return c.kind
}

// IsDecided returns true for NoPreference and Selected
func (c Choice[T]) IsDecided() bool {
	return c.kind != ChoiceUnset
}

// Items returns the selected items, nil unless the choice is Selected
func (c Choice[T]) Items() []T {
	if c.kind != ChoiceSelected {
		return nil
	}
	return c.items
}

// Selection is the in-progress booking of one session
type Selection struct {
	Center     *Center
	Treatment  *Treatment
	Addons     Choice[Addon]
	Therapists Choice[Therapist]
	Date       *time.Time

	// final pick: a concrete time with a concrete therapist at a location
	LocationID string
	TimeSlot   *types.TimeSlot
	Therapist  *Therapist

	Notes string
}

// MissingForSubmit lists the required fields that are still empty
func (s *Selection) MissingForSubmit() []string {
	var missing []string
	if s.Center == nil {
		missing = append(missing, "center")
	}
	if s.Treatment == nil {
		missing = append(missing, "treatment")
	}
	if s.Date == nil {
		missing = append(missing, "date")
	}
	if s.TimeSlot == nil {
		missing = append(missing, "time slot")
	}
	if s.Therapist == nil {
		missing = append(missing, "therapist")
	}
	return missing
}

// IsReadyToSubmit returns true when center, treatment, date and a concrete time+therapist are set
func (s *Selection) IsReadyToSubmit() bool {
	return len(s.MissingForSubmit()) == 0
}

// ClearTimePick drops the concrete time+therapist pick
func (s *Selection) ClearTimePick() {
	s.LocationID = ""
	s.TimeSlot = nil
	s.Therapist = nil
}
