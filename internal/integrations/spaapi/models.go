package spaapi

import (
	"encoding/json"
	"time"
)

// SlotQuery параметры запроса доступности
type SlotQuery struct {
	CenterID     string
	TreatmentID  string
	AddonIDs     []string
	TherapistIDs []string
}

// BookingRequest запрос на создание записи
type BookingRequest struct {
	CustomerID  string   `json:"customer_id"`
	CenterID    string   `json:"center_id"`
	TreatmentID string   `json:"treatment_id"`
	AddonIDs    []string `json:"addon_ids"`
	TherapistID string   `json:"therapist_id"`
	LocationID  string   `json:"location_id,omitempty"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Time        string   `json:"time"` // HH:MM
	Notes       string   `json:"notes,omitempty"`
}

type centerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Bookable bool   `json:"is_bookable"`
}

type treatmentDTO struct {
	ID                string `json:"id"`
	CenterID          string `json:"center_id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	CategorySortOrder int    `json:"category_sort_order"`
	DurationMinutes   int    `json:"duration_minutes"`
}

type addonDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type therapistDTO struct {
	ID   string `json:"id"`
	Name string `json:"display_name"`
}

// slotDatesResponse записи дат разбираются по одной, чтобы битая запись не ломала весь ответ
type slotDatesResponse struct {
	Dates []json.RawMessage `json:"dates"`
}

type scheduleDateDTO struct {
	Date      string            `json:"date"`
	Locations []json.RawMessage `json:"locations"`
}

type timeSlotsResponse struct {
	Date      string            `json:"date"`
	Locations []json.RawMessage `json:"locations"`
}

type locationDTO struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Address    string            `json:"address"`
	Therapists []json.RawMessage `json:"therapists"`
}

type therapistSlotsDTO struct {
	ID    string   `json:"id"`
	Name  string   `json:"display_name"`
	Slots []string `json:"slots"`
}

type bookingResponse struct {
	AppointmentID string `json:"appointment_id"`
}

type appointmentDTO struct {
	ID                string    `json:"id"`
	CustomerID        string    `json:"customer_id"`
	CenterID          string    `json:"center_id"`
	CenterName        string    `json:"center_name"`
	TreatmentID       string    `json:"treatment_id"`
	TreatmentName     string    `json:"treatment_name"`
	AddonIDs          []string  `json:"addon_ids"`
	TherapistID       string    `json:"therapist_id"`
	TherapistName     string    `json:"therapist_name"`
	StartAt           time.Time `json:"start_at"`
	EndAt             time.Time `json:"end_at"`
	State             string    `json:"state"`
	SessionsRemaining int       `json:"sessions_remaining"`
	Note              string    `json:"note"`
}

type errorResponse struct {
	Message string `json:"message"`
}
