package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.CustomerID) == "" {
		return fmt.Errorf("%w: customerID is required", ErrInvalidInput)
	}

	if missing := req.Selection.MissingForSubmit(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteSelection, strings.Join(missing, ", "))
	}

	if utf8.RuneCountInString(req.Selection.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateBookingTime проверяет, что дата не в прошлом, а для сегодняшней даты слот ещё не начался
func validateBookingTime(date time.Time, startAt time.Time, now time.Time) error {
	if isDateInPast(date, now.In(date.Location())) {
		return ErrInvalidDate
	}

	if !startAt.After(now) {
		return fmt.Errorf("%w: slot %s has already started", ErrTooLateToBook, startAt.Format(domain.TimeFormat))
	}

	return nil
}

// slotStart вычисляет начало записи из даты и слота в часовом поясе даты
func slotStart(sel domain.Selection) (time.Time, error) {
	hour, minute, err := sel.TimeSlot.Clock()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid time slot: %v", ErrInvalidInput, err)
	}
	d := *sel.Date
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location()), nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
