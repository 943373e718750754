package selection

import "github.com/m04kA/SMC-SpaBooking/internal/domain"

// State снимок сессии выбора: сам выбор и загруженные для него списки
type State struct {
	Selection  domain.Selection
	Treatments []domain.Treatment
	Addons     []domain.Addon
	Therapists []domain.Therapist
	SlotDates  []domain.CalendarScheduleDate
	TimeSlots  *domain.CalendarScheduleDate // слоты на выбранную дату
	Ready      bool
	Missing    []string
	Carryover  bool // выбор предзаполнен из прошлой записи и ещё не менялся
}
