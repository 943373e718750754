package lifecycle

import "github.com/m04kA/SMC-SpaBooking/internal/domain"

// AppointmentView запись с отображаемым состоянием и доступными действиями
type AppointmentView struct {
	Appointment *domain.Appointment
	// Status хранимое состояние или past, если запись уже закончилась
	Status     domain.AppointmentState
	CanConfirm bool
	CanCancel  bool
}

// SyncResult итог синхронизации календаря напоминаний
type SyncResult struct {
	Mirrored int
	Failed   []string
	Removed  int
}
