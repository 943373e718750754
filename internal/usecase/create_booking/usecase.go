package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/integrations/spaapi"
)

// UseCase use case для создания записи
type UseCase struct {
	backend         BackendClient
	appointmentRepo AppointmentRepository
	mirror          CalendarMirror
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	backend BackendClient,
	appointmentRepo AppointmentRepository,
	mirror CalendarMirror,
	logger Logger,
) *UseCase {
	return &UseCase{
		backend:         backend,
		appointmentRepo: appointmentRepo,
		mirror:          mirror,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Ошибка бэкенда возвращается без изменений: её сообщение показывается пользователю.
// Локальное сохранение и календарь выполняются только после успешного ответа бэкенда
// и не влияют на результат.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	sel := req.Selection
	uc.logger.Info("CreateBooking: customer=%s, center=%s, treatment=%s, therapist=%s, date=%s, time=%s",
		req.CustomerID, sel.Center.ID, sel.Treatment.ID, sel.Therapist.ID, sel.Date.Format(domain.DateFormat), sel.TimeSlot.Raw)

	// 2. Проверяем, что слот ещё не прошёл
	startAt, err := slotStart(sel)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}
	if err := validateBookingTime(*sel.Date, startAt, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 3. Отправляем запись на бэкенд
	appointmentID, err := uc.backend.SubmitBooking(ctx, toBookingRequest(req.CustomerID, sel))
	if err != nil {
		uc.logger.Error("CreateBooking: backend rejected booking for customer=%s: %v", req.CustomerID, err)
		return nil, err
	}

	// 4. Получаем созданную запись; при ошибке собираем её из выбора пользователя
	appointment, err := uc.backend.FetchAppointment(ctx, req.CustomerID, appointmentID)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to fetch appointment id=%s, using local selection: %v", appointmentID, err)
		appointment = fromSelection(appointmentID, req.CustomerID, sel, startAt)
	}
	fillFromSelection(appointment, req.CustomerID, sel)

	// 5. Сохраняем запись локально
	stored := true
	if err := uc.appointmentRepo.Save(ctx, appointment); err != nil {
		uc.logger.Error("CreateBooking: failed to save appointment id=%s locally: %v", appointmentID, err)
		stored = false
	}

	// 6. Зеркалируем в календарь напоминаний
	mirrored := false
	if appointment.IsLive(uc.timeProvider.Now()) {
		if err := uc.mirror.Upsert(ctx, appointment); err != nil {
			uc.logger.Warn("CreateBooking: calendar mirror skipped for appointment id=%s: %v", appointmentID, err)
		} else {
			mirrored = true
		}
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%s (state=%s)", appointmentID, appointment.State)

	return &Response{
		Appointment: appointment,
		Stored:      stored,
		Mirrored:    mirrored,
	}, nil
}

func toBookingRequest(customerID string, sel domain.Selection) spaapi.BookingRequest {
	return spaapi.BookingRequest{
		CustomerID:  customerID,
		CenterID:    sel.Center.ID,
		TreatmentID: sel.Treatment.ID,
		AddonIDs:    domain.AddonIDs(sel.Addons.Items()),
		TherapistID: sel.Therapist.ID,
		LocationID:  sel.LocationID,
		Date:        sel.Date.Format(domain.DateFormat),
		Time:        sel.TimeSlot.Raw,
		Notes:       sel.Notes,
	}
}

// fromSelection собирает запись в состоянии requested, если бэкенд не вернул её
func fromSelection(id, customerID string, sel domain.Selection, startAt time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:         id,
		CustomerID: customerID,
		StartAt:    startAt,
		EndAt:      startAt.Add(time.Duration(sel.Treatment.DurationMinutes) * time.Minute),
		State:      domain.StateRequested,
	}
}

// fillFromSelection дополняет пустые поля записи данными выбора
func fillFromSelection(a *domain.Appointment, customerID string, sel domain.Selection) {
	if a.CustomerID == "" {
		a.CustomerID = customerID
	}
	if a.CenterID == "" {
		a.CenterID = sel.Center.ID
	}
	if a.CenterName == "" {
		a.CenterName = sel.Center.Name
	}
	if a.TreatmentID == "" {
		a.TreatmentID = sel.Treatment.ID
	}
	if a.TreatmentName == "" {
		a.TreatmentName = sel.Treatment.Name
	}
	if len(a.AddonIDs) == 0 {
		a.AddonIDs = domain.AddonIDs(sel.Addons.Items())
	}
	if a.TherapistID == "" {
		a.TherapistID = sel.Therapist.ID
	}
	if a.TherapistName == "" {
		a.TherapistName = sel.Therapist.Name
	}
	if a.Note == "" {
		a.Note = sel.Notes
	}
}
