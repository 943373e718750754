package calendarmirror

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// Synchronizer поддерживает календарь напоминаний в соответствии с живыми записями клиента.
// Операции над одной записью выполняются последовательно.
type Synchronizer struct {
	calendar   Calendar
	authorizer Authorizer
	alarms     []time.Duration
	metrics    Metrics
	logger     Logger

	accessMu sync.Mutex
	access   domain.CalendarAccess

	locksMu sync.Mutex
	locks   map[domain.MirrorTag]*tagLock
}

type tagLock struct {
	mu   sync.Mutex
	refs int
}

// NewSynchronizer создает синхронизатор; alarms - напоминания до начала записи
func NewSynchronizer(
	calendar Calendar,
	authorizer Authorizer,
	alarms []time.Duration,
	metrics Metrics,
	logger Logger,
) *Synchronizer {
	return &Synchronizer{
		calendar:   calendar,
		authorizer: authorizer,
		alarms:     slices.Clone(alarms),
		metrics:    metrics,
		logger:     logger,
		access:     domain.CalendarAccessNotDetermined,
		locks:      make(map[domain.MirrorTag]*tagLock),
	}
}

// Upsert создает или обновляет событие записи. Повторный вызов с теми же данными
// ничего не меняет; лишние события с тем же тегом удаляются.
func (s *Synchronizer) Upsert(ctx context.Context, appointment *domain.Appointment) (err error) {
	defer func() { s.metrics.ObserveMirrorOperation("upsert", err) }()

	if err := s.ensureAccess(ctx); err != nil {
		return err
	}

	tag := domain.MirrorTag{CustomerID: appointment.CustomerID, AppointmentID: appointment.ID}
	unlock := s.lock(tag)
	defer unlock()

	existing, err := s.calendar.Search(ctx, tag)
	if err != nil {
		return fmt.Errorf("%w: Upsert - search: %v", ErrCalendar, err)
	}

	desired := s.eventFor(appointment)

	if len(existing) == 0 {
		id, err := s.calendar.Create(ctx, desired)
		if err != nil {
			return fmt.Errorf("%w: Upsert - create: %v", ErrCalendar, err)
		}
		s.logger.Info("CalendarMirror.Upsert: created event=%s for appointment=%s", id, appointment.ID)
		return nil
	}

	keep := existing[0]
	for _, duplicate := range existing[1:] {
		if err := s.calendar.Delete(ctx, duplicate.ID); err != nil {
			return fmt.Errorf("%w: Upsert - delete duplicate %s: %v", ErrCalendar, duplicate.ID, err)
		}
		s.logger.Warn("CalendarMirror.Upsert: removed duplicate event=%s for appointment=%s", duplicate.ID, appointment.ID)
	}

	desired.ID = keep.ID
	if sameEvent(keep, desired) {
		return nil
	}
	if err := s.calendar.Update(ctx, desired); err != nil {
		return fmt.Errorf("%w: Upsert - update: %v", ErrCalendar, err)
	}
	s.logger.Info("CalendarMirror.Upsert: updated event=%s for appointment=%s", keep.ID, appointment.ID)
	return nil
}

// DeleteForAppointment удаляет все события записи; отсутствие событий не является ошибкой
func (s *Synchronizer) DeleteForAppointment(ctx context.Context, customerID, appointmentID string) (err error) {
	defer func() { s.metrics.ObserveMirrorOperation("delete", err) }()

	if err := s.ensureAccess(ctx); err != nil {
		return err
	}

	tag := domain.MirrorTag{CustomerID: customerID, AppointmentID: appointmentID}
	unlock := s.lock(tag)
	defer unlock()

	events, err := s.calendar.Search(ctx, tag)
	if err != nil {
		return fmt.Errorf("%w: DeleteForAppointment - search: %v", ErrCalendar, err)
	}

	for _, event := range events {
		if err := s.calendar.Delete(ctx, event.ID); err != nil {
			return fmt.Errorf("%w: DeleteForAppointment - delete %s: %v", ErrCalendar, event.ID, err)
		}
	}
	if len(events) > 0 {
		s.logger.Info("CalendarMirror.DeleteForAppointment: removed %d event(s) for appointment=%s", len(events), appointmentID)
	}
	return nil
}

// Reconcile удаляет события клиента, записи которых нет среди liveIDs.
// Возвращает число удалённых событий.
func (s *Synchronizer) Reconcile(ctx context.Context, customerID string, liveIDs []string) (deleted int, err error) {
	defer func() { s.metrics.ObserveMirrorOperation("reconcile", err) }()

	if err := s.ensureAccess(ctx); err != nil {
		return 0, err
	}

	events, err := s.calendar.Search(ctx, domain.MirrorTag{CustomerID: customerID})
	if err != nil {
		return 0, fmt.Errorf("%w: Reconcile - search: %v", ErrCalendar, err)
	}

	live := make(map[string]struct{}, len(liveIDs))
	for _, id := range liveIDs {
		live[id] = struct{}{}
	}

	var errs []error
	for _, event := range events {
		if _, ok := live[event.Tag.AppointmentID]; ok {
			continue
		}
		if err := s.deleteEvent(ctx, event); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("CalendarMirror.Reconcile: customer=%s removed %d stale event(s)", customerID, deleted)
	}
	if len(errs) > 0 {
		return deleted, fmt.Errorf("%w: Reconcile: %v", ErrCalendar, errors.Join(errs...))
	}
	return deleted, nil
}

func (s *Synchronizer) deleteEvent(ctx context.Context, event domain.MirrorEvent) error {
	unlock := s.lock(event.Tag)
	defer unlock()
	return s.calendar.Delete(ctx, event.ID)
}

// ensureAccess запрашивает доступ при первом обращении и запоминает решение.
// Повторно статус проверяется, только пока он не определён.
func (s *Synchronizer) ensureAccess(ctx context.Context) error {
	s.accessMu.Lock()
	defer s.accessMu.Unlock()

	switch s.access {
	case domain.CalendarAccessGranted:
		return nil
	case domain.CalendarAccessDenied:
		return ErrPermissionDenied
	}

	status, err := s.authorizer.Status(ctx)
	if err != nil {
		return fmt.Errorf("%w: status: %v", ErrPermissionDenied, err)
	}
	if status == domain.CalendarAccessNotDetermined {
		status, err = s.authorizer.Request(ctx)
		if err != nil {
			return fmt.Errorf("%w: request: %v", ErrPermissionDenied, err)
		}
	}

	s.access = status
	s.logger.Info("CalendarMirror: calendar access %s", status)

	if status != domain.CalendarAccessGranted {
		return ErrPermissionDenied
	}
	return nil
}

// lock захватывает мьютекс записи; возвращает функцию освобождения
func (s *Synchronizer) lock(tag domain.MirrorTag) func() {
	s.locksMu.Lock()
	l, ok := s.locks[tag]
	if !ok {
		l = &tagLock{}
		s.locks[tag] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, tag)
		}
		s.locksMu.Unlock()
	}
}

func (s *Synchronizer) eventFor(a *domain.Appointment) domain.MirrorEvent {
	return domain.MirrorEvent{
		Title:   eventTitle(a),
		StartAt: a.StartAt,
		EndAt:   a.EndAt,
		Alarms:  slices.Clone(s.alarms),
		Notes:   eventNotes(a),
		Tag:     domain.MirrorTag{CustomerID: a.CustomerID, AppointmentID: a.ID},
	}
}

func eventTitle(a *domain.Appointment) string {
	switch {
	case a.TreatmentName != "" && a.CenterName != "":
		return fmt.Sprintf("%s at %s", a.TreatmentName, a.CenterName)
	case a.TreatmentName != "":
		return a.TreatmentName
	default:
		return "Spa appointment"
	}
}

func eventNotes(a *domain.Appointment) string {
	var lines []string
	if a.TherapistName != "" {
		lines = append(lines, "Therapist: "+a.TherapistName)
	}
	if a.Note != "" {
		lines = append(lines, "Note: "+a.Note)
	}
	return strings.Join(lines, "\n")
}

func sameEvent(a, b domain.MirrorEvent) bool {
	return a.Title == b.Title &&
		a.StartAt.Equal(b.StartAt) &&
		a.EndAt.Equal(b.EndAt) &&
		a.Notes == b.Notes &&
		slices.Equal(a.Alarms, b.Alarms)
}
