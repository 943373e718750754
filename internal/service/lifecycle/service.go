package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SpaBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SpaBooking/internal/integrations/spaapi"
	"github.com/m04kA/SMC-SpaBooking/internal/service/calendarmirror"
)

// Service действия над записью клиента: подтверждение, отмена, повторная запись.
// Локальная запись меняется только после того, как бэкенд принял действие.
type Service struct {
	backend         BackendClient
	appointmentRepo AppointmentRepository
	policies        PolicyResolver
	mirror          CalendarMirror
	carryover       Carryover
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает сервис жизненного цикла записей
func NewService(
	backend BackendClient,
	appointmentRepo AppointmentRepository,
	policies PolicyResolver,
	mirror CalendarMirror,
	carryover Carryover,
	logger Logger,
) *Service {
	return &Service{
		backend:         backend,
		appointmentRepo: appointmentRepo,
		policies:        policies,
		mirror:          mirror,
		carryover:       carryover,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Actions возвращает запись с действиями, доступными прямо сейчас
func (s *Service) Actions(ctx context.Context, customerID, id string) (*AppointmentView, error) {
	appointment, err := s.get(ctx, "Actions", customerID, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, appointment)
}

// List возвращает записи клиента; закончившиеся помечаются как past
func (s *Service) List(ctx context.Context, customerID string) ([]*AppointmentView, error) {
	appointments, err := s.appointmentRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("List: repository error for customer=%s: %v", customerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	views := make([]*AppointmentView, 0, len(appointments))
	for _, appointment := range appointments {
		view, err := s.view(ctx, appointment)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Confirm подтверждает зарезервированную запись внутри окна подтверждения.
// Календарь не меняется: событие уже создано при резервировании.
func (s *Service) Confirm(ctx context.Context, customerID, id string) (*AppointmentView, error) {
	s.logger.Info("Confirm: confirming appointment=%s for customer=%s", id, customerID)

	appointment, err := s.get(ctx, "Confirm", customerID, id)
	if err != nil {
		return nil, err
	}

	policy, err := s.policyFor(ctx, appointment)
	if err != nil {
		return nil, err
	}
	if !policy.IsConfirmable(appointment, s.timeProvider.Now()) {
		s.logger.Warn("Confirm: appointment=%s is not confirmable, state=%s, start=%s",
			id, appointment.State, appointment.StartAt)
		return nil, ErrNotConfirmable
	}

	// Ошибка бэкенда возвращается как есть: текст сервера показывается пользователю
	if err := s.backend.ConfirmAppointment(ctx, customerID, id); err != nil {
		s.logger.Warn("Confirm: backend rejected appointment=%s: %v", id, err)
		return nil, err
	}

	if err := s.appointmentRepo.UpdateState(ctx, customerID, id, domain.StateConfirmed); err != nil {
		s.logger.Error("Confirm: failed to store confirmed state for appointment=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}
	appointment.State = domain.StateConfirmed

	s.logger.Info("Confirm: appointment=%s confirmed", id)
	return s.view(ctx, appointment)
}

// Cancel отменяет запись, если до начала осталось больше окна отмены.
// После отмены запись удаляется локально вместе с событием календаря.
func (s *Service) Cancel(ctx context.Context, customerID, id string) error {
	s.logger.Info("Cancel: cancelling appointment=%s for customer=%s", id, customerID)

	appointment, err := s.get(ctx, "Cancel", customerID, id)
	if err != nil {
		return err
	}

	policy, err := s.policyFor(ctx, appointment)
	if err != nil {
		return err
	}
	if !policy.IsCancellable(appointment, s.timeProvider.Now()) {
		s.logger.Warn("Cancel: appointment=%s is not cancellable, state=%s, start=%s",
			id, appointment.State, appointment.StartAt)
		return ErrNotCancellable
	}

	if err := s.backend.CancelAppointment(ctx, customerID, id); err != nil {
		s.logger.Warn("Cancel: backend rejected appointment=%s: %v", id, err)
		return err
	}

	if err := s.appointmentRepo.Delete(ctx, customerID, id); err != nil && !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Error("Cancel: failed to delete appointment=%s: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.mirror.DeleteForAppointment(ctx, customerID, id); err != nil {
		s.logger.Warn("Cancel: calendar event for appointment=%s not removed: %v", id, err)
	}

	s.logger.Info("Cancel: appointment=%s cancelled", id)
	return nil
}

// Rebook сохраняет выбор из записи для следующей сессии бронирования
func (s *Service) Rebook(ctx context.Context, customerID, id string) (domain.Selection, error) {
	appointment, err := s.get(ctx, "Rebook", customerID, id)
	if err != nil {
		return domain.Selection{}, err
	}

	sel := s.carryover.Put(customerID, appointment)
	s.logger.Info("Rebook: carryover stored from appointment=%s for customer=%s", id, customerID)
	return sel, nil
}

// Refresh получает актуальное состояние записи с бэкенда и сохраняет его.
// Событие календаря создаётся или удаляется в зависимости от нового состояния.
func (s *Service) Refresh(ctx context.Context, customerID, id string) (*AppointmentView, error) {
	local, err := s.get(ctx, "Refresh", customerID, id)
	if err != nil {
		return nil, err
	}

	remote, err := s.backend.FetchAppointment(ctx, customerID, id)
	if err != nil {
		if errors.Is(err, spaapi.ErrNotFound) {
			s.logger.Warn("Refresh: appointment=%s no longer exists on backend", id)
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	merged := mergeRemote(local, remote)
	if err := s.appointmentRepo.Save(ctx, merged); err != nil {
		s.logger.Error("Refresh: failed to store appointment=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Refresh - repository error: %v", ErrInternal, err)
	}

	var mirrorErr error
	if merged.IsLive(s.timeProvider.Now()) {
		mirrorErr = s.mirror.Upsert(ctx, merged)
	} else {
		mirrorErr = s.mirror.DeleteForAppointment(ctx, customerID, id)
	}
	if mirrorErr != nil {
		s.logger.Warn("Refresh: calendar not updated for appointment=%s: %v", id, mirrorErr)
	}

	return s.view(ctx, merged)
}

// SyncMirror создает события для всех актуальных записей клиента и удаляет остальные.
// Запись, которую не удалось отразить, не считается удалённой: её событие сохраняется.
func (s *Service) SyncMirror(ctx context.Context, customerID string) (*SyncResult, error) {
	appointments, err := s.appointmentRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("SyncMirror: repository error for customer=%s: %v", customerID, err)
		return nil, fmt.Errorf("%w: SyncMirror - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	result := &SyncResult{}
	liveIDs := make([]string, 0, len(appointments))

	for _, appointment := range appointments {
		if !appointment.IsLive(now) {
			continue
		}
		liveIDs = append(liveIDs, appointment.ID)

		if err := s.mirror.Upsert(ctx, appointment); err != nil {
			if errors.Is(err, calendarmirror.ErrPermissionDenied) {
				s.logger.Info("SyncMirror: calendar access denied, skipping customer=%s", customerID)
				return nil, err
			}
			s.logger.Warn("SyncMirror: appointment=%s not mirrored: %v", appointment.ID, err)
			result.Failed = append(result.Failed, appointment.ID)
			continue
		}
		result.Mirrored++
	}

	removed, err := s.mirror.Reconcile(ctx, customerID, liveIDs)
	result.Removed = removed
	if err != nil {
		if errors.Is(err, calendarmirror.ErrPermissionDenied) {
			return nil, err
		}
		s.logger.Warn("SyncMirror: reconcile for customer=%s incomplete: %v", customerID, err)
		return result, fmt.Errorf("%w: SyncMirror - reconcile: %v", ErrInternal, err)
	}

	s.logger.Info("SyncMirror: customer=%s mirrored=%d failed=%d removed=%d",
		customerID, result.Mirrored, len(result.Failed), result.Removed)
	return result, nil
}

func (s *Service) get(ctx context.Context, op, customerID, id string) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, customerID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment=%s not found for customer=%s", op, id, customerID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

func (s *Service) policyFor(ctx context.Context, appointment *domain.Appointment) (domain.Policy, error) {
	policy, err := s.policies.Effective(ctx, appointment.CenterID, appointment.TreatmentID)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("%w: policy for appointment=%s: %v", ErrInternal, appointment.ID, err)
	}
	return policy, nil
}

func (s *Service) view(ctx context.Context, appointment *domain.Appointment) (*AppointmentView, error) {
	policy, err := s.policyFor(ctx, appointment)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	return &AppointmentView{
		Appointment: appointment,
		Status:      policy.Classify(appointment, now),
		CanConfirm:  policy.IsConfirmable(appointment, now),
		CanCancel:   policy.IsCancellable(appointment, now),
	}, nil
}

// mergeRemote переносит состояние с бэкенда, сохраняя локальные поля, которых бэкенд не вернул
func mergeRemote(local, remote *domain.Appointment) *domain.Appointment {
	merged := *local
	merged.State = remote.State
	if !remote.StartAt.IsZero() {
		merged.StartAt = remote.StartAt
	}
	if !remote.EndAt.IsZero() {
		merged.EndAt = remote.EndAt
	}
	if remote.TherapistID != "" {
		merged.TherapistID = remote.TherapistID
		merged.TherapistName = remote.TherapistName
	}
	if remote.SessionsRemaining != 0 {
		merged.SessionsRemaining = remote.SessionsRemaining
	}
	return &merged
}
