package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	policyRepo "github.com/m04kA/SMC-SpaBooking/internal/infra/storage/policy"
	"github.com/m04kA/SMC-SpaBooking/pkg/ptr"
)

const (
	levelTreatment = "treatment"
	levelCenter    = "center"
	levelDefault   = "default"

	// maxWindowHours верхняя граница окна (30 дней)
	maxWindowHours = 30 * 24
)

// Service сервис окон подтверждения и отмены записей
type Service struct {
	policyRepo PolicyRepository
	base       domain.Policy
	logger     Logger
}

// NewService создает сервис политик; base - окна из конфигурации
func NewService(policyRepo PolicyRepository, base domain.Policy, logger Logger) *Service {
	return &Service{
		policyRepo: policyRepo,
		base:       base,
		logger:     logger,
	}
}

// Effective возвращает окна для процедуры в центре.
// Приоритет: процедура в центре > весь центр > конфигурация
func (s *Service) Effective(ctx context.Context, centerID, treatmentID string) (domain.Policy, error) {
	policy, _, err := s.resolve(ctx, centerID, treatmentID)
	return policy, err
}

// Describe возвращает итоговые окна и уровень иерархии, из которого они взяты
func (s *Service) Describe(ctx context.Context, centerID, treatmentID string) (*EffectiveResponse, error) {
	policy, level, err := s.resolve(ctx, centerID, treatmentID)
	if err != nil {
		return nil, err
	}

	return &EffectiveResponse{
		CenterID:      centerID,
		TreatmentID:   treatmentID,
		Level:         level,
		ConfirmOpens:  policy.ConfirmOpens,
		ConfirmCloses: policy.ConfirmCloses,
		CancelNotice:  policy.CancelNotice,
	}, nil
}

// List получает все переопределения центра
func (s *Service) List(ctx context.Context, centerID string) ([]*OverrideResponse, error) {
	overrides, err := s.policyRepo.ListByCenter(ctx, centerID)
	if err != nil {
		s.logger.Error("List: repository error for center=%s: %v", centerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	// Переопределение процедуры наследует окна переопределения центра
	var centerWide *domain.PolicyOverride
	for _, o := range overrides {
		if o.IsCenterWide() {
			centerWide = o
		}
	}

	result := make([]*OverrideResponse, 0, len(overrides))
	for _, o := range overrides {
		effective := s.base
		if !o.IsCenterWide() {
			effective = centerWide.Apply(effective)
		}
		result = append(result, &OverrideResponse{Override: o, Effective: o.Apply(effective)})
	}
	return result, nil
}

// Upsert создает переопределение или обновляет существующее для того же уровня
func (s *Service) Upsert(ctx context.Context, req *UpsertRequest) (*OverrideResponse, error) {
	s.logger.Info("Upsert: saving policy for center=%s, treatment=%v", req.CenterID, req.TreatmentID)

	if err := s.validate(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	override := &domain.PolicyOverride{
		CenterID:           req.CenterID,
		TreatmentID:        req.TreatmentID,
		ConfirmOpensHours:  req.ConfirmOpensHours,
		ConfirmClosesHours: req.ConfirmClosesHours,
		CancelNoticeHours:  req.CancelNoticeHours,
	}

	existing, err := s.policyRepo.GetByCenterAndTreatment(ctx, req.CenterID, req.TreatmentID)
	switch {
	case err == nil:
		override, err = s.policyRepo.Update(ctx, existing.ID, override)
	case errors.Is(err, policyRepo.ErrPolicyNotFound):
		override, err = s.policyRepo.Create(ctx, override)
	}
	if err != nil {
		s.logger.Error("Upsert: repository error for center=%s: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	effective, err := s.Effective(ctx, req.CenterID, ptr.Value(req.TreatmentID))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Upsert: saved policy id=%d for center=%s", override.ID, req.CenterID)
	return &OverrideResponse{Override: override, Effective: effective}, nil
}

// Delete удаляет переопределение указанного уровня
func (s *Service) Delete(ctx context.Context, centerID string, treatmentID *string) error {
	existing, err := s.policyRepo.GetByCenterAndTreatment(ctx, centerID, treatmentID)
	if err == nil {
		err = s.policyRepo.Delete(ctx, existing.ID)
	}
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("Delete: no policy for center=%s, treatment=%v", centerID, treatmentID)
			return ErrPolicyNotFound
		}
		s.logger.Error("Delete: repository error for center=%s: %v", centerID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: removed policy id=%d for center=%s", existing.ID, centerID)
	return nil
}

func (s *Service) resolve(ctx context.Context, centerID, treatmentID string) (domain.Policy, string, error) {
	override, err := s.policyRepo.GetPolicyWithHierarchy(ctx, centerID, treatmentID)
	if errors.Is(err, policyRepo.ErrPolicyNotFound) {
		return s.base, levelDefault, nil
	}
	if err != nil {
		s.logger.Error("Effective: repository error for center=%s, treatment=%s: %v", centerID, treatmentID, err)
		return domain.Policy{}, "", fmt.Errorf("%w: Effective - repository error: %v", ErrInternal, err)
	}

	policy := s.base
	level := levelCenter
	if !override.IsCenterWide() {
		level = levelTreatment
		// Окна, не заданные для процедуры, берутся из политики центра
		centerWide, err := s.policyRepo.GetByCenterAndTreatment(ctx, centerID, nil)
		switch {
		case err == nil:
			policy = centerWide.Apply(policy)
		case !errors.Is(err, policyRepo.ErrPolicyNotFound):
			s.logger.Error("Effective: repository error for center=%s: %v", centerID, err)
			return domain.Policy{}, "", fmt.Errorf("%w: Effective - repository error: %v", ErrInternal, err)
		}
	}
	return override.Apply(policy), level, nil
}

// validate проверяет, что итоговые окна согласованы с окнами по умолчанию
func (s *Service) validate(req *UpsertRequest) error {
	if req.CenterID == "" {
		return fmt.Errorf("%w: center id is required", ErrInvalidInput)
	}
	if req.TreatmentID != nil && *req.TreatmentID == "" {
		return fmt.Errorf("%w: treatment id must not be empty", ErrInvalidInput)
	}

	for name, hours := range map[string]*int{
		"confirmOpensHours":  req.ConfirmOpensHours,
		"confirmClosesHours": req.ConfirmClosesHours,
		"cancelNoticeHours":  req.CancelNoticeHours,
	} {
		if hours != nil && (*hours < 0 || *hours > maxWindowHours) {
			return fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidInput, name, maxWindowHours)
		}
	}

	candidate := (&domain.PolicyOverride{
		ConfirmOpensHours:  req.ConfirmOpensHours,
		ConfirmClosesHours: req.ConfirmClosesHours,
		CancelNoticeHours:  req.CancelNoticeHours,
	}).Apply(s.base)
	if candidate.ConfirmOpens <= candidate.ConfirmCloses {
		return fmt.Errorf("%w: confirmation must open before it closes", ErrInvalidInput)
	}
	return nil
}
