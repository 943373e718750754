package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/pkg/psqlbuilder"
)

const table = "policy_overrides"

var columns = []string{
	"id",
	"center_id",
	"treatment_id",
	"confirm_opens_hours",
	"confirm_closes_hours",
	"cancel_notice_hours",
	"created_at",
	"updated_at",
}

// Repository репозиторий переопределений политики подтверждения и отмены
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое переопределение политики
func (r *Repository) Create(ctx context.Context, o *domain.PolicyOverride) (*domain.PolicyOverride, error) {
	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"center_id",
			"treatment_id",
			"confirm_opens_hours",
			"confirm_closes_hours",
			"cancel_notice_hours",
		).
		Values(
			o.CenterID,
			o.TreatmentID,
			o.ConfirmOpensHours,
			o.ConfirmClosesHours,
			o.CancelNoticeHours,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&o.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time
	return o, nil
}

// GetByCenterAndTreatment получает переопределение конкретного уровня иерархии:
// treatmentID == nil - политика всего центра
func (r *Repository) GetByCenterAndTreatment(ctx context.Context, centerID string, treatmentID *string) (*domain.PolicyOverride, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"center_id": centerID})

	// Фильтрация по treatment_id (NULL или конкретное значение)
	if treatmentID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"treatment_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"treatment_id": *treatmentID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCenterAndTreatment - build select query: %v", ErrBuildQuery, err)
	}

	o, err := scanOverride(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCenterAndTreatment - scan override: %v", ErrScanRow, err)
	}
	return o, nil
}

// GetPolicyWithHierarchy получает переопределение с учетом иерархии приоритетов:
// 1. Процедура в конкретном центре (centerID, treatmentID)
// 2. Весь центр (centerID, NULL)
//
// Если переопределение не найдено ни на одном уровне, возвращает ErrPolicyNotFound
func (r *Repository) GetPolicyWithHierarchy(ctx context.Context, centerID, treatmentID string) (*domain.PolicyOverride, error) {
	if treatmentID != "" {
		o, err := r.GetByCenterAndTreatment(ctx, centerID, &treatmentID)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, ErrPolicyNotFound) {
			return nil, fmt.Errorf("%w: GetPolicyWithHierarchy - level 1 (center+treatment): %v", ErrExecQuery, err)
		}
	}

	o, err := r.GetByCenterAndTreatment(ctx, centerID, nil)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("%w: GetPolicyWithHierarchy - level 2 (center): %v", ErrExecQuery, err)
	}

	return nil, ErrPolicyNotFound
}

// ListByCenter получает все переопределения центра, политика всего центра первой
func (r *Repository) ListByCenter(ctx context.Context, centerID string) ([]*domain.PolicyOverride, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"center_id": centerID}).
		OrderBy("treatment_id ASC NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCenter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCenter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.PolicyOverride, 0)
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByCenter - scan row: %v", ErrScanRow, err)
		}
		overrides = append(overrides, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByCenter - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// Update обновляет окна переопределения
func (r *Repository) Update(ctx context.Context, id int64, o *domain.PolicyOverride) (*domain.PolicyOverride, error) {
	query, args, err := psqlbuilder.Update(table).
		Set("confirm_opens_hours", o.ConfirmOpensHours).
		Set("confirm_closes_hours", o.ConfirmClosesHours).
		Set("cancel_notice_hours", o.CancelNoticeHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	o.ID = id
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time
	return o, nil
}

// Delete удаляет переопределение
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPolicyNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOverride(row rowScanner) (*domain.PolicyOverride, error) {
	var (
		o                    domain.PolicyOverride
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&o.ID,
		&o.CenterID,
		&o.TreatmentID,
		&o.ConfirmOpensHours,
		&o.ConfirmClosesHours,
		&o.CancelNoticeHours,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time
	return &o, nil
}
