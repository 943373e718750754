package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"customer_id",
	"center_id",
	"center_name",
	"treatment_id",
	"treatment_name",
	"addon_ids",
	"therapist_id",
	"therapist_name",
	"start_at",
	"end_at",
	"state",
	"sessions_remaining",
	"note",
	"created_at",
	"updated_at",
}

// Repository локальное хранилище записей клиента
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Save сохраняет запись: создаёт новую или перезаписывает существующую с тем же ID
func (r *Repository) Save(ctx context.Context, a *domain.Appointment) error {
	if !a.State.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidState, a.State)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"customer_id",
			"center_id",
			"center_name",
			"treatment_id",
			"treatment_name",
			"addon_ids",
			"therapist_id",
			"therapist_name",
			"start_at",
			"end_at",
			"state",
			"sessions_remaining",
			"note",
		).
		Values(
			a.ID,
			a.CustomerID,
			a.CenterID,
			a.CenterName,
			a.TreatmentID,
			a.TreatmentName,
			pq.Array(a.AddonIDs),
			a.TherapistID,
			a.TherapistName,
			a.StartAt,
			a.EndAt,
			string(a.State),
			a.SessionsRemaining,
			a.Note,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			center_id = EXCLUDED.center_id,
			center_name = EXCLUDED.center_name,
			treatment_id = EXCLUDED.treatment_id,
			treatment_name = EXCLUDED.treatment_name,
			addon_ids = EXCLUDED.addon_ids,
			therapist_id = EXCLUDED.therapist_id,
			therapist_name = EXCLUDED.therapist_name,
			start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at,
			state = EXCLUDED.state,
			sessions_remaining = EXCLUDED.sessions_remaining,
			note = EXCLUDED.note,
			updated_at = NOW()
		WHERE appointments.customer_id = EXCLUDED.customer_id
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// запись с таким ID принадлежит другому клиенту
		return fmt.Errorf("%w: Save - id %s belongs to another customer", ErrExecQuery, a.ID)
	}
	if err != nil {
		return fmt.Errorf("%w: Save - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return nil
}

// GetByID получает запись клиента по ID
func (r *Repository) GetByID(ctx context.Context, customerID, id string) (*domain.Appointment, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "customer_id": customerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := scanAppointment(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}
	return appointment, nil
}

// ListByCustomer получает все записи клиента по возрастанию времени начала
func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Appointment, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByCustomer - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// UpdateState обновляет состояние записи
func (r *Repository) UpdateState(ctx context.Context, customerID, id string, state domain.AppointmentState) error {
	if !state.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidState, state)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("state", string(state)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "customer_id": customerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffecting(ctx, "UpdateState", query, args)
}

// Delete удаляет запись
func (r *Repository) Delete(ctx context.Context, customerID, id string) error {
	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id, "customer_id": customerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffecting(ctx, "Delete", query, args)
}

func (r *Repository) execAffecting(ctx context.Context, op, query string, args []interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		state                string
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.CenterID,
		&a.CenterName,
		&a.TreatmentID,
		&a.TreatmentName,
		pq.Array(&a.AddonIDs),
		&a.TherapistID,
		&a.TherapistName,
		&a.StartAt,
		&a.EndAt,
		&state,
		&a.SessionsRemaining,
		&a.Note,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.State = domain.AppointmentState(state)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}
