package dbmetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observed struct {
	operation string
	err       error
}

type recordingObserver struct {
	calls []observed
}

func (o *recordingObserver) ObserveDBQuery(operation string, err error, _ time.Duration) {
	o.calls = append(o.calls, observed{operation: operation, err: err})
}

func TestDB_ObservesQueries(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	obs := &recordingObserver{}
	db := Wrap(sqlDB, obs)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM appointments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM appointments").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("a-1"))
	mock.ExpectQuery("SELECT id FROM appointments").WillReturnError(errors.New("connection reset"))

	_, err = db.ExecContext(ctx, "DELETE FROM appointments WHERE id = $1", "a-1")
	require.NoError(t, err)

	var id string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT id FROM appointments WHERE id = $1", "a-1").Scan(&id))
	assert.Equal(t, "a-1", id)

	_, err = db.QueryContext(ctx, "SELECT id FROM appointments")
	require.Error(t, err)

	require.Len(t, obs.calls, 3)
	assert.Equal(t, "delete", obs.calls[0].operation)
	assert.NoError(t, obs.calls[0].err)
	assert.Equal(t, "select", obs.calls[1].operation)
	assert.Error(t, obs.calls[2].err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "insert", operation("  INSERT INTO appointments"))
	assert.Equal(t, "unknown", operation(""))
}
