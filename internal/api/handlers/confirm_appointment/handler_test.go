package confirm_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/integrations/spaapi"
	"github.com/m04kA/SMC-SpaBooking/internal/service/lifecycle"
	"github.com/m04kA/SMC-SpaBooking/pkg/logger"
)

type fakeService struct {
	view *lifecycle.AppointmentView
	err  error

	customerID, id string
}

func (f *fakeService) Confirm(_ context.Context, customerID, id string) (*lifecycle.AppointmentView, error) {
	f.customerID, f.id = customerID, id
	return f.view, f.err
}

func serve(svc AppointmentService, customerID string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointments/{appointmentId}/confirm", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/a-1/confirm", nil)
	if customerID != "" {
		req = req.WithContext(middleware.WithCustomerID(req.Context(), customerID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Confirmed(t *testing.T) {
	start := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	svc := &fakeService{view: &lifecycle.AppointmentView{
		Appointment: &domain.Appointment{ID: "a-1", CustomerID: "cust-1", StartAt: start, EndAt: start.Add(time.Hour), State: domain.StateConfirmed},
		Status:      domain.StateConfirmed,
		CanCancel:   true,
	}}

	rec := serve(svc, "cust-1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cust-1", svc.customerID)
	assert.Equal(t, "a-1", svc.id)

	var resp handlers.AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "a-1", resp.ID)
	assert.Equal(t, string(domain.StateConfirmed), resp.State)
	assert.False(t, resp.CanConfirm)
	assert.True(t, resp.CanCancel)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name        string
		customerID  string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "no customer", customerID: "", wantStatus: http.StatusUnauthorized},
		{name: "outside window", customerID: "cust-1", err: lifecycle.ErrNotConfirmable, wantStatus: http.StatusConflict},
		{name: "not found", customerID: "cust-1", err: lifecycle.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{
			name:        "backend message passed through",
			customerID:  "cust-1",
			err:         &spaapi.ServerError{StatusCode: http.StatusBadRequest, Message: "Appointment already confirmed"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Appointment already confirmed",
		},
		{name: "internal", customerID: "cust-1", err: lifecycle.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.customerID)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				var resp handlers.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
		})
	}
}
