package create_appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
)

type stubUseCase struct {
	resp *createAppointment.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, _ *createAppointment.Request) (*createAppointment.Response, error) {
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func validBody() []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"businessId": 1,
		"serviceId":  10,
		"date":       "2026-09-07",
		"startTime":  "10:00",
		"clientId":   100,
	})
	return body
}

func doRequest(uc CreateAppointmentUseCase, body []byte) *httptest.ResponseRecorder {
	handler := NewHandler(uc, nopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{resp: &createAppointment.Response{
		ID:         1,
		BusinessID: 1,
		ServiceID:  10,
		EmployeeID: 5,
		StartTime:  "10:00",
		EndTime:    "10:30",
		Status:     "pending",
	}}

	rec := doRequest(uc, validBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "pending", resp.Status)
}

func TestHandle_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"slot conflict", createAppointment.ErrSlotNotAvailable, http.StatusConflict},
		{"business not found", createAppointment.ErrBusinessNotFound, http.StatusNotFound},
		{"service not found", createAppointment.ErrServiceNotFound, http.StatusNotFound},
		{"employee not found", createAppointment.ErrEmployeeNotFound, http.StatusNotFound},
		{"service inactive", createAppointment.ErrServiceInactive, http.StatusUnprocessableEntity},
		{"employee inactive", createAppointment.ErrEmployeeInactive, http.StatusUnprocessableEntity},
		{"business closed", createAppointment.ErrBusinessClosed, http.StatusBadRequest},
		{"outside booking window", createAppointment.ErrOutsideBookingWindow, http.StatusBadRequest},
		{"invalid identity", createAppointment.ErrInvalidIdentity, http.StatusBadRequest},
		{"invalid input", createAppointment.ErrInvalidInput, http.StatusBadRequest},
		{"internal", createAppointment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(&stubUseCase{err: tc.err}, validBody())
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	rec := doRequest(&stubUseCase{}, []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_ParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		date    string
		time    string
		wantMsg string
	}{
		{"bad date format", "07.09.2026", "10:00", msgInvalidDate},
		{"bad time format", "2026-09-07", "25:99", msgInvalidTime},
		// время с секундами длиннее "HH:MM" — ошибка всё равно про время
		{"time with seconds", "2026-09-07", "10:00:00", msgInvalidTime},
		{"both invalid reports date first", "07.09.2026", "25:99", msgInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]interface{}{
				"businessId": 1,
				"serviceId":  10,
				"date":       tc.date,
				"startTime":  tc.time,
				"clientId":   100,
			})
			rec := doRequest(&stubUseCase{}, body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantMsg, resp.Message)
		})
	}
}
