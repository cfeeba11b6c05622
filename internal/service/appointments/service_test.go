package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	apptRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// --- фейки ---

type fakeRepo struct {
	byID map[int64]*domain.Appointment

	// касовое обновление: если casConflict=true, первое обновление
	// отвергается как конкурирующее
	casConflict bool

	updated *domain.Appointment
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (f *fakeRepo) GetByClientID(_ context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.byID {
		if a.ClientID == nil || *a.ClientID != clientID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeRepo) GetByBusinessWithFilter(_ context.Context, filter domain.BusinessDayFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.byID {
		if a.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if !filter.IncludeInactive && !a.IsActive() {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeRepo) UpdateStatusFrom(_ context.Context, id int64, expected domain.AppointmentStatus, updated *domain.Appointment) error {
	if f.casConflict {
		f.casConflict = false
		return apptRepo.ErrStatusConflict
	}
	current, ok := f.byID[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	if current.Status != expected {
		return apptRepo.ErrStatusConflict
	}
	stored := *updated
	f.byID[id] = &stored
	f.updated = &stored
	return nil
}

type fakeBusinessClient struct {
	requireDeposit bool
}

func (f *fakeBusinessClient) GetBusiness(_ context.Context, businessID int64) (*businessservice.Business, error) {
	return &businessservice.Business{
		ID:       businessID,
		Timezone: "UTC",
		Settings: businessservice.Settings{RequireDeposit: f.requireDeposit},
	}, nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- фикстуры ---

var testNow = time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC)

func appointment(id int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:         id,
		BusinessID: 1,
		ServiceID:  10,
		EmployeeID: 5,
		ClientID:   ptr.Ptr(int64(100)),
		Date:       time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		EndTime:    "10:30",
		Status:     status,
	}
}

func newTestService(repo *fakeRepo, client *fakeBusinessClient) *Service {
	svc := NewService(repo, client, nopLogger{})
	svc.timeProvider = &fixedTime{now: testNow}
	return svc
}

// --- тесты ---

func TestGetByID(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Appointment{
		1: appointment(1, domain.StatusConfirmed),
	}}
	svc := newTestService(repo, &fakeBusinessClient{})

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)

	_, err = svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetClientAppointments_StatusFilter(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Appointment{
		1: appointment(1, domain.StatusConfirmed),
		2: appointment(2, domain.StatusCompleted),
	}}
	svc := newTestService(repo, &fakeBusinessClient{})

	resp, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
		ClientID: 100,
		Status:   ptr.Ptr("completed"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "completed", resp.Appointments[0].Status)

	_, err = svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
		ClientID: 100,
		Status:   ptr.Ptr("done"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransition_ConfirmedToCompleted(t *testing.T) {
	// Стойка закрывает запись без промежуточных статусов
	repo := &fakeRepo{byID: map[int64]*domain.Appointment{
		1: appointment(1, domain.StatusConfirmed),
	}}
	svc := newTestService(repo, &fakeBusinessClient{})

	resp, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Status: "completed"})
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	assert.True(t, resp.IsPaid)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, testNow.Format(time.RFC3339), *resp.CompletedAt)
}

func TestTransition_CompleteWithDeposit(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Appointment{
		1: appointment(1, domain.StatusInProgress),
	}}
	svc := newTestService(repo, &fakeBusinessClient{requireDeposit: true})

	resp, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Status: "completed"})
	require.NoError(t, err)

	// При собранном депозите оплата остаётся на биллинге
	assert.False(t, resp.IsPaid)
}

func TestTransition_CancelWithReason(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Appointment{
		1: appointment(1, domain.StatusPending),
	}}
	svc := newTestService(repo, &fakeBusinessClient{})

	resp, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{
		Status:             "cancelled",
		CancellationReason: ptr.Ptr("клиент заболел"),
	})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "клиент заболел", *resp.CancellationReason)
	require.NotNil(t, resp.CancelledAt)
}

func TestTransition_TerminalStatusRejected(t *testing.T) {
	for _, terminal := range domain.TerminalStatuses {
		repo := &fakeRepo{byID: map[int64]*domain.Appointment{
			1: appointment(1, terminal),
		}}
		svc := newTestService(repo, &fakeBusinessClient{})

		_, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Status: "confirmed"})
		assert.ErrorIs(t, err, ErrInvalidTransition, "transition out of %s must be rejected", terminal)

		// Запись не изменена
		assert.Equal(t, terminal, repo.byID[1].Status)
		assert.Nil(t, repo.updated)
	}
}

func TestTransition_IllegalTransition(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Appointment{
		1: appointment(1, domain.StatusPending),
	}}
	svc := newTestService(repo, &fakeBusinessClient{})

	_, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Status: "in_progress"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusPending, repo.byID[1].Status)
}

func TestTransition_UnknownStatus(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Appointment{
		1: appointment(1, domain.StatusPending),
	}}
	svc := newTestService(repo, &fakeBusinessClient{})

	_, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Status: "rescheduled"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransition_ConcurrentChangeConflict(t *testing.T) {
	repo := &fakeRepo{
		byID: map[int64]*domain.Appointment{
			1: appointment(1, domain.StatusConfirmed),
		},
		casConflict: true,
	}
	svc := newTestService(repo, &fakeBusinessClient{})

	_, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Status: "checked_in"})
	assert.ErrorIs(t, err, ErrTransitionConflict)
}

func TestTransition_NotFound(t *testing.T) {
	svc := newTestService(&fakeRepo{byID: map[int64]*domain.Appointment{}}, &fakeBusinessClient{})

	_, err := svc.Transition(context.Background(), 42, &models.TransitionRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
