package create_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	apptRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/clientservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// --- фейки ---

// fakeTxManager имитирует сериализуемую изоляцию глобальным мьютексом:
// транзакции выполняются строго по одной
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// fakeApptRepo in-memory репозиторий, поддерживающий инвариант частичного
// уникального индекса: один сотрудник не может иметь две активные записи
// с одинаковым временем начала на одну дату
type fakeApptRepo struct {
	mu              sync.Mutex
	nextID          int64
	appointments    []*domain.Appointment
	employeeFetches int // количество выборок по одному сотруднику
	businessFetches int // количество выборок по всему бизнесу
}

func (f *fakeApptRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.appointments {
		if existing.EmployeeID == appt.EmployeeID &&
			existing.Date.Equal(appt.Date) &&
			existing.StartTime == appt.StartTime &&
			existing.IsActive() {
			return nil, apptRepo.ErrSlotTaken
		}
	}

	f.nextID++
	created := *appt
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.appointments = append(f.appointments, &created)

	result := created
	return &result, nil
}

func (f *fakeApptRepo) GetByEmployeeAndDate(_ context.Context, filter domain.EmployeeDayFilter) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.employeeFetches++
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if a.EmployeeID != filter.EmployeeID {
			continue
		}
		if !a.Date.Equal(filter.Date) {
			continue
		}
		if !filter.IncludeInactive && !a.IsActive() {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeApptRepo) GetByBusinessWithFilter(_ context.Context, filter domain.BusinessDayFilter) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.businessFetches++
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if a.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Date != nil && !a.Date.Equal(*filter.Date) {
			continue
		}
		if !filter.IncludeInactive && !a.IsActive() {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

type fakeBusinessClient struct {
	business  *businessservice.Business
	service   *businessservice.Service
	employees []businessservice.Employee
}

func (f *fakeBusinessClient) GetBusiness(_ context.Context, _ int64) (*businessservice.Business, error) {
	if f.business == nil {
		return nil, businessservice.ErrBusinessNotFound
	}
	return f.business, nil
}

func (f *fakeBusinessClient) GetService(_ context.Context, _, _ int64) (*businessservice.Service, error) {
	if f.service == nil {
		return nil, businessservice.ErrServiceNotFound
	}
	svc := *f.service
	return &svc, nil
}

func (f *fakeBusinessClient) GetEmployees(_ context.Context, _ int64) ([]businessservice.Employee, error) {
	return f.employees, nil
}

type fakeClientClient struct {
	known map[int64]bool
}

func (f *fakeClientClient) GetClient(_ context.Context, clientID int64) (*clientservice.Account, error) {
	if !f.known[clientID] {
		return nil, clientservice.ErrClientNotFound
	}
	return &clientservice.Account{ID: clientID}, nil
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

// 2026-09-07 — понедельник
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func mondayBusiness() *businessservice.Business {
	return &businessservice.Business{
		ID:       1,
		Timezone: "UTC",
		WorkingHours: domain.WeekSchedule{
			Monday: domain.DaySchedule{
				IsOpen:    true,
				OpenTime:  ptr.Ptr("09:00"),
				CloseTime: ptr.Ptr("19:00"),
			},
		},
		Settings: businessservice.Settings{
			SlotIntervalMinutes:   30,
			MaxAdvanceBookingDays: 30,
		},
	}
}

func haircut() *businessservice.Service {
	return &businessservice.Service{
		ID:              10,
		BusinessID:      1,
		Name:            "Стрижка",
		DurationMinutes: 30,
		Price:           ptr.Ptr(1500.0),
		IsActive:        true,
	}
}

func barber(id int64) businessservice.Employee {
	return businessservice.Employee{
		ID:         id,
		BusinessID: 1,
		ServiceIDs: []int64{10},
		IsActive:   true,
	}
}

func newTestUseCase(repo *fakeApptRepo, business *fakeBusinessClient, now time.Time) *UseCase {
	uc := NewUseCase(repo, business, &fakeClientClient{known: map[int64]bool{100: true}}, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTime{now: now}
	return uc
}

func bookingRequest() *Request {
	return &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       monday,
		StartTime:  "10:00",
		ClientID:   ptr.Ptr(int64(100)),
	}
}

var tuesdayNoon = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// --- тесты ---

func TestCreateAppointment_Success(t *testing.T) {
	repo := &fakeApptRepo{}
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(repo, client, tuesdayNoon)

	resp, err := uc.Execute(context.Background(), bookingRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(5), resp.EmployeeID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "10:30", resp.EndTime.String())
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
	assert.False(t, resp.IsPaid)
}

func TestCreateAppointment_AutoConfirm(t *testing.T) {
	business := mondayBusiness()
	business.Settings.AutoConfirm = true
	client := &fakeBusinessClient{
		business:  business,
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(&fakeApptRepo{}, client, tuesdayNoon)

	resp, err := uc.Execute(context.Background(), bookingRequest())
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestCreateAppointment_SnapshotSurvivesServiceMutation(t *testing.T) {
	repo := &fakeApptRepo{}
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(repo, client, tuesdayNoon)

	resp, err := uc.Execute(context.Background(), bookingRequest())
	require.NoError(t, err)

	// Бизнес меняет цену и длительность услуги после бронирования
	client.service.Price = ptr.Ptr(9900.0)
	client.service.DurationMinutes = 120
	client.service.Name = "Стрижка премиум"

	stored, err := repo.GetByBusinessWithFilter(context.Background(), domain.BusinessDayFilter{BusinessID: 1, Date: &monday})
	require.NoError(t, err)
	require.Len(t, stored, 1)

	assert.Equal(t, resp.ID, stored[0].ID)
	assert.Equal(t, 1500.0, stored[0].ServicePrice)
	assert.Equal(t, 30, stored[0].DurationMinutes)
	assert.Equal(t, "Стрижка", stored[0].ServiceName)
}

func TestCreateAppointment_GuestBooking(t *testing.T) {
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(&fakeApptRepo{}, client, tuesdayNoon)

	req := bookingRequest()
	req.ClientID = nil
	req.Guest = &GuestInfo{Name: "Иван", Email: "ivan@example.com", Phone: "+79990001122"}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, resp.ClientID)
	require.NotNil(t, resp.GuestName)
	assert.Equal(t, "Иван", *resp.GuestName)
}

func TestCreateAppointment_IdentityValidation(t *testing.T) {
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(&fakeApptRepo{}, client, tuesdayNoon)

	// Обе формы сразу
	req := bookingRequest()
	req.Guest = &GuestInfo{Name: "Иван", Email: "ivan@example.com", Phone: "+79990001122"}
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	// Ни одной формы
	req = bookingRequest()
	req.ClientID = nil
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	// Неполные гостевые данные
	req = bookingRequest()
	req.ClientID = nil
	req.Guest = &GuestInfo{Name: "Иван"}
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	// Неизвестный клиент
	req = bookingRequest()
	req.ClientID = ptr.Ptr(int64(777))
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestCreateAppointment_InactiveService(t *testing.T) {
	service := haircut()
	service.IsActive = false
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   service,
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(&fakeApptRepo{}, client, tuesdayNoon)

	_, err := uc.Execute(context.Background(), bookingRequest())
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestCreateAppointment_EmployeeChecks(t *testing.T) {
	inactive := barber(5)
	inactive.IsActive = false
	unqualified := barber(6)
	unqualified.ServiceIDs = []int64{99}
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{inactive, unqualified},
	}
	uc := newTestUseCase(&fakeApptRepo{}, client, tuesdayNoon)

	// Конкретный неактивный сотрудник
	req := bookingRequest()
	req.EmployeeID = ptr.Ptr(int64(5))
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmployeeInactive)

	// Конкретный сотрудник без нужной услуги
	req = bookingRequest()
	req.EmployeeID = ptr.Ptr(int64(6))
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmployeeInactive)

	// Несуществующий сотрудник
	req = bookingRequest()
	req.EmployeeID = ptr.Ptr(int64(42))
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	// "Any" без единого подходящего сотрудника
	_, err = uc.Execute(context.Background(), bookingRequest())
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestCreateAppointment_BookingWindow(t *testing.T) {
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}

	// Дата в прошлом
	uc := newTestUseCase(&fakeApptRepo{}, client, time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC))
	_, err := uc.Execute(context.Background(), bookingRequest())
	assert.ErrorIs(t, err, ErrOutsideBookingWindow)

	// За горизонтом бронирования
	business := mondayBusiness()
	business.Settings.MaxAdvanceBookingDays = 3
	client.business = business
	uc = newTestUseCase(&fakeApptRepo{}, client, tuesdayNoon)
	_, err = uc.Execute(context.Background(), bookingRequest())
	assert.ErrorIs(t, err, ErrOutsideBookingWindow)
}

func TestCreateAppointment_ClosedDay(t *testing.T) {
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(&fakeApptRepo{}, client, tuesdayNoon)

	// 2026-09-08 — вторник, расписание не заполнено
	req := bookingRequest()
	req.Date = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestCreateAppointment_OutsideWorkingHours(t *testing.T) {
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(&fakeApptRepo{}, client, tuesdayNoon)

	// До открытия
	req := bookingRequest()
	req.StartTime = "08:30"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideBookingWindow)

	// Услуга не успевает закончиться до закрытия
	req = bookingRequest()
	req.StartTime = "18:45"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideBookingWindow)
}

func TestCreateAppointment_TodayElapsedTime(t *testing.T) {
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	// Сегодня понедельник, 14:00
	uc := newTestUseCase(&fakeApptRepo{}, client, time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC))

	// Время уже прошло
	req := bookingRequest()
	req.StartTime = "13:30"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideBookingWindow)

	// Walk-in на текущую минуту допустим
	req = bookingRequest()
	req.StartTime = "14:00"
	_, err = uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateAppointment_SlotAlreadyTaken(t *testing.T) {
	repo := &fakeApptRepo{}
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(repo, client, tuesdayNoon)

	_, err := uc.Execute(context.Background(), bookingRequest())
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), bookingRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestCreateAppointment_OverlappingIntervalRejected(t *testing.T) {
	repo := &fakeApptRepo{}
	service := haircut()
	service.DurationMinutes = 60
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   service,
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(repo, client, tuesdayNoon)

	_, err := uc.Execute(context.Background(), bookingRequest())
	require.NoError(t, err)

	// 10:30 пересекается с [10:00, 11:00) — времена начала разные,
	// защищает перепроверка занятости, а не уникальный индекс
	req := bookingRequest()
	req.StartTime = "10:30"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestCreateAppointment_RequestedEmployeeUsesEmployeeDayFetch(t *testing.T) {
	repo := &fakeApptRepo{}
	service := haircut()
	service.DurationMinutes = 60
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   service,
		employees: []businessservice.Employee{barber(3), barber(5)},
	}
	uc := newTestUseCase(repo, client, tuesdayNoon)

	req := bookingRequest()
	req.EmployeeID = ptr.Ptr(int64(3))
	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Запись другого мастера не мешает выбранному: перепроверка
	// занятости читает только день запрошенного сотрудника
	req = bookingRequest()
	req.EmployeeID = ptr.Ptr(int64(5))
	_, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Пересечение с собственной записью мастера по-прежнему блокирует
	req = bookingRequest()
	req.EmployeeID = ptr.Ptr(int64(3))
	req.StartTime = "10:30"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	assert.Equal(t, 3, repo.employeeFetches)
	assert.Zero(t, repo.businessFetches)
}

func TestCreateAppointment_AnyPicksLowestFreeEmployee(t *testing.T) {
	repo := &fakeApptRepo{}
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(8), barber(3), barber(5)},
	}
	uc := newTestUseCase(repo, client, tuesdayNoon)

	resp, err := uc.Execute(context.Background(), bookingRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.EmployeeID)

	// Следующее бронирование того же слота достаётся следующему по ID
	resp, err = uc.Execute(context.Background(), bookingRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.EmployeeID)
}

func TestCreateAppointment_ConcurrentSameSlot_ExactlyOneWins(t *testing.T) {
	const goroutines = 16

	repo := &fakeApptRepo{}
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(repo, client, tuesdayNoon)

	var wg sync.WaitGroup
	results := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), bookingRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, lost int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotNotAvailable):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one booking must win the slot")
	assert.Equal(t, goroutines-1, lost)

	stored, err := repo.GetByBusinessWithFilter(context.Background(), domain.BusinessDayFilter{BusinessID: 1, Date: &monday})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCreateAppointment_ConcurrentAnyWithOneEmployee_ExactlyOneWins(t *testing.T) {
	const goroutines = 8

	repo := &fakeApptRepo{}
	client := &fakeBusinessClient{
		business:  mondayBusiness(),
		service:   haircut(),
		employees: []businessservice.Employee{barber(5)},
	}
	uc := newTestUseCase(repo, client, tuesdayNoon)

	var wg sync.WaitGroup
	results := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// EmployeeID не указан: оба запроса претендуют на одного мастера
			_, err := uc.Execute(context.Background(), bookingRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
		}
	}
	assert.Equal(t, 1, succeeded)
}
