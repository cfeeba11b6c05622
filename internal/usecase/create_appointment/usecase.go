package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	apptRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	businessClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	clientAccounts "github.com/m04kA/SMC-SchedulingService/internal/integrations/clientservice"
)

// UseCase use case создания записи.
// Единственный путь записи в таблицу appointments помимо переходов статуса.
// Перепроверка доступности и вставка выполняются в одной сериализуемой
// транзакции с блокировкой строк дня (FOR UPDATE): два конкурирующих
// бронирования пересекающихся интервалов одного сотрудника не могут
// завершиться успешно оба.
type UseCase struct {
	appointmentRepo AppointmentRepository
	businessClient  BusinessServiceClient
	clientClient    ClientServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	businessClient BusinessServiceClient,
	clientClient ClientServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		businessClient:  businessClient,
		clientClient:    clientClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: business=%d, service=%d, employee=%v, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.EmployeeID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных (до обращения к хранилищу)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес
	business, err := uc.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Текущее время в таймзоне бизнеса
	now := uc.timeProvider.Now().In(businessLocation(business.Timezone))

	// 4. Дата внутри окна бронирования
	if err := validateDate(req.Date, now, business.Settings.MaxAdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 5. Получаем услугу; цена и длительность снапшотятся с неё
	service, err := uc.businessClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 6. Рабочие часы: бизнес открыт и услуга помещается до закрытия
	day := business.WorkingHours.ForDate(req.Date)
	startRange, open, err := domain.DayStartTimeRange(day, service.DurationMinutes)
	if err != nil {
		uc.logger.Error("CreateAppointment: invalid working hours for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}
	if !open {
		uc.logger.Warn("CreateAppointment: business id=%d is closed on %s", req.BusinessID, req.Date.Format(domain.DateFormat))
		return nil, ErrBusinessClosed
	}

	if err := validateStartTime(req.StartTime, startRange, req.Date, now); err != nil {
		uc.logger.Warn("CreateAppointment: start time validation failed: %v", err)
		return nil, err
	}

	// 7. Идентичность клиента: зарегистрированный клиент проверяется в ClientService
	if req.ClientID != nil {
		if _, err := uc.clientClient.GetClient(ctx, *req.ClientID); err != nil {
			if errors.Is(err, clientAccounts.ErrClientNotFound) {
				uc.logger.Warn("CreateAppointment: client id=%d not found", *req.ClientID)
				return nil, fmt.Errorf("%w: client id=%d not found", ErrInvalidIdentity, *req.ClientID)
			}
			uc.logger.Error("CreateAppointment: failed to verify client id=%d: %v", *req.ClientID, err)
			return nil, fmt.Errorf("%w: failed to verify client: %v", ErrInternal, err)
		}
	}

	// 8. Подходящие сотрудники
	employees, err := uc.businessClient.GetEmployees(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get employees for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get employees: %v", ErrInternal, err)
	}

	eligible, err := resolveEligible(employees, req.ServiceID, req.EmployeeID)
	if err != nil {
		uc.logger.Warn("CreateAppointment: employee resolution failed: %v", err)
		return nil, err
	}

	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: service does not fit the day starting at %s: %v", req.StartTime, err)
		return nil, fmt.Errorf("%w: %v", ErrOutsideBookingWindow, err)
	}
	slot := domain.Interval{Start: req.StartTime, End: endTime}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 9. Перепроверка доступности + вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Активные записи на эту дату с блокировкой строк (FOR UPDATE).
		// При явном сотруднике блокируется только его день; для "any"
		// нужен весь день бизнеса, иначе выбор свободного сотрудника
		// делался бы по неполному индексу занятости.
		var appointments []*domain.Appointment
		var err error
		if req.EmployeeID != nil {
			appointments, err = uc.appointmentRepo.GetByEmployeeAndDate(txCtx, domain.EmployeeDayFilter{
				EmployeeID:      *req.EmployeeID,
				Date:            req.Date,
				IncludeInactive: false,
			})
		} else {
			appointments, err = uc.appointmentRepo.GetByBusinessWithFilter(txCtx, domain.BusinessDayFilter{
				BusinessID:      req.BusinessID,
				Date:            &req.Date,
				IncludeInactive: false,
			})
		}
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		index := domain.BuildOccupancyIndex(appointments)

		// 9.2. Разрешаем "any" в конкретного свободного сотрудника.
		// Выбор зафиксирован в той же транзакции, что и вставка: два
		// конкурирующих "any"-запроса не могут выбрать одного сотрудника
		// на пересекающиеся интервалы.
		employeeID, found := pickFreeEmployee(eligible, index, slot)
		if !found {
			uc.logger.Warn("CreateAppointment: no free employee for business=%d, date=%s, slot=%s-%s",
				req.BusinessID, req.Date.Format(domain.DateFormat), slot.Start, slot.End)
			return ErrSlotNotAvailable
		}

		// 9.3. Создаем запись со снапшотом услуги
		appt := &domain.Appointment{
			BusinessID:      req.BusinessID,
			ServiceID:       req.ServiceID,
			EmployeeID:      employeeID,
			ClientID:        req.ClientID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: service.DurationMinutes,
			ServiceName:     service.Name,
			ServicePrice:    servicePrice(service),
			Status:          domain.InitialStatus(business.Settings.AutoConfirm),
			Notes:           req.Notes,
		}
		if req.Guest != nil {
			appt.GuestName = &req.Guest.Name
			appt.GuestEmail = &req.Guest.Email
			appt.GuestPhone = &req.Guest.Phone
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, apptRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateAppointment: slot unique index violation for employee=%d", employeeID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, employee=%d, status=%s",
		result.ID, result.EmployeeID, result.Status)

	return toResponse(result), nil
}

// resolveEligible возвращает кандидатов на выполнение записи.
// Если employeeID задан — ровно этот сотрудник (с проверкой активности и
// квалификации), иначе все активные сотрудники, выполняющие услугу.
func resolveEligible(employees []businessClient.Employee, serviceID int64, employeeID *int64) ([]int64, error) {
	if employeeID != nil {
		for _, e := range employees {
			if e.ID != *employeeID {
				continue
			}
			if !e.IsActive || !e.CanPerform(serviceID) {
				return nil, ErrEmployeeInactive
			}
			return []int64{e.ID}, nil
		}
		return nil, ErrEmployeeNotFound
	}

	eligible := make([]int64, 0, len(employees))
	for _, e := range employees {
		if e.IsActive && e.CanPerform(serviceID) {
			eligible = append(eligible, e.ID)
		}
	}

	if len(eligible) == 0 {
		return nil, ErrEmployeeNotFound
	}

	return eligible, nil
}

// pickFreeEmployee выбирает свободного сотрудника для слота.
// Детерминированно: наименьший ID из свободных.
func pickFreeEmployee(eligible []int64, index domain.OccupancyIndex, slot domain.Interval) (int64, bool) {
	var best int64
	found := false

	for _, id := range eligible {
		if !index.IsFree(id, slot) {
			continue
		}
		if !found || id < best {
			best = id
			found = true
		}
	}

	return best, found
}

// servicePrice извлекает цену из услуги
// Если цена не указана (nil), возвращает 0.0
func servicePrice(service *businessClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}

// businessLocation возвращает таймзону бизнеса; при некорректном теге — UTC
func businessLocation(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// toResponse конвертирует доменную запись в response
func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		ServiceID:       a.ServiceID,
		EmployeeID:      a.EmployeeID,
		ClientID:        a.ClientID,
		GuestName:       a.GuestName,
		GuestEmail:      a.GuestEmail,
		GuestPhone:      a.GuestPhone,
		Date:            a.Date,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		IsPaid:          a.IsPaid,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
