package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	businessClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
)

// UseCase use case расчёта доступных слотов для бронирования.
// Результат носит консультативный характер: перед созданием записи
// доступность перепроверяется внутри транзакции бронирования.
type UseCase struct {
	appointmentRepo AppointmentRepository
	businessClient  BusinessServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	businessClient BusinessServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		businessClient:  businessClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case расчёта доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: business=%d, service=%d, employee=%v, date=%s",
		req.BusinessID, req.ServiceID, req.EmployeeID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	emptyResponse := &Response{
		Date:       req.Date,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		EmployeeID: req.EmployeeID,
		Slots:      []domain.Slot{},
	}

	// 2. Получаем бизнес (рабочие часы, настройки, таймзона)
	business, err := uc.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailability: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailability: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Текущее время в таймзоне бизнеса: все даты и времена ядра локальны
	// для бизнеса
	now := uc.timeProvider.Now().In(businessLocation(business.Timezone))

	// 4. Дата в прошлом или за горизонтом бронирования — пустой список,
	// это граница политики, а не ошибка
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailability: date %s is in the past", req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}
	if isBeyondBookingWindow(req.Date, now, business.Settings.MaxAdvanceBookingDays) {
		uc.logger.Info("GetAvailability: date %s is beyond booking window of %d days",
			req.Date.Format(domain.DateFormat), business.Settings.MaxAdvanceBookingDays)
		return emptyResponse, nil
	}

	// 5. Получаем услугу
	service, err := uc.businessClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Info("GetAvailability: service id=%d is inactive", req.ServiceID)
		return emptyResponse, nil
	}

	// 6. Диапазон допустимых времен начала: услуга должна закончиться до закрытия
	day := business.WorkingHours.ForDate(req.Date)
	startRange, ok, err := domain.DayStartTimeRange(day, service.DurationMinutes)
	if err != nil {
		uc.logger.Error("GetAvailability: invalid working hours for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}
	if !ok {
		uc.logger.Info("GetAvailability: business id=%d is closed on %s or service does not fit",
			req.BusinessID, req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}

	// 7. Генерируем кандидатов с шагом из настроек бизнеса
	interval := business.Settings.SlotIntervalMinutes
	if interval <= 0 {
		interval = domain.DefaultSlotIntervalMinutes
	}

	candidates, err := domain.CandidateStartTimes(startRange, interval)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to generate candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidates: %v", ErrInternal, err)
	}

	// 8. Для сегодняшней даты убираем кандидатов, начинающихся не позже
	// текущего времени
	if isSameDay(req.Date, now) {
		candidates = dropPastCandidates(candidates, now)
	}

	// 9. Подходящие сотрудники: активные, выполняющие услугу, с учетом
	// запрошенного employeeID
	employees, err := uc.businessClient.GetEmployees(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get employees for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get employees: %v", ErrInternal, err)
	}

	eligible := eligibleEmployees(employees, req.ServiceID, req.EmployeeID)
	if len(eligible) == 0 {
		uc.logger.Info("GetAvailability: no eligible employees for business=%d, service=%d, employee=%v",
			req.BusinessID, req.ServiceID, req.EmployeeID)
		return emptyResponse, nil
	}

	// 10. Индекс занятости по нетерминальным записям на эту дату
	filter := domain.BusinessDayFilter{
		BusinessID:      req.BusinessID,
		Date:            &req.Date,
		IncludeInactive: false, // терминальные записи слот не занимают
	}

	appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	index := domain.BuildOccupancyIndex(appointments)

	// 11. Размечаем доступность каждого слота
	slots, err := markAvailability(candidates, service.DurationMinutes, eligible, index)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to mark availability: %v", err)
		return nil, fmt.Errorf("%w: failed to mark availability: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailability: computed %d slots for business=%d, service=%d, date=%s",
		len(slots), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:       req.Date,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		EmployeeID: req.EmployeeID,
		Slots:      slots,
	}, nil
}
