package reception

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reception/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Service сервис стойки регистрации: проекция занятости сотрудников
// и управление флагами перерыва.
// Состояние сотрудника нигде не хранится — оно каждый раз выводится из
// записей дня и текущего времени, поэтому не бывает рассинхронизации
// между статусом записи и статусом сотрудника.
type Service struct {
	appointmentRepo AppointmentRepository
	businessClient  BusinessServiceClient
	breakStore      BreakStore
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса стойки регистрации
func NewService(
	appointmentRepo AppointmentRepository,
	businessClient BusinessServiceClient,
	breakStore BreakStore,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		businessClient:  businessClient,
		breakStore:      breakStore,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetReceptionView возвращает текущее состояние всех активных сотрудников
// бизнеса: available, busy или break
func (s *Service) GetReceptionView(ctx context.Context, businessID int64) (*models.ReceptionResponse, error) {
	s.logger.Info("GetReceptionView: building view for business=%d", businessID)

	business, err := s.businessClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessservice.ErrBusinessNotFound) {
			s.logger.Warn("GetReceptionView: business=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("GetReceptionView: failed to get business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetReceptionView - failed to get business: %v", ErrInternal, err)
	}

	employees, err := s.businessClient.GetEmployees(ctx, businessID)
	if err != nil {
		s.logger.Error("GetReceptionView: failed to get employees for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetReceptionView - failed to get employees: %v", ErrInternal, err)
	}

	// Все времена проекции — в локальном времени бизнеса
	now := s.timeProvider.Now().In(businessLocation(business, s.logger))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	appointments, err := s.appointmentRepo.GetByBusinessWithFilter(ctx, domain.BusinessDayFilter{
		BusinessID: businessID,
		Date:       &today,
	})
	if err != nil {
		s.logger.Error("GetReceptionView: failed to get appointments for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetReceptionView - failed to get appointments: %v", ErrInternal, err)
	}

	nowTime := types.NewTimeString(now)

	statuses := make([]models.EmployeeStatus, 0, len(employees))
	for i := range employees {
		emp := &employees[i]
		if !emp.IsActive {
			continue
		}

		status := models.EmployeeStatus{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			State:      domain.StateAvailable,
		}

		if current := currentAppointment(appointments, emp.ID, nowTime); current != nil {
			status.State = domain.StateBusy
			status.CurrentAppointmentID = &current.ID
			busyUntil := current.EndTime.String()
			status.BusyUntil = &busyUntil
		} else if s.breakStore.IsOnBreak(businessID, emp.ID) {
			// Флаг перерыва перекрывает только available: занятость
			// по записи всегда важнее
			status.State = domain.StateBreak
		}

		statuses = append(statuses, status)
	}

	s.logger.Info("GetReceptionView: built view for business=%d, employees=%d", businessID, len(statuses))

	return &models.ReceptionResponse{
		BusinessID: businessID,
		Date:       today.Format(domain.DateFormat),
		Employees:  statuses,
	}, nil
}

// SetBreak устанавливает или снимает флаг перерыва сотрудника
func (s *Service) SetBreak(ctx context.Context, businessID, employeeID int64, req *models.SetBreakRequest) error {
	s.logger.Info("SetBreak: business=%d, employee=%d, onBreak=%v", businessID, employeeID, req.OnBreak)

	employees, err := s.businessClient.GetEmployees(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessservice.ErrBusinessNotFound) {
			s.logger.Warn("SetBreak: business=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("SetBreak: failed to get employees for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: SetBreak - failed to get employees: %v", ErrInternal, err)
	}

	found := false
	for i := range employees {
		if employees[i].ID == employeeID {
			found = true
			break
		}
	}
	if !found {
		s.logger.Warn("SetBreak: employee=%d not found in business=%d", employeeID, businessID)
		return ErrEmployeeNotFound
	}

	if req.OnBreak {
		s.breakStore.Set(businessID, employeeID)
	} else {
		s.breakStore.Clear(businessID, employeeID)
	}

	return nil
}

// currentAppointment находит запись сотрудника, занимающую его прямо сейчас.
// Сотрудник занят, если интервал активной записи содержит текущий момент и
// запись в работе либо подтверждена/клиент отмечен. Статус pending сотрудника
// не занимает: визит ещё не подтверждён.
func currentAppointment(appointments []*domain.Appointment, employeeID int64, now types.TimeString) *domain.Appointment {
	for _, a := range appointments {
		if a.EmployeeID != employeeID || !a.IsActive() {
			continue
		}
		if !a.Interval().Contains(now) {
			continue
		}
		switch a.Status {
		case domain.StatusInProgress, domain.StatusConfirmed, domain.StatusCheckedIn:
			return a
		}
	}
	return nil
}

// businessLocation возвращает таймзону бизнеса, UTC при некорректной таймзоне
func businessLocation(business *businessservice.Business, logger Logger) *time.Location {
	if business.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(business.Timezone)
	if err != nil {
		logger.Warn("businessLocation: invalid timezone %q for business=%d, falling back to UTC",
			business.Timezone, business.ID)
		return time.UTC
	}
	return loc
}
