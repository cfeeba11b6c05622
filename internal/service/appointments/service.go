package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	apptRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// Service сервис для чтения записей и переходов статусов
type Service struct {
	appointmentRepo AppointmentRepository
	businessClient  BusinessServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	businessClient BusinessServiceClient,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		businessClient:  businessClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// GetClientAppointments получает историю записей зарегистрированного клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: fetched %d appointments for client=%d", len(appointments), req.ClientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetBusinessAppointments получает записи бизнеса с фильтрацией по дате и статусу
// Используется стойкой регистрации для листа дня
func (s *Service) GetBusinessAppointments(ctx context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetBusinessAppointments: fetching appointments for business=%d, date=%v, status=%v, includeInactive=%v",
		req.BusinessID, req.Date, req.Status, req.IncludeInactive)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessAppointments: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessAppointments: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessAppointments: fetched %d appointments for business=%d", len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Transition переводит запись в новый статус по таблице переходов.
// Сам переход — чистая доменная функция; применение к хранилищу идёт через
// compare-and-swap по текущему статусу, чтобы конкурирующие переходы одной
// записи не применились оба. Last-write-wins здесь недопустим: он может
// молча откатить терминальный статус.
func (s *Service) Transition(ctx context.Context, appointmentID int64, req *models.TransitionRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Transition: appointment id=%d to status=%s", appointmentID, req.Status)

	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		s.logger.Warn("Transition: unknown status=%s for appointment id=%d", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// Получаем запись
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Transition: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Transition: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	// Настройка депозита бизнеса определяет побочный эффект завершения:
	// при собранном депозите isPaid остаётся на усмотрение биллинга
	requireDeposit := false
	if target == domain.StatusCompleted {
		business, err := s.businessClient.GetBusiness(ctx, appt.BusinessID)
		if err != nil {
			s.logger.Error("Transition: failed to get business id=%d: %v", appt.BusinessID, err)
			return nil, fmt.Errorf("%w: Transition - failed to get business: %v", ErrInternal, err)
		}
		requireDeposit = business.Settings.RequireDeposit
	}

	// Чистая проверка перехода и расчёт побочных эффектов
	updated, err := domain.ApplyTransition(*appt, target, domain.TransitionContext{
		Now:                s.timeProvider.Now(),
		RequireDeposit:     requireDeposit,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		s.logger.Warn("Transition: illegal transition %s -> %s for appointment id=%d",
			appt.Status, target, appointmentID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
	}

	// CAS-применение: срабатывает только если статус не изменился с момента чтения
	if err := s.appointmentRepo.UpdateStatusFrom(ctx, appointmentID, appt.Status, &updated); err != nil {
		if errors.Is(err, apptRepo.ErrStatusConflict) {
			s.logger.Warn("Transition: concurrent status change for appointment id=%d", appointmentID)
			return nil, ErrTransitionConflict
		}
		s.logger.Error("Transition: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Transition: appointment id=%d moved %s -> %s", appointmentID, appt.Status, target)
	return models.FromDomainAppointment(&updated), nil
}
