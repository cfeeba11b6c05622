package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.EmployeeID != nil && *req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано и корректно
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return validateIdentity(req)
}

// validateIdentity проверяет идентичность клиента: ровно одна форма —
// либо clientId, либо полные гостевые данные (имя, email, телефон)
func validateIdentity(req *Request) error {
	if req.ClientID != nil && req.Guest != nil {
		return fmt.Errorf("%w: clientId and guest info are mutually exclusive", ErrInvalidIdentity)
	}

	if req.ClientID != nil {
		if *req.ClientID <= 0 {
			return fmt.Errorf("%w: clientId must be positive", ErrInvalidIdentity)
		}
		return nil
	}

	if req.Guest == nil {
		return fmt.Errorf("%w: either clientId or guest info is required", ErrInvalidIdentity)
	}

	if req.Guest.Name == "" || req.Guest.Email == "" || req.Guest.Phone == "" {
		return fmt.Errorf("%w: guest booking requires name, email and phone", ErrInvalidIdentity)
	}

	return nil
}

// validateDate проверяет, что дата внутри окна бронирования:
// не в прошлом и не дальше maxAdvanceDays от сегодня
func validateDate(date time.Time, now time.Time, maxAdvanceDays int) error {
	if isDateInPast(date, now) {
		return fmt.Errorf("%w: date is in the past", ErrOutsideBookingWindow)
	}

	// maxAdvanceDays = 0 означает отсутствие ограничения
	if maxAdvanceDays <= 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, maxAdvanceDays)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrOutsideBookingWindow, maxAdvanceDays)
	}

	return nil
}

// validateStartTime проверяет, что услуга целиком помещается в рабочие часы
// и (для сегодняшней даты) не начинается в прошлом. Walk-in запись на текущую
// минуту допустима.
func validateStartTime(
	startTime types.TimeString,
	startRange domain.StartTimeRange,
	date time.Time,
	now time.Time,
) error {
	if startTime.IsBefore(startRange.From) || startTime.IsAfter(startRange.To) {
		return fmt.Errorf("%w: start time %s is outside working hours", ErrOutsideBookingWindow, startTime)
	}

	if isSameDay(date, now) {
		nowTime := types.NewTimeString(now)
		if startTime.IsBefore(nowTime) {
			return fmt.Errorf("%w: start time %s has already passed", ErrOutsideBookingWindow, startTime)
		}
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
