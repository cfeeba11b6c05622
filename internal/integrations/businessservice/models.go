package businessservice

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Business модель бизнеса из BusinessService.
// Рабочие часы и настройки принадлежат модулю профиля бизнеса,
// для ядра планирования они read-only.
type Business struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Timezone     string              `json:"timezone"` // IANA, например "Europe/Moscow"
	WorkingHours domain.WeekSchedule `json:"working_hours"`
	Settings     Settings            `json:"settings"`
}

// Settings настройки бронирования бизнеса
type Settings struct {
	SlotIntervalMinutes   int  `json:"slot_interval_minutes"`
	MaxAdvanceBookingDays int  `json:"max_advance_booking_days"` // 0 = без ограничения
	AutoConfirm           bool `json:"auto_confirm"`
	RequireDeposit        bool `json:"require_deposit"`
}

// Service модель услуги бизнеса
type Service struct {
	ID              int64    `json:"id"`
	BusinessID      int64    `json:"business_id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price"`
	IsActive        bool     `json:"is_active"`
}

// Employee модель сотрудника бизнеса
type Employee struct {
	ID         int64   `json:"id"`
	BusinessID int64   `json:"business_id"`
	Name       string  `json:"name"`
	ServiceIDs []int64 `json:"service_ids"` // услуги, которые сотрудник выполняет
	IsActive   bool    `json:"is_active"`
}

// CanPerform проверяет, что сотрудник выполняет указанную услугу
func (e *Employee) CanPerform(serviceID int64) bool {
	for _, id := range e.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от BusinessService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
