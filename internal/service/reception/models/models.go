package models

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// EmployeeStatus текущее состояние одного сотрудника на стойке регистрации
type EmployeeStatus struct {
	EmployeeID           int64                `json:"employeeId"`
	Name                 string               `json:"name"`
	State                domain.EmployeeState `json:"state"`
	CurrentAppointmentID *int64               `json:"currentAppointmentId,omitempty"`
	BusyUntil            *string              `json:"busyUntil,omitempty"` // HH:MM
}

// ReceptionResponse вид стойки регистрации: состояние всех активных
// сотрудников бизнеса на текущий момент
type ReceptionResponse struct {
	BusinessID int64            `json:"businessId"`
	Date       string           `json:"date"` // YYYY-MM-DD, локальная дата бизнеса
	Employees  []EmployeeStatus `json:"employees"`
}

// SetBreakRequest запрос на установку или снятие флага перерыва
type SetBreakRequest struct {
	OnBreak bool `json:"onBreak"`
}
