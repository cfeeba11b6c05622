package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// GuestInfo гостевые данные клиента без аккаунта.
// Все три поля обязательны, если запись создаётся без clientId.
type GuestInfo struct {
	Name  string
	Email string
	Phone string
}

// Request модель запроса на создание записи
type Request struct {
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	EmployeeID *int64           // ID сотрудника; nil = любой подходящий ("any")
	Date       time.Time        // Дата записи (без времени, локальная для бизнеса)
	StartTime  types.TimeString // Время начала (например, "10:00")

	// Идентичность клиента: ровно одна из двух форм
	ClientID *int64
	Guest    *GuestInfo

	Notes *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID         int64  // ID созданной записи
	BusinessID int64  // ID бизнеса
	ServiceID  int64  // ID услуги
	EmployeeID int64  // Конкретный сотрудник (разрешён при бронировании)

	ClientID   *int64  // ID зарегистрированного клиента (если есть)
	GuestName  *string // Имя гостя (если гостевая запись)
	GuestEmail *string
	GuestPhone *string

	Date            time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	EndTime         types.TimeString // Время окончания (start + duration)
	DurationMinutes int              // Длительность, снапшот услуги
	Status          string           // Начальный статус (pending/confirmed)

	// Снапшот услуги на момент записи
	ServiceName  string
	ServicePrice float64

	IsPaid bool
	Notes  *string

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
