package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на расчёт доступных слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	EmployeeID *int64    // ID сотрудника; nil = любой подходящий сотрудник
	Date       time.Time // Дата, на которую запрашиваются слоты (без времени)
}

// Response модель ответа со списком слотов и их доступностью.
// Slots всегда отсортирован по возрастанию времени. Пустой список — не ошибка:
// бизнес закрыт, дата вне окна бронирования или нет подходящих сотрудников.
type Response struct {
	Date       time.Time     // Дата, на которую запрашивались слоты
	BusinessID int64         // ID бизнеса
	ServiceID  int64         // ID услуги
	EmployeeID *int64        // ID сотрудника из запроса (если был указан)
	Slots      []domain.Slot // Все слоты-кандидаты с флагом доступности
}
