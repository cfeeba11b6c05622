package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// eligibleEmployees возвращает ID активных сотрудников, выполняющих услугу.
// Если requestedID задан, результат — либо этот один сотрудник (активный и
// подходящий), либо пустой список.
func eligibleEmployees(employees []businessservice.Employee, serviceID int64, requestedID *int64) []int64 {
	result := make([]int64, 0, len(employees))

	for _, e := range employees {
		if !e.IsActive || !e.CanPerform(serviceID) {
			continue
		}
		if requestedID != nil && e.ID != *requestedID {
			continue
		}
		result = append(result, e.ID)
	}

	return result
}

// markAvailability размечает кандидатов: слот доступен, если хотя бы один
// подходящий сотрудник свободен весь интервал [t, t+duration)
func markAvailability(
	candidates []types.TimeString,
	durationMinutes int,
	eligible []int64,
	index domain.OccupancyIndex,
) ([]domain.Slot, error) {
	slots := make([]domain.Slot, 0, len(candidates))

	for _, start := range candidates {
		end, err := start.AddMinutes(durationMinutes)
		if err != nil {
			return nil, err
		}

		candidate := domain.Interval{Start: start, End: end}

		available := false
		for _, employeeID := range eligible {
			if index.IsFree(employeeID, candidate) {
				available = true
				break
			}
		}

		slots = append(slots, domain.Slot{
			StartTime:       start,
			DurationMinutes: durationMinutes,
			Available:       available,
		})
	}

	return slots, nil
}

// dropPastCandidates убирает кандидатов, начинающихся не позже текущего
// времени. Применяется только когда запрошенная дата — сегодня.
func dropPastCandidates(candidates []types.TimeString, now time.Time) []types.TimeString {
	nowTime := types.NewTimeString(now)

	result := make([]types.TimeString, 0, len(candidates))
	for _, c := range candidates {
		if c.IsAfter(nowTime) {
			result = append(result, c)
		}
	}
	return result
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

// isBeyondBookingWindow проверяет, что дата превышает горизонт бронирования.
// maxAdvanceDays = 0 означает отсутствие ограничения.
func isBeyondBookingWindow(date, now time.Time, maxAdvanceDays int) bool {
	if maxAdvanceDays <= 0 {
		return false
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, maxAdvanceDays)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	return dateOnly.After(maxDate)
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
