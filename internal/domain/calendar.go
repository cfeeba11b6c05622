package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// DaySchedule is one weekday entry of a business's working-hours table
type DaySchedule struct {
	IsOpen    bool
	OpenTime  *string // "HH:MM", nil when closed
	CloseTime *string // "HH:MM", strictly after OpenTime; midnight crossing unsupported
}

// WeekSchedule is a business's full weekly working-hours table
type WeekSchedule struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForDate returns the schedule entry for the date's weekday
func (w WeekSchedule) ForDate(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// ErrInvalidSchedule is returned when a day's hours are malformed
// (bad time format, or closing time not strictly after opening time)
var ErrInvalidSchedule = errors.New("invalid working hours")

// StartTimeRange is the inclusive range of valid appointment start times for
// one day and one service duration: [From, To]. A service started at To
// finishes exactly at closing time.
type StartTimeRange struct {
	From types.TimeString
	To   types.TimeString
}

// DayStartTimeRange narrows a day's open interval [open, close) to the range
// of start times at which a service of durationMinutes still finishes before
// closing. Returns ok=false (and no error) when the business is closed that
// day or the duration does not fit the open window at all.
func DayStartTimeRange(day DaySchedule, durationMinutes int) (StartTimeRange, bool, error) {
	if durationMinutes <= 0 {
		return StartTimeRange{}, false, fmt.Errorf("%w: duration must be positive", ErrInvalidSchedule)
	}

	if !day.IsOpen || day.OpenTime == nil || day.CloseTime == nil {
		return StartTimeRange{}, false, nil
	}

	open, err := types.NewTimeStringFromString(*day.OpenTime)
	if err != nil {
		return StartTimeRange{}, false, fmt.Errorf("%w: open time: %v", ErrInvalidSchedule, err)
	}

	closeAt, err := types.NewTimeStringFromString(*day.CloseTime)
	if err != nil {
		return StartTimeRange{}, false, fmt.Errorf("%w: close time: %v", ErrInvalidSchedule, err)
	}

	if !open.IsBefore(closeAt) {
		return StartTimeRange{}, false, fmt.Errorf("%w: close time %s must be after open time %s", ErrInvalidSchedule, closeAt, open)
	}

	closeMinutes, err := closeAt.Minutes()
	if err != nil {
		return StartTimeRange{}, false, fmt.Errorf("%w: close time: %v", ErrInvalidSchedule, err)
	}

	openMinutes, err := open.Minutes()
	if err != nil {
		return StartTimeRange{}, false, fmt.Errorf("%w: open time: %v", ErrInvalidSchedule, err)
	}

	// A service longer than the whole open window yields an empty range,
	// not an error
	if closeMinutes-openMinutes < durationMinutes {
		return StartTimeRange{}, false, nil
	}

	lastStart, err := types.NewTimeStringFromMinutes(closeMinutes - durationMinutes)
	if err != nil {
		return StartTimeRange{}, false, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	return StartTimeRange{From: open, To: lastStart}, true, nil
}

// CandidateStartTimes generates start times within the range at a fixed
// interval step, range ends inclusive. The result is ascending and unique.
func CandidateStartTimes(r StartTimeRange, intervalMinutes int) ([]types.TimeString, error) {
	if intervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot interval must be positive", ErrInvalidSchedule)
	}

	candidates := make([]types.TimeString, 0)
	current := r.From

	for !current.IsAfter(r.To) {
		candidates = append(candidates, current)

		next, err := current.AddMinutes(intervalMinutes)
		if err != nil {
			// ran past end of day
			break
		}
		current = next
	}

	return candidates, nil
}
