package domain

import (
	"sort"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Interval is a half-open busy interval [Start, End) within one day
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Overlaps reports whether two half-open intervals actually intersect.
// Touching intervals (one ends exactly where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.IsBefore(other.End) && other.Start.IsBefore(i.End)
}

// Contains reports whether the time t falls inside [Start, End)
func (i Interval) Contains(t types.TimeString) bool {
	return !t.IsBefore(i.Start) && t.IsBefore(i.End)
}

// OccupancyIndex maps each employee to their sorted, non-overlapping busy
// intervals for one business-local day, derived from non-terminal
// appointments only
type OccupancyIndex map[int64][]Interval

// BuildOccupancyIndex derives the per-employee busy intervals from a day's
// appointments. Terminal appointments are skipped. Overlapping intervals for
// one employee should never exist if the booking invariant holds, but data
// repaired out-of-band must not break reads, so intervals are coalesced
// defensively.
func BuildOccupancyIndex(appointments []*Appointment) OccupancyIndex {
	index := make(OccupancyIndex)

	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		index[a.EmployeeID] = append(index[a.EmployeeID], a.Interval())
	}

	for employeeID, intervals := range index {
		index[employeeID] = coalesce(intervals)
	}

	return index
}

// IsFree reports whether the employee has no busy interval overlapping the
// candidate. An employee absent from the index is free all day.
func (idx OccupancyIndex) IsFree(employeeID int64, candidate Interval) bool {
	for _, busy := range idx[employeeID] {
		if busy.Overlaps(candidate) {
			return false
		}
	}
	return true
}

// coalesce sorts intervals by start and merges any that overlap or touch
func coalesce(intervals []Interval) []Interval {
	if len(intervals) <= 1 {
		return intervals
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Start == intervals[j].Start {
			return intervals[i].End.IsBefore(intervals[j].End)
		}
		return intervals[i].Start.IsBefore(intervals[j].Start)
	})

	merged := make([]Interval, 0, len(intervals))
	current := intervals[0]

	for _, next := range intervals[1:] {
		if next.Start.IsAfter(current.End) {
			merged = append(merged, current)
			current = next
			continue
		}
		if next.End.IsAfter(current.End) {
			current.End = next.End
		}
	}

	return append(merged, current)
}
