package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func interval(start, end string) Interval {
	return Interval{Start: types.TimeString(start), End: types.TimeString(end)}
}

func TestInterval_Overlaps(t *testing.T) {
	base := interval("10:00", "11:00")

	assert.True(t, base.Overlaps(interval("10:30", "11:30")))
	assert.True(t, base.Overlaps(interval("09:30", "10:30")))
	assert.True(t, base.Overlaps(interval("10:15", "10:45")))
	assert.True(t, base.Overlaps(interval("09:00", "12:00")))

	// Touching intervals do not overlap: half-open semantics
	assert.False(t, base.Overlaps(interval("11:00", "12:00")))
	assert.False(t, base.Overlaps(interval("09:00", "10:00")))
	assert.False(t, base.Overlaps(interval("12:00", "13:00")))
}

func TestInterval_Contains(t *testing.T) {
	i := interval("10:00", "11:00")

	assert.True(t, i.Contains("10:00"))
	assert.True(t, i.Contains("10:59"))
	assert.False(t, i.Contains("11:00"))
	assert.False(t, i.Contains("09:59"))
}

func TestBuildOccupancyIndex_SkipsTerminal(t *testing.T) {
	appointments := []*Appointment{
		{EmployeeID: 1, StartTime: "10:00", EndTime: "10:30", Status: StatusConfirmed},
		{EmployeeID: 1, StartTime: "11:00", EndTime: "11:30", Status: StatusCancelled},
		{EmployeeID: 2, StartTime: "10:00", EndTime: "10:30", Status: StatusCompleted},
	}

	index := BuildOccupancyIndex(appointments)

	require.Len(t, index[1], 1)
	assert.Equal(t, interval("10:00", "10:30"), index[1][0])

	// Completed and cancelled appointments free their slots
	assert.Empty(t, index[2])
	assert.True(t, index.IsFree(2, interval("10:00", "10:30")))
}

func TestBuildOccupancyIndex_CoalescesOverlaps(t *testing.T) {
	// Overlapping intervals should not exist, but repaired data must not
	// break reads
	appointments := []*Appointment{
		{EmployeeID: 1, StartTime: "10:00", EndTime: "11:00", Status: StatusConfirmed},
		{EmployeeID: 1, StartTime: "10:30", EndTime: "11:30", Status: StatusPending},
		{EmployeeID: 1, StartTime: "13:00", EndTime: "14:00", Status: StatusInProgress},
	}

	index := BuildOccupancyIndex(appointments)

	require.Len(t, index[1], 2)
	assert.Equal(t, interval("10:00", "11:30"), index[1][0])
	assert.Equal(t, interval("13:00", "14:00"), index[1][1])
}

func TestBuildOccupancyIndex_MergesTouching(t *testing.T) {
	appointments := []*Appointment{
		{EmployeeID: 1, StartTime: "10:30", EndTime: "11:00", Status: StatusConfirmed},
		{EmployeeID: 1, StartTime: "10:00", EndTime: "10:30", Status: StatusConfirmed},
	}

	index := BuildOccupancyIndex(appointments)

	require.Len(t, index[1], 1)
	assert.Equal(t, interval("10:00", "11:00"), index[1][0])
}

func TestOccupancyIndex_IsFree(t *testing.T) {
	index := OccupancyIndex{
		1: {interval("10:00", "10:30")},
	}

	assert.False(t, index.IsFree(1, interval("10:00", "10:30")))
	assert.False(t, index.IsFree(1, interval("09:45", "10:15")))
	assert.True(t, index.IsFree(1, interval("10:30", "11:00")))
	assert.True(t, index.IsFree(1, interval("09:30", "10:00")))

	// Employee absent from the index is free all day
	assert.True(t, index.IsFree(99, interval("00:00", "24:00")))
}
